package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conformant = `{
  "status": "PARTIAL_MATCH",
  "confidence": 72,
  "issues": [
    {
      "type": "MISSING_CHECK",
      "severity": "HIGH",
      "spec_reference": "Section 4.3",
      "code_location": "validate_block:120",
      "description": "base fee bounds are not enforced",
      "suggestion": "clamp the delta before applying it"
    }
  ],
  "summary": "Mostly compliant with one gap."
}`

func TestDecodeResponseConformant(t *testing.T) {
	res := DecodeResponse("core/fee.go", conformant)

	assert.Equal(t, StatusPartialMatch, res.Status)
	assert.Equal(t, 72, res.Confidence)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, FindingMissingCheck, res.Findings[0].Type)
	assert.Equal(t, SeverityHigh, res.Findings[0].Severity)
	assert.Equal(t, "core/fee.go", res.Path)
	assert.Empty(t, res.Diagnostic)
}

func TestDecodeResponseStripsMarkdownFences(t *testing.T) {
	raw := "```json\n" + conformant + "\n```"
	res := DecodeResponse("core/fee.go", raw)
	assert.Equal(t, StatusPartialMatch, res.Status)
}

func TestDecodeResponseExtractsObjectFromProse(t *testing.T) {
	raw := "Sure, here is my analysis:\n" + conformant + "\nLet me know if you need more."
	res := DecodeResponse("core/fee.go", raw)
	assert.Equal(t, StatusPartialMatch, res.Status)
	assert.Len(t, res.Findings, 1)
}

func TestDecodeResponseRepairsTruncatedJSON(t *testing.T) {
	// Output cut off inside the summary string by a token limit.
	raw := `{"status": "FULL_MATCH", "confidence": 95, "issues": [], "summary": "The implementation matc`
	res := DecodeResponse("core/fee.go", raw)

	assert.Equal(t, StatusFullMatch, res.Status)
	assert.Equal(t, 95, res.Confidence)
}

func TestDecodeResponseGarbageBecomesError(t *testing.T) {
	res := DecodeResponse("core/fee.go", "I could not analyze this file, sorry.")

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, res.Confidence)
	assert.Empty(t, res.Findings)
	assert.NotEmpty(t, res.Diagnostic)
}

func TestDecodeResponseSelfReportedError(t *testing.T) {
	raw := `{"status": "ERROR", "confidence": 80, "issues": [{"severity":"HIGH"}], "summary": "context window exceeded"}`
	res := DecodeResponse("core/fee.go", raw)

	// Self-reported errors are normalized like local failures.
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, res.Confidence)
	assert.Empty(t, res.Findings)
	assert.Equal(t, "context window exceeded", res.Diagnostic)
}

func TestDecodeResponseCoercion(t *testing.T) {
	raw := `{"status": "kinda ok", "confidence": 250.7, "issues": [
      {"type": "INCORRECT_LOGIC", "severity": "CATASTROPHIC", "description": "x"},
      {"type": "edge_case", "severity": "medium", "description": "y"}
    ], "summary": "s"}`
	res := DecodeResponse("core/fee.go", raw)

	assert.Equal(t, StatusUncertain, res.Status, "unknown status coerces to UNCERTAIN")
	assert.Equal(t, 100, res.Confidence, "confidence clamps to [0,100]")
	require.Len(t, res.Findings, 2)
	assert.Equal(t, FindingDeviation, res.Findings[0].Type, "legacy type maps to DEVIATION")
	assert.Equal(t, SeverityLow, res.Findings[0].Severity, "unknown severity coerces to LOW")
	assert.Equal(t, FindingEdgeCase, res.Findings[1].Type)
	assert.Equal(t, SeverityMedium, res.Findings[1].Severity)
}

func TestDecodeResponseNegativeConfidence(t *testing.T) {
	raw := `{"status": "MISSING", "confidence": -5, "issues": [], "summary": ""}`
	res := DecodeResponse("core/fee.go", raw)
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, 0, res.Confidence)
}

func TestErrorResultInvariant(t *testing.T) {
	res := ErrorResult("a.go", "boom")

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, res.Confidence)
	assert.NotNil(t, res.Findings)
	assert.Empty(t, res.Findings)
	assert.Equal(t, "boom", res.Diagnostic)
}

func TestSeverityCountsAdd(t *testing.T) {
	var c SeverityCounts
	c.Add(SeverityHigh)
	c.Add(SeverityMedium)
	c.Add(SeverityLow)
	c.Add("WEIRD") // unknown counts as low

	assert.Equal(t, SeverityCounts{High: 1, Medium: 1, Low: 2}, c)
	assert.Equal(t, 4, c.Total())
}
