package compliance

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// responsePayload mirrors the response schema demanded from the Reasoning
// Service. Every field is optional on the wire; coercion happens after decode.
type responsePayload struct {
	Status     string         `json:"status"`
	Confidence float64        `json:"confidence"`
	Issues     []issuePayload `json:"issues"`
	Summary    string         `json:"summary"`
}

type issuePayload struct {
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	SpecReference string `json:"spec_reference"`
	CodeLocation  string `json:"code_location"`
	Description   string `json:"description"`
	Suggestion    string `json:"suggestion"`
}

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?[ \t]*\n?")
	fenceClose = regexp.MustCompile("\n?```[ \t]*$")
	jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// Closing fragments tried, mildest first, when the model's JSON was cut off
// by an output limit.
var truncationSuffixes = []string{
	`}`,
	`"}`,
	`"]}`,
	`"}]}`,
	`"}}`,
	`"} ]}`,
	`"}],"summary":"Analysis truncated"}`,
	`"], "summary": "Analysis truncated"}`,
	`"}, "summary": "Analysis truncated"}`,
}

// DecodeResponse converts raw Reasoning Service output into a FileResult.
// The payload is untrusted: markdown fences, surrounding prose, and truncated
// JSON are all tolerated; anything unsalvageable becomes an ERROR result.
// It never returns an error.
func DecodeResponse(path, raw string) FileResult {
	payload, perr := salvageJSON(raw)
	if perr != nil {
		return ErrorResult(path, perr.Error())
	}
	return coerce(path, payload)
}

func salvageJSON(raw string) (responsePayload, error) {
	text := strings.TrimSpace(raw)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var payload responsePayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return payload, nil
	}

	// Some models wrap the object in explanation text.
	if m := jsonObject.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &payload); err == nil {
			return payload, nil
		}
	}

	// Repair truncated output: append progressively heavier closings.
	if start := strings.IndexByte(text, '{'); start >= 0 {
		fragment := text[start:]
		for _, suffix := range truncationSuffixes {
			if err := json.Unmarshal([]byte(fragment+suffix), &payload); err == nil {
				return payload, nil
			}
		}
		// Last resort: largest prefix ending at a closing brace that parses.
		for end := len(fragment) - 1; end > 0; end-- {
			if fragment[end] != '}' {
				continue
			}
			if err := json.Unmarshal([]byte(fragment[:end+1]), &payload); err == nil {
				return payload, nil
			}
		}
	}

	return responsePayload{}, &SchemaParseError{
		Cause:  "no JSON object found; the model output may have been truncated",
		RawLen: len(text),
	}
}

func coerce(path string, payload responsePayload) FileResult {
	status := FileStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))

	// A self-reported ERROR is normalized the same way a local failure is:
	// zero confidence, no findings, summary becomes the diagnostic.
	if status == StatusError {
		diag := payload.Summary
		if diag == "" {
			diag = "reasoning service reported an error"
		}
		return ErrorResult(path, diag)
	}
	if !status.Valid() || status == "" {
		status = StatusUncertain
	}

	confidence := int(math.Round(payload.Confidence))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	findings := make([]Finding, 0, len(payload.Issues))
	for _, issue := range payload.Issues {
		findings = append(findings, Finding{
			Type:          coerceType(issue.Type),
			Severity:      coerceSeverity(issue.Severity),
			SpecReference: issue.SpecReference,
			CodeLocation:  issue.CodeLocation,
			Description:   issue.Description,
			Suggestion:    issue.Suggestion,
		})
	}

	return FileResult{
		Path:       path,
		Status:     status,
		Confidence: confidence,
		Findings:   findings,
	}
}

func coerceType(t string) FindingType {
	switch FindingType(strings.ToUpper(strings.TrimSpace(t))) {
	case FindingMissingCheck:
		return FindingMissingCheck
	case FindingEdgeCase:
		return FindingEdgeCase
	case FindingMissing:
		return FindingMissing
	case "INCORRECT_LOGIC": // legacy vocabulary from older report samples
		return FindingDeviation
	default:
		return FindingDeviation
	}
}

func coerceSeverity(s string) Severity {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
