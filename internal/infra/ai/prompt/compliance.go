package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/extract"
)

// GetSystemPrompt provides strict directions and the fixed response schema.
// The schema never varies per spec; the user prompt carries all context.
func GetSystemPrompt() string {
	return `You are an expert protocol security researcher and auditor. You compare specification text against implementation code and report compliance issues. Respond ONLY with one valid JSON object (no markdown, no code fences, no commentary) in this exact format:
{
    "status": "FULL_MATCH" | "PARTIAL_MATCH" | "MISSING" | "UNCERTAIN",
    "confidence": <integer 0-100>,
    "issues": [
        {
            "type": "MISSING_CHECK" | "DEVIATION" | "EDGE_CASE" | "MISSING",
            "severity": "HIGH" | "MEDIUM" | "LOW",
            "spec_reference": "<exact text from specification>",
            "code_location": "<declaration name and approximate line>",
            "description": "<detailed explanation of the issue>",
            "suggestion": "<how to fix>"
        }
    ],
    "summary": "<2-3 sentence overall assessment>"
}

If the code correctly implements the specification, return status "FULL_MATCH" with an empty issues array.`
}

// GetUserPrompt builds the analysis request for one (spec excerpt, code
// excerpt) pair.
func GetUserPrompt(specExcerpt string, code extract.CodeExcerpt, actx compliance.AnalysisContext) string {
	var b strings.Builder

	label := actx.SpecTitle
	if label == "" {
		label = string(actx.SpecID)
	}

	fmt.Fprintf(&b, "TASK: Compare the %s specification with the implementation code and identify any compliance issues.\n\n", label)

	b.WriteString("=== SPECIFICATION ===\n")
	b.WriteString(specExcerpt)
	b.WriteString("\n\n=== CODE IMPLEMENTATION ===\n")
	for _, region := range code.Regions {
		if code.WholeFile {
			fmt.Fprintf(&b, "--- %s (whole file) ---\n", code.Path)
		} else {
			fmt.Fprintf(&b, "--- %s: %s ---\n", code.Path, region.Name)
		}
		b.WriteString(region.Text)
		b.WriteString("\n")
	}

	b.WriteString("\n=== CONTEXT ===\n")
	fmt.Fprintf(&b, "- Specification: %s\n", actx.SpecID)
	fmt.Fprintf(&b, "- File: %s\n", actx.FilePath)
	fmt.Fprintf(&b, "- Language: %s\n", actx.Language)
	fmt.Fprintf(&b, "- Focus Areas: %s\n", strings.Join(actx.FocusAreas, ", "))

	b.WriteString(`
=== ANALYSIS REQUIREMENTS ===
1. Does the code fully implement ALL requirements from the specification?
2. Are there any deviations from the specified behavior?
3. Are there missing validation checks?
4. Are there edge cases not handled?
5. Could any deviation lead to security issues or consensus failures?
`)

	return b.String()
}
