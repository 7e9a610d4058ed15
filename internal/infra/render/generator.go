package render

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
)

// Generator renders compliance reports to local files. One file per format,
// named after the spec, implementation and timestamp.
type Generator struct {
	OutputDir string
}

func New(outputDir string) *Generator {
	return &Generator{OutputDir: outputDir}
}

// Generate writes the report in the requested format and returns the file path.
func (g *Generator) Generate(r *domain.ComplianceReport, format string) (string, error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	base := fmt.Sprintf("%s_%s_%s", r.SpecID, r.ImplName, r.GeneratedAt.UTC().Format("20060102T150405Z"))

	switch strings.ToLower(format) {
	case "json":
		return g.write(base+".json", renderJSON(r))
	case "md", "markdown":
		return g.write(base+".md", func() ([]byte, error) { return []byte(renderMarkdown(r)), nil })
	case "html":
		return g.write(base+".html", func() ([]byte, error) { return []byte(renderHTML(r)), nil })
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) write(name string, render func() ([]byte, error)) (string, error) {
	body, err := render()
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.OutputDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func renderJSON(r *domain.ComplianceReport) func() ([]byte, error) {
	return func() ([]byte, error) {
		return json.MarshalIndent(r, "", "  ")
	}
}

func renderMarkdown(r *domain.ComplianceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Compliance Report: %s / %s\n\n", r.SpecID, r.ImplName)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Status:** %s  \n", r.AggregateStatus)
	fmt.Fprintf(&b, "**Confidence:** %d%%  \n", r.AggregateConfidence)
	fmt.Fprintf(&b, "**Findings:** %d high / %d medium / %d low\n\n",
		r.IssueCounts.High, r.IssueCounts.Medium, r.IssueCounts.Low)

	if r.ExecutiveSummary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(r.ExecutiveSummary)
		b.WriteString("\n\n")
	}

	b.WriteString("## Files\n\n")
	b.WriteString("| File | Status | Confidence | Findings |\n")
	b.WriteString("|------|--------|-----------:|---------:|\n")
	for _, fr := range r.FileResults {
		fmt.Fprintf(&b, "| `%s` | %s | %d%% | %d |\n", fr.Path, fr.Status, fr.Confidence, len(fr.Findings))
	}
	b.WriteString("\n")

	for _, fr := range r.FileResults {
		if len(fr.Findings) == 0 && fr.Diagnostic == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", fr.Path)
		if fr.Diagnostic != "" {
			fmt.Fprintf(&b, "> %s\n\n", fr.Diagnostic)
		}
		for _, f := range fr.Findings {
			fmt.Fprintf(&b, "- **[%s/%s]** %s", f.Severity, f.Type, f.Description)
			if f.CodeLocation != "" {
				fmt.Fprintf(&b, " (`%s`)", f.CodeLocation)
			}
			b.WriteString("\n")
			if f.SpecReference != "" {
				fmt.Fprintf(&b, "  - Spec reference: %s\n", f.SpecReference)
			}
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "  - Suggestion: %s\n", f.Suggestion)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

var statusColors = map[domain.AggregateStatus]string{
	domain.AggregateFullMatch:    "#2e7d32",
	domain.AggregatePartialMatch: "#f9a825",
	domain.AggregateIssuesFound:  "#c62828",
	domain.AggregateIncomplete:   "#616161",
}

func renderHTML(r *domain.ComplianceReport) string {
	color, ok := statusColors[r.AggregateStatus]
	if !ok {
		color = "#616161"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Compliance Report: %s / %s</title>\n", html.EscapeString(string(r.SpecID)), html.EscapeString(r.ImplName))
	b.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto;padding:0 1em}" +
		"table{border-collapse:collapse;width:100%}td,th{border:1px solid #ddd;padding:6px 10px}" +
		"th{background:#f5f5f5;text-align:left}.badge{color:#fff;padding:2px 10px;border-radius:4px}</style>\n")
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>Compliance Report: %s / %s</h1>\n", html.EscapeString(string(r.SpecID)), html.EscapeString(r.ImplName))
	fmt.Fprintf(&b, "<p>Generated: %s</p>\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "<p><span class=\"badge\" style=\"background:%s\">%s</span> &mdash; %d%% confidence, %d high / %d medium / %d low</p>\n",
		color, r.AggregateStatus, r.AggregateConfidence,
		r.IssueCounts.High, r.IssueCounts.Medium, r.IssueCounts.Low)

	if r.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(r.ExecutiveSummary))
	}

	b.WriteString("<table>\n<tr><th>File</th><th>Status</th><th>Confidence</th><th>Findings</th></tr>\n")
	for _, fr := range r.FileResults {
		fmt.Fprintf(&b, "<tr><td><code>%s</code></td><td>%s</td><td>%d%%</td><td>%d</td></tr>\n",
			html.EscapeString(fr.Path), fr.Status, fr.Confidence, len(fr.Findings))
	}
	b.WriteString("</table>\n")

	for _, fr := range r.FileResults {
		if len(fr.Findings) == 0 && fr.Diagnostic == "" {
			continue
		}
		fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(fr.Path))
		if fr.Diagnostic != "" {
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", html.EscapeString(fr.Diagnostic))
		}
		b.WriteString("<ul>\n")
		for _, f := range fr.Findings {
			fmt.Fprintf(&b, "<li><strong>[%s/%s]</strong> %s", f.Severity, f.Type, html.EscapeString(f.Description))
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "<br><em>Suggestion:</em> %s", html.EscapeString(f.Suggestion))
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
