package compliance

import "strings"

// Fallback size when a spec document has no explicit Specification section.
const defaultSpecExcerptBytes = 10000

// SpecSection extracts the "## Specification" section from a markdown spec
// document. Documents without one degrade to a bounded prefix of the full
// text, so the analyzer always receives something.
func SpecSection(markdown string, maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = defaultSpecExcerptBytes
	}

	var (
		section   []string
		inSection bool
	)
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "## ") {
			if inSection {
				break
			}
			heading := strings.ToLower(strings.TrimSpace(line[3:]))
			inSection = heading == "specification"
			continue
		}
		if inSection {
			section = append(section, line)
		}
	}

	if len(section) > 0 {
		return strings.Join(section, "\n")
	}
	if len(markdown) > maxBytes {
		return markdown[:maxBytes]
	}
	return markdown
}
