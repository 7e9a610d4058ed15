package extract

import (
	"regexp"
	"strings"
)

// Declaration-opening patterns per brace-delimited language family. Group 1
// captures the declaration name.
var (
	goDeclPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`),
		regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\b`),
	}

	rustDeclPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?fn\s+(\w+)`),
		regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+(\w+)`),
		regexp.MustCompile(`^impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`),
	}

	cFamilyDeclPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:[\w\[\]<>,.]+\s+)*(?:class|interface|struct|enum|record)\s+(\w+)`),
	}
)

// How many lines past the declaration opener may pass before a brace must
// appear for the match to count as a declaration.
const braceSearchWindow = 5

// segmentBraces builds a segmenter that finds declarations via patterns and
// closes them by brace balance. String and comment contents can skew the
// balance; that is accepted as best effort, the same way a partially
// segmented file still yields usable regions.
func segmentBraces(patterns []*regexp.Regexp) segmentFunc {
	return func(source string) []decl {
		lines := strings.SplitAfter(source, "\n")
		offsets := make([]int, len(lines)+1)
		for i, line := range lines {
			offsets[i+1] = offsets[i] + len(line)
		}

		var decls []decl
		for i := 0; i < len(lines); i++ {
			name := matchDecl(patterns, lines[i])
			if name == "" {
				continue
			}
			end, ok := closeBraces(lines, i)
			if !ok {
				continue
			}
			decls = append(decls, decl{
				name:  name,
				start: offsets[i],
				end:   offsets[end+1],
			})
			i = end
		}
		return decls
	}
}

func matchDecl(patterns []*regexp.Regexp, line string) string {
	// Top-level declarations only: indented lines belong to an enclosing
	// block that an earlier match already consumed.
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return ""
	}
	trimmed := strings.TrimRight(line, "\r\n")
	for _, p := range patterns {
		if m := p.FindStringSubmatch(trimmed); m != nil {
			return m[1]
		}
	}
	return ""
}

// closeBraces returns the index of the line where the declaration opened at
// line i becomes balanced, or false when no brace opens within the window or
// the source ends unbalanced (truncated input).
func closeBraces(lines []string, i int) (int, bool) {
	depth := 0
	opened := false
	for j := i; j < len(lines); j++ {
		if !opened && j-i > braceSearchWindow {
			return 0, false
		}
		for _, c := range lines[j] {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return j, true
		}
	}
	if opened {
		// Unbalanced tail: take everything to EOF rather than dropping it.
		return len(lines) - 1, true
	}
	return 0, false
}
