package extract

import (
	"regexp"
	"strings"
)

var pyDeclPattern = regexp.MustCompile(`^(?:async\s+)?(?:def|class)\s+(\w+)`)

// segmentIndent locates top-level def/class blocks in indentation-delimited
// source. A block runs until the next line with content at column zero that
// is not a continuation of the block.
func segmentIndent(source string) []decl {
	lines := strings.SplitAfter(source, "\n")
	offsets := make([]int, len(lines)+1)
	for i, line := range lines {
		offsets[i+1] = offsets[i] + len(line)
	}

	var decls []decl
	for i := 0; i < len(lines); i++ {
		m := pyDeclPattern.FindStringSubmatch(strings.TrimRight(lines[i], "\r\n"))
		if m == nil {
			continue
		}
		end := i
		for j := i + 1; j < len(lines); j++ {
			stripped := strings.TrimSpace(lines[j])
			if stripped == "" {
				continue
			}
			if !strings.HasPrefix(lines[j], " ") && !strings.HasPrefix(lines[j], "\t") {
				// Decorators directly above the next declaration belong to it.
				break
			}
			end = j
		}
		decls = append(decls, decl{
			name:  m[1],
			start: offsets[i],
			end:   offsets[end+1],
		})
		i = end
	}
	return decls
}
