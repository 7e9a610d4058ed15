package extract

import "strings"

// decl is one segmented top-level declaration before keyword filtering.
type decl struct {
	name  string
	start int
	end   int // exclusive byte offset
}

// segmentFunc locates top-level declarations. Implementations are best
// effort: malformed input yields fewer (or zero) declarations, never a
// failure.
type segmentFunc func(source string) []decl

// One segmenter per language tag; unknown tags degrade to whole-file.
var segmenters = map[string]segmentFunc{
	"go":     segmentBraces(goDeclPatterns),
	"rust":   segmentBraces(rustDeclPatterns),
	"java":   segmentBraces(cFamilyDeclPatterns),
	"csharp": segmentBraces(cFamilyDeclPatterns),
	"c":      segmentBraces(cFamilyDeclPatterns),
	"cpp":    segmentBraces(cFamilyDeclPatterns),
	"python": segmentIndent,
}

// Extract returns the keyword-relevant regions of source, bounded by limits.
// Matching is case-insensitive substring matching against declaration names
// and bodies. When nothing matches, or the language cannot be segmented, the
// excerpt degrades to a single whole-file region. Never fails.
func Extract(path, source, language string, keywords []string, limits Limits) CodeExcerpt {
	limits = limits.normalized()

	segment, ok := segmenters[strings.ToLower(language)]
	var decls []decl
	if ok {
		decls = segment(source)
	}
	if len(decls) == 0 {
		return wholeFile(path, source, language, limits)
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}

	var regions []Region
	total := 0
	for _, d := range decls {
		body := source[d.start:d.end]
		if len(lowered) > 0 && !matches(d.name, body, lowered) {
			continue
		}
		text, truncated := capText(body, limits.MaxRegionBytes)
		if total+len(text) > limits.MaxTotalBytes {
			if len(regions) > 0 {
				break // budget spent; omit remaining matches
			}
			text, truncated = capText(body, limits.MaxTotalBytes)
		}
		total += len(text)
		regions = append(regions, Region{
			Name:      d.name,
			Start:     d.start,
			End:       d.end,
			Text:      text,
			Truncated: truncated,
		})
	}

	if len(regions) == 0 {
		return wholeFile(path, source, language, limits)
	}
	return CodeExcerpt{Path: path, Language: language, Regions: regions}
}

func matches(name, body string, keywords []string) bool {
	nameLower := strings.ToLower(name)
	bodyLower := strings.ToLower(body)
	for _, k := range keywords {
		if strings.Contains(nameLower, k) || strings.Contains(bodyLower, k) {
			return true
		}
	}
	return false
}

func wholeFile(path, source, language string, limits Limits) CodeExcerpt {
	text, truncated := capText(source, limits.MaxTotalBytes)
	return CodeExcerpt{
		Path:     path,
		Language: language,
		Regions: []Region{{
			Name:      "file",
			Start:     0,
			End:       len(source),
			Text:      text,
			Truncated: truncated,
		}},
		WholeFile: true,
	}
}
