package extract

// Region is one extracted declaration: its name, byte offsets into the
// original source, and the (possibly truncated) text.
type Region struct {
	Name      string `json:"name"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated,omitempty"`
}

// CodeExcerpt is the size-bounded subset of one source file submitted for
// analysis. WholeFile marks the degraded single-region form used when no
// declaration matched or the source could not be segmented.
type CodeExcerpt struct {
	Path      string   `json:"path"`
	Language  string   `json:"language"`
	Regions   []Region `json:"regions"`
	WholeFile bool     `json:"whole_file,omitempty"`
}

// Limits caps excerpt sizes. Oversized declarations are truncated with a
// marker rather than dropped; once the total budget is spent, remaining
// matches are omitted.
type Limits struct {
	MaxRegionBytes int
	MaxTotalBytes  int
}

// DefaultLimits sized for large-context reasoning models.
func DefaultLimits() Limits {
	return Limits{
		MaxRegionBytes: 16 * 1024,
		MaxTotalBytes:  96 * 1024,
	}
}

const truncationMarker = "\n... [truncated]"

func (l Limits) normalized() Limits {
	if l.MaxRegionBytes <= 0 {
		l.MaxRegionBytes = DefaultLimits().MaxRegionBytes
	}
	if l.MaxTotalBytes <= 0 {
		l.MaxTotalBytes = DefaultLimits().MaxTotalBytes
	}
	if l.MaxTotalBytes < l.MaxRegionBytes {
		l.MaxRegionBytes = l.MaxTotalBytes
	}
	return l
}

func capText(text string, max int) (string, bool) {
	if len(text) <= max {
		return text, false
	}
	return text[:max] + truncationMarker, true
}
