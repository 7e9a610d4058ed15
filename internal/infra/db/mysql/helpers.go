package mysql

import "strings"

// stringOrDash keeps NOT NULL text columns readable when a run has no
// aggregate status yet.
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
