package sections

import "strings"

// NormalizeHeaderText trims raw header text, reports whether it starts with
// a "-" separator and strips leading and trailing runs of "-".
func NormalizeHeaderText(raw string) (text string, hasSeparatorLine bool) {
	text = strings.TrimSpace(raw)
	hasSeparatorLine = strings.HasPrefix(text, "-")
	text = strings.TrimLeft(text, "-")
	text = strings.TrimRight(text, "-")
	return text, hasSeparatorLine
}
