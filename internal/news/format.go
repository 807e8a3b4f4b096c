package news

import (
	"fmt"
	"strings"
)

// Format selects how headlines are rendered.
type Format string

const (
	FormatJSON   Format = "json"
	FormatMarkup Format = "markup"
)

// ParseFormat accepts json or markup, case-insensitively. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkup:
		return FormatMarkup, nil
	default:
		return "", fmt.Errorf("unsupported format %q, want json or markup", s)
	}
}

// RenderMarkup renders a numbered list with one bold-labelled line per
// field and a blank line between entries:
//
//	1. **Title**: ...
//	   **Link**: ...
//	   **Source**: ...
//
// Source is omitted when empty.
func RenderMarkup(headlines []Headline) string {
	var b strings.Builder
	for i, h := range headlines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		marker := fmt.Sprintf("%d. ", i+1)
		indent := strings.Repeat(" ", len(marker))

		b.WriteString(marker)
		writeField(&b, "Title", h.Title)
		b.WriteString("\n" + indent)
		writeField(&b, "Link", h.Link)
		if h.Source != "" {
			b.WriteString("\n" + indent)
			writeField(&b, "Source", h.Source)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("**")
	b.WriteString(label)
	b.WriteString("**: ")
	b.WriteString(value)
}
