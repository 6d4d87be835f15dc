package pipeline

import "strings"

// RenderGrouped renders groups as "MM:SS\ntext" entries separated by a blank line.
func RenderGrouped(groups []Block) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(g.Time)
		sb.WriteByte('\n')
		sb.WriteString(g.Text)
	}
	return sb.String()
}

// Flatten joins all block texts into a single paragraph with every
// whitespace run collapsed to one space.
func Flatten(blocks []Block) string {
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		texts = append(texts, b.Text)
	}
	return strings.Join(strings.Fields(strings.Join(texts, " ")), " ")
}
