package pipeline

import "strings"

// Deduplicate removes the rolling-caption overlap from blocks. Each block is
// compared with the last block already emitted: a leading copy of that text
// is stripped and whatever remains is kept at the current timestamp. Blocks
// that become empty are dropped.
func Deduplicate(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))

	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}

		if len(out) > 0 {
			prev := out[len(out)-1].Text
			for strings.HasPrefix(text, prev) {
				text = strings.TrimSpace(text[len(prev):])
			}
			if text == "" {
				continue
			}
		}

		out = append(out, Block{Time: b.Time, Text: text})
	}

	return out
}
