package pipeline

import (
	"fmt"
	"strings"
)

// Group merges consecutive runs of size blocks. A group takes the time of its
// first member and the space-joined text of all members. The last group may
// be shorter.
func Group(blocks []Block, size int) ([]Block, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupSize, size)
	}

	groups := make([]Block, 0, (len(blocks)+size-1)/size)
	for start := 0; start < len(blocks); start += size {
		end := min(start+size, len(blocks))

		texts := make([]string, 0, end-start)
		for _, b := range blocks[start:end] {
			texts = append(texts, b.Text)
		}

		groups = append(groups, Block{
			Time: blocks[start].Time,
			Text: strings.TrimSpace(strings.Join(texts, " ")),
		})
	}

	return groups, nil
}
