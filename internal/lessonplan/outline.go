package lessonplan

import (
	"regexp"
	"strings"
)

// OutlineBlock is one lecture's pointer-form outline plus its extracted
// topic header, if one was present.
type OutlineBlock struct {
	Text  string
	Topic string
}

var topicPattern = regexp.MustCompile(`(?mi)^\s*Topic\s*:\s*(.+)$`)

// ParseOutline splits outline text on the literal delimiter sentinel,
// trims each block, drops empties, and extracts the "Topic:" header from
// each block. The model may return fewer blocks than requested lectures;
// callers clamp to what is available.
func ParseOutline(text string) []OutlineBlock {
	sections := strings.Split(text, OutlineDelimiter)

	blocks := make([]OutlineBlock, 0, len(sections))
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		block := OutlineBlock{Text: section}
		if m := topicPattern.FindStringSubmatch(section); m != nil {
			block.Topic = strings.TrimSpace(m[1])
		}
		blocks = append(blocks, block)
	}
	return blocks
}
