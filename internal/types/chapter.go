package types

import (
	"fmt"
	"time"
)

// Chapter is a chapter marker decoded from an ID3v2 CHAP frame.
//
//	for _, ch := range file.Chapters {
//		fmt.Printf("[%d] %s: %s - %s\n", ch.Index, ch.Title, ch.Start, ch.End)
//	}
type Chapter struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Index int           `json:"index"` // 1-based, in start order
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Duration returns End-Start, or 0 when the bounds are inverted.
func (c Chapter) Duration() time.Duration {
	if c.End < c.Start {
		return 0
	}
	return c.End - c.Start
}

func (c Chapter) String() string {
	title := c.Title
	if title == "" {
		title = c.ID
	}
	return fmt.Sprintf("%d. %s (%s - %s)", c.Index, title, c.Start, c.End)
}
