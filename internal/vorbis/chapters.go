package vorbis

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/simonhull/mediatag/internal/types"
)

// ParseChapters extracts chapters from CHAPTERxxx comments:
//
//	CHAPTER001=00:00:00.000
//	CHAPTER001NAME=Introduction
//	CHAPTER002=00:05:23.500
//	CHAPTER002NAME=Chapter 1
//
// Each chapter ends where the next begins; the last ends at total when it
// is known. Chapters without a valid start time are dropped.
func ParseChapters(comments []string, total time.Duration) []types.Chapter {
	type mark struct {
		number int
		start  time.Duration
		title  string
		timed  bool
	}
	marks := map[int]*mark{}
	get := func(n int) *mark {
		if marks[n] == nil {
			marks[n] = &mark{number: n}
		}
		return marks[n]
	}

	for _, c := range comments {
		key, value, err := Split(c)
		if err != nil || !strings.HasPrefix(key, "CHAPTER") {
			continue
		}
		rest := strings.TrimPrefix(key, "CHAPTER")
		if num, ok := strings.CutSuffix(rest, "NAME"); ok {
			if n, err := strconv.Atoi(num); err == nil {
				get(n).title = strings.TrimSpace(value)
			}
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if start, err := parseTimestamp(strings.TrimSpace(value)); err == nil {
			m := get(n)
			m.start, m.timed = start, true
		}
	}

	var list []mark
	for _, m := range marks {
		if m.timed {
			list = append(list, *m)
		}
	}
	if len(list) == 0 {
		return nil
	}
	slices.SortFunc(list, func(a, b mark) int { return cmp.Compare(a.number, b.number) })

	chapters := make([]types.Chapter, len(list))
	for i, m := range list {
		end := total
		if i+1 < len(list) {
			end = list[i+1].start
		}
		title := m.title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", m.number)
		}
		chapters[i] = types.Chapter{
			ID:    fmt.Sprintf("CHAPTER%03d", m.number),
			Title: title,
			Index: i + 1,
			Start: m.start,
			End:   end,
		}
	}
	return chapters
}

// parseTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm and SS.mmm.
func parseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("invalid seconds in timestamp %q", ts)
	}
	var hours, minutes int
	if len(parts) >= 2 {
		if minutes, err = strconv.Atoi(parts[len(parts)-2]); err != nil || minutes < 0 || minutes >= 60 {
			return 0, fmt.Errorf("invalid minutes in timestamp %q", ts)
		}
	}
	if len(parts) == 3 {
		if hours, err = strconv.Atoi(parts[0]); err != nil || hours < 0 {
			return 0, fmt.Errorf("invalid hours in timestamp %q", ts)
		}
	}

	total := float64(hours*3600+minutes*60) + seconds
	return time.Duration(total * float64(time.Second)), nil
}
