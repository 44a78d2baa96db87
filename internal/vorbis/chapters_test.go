package vorbis

import (
	"testing"
	"time"
)

func TestParseChapters(t *testing.T) {
	comments := []string{
		"TITLE=Book",
		"CHAPTER002=00:05:23.500",
		"CHAPTER001=00:00:00.000",
		"CHAPTER001NAME=Introduction",
		"chapter003=1:02:03",
		"CHAPTER004NAME=No start",
		"CHAPTER005=bogus",
	}
	got := ParseChapters(comments, 2*time.Hour)

	want := []struct {
		id, title  string
		start, end time.Duration
	}{
		{"CHAPTER001", "Introduction", 0, 5*time.Minute + 23500*time.Millisecond},
		{"CHAPTER002", "Chapter 2", 5*time.Minute + 23500*time.Millisecond, time.Hour + 2*time.Minute + 3*time.Second},
		{"CHAPTER003", "Chapter 3", time.Hour + 2*time.Minute + 3*time.Second, 2 * time.Hour},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d chapters, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		c := got[i]
		if c.Index != i+1 || c.ID != w.id || c.Title != w.title || c.Start != w.start || c.End != w.end {
			t.Errorf("chapter %d = %+v, want %+v", i, c, w)
		}
	}
}

func TestParseChapters_None(t *testing.T) {
	if got := ParseChapters([]string{"TITLE=x", "CHAPTER001NAME=y"}, 0); got != nil {
		t.Errorf("ParseChapters() = %v, want nil", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00:01.250", 1250 * time.Millisecond, true},
		{"02:30", 2*time.Minute + 30*time.Second, true},
		{"45.5", 45500 * time.Millisecond, true},
		{"00:60:00", 0, false},
		{"00:00:61", 0, false},
		{"1:2:3:4", 0, false},
		{"-1:00:00", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseTimestamp(%q) = %v, %v", tt.in, got, err)
		}
	}
}
