package id3

import "testing"

func TestGenre(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Blues"},
		{17, "Rock"},
		{147, "Synthpop"},
		{148, "Unknown"},
		{255, "Unknown"},
		{-1, "Unknown"},
	}
	for _, tc := range tests {
		if got := Genre(tc.code); got != tc.want {
			t.Errorf("Genre(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
	if len(genres) != 149 {
		t.Errorf("genre table has %d entries, want 149", len(genres))
	}
}

func TestResolveGenre(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(17)", "Rock"},
		{"17", "Rock"},
		{"(255)", "Unknown"},
		{"99999999999999999999", "Unknown"},
		{"(4)Eurodisco", "Eurodisco"},
		{"(RX)", "Remix"},
		{"(CR)", "Cover"},
		{"Shoegaze", "Shoegaze"},
		{"(unterminated", "(unterminated"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ResolveGenre(tc.in); got != tc.want {
			t.Errorf("ResolveGenre(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
