package id3

import (
	"strconv"
	"strings"
)

// genres is the ID3v1 genre list, Winamp extensions included. The final
// entry is the fallback for codes outside the table.
var genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic",
	"Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta",
	"Top 40", "Christian Rap", "Pop/Funk", "Jungle", "Native American",
	"Cabaret", "New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer",
	"Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro",
	"Musical", "Rock & Roll", "Hard Rock", "Folk", "Folk-Rock",
	"National Folk", "Swing", "Fast Fusion", "Bebob", "Latin", "Revival",
	"Celtic", "Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A capella", "Euro-House", "Dance Hall",
	"Goa", "Drum & Bass", "Club-House", "Hardcore", "Terror", "Indie",
	"Britpop", "Negerpunk", "Polsk Punk", "Beat", "Christian Gangsta Rap",
	"Heavy Metal", "Black Metal", "Crossover", "Contemporary Christian",
	"Christian Rock", "Merengue", "Salsa", "Thrash Metal", "Anime", "JPop",
	"Synthpop",
	"Unknown",
}

// UnknownGenre is the index of the fallback entry.
const UnknownGenre = len(genres) - 1

// Genre returns the name for an ID3v1 genre code. Codes outside the table
// resolve to "Unknown".
func Genre(code int) string {
	if code < 0 || code > UnknownGenre {
		code = UnknownGenre
	}
	return genres[code]
}

// ResolveGenre interprets a TCON value. "(N)" and bare "N" are looked up in
// the genre table; "(N)Refinement" yields the refinement; "(RX)" and "(CR)"
// are Remix and Cover. Anything else is returned unchanged.
func ResolveGenre(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if s[0] == '(' {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return s
		}
		ref, rest := s[1:end], strings.TrimSpace(s[end+1:])
		if rest != "" && !strings.HasPrefix(rest, "(") {
			return rest
		}
		switch ref {
		case "RX":
			return "Remix"
		case "CR":
			return "Cover"
		}
		if isDigits(ref) {
			return genreFromDigits(ref)
		}
		return s
	}

	if isDigits(s) {
		return genreFromDigits(s)
	}
	return s
}

func genreFromDigits(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return Genre(UnknownGenre)
	}
	return Genre(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
