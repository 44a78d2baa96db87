// Package mediatag reads tags and stream properties from the audio and
// container formats found on mobile handsets and media players.
//
// # Quick Start
//
//	file, err := mediatag.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s (%s)\n", file.Tags.Artist, file.Tags.Title, file.Duration)
//
// # Supported Formats
//
//   - MP3: ID3v1/v1.1 and ID3v2.2/2.3/2.4 tags, MPEG 1/2/2.5 layer I-III
//     frames, Xing and VBRI headers
//   - MP4/3GP: 3GPP user-data boxes (titl, perf, loci, ...), ID3v2 in meta
//     boxes, iTunes cover art, track and movie headers
//   - AMR and AMR-WB, single channel
//   - MIDI: SMF, XMF and RMF wrappers
//   - SMAF (MMF) and iMelody ringtones
//   - WAV, FLAC and Ogg Vorbis/Opus
//
// AVI, FLV, Matroska, MPEG-TS and MPEG-PS are recognized by Probe and
// DetectFormat; Open returns them without tags or stream information.
//
// # Tags
//
// Tags follows a first-writer-wins policy: the first source that sets a
// field keeps it. An ID3v2 title therefore wins over the ID3v1 title of the
// same file, and the first titl box of an MP4 file wins over later ones.
// Has tells a decoded empty field from a missing one:
//
//	if file.Tags.Has(mediatag.FieldYear) {
//		fmt.Println("year:", file.Tags.Year)
//	}
//	for field, value := range file.Tags.All() {
//		fmt.Printf("%s: %s\n", field, value)
//	}
//
// # Error Handling
//
// A damaged optional element (one ID3 frame, one box, one chunk) is
// skipped and recorded in File.Warnings. Open returns an error only when a
// required structure is missing or broken. Every error matches one Kind:
//
//	file, err := mediatag.Open(path)
//	switch {
//	case errors.Is(err, mediatag.ErrNotFound):
//	case errors.Is(err, mediatag.ErrMalformedMagic):
//		// no known signature
//	case errors.Is(err, mediatag.ErrTruncated):
//		// a required header runs past the end of the file
//	}
//
// # Concurrency
//
// A File is immutable once returned. Each Open owns its own stream, so
// separate files may be opened from separate goroutines; OpenMany does so
// with a bounded worker pool.
package mediatag
