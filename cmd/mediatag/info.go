package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediatag"
)

var infoCmd = &cobra.Command{
	Use:   "info <file> [file...]",
	Short: "Print tags and stream properties",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd.ErrOrStderr())
		var failed error
		for _, path := range args {
			if err := printInfo(cmd.OutOrStdout(), path, opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				failed = errors.Join(failed, err)
			}
		}
		return failed
	},
}

// report is the printable view of a File. Artwork data is summarized.
type report struct {
	Path        string               `json:"path"`
	Format      string               `json:"format"`
	Size        int64                `json:"size"`
	Duration    string               `json:"duration,omitempty"`
	Audio       *mediatag.StreamInfo `json:"audio,omitempty"`
	Video       *mediatag.StreamInfo `json:"video,omitempty"`
	AudioTracks int                  `json:"audio_tracks,omitempty"`
	VideoTracks int                  `json:"video_tracks,omitempty"`
	Tags        map[string]string    `json:"tags,omitempty"`
	Artwork     string               `json:"artwork,omitempty"`
	Location    *mediatag.Location   `json:"location,omitempty"`
	SyncLyrics  []mediatag.SyncLyric `json:"sync_lyrics,omitempty"`
	SMTA        bool                 `json:"smta,omitempty"`
	CDIS        bool                 `json:"cdis,omitempty"`
	Chapters    []mediatag.Chapter   `json:"chapters,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

func newReport(f *mediatag.File) report {
	r := report{
		Path:        f.Path,
		Format:      f.Format.String(),
		Size:        f.Size,
		Audio:       f.Audio,
		Video:       f.Video,
		AudioTracks: f.AudioTracks,
		VideoTracks: f.VideoTracks,
		Location:    f.Tags.Location,
		SyncLyrics:  f.Tags.SyncLyrics,
		SMTA:        f.Tags.SMTA,
		CDIS:        f.Tags.CDIS,
		Chapters:    f.Chapters,
	}
	if f.Duration > 0 {
		r.Duration = f.Duration.String()
	}
	for field, value := range f.Tags.All() {
		if r.Tags == nil {
			r.Tags = make(map[string]string)
		}
		r.Tags[field.String()] = value
	}
	if f.Tags.Artwork != nil {
		r.Artwork = f.Tags.Artwork.String()
	}
	for _, w := range f.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

func printInfo(w io.Writer, path string, opts []mediatag.Option) error {
	f, err := mediatag.Open(path, opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	r := newReport(f)
	if flags.json {
		return writeJSON(w, r)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", r.Path)
	fmt.Fprintf(tw, "Format:\t%s\n", r.Format)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", r.Size)
	if r.Duration != "" {
		fmt.Fprintf(tw, "Duration:\t%s\n", r.Duration)
	}
	if f.Audio != nil {
		fmt.Fprintf(tw, "Audio:\t%s\n", f.Audio)
	}
	if f.Video != nil {
		fmt.Fprintf(tw, "Video:\t%s\n", f.Video)
	}
	for field, value := range f.Tags.All() {
		fmt.Fprintf(tw, "%s:\t%s\n", field, value)
	}
	if r.Artwork != "" {
		fmt.Fprintf(tw, "artwork:\t%s\n", r.Artwork)
	}
	if loc := r.Location; loc != nil {
		fmt.Fprintf(tw, "location:\t%s (%.4f, %.4f, %.1f m)\n", loc.Name, loc.Latitude, loc.Longitude, loc.Altitude)
	}
	for _, ch := range r.Chapters {
		fmt.Fprintf(tw, "chapter:\t%s\n", ch)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(tw, "warning:\t%s\n", warning)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

var probeCmd = &cobra.Command{
	Use:   "probe <file> [file...]",
	Short: "Detect the format of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type result struct {
			Path   string `json:"path"`
			Format string `json:"format"`
			Error  string `json:"error,omitempty"`
		}
		results := make([]result, 0, len(args))
		for _, path := range args {
			res := result{Path: path, Format: mediatag.FormatUnknown.String()}
			if format, err := detect(path); err != nil {
				res.Error = err.Error()
			} else {
				res.Format = format.String()
			}
			results = append(results, res)
		}

		if flags.json {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, res.Error)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Path, res.Format)
		}
		return nil
	},
}

func detect(path string) (mediatag.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return mediatag.FormatUnknown, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return mediatag.FormatUnknown, err
	}
	return mediatag.DetectFormat(f, info.Size(), path)
}
