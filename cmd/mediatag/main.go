// Command mediatag prints the tags and stream properties of media files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/simonhull/mediatag"
)

type globalFlags struct {
	json    bool
	verbose bool
	charset string
	frames  int
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "mediatag",
	Short:         "Read tags and stream properties from audio and container files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.json, "json", false, "print JSON instead of text")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log skipped frames and boxes to stderr")
	pf.StringVar(&flags.charset, "charset", "", "charset of ID3v1 and ID3v2 Latin-1 text (e.g. windows-1251)")
	pf.IntVar(&flags.frames, "frames", 0, "consecutive MPEG frames required to accept an MP3 stream")

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	rootCmd.AddCommand(infoCmd, probeCmd, boxesCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mediatag:", err)
		os.Exit(1)
	}
}

// options turns the global flags into open options.
func options(stderr io.Writer) []mediatag.Option {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	opts := []mediatag.Option{
		mediatag.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))),
	}
	if flags.charset != "" {
		opts = append(opts, mediatag.WithLocaleCharset(flags.charset))
	}
	if flags.frames > 0 {
		opts = append(opts, mediatag.WithMP3ProbeFrames(flags.frames))
	}
	return opts
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := mediatag.GetVersionInfo()
		if flags.json {
			return writeJSON(cmd.OutOrStdout(), info)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mediatag %s (commit %s, built %s, %s)\n",
			info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		return nil
	},
	DisableFlagsInUseLine: true,
}
