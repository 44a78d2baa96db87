package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	mp4 "github.com/abema/go-mp4"
	"github.com/spf13/cobra"

	"github.com/simonhull/mediatag"
)

var showPayload bool

var boxesCmd = &cobra.Command{
	Use:   "boxes <file>",
	Short: "Dump the box tree of an MP4 or 3GP file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		if !mediatag.Probe(f, info.Size(), mediatag.FormatMP4) {
			return fmt.Errorf("%s: not an MP4 or 3GP file", args[0])
		}
		return dumpBoxes(cmd.OutOrStdout(), f)
	},
}

func init() {
	boxesCmd.Flags().BoolVarP(&showPayload, "payload", "p", false, "print the decoded fields of known boxes")
}

// dumpBoxes prints one line per box, indented by depth.
func dumpBoxes(w io.Writer, r io.ReadSeeker) error {
	_, err := mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (any, error) {
		indent := strings.Repeat("  ", len(h.Path)-1)
		fmt.Fprintf(w, "%s%s (offset %d, size %d)", indent, h.BoxInfo.Type, h.BoxInfo.Offset, h.BoxInfo.Size)

		if !h.BoxInfo.IsSupportedType() {
			fmt.Fprintln(w)
			return nil, nil
		}
		if showPayload && h.BoxInfo.Type != mp4.BoxTypeMdat() {
			box, _, err := h.ReadPayload()
			if err != nil {
				fmt.Fprintf(w, " payload error: %v\n", err)
				return nil, nil
			}
			if s, err := mp4.Stringify(box, h.BoxInfo.Context); err == nil && s != "" {
				fmt.Fprintf(w, " %s", s)
			}
		}
		fmt.Fprintln(w)
		return h.Expand()
	})
	return err
}
