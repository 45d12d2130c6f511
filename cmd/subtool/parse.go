package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Faultbox/sub-viewer/pkg/formats"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var enc string

	cmd := &cobra.Command{
		Use:   "parse <file.sub>...",
		Short: "Print the image and coordinates of .sub files",
		Example: `  subtool parse ui/icons/sword.sub
  subtool parse --encoding euc-kr legacy/*.sub`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enc == "" {
				enc = opts.cfg.Data.SubEncoding
			}

			failed := 0
			for _, path := range args {
				rec, err := formats.ParseSubFile(path, enc)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					failed++
					continue
				}
				printRecord(cmd.OutOrStdout(), path, rec)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&enc, "encoding", "", "Text encoding of .sub files (utf-8, euc-kr)")
	return cmd
}

func printRecord(w io.Writer, path string, rec *formats.SubRecord) {
	image := "(none)"
	if rec.HasImage {
		image = rec.Image
	}
	fmt.Fprintf(w, "File:   %s\n", path)
	fmt.Fprintf(w, "Image:  %s\n", image)
	for _, name := range formats.SubCoordinates {
		v, ok := rec.Coord(name)
		if ok {
			fmt.Fprintf(w, "  %-7s %d\n", name, v)
		} else {
			fmt.Fprintf(w, "  %-7s -\n", name)
		}
	}
	if missing := rec.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "Renderable: no (missing %s)\n", strings.Join(missing, ", "))
	} else {
		fmt.Fprintln(w, "Renderable: yes")
	}
}
