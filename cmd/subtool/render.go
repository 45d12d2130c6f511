package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/internal/export"
	"github.com/Faultbox/sub-viewer/internal/logger"
	"github.com/Faultbox/sub-viewer/internal/overlay"
	"github.com/Faultbox/sub-viewer/internal/texture"
	"github.com/Faultbox/sub-viewer/internal/viewer"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		flags     scanFlags
		subs      []string
		all       bool
		outputDir string
		color     string
		stroke    int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write PNG images with .sub regions outlined",
		Long: `Loads the texture, scans for .sub files that reference it and writes one
PNG per selected file with the region outlined. Without --sub or --all only
the first file in scan order is rendered.`,
		Example: `  subtool render --image data/ui/atlas.tga --root data/ui --all -o out
  subtool render --image atlas.png --root subs --sub icons/sword.sub`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			flags.resolve(cfg)
			if outputDir == "" {
				outputDir = cfg.Export.OutputDir
			}
			if color == "" {
				color = cfg.Overlay.Color
			}
			if stroke == 0 {
				stroke = cfg.Overlay.Width
			}

			style, err := overlay.NewStyle(color, stroke)
			if err != nil {
				return err
			}

			cat, err := buildCatalog(flags)
			if err != nil {
				return err
			}
			if cat.IsEmpty() {
				return fmt.Errorf("no .sub files reference %s under %s", cat.Target(), flags.root)
			}

			base, err := texture.Load(flags.image)
			if err != nil {
				return err
			}

			session := viewer.NewSession(base, flags.image, cat,
				viewer.WithStyle(style),
				viewer.WithLogger(logger.Named("viewer")),
			)
			writer := export.NewWriter(outputDir, cfg.Export.Prefix)

			var cmds []viewer.Command
			switch {
			case len(subs) > 0:
				for _, s := range subs {
					if _, ok := cat.Lookup(s); !ok {
						return fmt.Errorf("%s does not reference %s", s, cat.Target())
					}
					cmds = append(cmds, viewer.Select{Path: s})
				}
			case all:
				for _, p := range cat.Paths() {
					cmds = append(cmds, viewer.Select{Path: p})
				}
			default:
				cmds = append(cmds, viewer.Refresh{})
			}

			written, incomplete := 0, 0
			for _, c := range cmds {
				frame := session.Dispatch(c)
				if !frame.Drawn {
					incomplete++
					continue
				}
				path, err := writer.WriteFrame(frame.Image, frame.Path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				written++
			}

			logger.Info("render finished",
				zap.Int("written", written),
				zap.Int("incomplete", incomplete),
			)
			if written == 0 {
				return errNothingRendered
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&subs, "sub", nil, "Relative .sub path to render (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Render every matching .sub file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory")
	cmd.Flags().StringVar(&color, "color", "", "Outline colour (#rrggbb)")
	cmd.Flags().IntVar(&stroke, "stroke", 0, "Outline width in pixels")
	cmd.MarkFlagsMutuallyExclusive("sub", "all")

	return cmd
}

var errNothingRendered = errors.New("no complete .sub records to render")
