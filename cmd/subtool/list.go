package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Faultbox/sub-viewer/internal/catalog"
	"github.com/Faultbox/sub-viewer/internal/logger"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List .sub files that reference a texture",
		Long: `Scans the root directory recursively and lists every .sub file whose
image directive equals the texture's file name. Renderable entries are marked
with '*'.`,
		Example: `  subtool list --root data/ui --image data/ui/atlas.tga`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(opts.cfg)
			cat, err := buildCatalog(flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range cat.Entries() {
				if missing := e.Record.Missing(); len(missing) > 0 {
					fmt.Fprintf(out, "  %s (missing %s)\n", e.Path, strings.Join(missing, ", "))
				} else {
					fmt.Fprintf(out, "* %s\n", e.Path)
				}
			}

			errOut := cmd.ErrOrStderr()
			for _, s := range cat.Skipped() {
				fmt.Fprintf(errOut, "skipped %s: %v\n", s.Path, s.Err)
			}
			if cat.IsEmpty() {
				fmt.Fprintf(errOut, "No .sub files reference %s under %s\n", cat.Target(), flags.root)
			} else {
				fmt.Fprintf(errOut, "\n(%d files reference %s)\n", cat.Len(), cat.Target())
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func buildCatalog(flags scanFlags) (*catalog.Catalog, error) {
	if flags.root == "" {
		return nil, fmt.Errorf("no scan root: pass --root or set data.scan_root")
	}
	if flags.image == "" {
		return nil, fmt.Errorf("no texture: pass --image or set data.image_path")
	}

	return catalog.Build(catalog.Options{
		Root:     flags.root,
		Target:   filepath.Base(flags.image),
		Encoding: flags.encoding,
		Logger:   logger.Named("catalog"),
	})
}
