package main

import (
	"github.com/spf13/cobra"

	"github.com/Faultbox/sub-viewer/internal/config"
	"github.com/Faultbox/sub-viewer/internal/logger"
)

// rootOptions carries settings shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "subtool",
		Short: "Inspect .sub texture region files",
		Long: `subtool parses .sub files, lists the ones that reference a texture,
and renders their regions as outlined PNG images.

Paths default to the viewer configuration (subviewer.yaml, SUBVIEW_* environment
variables or a .env file).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg
			return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newParseCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// scanFlags are the inputs shared by list and render.
type scanFlags struct {
	root     string
	image    string
	encoding string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "Directory scanned for .sub files")
	cmd.Flags().StringVar(&f.image, "image", "", "Texture path or file name the .sub files reference")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Text encoding of .sub files (utf-8, euc-kr)")
}

// resolve fills unset flags from the loaded config.
func (f *scanFlags) resolve(cfg *config.Config) {
	if f.root == "" {
		f.root = cfg.Data.ScanRoot
	}
	if f.image == "" {
		f.image = cfg.Data.ImagePath
	}
	if f.encoding == "" {
		f.encoding = cfg.Data.SubEncoding
	}
}
