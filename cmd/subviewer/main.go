// Package main is the entry point for the SUB viewer window.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/internal/config"
	"github.com/Faultbox/sub-viewer/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== SUB viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := pickMissingPaths(cfg); err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Info("no input selected, exiting")
			return
		}
		logger.Error("selecting inputs", zap.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
	logger.Info("viewer closed normally")
}

// pickMissingPaths asks for the texture and scan root when neither config,
// environment nor flags provided them.
func pickMissingPaths(cfg *config.Config) error {
	if cfg.Data.ImagePath == "" {
		path, err := dialog.File().
			Filter("Images", "dds", "png", "jpg", "jpeg", "gif", "bmp", "tga", "tif", "tiff", "webp").
			Filter("All Files", "*").
			Title("Open texture").
			Load()
		if err != nil {
			return err
		}
		cfg.Data.ImagePath = path
	}

	if cfg.Data.ScanRoot == "" {
		dir, err := dialog.Directory().
			Title("Folder to scan for .sub files").
			Browse()
		if err != nil {
			return err
		}
		cfg.Data.ScanRoot = dir
	}

	return nil
}
