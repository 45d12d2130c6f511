package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/internal/catalog"
	"github.com/Faultbox/sub-viewer/internal/config"
	"github.com/Faultbox/sub-viewer/internal/export"
	"github.com/Faultbox/sub-viewer/internal/logger"
	"github.com/Faultbox/sub-viewer/internal/overlay"
	"github.com/Faultbox/sub-viewer/internal/texture"
	"github.com/Faultbox/sub-viewer/internal/viewer"
	"github.com/Faultbox/sub-viewer/internal/window"
)

// waitMS bounds how long the loop blocks so a finished scan is noticed.
const waitMS = 100

type scanResult struct {
	cat *catalog.Catalog
	err error
}

// App wires the session to the window.
type App struct {
	cfg     *config.Config
	session *viewer.Session
	win     *window.Window
	shots   *export.Writer
	scan    chan scanResult
	frame   viewer.Frame
	log     *zap.Logger
}

// NewApp loads the texture, opens the window and starts the scan.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.Named("viewer")

	base, err := texture.Load(cfg.Data.ImagePath)
	if err != nil {
		return nil, err
	}

	style, err := overlay.NewStyle(cfg.Overlay.Color, cfg.Overlay.Width)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}

	session := viewer.NewSession(base, cfg.Data.ImagePath, nil,
		viewer.WithStyle(style),
		viewer.WithLogger(log),
	)

	win, err := window.New(window.Config{
		Title:  session.Title(),
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}, log)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		session: session,
		win:     win,
		shots:   export.NewWriter(cfg.Export.OutputDir, cfg.Export.Prefix),
		scan:    make(chan scanResult, 1),
		log:     log,
	}
	go app.buildCatalog()

	return app, nil
}

// buildCatalog runs off the UI thread; the catalog is handed over whole.
func (a *App) buildCatalog() {
	cat, err := catalog.Build(catalog.Options{
		Root:     a.cfg.Data.ScanRoot,
		Target:   a.cfg.TargetName(),
		Encoding: a.cfg.Data.SubEncoding,
		Logger:   logger.Named("catalog"),
	})
	a.scan <- scanResult{cat: cat, err: err}
}

// Run processes events until the window is closed.
func (a *App) Run() {
	a.show(a.session.Render())

	for {
		select {
		case res := <-a.scan:
			if res.err != nil {
				a.log.Error("scan failed", zap.Error(res.err))
				res.cat = catalog.Empty(a.cfg.TargetName())
			}
			a.session.SetCatalog(res.cat)
			a.show(a.session.Render())
		default:
		}

		for _, ev := range a.win.Wait(waitMS) {
			switch ev.Type {
			case window.EventQuit:
				return
			case window.EventExpose:
				if err := a.win.Present(); err != nil {
					a.log.Warn("present failed", zap.Error(err))
				}
			case window.EventKey:
				if !a.handleKey(ev.Key) {
					return
				}
			}
		}
	}
}

// handleKey returns false when the viewer should exit.
func (a *App) handleKey(key string) bool {
	switch strings.ToLower(key) {
	case "escape", "q":
		return false
	case "s":
		a.snapshot()
		return true
	}

	if cmd, ok := viewer.KeyCommand(key); ok {
		a.show(a.session.Dispatch(cmd))
	}
	return true
}

func (a *App) show(frame viewer.Frame) {
	a.frame = frame
	title := a.session.Title()
	if frame.Label != "" {
		title += "  " + frame.Label
	}
	a.win.SetTitle(title)

	if err := a.win.Show(frame.Image); err != nil {
		a.log.Error("display failed", zap.Error(err))
	}
}

func (a *App) snapshot() {
	if a.frame.Image == nil {
		return
	}

	var (
		path string
		err  error
	)
	if a.frame.Path != "" {
		path, err = a.shots.WriteFrame(a.frame.Image, a.frame.Path)
	} else {
		path, err = a.shots.Snapshot(a.frame.Image)
	}
	if err != nil {
		a.log.Error("saving frame", zap.Error(err))
		return
	}
	a.log.Info("frame saved", zap.String("file", path))
}

// Close releases the window.
func (a *App) Close() {
	a.win.Close()
}
