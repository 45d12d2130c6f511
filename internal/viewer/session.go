// Package viewer maps user actions onto a catalog and renders the result.
package viewer

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/internal/catalog"
	"github.com/Faultbox/sub-viewer/internal/overlay"
	"github.com/Faultbox/sub-viewer/pkg/formats"
)

// Command is one user action. Each resolves to exactly one catalog operation.
type Command interface {
	command()
}

// Select makes the .sub file at Path current.
type Select struct {
	Path string
}

// Next moves to the following .sub file, wrapping at the end.
type Next struct{}

// Prev moves to the preceding .sub file, wrapping at the start.
type Prev struct{}

// Refresh re-renders the current .sub file.
type Refresh struct{}

func (Select) command()  {}
func (Next) command()    {}
func (Prev) command()    {}
func (Refresh) command() {}

// Frame is the result of one dispatched command.
type Frame struct {
	Image  image.Image        // base image, with the overlay when Drawn
	Path   string             // current .sub path, empty for an empty catalog
	Label  string             // status line for display
	Drawn  bool               // false when the record is incomplete or absent
	Index  int                // current index, -1 when empty
	Total  int                // catalog size
	Record *formats.SubRecord // nil when empty
}

// Session holds the state of one viewer: the base image and the catalog
// scanned for it. It is not safe for concurrent use.
type Session struct {
	base      image.Image
	imagePath string
	cat       *catalog.Catalog
	style     overlay.Style
	log       *zap.Logger
}

// Option tunes a Session.
type Option func(*Session)

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStyle sets the overlay stroke.
func WithStyle(style overlay.Style) Option {
	return func(s *Session) {
		s.style = style
	}
}

// NewSession creates a session. cat may be nil while a scan is still
// running; frames then show the base image only.
func NewSession(base image.Image, imagePath string, cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		base:      base,
		imagePath: imagePath,
		cat:       cat,
		style:     overlay.DefaultStyle(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCatalog installs a finished catalog.
func (s *Session) SetCatalog(cat *catalog.Catalog) {
	s.cat = cat
}

// Catalog returns the installed catalog, or nil.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// Title returns the window title for the session. Before a catalog is
// installed the target is taken from the image path.
func (s *Session) Title() string {
	target := filepath.Base(s.imagePath)
	if s.cat != nil {
		target = s.cat.Target()
	}
	if target == "" || target == "." {
		return "SUB viewer"
	}
	return "SUB viewer - " + target
}

// Dispatch applies cmd and renders the current entry.
func (s *Session) Dispatch(cmd Command) Frame {
	if s.cat != nil {
		switch c := cmd.(type) {
		case Select:
			if !s.cat.Select(c.Path) {
				s.log.Warn("selection not found", zap.String("path", c.Path))
			}
		case Next:
			s.cat.Advance(catalog.Next)
		case Prev:
			s.cat.Advance(catalog.Prev)
		case Refresh:
		}
	}
	return s.Render()
}

// Render draws the current entry without changing the selection.
func (s *Session) Render() Frame {
	if s.cat == nil {
		return Frame{Image: s.base, Label: "scanning...", Index: -1}
	}

	entry, ok := s.cat.Current()
	if !ok {
		return Frame{
			Image: s.base,
			Label: fmt.Sprintf("no .sub files for %s", s.cat.Target()),
			Index: -1,
		}
	}

	frame := Frame{
		Image:  s.base,
		Path:   entry.Path,
		Index:  s.cat.Index(),
		Total:  s.cat.Len(),
		Record: entry.Record,
	}
	frame.Label = fmt.Sprintf("[%d/%d] %s", frame.Index+1, frame.Total, entry.Path)

	s.log.Debug("rendering",
		zap.String("path", entry.Path),
		zap.String("image", entry.Record.Image),
		zap.Any("coords", entry.Record.Coords),
	)

	img, err := overlay.Draw(s.base, entry.Record, s.style)
	if err != nil {
		if errors.Is(err, overlay.ErrIncompleteRecord) {
			s.log.Warn("incomplete .sub record, overlay skipped",
				zap.String("path", entry.Path),
				zap.Strings("missing", entry.Record.Missing()),
			)
			frame.Label += " (incomplete)"
			return frame
		}
		s.log.Error("render failed", zap.String("path", entry.Path), zap.Error(err))
		return frame
	}

	frame.Image = img
	frame.Drawn = true
	return frame
}
