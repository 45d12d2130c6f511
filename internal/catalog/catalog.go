// Package catalog scans a directory tree for .sub files that reference one
// texture and exposes them as a navigable, wrap-around sequence.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/pkg/formats"
)

// SubExt is the file extension scanned for, matched case-sensitively.
const SubExt = ".sub"

// Direction selects the navigation step for Advance.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Entry pairs a .sub file path, relative to the scan root, with its record.
type Entry struct {
	Path   string
	Record *formats.SubRecord
}

// Skipped describes a .sub file left out of the catalog because it could not
// be read or parsed.
type Skipped struct {
	Path string
	Err  error
}

// Options configures Build.
type Options struct {
	Root     string      // directory to scan
	Target   string      // exact image name records must reference
	Encoding string      // text encoding of .sub files, empty for UTF-8
	Logger   *zap.Logger // nil disables diagnostics
}

// Catalog is the filtered, ordered result of one scan. Entries never change
// after Build; only the current index moves.
type Catalog struct {
	target  string
	entries []Entry
	index   int
	skipped []Skipped
	log     *zap.Logger
}

// Build scans opts.Root and returns the catalog for opts.Target.
func Build(opts Options) (*Catalog, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s: not a directory", opts.Root)
	}

	return BuildFS(os.DirFS(opts.Root), opts.Target,
		WithEncoding(opts.Encoding),
		WithLogger(opts.Logger),
	)
}

// Option tunes BuildFS.
type Option func(*buildOptions)

type buildOptions struct {
	encoding string
	logger   *zap.Logger
}

// WithEncoding sets the text encoding used to decode .sub files.
func WithEncoding(enc string) Option {
	return func(o *buildOptions) {
		o.encoding = enc
	}
}

// WithLogger sets the logger receiving scan diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// BuildFS scans fsys from its root. Per-file failures are recorded in
// Skipped and never abort the scan; only an unreadable root does.
func BuildFS(fsys fs.FS, target string, opts ...Option) (*Catalog, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		target: target,
		index:  -1,
		log:    o.logger,
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			c.skip(p, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SubExt) {
			return nil
		}

		rec, err := parseFS(fsys, p, o.encoding)
		if err != nil {
			c.skip(p, err)
			return nil
		}
		if !rec.HasImage || rec.Image != target {
			return nil
		}

		c.entries = append(c.entries, Entry{Path: filepath.FromSlash(p), Record: rec})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	if len(c.entries) > 0 {
		c.index = 0
		c.log.Info("catalog built",
			zap.String("target", target),
			zap.Int("entries", len(c.entries)),
			zap.Int("skipped", len(c.skipped)),
		)
	} else {
		c.log.Info("no .sub files reference target",
			zap.String("target", target),
			zap.Int("skipped", len(c.skipped)),
		)
	}

	return c, nil
}

func parseFS(fsys fs.FS, p, enc string) (*formats.SubRecord, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}
	rec, err := formats.ParseSubEncoded(data, enc)
	if err != nil {
		var ce *formats.CoordinateError
		if errors.As(err, &ce) {
			ce.File = filepath.FromSlash(p)
		}
		return nil, err
	}
	return rec, nil
}

func (c *Catalog) skip(p string, err error) {
	p = filepath.FromSlash(path.Clean(p))
	c.skipped = append(c.skipped, Skipped{Path: p, Err: err})
	c.log.Warn("skipping .sub file", zap.String("path", p), zap.Error(err))
}

// Empty returns a catalog with no entries, for when a scan cannot run.
func Empty(target string) *Catalog {
	return &Catalog{target: target, index: -1, log: zap.NewNop()}
}

// Target returns the image name every entry references.
func (c *Catalog) Target() string { return c.target }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// IsEmpty reports whether the scan found no matching records.
func (c *Catalog) IsEmpty() bool { return len(c.entries) == 0 }

// Index returns the current index, or -1 when the catalog is empty.
func (c *Catalog) Index() int { return c.index }

// Entries returns a copy of the entries in scan order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Paths returns the entry paths in scan order.
func (c *Catalog) Paths() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Path
	}
	return out
}

// Skipped returns the files that failed to read or parse.
func (c *Catalog) Skipped() []Skipped {
	out := make([]Skipped, len(c.skipped))
	copy(out, c.skipped)
	return out
}

// Current returns the entry at the current index.
func (c *Catalog) Current() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[c.index], true
}

// Advance moves the current index one step, wrapping at both ends.
// It is a no-op on an empty catalog.
func (c *Catalog) Advance(dir Direction) {
	n := len(c.entries)
	if n == 0 {
		return
	}
	switch dir {
	case Prev:
		c.index = (c.index - 1 + n) % n
	default:
		c.index = (c.index + 1) % n
	}
}

// Next advances forward.
func (c *Catalog) Next() { c.Advance(Next) }

// Prev advances backward.
func (c *Catalog) Prev() { c.Advance(Prev) }

// Select makes the entry with the given relative path current. It reports
// false and leaves the index unchanged when no entry has that path.
func (c *Catalog) Select(relPath string) bool {
	for i, e := range c.entries {
		if e.Path == relPath {
			c.index = i
			return true
		}
	}
	return false
}

// Lookup returns the entry for a relative path without moving the index.
func (c *Catalog) Lookup(relPath string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Path == relPath {
			return e, true
		}
	}
	return Entry{}, false
}
