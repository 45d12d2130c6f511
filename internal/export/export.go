// Package export writes rendered overlay frames to PNG files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer saves frames under a directory with a common file prefix.
type Writer struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewWriter creates a writer. An empty outputDir writes to the working directory.
func NewWriter(outputDir, prefix string) *Writer {
	return &Writer{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// FrameFilename returns the PNG path used for a .sub file's frame. The
// relative directory is mirrored under the output directory, so distinct
// .sub paths never share a file: "ui/deep/icon.sub" becomes
// "ui/deep/<prefix>_icon.png". Paths escaping the root keep only their base.
func (w *Writer) FrameFilename(subPath string) string {
	rel := filepath.Clean(subPath)
	if !filepath.IsLocal(rel) {
		rel = filepath.Base(rel)
	}
	dir, file := filepath.Split(rel)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if w.prefix != "" {
		name = w.prefix + "_" + name
	}
	return w.join(filepath.Join(dir, name+".png"))
}

// SnapshotFilename returns a timestamped PNG path.
func (w *Writer) SnapshotFilename() string {
	timestamp := w.now().Format("2006-01-02_15-04-05")
	return w.join(fmt.Sprintf("%s_%s.png", w.prefix, timestamp))
}

// WriteFrame saves img under the name derived from subPath.
func (w *Writer) WriteFrame(img image.Image, subPath string) (string, error) {
	filename := w.FrameFilename(subPath)
	return filename, w.write(img, filename)
}

// Snapshot saves img under a timestamped name.
func (w *Writer) Snapshot(img image.Image) (string, error) {
	filename := w.SnapshotFilename()
	return filename, w.write(img, filename)
}

func (w *Writer) join(name string) string {
	if w.outputDir == "" {
		return name
	}
	return filepath.Join(w.outputDir, name)
}

func (w *Writer) write(img image.Image, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
