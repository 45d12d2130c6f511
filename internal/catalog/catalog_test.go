package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/sub-viewer/pkg/formats"
)

func subFile(image string, coords ...int) *fstest.MapFile {
	text := fmt.Sprintf("image %q\n", image)
	for i, name := range formats.SubCoordinates {
		if i < len(coords) {
			text += fmt.Sprintf("%s %d\n", name, coords[i])
		}
	}
	return &fstest.MapFile{Data: []byte(text)}
}

func TestBuildFS_FiltersByTarget(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sub":            subFile("tex.dds", 10, 20, 110, 220),
		"b.sub":            subFile("other.dds", 1, 2, 3, 4),
		"ui/c.sub":         subFile("tex.dds", 0, 0, 8, 8),
		"ui/deep/d.sub":    subFile("tex.dds", 1, 1, 2, 2),
		"ui/deep/e.sub":    subFile("Tex.dds", 1, 1, 2, 2),
		"ui/f.SUB":         subFile("tex.dds", 1, 1, 2, 2),
		"ui/notes.txt":     {Data: []byte("image tex.dds")},
		"g.sub":            {Data: []byte("left 1\n")},
		"dir.sub/inner.sk": {Data: []byte("x")},
	}

	c, err := BuildFS(fsys, "tex.dds")
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{
		"a.sub",
		filepath.Join("ui", "c.sub"),
		filepath.Join("ui", "deep", "d.sub"),
	}, c.Paths())
	for _, e := range c.Entries() {
		assert.Equal(t, c.Target(), e.Record.Image)
	}
	assert.Empty(t, c.Skipped())
	assert.Equal(t, 0, c.Index())
}

func TestBuildFS_StableOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"z.sub":   subFile("t.dds", 1, 1, 2, 2),
		"m/a.sub": subFile("t.dds", 1, 1, 2, 2),
		"a.sub":   subFile("t.dds", 1, 1, 2, 2),
	}

	first, err := BuildFS(fsys, "t.dds")
	require.NoError(t, err)
	second, err := BuildFS(fsys, "t.dds")
	require.NoError(t, err)

	assert.Equal(t, first.Paths(), second.Paths())
}

func TestBuildFS_MalformedFileSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fsys := fstest.MapFS{
		"good.sub": subFile("t.dds", 1, 2, 3, 4),
		"bad.sub":  {Data: []byte("image t.dds\nleft ten\n")},
	}

	c, err := BuildFS(fsys, "t.dds", WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, "good.sub", c.Paths()[0])

	skipped := c.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "bad.sub", skipped[0].Path)
	assert.True(t, errors.Is(skipped[0].Err, formats.ErrMalformedCoordinate))

	var ce *formats.CoordinateError
	require.True(t, errors.As(skipped[0].Err, &ce))
	assert.Equal(t, "bad.sub", ce.File)
	assert.Equal(t, 2, ce.Line)

	assert.Equal(t, 1, logs.FilterMessage("skipping .sub file").Len())
}

// unreadableDirFS fails ReadDir for one directory.
type unreadableDirFS struct {
	fstest.MapFS
	dir string
}

func (f unreadableDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}
	return f.MapFS.ReadDir(name)
}

func TestBuildFS_UnreadableDirSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fsys := unreadableDirFS{
		MapFS: fstest.MapFS{
			"a.sub":      subFile("t.dds", 1, 2, 3, 4),
			"bad/b.sub":  subFile("t.dds", 1, 2, 3, 4),
			"good/c.sub": subFile("t.dds", 5, 6, 7, 8),
		},
		dir: "bad",
	}

	c, err := BuildFS(fsys, "t.dds", WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.sub", filepath.Join("good", "c.sub")}, c.Paths())

	skipped := c.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "bad", skipped[0].Path)
	assert.ErrorIs(t, skipped[0].Err, fs.ErrPermission)
	assert.Equal(t, 1, logs.FilterMessage("skipping .sub file").Len())
}

func TestBuildFS_UnreadableRoot(t *testing.T) {
	fsys := unreadableDirFS{
		MapFS: fstest.MapFS{"a.sub": subFile("t.dds", 1, 2, 3, 4)},
		dir:   ".",
	}

	_, err := BuildFS(fsys, "t.dds")
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestBuildFS_Empty(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fsys := fstest.MapFS{
		"a.sub": subFile("other.dds", 1, 2, 3, 4),
	}

	c, err := BuildFS(fsys, "tex.dds", WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, -1, c.Index())

	_, ok := c.Current()
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		c.Next()
		c.Prev()
		c.Advance(Next)
	})
	assert.Equal(t, -1, c.Index())
	assert.False(t, c.Select("a.sub"))

	assert.Equal(t, 1, logs.FilterMessage("no .sub files reference target").Len())
}

func TestAdvance_Cyclic(t *testing.T) {
	fsys := fstest.MapFS{}
	for i := 0; i < 5; i++ {
		fsys[fmt.Sprintf("%d.sub", i)] = subFile("t.dds", i, i, i+1, i+1)
	}
	c, err := BuildFS(fsys, "t.dds")
	require.NoError(t, err)
	require.Equal(t, 5, c.Len())

	for start := 0; start < c.Len(); start++ {
		for _, dir := range []Direction{Next, Prev} {
			require.True(t, c.Select(fmt.Sprintf("%d.sub", start)))
			for i := 0; i < c.Len(); i++ {
				c.Advance(dir)
			}
			assert.Equal(t, start, c.Index(), "direction %s from %d", dir, start)
		}
	}
}

func TestAdvance_Wraps(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sub": subFile("t.dds", 1, 1, 2, 2),
		"b.sub": subFile("t.dds", 1, 1, 2, 2),
		"c.sub": subFile("t.dds", 1, 1, 2, 2),
	}
	c, err := BuildFS(fsys, "t.dds")
	require.NoError(t, err)

	c.Prev()
	assert.Equal(t, 2, c.Index())
	c.Next()
	assert.Equal(t, 0, c.Index())
	c.Next()
	c.Next()
	c.Next()
	assert.Equal(t, 0, c.Index())
}

func TestSelect(t *testing.T) {
	fsys := fstest.MapFS{
		"a.sub":    subFile("t.dds", 1, 1, 2, 2),
		"ui/b.sub": subFile("t.dds", 5, 5, 6, 6),
	}
	c, err := BuildFS(fsys, "t.dds")
	require.NoError(t, err)

	key := filepath.Join("ui", "b.sub")
	require.True(t, c.Select(key))
	e, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, key, e.Path)
	v, _ := e.Record.Coord(formats.SubLeft)
	assert.Equal(t, 5, v)

	assert.False(t, c.Select("missing.sub"))
	assert.Equal(t, 1, c.Index())

	_, ok = c.Lookup("a.sub")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Index())
}

func TestBuild_EndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.sub"),
		[]byte("image \"tex.dds\"\nleft 10 \ntop 20\nright 110\nbottom 220\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.sub"),
		[]byte("image \"other.dds\"\nleft 1\ntop 2\nright 3\nbottom 4\n"), 0o644))

	c, err := Build(Options{Root: root, Target: "tex.dds"})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	e, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a.sub", e.Path)
	assert.True(t, e.Record.Renderable())
}

func TestBuild_BadRoot(t *testing.T) {
	_, err := Build(Options{Root: filepath.Join(t.TempDir(), "missing"), Target: "t.dds"})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.sub")
	require.NoError(t, os.WriteFile(file, []byte("image t.dds"), 0o644))
	_, err = Build(Options{Root: file, Target: "t.dds"})
	assert.Error(t, err)
}

func TestEmpty(t *testing.T) {
	c := Empty("t.dds")

	assert.True(t, c.IsEmpty())
	assert.Equal(t, "t.dds", c.Target())
	c.Next()
	assert.Equal(t, -1, c.Index())
}
