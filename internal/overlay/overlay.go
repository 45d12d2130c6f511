// Package overlay draws SUB regions over texture images.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/Faultbox/sub-viewer/pkg/formats"
)

// ErrIncompleteRecord is returned when a record lacks one of the four
// coordinates. The base image is left untouched.
var ErrIncompleteRecord = errors.New("incomplete SUB record")

// Default stroke.
const (
	DefaultColor = "#ff0000"
	DefaultWidth = 2
)

// Style holds the outline stroke.
type Style struct {
	Color color.RGBA
	Width int
}

// DefaultStyle returns a red, 2 pixel outline.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{R: 0xff, A: 0xff}, Width: DefaultWidth}
}

// NewStyle builds a style from a hex colour and width. Width below 1 is
// treated as 1.
func NewStyle(hex string, width int) (Style, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return Style{}, err
	}
	if width < 1 {
		width = 1
	}
	return Style{Color: c, Width: width}, nil
}

// ParseHexColor parses "#rrggbb", "#rrggbbaa" or the short "#rgb" form.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Copy returns an RGBA copy of img with the same bounds.
func Copy(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// Draw returns a copy of base with rec's region outlined. Both corners are
// inclusive and the stroke grows inward from the region edge. Coordinates
// are relative to the image origin; anything outside is clipped.
func Draw(base image.Image, rec *formats.SubRecord, style Style) (*image.RGBA, error) {
	r, ok := rec.Bounds()
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteRecord, strings.Join(rec.Missing(), ", "))
	}

	dst := Copy(base)
	b := base.Bounds()
	r = clampRect(r, b.Sub(b.Min), style.Width)
	Rect(dst, r.Add(b.Min), style)
	return dst, nil
}

// Rect outlines the inclusive rectangle r on dst.
func Rect(dst draw.Image, r image.Rectangle, style Style) {
	w := max(style.Width, 1)
	r = clampRect(r, dst.Bounds(), w)

	// Max is inclusive in SUB coordinates.
	outer := image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1)
	src := image.NewUniform(style.Color)

	bands := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+w),
		image.Rect(outer.Min.X, outer.Max.Y-w, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, outer.Min.Y, outer.Min.X+w, outer.Max.Y),
		image.Rect(outer.Max.X-w, outer.Min.Y, outer.Max.X, outer.Max.Y),
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(outer), src, image.Point{}, draw.Src)
	}
}

// clampRect limits r to b grown by a stroke-width margin. Edges past the
// margin stay off-image, and the inclusive +1 cannot overflow.
func clampRect(r, b image.Rectangle, w int) image.Rectangle {
	w = max(w, 1)
	lo := b.Min.Sub(image.Pt(w+1, w+1))
	hi := b.Max.Add(image.Pt(w, w))
	return image.Rectangle{
		Min: image.Pt(min(max(r.Min.X, lo.X), hi.X), min(max(r.Min.Y, lo.Y), hi.Y)),
		Max: image.Pt(min(max(r.Max.X, lo.X), hi.X), min(max(r.Max.Y, lo.Y), hi.Y)),
	}
}
