package formats

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/sub-viewer/pkg/encoding"
)

// SUB format errors.
var (
	ErrMalformedCoordinate = errors.New("malformed SUB coordinate")
)

// SUB directive names.
const (
	SubImage  = "image"
	SubLeft   = "left"
	SubTop    = "top"
	SubRight  = "right"
	SubBottom = "bottom"
)

// SubCoordinates lists the coordinate directives in reporting order.
var SubCoordinates = []string{SubLeft, SubTop, SubRight, SubBottom}

// CoordinateError reports a coordinate directive whose value is not a
// base-10 integer or does not fit in an int. File is empty when the data did
// not come from disk.
type CoordinateError struct {
	File  string
	Line  int
	Key   string
	Value string
	Err   error
}

func (e *CoordinateError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if errors.Is(e.Err, strconv.ErrRange) {
		return fmt.Sprintf("%s: %s value %q is out of range", loc, e.Key, e.Value)
	}
	return fmt.Sprintf("%s: %s value %q is not an integer", loc, e.Key, e.Value)
}

// Unwrap makes errors.Is(err, ErrMalformedCoordinate) hold.
func (e *CoordinateError) Unwrap() []error {
	return []error{ErrMalformedCoordinate, e.Err}
}

// SubRecord is the parsed content of one .sub file.
type SubRecord struct {
	Coords   map[string]int // only directives found in the file
	Image    string         // referenced image name
	HasImage bool           // false when the file has no image directive
}

// Coord returns a coordinate and whether it was present.
func (r *SubRecord) Coord(name string) (int, bool) {
	v, ok := r.Coords[name]
	return v, ok
}

// Renderable reports whether all four coordinates are present.
func (r *SubRecord) Renderable() bool {
	return len(r.Missing()) == 0
}

// Missing returns the absent coordinate names in left/top/right/bottom order.
func (r *SubRecord) Missing() []string {
	var missing []string
	for _, name := range SubCoordinates {
		if _, ok := r.Coords[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Bounds returns the region as a canonical rectangle whose Max corner is the
// inclusive (right, bottom) point. Returns false if the record is incomplete.
func (r *SubRecord) Bounds() (image.Rectangle, bool) {
	if !r.Renderable() {
		return image.Rectangle{}, false
	}
	return image.Rect(r.Coords[SubLeft], r.Coords[SubTop], r.Coords[SubRight], r.Coords[SubBottom]), true
}

// ParseSub parses a UTF-8 .sub file from raw bytes.
func ParseSub(data []byte) (*SubRecord, error) {
	return ParseSubEncoded(data, encoding.UTF8)
}

// ParseSubEncoded parses .sub data stored in the named text encoding.
func ParseSubEncoded(data []byte, enc string) (*SubRecord, error) {
	text, err := encoding.Decode(data, enc)
	if err != nil {
		return nil, err
	}
	return parseSubLines(strings.Split(text, "\n"))
}

// ParseSubFile parses a .sub file from disk. Coordinate errors carry the path.
func ParseSubFile(path, enc string) (*SubRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SUB file: %w", err)
	}
	rec, err := ParseSubEncoded(data, enc)
	if err != nil {
		var ce *CoordinateError
		if errors.As(err, &ce) {
			ce.File = path
		}
		return nil, err
	}
	return rec, nil
}

func parseSubLines(lines []string) (*SubRecord, error) {
	rec := &SubRecord{Coords: make(map[string]int, 4)}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		switch parts[0] {
		case SubImage:
			rec.Image = unquote(strings.TrimSpace(strings.Join(parts[1:], " ")))
			rec.HasImage = true
		case SubLeft, SubTop, SubRight, SubBottom:
			v, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, &CoordinateError{Line: i + 1, Key: parts[0], Value: parts[1], Err: err}
			}
			rec.Coords[parts[0]] = v
		}
	}

	return rec, nil
}

// unquote strips one layer of double quotes present on both ends.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
