// Package texture loads base images for overlay rendering.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrUnsupportedFormat is returned when no registered decoder accepts the data.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var extDecoders = map[string]func([]byte) (image.Image, error){
	".tga": DecodeTGA,
	".dds": DecodeDDS,
}

// Load reads and decodes an image file.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return Decode(data, filepath.Base(path))
}

// Decode decodes image data. TGA and DDS are selected by the extension of
// name since they are not registered with the image package; everything
// else is sniffed.
func Decode(data []byte, name string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if decode, ok := extDecoders[ext]; ok {
		img, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, name, extLabel(ext))
		}
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

func extLabel(ext string) string {
	if ext == "" {
		return "no extension"
	}
	return ext
}
