package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/bits"
)

// DDS header layout.
const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 124
	ddsDataOffset = 4 + ddsHeaderSize

	ddsMaxDimension = 16384

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
)

// DDS compression codes read from the pixel format.
const (
	FourCCDXT1 = "DXT1"
	FourCCDXT3 = "DXT3"
	FourCCDXT5 = "DXT5"
)

// ErrTruncatedDDS is returned when the header or pixel data ends early.
var ErrTruncatedDDS = errors.New("DDS data truncated")

type ddsPixelFormat struct {
	flags    uint32
	fourCC   string
	bitCount int
	masks    [4]uint32 // r, g, b, a
}

// DecodeDDS decodes the top mip level of a DDS texture.
// Supports DXT1, DXT3, DXT5 and uncompressed 24/32-bit RGB(A).
func DecodeDDS(data []byte) (image.Image, error) {
	if len(data) < ddsDataOffset {
		return nil, fmt.Errorf("%w: header", ErrTruncatedDDS)
	}
	if string(data[:4]) != ddsMagic {
		return nil, fmt.Errorf("not a DDS file (magic %q)", data[:4])
	}

	le := binary.LittleEndian
	if size := le.Uint32(data[4:]); size != ddsHeaderSize {
		return nil, fmt.Errorf("invalid DDS header size %d", size)
	}
	height := int(le.Uint32(data[12:]))
	width := int(le.Uint32(data[16:]))

	pf := ddsPixelFormat{
		flags:    le.Uint32(data[80:]),
		fourCC:   string(data[84:88]),
		bitCount: int(le.Uint32(data[88:])),
		masks: [4]uint32{
			le.Uint32(data[92:]),
			le.Uint32(data[96:]),
			le.Uint32(data[100:]),
			le.Uint32(data[104:]),
		},
	}

	if width <= 0 || height <= 0 || width > ddsMaxDimension || height > ddsMaxDimension {
		return nil, fmt.Errorf("invalid DDS dimensions %dx%d", width, height)
	}
	src := data[ddsDataOffset:]

	var (
		img *image.RGBA
		err error
	)
	switch {
	case pf.flags&ddpfFourCC != 0:
		var blockSize int
		var decode func(block []byte, out *[16]color.RGBA)
		switch pf.fourCC {
		case FourCCDXT1:
			blockSize, decode = 8, decodeDXT1
		case FourCCDXT3:
			blockSize, decode = 16, decodeDXT3
		case FourCCDXT5:
			blockSize, decode = 16, decodeDXT5
		default:
			return nil, fmt.Errorf("%w: DDS compression %q", ErrUnsupportedFormat, pf.fourCC)
		}
		img, err = decodeBlocks(width, height, src, blockSize, decode)
	case pf.flags&ddpfRGB != 0:
		img, err = decodeUncompressed(width, height, src, pf)
	default:
		return nil, fmt.Errorf("%w: DDS pixel format flags %#x", ErrUnsupportedFormat, pf.flags)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// decodeBlocks walks 4x4 blocks left to right, top to bottom. Pixels of
// edge blocks that fall outside the image are dropped.
func decodeBlocks(width, height int, src []byte, blockSize int, decode func([]byte, *[16]color.RGBA)) (*image.RGBA, error) {
	bw, bh := (width+3)/4, (height+3)/4
	if len(src) < bw*bh*blockSize {
		return nil, fmt.Errorf("%w: block data", ErrTruncatedDDS)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var px [16]color.RGBA
	pos := 0
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			decode(src[pos:pos+blockSize], &px)
			pos += blockSize
			for i, c := range px {
				img.SetRGBA(bx*4+i%4, by*4+i/4, c)
			}
		}
	}
	return img, nil
}

// rgb565 expands a packed 5:6:5 colour to 8 bits per channel.
func rgb565(v uint16) color.RGBA {
	r := uint8(v >> 11 & 0x1F)
	g := uint8(v >> 5 & 0x3F)
	b := uint8(v & 0x1F)
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 255}
}

func mix(a, b color.RGBA, wa, wb int) color.RGBA {
	n := wa + wb
	return color.RGBA{
		R: uint8((int(a.R)*wa + int(b.R)*wb) / n),
		G: uint8((int(a.G)*wa + int(b.G)*wb) / n),
		B: uint8((int(a.B)*wa + int(b.B)*wb) / n),
		A: 255,
	}
}

// colorBlock decodes the 8-byte colour part shared by all DXT variants.
// DXT1 switches to three colours plus transparent when c0 <= c1.
func colorBlock(block []byte, dxt1 bool, out *[16]color.RGBA) {
	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	indices := binary.LittleEndian.Uint32(block[4:])

	var palette [4]color.RGBA
	palette[0], palette[1] = rgb565(c0), rgb565(c1)
	if c0 > c1 || !dxt1 {
		palette[2] = mix(palette[0], palette[1], 2, 1)
		palette[3] = mix(palette[0], palette[1], 1, 2)
	} else {
		palette[2] = mix(palette[0], palette[1], 1, 1)
		palette[3] = color.RGBA{}
	}

	for i := range out {
		out[i] = palette[indices>>(2*i)&0x3]
	}
}

func decodeDXT1(block []byte, out *[16]color.RGBA) {
	colorBlock(block, true, out)
}

// decodeDXT3 applies explicit 4-bit alpha.
func decodeDXT3(block []byte, out *[16]color.RGBA) {
	colorBlock(block[8:], false, out)
	alpha := binary.LittleEndian.Uint64(block[0:])
	for i := range out {
		a := uint8(alpha >> (4 * i) & 0xF)
		out[i] = premultiply(out[i], a<<4|a)
	}
}

// decodeDXT5 applies interpolated alpha with 3-bit indices.
func decodeDXT5(block []byte, out *[16]color.RGBA) {
	colorBlock(block[8:], false, out)

	a0, a1 := int(block[0]), int(block[1])
	var levels [8]uint8
	levels[0], levels[1] = uint8(a0), uint8(a1)
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			levels[i+1] = uint8(((7-i)*a0 + i*a1) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			levels[i+1] = uint8(((5-i)*a0 + i*a1) / 5)
		}
		levels[6], levels[7] = 0, 255
	}

	var bitsLE uint64
	for i := 0; i < 6; i++ {
		bitsLE |= uint64(block[2+i]) << (8 * i)
	}
	for i := range out {
		out[i] = premultiply(out[i], levels[bitsLE>>(3*i)&0x7])
	}
}

// premultiply sets alpha on an opaque colour; image.RGBA stores
// alpha-premultiplied values.
func premultiply(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

// decodeUncompressed reads 24/32-bit pixels through the channel bit masks.
func decodeUncompressed(width, height int, src []byte, pf ddsPixelFormat) (*image.RGBA, error) {
	if pf.bitCount != 24 && pf.bitCount != 32 {
		return nil, fmt.Errorf("%w: DDS bit depth %d", ErrUnsupportedFormat, pf.bitCount)
	}
	bytesPP := pf.bitCount / 8
	if len(src) < width*height*bytesPP {
		return nil, fmt.Errorf("%w: pixel data", ErrTruncatedDDS)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	hasAlpha := pf.flags&ddpfAlphaPixels != 0 && pf.masks[3] != 0
	pos := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v uint32
			for i := 0; i < bytesPP; i++ {
				v |= uint32(src[pos+i]) << (8 * i)
			}
			pos += bytesPP

			c := color.RGBA{
				R: channel(v, pf.masks[0]),
				G: channel(v, pf.masks[1]),
				B: channel(v, pf.masks[2]),
				A: 255,
			}
			if hasAlpha {
				c = premultiply(c, channel(v, pf.masks[3]))
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// channel extracts the masked bits of v and scales them to 8 bits.
func channel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	x := uint64(v&mask) >> shift
	maxVal := uint64(1)<<width - 1
	return uint8(x * 255 / maxVal)
}
