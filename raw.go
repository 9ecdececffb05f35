package gifraw

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"io/ioutil"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/bodgit/gifraw/gif"
)

var (
	ErrInvalidWidth = errors.New("gifraw: width must be between 1 and 65535")
	ErrRawSize      = errors.New("gifraw: invalid raw data size")
)

// ReadRaw reads packed RGB triples from r and returns them as a paletted
// image of the given width; the height is derived from the data size.
// More than 256 distinct colors is an error unless quantizeOK is set, in
// which case the input is reduced to a 256 color palette first.
func ReadRaw(r io.Reader, width int, quantizeOK bool) (*image.Paletted, error) {
	if width < 1 || width > 0xffff {
		return nil, ErrInvalidWidth
	}

	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 || len(raw)%(width*3) != 0 {
		return nil, fmt.Errorf("%w: %d bytes for width %d", ErrRawSize, len(raw), width)
	}
	height := len(raw) / (width * 3)
	if height > 0xffff {
		return nil, fmt.Errorf("%w: height %d", ErrRawSize, height)
	}

	// Count distinct colors; the palette is the sorted set so encoding
	// the same raster twice yields identical output.
	colors := make(map[[3]byte]int)
	for i := 0; i < len(raw); i += 3 {
		var c [3]byte
		copy(c[:], raw[i:i+3])
		colors[c] = 0
	}

	b := image.Rect(0, 0, width, height)

	if len(colors) > gif.MaxColors {
		if !quantizeOK {
			return nil, gif.ErrTooManyColors
		}

		rgba := image.NewRGBA(b)
		for i := 0; i < width*height; i++ {
			rgba.SetRGBA(i%width, i/width, color.RGBA{raw[3*i], raw[3*i+1], raw[3*i+2], 0xff})
		}
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, gif.MaxColors), rgba))
		draw.Draw(pm, b, rgba, b.Min, draw.Src)
		return pm, nil
	}

	keys := make([][3]byte, 0, len(colors))
	for c := range colors {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	palette := make(color.Palette, len(keys))
	for i, c := range keys {
		colors[c] = i
		palette[i] = color.RGBA{c[0], c[1], c[2], 0xff}
	}

	pm := image.NewPaletted(b, palette)
	for i := 0; i < width*height; i++ {
		var c [3]byte
		copy(c[:], raw[3*i:3*i+3])
		pm.Pix[i] = byte(colors[c])
	}

	return pm, nil
}

// WriteRaw writes m to w as packed RGB triples in row-major order.
func WriteRaw(w io.Writer, m image.Image) error {
	bw := bufio.NewWriter(w)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.At(x, y).RGBA()
			if _, err := bw.Write([]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8)}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
