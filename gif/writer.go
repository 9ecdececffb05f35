package gif

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/bodgit/gifraw/lzw"
)

// Options configures Encode. A nil value means default behavior.
type Options struct {
	// NoReset selects the frozen-table policy of the LZW encoder: keep
	// matching against the full dictionary instead of resetting it.
	NoReset bool
	// Quantize reduces an input with more than 256 distinct colors to a
	// 256 color palette instead of failing.
	Quantize bool
	// Logger receives encode diagnostics. It never affects the encoded
	// bytes. nil means discard.
	Logger *log.Logger
}

type encoder struct {
	w   io.Writer
	buf [16]byte
}

func (e *encoder) write(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// paletteBits returns the number of bits needed to index a palette of n
// colors, at least 1.
func paletteBits(n int) int {
	bits := 1
	for 1<<uint(bits) < n {
		bits++
	}
	return bits
}

// uniquePalette returns the distinct colors of m, or nil once there are
// more than can fit in a color table.
func uniquePalette(m image.Image) color.Palette {
	b := m.Bounds()
	seen := make(map[color.Color]struct{})
	p := make(color.Palette, 0, MaxColors)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == MaxColors {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p
}

// toPaletted returns m as a paletted image with at most 256 colors,
// quantizing if allowed. No output is produced before this succeeds.
func toPaletted(m image.Image, quantizeOK bool) (*image.Paletted, error) {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			draw.Draw(pm, b, m, b.Min, draw.Src)
		}
	}

	if pm == nil || len(pm.Palette) > MaxColors {
		p := uniquePalette(m)
		if p == nil && !quantizeOK {
			return nil, ErrTooManyColors
		}
		if p == nil {
			q := quantize.MedianCutQuantizer{}
			p = q.Quantize(make(color.Palette, 0, MaxColors), m)
		}
		pm = image.NewPaletted(b, p)
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

func (e *encoder) writeHeader(width, height, palBits int) error {
	copy(e.buf[:6], "GIF87a")
	e.buf[6] = byte(width)
	e.buf[7] = byte(width >> 8)
	e.buf[8] = byte(height)
	e.buf[9] = byte(height >> 8)
	e.buf[10] = byte(0x80 | (palBits - 1))
	e.buf[11] = 0
	e.buf[12] = 0
	return e.write(e.buf[:13])
}

func (e *encoder) writeColorTable(p color.Palette, palBits int) error {
	table := make([]byte, 3<<uint(palBits))
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		table[3*i] = byte(r >> 8)
		table[3*i+1] = byte(g >> 8)
		table[3*i+2] = byte(b >> 8)
	}
	return e.write(table)
}

func (e *encoder) writeImageDescriptor(width, height int) error {
	e.buf[0] = sImageDescriptor
	e.buf[1], e.buf[2] = 0, 0 // left
	e.buf[3], e.buf[4] = 0, 0 // top
	e.buf[5] = byte(width)
	e.buf[6] = byte(width >> 8)
	e.buf[7] = byte(height)
	e.buf[8] = byte(height >> 8)
	e.buf[9] = 0
	return e.write(e.buf[:10])
}

// Encode writes m to w as a GIF87a file with a single non-interlaced
// image and a global color table.
func Encode(w io.Writer, m image.Image, o *Options) error {
	if o == nil {
		o = &Options{}
	}
	logger := o.Logger
	if logger == nil {
		logger = discard()
	}

	b := m.Bounds()
	if b.Dx() < 1 || b.Dx() > 0xffff || b.Dy() < 1 || b.Dy() > 0xffff {
		return ErrImageSize
	}

	pm, err := toPaletted(m, o.Quantize)
	if err != nil {
		return err
	}

	width, height := pm.Rect.Dx(), pm.Rect.Dy()
	palBits := paletteBits(len(pm.Palette))

	// The minimum code size byte is the palette bit depth, but never
	// less than 2 so that the clear and end codes fit.
	minCodeSize := palBits
	if minCodeSize < 2 {
		minCodeSize = 2
	}

	pix := make([]byte, width*height)
	for y := 0; y < height; y++ {
		copy(pix[y*width:(y+1)*width], pm.Pix[y*pm.Stride:y*pm.Stride+width])
	}

	data, err := lzw.Encode(pix, minCodeSize, &lzw.EncodeOptions{
		NoReset: o.NoReset,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	e := encoder{w: w}

	if err := e.writeHeader(width, height, palBits); err != nil {
		return err
	}
	if err := e.writeColorTable(pm.Palette, palBits); err != nil {
		return err
	}
	if err := e.writeImageDescriptor(width, height); err != nil {
		return err
	}
	e.buf[0] = byte(minCodeSize)
	if err := e.write(e.buf[:1]); err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return err
	}
	e.buf[0] = sTrailer
	return e.write(e.buf[:1])
}
