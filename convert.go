package gifraw

import (
	"io"

	"github.com/bodgit/gifraw/gif"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Width of the raw image in pixels; the height is derived from the
	// data size.
	Width int
	// NoReset keeps the LZW dictionary frozen once full instead of
	// resetting it.
	NoReset bool
	// Quantize reduces an input with more than 256 distinct colors
	// instead of failing.
	Quantize bool
}

// Decode reads a GIF file from r and writes its first image to w as raw
// RGB data.
func (g *GifRaw) Decode(r io.Reader, w io.Writer) error {
	m, err := gif.Decode(r, &gif.DecodeOptions{Logger: g.logger})
	if err != nil {
		return err
	}
	return WriteRaw(w, m)
}

// Encode reads raw RGB data from r and writes it to w as a GIF file.
// Nothing is written until the input has been fully validated.
func (g *GifRaw) Encode(r io.Reader, w io.Writer, o *EncodeOptions) error {
	if o == nil {
		o = &EncodeOptions{}
	}

	m, err := ReadRaw(r, o.Width, o.Quantize)
	if err != nil {
		return err
	}

	g.logger.Printf("gifraw: %dx%d, %d colors", m.Rect.Dx(), m.Rect.Dy(), len(m.Palette))

	return gif.Encode(w, m, &gif.Options{
		NoReset:  o.NoReset,
		Quantize: o.Quantize,
		Logger:   g.logger,
	})
}

// Info writes a listing of the block structure of the GIF file read from
// r to w.
func (g *GifRaw) Info(r io.Reader, w io.Writer) error {
	return gif.Dump(r, w)
}
