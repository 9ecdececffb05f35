package gif

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"

	"github.com/bodgit/gifraw/lzw"
)

// DecodeOptions configures Decode. A nil value means no diagnostics.
type DecodeOptions struct {
	// Logger receives decode diagnostics. It never affects the decoded
	// pixels. nil means discard.
	Logger *log.Logger
}

// FileInfo describes the first image of a GIF file.
type FileInfo struct {
	Version   string
	Width     int
	Height    int
	Colors    int
	Interlace bool
}

type decoder struct {
	r      io.Reader
	logger *log.Logger

	version   string
	width     int
	height    int
	interlace bool
	palette   color.Palette

	minCodeSize int
	data        []byte // framed LZW sub-block stream, terminator included

	image *image.Paletted

	// Enough to hold the largest color table
	tmp [3 * MaxColors]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:13]); err != nil {
		return err
	}

	if string(d.tmp[:3]) != "GIF" {
		return ErrNotGIF
	}
	d.version = string(d.tmp[3:6])
	if d.version != "87a" && d.version != "89a" {
		d.logger.Printf("gif: unknown version %q", d.version)
	}

	// Logical Screen Descriptor; only the global color table flag and
	// size matter, the screen dimensions are those of the first image.
	if d.tmp[10]&fColorTable != 0 {
		return d.readColorTable(int(d.tmp[10] & fColorTableBits))
	}
	return nil
}

func (d *decoder) readColorTable(bits int) error {
	n := 1 << uint(bits+1)
	if err := readFull(d.r, d.tmp[:3*n]); err != nil {
		return err
	}
	d.palette = make(color.Palette, n)
	for i := range d.palette {
		d.palette[i] = color.RGBA{d.tmp[3*i], d.tmp[3*i+1], d.tmp[3*i+2], 0xff}
	}
	return nil
}

// skipSubBlocks discards a sub-block sequence up to and including its
// zero-length terminator.
func (d *decoder) skipSubBlocks() error {
	for {
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		n := int(d.tmp[0])
		if n == 0 {
			return nil
		}
		if err := readFull(d.r, d.tmp[:n]); err != nil {
			return err
		}
	}
}

func (d *decoder) skipExtension() error {
	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return err
	}
	switch d.tmp[0] {
	case ePlainText, eGraphicControl, eApplication:
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		if err := readFull(d.r, d.tmp[:int(d.tmp[0])]); err != nil {
			return err
		}
	case eComment:
	default:
		return fmt.Errorf("%w: 0x%02x", ErrExtensionLabel, d.tmp[0])
	}
	return d.skipSubBlocks()
}

// readImage parses the Image Descriptor, an optional local color table
// which takes precedence over the global one, the minimum code size and
// the framed LZW data.
func (d *decoder) readImage() error {
	if err := readFull(d.r, d.tmp[:9]); err != nil {
		return err
	}

	d.width = int(d.tmp[4]) | int(d.tmp[5])<<8
	d.height = int(d.tmp[6]) | int(d.tmp[7])<<8
	if d.width == 0 || d.height == 0 {
		return ErrZeroArea
	}
	packed := d.tmp[8]
	d.interlace = packed&fInterlace != 0

	if packed&fColorTable != 0 {
		if err := d.readColorTable(int(packed & fColorTableBits)); err != nil {
			return err
		}
	}
	if d.palette == nil {
		return ErrNoPalette
	}

	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return err
	}
	d.minCodeSize = int(d.tmp[0])
	if d.minCodeSize < 2 || d.minCodeSize > 11 {
		return fmt.Errorf("%w: %d", ErrCodeSize, d.minCodeSize)
	}

	for {
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		n := int(d.tmp[0])
		d.data = append(d.data, d.tmp[0])
		if n == 0 {
			return nil
		}
		if err := readFull(d.r, d.tmp[:n]); err != nil {
			return err
		}
		d.data = append(d.data, d.tmp[:n]...)
	}
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r
	if d.logger == nil {
		d.logger = discard()
	}

	if err := d.readHeader(); err != nil {
		return err
	}

	// Find the first image, skipping any extensions before it.
loop:
	for {
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		switch d.tmp[0] {
		case sImageDescriptor:
			if err := d.readImage(); err != nil {
				return err
			}
			break loop
		case sExtension:
			if err := d.skipExtension(); err != nil {
				return err
			}
		case sTrailer:
			return ErrNoImage
		default:
			return fmt.Errorf("%w: 0x%02x", ErrBlockType, d.tmp[0])
		}
	}

	if configOnly {
		return nil
	}

	pix, err := lzw.Decode(d.data, d.minCodeSize, d.width*d.height, &lzw.DecodeOptions{Logger: d.logger})
	if err != nil {
		return err
	}

	for _, p := range pix {
		if int(p) >= len(d.palette) {
			return fmt.Errorf("%w: %d", ErrBadIndex, p)
		}
	}

	if d.interlace {
		pix = deinterlace(pix, d.width, d.height)
	}

	d.image = &image.Paletted{
		Pix:     pix,
		Stride:  d.width,
		Rect:    image.Rect(0, 0, d.width, d.height),
		Palette: d.palette,
	}

	return nil
}

// Decode reads the first image of a GIF file from r.
func Decode(r io.Reader, o *DecodeOptions) (*image.Paletted, error) {
	var d decoder
	if o != nil {
		d.logger = o.Logger
	}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of the first image
// of a GIF file without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// DecodeInfo returns metadata for the first image of a GIF file without
// decoding the pixel data.
func DecodeInfo(r io.Reader) (*FileInfo, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return nil, err
	}
	return &FileInfo{
		Version:   d.version,
		Width:     d.width,
		Height:    d.height,
		Colors:    len(d.palette),
		Interlace: d.interlace,
	}, nil
}
