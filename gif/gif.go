/*
Package gif implements a decoder and encoder for the GIF container
format.

Only the first image of a file is decoded; extension blocks before it
are parsed and skipped. Encoding always produces a GIF87a file with a
global color table and a single non-interlaced image. The LZW layer
underneath lives in the lzw package.
*/
package gif

import (
	"errors"
	"io"
	"io/ioutil"
	"log"
)

// Section indicators and extension labels.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2c
	sTrailer         = 0x3b

	ePlainText      = 0x01
	eGraphicControl = 0xf9
	eComment        = 0xfe
	eApplication    = 0xff
)

// Packed field masks.
const (
	fColorTable     = 1 << 7
	fInterlace      = 1 << 6
	fColorTableBits = 0x07
)

// MaxColors is the largest palette a GIF color table can hold.
const MaxColors = 256

var (
	ErrNotGIF         = errors.New("gif: not a GIF file")
	ErrTruncated      = errors.New("gif: unexpected end of file")
	ErrNoImage        = errors.New("gif: no image")
	ErrNoPalette      = errors.New("gif: no palette")
	ErrZeroArea       = errors.New("gif: image area zero")
	ErrBlockType      = errors.New("gif: invalid block type")
	ErrExtensionLabel = errors.New("gif: invalid extension label")
	ErrCodeSize       = errors.New("gif: invalid minimum code size")
	ErrBadIndex       = errors.New("gif: invalid index in image data")
	ErrImageSize      = errors.New("gif: invalid image size")
	ErrTooManyColors  = errors.New("gif: too many colors")
)

func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return ErrTruncated
	}
	return nil
}

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}
