/*
Package lzw implements the variable-width LZW compression used for the
image data inside a GIF file.

Codes are packed least-significant-bit first into bytes which are framed
into sub-blocks of at most 255 payload bytes, each preceded by a length
byte and terminated by a single zero-length block. The code width starts
at one more than the palette bit depth and grows up to 12 bits as the
dictionary fills; a ClearCode resets the dictionary and width, an EndCode
terminates the stream.
*/
package lzw

import (
	"errors"
	"io/ioutil"
	"log"
)

const (
	// MinCodeSize and MaxCodeSize bound the palette bit depth accepted
	// for coding; the initial code width is the code size plus one.
	MinCodeSize = 2
	MaxCodeSize = 8

	maxWidth   = 12
	maxEntries = 1 << maxWidth
	maxBlock   = 255
)

var (
	ErrCodeSize      = errors.New("lzw: code size out of range")
	ErrInvalidCode   = errors.New("lzw: invalid code")
	ErrUnexpectedEOF = errors.New("lzw: unexpected end of data")
	ErrBlockSize     = errors.New("lzw: sub-block shorter than declared")
	ErrPixelCount    = errors.New("lzw: decoded pixel count mismatch")
	ErrPixelRange    = errors.New("lzw: pixel value out of palette range")
)

// DecodeOptions configures Decode. A nil value means no diagnostics.
type DecodeOptions struct {
	// Logger receives decode statistics. It never affects the decoded
	// output. nil means discard.
	Logger *log.Logger
}

// EncodeOptions configures Encode. A nil value means default behavior:
// reset the dictionary when it fills up, no diagnostics.
type EncodeOptions struct {
	// NoReset stops inserting new dictionary entries once the table is
	// full instead of emitting a ClearCode and starting over. Highly
	// repetitive images may compress better this way.
	NoReset bool
	// Logger receives encode statistics. It never affects the encoded
	// output. nil means discard.
	Logger *log.Logger
}

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}
