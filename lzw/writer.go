package lzw

import (
	"fmt"
)

// The forward dictionary maps a parent code plus appended symbol to the
// code assigned to that sequence. Single symbols are their own codes so
// only compound entries live in the map.
func key(parent uint16, symbol byte) uint32 {
	return uint32(parent)<<8 | uint32(symbol)
}

// Encode compresses the palette indices pix into a framed sub-block
// sequence. minCodeSize is the palette bit depth; every pixel must be
// below 1<<minCodeSize. The output always starts with a ClearCode and
// ends with an EndCode followed by the zero-length terminator block.
//
// Encoding is deterministic: the same input and options always produce
// identical bytes.
func Encode(pix []byte, minCodeSize int, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discard()
	}

	if minCodeSize < MinCodeSize || minCodeSize > MaxCodeSize {
		return nil, fmt.Errorf("%w: %d", ErrCodeSize, minCodeSize)
	}
	for i, p := range pix {
		if int(p) >= 1<<uint(minCodeSize) {
			return nil, fmt.Errorf("%w: pixel %d at offset %d", ErrPixelRange, p, i)
		}
	}

	var (
		clear    = uint16(1) << uint(minCodeSize)
		end      = clear + 1
		minWidth = uint(minCodeSize) + 1

		width = minWidth
		next  = int(end) + 1 // next code to assign, equals table size
		table = make(map[uint32]uint16)
	)

	w := newBlockWriter()
	codes, bits := 0, 0
	emit := func(code uint16) {
		w.writeCode(code, width)
		codes++
		bits += int(width)
	}

	emit(clear)

	if len(pix) > 0 {
		cur := uint16(pix[0])
		for _, p := range pix[1:] {
			if c, ok := table[key(cur, p)]; ok {
				cur = c
				continue
			}

			// Longest match found: emit it, then either grow the table
			// with the match plus the mismatched symbol or, when full,
			// reset (default) or keep matching against the frozen table.
			emit(cur)
			if next < maxEntries {
				table[key(cur, p)] = uint16(next)
				next++
				if next > 1<<width && width < maxWidth {
					width++
				}
			} else if !opts.NoReset {
				emit(clear)
				width = minWidth
				next = int(end) + 1
				table = make(map[uint32]uint16)
			}
			cur = uint16(p)
		}
		emit(cur)
	}

	emit(end)

	logger.Printf("lzw: wrote %d codes, %d bits, %d pixels", codes, bits, len(pix))

	return w.close(), nil
}
