package lzw

import (
	"fmt"
)

// The dictionary is an arena indexed by code: each entry is its parent
// code, the appended symbol and the total sequence length. Sequences are
// reconstructed by walking parents and writing backward into the output,
// so no entry ever owns a growable buffer.
type decoder struct {
	prefix [maxEntries]int16
	suffix [maxEntries]byte
	length [maxEntries]int32

	clear, end uint16
	next       int // next code to assign, equals current table size
	width      uint
	minWidth   uint
}

func newDecoder(minCodeSize int) *decoder {
	d := &decoder{
		clear:    1 << uint(minCodeSize),
		end:      1<<uint(minCodeSize) + 1,
		minWidth: uint(minCodeSize) + 1,
	}
	for i := 0; i < 1<<uint(minCodeSize); i++ {
		d.prefix[i] = -1
		d.suffix[i] = byte(i)
		d.length[i] = 1
	}
	d.prefix[d.clear] = -1
	d.prefix[d.end] = -1
	d.reset()
	return d
}

func (d *decoder) reset() {
	d.next = int(d.end) + 1
	d.width = d.minWidth
}

// first returns the first symbol of the sequence for code c.
func (d *decoder) first(c int) byte {
	for d.prefix[c] >= 0 {
		c = int(d.prefix[c])
	}
	return d.suffix[c]
}

// Decode decompresses the framed sub-block sequence src into exactly
// pixels palette indices. minCodeSize is the palette bit depth used when
// the stream was encoded. Any malformed code reference, truncated input
// or pixel count mismatch aborts the whole decode; no partial output is
// returned.
func Decode(src []byte, minCodeSize, pixels int, opts *DecodeOptions) ([]byte, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discard()
	}

	if minCodeSize < MinCodeSize || minCodeSize > MaxCodeSize {
		return nil, fmt.Errorf("%w: %d", ErrCodeSize, minCodeSize)
	}
	if pixels < 0 {
		return nil, ErrPixelCount
	}

	d := newDecoder(minCodeSize)
	r := newBlockReader(src)
	out := make([]byte, pixels)

	pos := 0
	prev := -1
	codes, bits := 0, 0

loop:
	for {
		code, err := r.readCode(d.width)
		if err != nil {
			return nil, err
		}
		codes++
		bits += int(d.width)

		switch {
		case code == d.clear:
			d.reset()
			prev = -1

		case code == d.end:
			break loop

		default:
			c := int(code)
			if c > d.next || (c == d.next && prev < 0) {
				return nil, fmt.Errorf("%w: %d", ErrInvalidCode, c)
			}

			// Insert previous sequence plus the first symbol of the
			// current one. When c is the not-yet-assigned next index the
			// entry being inserted is the one being referenced, so the
			// appended symbol comes from the previous sequence instead.
			if prev >= 0 && d.next < maxEntries {
				sc := c
				if c == d.next {
					sc = prev
				}
				d.prefix[d.next] = int16(prev)
				d.suffix[d.next] = d.first(sc)
				d.length[d.next] = d.length[prev] + 1
				d.next++
			}

			n := int(d.length[c])
			if pos+n > pixels {
				return nil, ErrPixelCount
			}
			for i, k := pos+n-1, c; i >= pos; i-- {
				out[i] = d.suffix[k]
				k = int(d.prefix[k])
			}
			pos += n

			if d.next < maxEntries {
				prev = c
			} else {
				prev = -1
			}
			if d.next == 1<<d.width && d.width < maxWidth {
				d.width++
			}
		}
	}

	if pos != pixels {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPixelCount, pos, pixels)
	}

	logger.Printf("lzw: read %d codes, %d bits, %d pixels", codes, bits, pos)

	return out, nil
}
