package lzw

// blockReader unpacks least-significant-bit-first codes from a sub-block
// framed byte sequence. It has no knowledge of dictionary semantics; the
// cursor (bit accumulator plus count) is plain struct state so the layer
// can be tested on its own.
type blockReader struct {
	src       []byte
	pos       int // next unread byte in src
	remaining int // payload bytes left in the current sub-block
	acc       uint32
	nbits     uint
	done      bool // zero-length terminator seen
}

func newBlockReader(src []byte) *blockReader {
	return &blockReader{src: src}
}

// readCode returns the next width-bit code, crossing sub-block boundaries
// transparently. Exhausting the input mid-code is an error; the caller is
// expected to stop at EndCode before that can legitimately happen.
func (r *blockReader) readCode(width uint) (uint16, error) {
	for r.nbits < width {
		if r.remaining == 0 {
			if r.done || r.pos >= len(r.src) {
				return 0, ErrUnexpectedEOF
			}
			n := int(r.src[r.pos])
			r.pos++
			if n == 0 {
				r.done = true
				return 0, ErrUnexpectedEOF
			}
			if r.pos+n > len(r.src) {
				return 0, ErrBlockSize
			}
			r.remaining = n
		}
		r.acc |= uint32(r.src[r.pos]) << r.nbits
		r.pos++
		r.remaining--
		r.nbits += 8
	}

	code := uint16(r.acc & (1<<width - 1))
	r.acc >>= width
	r.nbits -= width

	return code, nil
}

// blockWriter packs least-significant-bit-first codes into sub-blocks of
// at most 255 payload bytes, each preceded by its length byte.
type blockWriter struct {
	out   []byte
	block [maxBlock]byte
	blen  int
	acc   uint32
	nbits uint
}

func newBlockWriter() *blockWriter {
	return &blockWriter{}
}

func (w *blockWriter) writeCode(code uint16, width uint) {
	w.acc |= uint32(code) << w.nbits
	w.nbits += width
	for w.nbits >= 8 {
		w.writeByte(byte(w.acc))
		w.acc >>= 8
		w.nbits -= 8
	}
}

func (w *blockWriter) writeByte(b byte) {
	w.block[w.blen] = b
	w.blen++
	if w.blen == maxBlock {
		w.flushBlock()
	}
}

func (w *blockWriter) flushBlock() {
	if w.blen == 0 {
		return
	}
	w.out = append(w.out, byte(w.blen))
	w.out = append(w.out, w.block[:w.blen]...)
	w.blen = 0
}

// close flushes any partial byte and sub-block, writes the zero-length
// terminator and returns the framed stream.
func (w *blockWriter) close() []byte {
	if w.nbits > 0 {
		w.writeByte(byte(w.acc))
		w.acc, w.nbits = 0, 0
	}
	w.flushBlock()
	w.out = append(w.out, 0)
	return w.out
}
