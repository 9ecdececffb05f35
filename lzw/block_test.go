package lzw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockWriterBitLayout(t *testing.T) {
	// Codes pack least-significant-bit first: 0b101 then 0b01 gives the
	// single byte 0b01101, framed as one sub-block plus terminator.
	w := newBlockWriter()
	w.writeCode(0x5, 3)
	w.writeCode(0x1, 2)
	assert.Equal(t, []byte{0x01, 0x0d, 0x00}, w.close())
}

func TestBlockWriterByteBoundary(t *testing.T) {
	w := newBlockWriter()
	w.writeCode(0xff, 8)
	w.writeCode(0xaa, 8)
	assert.Equal(t, []byte{0x02, 0xff, 0xaa, 0x00}, w.close())
}

func TestBlockWriterSubBlockFraming(t *testing.T) {
	// 300 bytes of payload must split into a 255 byte sub-block and a 45
	// byte one.
	w := newBlockWriter()
	for i := 0; i < 300; i++ {
		w.writeCode(uint16(i&0xff), 8)
	}
	out := w.close()

	require.Equal(t, 300+2+1, len(out))
	assert.Equal(t, byte(255), out[0])
	assert.Equal(t, byte(45), out[256])
	assert.Equal(t, byte(0), out[len(out)-1])
}

func TestBlockRoundTrip(t *testing.T) {
	codes := []struct {
		code  uint16
		width uint
	}{
		{4, 3}, {0, 3}, {6, 3}, {7, 3}, {8, 4}, {0xfff, 12}, {5, 4}, {1, 2},
	}

	w := newBlockWriter()
	for _, c := range codes {
		w.writeCode(c.code, c.width)
	}

	r := newBlockReader(w.close())
	for _, c := range codes {
		got, err := r.readCode(c.width)
		require.NoError(t, err)
		assert.Equal(t, c.code, got)
	}
}

func TestBlockReaderCrossesSubBlocks(t *testing.T) {
	// A 12 bit code split across two sub-blocks.
	r := newBlockReader([]byte{0x01, 0x34, 0x01, 0x0a, 0x00})
	code, err := r.readCode(12)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xa34), code)
}

func TestBlockReaderDeclaredLengthTooLong(t *testing.T) {
	// Length byte promises five bytes but only one remains.
	r := newBlockReader([]byte{0x05, 0x84})
	_, err := r.readCode(3)
	assert.ErrorIs(t, err, ErrBlockSize)
}

func TestBlockReaderExhausted(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no terminator", []byte{0x01, 0x84}},
		{"terminator", []byte{0x01, 0x84, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBlockReader(tt.data)
			for {
				if _, err := r.readCode(3); err != nil {
					assert.ErrorIs(t, err, ErrUnexpectedEOF)
					return
				}
			}
		})
	}
}
