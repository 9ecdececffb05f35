package gif

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodgit/gifraw/lzw"
)

// grayPalette returns n distinct grays.
func grayPalette(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		p[i] = color.RGBA{byte(i), byte(i), byte(i), 0xff}
	}
	return p
}

func testImage(width, height, colors int) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, width, height), grayPalette(colors))
	for i := range m.Pix {
		m.Pix[i] = byte((i * 7) % colors)
	}
	return m
}

// buildGIF assembles a GIF file around pre-encoded LZW data so that
// interlaced and malformed variants can be produced at will. The global
// color table holds 1<<palBits grays.
func buildGIF(version string, width, height, palBits int, interlace bool, minCodeSize int, blocks, data []byte) []byte {
	var b bytes.Buffer

	b.WriteString("GIF" + version)
	b.Write([]byte{byte(width), byte(width >> 8), byte(height), byte(height >> 8)})
	b.WriteByte(byte(0x80 | (palBits - 1)))
	b.Write([]byte{0, 0})
	for i := 0; i < 1<<uint(palBits); i++ {
		b.Write([]byte{byte(i), byte(i), byte(i)})
	}

	b.Write(blocks)

	var packed byte
	if interlace {
		packed = fInterlace
	}
	b.Write([]byte{sImageDescriptor, 0, 0, 0, 0, byte(width), byte(width >> 8), byte(height), byte(height >> 8), packed})
	b.WriteByte(byte(minCodeSize))
	b.Write(data)
	b.WriteByte(sTrailer)

	return b.Bytes()
}

func TestRoundTrip(t *testing.T) {
	m := testImage(13, 7, 5)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, nil))

	got, err := Decode(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)

	require.Equal(t, m.Rect, got.Rect)
	for y := 0; y < 7; y++ {
		for x := 0; x < 13; x++ {
			assert.Equal(t, m.At(x, y), got.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	m := testImage(32, 32, 17)

	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, m, nil))
	require.NoError(t, Encode(&b, m, nil))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestDecodeInterlaced(t *testing.T) {
	const width, height = 3, 10

	// Each row is filled with its logical index so the pass remapping is
	// directly visible.
	logical := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			logical[y*width+x] = byte(y)
		}
	}

	// Rows stored in four-pass order: 0,8 then 4 then 2,6 then odd rows.
	physical := make([]byte, 0, len(logical))
	for _, y := range []int{0, 8, 4, 2, 6, 1, 3, 5, 7, 9} {
		physical = append(physical, logical[y*width:(y+1)*width]...)
	}

	plain, err := lzw.Encode(logical, 4, nil)
	require.NoError(t, err)
	inter, err := lzw.Encode(physical, 4, nil)
	require.NoError(t, err)

	a, err := Decode(bytes.NewReader(buildGIF("87a", width, height, 4, false, 4, nil, plain)), nil)
	require.NoError(t, err)
	b, err := Decode(bytes.NewReader(buildGIF("87a", width, height, 4, true, 4, nil, inter)), nil)
	require.NoError(t, err)

	assert.Equal(t, logical, a.Pix)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodeSkipsExtensions(t *testing.T) {
	pix := []byte{0, 1, 2, 3}
	data, err := lzw.Encode(pix, 2, nil)
	require.NoError(t, err)

	// A graphic control and a comment extension before the image.
	blocks := []byte{
		sExtension, eGraphicControl, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00,
		sExtension, eComment, 0x02, 'h', 'i', 0x00,
	}

	m, err := Decode(bytes.NewReader(buildGIF("89a", 2, 2, 2, false, 2, blocks, data)), nil)
	require.NoError(t, err)
	assert.Equal(t, pix, m.Pix)
}

func TestDecodeConfig(t *testing.T) {
	m := testImage(40, 30, 10)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, nil))

	cfg, err := DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
	p, ok := cfg.ColorModel.(color.Palette)
	require.True(t, ok)
	assert.Equal(t, 16, len(p)) // padded to a power of two
}

func TestDecodeInfo(t *testing.T) {
	pix := []byte{0, 1, 2, 3}
	data, err := lzw.Encode(pix, 2, nil)
	require.NoError(t, err)

	info, err := DecodeInfo(bytes.NewReader(buildGIF("89a", 2, 2, 2, true, 2, nil, data)))
	require.NoError(t, err)

	assert.Equal(t, "89a", info.Version)
	assert.Equal(t, 2, info.Width)
	assert.Equal(t, 2, info.Height)
	assert.Equal(t, 4, info.Colors)
	assert.True(t, info.Interlace)
}

func TestDecodeErrors(t *testing.T) {
	pix := []byte{0, 1, 2, 3}
	data, err := lzw.Encode(pix, 2, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"not a GIF", []byte("JFIF87a"), ErrNotGIF},
		{"truncated header", []byte("GIF87a"), ErrTruncated},
		{"no image", append([]byte("GIF87a\x02\x00\x02\x00\x00\x00\x00"), sTrailer), ErrNoImage},
		{"bad block type", append([]byte("GIF87a\x02\x00\x02\x00\x00\x00\x00"), 0x42), ErrBlockType},
		{"zero area", buildGIF("87a", 0, 2, 2, false, 2, nil, data), ErrZeroArea},
		{"bad code size", buildGIF("87a", 2, 2, 2, false, 12, nil, data), ErrCodeSize},
		{"short sub-block", buildGIF("87a", 2, 2, 2, false, 2, nil, []byte{0xff, 0x01}), ErrTruncated},
		{"bad extension label", buildGIF("87a", 2, 2, 2, false, 2, []byte{sExtension, 0x42, 0x00}, data), ErrExtensionLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data), nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDecodeBadIndex(t *testing.T) {
	// Pixel value 3 is valid for the code size but outside the two color
	// palette.
	data, err := lzw.Encode([]byte{0, 1, 3, 0}, 2, nil)
	require.NoError(t, err)

	gif := buildGIF("87a", 2, 2, 1, false, 2, nil, data)

	_, err = Decode(bytes.NewReader(gif), nil)
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestEncodeTooManyColors(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < 32*32; i++ {
		m.SetRGBA(i%32, i/32, color.RGBA{byte(i), byte(i >> 3), byte(i >> 5), 0xff})
	}

	var buf bytes.Buffer
	err := Encode(&buf, m, nil)
	assert.ErrorIs(t, err, ErrTooManyColors)
	assert.Zero(t, buf.Len())

	require.NoError(t, Encode(&buf, m, &Options{Quantize: true}))

	got, err := Decode(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	assert.True(t, len(got.Palette) <= MaxColors)
}

func TestEncodeImageSize(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 1, 70000), grayPalette(2))

	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, m, nil), ErrImageSize)
}

func TestDeinterlace(t *testing.T) {
	// Height 9 exercises uneven pass lengths: passes cover rows
	// {0,8}, {4}, {2,6} and {1,3,5,7}.
	const width, height = 2, 9
	physical := make([]byte, 0, width*height)
	for _, y := range []int{0, 8, 4, 2, 6, 1, 3, 5, 7} {
		physical = append(physical, byte(y), byte(y))
	}

	out := deinterlace(physical, width, height)
	for y := 0; y < height; y++ {
		assert.Equal(t, []byte{byte(y), byte(y)}, out[y*width:(y+1)*width], "row %d", y)
	}
}

func TestDump(t *testing.T) {
	pix := []byte{0, 1, 2, 3}
	data, err := lzw.Encode(pix, 2, nil)
	require.NoError(t, err)

	blocks := []byte{
		sExtension, eGraphicControl, 0x04, 0x09, 0x0a, 0x00, 0x02, 0x00,
		sExtension, eComment, 0x05, 'h', 'e', 'l', 'l', 'o', 0x00,
	}
	gif := buildGIF("89a", 2, 2, 2, false, 2, blocks, data)

	var a, b bytes.Buffer
	require.NoError(t, Dump(bytes.NewReader(gif), &a))
	require.NoError(t, Dump(bytes.NewReader(gif), &b))

	// Byte-stable for the same input.
	assert.Equal(t, a.Bytes(), b.Bytes())

	out := a.String()
	for _, want := range []string{
		"version: 89a",
		"width: 2",
		"restore to background color",
		"delay: 10/100 s",
		"transparent color index: 2",
		`text: "hello"`,
		"minimum code size: 2",
		"Trailer",
	} {
		assert.Contains(t, out, want)
	}
}

func TestDumpTruncated(t *testing.T) {
	m := testImage(8, 8, 4)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, nil))

	var out bytes.Buffer
	err := Dump(bytes.NewReader(buf.Bytes()[:20]), &out)
	assert.ErrorIs(t, err, ErrTruncated)
}
