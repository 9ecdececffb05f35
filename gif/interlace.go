package gif

// Interlaced files store rows in four passes. Each pass covers every
// stride-th row beginning at its start offset.
var interlacing = []struct {
	start, stride int
}{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

// deinterlace remaps rows from interlace pass order into logical
// top-to-bottom order. pix holds height rows of width pixels each.
func deinterlace(pix []byte, width, height int) []byte {
	out := make([]byte, len(pix))
	off := 0
	for _, pass := range interlacing {
		for y := pass.start; y < height; y += pass.stride {
			copy(out[y*width:(y+1)*width], pix[off:off+width])
			off += width
		}
	}
	return out
}
