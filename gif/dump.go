package gif

import (
	"fmt"
	"io"
)

// Disposal methods defined by the Graphic Control Extension.
var disposalMethods = map[byte]string{
	0: "unspecified",
	1: "leave in place",
	2: "restore to background color",
	3: "restore to previous",
}

func disposalMethod(d byte) string {
	if s, ok := disposalMethods[d]; ok {
		return s
	}
	return "reserved"
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type dumper struct {
	r   *countingReader
	w   io.Writer
	tmp [3 * MaxColors]byte
}

func (d *dumper) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.w, format, args...)
}

func (d *dumper) section(name string) {
	d.printf("%s (offset %d):\n", name, d.r.n)
}

// countSubBlocks consumes a sub-block sequence, returning the total
// payload size. When collect is non-nil it also gathers the payload.
func (d *dumper) countSubBlocks(collect *[]byte) (int, error) {
	total := 0
	for {
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return 0, err
		}
		n := int(d.tmp[0])
		if n == 0 {
			return total, nil
		}
		if err := readFull(d.r, d.tmp[:n]); err != nil {
			return 0, err
		}
		if collect != nil {
			*collect = append(*collect, d.tmp[:n]...)
		}
		total += n
	}
}

func (d *dumper) dumpColorTable(name string, bits byte) error {
	d.section(name)
	n := 1 << uint(bits+1)
	if err := readFull(d.r, d.tmp[:3*n]); err != nil {
		return err
	}
	d.printf("    colors: %d\n", n)
	return nil
}

func (d *dumper) dumpHeader() (byte, error) {
	d.section("Header")
	if err := readFull(d.r, d.tmp[:13]); err != nil {
		return 0, err
	}
	if string(d.tmp[:3]) != "GIF" {
		return 0, ErrNotGIF
	}
	d.printf("    version: %s\n", d.tmp[3:6])

	packed := d.tmp[10]
	d.printf("Logical Screen Descriptor:\n")
	d.printf("    width: %d\n", int(d.tmp[6])|int(d.tmp[7])<<8)
	d.printf("    height: %d\n", int(d.tmp[8])|int(d.tmp[9])<<8)
	d.printf("    global color table: %t\n", packed&fColorTable != 0)
	d.printf("    color resolution: %d bits\n", (packed>>4&0x07)+1)
	d.printf("    background color index: %d\n", d.tmp[11])
	d.printf("    pixel aspect ratio: %d\n", d.tmp[12])
	return packed, nil
}

func (d *dumper) dumpGraphicControl() error {
	d.section("Graphic Control Extension")
	// Block size, packed fields, delay, transparent color index and the
	// sub-block terminator.
	if err := readFull(d.r, d.tmp[:6]); err != nil {
		return err
	}
	packed := d.tmp[1]
	d.printf("    disposal method: %s\n", disposalMethod(packed>>2&0x07))
	d.printf("    user input: %t\n", packed&0x02 != 0)
	d.printf("    delay: %d/100 s\n", int(d.tmp[2])|int(d.tmp[3])<<8)
	if packed&0x01 != 0 {
		d.printf("    transparent color index: %d\n", d.tmp[4])
	}
	return nil
}

func (d *dumper) dumpExtension() error {
	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return err
	}
	switch d.tmp[0] {
	case eGraphicControl:
		return d.dumpGraphicControl()
	case eComment:
		d.section("Comment Extension")
		var text []byte
		if _, err := d.countSubBlocks(&text); err != nil {
			return err
		}
		d.printf("    text: %q\n", text)
		return nil
	case eApplication:
		d.section("Application Extension")
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		n := int(d.tmp[0])
		if err := readFull(d.r, d.tmp[:n]); err != nil {
			return err
		}
		if n >= 11 {
			d.printf("    identifier: %q\n", d.tmp[:8])
			d.printf("    authentication code: %q\n", d.tmp[8:11])
		}
		size, err := d.countSubBlocks(nil)
		if err != nil {
			return err
		}
		d.printf("    data: %d bytes\n", size)
		return nil
	case ePlainText:
		d.section("Plain Text Extension")
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		if err := readFull(d.r, d.tmp[:int(d.tmp[0])]); err != nil {
			return err
		}
		size, err := d.countSubBlocks(nil)
		if err != nil {
			return err
		}
		d.printf("    text: %d bytes\n", size)
		return nil
	default:
		return fmt.Errorf("%w: 0x%02x", ErrExtensionLabel, d.tmp[0])
	}
}

func (d *dumper) dumpImage() error {
	d.section("Image Descriptor")
	if err := readFull(d.r, d.tmp[:9]); err != nil {
		return err
	}
	d.printf("    left: %d\n", int(d.tmp[0])|int(d.tmp[1])<<8)
	d.printf("    top: %d\n", int(d.tmp[2])|int(d.tmp[3])<<8)
	d.printf("    width: %d\n", int(d.tmp[4])|int(d.tmp[5])<<8)
	d.printf("    height: %d\n", int(d.tmp[6])|int(d.tmp[7])<<8)
	packed := d.tmp[8]
	d.printf("    interlace: %t\n", packed&fInterlace != 0)
	d.printf("    local color table: %t\n", packed&fColorTable != 0)

	if packed&fColorTable != 0 {
		if err := d.dumpColorTable("Local Color Table", packed&fColorTableBits); err != nil {
			return err
		}
	}

	if err := readFull(d.r, d.tmp[:1]); err != nil {
		return err
	}
	d.section("Image Data")
	d.printf("    minimum code size: %d\n", d.tmp[0])
	size, err := d.countSubBlocks(nil)
	if err != nil {
		return err
	}
	d.printf("    data: %d bytes\n", size)
	return nil
}

func (d *dumper) dump() error {
	packed, err := d.dumpHeader()
	if err != nil {
		return err
	}

	if packed&fColorTable != 0 {
		if err := d.dumpColorTable("Global Color Table", packed&fColorTableBits); err != nil {
			return err
		}
	}

	for {
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		switch d.tmp[0] {
		case sExtension:
			if err := d.dumpExtension(); err != nil {
				return err
			}
		case sImageDescriptor:
			if err := d.dumpImage(); err != nil {
				return err
			}
		case sTrailer:
			d.section("Trailer")
			return nil
		default:
			return fmt.Errorf("%w: 0x%02x", ErrBlockType, d.tmp[0])
		}
	}
}

// Dump writes a human-readable listing of the block structure of the GIF
// file read from r to w. It walks every block of the file, unlike
// Decode which stops after the first image.
func Dump(r io.Reader, w io.Writer) error {
	d := dumper{
		r: &countingReader{r: r},
		w: w,
	}
	return d.dump()
}
