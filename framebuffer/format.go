package framebuffer

import (
	"fmt"
	"image/color"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
)

// Format describes a packed truecolor pixel layout.
type Format struct {
	BitsPerPixel uint32
	Red          Bitfield
	Green        Bitfield
	Blue         Bitfield
	Transp       Bitfield
}

var (
	// FormatXRGB8888 is the common 32 bit layout (B, G, R, X in memory).
	FormatXRGB8888 = Format{
		BitsPerPixel: 32,
		Red:          Bitfield{Offset: 16, Length: 8},
		Green:        Bitfield{Offset: 8, Length: 8},
		Blue:         Bitfield{Offset: 0, Length: 8},
	}
	FormatRGB565 = Format{
		BitsPerPixel: 16,
		Red:          Bitfield{Offset: 11, Length: 5},
		Green:        Bitfield{Offset: 5, Length: 6},
		Blue:         Bitfield{Offset: 0, Length: 5},
	}
	FormatRGB888 = Format{
		BitsPerPixel: 24,
		Red:          Bitfield{Offset: 16, Length: 8},
		Green:        Bitfield{Offset: 8, Length: 8},
		Blue:         Bitfield{Offset: 0, Length: 8},
	}
)

// FormatOf returns the pixel format of a framebuffer, failing for anything
// that isn't 16, 24 or 32 bit packed truecolor.
func FormatOf(finfo *FixScreenInfo, vinfo *VarScreenInfo) (Format, error) {
	if finfo == nil || vinfo == nil {
		return Format{}, errors.NilParam()
	}
	if finfo.Type != TypePackedPixels {
		return Format{}, errors.Errorf(`%w: type %s`, consts.ErrPixelFormat, TypeName(finfo.Type))
	}
	if finfo.Visual != VisualTrueColor && finfo.Visual != VisualDirectColor {
		return Format{}, errors.Errorf(`%w: visual %s`, consts.ErrPixelFormat, VisualName(finfo.Visual))
	}
	if vinfo.NonStd != 0 {
		return Format{}, errors.Errorf(`%w: nonstd %d`, consts.ErrPixelFormat, vinfo.NonStd)
	}
	f := Format{
		BitsPerPixel: vinfo.BitsPerPixel,
		Red:          vinfo.Red,
		Green:        vinfo.Green,
		Blue:         vinfo.Blue,
		Transp:       vinfo.Transp,
	}
	if err := f.validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

func (f Format) validate() error {
	switch f.BitsPerPixel {
	case 16, 24, 32:
	default:
		return errors.Errorf(`%w: %d bits per pixel`, consts.ErrPixelFormat, f.BitsPerPixel)
	}
	for _, bf := range [...]Bitfield{f.Red, f.Green, f.Blue, f.Transp} {
		if bf.Length > 16 || bf.Offset+bf.Length > f.BitsPerPixel {
			return errors.Errorf(`%w: bitfield %+v`, consts.ErrPixelFormat, bf)
		}
	}
	if f.Red.Length == 0 || f.Green.Length == 0 || f.Blue.Length == 0 {
		return errors.Errorf(`%w: missing color channel`, consts.ErrPixelFormat)
	}
	return nil
}

func (f Format) BytesPerPixel() int { return int(f.BitsPerPixel+7) / 8 }

func (f Format) String() string {
	return fmt.Sprintf(`%dbpp r%d@%d g%d@%d b%d@%d a%d@%d`, f.BitsPerPixel,
		f.Red.Length, f.Red.Offset, f.Green.Length, f.Green.Offset,
		f.Blue.Length, f.Blue.Offset, f.Transp.Length, f.Transp.Offset)
}

func packChannel(v uint8, bf Bitfield) uint32 {
	if bf.Length == 0 {
		return 0
	}
	var c uint32
	if bf.Length <= 8 {
		c = uint32(v) >> (8 - bf.Length)
	} else {
		c = uint32(v) << (bf.Length - 8)
	}
	return c << bf.Offset
}

func unpackChannel(px uint32, bf Bitfield) uint8 {
	if bf.Length == 0 {
		return 0xff
	}
	mask := uint32(1)<<bf.Length - 1
	v := (px >> bf.Offset) & mask
	return uint8(v * 0xff / mask)
}

// PackRGBA returns the pixel value of an 8 bit per channel color.
func (f Format) PackRGBA(r, g, b, a uint8) uint32 {
	return packChannel(r, f.Red) | packChannel(g, f.Green) | packChannel(b, f.Blue) | packChannel(a, f.Transp)
}

// Pack returns the pixel value of c.
func (f Format) Pack(c color.Color) uint32 {
	if c == nil {
		return 0
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return f.PackRGBA(nc.R, nc.G, nc.B, nc.A)
}

// Unpack returns the color of a pixel value.
func (f Format) Unpack(px uint32) color.NRGBA {
	return color.NRGBA{
		R: unpackChannel(px, f.Red),
		G: unpackChannel(px, f.Green),
		B: unpackChannel(px, f.Blue),
		A: unpackChannel(px, f.Transp),
	}
}

// Model converts colors to the precision of the format.
func (f Format) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color { return f.Unpack(f.Pack(c)) })
}
