package framebuffer

import (
	"bytes"
	"fmt"
	"strings"
)

// Bitfield locates one color channel inside a pixel (struct fb_bitfield).
type Bitfield struct {
	Offset   uint32 // beginning of bitfield
	Length   uint32 // length of bitfield
	MSBRight uint32 // != 0 : most significant bit is right
}

// FixScreenInfo mirrors struct fb_fix_screeninfo from <linux/fb.h>.
type FixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr // physical start of frame buffer mem
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// VarScreenInfo mirrors struct fb_var_screeninfo from <linux/fb.h>.
type VarScreenInfo struct {
	XRes         uint32 // visible resolution
	YRes         uint32
	XResVirtual  uint32 // virtual resolution
	YResVirtual  uint32
	XOffset      uint32 // offset from virtual to visible
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32 // 0 = color, 1 = grayscale, >1 = FOURCC
	Red          Bitfield
	Green        Bitfield
	Blue         Bitfield
	Transp       Bitfield
	NonStd       uint32
	Activate     uint32
	Height       uint32 // mm
	Width        uint32 // mm
	AccelFlags   uint32
	PixClock     uint32 // ps
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	VMode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fb types
const (
	TypePackedPixels      = 0
	TypePlanes            = 1
	TypeInterleavedPlanes = 2
	TypeText              = 3
	TypeVGAPlanes         = 4
	TypeFourCC            = 5
)

// fb visuals
const (
	VisualMono01            = 0
	VisualMono10            = 1
	VisualTrueColor         = 2
	VisualPseudoColor       = 3
	VisualDirectColor       = 4
	VisualStaticPseudoColor = 5
	VisualFourCC            = 6
)

// activate flags
const (
	ActivateNow   = 0
	ActivateForce = 128
)

func TypeName(typ uint32) string {
	switch typ {
	case TypePackedPixels:
		return `packed pixels`
	case TypePlanes:
		return `planes`
	case TypeInterleavedPlanes:
		return `interleaved planes`
	case TypeText:
		return `text`
	case TypeVGAPlanes:
		return `vga planes`
	case TypeFourCC:
		return `fourcc`
	}
	return fmt.Sprintf(`unknown (%d)`, typ)
}

func VisualName(visual uint32) string {
	switch visual {
	case VisualMono01:
		return `mono01`
	case VisualMono10:
		return `mono10`
	case VisualTrueColor:
		return `truecolor`
	case VisualPseudoColor:
		return `pseudocolor`
	case VisualDirectColor:
		return `directcolor`
	case VisualStaticPseudoColor:
		return `static pseudocolor`
	case VisualFourCC:
		return `fourcc`
	}
	return fmt.Sprintf(`unknown (%d)`, visual)
}

// Name returns the identification string of the driver.
func (f *FixScreenInfo) Name() string {
	if f == nil {
		return ``
	}
	return string(bytes.TrimRight(f.ID[:], "\x00"))
}

func (f *FixScreenInfo) String() string {
	if f == nil {
		return `<nil>`
	}
	var b strings.Builder
	b.WriteString("fb_fix_screeninfo:\n")
	fields := []struct {
		key string
		val any
	}{
		{`id`, f.Name()},
		{`smem_start`, fmt.Sprintf(`0x%x`, f.SmemStart)},
		{`smem_len`, f.SmemLen},
		{`type`, TypeName(f.Type)},
		{`type_aux`, f.TypeAux},
		{`visual`, VisualName(f.Visual)},
		{`xpanstep`, f.XPanStep},
		{`ypanstep`, f.YPanStep},
		{`ywrapstep`, f.YWrapStep},
		{`line_length`, f.LineLength},
		{`mmio_start`, fmt.Sprintf(`0x%x`, f.MMIOStart)},
		{`mmio_len`, f.MMIOLen},
		{`accel`, f.Accel},
		{`capabilities`, f.Capabilities},
	}
	for _, fl := range fields {
		fmt.Fprintf(&b, "  %-14s %v\n", fl.key+`:`, fl.val)
	}
	return b.String()
}

func (v *VarScreenInfo) String() string {
	if v == nil {
		return `<nil>`
	}
	var b strings.Builder
	b.WriteString("fb_var_screeninfo:\n")
	bf := func(f Bitfield) string {
		return fmt.Sprintf(`offset %d, length %d, msb_right %d`, f.Offset, f.Length, f.MSBRight)
	}
	fields := []struct {
		key string
		val any
	}{
		{`xres`, v.XRes},
		{`yres`, v.YRes},
		{`xres_virtual`, v.XResVirtual},
		{`yres_virtual`, v.YResVirtual},
		{`xoffset`, v.XOffset},
		{`yoffset`, v.YOffset},
		{`bits_per_pixel`, v.BitsPerPixel},
		{`grayscale`, v.Grayscale},
		{`red`, bf(v.Red)},
		{`green`, bf(v.Green)},
		{`blue`, bf(v.Blue)},
		{`transp`, bf(v.Transp)},
		{`nonstd`, v.NonStd},
		{`activate`, v.Activate},
		{`height`, fmt.Sprintf(`%d mm`, v.Height)},
		{`width`, fmt.Sprintf(`%d mm`, v.Width)},
		{`accel_flags`, v.AccelFlags},
		{`pixclock`, fmt.Sprintf(`%d ps`, v.PixClock)},
		{`left_margin`, v.LeftMargin},
		{`right_margin`, v.RightMargin},
		{`upper_margin`, v.UpperMargin},
		{`lower_margin`, v.LowerMargin},
		{`hsync_len`, v.HSyncLen},
		{`vsync_len`, v.VSyncLen},
		{`sync`, v.Sync},
		{`vmode`, v.VMode},
		{`rotate`, v.Rotate},
		{`colorspace`, v.Colorspace},
	}
	for _, fl := range fields {
		fmt.Fprintf(&b, "  %-16s %v\n", fl.key+`:`, fl.val)
	}
	return b.String()
}
