package framebuffer

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a rectangle of pixels in a framebuffer format. It either points
// into mapped device memory or is an ordinary heap buffer.
type Canvas struct {
	Format Format
	Stride int // bytes per line
	Rect   image.Rectangle
	Pix    []byte
}

var _ draw.Image = (*Canvas)(nil)

// NewCanvas allocates a w×h canvas.
func NewCanvas(f Format, w, h int) *Canvas {
	stride := w * f.BytesPerPixel()
	return &Canvas{
		Format: f,
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, stride*h),
	}
}

func (c *Canvas) ColorModel() color.Model { return c.Format.Model() }

func (c *Canvas) Bounds() image.Rectangle {
	if c == nil {
		return image.Rectangle{}
	}
	return c.Rect
}

func (c *Canvas) offset(x, y int) int {
	return (y-c.Rect.Min.Y)*c.Stride + (x-c.Rect.Min.X)*c.Format.BytesPerPixel()
}

func (c *Canvas) pixel(off int) uint32 {
	switch c.Format.BytesPerPixel() {
	case 2:
		return uint32(binary.NativeEndian.Uint16(c.Pix[off:]))
	case 3:
		return uint32(c.Pix[off]) | uint32(c.Pix[off+1])<<8 | uint32(c.Pix[off+2])<<16
	default:
		return binary.NativeEndian.Uint32(c.Pix[off:])
	}
}

func (c *Canvas) setPixel(off int, px uint32) {
	switch c.Format.BytesPerPixel() {
	case 2:
		binary.NativeEndian.PutUint16(c.Pix[off:], uint16(px))
	case 3:
		c.Pix[off] = byte(px)
		c.Pix[off+1] = byte(px >> 8)
		c.Pix[off+2] = byte(px >> 16)
	default:
		binary.NativeEndian.PutUint32(c.Pix[off:], px)
	}
}

func (c *Canvas) At(x, y int) color.Color {
	if c == nil || !(image.Point{x, y}.In(c.Rect)) {
		return color.NRGBA{}
	}
	return c.Format.Unpack(c.pixel(c.offset(x, y)))
}

// Set changes pixel at x, y to specified color.
func (c *Canvas) Set(x, y int, col color.Color) {
	if c == nil || col == nil || !(image.Point{x, y}.In(c.Rect)) {
		return
	}
	c.setPixel(c.offset(x, y), c.Format.Pack(col))
}

// Fill sets every pixel to col.
func (c *Canvas) Fill(col color.Color) {
	if c == nil || c.Rect.Empty() {
		return
	}
	bpp := c.Format.BytesPerPixel()
	px := c.Format.Pack(col)
	rowLen := c.Rect.Dx() * bpp
	first := c.Pix[:rowLen]
	for off := 0; off < rowLen; off += bpp {
		c.setPixel(off, px)
	}
	for y := 1; y < c.Rect.Dy(); y++ {
		copy(c.Pix[y*c.Stride:y*c.Stride+rowLen], first)
	}
}

// DrawRGBA copies src into the canvas with src.Bounds().Min placed at dp,
// converting the pixel format on the way. Alpha is not blended.
func (c *Canvas) DrawRGBA(src *image.RGBA, dp image.Point) {
	if c == nil || src == nil {
		return
	}
	r := src.Bounds().Sub(src.Bounds().Min).Add(dp).Intersect(c.Rect)
	if r.Empty() {
		return
	}
	bpp := c.Format.BytesPerPixel()
	sp := r.Min.Sub(dp).Add(src.Bounds().Min)
	for y := 0; y < r.Dy(); y++ {
		si := src.PixOffset(sp.X, sp.Y+y)
		di := c.offset(r.Min.X, r.Min.Y+y)
		for x := 0; x < r.Dx(); x++ {
			s := src.Pix[si : si+4 : si+4]
			c.setPixel(di, c.Format.PackRGBA(s[0], s[1], s[2], s[3]))
			si += 4
			di += bpp
		}
	}
}

// CopyFrom copies the pixels of a canvas with identical format and size.
func (c *Canvas) CopyFrom(src *Canvas) {
	if c == nil || src == nil {
		return
	}
	rowLen := min(c.Rect.Dx(), src.Rect.Dx()) * c.Format.BytesPerPixel()
	for y := 0; y < min(c.Rect.Dy(), src.Rect.Dy()); y++ {
		copy(c.Pix[y*c.Stride:y*c.Stride+rowLen], src.Pix[y*src.Stride:y*src.Stride+rowLen])
	}
}
