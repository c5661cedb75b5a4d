// Copyright 2013 Konstantin Kulikov. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package framebuffer is an interface to linux framebuffer device.
package framebuffer

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"github.com/srlehn/fbpong/internal/consts"
	"github.com/srlehn/fbpong/internal/errors"
	"github.com/srlehn/fbpong/internal/logx"
)

// Device is an opened and memory mapped framebuffer.
//
// Drawing goes to a back buffer which is made visible by Flush. If the
// driver allows a virtual height of twice the visible height, the back
// buffer is the hidden half of the framebuffer and Flush pans the display
// (page flipping). Otherwise the back buffer lives on the heap and Flush
// copies it into the visible page.
type Device struct {
	path      string
	file      *os.File
	finfo     FixScreenInfo
	vinfo     VarScreenInfo
	origVInfo VarScreenInfo
	vinfoSet  bool
	format    Format
	mapping   []byte
	mem       []byte // pixel memory within mapping
	pages     [2]*Canvas
	front     int
	flipping  bool
	back      *Canvas
	pan       func(*VarScreenInfo) error

	pageFlip     bool
	doubleBuffer bool
	logger       *slog.Logger
}

var (
	_ draw.Image          = (*Device)(nil)
	_ logx.LoggerProvider = (*Device)(nil)
)

// DefaultDevice returns $FRAMEBUFFER or /dev/fb0.
func DefaultDevice() string {
	if dev := os.Getenv(`FRAMEBUFFER`); len(dev) > 0 {
		return dev
	}
	return consts.DefaultFramebuffer
}

// Open opens framebuffer device dev and maps it to memory.
func Open(dev string, opts ...Option) (_ *Device, err error) {
	if len(dev) == 0 {
		dev = DefaultDevice()
	}
	d := &Device{path: dev, doubleBuffer: true}
	if err := d.SetOptions(opts...); err != nil {
		return nil, err
	}
	d.file, err = os.OpenFile(dev, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.New(err)
	}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()
	fd := d.file.Fd()
	d.pan = func(v *VarScreenInfo) error { return panDisplay(fd, v) }
	if d.finfo, err = getFixScreenInfo(fd); err != nil {
		return nil, err
	}
	if d.vinfo, err = getVarScreenInfo(fd); err != nil {
		return nil, err
	}
	d.origVInfo = d.vinfo
	if d.format, err = FormatOf(&d.finfo, &d.vinfo); err != nil {
		return nil, err
	}
	if d.pageFlip && d.doubleBuffer {
		if err := d.enablePageFlip(); err != nil {
			logx.Warn(`page flipping unavailable, falling back to copying`, d, `device`, dev, `error`, err)
		}
	}
	off, size := mapRange(&d.finfo, &d.vinfo, os.Getpagesize())
	d.mapping, err = unix.Mmap(int(fd), 0, off+size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.New(err)
	}
	d.mem = d.mapping[off:]
	if err := d.setupPages(); err != nil {
		return nil, err
	}
	logx.Info(`framebuffer opened`, d,
		`device`, dev, `id`, d.finfo.Name(),
		`resolution`, d.Bounds().Size().String(),
		`format`, d.format.String(),
		`page_flipping`, d.flipping)
	return d, nil
}

// enablePageFlip asks the driver for a virtual height of two screens.
func (d *Device) enablePageFlip() error {
	fd := d.file.Fd()
	want := d.vinfo
	if want.YResVirtual < 2*want.YRes {
		want.YResVirtual = 2 * want.YRes
		want.XOffset, want.YOffset = 0, 0
		want.Activate = ActivateNow | ActivateForce
		if err := putVarScreenInfo(fd, &want); err != nil {
			return err
		}
		d.vinfoSet = true
		got, err := getVarScreenInfo(fd)
		if err != nil {
			return err
		}
		d.vinfo = got
		// line length may change with the virtual resolution
		if d.finfo, err = getFixScreenInfo(fd); err != nil {
			return err
		}
		if d.format, err = FormatOf(&d.finfo, &d.vinfo); err != nil {
			return err
		}
	}
	if d.vinfo.YResVirtual < 2*d.vinfo.YRes {
		return errors.Errorf(`driver kept virtual height at %d`, d.vinfo.YResVirtual)
	}
	if d.finfo.YPanStep == 0 {
		return errors.New(`driver does not support panning`)
	}
	if uint64(d.finfo.LineLength)*uint64(2*d.vinfo.YRes) > uint64(d.finfo.SmemLen) && d.finfo.SmemLen > 0 {
		return errors.New(`framebuffer memory too small for two pages`)
	}
	d.flipping = true
	return nil
}

// mapRange returns where the pixels start within a mapping of the device
// and how many bytes of them are needed: line_length × yres_virtual, bounded
// by smem_len. The driver maps from the memory page holding smem_start.
func mapRange(finfo *FixScreenInfo, vinfo *VarScreenInfo, pageSize int) (off, size int) {
	if pageSize > 0 {
		off = int(finfo.SmemStart & uintptr(pageSize-1))
	}
	size = int(finfo.LineLength) * int(vinfo.YResVirtual)
	if finfo.SmemLen > 0 && (size == 0 || size > int(finfo.SmemLen)) {
		size = int(finfo.SmemLen)
	}
	return off, size
}

func (d *Device) page(yOffset uint32) (*Canvas, error) {
	bpp := d.format.BytesPerPixel()
	w, h := int(d.vinfo.XRes), int(d.vinfo.YRes)
	stride := int(d.finfo.LineLength)
	if stride < w*bpp {
		return nil, errors.Errorf(`line length %d too short for %d pixels`, stride, w)
	}
	start := int(yOffset)*stride + int(d.vinfo.XOffset)*bpp
	end := start + (h-1)*stride + w*bpp
	if h == 0 || w == 0 {
		end = start
	}
	if end > len(d.mem) {
		return nil, errors.Errorf(`page at y offset %d exceeds mapped memory`, yOffset)
	}
	return &Canvas{Format: d.format, Stride: stride, Rect: image.Rect(0, 0, w, h), Pix: d.mem[start:end:end]}, nil
}

func (d *Device) setupPages() error {
	var err error
	if !d.flipping {
		if d.pages[0], err = d.page(d.vinfo.YOffset); err != nil {
			return err
		}
		if d.doubleBuffer {
			d.back = NewCanvas(d.format, int(d.vinfo.XRes), int(d.vinfo.YRes))
			d.back.CopyFrom(d.pages[0])
		}
		return nil
	}
	for i := range d.pages {
		if d.pages[i], err = d.page(uint32(i) * d.vinfo.YRes); err != nil {
			return err
		}
	}
	d.front = 0
	if d.vinfo.YOffset != 0 || d.vinfo.XOffset != 0 {
		v := d.vinfo
		v.XOffset, v.YOffset = 0, 0
		if err := d.pan(&v); err != nil {
			return err
		}
		d.vinfo = v
	}
	return nil
}

func (d *Device) closed() bool { return d == nil || d.pages[0] == nil }

// target is the canvas drawing operations go to.
func (d *Device) target() *Canvas {
	switch {
	case d == nil:
		return nil
	case d.flipping:
		return d.pages[1-d.front]
	case d.back != nil:
		return d.back
	default:
		return d.pages[0]
	}
}

// Flush makes everything drawn since the last Flush visible.
func (d *Device) Flush() error {
	if d.closed() {
		return errors.New(consts.ErrClosed)
	}
	switch {
	case d.flipping:
		hidden := 1 - d.front
		v := d.vinfo
		v.XOffset = 0
		v.YOffset = uint32(hidden) * d.vinfo.YRes
		if err := d.pan(&v); err != nil {
			return err
		}
		d.vinfo = v
		d.front = hidden
	case d.back != nil:
		d.pages[0].CopyFrom(d.back)
	}
	return nil
}

// Present draws a whole frame and makes it visible.
func (d *Device) Present(frame *image.RGBA) error {
	if d.closed() {
		return errors.New(consts.ErrClosed)
	}
	if frame == nil {
		return errors.NilParam()
	}
	d.target().DrawRGBA(frame, image.Point{})
	return d.Flush()
}

// Clear fills the screen with c and makes it visible.
func (d *Device) Clear(c color.Color) error {
	if d.closed() {
		return errors.New(consts.ErrClosed)
	}
	d.target().Fill(c)
	return d.Flush()
}

// Close unmaps the framebuffer, restores the original screen info and
// closes the device.
func (d *Device) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	var errs []error
	if d.mapping != nil {
		errs = append(errs, errors.New(unix.Munmap(d.mapping)))
		d.mapping, d.mem = nil, nil
	}
	if d.vinfoSet {
		orig := d.origVInfo
		orig.Activate = ActivateNow | ActivateForce
		errs = append(errs, putVarScreenInfo(d.file.Fd(), &orig))
		d.vinfoSet = false
	}
	errs = append(errs, errors.New(d.file.Close()))
	d.file = nil
	d.pages = [2]*Canvas{}
	d.back = nil
	return errors.Join(errs...)
}

func (d *Device) ColorModel() color.Model { return d.format.Model() }

// Bounds returns dimensions of a framebuffer.
func (d *Device) Bounds() image.Rectangle {
	if d == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, int(d.vinfo.XRes), int(d.vinfo.YRes))
}

func (d *Device) At(x, y int) color.Color { return d.target().At(x, y) }

// Set changes pixel at x, y of the back buffer to specified color.
func (d *Device) Set(x, y int, c color.Color) { d.target().Set(x, y, c) }

func (d *Device) Path() string                 { return d.path }
func (d *Device) Format() Format               { return d.format }
func (d *Device) FixScreenInfo() FixScreenInfo { return d.finfo }
func (d *Device) VarScreenInfo() VarScreenInfo { return d.vinfo }
func (d *Device) PageFlipping() bool           { return d.flipping }

func (d *Device) Logger() *slog.Logger {
	if d == nil {
		return nil
	}
	return d.logger
}
