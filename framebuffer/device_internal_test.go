package framebuffer

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/fbpong/internal/consts"
)

// heapDevice is an 8×4 XRGB8888 device backed by heap memory with room
// for two pages. Pans are recorded instead of sent to a driver.
func heapDevice(t *testing.T, flipping bool) (*Device, *[]uint32) {
	t.Helper()
	var pans []uint32
	d := &Device{
		finfo: FixScreenInfo{LineLength: 32, YPanStep: 1, SmemLen: 32 * 8},
		vinfo: VarScreenInfo{
			XRes: 8, YRes: 4, XResVirtual: 8, YResVirtual: 8,
			BitsPerPixel: 32,
		},
		format:       FormatXRGB8888,
		mem:          make([]byte, 32*8),
		flipping:     flipping,
		doubleBuffer: true,
		pan: func(v *VarScreenInfo) error {
			pans = append(pans, v.YOffset)
			return nil
		},
	}
	require.NoError(t, d.setupPages())
	return d, &pans
}

func memPixel(d *Device, yOffset, x, y int) uint32 {
	off := (yOffset+y)*int(d.finfo.LineLength) + x*4
	return binary.NativeEndian.Uint32(d.mem[off:])
}

func TestDeviceCopyMode(t *testing.T) {
	d, pans := heapDevice(t, false)
	require.NotNil(t, d.back)
	assert.Same(t, d.back, d.target())
	assert.Equal(t, image.Rect(0, 0, 8, 4), d.Bounds())

	d.Set(5, 3, color.NRGBA{R: 0xff, A: 0xff})
	assert.Zero(t, memPixel(d, 0, 5, 3), `visible before Flush`)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, d.At(5, 3))

	require.NoError(t, d.Flush())
	assert.Equal(t, uint32(0xff0000), memPixel(d, 0, 5, 3))
	want := binary.NativeEndian.AppendUint32(nil, 0xff0000)
	assert.Equal(t, want, d.mem[3*32+5*4:3*32+6*4])

	frame := image.NewRGBA(image.Rect(0, 0, 8, 4))
	frame.Set(1, 2, color.RGBA{B: 0xff, A: 0xff})
	require.NoError(t, d.Present(frame))
	assert.Equal(t, uint32(0x0000ff), memPixel(d, 0, 1, 2))
	assert.Zero(t, memPixel(d, 0, 5, 3), `Present replaces the whole frame`)

	require.NoError(t, d.Clear(color.White))
	for y := range 4 {
		for x := range 8 {
			assert.Equal(t, uint32(0xffffff), memPixel(d, 0, x, y)&0xffffff)
		}
	}
	assert.Empty(t, *pans)
}

func TestDeviceFlipMode(t *testing.T) {
	d, pans := heapDevice(t, true)
	assert.Nil(t, d.back)
	require.Equal(t, 0, d.front)
	assert.Same(t, d.pages[1], d.target())

	frame := image.NewRGBA(image.Rect(0, 0, 8, 4))
	frame.Set(5, 3, color.RGBA{R: 0xff, A: 0xff})
	require.NoError(t, d.Present(frame))
	assert.Equal(t, 1, d.front)
	assert.Equal(t, uint32(4), d.VarScreenInfo().YOffset)
	assert.Equal(t, uint32(0xff0000), memPixel(d, 4, 5, 3))
	assert.Zero(t, memPixel(d, 0, 5, 3), `front page untouched`)
	assert.Same(t, d.pages[0], d.target())

	require.NoError(t, d.Clear(color.White))
	assert.Equal(t, 0, d.front)
	assert.Equal(t, uint32(0xffffff), memPixel(d, 0, 5, 3)&0xffffff)
	assert.Same(t, d.pages[1], d.target())

	assert.Equal(t, []uint32{4, 0}, *pans)
}

func TestDeviceFlipModePansToFirstPage(t *testing.T) {
	var pans []uint32
	d := &Device{
		finfo:    FixScreenInfo{LineLength: 32, YPanStep: 1},
		vinfo:    VarScreenInfo{XRes: 8, YRes: 4, YResVirtual: 8, YOffset: 4},
		format:   FormatXRGB8888,
		mem:      make([]byte, 32*8),
		flipping: true,
		pan: func(v *VarScreenInfo) error {
			pans = append(pans, v.YOffset)
			return nil
		},
	}
	require.NoError(t, d.setupPages())
	assert.Equal(t, []uint32{0}, pans)
	assert.Zero(t, d.VarScreenInfo().YOffset)
}

func TestDevicePageOutOfMemory(t *testing.T) {
	d := &Device{
		finfo:  FixScreenInfo{LineLength: 32},
		vinfo:  VarScreenInfo{XRes: 8, YRes: 4, YResVirtual: 4, YOffset: 2},
		format: FormatXRGB8888,
		mem:    make([]byte, 32*4),
	}
	assert.Error(t, d.setupPages())

	d.vinfo.YOffset = 0
	d.finfo.LineLength = 16
	assert.Error(t, d.setupPages(), `line length too short`)
}

func TestDeviceClosed(t *testing.T) {
	var d *Device
	assert.ErrorIs(t, d.Flush(), consts.ErrClosed)
	d = &Device{}
	assert.ErrorIs(t, d.Present(image.NewRGBA(image.Rect(0, 0, 1, 1))), consts.ErrClosed)
	assert.ErrorIs(t, d.Clear(color.Black), consts.ErrClosed)
	assert.NoError(t, d.Close())
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		name      string
		finfo     FixScreenInfo
		vinfo     VarScreenInfo
		off, size int
	}{
		{`two pages`, FixScreenInfo{LineLength: 4096, SmemLen: 1 << 24}, VarScreenInfo{YResVirtual: 1536}, 0, 4096 * 1536},
		{`bounded by smem`, FixScreenInfo{LineLength: 4096, SmemLen: 4096 * 768}, VarScreenInfo{YResVirtual: 1536}, 0, 4096 * 768},
		{`no smem length`, FixScreenInfo{LineLength: 32}, VarScreenInfo{YResVirtual: 8}, 0, 256},
		{`no line length`, FixScreenInfo{SmemLen: 1000}, VarScreenInfo{YResVirtual: 8}, 0, 1000},
		{`unaligned start`, FixScreenInfo{SmemStart: 0xe0000400, LineLength: 32, SmemLen: 256}, VarScreenInfo{YResVirtual: 8}, 0x400, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, size := mapRange(&tt.finfo, &tt.vinfo, 4096)
			assert.Equal(t, tt.off, off)
			assert.Equal(t, tt.size, size)
		})
	}
}
