package framebuffer

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/srlehn/fbpong/internal/errors"
)

// Info holds the screen information of a framebuffer device.
type Info struct {
	Fix FixScreenInfo
	Var VarScreenInfo
}

func (i *Info) String() string {
	if i == nil {
		return `<nil>`
	}
	return i.Fix.String() + i.Var.String()
}

// ReadInfo reads the screen information of dev and checks that its memory
// can be mapped.
func ReadInfo(dev string) (*Info, error) {
	if len(dev) == 0 {
		dev = DefaultDevice()
	}
	f, err := os.OpenFile(dev, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, errors.New(err)
	}
	defer f.Close()
	info := &Info{}
	if info.Fix, err = getFixScreenInfo(f.Fd()); err != nil {
		return nil, err
	}
	if info.Var, err = getVarScreenInfo(f.Fd()); err != nil {
		return info, err
	}
	if _, err := FormatOf(&info.Fix, &info.Var); err != nil {
		return info, err
	}
	off, size := mapRange(&info.Fix, &info.Var, os.Getpagesize())
	mem, err := unix.Mmap(int(f.Fd()), 0, off+size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return info, errors.WrapPrefix(err, `mmap`, 0)
	}
	if err := unix.Munmap(mem); err != nil {
		return info, errors.New(err)
	}
	return info, nil
}

// DoubleVirtualHeight asks the driver of dev to double the virtual vertical
// resolution and returns the variable screen info before, as requested and
// as accepted by the driver. The original settings are put back if restore
// is set.
func DoubleVirtualHeight(dev string, restore bool) (before, requested, after VarScreenInfo, err error) {
	if len(dev) == 0 {
		dev = DefaultDevice()
	}
	f, err := os.OpenFile(dev, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return before, requested, after, errors.New(err)
	}
	defer f.Close()
	if before, err = getVarScreenInfo(f.Fd()); err != nil {
		return before, requested, after, err
	}
	requested = before
	requested.YResVirtual *= 2
	requested.Activate = ActivateForce
	if err = putVarScreenInfo(f.Fd(), &requested); err != nil {
		return before, requested, after, err
	}
	after, err = getVarScreenInfo(f.Fd())
	if restore {
		orig := before
		orig.Activate = ActivateNow | ActivateForce
		err = errors.Join(err, putVarScreenInfo(f.Fd(), &orig))
	}
	return before, requested, after, err
}
