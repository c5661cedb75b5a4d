package framebuffer

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/srlehn/fbpong/internal/errors"
)

const (
	ioctlGetVScreenInfo uintptr = 0x4600
	ioctlPutVScreenInfo uintptr = 0x4601
	ioctlGetFScreenInfo uintptr = 0x4602
	ioctlPanDisplay     uintptr = 0x4606
)

func ioctl(fd uintptr, cmd uintptr, data unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, uintptr(data))
	if errno != 0 {
		return errors.New(os.NewSyscallError(`ioctl`, errno))
	}
	return nil
}

func getFixScreenInfo(fd uintptr) (FixScreenInfo, error) {
	var finfo FixScreenInfo
	if err := ioctl(fd, ioctlGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		return FixScreenInfo{}, errors.WrapPrefix(err, `FBIOGET_FSCREENINFO`, 0)
	}
	return finfo, nil
}

func getVarScreenInfo(fd uintptr) (VarScreenInfo, error) {
	var vinfo VarScreenInfo
	if err := ioctl(fd, ioctlGetVScreenInfo, unsafe.Pointer(&vinfo)); err != nil {
		return VarScreenInfo{}, errors.WrapPrefix(err, `FBIOGET_VSCREENINFO`, 0)
	}
	return vinfo, nil
}

func putVarScreenInfo(fd uintptr, vinfo *VarScreenInfo) error {
	if err := ioctl(fd, ioctlPutVScreenInfo, unsafe.Pointer(vinfo)); err != nil {
		return errors.WrapPrefix(err, `FBIOPUT_VSCREENINFO`, 0)
	}
	return nil
}

func panDisplay(fd uintptr, vinfo *VarScreenInfo) error {
	if err := ioctl(fd, ioctlPanDisplay, unsafe.Pointer(vinfo)); err != nil {
		return errors.WrapPrefix(err, `FBIOPAN_DISPLAY`, 0)
	}
	return nil
}
