//go:build linux

package linux

import (
	"golang.org/x/sys/unix"

	"github.com/srlehn/fbpong/internal/errors"
)

const (
	ioctlKDGetMode uint = 0x4b3b
	ioctlKDSetMode uint = 0x4b3a
)

// KDGetMode reports the display mode of the console behind fd.
// isLinuxConsole is false (and err nil) if fd is some other terminal.
func KDGetMode(fd uintptr) (mode KDMode, isLinuxConsole bool, _ error) {
	m, err := unix.IoctlGetInt(int(fd), ioctlKDGetMode)
	if err == nil {
		return KDMode(m), true, nil
	}
	if errors.Is(err, unix.ENOTTY) || errors.Is(err, unix.EINVAL) {
		return -1, false, nil
	}
	return -1, false, errors.New(err)
}

// KDSetMode switches the console behind fd to mode.
func KDSetMode(fd uintptr, mode KDMode) error {
	if err := unix.IoctlSetInt(int(fd), ioctlKDSetMode, int(mode)); err != nil {
		return errors.New(err)
	}
	return nil
}
