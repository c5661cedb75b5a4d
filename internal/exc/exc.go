// Package exc runs helper programs from the system directories only.
package exc

import (
	"os"
	"os/exec"
	"sync"

	"github.com/srlehn/fbpong/internal/errors"
)

var systemDirs = []string{
	`/usr/bin/`,
	`/bin/`,
	// likely not in the following
	`/usr/sbin/`,
	`/sbin/`,
}

var (
	// key: rel. path, value: abs. path
	exePaths   = make(map[string]string)
	exePathsMu sync.Mutex
)

// LookSystemDirs finds an executable in the system directories, $PATH is
// not consulted.
func LookSystemDirs(exe string) (string, error) {
	if len(exe) == 0 {
		return ``, errors.New(`empty executable name`)
	}
	exePathsMu.Lock()
	defer exePathsMu.Unlock()
	if exeAbs, ok := exePaths[exe]; ok {
		return exeAbs, nil
	}
	for _, systemDir := range systemDirs {
		exeAbs := systemDir + exe
		fi, err := os.Stat(exeAbs)
		if err != nil || fi == nil || fi.IsDir() {
			continue
		}
		// check if executable for others
		if fi.Mode()&0b001 == 0b001 {
			exePaths[exe] = exeAbs
			return exeAbs, nil
		}
	}
	return ``, errors.Errorf(`executable %q not found in system directories`, exe)
}

// SttySane resets the terminal f with "stty sane".
func SttySane(f *os.File) error {
	if f == nil {
		return errors.NilParam()
	}
	sttyAbs, err := LookSystemDirs(`stty`)
	if err != nil {
		return err
	}
	cmd := exec.Command(sttyAbs, `sane`)
	cmd.Stdin = f
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.WrapPrefix(err, `stty: `+string(out), 0)
	}
	return nil
}
