//go:build unix

package keystore

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// enforcePrivateMode double-checks the mode bits landed correctly on
// POSIX by stat-ing the file through unix.Stat rather than trusting
// os.Chmod's return alone — belt-and-braces for the private-key-mode
// invariant the Key Store contract requires.
func enforcePrivateMode(path string, want os.FileMode) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return herrors.New(herrors.IoError, "keystore.enforcePrivateMode", err)
	}
	if os.FileMode(st.Mode&0o777) != want {
		if err := unix.Chmod(path, uint32(want)); err != nil {
			return herrors.New(herrors.IoError, "keystore.enforcePrivateMode", err)
		}
	}
	return nil
}
