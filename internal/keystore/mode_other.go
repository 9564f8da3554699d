//go:build !unix

package keystore

import "os"

// enforcePrivateMode is a no-op off POSIX: Windows ACLs don't map onto
// the 0600 bit pattern and the spec scopes that enforcement to POSIX.
func enforcePrivateMode(path string, want os.FileMode) error {
	return nil
}
