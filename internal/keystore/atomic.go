package keystore

import (
	"os"
	"path/filepath"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// atomicWrite writes data to path by writing a temp file in the same
// directory, fsyncing it, then renaming over the destination. Renames
// within one filesystem are atomic, so a crash mid-write leaves the
// prior file (or no file) in place, never a truncated one — this is
// what makes rotate() safe to interrupt at any point before the final
// rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hermes-tmp-*")
	if err != nil {
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	if err := enforcePrivateMode(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return herrors.New(herrors.IoError, "keystore.atomicWrite", err)
	}
	return nil
}

const (
	privateFileMode = 0o600
	publicFileMode  = 0o644
	dirMode         = 0o700
)
