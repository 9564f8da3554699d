package keystore

import "golang.org/x/text/unicode/norm"

// normalizeName applies NFC normalization to a recipient name before
// it touches the filesystem, so two visually identical names that
// differ only in combining-character decomposition don't silently
// create two different files in recipients/.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}
