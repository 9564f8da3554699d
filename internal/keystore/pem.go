package keystore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

const pemWrapColumn = 64

// encodeCustomPEM renders raw key bytes in the custom PEM-like format
// the Kyber and Dilithium keys use on disk: a BEGIN/END header naming
// the algorithm and key class, base64 of the raw bytes wrapped at 64
// columns. RSA keys use the standard library's own PKCS#8 PEM instead
// (see encodeRSAPEM in store.go); this format exists only for the two primitives the
// standard library's pem/x509 stack has no opinion about.
func encodeCustomPEM(label string, raw []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(raw)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "-----BEGIN %s-----\n", label)
	for i := 0; i < len(encoded); i += pemWrapColumn {
		end := i + pemWrapColumn
		if end > len(encoded) {
			end = len(encoded)
		}
		buf.WriteString(encoded[i:end])
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "-----END %s-----\n", label)
	return buf.Bytes()
}

// decodeCustomPEM parses the format encodeCustomPEM produces,
// checking the header/footer label matches exactly and the decoded
// length matches wantLen. Any mismatch is KeyParseError — there is no
// partial-success case for a key file.
func decodeCustomPEM(label string, data []byte, wantLen int) ([]byte, error) {
	text := string(data)
	begin := "-----BEGIN " + label + "-----"
	end := "-----END " + label + "-----"

	startIdx := strings.Index(text, begin)
	endIdx := strings.Index(text, end)
	if startIdx < 0 || endIdx < 0 || endIdx < startIdx {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeCustomPEM", nil)
	}

	body := text[startIdx+len(begin) : endIdx]
	body = strings.ReplaceAll(body, "\n", "")
	body = strings.TrimSpace(body)

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeCustomPEM", err)
	}
	if len(raw) != wantLen {
		return nil, herrors.New(herrors.KeyParseError, "keystore.decodeCustomPEM", nil)
	}
	return raw, nil
}

func kyberPublicLabel() string    { return "KYBER PUBLIC KEY" }
func kyberPrivateLabel() string   { return "KYBER PRIVATE KEY" }
func dilithiumPublicLabel() string  { return "DILITHIUM PUBLIC KEY" }
func dilithiumPrivateLabel() string { return "DILITHIUM PRIVATE KEY" }
