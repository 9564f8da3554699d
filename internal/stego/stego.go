// Package stego implements LSB steganography: embedding a sealed
// envelope's bytes inside a PNG's RGB channels (alpha untouched),
// 3 bits per pixel. Ported from the original implementation's
// steganography.rs. No dependency anywhere in the retrieved example
// pack does image codecs, so this package is the one place in the
// module that reaches for the standard library's image/image-png
// stack rather than a third-party library — there simply isn't one in
// the corpus to ground an alternative on.
package stego

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Magic precedes the length-prefixed payload embedded in the image.
var Magic = [8]byte{'H', 'R', 'M', 'S', 'S', 'T', 'E', 'G'}

const headerBits = (8 + 4) * 8 // magic + u32 length, in bits

// Capacity returns the maximum payload size (bytes) img can carry at
// 3 bits/pixel.
func Capacity(img image.Image) int {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	bits := pixels*3 - headerBits
	if bits < 0 {
		return 0
	}
	return bits / 8
}

// Embed returns a new RGBA image with payload embedded into cover's
// least-significant bits, preceded by Magic and a 4-byte big-endian
// length.
func Embed(cover image.Image, payload []byte) (image.Image, error) {
	if len(payload) > Capacity(cover) {
		return nil, herrors.New(herrors.IoError, "stego.Embed", fmt.Errorf("payload too large for cover image"))
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	full := append(append([]byte{}, Magic[:]...), lenBuf[:]...)
	full = append(full, payload...)

	bits := bytesToBits(full)

	bounds := cover.Bounds()
	out := image.NewRGBA(bounds)
	bitIdx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := cover.At(x, y).RGBA()
			pr, pg, pb := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			if bitIdx < len(bits) {
				pr = setLSB(pr, bits[bitIdx])
				bitIdx++
			}
			if bitIdx < len(bits) {
				pg = setLSB(pg, bits[bitIdx])
				bitIdx++
			}
			if bitIdx < len(bits) {
				pb = setLSB(pb, bits[bitIdx])
				bitIdx++
			}

			out.Set(x, y, color.RGBA{R: pr, G: pg, B: pb, A: uint8(a >> 8)})
		}
	}
	return out, nil
}

// Extract recovers the payload embedded by Embed.
func Extract(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	totalBits := bounds.Dx() * bounds.Dy() * 3
	if totalBits < headerBits {
		return nil, herrors.New(herrors.IoError, "stego.Extract", fmt.Errorf("image too small to carry a header"))
	}

	bits := make([]byte, 0, totalBits)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			bits = append(bits, byte(r>>8)&1, byte(g>>8)&1, byte(b>>8)&1)
		}
	}

	header := bitsToBytes(bits[:headerBits])
	var magic [8]byte
	copy(magic[:], header[:8])
	if magic != Magic {
		return nil, herrors.New(herrors.IoError, "stego.Extract", fmt.Errorf("no hermes payload found"))
	}
	length := binary.BigEndian.Uint32(header[8:12])

	payloadBits := int(length) * 8
	if headerBits+payloadBits > len(bits) {
		return nil, herrors.New(herrors.IoError, "stego.Extract", fmt.Errorf("truncated payload"))
	}
	payload := bitsToBytes(bits[headerBits : headerBits+payloadBits])
	return payload, nil
}

// DecodePNG and EncodePNG wrap the standard library codec so callers
// never import image/png directly.
func DecodePNG(r io.Reader) (image.Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, herrors.New(herrors.IoError, "stego.DecodePNG", err)
	}
	return img, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return herrors.New(herrors.IoError, "stego.EncodePNG", err)
	}
	return nil
}

func setLSB(v uint8, bit byte) uint8 {
	return (v &^ 1) | bit
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

func bitsToBytes(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | bits[i*8+j]
		}
		out[i] = b
	}
	return out
}
