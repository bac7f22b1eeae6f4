package shadepbr

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// LoadImage loads an image file as NRGBA.
//
// The decoder is chosen by extension; unknown extensions fall back to content sniffing.
func LoadImage(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: image: open file: %w", ErrResourceFailure, err)
	}

	return DecodeImage(data, imageExt(path))
}

// DecodeImage decodes image bytes as NRGBA. ext is the format hint without the leading dot.
func DecodeImage(data []byte, ext string) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image: empty data", ErrResourceFailure)
	}

	img, err := decodeByExt(data, ext)
	if err != nil {
		// Authored extensions lie; retry with the sniffed format.
		sniffed := sniffImageExt(data)
		if sniffed == "" || sniffed == strings.ToLower(ext) {
			return nil, fmt.Errorf("%w: image: decode: %w", ErrResourceFailure, err)
		}
		img, err = decodeByExt(data, sniffed)
		if err != nil {
			return nil, fmt.Errorf("%w: image: decode: %w", ErrResourceFailure, err)
		}
	}

	return toNRGBA(img), nil
}

// decodeByExt decodes data with the decoder registered for ext.
func decodeByExt(data []byte, ext string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case "png":
		return png.Decode(r)
	case "jpg", "jpeg":
		return jpeg.Decode(r)
	case "gif":
		return gif.Decode(r)
	case "bmp":
		return bmp.Decode(r)
	case "tga":
		return tga.Decode(r)
	default:
		if sniffed := sniffImageExt(data); sniffed != "" {
			return decodeByExt(data, sniffed)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// sniffImageExt detects an image format from its signature. TGA has none.
func sniffImageExt(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "png"
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpg"
	case len(data) >= 6 && (string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a"):
		return "gif"
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return "bmp"
	default:
		return ""
	}
}

// toNRGBA converts any image to a zero-origin NRGBA.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)

	return dst
}

// SaveImage encodes img by the destination extension and writes it to path.
// quality applies to JPEG and is clamped to 1..100.
func SaveImage(path string, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, imageExt(path), quality); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Clean(path), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: image: write file: %w", ErrResourceFailure, err)
	}

	return nil
}

// EncodeImage encodes img in the format named by ext (without the leading dot).
func EncodeImage(w io.Writer, img image.Image, ext string, quality int) error {
	var err error
	switch strings.ToLower(ext) {
	case "png":
		err = png.Encode(w, img)
	case "jpg", "jpeg":
		quality = min(max(quality, 1), 100)
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "gif":
		err = gif.Encode(w, img, nil)
	case "bmp":
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("%w: image: encode %s: %w", ErrResourceFailure, ext, err)
	}

	return nil
}
