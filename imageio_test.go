package shadepbr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadImageFormats(t *testing.T) {
	dir := t.TempDir()
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}

	for _, name := range []string{"a.png", "a.jpg", "a.jpeg", "a.gif", "a.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeTestImage(t, path, 8, 8, solid(c))

			img, err := LoadImage(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 || b.Min != (image.Point{}) {
				t.Fatalf("bounds: got %v", b)
			}
			// GIF output is dithered against a fixed palette.
			if name == "a.gif" {
				return
			}
			if got := img.NRGBAAt(3, 3); !near(got, c, 8) {
				t.Fatalf("pixel: got %v, want %v", got, c)
			}
		})
	}
}

func TestLoadImageTGA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tga")
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if err := os.WriteFile(path, rawTGA(4, 4, c), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("bounds: got %v", b)
	}
	if got := img.NRGBAAt(1, 2); got != c {
		t.Fatalf("pixel: got %v, want %v", got, c)
	}
}

func TestDecodeImageSniffsMislabeledData(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, testImage(2, 2, gradient), "png", 0); err != nil {
		t.Fatalf("encode: %v", err)
	}

	for _, ext := range []string{"jpg", "gif", "unknown"} {
		img, err := DecodeImage(buf.Bytes(), ext)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if img.Bounds().Dx() != 2 {
			t.Fatalf("%s: bounds %v", ext, img.Bounds())
		}
	}
}

func TestDecodeImageErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		ext  string
	}{
		{name: "empty", data: nil, ext: "png"},
		{name: "garbage", data: []byte("not an image"), ext: "png"},
		{name: "garbage unknown", data: []byte("not an image"), ext: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeImage(tt.data, tt.ext); !errors.Is(err, ErrResourceFailure) {
				t.Fatalf("got %v, want ErrResourceFailure", err)
			}
		})
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, ErrResourceFailure) {
		t.Fatalf("missing file: got %v", err)
	}
}

func TestEncodeImageFormats(t *testing.T) {
	img := testImage(4, 4, gradient)

	if err := EncodeImage(&bytes.Buffer{}, img, "tga", 100); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("tga: got %v", err)
	}

	// Quality outside 1..100 is clamped rather than rejected.
	for _, q := range []int{-5, 0, 250} {
		if err := EncodeImage(&bytes.Buffer{}, img, "jpg", q); err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
	}

	var low, high bytes.Buffer
	if err := EncodeImage(&low, testImage(64, 64, gradient), "jpg", 5); err != nil {
		t.Fatalf("low: %v", err)
	}
	if err := EncodeImage(&high, testImage(64, 64, gradient), "jpg", 100); err != nil {
		t.Fatalf("high: %v", err)
	}
	if low.Len() >= high.Len() {
		t.Fatalf("quality has no effect: %d >= %d", low.Len(), high.Len())
	}
}

func TestToNRGBAOffsetOrigin(t *testing.T) {
	src := testImage(6, 6, gradient)
	sub := src.SubImage(image.Rect(2, 2, 6, 6))

	out := toNRGBA(sub)
	if out.Rect.Min != (image.Point{}) || out.Bounds().Dx() != 4 {
		t.Fatalf("bounds: got %v", out.Rect)
	}
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(2, 2); got != want {
		t.Fatalf("pixel: got %v, want %v", got, want)
	}
}

// rawTGA builds an uncompressed 32-bit top-left TGA filled with c.
func rawTGA(w, h int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	header := [18]byte{2: 2, 16: 32, 17: 0x28}
	binary.LittleEndian.PutUint16(header[12:], uint16(w))
	binary.LittleEndian.PutUint16(header[14:], uint16(h))
	buf.Write(header[:])
	for range w * h {
		buf.Write([]byte{c.B, c.G, c.R, c.A})
	}

	return buf.Bytes()
}

// near reports whether every channel of a and b differs by at most tol.
func near(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v <= tol && v >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}
