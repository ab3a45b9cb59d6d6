package abacus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// encodeImage renders a small test image in the named format.
func encodeImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, rgba)
	case "gif":
		err = gif.Encode(&buf, rgba, nil)
	case "bmp":
		err = bmp.Encode(&buf, rgba)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

// TestNewImageFromBuffer tests format sniffing and the decoded properties
func TestNewImageFromBuffer(t *testing.T) {
	for _, format := range []string{"png", "gif", "bmp"} {
		t.Run(format, func(t *testing.T) {
			img, err := NewImageFromBuffer(encodeImage(t, format, 6, 4))
			if err != nil {
				t.Fatalf("NewImageFromBuffer() = %v", err)
			}

			if img.format != format {
				t.Errorf("format = %q, want %q", img.format, format)
			}
			if img.Width() != 6 || img.Height() != 4 {
				t.Errorf("dimensions = %vx%v, want 6x4", img.Width(), img.Height())
			}
			if img.WidthDPI() != 96 || img.HeightDPI() != 96 {
				t.Errorf("DPI = %vx%v, want 96x96", img.WidthDPI(), img.HeightDPI())
			}
			if img.scaleWidth != 1 || img.scaleHeight != 1 {
				t.Errorf("scale = %vx%v, want 1x1", img.scaleWidth, img.scaleHeight)
			}
			if img.name != "image" {
				t.Errorf("name = %q, want %q", img.name, "image")
			}
			if img.hash == 0 {
				t.Error("hash not computed")
			}
		})
	}

	if _, err := NewImageFromBuffer([]byte("not an image")); !errors.Is(err, ErrUnknownImageType) {
		t.Errorf("NewImageFromBuffer(garbage) = %v, want ErrUnknownImageType", err)
	}
}

// TestNewImageName tests that file images are named after the file
func TestNewImageName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, encodeImage(t, "png", 2, 2), 0o600); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	img, err := NewImage(path)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	if img.name != "logo" {
		t.Errorf("name = %q, want %q", img.name, "logo")
	}

	if _, err := NewImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("NewImage() on a missing file should fail")
	}
}

// TestImageHash tests that the content hash distinguishes images
func TestImageHash(t *testing.T) {
	small := encodeImage(t, "png", 2, 2)
	large := encodeImage(t, "png", 8, 8)

	a, err := NewImageFromBuffer(small)
	if err != nil {
		t.Fatalf("NewImageFromBuffer() = %v", err)
	}
	b, err := NewImageFromBuffer(small)
	if err != nil {
		t.Fatalf("NewImageFromBuffer() = %v", err)
	}
	c, err := NewImageFromBuffer(large)
	if err != nil {
		t.Fatalf("NewImageFromBuffer() = %v", err)
	}

	if a.hash != b.hash {
		t.Errorf("equal data hashed differently: %x vs %x", a.hash, b.hash)
	}
	if a.hash == c.hash {
		t.Errorf("different data share hash %x", a.hash)
	}
}

// TestImageScaledSize tests the 96 DPI display size and the scale setters
func TestImageScaledSize(t *testing.T) {
	img := &Image{width: 100, height: 50, widthDPI: 200, heightDPI: 100, scaleWidth: 1, scaleHeight: 1}

	if got := img.scaledWidth(); got != 48 {
		t.Errorf("scaledWidth() = %v, want 48", got)
	}
	if got := img.scaledHeight(); got != 48 {
		t.Errorf("scaledHeight() = %v, want 48", got)
	}

	img.SetScaleWidth(2).SetScaleHeight(0.5)
	if got := img.scaledWidth(); got != 96 {
		t.Errorf("scaledWidth() after scaling = %v, want 96", got)
	}
	if got := img.scaledHeight(); got != 24 {
		t.Errorf("scaledHeight() after scaling = %v, want 24", got)
	}

	// Zero and negative factors are ignored.
	img.SetScaleWidth(0).SetScaleHeight(-1)
	if img.scaleWidth != 2 || img.scaleHeight != 0.5 {
		t.Errorf("scale = %vx%v after invalid factors, want 2x0.5", img.scaleWidth, img.scaleHeight)
	}
}

// TestImagePartNaming tests the media extension and content type
func TestImagePartNaming(t *testing.T) {
	tests := []struct {
		format      string
		extension   string
		contentType string
	}{
		{"png", "png", "image/png"},
		{"jpeg", "jpeg", "image/jpeg"},
		{"gif", "gif", "image/gif"},
		{"bmp", "bmp", "image/bmp"},
		{"tiff", "tiff", "image/tiff"},
	}

	for _, tt := range tests {
		img := &Image{format: tt.format}
		if got := img.extension(); got != tt.extension {
			t.Errorf("extension(%s) = %q, want %q", tt.format, got, tt.extension)
		}
		if got := img.contentType(); got != tt.contentType {
			t.Errorf("contentType(%s) = %q, want %q", tt.format, got, tt.contentType)
		}
	}
}

// pngChunk assembles a PNG chunk with its length and CRC fields.
func pngChunk(marker string, payload []byte) []byte {
	chunk := make([]byte, 0, len(payload)+12)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(payload)))
	chunk = append(chunk, marker...)
	chunk = append(chunk, payload...)
	return binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))
}

// TestImagePNGDPI tests pHYs resolution extraction
func TestImagePNGDPI(t *testing.T) {
	phys := func(ppm uint32, unit byte) []byte {
		payload := make([]byte, 0, 9)
		payload = binary.BigEndian.AppendUint32(payload, ppm)
		payload = binary.BigEndian.AppendUint32(payload, ppm)
		return pngChunk("pHYs", append(payload, unit))
	}

	base := encodeImage(t, "png", 2, 2)
	withChunk := func(chunk []byte) []byte {
		// Splice after the 8 byte signature and the 25 byte IHDR chunk.
		data := append([]byte{}, base[:33]...)
		data = append(data, chunk...)
		return append(data, base[33:]...)
	}

	// 11811 pixels per metre is the conventional encoding of 300 DPI.
	got, _ := pngDPI(withChunk(phys(11811, 1)))
	if math.Abs(got-300) > 0.01 {
		t.Errorf("pngDPI = %v, want 300", got)
	}

	// Unit 0 means aspect ratio only, resolution unknown.
	if got, _ := pngDPI(withChunk(phys(11811, 0))); got != 96 {
		t.Errorf("pngDPI with unitless pHYs = %v, want 96", got)
	}

	if got, _ := pngDPI(base); got != 96 {
		t.Errorf("pngDPI without pHYs = %v, want 96", got)
	}

	// The full constructor reads the same chunk.
	img, err := NewImageFromBuffer(withChunk(phys(11811, 1)))
	if err != nil {
		t.Fatalf("NewImageFromBuffer() = %v", err)
	}
	if math.Abs(img.WidthDPI()-300) > 0.01 {
		t.Errorf("WidthDPI() = %v, want 300", img.WidthDPI())
	}
	if math.Abs(img.scaledWidth()-0.64) > 0.01 {
		t.Errorf("scaledWidth() = %v, want 2px at 300 DPI displayed as 0.64", img.scaledWidth())
	}
}

// jfifHeader assembles a JPEG prefix holding a JFIF APP0 segment followed
// by a start of scan marker.
func jfifHeader(units byte, xDensity, yDensity uint16) []byte {
	data := []byte{
		0xFF, 0xD8, // SOI
		0xFF, 0xE0, // APP0
		0x00, 0x10, // segment length 16
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.1
		units,
	}
	data = binary.BigEndian.AppendUint16(data, xDensity)
	data = binary.BigEndian.AppendUint16(data, yDensity)
	data = append(data, 0x00, 0x00) // no thumbnail
	return append(data, 0xFF, 0xDA, 0x00, 0x00)
}

// TestImageJPEGDPI tests JFIF density extraction
func TestImageJPEGDPI(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		wantX float64
		wantY float64
	}{
		{"dots per inch", jfifHeader(1, 300, 200), 300, 200},
		{"dots per centimetre", jfifHeader(2, 100, 50), 254, 127},
		{"aspect ratio only", jfifHeader(0, 4, 3), 96, 96},
		{"density unset", jfifHeader(1, 1, 0), 96, 96},
		{"no app0 segment", []byte{0xFF, 0xD8, 0xFF, 0xDA, 0x00, 0x00}, 96, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := jpegDPI(tt.data)
			if gotX != tt.wantX || gotY != tt.wantY {
				t.Errorf("jpegDPI = %v, %v, want %v, %v", gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}
