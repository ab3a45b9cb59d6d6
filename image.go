package abacus

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for image dimension sniffing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Image is a worksheet image. The supported formats are PNG, JPEG, GIF,
// BMP, and TIFF. Images are embedded at their native size scaled from the
// image DPI to Excel's 96 DPI screen assumption; use the scale setters to
// resize.
type Image struct {
	data      []byte
	format    string
	name      string
	altText   string
	width     float64
	height    float64
	widthDPI  float64
	heightDPI float64

	scaleWidth  float64
	scaleHeight float64
	decorative  bool

	hash uint64
}

// NewImage creates an Image from an image file.
func NewImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, err := NewImageFromBuffer(data)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	img.name = strings.TrimSuffix(name, filepath.Ext(name))

	return img, nil
}

// NewImageFromBuffer creates an Image from image data in memory.
func NewImageFromBuffer(data []byte) (*Image, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownImageType, err)
	}

	if config.Width == 0 || config.Height == 0 {
		return nil, ErrImageDimension
	}

	img := &Image{
		data:        data,
		format:      format,
		name:        "image",
		width:       float64(config.Width),
		height:      float64(config.Height),
		scaleWidth:  1.0,
		scaleHeight: 1.0,
	}
	img.widthDPI, img.heightDPI = imageDPI(data, format)

	h := fnv.New64a()
	h.Write(data)
	img.hash = h.Sum64()

	return img, nil
}

// SetScaleWidth sets the horizontal scale factor.
func (img *Image) SetScaleWidth(scale float64) *Image {
	if scale > 0 {
		img.scaleWidth = scale
	}
	return img
}

// SetScaleHeight sets the vertical scale factor.
func (img *Image) SetScaleHeight(scale float64) *Image {
	if scale > 0 {
		img.scaleHeight = scale
	}
	return img
}

// SetAltText sets the alternative text description used by accessibility
// tools.
func (img *Image) SetAltText(text string) *Image {
	img.altText = text
	return img
}

// SetDecorative marks the image as purely decorative, which tells screen
// readers to skip it.
func (img *Image) SetDecorative(enable bool) *Image {
	img.decorative = enable
	return img
}

// Width returns the image width in pixels.
func (img *Image) Width() float64 {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() float64 {
	return img.height
}

// WidthDPI returns the horizontal DPI read from the image, or Excel's
// default of 96.
func (img *Image) WidthDPI() float64 {
	return img.widthDPI
}

// HeightDPI returns the vertical DPI read from the image, or Excel's
// default of 96.
func (img *Image) HeightDPI() float64 {
	return img.heightDPI
}

// scaledWidth returns the display width in pixels at Excel's 96 DPI.
func (img *Image) scaledWidth() float64 {
	return img.width * img.scaleWidth * 96.0 / img.widthDPI
}

// scaledHeight returns the display height in pixels at Excel's 96 DPI.
func (img *Image) scaledHeight() float64 {
	return img.height * img.scaleHeight * 96.0 / img.heightDPI
}

// extension returns the file extension used under xl/media. The decoder
// format names double as extensions, jpeg files included.
func (img *Image) extension() string {
	return img.format
}

// contentType returns the MIME type registered for the image format.
func (img *Image) contentType() string {
	return "image/" + img.format
}

// imageDPI extracts the physical resolution from formats that record one.
// Go's image decoders expose pixel dimensions only, so the few bytes of
// resolution metadata are read directly. Excel assumes 96 DPI when the
// image doesn't say otherwise.
func imageDPI(data []byte, format string) (float64, float64) {
	switch format {
	case "png":
		return pngDPI(data)
	case "jpeg":
		return jpegDPI(data)
	default:
		return 96.0, 96.0
	}
}

// pngDPI walks the PNG chunks for the optional pHYs resolution chunk,
// which stores pixels per metre.
func pngDPI(data []byte) (float64, float64) {
	widthDPI, heightDPI := 96.0, 96.0

	offset := 8
	for offset+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[offset:]))
		marker := string(data[offset+4 : offset+8])

		if marker == "pHYs" && offset+17 <= len(data) {
			xDensity := binary.BigEndian.Uint32(data[offset+8:])
			yDensity := binary.BigEndian.Uint32(data[offset+12:])
			units := data[offset+16]

			if units == 1 {
				widthDPI = float64(xDensity) * 0.0254
				heightDPI = float64(yDensity) * 0.0254
			}
		}

		if marker == "IEND" {
			break
		}

		offset += length + 12
	}

	return widthDPI, heightDPI
}

// jpegDPI reads the resolution from the JFIF APP0 segment, in dots per
// inch or dots per centimetre depending on the stored unit.
func jpegDPI(data []byte) (float64, float64) {
	widthDPI, heightDPI := 96.0, 96.0

	offset := 2
	for offset+4 <= len(data) {
		marker := binary.BigEndian.Uint16(data[offset:])
		length := int(binary.BigEndian.Uint16(data[offset+2:]))

		if marker == 0xFFE0 && offset+16 <= len(data) {
			units := data[offset+11]
			xDensity := binary.BigEndian.Uint16(data[offset+12:])
			yDensity := binary.BigEndian.Uint16(data[offset+14:])

			switch units {
			case 1:
				widthDPI = float64(xDensity)
				heightDPI = float64(yDensity)
			case 2:
				widthDPI = float64(xDensity) * 2.54
				heightDPI = float64(yDensity) * 2.54
			}

			// Some writers store a density of 0 or 1 to mean unset.
			if widthDPI == 0 || widthDPI == 1 {
				widthDPI = 96.0
			}
			if heightDPI == 0 || heightDPI == 1 {
				heightDPI = 96.0
			}
		}

		// Start of scan, no more metadata segments.
		if marker == 0xFFDA {
			break
		}

		offset += length + 2
	}

	return widthDPI, heightDPI
}
