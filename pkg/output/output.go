package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for an image format name or extension that has no encoder
var ErrUnknownFormat = errors.New("output: unknown image format")

// Format identifies an image encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Formats lists every supported format
var Formats = []Format{FormatPPM, FormatPNG, FormatBMP, FormatTIFF}

// FormatNames returns the supported format names joined by ", "
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat maps a format name such as "png" or "tif" to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%q (supported: %s): %w", name, FormatNames(), ErrUnknownFormat)
}

// FormatFromPath picks the format from a file name's extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

// Quantize converts a linear color channel to an 8-bit value with gamma 2
func Quantize(linear float64) uint8 {
	r, _, _ := QuantizeColor(core.NewVec3(linear, 0, 0))
	return r
}

// QuantizeColor converts a linear color to 8-bit RGB with gamma 2.
// NaN and non-positive channels map to black.
func QuantizeColor(c core.Vec3) (r, g, b uint8) {
	corrected := core.NewVec3(positive(c.X), positive(c.Y), positive(c.Z)).GammaCorrect(2.0)
	return toByte(corrected.X), toByte(corrected.Y), toByte(corrected.Z)
}

func positive(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(256 * min(v, 0.999))
}

// ToRGBA converts the framebuffer to a displayable image
func ToRGBA(fb *renderer.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			r, g, b := QuantizeColor(fb.At(x, y))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// WritePPM writes the framebuffer as a plain-text P3 pixmap, top row first
func WritePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width(), fb.Height())
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			r, g, b := QuantizeColor(fb.At(x, y))
			fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
		}
	}
	return bw.Flush()
}

// WritePNG writes the framebuffer as a PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return png.Encode(w, ToRGBA(fb))
}

// WriteBMP writes the framebuffer as a BMP
func WriteBMP(w io.Writer, fb *renderer.Framebuffer) error {
	return bmp.Encode(w, ToRGBA(fb))
}

// WriteTIFF writes the framebuffer as a deflate-compressed TIFF
func WriteTIFF(w io.Writer, fb *renderer.Framebuffer) error {
	return tiff.Encode(w, ToRGBA(fb), &tiff.Options{Compression: tiff.Deflate})
}

// Encode writes the framebuffer in the given format
func Encode(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	var err error
	switch format {
	case FormatPPM:
		err = WritePPM(w, fb)
	case FormatPNG:
		err = WritePNG(w, fb)
	case FormatBMP:
		err = WriteBMP(w, fb)
	case FormatTIFF:
		err = WriteTIFF(w, fb)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
