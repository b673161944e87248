package output

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/df07/go-orbit-raytracer/pkg/renderer"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not recognize
var ErrUnknownFormat = errors.New("unknown image format")

// Format selects the on-disk encoding of a frame
type Format string

const (
	FormatPPM       Format = "ppm"     // Plain-text PPM (P3)
	FormatPPMBinary Format = "ppm-raw" // Binary PPM (P6)
	FormatPNG       Format = "png"
	FormatBMP       Format = "bmp"
	FormatTIFF      Format = "tiff"
)

var formats = []Format{FormatPPM, FormatPPMBinary, FormatPNG, FormatBMP, FormatTIFF}

// Formats returns every supported format
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat resolves a format name, ignoring case
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "p3":
		return FormatPPM, nil
	case "p6":
		return FormatPPMBinary, nil
	case "tif":
		return FormatTIFF, nil
	}
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnknownFormat, name, formats)
}

// Extension returns the file extension without the leading dot
func (f Format) Extension() string {
	switch f {
	case FormatPPM, FormatPPMBinary:
		return "ppm"
	default:
		return string(f)
	}
}

// Encode writes frame to w in the given format
func Encode(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPPM:
		return EncodePPM(w, frame)
	case FormatPPMBinary:
		return EncodePPMBinary(w, frame)
	case FormatPNG:
		return png.Encode(w, frame.ToImage())
	case FormatBMP:
		return bmp.Encode(w, frame.ToImage())
	case FormatTIFF:
		return tiff.Encode(w, frame.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodePPM writes a plain-text PPM: the "P3" header, then one "r g b" line
// per pixel, top row first
func EncodePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height)
	for i := 0; i < len(frame.Pix); i += 3 {
		fmt.Fprintf(bw, "%d %d %d\n", frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2])
	}
	return bw.Flush()
}

// EncodePPMBinary writes a binary PPM (P6). The frame buffer is already in P6 byte order.
func EncodePPMBinary(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", frame.Width, frame.Height)
	if _, err := bw.Write(frame.Pix); err != nil {
		return err
	}
	return bw.Flush()
}
