package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a region has no area after clipping.
var ErrEmptyRegion = errors.New("empty region")

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Dx returns the width of the region.
func (r Region) Dx() int { return r.X2 - r.X1 }

// Dy returns the height of the region.
func (r Region) Dy() int { return r.Y2 - r.Y1 }

// Empty reports whether the region has zero or negative area.
func (r Region) Empty() bool { return r.X1 >= r.X2 || r.Y1 >= r.Y2 }

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle { return image.Rect(r.X1, r.Y1, r.X2, r.Y2) }

// Clip returns the intersection of the region with bounds.
// The result may be empty.
func (r Region) Clip(bounds image.Rectangle) Region {
	return Region{
		X1: clamp(r.X1, bounds.Min.X, bounds.Max.X),
		Y1: clamp(r.Y1, bounds.Min.Y, bounds.Max.Y),
		X2: clamp(r.X2, bounds.Min.X, bounds.Max.X),
		Y2: clamp(r.Y2, bounds.Min.Y, bounds.Max.Y),
	}
}

// Crop extracts a rectangular region from an image.
//
// The region is clipped to the image bounds first, the same way slicing a
// frame buffer would. The returned image is a copy with bounds starting at
// (0,0), so later stages never alias the source frame.
//
// Returns ErrEmptyRegion (wrapped) when nothing is left after clipping.
func Crop(img image.Image, r Region) (*image.NRGBA, error) {
	clipped := r.Clip(img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %v: %w",
			r.X1, r.Y1, r.X2, r.Y2, img.Bounds(), ErrEmptyRegion)
	}
	return imaging.Crop(img, clipped.Rect()), nil
}

// Resize scales an image to exactly width x height.
//
// A box filter is used, which averages every source pixel that falls under a
// destination pixel. This is the area-interpolation behaviour expected when a
// small plate crop is stretched to a detector's input size.
func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Box)
}

// EncodePNGBase64 encodes an image as base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
