package plate

import (
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// WorkingSize is the side of the square image fed to the character detector.
// The resize before detection and Remap must use the same value.
const WorkingSize = 640

// Remap maps a box detected in a working image of size working back into
// frame coordinates, where the working image is a resized copy of region.
//
// Each coordinate is floored to a whole pixel, then
//
//	orig = floor(local * extent / working) + offset
//
// with the region width and X offset for x, the region height and Y offset for y.
// Returns ErrDegenerateRegion (wrapped) when the region or the working size
// has no area.
func Remap(box Box, region imaging.Region, working image.Point) (imaging.Region, error) {
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return imaging.Region{}, fmt.Errorf("cannot remap into region (%d,%d)-(%d,%d): %w",
			region.X1, region.Y1, region.X2, region.Y2, ErrDegenerateRegion)
	}
	if working.X <= 0 || working.Y <= 0 {
		return imaging.Region{}, fmt.Errorf("cannot remap from working size %dx%d: %w",
			working.X, working.Y, ErrDegenerateRegion)
	}

	local := box.Region()
	pw, ph := region.Dx(), region.Dy()
	return imaging.Region{
		X1: floorDiv(local.X1*pw, working.X) + region.X1,
		Y1: floorDiv(local.Y1*ph, working.Y) + region.Y1,
		X2: floorDiv(local.X2*pw, working.X) + region.X1,
		Y2: floorDiv(local.Y2*ph, working.Y) + region.Y1,
	}, nil
}

// ClipToFrame clips a remapped box to the frame. The second result is false
// when nothing of the box is left.
func ClipToFrame(r imaging.Region, frame image.Rectangle) (imaging.Region, bool) {
	clipped := r.Clip(frame)
	return clipped, !clipped.Empty()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
