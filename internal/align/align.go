package align

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	plateimg "github.com/ironsheep/plate-reader/internal/imaging"
)

// Align rotates a plate crop upright using the estimator's correction angle.
//
// The result always has the dimensions of the input. Rotation is about the
// integer centre with bilinear sampling and replicated borders. When the angle
// is zero the result is an unmodified copy. The input is never modified.
func (e *Estimator) Align(img image.Image) (*image.NRGBA, Estimate, error) {
	est := e.Estimate(img)
	if est.Angle == 0 {
		return imaging.Clone(img), est, nil
	}

	rotated, err := plateimg.Rotate(img, est.Angle)
	if err != nil {
		return nil, est, fmt.Errorf("failed to rotate plate by %.2f degrees: %w", est.Angle, err)
	}
	return rotated, est, nil
}

// Align rotates a plate crop upright using the default parameters and returns
// the corrected image together with the angle that was applied.
func Align(img image.Image) (*image.NRGBA, float64, error) {
	aligned, est, err := NewEstimator().Align(img)
	return aligned, est.Angle, err
}
