package align

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
)

const (
	// DefaultCannyLow and DefaultCannyHigh are the hysteresis thresholds for edge detection.
	DefaultCannyLow  = 50
	DefaultCannyHigh = 150

	// DefaultMaxCorrection bounds the correction angle in degrees.
	DefaultMaxCorrection = 15.0

	// bucketTolerance is how far from 0°/180° or ±90° a segment may lean and
	// still count as horizontal or vertical.
	bucketTolerance = 30.0
)

// Estimate is the outcome of analysing one plate crop.
type Estimate struct {
	// Angle is the correction angle in degrees, clamped to ±MaxCorrection.
	Angle float64 `json:"angle"`

	// HorizontalMedian is the unclamped median of the horizontal bucket (0 if empty).
	HorizontalMedian float64 `json:"horizontal_median"`

	// VerticalMedian is the median of the vertical bucket (0 if empty).
	// It is reported for diagnostics only and never affects Angle.
	VerticalMedian float64 `json:"vertical_median"`

	// Segments are all segments returned by the Hough transform.
	Segments []detection.Segment `json:"segments"`

	// Horizontal and Vertical hold the segment angles in each bucket.
	Horizontal []float64 `json:"horizontal"`
	Vertical   []float64 `json:"vertical"`
}

// Estimator finds the rotation of a plate crop.
type Estimator struct {
	CannyLow      float64
	CannyHigh     float64
	Hough         detection.HoughParams
	MaxCorrection float64
}

// NewEstimator returns an Estimator with the standard plate parameters.
func NewEstimator() *Estimator {
	return &Estimator{
		CannyLow:      DefaultCannyLow,
		CannyHigh:     DefaultCannyHigh,
		Hough:         detection.DefaultHoughParams(),
		MaxCorrection: DefaultMaxCorrection,
	}
}

// Estimate analyses img and returns the correction angle with its evidence.
// An image without qualifying segments yields an Angle of exactly 0.
func (e *Estimator) Estimate(img image.Image) Estimate {
	edges := imaging.Canny(img, e.CannyLow, e.CannyHigh)
	segments := detection.HoughLinesP(edges, e.Hough)

	est := Estimate{Segments: segments}
	if len(segments) == 0 {
		return est
	}

	for _, s := range segments {
		angle := s.Angle()
		switch classify(angle) {
		case bucketHorizontal:
			est.Horizontal = append(est.Horizontal, angle)
		case bucketVertical:
			est.Vertical = append(est.Vertical, angle)
		}
	}

	est.HorizontalMedian = median(est.Horizontal)
	est.VerticalMedian = median(est.Vertical)
	est.Angle = clampAngle(est.HorizontalMedian, e.MaxCorrection)
	return est
}

// EstimateAngle returns the correction angle for img using the default parameters.
func EstimateAngle(img image.Image) float64 {
	return NewEstimator().Estimate(img).Angle
}

type bucket int

const (
	bucketNone bucket = iota
	bucketHorizontal
	bucketVertical
)

func classify(angle float64) bucket {
	switch {
	case math.Abs(angle) < bucketTolerance || math.Abs(angle) > 180-bucketTolerance:
		return bucketHorizontal
	case math.Abs(angle-90) < bucketTolerance || math.Abs(angle+90) < bucketTolerance:
		return bucketVertical
	}
	return bucketNone
}

// median returns the middle value, or the mean of the two middle values for an
// even count. An empty slice has median 0.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func clampAngle(angle, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, angle))
}
