package detector

import (
	"image"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/plate"
)

// ContourDetector proposes plate regions from closed edge contours.
//
// It needs no model: the frame goes through Canny, closed outlines are traced
// and the ones with a plate-like aspect ratio are returned as class 0 with
// their rectangularity as confidence. It finds clean, high-contrast plates
// and is meant as a fallback or for testing the rest of the pipeline.
type ContourDetector struct {
	CannyLow, CannyHigh float64

	// MinArea is the smallest candidate box in square pixels.
	MinArea int

	// Tolerance is the minimum rectangularity of a traced outline.
	Tolerance float64

	// MinAspect and MaxAspect bound width/height of a candidate.
	MinAspect, MaxAspect float64
}

// NewContourDetector returns a detector tuned for single and two-row plates.
func NewContourDetector() *ContourDetector {
	return &ContourDetector{
		CannyLow:  50,
		CannyHigh: 150,
		MinArea:   600,
		Tolerance: 0.7,
		MinAspect: 1.2,
		MaxAspect: 6,
	}
}

// Detect returns the plate candidates in img at or above threshold.
func (d *ContourDetector) Detect(img image.Image, threshold float64) ([]plate.Detection, error) {
	edges := imaging.Canny(img, d.CannyLow, d.CannyHigh)
	rects := detection.FindRectangles(edges, d.MinArea, d.Tolerance)
	return d.candidates(rects, img.Bounds().Min, threshold), nil
}

// candidates converts outlines traced on a zero-origin edge map into
// detections in image coordinates.
func (d *ContourDetector) candidates(rects []detection.Rectangle, origin image.Point, threshold float64) []plate.Detection {
	dets := make([]plate.Detection, 0, len(rects))
	for _, r := range rects {
		aspect := r.Aspect()
		if aspect < d.MinAspect || aspect > d.MaxAspect {
			continue
		}
		dets = append(dets, plate.Detection{
			Box: plate.Box{
				X1: float64(r.X1 + origin.X),
				Y1: float64(r.Y1 + origin.Y),
				X2: float64(r.X2 + origin.X),
				Y2: float64(r.Y2 + origin.Y),
			},
			Confidence: r.Rectangularity,
		})
	}
	return filterByConfidence(dets, threshold)
}
