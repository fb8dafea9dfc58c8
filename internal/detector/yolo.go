package detector

import (
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// yoloCandidate is one anchor of a YOLO head that passed the threshold.
type yoloCandidate struct {
	Rect       image.Rectangle
	Box        plate.Box
	Class      int
	Confidence float32
}

// decodeYOLO reads a YOLOv8 style output tensor of shape [1, 4+classes, anchors].
// Each anchor holds cx, cy, w, h in network input pixels followed by one score
// per class. Boxes are scaled by (sx, sy) into image coordinates.
func decodeYOLO(data []float32, dims []int, sx, sy float64, threshold float64) ([]yoloCandidate, error) {
	if len(dims) != 3 || dims[0] != 1 || dims[1] < 5 {
		return nil, fmt.Errorf("unexpected output shape %v: %w", dims, plate.ErrDetectionUnavailable)
	}
	rows, anchors := dims[1], dims[2]
	if len(data) < rows*anchors {
		return nil, fmt.Errorf("output has %d values, want %d: %w", len(data), rows*anchors, plate.ErrDetectionUnavailable)
	}

	var out []yoloCandidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < rows-4; c++ {
			if s := data[(4+c)*anchors+i]; best < 0 || s > bestScore {
				best, bestScore = c, s
			}
		}
		if float64(bestScore) < threshold {
			continue
		}

		cx, cy := float64(data[i]), float64(data[anchors+i])
		w, h := float64(data[2*anchors+i]), float64(data[3*anchors+i])
		box := plate.Box{
			X1: (cx - w/2) * sx,
			Y1: (cy - h/2) * sy,
			X2: (cx + w/2) * sx,
			Y2: (cy + h/2) * sy,
		}
		if err := validateBox(box); err != nil {
			return nil, err
		}
		out = append(out, yoloCandidate{
			Rect:       image.Rect(int(box.X1), int(box.Y1), int(box.X2), int(box.Y2)),
			Box:        box,
			Class:      best,
			Confidence: bestScore,
		})
	}
	return out, nil
}
