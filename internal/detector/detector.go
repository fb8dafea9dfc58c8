package detector

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// ErrUnsupportedSource is returned by Open for a source no backend accepts.
var ErrUnsupportedSource = errors.New("unsupported detector source")

// Detector finds objects in an image.
type Detector interface {
	// Detect returns every detection with confidence >= threshold.
	Detect(img image.Image, threshold float64) ([]plate.Detection, error)
}

// Func adapts a function to the Detector interface.
type Func func(img image.Image, threshold float64) ([]plate.Detection, error)

// Detect calls f.
func (f Func) Detect(img image.Image, threshold float64) ([]plate.Detection, error) {
	return f(img, threshold)
}

// Options configure the backend chosen by Open.
type Options struct {
	// Alphabet maps symbols to class indices for backends that recognise
	// text rather than emit class indices. Defaults to plate.DefaultAlphabet.
	Alphabet plate.Alphabet

	// Timeout bounds a single remote call. Zero means no timeout.
	Timeout time.Duration

	// InputSize is the square network input for model backends. Defaults to 640.
	InputSize int

	// NMSThreshold is the IoU above which overlapping model boxes are merged.
	NMSThreshold float64
}

func (o Options) withDefaults() Options {
	if o.Alphabet.Len() == 0 {
		o.Alphabet = plate.DefaultAlphabet
	}
	if o.InputSize <= 0 {
		o.InputSize = plate.WorkingSize
	}
	if o.NMSThreshold <= 0 {
		o.NMSThreshold = 0.45
	}
	return o
}

// Open returns the backend for source.
func Open(source string, opts Options) (Detector, error) {
	opts = opts.withDefaults()

	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return NewHTTPDetector(source, opts.Timeout), nil
	case source == "tesseract" || strings.HasPrefix(source, "tesseract:"):
		lang := strings.TrimPrefix(strings.TrimPrefix(source, "tesseract"), ":")
		if lang == "" {
			lang = "eng"
		}
		return newTesseractDetector(lang, opts.Alphabet)
	case source == "contours":
		return NewContourDetector(), nil
	case strings.HasSuffix(strings.ToLower(source), ".onnx"):
		return newONNXDetector(source, opts)
	}
	return nil, fmt.Errorf("%q: %w", source, ErrUnsupportedSource)
}

// Close releases the detector's resources if it holds any.
func Close(d Detector) error {
	if c, ok := d.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// CheckHealth asks d whether its backend is reachable. Detectors without a
// remote backend are always healthy.
func CheckHealth(d Detector) error {
	if h, ok := d.(interface{ CheckHealth() error }); ok {
		return h.CheckHealth()
	}
	return nil
}

// filterByConfidence keeps detections at or above threshold.
func filterByConfidence(dets []plate.Detection, threshold float64) []plate.Detection {
	out := dets[:0:0]
	for _, d := range dets {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// maxCoord bounds box coordinates so they survive conversion to int.
const maxCoord = 1 << 30

// validate rejects detections that cannot describe an object.
func validate(d plate.Detection) error {
	if err := validateBox(d.Box); err != nil {
		return err
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %.3f outside [0,1]: %w", d.Confidence, plate.ErrDetectionUnavailable)
	}
	return nil
}

func validateBox(b plate.Box) error {
	for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxCoord {
			return fmt.Errorf("box coordinate %v out of range: %w", v, plate.ErrDetectionUnavailable)
		}
	}
	if b.X2 < b.X1 || b.Y2 < b.Y1 {
		return fmt.Errorf("inverted box (%.1f,%.1f)-(%.1f,%.1f): %w", b.X1, b.Y1, b.X2, b.Y2, plate.ErrDetectionUnavailable)
	}
	return nil
}
