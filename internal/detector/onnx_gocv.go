//go:build gocv

package detector

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// ONNXDetector runs a YOLO model exported to ONNX through OpenCV's DNN module.
type ONNXDetector struct {
	mu           sync.Mutex
	net          gocv.Net
	inputSize    int
	nmsThreshold float32
}

func newONNXDetector(path string, opts Options) (Detector, error) {
	return NewONNXDetector(path, opts.InputSize, opts.NMSThreshold)
}

// NewONNXDetector loads the model at path.
func NewONNXDetector(path string, inputSize int, nmsThreshold float64) (*ONNXDetector, error) {
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("could not load model from %s: %w", path, plate.ErrDetectionUnavailable)
	}
	return &ONNXDetector{
		net:          net,
		inputSize:    inputSize,
		nmsThreshold: float32(nmsThreshold),
	}, nil
}

// Detect runs the model on img.
func (d *ONNXDetector) Detect(img image.Image, threshold float64) ([]plate.Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w: %w", err, plate.ErrDetectionUnavailable)
	}

	b := img.Bounds()
	sx := float64(b.Dx()) / float64(d.inputSize)
	sy := float64(b.Dy()) / float64(d.inputSize)
	candidates, err := decodeYOLO(data, output.Size(), sx, sy, threshold)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	rects := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		rects[i] = c.Rect
		scores[i] = c.Confidence
	}

	indices := gocv.NMSBoxes(rects, scores, float32(threshold), d.nmsThreshold)
	dets := make([]plate.Detection, 0, len(indices))
	for _, idx := range indices {
		c := candidates[idx]
		box := c.Box
		box.X1 += float64(b.Min.X)
		box.X2 += float64(b.Min.X)
		box.Y1 += float64(b.Min.Y)
		box.Y2 += float64(b.Min.Y)
		dets = append(dets, plate.Detection{Box: box, Class: c.Class, Confidence: float64(c.Confidence)})
	}
	return dets, nil
}

// Close releases the network.
func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
