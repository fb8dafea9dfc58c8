package pipeline

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/ironsheep/plate-reader/internal/detector"
	"github.com/ironsheep/plate-reader/internal/plate"
	"github.com/ironsheep/plate-reader/internal/results"
	"github.com/ironsheep/plate-reader/internal/video"
)

// createFrame returns a mid-gray frame with a light plate of plateW x plateH
// centred at (cx, cy), rotated clockwise by angle degrees as displayed.
func createFrame(width, height int, cx, cy float64, plateW, plateH int, angle float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rad := angle * math.Pi / 180
	cosA, sinA := math.Cos(rad), math.Sin(rad)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			u := dx*cosA + dy*sinA
			v := -dx*sinA + dy*cosA
			if math.Abs(u) <= float64(plateW)/2 && math.Abs(v) <= float64(plateH)/2 {
				img.Set(x, y, color.RGBA{230, 230, 230, 255})
			} else {
				img.Set(x, y, color.RGBA{40, 40, 40, 255})
			}
		}
	}
	return img
}

func fixed(dets ...plate.Detection) detector.Detector {
	return detector.Func(func(image.Image, float64) ([]plate.Detection, error) {
		out := make([]plate.Detection, len(dets))
		copy(out, dets)
		return out, nil
	})
}

func failing(err error) detector.Detector {
	return detector.Func(func(image.Image, float64) ([]plate.Detection, error) {
		return nil, err
	})
}

func det(x1, y1, x2, y2 float64, class int, conf float64) plate.Detection {
	return plate.Detection{Box: plate.Box{X1: x1, Y1: y1, X2: x2, Y2: y2}, Class: class, Confidence: conf}
}

type memSource struct {
	frames []image.Image
	next   int
	closed bool
}

func (s *memSource) Next() (image.Image, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *memSource) Info() (video.Info, error) {
	if len(s.frames) == 0 {
		return video.Info{}, nil
	}
	b := s.frames[0].Bounds()
	return video.Info{Width: b.Dx(), Height: b.Dy(), FPS: 25}, nil
}

func (s *memSource) Close() error {
	s.closed = true
	return nil
}

type memResults struct {
	records []results.Record
	err     error
}

func (m *memResults) Write(r results.Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memResults) Close() error { return nil }

type memFrames struct {
	frames []image.Image
}

func (m *memFrames) Write(frame image.Image) error {
	m.frames = append(m.frames, frame)
	return nil
}

func (m *memFrames) Close() error { return nil }

var errDetectorDown = errors.New("inference service down")
