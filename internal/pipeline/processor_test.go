package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/plate-reader/internal/detector"
	"github.com/ironsheep/plate-reader/internal/plate"
	"github.com/ironsheep/plate-reader/internal/render"
	"github.com/ironsheep/plate-reader/internal/results"
)

func newProcessor(t *testing.T, plates, chars detector.Detector) (*Processor, *memResults, *memFrames) {
	log := logs.NewTestingLog(t)
	res := &memResults{}
	out := &memFrames{}
	return &Processor{
		Log:     log,
		Reader:  NewReader(log, plates, chars, DefaultSettings()),
		Results: res,
		Output:  out,
		Style:   render.DefaultStyle(),
	}, res, out
}

func TestProcessorRun(t *testing.T) {
	frames := make([]image.Image, 3)
	for i := range frames {
		frames[i] = createFrame(300, 100, 150, 50, 160, 28, 0)
	}

	calls := 0
	plates := detector.Func(func(image.Image, float64) ([]plate.Detection, error) {
		calls++
		switch calls {
		case 2:
			return nil, errDetectorDown
		case 3:
			return []plate.Detection{det(50, 20, 250, 80, 0, 0.6), det(0, 0, 100, 50, 0, 0.4)}, nil
		}
		return []plate.Detection{det(50, 20, 250, 80, 0, 0.9)}, nil
	})
	chars := fixed(det(64, 100, 160, 500, 10, 0.9), det(200, 100, 300, 500, 11, 0.9))

	p, res, out := newProcessor(t, plates, chars)
	src := &memSource{frames: frames}

	stats, err := p.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Stats{Frames: 3, FailedFrames: 1, Plates: 3}, stats)

	assert.Equal(t, []results.Record{
		{FrameIndex: 0, PlateText: "AB", Confidence: 0.9},
		{FrameIndex: 2, PlateText: "AB", Confidence: 0.6},
		{FrameIndex: 2, PlateText: "AB", Confidence: 0.4},
	}, res.records)

	require.Len(t, out.frames, 3)
	for _, f := range out.frames {
		assert.Equal(t, frames[0].Bounds(), f.Bounds())
	}
}

func TestProcessorEmptySource(t *testing.T) {
	p, res, out := newProcessor(t, fixed(), fixed())

	stats, err := p.Run(context.Background(), &memSource{})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, res.records)
	assert.Empty(t, out.frames)
}

func TestProcessorWithoutOutput(t *testing.T) {
	p, res, _ := newProcessor(t, fixed(det(50, 20, 250, 80, 0, 0.9)), fixed())
	p.Output = nil

	stats, err := p.Run(context.Background(), &memSource{frames: []image.Image{createFrame(300, 100, 150, 50, 160, 28, 0)}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Plates)
	require.Len(t, res.records, 1)
	assert.Equal(t, "", res.records[0].PlateText)
}

func TestProcessorResultsError(t *testing.T) {
	p, res, _ := newProcessor(t, fixed(det(50, 20, 250, 80, 0, 0.9)), fixed())
	res.err = errors.New("disk full")

	_, err := p.Run(context.Background(), &memSource{frames: []image.Image{createFrame(300, 100, 150, 50, 160, 28, 0)}})
	assert.ErrorIs(t, err, res.err)
}

func TestProcessorCancelled(t *testing.T) {
	p, _, out := newProcessor(t, fixed(), fixed())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := p.Run(ctx, &memSource{frames: []image.Image{createFrame(30, 10, 15, 5, 10, 4, 0)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Frames)
	assert.Empty(t, out.frames)
}
