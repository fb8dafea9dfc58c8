package pipeline

import (
	"image"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/plate-reader/internal/detector"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/plate"
)

func TestReadFrameRotatedSingleRow(t *testing.T) {
	// A 200x60 plate crop whose plate is rotated 10 degrees clockwise.
	frame := createFrame(400, 200, 200, 100, 170, 40, 10)

	var seen image.Rectangle
	chars := detector.Func(func(img image.Image, threshold float64) ([]plate.Detection, error) {
		seen = img.Bounds()
		assert.Equal(t, 0.5, threshold)
		// Four 30x40 characters in crop space, scaled to 640x640.
		return []plate.Detection{
			det(448, 112, 544, 538, 4, 0.9),
			det(64, 110, 160, 537, 1, 0.95),
			det(320, 108, 416, 535, 3, 0.92),
			det(192, 111, 288, 536, 2, 0.97),
		}, nil
	})

	r := NewReader(logs.NewTestingLog(t), fixed(det(100, 70, 300, 130, 0, 0.87)), chars, DefaultSettings())
	readings, err := r.ReadFrame(frame)
	require.NoError(t, err)
	require.Len(t, readings, 1)

	got := readings[0]
	assert.Equal(t, image.Rect(0, 0, 640, 640), seen)
	assert.InDelta(t, 10, got.Angle, 2)
	assert.Equal(t, "1234", got.Text)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, imaging.Region{X1: 100, Y1: 70, X2: 300, Y2: 130}, got.Box)
	assert.Equal(t, 0.87, got.Confidence)

	require.Len(t, got.Characters, 4)
	first := got.Characters[0]
	assert.Equal(t, "1", first.Label)
	assert.Equal(t, imaging.Region{X1: 120, Y1: 80, X2: 150, Y2: 120}, first.Region)
}

func TestReadFrameTwoRows(t *testing.T) {
	frame := createFrame(400, 300, 200, 150, 160, 120, 0)

	// Plate region is 200x200 so working pixels map at 200/640.
	chars := fixed(
		det(320, 0, 400, 200, 1, 0.9),
		det(100, 10, 180, 210, 5, 0.9),
		det(100, 400, 180, 600, 10, 0.9),
		det(260, 405, 340, 605, 11, 0.9),
		det(420, 398, 500, 598, 12, 0.9),
	)

	r := NewReader(logs.NewTestingLog(t), fixed(det(100, 50, 300, 250, 0, 0.8)), chars, DefaultSettings())
	readings, err := r.ReadFrame(frame)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "51 ABC", readings[0].Text)
	assert.Len(t, readings[0].Rows, 2)
	assert.Len(t, readings[0].Characters, 5)
}

func TestReadFrameNoPlates(t *testing.T) {
	r := NewReader(logs.NewTestingLog(t), fixed(), fixed(), DefaultSettings())
	readings, err := r.ReadFrame(createFrame(100, 50, 50, 25, 40, 10, 0))
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestReadFrameNoCharacters(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 0)
	r := NewReader(logs.NewTestingLog(t), fixed(det(50, 20, 250, 80, 0, 0.6)), fixed(), DefaultSettings())

	readings, err := r.ReadFrame(frame)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "", readings[0].Text)
	assert.Empty(t, readings[0].Rows)
	assert.Empty(t, readings[0].Characters)
}

func TestReadFramePlateDetectorFails(t *testing.T) {
	r := NewReader(logs.NewTestingLog(t), failing(errDetectorDown), fixed(), DefaultSettings())

	_, err := r.ReadFrame(createFrame(100, 50, 50, 25, 40, 10, 0))
	assert.ErrorIs(t, err, plate.ErrDetectionUnavailable)
	assert.ErrorIs(t, err, errDetectorDown)
}

func TestReadFrameSkipsFailingPlates(t *testing.T) {
	frame := createFrame(400, 200, 200, 100, 160, 28, 0)
	calls := 0
	chars := detector.Func(func(image.Image, float64) ([]plate.Detection, error) {
		calls++
		if calls == 1 {
			return nil, errDetectorDown
		}
		return []plate.Detection{det(10, 10, 60, 600, 7, 0.9)}, nil
	})

	plates := fixed(
		det(20, 20, 120, 60, 0, 0.9),
		det(500, 500, 600, 600, 0, 0.9), // outside the frame
		det(150, 80, 150, 120, 0, 0.9), // zero width
		det(200, 80, 380, 130, 0, 0.7),
	)

	r := NewReader(logs.NewTestingLog(t), plates, chars, DefaultSettings())
	readings, err := r.ReadFrame(frame)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "7", readings[0].Text)
	assert.Equal(t, 0.7, readings[0].Confidence)
	assert.Equal(t, 2, calls)
}

func TestReadPlateUnknownClass(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 0)
	r := NewReader(logs.NewTestingLog(t), fixed(), fixed(det(0, 0, 50, 50, 36, 0.9)), DefaultSettings())

	_, err := r.ReadPlate(frame, det(50, 20, 250, 80, 0, 0.9))
	assert.ErrorIs(t, err, plate.ErrDetectionUnavailable)
}

func TestReadPlateDegenerate(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 0)
	r := NewReader(logs.NewTestingLog(t), fixed(), fixed(), DefaultSettings())

	_, err := r.ReadPlate(frame, det(50, 40, 250, 40.9, 0, 0.9))
	assert.ErrorIs(t, err, plate.ErrDegenerateRegion)
}

func TestReadPlateClipsToFrame(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 0)
	r := NewReader(logs.NewTestingLog(t), fixed(), fixed(det(0, 0, 640, 640, 0, 0.9)), DefaultSettings())

	reading, err := r.ReadPlate(frame, det(250, 60, 350, 140, 0, 0.9))
	require.NoError(t, err)
	assert.Equal(t, imaging.Region{X1: 250, Y1: 60, X2: 300, Y2: 100}, reading.Box)
	require.Len(t, reading.Characters, 1)
	assert.Equal(t, reading.Box, reading.Characters[0].Region)
}

func TestReadPlateCustomAlphabetAndGap(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 0)
	settings := DefaultSettings()
	settings.Alphabet = plate.NewAlphabet("X", "Y")
	settings.RowGap = 1000

	chars := fixed(det(300, 500, 400, 600, 1, 0.9), det(0, 0, 100, 100, 0, 0.9))
	r := NewReader(logs.NewTestingLog(t), fixed(), chars, settings)

	reading, err := r.ReadPlate(frame, det(50, 20, 250, 80, 0, 0.9))
	require.NoError(t, err)
	assert.Equal(t, "XY", reading.Text)
}

func TestReadPlateDoesNotModifyFrame(t *testing.T) {
	frame := createFrame(300, 100, 150, 50, 160, 28, 8)
	before := append([]uint8(nil), frame.Pix...)

	r := NewReader(logs.NewTestingLog(t), fixed(), fixed(), DefaultSettings())
	_, err := r.ReadPlate(frame, det(40, 10, 260, 90, 0, 0.9))
	require.NoError(t, err)
	assert.Equal(t, before, frame.Pix)
}
