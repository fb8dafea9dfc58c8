package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/plate-reader/internal/align"
	"github.com/ironsheep/plate-reader/internal/detector"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/plate"
)

// Logger is the part of logs.Log the pipeline writes to.
type Logger interface {
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Warnf(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// Settings tune a Reader.
type Settings struct {
	PlateThreshold float64
	CharThreshold  float64
	WorkingSize    int
	RowGap         int
	Alphabet       plate.Alphabet
}

// DefaultSettings returns the standard thresholds and geometry.
func DefaultSettings() Settings {
	return Settings{
		PlateThreshold: 0.3,
		CharThreshold:  0.5,
		WorkingSize:    plate.WorkingSize,
		RowGap:         plate.DefaultRowGap,
		Alphabet:       plate.DefaultAlphabet,
	}
}

// Reader reads the plates in single frames.
type Reader struct {
	log       Logger
	plates    detector.Detector
	chars     detector.Detector
	estimator *align.Estimator
	settings  Settings
}

// NewReader creates a Reader using plates to find plates and chars to find
// characters on the aligned, resized plate.
func NewReader(log Logger, plates, chars detector.Detector, settings Settings) *Reader {
	if settings.WorkingSize <= 0 {
		settings.WorkingSize = plate.WorkingSize
	}
	if settings.Alphabet.Len() == 0 {
		settings.Alphabet = plate.DefaultAlphabet
	}
	return &Reader{
		log:       log,
		plates:    plates,
		chars:     chars,
		estimator: align.NewEstimator(),
		settings:  settings,
	}
}

// ReadFrame returns a reading for every plate found in frame.
//
// A plate detector failure fails the whole frame with ErrDetectionUnavailable.
// Any failure while reading a single plate skips that plate with a warning.
func (r *Reader) ReadFrame(frame image.Image) ([]plate.Reading, error) {
	dets, err := r.plates.Detect(frame, r.settings.PlateThreshold)
	if err != nil {
		return nil, fmt.Errorf("plate detection failed: %w", unavailable(err))
	}

	readings := make([]plate.Reading, 0, len(dets))
	for i, det := range dets {
		reading, err := r.ReadPlate(frame, det)
		if err != nil {
			r.log.Warnf("Skipping plate %d at (%.0f,%.0f)-(%.0f,%.0f): %v",
				i, det.Box.X1, det.Box.Y1, det.Box.X2, det.Box.Y2, err)
			continue
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

// ReadPlate reads the plate at det in frame.
func (r *Reader) ReadPlate(frame image.Image, det plate.Detection) (plate.Reading, error) {
	region := det.Box.Region().Clip(frame.Bounds())
	if region.Empty() {
		return plate.Reading{}, fmt.Errorf("plate box (%.1f,%.1f)-(%.1f,%.1f) has no area inside the frame: %w",
			det.Box.X1, det.Box.Y1, det.Box.X2, det.Box.Y2, plate.ErrDegenerateRegion)
	}

	crop, err := imaging.Crop(frame, region)
	if err != nil {
		return plate.Reading{}, fmt.Errorf("failed to crop plate: %w: %w", err, plate.ErrDegenerateRegion)
	}

	aligned, est, err := r.estimator.Align(crop)
	if err != nil {
		return plate.Reading{}, fmt.Errorf("failed to align plate: %w", err)
	}
	r.log.Debugf("Plate at (%d,%d) rotated by %.2f degrees from %d segments",
		region.X1, region.Y1, est.Angle, len(est.Segments))

	size := r.settings.WorkingSize
	working := imaging.Resize(aligned, size, size)

	charDets, err := r.chars.Detect(working, r.settings.CharThreshold)
	if err != nil {
		return plate.Reading{}, fmt.Errorf("character detection failed: %w", unavailable(err))
	}

	chars := make([]plate.CharacterBox, 0, len(charDets))
	for _, cd := range charDets {
		label, err := r.settings.Alphabet.Lookup(cd.Class)
		if err != nil {
			return plate.Reading{}, err
		}
		remapped, err := plate.Remap(cd.Box, region, image.Pt(size, size))
		if err != nil {
			return plate.Reading{}, err
		}
		clipped, ok := plate.ClipToFrame(remapped, frame.Bounds())
		if !ok {
			continue
		}
		chars = append(chars, plate.CharacterBox{Region: clipped, Label: label, Confidence: cd.Confidence})
	}

	ordered, rows := plate.ResolveLayout(chars, r.settings.RowGap)
	return plate.Reading{
		Box:        region,
		Confidence: det.Confidence,
		Angle:      est.Angle,
		Text:       plate.AssembleText(rows),
		Rows:       rows,
		Characters: ordered,
	}, nil
}

func unavailable(err error) error {
	if errors.Is(err, plate.ErrDetectionUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", err, plate.ErrDetectionUnavailable)
}
