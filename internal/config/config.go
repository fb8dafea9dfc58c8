// Package config loads the settings of a plate reading run.
//
// Values come from defaults, then an optional JSON file, then PLATE_READER_*
// environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// Config describes one run.
type Config struct {
	// PlateModelSource and CharModelSource select the detectors; see detector.Open.
	PlateModelSource string `json:"plate_model_source"`
	CharModelSource  string `json:"char_model_source"`

	// InputVideoSource is a video file or a directory of frames.
	InputVideoSource string `json:"input_video_source"`

	// OutputDirectory receives the results file and the annotated frames.
	OutputDirectory string `json:"output_directory"`

	PlateConfidenceThreshold     float64 `json:"plate_confidence_threshold"`
	CharacterConfidenceThreshold float64 `json:"character_confidence_threshold"`

	// WorkingSize is the side of the square character detector input.
	WorkingSize int `json:"working_size"`

	// RowGap is the vertical distance that separates character rows.
	RowGap int `json:"row_gap"`

	// ResultsFormat is "csv" or "sqlite".
	ResultsFormat string `json:"results_format"`

	// OutputVideo names the annotated output inside OutputDirectory. A name
	// with a video extension is encoded as video, anything else is a frame directory.
	OutputVideo string `json:"output_video"`

	// DetectorTimeout bounds one remote detector call.
	DetectorTimeout Duration `json:"detector_timeout"`

	// Annotation colours as "#rrggbb".
	PlateColor string `json:"plate_color"`
	TextColor  string `json:"text_color"`
	CharColor  string `json:"char_color"`
}

// Duration is a time.Duration that reads from JSON as "5s" or as nanoseconds.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		PlateModelSource:             "http://localhost:5000/plate",
		CharModelSource:              "http://localhost:5000/char",
		OutputDirectory:              "output",
		PlateConfidenceThreshold:     0.3,
		CharacterConfidenceThreshold: 0.5,
		WorkingSize:                  plate.WorkingSize,
		RowGap:                       plate.DefaultRowGap,
		ResultsFormat:                "csv",
		OutputVideo:                  "frames",
		DetectorTimeout:              Duration(30 * time.Second),
		PlateColor:                   "#00ff00",
		TextColor:                    "#ff0000",
		CharColor:                    "#0000ff",
	}
}

// Load reads path (if not empty) over the defaults, applies the environment
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PLATE_READER_* environment variables.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"PLATE_READER_PLATE_MODEL":    &c.PlateModelSource,
		"PLATE_READER_CHAR_MODEL":     &c.CharModelSource,
		"PLATE_READER_INPUT":          &c.InputVideoSource,
		"PLATE_READER_OUTPUT_DIR":     &c.OutputDirectory,
		"PLATE_READER_RESULTS_FORMAT": &c.ResultsFormat,
		"PLATE_READER_OUTPUT_VIDEO":   &c.OutputVideo,
		"PLATE_READER_PLATE_COLOR":    &c.PlateColor,
		"PLATE_READER_TEXT_COLOR":     &c.TextColor,
		"PLATE_READER_CHAR_COLOR":     &c.CharColor,
	}
	for key, dst := range strs {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	floats := map[string]*float64{
		"PLATE_READER_PLATE_CONF": &c.PlateConfidenceThreshold,
		"PLATE_READER_CHAR_CONF":  &c.CharacterConfidenceThreshold,
	}
	for key, dst := range floats {
		if val := os.Getenv(key); val != "" {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"PLATE_READER_WORKING_SIZE": &c.WorkingSize,
		"PLATE_READER_ROW_GAP":      &c.RowGap,
	}
	for key, dst := range ints {
		if val := os.Getenv(key); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if val := os.Getenv("PLATE_READER_DETECTOR_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("PLATE_READER_DETECTOR_TIMEOUT: %w", err)
		}
		c.DetectorTimeout = Duration(d)
	}
	return nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.PlateModelSource == "" {
		errs = append(errs, errors.New("plate_model_source is required"))
	}
	if c.CharModelSource == "" {
		errs = append(errs, errors.New("char_model_source is required"))
	}
	if c.OutputDirectory == "" {
		errs = append(errs, errors.New("output_directory is required"))
	}
	if c.PlateConfidenceThreshold < 0 || c.PlateConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("plate_confidence_threshold %v outside [0,1]", c.PlateConfidenceThreshold))
	}
	if c.CharacterConfidenceThreshold < 0 || c.CharacterConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("character_confidence_threshold %v outside [0,1]", c.CharacterConfidenceThreshold))
	}
	if c.WorkingSize <= 0 {
		errs = append(errs, fmt.Errorf("working_size must be positive, got %d", c.WorkingSize))
	}
	if c.RowGap < 0 {
		errs = append(errs, fmt.Errorf("row_gap must not be negative, got %d", c.RowGap))
	}
	if c.ResultsFormat != "csv" && c.ResultsFormat != "sqlite" {
		errs = append(errs, fmt.Errorf("results_format must be csv or sqlite, got %q", c.ResultsFormat))
	}
	if c.DetectorTimeout < 0 {
		errs = append(errs, errors.New("detector_timeout must not be negative"))
	}
	colors := []struct{ name, value string }{
		{"plate_color", c.PlateColor},
		{"text_color", c.TextColor},
		{"char_color", c.CharColor},
	}
	for _, col := range colors {
		if _, err := colorful.Hex(col.value); err != nil {
			errs = append(errs, fmt.Errorf("%s %q is not a hex colour", col.name, col.value))
		}
	}
	return errors.Join(errs...)
}
