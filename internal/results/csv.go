package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{"Frame", "License_Plate_Text", "Confidence"}

// CSVSink writes records to a CSV file with a header row.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// CreateCSV creates or truncates path and writes the header.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &CSVSink{f: f, w: w}, nil
}

// Write appends r. Rows are flushed so a crash loses at most one frame.
func (s *CSVSink) Write(r Record) error {
	row := []string{
		strconv.Itoa(r.FrameIndex),
		r.PlateText,
		strconv.FormatFloat(r.Confidence, 'f', -1, 64),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
