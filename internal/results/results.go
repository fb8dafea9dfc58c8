// Package results persists one record per plate per frame.
package results

import (
	"fmt"
	"io"
	"path/filepath"
)

// CSVFileName and SQLiteFileName are created inside the output directory.
const (
	CSVFileName    = "license_plate_results.csv"
	SQLiteFileName = "license_plate_results.sqlite"
)

// Record is the per-plate output of a frame. PlateText contains a space
// between the rows of a two-row plate.
type Record struct {
	FrameIndex int     `json:"frame_index"`
	PlateText  string  `json:"plate_text"`
	Confidence float64 `json:"confidence"`
}

// Sink stores records in arrival order.
type Sink interface {
	Write(r Record) error
	io.Closer
}

// Open creates the sink for format ("csv" or "sqlite") inside dir.
func Open(format, dir string) (Sink, error) {
	switch format {
	case "", "csv":
		return CreateCSV(filepath.Join(dir, CSVFileName))
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, SQLiteFileName))
	}
	return nil, fmt.Errorf("unknown results format %q", format)
}
