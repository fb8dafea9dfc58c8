//go:build !cgo

package detector

import (
	"errors"

	"github.com/ironsheep/plate-reader/internal/plate"
)

func newTesseractDetector(string, plate.Alphabet) (Detector, error) {
	return nil, errors.New("tesseract detector requires a cgo build")
}

// TesseractVersion returns an empty string when Tesseract is not linked.
func TesseractVersion() string {
	return ""
}
