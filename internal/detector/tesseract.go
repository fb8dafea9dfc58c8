//go:build cgo

package detector

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// TesseractDetector recognises individual plate symbols with Tesseract.
//
// It is a character detector: each recognised symbol becomes one detection
// whose class is the symbol's index in the alphabet. The Tesseract client is
// not safe for concurrent use, so calls are serialised.
type TesseractDetector struct {
	mu       sync.Mutex
	client   *gosseract.Client
	alphabet plate.Alphabet
}

func newTesseractDetector(language string, alphabet plate.Alphabet) (Detector, error) {
	return NewTesseractDetector(language, alphabet)
}

// NewTesseractDetector creates a detector for language restricted to alphabet.
func NewTesseractDetector(language string, alphabet plate.Alphabet) (*TesseractDetector, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetWhitelist(whitelist(alphabet)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	// Plate text is not dictionary words.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &TesseractDetector{client: client, alphabet: alphabet}, nil
}

// Detect recognises the symbols in img.
func (d *TesseractDetector) Detect(img image.Image, threshold float64) ([]plate.Detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w: %w", err, plate.ErrDetectionUnavailable)
	}
	if err := d.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w: %w", err, plate.ErrDetectionUnavailable)
	}

	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w: %w", err, plate.ErrDetectionUnavailable)
	}

	// Tesseract reports boxes relative to the encoded image, which starts at (0,0).
	origin := img.Bounds().Min
	symbols := make([]symbolBox, 0, len(boxes))
	for _, b := range boxes {
		symbols = append(symbols, symbolBox{
			Symbol:     b.Word,
			Confidence: b.Confidence,
			Box:        b.Box.Add(origin),
		})
	}
	return symbolDetections(symbols, d.alphabet, threshold), nil
}

// Close releases the Tesseract client.
func (d *TesseractDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client.Close()
}

// TesseractVersion returns the linked Tesseract version.
func TesseractVersion() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
