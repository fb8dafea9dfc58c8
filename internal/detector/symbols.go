package detector

import (
	"image"
	"strings"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// symbolBox is one recognised symbol with its Tesseract confidence (0-100).
type symbolBox struct {
	Symbol     string
	Confidence float64
	Box        image.Rectangle
}

// symbolDetections converts recognised symbols into detections. Symbols are
// upper-cased before lookup and symbols outside the alphabet are skipped.
func symbolDetections(symbols []symbolBox, alphabet plate.Alphabet, threshold float64) []plate.Detection {
	var dets []plate.Detection
	for _, s := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s.Symbol))
		class := alphabet.Index(symbol)
		if class < 0 {
			continue
		}
		conf := s.Confidence / 100
		if conf < threshold {
			continue
		}
		dets = append(dets, plate.Detection{
			Box: plate.Box{
				X1: float64(s.Box.Min.X),
				Y1: float64(s.Box.Min.Y),
				X2: float64(s.Box.Max.X),
				Y2: float64(s.Box.Max.Y),
			},
			Class:      class,
			Confidence: conf,
		})
	}
	return dets
}

// whitelist returns the alphabet as a Tesseract character whitelist.
func whitelist(alphabet plate.Alphabet) string {
	return strings.Join(alphabet.Symbols(), "")
}
