package plate

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// Box is an axis-aligned rectangle in detector output coordinates.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Region truncates the box to whole pixels.
func (b Box) Region() imaging.Region {
	return imaging.Region{
		X1: int(math.Floor(b.X1)),
		Y1: int(math.Floor(b.Y1)),
		X2: int(math.Floor(b.X2)),
		Y2: int(math.Floor(b.Y2)),
	}
}

// Detection is one result of a detector call.
// Class is meaningless for the plate detector, which has a single class.
type Detection struct {
	Box        Box     `json:"box"`
	Class      int     `json:"class"`
	Confidence float64 `json:"confidence"`
}

// CharacterBox is a decoded character in frame coordinates.
type CharacterBox struct {
	imaging.Region
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func (c CharacterBox) String() string {
	return fmt.Sprintf("%s@(%d,%d)-(%d,%d)", c.Label, c.X1, c.Y1, c.X2, c.Y2)
}

// Row is one visual line of characters, ordered left to right.
type Row []CharacterBox

// Text concatenates the labels of the row.
func (r Row) Text() string {
	var sb strings.Builder
	for _, c := range r {
		sb.WriteString(c.Label)
	}
	return sb.String()
}

// Reading is the full result for one plate detection in one frame.
type Reading struct {
	// Box is the plate box in frame coordinates, clipped to the frame.
	Box        imaging.Region `json:"box"`
	Confidence float64        `json:"confidence"`

	// Angle is the correction applied by the aligner, in degrees.
	Angle float64 `json:"angle"`

	Text string `json:"text"`
	Rows []Row  `json:"rows"`

	// Characters lists the boxes in flattened reading order.
	Characters []CharacterBox `json:"characters"`
}
