// Package render draws plate readings onto frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/plate-reader/internal/plate"
)

// Style controls the overlay.
type Style struct {
	PlateColor     colorful.Color
	PlateTextColor colorful.Color
	CharColor      colorful.Color
	PlateLineWidth float64
	CharLineWidth  float64
}

// DefaultStyle draws plates in green with red text and characters in blue.
func DefaultStyle() Style {
	return Style{
		PlateColor:     colorful.Color{R: 0, G: 1, B: 0},
		PlateTextColor: colorful.Color{R: 1, G: 0, B: 0},
		CharColor:      colorful.Color{R: 0, G: 0, B: 1},
		PlateLineWidth: 2,
		CharLineWidth:  1,
	}
}

// ParseStyle builds a style from hex colours such as "#00ff00".
func ParseStyle(plateHex, textHex, charHex string) (Style, error) {
	s := DefaultStyle()
	var err error
	if s.PlateColor, err = colorful.Hex(plateHex); err != nil {
		return Style{}, fmt.Errorf("plate colour: %w", err)
	}
	if s.PlateTextColor, err = colorful.Hex(textHex); err != nil {
		return Style{}, fmt.Errorf("plate text colour: %w", err)
	}
	if s.CharColor, err = colorful.Hex(charHex); err != nil {
		return Style{}, fmt.Errorf("character colour: %w", err)
	}
	return s, nil
}

// Caption is the text drawn above a plate box.
func Caption(r plate.Reading) string {
	return fmt.Sprintf("%s (%.2f)", r.Text, r.Confidence)
}

// Annotate returns a copy of frame with every reading drawn on it: the plate
// box with its caption above, then each character box in reading order with
// its label above. frame is not modified.
func Annotate(frame image.Image, readings []plate.Reading, style Style) *image.RGBA {
	b := frame.Bounds()
	dc := gg.NewContextForImage(frame)
	dc.SetFontFace(basicfont.Face7x13)

	// The context is 0-origin; readings are in frame coordinates.
	ox, oy := float64(b.Min.X), float64(b.Min.Y)

	for _, r := range readings {
		strokeBox(dc, r.Box.X1, r.Box.Y1, r.Box.X2, r.Box.Y2, ox, oy, style.PlateColor, style.PlateLineWidth)
		drawLabel(dc, Caption(r), float64(r.Box.X1)-ox, float64(r.Box.Y1)-oy-10, style.PlateTextColor)

		for _, c := range r.Characters {
			strokeBox(dc, c.X1, c.Y1, c.X2, c.Y2, ox, oy, style.CharColor, style.CharLineWidth)
			drawLabel(dc, c.Label, float64(c.X1)-ox, float64(c.Y1)-oy-5, style.CharColor)
		}
	}

	return dc.Image().(*image.RGBA)
}

func strokeBox(dc *gg.Context, x1, y1, x2, y2 int, ox, oy float64, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(x1)-ox, float64(y1)-oy, float64(x2-x1), float64(y2-y1))
	dc.Stroke()
}

func drawLabel(dc *gg.Context, text string, x, y float64, c color.Color) {
	if text == "" {
		return
	}
	dc.SetColor(c)
	dc.DrawString(text, x, y)
}
