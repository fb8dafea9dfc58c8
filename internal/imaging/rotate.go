package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// RotationMatrix returns the 2x3 affine matrix rotating by angle degrees about
// (cx, cy) with the given scale. Positive angles rotate counter-clockwise as
// displayed (Y axis pointing down):
//
//	| a  b  (1-a)*cx - b*cy |
//	| -b a  b*cx + (1-a)*cy |
//
// where a = scale*cos(angle) and b = scale*sin(angle).
func RotationMatrix(cx, cy, angle, scale float64) *mat.Dense {
	rad := angle * math.Pi / 180
	a := scale * math.Cos(rad)
	b := scale * math.Sin(rad)
	return mat.NewDense(2, 3, []float64{
		a, b, (1-a)*cx - b*cy,
		-b, a, b*cx + (1-a)*cy,
	})
}

// WarpAffine applies a forward 2x3 affine transform to img.
//
// The output has the same dimensions as the input. Each destination pixel is
// sampled from the inverse-mapped source position with bilinear interpolation;
// positions outside the source replicate the nearest border pixel, so no
// constant-colour borders are introduced.
//
// Returns an error if m is not 2x3 or is not invertible.
func WarpAffine(img image.Image, m *mat.Dense) (*image.NRGBA, error) {
	if r, c := m.Dims(); r != 2 || c != 3 {
		return nil, fmt.Errorf("affine matrix must be 2x3, got %dx%d", r, c)
	}

	full := mat.NewDense(3, 3, []float64{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(full); err != nil {
		return nil, fmt.Errorf("failed to invert affine matrix: %w", err)
	}

	src := imaging.Clone(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	i00, i01, i02 := inv.At(0, 0), inv.At(0, 1), inv.At(0, 2)
	i10, i11, i12 := inv.At(1, 0), inv.At(1, 1), inv.At(1, 2)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx := i00*float64(x) + i01*float64(y) + i02
			sy := i10*float64(x) + i11*float64(y) + i12
			off := y*dst.Stride + x*4
			sampleBilinear(src, sx, sy, dst.Pix[off:off+4])
		}
	}
	return dst, nil
}

// Rotate rotates img by angle degrees about its integer centre (w/2, h/2),
// keeping the original dimensions.
func Rotate(img image.Image, angle float64) (*image.NRGBA, error) {
	b := img.Bounds()
	cx := float64(b.Dx() / 2)
	cy := float64(b.Dy() / 2)
	return WarpAffine(img, RotationMatrix(cx, cy, angle, 1.0))
}

// sampleBilinear writes the interpolated NRGBA value at (sx, sy) into out.
// Coordinates are clamped to the image, replicating border pixels.
func sampleBilinear(src *image.NRGBA, sx, sy float64, out []uint8) {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()

	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	xa := clamp(x0, 0, width-1)
	xb := clamp(x0+1, 0, width-1)
	ya := clamp(y0, 0, height-1)
	yb := clamp(y0+1, 0, height-1)

	p00 := src.Pix[ya*src.Stride+xa*4:]
	p10 := src.Pix[ya*src.Stride+xb*4:]
	p01 := src.Pix[yb*src.Stride+xa*4:]
	p11 := src.Pix[yb*src.Stride+xb*4:]

	for c := 0; c < 4; c++ {
		top := float64(p00[c])*(1-fx) + float64(p10[c])*fx
		bottom := float64(p01[c])*(1-fx) + float64(p11[c])*fx
		v := top*(1-fy) + bottom*fy
		out[c] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
}
