package detection

import (
	"image"
	"math"
	"math/rand"
)

// Segment is a detected line segment in image coordinates.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Angle returns atan2(dy, dx) in degrees, in the range (-180, 180].
// With Y pointing down, a segment descending to the right has a positive angle.
func (s Segment) Angle() float64 {
	return math.Atan2(float64(s.Y2-s.Y1), float64(s.X2-s.X1)) * 180 / math.Pi
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	dx := float64(s.X2 - s.X1)
	dy := float64(s.Y2 - s.Y1)
	return math.Sqrt(dx*dx + dy*dy)
}

// HoughParams configures the probabilistic Hough transform.
type HoughParams struct {
	// Rho is the distance resolution of the accumulator in pixels.
	Rho float64

	// Theta is the angular resolution of the accumulator in degrees.
	Theta float64

	// Threshold is the number of votes a line needs before a segment is traced.
	Threshold int

	// MinLineLength is the minimum horizontal or vertical extent of a segment.
	MinLineLength int

	// MaxLineGap is the largest run of non-edge pixels bridged while tracing.
	MaxLineGap int

	// MaxLines stops the search after this many segments (0 = no limit).
	MaxLines int

	// Seed drives the random visiting order of edge pixels.
	Seed int64
}

// DefaultHoughParams returns the parameters used for plate alignment:
// 1px / 1° resolution, 50 votes, 50px minimum length, 50px maximum gap.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		Rho:           1,
		Theta:         1,
		Threshold:     50,
		MinLineLength: 50,
		MaxLineGap:    50,
	}
}

// HoughLinesP finds line segments in a binary edge map using the progressive
// probabilistic Hough transform.
//
// Parameters:
//   - edges: Edge map; any non-zero pixel is an edge.
//   - params: Accumulator resolution and segment acceptance criteria.
//
// Returns the accepted segments in discovery order. An edge map without
// qualifying lines yields an empty slice.
//
// # Algorithm
//
// Edge pixels are visited in random order. Each visited pixel votes in a
// (rho, theta) accumulator; once a cell reaches Threshold votes the line is
// traced in both directions from the pixel, bridging gaps up to MaxLineGap.
// Pixels on the traced span are removed so they cannot vote again, and if
// the span is long enough their votes are withdrawn and the segment is kept.
//
// The visiting order is seeded from params.Seed, so results are reproducible.
func HoughLinesP(edges *image.Gray, params HoughParams) []Segment {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	segments := make([]Segment, 0)
	if width == 0 || height == 0 || params.Rho <= 0 || params.Theta <= 0 {
		return segments
	}

	irho := 1 / params.Rho
	thetaRad := params.Theta * math.Pi / 180
	numAngles := int(math.Round(math.Pi / thetaRad))
	numRho := int(math.Round(float64((width+height)*2+1) / params.Rho))
	rhoOffset := (numRho - 1) / 2

	trig := make([]float64, numAngles*2)
	for n := 0; n < numAngles; n++ {
		angle := float64(n) * thetaRad
		trig[n*2] = math.Cos(angle) * irho
		trig[n*2+1] = math.Sin(angle) * irho
	}

	// Collect edge pixels
	mask := make([]bool, width*height)
	points := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+width]
		for x, v := range row {
			if v != 0 {
				mask[y*width+x] = true
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}

	accumulator := make([]int, numAngles*numRho)
	vote := func(x, y, delta int) (maxVotes, maxN int) {
		maxVotes = params.Threshold - 1
		for n := 0; n < numAngles; n++ {
			r := int(math.RoundToEven(float64(x)*trig[n*2]+float64(y)*trig[n*2+1])) + rhoOffset
			cell := n*numRho + r
			accumulator[cell] += delta
			if accumulator[cell] > maxVotes {
				maxVotes = accumulator[cell]
				maxN = n
			}
		}
		return maxVotes, maxN
	}

	const shift = 16
	rng := rand.New(rand.NewSource(params.Seed))

	for count := len(points); count > 0; count-- {
		idx := rng.Intn(count)
		p := points[idx]
		points[idx] = points[count-1]

		// Already consumed by an earlier segment
		if !mask[p.Y*width+p.X] {
			continue
		}

		maxVotes, maxN := vote(p.X, p.Y, 1)
		if maxVotes < params.Threshold {
			continue
		}

		// Direction along the winning line, in 16.16 fixed point on the minor axis
		a := -trig[maxN*2+1]
		b := trig[maxN*2]
		x0, y0 := p.X, p.Y
		var dx0, dy0 int
		xMajor := math.Abs(a) > math.Abs(b)
		if xMajor {
			dx0 = sign(a)
			dy0 = int(math.RoundToEven(b * (1 << shift) / math.Abs(a)))
			y0 = (y0 << shift) + (1 << (shift - 1))
		} else {
			dy0 = sign(b)
			dx0 = int(math.RoundToEven(a * (1 << shift) / math.Abs(b)))
			x0 = (x0 << shift) + (1 << (shift - 1))
		}

		locate := func(x, y int) (int, int) {
			if xMajor {
				return x, y >> shift
			}
			return x >> shift, y
		}

		// Walk both directions, recording the last edge pixel before the gap
		var ends [2]image.Point
		for k := 0; k < 2; k++ {
			gap := 0
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := locate(x, y)
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if mask[py*width+px] {
					gap = 0
					ends[k] = image.Point{X: px, Y: py}
				} else {
					gap++
					if gap > params.MaxLineGap {
						break
					}
				}
			}
		}

		goodLine := abs(ends[1].X-ends[0].X) >= params.MinLineLength ||
			abs(ends[1].Y-ends[0].Y) >= params.MinLineLength

		// Walk again up to the recorded ends, consuming the pixels
		for k := 0; k < 2; k++ {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := locate(x, y)
				if mask[py*width+px] {
					if goodLine {
						vote(px, py, -1)
					}
					mask[py*width+px] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		if goodLine {
			segments = append(segments, Segment{
				X1: ends[0].X + bounds.Min.X,
				Y1: ends[0].Y + bounds.Min.Y,
				X2: ends[1].X + bounds.Min.X,
				Y2: ends[1].Y + bounds.Min.Y,
			})
			if params.MaxLines > 0 && len(segments) >= params.MaxLines {
				break
			}
		}
	}

	return segments
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
