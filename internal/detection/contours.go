package detection

import (
	"image"
	"math"
	"sort"
)

// Rectangle is an axis-aligned box traced from a closed edge contour.
//
// X2 and Y2 are exclusive, so the box covers the outermost contour pixels.
type Rectangle struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	// Rectangularity compares the contour length with the perimeter of its
	// bounding box: 1.0 for a perfect outline, lower for other shapes.
	Rectangularity float64 `json:"rectangularity"`
}

// Width returns the horizontal extent of the box.
func (r Rectangle) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the box.
func (r Rectangle) Height() int { return r.Y2 - r.Y1 }

// Aspect returns width over height, or 0 for a box without height.
func (r Rectangle) Aspect() float64 {
	if r.Height() == 0 {
		return 0
	}
	return float64(r.Width()) / float64(r.Height())
}

// FindRectangles groups the non-zero pixels of an edge map into 8-connected
// contours and returns the bounding boxes of those that look rectangular.
//
// Contours whose bounding box is smaller than minArea, or whose
// rectangularity is below tolerance, are dropped. The result is sorted by
// area, largest first. Coordinates are in the edge map's coordinate space.
//
// # Rectangularity
//
// A clean one-pixel outline has about 2*(w+h) pixels. The score is
//
//	1 - |pixels - 2*(w+h)| / (2*(w+h))
//
// Thick or filled blobs and open curves score low. Rotated boxes score a
// little lower than axis-aligned ones because their bounding box is larger
// than the outline.
func FindRectangles(edges *image.Gray, minArea int, tolerance float64) []Rectangle {
	b := edges.Bounds()
	rects := make([]Rectangle, 0)

	for _, contour := range findContours(edges) {
		if len(contour) < 4 {
			continue
		}

		minX, minY := math.MaxInt, math.MaxInt
		maxX, maxY := math.MinInt, math.MinInt
		for _, p := range contour {
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
		}

		w, h := maxX-minX, maxY-minY
		if w*h < minArea {
			continue
		}

		expected := 2 * (w + h)
		score := 1.0 - math.Abs(float64(len(contour)-expected))/float64(expected)
		if score < tolerance {
			continue
		}

		rects = append(rects, Rectangle{
			X1:             minX + b.Min.X,
			Y1:             minY + b.Min.Y,
			X2:             maxX + 1 + b.Min.X,
			Y2:             maxY + 1 + b.Min.Y,
			Rectangularity: score,
		})
	}

	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].Width()*rects[i].Height() > rects[j].Width()*rects[j].Height()
	})
	return rects
}

// findContours returns the 8-connected components of the edge map with at
// least 10 pixels, in scan order. Points are relative to the map's origin.
func findContours(edges *image.Gray) [][]image.Point {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()

	visited := make([]bool, width*height)
	isEdge := func(x, y int) bool {
		return edges.GrayAt(x+b.Min.X, y+b.Min.Y).Y != 0
	}

	contours := make([][]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !isEdge(x, y) {
				continue
			}
			contour := floodFill(isEdge, visited, x, y, width, height)
			if len(contour) >= 10 {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

// floodFill collects the component containing (startX, startY) with an
// explicit stack so long outlines cannot overflow the goroutine stack.
func floodFill(isEdge func(x, y int) bool, visited []bool, startX, startY, width, height int) []image.Point {
	var contour []image.Point
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !isEdge(p.X, p.Y) {
			continue
		}
		visited[i] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
				}
			}
		}
	}
	return contour
}
