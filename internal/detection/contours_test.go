package detection

import (
	"image"
	"image/color"
	"testing"
)

// drawOutline sets a one-pixel rectangle outline with inclusive corners.
func drawOutline(edges *image.Gray, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		edges.SetGray(x, y1, color.Gray{Y: 255})
		edges.SetGray(x, y2, color.Gray{Y: 255})
	}
	for y := y1; y <= y2; y++ {
		edges.SetGray(x1, y, color.Gray{Y: 255})
		edges.SetGray(x2, y, color.Gray{Y: 255})
	}
}

func TestFindRectangles_Outline(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 60))
	drawOutline(edges, 20, 20, 80, 40)

	rects := FindRectangles(edges, 100, 0.8)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(rects))
	}
	r := rects[0]
	if r.X1 != 20 || r.Y1 != 20 || r.X2 != 81 || r.Y2 != 41 {
		t.Errorf("bounds: got (%d,%d)-(%d,%d), want (20,20)-(81,41)", r.X1, r.Y1, r.X2, r.Y2)
	}
	if r.Rectangularity != 1 {
		t.Errorf("rectangularity: got %v, want 1", r.Rectangularity)
	}
	if r.Width() != 61 || r.Height() != 21 {
		t.Errorf("size: got %dx%d", r.Width(), r.Height())
	}
}

func TestFindRectangles_Empty(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 60))

	if rects := FindRectangles(edges, 0, 0); len(rects) != 0 {
		t.Errorf("expected no rectangles, got %d", len(rects))
	}
}

func TestFindRectangles_MinArea(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 60))
	drawOutline(edges, 20, 20, 80, 40) // 60x20 = 1200

	if rects := FindRectangles(edges, 1200, 0.8); len(rects) != 1 {
		t.Errorf("minArea 1200: expected 1 rectangle, got %d", len(rects))
	}
	if rects := FindRectangles(edges, 1201, 0.8); len(rects) != 0 {
		t.Errorf("minArea 1201: expected 0 rectangles, got %d", len(rects))
	}
}

func TestFindRectangles_RejectsFilledBlob(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 30; y < 60; y++ {
		for x := 30; x < 60; x++ {
			edges.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	if rects := FindRectangles(edges, 100, 0.8); len(rects) != 0 {
		t.Errorf("expected filled blob to be rejected, got %d", len(rects))
	}
}

func TestFindRectangles_IgnoresSmallContours(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 50, 50))
	drawOutline(edges, 10, 10, 12, 12) // 8 pixels

	if rects := FindRectangles(edges, 0, 0); len(rects) != 0 {
		t.Errorf("expected contour below 10 pixels to be ignored, got %d", len(rects))
	}
}

func TestFindRectangles_SortedByArea(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 200, 100))
	drawOutline(edges, 5, 5, 35, 25)
	drawOutline(edges, 60, 20, 180, 80)

	rects := FindRectangles(edges, 100, 0.8)
	if len(rects) != 2 {
		t.Fatalf("expected 2 rectangles, got %d", len(rects))
	}
	if rects[0].X1 != 60 || rects[1].X1 != 5 {
		t.Errorf("expected largest first, got X1 %d then %d", rects[0].X1, rects[1].X1)
	}
}

func TestFindRectangles_OffsetBounds(t *testing.T) {
	edges := image.NewGray(image.Rect(10, 10, 110, 70))
	drawOutline(edges, 30, 30, 90, 50)

	rects := FindRectangles(edges, 100, 0.8)
	if len(rects) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(rects))
	}
	if rects[0].X1 != 30 || rects[0].Y1 != 30 {
		t.Errorf("expected map coordinates, got (%d,%d)", rects[0].X1, rects[0].Y1)
	}
}

func TestRectangle_Aspect(t *testing.T) {
	tests := []struct {
		r    Rectangle
		want float64
	}{
		{Rectangle{X1: 0, Y1: 0, X2: 40, Y2: 10}, 4},
		{Rectangle{X1: 0, Y1: 0, X2: 10, Y2: 20}, 0.5},
		{Rectangle{X1: 0, Y1: 5, X2: 10, Y2: 5}, 0},
	}
	for _, tt := range tests {
		if got := tt.r.Aspect(); got != tt.want {
			t.Errorf("Aspect(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
