package detection

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"
)

// drawLine sets a one-pixel line from (x1,y) with the given angle on an edge map.
// The angle is in degrees with Y pointing down.
func drawLine(edges *image.Gray, x1, y1, length int, angle float64) {
	rad := angle * math.Pi / 180
	for i := 0; i < length; i++ {
		x := x1 + int(math.Round(float64(i)*math.Cos(rad)))
		y := y1 + int(math.Round(float64(i)*math.Sin(rad)))
		if image.Pt(x, y).In(edges.Bounds()) {
			edges.SetGray(x, y, color.Gray{Y: 255})
		}
	}
}

func TestHoughLinesP_Empty(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 60))

	segments := HoughLinesP(edges, DefaultHoughParams())
	if len(segments) != 0 {
		t.Errorf("expected no segments, got %d", len(segments))
	}
}

func TestHoughLinesP_Horizontal(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 200, 60))
	drawLine(edges, 10, 30, 180, 0)

	segments := HoughLinesP(edges, DefaultHoughParams())
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segments), segments)
	}

	s := segments[0]
	if s.Angle() != 0 {
		t.Errorf("angle: got %.2f, want 0", s.Angle())
	}
	if s.Length() < 170 {
		t.Errorf("length: got %.1f, want >= 170", s.Length())
	}
	if s.Y1 != 30 || s.Y2 != 30 {
		t.Errorf("segment should lie on y=30, got %+v", s)
	}
}

func TestHoughLinesP_Tilted(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"descending 10", 10},
		{"ascending 10", -10},
		{"descending 5", 5},
		{"ascending 14", -14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := image.NewGray(image.Rect(0, 0, 200, 100))
			drawLine(edges, 10, 50, 170, tt.angle)

			segments := HoughLinesP(edges, DefaultHoughParams())
			if len(segments) == 0 {
				t.Fatal("expected at least one segment")
			}
			for _, s := range segments {
				if math.Abs(s.Angle()-tt.angle) > 2.5 {
					t.Errorf("segment %+v: angle %.2f, want %.1f ± 2.5", s, s.Angle(), tt.angle)
				}
			}
		})
	}
}

func TestHoughLinesP_Vertical(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 60, 120))
	drawLine(edges, 20, 5, 100, 90)

	segments := HoughLinesP(edges, DefaultHoughParams())
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if math.Abs(math.Abs(segments[0].Angle())-90) > 1e-9 {
		t.Errorf("angle: got %.2f, want ±90", segments[0].Angle())
	}
}

func TestHoughLinesP_ShortLineRejected(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 100, 60))
	drawLine(edges, 10, 30, 30, 0)

	if segments := HoughLinesP(edges, DefaultHoughParams()); len(segments) != 0 {
		t.Errorf("30px line is below threshold and length, got %v", segments)
	}
}

func TestHoughLinesP_BridgesGap(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 200, 40))
	drawLine(edges, 10, 20, 70, 0)
	drawLine(edges, 110, 20, 70, 0)

	segments := HoughLinesP(edges, DefaultHoughParams())
	if len(segments) != 1 {
		t.Fatalf("a 30px gap should be bridged, got %d segments: %v", len(segments), segments)
	}
	if segments[0].Length() < 165 {
		t.Errorf("merged segment too short: %+v", segments[0])
	}
}

func TestHoughLinesP_TwoParallelLines(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 200, 80))
	drawLine(edges, 10, 10, 180, 0)
	drawLine(edges, 10, 70, 180, 0)

	segments := HoughLinesP(edges, DefaultHoughParams())
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segments), segments)
	}
}

func TestHoughLinesP_MaxLines(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 200, 80))
	drawLine(edges, 10, 10, 180, 0)
	drawLine(edges, 10, 70, 180, 0)

	params := DefaultHoughParams()
	params.MaxLines = 1
	if segments := HoughLinesP(edges, params); len(segments) != 1 {
		t.Errorf("MaxLines=1: got %d segments", len(segments))
	}
}

func TestHoughLinesP_Deterministic(t *testing.T) {
	build := func() *image.Gray {
		edges := image.NewGray(image.Rect(0, 0, 200, 100))
		drawLine(edges, 10, 20, 170, 8)
		drawLine(edges, 10, 60, 170, 8)
		drawLine(edges, 100, 5, 90, 80)
		return edges
	}

	first := HoughLinesP(build(), DefaultHoughParams())
	second := HoughLinesP(build(), DefaultHoughParams())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs:\n%v\n%v", first, second)
	}
}

func TestHoughLinesP_OffsetBounds(t *testing.T) {
	full := image.NewGray(image.Rect(0, 0, 220, 80))
	drawLine(full, 20, 40, 180, 0)
	sub := full.SubImage(image.Rect(10, 10, 220, 80)).(*image.Gray)

	segments := HoughLinesP(sub, DefaultHoughParams())
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Y1 != 40 {
		t.Errorf("segment should be reported in parent coordinates, got %+v", segments[0])
	}
}

func TestSegment_Angle(t *testing.T) {
	tests := []struct {
		seg  Segment
		want float64
	}{
		{Segment{0, 0, 10, 0}, 0},
		{Segment{0, 0, 0, 10}, 90},
		{Segment{0, 10, 0, 0}, -90},
		{Segment{10, 0, 0, 0}, 180},
		{Segment{0, 0, 10, 10}, 45},
	}

	for _, tt := range tests {
		if got := tt.seg.Angle(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%+v.Angle(): got %v, want %v", tt.seg, got, tt.want)
		}
	}
}
