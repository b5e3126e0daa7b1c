package geometry

import (
	"math"
	"testing"
)

func TestPointF_Distance(t *testing.T) {
	a := PointF{X: 0, Y: 0}
	b := PointF{X: 3, Y: 4}

	if got := a.Distance(b); math.Abs(got-5) > 1e-9 {
		t.Errorf("distance: got %.4f, want 5", got)
	}
	if got := a.Distance(a); got != 0 {
		t.Errorf("distance to self: got %.4f, want 0", got)
	}
}

func TestPointF_Arithmetic(t *testing.T) {
	a := PointF{X: 3, Y: 4}
	b := PointF{X: 1, Y: 2}

	if got := a.Sub(b); got.X != 2 || got.Y != 2 {
		t.Errorf("Sub: got %v, want {2 2}", got)
	}
	if got := a.Add(b); got.X != 4 || got.Y != 6 {
		t.Errorf("Add: got %v, want {4 6}", got)
	}
	if got := a.Scale(2); got.X != 6 || got.Y != 8 {
		t.Errorf("Scale: got %v, want {6 8}", got)
	}
}

func TestRotatedRect_Corners_AxisAligned(t *testing.T) {
	// Angle -90 puts the width side horizontal
	rect := RotatedRect{
		Center: PointF{X: 50, Y: 50},
		Width:  40,
		Height: 20,
		Angle:  -90,
	}

	corners := rect.Corners()

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}

	if math.Abs(minX-30) > 0.01 || math.Abs(maxX-70) > 0.01 {
		t.Errorf("x extent: got [%.2f, %.2f], want [30, 70]", minX, maxX)
	}
	if math.Abs(minY-40) > 0.01 || math.Abs(maxY-60) > 0.01 {
		t.Errorf("y extent: got [%.2f, %.2f], want [40, 60]", minY, maxY)
	}
}

func TestRotatedRect_Corners_SideLengths(t *testing.T) {
	rect := RotatedRect{
		Center: PointF{X: 100, Y: 80},
		Width:  60,
		Height: 30,
		Angle:  -60,
	}

	corners := rect.Corners()

	// Consecutive edges must alternate between Width and Height
	for i := 0; i < 4; i++ {
		edge := corners[i].Distance(corners[(i+1)%4])
		want := rect.Width
		if i%2 == 1 {
			want = rect.Height
		}
		if math.Abs(edge-want) > 0.01 {
			t.Errorf("edge %d length: got %.2f, want %.2f", i, edge, want)
		}
	}

	// Corners must be centered on the rectangle center
	c := Centroid(corners[:])
	if math.Abs(c.X-rect.Center.X) > 0.01 || math.Abs(c.Y-rect.Center.Y) > 0.01 {
		t.Errorf("corner centroid: got (%.2f, %.2f), want (%.2f, %.2f)",
			c.X, c.Y, rect.Center.X, rect.Center.Y)
	}
}

func TestCentroid(t *testing.T) {
	points := []PointF{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	c := Centroid(points)
	if c.X != 5 || c.Y != 5 {
		t.Errorf("centroid: got (%.2f, %.2f), want (5, 5)", c.X, c.Y)
	}

	if c := Centroid(nil); c.X != 0 || c.Y != 0 {
		t.Errorf("centroid of empty set: got (%.2f, %.2f), want (0, 0)", c.X, c.Y)
	}
}
