// Package geometry provides the 2D primitives used by the detection pipeline:
// integer and floating-point points, rotated rectangles, convex hulls, and
// polygon measurements.
//
// The coordinate system matches image space: (0,0) is the top-left corner,
// X increases rightward, Y increases downward. Angles are in degrees.
package geometry

import "math"

// Point is a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// ToF converts the point to floating-point coordinates.
func (p Point) ToF() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// PointF is a 2D coordinate with floating-point precision.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the vector from other to p.
func (p PointF) Sub(other PointF) PointF {
	return PointF{X: p.X - other.X, Y: p.Y - other.Y}
}

// Add returns the sum of two points.
func (p PointF) Add(other PointF) PointF {
	return PointF{X: p.X + other.X, Y: p.Y + other.Y}
}

// Scale returns the point scaled by a factor.
func (p PointF) Scale(factor float64) PointF {
	return PointF{X: p.X * factor, Y: p.Y * factor}
}

// Distance returns the Euclidean distance to another point.
func (p PointF) Distance(other PointF) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RotatedRect is a rectangle at an arbitrary rotation.
//
// Angle is the raw minimum-area-rectangle angle in degrees, reported in the
// convention [-90, 0): the rectangle's width side runs along the direction
// Angle+90, which always slopes down-right in image coordinates. Width is
// not necessarily the longer side; which of Width and Height is longer
// carries the remaining orientation, so a rectangle and its mirror have
// distinct representations and Corners() is unambiguous.
type RotatedRect struct {
	// Center is the rectangle's center point.
	Center PointF `json:"center"`

	// Width is the extent along the rectangle's first axis, in pixels.
	Width float64 `json:"width"`

	// Height is the extent along the rectangle's second axis, in pixels.
	Height float64 `json:"height"`

	// Angle is the raw rotation in degrees, in [-90, 0].
	Angle float64 `json:"angle"`
}

// Area returns Width × Height.
func (r RotatedRect) Area() float64 {
	return r.Width * r.Height
}

// Corners returns the four corner points of the rectangle in order,
// forming a closed quadrilateral when consecutive corners are connected.
func (r RotatedRect) Corners() [4]PointF {
	// The width side sits at Angle+90 degrees from the horizontal.
	theta := (r.Angle + 90) * math.Pi / 180
	cos := math.Cos(theta)
	sin := math.Sin(theta)

	halfW := r.Width / 2
	halfH := r.Height / 2

	// Axis unit vectors: u along the width side, v perpendicular.
	ux, uy := cos, sin
	vx, vy := -sin, cos

	cx, cy := r.Center.X, r.Center.Y
	return [4]PointF{
		{X: cx - halfW*ux - halfH*vx, Y: cy - halfW*uy - halfH*vy},
		{X: cx + halfW*ux - halfH*vx, Y: cy + halfW*uy - halfH*vy},
		{X: cx + halfW*ux + halfH*vx, Y: cy + halfW*uy + halfH*vy},
		{X: cx - halfW*ux + halfH*vx, Y: cy - halfW*uy + halfH*vy},
	}
}

// Centroid computes the average position of a set of points.
func Centroid(points []PointF) PointF {
	if len(points) == 0 {
		return PointF{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return PointF{X: sumX / n, Y: sumY / n}
}
