package geometry

import "math"

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the hull vertices in counter-clockwise order (in image coordinates,
// where Y increases downward). Inputs with fewer than 3 points are returned
// as-is.
func ConvexHull(points []PointF) []PointF {
	if len(points) < 3 {
		return points
	}

	pts := make([]PointF, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied).
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	sorted := make([]PointF, len(pts)-1)
	copy(sorted, pts[1:])

	// Sort by polar angle with respect to pivot.
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			cross := crossProduct(pivot, sorted[i], sorted[j])
			if cross < 0 || (cross == 0 && distSq(pivot, sorted[i]) > distSq(pivot, sorted[j])) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	hull := []PointF{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// PolygonArea computes the enclosed area of a closed polygon using the
// shoelace formula. The polygon is implicitly closed (last vertex connects
// back to the first). Returns the absolute area regardless of winding.
func PolygonArea(polygon []PointF) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter computes the total edge length of a closed polygon.
func Perimeter(polygon []PointF) float64 {
	if len(polygon) < 2 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		sum += polygon[i].Distance(polygon[(i+1)%n])
	}
	return sum
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p PointF, polygon []PointF) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// MinAreaRect computes the minimum-area rectangle enclosing a point set
// using rotating calipers over the convex hull.
//
// The returned rectangle uses the raw minimum-area-rectangle convention:
// Angle is in [-90, 0) and the width side runs along the direction
// Angle+90, which always slopes down-right in image coordinates. Width is
// not necessarily the longer side; the width/height assignment is what
// distinguishes a rectangle from its mirror, so Corners() reconstructs the
// fitted rectangle exactly. Degenerate inputs (fewer than 3 points, or all
// points collinear) yield a rectangle with near-zero area; callers decide
// whether that is acceptable.
func MinAreaRect(points []PointF) RotatedRect {
	hull := ConvexHull(points)
	if len(hull) == 0 {
		return RotatedRect{}
	}
	if len(hull) == 1 {
		return RotatedRect{Center: hull[0], Angle: -90}
	}
	if len(hull) == 2 {
		// Collinear: a zero-height rectangle along the segment.
		return segmentRect(hull[0], hull[1])
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)
	n := len(hull)

	for i := 0; i < n; i++ {
		a := hull[i]
		b := hull[(i+1)%n]
		edgeLen := a.Distance(b)
		if edgeLen == 0 {
			continue
		}

		// Unit vectors along and perpendicular to this hull edge.
		ux := (b.X - a.X) / edgeLen
		uy := (b.Y - a.Y) / edgeLen
		vx := -uy
		vy := ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.X*ux + p.Y*uy
			v := p.X*vx + p.Y*vy
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		w := maxU - minU
		h := maxV - minV
		area := w * h
		if area >= bestArea {
			continue
		}
		bestArea = area

		cu := (minU + maxU) / 2
		cv := (minV + maxV) / 2
		center := PointF{X: cu*ux + cv*vx, Y: cu*uy + cv*vy}

		// The rectangle's two axes sit 90 degrees apart; exactly one of
		// them points down-right (direction angle in [0, 90)). That axis
		// becomes the width axis and fixes the raw angle, so no mirror
		// information is lost.
		width, height := w, h
		wa := axisAngle(ux, uy)
		if wa < 0 {
			wa += 90
			width, height = h, w
		}
		best = RotatedRect{
			Center: center,
			Width:  width,
			Height: height,
			Angle:  wa - 90,
		}
	}

	return best
}

// segmentRect builds the degenerate rectangle covering a line segment.
func segmentRect(a, b PointF) RotatedRect {
	width, height := a.Distance(b), 0.0
	wa := axisAngle(b.X-a.X, b.Y-a.Y)
	if wa < 0 {
		wa += 90
		width, height = height, width
	}
	return RotatedRect{
		Center: PointF{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
		Width:  width,
		Height: height,
		Angle:  wa - 90,
	}
}

// axisAngle reduces a direction vector to its axis angle in [-90, 90):
// a line has 180-degree symmetry, so opposite directions coincide.
func axisAngle(dx, dy float64) float64 {
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < -90 {
		deg += 180
	}
	if deg >= 90 {
		deg -= 180
	}
	return deg
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b PointF) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b PointF) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
