package detection

import "github.com/stickerbot/boxpose/internal/geometry"

// PlacementPoint is where and at what rotation a sticker should be applied.
type PlacementPoint struct {
	// Position is the target coordinate in image space.
	Position geometry.PointF `json:"position"`

	// Angle is the normalized box orientation in [0°, 90°].
	Angle float64 `json:"angle"`
}

// Place derives the placement point from a fitted rectangle: the center
// shifted upward (decreasing y in image coordinates) by offsetPercent of
// the rectangle's height, modeling placement on the visible top face of a
// box rather than dead-center. The point inherits the rectangle's
// normalized orientation.
//
// offsetPercent is a fraction of the rectangle height, nominally in [0, 1]
// with 0.10 as the default. Values outside that range are accepted without
// clamping: the result is well-defined but may fall outside the image, and
// callers drawing it must clamp. This permissiveness is deliberate and is
// the caller's precondition to uphold.
func Place(rect geometry.RotatedRect, offsetPercent float64) PlacementPoint {
	return PlacementPoint{
		Position: geometry.PointF{
			X: rect.Center.X,
			Y: rect.Center.Y - offsetPercent*rect.Height,
		},
		Angle: NormalizeAngle(rect.Angle, rect.Width, rect.Height),
	}
}

// placeBackoffSteps is how many shrinking offsets PlaceInside tries before
// falling back to the rectangle center.
const placeBackoffSteps = 30

// PlaceInside derives a placement point guaranteed to lie on the box.
//
// It walks from the rectangle center toward the topmost corner (minimum y),
// starting at offsetPercent of that distance and backing off toward 5%
// until the candidate lies inside the rectangle polygon. The center itself
// is the final fallback, since it is always inside a convex shape.
func PlaceInside(rect geometry.RotatedRect, offsetPercent float64) PlacementPoint {
	angle := NormalizeAngle(rect.Angle, rect.Width, rect.Height)
	corners := rect.Corners()
	polygon := corners[:]

	top := corners[0]
	for _, c := range corners[1:] {
		if c.Y < top.Y {
			top = c
		}
	}

	direction := top.Sub(rect.Center)
	if rect.Center.Distance(top) < 1 {
		return PlacementPoint{Position: rect.Center, Angle: angle}
	}

	lo := 0.05
	for i := 0; i < placeBackoffSteps; i++ {
		ratio := offsetPercent
		if placeBackoffSteps > 1 {
			ratio = offsetPercent + (lo-offsetPercent)*float64(i)/float64(placeBackoffSteps-1)
		}
		candidate := rect.Center.Add(direction.Scale(ratio))
		if geometry.PointInPolygon(candidate, polygon) {
			return PlacementPoint{Position: candidate, Angle: angle}
		}
	}

	return PlacementPoint{Position: rect.Center, Angle: angle}
}
