package detection

import (
	"fmt"

	"github.com/stickerbot/boxpose/internal/geometry"
)

// minRectArea is the smallest fitted-rectangle area (in square pixels)
// considered non-degenerate. Below this, the angle is undefined.
const minRectArea = 1.0

// FitRectangle computes the minimum-area enclosing rectangle of a contour
// via convex hull and rotating calipers.
//
// The returned rectangle uses the raw convention: a raw angle in [-90°, 0°)
// with the width side along Angle+90, where Width is not necessarily the
// longer side. Contours whose fit has near-zero area (collinear or
// near-collinear points) return ErrDegenerateRectangle.
func FitRectangle(c Contour) (geometry.RotatedRect, error) {
	if len(c) < 3 {
		return geometry.RotatedRect{}, fmt.Errorf("fit rectangle: %d points: %w",
			len(c), ErrDegenerateRectangle)
	}

	rect := geometry.MinAreaRect(c.ToF())
	if rect.Area() < minRectArea {
		return geometry.RotatedRect{}, fmt.Errorf("fit rectangle: area %.4f: %w",
			rect.Area(), ErrDegenerateRectangle)
	}

	return rect, nil
}

// NormalizeAngle maps a raw minimum-area-rectangle angle into [0°, 90°]:
// the acute rotation of the rectangle's longer side from the horizontal
// axis. The raw angle alone only locates the width axis; the width/height
// comparison decides whether that axis or its perpendicular is the longer
// side.
//
// raw is expected in [-90°, 0°]. 0° and 90° are equivalent orientations
// for a rectangular silhouette.
func NormalizeAngle(raw, width, height float64) float64 {
	a := raw + 90
	if width < height {
		a += 90
	}
	if a < 0 {
		a += 180
	}
	if a > 90 {
		a = 180 - a
	}
	// Clamp against floating-point drift at the range edges.
	if a < 0 {
		a = 0
	}
	if a > 90 {
		a = 90
	}
	return a
}
