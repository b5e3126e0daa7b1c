package detection

import (
	"github.com/stickerbot/boxpose/internal/geometry"
	"github.com/stickerbot/boxpose/internal/imaging"
)

// minComponentSize is the smallest connected component (in pixels) kept as
// a contour candidate. Smaller groups are sensor noise.
const minComponentSize = 10

// Contour is an ordered sequence of boundary points forming a closed
// polyline. The last point implicitly connects back to the first.
type Contour []geometry.Point

// ToF converts the contour to floating-point points.
func (c Contour) ToF() []geometry.PointF {
	out := make([]geometry.PointF, len(c))
	for i, p := range c {
		out[i] = p.ToF()
	}
	return out
}

// Area returns the enclosed area of the contour via the shoelace formula.
func (c Contour) Area() float64 {
	return geometry.PolygonArea(c.ToF())
}

// Perimeter returns the closed-polyline length of the contour.
func (c Contour) Perimeter() float64 {
	return geometry.Perimeter(c.ToF())
}

// FindContours extracts ordered closed contours from a binary edge map.
//
// Edge pixels are first grouped into 8-connected components with an
// iterative flood fill. Each component's outer boundary is then traced
// (Moore neighborhood tracing) to produce an ordered closed contour.
// Components smaller than minComponentSize pixels are discarded as noise.
//
// An edge map with no edge pixels yields an empty slice, never nil panics:
// a blank image is a normal input.
func FindContours(edges *imaging.EdgeMap) []Contour {
	width, height := edges.Width, edges.Height

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var contours []Contour

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges.Bits[y][x] || visited[y][x] {
				continue
			}

			component, mask := collectComponent(edges, visited, x, y)
			if len(component) < minComponentSize {
				continue
			}

			contour := traceBoundary(mask, width, height, component[0])
			if len(contour) >= 3 {
				contours = append(contours, contour)
			}
		}
	}

	return contours
}

// collectComponent gathers the 8-connected component containing (startX,
// startY) using an iterative stack-based flood fill. Returns the component
// pixels in raster order of discovery (the first pixel is the topmost,
// leftmost) and a membership mask for boundary tracing.
func collectComponent(edges *imaging.EdgeMap, visited [][]bool, startX, startY int) ([]geometry.Point, [][]bool) {
	width, height := edges.Width, edges.Height
	mask := make([][]bool, height)
	for y := range mask {
		mask[y] = make([]bool, width)
	}

	var component []geometry.Point
	stack := []geometry.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !edges.Bits[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		mask[p.Y][p.X] = true
		component = append(component, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, geometry.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	// The flood fill discovers the seed first, but the seed comes from a
	// raster scan, so it is already the topmost-leftmost pixel required by
	// the boundary tracer.
	return component, mask
}

// mooreNeighbors enumerates the 8-neighborhood starting west of the pixel.
var mooreNeighbors = [8]geometry.Point{
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
}

// traceBoundary walks the outer boundary of a connected component using
// Moore neighborhood tracing, starting from the component's topmost-leftmost
// pixel. The walk terminates when it re-enters the start pixel the same way
// it first left it (Jacob's stopping criterion), or after a safety cap for
// pathological masks.
func traceBoundary(mask [][]bool, width, height int, start geometry.Point) Contour {
	inMask := func(p geometry.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height && mask[p.Y][p.X]
	}

	// The start pixel is topmost-leftmost, so its west neighbor is outside
	// the component and the backtrack direction begins there.
	contour := Contour{start}
	current := start
	backtrack := 0

	var firstMove geometry.Point
	haveFirstMove := false

	// Each mask pixel can appear on the boundary at most a few times.
	maxSteps := 4 * (width*height + 8)

	for step := 0; step < maxSteps; step++ {
		found := false
		var next geometry.Point
		var nextDir int

		for i := 1; i <= 8; i++ {
			dir := (backtrack + i) % 8
			cand := geometry.Point{
				X: current.X + mooreNeighbors[dir].X,
				Y: current.Y + mooreNeighbors[dir].Y,
			}
			if inMask(cand) {
				found = true
				next = cand
				nextDir = dir
				break
			}
		}

		if !found {
			// Isolated pixel: the single-point contour is dropped by the
			// caller's length check.
			break
		}

		if current == start {
			if haveFirstMove && next == firstMove {
				break
			}
			if !haveFirstMove {
				firstMove = next
				haveFirstMove = true
			}
		}

		contour = append(contour, next)
		current = next
		// New backtrack points from the next pixel toward the neighbor we
		// just came past: one position before the found direction, relative
		// to the next pixel.
		backtrack = (nextDir + 4) % 8
	}

	// Drop the duplicated closing point if the walk ended back at the start.
	if len(contour) > 1 && contour[len(contour)-1] == contour[0] {
		contour = contour[:len(contour)-1]
	}

	return contour
}

// ApproxPolygon simplifies a closed contour with the Ramer-Douglas-Peucker
// algorithm. epsilon is the maximum allowed perpendicular deviation in
// pixels; typical usage derives it from the contour perimeter (1-2%).
//
// The closed contour is split at its two mutually distant anchor points,
// each open half is simplified independently, and the halves are rejoined.
func ApproxPolygon(c Contour, epsilon float64) []geometry.PointF {
	pts := c.ToF()
	if len(pts) < 3 {
		return pts
	}

	// Anchor 1 is the first point; anchor 2 the point farthest from it.
	far := 0
	farDist := -1.0
	for i, p := range pts {
		d := pts[0].Distance(p)
		if d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		// All points coincide.
		return pts[:1]
	}

	firstHalf := rdp(pts[:far+1], epsilon)
	secondHalf := rdp(append(pts[far:], pts[0]), epsilon)

	// Join, dropping the duplicated anchors at each seam.
	out := make([]geometry.PointF, 0, len(firstHalf)+len(secondHalf)-2)
	out = append(out, firstHalf...)
	if len(secondHalf) > 2 {
		out = append(out, secondHalf[1:len(secondHalf)-1]...)
	}
	return out
}

// rdp simplifies an open polyline, keeping both endpoints.
func rdp(pts []geometry.PointF, epsilon float64) []geometry.PointF {
	if len(pts) < 3 {
		return pts
	}

	a := pts[0]
	b := pts[len(pts)-1]

	maxDist := -1.0
	maxIdx := 0
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []geometry.PointF{a, b}
	}

	left := rdp(pts[:maxIdx+1], epsilon)
	right := rdp(pts[maxIdx:], epsilon)

	out := make([]geometry.PointF, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	out = append(out, right...)
	return out
}

// perpendicularDistance returns the distance from p to the line through a
// and b, falling back to point distance when a == b.
func perpendicularDistance(p, a, b geometry.PointF) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	segLen := a.Distance(b)
	if segLen == 0 {
		return p.Distance(a)
	}
	num := dx*(a.Y-p.Y) - dy*(a.X-p.X)
	if num < 0 {
		num = -num
	}
	return num / segLen
}
