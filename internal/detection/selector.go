package detection

import "sort"

// SelectContour picks the contour most likely to be the target box.
//
// Candidates below cfg.MinContourArea are dropped first. The survivors are
// examined largest-first: each is simplified with a tolerance proportional
// to its perimeter (cfg.ApproxTolerance), and the first whose simplified
// polygon has exactly 4 vertices wins.
//
// When no quadrilateral survives, the policy is configurable. With
// cfg.RequireQuadrilateral false (the default), the globally largest contour
// above the area threshold is returned instead; this trades robustness
// against shadows and occlusion for weaker rectangle guarantees. With it
// true, selection fails.
//
// The second return value is false when nothing qualifies. That is a normal
// "no object detected" outcome, not an error.
func SelectContour(contours []Contour, cfg Config) (Contour, bool) {
	candidates := make([]Contour, 0, len(contours))
	for _, c := range contours {
		if c.Area() >= cfg.MinContourArea {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Area() > candidates[j].Area()
	})

	for _, c := range candidates {
		epsilon := cfg.ApproxTolerance * c.Perimeter()
		if len(ApproxPolygon(c, epsilon)) == 4 {
			return c, true
		}
	}

	if cfg.RequireQuadrilateral {
		return nil, false
	}
	return candidates[0], true
}
