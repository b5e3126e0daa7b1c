package detection

import "errors"

var (
	// ErrInvalidInput indicates the input image was nil or below the
	// minimum usable size.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrNoContour indicates no contour above the minimum area threshold
	// was found. Usually surfaced as a failed Result rather than an error.
	ErrNoContour = errors.New("no contour found")

	// ErrDegenerateRectangle indicates the fitted rectangle had near-zero
	// area (collinear or duplicate contour points).
	ErrDegenerateRectangle = errors.New("degenerate rectangle")
)
