package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/stickerbot/boxpose/internal/geometry"
	"github.com/stickerbot/boxpose/internal/imaging"
)

// Config enumerates every tunable of the detection pipeline. There is no
// process-wide configuration: a Config travels with each Detect call.
type Config struct {
	// CannyLow is the low hysteresis threshold for edge detection (0-255).
	CannyLow int `json:"canny_low"`

	// CannyHigh is the high hysteresis threshold for edge detection (0-255).
	CannyHigh int `json:"canny_high"`

	// BlurRadius is the Gaussian smoothing radius in pixels applied before
	// edge detection.
	BlurRadius float64 `json:"blur_radius"`

	// MinContourArea is the smallest enclosed area (square pixels) a
	// contour must have to be considered. Rejects noise specks.
	MinContourArea float64 `json:"min_contour_area"`

	// ApproxTolerance controls polygon simplification: the allowed
	// deviation is this fraction of the contour's perimeter.
	ApproxTolerance float64 `json:"approx_tolerance"`

	// RequireQuadrilateral controls the fallback policy when no 4-vertex
	// contour is found. False (the default) falls back to the globally
	// largest contour, matching the behavior of the original system; true
	// fails the detection instead.
	RequireQuadrilateral bool `json:"require_quadrilateral"`

	// OffsetPercent shifts the placement point upward from the rectangle
	// center by this fraction of the rectangle height.
	OffsetPercent float64 `json:"offset_percent"`
}

// DefaultConfig returns the documented pipeline defaults: Canny 50/150,
// 2-pixel blur, 1000 px² minimum contour area, 2% polygon tolerance,
// largest-contour fallback enabled, and a 10% placement offset.
func DefaultConfig() Config {
	return Config{
		CannyLow:             50,
		CannyHigh:            150,
		BlurRadius:           2,
		MinContourArea:       1000,
		ApproxTolerance:      0.02,
		RequireQuadrilateral: false,
		OffsetPercent:        0.10,
	}
}

// Stage identifies a pipeline state. Transitions are strictly linear, with
// StageFailed reachable from any point.
type Stage int

const (
	StageLoaded Stage = iota
	StageEdgesExtracted
	StageContourSelected
	StageRectangleFitted
	StagePlacementComputed
	StageDone
	StageFailed
)

// String returns the stage name used in Result records and logs.
func (s Stage) String() string {
	switch s {
	case StageLoaded:
		return "loaded"
	case StageEdgesExtracted:
		return "edges_extracted"
	case StageContourSelected:
		return "contour_selected"
	case StageRectangleFitted:
		return "rectangle_fitted"
	case StagePlacementComputed:
		return "placement_computed"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// FailureReason is the machine-readable reason attached to a failed Result.
type FailureReason string

const (
	ReasonInvalidInput        FailureReason = "invalid_input"
	ReasonNoContourFound      FailureReason = "no_contour_found"
	ReasonDegenerateRectangle FailureReason = "degenerate_rectangle"
)

// RectReport is the fitted rectangle as exported in a Result.
type RectReport struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`

	// Angle is the raw fitter angle in [-90°, 0°); together with the
	// width/height assignment it reconstructs the fitted corners exactly.
	Angle float64 `json:"angle"`
}

// Result is the exported record of one pipeline run. It is created once per
// image, immutable after creation, and owned by the caller.
type Result struct {
	// Success reports whether a box pose was determined.
	Success bool `json:"success"`

	// Stage is the terminal pipeline stage: "done" or "failed".
	Stage string `json:"stage"`

	// FailureReason is set only when Success is false.
	FailureReason FailureReason `json:"failure_reason,omitempty"`

	// Angle is the normalized box orientation in [0°, 90°].
	Angle float64 `json:"angle"`

	// Position is the sticker placement coordinate.
	Position *geometry.PointF `json:"position,omitempty"`

	// Rect is the fitted minimum-area rectangle, kept for visualization.
	Rect *RectReport `json:"rectangle,omitempty"`

	// Contour is the selected contour, kept for debugging/visualization.
	Contour Contour `json:"contour,omitempty"`
}

// Detect runs the full pose estimation pipeline over one image.
//
// The image is borrowed read-only for the duration of the call; all
// intermediate structures are owned internally and released on return.
// Detect is a pure function of (img, cfg): identical inputs yield identical
// results, and independent calls may run concurrently.
//
// Detection misses (no contour, degenerate fit) come back as a Result with
// Success=false and a FailureReason, with a nil error. A non-nil error is
// returned only for invalid input: a nil image or one smaller than the
// minimum usable size. Batch callers should report per-image failures and
// continue rather than aborting.
func Detect(img image.Image, cfg Config) (*Result, error) {
	edges, err := imaging.ExtractEdges(img, imaging.EdgeConfig{
		ThresholdLow:  cfg.CannyLow,
		ThresholdHigh: cfg.CannyHigh,
		BlurRadius:    cfg.BlurRadius,
	})
	if err != nil {
		return failedResult(ReasonInvalidInput), fmt.Errorf("detect: %w: %v", ErrInvalidInput, err)
	}

	contours := FindContours(edges)
	contour, ok := SelectContour(contours, cfg)
	if !ok {
		return failedResult(ReasonNoContourFound), nil
	}

	rect, err := FitRectangle(contour)
	if err != nil {
		if errors.Is(err, ErrDegenerateRectangle) {
			return failedResult(ReasonDegenerateRectangle), nil
		}
		return failedResult(ReasonDegenerateRectangle), fmt.Errorf("detect: %w", err)
	}

	placement := Place(rect, cfg.OffsetPercent)

	return &Result{
		Success:  true,
		Stage:    StageDone.String(),
		Angle:    placement.Angle,
		Position: &placement.Position,
		Rect: &RectReport{
			CX:     rect.Center.X,
			CY:     rect.Center.Y,
			Width:  rect.Width,
			Height: rect.Height,
			Angle:  rect.Angle,
		},
		Contour: contour,
	}, nil
}

// failedResult builds the terminal record for a failed run. Failed results
// never carry partial geometry.
func failedResult(reason FailureReason) *Result {
	return &Result{
		Success:       false,
		Stage:         StageFailed.String(),
		FailureReason: reason,
	}
}
