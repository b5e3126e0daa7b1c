// Package detection implements the box pose estimation pipeline: contour
// extraction from a binary edge map, rectangular-contour selection,
// minimum-area rectangle fitting with angle normalization, and placement
// point derivation.
//
// The entry point is Detect, which runs the full pipeline over one image
// and packages a Result. Every invocation is independent and stateless;
// callers may process multiple images concurrently with no locking.
//
// # Failure Model
//
// "No box detected" is an expected, first-class outcome. Detect reports it
// as a Result with Success=false and a machine-readable FailureReason, not
// as an error. The only error Detect returns is for invalid input (nil or
// too-small image), which indicates a caller contract violation rather than
// a detection miss.
//
// # Angle Convention
//
// The minimum-area rectangle fitter reports the raw convention: an angle
// in [-90°, 0°) locating the rectangle's width side along Angle+90, with
// the width/height assignment carrying the mirror orientation so the
// fitted corners are exactly recoverable. NormalizeAngle maps the raw
// angle and side comparison into [0°, 90°]: the acute rotation of the
// rectangle's longer side from the horizontal axis. 0° and 90° describe
// the same rectangular silhouette and are not further disambiguated.
package detection
