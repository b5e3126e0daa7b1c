// Package imaging provides image loading and edge extraction for the box
// pose pipeline.
//
// This package owns the two peripheral-most stages: decoding images from
// disk (with caching for batch runs) and converting a raw image into a
// binary EdgeMap via Canny edge detection. All operations work with standard
// Go image.Image types and use a coordinate system where (0,0) is the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. ExtractEdges is a pure
// function of its inputs and can be called concurrently on different images.
//
// # Error Handling
//
// Load failures (missing file, unsupported format) are returned as wrapped
// errors before the detection pipeline is ever invoked. ExtractEdges errors
// only on inputs below the minimum size; a blank image yields an empty edge
// map, which downstream stages treat as "no object detected".
package imaging
