package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// MinImageSide is the smallest width or height accepted by ExtractEdges.
// Anything smaller cannot hold a meaningful contour.
const MinImageSide = 8

// EdgeConfig controls Canny edge extraction.
type EdgeConfig struct {
	// ThresholdLow is the low hysteresis threshold (0-255). Gradient
	// magnitudes below this are discarded. Typical value: 50.
	ThresholdLow int `json:"threshold_low"`

	// ThresholdHigh is the high hysteresis threshold (0-255). Magnitudes
	// above this are always kept as edges. Typical value: 150.
	ThresholdHigh int `json:"threshold_high"`

	// BlurRadius is the Gaussian smoothing radius in pixels applied before
	// gradient computation. Typical value: 2 (roughly a 5x5 kernel).
	BlurRadius float64 `json:"blur_radius"`
}

// DefaultEdgeConfig returns the edge extraction defaults: thresholds 50/150
// and a 2-pixel blur radius.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		ThresholdLow:  50,
		ThresholdHigh: 150,
		BlurRadius:    2,
	}
}

// EdgeMap is a binary edge image with the same spatial dimensions as the
// source it was derived from. Bits[y][x] is true where an edge was detected.
type EdgeMap struct {
	Width  int
	Height int
	Bits   [][]bool
}

// At reports whether the pixel at (x, y) is an edge. Out-of-range
// coordinates are not edges.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Bits[y][x]
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y][x] {
				n++
			}
		}
	}
	return n
}

// ToImage renders the edge map as a grayscale image with edges in white.
// Intended for debug output.
func (m *EdgeMap) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y][x] {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// ExtractEdges performs Canny edge detection on an image.
//
// The input may be color or grayscale; multi-channel images are reduced to
// luminance first. A blank or uniform image produces an edge map with no
// edges rather than an error, so downstream contour analysis must tolerate
// an empty result.
//
// Returns an error only when the image is nil or smaller than MinImageSide
// on either axis. The output always has exactly the input's dimensions.
//
// # Algorithm
//
//  1. Grayscale conversion (bild effect.Grayscale)
//  2. Gaussian blur to suppress sensor noise (bild blur.Gaussian)
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression to thin edges to 1-pixel width
//  5. Hysteresis thresholding: strong edges (≥ high) always kept, weak
//     edges (≥ low) kept only when adjacent to a strong edge
func ExtractEdges(img image.Image, cfg EdgeConfig) (*EdgeMap, error) {
	if img == nil {
		return nil, fmt.Errorf("extract edges: nil image")
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < MinImageSide || height < MinImageSide {
		return nil, fmt.Errorf("extract edges: image %dx%d below minimum %dx%d",
			width, height, MinImageSide, MinImageSide)
	}

	prepared := effect.Grayscale(img)
	if cfg.BlurRadius > 0 {
		prepared = blur.Gaussian(prepared, cfg.BlurRadius)
	}

	// Grayscale plane normalized to [0, 1]. bild output is RGBA with equal
	// channels, so reading red is enough.
	gray := make([][]float64, height)
	pb := prepared.Bounds()
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := prepared.At(x+pb.Min.X, y+pb.Min.Y).RGBA()
			gray[y][x] = float64(r>>8) / 255.0
		}
	}

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
					gy += gray[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient
	// direction, quantized to 45-degree sectors.
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	out := &EdgeMap{
		Width:  width,
		Height: height,
		Bits:   make([][]bool, height),
	}
	for y := range out.Bits {
		out.Bits[y] = make([]bool, width)
	}

	lowThresh := float64(cfg.ThresholdLow) / 255.0
	highThresh := float64(cfg.ThresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				out.Bits[y][x] = true
			} else if val >= lowThresh {
				// Weak edge: keep only when connected to a strong edge.
				for ky := -1; ky <= 1 && !out.Bits[y][x]; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= highThresh {
							out.Bits[y][x] = true
							break
						}
					}
				}
			}
		}
	}

	return out, nil
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
