// Package annotate renders detection results onto images for visual
// inspection: crosshair axes through the box center, the fitted rectangle
// outline, a placement marker or sticker overlay, and text labels.
//
// Rendering is a peripheral concern: it consumes an immutable Result and
// the original image, and never feeds anything back into the pipeline.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/stickerbot/boxpose/internal/detection"
	"github.com/stickerbot/boxpose/internal/geometry"
)

// Annotation colors. Hue choices keep the overlay readable on both light
// and dark photos.
var (
	axisColor    = mustHex("#21c064") // crosshair axes
	outlineColor = mustHex("#e53935") // rectangle outline and marker
	contourColor = mustHex("#1e88e5") // raw contour points
	labelColor   = mustHex("#e53935")
)

func mustHex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("bad annotation color %q: %v", s, err))
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Options controls what Render draws.
type Options struct {
	// Sticker, when non-nil, is composited at the placement point, rotated
	// to the detected orientation. When nil a circular marker is drawn.
	Sticker image.Image

	// StickerScale resizes the sticker before compositing. Zero means 0.3.
	StickerScale float64

	// DrawContour also plots the selected contour's points.
	DrawContour bool

	// HideLabels suppresses the orientation/position text.
	HideLabels bool
}

// Render draws the detection result over a copy of the source image.
// The source is never modified. A failed result produces a copy annotated
// only with the failure reason label.
func Render(src image.Image, res *detection.Result, opts Options) *image.NRGBA {
	out := imaging.Clone(src)

	if res == nil || !res.Success {
		reason := "no result"
		if res != nil {
			reason = string(res.FailureReason)
		}
		drawLabel(out, 10, 30, "detection failed: "+reason)
		return out
	}

	if res.Rect != nil {
		center := geometry.PointF{X: res.Rect.CX, Y: res.Rect.CY}
		drawAxes(out, center)
		drawRectOutline(out, *res.Rect)
	}

	if opts.DrawContour {
		for _, p := range res.Contour {
			setThick(out, p.X, p.Y, contourColor)
		}
	}

	if res.Position != nil {
		if opts.Sticker != nil {
			out = overlaySticker(out, opts.Sticker, *res.Position, res.Angle, opts.StickerScale)
		} else {
			drawMarker(out, *res.Position)
		}
	}

	if !opts.HideLabels {
		drawLabel(out, 10, 30, fmt.Sprintf("orientation: %.1f deg", res.Angle))
		if res.Position != nil {
			drawLabel(out, 10, 50, fmt.Sprintf("position: (%.0f, %.0f)", res.Position.X, res.Position.Y))
		}
	}

	return out
}

// Save writes an image to disk, choosing the encoder from the file
// extension: .png, .jpg/.jpeg, .gif via disintegration/imaging, .webp via
// chai2010/webp. quality applies to lossy formats (1-100).
func Save(img image.Image, path string, quality int) error {
	if strings.ToLower(filepath.Ext(path)) == ".webp" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// drawAxes draws a full-width and full-height crosshair through the center.
func drawAxes(img *image.NRGBA, center geometry.PointF) {
	b := img.Bounds()
	cy := int(math.Round(center.Y))
	cx := int(math.Round(center.X))
	for x := b.Min.X; x < b.Max.X; x++ {
		setThick(img, x, cy, axisColor)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		setThick(img, cx, y, axisColor)
	}
}

// drawRectOutline draws the rotated rectangle's four edges.
func drawRectOutline(img *image.NRGBA, r detection.RectReport) {
	rect := geometry.RotatedRect{
		Center: geometry.PointF{X: r.CX, Y: r.CY},
		Width:  r.Width,
		Height: r.Height,
		Angle:  r.Angle,
	}
	corners := rect.Corners()
	for i := range corners {
		drawLine(img, corners[i], corners[(i+1)%4], outlineColor)
	}
}

// drawMarker draws a filled circle with a ring around it, the fallback
// placement marker when no sticker image is supplied.
func drawMarker(img *image.NRGBA, pos geometry.PointF) {
	cx, cy := pos.X, pos.Y
	for dy := -12; dy <= 12; dy++ {
		for dx := -12; dx <= 12; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			if d <= 8 || (d >= 11 && d <= 12) {
				img.SetNRGBA(int(cx)+dx, int(cy)+dy, outlineColor)
			}
		}
	}
}

// overlaySticker composites the sticker at the placement point, rotated to
// the detected orientation and scaled.
func overlaySticker(base *image.NRGBA, sticker image.Image, pos geometry.PointF, angle, scale float64) *image.NRGBA {
	if scale <= 0 {
		scale = 0.3
	}
	sb := sticker.Bounds()
	w := int(float64(sb.Dx()) * scale)
	if w < 1 {
		w = 1
	}

	scaled := imaging.Resize(sticker, w, 0, imaging.Lanczos)
	rotated := imaging.Rotate(scaled, angle, color.NRGBA{})

	rb := rotated.Bounds()
	offset := image.Pt(int(pos.X)-rb.Dx()/2, int(pos.Y)-rb.Dy()/2)
	return imaging.Overlay(base, rotated, offset, 1.0)
}

// drawLine draws a straight line between two points by dense sampling.
func drawLine(img *image.NRGBA, a, b geometry.PointF, c color.NRGBA) {
	dist := a.Distance(b)
	steps := int(dist) * 2
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + (b.X-a.X)*t))
		y := int(math.Round(a.Y + (b.Y-a.Y)*t))
		setThick(img, x, y, c)
	}
}

// setThick sets a 2x2 block for a visible stroke at typical photo sizes.
func setThick(img *image.NRGBA, x, y int, c color.NRGBA) {
	img.SetNRGBA(x, y, c)
	img.SetNRGBA(x+1, y, c)
	img.SetNRGBA(x, y+1, c)
	img.SetNRGBA(x+1, y+1, c)
}

// drawLabel renders text at the given baseline position.
func drawLabel(img *image.NRGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
