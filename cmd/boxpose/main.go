// Command boxpose estimates the 2D pose of a rectangular box in each input
// image and writes annotated copies showing the detected rectangle and the
// computed sticker placement point.
//
// Inputs are image files or directories (expanded non-recursively). Failed
// detections are reported per image and never abort the batch.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/stickerbot/boxpose/internal/annotate"
	"github.com/stickerbot/boxpose/internal/detection"
	"github.com/stickerbot/boxpose/internal/imaging"
)

func main() {
	var (
		outDir      string
		stickerPath string
		quality     int
		verbose     bool
		drawContour bool
	)

	cfg := detection.DefaultConfig()

	flag.StringVar(&outDir, "out", "", "output directory for annotated images (empty = no image output)")
	flag.StringVar(&stickerPath, "sticker", "", "sticker image composited at the placement point")
	flag.IntVar(&quality, "quality", 92, "output quality for lossy formats (1-100)")
	flag.BoolVar(&verbose, "verbose", false, "print per-stage debug information")
	flag.BoolVar(&drawContour, "contour", false, "also draw the selected contour on the overlay")

	flag.IntVar(&cfg.CannyLow, "canny-low", cfg.CannyLow, "low edge-detection threshold (0-255)")
	flag.IntVar(&cfg.CannyHigh, "canny-high", cfg.CannyHigh, "high edge-detection threshold (0-255)")
	flag.Float64Var(&cfg.BlurRadius, "blur", cfg.BlurRadius, "Gaussian blur radius in pixels")
	flag.Float64Var(&cfg.MinContourArea, "min-area", cfg.MinContourArea, "minimum contour area in square pixels")
	flag.Float64Var(&cfg.ApproxTolerance, "approx", cfg.ApproxTolerance, "polygon simplification tolerance (fraction of perimeter)")
	flag.BoolVar(&cfg.RequireQuadrilateral, "require-quad", cfg.RequireQuadrilateral, "fail instead of falling back to the largest contour")
	flag.Float64Var(&cfg.OffsetPercent, "offset", cfg.OffsetPercent, "placement offset upward from center (fraction of box height)")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] image_or_dir...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime)

	cache := imaging.NewImageCache()

	var sticker image.Image
	if stickerPath != "" {
		var err error
		sticker, err = cache.Load(stickerPath)
		if err != nil {
			log.Fatalf("Failed to load sticker: %v", err)
		}
	}

	inputs, err := expandInputs(flag.Args())
	if err != nil {
		log.Fatalf("Failed to list inputs: %v", err)
	}
	if len(inputs) == 0 {
		log.Fatal("No images found")
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	total := len(inputs)
	detected := 0

	for i, path := range inputs {
		prefix := fmt.Sprintf("[%d/%d] %s", i+1, total, filepath.Base(path))

		img, err := cache.Load(path)
		if err != nil {
			log.Printf("%s: load failed: %v", prefix, err)
			continue
		}

		res, err := detection.Detect(img, cfg)
		if err != nil {
			log.Printf("%s: %v", prefix, err)
			continue
		}

		if res.Success {
			detected++
			log.Printf("%s: angle %.1f deg, position (%.0f, %.0f)",
				prefix, res.Angle, res.Position.X, res.Position.Y)
			if verbose && res.Rect != nil {
				log.Printf("%s: rect center (%.1f, %.1f) size %.0fx%.0f raw angle %.1f, contour %d pts",
					prefix, res.Rect.CX, res.Rect.CY, res.Rect.Width, res.Rect.Height,
					res.Rect.Angle, len(res.Contour))
			}
		} else {
			log.Printf("%s: no box detected (%s)", prefix, res.FailureReason)
		}

		if outDir != "" {
			annotated := annotate.Render(img, res, annotate.Options{
				Sticker:     sticker,
				DrawContour: drawContour,
			})
			outPath := filepath.Join(outDir, "annotated_"+filepath.Base(path))
			if err := annotate.Save(annotated, outPath, quality); err != nil {
				log.Printf("%s: save failed: %v", prefix, err)
			} else if verbose {
				log.Printf("%s: wrote %s", prefix, outPath)
			}
		}

		// Batch runs never revisit an image; keep memory flat.
		cache.Evict(path)
	}

	log.Printf("Processed %d image(s), %d with a detected box", total, detected)
}

// expandInputs flattens files and directories into an image file list.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(arg, e.Name())
			if imaging.IsImagePath(p) {
				out = append(out, p)
			}
		}
	}
	return out, nil
}
