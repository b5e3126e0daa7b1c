package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stickerbot/boxpose/internal/geometry"
)

// createBlankImage creates a solid white test image
func createBlankImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// createBoxImage creates a white image with a filled dark rotated rectangle.
// rw is the long side, rh the short side, angleDeg the long side's rotation
// from the horizontal axis.
func createBoxImage(size int, cx, cy, rw, rh, angleDeg float64) *image.RGBA {
	img := createBlankImage(size, size)

	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			if math.Abs(u) <= rw/2 && math.Abs(v) <= rh/2 {
				img.Set(x, y, color.RGBA{20, 20, 20, 255})
			}
		}
	}
	return img
}

func TestDetect_AxisAlignedBox(t *testing.T) {
	img := createBoxImage(200, 100, 100, 120, 60, 0)

	res, err := Detect(img, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("detection missed: %s", res.FailureReason)
	}

	if res.Stage != "done" {
		t.Errorf("stage: got %s, want done", res.Stage)
	}
	if math.Abs(res.Angle) > 2 {
		t.Errorf("angle: got %.2f, want ~0", res.Angle)
	}
	if res.Rect == nil {
		t.Fatal("rect missing from successful result")
	}
	if math.Abs(res.Rect.CX-100) > 3 || math.Abs(res.Rect.CY-100) > 3 {
		t.Errorf("center: got (%.1f, %.1f), want ~(100, 100)", res.Rect.CX, res.Rect.CY)
	}
	if math.Abs(res.Rect.Width-120) > 10 {
		t.Errorf("width: got %.1f, want ~120", res.Rect.Width)
	}
	if math.Abs(res.Rect.Height-60) > 10 {
		t.Errorf("height: got %.1f, want ~60", res.Rect.Height)
	}

	// Placement: center shifted up by 10% of the height
	if res.Position == nil {
		t.Fatal("position missing from successful result")
	}
	wantY := res.Rect.CY - 0.10*res.Rect.Height
	if math.Abs(res.Position.X-res.Rect.CX) > 0.01 {
		t.Errorf("position x: got %.1f, want %.1f", res.Position.X, res.Rect.CX)
	}
	if math.Abs(res.Position.Y-wantY) > 0.01 {
		t.Errorf("position y: got %.1f, want %.1f", res.Position.Y, wantY)
	}
}

func TestDetect_RotatedBoxes(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"30 degrees", 30},
		{"45 degrees", 45},
		{"60 degrees", 60},
		{"90 degrees", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createBoxImage(200, 100, 100, 110, 55, tt.angle)

			res, err := Detect(img, DefaultConfig())
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if !res.Success {
				t.Fatalf("detection missed: %s", res.FailureReason)
			}

			if math.Abs(res.Angle-tt.angle) > 2 {
				t.Errorf("angle: got %.2f, want %.1f +/- 2", res.Angle, tt.angle)
			}
			if math.Abs(res.Rect.CX-100) > 3 || math.Abs(res.Rect.CY-100) > 3 {
				t.Errorf("center: got (%.1f, %.1f), want ~(100, 100)", res.Rect.CX, res.Rect.CY)
			}
		})
	}
}

func TestDetect_UpRightSlopedBox(t *testing.T) {
	// Long side sloping up-right: the reported rectangle must reconstruct
	// the drawn box, not its mirror
	img := createBoxImage(200, 100, 100, 110, 55, -30)

	res, err := Detect(img, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("detection missed: %s", res.FailureReason)
	}

	// Normalized angle is the long side's acute rotation, same as +30
	if math.Abs(res.Angle-30) > 2 {
		t.Errorf("angle: got %.2f, want 30 +/- 2", res.Angle)
	}
	// The up-right slope is encoded as width < height
	if res.Rect.Width >= res.Rect.Height {
		t.Errorf("mirror orientation lost: width %.1f should be below height %.1f",
			res.Rect.Width, res.Rect.Height)
	}

	// Reconstructed corners must land near the drawn box's corners
	rect := geometry.RotatedRect{
		Center: geometry.PointF{X: res.Rect.CX, Y: res.Rect.CY},
		Width:  res.Rect.Width,
		Height: res.Rect.Height,
		Angle:  res.Rect.Angle,
	}
	corners := rect.Corners()

	rad := -30 * math.Pi / 180
	d := geometry.PointF{X: math.Cos(rad), Y: math.Sin(rad)}
	p := geometry.PointF{X: -math.Sin(rad), Y: math.Cos(rad)}
	center := geometry.PointF{X: 100, Y: 100}
	truth := [4]geometry.PointF{
		center.Add(d.Scale(55)).Add(p.Scale(27.5)),
		center.Add(d.Scale(55)).Sub(p.Scale(27.5)),
		center.Sub(d.Scale(55)).Add(p.Scale(27.5)),
		center.Sub(d.Scale(55)).Sub(p.Scale(27.5)),
	}

	for _, want := range truth {
		best := math.Inf(1)
		for _, got := range corners {
			if dist := got.Distance(want); dist < best {
				best = dist
			}
		}
		if best > 5 {
			t.Errorf("no fitted corner near (%.1f, %.1f): nearest is %.1f px away",
				want.X, want.Y, best)
		}
	}
}

func TestDetect_BlankImage(t *testing.T) {
	img := createBlankImage(100, 100)

	res, err := Detect(img, DefaultConfig())
	if err != nil {
		t.Fatalf("a blank image is a miss, not an error: %v", err)
	}

	if res.Success {
		t.Error("blank image should not produce a detection")
	}
	if res.FailureReason != ReasonNoContourFound {
		t.Errorf("failure reason: got %s, want %s", res.FailureReason, ReasonNoContourFound)
	}
	if res.Stage != "failed" {
		t.Errorf("stage: got %s, want failed", res.Stage)
	}
	if res.Position != nil || res.Rect != nil {
		t.Error("failed result should not carry partial geometry")
	}
}

func TestDetect_InvalidInput(t *testing.T) {
	img := createBlankImage(4, 4)

	res, err := Detect(img, DefaultConfig())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("undersized image: got %v, want ErrInvalidInput", err)
	}
	if res == nil || res.Success {
		t.Error("invalid input should report a failed result")
	}
	if res.FailureReason != ReasonInvalidInput {
		t.Errorf("failure reason: got %s, want %s", res.FailureReason, ReasonInvalidInput)
	}
}

func TestDetect_NilImage(t *testing.T) {
	_, err := Detect(nil, DefaultConfig())
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil image: got %v, want ErrInvalidInput", err)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	img := createBoxImage(200, 100, 100, 110, 55, 30)

	first, err := Detect(img, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	second, err := Detect(img, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if first.Angle != second.Angle {
		t.Errorf("angle differs across runs: %.4f vs %.4f", first.Angle, second.Angle)
	}
	if *first.Position != *second.Position {
		t.Errorf("position differs across runs: %v vs %v", *first.Position, *second.Position)
	}
}

func TestDetect_OffsetPercent(t *testing.T) {
	img := createBoxImage(200, 100, 100, 120, 60, 0)

	cfg := DefaultConfig()
	cfg.OffsetPercent = 0

	res, err := Detect(img, cfg)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("detection missed: %s", res.FailureReason)
	}

	if res.Position.Y != res.Rect.CY {
		t.Errorf("zero offset should place at the rect center: got y %.2f, want %.2f",
			res.Position.Y, res.Rect.CY)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CannyLow != 50 || cfg.CannyHigh != 150 {
		t.Errorf("canny thresholds: got %d/%d, want 50/150", cfg.CannyLow, cfg.CannyHigh)
	}
	if cfg.BlurRadius != 2 {
		t.Errorf("blur radius: got %.1f, want 2", cfg.BlurRadius)
	}
	if cfg.MinContourArea != 1000 {
		t.Errorf("min contour area: got %.0f, want 1000", cfg.MinContourArea)
	}
	if cfg.ApproxTolerance != 0.02 {
		t.Errorf("approx tolerance: got %.3f, want 0.02", cfg.ApproxTolerance)
	}
	if cfg.RequireQuadrilateral {
		t.Error("quadrilateral requirement should default to off")
	}
	if cfg.OffsetPercent != 0.10 {
		t.Errorf("offset percent: got %.2f, want 0.10", cfg.OffsetPercent)
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageLoaded, "loaded"},
		{StageEdgesExtracted, "edges_extracted"},
		{StageContourSelected, "contour_selected"},
		{StageRectangleFitted, "rectangle_fitted"},
		{StagePlacementComputed, "placement_computed"},
		{StageDone, "done"},
		{StageFailed, "failed"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String(): got %s, want %s", tt.stage, got, tt.want)
		}
	}
}
