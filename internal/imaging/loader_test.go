package imaging

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a small solid PNG file and returns its path
func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer f.Close()

	img := createTestImage(width, height, color.RGBA{200, 100, 50, 255})
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "test.png", 32, 24)
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("dimensions: got %dx%d, want 32x24", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Second load must come from the cache, even if the file disappears
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove test file: %v", err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached load failed after file removal: %v", err)
	}
}

func TestImageCache_Load_MissingFile(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/image.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageCache_Evict(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "test.png", 16, 16)
	cache := NewImageCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Evict(path)

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove test file: %v", err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("load after evict should re-read the missing file and fail")
	}
}

func TestImageCache_Clear(t *testing.T) {
	dir := t.TempDir()
	p1 := writeTestPNG(t, dir, "a.png", 16, 16)
	p2 := writeTestPNG(t, dir, "b.png", 16, 16)
	cache := NewImageCache()

	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	cache.Clear()

	os.Remove(p1)
	if _, err := cache.Load(p1); err == nil {
		t.Error("load after clear should re-read the missing file and fail")
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "info.png", 40, 30)
	cache := NewImageCache()

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 40 || info.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size: got %d, want > 0", info.FileSizeBytes)
	}
}

func TestGetDimensions(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "dims.png", 64, 48)
	cache := NewImageCache()

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 64 || dims.Height != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", dims.Width, dims.Height)
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"scan.png", true},
		{"anim.gif", true},
		{"modern.webp", true},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImagePath(tt.path); got != tt.want {
			t.Errorf("IsImagePath(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
}
