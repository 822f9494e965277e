package imagecache

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestPNG(t, 40, 30)
	cache := New()

	entry, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if entry.Width != 40 || entry.Height != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", entry.Width, entry.Height)
	}
	if entry.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", entry.MIME)
	}
	if len(entry.Data) == 0 {
		t.Error("expected raw file bytes in entry")
	}
}

func TestLoadUsesCache(t *testing.T) {
	path := writeTestPNG(t, 10, 10)
	cache := New()

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Remove the backing file; a cached entry must still be served.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after remove: %v", err)
	}
	if first != second {
		t.Error("expected the same cached entry on second load")
	}
}

func TestEvict(t *testing.T) {
	path := writeTestPNG(t, 10, 10)
	cache := New()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cache.Evict(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("expected load failure after eviction removed the only copy")
	}
}

func TestClear(t *testing.T) {
	path := writeTestPNG(t, 10, 10)
	cache := New()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cache.Clear()
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("expected load failure after clear removed the only copy")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cache := New()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cache := New()
	if _, err := cache.Load(path); err == nil {
		t.Error("expected decode error for garbage file")
	}
}

func TestMIMEForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"shot.png", "image/png"},
		{"photo.JPG", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"anim.gif", "image/gif"},
		{"scan.tiff", "image/tiff"},
		{"scan.tif", "image/tiff"},
		{"old.bmp", "image/bmp"},
		{"noext", "image/png"},
	}
	for _, tt := range tests {
		if got := MIMEForPath(tt.path); got != tt.want {
			t.Errorf("MIMEForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
