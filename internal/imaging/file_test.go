package imaging

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestCompressFile(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 300, 200, color.RGBA{10, 200, 30, 255})
	defer os.Remove(imgPath)

	report, err := CompressFile(cache, imgPath, Options{MaxPixels: 10_000})
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}

	if report.SourcePath != imgPath {
		t.Errorf("SourcePath: got %s, want %s", report.SourcePath, imgPath)
	}
	if report.OriginalBytes <= 0 {
		t.Error("OriginalBytes should be positive")
	}
	if report.CompressedBytes != int64(len(report.Data)) {
		t.Errorf("CompressedBytes: got %d, want %d", report.CompressedBytes, len(report.Data))
	}
	if report.Plan.Width != 122 || report.Plan.Height != 81 {
		t.Errorf("plan: got %dx%d, want 122x81", report.Plan.Width, report.Plan.Height)
	}

	out, err := jpeg.Decode(bytes.NewReader(report.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if out.Bounds().Dx() != 122 {
		t.Errorf("decoded width: got %d, want 122", out.Bounds().Dx())
	}
}

func TestCompressFile_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := CompressFile(cache, "/nonexistent/image.png", Options{}); err == nil {
		t.Error("CompressFile should fail for non-existent file")
	}
}

func TestNewReport_SavedPercent(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		data     int
		want     int
	}{
		{"half", 1000, 500, 50},
		{"truncated", 1000, 333, 66},
		{"grew", 100, 150, -50},
		{"unknown original", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport("x.png", tt.original, &Result{Data: make([]byte, tt.data)})
			if r.SavedPercent != tt.want {
				t.Errorf("SavedPercent: got %d, want %d", r.SavedPercent, tt.want)
			}
		})
	}
}

func TestReport_WriteFile(t *testing.T) {
	dir := t.TempDir()
	r := NewReport("x.png", 10, &Result{Data: []byte("jpeg bytes")})

	dst := filepath.Join(dir, "nested", "x.jpg")
	if err := r.WriteFile(dst); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(got) != "jpeg bytes" {
		t.Errorf("content: got %q", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		src, dir, suffix string
		want             string
	}{
		{"/photos/cat.png", "", "-compressed", "/photos/cat-compressed.jpg"},
		{"/photos/cat.png", "/out", "", "/out/cat.jpg"},
		{"/photos/cat.tar.gif", "/out", ".min", "/out/cat.tar.min.jpg"},
		{"relative/noext", "", "-c", "relative/noext-c.jpg"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.src, tt.dir, tt.suffix); got != tt.want {
			t.Errorf("OutputPath(%q, %q, %q): got %q, want %q", tt.src, tt.dir, tt.suffix, got, tt.want)
		}
	}
}
