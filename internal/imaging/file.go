package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report describes one compressed file.
type Report struct {
	Result

	// SourcePath is the file that was compressed.
	SourcePath string `json:"source_path"`

	// OriginalBytes is the size of the source file.
	OriginalBytes int64 `json:"original_bytes"`

	// CompressedBytes is the size of the JPEG.
	CompressedBytes int64 `json:"compressed_bytes"`

	// SavedPercent is the truncated share of OriginalBytes saved, negative
	// when the JPEG came out larger than its source.
	SavedPercent int `json:"saved_percent"`
}

// CompressFile loads path through the cache and compresses it.
func CompressFile(cache *ImageCache, path string, opts Options) (*Report, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	res, err := CompressWithOptions(img, opts)
	if err != nil {
		return nil, err
	}
	return NewReport(path, stat.Size(), res), nil
}

// NewReport builds the Report of res, compressed from a source of
// originalBytes bytes.
func NewReport(path string, originalBytes int64, res *Result) *Report {
	r := &Report{
		Result:          *res,
		SourcePath:      path,
		OriginalBytes:   originalBytes,
		CompressedBytes: int64(len(res.Data)),
	}
	if originalBytes > 0 {
		r.SavedPercent = int(100 * (originalBytes - r.CompressedBytes) / originalBytes)
	}
	return r
}

// WriteFile writes the compressed bytes to dst, creating parent directories.
func (r *Report) WriteFile(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dst, r.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write compressed image: %w", err)
	}
	return nil
}

// OutputPath names the compressed copy of src: <dir>/<base><suffix>.jpg.
// An empty dir keeps the copy next to src.
func OutputPath(src, dir, suffix string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, base+suffix+".jpg")
}
