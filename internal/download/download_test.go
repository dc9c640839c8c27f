package download

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var payload = bytes.Repeat([]byte("image-bytes "), 200)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestExt(t *testing.T) {
	if got := Ext("http://example.com/file/1.XLSX"); got != "xlsx" {
		t.Errorf("Ext: got %q, want xlsx", got)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	dst, err := Save(dir, "out.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if dst != filepath.Join(dir, "out.txt") {
		t.Errorf("path: got %q", dst)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content: got %q", data)
	}

	// Directory components in the name are dropped.
	dst, err = Save(dir, "../../escape.txt", []byte{})
	if err != nil {
		t.Fatalf("Save with path name failed: %v", err)
	}
	if filepath.Dir(dst) != dir {
		t.Errorf("file escaped the target dir: %q", dst)
	}
}

func TestSave_Missing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(dir, "", []byte("x")); !errors.Is(err, ErrMissingName) {
		t.Errorf("empty name: got %v, want ErrMissingName", err)
	}
	if _, err := Save(dir, "a.txt", nil); !errors.Is(err, ErrMissingContent) {
		t.Errorf("nil content: got %v, want ErrMissingContent", err)
	}
}

func TestFetch_Encodings(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		body     func(t *testing.T) []byte
	}{
		{"identity", "", func(*testing.T) []byte { return payload }},
		{"gzip", "gzip", func(t *testing.T) []byte { return gzipped(t, payload) }},
		{"zstd", "zstd", func(t *testing.T) []byte { return zstded(t, payload) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body(t)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				w.Header().Set("Content-Type", "image/png")
				w.Write(body)
			}))
			defer srv.Close()

			blob, err := Fetch(context.Background(), srv.Client(), srv.URL+"/files/photo.png", nil)
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if !bytes.Equal(blob.Data, payload) {
				t.Errorf("decoded body differs: got %d bytes, want %d", len(blob.Data), len(payload))
			}
			if blob.ContentType != "image/png" {
				t.Errorf("content type: got %q", blob.ContentType)
			}
			if blob.Name != "photo.png" {
				t.Errorf("name: got %q, want photo.png", blob.Name)
			}
		})
	}
}

func TestFetch_Params(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/x?v=1", map[string]any{"size": 2, "skip": ""})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotQuery != "v=1&size=2" {
		t.Errorf("query: got %q, want v=1&size=2", gotQuery)
	}
}

func TestFetch_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/brotli":
			w.Header().Set("Content-Encoding", "br")
			w.Write([]byte("x"))
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		link string
		want string
	}{
		{"status", srv.URL + "/missing", "404"},
		{"encoding", srv.URL + "/brotli", "unsupported content encoding"},
		{"scheme", "ftp://example.com/a", "unsupported scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), srv.Client(), tt.link, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestFetch_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, srv.Client(), srv.URL, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestByLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/report":
			w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
		case "/":
			w.Header().Set("Content-Type", "image/jpeg")
		}
		w.Write(payload)
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		path     string
		fileName string
		want     string
	}{
		{"explicit name", "/a/b.bin", "mine.bin", "mine.bin"},
		{"disposition", "/report", "", "report.xlsx"},
		{"url path", "/a/b.bin", "", "b.bin"},
		{"content type", "/", "", "download.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dst, err := ByLink(context.Background(), srv.Client(), srv.URL+tt.path, dir, tt.fileName)
			if err != nil {
				t.Fatalf("ByLink failed: %v", err)
			}
			if filepath.Base(dst) != tt.want {
				t.Errorf("file name: got %q, want %q", filepath.Base(dst), tt.want)
			}
			data, err := os.ReadFile(dst)
			if err != nil {
				t.Fatalf("read back: %v", err)
			}
			if !bytes.Equal(data, payload) {
				t.Error("saved content differs from payload")
			}
		})
	}
}
