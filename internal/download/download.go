// Package download fetches a remote blob and writes blobs to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/image-compress-mcp/internal/query"
	"github.com/ironsheep/image-compress-mcp/internal/textutil"
)

// MaxBlobSize caps the decoded size of a fetched blob.
const MaxBlobSize = 256 << 20

var (
	// ErrMissingName is returned by Save when no file name is given.
	ErrMissingName = errors.New("file name is required")
	// ErrMissingContent is returned by Save when content is nil.
	ErrMissingContent = errors.New("file content is required")
	// ErrTooLarge is returned when a blob exceeds MaxBlobSize.
	ErrTooLarge = errors.New("blob exceeds maximum size")
)

// Blob is a fetched response body.
type Blob struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
	// Name is the file name suggested by Content-Disposition or, failing
	// that, the last element of the URL path. It may be empty.
	Name string `json:"name,omitempty"`
}

// Ext returns the lower-cased extension of a file name or link without the
// dot. A name without a dot is returned whole.
func Ext(name string) string {
	return textutil.Ext(name)
}

// Save writes content to dir/name and returns the path written. Only the
// base of name is used, so a name cannot escape dir.
func Save(dir, name string, content []byte) (string, error) {
	if name == "" {
		return "", ErrMissingName
	}
	if content == nil {
		return "", ErrMissingContent
	}

	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return "", fmt.Errorf("invalid file name %q: %w", name, ErrMissingName)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst := filepath.Join(dir, base)
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return dst, nil
}

// Fetch GETs link and returns the decoded body. params, when non-empty, is
// appended to the link as a query string. gzip and zstd content encodings
// are decoded. Any non-2xx status is an error.
func Fetch(ctx context.Context, client *http.Client, link string, params map[string]any) (*Blob, error) {
	if client == nil {
		client = http.DefaultClient
	}

	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if q := query.Params(params, false, query.Brackets); q != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "gzip, zstd")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > MaxBlobSize {
		return nil, ErrTooLarge
	}

	return &Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Name:        suggestedName(resp.Header.Get("Content-Disposition"), u),
	}, nil
}

// ByLink fetches link and saves it under dir as blob.FileName(name).
func ByLink(ctx context.Context, client *http.Client, link, dir, name string) (string, error) {
	blob, err := Fetch(ctx, client, link, nil)
	if err != nil {
		return "", err
	}

	dst, err := Save(dir, blob.FileName(name), blob.Data)
	if err != nil {
		return "", err
	}
	log.Printf("Downloaded %s (%d bytes) to %s", link, len(blob.Data), dst)
	return dst, nil
}

// FileName returns name, or when it is empty the suggested name, or
// "download.<ext>" derived from the content type.
func (b *Blob) FileName(name string) string {
	if name != "" {
		return name
	}
	if b.Name != "" {
		return b.Name
	}
	return "download" + extForType(b.ContentType)
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

func suggestedName(disposition string, u *url.URL) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if fn := filepath.Base(params["filename"]); fn != "." && fn != string(filepath.Separator) && params["filename"] != "" {
				return fn
			}
		}
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func extForType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mt {
	case "image/jpeg":
		return ".jpg"
	case "application/octet-stream":
		return ""
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
