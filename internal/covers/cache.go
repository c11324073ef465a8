// Package covers keeps a local on-disk copy of OpenLibrary cover images.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "booknotes/1.0"

// ErrNoCover is returned when the remote has no image for the identifier.
var ErrNoCover = errors.New("cover not available")

// Cache stores cover images as cover_<bookID>_<urlhash>.jpg files.
type Cache struct {
	dir    string
	client *http.Client
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}

	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// CachedPath returns the path of an already cached cover without fetching.
func (c *Cache) CachedPath(bookID uint, coverURL string) (string, bool) {
	if coverURL == "" {
		return "", false
	}
	path := filepath.Join(c.dir, filename(bookID, coverURL))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// GetCover returns the cached cover path for a book, downloading it first
// when it is not on disk yet.
func (c *Cache) GetCover(ctx context.Context, bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", ErrNoCover
	}
	if path, ok := c.CachedPath(bookID, coverURL); ok {
		return path, nil
	}

	path := filepath.Join(c.dir, filename(bookID, coverURL))
	if err := c.download(ctx, coverURL, path); err != nil {
		return "", err
	}
	log.Printf("[COVERS] Cached cover for book %d", bookID)
	return path, nil
}

// InvalidateCover removes every cached file for a book.
func (c *Cache) InvalidateCover(bookID uint) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("cover_%d_*", bookID)))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func filename(bookID uint, coverURL string) string {
	sum := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, sum[:8])
}

// fetchURL asks OpenLibrary for a 404 instead of its blank placeholder.
func fetchURL(coverURL string) string {
	if !strings.Contains(coverURL, "covers.openlibrary.org") || strings.Contains(coverURL, "default=") {
		return coverURL
	}
	if strings.Contains(coverURL, "?") {
		return coverURL + "&default=false"
	}
	return coverURL + "?default=false"
}

func (c *Cache) download(ctx context.Context, coverURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL(coverURL), nil)
	if err != nil {
		return fmt.Errorf("build cover request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoCover
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("fetch cover: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write cover: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, dest)
}
