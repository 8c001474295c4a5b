// ABOUTME: On-disk cache for downloaded sample files
// ABOUTME: Fetches sample bytes over HTTP and keeps a copy keyed by URL hash
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Cache manages sample downloads
type Cache struct {
	cacheDir string
	client   *http.Client
	debug    bool
}

// New creates a cache in dir. An empty dir uses a folder under the system temp dir.
func New(dir string, client *http.Client, debug bool) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "padsampler-cache")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Cache{
		cacheDir: dir,
		client:   client,
		debug:    debug,
	}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.cacheDir
}

// PathFor returns the cache file used for url
func (c *Cache) PathFor(url string) string {
	hash := sha256.Sum256([]byte(url))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x%s", hash[:8], getExtension(url)))
}

// Fetch returns the bytes at url, from the cache when present
func (c *Cache) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty url")
	}

	cachePath := c.PathFor(url)
	if data, err := os.ReadFile(cachePath); err == nil {
		if c.debug {
			log.Printf("[DEBUG] Sample cache hit: %s", cachePath)
		}
		return data, nil
	}

	if c.debug {
		log.Printf("[DEBUG] Downloading sample: %s", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download sample: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sample download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample: %w", err)
	}

	// Write to a temp file first so a concurrent reader never sees a partial file
	tmp, err := os.CreateTemp(c.cacheDir, "partial-*")
	if err != nil {
		log.Printf("Failed to create cache file: %v", err)
		return data, nil
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Printf("Failed to save sample to cache: %v", err)
		return data, nil
	}
	tmp.Close()
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		log.Printf("Failed to save sample to cache: %v", err)
	}
	return data, nil
}

// Invalidate drops the cached copies of urls
func (c *Cache) Invalidate(urls ...string) {
	for _, u := range urls {
		if err := os.Remove(c.PathFor(u)); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to drop cached sample %s: %v", u, err)
		}
	}
}

// getExtension extracts the file extension from a URL
func getExtension(url string) string {
	url = strings.Split(url, "?")[0]
	return path.Ext(url)
}

// Cleanup removes the cache directory
func (c *Cache) Cleanup() error {
	return os.RemoveAll(c.cacheDir)
}
