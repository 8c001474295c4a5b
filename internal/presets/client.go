// ABOUTME: HTTP client for the preset service
// ABOUTME: Lists, reads, uploads and deletes presets and fetches sample bytes
package presets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
)

// SampleCache fetches sample bytes, usually from disk
type SampleCache interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Invalidate(urls ...string)
}

// Client talks to a preset server
type Client struct {
	baseURL string
	http    *http.Client
	cache   SampleCache
	debug   bool
}

// UploadFile is one file of a preset upload
type UploadFile struct {
	Name string
	Data []byte
}

// NewClient creates a client for the server at baseURL.
// cache may be nil, in which case samples are fetched directly.
func NewClient(baseURL string, cache SampleCache, debug bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		debug:   debug,
	}
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPresets returns all presets keyed by preset key
func (c *Client) ListPresets(ctx context.Context) (map[string]Preset, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/presets", nil, "")
	if err != nil {
		return nil, err
	}
	list, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: bad preset list: %v", sampler.ErrNetwork, err)
	}
	if c.debug {
		log.Printf("[DEBUG] Preset server returned %d presets", len(list))
	}
	return list, nil
}

// GetPreset returns one preset by name
func (c *Client) GetPreset(ctx context.Context, name string) (Preset, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/presets/"+url.PathEscape(name), nil, "")
	if err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := json.Unmarshal(body, &p); err != nil {
		return Preset{}, fmt.Errorf("%w: bad preset: %v", sampler.ErrNetwork, err)
	}
	return p, nil
}

// DeletePreset removes a preset by name and drops its cached samples
func (c *Client) DeletePreset(ctx context.Context, p Preset) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/presets/"+url.PathEscape(p.Name), nil, ""); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Invalidate(SampleURLs(c.baseURL, p)...)
	}
	return nil
}

// Upload creates a preset from files
func (c *Client) Upload(ctx context.Context, name, kind string, files []UploadFile) (Preset, error) {
	if name == "" || len(files) == 0 {
		return Preset{}, fmt.Errorf("%w: upload needs a name and at least one file", sampler.ErrConfiguration)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("name", name)
	if kind != "" {
		w.WriteField("type", kind)
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", filepath.Base(f.Name))
		if err != nil {
			return Preset{}, fmt.Errorf("failed to build upload: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return Preset{}, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Preset{}, fmt.Errorf("failed to build upload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/presets", &buf, w.FormDataContentType())
	if err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := json.Unmarshal(body, &p); err != nil {
		return Preset{}, fmt.Errorf("%w: bad upload reply: %v", sampler.ErrNetwork, err)
	}
	return p, nil
}

// Fetch returns the bytes of a sample URL, through the cache when set
func (c *Client) Fetch(ctx context.Context, u string) ([]byte, error) {
	if c.cache != nil {
		return c.cache.Fetch(ctx, u)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sample download failed: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, p string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sampler.ErrNetwork, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", sampler.ErrNetwork, method, p, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", sampler.ErrNetwork, p, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: HTTP %d", sampler.ErrNetwork, method, p, resp.StatusCode)
	}
	return data, nil
}

// decodeList accepts the keyed object form and a plain array
func decodeList(body []byte) (map[string]Preset, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var arr []Preset
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, err
		}
		list := make(map[string]Preset, len(arr))
		for i, p := range arr {
			if p.Key == "" {
				p.Key = strconv.Itoa(i)
			}
			list[p.Key] = p
		}
		return list, nil
	}

	var list map[string]Preset
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	for k, p := range list {
		if p.Key == "" {
			p.Key = k
			list[k] = p
		}
	}
	return list, nil
}
