// ABOUTME: Tests for the preset service client
// ABOUTME: Runs against httptest servers, including a partial preset load
package presets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Resonate-Protocol/padsampler-go/internal/cache"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
)

func wavBytes(t *testing.T, frames int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	w, err := encode.NewWAVFile(path, audio.Format{SampleRate: 8000, Channels: 1, BitDepth: 16})
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = 0.25
	}
	if err := w.Write(samples); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close wav: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read wav: %v", err)
	}
	return data
}

func TestListPresets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/presets" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"808":{"name":"808","type":"drums","samples":[{"url":"./808/kick.wav"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, false)
	list, err := client.ListPresets(context.Background())
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	p, ok := list["808"]
	if !ok {
		t.Fatalf("expected preset 808, got %v", list)
	}
	if p.Key != "808" {
		t.Errorf("expected key to default to map key, got %q", p.Key)
	}
	if p.Type != "drums" || len(p.Samples) != 1 {
		t.Errorf("unexpected preset: %+v", p)
	}
}

func TestListPresetsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Basic","key":"basic","samples":[]},{"name":"Other","samples":[]}]`))
	}))
	defer server.Close()

	list, err := NewClient(server.URL, nil, false).ListPresets(context.Background())
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if _, ok := list["basic"]; !ok {
		t.Errorf("expected keyed entry basic, got %v", list)
	}
	if _, ok := list["1"]; !ok {
		t.Errorf("expected index key for unkeyed entry, got %v", list)
	}
}

func TestListPresetsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil, false).ListPresets(context.Background())
	if !errors.Is(err, sampler.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestDeletePreset(t *testing.T) {
	var deleted string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		deleted = r.URL.Path
		if r.URL.Path == "/api/presets/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, false)
	if err := client.DeletePreset(context.Background(), Preset{Name: "Hip Hop", Key: "hiphop"}); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	if deleted != "/api/presets/Hip Hop" {
		t.Errorf("expected delete by name, got path %q", deleted)
	}

	err := client.DeletePreset(context.Background(), Preset{Name: "missing"})
	if !errors.Is(err, sampler.ErrNetwork) {
		t.Errorf("expected ErrNetwork for 404, got %v", err)
	}
}

func TestGetPresetAndUpload(t *testing.T) {
	var uploaded []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(Preset{Name: "808", Key: "808", Samples: []SampleRef{{URL: "kick.wav"}}})
		case http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("bad multipart form: %v", err)
			}
			for _, fh := range r.MultipartForm.File["files"] {
				f, _ := fh.Open()
				io.Copy(io.Discard, f)
				f.Close()
				uploaded = append(uploaded, fh.Filename)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Preset{Name: r.FormValue("name"), Key: "new", Type: r.FormValue("type")})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, false)
	ctx := context.Background()

	p, err := client.GetPreset(ctx, "808")
	if err != nil {
		t.Fatalf("GetPreset failed: %v", err)
	}
	if p.Key != "808" || len(p.Samples) != 1 {
		t.Errorf("unexpected preset: %+v", p)
	}

	created, err := client.Upload(ctx, "New", "fx", []UploadFile{{Name: "/tmp/a.wav", Data: []byte("x")}, {Name: "b.wav", Data: []byte("y")}})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if created.Name != "New" || created.Type != "fx" {
		t.Errorf("unexpected upload reply: %+v", created)
	}
	if len(uploaded) != 2 || uploaded[0] != "a.wav" {
		t.Errorf("unexpected uploaded files: %v", uploaded)
	}

	if _, err := client.Upload(ctx, "", "", nil); !errors.Is(err, sampler.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for empty upload, got %v", err)
	}
}

// A preset with one missing sample still loads the others
func TestPartialPresetLoad(t *testing.T) {
	wav := wavBytes(t, 800)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/presets/kit/a.wav", "/presets/kit/c.wav":
			w.Write(wav)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, err := cache.New(t.TempDir(), nil, false)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	client := NewClient(server.URL, c, false)

	var mu sync.Mutex
	var loadErrors []*sampler.LoadError
	engine, err := sampler.New(sampler.Config{
		Output:      audio.Format{SampleRate: 8000, Channels: 2, BitDepth: 16},
		Fetcher:     client,
		Decoder:     decode.DefaultRegistry(),
		OnLoadError: func(e *sampler.LoadError) {
			mu.Lock()
			loadErrors = append(loadErrors, e)
			mu.Unlock()
		},
		RecordDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	p := Preset{Name: "kit", Key: "kit", Samples: []SampleRef{{URL: "a.wav"}, {URL: "b.wav"}, {URL: "c.wav"}}}
	buffers, err := engine.LoadPreset(context.Background(), SampleURLs(server.URL, p), 600)
	if err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}

	if len(buffers) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(buffers))
	}
	if buffers[0] == nil || buffers[2] == nil {
		t.Error("expected samples 0 and 2 to load")
	}
	if buffers[1] != nil {
		t.Error("expected sample 1 to be missing")
	}
	if len(loadErrors) != 1 || loadErrors[0].Index != 1 {
		t.Errorf("expected one load error for index 1, got %v", loadErrors)
	}
	if engine.PlaySound(1) != nil {
		t.Error("playing a missing sample must be a no-op")
	}

	// Second load comes from the cache
	before := hits.Load()
	if _, err := engine.LoadPreset(context.Background(), SampleURLs(server.URL, p), 600); err != nil {
		t.Fatalf("second LoadPreset failed: %v", err)
	}
	if got := hits.Load() - before; got != 1 {
		t.Errorf("expected only the missing sample to be refetched, got %d requests", got)
	}
}
