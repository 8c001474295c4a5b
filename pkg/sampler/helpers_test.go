// ABOUTME: Shared fakes for sampler tests
// ABOUTME: In-memory fetcher and decoder plus a mixer drain helper
package sampler

import (
	"context"
	"fmt"
	"path"
	"sync"
	"testing"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

// memFetcher serves bytes by url and fails for unknown urls
type memFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	// gate, when set for a url, blocks the fetch until closed or ctx ends
	gate    map[string]chan struct{}
	started chan string
}

func (f *memFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	data, ok := f.files[url]
	gate := f.gate[url]
	f.mu.Unlock()

	if gate != nil {
		if f.started != nil {
			f.started <- url
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("%s: 404 not found", url)
	}
	return data, nil
}

// constDecoder returns a fixed sample per file name
type constDecoder map[string]*audio.Sample

func (d constDecoder) Decode(data []byte, name string) (*audio.Sample, error) {
	s, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("cannot decode %s", name)
	}
	return s, nil
}

// ramp returns a mono sample whose values rise linearly
func ramp(sampleRate, frames int) *audio.Sample {
	s := audio.NewSample(sampleRate, 1, frames)
	for i := range s.Data[0] {
		s.Data[0][i] = float32(i) / float32(frames)
	}
	return s
}

func newTestEngine(t *testing.T, files map[string]*audio.Sample) (*Engine, *memFetcher) {
	t.Helper()
	fetcher := &memFetcher{files: map[string][]byte{}, gate: map[string]chan struct{}{}}
	dec := constDecoder{}
	for url, s := range files {
		fetcher.files[url] = []byte("x")
		dec[path.Base(url)] = s
	}
	eng, err := New(Config{
		Output:    audio.Format{SampleRate: 1000, Channels: 2},
		Fetcher:   fetcher,
		Decoder:   dec,
		RecordDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return eng, fetcher
}

// drain pulls frames of audio from the mixer
func drain(m *Mixer, frames int) []byte {
	buf := make([]byte, frames*m.Format().Channels*2)
	m.Read(buf)
	return buf
}
