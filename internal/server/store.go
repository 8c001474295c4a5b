// ABOUTME: Filesystem preset store for the preset server
// ABOUTME: One folder per preset holding audio files and an optional preset.json
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/padsampler-go/internal/presets"
	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/decode"
)

// metaFile holds the optional display name and type of a preset folder
const metaFile = "preset.json"

var (
	// ErrNotFound is returned for unknown presets or files
	ErrNotFound = errors.New("not found")

	// ErrExists is returned when creating a preset whose key is taken
	ErrExists = errors.New("preset already exists")

	// ErrInvalid is returned for bad names and non-audio uploads
	ErrInvalid = errors.New("invalid preset")
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// UploadedFile is one audio file of a new preset
type UploadedFile struct {
	Name string
	Data []byte
}

type presetMeta struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Store serves presets from a root directory
type Store struct {
	root string
	mu   sync.RWMutex
}

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preset directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store directory
func (s *Store) Root() string {
	return s.root
}

// KeyFor turns a preset name into a folder key
func KeyFor(name string) string {
	key := nonKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(key, "-")
}

// List returns every preset keyed by folder name
func (s *Store) List() (map[string]presets.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	list := make(map[string]presets.Preset)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		p, err := s.load(entry.Name())
		if err != nil {
			log.Printf("Skipping preset %s: %v", entry.Name(), err)
			continue
		}
		list[p.Key] = p
	}
	return list, nil
}

// Get finds a preset by display name or key
func (s *Store) Get(name string) (presets.Preset, error) {
	list, err := s.List()
	if err != nil {
		return presets.Preset{}, err
	}
	if p, ok := list[name]; ok {
		return p, nil
	}
	for _, p := range list {
		if p.Name == name {
			return p, nil
		}
	}
	return presets.Preset{}, fmt.Errorf("%w: preset %q", ErrNotFound, name)
}

// Delete removes a preset by display name or key
func (s *Store) Delete(name string) error {
	p, err := s.Get(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(s.root, p.Key)); err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", p.Key, err)
	}
	log.Printf("Deleted preset %s (%s)", p.Name, p.Key)
	return nil
}

// Create writes a new preset folder from uploaded files
func (s *Store) Create(name, kind string, files []UploadedFile) (presets.Preset, error) {
	key := KeyFor(name)
	if key == "" {
		return presets.Preset{}, fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if len(files) == 0 {
		return presets.Preset{}, fmt.Errorf("%w: no files", ErrInvalid)
	}
	for _, f := range files {
		if decode.Detect(f.Data, f.Name) == "" {
			return presets.Preset{}, fmt.Errorf("%w: %s is not an audio file", ErrInvalid, f.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, key)
	if _, err := os.Stat(dir); err == nil {
		return presets.Preset{}, fmt.Errorf("%w: %s", ErrExists, key)
	}

	tmp, err := os.MkdirTemp(s.root, ".upload-*")
	if err != nil {
		return presets.Preset{}, fmt.Errorf("failed to create preset: %w", err)
	}
	defer os.RemoveAll(tmp)

	for _, f := range files {
		dst := filepath.Join(tmp, filepath.Base(f.Name))
		if err := os.WriteFile(dst, f.Data, 0644); err != nil {
			return presets.Preset{}, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	meta, _ := json.MarshalIndent(presetMeta{Name: name, Type: kind}, "", "  ")
	if err := os.WriteFile(filepath.Join(tmp, metaFile), meta, 0644); err != nil {
		return presets.Preset{}, fmt.Errorf("failed to write preset metadata: %w", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return presets.Preset{}, fmt.Errorf("failed to create preset: %w", err)
	}

	log.Printf("Created preset %s (%s) with %d samples", name, key, len(files))
	return s.load(key)
}

// FilePath returns the path of a sample inside a preset folder
func (s *Store) FilePath(key, file string) (string, error) {
	if key != filepath.Base(key) || file != filepath.Base(file) || file == metaFile ||
		strings.HasPrefix(key, ".") || strings.HasPrefix(file, ".") {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, key, file)
	}
	p := filepath.Join(s.root, key, file)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, key, file)
	}
	return p, nil
}

// load reads one preset folder; callers hold mu
func (s *Store) load(key string) (presets.Preset, error) {
	dir := filepath.Join(s.root, key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return presets.Preset{}, err
	}

	p := presets.Preset{Name: key, Key: key}
	if data, err := os.ReadFile(filepath.Join(dir, metaFile)); err == nil {
		var meta presetMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return presets.Preset{}, fmt.Errorf("bad %s: %w", metaFile, err)
		}
		if meta.Name != "" {
			p.Name = meta.Name
		}
		p.Type = meta.Type
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == metaFile || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if decode.Detect(nil, e.Name()) == "" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	p.Samples = make([]presets.SampleRef, len(files))
	for i, f := range files {
		p.Samples[i] = presets.SampleRef{URL: "./" + key + "/" + f, Name: f}
	}
	return p, nil
}
