// ABOUTME: Preset descriptors shared by the preset client and server
// ABOUTME: Also resolves sample URLs and display names
package presets

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// SampleRef points at one sample file of a preset
type SampleRef struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Preset describes a named set of samples
type Preset struct {
	Name    string      `json:"name"`
	Key     string      `json:"key"`
	Type    string      `json:"type,omitempty"`
	Samples []SampleRef `json:"samples"`
}

// DisplayName returns the preset's name, or its key when unnamed
func (p Preset) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}

// DisplayName returns the sample's name, or its file name when unnamed
func (s SampleRef) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return fileName(s.URL)
}

// PadLabel is the file name without a .wav or .mp3 extension
func (s SampleRef) PadLabel() string {
	name := fileName(s.URL)
	lower := strings.ToLower(name)
	for _, ext := range []string{".wav", ".mp3"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// SampleURLs resolves every sample of p against the server base URL.
// Only the last path element of each sample URL is kept, so samples are
// always fetched from /presets/{key}/{file}.
func SampleURLs(base string, p Preset) []string {
	base = strings.TrimRight(base, "/")
	urls := make([]string, len(p.Samples))
	for i, s := range p.Samples {
		urls[i] = base + "/presets/" + url.PathEscape(p.Key) + "/" + url.PathEscape(fileName(s.URL))
	}
	return urls
}

// Keys returns the preset keys sorted by type, then name
func Keys(list map[string]Preset) []string {
	keys := make([]string, 0, len(list))
	for k := range list {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := list[keys[i]], list[keys[j]]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return keys[i] < keys[j]
	})
	return keys
}

func fileName(u string) string {
	u = strings.Split(u, "?")[0]
	if unescaped, err := url.PathUnescape(u); err == nil {
		u = unescaped
	}
	return path.Base(u)
}
