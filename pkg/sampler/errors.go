// ABOUTME: Error kinds reported by the sampler engine
// ABOUTME: Sentinels for errors.Is plus LoadError for per-sample failures
package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks unrecoverable setup problems such as a bad canvas width
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork marks preset service failures; in-memory state is left untouched
	ErrNetwork = errors.New("network error")

	// ErrSuperseded is returned by a preset load that a newer load replaced
	ErrSuperseded = errors.New("preset load superseded")
)

// LoadError reports a sample that could not be fetched or decoded.
// The rest of the preset still loads; the slot's buffer stays nil.
type LoadError struct {
	Index int
	URL   string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load sample %d (%s): %v", e.Index, e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
