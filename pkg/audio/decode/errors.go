// ABOUTME: Sentinel errors for audio decoding
// ABOUTME: Callers use errors.Is to tell bad input from I/O failures
package decode

import "errors"

var (
	ErrEmptyInput    = errors.New("empty audio data")
	ErrUnknownFormat = errors.New("unknown audio format")
	ErrInvalidFile   = errors.New("invalid audio file")
	ErrNoAudio       = errors.New("file contains no audio frames")
)
