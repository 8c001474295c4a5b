// ABOUTME: Records the master mix to an audio file
// ABOUTME: Copies tapped blocks off the audio goroutine into a file writer
package sampler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio/encode"
	"github.com/google/uuid"
)

const recorderQueue = 256

// RecordingArtifact describes a finished recording
type RecordingArtifact struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Format   string        `json:"format"`
	MimeType string        `json:"mimeType"`
	Frames   int           `json:"frames"`
	Duration time.Duration `json:"duration"`
	Dropped  int           `json:"dropped,omitempty"`
}

// Recorder writes everything the mixer produces between Start and Stop
type Recorder struct {
	dir       string
	container string

	mu     sync.Mutex
	active *recording
	mixer  *Mixer
}

type recording struct {
	id      string
	path    string
	writer  encode.FileWriter
	blocks  chan []float32
	done    chan error
	dropped int
}

// NewRecorder creates a recorder writing files of the given container into dir
func NewRecorder(mixer *Mixer, dir, container string) *Recorder {
	if container != encode.ContainerOggOpus {
		container = encode.ContainerWAV
	}
	return &Recorder{
		dir:       dir,
		container: container,
		mixer:     mixer,
	}
}

// Recording reports whether a recording is in progress
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Start begins a new recording. It is a no-op when already recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create recording dir: %w", err)
	}

	id := uuid.New().String()
	path := filepath.Join(r.dir, id+encode.Extension(r.container))
	format := r.mixer.Format()

	var (
		w   encode.FileWriter
		err error
	)
	switch r.container {
	case encode.ContainerOggOpus:
		w, err = encode.NewOggOpusFile(path, format)
	default:
		w, err = encode.NewWAVFile(path, format)
	}
	if err != nil {
		return err
	}

	rec := &recording{
		id:     id,
		path:   path,
		writer: w,
		blocks: make(chan []float32, recorderQueue),
		done:   make(chan error, 1),
	}
	go rec.run()

	r.active = rec
	r.mixer.SetTap(rec.push)
	log.Printf("Recording started: %s", path)
	return nil
}

// Stop finalises the current recording and returns its artifact.
// ok is false when nothing was being recorded.
func (r *Recorder) Stop() (artifact RecordingArtifact, ok bool, err error) {
	rec := r.detach()
	if rec == nil {
		return RecordingArtifact{}, false, nil
	}
	artifact, err = r.finish(rec)
	return artifact, true, err
}

// detach stops feeding the current recording and returns it, or nil
func (r *Recorder) detach() *recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.active
	if rec == nil {
		return nil
	}
	r.active = nil
	// Once SetTap returns no further push can happen.
	r.mixer.SetTap(nil)
	close(rec.blocks)
	return rec
}

// finish waits for the writer to drain and builds the artifact
func (r *Recorder) finish(rec *recording) (RecordingArtifact, error) {
	err := <-rec.done

	format := r.mixer.Format()
	frames := rec.writer.Frames()
	artifact := RecordingArtifact{
		ID:       rec.id,
		Path:     rec.path,
		Format:   r.container,
		MimeType: encode.MimeType(r.container),
		Frames:   frames,
		Duration: time.Duration(float64(frames) / float64(format.SampleRate) * float64(time.Second)),
		Dropped:  rec.dropped,
	}
	if rec.dropped > 0 {
		log.Printf("Recording %s dropped %d blocks", rec.id, rec.dropped)
	}
	log.Printf("Recording stopped: %s (%v)", rec.path, artifact.Duration)
	return artifact, err
}

// push runs on the audio goroutine with the mixer locked
func (rec *recording) push(block []float32) {
	cp := make([]float32, len(block))
	copy(cp, block)
	select {
	case rec.blocks <- cp:
	default:
		rec.dropped++
	}
}

func (rec *recording) run() {
	var writeErr error
	for block := range rec.blocks {
		if writeErr != nil {
			continue
		}
		if err := rec.writer.Write(block); err != nil {
			writeErr = fmt.Errorf("failed to write recording: %w", err)
			log.Printf("Recording error: %v", writeErr)
		}
	}
	if err := rec.writer.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	rec.done <- writeErr
}
