// ABOUTME: Silent output that drains the mix in real time
// ABOUTME: Keeps voices and recordings advancing on machines without audio devices
package output

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
)

const nullTick = 10 * time.Millisecond

// Null pulls from the mix at the real-time rate and discards the audio
type Null struct {
	tick     time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNull creates a silent output
func NewNull() *Null {
	return &Null{tick: nullTick}
}

// Open starts the drain loop
func (n *Null) Open(format audio.Format, src io.Reader) error {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return fmt.Errorf("invalid output format: %dHz %dch", format.SampleRate, format.Channels)
	}
	if n.stopChan != nil {
		return fmt.Errorf("audio output already open")
	}
	n.stopChan = make(chan struct{})

	frames := int(float64(format.SampleRate) * n.tick.Seconds())
	buf := make([]byte, frames*format.Channels*2)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ticker := time.NewTicker(n.tick)
		defer ticker.Stop()
		for {
			select {
			case <-n.stopChan:
				return
			case <-ticker.C:
				if _, err := io.ReadFull(src, buf); err != nil && !errors.Is(err, io.EOF) {
					log.Printf("Null output read error: %v", err)
					return
				}
			}
		}
	}()

	log.Printf("Null audio output running: %dHz, %d channels", format.SampleRate, format.Channels)
	return nil
}

// Close stops the drain loop
func (n *Null) Close() error {
	if n.stopChan == nil {
		return nil
	}
	n.stopOnce.Do(func() {
		close(n.stopChan)
	})
	n.wg.Wait()
	return nil
}
