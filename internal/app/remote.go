// ABOUTME: Bridges session output to the WebSocket remote
// ABOUTME: Broadcasts state only when the model changed, not on overlay redraws
package app

import (
	"github.com/Resonate-Protocol/padsampler-go/internal/remote"
	"github.com/Resonate-Protocol/padsampler-go/pkg/sampler"
)

// RemoteObserver forwards session output to remote clients
type RemoteObserver struct {
	server      *remote.Server
	lastVersion uint64
}

// NewRemoteObserver creates an observer for server
func NewRemoteObserver(server *remote.Server) *RemoteObserver {
	return &RemoteObserver{server: server}
}

// SessionChanged broadcasts the state when its version moved
func (r *RemoteObserver) SessionChanged(f Frame) {
	if f.Version == r.lastVersion {
		return
	}
	r.lastVersion = f.Version
	r.server.BroadcastState(f.Protocol())
}

// PadPlayed broadcasts pad/played
func (r *RemoteObserver) PadPlayed(index int, source string) {
	r.server.BroadcastPadPlayed(index, source)
}

// RecordingStopped broadcasts recording/stopped
func (r *RemoteObserver) RecordingStopped(artifact sampler.RecordingArtifact) {
	r.server.BroadcastRecording(artifact)
}
