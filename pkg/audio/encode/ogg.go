// ABOUTME: Ogg/Opus file writer using pion's oggwriter
// ABOUTME: Buffers samples into 20ms Opus packets wrapped as RTP for the Ogg muxer
package encode

import (
	"fmt"

	"github.com/Resonate-Protocol/padsampler-go/pkg/audio"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
)

// OggOpusSampleRate is the only rate the Ogg/Opus writer accepts
const OggOpusSampleRate = 48000

// OggOpusFile writes an Ogg/Opus file
type OggOpusFile struct {
	ogg       *oggwriter.OggWriter
	enc       *OpusEncoder
	channels  int
	pending   []float32
	frames    int
	sequence  uint16
	timestamp uint32
}

// NewOggOpusFile creates path and writes the Ogg/Opus headers
func NewOggOpusFile(path string, format audio.Format) (*OggOpusFile, error) {
	if format.SampleRate != OggOpusSampleRate {
		return nil, fmt.Errorf("ogg/opus recording requires %dHz, got %dHz", OggOpusSampleRate, format.SampleRate)
	}

	enc, err := NewOpus(audio.Format{Codec: "opus", SampleRate: format.SampleRate, Channels: format.Channels})
	if err != nil {
		return nil, err
	}

	ogg, err := oggwriter.New(path, uint32(format.SampleRate), uint16(format.Channels))
	if err != nil {
		return nil, fmt.Errorf("failed to create ogg file: %w", err)
	}

	return &OggOpusFile{
		ogg:      ogg,
		enc:      enc,
		channels: format.Channels,
	}, nil
}

// Write appends interleaved samples, emitting a packet per full 20ms frame
func (o *OggOpusFile) Write(samples []float32) error {
	if len(samples)%o.channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(samples), o.channels)
	}
	o.pending = append(o.pending, samples...)
	o.frames += len(samples) / o.channels

	packetLen := o.enc.FrameSize() * o.channels
	for len(o.pending) >= packetLen {
		if err := o.writePacket(o.pending[:packetLen]); err != nil {
			return err
		}
		o.pending = o.pending[packetLen:]
	}
	return nil
}

func (o *OggOpusFile) writePacket(samples []float32) error {
	payload, err := o.enc.Encode(samples)
	if err != nil {
		return err
	}
	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			SequenceNumber: o.sequence,
			Timestamp:      o.timestamp,
		},
		Payload: payload,
	}
	if err := o.ogg.WriteRTP(pkt); err != nil {
		return fmt.Errorf("failed to write ogg page: %w", err)
	}
	o.sequence++
	o.timestamp += uint32(o.enc.FrameSize())
	return nil
}

// Frames returns the number of frames written
func (o *OggOpusFile) Frames() int {
	return o.frames
}

// Close pads the last partial packet with silence and closes the file
func (o *OggOpusFile) Close() error {
	if len(o.pending) > 0 {
		last := make([]float32, o.enc.FrameSize()*o.channels)
		copy(last, o.pending)
		o.pending = nil
		if err := o.writePacket(last); err != nil {
			o.ogg.Close()
			return err
		}
	}
	if err := o.ogg.Close(); err != nil {
		return fmt.Errorf("failed to close ogg file: %w", err)
	}
	return nil
}
