//go:build !headless

package audio

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Source supplies interleaved signed 16-bit stereo PCM on demand. A
// player.Player satisfies this directly.
type Source interface {
	RenderInto(out []int16) int
}

// LivePlayer drives real-time audio output through oto, pulling PCM from
// a Source as the platform's audio callback requests it. Grounded on
// OtoPlayer in the reference implementation's audio_backend_oto.go,
// adapted from a float32 mono ring-buffer source to this module's
// int16 stereo Source.
type LivePlayer struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	source  Source
	scratch []int16

	started bool
}

// NewLivePlayer creates an oto context at sampleRate (stereo, 16-bit).
func NewLivePlayer(sampleRate int) (*LivePlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
	}
	return &LivePlayer{ctx: ctx}, nil
}

// SetSource attaches (or replaces) the PCM source played back.
func (p *LivePlayer) SetSource(src Source) {
	p.mu.Lock()
	p.source = src
	p.mu.Unlock()
}

// Read implements io.Reader for oto.NewPlayer: it is called on oto's
// audio callback goroutine whenever more PCM bytes are needed.
func (p *LivePlayer) Read(out []byte) (int, error) {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src == nil {
		for i := range out {
			out[i] = 0
		}
		return len(out), nil
	}

	frames := len(out) / 4 // 2 channels * 2 bytes
	if cap(p.scratch) < frames*2 {
		p.scratch = make([]int16, frames*2)
	}
	scratch := p.scratch[:frames*2]

	n := src.RenderInto(scratch)
	for i := 0; i < n*2; i++ {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(scratch[i]))
	}
	for i := n * 2 * 2; i < len(out); i++ {
		out[i] = 0
	}
	return len(out), nil
}

// Start begins playback, lazily creating the oto.Player on first call.
func (p *LivePlayer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		p.player = p.ctx.NewPlayer(p)
	}
	p.player.Play()
	p.started = true
}

// Stop pauses playback.
func (p *LivePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Pause()
	}
	p.started = false
}

// IsStarted reports whether Start has been called more recently than Stop.
func (p *LivePlayer) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close releases the underlying oto player.
func (p *LivePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return nil
	}
	return p.player.Close()
}
