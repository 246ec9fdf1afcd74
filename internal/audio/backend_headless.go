//go:build headless

package audio

// Source supplies interleaved signed 16-bit stereo PCM on demand. A
// player.Player satisfies this directly.
type Source interface {
	RenderInto(out []int16) int
}

// LivePlayer is a no-op stand-in for the oto-backed player, used on
// platforms/builds with no audio device (CI, headless rendering to a
// file). Grounded on the reference implementation's headless
// audio_backend_headless.go stub.
type LivePlayer struct{}

// NewLivePlayer always succeeds; sampleRate is ignored.
func NewLivePlayer(sampleRate int) (*LivePlayer, error) {
	return &LivePlayer{}, nil
}

func (p *LivePlayer) SetSource(src Source) {}
func (p *LivePlayer) Start()               {}
func (p *LivePlayer) Stop()                {}
func (p *LivePlayer) IsStarted() bool      { return false }
func (p *LivePlayer) Close() error         { return nil }
