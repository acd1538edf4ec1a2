package engine

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// AudioEngine runs the synthesizer on its own beat cadence, independent of
// the frame loop. One scheduler goroutine owns the tick timer; control
// surface calls only store atomics that the next tick picks up, and the
// frame loop reads the published state through Snapshot. Stop is a single
// deterministic cancel.
type AudioEngine struct {
	ctx   *oto.Context
	ready chan struct{}

	tempoBits  atomic.Uint64
	volumeBits atomic.Uint64
	genreIdx   atomic.Int32

	bassBits   atomic.Uint64
	midBits    atomic.Uint64
	trebleBits atomic.Uint64
	beatFlag   atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAudioEngine acquires the audio device. Device failure is degraded, not
// fatal: the engine still ticks and publishes snapshots so visuals stay
// beat-reactive, it just plays nothing.
func NewAudioEngine() *AudioEngine {
	a := &AudioEngine{}
	a.tempoBits.Store(math.Float64bits(120))
	a.volumeBits.Store(math.Float64bits(0.6))

	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio device unavailable (running silent): %v\n", err)
		return a
	}
	a.ctx = ctx
	a.ready = ready
	return a
}

// Start begins the beat scheduler. A second Start stops the first.
func (a *AudioEngine) Start(tempo float64, genre Genre) {
	a.Stop()
	a.SetTempo(tempo)
	a.SetGenre(genre)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(ctx)
}

// Stop cancels the pending tick and waits for the scheduler to exit.
// Players already sounding drain and close themselves.
func (a *AudioEngine) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil
	a.done = nil
}

func (a *AudioEngine) SetTempo(bpm float64) {
	a.tempoBits.Store(math.Float64bits(clampF(bpm, MinTempo, MaxTempo)))
}

func (a *AudioEngine) Tempo() float64 {
	return math.Float64frombits(a.tempoBits.Load())
}

// SetGenre takes effect on the next scheduled tick; unknown genres are
// ignored. The tick resets the beat counter on an observed change.
func (a *AudioEngine) SetGenre(g Genre) {
	for i, k := range Genres {
		if g == k {
			a.genreIdx.Store(int32(i))
			return
		}
	}
}

func (a *AudioEngine) CurrentGenre() Genre {
	return Genres[int(a.genreIdx.Load())%len(Genres)]
}

func (a *AudioEngine) SetVolume(v float64) {
	a.volumeBits.Store(math.Float64bits(clampF(v, 0, 1)))
}

func (a *AudioEngine) Volume() float64 {
	return math.Float64frombits(a.volumeBits.Load())
}

// Snapshot returns the band energies published at the last tick and
// consumes the beat flag, so a beat is observed by exactly one reader.
// Staleness of one tick is acceptable by design.
func (a *AudioEngine) Snapshot() AudioSnapshot {
	return AudioSnapshot{
		Bass:   math.Float64frombits(a.bassBits.Load()),
		Mid:    math.Float64frombits(a.midBits.Load()),
		Treble: math.Float64frombits(a.trebleBits.Load()),
		Beat:   a.beatFlag.Swap(false),
	}
}

func (a *AudioEngine) run(ctx context.Context) {
	defer close(a.done)

	synth := NewSynth(a.CurrentGenre())
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if g := a.CurrentGenre(); g != synth.Genre() {
			synth.Reset(g)
		}
		tempo := a.Tempo()
		buf, bands := synth.RenderBeat(tempo)

		a.bassBits.Store(math.Float64bits(bands.Bass))
		a.midBits.Store(math.Float64bits(bands.Mid))
		a.trebleBits.Store(math.Float64bits(bands.Treble))
		a.beatFlag.Store(true)

		a.play(buf)
		timer.Reset(time.Duration(60.0 / tempo * float64(time.Second)))
	}
}

func (a *AudioEngine) play(samples []byte) {
	if a.ctx == nil {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	vol := a.Volume()
	if vol <= 0 {
		return
	}
	go func() {
		player := a.ctx.NewPlayer(&sampleReader{data: samples})
		player.SetVolume(vol)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type sampleReader struct {
	data []byte
	pos  int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
