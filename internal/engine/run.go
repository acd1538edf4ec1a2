package engine

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/ncruces/zenity"
)

// Engine is the explicit context holding every subsystem. There are no
// package-level singletons; construct one per window.
type Engine struct {
	Cfg   Config
	Pool  *ParticlePool
	Lines *LineDrawer
	Emit  *EmitterSet
	Game  *TankGame
	Audio *AudioEngine

	rend    *Renderer
	elapsed float64

	// Reusable render buffers to avoid per-frame heap allocations.
	normBuf, phosBuf []float32
}

func NewEngine(cfg Config, seed uint64) *Engine {
	cfg.Normalize()
	pool := NewParticlePool(cfg.ParticleCapacity)
	lines := NewLineDrawer(pool, seed^0x11EA)
	return &Engine{
		Cfg:   cfg,
		Pool:  pool,
		Lines: lines,
		Emit:  NewEmitterSet(seed ^ 0xF12E),
		Game:  NewTankGame(pool, lines, seed^0x7A4C),
	}
}

// Update runs one frame of simulation. Everything here completes before
// Render reads the pool; that ordering is the only discipline the pool
// needs, since it is mutated by this goroutine alone.
func (e *Engine) Update(dt float64, in InputState, snap AudioSnapshot) {
	e.elapsed += dt
	e.Emit.Update(dt, e.Pool, &e.Cfg, snap.Beat)
	if e.Cfg.TankBattle {
		e.Game.Update(dt, in, snap.Beat)
	}
	e.Pool.Update(dt, e.Cfg.Gravity, e.Cfg.Trails)
}

// Render serializes alive particles and issues the draw passes. The pass
// runs even with zero particles alive, clearing the frame.
func (e *Engine) Render(fbW, fbH int) {
	e.rend.BeginFrame(fbW, fbH, e.Cfg.SpecialMode)
	e.normBuf, e.phosBuf = e.Pool.RenderData(e.normBuf, e.phosBuf, e.Cfg.Trails)
	e.rend.DrawParticles(e.normBuf, e.phosBuf, e.elapsed, float64(e.Cfg.Intensity)/100.0)
}

func configPath() string {
	if p := os.Getenv("VECTRA_CONFIG"); p != "" {
		return p
	}
	return "vectra.yaml"
}

// fatalStartup reports a startup failure on stderr and, best effort, in a
// native dialog, then returns the error for the caller to exit on. Startup
// failures never retry.
func fatalStartup(err error) error {
	fmt.Fprintf(os.Stderr, "vectra: %v\n", err)
	_ = zenity.Error(err.Error(), zenity.Title("Vectra"))
	return err
}

func RunDesktop() error {
	runtime.LockOSThread()

	cfg, err := LoadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
	}

	window, err := initWindow()
	if err != nil {
		return fatalStartup(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fatalStartup(fmt.Errorf("gl init: %w", err))
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	rend, err := NewRenderer()
	if err != nil {
		return fatalStartup(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("VECTRA_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	eng := NewEngine(cfg, seed)
	eng.rend = rend

	audio := NewAudioEngine()
	audio.SetVolume(float64(eng.Cfg.Volume) / 100.0)
	audio.Start(eng.Cfg.Tempo, eng.Cfg.Genre)
	defer audio.Stop()
	eng.Audio = audio

	input := NewInput()
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		eng.handleToggles(window, input)

		st := ReadInputState(window)
		snap := audio.Snapshot()
		eng.Update(dt, st, snap)

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		eng.Render(fbW, fbH)
		window.SwapBuffers()
	}
	return nil
}

// handleToggles applies the debug keys. Config mutation never touches
// in-flight particles; it only changes future spawns and gravity.
func (e *Engine) handleToggles(window *glfw.Window, in *Input) {
	if in.JustPressed(window, glfw.KeyG) {
		e.Cfg.Genre = NextGenre(e.Cfg.Genre)
		if e.Audio != nil {
			e.Audio.SetGenre(e.Cfg.Genre)
		}
	}
	if in.JustPressed(window, glfw.KeyV) {
		e.Cfg.SpecialMode = !e.Cfg.SpecialMode
	}
	if in.JustPressed(window, glfw.KeyT) {
		e.Cfg.Trails = !e.Cfg.Trails
	}
	if in.JustPressed(window, glfw.KeyB) {
		e.Cfg.TankBattle = !e.Cfg.TankBattle
	}
}
