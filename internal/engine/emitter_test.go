package engine

import (
	"math"
	"testing"
)

func TestBurstTruncatesToFreeSlots(t *testing.T) {
	pool := NewParticlePool(30)
	cfg := DefaultConfig()
	cfg.Intensity = 100 // requests baseBurstSize = 48

	e := NewEmitter(1)
	spawned := e.Burst(pool, &cfg)
	if spawned != 30 {
		t.Fatalf("expected burst truncated to 30 free slots, spawned %d", spawned)
	}
	if pool.AliveCount() != 30 {
		t.Fatalf("expected 30 alive, got %d", pool.AliveCount())
	}
}

func TestBurstSizeFloorsIntensityFraction(t *testing.T) {
	tests := []struct {
		name      string
		intensity int
		want      int
	}{
		{"floors to zero", 1, 0},
		{"floors fraction", 10, 4}, // 48 * 10 / 100 = 4.8
		{"full intensity", 100, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewParticlePool(100)
			cfg := DefaultConfig()
			cfg.Intensity = tt.intensity
			e := NewEmitter(7)
			if got := e.Burst(pool, &cfg); got != tt.want {
				t.Errorf("intensity %d: expected %d spawned, got %d", tt.intensity, tt.want, got)
			}
		})
	}
}

// Life distribution bounds, sampled over many bursts: normal particles in
// [1.5, 3.0], phosphor particles in [2.5, 4.5].
func TestBurstLifeDistributionBounds(t *testing.T) {
	pool := NewParticlePool(5000)
	cfg := DefaultConfig()
	cfg.Intensity = 100

	e := NewEmitter(99)
	sawNormal, sawSpecial := false, false
	for burst := 0; burst < 300; burst++ {
		e.Burst(pool, &cfg)
		for p := range pool.Alive() {
			switch p.Mode {
			case ModePhosphor:
				sawSpecial = true
				if p.MaxLife < specialLifeMin || p.MaxLife > specialLifeMax {
					t.Fatalf("special particle life %v outside [%v, %v]", p.MaxLife, specialLifeMin, specialLifeMax)
				}
				if p.Col != PhosphorColor {
					t.Fatal("special particle not using the reserved hue")
				}
			case ModeNormal:
				sawNormal = true
				if p.MaxLife < normalLifeMin || p.MaxLife > normalLifeMax {
					t.Fatalf("normal particle life %v outside [%v, %v]", p.MaxLife, normalLifeMin, normalLifeMax)
				}
			}
		}
		pool.Resize(5000) // clear between bursts
	}
	if !sawNormal || !sawSpecial {
		t.Fatalf("expected both modes over 300 bursts: normal=%v special=%v", sawNormal, sawSpecial)
	}
}

func TestConfigForcesSpecialBurst(t *testing.T) {
	pool := NewParticlePool(1000)
	cfg := DefaultConfig()
	cfg.Intensity = 100
	cfg.SpecialMode = true

	e := NewEmitter(3)
	e.Burst(pool, &cfg)
	for p := range pool.Alive() {
		if p.Mode != ModePhosphor {
			t.Fatal("special_mode=true must force every burst particle to phosphor")
		}
	}
}

// Burst velocities form a ring: speed*(cos, sin) minus the launch bias on y.
func TestBurstVelocityRing(t *testing.T) {
	pool := NewParticlePool(1000)
	cfg := DefaultConfig()
	cfg.Intensity = 100

	e := NewEmitter(11)
	e.Burst(pool, &cfg)
	for p := range pool.Alive() {
		speed := math.Hypot(p.VX, p.VY+launchBias)
		if speed < burstSpeedMin-1e-9 || speed > burstSpeedMax+1e-9 {
			t.Fatalf("ring speed %v outside [%v, %v]", speed, burstSpeedMin, burstSpeedMax)
		}
		if p.X != e.X {
			t.Fatalf("burst particle not at emitter x: %v vs %v", p.X, e.X)
		}
	}
}

func TestEmitterSetStaysWithinBounds(t *testing.T) {
	pool := NewParticlePool(2000)
	cfg := DefaultConfig()
	es := NewEmitterSet(5)

	const dt = 1.0 / 60.0
	for tick := 0; tick < 60*40; tick++ { // 40 simulated seconds
		es.Update(dt, pool, &cfg, false)
		if n := len(es.Emitters); n < 1 || n > MaxEmitters {
			t.Fatalf("tick %d: emitter count %d outside [1, %d]", tick, n, MaxEmitters)
		}
		pool.Update(dt, cfg.Gravity, false)
	}
}

func TestEveryGenreHasPalette(t *testing.T) {
	for _, g := range Genres {
		if pal := GenrePalette(g); len(pal) == 0 {
			t.Errorf("genre %q has no palette", g)
		}
	}
	if pal := GenrePalette(Genre("bogus")); len(pal) == 0 {
		t.Error("unknown genre must fall back to a palette")
	}
}
