package engine

import (
	"math"
	"testing"
)

func newTestGame(capacity int) (*TankGame, *ParticlePool) {
	pool := NewParticlePool(capacity)
	lines := NewLineDrawer(pool, 17)
	return NewTankGame(pool, lines, 23), pool
}

// The full hit bundle: target removed, score +100, exactly 40 phosphor
// particles, missile killed, all within the same tick.
func TestMissileHitBundle(t *testing.T) {
	g, pool := newTestGame(5000)

	g.Targets = []Target{{X: 400, Y: 300, VY: targetDescent}}
	g.Missiles = []Missile{{
		X: 400, Y: 320, VX: 0, VY: -missileSpeed,
		Life: 1.0, FromPlayer: true,
		prevX: 400, prevY: 320,
	}}

	g.Update(1.0/60.0, InputState{}, false)

	if len(g.Targets) != 0 {
		t.Fatalf("target not removed, %d remain", len(g.Targets))
	}
	if g.Score != hitScore {
		t.Fatalf("expected score %d, got %d", hitScore, g.Score)
	}
	if len(g.Missiles) != 0 {
		t.Fatalf("hit missile not removed, %d remain", len(g.Missiles))
	}
	phosphor := 0
	for p := range pool.Alive() {
		if p.Mode == ModePhosphor {
			phosphor++
		}
	}
	if phosphor != hitExplosionCount {
		t.Fatalf("expected exactly %d phosphor explosion particles, got %d", hitExplosionCount, phosphor)
	}
}

func TestPatrolMissileNeverScores(t *testing.T) {
	g, _ := newTestGame(5000)

	g.Targets = []Target{{X: 400, Y: 300, VY: targetDescent}}
	g.Missiles = []Missile{{
		X: 400, Y: 305, VX: 0, VY: -missileSpeed,
		Life: 1.0, FromPlayer: false,
		prevX: 400, prevY: 305,
	}}

	g.Update(1.0/60.0, InputState{}, false)

	if g.Score != 0 {
		t.Fatalf("patrol missile scored: %d", g.Score)
	}
	if len(g.Targets) != 1 {
		t.Fatal("patrol missile removed a target")
	}
}

func TestMissileExpiryExplodesAndRemoves(t *testing.T) {
	g, pool := newTestGame(5000)
	g.Targets = nil

	g.Missiles = []Missile{{X: 500, Y: 200, VX: 0, VY: -100, Life: 0.01, FromPlayer: true}}
	before := pool.AliveCount()
	g.Update(1.0/60.0, InputState{}, false)

	if len(g.Missiles) != 0 {
		t.Fatal("expired missile not removed")
	}
	if pool.AliveCount() <= before {
		t.Fatal("expiry spawned no explosion particles")
	}
}

func TestTargetRespawnsAtTop(t *testing.T) {
	g, _ := newTestGame(5000)
	g.Targets = []Target{{X: 100, Y: groundY + targetHalf + 5, VY: targetDescent}}

	g.Update(1.0/60.0, InputState{}, false)

	if len(g.Targets) != 1 {
		t.Fatalf("expected the target to cycle, got %d targets", len(g.Targets))
	}
	if g.Targets[0].Y > 0 {
		t.Fatalf("target did not respawn at the top: y=%v", g.Targets[0].Y)
	}
}

func TestBeatSpawnsTargetUpToFive(t *testing.T) {
	g, _ := newTestGame(5000)
	g.Targets = g.Targets[:2]

	g.Update(1.0/60.0, InputState{}, true)
	if len(g.Targets) != 3 {
		t.Fatalf("beat should add a target: got %d", len(g.Targets))
	}

	for len(g.Targets) < maxTargets {
		g.Update(1.0/60.0, InputState{}, true)
	}
	g.Update(1.0/60.0, InputState{}, true)
	if len(g.Targets) > maxTargets {
		t.Fatalf("target count %d exceeds cap %d", len(g.Targets), maxTargets)
	}
}

func TestPlayerClampsToBoundsAndFaces(t *testing.T) {
	g, _ := newTestGame(5000)

	for i := 0; i < 600; i++ {
		g.Update(1.0/60.0, InputState{Left: true}, false)
	}
	if g.Player.X != tankHalf {
		t.Fatalf("player not clamped at left bound: x=%v", g.Player.X)
	}
	if math.Abs(g.Player.Facing-math.Pi) > 1e-9 && math.Abs(g.Player.Facing+math.Pi) > 1e-9 {
		t.Fatalf("facing not left: %v", g.Player.Facing)
	}
}

func TestPlayerFireRespectsCooldown(t *testing.T) {
	g, _ := newTestGame(5000)
	g.Targets = nil
	g.Patrols = nil

	g.Update(1.0/60.0, InputState{Fire: true}, false)
	if len(g.Missiles) != 1 {
		t.Fatalf("expected 1 missile after first fire, got %d", len(g.Missiles))
	}
	g.Update(1.0/60.0, InputState{Fire: true}, false)
	if len(g.Missiles) != 1 {
		t.Fatalf("cooldown ignored: %d missiles", len(g.Missiles))
	}
}

func TestPatrolBouncesAtEdges(t *testing.T) {
	g, _ := newTestGame(5000)
	g.Patrols = []PatrolTank{{X: CanvasWidth - tankHalf - 1, Y: groundY - tankHalf, VX: patrolSpeed, Cooldown: 1e9}}

	for i := 0; i < 60; i++ {
		g.Update(1.0/60.0, InputState{}, false)
	}
	p := g.Patrols[0]
	if p.VX >= 0 {
		t.Fatalf("patrol did not bounce at right edge: vx=%v", p.VX)
	}
	if p.X > CanvasWidth-tankHalf {
		t.Fatalf("patrol escaped bounds: x=%v", p.X)
	}
}
