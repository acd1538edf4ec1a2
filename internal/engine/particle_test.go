package engine

import "testing"

func TestPoolNeverExceedsCapacity(t *testing.T) {
	pool := NewParticlePool(50)
	for i := 0; i < 120; i++ {
		ok := pool.Spawn(Particle{MaxLife: 1.0})
		if i < 50 && !ok {
			t.Fatalf("spawn %d failed with free slots remaining", i)
		}
		if i >= 50 && ok {
			t.Fatalf("spawn %d succeeded beyond capacity", i)
		}
		if pool.AliveCount() > pool.Cap() {
			t.Fatalf("alive %d exceeds capacity %d", pool.AliveCount(), pool.Cap())
		}
	}
	if pool.AliveCount() != 50 {
		t.Fatalf("expected 50 alive, got %d", pool.AliveCount())
	}
}

func TestSpawnSetsLifeToMaxLife(t *testing.T) {
	pool := NewParticlePool(10)
	pool.Spawn(Particle{MaxLife: 2.5})
	for p := range pool.Alive() {
		if p.Life != p.MaxLife {
			t.Fatalf("expected Life == MaxLife at spawn, got %v vs %v", p.Life, p.MaxLife)
		}
	}
}

func TestLifeStrictlyDecreasesThenSlotReused(t *testing.T) {
	pool := NewParticlePool(1)
	if !pool.Spawn(Particle{MaxLife: 0.1}) {
		t.Fatal("spawn failed on empty pool")
	}

	prev := 0.1
	for tick := 0; tick < 10; tick++ {
		pool.Update(0.03, 0, false)
		if pool.AliveCount() == 0 {
			break
		}
		var life float64
		for p := range pool.Alive() {
			life = p.Life
		}
		if life >= prev {
			t.Fatalf("life did not strictly decrease: %v -> %v", prev, life)
		}
		prev = life
	}

	if pool.AliveCount() != 0 {
		t.Fatal("particle did not expire")
	}
	if pool.FreeCount() != 1 {
		t.Fatalf("dead slot not returned to free list, free=%d", pool.FreeCount())
	}
	if !pool.Spawn(Particle{MaxLife: 1.0}) {
		t.Fatal("dead slot not immediately reusable")
	}
}

func TestTrailRingEvictsOldest(t *testing.T) {
	var tr Trail
	for i := 0; i < 15; i++ {
		tr.Push(float64(i), float64(i))
	}
	if tr.Len() != TrailCap {
		t.Fatalf("expected trail length %d, got %d", TrailCap, tr.Len())
	}
	x, _ := tr.At(0)
	if x != 5 {
		t.Fatalf("expected oldest point x=5, got %v", x)
	}
	x, _ = tr.At(tr.Len() - 1)
	if x != 14 {
		t.Fatalf("expected newest point x=14, got %v", x)
	}
}

func TestResizeDropsParticlesAndChangesCapacity(t *testing.T) {
	pool := NewParticlePool(100)
	for i := 0; i < 30; i++ {
		pool.Spawn(Particle{MaxLife: 5})
	}
	pool.Resize(200)
	if pool.Cap() != 200 {
		t.Fatalf("expected capacity 200, got %d", pool.Cap())
	}
	if pool.AliveCount() != 0 {
		t.Fatalf("resize should drop all particles, alive=%d", pool.AliveCount())
	}
}

func TestAliveIteratorIsRestartable(t *testing.T) {
	pool := NewParticlePool(20)
	for i := 0; i < 7; i++ {
		pool.Spawn(Particle{MaxLife: 1})
	}
	count := func() int {
		n := 0
		for range pool.Alive() {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 7 || b != 7 {
		t.Fatalf("expected 7 alive on both passes, got %d and %d", a, b)
	}
}

// Capacity-ceiling scenario: one emitter firing every tick for 3 seconds at
// 60 ticks/s against a 500-slot pool. Alive count must never exceed the
// capacity and must end pinned near it.
func TestCapacityCeilingUnderSustainedBursts(t *testing.T) {
	pool := NewParticlePool(500)
	cfg := DefaultConfig()
	cfg.Intensity = 100

	e := NewEmitter(42)
	e.Interval = 0 // fire on every update

	const dt = 1.0 / 60.0
	for tick := 0; tick < 180; tick++ {
		e.Interval = 0 // Update redraws the interval after each burst
		e.Update(dt, pool, &cfg, false)
		if pool.AliveCount() > 500 {
			t.Fatalf("tick %d: alive %d exceeds capacity", tick, pool.AliveCount())
		}
		pool.Update(dt, cfg.Gravity, false)
	}
	if pool.AliveCount() < 480 {
		t.Fatalf("expected pool pinned near capacity, alive=%d", pool.AliveCount())
	}
}
