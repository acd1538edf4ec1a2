package engine

import "iter"

// RenderMode selects the fragment path a particle is drawn with.
// It replaces the old trick of boosting a color channel past 1.0.
type RenderMode uint8

const (
	ModeNormal   RenderMode = iota // literal particle color
	ModePhosphor                   // reserved hue, long glow, flicker
)

// TrailCap is the fixed trail history length per particle.
const TrailCap = 10

// Trail is a fixed-capacity ring of past positions, oldest evicted first.
type Trail struct {
	pts  [TrailCap][2]float32
	head int
	n    int
}

func (t *Trail) Push(x, y float64) {
	t.pts[t.head] = [2]float32{float32(x), float32(y)}
	t.head = (t.head + 1) % TrailCap
	if t.n < TrailCap {
		t.n++
	}
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th stored point, oldest first.
func (t *Trail) At(i int) (float32, float32) {
	idx := (t.head - t.n + i + 2*TrailCap) % TrailCap
	return t.pts[idx][0], t.pts[idx][1]
}

func (t *Trail) Reset() { t.head, t.n = 0, 0 }

type RGBA struct {
	R, G, B, A float32
}

type Particle struct {
	X, Y   float64
	VX, VY float64

	Col RGBA

	Life    float64 // seconds remaining; alive iff > 0
	MaxLife float64

	Size  float64
	Mode  RenderMode
	Trail Trail
}

func (p *Particle) Alive() bool { return p.Life > 0 }

// ParticlePool is a fixed-capacity arena. Allocation pops a dead slot off a
// free list; a slot returns to the free list the instant its life reaches
// zero during Update. There is no explicit free call.
type ParticlePool struct {
	p    []Particle
	free []int
}

func NewParticlePool(capacity int) *ParticlePool {
	if capacity <= 0 {
		capacity = DefaultParticleCapacity
	}
	pp := &ParticlePool{}
	pp.realloc(capacity)
	return pp
}

func (pp *ParticlePool) realloc(capacity int) {
	pp.p = make([]Particle, capacity)
	pp.free = make([]int, capacity)
	for i := range pp.free {
		pp.free[i] = capacity - 1 - i
	}
}

func (pp *ParticlePool) Cap() int        { return len(pp.p) }
func (pp *ParticlePool) FreeCount() int  { return len(pp.free) }
func (pp *ParticlePool) AliveCount() int { return len(pp.p) - len(pp.free) }

// Resize reallocates the pool to a new capacity, dropping all particles.
// The pool never grows implicitly.
func (pp *ParticlePool) Resize(capacity int) {
	if capacity <= 0 || capacity == len(pp.p) {
		return
	}
	pp.realloc(capacity)
}

// Spawn places a particle into a dead slot. Returns false when the pool is
// saturated; that is a normal outcome, not an error, and callers spawn as
// many of a burst as fit.
func (pp *ParticlePool) Spawn(p Particle) bool {
	n := len(pp.free)
	if n == 0 {
		return false
	}
	idx := pp.free[n-1]
	pp.free = pp.free[:n-1]
	if p.MaxLife <= 0 {
		p.MaxLife = 0.001
	}
	p.Life = p.MaxLife
	pp.p[idx] = p
	return true
}

// Alive is a lazy, restartable sequence over currently-alive particles.
func (pp *ParticlePool) Alive() iter.Seq[*Particle] {
	return func(yield func(*Particle) bool) {
		for i := range pp.p {
			if pp.p[i].Life > 0 {
				if !yield(&pp.p[i]) {
					return
				}
			}
		}
	}
}
