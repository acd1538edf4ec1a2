package engine

// LineDrawer renders abstract line segments as rows of very short-lived
// particles, giving redrawn-every-frame geometry a phosphor-refresh look.
// It allocates from the same pool as the fireworks, so heavy game drawing
// competes with the firework budget. That contention is intended.
type LineDrawer struct {
	pool *ParticlePool
	rng  *Rand
}

func NewLineDrawer(pool *ParticlePool, seed uint64) *LineDrawer {
	return &LineDrawer{pool: pool, rng: NewRand(seed)}
}

const (
	strokeLifeMin = 0.05
	strokeLifeMax = 0.1
	strokeSize    = 2.2
)

// Line strokes a segment with 10 to 15 evenly spaced particles. Truncates
// silently when the pool is saturated.
func (ld *LineDrawer) Line(x1, y1, x2, y2 float64, col RGBA, mode RenderMode) {
	n := 10 + ld.rng.Intn(6)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		p := Particle{
			X:       x1 + (x2-x1)*t,
			Y:       y1 + (y2-y1)*t,
			Col:     col,
			Mode:    mode,
			MaxLife: ld.rng.RangeF(strokeLifeMin, strokeLifeMax),
			Size:    strokeSize,
		}
		if !ld.pool.Spawn(p) {
			return
		}
	}
}

// Rect composes four Line calls.
func (ld *LineDrawer) Rect(x, y, w, h float64, col RGBA, mode RenderMode) {
	ld.Line(x, y, x+w, y, col, mode)
	ld.Line(x+w, y, x+w, y+h, col, mode)
	ld.Line(x+w, y+h, x, y+h, col, mode)
	ld.Line(x, y+h, x, y, col, mode)
}

// Seven-segment digit strokes for the score readout.
// Bit order: 0 top, 1 top-right, 2 bottom-right, 3 bottom, 4 bottom-left,
// 5 top-left, 6 middle.
var segDigits = [10]uint8{
	0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F,
}

// Digit draws digit d in a size x 2*size cell at (x, y).
func (ld *LineDrawer) Digit(d int, x, y, size float64, col RGBA, mode RenderMode) {
	if d < 0 || d > 9 {
		return
	}
	segs := segDigits[d]
	w := size
	if segs&(1<<0) != 0 {
		ld.Line(x, y, x+w, y, col, mode)
	}
	if segs&(1<<1) != 0 {
		ld.Line(x+w, y, x+w, y+size, col, mode)
	}
	if segs&(1<<2) != 0 {
		ld.Line(x+w, y+size, x+w, y+2*size, col, mode)
	}
	if segs&(1<<3) != 0 {
		ld.Line(x, y+2*size, x+w, y+2*size, col, mode)
	}
	if segs&(1<<4) != 0 {
		ld.Line(x, y+size, x, y+2*size, col, mode)
	}
	if segs&(1<<5) != 0 {
		ld.Line(x, y, x, y+size, col, mode)
	}
	if segs&(1<<6) != 0 {
		ld.Line(x, y+size, x+w, y+size, col, mode)
	}
}

// Number draws a non-negative integer left-to-right.
func (ld *LineDrawer) Number(v int, x, y, size float64, col RGBA, mode RenderMode) {
	if v < 0 {
		v = 0
	}
	digits := []int{}
	for {
		digits = append(digits, v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	step := size * 1.6
	for i := len(digits) - 1; i >= 0; i-- {
		ld.Digit(digits[i], x, y, size, col, mode)
		x += step
	}
}
