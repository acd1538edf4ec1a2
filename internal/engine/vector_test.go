package engine

import "testing"

func TestLineStrokeCountAndLife(t *testing.T) {
	pool := NewParticlePool(100)
	ld := NewLineDrawer(pool, 1)

	ld.Line(0, 0, 100, 0, RGBA{1, 1, 1, 1}, ModeNormal)

	n := pool.AliveCount()
	if n < 10 || n > 15 {
		t.Fatalf("expected 10-15 stroke particles, got %d", n)
	}
	var minX, maxX float64 = 1e9, -1e9
	for p := range pool.Alive() {
		if p.MaxLife < strokeLifeMin || p.MaxLife > strokeLifeMax {
			t.Fatalf("stroke life %v outside [%v, %v]", p.MaxLife, strokeLifeMin, strokeLifeMax)
		}
		if p.Y != 0 {
			t.Fatalf("stroke particle off the segment: y=%v", p.Y)
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}
	if minX != 0 || maxX != 100 {
		t.Fatalf("stroke does not span endpoints: [%v, %v]", minX, maxX)
	}
}

func TestLineTruncatesOnSaturatedPool(t *testing.T) {
	pool := NewParticlePool(4)
	ld := NewLineDrawer(pool, 1)
	ld.Line(0, 0, 10, 10, RGBA{1, 1, 1, 1}, ModeNormal)
	if pool.AliveCount() != 4 {
		t.Fatalf("expected truncation at 4 particles, got %d", pool.AliveCount())
	}
}

func TestRectComposesFourLines(t *testing.T) {
	pool := NewParticlePool(200)
	ld := NewLineDrawer(pool, 2)
	ld.Rect(10, 10, 50, 30, RGBA{1, 1, 1, 1}, ModeNormal)
	n := pool.AliveCount()
	if n < 40 || n > 60 {
		t.Fatalf("expected 40-60 particles for four edges, got %d", n)
	}
}

func TestDigitStrokes(t *testing.T) {
	tests := []struct {
		name     string
		digit    int
		segments int
	}{
		{"eight lights all segments", 8, 7},
		{"one lights two segments", 1, 2},
		{"zero lights six segments", 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewParticlePool(500)
			ld := NewLineDrawer(pool, 3)
			ld.Digit(tt.digit, 0, 0, 10, RGBA{1, 1, 1, 1}, ModeNormal)
			n := pool.AliveCount()
			if n < tt.segments*10 || n > tt.segments*15 {
				t.Errorf("digit %d: %d particles, expected %d segments worth", tt.digit, n, tt.segments)
			}
		})
	}
}
