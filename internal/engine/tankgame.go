package engine

import "math"

const (
	tankSpeed        = 180.0
	tankHalf         = 16.0 // tank body half-extent
	tankBarrelLen    = 26.0
	tankFireCooldown = 0.5

	patrolSpeed    = 90.0
	patrolCooldown = 2.4
	patrolCount    = 2

	missileSpeed = 320.0
	missileLife  = 2.2

	targetHitRadius = 30.0
	targetHalf      = 14.0
	targetDescent   = 28.0
	maxTargets      = 5

	hitExplosionCount    = 40
	expireExplosionCount = 24
	hitScore             = 100

	groundY = CanvasHeight - 40.0
)

type PlayerTank struct {
	X, Y     float64
	Facing   float64 // radians, updated from movement direction
	Cooldown float64
}

type PatrolTank struct {
	X, Y     float64
	VX       float64
	Cooldown float64
}

// Missile is Alive while Life > 0; expiry or a target hit explodes it and
// removes it the same tick.
type Missile struct {
	X, Y       float64
	VX, VY     float64
	Life       float64
	FromPlayer bool

	prevX, prevY float64
}

// Target descends until off-screen, then respawns at the top.
type Target struct {
	X, Y float64
	VY   float64
}

// TankGame is the interactive mini-game layered on the particle pool. All
// of its rendering (missile trails, explosions, the per-frame redraw of
// static geometry) goes through the shared pool.
type TankGame struct {
	Player   PlayerTank
	Patrols  []PatrolTank
	Missiles []Missile
	Targets  []Target
	Score    int

	pool  *ParticlePool
	lines *LineDrawer
	rng   *Rand
}

var (
	strokeColor  = RGBA{R: 0.62, G: 1.0, B: 0.78, A: 1.0}
	patrolColor  = RGBA{R: 1.0, G: 0.55, B: 0.30, A: 1.0}
	targetColor  = RGBA{R: 1.0, G: 0.35, B: 0.35, A: 1.0}
	trailColor   = RGBA{R: 0.95, G: 0.9, B: 0.6, A: 0.9}
	explodeColor = RGBA{R: 1.0, G: 0.8, B: 0.4, A: 1.0}
)

func NewTankGame(pool *ParticlePool, lines *LineDrawer, seed uint64) *TankGame {
	g := &TankGame{
		Player: PlayerTank{X: CanvasWidth / 2, Y: groundY - tankHalf, Facing: -math.Pi / 2},
		pool:   pool,
		lines:  lines,
		rng:    NewRand(seed),
	}
	for i := 0; i < patrolCount; i++ {
		dir := 1.0
		if i%2 == 1 {
			dir = -1.0
		}
		g.Patrols = append(g.Patrols, PatrolTank{
			X:        g.rng.RangeF(CanvasWidth*0.2, CanvasWidth*0.8),
			Y:        groundY - tankHalf,
			VX:       dir * patrolSpeed,
			Cooldown: g.rng.RangeF(0.5, patrolCooldown),
		})
	}
	for i := 0; i < 3; i++ {
		g.spawnTarget()
	}
	return g
}

func (g *TankGame) spawnTarget() {
	g.Targets = append(g.Targets, Target{
		X:  g.rng.RangeF(CanvasWidth*0.1, CanvasWidth*0.9),
		Y:  -targetHalf,
		VY: targetDescent * g.rng.RangeF(0.8, 1.4),
	})
}

// Update runs one game tick. Order matters: input, player fire, AI, missile
// advance + hit tests, expiry, beat-gated target spawn, then the full
// geometry redraw.
func (g *TankGame) Update(dt float64, in InputState, beat bool) {
	g.updatePlayer(dt, in)
	g.updatePatrols(dt)
	g.updateMissiles(dt)
	g.updateTargets(dt, beat)
	g.draw()
}

func (g *TankGame) updatePlayer(dt float64, in InputState) {
	p := &g.Player
	dx, dy := 0.0, 0.0
	if in.Left {
		dx -= 1
	}
	if in.Right {
		dx += 1
	}
	if in.Up {
		dy -= 1
	}
	if in.Down {
		dy += 1
	}
	if dx != 0 || dy != 0 {
		inv := 1.0 / math.Hypot(dx, dy)
		p.X += dx * inv * tankSpeed * dt
		p.Y += dy * inv * tankSpeed * dt
		p.Facing = math.Atan2(dy, dx)
	}
	p.X = clampF(p.X, tankHalf, CanvasWidth-tankHalf)
	p.Y = clampF(p.Y, tankHalf, groundY-tankHalf)

	p.Cooldown -= dt
	if in.Fire && p.Cooldown <= 0 {
		p.Cooldown = tankFireCooldown
		g.Missiles = append(g.Missiles, Missile{
			X: p.X, Y: p.Y,
			VX:         math.Cos(p.Facing) * missileSpeed,
			VY:         math.Sin(p.Facing) * missileSpeed,
			Life:       missileLife,
			FromPlayer: true,
			prevX:      p.X, prevY: p.Y,
		})
	}
}

func (g *TankGame) updatePatrols(dt float64) {
	for i := range g.Patrols {
		t := &g.Patrols[i]
		t.X += t.VX * dt
		if t.X < tankHalf {
			t.X = tankHalf
			t.VX = -t.VX
		}
		if t.X > CanvasWidth-tankHalf {
			t.X = CanvasWidth - tankHalf
			t.VX = -t.VX
		}
		t.Cooldown -= dt
		if t.Cooldown <= 0 {
			t.Cooldown = patrolCooldown * g.rng.RangeF(0.8, 1.3)
			// Crossfire: straight up with a little spread, never scores.
			spread := g.rng.RangeF(-0.25, 0.25)
			g.Missiles = append(g.Missiles, Missile{
				X: t.X, Y: t.Y - tankHalf,
				VX:    math.Sin(spread) * missileSpeed,
				VY:    -math.Cos(spread) * missileSpeed,
				Life:  missileLife,
				prevX: t.X, prevY: t.Y - tankHalf,
			})
		}
	}
}

func (g *TankGame) updateMissiles(dt float64) {
	live := g.Missiles[:0]
	for i := range g.Missiles {
		m := &g.Missiles[i]
		m.prevX, m.prevY = m.X, m.Y
		m.Life -= dt
		m.X += m.VX * dt
		m.Y += m.VY * dt
		g.lines.Line(m.prevX, m.prevY, m.X, m.Y, trailColor, ModeNormal)

		if m.FromPlayer && g.hitTarget(m) {
			continue // exploded and removed this tick
		}
		if m.Life <= 0 {
			g.Explosion(m.X, m.Y, expireExplosionCount, explodeColor, ModeNormal)
			continue
		}
		live = append(live, *m)
	}
	g.Missiles = live
}

// hitTarget tests a player missile against all targets. On the first hit it
// removes the target, scores, explodes, and kills the missile.
func (g *TankGame) hitTarget(m *Missile) bool {
	for ti := range g.Targets {
		t := &g.Targets[ti]
		if math.Hypot(m.X-t.X, m.Y-t.Y) > targetHitRadius {
			continue
		}
		g.Explosion(t.X, t.Y, hitExplosionCount, PhosphorColor, ModePhosphor)
		g.Targets = append(g.Targets[:ti], g.Targets[ti+1:]...)
		g.Score += hitScore
		m.Life = 0
		return true
	}
	return false
}

func (g *TankGame) updateTargets(dt float64, beat bool) {
	for i := range g.Targets {
		t := &g.Targets[i]
		t.Y += t.VY * dt
		if t.Y > groundY+targetHalf {
			// Cycled off-screen: respawn at the top.
			t.X = g.rng.RangeF(CanvasWidth*0.1, CanvasWidth*0.9)
			t.Y = -targetHalf
			t.VY = targetDescent * g.rng.RangeF(0.8, 1.4)
		}
	}
	if beat && len(g.Targets) < maxTargets {
		g.spawnTarget()
	}
}

// Explosion spawns a radial burst at (x, y), truncating silently if the
// pool runs dry. Returns the count actually spawned. Special-mode
// explosions carry the long phosphor life band.
func (g *TankGame) Explosion(x, y float64, count int, col RGBA, mode RenderMode) int {
	spawned := 0
	for i := 0; i < count; i++ {
		theta := 2 * math.Pi * float64(i) / float64(count)
		speed := g.rng.RangeF(40, 180)
		p := Particle{
			X: x, Y: y,
			VX:   math.Cos(theta) * speed,
			VY:   math.Sin(theta) * speed,
			Col:  col,
			Mode: mode,
			Size: 2.5,
		}
		if mode == ModePhosphor {
			p.MaxLife = g.rng.RangeF(specialLifeMin, specialLifeMax)
		} else {
			p.MaxLife = g.rng.RangeF(0.4, 0.9)
		}
		if !g.pool.Spawn(p) {
			break
		}
		spawned++
	}
	return spawned
}

// draw redraws all static geometry as particle strokes, every frame.
func (g *TankGame) draw() {
	ld := g.lines

	// Ground line.
	ld.Line(0, groundY, CanvasWidth, groundY, strokeColor, ModeNormal)

	// Player tank: body plus barrel along facing.
	p := &g.Player
	ld.Rect(p.X-tankHalf, p.Y-tankHalf, 2*tankHalf, 2*tankHalf, strokeColor, ModeNormal)
	ld.Line(p.X, p.Y,
		p.X+math.Cos(p.Facing)*tankBarrelLen,
		p.Y+math.Sin(p.Facing)*tankBarrelLen,
		strokeColor, ModeNormal)

	for i := range g.Patrols {
		t := &g.Patrols[i]
		ld.Rect(t.X-tankHalf, t.Y-tankHalf, 2*tankHalf, 2*tankHalf, patrolColor, ModeNormal)
	}

	// Targets as diamonds.
	for i := range g.Targets {
		t := &g.Targets[i]
		ld.Line(t.X, t.Y-targetHalf, t.X+targetHalf, t.Y, targetColor, ModeNormal)
		ld.Line(t.X+targetHalf, t.Y, t.X, t.Y+targetHalf, targetColor, ModeNormal)
		ld.Line(t.X, t.Y+targetHalf, t.X-targetHalf, t.Y, targetColor, ModeNormal)
		ld.Line(t.X-targetHalf, t.Y, t.X, t.Y-targetHalf, targetColor, ModeNormal)
	}

	ld.Number(g.Score, 24, 24, 14, strokeColor, ModeNormal)
}
