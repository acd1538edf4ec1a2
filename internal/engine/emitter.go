package engine

import "math"

const (
	MaxEmitters       = 3
	EmitterMaxAge     = 14.0 // seconds before an emitter retires
	EmitterSpawnEvery = 4.0

	baseBurstSize   = 48
	burstSpeedMin   = 60.0
	burstSpeedMax   = 240.0
	launchBias      = 40.0 // upward kick subtracted from vy at spawn
	beatBurstChance = 0.4
	specialChance   = 0.15

	normalLifeMin  = 1.5
	normalLifeMax  = 3.0
	specialLifeMin = 2.5
	specialLifeMax = 4.5
)

// PhosphorColor is the reserved hue for special-mode particles.
var PhosphorColor = RGBA{R: 0.62, G: 1.0, B: 0.78, A: 1.0}

// genrePalettes map each genre to its firework colors. A burst picks one
// color for all of its particles.
var genrePalettes = map[Genre][]RGBA{
	GenreFunk: {
		{1.0, 0.55, 0.10, 1}, {1.0, 0.85, 0.20, 1}, {0.95, 0.30, 0.55, 1}, {0.55, 0.30, 0.95, 1},
	},
	GenreElectro: {
		{0.15, 0.85, 1.0, 1}, {0.20, 0.45, 1.0, 1}, {0.80, 0.20, 1.0, 1}, {1.0, 1.0, 1.0, 1},
	},
	GenreSynthwave: {
		{1.0, 0.25, 0.65, 1}, {0.55, 0.25, 1.0, 1}, {0.20, 0.80, 1.0, 1}, {1.0, 0.55, 0.30, 1},
	},
	GenreAction: {
		{1.0, 0.25, 0.15, 1}, {1.0, 0.60, 0.10, 1}, {1.0, 0.90, 0.30, 1}, {0.95, 0.95, 0.95, 1},
	},
	GenreAmbient: {
		{0.40, 0.70, 0.90, 1}, {0.55, 0.85, 0.80, 1}, {0.75, 0.75, 1.0, 1}, {0.90, 0.95, 1.0, 1},
	},
	GenreArcade: {
		{1.0, 0.20, 0.20, 1}, {0.20, 1.0, 0.20, 1}, {0.25, 0.35, 1.0, 1}, {1.0, 1.0, 0.25, 1},
	},
	GenreDnB: {
		{0.25, 1.0, 0.55, 1}, {0.95, 1.0, 0.25, 1}, {0.20, 0.75, 0.85, 1}, {0.85, 0.85, 0.85, 1},
	},
	GenreNoir: {
		{0.75, 0.75, 0.80, 1}, {0.95, 0.90, 0.70, 1}, {0.50, 0.55, 0.65, 1}, {0.85, 0.35, 0.30, 1},
	},
}

// GenrePalette returns the burst palette for a genre.
func GenrePalette(g Genre) []RGBA {
	if pal, ok := genrePalettes[g]; ok {
		return pal
	}
	return genrePalettes[GenreSynthwave]
}

// Emitter owns a spawn point and a randomized inter-burst interval.
// Emitters are created and retired by the EmitterSet; the particles they
// spawn outlive them.
type Emitter struct {
	X, Y      float64
	Timer     float64
	Interval  float64
	BaseBurst int
	Age       float64

	rng *Rand
}

func NewEmitter(seed uint64) *Emitter {
	e := &Emitter{BaseBurst: baseBurstSize, rng: NewRand(seed)}
	e.Interval = e.rng.RangeF(0.3, 1.5)
	e.X = e.rng.RangeF(CanvasWidth*0.08, CanvasWidth*0.92)
	e.Y = e.rng.RangeF(CanvasHeight*0.15, CanvasHeight*0.55)
	return e
}

// Update fires a burst when the interval elapses, or early on a beat with
// a weighted coin flip.
func (e *Emitter) Update(dt float64, pool *ParticlePool, cfg *Config, beat bool) {
	e.Age += dt
	e.Timer += dt
	if e.Timer < e.Interval && !(beat && e.rng.Float64() < beatBurstChance) {
		return
	}
	e.Burst(pool, cfg)
	e.Timer = 0
	e.Interval = e.rng.RangeF(0.3, 1.5)
	e.X = e.rng.RangeF(CanvasWidth*0.08, CanvasWidth*0.92)
}

// Burst spawns up to base*intensity/100 particles (floored) in a ring.
// When the pool runs dry mid-burst, the burst truncates silently.
// Returns the number actually spawned.
func (e *Emitter) Burst(pool *ParticlePool, cfg *Config) int {
	n := e.BaseBurst * cfg.Intensity / 100
	if n <= 0 {
		return 0
	}

	special := cfg.SpecialMode || e.rng.Float64() < specialChance
	pal := GenrePalette(cfg.Genre)
	col := pal[e.rng.Intn(len(pal))]

	spawned := 0
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		speed := e.rng.RangeF(burstSpeedMin, burstSpeedMax)
		p := Particle{
			X:    e.X,
			Y:    e.Y,
			VX:   math.Cos(theta) * speed,
			VY:   math.Sin(theta)*speed - launchBias,
			Size: e.rng.RangeF(2.0, 4.0),
		}
		if special {
			p.Col = PhosphorColor
			p.Mode = ModePhosphor
			p.MaxLife = e.rng.RangeF(specialLifeMin, specialLifeMax)
		} else {
			p.Col = col
			p.MaxLife = e.rng.RangeF(normalLifeMin, normalLifeMax)
		}
		if !pool.Spawn(p) {
			break
		}
		spawned++
	}
	return spawned
}

// EmitterSet keeps up to MaxEmitters concurrent emitters alive, spawning a
// fresh one periodically and retiring the ones past their max age.
type EmitterSet struct {
	Emitters   []*Emitter
	spawnTimer float64
	rng        *Rand
}

func NewEmitterSet(seed uint64) *EmitterSet {
	es := &EmitterSet{rng: NewRand(seed)}
	es.Emitters = append(es.Emitters, NewEmitter(es.rng.NextU64()))
	return es
}

func (es *EmitterSet) Update(dt float64, pool *ParticlePool, cfg *Config, beat bool) {
	es.spawnTimer += dt
	if es.spawnTimer >= EmitterSpawnEvery {
		es.spawnTimer = 0
		if len(es.Emitters) < MaxEmitters {
			es.Emitters = append(es.Emitters, NewEmitter(es.rng.NextU64()))
		}
	}

	live := es.Emitters[:0]
	for _, e := range es.Emitters {
		e.Update(dt, pool, cfg, beat)
		if e.Age < EmitterMaxAge {
			live = append(live, e)
		}
	}
	es.Emitters = live

	if len(es.Emitters) == 0 {
		es.Emitters = append(es.Emitters, NewEmitter(es.rng.NextU64()))
	}
}
