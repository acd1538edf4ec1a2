package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Canvas dimensions (in canvas pixels). Particle positions, emitters, and
// the tank battle all live in this coordinate space; the vertex shader maps
// it to NDC.
const (
	CanvasWidth  = 1024
	CanvasHeight = 768
)

// Window defaults.
const (
	WindowWidth  = 1024
	WindowHeight = 768
)

// Particle pool.
const (
	DefaultParticleCapacity = 1500
	MinParticleCapacity     = 100
	MaxParticleCapacity     = 5000
)

// Gravity: canvas px/s^2 per unit of the 0..2 config scale.
const GravityAccel = 90.0

// Audio.
const (
	MinTempo = 80.0
	MaxTempo = 180.0
)

// Config is the value object produced by whatever control surface sits on
// top of the engine. Mutating it never invalidates in-flight particles; it
// only affects future spawns and the per-frame gravity term.
type Config struct {
	Intensity        int     `yaml:"intensity"`
	ParticleCapacity int     `yaml:"particle_capacity"`
	Gravity          float64 `yaml:"gravity"`
	SpecialMode      bool    `yaml:"special_mode"`
	Trails           bool    `yaml:"trails"`
	Genre            Genre   `yaml:"genre"`
	Tempo            float64 `yaml:"tempo"`
	Volume           int     `yaml:"volume"`
	TankBattle       bool    `yaml:"tank_battle"`
}

func DefaultConfig() Config {
	return Config{
		Intensity:        60,
		ParticleCapacity: DefaultParticleCapacity,
		Gravity:          0.6,
		Trails:           true,
		Genre:            GenreSynthwave,
		Tempo:            120,
		Volume:           60,
		TankBattle:       true,
	}
}

// Normalize clamps out-of-range options in place. Bad values are clamped,
// never rejected; an unknown genre falls back to the default.
func (c *Config) Normalize() {
	c.Intensity = clamp(c.Intensity, 1, 100)
	c.ParticleCapacity = clamp(c.ParticleCapacity, MinParticleCapacity, MaxParticleCapacity)
	c.Gravity = clampF(c.Gravity, 0, 2)
	c.Tempo = clampF(c.Tempo, MinTempo, MaxTempo)
	c.Volume = clamp(c.Volume, 0, 100)
	if !c.Genre.Valid() {
		c.Genre = GenreSynthwave
	}
}

// LoadConfig reads a YAML config file. A missing file is not an error:
// the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}
