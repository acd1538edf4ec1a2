package engine

import "math"

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Genre selects one of the fixed synthesis recipes.
type Genre string

const (
	GenreFunk      Genre = "funk"
	GenreElectro   Genre = "electro"
	GenreSynthwave Genre = "synthwave"
	GenreAction    Genre = "action"
	GenreAmbient   Genre = "ambient"
	GenreArcade    Genre = "arcade"
	GenreDnB       Genre = "dnb"
	GenreNoir      Genre = "noir"
)

var Genres = []Genre{
	GenreFunk, GenreElectro, GenreSynthwave, GenreAction,
	GenreAmbient, GenreArcade, GenreDnB, GenreNoir,
}

func (g Genre) Valid() bool {
	for _, k := range Genres {
		if g == k {
			return true
		}
	}
	return false
}

// NextGenre cycles through the genre list.
func NextGenre(g Genre) Genre {
	for i, k := range Genres {
		if g == k {
			return Genres[(i+1)%len(Genres)]
		}
	}
	return Genres[0]
}

// BandLevels is the per-beat energy readout, normalized to 0..1.
type BandLevels struct {
	Bass, Mid, Treble float64
}

// AudioSnapshot is the point-in-time readout visual producers query.
// Beat is true when a beat occurred since the previous snapshot.
type AudioSnapshot struct {
	Bass, Mid, Treble float64
	Beat              bool
}

type waveKind uint8

const (
	waveSine waveKind = iota
	waveTri
	waveSquare
	waveFM
)

// genreProfile is one fixed recipe: chord table, 16-step drum/bass
// patterns, a 16-note lead line (0 = rest), and waveform choices.
type genreProfile struct {
	chords   [][]float64
	kick     [16]bool
	snare    [16]bool
	hat      [16]bool
	hatOpen  bool
	bass     [16]bool
	lead     [16]float64
	leadWave waveKind
	bassWave waveKind
	padGain  float64
}

var genreProfiles = map[Genre]*genreProfile{
	GenreFunk: {
		chords: [][]float64{
			{146.8, 174.6, 220.0}, // Dm7
			{130.8, 164.8, 196.0}, // Cmaj7
			{116.5, 146.8, 174.6}, // Bbmaj7
			{110.0, 138.6, 164.8}, // Am7
		},
		kick:  steps("x...x..x..x...x."),
		snare: steps("....x.......x..x"),
		hat:   steps("x.x.x.x.x.x.x.xx"),
		bass:  steps("x..x..x...x..x.."),
		lead: [16]float64{
			440.0, 0, 523.25, 0, 587.33, 0, 523.25, 440.0,
			0, 392.0, 0, 440.0, 523.25, 0, 587.33, 0,
		},
		leadWave: waveFM, bassWave: waveFM, padGain: 0.05,
	},
	GenreElectro: {
		chords: [][]float64{
			{82.4, 103.8, 123.5},
			{73.4, 92.5, 110.0},
			{65.4, 82.4, 98.0},
			{69.3, 87.3, 103.8},
		},
		kick:  steps("x...x...x...x..."),
		snare: steps("....x.......x..."),
		hat:   steps("..x...x...x...x."),
		bass:  steps("x.x.x.x.x.x.x.x."),
		lead: [16]float64{
			329.63, 0, 0, 311.13, 0, 0, 329.63, 0,
			369.99, 0, 0, 329.63, 0, 311.13, 0, 0,
		},
		leadWave: waveSquare, bassWave: waveFM, padGain: 0.03,
	},
	GenreSynthwave: {
		chords: [][]float64{
			{110.0, 138.6, 164.8, 207.7}, // Am(add9)
			{87.3, 110.0, 130.8, 174.6},  // Fmaj7
			{98.0, 123.5, 146.8, 196.0},  // G
			{130.8, 164.8, 196.0, 246.9}, // Cmaj7
		},
		kick:  steps("x...x...x...x..."),
		snare: steps("....x.......x..."),
		hat:   steps("x.x.x.x.x.x.x.x."),
		bass:  steps("x..xx..xx..xx..x"),
		lead: [16]float64{
			440.0, 0, 493.88, 523.25, 0, 493.88, 440.0, 0,
			392.0, 0, 440.0, 0, 493.88, 440.0, 392.0, 0,
		},
		leadWave: waveFM, bassWave: waveTri, padGain: 0.08,
	},
	GenreAction: {
		chords: [][]float64{
			{82.4, 98.0, 123.5},
			{77.8, 92.5, 116.5},
			{73.4, 87.3, 110.0},
			{87.3, 103.8, 130.8},
		},
		kick:  steps("x.x.x.x.x.x.x.x."),
		snare: steps("....x..x....x..x"),
		hat:   steps("xxxxxxxxxxxxxxxx"),
		bass:  steps("xxxxxxxxxxxxxxxx"),
		lead: [16]float64{
			659.25, 0, 622.25, 0, 659.25, 698.46, 0, 659.25,
			0, 587.33, 0, 659.25, 0, 0, 698.46, 783.99,
		},
		leadWave: waveSquare, bassWave: waveSquare, padGain: 0.02,
	},
	GenreAmbient: {
		chords: [][]float64{
			{110.0, 164.8, 220.0, 277.2},
			{98.0, 146.8, 196.0, 246.9},
			{87.3, 130.8, 174.6, 220.0},
			{103.8, 155.6, 207.7, 261.6},
		},
		kick:  steps("x.......x......."),
		snare: steps("................"),
		hat:   steps("....x.......x..."),
		bass:  steps("x.......x......."),
		lead: [16]float64{
			523.25, 0, 0, 0, 587.33, 0, 0, 0,
			659.25, 0, 0, 0, 587.33, 0, 0, 0,
		},
		leadWave: waveSine, bassWave: waveSine, padGain: 0.12,
	},
	GenreArcade: {
		chords: [][]float64{
			{130.8, 164.8, 196.0},
			{146.8, 185.0, 220.0},
			{164.8, 207.7, 246.9},
			{123.5, 155.6, 185.0},
		},
		kick:  steps("x...x...x...x..."),
		snare: steps("..x...x...x...x."),
		hat:   steps("x.x.x.x.x.x.x.x."),
		bass:  steps("x.x.x.x.x.x.x.x."),
		lead: [16]float64{
			523.25, 587.33, 659.25, 783.99, 659.25, 587.33, 523.25, 0,
			587.33, 659.25, 698.46, 880.0, 698.46, 659.25, 587.33, 0,
		},
		leadWave: waveSquare, bassWave: waveSquare, padGain: 0.0,
	},
	GenreDnB: {
		chords: [][]float64{
			{61.7, 92.5, 123.5},
			{55.0, 82.4, 110.0},
			{65.4, 98.0, 130.8},
			{49.0, 73.4, 98.0},
		},
		kick:  steps("x.....x...x....."),
		snare: steps("....x.......x..x"),
		hat:   steps("xxxxxxxxxxxxxxxx"),
		bass:  steps("x..x.x..x..x.x.."),
		lead: [16]float64{
			0, 0, 493.88, 0, 0, 440.0, 0, 0,
			523.25, 0, 0, 493.88, 0, 0, 440.0, 0,
		},
		leadWave: waveFM, bassWave: waveFM, padGain: 0.02,
		hatOpen: true,
	},
	GenreNoir: {
		chords: [][]float64{
			{92.5, 110.0, 138.6},
			{82.4, 98.0, 123.5},
			{103.8, 123.5, 155.6},
			{77.8, 92.5, 116.5},
		},
		kick:  steps("x.......x......."),
		snare: steps("........x......."),
		hat:   steps("..x...x...x...x."),
		bass:  steps("x...x...x...x..."),
		lead: [16]float64{
			293.66, 0, 0, 311.13, 0, 0, 0, 293.66,
			0, 0, 261.63, 0, 0, 0, 0, 0,
		},
		leadWave: waveSine, bassWave: waveTri, padGain: 0.09,
	},
}

// steps parses a 16-char pattern string: 'x' on, anything else off.
func steps(s string) [16]bool {
	var out [16]bool
	for i := 0; i < 16 && i < len(s); i++ {
		out[i] = s[i] == 'x'
	}
	return out
}

// ---- Instruments (per-sample, driven by time since trigger) --------------

// softSat applies gentle tanh-like saturation, no harsh clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func triWave(phase float64) float64 {
	return (2.0 / math.Pi) * math.Asin(math.Sin(phase))
}

func softSquareWave(phase float64) float64 {
	return math.Tanh(math.Sin(phase) * 3.4)
}

// kick: pitch-swept sine with a transient click.
func kick(trig float64) float64 {
	if trig > 0.25 {
		return 0
	}
	phase := 2 * math.Pi * 185 / 12.5 * (1 - math.Exp(-trig*12.5))
	body := math.Sin(phase) * math.Exp(-trig*18.0) * 0.80
	click := math.Sin(2*math.Pi*2100*trig) * math.Exp(-trig*250.0) * 0.24
	return softSat(body + click)
}

// snare: tonal body plus band noise.
func snare(trig float64, seed *uint64) float64 {
	if trig > 0.2 {
		return 0
	}
	env := math.Exp(-trig * 26.0)
	body := (math.Sin(2*math.Pi*188*trig)*0.24 + math.Sin(2*math.Pi*356*trig)*0.10) * env
	n1 := lcg(seed)
	n2 := lcg(seed)
	bandNoise := (n1 - n2*0.55) * env * (0.55 + 0.25*math.Exp(-trig*8.0))
	return softSat(body + bandNoise)
}

// hihat: metallic noise burst. open=true for longer decay.
func hihat(trig float64, open bool, seed *uint64) float64 {
	decay := 42.0
	limit := 0.06
	if open {
		decay = 15.0
		limit = 0.18
	}
	if trig > limit {
		return 0
	}
	n := lcg(seed)
	metal := math.Sin(2*math.Pi*7300*trig) + math.Sin(2*math.Pi*9200*trig)*0.6
	return softSat((n*0.8 + metal*0.2) * math.Exp(-trig*decay) * 0.07)
}

func voice(kind waveKind, t, freq, env float64) float64 {
	ph := 2 * math.Pi * freq * t
	switch kind {
	case waveTri:
		return triWave(ph) * env
	case waveSquare:
		return softSquareWave(ph) * env
	case waveFM:
		return fm(t, freq, 1.55, 2.4*env) * env
	default:
		return math.Sin(ph) * env
	}
}

// ---- Synth ---------------------------------------------------------------

// Synth renders one beat of audio at a time for the selected genre.
// It is pure state-machine code with no device dependency; AudioEngine
// owns the scheduling and playback around it.
type Synth struct {
	genre Genre
	beat  int // 0..15, drives step patterns and chord changes
	t     float64
	seed  uint64
}

func NewSynth(genre Genre) *Synth {
	if !genre.Valid() {
		genre = GenreSynthwave
	}
	return &Synth{genre: genre, seed: 0x5EED}
}

func (s *Synth) Genre() Genre { return s.genre }
func (s *Synth) Beat() int    { return s.beat }

// Reset switches genre and restarts the beat counter so the melodic
// pattern begins from its first note.
func (s *Synth) Reset(genre Genre) {
	if genre.Valid() {
		s.genre = genre
	}
	s.beat = 0
}

// RenderBeat synthesizes one beat's worth of stereo float32-LE samples at
// the given tempo, advances the beat counter modulo 16, and reports the
// RMS energy of the low/mid/high instrument groups.
func (s *Synth) RenderBeat(tempo float64) ([]byte, BandLevels) {
	tempo = clampF(tempo, MinTempo, MaxTempo)
	prof := genreProfiles[s.genre]
	beatLen := 60.0 / tempo
	n := int(beatLen * SampleRate)
	buf := make([]byte, n*8)

	step := s.beat
	chord := prof.chords[(s.beat/4)%len(prof.chords)]
	note := prof.lead[step]

	var lowSum, midSum, highSum float64
	for i := 0; i < n; i++ {
		trig := float64(i) / SampleRate
		p := trig / beatLen

		low, mid, high := 0.0, 0.0, 0.0

		if prof.kick[step] {
			low += kick(trig)
		}
		if prof.bass[step] {
			bEnv := adsr(p, 0.02, 0.5, 0.3, 0.2)
			low += voice(prof.bassWave, s.t, chord[0]/2, bEnv) * 0.5
		}

		if prof.snare[step] {
			mid += snare(trig, &s.seed) * 0.8
		}
		if prof.padGain > 0 {
			for _, freq := range chord {
				mid += math.Sin(2*math.Pi*freq*s.t) * prof.padGain
			}
		}

		if note > 0 {
			lEnv := adsr(p, 0.02, 0.4, 0.3, 0.25)
			high += voice(prof.leadWave, s.t, note, lEnv) * 0.3
		}
		if prof.hat[step] {
			high += hihat(trig, prof.hatOpen, &s.seed)
		}

		s.t += 1.0 / SampleRate
		putStereoF32(buf, i, softSat((low+mid+high)*0.8))

		lowSum += low * low
		midSum += mid * mid
		highSum += high * high
	}

	fn := float64(n)
	bands := BandLevels{
		Bass:   clampF(math.Sqrt(lowSum/fn)*2.4, 0, 1),
		Mid:    clampF(math.Sqrt(midSum/fn)*3.2, 0, 1),
		Treble: clampF(math.Sqrt(highSum/fn)*5.0, 0, 1),
	}

	s.beat = (s.beat + 1) % 16
	return buf, bands
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}
