package engine

// GPU vertex record: 10 packed float32 fields, 40 bytes.
// pos.x, pos.y, vel.x, vel.y, color.r, color.g, color.b, color.a,
// normalized_life (0..1), size.
const (
	VertexFloats = 10
	VertexStride = VertexFloats * 4
)

func appendVertex(buf []float32, p *Particle, nlife float32) []float32 {
	return append(buf,
		float32(p.X), float32(p.Y),
		float32(p.VX), float32(p.VY),
		p.Col.R, p.Col.G, p.Col.B, p.Col.A,
		nlife,
		float32(p.Size),
	)
}

// RenderData serializes alive particles into the vertex-record format,
// split by render mode so each buffer draws in one pass with its own
// fragment program. Caller-owned buffers are reused across frames.
// When trails are on, each trail point adds a fading ghost record behind
// its particle.
func (pp *ParticlePool) RenderData(normBuf, phosBuf []float32, trails bool) ([]float32, []float32) {
	normBuf = normBuf[:0]
	phosBuf = phosBuf[:0]

	for i := range pp.p {
		p := &pp.p[i]
		if p.Life <= 0 {
			continue
		}
		nlife := float32(clampF(p.Life/p.MaxLife, 0, 1))

		dst := &normBuf
		if p.Mode == ModePhosphor {
			dst = &phosBuf
		}
		*dst = appendVertex(*dst, p, nlife)

		if !trails || p.Trail.Len() == 0 {
			continue
		}
		n := p.Trail.Len()
		for ti := 0; ti < n; ti++ {
			tx, ty := p.Trail.At(ti)
			// Oldest point is dimmest and smallest.
			fade := float32(ti+1) / float32(n+1)
			*dst = append(*dst,
				tx, ty,
				0, 0,
				p.Col.R, p.Col.G, p.Col.B, p.Col.A*fade*0.45,
				nlife*fade,
				float32(p.Size)*(0.3+0.5*fade),
			)
		}
	}
	return normBuf, phosBuf
}
