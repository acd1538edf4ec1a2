package engine

// Update advances every live particle by dt: life decays, dead slots return
// to the free list, survivors record a trail point (pre-move position) and
// integrate velocity plus the gravity term. gravity is the 0..2 config
// scale. Runs exactly once per frame, before the renderer reads the pool.
func (pp *ParticlePool) Update(dt, gravity float64, trails bool) {
	if dt <= 0 {
		return
	}
	g := gravity * GravityAccel
	for i := range pp.p {
		p := &pp.p[i]
		if p.Life <= 0 {
			continue
		}
		p.Life -= dt
		if p.Life <= 0 {
			p.Life = 0
			pp.free = append(pp.free, i)
			continue
		}
		if trails {
			p.Trail.Push(p.X, p.Y)
		}
		p.VY += g * dt
		p.X += p.VX * dt
		p.Y += p.VY * dt
	}
}
