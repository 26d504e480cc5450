package entity

// HealthPool is a single health value shared by several linked actors.
// Every mutation copies the authoritative value into each member's Health field.
type HealthPool struct {
	ID      string
	Health  float64
	Max     float64
	Members []*Actor
}

// NewPool creates a pool with the given maximum and joins the members to it.
func NewPool(id string, max float64, members ...*Actor) *HealthPool {
	p := &HealthPool{ID: id, Health: max, Max: max}
	for _, m := range members {
		p.Join(m)
	}
	return p
}

// Join adds an actor to the pool and overwrites its health with the pool's.
func (p *HealthPool) Join(a *Actor) {
	if a == nil {
		return
	}
	a.Pool = p
	a.MaxHealth = p.Max
	a.Health = p.Health
	p.Members = append(p.Members, a)
}

// Damage subtracts from the pool and returns the amount applied.
func (p *HealthPool) Damage(amount float64) float64 {
	if amount <= 0 || p.Health <= 0 {
		return 0
	}
	actual := amount
	if actual > p.Health {
		actual = p.Health
	}
	p.Health -= actual
	p.Sync()
	return actual
}

// Heal adds to the pool up to its maximum and returns the amount applied.
func (p *HealthPool) Heal(amount float64) float64 {
	if amount <= 0 || p.Health <= 0 {
		return 0
	}
	actual := amount
	if p.Health+actual > p.Max {
		actual = p.Max - p.Health
	}
	p.Health += actual
	p.Sync()
	return actual
}

// Sync copies the authoritative health into every member that is still present.
func (p *HealthPool) Sync() {
	for _, m := range p.Members {
		if m == nil || m.Has(FlagDead) {
			continue
		}
		m.Health = p.Health
		m.MaxHealth = p.Max
	}
}

// Depleted reports whether the pool has run out.
func (p *HealthPool) Depleted() bool { return p.Health <= 0 }

// Living returns the members that are still alive.
func (p *HealthPool) Living() []*Actor {
	var out []*Actor
	for _, m := range p.Members {
		if m.Alive() {
			out = append(out, m)
		}
	}
	return out
}
