package boss

// Phaser walks a descending ladder of health thresholds. Each threshold fires at
// most once, so repeated checks in the same tick or later ticks are no-ops.
type Phaser struct {
	Thresholds []float64 // Health fractions, descending
	phase      int
}

// NewPhaser creates a ladder from the given descending thresholds.
func NewPhaser(thresholds ...float64) *Phaser {
	return &Phaser{Thresholds: thresholds}
}

// Phase returns the number of thresholds crossed so far.
func (p *Phaser) Phase() int { return p.phase }

// Check advances past every newly crossed threshold and returns how many fired.
func (p *Phaser) Check(fraction float64) int {
	fired := 0
	for p.phase < len(p.Thresholds) && fraction <= p.Thresholds[p.phase] {
		p.phase++
		fired++
	}
	return fired
}

// Once is a guard for a transition that must fire a single time.
type Once bool

// Fire returns true the first time it is called and false afterwards.
func (o *Once) Fire() bool {
	if *o {
		return false
	}
	*o = true
	return true
}
