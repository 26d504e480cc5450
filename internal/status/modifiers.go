package status

// Modifiers are the numeric stat adjustments derived from talents and equipment.
type Modifiers struct {
	DamageMultiplier       float64
	DamageTakenMultiplier  float64
	PickupRadiusBonus      float64
	EssenceGainModifier    float64
	PowerSpawnRateModifier float64
	RageImmunity           bool
}

// Neutral returns modifiers that change nothing.
func Neutral() Modifiers {
	return Modifiers{
		DamageMultiplier:       1,
		DamageTakenMultiplier:  1,
		EssenceGainModifier:    1,
		PowerSpawnRateModifier: 1,
	}
}

// Source contributes to the modifier set. Multiplier fields of zero are treated as neutral.
type Source struct {
	Name                   string
	DamageMultiplier       float64
	DamageTakenMultiplier  float64
	PickupRadiusBonus      float64
	EssenceGainModifier    float64
	PowerSpawnRateModifier float64
	RageImmunity           bool
}

func mul(acc, v float64) float64 {
	if v == 0 {
		return acc
	}
	return acc * v
}

// Compute folds sources over the neutral modifier set.
func Compute(sources ...Source) Modifiers {
	m := Neutral()
	for _, s := range sources {
		m.DamageMultiplier = mul(m.DamageMultiplier, s.DamageMultiplier)
		m.DamageTakenMultiplier = mul(m.DamageTakenMultiplier, s.DamageTakenMultiplier)
		m.EssenceGainModifier = mul(m.EssenceGainModifier, s.EssenceGainModifier)
		m.PowerSpawnRateModifier = mul(m.PowerSpawnRateModifier, s.PowerSpawnRateModifier)
		m.PickupRadiusBonus += s.PickupRadiusBonus
		m.RageImmunity = m.RageImmunity || s.RageImmunity
	}
	return m
}

// Recompute rebuilds the ledger's modifiers from scratch. It is called whenever the
// talent or equipment set changes; previous values are discarded, never adjusted.
func (l *Ledger) Recompute(sources ...Source) {
	l.Mods = Compute(sources...)
}
