package boss

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

func newTestWorld(t *testing.T) (*world.World, *Registry) {
	t.Helper()
	w := world.New(world.Options{Seed: 7})
	w.SetPlayer(entity.NewPlayer(geom.V(100, 100), 10, 100, 120))
	reg := MustLoadRegistry(nil)
	w.Behaviors = reg
	return w, reg
}

// tick advances time and runs due tasks plus the logic of every living actor.
func tick(w *world.World, reg *Registry, dt time.Duration) {
	w.Advance(dt)
	w.Scheduler.RunDue(w, w.Now())
	for _, a := range append([]*entity.Actor(nil), w.Actors...) {
		reg.Logic(w, a)
	}
}

func TestRegistryCoversEveryDefinition(t *testing.T) {
	_, reg := newTestWorld(t)
	assert.Len(t, reg.IDs(), 33)
	for _, id := range reg.IDs() {
		require.NotNil(t, reg.Hooks(id).Logic, id)
	}
}

func TestSpawnUnknownBoss(t *testing.T) {
	w, reg := newTestWorld(t)
	a, err := reg.Spawn(w, "nonexistent", geom.V(300, 200))
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, ErrUnknownBoss))
	assert.Empty(t, w.Actors)
}

func TestSplitterDiesIntoTwoWaves(t *testing.T) {
	w, reg := newTestWorld(t)
	center := w.Arena.Center()
	s, err := reg.Spawn(w, "splitter", center)
	require.NoError(t, err)
	assert.Equal(t, 96.0, s.MaxHealth)
	assert.True(t, s.Alive())
	assert.True(t, s.IsBoss())

	w.Damage(s, 500, w.Player(), "test")
	require.False(t, s.Alive())

	first := w.Owned(s)
	require.Len(t, first, 6)
	for _, m := range first {
		assert.InDelta(t, 60, m.Pos.Dist(center), 0.5)
	}

	w.Advance(100 * time.Millisecond)
	w.Scheduler.RunDue(w, w.Now())
	assert.Len(t, w.Owned(s), 6, "second wave waits for its delay")

	w.Advance(200 * time.Millisecond)
	w.Scheduler.RunDue(w, w.Now())
	all := w.Owned(s)
	require.Len(t, all, 12)
	for _, m := range all[6:] {
		assert.InDelta(t, 110, m.Pos.Dist(center), 0.5)
	}

	w.Advance(time.Second)
	w.Scheduler.RunDue(w, w.Now())
	assert.Len(t, w.Owned(s), 12, "exactly two waves")
}

func TestTwinSurvivorEnragesOnce(t *testing.T) {
	w, reg := newTestWorld(t)
	sol, err := reg.Spawn(w, "twin_sol", geom.V(400, 240))
	require.NoError(t, err)
	luna := sol.Partner
	require.NotNil(t, luna)
	assert.Equal(t, sol, luna.Partner)
	assert.Len(t, w.Bosses(), 2)

	base := sol.Speed
	w.Kill(luna, nil)

	for i := 0; i < 5; i++ {
		tick(w, reg, 16*time.Millisecond)
	}
	assert.True(t, sol.Has(entity.FlagEnraged))
	assert.InDelta(t, base*1.5, sol.Speed, 1e-9, "enrage applied exactly once")
}

func TestPhaserFiresOncePerThreshold(t *testing.T) {
	p := NewPhaser(0.75, 0.5, 0.25)
	assert.Equal(t, 1, p.Check(0.7))
	assert.Equal(t, 0, p.Check(0.7))
	assert.Equal(t, 2, p.Check(0.2))
	assert.Equal(t, 0, p.Check(0.1))
	assert.Equal(t, 3, p.Phase())

	var o Once
	assert.True(t, o.Fire())
	assert.False(t, o.Fire())
}

func TestBroodmawWaveIsIdempotentWithinTick(t *testing.T) {
	w, reg := newTestWorld(t)
	b, err := reg.Spawn(w, "broodmaw", geom.V(400, 240))
	require.NoError(t, err)
	b.Health = b.MaxHealth * 0.7

	reg.Logic(w, b)
	reg.Logic(w, b)
	assert.Equal(t, 5, w.CountKind("minion", b))
}

func TestSentinelsShareOnePool(t *testing.T) {
	w, reg := newTestWorld(t)
	a, err := reg.Spawn(w, "sentinel_a", geom.V(200, 150))
	require.NoError(t, err)
	b := a.Partner
	require.NotNil(t, b)
	require.NotNil(t, a.Pool)
	assert.Same(t, a.Pool, b.Pool)

	w.Damage(b, 60, w.Player(), "test")
	assert.Equal(t, a.Health, b.Health)
	assert.Equal(t, a.MaxHealth-60, a.Health)

	w.Damage(a, 10_000, w.Player(), "test")
	assert.False(t, a.Alive())
	assert.False(t, b.Alive())
}

func TestFractalShardsReportBossHealth(t *testing.T) {
	w, reg := newTestWorld(t)
	f, err := reg.Spawn(w, "fractal", geom.V(400, 240))
	require.NoError(t, err)
	shards := w.Owned(f)
	require.Len(t, shards, 3)

	w.Damage(shards[1], 40, w.Player(), "test")
	for _, s := range shards {
		assert.Equal(t, f.Health, s.Health)
	}
	assert.Equal(t, 320.0, f.Health)
}

func TestChargerDashCancelledByDeath(t *testing.T) {
	w, reg := newTestWorld(t)
	c, err := reg.Spawn(w, "charger", geom.V(400, 240))
	require.NoError(t, err)

	tick(w, reg, 3600*time.Millisecond)
	st := c.State.(*chargeState)
	require.True(t, st.Charging)
	assert.True(t, c.Vel.IsZero())

	w.Kill(c, nil)
	tick(w, reg, time.Second)
	assert.True(t, st.Charging, "deferred dash must not run for a dead charger")
	assert.True(t, c.Vel.IsZero())
}

func TestChargerDashesAfterTelegraph(t *testing.T) {
	w, reg := newTestWorld(t)
	c, err := reg.Spawn(w, "charger", geom.V(400, 100))
	require.NoError(t, err)

	tick(w, reg, 3600*time.Millisecond)
	tick(w, reg, time.Second)
	st := c.State.(*chargeState)
	assert.False(t, st.Charging)
	assert.Less(t, c.Vel.X, 0.0, "dashing toward the snapshotted player position")
	assert.InDelta(t, dashSpeed, c.Vel.Len(), 1e-6)
}

func TestAegisWardHealsInsteadOfDamage(t *testing.T) {
	w, reg := newTestWorld(t)
	a, err := reg.Spawn(w, "aegis", geom.V(400, 240))
	require.NoError(t, err)
	a.Health = 100

	tick(w, reg, 7100*time.Millisecond)
	w.Damage(a, 30, w.Player(), "test")
	assert.Equal(t, 130.0, a.Health)

	tick(w, reg, 2500*time.Millisecond)
	w.Damage(a, 30, w.Player(), "test")
	assert.Equal(t, 100.0, a.Health)
}

func TestMirrorReflectsPartOfPlayerDamage(t *testing.T) {
	w, reg := newTestWorld(t)
	m, err := reg.Spawn(w, "mirror", geom.V(400, 240))
	require.NoError(t, err)

	w.Damage(m, 50, w.Player(), "test")
	assert.Equal(t, 85.0, w.Player().Health)

	w.Damage(m, 50, m, "self")
	assert.Equal(t, 85.0, w.Player().Health, "only player-side damage is reflected")
}

func TestPantheonAspectsUseIsolatedState(t *testing.T) {
	w, reg := newTestWorld(t)
	p, err := reg.Spawn(w, "pantheon", geom.V(400, 240))
	require.NoError(t, err)
	sniper, err := reg.Spawn(w, "sniper", geom.V(600, 240))
	require.NoError(t, err)

	tick(w, reg, 4100*time.Millisecond)
	st := p.State.(*pantheonState)
	require.Equal(t, []string{"sniper"}, st.Active())
	aspect := st.Aspects["sniper"]
	assert.NotSame(t, sniper.State, aspect.State)

	// The aspect fired on its own timer; the template actor's timer is untouched by it.
	own := sniper.State.(*castState)
	borrowed := aspect.State.(*castState)
	assert.Equal(t, w.Now(), borrowed.LastCast)
	assert.Equal(t, w.Now(), own.LastCast)
	borrowed.LastCast = 0
	assert.Equal(t, w.Now(), own.LastCast)

	for i := 0; i < 3; i++ {
		tick(w, reg, 4100*time.Millisecond)
	}
	assert.LessOrEqual(t, len(st.Active()), maxAspects)

	tick(w, reg, 10*time.Second)
	tick(w, reg, 10*time.Millisecond)
	for _, id := range st.Active() {
		assert.Greater(t, st.Aspects[id].Expires, w.Now())
	}
}

func TestPantheonBorrowsDamageAndDeathHooks(t *testing.T) {
	w, reg := newTestWorld(t)
	p, err := reg.Spawn(w, "pantheon", geom.V(400, 240))
	require.NoError(t, err)

	tick(w, reg, 4100*time.Millisecond)
	tick(w, reg, 4100*time.Millisecond)
	st := p.State.(*pantheonState)
	require.Equal(t, []string{"sniper", "aegis"}, st.Active())
	borrowed := st.Aspects["aegis"].State.(*aegisState)
	require.Greater(t, borrowed.WardUntil, w.Now(), "the borrowed logic raised the ward")

	template, err := reg.Spawn(w, "aegis", geom.V(600, 240))
	require.NoError(t, err)
	assert.NotSame(t, template.State, st.Aspects["aegis"].State)

	// The ward lives in the aspect's state: the pantheon converts the hit, the template
	// aegis, whose own state never warded, takes it.
	assert.Equal(t, 0.0, w.Damage(p, 20, w.Player(), "test"))
	assert.Equal(t, p.MaxHealth, p.Health)
	assert.Equal(t, 20.0, w.Damage(template, 20, w.Player(), "test"))
	assert.Zero(t, template.State.(*aegisState).WardUntil)

	tick(w, reg, 4100*time.Millisecond)
	require.Contains(t, st.Active(), "lich")
	skeleton, err := reg.SpawnMinion(w, "skeleton", geom.V(420, 240), p)
	require.NoError(t, err)

	w.Kill(p, w.Player())
	assert.False(t, skeleton.Alive(), "the borrowed death hook cuts the composite's summons")
}

func TestWardenDeathRetiresItsEffects(t *testing.T) {
	w, reg := newTestWorld(t)
	warden, err := reg.Spawn(w, "warden", geom.V(400, 240))
	require.NoError(t, err)
	tick(w, reg, 2600*time.Millisecond)

	cast := func() int {
		n := 0
		for _, e := range w.Effects.Active() {
			if e.Caster == warden {
				n++
			}
		}
		return n
	}
	require.Equal(t, 2, cast(), "box plus one volley")

	w.Kill(warden, w.Player())
	assert.Zero(t, cast())
}

func TestHooksTolerateMissingPartner(t *testing.T) {
	w, reg := newTestWorld(t)
	luna, err := reg.Spawn(w, "twin_luna", geom.V(400, 240))
	require.NoError(t, err)
	assert.Nil(t, luna.Partner)
	assert.NotPanics(t, func() { tick(w, reg, 16*time.Millisecond) })
	assert.False(t, luna.Has(entity.FlagEnraged))
}

func TestEveryBossSurvivesAFewSeconds(t *testing.T) {
	for _, id := range MustLoadRegistry(nil).IDs() {
		t.Run(id, func(t *testing.T) {
			w, reg := newTestWorld(t)
			_, err := reg.Spawn(w, id, geom.V(500, 240))
			require.NoError(t, err)
			assert.NotPanics(t, func() {
				for i := 0; i < 600; i++ {
					tick(w, reg, 16*time.Millisecond)
					w.Effects.Advance(w)
					w.Contacts()
					w.Cleanup()
				}
			})
		})
	}
}
