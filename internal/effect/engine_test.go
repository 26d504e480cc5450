package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

type hit struct {
	target *entity.Actor
	amount float64
	cause  string
}

type fakeHost struct {
	now     time.Duration
	dt      time.Duration
	player  *entity.Actor
	enemies []*entity.Actor
	hits    []hit
	loops   map[int]string
	nextID  int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		dt:     16 * time.Millisecond,
		player: entity.NewPlayer(geom.V(100, 100), 10, 100, 120),
		loops:  map[int]string{},
	}
}

func (h *fakeHost) Now() time.Duration { return h.now }
func (h *fakeHost) Delta() time.Duration { return h.dt }
func (h *fakeHost) Player() *entity.Actor { return h.player }
func (h *fakeHost) Enemies() []*entity.Actor { return h.enemies }
func (h *fakeHost) Allies() []*entity.Actor { return []*entity.Actor{h.player} }
func (h *fakeHost) Bounds() geom.Rect { return geom.Rect{Width: 800, Height: 600} }

func (h *fakeHost) Damage(t *entity.Actor, amount float64, _ *entity.Actor, cause string) float64 {
	h.hits = append(h.hits, hit{t, amount, cause})
	return t.TakeDamage(amount)
}

func (h *fakeHost) ApplyStatus(t *entity.Actor, name string, d time.Duration) {
	t.Status.Add(name, "", d, h.now)
}

func (h *fakeHost) StartLoop(cue string) int {
	h.nextID++
	h.loops[h.nextID] = cue
	return h.nextID
}

func (h *fakeHost) StopLoop(id int) { delete(h.loops, id) }

func (h *fakeHost) step() {
	h.now += h.dt
}

func TestEngineEndTimeRemovesWithoutCollision(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: SlowZone, Pos: h.player.Pos, Radius: 50, SlowFactor: 0.5,
		DamagePerSecond: 10, Duration: 100 * time.Millisecond, LoopCue: "zone_hum"})
	require.Len(t, h.loops, 1)

	h.now = 100 * time.Millisecond
	g.Advance(h)

	assert.Equal(t, 0, g.Count())
	assert.Empty(t, h.hits, "expired zone must not collide")
	assert.Empty(t, h.loops, "loop cue must be released on removal")
}

func TestEngineShockwaveRemovedOnReachingMaxRadius(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: Shockwave, Pos: geom.V(400, 400), Radius: 0, MaxRadius: 40,
		Growth: 10000, Damage: 5})

	g.Advance(h)
	assert.Equal(t, 0, g.Count(), "radius reached max, removed in the same tick")
}

func TestEngineShockwaveHitsOncePerTarget(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: Shockwave, Pos: geom.V(100, 90), Radius: 5, MaxRadius: 400,
		Growth: 60, Damage: 7})

	for i := 0; i < 10; i++ {
		g.Advance(h)
		h.step()
	}
	require.Len(t, h.hits, 1)
	assert.Equal(t, 7.0, h.hits[0].amount)
}

func TestEngineProjectileHitsPlayerAndIsRemoved(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	boss := entity.New("sniper", geom.V(300, 100), 16, 50)
	g.Spawn(h, &Effect{Kind: Projectile, Caster: boss, Pos: geom.V(104, 100), Vel: geom.V(-10, 0), Damage: 12})

	g.Advance(h)
	require.Len(t, h.hits, 1)
	assert.Equal(t, h.player, h.hits[0].target)
	assert.Equal(t, 0, g.Count())
}

func TestEngineProjectileLeavesBounds(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: Projectile, Pos: geom.V(799, 300), Vel: geom.V(1000, 0), Damage: 1})
	g.Advance(h)
	assert.Equal(t, 0, g.Count())
	assert.Empty(t, h.hits)
}

func TestEngineSlowZonesStackMultiplicatively(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: SlowZone, Pos: h.player.Pos, Radius: 50, SlowFactor: 0.5, Duration: time.Second})
	g.Spawn(h, &Effect{Kind: DilationField, Pos: h.player.Pos, Radius: 50, SlowFactor: 0.6, Duration: time.Second})
	g.Spawn(h, &Effect{Kind: SlowZone, Friendly: true, Pos: h.player.Pos, Radius: 50, SlowFactor: 0.1, Duration: time.Second})

	assert.InDelta(t, 0.3, g.SpeedFactor(h.player, h.now), 1e-9)
}

func TestEngineConeResolvesExactlyOnce(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	triggers := 0
	g.Spawn(h, &Effect{Kind: Cone, Pos: geom.V(60, 100), Dir: geom.V(1, 0), Radius: 80, Width: 0.6,
		Damage: 20, Fuse: 700 * time.Millisecond, OnTrigger: func(Host, *Effect) { triggers++ }})

	g.Advance(h)
	assert.Empty(t, h.hits, "cone does not hit before its fuse elapses")

	h.now = 700 * time.Millisecond
	g.Advance(h)
	h.step()
	g.Advance(h)

	assert.Equal(t, 1, triggers)
	assert.Len(t, h.hits, 1)
	assert.Equal(t, 0, g.Count())
}

func TestEngineReflectedProjectileNeverReflectsTwice(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	boss := entity.New("sniper", geom.V(300, 100), 16, 50)
	h.enemies = []*entity.Actor{boss}

	g.Spawn(h, &Effect{Kind: Ward, Friendly: true, Anchor: h.player, Pos: h.player.Pos, Radius: 40, Duration: time.Second})
	g.Spawn(h, &Effect{Kind: Ward, Friendly: true, Pos: geom.V(160, 100), Radius: 40, Duration: time.Second})
	id := g.Spawn(h, &Effect{Kind: Projectile, Caster: boss, Pos: geom.V(135, 100), Vel: geom.V(-200, 0), Damage: 10})

	g.Advance(h)
	p := g.Get(id)
	require.NotNil(t, p)
	assert.True(t, p.Reflected)
	assert.True(t, p.Friendly)
	assert.Nil(t, p.Caster)
	assert.Greater(t, p.Vel.X, 0.0, "retargeted toward the nearest enemy")

	for i := 0; i < 3; i++ {
		h.step()
		g.Advance(h)
		if p.Removed() {
			break
		}
		assert.True(t, p.Friendly, "second ward overlap must not flip it back")
	}
}

func TestReflectReversesWithoutTargets(t *testing.T) {
	h := newFakeHost()
	p := &Effect{Kind: Projectile, Pos: geom.V(50, 50), Vel: geom.V(-30, 0)}
	Reflect(h, p)
	assert.Equal(t, geom.V(30, 0), p.Vel)
	assert.True(t, p.Friendly)

	Reflect(h, p)
	assert.True(t, p.Friendly)
	assert.Equal(t, geom.V(30, 0), p.Vel)
}

func TestEngineChainLightningResolvesOnceWithFalloff(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	a := entity.New("minion", geom.V(150, 100), 8, 100)
	b := entity.New("minion", geom.V(200, 100), 8, 100)
	h.enemies = []*entity.Actor{a, b}

	g.Spawn(h, &Effect{Kind: ChainLightning, Friendly: true, Pos: geom.V(100, 100), Jumps: 3,
		JumpRange: 80, Damage: 20, Falloff: 0.5, Duration: 300 * time.Millisecond})

	g.Advance(h)
	h.step()
	g.Advance(h)

	require.Len(t, h.hits, 2)
	assert.Equal(t, a, h.hits[0].target)
	assert.Equal(t, 20.0, h.hits[0].amount)
	assert.Equal(t, 10.0, h.hits[1].amount)
	assert.Equal(t, 1, g.Count(), "lingers for its visual duration")
}

func TestEngineShrinkingBoxDamagesOutside(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	g.Spawn(h, &Effect{Kind: ShrinkingBox, Pos: geom.V(400, 300), HalfSize: 100, MinHalfSize: 60,
		Growth: 10, DamagePerSecond: 8, Duration: 10 * time.Second})

	g.Advance(h)
	require.Len(t, h.hits, 1)
	assert.InDelta(t, 8*h.dt.Seconds(), h.hits[0].amount, 1e-9)
}

func TestEngineClearReleasesLoops(t *testing.T) {
	h := newFakeHost()
	g := NewEngine()
	expired := 0
	g.Spawn(h, &Effect{Kind: Beam, LoopCue: "beam", Duration: time.Second, OnExpire: func(Host, *Effect) { expired++ }})
	g.Spawn(h, &Effect{Kind: GravityWell, LoopCue: "well", Duration: time.Second, OnExpire: func(Host, *Effect) { expired++ }})
	g.Clear(h)
	assert.Equal(t, 0, g.Count())
	assert.Empty(t, h.loops)
	assert.Equal(t, 2, expired)
}

func TestEngineHookRemovingEarlierEffectAdvancesOthersOnce(t *testing.T) {
	h := newFakeHost()
	h.dt = 100 * time.Millisecond
	g := NewEngine()
	boss := entity.New("warden", geom.V(300, 100), 16, 50)
	h.enemies = []*entity.Actor{boss}

	box := g.Spawn(h, &Effect{Kind: ShrinkingBox, Caster: boss, Pos: geom.V(400, 300), HalfSize: 500,
		MinHalfSize: 100, Duration: time.Second})
	g.Spawn(h, &Effect{Kind: Projectile, Friendly: true, Pos: boss.Pos, Damage: 5,
		OnHit: func(h Host, _ *Effect, target *entity.Actor) { g.RemoveByCaster(h, target) }})
	wave := g.Spawn(h, &Effect{Kind: Shockwave, Friendly: true, Pos: geom.V(600, 500), MaxRadius: 1000, Growth: 100})

	g.Advance(h)

	assert.Nil(t, g.Get(box))
	require.NotNil(t, g.Get(wave))
	assert.InDelta(t, 10.0, g.Get(wave).Radius, 1e-9, "shockwave grows once per tick")
	assert.Len(t, h.hits, 1)
}
