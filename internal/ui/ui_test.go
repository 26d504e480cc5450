package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// mockCanvas records drawn cells.
type mockCanvas struct {
	w, h  int
	cells map[[2]int]rune
	shown int
}

func newMockCanvas(w, h int) *mockCanvas {
	return &mockCanvas{w: w, h: h, cells: make(map[[2]int]rune)}
}

func (m *mockCanvas) Clear() { m.cells = make(map[[2]int]rune) }
func (m *mockCanvas) Size() (int, int) { return m.w, m.h }
func (m *mockCanvas) Show() { m.shown++ }
func (m *mockCanvas) at(x, y int) rune { return m.cells[[2]int{x, y}] }
func (m *mockCanvas) SetContent(x, y int, r rune, _ tcell.Style) {
	m.cells[[2]int{x, y}] = r
}

func (m *mockCanvas) row(y int) string {
	var b strings.Builder
	for x := 0; x < m.w; x++ {
		if r := m.at(x, y); r != 0 {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func TestLayoutRoundTrip(t *testing.T) {
	l := DefaultLayout(geom.Rect{Width: 800, Height: 480})
	if l.CellW != 10 || l.CellH != 20 {
		t.Fatalf("cell = %vx%v, want 10x20", l.CellW, l.CellH)
	}
	x, y := l.ToScreen(geom.V(405, 245))
	if x != 40 || y != 13 {
		t.Errorf("ToScreen = (%d,%d), want (40,13)", x, y)
	}
	p := l.ToArena(x, y)
	if p != geom.V(405, 250) {
		t.Errorf("ToArena = %v, want (405,250)", p)
	}
}

func TestRendererDrawsFrame(t *testing.T) {
	w := world.New(world.Options{})
	w.SetPlayer(entity.NewPlayer(geom.V(405, 245), 10, 100, 160))
	b := entity.New("splitter", geom.V(105, 45), 16, 100)
	b.Name = "Splitter"
	b.Color = "#FF6B6B"
	b.Set(entity.FlagBoss)
	w.Spawn(b)
	w.DropPickup(world.PickupHeal, geom.V(605, 45), 10)
	w.AddEffect(&effect.Effect{Kind: effect.Projectile, Pos: geom.V(205, 45), Vel: geom.V(1, 0), Duration: time.Second})

	canvas := newMockCanvas(80, 30)
	r := NewRenderer(canvas, DefaultLayout(w.Bounds()))
	f := w.Frame()
	f.Stage = 3
	f.Banner = "Stage 3"
	r.Sync(f)

	if got := canvas.at(40, 13); got != '@' {
		t.Errorf("player cell = %q, want '@'", got)
	}
	if got := canvas.at(10, 3); got != 'S' {
		t.Errorf("boss cell = %q, want 'S'", got)
	}
	if got := canvas.at(20, 3); got != 'o' {
		t.Errorf("projectile cell = %q, want 'o'", got)
	}
	if got := canvas.at(60, 3); got != (&world.Pickup{Kind: world.PickupHeal}).Glyph() {
		t.Errorf("pickup cell = %q", got)
	}
	if hud := canvas.row(0); !strings.Contains(hud, "Stage 3") || !strings.Contains(hud, "HP 100/100") {
		t.Errorf("HUD = %q", hud)
	}
	if bar := canvas.row(26); !strings.Contains(bar, "Splitter") {
		t.Errorf("boss bar row = %q", bar)
	}
	if banner := canvas.row(29); !strings.Contains(banner, "Stage 3") {
		t.Errorf("banner row = %q", banner)
	}
	if canvas.shown != 1 {
		t.Errorf("Show called %d times, want 1", canvas.shown)
	}
}

func TestRendererClipsOffscreen(t *testing.T) {
	canvas := newMockCanvas(10, 5)
	r := NewRenderer(canvas, DefaultLayout(geom.Rect{Width: 800, Height: 480}))
	r.put(-1, 0, 'x', tcell.StyleDefault)
	r.put(10, 0, 'x', tcell.StyleDefault)
	r.put(0, 5, 'x', tcell.StyleDefault)
	if len(canvas.cells) != 0 {
		t.Errorf("Expected nothing drawn, got %d cells", len(canvas.cells))
	}
}

func TestHealthBar(t *testing.T) {
	got := healthBar("Aegis", 0.5, 10)
	if !strings.HasSuffix(got, "[#####.....]") {
		t.Errorf("healthBar = %q", got)
	}
	if got := healthBar("Aegis", -1, 4); !strings.HasSuffix(got, "[....]") {
		t.Errorf("healthBar(negative) = %q", got)
	}
}

func TestInputMapperMovementDecays(t *testing.T) {
	m := NewInputMapper(DefaultLayout(geom.Rect{Width: 800, Height: 480}))
	m.Key(tcell.KeyRune, 'd')
	m.Key(tcell.KeyRune, 'w')

	in := m.Snapshot()
	want := geom.V(1, -1).Norm()
	if in.Move.Dist(want) > 1e-9 {
		t.Errorf("Move = %v, want %v", in.Move, want)
	}
	for i := 1; i < holdTicks; i++ {
		m.Snapshot()
	}
	if in := m.Snapshot(); !in.Move.IsZero() {
		t.Errorf("Move after hold = %v, want zero", in.Move)
	}
}

func TestInputMapperEdges(t *testing.T) {
	m := NewInputMapper(DefaultLayout(geom.Rect{Width: 800, Height: 480}))
	m.Mouse(40, 13, tcell.Button1)

	in := m.Snapshot()
	if !in.Primary || !in.PrimaryPressed {
		t.Errorf("first tick: Primary=%v Pressed=%v, want both true", in.Primary, in.PrimaryPressed)
	}
	if in.Aim != geom.V(405, 250) {
		t.Errorf("Aim = %v, want (405,250)", in.Aim)
	}
	in = m.Snapshot()
	if !in.Primary || in.PrimaryPressed {
		t.Errorf("held tick: Primary=%v Pressed=%v, want true/false", in.Primary, in.PrimaryPressed)
	}
	if in.Combo {
		t.Error("Expected no combo with one trigger")
	}

	m.Mouse(40, 13, tcell.Button1|tcell.Button2)
	in = m.Snapshot()
	if !in.Combo {
		t.Error("Expected combo when the second trigger joins")
	}
	if in = m.Snapshot(); in.Combo {
		t.Error("Expected combo to be an edge")
	}
}

func TestInputMapperCommands(t *testing.T) {
	m := NewInputMapper(DefaultLayout(geom.Rect{Width: 800, Height: 480}))
	m.Key(tcell.KeyRune, 'f')
	if in := m.Snapshot(); !in.Combo {
		t.Error("Expected the combo key to produce a combo edge")
	}
	m.Key(tcell.KeyRune, 'r')
	if c := m.TakeCommand(); c != CommandRestart {
		t.Errorf("TakeCommand = %v, want restart", c)
	}
	if c := m.TakeCommand(); c != CommandNone {
		t.Errorf("TakeCommand after take = %v, want none", c)
	}
	m.Key(tcell.KeyEscape, 0)
	if c := m.TakeCommand(); c != CommandQuit {
		t.Errorf("TakeCommand = %v, want quit", c)
	}
}
