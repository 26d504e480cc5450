package ui

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/gamedata"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// Layout maps arena coordinates to terminal cells. Terminal cells are about twice as
// tall as they are wide, so a cell covers CellW by CellH arena units.
type Layout struct {
	Origin geom.Vec2
	CellW  float64
	CellH  float64
	Top    int // Rows reserved above the arena for the HUD
}

// DefaultLayout fits the arena into 80 columns under a one-line HUD.
func DefaultLayout(bounds geom.Rect) Layout {
	cw := bounds.Width / 80
	return Layout{
		Origin: geom.V(bounds.X, bounds.Y),
		CellW:  cw,
		CellH:  cw * 2,
		Top:    1,
	}
}

// ToScreen returns the cell containing p.
func (l Layout) ToScreen(p geom.Vec2) (int, int) {
	x := int(math.Floor((p.X - l.Origin.X) / l.CellW))
	y := int(math.Floor((p.Y-l.Origin.Y)/l.CellH)) + l.Top
	return x, y
}

// ToArena returns the arena point at the centre of a cell.
func (l Layout) ToArena(x, y int) geom.Vec2 {
	return geom.V(
		l.Origin.X+(float64(x)+0.5)*l.CellW,
		l.Origin.Y+(float64(y-l.Top)+0.5)*l.CellH,
	)
}

// Renderer draws a world.Frame onto a Canvas. It implements world.Renderer.
type Renderer struct {
	canvas Canvas
	Layout Layout
	colors map[string]tcell.Color
}

var _ world.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer for the given canvas and layout.
func NewRenderer(canvas Canvas, layout Layout) *Renderer {
	return &Renderer{canvas: canvas, Layout: layout, colors: make(map[string]tcell.Color)}
}

// Sync redraws the whole frame.
func (r *Renderer) Sync(f world.Frame) {
	r.canvas.Clear()
	r.drawArena(f)
	for _, e := range f.Effects {
		if isField(e.Kind) {
			r.drawEffect(e)
		}
	}
	for _, p := range f.Pickups {
		x, y := r.Layout.ToScreen(p.Pos)
		r.put(x, y, p.Glyph(), tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	}
	for _, e := range f.Effects {
		if !isField(e.Kind) {
			r.drawEffect(e)
		}
	}
	for _, a := range f.Actors {
		if a.Alive() {
			r.drawActor(a)
		}
	}
	if f.Player.Alive() {
		x, y := r.Layout.ToScreen(f.Player.Pos)
		r.put(x, y, '@', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
	r.drawHUD(f)
	r.canvas.Show()
}

func isField(k effect.Kind) bool {
	switch k {
	case effect.SlowZone, effect.DilationField, effect.GravityWell, effect.Ward, effect.Rune:
		return true
	}
	return false
}

func (r *Renderer) drawArena(f world.Frame) {
	if f.Arena == nil {
		return
	}
	floor := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	pillar := tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true)
	for row := 0; row < f.Arena.Rows; row++ {
		for col := 0; col < f.Arena.Cols; col++ {
			t := f.Arena.Tiles[row][col]
			if t == world.TileFloor {
				continue
			}
			cell := geom.V(
				f.Bounds.X+(float64(col)+0.5)*world.CellSize,
				f.Bounds.Y+(float64(row)+0.5)*world.CellSize,
			)
			x, y := r.Layout.ToScreen(cell)
			r.put(x, y, t.Rune(), pillar)
		}
	}
	w := int(f.Bounds.Width / r.Layout.CellW)
	h := int(f.Bounds.Height / r.Layout.CellH)
	for x := 0; x < w; x++ {
		r.put(x, r.Layout.Top+h, '-', floor)
	}
}

func (r *Renderer) drawEffect(e *effect.Effect) {
	st := e.Style()
	style := tcell.StyleDefault.Foreground(r.color(st.Color))
	switch e.Kind {
	case effect.Shockwave:
		r.ring(e.Pos, e.Radius, st.Glyph, style)
	case effect.SlowZone, effect.DilationField, effect.GravityWell, effect.Ward, effect.Rune:
		r.disc(e.Pos, st.Radius, st.Glyph, style.Dim(true))
	case effect.Beam:
		r.line(e.Pos, e.Pos.Add(e.Dir.Scale(e.Length)), st.Glyph, style)
	case effect.ChainLightning:
		for i := 1; i < len(e.Chain); i++ {
			r.line(e.Chain[i-1], e.Chain[i], st.Glyph, style)
		}
	case effect.ShrinkingBox:
		r.box(e.Pos, e.HalfSize, st.Glyph, style)
	case effect.Cone:
		for _, da := range []float64{-e.Width, 0, e.Width} {
			r.line(e.Pos, e.Pos.Add(e.Dir.Rotate(da).Scale(e.Radius)), st.Glyph, style)
		}
	default:
		x, y := r.Layout.ToScreen(e.Pos)
		r.put(x, y, st.Glyph, style)
	}
}

func (r *Renderer) drawActor(a *entity.Actor) {
	glyph := '?'
	if a.Name != "" {
		glyph = rune(a.Name[0])
	}
	style := tcell.StyleDefault.Foreground(r.color(a.Color))
	switch {
	case a.IsBoss():
		glyph = unicode.ToUpper(glyph)
		style = style.Bold(true)
	default:
		glyph = unicode.ToLower(glyph)
	}
	if a.Has(entity.FlagFrozen) || a.Has(entity.FlagPetrified) {
		style = style.Reverse(true)
	}
	if a.Has(entity.FlagUntargetable) {
		style = style.Dim(true)
	}
	x, y := r.Layout.ToScreen(a.Pos)
	r.put(x, y, glyph, style)
}

func (r *Renderer) drawHUD(f world.Frame) {
	p := f.Player
	var b strings.Builder
	if p != nil {
		fmt.Fprintf(&b, "HP %3.0f/%-3.0f", math.Max(p.Health, 0), p.MaxHealth)
		if p.Shield > 0 {
			fmt.Fprintf(&b, " [%d]", p.Shield)
		}
		fmt.Fprintf(&b, "  Lv %d", p.Level)
	}
	fmt.Fprintf(&b, "  Stage %d  Essence %d", f.Stage, f.Essence)
	if f.Power != "" {
		fmt.Fprintf(&b, "  Power %s", f.Power)
	}
	if f.Core != "" {
		fmt.Fprintf(&b, "  Core %s", f.Core)
	}
	r.text(0, 0, b.String(), tcell.StyleDefault.Foreground(tcell.ColorWhite))

	_, height := r.canvas.Size()
	row := r.Layout.Top + int(f.Bounds.Height/r.Layout.CellH) + 1
	for _, a := range f.Actors {
		if !a.IsBoss() || !a.Alive() || row >= height-1 {
			continue
		}
		r.text(0, row, healthBar(a.Name, a.HealthFraction(), 20), tcell.StyleDefault.Foreground(r.color(a.Color)))
		row++
	}
	if f.Banner != "" {
		r.text(0, height-1, f.Banner, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
}

// healthBar renders "Name [#####.....]".
func healthBar(name string, frac float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, frac)) * float64(width)))
	return fmt.Sprintf("%-14s [%s%s]", name, strings.Repeat("#", filled), strings.Repeat(".", width-filled))
}

// ============================================================================
// Primitives
// ============================================================================

func (r *Renderer) put(x, y int, ch rune, style tcell.Style) {
	w, h := r.canvas.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	r.canvas.SetContent(x, y, ch, style)
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.put(x+i, y, ch, style)
	}
}

func (r *Renderer) ring(c geom.Vec2, radius float64, ch rune, style tcell.Style) {
	steps := max(8, int(radius/2))
	for _, p := range geom.Ring(c, radius, steps, 0) {
		x, y := r.Layout.ToScreen(p)
		r.put(x, y, ch, style)
	}
}

func (r *Renderer) disc(c geom.Vec2, radius float64, ch rune, style tcell.Style) {
	x0, y0 := r.Layout.ToScreen(c.Sub(geom.V(radius, radius)))
	x1, y1 := r.Layout.ToScreen(c.Add(geom.V(radius, radius)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if r.Layout.ToArena(x, y).Dist(c) <= radius {
				r.put(x, y, ch, style)
			}
		}
	}
}

func (r *Renderer) line(a, b geom.Vec2, ch rune, style tcell.Style) {
	steps := max(1, int(a.Dist(b)/(r.Layout.CellW/2)))
	for i := 0; i <= steps; i++ {
		x, y := r.Layout.ToScreen(a.Lerp(b, float64(i)/float64(steps)))
		r.put(x, y, ch, style)
	}
}

func (r *Renderer) box(c geom.Vec2, half float64, ch rune, style tcell.Style) {
	tl := c.Sub(geom.V(half, half))
	tr := c.Add(geom.V(half, -half))
	bl := c.Add(geom.V(-half, half))
	br := c.Add(geom.V(half, half))
	r.line(tl, tr, ch, style)
	r.line(tr, br, ch, style)
	r.line(br, bl, ch, style)
	r.line(bl, tl, ch, style)
}

// color parses and caches a hex colour; unparsable or empty strings draw white.
func (r *Renderer) color(hex string) tcell.Color {
	if c, ok := r.colors[hex]; ok {
		return c
	}
	c, err := gamedata.ParseHexColor(hex)
	if err != nil {
		c = tcell.ColorWhite
	}
	r.colors[hex] = c
	return c
}
