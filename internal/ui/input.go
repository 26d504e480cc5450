package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// holdTicks is how long a key press keeps acting. Terminals report key repeats but
// never releases, so a press is treated as held for a few ticks.
const holdTicks = 8

// Command is a non-gameplay request from the keyboard.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandRestart
	CommandCycleCore
)

// InputMapper turns tcell key and mouse events into per-tick world.Input snapshots.
type InputMapper struct {
	layout Layout

	aim       geom.Vec2
	move      geom.Vec2
	moveTicks int

	primaryKeys   int
	secondaryKeys int
	mousePrimary  bool
	mouseSecond   bool

	wasPrimary   bool
	wasSecondary bool
	combo        bool

	Command Command
}

// NewInputMapper creates a mapper that converts screen cells through layout.
func NewInputMapper(layout Layout) *InputMapper {
	return &InputMapper{layout: layout}
}

// Handle consumes one terminal event.
func (m *InputMapper) Handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		m.Key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		m.Mouse(x, y, ev.Buttons())
	}
}

// Key applies a key press.
func (m *InputMapper) Key(key tcell.Key, ch rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		m.Command = CommandQuit
	case tcell.KeyUp:
		m.push(geom.V(0, -1))
	case tcell.KeyDown:
		m.push(geom.V(0, 1))
	case tcell.KeyLeft:
		m.push(geom.V(-1, 0))
	case tcell.KeyRight:
		m.push(geom.V(1, 0))
	case tcell.KeyRune:
		switch ch {
		case 'w', 'W':
			m.push(geom.V(0, -1))
		case 's', 'S':
			m.push(geom.V(0, 1))
		case 'a', 'A':
			m.push(geom.V(-1, 0))
		case 'd', 'D':
			m.push(geom.V(1, 0))
		case ' ', 'j', 'J':
			m.primaryKeys = holdTicks
		case 'k', 'K':
			m.secondaryKeys = holdTicks
		case 'f', 'F':
			m.combo = true
		case 'q', 'Q':
			m.Command = CommandQuit
		case 'r', 'R':
			m.Command = CommandRestart
		case 'c', 'C':
			m.Command = CommandCycleCore
		}
	}
}

// Mouse applies a mouse report: position sets the aim, left and right buttons are
// the two triggers.
func (m *InputMapper) Mouse(x, y int, buttons tcell.ButtonMask) {
	m.aim = m.layout.ToArena(x, y)
	m.mousePrimary = buttons&tcell.Button1 != 0
	m.mouseSecond = buttons&tcell.Button2 != 0
}

// push adds a direction to the held movement. Opposite directions cancel.
func (m *InputMapper) push(dir geom.Vec2) {
	if m.moveTicks == 0 {
		m.move = geom.Vec2{}
	}
	m.move = m.move.Add(dir)
	m.move.X = clampUnit(m.move.X)
	m.move.Y = clampUnit(m.move.Y)
	m.moveTicks = holdTicks
}

func clampUnit(v float64) float64 {
	return max(-1, min(1, v))
}

// Snapshot returns the input for one tick and ages held keys.
func (m *InputMapper) Snapshot() world.Input {
	primary := m.primaryKeys > 0 || m.mousePrimary
	secondary := m.secondaryKeys > 0 || m.mouseSecond

	in := world.Input{
		Aim:              m.aim,
		Primary:          primary,
		Secondary:        secondary,
		PrimaryPressed:   primary && !m.wasPrimary,
		SecondaryPressed: secondary && !m.wasSecondary,
	}
	in.Combo = m.combo || (primary && secondary && (in.PrimaryPressed || in.SecondaryPressed))
	if m.moveTicks > 0 {
		in.Move = m.move.Norm()
	}

	m.wasPrimary, m.wasSecondary = primary, secondary
	m.combo = false
	m.moveTicks = max(m.moveTicks-1, 0)
	m.primaryKeys = max(m.primaryKeys-1, 0)
	m.secondaryKeys = max(m.secondaryKeys-1, 0)
	return in
}

// TakeCommand returns and clears the pending command.
func (m *InputMapper) TakeCommand() Command {
	c := m.Command
	m.Command = CommandNone
	return c
}

// SetAim places the aim point directly, for when no mouse is reporting.
func (m *InputMapper) SetAim(p geom.Vec2) { m.aim = p }

// Aim returns the current aim point.
func (m *InputMapper) Aim() geom.Vec2 { return m.aim }
