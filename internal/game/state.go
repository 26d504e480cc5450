// Package game wires the simulation together and drives it from the terminal.
package game

// State represents the current run state.
type State int

const (
	// StatePlaying is a live run.
	StatePlaying State = iota
	// StateDown means the player has fallen and the run waits for a restart.
	StateDown
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}
