package gamedata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ErrBadColor reports a colour hint that is not #RGB or #RRGGBB.
var ErrBadColor = errors.New("bad colour")

// ParseHexColor converts a colour hint ("#FF6B6B", "FF6B6B" or the short "#F66") to a
// tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return tcell.ColorDefault, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	return tcell.NewHexColor(int32(rgb)), nil
}

// checkColor validates an optional colour hint. Empty hints render in the default colour.
func checkColor(owner, hex string) error {
	if hex == "" {
		return nil
	}
	if _, err := ParseHexColor(hex); err != nil {
		return fmt.Errorf("%s: %w", owner, err)
	}
	return nil
}
