package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdemcore/internal/game"
)

// NoLimitHoldem is the PHH variant code for no-limit Texas hold'em
const NoLimitHoldem = "NT"

// Encode writes the hand history to w in PHH TOML format
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction renders one betting action. player is the 1-based PHH
// player index; total is the seat's bet for the round after the action and
// toMatch the bet it faced. An all-in that does not exceed toMatch is a call.
func FormatAction(player int, kind game.ActionKind, total, toMatch int) string {
	p := fmt.Sprintf("p%d", player)
	switch kind {
	case game.Fold:
		return p + " f"
	case game.Check, game.Call:
		return p + " cc"
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s cbr %d", p, total)
	case game.AllIn:
		if total <= toMatch {
			return p + " cc"
		}
		return fmt.Sprintf("%s cbr %d", p, total)
	default:
		return fmt.Sprintf("# %s %s %d", p, kind, total)
	}
}
