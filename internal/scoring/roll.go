// Package scoring parses bowling roll notation and computes cumulative frame
// scores for a single player's roll history.
package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// FrameCount is the number of frames in a game.
const FrameCount = 10

// AllPins is the number of pins standing on a fresh rack.
const AllPins = 10

var (
	ErrInvalidRoll  = errors.New("invalid roll")
	ErrInvalidFrame = errors.New("invalid frame")
)

type RollKind int

const (
	Pins RollKind = iota
	Strike
	Spare
	Miss
)

// Roll is a parsed delivery. Pins always holds the resolved pin count, so a
// Spare carries 10 minus the first ball of its rack.
type Roll struct {
	Kind RollKind
	Pins int
}

func (r Roll) String() string {
	switch r.Kind {
	case Strike:
		return "x"
	case Spare:
		return "/"
	case Miss:
		return "."
	}
	return fmt.Sprintf("%d", r.Pins)
}

// RollError reports a token that is not valid roll notation.
type RollError struct {
	Token   string
	Message string
}

func (e *RollError) Error() string {
	return e.Message
}

func (e *RollError) Unwrap() error {
	return ErrInvalidRoll
}

// FrameError reports a frame whose rolls cannot legally occur together.
type FrameError struct {
	Index  int
	Frame  []string
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("Invalid frame: [%s]. %s", strings.Join(e.Frame, ", "), e.Reason)
}

func (e *FrameError) Unwrap() error {
	return ErrInvalidFrame
}

// ParseRoll interprets a single token without frame context. The spare
// marker is rejected because its value depends on the first ball of the rack.
func ParseRoll(token string) (Roll, error) {
	switch token {
	case "x", "X":
		return Roll{Kind: Strike, Pins: AllPins}, nil
	case ".":
		return Roll{Kind: Miss}, nil
	case "/":
		return Roll{}, &RollError{
			Token:   token,
			Message: `Spare symbol "/" should not be parsed directly. It requires context of the first roll in the frame.`,
		}
	}

	if len(token) == 1 && token[0] >= '0' && token[0] <= '9' {
		return Roll{Kind: Pins, Pins: int(token[0] - '0')}, nil
	}

	return Roll{}, &RollError{
		Token:   token,
		Message: fmt.Sprintf(`Invalid roll value: "%s". Must be a digit, "x", "/", or ".".`, token),
	}
}

// CheckTokens verifies every token is a roll symbol, without checking how
// the tokens combine into a frame.
func CheckTokens(tokens []string) error {
	for _, token := range tokens {
		if token == "/" {
			continue
		}
		if _, err := ParseRoll(token); err != nil {
			return &RollError{
				Token:   token,
				Message: fmt.Sprintf(`Invalid rolls: [%s]. Rolls must be "x", "/", ".", or digits.`, strings.Join(tokens, ", ")),
			}
		}
	}
	return nil
}
