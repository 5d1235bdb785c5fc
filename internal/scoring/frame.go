package scoring

import "fmt"

// Frame is one player's group of rolls for a single frame.
type Frame []Roll

func (f Frame) IsStrike() bool {
	return len(f) > 0 && f[0].Kind == Strike
}

// IsSpare reports whether the first two balls of a non-strike frame cleared
// the rack, whether written as "/" or as two digits.
func (f Frame) IsSpare() bool {
	return len(f) >= 2 && !f.IsStrike() && f[0].Pins+f[1].Pins == AllPins
}

// Pins is the sum of pins knocked down by the rolls of this frame alone.
func (f Frame) Pins() int {
	total := 0
	for _, r := range f {
		total += r.Pins
	}
	return total
}

// Complete reports whether the player's turn for this frame is over.
func (f Frame) Complete(last bool) bool {
	if !last {
		return f.IsStrike() || len(f) >= 2
	}
	switch len(f) {
	case 3:
		return true
	case 2:
		return !f.IsStrike() && !f.IsSpare()
	}
	return false
}

func (f Frame) tokens() []string {
	out := make([]string, len(f))
	for i, r := range f {
		out[i] = r.String()
	}
	return out
}

// ParseFrame resolves the tokens of one frame, including spare markers, and
// rejects combinations that cannot happen on a lane. A frame that is still
// in progress (a single open ball, or a tenth frame awaiting its bonus) is
// accepted; use ValidateFrameShape to require a finished frame.
func ParseFrame(tokens []string, index int, last bool) (Frame, error) {
	fail := func(reason string) error {
		return &FrameError{Index: index, Frame: tokens, Reason: reason}
	}

	if len(tokens) == 0 {
		return nil, fail("A frame must contain at least one roll.")
	}
	if !last && len(tokens) > 2 {
		return nil, fail("A frame must contain 1 or 2 rolls.")
	}
	if last && len(tokens) > 3 {
		return nil, fail("The tenth frame must contain at most 3 rolls.")
	}

	frame := make(Frame, 0, len(tokens))
	// index of the first ball on a rack that still has pins standing
	open := -1
	for i, token := range tokens {
		if !last && i == 1 && frame.IsStrike() {
			return nil, fail("A strike must be a single roll.")
		}
		if last && i == 2 && !frame.IsStrike() && !frame.IsSpare() {
			return nil, fail("A third roll requires a strike or a spare.")
		}

		if token == "/" {
			if open < 0 {
				return nil, &RollError{
					Token:   token,
					Message: `Spare symbol "/" should not be parsed directly. It requires context of the first roll in the frame.`,
				}
			}
			frame = append(frame, Roll{Kind: Spare, Pins: AllPins - frame[open].Pins})
			open = -1
			continue
		}

		r, err := ParseRoll(token)
		if err != nil {
			return nil, err
		}

		if open < 0 {
			if r.Kind != Strike {
				open = i
			}
		} else {
			if r.Kind == Strike {
				return nil, fail("A strike can only be rolled on a full rack.")
			}
			if frame[open].Pins+r.Pins > AllPins {
				return nil, fail("Pins knocked down exceed 10.")
			}
			open = -1
		}
		frame = append(frame, r)
	}

	return frame, nil
}

// ValidateFrameShape requires a finished frame: frames 1-9 hold one strike or
// exactly two balls, and the tenth holds two balls or, after a strike or a
// spare, three.
func ValidateFrameShape(frame Frame, index int, last bool) error {
	fail := func(reason string) error {
		return &FrameError{Index: index, Frame: frame.tokens(), Reason: reason}
	}

	if !last {
		switch {
		case len(frame) == 0 || len(frame) > 2:
			return fail("A frame must contain 1 or 2 rolls.")
		case frame.IsStrike() && len(frame) == 2:
			return fail("A strike must be a single roll.")
		case !frame.IsStrike() && len(frame) == 1:
			return fail("An open frame must contain 2 rolls.")
		}
		return nil
	}

	switch {
	case len(frame) < 2 || len(frame) > 3:
		return fail("The tenth frame must contain 2 or 3 rolls.")
	case len(frame) == 3 && !frame.IsStrike() && !frame.IsSpare():
		return fail("A third roll requires a strike or a spare.")
	case len(frame) == 2 && (frame.IsStrike() || frame.IsSpare()):
		return fail("A strike or spare in the tenth frame requires a bonus roll.")
	}
	return nil
}

// ParseFrames parses a full roll history. Every frame but the most recent
// one must be finished.
func ParseFrames(rolls [][]string) ([]Frame, error) {
	if len(rolls) > FrameCount {
		return nil, &FrameError{
			Index:  len(rolls) - 1,
			Frame:  rolls[len(rolls)-1],
			Reason: fmt.Sprintf("A game has at most %d frames.", FrameCount),
		}
	}

	frames := make([]Frame, 0, len(rolls))
	for i, tokens := range rolls {
		last := i == FrameCount-1
		frame, err := ParseFrame(tokens, i, last)
		if err != nil {
			return nil, err
		}
		if i < len(rolls)-1 {
			if err := ValidateFrameShape(frame, i, last); err != nil {
				return nil, err
			}
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
