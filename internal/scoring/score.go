package scoring

// ComputeFrameScores returns the running total after each frame. Strikes and
// spares borrow the next two or one balls from later frames; when those balls
// have not been rolled yet the score is provisional and grows as they arrive.
// The tenth frame is scored from its own balls only.
func ComputeFrameScores(frames []Frame) []int {
	scores := make([]int, 0, len(frames))
	total := 0
	for i, frame := range frames {
		switch {
		case i == FrameCount-1:
			total += frame.Pins()
		case frame.IsStrike():
			total += AllPins + bonus(frames, i, 2)
		case frame.IsSpare():
			total += AllPins + bonus(frames, i, 1)
		default:
			total += frame.Pins()
		}
		scores = append(scores, total)
	}
	return scores
}

// bonus sums up to count balls rolled after frame i.
func bonus(frames []Frame, i, count int) int {
	sum := 0
	for _, next := range frames[i+1:] {
		for _, r := range next {
			if count == 0 {
				return sum
			}
			sum += r.Pins
			count--
		}
	}
	return sum
}

// ScoreRolls parses a raw roll history and scores it.
func ScoreRolls(rolls [][]string) ([]int, error) {
	frames, err := ParseFrames(rolls)
	if err != nil {
		return nil, err
	}
	return ComputeFrameScores(frames), nil
}
