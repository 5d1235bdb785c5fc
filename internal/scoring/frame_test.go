package scoring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFrame(t *testing.T) {
	parseFrameTests := []struct {
		name   string
		tokens []string
		last   bool
		want   Frame
	}{
		{"strike", []string{"x"}, false, Frame{{Kind: Strike, Pins: 10}}},
		{"open", []string{"3", "4"}, false, Frame{{Kind: Pins, Pins: 3}, {Kind: Pins, Pins: 4}}},
		{"spare marker resolves", []string{"7", "/"}, false, Frame{{Kind: Pins, Pins: 7}, {Kind: Spare, Pins: 3}}},
		{"gutter spare", []string{".", "/"}, false, Frame{{Kind: Miss}, {Kind: Spare, Pins: 10}}},
		{"single open ball", []string{"6"}, false, Frame{{Kind: Pins, Pins: 6}}},
		{"tenth three strikes", []string{"x", "X", "x"}, true, Frame{{Kind: Strike, Pins: 10}, {Kind: Strike, Pins: 10}, {Kind: Strike, Pins: 10}}},
		{"tenth strike then spare", []string{"x", "4", "/"}, true, Frame{{Kind: Strike, Pins: 10}, {Kind: Pins, Pins: 4}, {Kind: Spare, Pins: 6}}},
		{"tenth spare then strike", []string{"5", "/", "x"}, true, Frame{{Kind: Pins, Pins: 5}, {Kind: Spare, Pins: 5}, {Kind: Strike, Pins: 10}}},
		{"tenth digit spare", []string{"5", "5", "2"}, true, Frame{{Kind: Pins, Pins: 5}, {Kind: Pins, Pins: 5}, {Kind: Pins, Pins: 2}}},
		{"tenth awaiting bonus", []string{"x"}, true, Frame{{Kind: Strike, Pins: 10}}},
	}
	for _, test := range parseFrameTests {
		got, err := ParseFrame(test.tokens, 0, test.last)
		if err != nil {
			t.Errorf("%v: unexpected error: %v", test.name, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%v: frame mismatch (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestParseFrameInvalid(t *testing.T) {
	parseFrameTests := []struct {
		name    string
		tokens  []string
		last    bool
		wantErr error
		wantMsg string
	}{
		{"empty", []string{}, false, ErrInvalidFrame, "Invalid frame: []. A frame must contain at least one roll."},
		{"three rolls", []string{"3", "4", "5"}, false, ErrInvalidFrame, "Invalid frame: [3, 4, 5]. A frame must contain 1 or 2 rolls."},
		{"strike with trailing roll", []string{"x", "3"}, false, ErrInvalidFrame, "Invalid frame: [x, 3]. A strike must be a single roll."},
		{"too many pins", []string{"6", "5"}, false, ErrInvalidFrame, "Invalid frame: [6, 5]. Pins knocked down exceed 10."},
		{"strike on second ball", []string{"3", "x"}, false, ErrInvalidFrame, "Invalid frame: [3, x]. A strike can only be rolled on a full rack."},
		{"leading spare", []string{"/", "3"}, false, ErrInvalidRoll, `Spare symbol "/" should not be parsed directly. It requires context of the first roll in the frame.`},
		{"bad token", []string{"3", "q"}, false, ErrInvalidRoll, `Invalid roll value: "q". Must be a digit, "x", "/", or ".".`},
		{"tenth open with bonus", []string{"3", "4", "5"}, true, ErrInvalidFrame, "Invalid frame: [3, 4, 5]. A third roll requires a strike or a spare."},
		{"tenth four rolls", []string{"x", "x", "x", "x"}, true, ErrInvalidFrame, "Invalid frame: [x, x, x, x]. The tenth frame must contain at most 3 rolls."},
		{"tenth spare after strike on fresh rack", []string{"x", "x", "/"}, true, ErrInvalidRoll, `Spare symbol "/" should not be parsed directly. It requires context of the first roll in the frame.`},
		{"tenth bonus exceeds rack", []string{"x", "7", "5"}, true, ErrInvalidFrame, "Invalid frame: [x, 7, 5]. Pins knocked down exceed 10."},
	}
	for _, test := range parseFrameTests {
		_, err := ParseFrame(test.tokens, 0, test.last)
		switch {
		case err == nil:
			t.Errorf("%v: wanted error", test.name)
		case !errors.Is(err, test.wantErr):
			t.Errorf("%v: wanted %v, got %v", test.name, test.wantErr, err)
		case err.Error() != test.wantMsg:
			t.Errorf("%v: wanted message %q, got %q", test.name, test.wantMsg, err.Error())
		}
	}
}

func TestValidateFrameShape(t *testing.T) {
	validateFrameShapeTests := []struct {
		name   string
		tokens []string
		last   bool
		valid  bool
	}{
		{"strike", []string{"x"}, false, true},
		{"open", []string{"3", "4"}, false, true},
		{"spare", []string{"3", "/"}, false, true},
		{"single open ball", []string{"3"}, false, false},
		{"tenth open", []string{"3", "4"}, true, true},
		{"tenth spare with bonus", []string{"3", "/", "4"}, true, true},
		{"tenth strikes", []string{"x", "x", "x"}, true, true},
		{"tenth strike without bonus", []string{"x", "x"}, true, false},
		{"tenth spare without bonus", []string{"3", "/"}, true, false},
		{"tenth single ball", []string{"x"}, true, false},
	}
	for _, test := range validateFrameShapeTests {
		frame, err := ParseFrame(test.tokens, 4, test.last)
		if err != nil {
			t.Errorf("%v: unexpected parse error: %v", test.name, err)
			continue
		}
		err = ValidateFrameShape(frame, 4, test.last)
		switch {
		case test.valid && err != nil:
			t.Errorf("%v: unexpected error: %v", test.name, err)
		case !test.valid && !errors.Is(err, ErrInvalidFrame):
			t.Errorf("%v: wanted ErrInvalidFrame, got %v", test.name, err)
		}
	}

	var frameErr *FrameError
	err := ValidateFrameShape(Frame{{Kind: Pins, Pins: 2}}, 4, false)
	if !errors.As(err, &frameErr) || frameErr.Index != 4 {
		t.Errorf("wanted FrameError at index 4, got %#v", err)
	}
}

func TestFrameComplete(t *testing.T) {
	frameCompleteTests := []struct {
		tokens []string
		last   bool
		want   bool
	}{
		{[]string{"x"}, false, true},
		{[]string{"4"}, false, false},
		{[]string{"4", "3"}, false, true},
		{[]string{"4", "/"}, false, true},
		{[]string{"x"}, true, false},
		{[]string{"x", "x"}, true, false},
		{[]string{"x", "x", "x"}, true, true},
		{[]string{"4", "/"}, true, false},
		{[]string{"4", "6"}, true, false},
		{[]string{"4", "/", "5"}, true, true},
		{[]string{"4", "3"}, true, true},
		{[]string{"4"}, true, false},
	}
	for _, test := range frameCompleteTests {
		frame, err := ParseFrame(test.tokens, 0, test.last)
		if err != nil {
			t.Errorf("%v: unexpected error: %v", test.tokens, err)
			continue
		}
		if got := frame.Complete(test.last); test.want != got {
			t.Errorf("%v (last=%v): wanted complete=%v, got %v", test.tokens, test.last, test.want, got)
		}
	}
}

func TestParseFramesRequiresFinishedEarlierFrames(t *testing.T) {
	_, err := ParseFrames([][]string{{"3"}, {"4", "5"}})
	if !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("wanted ErrInvalidFrame, got %v", err)
	}
	want := "Invalid frame: [3]. An open frame must contain 2 rolls."
	if err.Error() != want {
		t.Errorf("wanted %q, got %q", want, err.Error())
	}
}

func TestParseFramesTooMany(t *testing.T) {
	rolls := make([][]string, FrameCount+1)
	for i := range rolls {
		rolls[i] = []string{"1", "1"}
	}
	_, err := ParseFrames(rolls)
	if !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("wanted ErrInvalidFrame, got %v", err)
	}
}
