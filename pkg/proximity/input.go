// Package proximity models the typed input of one request and the keyboard
// collaborator that says which keys lie near each tap.
package proximity

import (
	"errors"
	"fmt"
)

const (
	// MaxProximityChars caps the candidate codes kept per input position.
	MaxProximityChars = 16
	// NotACoordinate marks a position without touch data.
	NotACoordinate = -1
)

// ErrInput reports an inconsistent Input.
var ErrInput = errors.New("proximity: invalid input")

// Input is the typed sequence of one request. Codes holds, per position, the primary
// code followed by its proximity candidates. X and Y are optional touch coordinates.
// An Input is read-only once built; Slice shares its backing arrays.
type Input struct {
	Codes [][]rune
	X     []int
	Y     []int
}

// NewInput validates and builds an Input. Candidate lists longer than
// MaxProximityChars are truncated.
func NewInput(codes [][]rune, xs, ys []int) (*Input, error) {
	if xs != nil || ys != nil {
		if len(xs) != len(codes) || len(ys) != len(codes) {
			return nil, fmt.Errorf("%d codes with %d x and %d y coordinates: %w", len(codes), len(xs), len(ys), ErrInput)
		}
	}
	in := &Input{Codes: make([][]rune, len(codes)), X: xs, Y: ys}
	for i, c := range codes {
		if len(c) == 0 {
			return nil, fmt.Errorf("position %d has no codes: %w", i, ErrInput)
		}
		if len(c) > MaxProximityChars {
			c = c[:MaxProximityChars]
		}
		in.Codes[i] = c
	}
	return in, nil
}

// FromWord builds an Input whose positions carry only the typed characters.
func FromWord(word string) *Input {
	runes := []rune(word)
	in := &Input{Codes: make([][]rune, len(runes))}
	for i, r := range runes {
		in.Codes[i] = []rune{r}
	}
	return in
}

// Len returns the number of typed positions.
func (in *Input) Len() int {
	if in == nil {
		return 0
	}
	return len(in.Codes)
}

// Primary returns the code the user meant to type at pos.
func (in *Input) Primary(pos int) rune {
	return in.Codes[pos][0]
}

// PrimaryCodes returns the primary code of every position.
func (in *Input) PrimaryCodes() []rune {
	out := make([]rune, in.Len())
	for i := range out {
		out[i] = in.Primary(i)
	}
	return out
}

// Coordinates returns the touch point of pos, if any.
func (in *Input) Coordinates(pos int) (int, int, bool) {
	if in.X == nil || pos >= len(in.X) {
		return NotACoordinate, NotACoordinate, false
	}
	x, y := in.X[pos], in.Y[pos]
	if x == NotACoordinate || y == NotACoordinate {
		return x, y, false
	}
	return x, y, true
}

// Slice returns the positions [from, to).
func (in *Input) Slice(from, to int) *Input {
	out := &Input{Codes: in.Codes[from:to]}
	if in.X != nil {
		out.X = in.X[from:to]
		out.Y = in.Y[from:to]
	}
	return out
}

// Without returns a copy of the input with position pos removed.
func (in *Input) Without(pos int) *Input {
	out := &Input{Codes: make([][]rune, 0, in.Len()-1)}
	out.Codes = append(append(out.Codes, in.Codes[:pos]...), in.Codes[pos+1:]...)
	if in.X != nil {
		out.X = append(append(make([]int, 0, len(in.X)-1), in.X[:pos]...), in.X[pos+1:]...)
		out.Y = append(append(make([]int, 0, len(in.Y)-1), in.Y[:pos]...), in.Y[pos+1:]...)
	}
	return out
}

func (in *Input) String() string {
	return string(in.PrimaryCodes())
}
