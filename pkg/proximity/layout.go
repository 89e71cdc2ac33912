package proximity

import "sort"

type keyCenter struct {
	code rune
	x, y int
}

// Layout is a fixed key grid. It turns touch points into proximity candidates with
// distance scaled costs.
type Layout struct {
	keys      []keyCenter
	radius    int
	spaceY    int
	spaceMinX int
	spaceMaxX int
}

// QWERTY returns a three row QWERTY grid with 10 unit keys and a space bar under
// the middle of the bottom row.
func QWERTY() *Layout {
	l := &Layout{radius: 12, spaceY: 35, spaceMinX: 35, spaceMaxX: 65}
	rows := []struct {
		keys   string
		offset int
	}{
		{"qwertyuiop", 0},
		{"asdfghjkl", 5},
		{"zxcvbnm", 15},
	}
	for r, row := range rows {
		for i, c := range row.keys {
			l.keys = append(l.keys, keyCenter{code: c, x: row.offset + i*10 + 5, y: r*10 + 5})
		}
	}
	return l
}

// Center returns the middle of the key for c.
func (l *Layout) Center(c rune) (int, int, bool) {
	for _, k := range l.keys {
		if k.code == c {
			return k.x, k.y, true
		}
	}
	return NotACoordinate, NotACoordinate, false
}

// Tap simulates tapping every character of word at its key center. Characters that
// are not on the grid keep their code without coordinates.
func (l *Layout) Tap(word string) *Input {
	in := FromWord(word)
	in.X = make([]int, in.Len())
	in.Y = make([]int, in.Len())
	for i, codes := range in.Codes {
		in.X[i], in.Y[i], _ = l.Center(codes[0])
	}
	return in
}

func (l *Layout) Keys(in *Input, pos int) []Key {
	x, y, ok := in.Coordinates(pos)
	if !ok {
		return CodesInfo{}.Keys(in, pos)
	}
	primary := in.Primary(pos)
	keys := []Key{{Code: primary}}
	r2 := l.radius * l.radius
	type near struct {
		code rune
		d2   int
	}
	var found []near
	for _, k := range l.keys {
		if k.code == primary {
			continue
		}
		dx, dy := k.x-x, k.y-y
		if d2 := dx*dx + dy*dy; d2 <= r2 {
			found = append(found, near{k.code, d2})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].d2 != found[j].d2 {
			return found[i].d2 < found[j].d2
		}
		return found[i].code < found[j].code
	})
	for _, n := range found {
		if len(keys) == MaxProximityChars {
			break
		}
		keys = append(keys, Key{Code: n.code, Cost: 5 + 10*n.d2/r2})
	}
	return keys
}

func (l *Layout) HasSpaceProximity(in *Input, pos int) bool {
	x, y, ok := in.Coordinates(pos)
	if !ok {
		return CodesInfo{}.HasSpaceProximity(in, pos)
	}
	cx := min(max(x, l.spaceMinX), l.spaceMaxX)
	dx, dy := cx-x, l.spaceY-y
	return dx*dx+dy*dy <= l.radius*l.radius
}
