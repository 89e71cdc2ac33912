package format

// FindWord follows word exactly from the children block at root.
// It returns the group holding the last character, and whether the word ends on a
// group boundary of a terminal group. A mismatch at any depth stops the walk.
func FindWord(dict []byte, root int, word []rune) (Group, bool, error) {
	if len(word) == 0 {
		return Group{}, false, nil
	}
	pos, i := root, 0
	for {
		count, p, err := ReadGroupCount(dict, pos)
		if err != nil {
			return Group{}, false, err
		}
		var next *Group
		for ; count > 0; count-- {
			g, err := ReadGroup(dict, p)
			if err != nil {
				return Group{}, false, err
			}
			if g.Chars[0] == word[i] {
				next = &g
				break
			}
			p = g.NextSibling
		}
		if next == nil {
			return Group{}, false, nil
		}
		if len(next.Chars) > len(word)-i {
			return *next, false, nil
		}
		for j, c := range next.Chars {
			if word[i+j] != c {
				return *next, false, nil
			}
		}
		i += len(next.Chars)
		if i == len(word) {
			return *next, next.Terminal, nil
		}
		if !next.HasChildren() {
			return *next, false, nil
		}
		pos = next.ChildrenPos
	}
}

// WordAtAddress rebuilds the word whose last group starts at address.
// Words longer than maxLength are not searched.
func WordAtAddress(dict []byte, root, address, maxLength int) ([]rune, error) {
	prefix := make([]rune, 0, maxLength)
	ok, err := findAddress(dict, root, address, maxLength, &prefix)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return prefix, nil
}

func findAddress(dict []byte, pos, address, maxLength int, prefix *[]rune) (bool, error) {
	count, p, err := ReadGroupCount(dict, pos)
	if err != nil {
		return false, err
	}
	for ; count > 0; count-- {
		g, err := ReadGroup(dict, p)
		if err != nil {
			return false, err
		}
		base := len(*prefix)
		if base+len(g.Chars) > maxLength {
			p = g.NextSibling
			continue
		}
		*prefix = append(*prefix, g.Chars...)
		if g.Pos == address {
			return true, nil
		}
		if g.HasChildren() && address > g.Pos {
			ok, err := findAddress(dict, g.ChildrenPos, address, maxLength, prefix)
			if err != nil || ok {
				return ok, err
			}
		}
		*prefix = (*prefix)[:base]
		p = g.NextSibling
	}
	return false, nil
}
