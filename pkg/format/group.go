package format

import "fmt"

// Group is one decoded trie node. Positions are byte offsets into the dictionary;
// absent parts are -1.
type Group struct {
	Pos     int
	Address AddressType
	Chars   []rune

	Terminal     bool
	Frequency    int
	ShortcutOnly bool

	ChildrenPos  int
	ShortcutsPos int
	BigramsPos   int
	NextSibling  int
}

// HasChildren reports whether the group points to a children block.
func (g *Group) HasChildren() bool {
	return g.ChildrenPos >= 0
}

// Attributes exposes the shortcut and bigram lists of the group.
func (g *Group) Attributes(dict []byte) TerminalAttributes {
	return &terminalAttributes{
		dict:         dict,
		shortcutOnly: g.ShortcutOnly,
		shortcuts:    g.ShortcutsPos,
		bigrams:      g.BigramsPos,
	}
}

// ReadUint reads a big-endian unsigned integer of width bytes at pos.
func ReadUint(dict []byte, pos, width int) (int, error) {
	if pos < 0 || pos+width > len(dict) {
		return 0, fmt.Errorf("read %d bytes at %d: %w", width, pos, ErrTruncated)
	}
	v := 0
	for i := 0; i < width; i++ {
		v = v<<8 | int(dict[pos+i])
	}
	return v, nil
}

// ReadGroupCount reads the sibling count at the start of a children block and
// returns it with the position of the first group.
func ReadGroupCount(dict []byte, pos int) (int, int, error) {
	b, err := ReadUint(dict, pos, 1)
	if err != nil {
		return 0, pos, err
	}
	if b < 0x80 {
		return b, pos + 1, nil
	}
	lo, err := ReadUint(dict, pos+1, 1)
	if err != nil {
		return 0, pos, err
	}
	return (b&0x7F)<<8 | lo, pos + 2, nil
}

// ReadChar decodes one character at pos and returns it with the next position.
// A run terminator decodes as NotACharacter.
func ReadChar(dict []byte, pos int) (rune, int, error) {
	b, err := ReadUint(dict, pos, 1)
	if err != nil {
		return NotACharacter, pos, err
	}
	if b >= MinimalOneByteCharacter {
		return rune(b), pos + 1, nil
	}
	if b == CharacterArrayTerminator {
		return NotACharacter, pos + 1, nil
	}
	v, err := ReadUint(dict, pos, 3)
	if err != nil {
		return NotACharacter, pos, err
	}
	return rune(v), pos + 3, nil
}

// ReadGroup decodes the group starting at pos.
func ReadGroup(dict []byte, pos int) (Group, error) {
	g := Group{Pos: pos, ChildrenPos: -1, ShortcutsPos: -1, BigramsPos: -1}
	flags, err := ReadUint(dict, pos, 1)
	if err != nil {
		return g, fmt.Errorf("group flags: %w", err)
	}
	g.Address = groupAddressType(byte(flags))
	g.Terminal = flags&FlagIsTerminal != 0
	g.ShortcutOnly = flags&FlagIsShortcutOnly != 0
	p := pos + 1

	c, p, err := ReadChar(dict, p)
	if err != nil {
		return g, fmt.Errorf("group chars: %w", err)
	}
	if c == NotACharacter {
		return g, fmt.Errorf("group at %d has an empty run: %w", pos, ErrMalformed)
	}
	g.Chars = append(g.Chars, c)
	if flags&FlagHasMultipleChars != 0 {
		for {
			c, p, err = ReadChar(dict, p)
			if err != nil {
				return g, fmt.Errorf("group chars: %w", err)
			}
			if c == NotACharacter {
				break
			}
			g.Chars = append(g.Chars, c)
		}
	}

	if g.Terminal {
		if g.Frequency, err = ReadUint(dict, p, 1); err != nil {
			return g, fmt.Errorf("group frequency: %w", err)
		}
		p++
	}

	if w := g.Address.Width(); w > 0 {
		offset, err := ReadUint(dict, p, w)
		if err != nil {
			return g, fmt.Errorf("children address: %w", err)
		}
		g.ChildrenPos = p + offset
		p += w
	}

	if flags&FlagHasShortcutTargets != 0 {
		g.ShortcutsPos = p
		if p, err = SkipAttributes(dict, p); err != nil {
			return g, fmt.Errorf("shortcut list: %w", err)
		}
	}
	if flags&FlagHasBigrams != 0 {
		g.BigramsPos = p
		if p, err = SkipAttributes(dict, p); err != nil {
			return g, fmt.Errorf("bigram list: %w", err)
		}
	}
	g.NextSibling = p
	return g, nil
}
