package format

import "fmt"

// Attribute is one decoded bigram or shortcut entry.
type Attribute struct {
	Pos       int
	Target    int
	Frequency int
	HasNext   bool
}

// ReadAttribute decodes the entry at pos and returns it with the position of the next entry.
func ReadAttribute(dict []byte, pos int) (Attribute, int, error) {
	a := Attribute{Pos: pos}
	flags, err := ReadUint(dict, pos, 1)
	if err != nil {
		return a, pos, err
	}
	at := attributeAddressType(byte(flags))
	if at == AddressNone {
		return a, pos, fmt.Errorf("attribute at %d uses the reserved address type: %w", pos, ErrMalformed)
	}
	origin := pos + 1
	offset, err := ReadUint(dict, origin, at.Width())
	if err != nil {
		return a, pos, err
	}
	if flags&FlagAttributeOffsetNegative != 0 {
		a.Target = origin - offset
	} else {
		a.Target = origin + offset
	}
	a.Frequency = flags & MaskAttributeFrequency
	a.HasNext = flags&FlagAttributeHasNext != 0
	return a, origin + at.Width(), nil
}

// SkipAttributes walks past an attribute list starting at pos.
func SkipAttributes(dict []byte, pos int) (int, error) {
	for {
		a, next, err := ReadAttribute(dict, pos)
		if err != nil {
			return pos, err
		}
		pos = next
		if !a.HasNext {
			return pos, nil
		}
	}
}

// AttributeIterator walks one attribute list. The zero value and iterators over an
// absent list yield nothing.
type AttributeIterator struct {
	dict []byte
	pos  int
	done bool
	err  error
}

// NewAttributeIterator returns an iterator over the list at pos; pos < 0 means no list.
func NewAttributeIterator(dict []byte, pos int) *AttributeIterator {
	return &AttributeIterator{dict: dict, pos: pos, done: pos < 0}
}

// Next returns the next entry, or false once the list (or a decode error) ends it.
func (it *AttributeIterator) Next() (Attribute, bool) {
	if it == nil || it.done {
		return Attribute{}, false
	}
	a, next, err := ReadAttribute(it.dict, it.pos)
	if err != nil {
		it.err = err
		it.done = true
		return Attribute{}, false
	}
	it.pos = next
	it.done = !a.HasNext
	return a, true
}

// Err returns the decode error that stopped the iteration, if any.
func (it *AttributeIterator) Err() error {
	if it == nil {
		return nil
	}
	return it.err
}

// TerminalAttributes exposes the decoded shortcut and bigram lists of a terminal group
// without handing raw offsets to its users.
type TerminalAttributes interface {
	ShortcutOnly() bool
	Shortcuts() *AttributeIterator
	Bigrams() *AttributeIterator
}

type terminalAttributes struct {
	dict         []byte
	shortcutOnly bool
	shortcuts    int
	bigrams      int
}

func (t *terminalAttributes) ShortcutOnly() bool { return t.shortcutOnly }

func (t *terminalAttributes) Shortcuts() *AttributeIterator {
	return NewAttributeIterator(t.dict, t.shortcuts)
}

func (t *terminalAttributes) Bigrams() *AttributeIterator {
	return NewAttributeIterator(t.dict, t.bigrams)
}
