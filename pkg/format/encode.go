package format

import (
	"fmt"
	"unicode"
)

// GroupSpec describes one group to encode.
// ChildrenOffset is relative to the children address field; zero means no children.
// ChildrenAddress widens the address field beyond the narrowest fit when set.
type GroupSpec struct {
	Chars           []rune
	Terminal        bool
	Frequency       int
	ShortcutOnly    bool
	ChildrenOffset  int
	ChildrenAddress AddressType
	Shortcuts       []AttributeSpec
	Bigrams         []AttributeSpec
}

// AttributeSpec describes one attribute entry. Offset is signed and relative to the
// entry's offset field, which sits one byte after the entry start. Address widens
// the offset field beyond the narrowest fit when set.
type AttributeSpec struct {
	Offset    int
	Frequency int
	Address   AddressType
}

// addressFor returns the address type used for offset, at least as wide as least.
func addressFor(offset int, least AddressType) (AddressType, bool) {
	at, ok := AddressTypeFor(offset)
	if !ok || offset == 0 {
		return at, ok
	}
	if least > AddressThreeBytes {
		return AddressNone, false
	}
	return max(at, least), true
}

// AppendUint appends v as a big-endian integer of width bytes.
func AppendUint(buf []byte, v, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

// AppendGroupCount appends the sibling count of a children block.
func AppendGroupCount(buf []byte, n int) ([]byte, error) {
	switch {
	case n < 0 || n > MaxGroupCount:
		return buf, fmt.Errorf("group count %d: %w", n, ErrAddressRange)
	case n < 0x80:
		return append(buf, byte(n)), nil
	}
	return append(buf, byte(0x80|n>>8), byte(n)), nil
}

// GroupCountSize returns the encoded size of a sibling count.
func GroupCountSize(n int) int {
	if n < 0x80 {
		return 1
	}
	return 2
}

// CharSize returns the encoded size of c.
func CharSize(c rune) int {
	if c >= MinimalOneByteCharacter && c <= 0xFF {
		return 1
	}
	return 3
}

// AppendChar appends the encoding of c.
func AppendChar(buf []byte, c rune) []byte {
	if CharSize(c) == 1 {
		return append(buf, byte(c))
	}
	return AppendUint(buf, int(c), 3)
}

// CharsSize returns the encoded size of a character run, terminator included.
func CharsSize(chars []rune) int {
	n := 0
	for _, c := range chars {
		n += CharSize(c)
	}
	if len(chars) > 1 {
		n++
	}
	return n
}

// AttributesSize returns the encoded size of an attribute list.
func AttributesSize(attrs []AttributeSpec) (int, error) {
	n := 0
	for _, a := range attrs {
		at, ok := addressFor(a.Offset, a.Address)
		if !ok || at == AddressNone {
			return 0, fmt.Errorf("attribute offset %d: %w", a.Offset, ErrAddressRange)
		}
		n += 1 + at.Width()
	}
	return n, nil
}

// AppendAttributes appends an attribute list, setting has-next on all entries but the last.
func AppendAttributes(buf []byte, attrs []AttributeSpec) ([]byte, error) {
	for i, a := range attrs {
		at, ok := addressFor(a.Offset, a.Address)
		if !ok || at == AddressNone {
			return buf, fmt.Errorf("attribute offset %d: %w", a.Offset, ErrAddressRange)
		}
		if a.Frequency < 0 || a.Frequency > MaxAttributeFrequency {
			return buf, fmt.Errorf("attribute frequency %d: %w", a.Frequency, ErrMalformed)
		}
		flags := byte(at)<<4 | byte(a.Frequency)
		if i < len(attrs)-1 {
			flags |= FlagAttributeHasNext
		}
		offset := a.Offset
		if offset < 0 {
			flags |= FlagAttributeOffsetNegative
			offset = -offset
		}
		buf = append(buf, flags)
		buf = AppendUint(buf, offset, at.Width())
	}
	return buf, nil
}

// GroupSize returns the encoded size of spec.
func GroupSize(spec GroupSpec) (int, error) {
	n := 1 + CharsSize(spec.Chars)
	if spec.Terminal {
		n++
	}
	at, ok := addressFor(spec.ChildrenOffset, spec.ChildrenAddress)
	if !ok {
		return 0, fmt.Errorf("children offset %d: %w", spec.ChildrenOffset, ErrAddressRange)
	}
	n += at.Width()
	for _, attrs := range [][]AttributeSpec{spec.Shortcuts, spec.Bigrams} {
		s, err := AttributesSize(attrs)
		if err != nil {
			return 0, err
		}
		n += s
	}
	return n, nil
}

// AppendGroup appends the encoding of spec.
func AppendGroup(buf []byte, spec GroupSpec) ([]byte, error) {
	if len(spec.Chars) == 0 {
		return buf, fmt.Errorf("group without characters: %w", ErrMalformed)
	}
	for _, c := range spec.Chars {
		if c < 0 || c > unicode.MaxRune {
			return buf, fmt.Errorf("character %#x: %w", c, ErrMalformed)
		}
	}
	if spec.ChildrenOffset < 0 {
		return buf, fmt.Errorf("children offset %d: %w", spec.ChildrenOffset, ErrAddressRange)
	}
	at, ok := addressFor(spec.ChildrenOffset, spec.ChildrenAddress)
	if !ok {
		return buf, fmt.Errorf("children offset %d: %w", spec.ChildrenOffset, ErrAddressRange)
	}

	flags := byte(at) << 6
	if len(spec.Chars) > 1 {
		flags |= FlagHasMultipleChars
	}
	if spec.Terminal {
		flags |= FlagIsTerminal
	}
	if len(spec.Shortcuts) > 0 {
		flags |= FlagHasShortcutTargets
	}
	if len(spec.Bigrams) > 0 {
		flags |= FlagHasBigrams
	}
	if spec.ShortcutOnly {
		flags |= FlagIsShortcutOnly
	}

	buf = append(buf, flags)
	for _, c := range spec.Chars {
		buf = AppendChar(buf, c)
	}
	if len(spec.Chars) > 1 {
		buf = append(buf, CharacterArrayTerminator)
	}
	if spec.Terminal {
		if spec.Frequency < 0 || spec.Frequency > MaxFrequency {
			return buf, fmt.Errorf("frequency %d: %w", spec.Frequency, ErrMalformed)
		}
		buf = append(buf, byte(spec.Frequency))
	}
	buf = AppendUint(buf, spec.ChildrenOffset, at.Width())

	var err error
	if buf, err = AppendAttributes(buf, spec.Shortcuts); err != nil {
		return buf, err
	}
	return AppendAttributes(buf, spec.Bigrams)
}
