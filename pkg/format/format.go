/*
Package format decodes and encodes the compact read-only trie used by the suggestion engine.

A dictionary is a tree of character groups. Each children block starts with a group count
and holds its sibling groups back to back. A group starts with a flags byte that decides how
many bytes follow:

	flags | chars... [0x1F] | [frequency] | [children address] | [shortcuts] | [bigrams]

Flags bits 7-6 select the children address width (none, 1, 2 or 3 bytes). Bit 5 marks a
multi-character run terminated by 0x1F, bit 4 a terminal group carrying a frequency byte,
bit 3 a shortcut list, bit 2 a bigram list and bit 1 a shortcut-only word.

Attribute entries (shortcuts and bigrams) are a flags byte followed by a signed offset:

	has-next(0x80) | negative(0x40) | address type(0x30) | frequency(0x0F)

All multi-byte integers are big-endian. Offsets are relative to the first byte of the field
that stores them. The format is written by a trusted compiler, so decoding only checks reads
against the buffer extent.
*/
package format

// Group flags.
const (
	MaskGroupAddressType           = 0xC0
	FlagGroupAddressTypeNoAddress  = 0x00
	FlagGroupAddressTypeOneByte    = 0x40
	FlagGroupAddressTypeTwoBytes   = 0x80
	FlagGroupAddressTypeThreeBytes = 0xC0

	FlagHasMultipleChars   = 0x20
	FlagIsTerminal         = 0x10
	FlagHasShortcutTargets = 0x08
	FlagHasBigrams         = 0x04
	// FlagIsShortcutOnly marks words that match typed input but only surface through the
	// words they are shortcuts for.
	FlagIsShortcutOnly = 0x02
)

// Attribute flags.
const (
	FlagAttributeHasNext        = 0x80
	FlagAttributeOffsetNegative = 0x40
	MaskAttributeFrequency      = 0x0F

	MaskAttributeAddressType           = 0x30
	FlagAttributeAddressTypeOneByte    = 0x10
	FlagAttributeAddressTypeTwoBytes   = 0x20
	FlagAttributeAddressTypeThreeBytes = 0x30
)

// Character encoding.
const (
	// MinimalOneByteCharacter is the smallest code point stored on a single byte.
	MinimalOneByteCharacter = 0x20
	// CharacterArrayTerminator ends a multi-character run.
	CharacterArrayTerminator = 0x1F
	// NotACharacter is returned when a run terminator is read.
	NotACharacter rune = -1
)

const (
	// MaxGroupCount is the largest sibling count a children block can declare.
	MaxGroupCount = 0x7FFF
	// MaxAddress is the largest offset a three byte address field holds.
	MaxAddress = 0xFFFFFF
	// MaxFrequency is the largest terminal frequency.
	MaxFrequency = 0xFF
	// MaxAttributeFrequency is the largest bigram or shortcut frequency.
	MaxAttributeFrequency = MaskAttributeFrequency
)

// AddressType is the decoded width selector of an address field.
type AddressType uint8

const (
	AddressNone AddressType = iota
	AddressOneByte
	AddressTwoBytes
	AddressThreeBytes
)

// Width returns the number of bytes an address of this type occupies.
func (a AddressType) Width() int {
	return int(a)
}

func (a AddressType) String() string {
	switch a {
	case AddressNone:
		return "none"
	case AddressOneByte:
		return "1-byte"
	case AddressTwoBytes:
		return "2-bytes"
	case AddressThreeBytes:
		return "3-bytes"
	}
	return "invalid"
}

// AddressTypeFor returns the narrowest address type able to hold offset.
// Offsets of zero map to AddressNone; offsets above MaxAddress report false.
func AddressTypeFor(offset int) (AddressType, bool) {
	if offset < 0 {
		offset = -offset
	}
	switch {
	case offset == 0:
		return AddressNone, true
	case offset <= 0xFF:
		return AddressOneByte, true
	case offset <= 0xFFFF:
		return AddressTwoBytes, true
	case offset <= MaxAddress:
		return AddressThreeBytes, true
	}
	return AddressNone, false
}

func groupAddressType(flags byte) AddressType {
	return AddressType((flags & MaskGroupAddressType) >> 6)
}

func attributeAddressType(flags byte) AddressType {
	return AddressType((flags & MaskAttributeAddressType) >> 4)
}
