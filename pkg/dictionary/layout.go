package dictionary

import (
	"fmt"

	"github.com/bastiangx/keyserve/pkg/format"
	"github.com/charmbracelet/log"
)

type link struct {
	target *node
	freq   int
	addr   format.AddressType
}

// node is one group of the compressed trie being laid out.
type node struct {
	chars    []rune
	entry    *Entry
	children []*node

	pos       int
	block     int
	childAddr format.AddressType
	shortcuts []link
	bigrams   []link
}

// newTree builds the compressed trie of entries, which must be sorted by word.
func newTree(entries []*Entry) *node {
	root := &node{}
	for _, e := range entries {
		cur := root
		for _, r := range e.Word {
			var next *node
			if n := len(cur.children); n > 0 && cur.children[n-1].chars[0] == r {
				next = cur.children[n-1]
			} else {
				next = &node{chars: []rune{r}}
				cur.children = append(cur.children, next)
			}
			cur = next
		}
		cur.entry = e
	}
	for _, c := range root.children {
		compress(c)
	}
	return root
}

// compress merges chains of non terminal single child groups into one run.
func compress(n *node) {
	for n.entry == nil && len(n.children) == 1 {
		child := n.children[0]
		n.chars = append(n.chars, child.chars...)
		n.entry = child.entry
		n.children = child.children
	}
	for _, c := range n.children {
		compress(c)
	}
}

func (n *node) addressField() int {
	p := n.pos + 1 + format.CharsSize(n.chars)
	if n.entry != nil {
		p++
	}
	return p
}

func (n *node) size() int {
	s := n.addressField() - n.pos + n.childAddr.Width()
	for _, l := range n.shortcuts {
		s += 1 + l.addr.Width()
	}
	for _, l := range n.bigrams {
		s += 1 + l.addr.Width()
	}
	return s
}

type block struct {
	parent *node
	nodes  []*node
}

// layout places groups in preorder of sibling blocks: a block is followed by the
// children blocks of its groups, so every children address points forward.
type layout struct {
	opts   BuildOptions
	blocks []block
	groups int
	size   int
}

func newLayout(root *node, opts BuildOptions) *layout {
	l := &layout{opts: opts}
	byWord := map[string]*node{}
	var order func(parent *node, nodes []*node)
	order = func(parent *node, nodes []*node) {
		l.blocks = append(l.blocks, block{parent: parent, nodes: nodes})
		for _, n := range nodes {
			l.groups++
			if n.entry != nil {
				byWord[n.entry.Word] = n
			}
			if len(n.children) > 0 {
				n.childAddr = format.AddressOneByte
				order(n, n.children)
			}
		}
	}
	order(nil, root.children)

	resolve := func(from *node, targets []Target) []link {
		var links []link
		for _, t := range targets {
			target, ok := byWord[t.Word]
			if !ok {
				log.Warnf("Dropping link %q -> %q: target is not in the dictionary", from.entry.Word, t.Word)
				continue
			}
			links = append(links, link{target: target, freq: t.Freq, addr: format.AddressOneByte})
		}
		return links
	}
	for _, n := range byWord {
		n.shortcuts = resolve(n, n.entry.Shortcuts)
		n.bigrams = resolve(n, n.entry.Bigrams)
	}
	return l
}

func (l *layout) start() int {
	if l.opts.Headerless {
		return 0
	}
	return format.HeaderSize
}

func (l *layout) place() {
	pos := l.start()
	for _, b := range l.blocks {
		if b.parent != nil {
			b.parent.block = pos
		}
		pos += format.GroupCountSize(len(b.nodes))
		for _, n := range b.nodes {
			n.pos = pos
			pos += n.size()
		}
	}
	l.size = pos
}

// widen grows every address field too narrow for its offset under the current
// placement. Widths never shrink, so repeated place and widen rounds settle.
func (l *layout) widen() (bool, error) {
	changed := false
	grow := func(addr *format.AddressType, offset int) error {
		at, ok := format.AddressTypeFor(offset)
		if !ok {
			return fmt.Errorf("offset %d: %w", offset, format.ErrAddressRange)
		}
		if at > *addr {
			*addr = at
			changed = true
		}
		return nil
	}
	for _, b := range l.blocks {
		for _, n := range b.nodes {
			if len(n.children) > 0 {
				if err := grow(&n.childAddr, n.block-n.addressField()); err != nil {
					return false, err
				}
			}
			p := n.addressField() + n.childAddr.Width()
			for _, links := range [][]link{n.shortcuts, n.bigrams} {
				for i := range links {
					if err := grow(&links[i].addr, links[i].target.pos-(p+1)); err != nil {
						return false, err
					}
					p += 1 + links[i].addr.Width()
				}
			}
		}
	}
	return changed, nil
}

func (l *layout) settle() error {
	for {
		l.place()
		changed, err := l.widen()
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}

func (l *layout) encode() ([]byte, error) {
	buf := make([]byte, 0, l.size)
	if !l.opts.Headerless {
		var options uint16
		if l.opts.GermanUmlautProcessing {
			options |= format.OptionGermanUmlautProcessing
		}
		buf = format.AppendHeader(buf, options)
	}
	var err error
	for _, b := range l.blocks {
		if buf, err = format.AppendGroupCount(buf, len(b.nodes)); err != nil {
			return nil, err
		}
		for _, n := range b.nodes {
			if len(buf) != n.pos {
				return nil, fmt.Errorf("group %q at %d, expected %d: %w", string(n.chars), len(buf), n.pos, ErrLayout)
			}
			if buf, err = format.AppendGroup(buf, n.spec()); err != nil {
				return nil, fmt.Errorf("group %q: %w", string(n.chars), err)
			}
		}
	}
	if len(buf) != l.size {
		return nil, fmt.Errorf("%d bytes, expected %d: %w", len(buf), l.size, ErrLayout)
	}
	return buf, nil
}

func (n *node) spec() format.GroupSpec {
	s := format.GroupSpec{Chars: n.chars}
	if n.entry != nil {
		s.Terminal = true
		s.Frequency = n.entry.Freq
		s.ShortcutOnly = n.entry.ShortcutOnly
	}
	if len(n.children) > 0 {
		s.ChildrenOffset = n.block - n.addressField()
		s.ChildrenAddress = n.childAddr
	}
	p := n.addressField() + n.childAddr.Width()
	attrs := func(links []link) []format.AttributeSpec {
		var out []format.AttributeSpec
		for _, l := range links {
			out = append(out, format.AttributeSpec{
				Offset:    l.target.pos - (p + 1),
				Frequency: l.freq,
				Address:   l.addr,
			})
			p += 1 + l.addr.Width()
		}
		return out
	}
	s.Shortcuts = attrs(n.shortcuts)
	s.Bigrams = attrs(n.bigrams)
	return s
}
