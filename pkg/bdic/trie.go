package bdic

import (
	"encoding/binary"
	"math"

	"github.com/charmbracelet/log"
)

type storageKind int

const (
	storageLeaf storageKind = iota
	storageLeafMore
	storageList8
	storageList16
	storageLookup16
	storageLookup32
)

// entry is one stem with its affix group ids, the unit the trie stores.
type entry struct {
	word    string
	affixes []int
}

// trieNode is a node of the dic trie before serialization. char is the byte
// the node adds to its parent's prefix, 0 for the word-ends-here child.
type trieNode struct {
	char     byte
	children []*trieNode
	addition string
	affixes  []int

	kind storageKind
	size int
}

// buildTrie fills n from entries, which must be sorted, unique and share
// their first depth bytes.
func buildTrie(n *trieNode, entries []entry, depth int) {
	if len(entries) == 1 {
		n.addition = entries[0].word[depth:]
		n.affixes = entries[0].affixes
		return
	}
	if len(entries[0].word) == depth {
		n.children = append(n.children, &trieNode{affixes: entries[0].affixes})
		entries = entries[1:]
	}
	for len(entries) > 0 {
		c := entries[0].word[depth]
		end := 1
		for end < len(entries) && entries[end].word[depth] == c {
			end++
		}
		child := &trieNode{char: c}
		buildTrie(child, entries[:end], depth+1)
		n.children = append(n.children, child)
		entries = entries[end:]
	}
}

// layout picks the storage of every node bottom-up and returns the encoded
// size of n.
func layout(n *trieNode) int {
	if len(n.children) == 0 {
		n.kind = storageLeaf
		n.size = 2
		if n.addition != "" {
			n.kind = storageLeafMore
			n.size += len(n.addition) + 1
		}
		if k := len(leafAffixes(n.affixes)); k > 1 {
			n.size += 2*(k-1) + 2
		}
		return n.size
	}

	total := 0
	lastOffset := 0
	for _, c := range n.children {
		lastOffset = total
		total += layout(c)
	}

	if len(n.children) <= maxListChildren && lastOffset <= math.MaxUint16 {
		if lastOffset <= math.MaxUint8 {
			n.kind = storageList8
			n.size = 1 + 2*len(n.children) + total
		} else {
			n.kind = storageList16
			n.size = 1 + 3*len(n.children) + total
		}
		return n.size
	}

	headerLen := lookupHeaderLen(n, 2)
	if headerLen+total <= math.MaxUint16 {
		n.kind = storageLookup16
		n.size = headerLen + total
	} else {
		n.kind = storageLookup32
		n.size = lookupHeaderLen(n, 4) + total
	}
	return n.size
}

func lookupHeaderLen(n *trieNode, width int) int {
	first, last, zeroth := lookupRange(n)
	l := 3 + (int(last)-int(first)+1)*width
	if zeroth != nil {
		l += width
	}
	return l
}

// lookupRange returns the byte range covered by a lookup node's table and its
// word-ends-here child, if any.
func lookupRange(n *trieNode) (first, last byte, zeroth *trieNode) {
	rest := n.children
	if rest[0].char == 0 {
		zeroth = rest[0]
		rest = rest[1:]
	}
	return rest[0].char, rest[len(rest)-1].char, zeroth
}

// leafAffixes caps the affix ids a leaf can carry.
func leafAffixes(ids []int) []int {
	if len(ids) > maxAffixesPerWord {
		return ids[:maxAffixesPerWord]
	}
	return ids
}

// appendNode serializes n, whose layout is already computed, to buf.
func appendNode(buf []byte, n *trieNode) []byte {
	switch n.kind {
	case storageLeaf, storageLeafMore:
		return appendLeaf(buf, n)
	case storageList8, storageList16:
		return appendList(buf, n)
	default:
		return appendLookup(buf, n)
	}
}

func appendLeaf(buf []byte, n *trieNode) []byte {
	ids := leafAffixes(n.affixes)
	if len(ids) < len(n.affixes) {
		log.Warnf("Word has %d affix groups, keeping the first %d", len(n.affixes), maxAffixesPerWord)
	}
	first := 0
	if len(ids) > 0 {
		first = ids[0]
	}

	id := byte(first>>8) & leafFirstAffixMask
	if n.addition != "" {
		id |= leafAdditionalValue
	}
	if len(ids) > 1 {
		id |= leafFollowingValue
	}
	buf = append(buf, id, byte(first&0xFF))

	if n.addition != "" {
		buf = appendCString(buf, n.addition)
	}
	if len(ids) > 1 {
		for _, a := range ids[1:] {
			buf = appendU16(buf, uint16(a))
		}
		buf = appendU16(buf, followingTerminator)
	}
	return buf
}

func appendList(buf []byte, n *trieNode) []byte {
	wide := n.kind == storageList16
	id := byte(listTypeValue) | byte(len(n.children))&listCountMask
	if wide {
		id |= list16BitFlag
	}
	buf = append(buf, id)

	offset := 0
	for _, c := range n.children {
		buf = append(buf, c.char)
		if wide {
			buf = appendU16(buf, uint16(offset))
		} else {
			buf = append(buf, byte(offset))
		}
		offset += c.size
	}
	for _, c := range n.children {
		buf = appendNode(buf, c)
	}
	return buf
}

func appendLookup(buf []byte, n *trieNode) []byte {
	width := 2
	id := byte(lookupTypeValue)
	if n.kind == storageLookup32 {
		width = 4
		id |= lookup32BitFlag
	}
	first, last, zeroth := lookupRange(n)
	if zeroth != nil {
		id |= lookup0thFlag
	}
	tableSize := int(last) - int(first) + 1
	// a full table of 256 entries is stored as 0
	buf = append(buf, id, first, byte(tableSize))

	putOffset := func(v int) {
		if width == 4 {
			buf = appendU32(buf, uint32(v))
		} else {
			buf = appendU16(buf, uint16(v))
		}
	}

	offset := lookupHeaderLen(n, width)
	rest := n.children
	if zeroth != nil {
		putOffset(offset)
		offset += zeroth.size
		rest = rest[1:]
	}

	table := make([]int, tableSize)
	for _, c := range rest {
		table[int(c.char)-int(first)] = offset
		offset += c.size
	}
	for _, v := range table {
		putOffset(v)
	}

	for _, c := range n.children {
		buf = appendNode(buf, c)
	}
	return buf
}

// walkTrie decodes the node at pos and calls emit for every stored word.
func walkTrie(data []byte, pos int, prefix []byte, emit func(word string, affixes []int)) error {
	if pos >= len(data) {
		return &FormatError{Offset: pos, Err: ErrTruncated}
	}
	id := data[pos]

	switch {
	case id&leafTypeMask == leafTypeValue:
		return walkLeaf(data, pos, prefix, emit)
	case id&listTypeMask == listTypeValue:
		return walkList(data, pos, prefix, emit)
	case id&lookupTypeMask == lookupTypeValue:
		return walkLookup(data, pos, prefix, emit)
	}
	return corruptAt(pos, "unknown node id 0x%02x", id)
}

func walkLeaf(data []byte, pos int, prefix []byte, emit func(string, []int)) error {
	if pos+2 > len(data) {
		return &FormatError{Offset: pos, Err: ErrTruncated}
	}
	id := data[pos]
	first := int(id&leafFirstAffixMask)<<8 | int(data[pos+1])
	p := pos + 2

	word := string(prefix)
	if id&leafAdditionalMask == leafAdditionalValue {
		end := p
		for end < len(data) && data[end] != 0 {
			end++
		}
		if end >= len(data) {
			return &FormatError{Offset: p, Err: ErrTruncated}
		}
		word += string(data[p:end])
		p = end + 1
	}

	var affixes []int
	if first != 0 {
		affixes = append(affixes, first)
	}
	if id&leafFollowingMask == leafFollowingValue {
		for {
			if p+2 > len(data) {
				return &FormatError{Offset: p, Err: ErrTruncated}
			}
			v := binary.LittleEndian.Uint16(data[p:])
			p += 2
			if v == followingTerminator {
				break
			}
			affixes = append(affixes, int(v))
		}
	}
	emit(word, affixes)
	return nil
}

func walkList(data []byte, pos int, prefix []byte, emit func(string, []int)) error {
	id := data[pos]
	count := int(id & listCountMask)
	wide := id&list16BitFlag != 0
	entrySize := 2
	if wide {
		entrySize = 3
	}
	tableEnd := pos + 1 + count*entrySize
	if count == 0 {
		return corruptAt(pos, "empty list node")
	}
	if tableEnd > len(data) {
		return &FormatError{Offset: pos, Err: ErrTruncated}
	}

	for i := 0; i < count; i++ {
		e := pos + 1 + i*entrySize
		c := data[e]
		var off int
		if wide {
			off = int(binary.LittleEndian.Uint16(data[e+1:]))
		} else {
			off = int(data[e+1])
		}
		if err := walkChild(data, tableEnd+off, prefix, c, emit); err != nil {
			return err
		}
	}
	return nil
}

func walkLookup(data []byte, pos int, prefix []byte, emit func(string, []int)) error {
	if pos+3 > len(data) {
		return &FormatError{Offset: pos, Err: ErrTruncated}
	}
	id := data[pos]
	first := int(data[pos+1])
	tableSize := int(data[pos+2])
	if tableSize == 0 {
		tableSize = 256
	}
	if first+tableSize > 256 {
		return corruptAt(pos, "lookup table overflows byte range")
	}
	width := 2
	if id&lookup32BitFlag != 0 {
		width = 4
	}
	p := pos + 3
	readOffset := func() (int, error) {
		if p+width > len(data) {
			return 0, &FormatError{Offset: p, Err: ErrTruncated}
		}
		var v int
		if width == 4 {
			v = int(binary.LittleEndian.Uint32(data[p:]))
		} else {
			v = int(binary.LittleEndian.Uint16(data[p:]))
		}
		p += width
		return v, nil
	}

	if id&lookup0thFlag != 0 {
		off, err := readOffset()
		if err != nil {
			return err
		}
		if err := walkChild(data, pos+off, prefix, 0, emit); err != nil {
			return err
		}
	}
	for i := 0; i < tableSize; i++ {
		off, err := readOffset()
		if err != nil {
			return err
		}
		if off == 0 {
			continue
		}
		if err := walkChild(data, pos+off, prefix, byte(first+i), emit); err != nil {
			return err
		}
	}
	return nil
}

// walkChild descends into the child at childPos; c == 0 is the child of a
// word that ends at the parent.
func walkChild(data []byte, childPos int, prefix []byte, c byte, emit func(string, []int)) error {
	if childPos >= len(data) {
		return corruptAt(childPos, "child offset out of range")
	}
	next := prefix
	if c != 0 {
		next = append(prefix[:len(prefix):len(prefix)], c)
	}
	return walkTrie(data, childPos, next, emit)
}
