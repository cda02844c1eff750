/*
Package bdic reads and writes the binary dictionary container ("bdic") consumed
by the renderer's hunspell-based spell checker.

A bdic file is a fixed 32-byte header followed by an aff section and a dic
section. All integers are little-endian and all offsets in the header and the
aff header are absolute file offsets.

	Header
	  u32 signature   0x63694442 ("BDic")
	  u16 major       2
	  u16 minor       0
	  u32 aff offset
	  u32 dic offset
	  [16]byte        MD5 of every byte after the header

The aff section starts with four u32 offsets (affix groups, affix rules,
replacements, other commands) followed by NUL-terminated string lists, each
list closed by an empty string.

The dic section is a byte trie. Every node starts with an id byte:

	0AFhhhhh llllllll          leaf; A = additional string follows,
	                           F = following affix id list follows
	111Wcccc                   list of c children, W = 16-bit offsets
	110000WZ                   lookup table, W = 32-bit offsets, Z = has 0th child

Leaves store a 13-bit first affix id, an optional NUL-terminated remainder of
the word and an optional list of u16 affix ids terminated by 0xFFFF. A child
keyed by the byte 0 marks a word that ends at its parent.

Compile turns a sorted word list plus optional affix rules into a bdic blob and
Parse recovers the structure of one.
*/
package bdic

import (
	"bytes"
	"encoding/binary"
)

const (
	// Signature is "BDic" read as a little-endian u32.
	Signature uint32 = 0x63694442

	MajorVersion uint16 = 2
	MinorVersion uint16 = 0

	// HeaderSize is the encoded size of Header.
	HeaderSize = 32
	// AffHeaderSize is the encoded size of the four aff section offsets.
	AffHeaderSize = 16

	// Separator splits a word list entry into stem and affix flags.
	Separator = '/'

	// Ext is the file extension of an enabled dictionary.
	Ext = ".bdic"
)

// Leaf node layout.
const (
	leafTypeMask  = 0x80
	leafTypeValue = 0x00

	leafAdditionalMask  = 0xC0
	leafAdditionalValue = 0x40

	leafFollowingMask  = 0xA0
	leafFollowingValue = 0x20

	leafFirstAffixMask = 0x1F

	// maxFirstAffixID is the largest affix id a leaf can carry in its
	// first two bytes; it also bounds the number of affix groups.
	maxFirstAffixID = 0x1FFF

	// maxAffixesPerWord caps the following list of a leaf.
	maxAffixesPerWord = 32

	followingTerminator = 0xFFFF
)

// Lookup node layout.
const (
	lookupTypeMask  = 0xFC
	lookupTypeValue = 0xC0

	lookup0thFlag   = 0x01
	lookup32BitFlag = 0x02
)

// List node layout.
const (
	listTypeMask  = 0xE0
	listTypeValue = 0xE0

	list16BitFlag = 0x10
	listCountMask = 0x0F

	// maxListChildren is the most children a list node can address;
	// wider fan-outs are stored as lookup tables.
	maxListChildren = 15
)

// Header is the fixed-size file header.
type Header struct {
	Signature uint32
	Major     uint16
	Minor     uint16
	AffOffset uint32
	DicOffset uint32
	Digest    [16]byte
}

// AffHeader holds the absolute offsets of the aff section lists.
type AffHeader struct {
	GroupOffset       uint32
	RuleOffset        uint32
	ReplacementOffset uint32
	OtherOffset       uint32
}

func (h Header) encode() []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

func decodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, &FormatError{Offset: 0, Err: ErrTruncated}
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, &FormatError{Offset: 0, Err: err}
	}
	return h, nil
}

func appendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

func appendU16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

func appendU32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

func putU32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}
