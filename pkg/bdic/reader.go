package bdic

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is a stem recovered from the dic trie with its affix group ids.
type Entry struct {
	Stem    string
	Affixes []int
}

// Dictionary is a decoded bdic file.
type Dictionary struct {
	Header    Header
	AffHeader AffHeader
	Affix     *Affix
	Size      int

	entries []Entry
	trie    *patricia.Trie
}

// ReadFile parses the bdic file at path.
func ReadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a bdic blob, verifying its signature, version and digest.
func Parse(data []byte) (*Dictionary, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Signature != Signature {
		return nil, &FormatError{Offset: 0, Err: ErrBadSignature}
	}
	if h.Major != MajorVersion {
		return nil, &FormatError{Offset: 4, Err: fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, h.Major, h.Minor)}
	}
	if md5.Sum(data[HeaderSize:]) != h.Digest {
		return nil, &FormatError{Offset: 16, Err: ErrDigestMismatch}
	}

	affOff, dicOff := int(h.AffOffset), int(h.DicOffset)
	if affOff < HeaderSize || affOff+AffHeaderSize > len(data) {
		return nil, corruptAt(8, "aff offset %d out of range", affOff)
	}
	if dicOff < affOff+AffHeaderSize || dicOff >= len(data) {
		return nil, corruptAt(12, "dic offset %d out of range", dicOff)
	}

	d := &Dictionary{Header: h, Size: len(data), trie: patricia.NewTrie()}
	if err := d.readAff(data[:dicOff], affOff); err != nil {
		return nil, err
	}

	dic := data[dicOff:]
	var walkErr error
	err = walkTrie(dic, 0, nil, func(word string, affixes []int) {
		for _, id := range affixes {
			if _, ok := d.Affix.Flags(id); !ok && walkErr == nil {
				walkErr = corruptAt(dicOff, "word %q references affix group %d of %d", word, id, len(d.Affix.Groups))
			}
		}
		d.entries = append(d.entries, Entry{Stem: word, Affixes: affixes})
		d.trie.Insert(patricia.Prefix(word), len(d.entries)-1)
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return d, nil
}

func (d *Dictionary) readAff(data []byte, affOff int) error {
	hdr := data[affOff : affOff+AffHeaderSize]
	d.AffHeader = AffHeader{
		GroupOffset:       binary.LittleEndian.Uint32(hdr[0:]),
		RuleOffset:        binary.LittleEndian.Uint32(hdr[4:]),
		ReplacementOffset: binary.LittleEndian.Uint32(hdr[8:]),
		OtherOffset:       binary.LittleEndian.Uint32(hdr[12:]),
	}
	ah := d.AffHeader
	for _, off := range []uint32{ah.GroupOffset, ah.RuleOffset, ah.ReplacementOffset, ah.OtherOffset} {
		if int(off) < affOff+AffHeaderSize || int(off) >= len(data) {
			return corruptAt(affOff, "aff list offset %d out of range", off)
		}
	}

	a := newAffix()
	a.Comment = strings.Trim(string(data[affOff+AffHeaderSize:ah.GroupOffset]), "\n")

	groups, err := readCStrings(data, int(ah.GroupOffset))
	if err != nil {
		return err
	}
	// the first line only carries the group count
	if len(groups) > 0 {
		groups = groups[1:]
	}
	for _, g := range groups {
		a.Groups = append(a.Groups, strings.TrimPrefix(g, "AF "))
	}
	a.indexed = true

	if a.Rules, err = readCStrings(data, int(ah.RuleOffset)); err != nil {
		return err
	}
	reps, err := readCStrings(data, int(ah.ReplacementOffset))
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(reps); i += 2 {
		a.Replacements = append(a.Replacements, Replacement{From: reps[i], To: reps[i+1]})
	}
	if a.Other, err = readCStrings(data, int(ah.OtherOffset)); err != nil {
		return err
	}
	d.Affix = a
	return nil
}

// readCStrings reads NUL-terminated strings from off until an empty one.
func readCStrings(data []byte, off int) ([]string, error) {
	var out []string
	for {
		if off >= len(data) {
			return nil, &FormatError{Offset: off, Err: ErrTruncated}
		}
		end := bytes.IndexByte(data[off:], 0)
		if end < 0 {
			return nil, &FormatError{Offset: off, Err: ErrTruncated}
		}
		if end == 0 {
			return out, nil
		}
		out = append(out, string(data[off:off+end]))
		off += end + 1
	}
}

// Entries returns the stems in trie order with their affix group ids.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Len is the number of stems stored.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Stems returns the stored stems in byte order.
func (d *Dictionary) Stems() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Stem
	}
	return out
}

// Words renders the entries back into word list form, one "stem/flags" line
// per affix group and a bare stem for entries without groups.
func (d *Dictionary) Words() []string {
	out := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		if len(e.Affixes) == 0 {
			out = append(out, e.Stem)
			continue
		}
		for _, id := range e.Affixes {
			flags, _ := d.Affix.Flags(id)
			out = append(out, e.Stem+string(Separator)+flags)
		}
	}
	return out
}

// Contains reports whether stem is stored in the dictionary.
func (d *Dictionary) Contains(stem string) bool {
	return d.trie.Get(patricia.Prefix(stem)) != nil
}

// Lookup returns the entry stored for stem.
func (d *Dictionary) Lookup(stem string) (Entry, bool) {
	item := d.trie.Get(patricia.Prefix(stem))
	if item == nil {
		return Entry{}, false
	}
	return d.entries[item.(int)], true
}

// WithPrefix returns the stored stems starting with prefix, in byte order.
func (d *Dictionary) WithPrefix(prefix string) []string {
	var idx []int
	_ = d.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		idx = append(idx, item.(int))
		return nil
	})
	// entries are already in byte order
	slices.Sort(idx)
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = d.entries[n].Stem
	}
	return out
}
