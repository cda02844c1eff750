package bdic

import (
	"crypto/md5"
	"slices"
	"sort"
	"strings"
)

// Compile encodes words into a bdic blob. Each word is either a plain stem or
// "stem/flags"; flags name an affix group of affix, or a group number when
// affix declares AF groups. affix may be nil, in which case the aff section
// holds empty lists. The output depends only on the inputs.
//
// Word content is not validated here; see package wordlist.
func Compile(words []string, affix []byte) ([]byte, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	a, err := ParseAffix(affix)
	if err != nil {
		return nil, err
	}
	entries, err := collectEntries(words, a)
	if err != nil {
		return nil, err
	}

	root := &trieNode{}
	buildTrie(root, entries, 0)
	dicSize := layout(root)

	buf := make([]byte, HeaderSize, HeaderSize+len(affix)+dicSize+64)
	affOffset := len(buf)
	buf = a.appendTo(buf)
	dicOffset := len(buf)
	buf = appendNode(buf, root)

	h := Header{
		Signature: Signature,
		Major:     MajorVersion,
		Minor:     MinorVersion,
		AffOffset: uint32(affOffset),
		DicOffset: uint32(dicOffset),
		Digest:    md5.Sum(buf[HeaderSize:]),
	}
	copy(buf, h.encode())
	return buf, nil
}

// collectEntries splits words into stems and affix group ids, merging the ids
// of repeated stems. The result is sorted by stem.
func collectEntries(words []string, a *Affix) ([]entry, error) {
	sorted := slices.Clone(words)
	sort.Strings(sorted)

	byStem := make(map[string][]int, len(sorted))
	for _, w := range sorted {
		stem, flags, _ := strings.Cut(w, string(Separator))
		ids := byStem[stem]
		if flags != "" {
			id, err := a.groupFor(flags)
			if err != nil {
				return nil, &MalformedAffixError{Text: w, Reason: err.Error()}
			}
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		byStem[stem] = ids
	}

	entries := make([]entry, 0, len(byStem))
	for stem, ids := range byStem {
		slices.Sort(ids)
		entries = append(entries, entry{word: stem, affixes: ids})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].word < entries[j].word })
	return entries, nil
}
