package bdic

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

// Replacement is one REP pair.
type Replacement struct {
	From string
	To   string
}

// Affix is the affix-rule part of a dictionary, in the shape it is stored in
// the aff section. Groups[i] holds the flag string of affix group i+1.
type Affix struct {
	Comment      string
	Groups       []string
	Rules        []string
	Replacements []Replacement
	Other        []string

	// indexed is set when the rules declare their own AF groups, in which
	// case word flags are group numbers instead of flag strings.
	indexed    bool
	groupIndex map[string]int
}

func newAffix() *Affix {
	return &Affix{groupIndex: make(map[string]int)}
}

// ParseAffix reads hunspell .aff text. A SET directive naming a charset other
// than UTF-8 is decoded to UTF-8 and rewritten as "SET UTF-8". Continuation
// classes on PFX/SFX rules are rewritten to affix group numbers.
func ParseAffix(data []byte) (*Affix, error) {
	a := newAffix()
	if len(data) == 0 {
		return a, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, &MalformedAffixError{Reason: "contains NUL byte"}
	}

	text, err := decodeAffixText(data)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")

	// AF groups have to be known before rules reference them.
	afCount := -1
	for i, raw := range lines {
		fields := strings.Fields(raw)
		if len(fields) == 0 || fields[0] != "AF" {
			continue
		}
		if len(fields) < 2 {
			return nil, &MalformedAffixError{Line: i + 1, Text: strings.TrimSpace(raw), Reason: "AF without argument"}
		}
		if afCount < 0 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				return nil, &MalformedAffixError{Line: i + 1, Text: strings.TrimSpace(raw), Reason: "AF count is not a number"}
			}
			afCount = n
			a.indexed = true
			continue
		}
		if _, err := a.addGroup(fields[1]); err != nil {
			return nil, &MalformedAffixError{Line: i + 1, Text: strings.TrimSpace(raw), Reason: err.Error()}
		}
	}

	setSeen := false
	repHeader := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		malformed := func(reason string) error {
			return &MalformedAffixError{Line: i + 1, Text: line, Reason: reason}
		}

		switch fields[0] {
		case "AF":
			// handled above
		case "SET":
			if !setSeen {
				a.Other = append(a.Other, "SET UTF-8")
				setSeen = true
			}
		case "REP":
			if !repHeader {
				if len(fields) < 2 {
					return nil, malformed("REP without count")
				}
				if _, err := strconv.Atoi(fields[1]); err == nil && len(fields) == 2 {
					repHeader = true
					continue
				}
			}
			if len(fields) < 3 {
				return nil, malformed("REP needs a pattern and a replacement")
			}
			a.Replacements = append(a.Replacements, Replacement{From: fields[1], To: fields[2]})
		case "PFX", "SFX":
			rule, err := a.rewriteRule(fields)
			if err != nil {
				return nil, malformed(err.Error())
			}
			a.Rules = append(a.Rules, rule)
		default:
			a.Other = append(a.Other, strings.Join(fields, " "))
		}
	}
	return a, nil
}

// rewriteRule normalizes whitespace of a PFX/SFX line and replaces the flags of
// a continuation class ("ing/XY") by its affix group number.
func (a *Affix) rewriteRule(fields []string) (string, error) {
	switch {
	case len(fields) < 4:
		return "", errString("incomplete affix rule")
	case len(fields) == 4:
		if fields[2] != "Y" && fields[2] != "N" {
			return "", errString("affix header cross-product must be Y or N")
		}
		if _, err := strconv.Atoi(fields[3]); err != nil {
			return "", errString("affix header count is not a number")
		}
		return strings.Join(fields, " "), nil
	}

	affix := fields[3]
	if i := strings.IndexByte(affix, Separator); i >= 0 {
		id, err := a.groupFor(affix[i+1:])
		if err != nil {
			return "", err
		}
		out := make([]string, len(fields))
		copy(out, fields)
		out[3] = affix[:i] + "/" + strconv.Itoa(id)
		fields = out
	}
	return strings.Join(fields, " "), nil
}

func (a *Affix) addGroup(flags string) (int, error) {
	if len(a.Groups) >= maxFirstAffixID {
		return 0, errString("too many affix groups")
	}
	a.Groups = append(a.Groups, flags)
	id := len(a.Groups)
	if _, ok := a.groupIndex[flags]; !ok {
		a.groupIndex[flags] = id
	}
	return id, nil
}

// groupFor resolves the flags of a word or continuation class to an affix
// group number, creating the group when the rules do not declare AF groups.
func (a *Affix) groupFor(flags string) (int, error) {
	if a.indexed {
		id, err := strconv.Atoi(flags)
		if err != nil || id < 1 || id > len(a.Groups) {
			return 0, errString("undefined affix group " + strconv.Quote(flags))
		}
		return id, nil
	}
	if id, ok := a.groupIndex[flags]; ok {
		return id, nil
	}
	return a.addGroup(flags)
}

// Flags returns the flag string of affix group id.
func (a *Affix) Flags(id int) (string, bool) {
	if id < 1 || id > len(a.Groups) {
		return "", false
	}
	return a.Groups[id-1], true
}

// Empty reports whether the aff section carries no data at all.
func (a *Affix) Empty() bool {
	return a == nil || (len(a.Groups) == 0 && len(a.Rules) == 0 && len(a.Replacements) == 0 && len(a.Other) == 0)
}

// appendTo serializes the aff section at the end of buf, which must hold
// everything written before it so offsets come out absolute.
func (a *Affix) appendTo(buf []byte) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, AffHeaderSize)...)

	buf = append(buf, '\n')
	buf = append(buf, a.Comment...)
	buf = append(buf, '\n')

	var h AffHeader
	h.GroupOffset = uint32(len(buf))
	buf = appendCString(buf, "AF "+strconv.Itoa(len(a.Groups)))
	for _, g := range a.Groups {
		buf = appendCString(buf, "AF "+g)
	}
	buf = append(buf, 0)

	h.RuleOffset = uint32(len(buf))
	for _, r := range a.Rules {
		buf = appendCString(buf, r)
	}
	buf = append(buf, 0)

	h.ReplacementOffset = uint32(len(buf))
	for _, r := range a.Replacements {
		buf = appendCString(buf, r.From)
		buf = appendCString(buf, r.To)
	}
	buf = append(buf, 0)

	h.OtherOffset = uint32(len(buf))
	for _, o := range a.Other {
		buf = appendCString(buf, o)
	}
	buf = append(buf, 0)

	hdr := buf[start : start+AffHeaderSize]
	putU32(hdr[0:], h.GroupOffset)
	putU32(hdr[4:], h.RuleOffset)
	putU32(hdr[8:], h.ReplacementOffset)
	putU32(hdr[12:], h.OtherOffset)
	return buf
}

// decodeAffixText converts the aff bytes to UTF-8 text following its SET
// directive and strips a byte order mark.
func decodeAffixText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	charset := ""
	for _, line := range bytes.Split(data, []byte("\n")) {
		fields := bytes.Fields(line)
		if len(fields) >= 2 && string(fields[0]) == "SET" {
			charset = string(fields[1])
			break
		}
	}

	if charset != "" && !isUTF8Name(charset) {
		enc, err := ianaindex.IANA.Encoding(canonicalCharset(charset))
		if err != nil || enc == nil {
			return "", &MalformedAffixError{Text: "SET " + charset, Reason: "unsupported charset"}
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", &MalformedAffixError{Text: "SET " + charset, Reason: "cannot decode: " + err.Error()}
		}
		data = decoded
	}
	if !utf8.Valid(data) {
		return "", &MalformedAffixError{Reason: "text is not valid UTF-8"}
	}
	return strings.ReplaceAll(string(data), "\r", ""), nil
}

func isUTF8Name(name string) bool {
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8":
		return true
	}
	return false
}

// canonicalCharset maps hunspell charset spellings to IANA names.
func canonicalCharset(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.HasPrefix(upper, "ISO8859-"):
		return "ISO-8859-" + upper[len("ISO8859-"):]
	case strings.HasPrefix(upper, "MICROSOFT-CP"):
		return "windows-" + upper[len("MICROSOFT-CP"):]
	case upper == "TIS620-2533":
		return "TIS-620"
	}
	return name
}

type errString string

func (e errString) Error() string { return string(e) }
