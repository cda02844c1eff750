package catalog

import (
	"regexp"
	"strings"
)

var langCodeRe = regexp.MustCompile(`^([a-z]{2}-[A-Z]{2}|[a-z]{2})-`)

// Resolver builds display labels from dictionary file names.
type Resolver struct {
	Languages Languages
}

// LabelFor is Resolver.LabelFor over DefaultLanguages.
func LabelFor(filename string) string {
	return Resolver{Languages: DefaultLanguages}.LabelFor(filename)
}

// LabelFor returns "{language} - {filename}" when filename starts with a known
// language code such as "en-US-" or "de-", and filename unchanged otherwise.
// The primary subtag alone is tried when the full code is unknown.
func (r Resolver) LabelFor(filename string) string {
	m := langCodeRe.FindStringSubmatch(filename)
	if m == nil {
		return filename
	}
	code := m[1]
	name, ok := r.Languages[code]
	if !ok {
		primary, _, _ := strings.Cut(code, "-")
		name, ok = r.Languages[primary]
	}
	if !ok {
		return filename
	}
	return name + " - " + filename
}

// Code returns the language code prefix of filename, if it has one.
func Code(filename string) (string, bool) {
	m := langCodeRe.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return m[1], true
}
