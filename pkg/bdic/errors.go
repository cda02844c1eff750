package bdic

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAffix is matched by every affix rule error.
	ErrMalformedAffix = errors.New("malformed affix rules")
	// ErrNoWords is returned when compiling an empty word list.
	ErrNoWords = errors.New("no words to compile")

	ErrBadSignature       = errors.New("not a bdic file")
	ErrUnsupportedVersion = errors.New("unsupported bdic version")
	ErrDigestMismatch     = errors.New("bdic digest mismatch")
	ErrTruncated          = errors.New("bdic data truncated")
	ErrCorrupt            = errors.New("corrupt bdic data")
)

// MalformedAffixError describes affix rules the container cannot represent.
type MalformedAffixError struct {
	Line   int // 1-based line in the aff text, 0 when not tied to a line
	Text   string
	Reason string
}

func (e *MalformedAffixError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed affix rules: line %d %q: %s", e.Line, e.Text, e.Reason)
	}
	if e.Text != "" {
		return fmt.Sprintf("malformed affix rules: %q: %s", e.Text, e.Reason)
	}
	return "malformed affix rules: " + e.Reason
}

func (e *MalformedAffixError) Unwrap() error { return ErrMalformedAffix }

// FormatError reports where a bdic blob failed to decode.
type FormatError struct {
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bdic: offset %d: %v", e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func corruptAt(offset int, format string, args ...any) error {
	return &FormatError{Offset: offset, Err: fmt.Errorf("%w: "+format, append([]any{ErrCorrupt}, args...)...)}
}
