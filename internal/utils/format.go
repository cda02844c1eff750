package utils

import (
	"github.com/dustin/go-humanize"
)

// FormatWithCommas renders n with thousands separators.
func FormatWithCommas(n int) string {
	return humanize.Comma(int64(n))
}

// FormatBytes renders a file size for listings ("1.2 MB").
func FormatBytes(n int64) string {
	if n < 0 {
		return "?"
	}
	return humanize.Bytes(uint64(n))
}
