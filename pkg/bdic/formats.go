package bdic

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary related file kinds spelldict handles.
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatBDIC                // Compiled binary dictionary
	FormatWordList            // Plain text word list, one word per line
	FormatAffix               // Hunspell affix rules
)

// DisabledSuffix marks a dictionary file the engine should not load.
const DisabledSuffix = ".disabled"

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBDIC: {
		Format:      FormatBDIC,
		Description: "Binary Dictionary",
		Extensions:  []string{Ext, Ext + DisabledSuffix},
		MinSize:     HeaderSize + AffHeaderSize,
	},
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dic"},
		MinSize:     0,
	},
	FormatAffix: {
		Format:      FormatAffix,
		Description: "Affix Rules",
		Extensions:  []string{".aff"},
		MinSize:     0,
	},
}

// String returns the format's description.
func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// extOf returns the extension used for format matching, keeping the disabled
// marker attached to the real extension.
func extOf(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	if strings.HasSuffix(name, Ext+DisabledSuffix) {
		return Ext + DisabledSuffix
	}
	return filepath.Ext(name)
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := extOf(filename)
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatBDIC {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat checks the signature and version of a bdic file
// without reading the whole file.
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var h Header
	if err := binary.Read(file, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if h.Signature != Signature {
		return fmt.Errorf("%s: %w", filename, ErrBadSignature)
	}
	if h.Major != MajorVersion {
		return fmt.Errorf("%s: %w: %d.%d", filename, ErrUnsupportedVersion, h.Major, h.Minor)
	}

	log.Debugf("Binary file %s validated: version %d.%d", filename, h.Major, h.Minor)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	for _, format := range []FileFormat{FormatBDIC, FormatAffix, FormatWordList} {
		if err := ValidateFileFormat(filename, format); err == nil {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// ExpectFormat rejects a file detected as a format other than want. Files
// of no known format are left to the reader.
func ExpectFormat(path string, want FileFormat) error {
	got, err := DetectFileFormat(path)
	if err != nil || got == want {
		return nil
	}
	return fmt.Errorf("%s is a %s file, not a %s file", path, got, want)
}

// Sniff is a cheap validity check for catalog listings: extension, size,
// signature and version, without reading or hashing the whole file.
func Sniff(path string) error {
	return ValidateFileFormat(path, FormatBDIC)
}
