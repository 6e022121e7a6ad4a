package constants

import (
	"path/filepath"
	"strings"
)

// Source formats recorded on an extraction result.
const (
	PDF  = "PDF"
	TEXT = "TEXT"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapNameToFormat decides how a logical file name is read. Only ".pdf" (any case) is
// treated as PDF; everything else, including names without an extension, is text.
func MapNameToFormat(name string) string {
	if NormalizeExt(filepath.Ext(name)) == "pdf" {
		return PDF
	}
	return TEXT
}

// Stem returns the file name up to its first dot, matching how analysis
// artifacts are named ("nda.v2.pdf" -> "nda").
func Stem(name string) string {
	base := filepath.Base(name)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}
