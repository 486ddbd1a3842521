package util

import (
	"path"
	"strings"
)

// SanitizeKeyComponent maps every character outside [A-Za-z0-9._-] to '_'.
// The result is safe to embed in a blob key on any backend.
func SanitizeKeyComponent(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.', ch == '_', ch == '-':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FileExtension returns the lower-cased text after the last '.', or "" when
// the name has no dot.
func FileExtension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}
