package object

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidName is returned for upload names that cannot be stored.
var ErrInvalidName = errors.New("invalid file name")

const maxNameLength = 128

// SanitizeName turns a client-supplied upload name into a single safe path segment.
// Separators become underscores, control characters are dropped and long names are
// shortened while keeping the extension.
func SanitizeName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidName
	}

	runes := []rune(s)
	if len(runes) <= maxNameLength {
		return s, nil
	}
	ext := []rune(path.Ext(s))
	if len(ext) >= maxNameLength {
		ext = nil
	}
	return string(runes[:maxNameLength-len(ext)]) + string(ext), nil
}
