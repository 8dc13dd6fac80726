package validate

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MaxRunes reports whether the trimmed value fits in limit characters.
func MaxRunes(value string, limit int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) <= limit
}

// HTTPURL accepts absolute http and https URLs with a host.
func HTTPURL(value string) bool {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
