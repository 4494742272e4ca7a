// Package meta prepares configuration documents before they are decoded.
package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// ExpandEnv replaces every ${env.KEY} in text with the value of the
// environment variable KEY; unset variables expand to "". A key that is not
// made of letters, digits and '_' leaves the expression untouched, and an
// unterminated expression is copied as is.
func ExpandEnv(text string) string {
	return expand(text, os.Getenv)
}

func expand(text string, lookup func(string) string) string {
	var out strings.Builder
	rest := text
	for {
		start := strings.Index(rest, envPrefix)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:start])
		keyStart := start + len(envPrefix)
		end := strings.IndexByte(rest[keyStart:], '}')
		if end < 0 {
			out.WriteString(rest[start:])
			return out.String()
		}
		key := rest[keyStart : keyStart+end]
		if !isEnvKey(key) {
			out.WriteString(envPrefix)
			rest = rest[keyStart:]
			continue
		}
		out.WriteString(lookup(key))
		rest = rest[keyStart+end+1:]
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
