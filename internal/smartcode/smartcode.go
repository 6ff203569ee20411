// Package smartcode validates the hierarchical dotted codes that give generic
// rows their business meaning (e.g. SALON.POS.SALE.TXN.v1). Every entity,
// relationship, transaction and line write goes through this validator.
package smartcode

import (
	"errors"
	"regexp"
	"strings"
)

// Pattern is the canonical wire format: an uppercase leading segment, two to
// eight further uppercase segments, and exactly one trailing lowercase
// version segment.
const Pattern = `^[A-Z][A-Z0-9_]*(\.[A-Z0-9_]+){2,8}\.v[0-9]+$`

var (
	// ErrInvalidFormat indicates the code does not match the canonical pattern.
	ErrInvalidFormat = errors.New("smart code does not match required format")
	// ErrInvalidVersion indicates the version segment uses an uppercase V.
	// The canonical form is always a lowercase v; mixed-case codes are never
	// stored as-is.
	ErrInvalidVersion = errors.New("smart code version segment must use lowercase v")
)

// Compiled once; immutable and safe for concurrent use without locking.
var (
	codeRe             = regexp.MustCompile(Pattern)
	upperVersionTailRe = regexp.MustCompile(`\.V[0-9]+$`)
)

// Validate checks a candidate smart code against the canonical pattern.
// A code that would be valid except for an uppercase version tag is reported
// as ErrInvalidVersion so callers can normalize and resubmit.
func Validate(code string) error {
	if codeRe.MatchString(code) {
		return nil
	}
	if upperVersionTailRe.MatchString(code) && codeRe.MatchString(Normalize(code)) {
		return ErrInvalidVersion
	}
	return ErrInvalidFormat
}

// Normalize lowercases only the trailing version tag (".V1" -> ".v1") and
// leaves every other segment untouched. It does not imply validity; callers
// still run Validate on the result.
func Normalize(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 || idx == len(code)-1 {
		return code
	}
	tail := code[idx+1:]
	if tail[0] != 'V' {
		return code
	}
	for _, r := range tail[1:] {
		if r < '0' || r > '9' {
			return code
		}
	}
	return code[:idx+1] + "v" + tail[1:]
}

// Domain returns the leading segment of a smart code, used to check that a
// dynamic field's code belongs to the same domain as its owning entity.
func Domain(code string) string {
	if idx := strings.Index(code, "."); idx > 0 {
		return code[:idx]
	}
	return code
}

// Version returns the numeric portion of the version segment, or an empty
// string when the code has no recognizable version tail.
func Version(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 || idx+2 > len(code) {
		return ""
	}
	tail := code[idx+1:]
	if tail[0] != 'v' && tail[0] != 'V' {
		return ""
	}
	return tail[1:]
}
