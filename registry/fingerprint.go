package registry

import (
	"regexp"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"stylo/style"
)

// DefaultPrefix starts every generated class name.
const DefaultPrefix = "stylo_"

// class name prefix must start with a letter or underscore (optionally after
// a single hyphen) so identifiers never begin with a digit
var prefixPattern = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// ValidPrefix reports whether prefix yields valid CSS class names.
func ValidPrefix(prefix string) bool {
	return prefixPattern.MatchString(prefix)
}

// Fingerprint returns xxhash64 of the canonical serialization of d.
func Fingerprint(d *style.Description, sorted bool) uint64 {
	return xxhash.Sum64(d.Canonical(sorted))
}

// Identifier joins prefix and base-36 fingerprint.
func Identifier(prefix string, fingerprint uint64) string {
	return prefix + strconv.FormatUint(fingerprint, 36)
}
