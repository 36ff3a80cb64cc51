package risk

import "strings"

// Placeholder strings that upstream exports write into identifier columns
// when the real value is missing. Compared after trimming and upper-casing.
var placeholderValues = map[string]struct{}{
	"":          {},
	"NULL":      {},
	"N/A":       {},
	"NONE":      {},
	"UNDEFINED": {},
}

// IsValidIdentifier reports whether a raw identifier field is usable as a
// grouping key. Records carrying placeholder identifiers are dropped before
// grouping rather than treated as errors.
func IsValidIdentifier(value string) bool {
	_, placeholder := placeholderValues[strings.ToUpper(strings.TrimSpace(value))]
	return !placeholder
}
