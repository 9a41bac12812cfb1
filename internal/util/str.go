package util

import (
	"strings"
)

// legalEntitySuffixes are trailing words that belong to the legal name of a
// company but never to its trade name ("Chatime Canada Ltd." -> "Chatime
// Canada").
var legalEntitySuffixes = []string{ // nolint:gochecknoglobals
	"co", "corp", "corporation", "company", "gmbh", "inc", "limited", "llc",
	"ltd", "pty", "sa", "sarl",
}

// NormalizeBrandName lowercases a brand name and collapses its whitespace so
// two spellings of the same brand compare equal.
func NormalizeBrandName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// CleanStoreName extracts a brand name from the name of a single store as
// found in a places directory.
// eg. "Chatime Canada Ltd. | Waterloo" -> "Chatime Canada"
// The optional placeTypes are directory categories ("bubble_tea_store",
// "cafe") that storefronts tend to append to their own name.
func CleanStoreName(raw string, placeTypes []string) string {
	name := raw

	// Everything after a separator is a location qualifier, not a name.
	for _, sep := range []string{" | ", " - ", " – ", " @ ", " at "} {
		if i := strings.Index(name, sep); i > 0 {
			name = name[:i]
		}
	}

	name = strings.TrimSpace(name)
	name = trimLegalEntity(name)

	for _, placeType := range placeTypes {
		readable := strings.ReplaceAll(placeType, "_", " ")
		if len(name) > len(readable) && strings.EqualFold(name[len(name)-len(readable):], readable) {
			name = strings.TrimSpace(name[:len(name)-len(readable)])
		}
	}

	if name == "" {
		return strings.TrimSpace(raw)
	}

	return name
}

func trimLegalEntity(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 1 {
		last := strings.ToLower(strings.Trim(fields[len(fields)-1], ".,"))

		var isLegal bool
		for _, suffix := range legalEntitySuffixes {
			if last == suffix {
				isLegal = true
				break
			}
		}

		if !isLegal {
			break
		}

		fields = fields[:len(fields)-1]
	}

	return strings.Join(fields, " ")
}
