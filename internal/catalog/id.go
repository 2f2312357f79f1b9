package catalog

import (
	"regexp"
	"strconv"
)

// DefaultID is returned by ExtractID when the URL has no numeric trailing segment.
const DefaultID = 1

var trailingIDPattern = regexp.MustCompile(`/(\d+)/$`)

// ExtractID returns the numeric path segment before the final slash of a reference URL,
// e.g. 25 for https://pokeapi.co/api/v2/pokemon/25/. URLs without one yield DefaultID.
func ExtractID(referenceURL string) int {
	match := trailingIDPattern.FindStringSubmatch(referenceURL)
	if match == nil {
		return DefaultID
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return DefaultID
	}
	return id
}
