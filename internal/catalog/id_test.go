package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "trailing id with slash", url: "https://x/pokemon/25/", want: 25},
		{name: "catalog reference url", url: "https://pokeapi.co/api/v2/pokemon/151/", want: 151},
		{name: "no numeric segment", url: "https://x/nomatch", want: 1},
		{name: "numeric segment without final slash", url: "https://x/pokemon/25", want: 1},
		{name: "name segment", url: "https://x/pokemon/pikachu/", want: 1},
		{name: "empty", url: "", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractID(tt.url))
		})
	}
}
