package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkills(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain list", "js,node,css", []string{"js", "node", "css"}},
		{"whitespace trimmed", " JS , Node ,CSS ", []string{"JS", "Node", "CSS"}},
		{"single entry", "Go", []string{"Go"}},
		{"empty input", "   ", nil},
		{"empty entries kept", "js,,css", []string{"js", "", "css"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkills(tt.raw))
		})
	}
}
