package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Alice Smith alice@x.com", []string{"alice", "smith", "alice@x.com"}},
		{"empty", "", []string{}},
		{"only spaces", "    ", []string{}},
		{"double spaces", "bob  jones", []string{"bob", "jones"}},
		{"leading and trailing", " dwight ", []string{"dwight"}},
		{"repeated words kept", "Ann ann ANN", []string{"ann", "ann", "ann"}},
		{"tabs are not separators", "a\tb c", []string{"a\tb", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Terms(tt.text))
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := Tokenize("  first   second third")
	assert.Equal(t, []Token{
		{Term: "first", Position: 0},
		{Term: "second", Position: 1},
		{Term: "third", Position: 2},
	}, tokens)
}
