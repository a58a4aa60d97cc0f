// Package tokenizer splits records into lowercase terms. Splitting is on the
// single space character only; runs of spaces produce empty pieces, which are
// dropped.
package tokenizer

import "strings"

// Token represents a single normalised term and its ordinal among the
// non-empty pieces of the record.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text into lowercased Tokens in their original order.
// Repeated words yield repeated tokens.
func Tokenize(text string) []Token {
	pieces := strings.Split(text, " ")
	tokens := make([]Token, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     strings.ToLower(piece),
			Position: len(tokens),
		})
	}
	return tokens
}

// Terms returns just the lowercased terms of text.
func Terms(text string) []string {
	tokens := Tokenize(text)
	terms := make([]string, len(tokens))
	for i, token := range tokens {
		terms[i] = token.Term
	}
	return terms
}
