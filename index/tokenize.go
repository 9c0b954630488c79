// Package index provides the inverted full-text index over knowledge-base
// articles. Each article contributes a Fragment built independently of the
// others; fragments are merged into an Index in a single reduce step.
package index

import (
	"strings"
	"unicode"
)

// defaultStopwords are dropped from both indexed text and queries.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "can", "do",
	"for", "from", "has", "have", "how", "if", "in", "into", "is", "it",
	"its", "not", "of", "on", "or", "s", "so", "that", "the", "their",
	"then", "there", "these", "this", "to", "was", "what", "when", "which",
	"will", "with", "you", "your",
}

// Token is a normalized term and its word offset within the source text.
type Token struct {
	Term   string
	Offset int
}

// Tokenizer normalizes text into index terms.
type Tokenizer struct {
	stopwords map[string]bool
}

// NewTokenizer returns a Tokenizer using the default stopword list plus extra.
func NewTokenizer(extra ...string) *Tokenizer {
	stop := make(map[string]bool, len(defaultStopwords)+len(extra))
	for _, w := range defaultStopwords {
		stop[w] = true
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = true
		}
	}
	return &Tokenizer{stopwords: stop}
}

// Words splits text into words on any rune that is not a letter or digit.
// Punctuation is stripped; case is preserved.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Tokenize lowercases text, strips punctuation and drops stopwords.
// Offsets count every word, stopwords included, so they map back onto Words.
func (t *Tokenizer) Tokenize(text string) []Token {
	words := Words(text)
	tokens := make([]Token, 0, len(words))
	for i, w := range words {
		term := strings.ToLower(w)
		if t.stopwords[term] {
			continue
		}
		tokens = append(tokens, Token{Term: term, Offset: i})
	}
	return tokens
}

// IsStopword reports whether term is dropped by the tokenizer.
func (t *Tokenizer) IsStopword(term string) bool {
	return t.stopwords[strings.ToLower(term)]
}
