// Package token implements the code-aware tokenizer used to turn raw
// document text into the term stream the lexical index scores.
package token

import (
	"strings"
	"unicode"
)

// Kind classifies the content a document (or chunk) was tokenized from,
// driving the BM25 content-kind weight multiplier.
type Kind uint8

const (
	KindMixed Kind = iota
	KindFunction
	KindType
	KindVariable
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindVariable:
		return "variable"
	case KindComment:
		return "comment"
	default:
		return "mixed"
	}
}

// Tokenize splits text into the token stream consumed by the lexical index.
//
// Every full identifier is always kept alongside its split subtokens, and
// tokens are never lowercased or length-filtered: callers that want
// stop-word filtering apply it themselves downstream, keeping this function
// a pure lexical transform.
func Tokenize(text string) []string {
	runes := []rune(text)
	n := len(runes)
	tokens := make([]string, 0, n/3+1)

	i := 0
	for i < n {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isIdentStart(r):
			start := i
			for i < n && isIdentContinue(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			tokens = append(tokens, word)
			tokens = append(tokens, splitIdentifier(word)...)
		case unicode.IsDigit(r):
			start := i
			for i < n && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		default:
			tokens = append(tokens, string(r))
			i++
		}
	}
	return tokens
}

// isIdentStart reports whether r can begin an identifier run: a digit
// here instead starts a numeric run (see the Tokenize switch), matching
// the tokenizer's [A-Za-z_][A-Za-z0-9_]* identifier shape.
func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentContinue reports whether r can continue an identifier run
// already started by isIdentStart: letters, digits, and underscore.
func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// splitIdentifier returns the subtokens of an identifier: on '_', its
// non-empty underscore-delimited parts; otherwise its acronym-aware
// camelCase/PascalCase boundaries.
func splitIdentifier(word string) []string {
	if strings.ContainsRune(word, '_') {
		return splitSnakeCase(word)
	}
	return splitCamelCase(word)
}

func splitSnakeCase(word string) []string {
	var parts []string
	var cur []rune
	for _, r := range word {
		if r == '_' {
			if len(cur) > 0 {
				parts = append(parts, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}

// splitCamelCase splits camelCase/PascalCase identifiers, treating runs of
// uppercase letters as acronyms: "HTTPHandler" -> ["HTTP", "Handler"],
// "parseHTTPRequest" -> ["parse", "HTTP", "Request"].
func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var result []string
	var cur []rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				if len(cur) > 0 {
					result = append(result, string(cur))
					cur = cur[:0]
				}
			}
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		result = append(result, string(cur))
	}
	if len(result) == 1 {
		return nil
	}
	return result
}

// InferKind classifies text by first-match substring scan, in the order
// function, type, variable, comment, else mixed. It is a heuristic,
// overridable by callers that already know the content kind.
func InferKind(text string) Kind {
	for _, m := range []struct {
		markers []string
		kind    Kind
	}{
		{[]string{"func ", "function ", "def ", "fn "}, KindFunction},
		{[]string{"type ", "struct ", "interface ", "class "}, KindType},
		{[]string{"var ", "let ", "const "}, KindVariable},
		{[]string{"//", "/*", "# "}, KindComment},
	} {
		for _, marker := range m.markers {
			if strings.Contains(text, marker) {
				return m.kind
			}
		}
	}
	return KindMixed
}
