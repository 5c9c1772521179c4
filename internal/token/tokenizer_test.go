package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrama-dev/hybridcore/internal/token"
)

func TestTokenizeRetainsFullIdentifierAndSubtokens(t *testing.T) {
	toks := token.Tokenize("getUserData")
	assert.Contains(t, toks, "getUserData")
	assert.Contains(t, toks, "get")
	assert.Contains(t, toks, "User")
	assert.Contains(t, toks, "Data")
}

func TestTokenizeSnakeCase(t *testing.T) {
	toks := token.Tokenize("parse_input_stream")
	assert.Contains(t, toks, "parse_input_stream")
	assert.Contains(t, toks, "parse")
	assert.Contains(t, toks, "input")
	assert.Contains(t, toks, "stream")
}

func TestTokenizeAcronymAware(t *testing.T) {
	toks := token.Tokenize("parseHTTPRequest")
	assert.Contains(t, toks, "parseHTTPRequest")
	assert.Contains(t, toks, "parse")
	assert.Contains(t, toks, "HTTP")
	assert.Contains(t, toks, "Request")
}

func TestTokenizeNumericRun(t *testing.T) {
	toks := token.Tokenize("x = 3.14")
	assert.Contains(t, toks, "3.14")
}

func TestTokenizeIdentifierWithDigitsStaysWhole(t *testing.T) {
	for _, word := range []string{"sha256", "getV2User", "int64", "utf8", "float32"} {
		toks := token.Tokenize(word)
		assert.Contains(t, toks, word, "identifier %q must not split at a digit", word)
	}
}

func TestTokenizePunctuation(t *testing.T) {
	toks := token.Tokenize("a+b")
	assert.Contains(t, toks, "a")
	assert.Contains(t, toks, "+")
	assert.Contains(t, toks, "b")
}

func TestTokenizeWhitespaceSkipped(t *testing.T) {
	toks := token.Tokenize("  foo   bar  ")
	assert.Equal(t, []string{"foo", "bar"}, toks)
}

func TestTokenizeNoSplitSingleWord(t *testing.T) {
	toks := token.Tokenize("foo")
	assert.Equal(t, []string{"foo"}, toks)
}

func TestInferKindFunction(t *testing.T) {
	assert.Equal(t, token.KindFunction, token.InferKind("func Add(a, b int) int { return a + b }"))
}

func TestInferKindType(t *testing.T) {
	assert.Equal(t, token.KindType, token.InferKind("type Point struct { X, Y int }"))
}

func TestInferKindVariable(t *testing.T) {
	assert.Equal(t, token.KindVariable, token.InferKind("var count = 0"))
}

func TestInferKindComment(t *testing.T) {
	assert.Equal(t, token.KindComment, token.InferKind("// explains the invariant"))
}

func TestInferKindMixedFallback(t *testing.T) {
	assert.Equal(t, token.KindMixed, token.InferKind("hello world"))
}

func TestInferKindFirstMatchWins(t *testing.T) {
	// Contains both a func marker and a type marker; function wins since it is
	// checked first.
	assert.Equal(t, token.KindFunction, token.InferKind("func New() *Config { return &Config{} }"))
}
