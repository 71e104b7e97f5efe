package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(t *testing.T, tokens []Token) []Type {
	t.Helper()
	var out []Type
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	tokens, err := Tokenize(`int a = 2 + 3;`)
	require.NoError(t, err)
	assert.Equal(t, []Type{INT_KW, IDENT, ASSIGN, INT_LIT, PLUS, INT_LIT, SEMI, EOF}, typesOf(t, tokens))
}

func TestNumericSuffixes(t *testing.T) {
	tokens, err := Tokenize(`5 5L 3f 3.5f 1b 0b`)
	require.NoError(t, err)
	assert.Equal(t, []Type{INT_LIT, LONG_LIT, FLOAT_LIT, FLOAT_LIT, BIT_LIT, BIT_LIT, EOF}, typesOf(t, tokens))
	assert.Equal(t, "3.5", tokens[3].Lexeme[:len(tokens[3].Lexeme)-1])
}

func TestMalformedFloatWithoutSuffix(t *testing.T) {
	_, err := Tokenize(`3.14;`)
	require.Error(t, err)
}

func TestMalformedBitLiteral(t *testing.T) {
	_, err := Tokenize(`12b;`)
	require.Error(t, err)
}

func TestKeywordLookalikeStaysIdentifier(t *testing.T) {
	tokens, err := Tokenize(`intake`)
	require.NoError(t, err)
	assert.Equal(t, IDENT, tokens[0].Type)
	assert.Equal(t, "intake", tokens[0].Lexeme)
}

func TestTwoCharOperators(t *testing.T) {
	tokens, err := Tokenize(`-> == != <= >= && || ++ --`)
	require.NoError(t, err)
	assert.Equal(t, []Type{ARROW, EQ, NE, LE, GE, AND, OR, INC, DEC, EOF}, typesOf(t, tokens))
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"hello`)
	require.Error(t, err)
}

func TestUnterminatedChar(t *testing.T) {
	_, err := Tokenize(`'a`)
	require.Error(t, err)
}

func TestStringMaySpanLines(t *testing.T) {
	tokens, err := Tokenize("\"line1\nline2\"")
	require.NoError(t, err)
	assert.Equal(t, STRING_LIT, tokens[0].Type)
	assert.Equal(t, "line1\nline2", tokens[0].Lexeme)
}

func TestLineCommentSkipped(t *testing.T) {
	tokens, err := Tokenize("int a; // trailing comment\nint b;")
	require.NoError(t, err)
	assert.Equal(t, []Type{INT_KW, IDENT, SEMI, INT_KW, IDENT, SEMI, EOF}, typesOf(t, tokens))
}

func TestAnnotationMarker(t *testing.T) {
	tokens, err := Tokenize(`@quantum @tracked @shots(3)`)
	require.NoError(t, err)
	assert.Equal(t, []Type{AT, IDENT, AT, IDENT, AT, IDENT, LPAREN, INT_LIT, RPAREN, EOF}, typesOf(t, tokens))
}

func TestPositionsAreOneBased(t *testing.T) {
	tokens, err := Tokenize("int a;\nint b;")
	require.NoError(t, err)
	assert.Equal(t, Position{Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Line: 2, Column: 1}, tokens[3].Pos)
}
