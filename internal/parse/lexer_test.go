package parse_test

import (
	"testing"

	"github.com/coredb-project/coredb/internal/parse"
	"github.com/stretchr/testify/require"
)

func TestLexerTokenizesKeywordsCaseInsensitively(t *testing.T) {
	l, err := parse.NewLexer("SELECT a FROM t")
	require.NoError(t, err)
	require.True(t, l.MatchKeyword("select"))
}

func TestLexerEatIDAdvancesToNextToken(t *testing.T) {
	l, err := parse.NewLexer("sid")
	require.NoError(t, err)
	name, err := l.EatID()
	require.NoError(t, err)
	require.Equal(t, "sid", name)
}

func TestLexerStringConstantStripsQuotes(t *testing.T) {
	l, err := parse.NewLexer("'ada lovelace'")
	require.NoError(t, err)
	require.True(t, l.MatchStringConstant())
	s, err := l.EatStringConstant()
	require.NoError(t, err)
	require.Equal(t, "ada lovelace", s)
}

func TestLexerIntConstant(t *testing.T) {
	l, err := parse.NewLexer("42")
	require.NoError(t, err)
	require.True(t, l.MatchIntConstant())
	v, err := l.EatIntConstant()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestLexerUnterminatedStringConstantErrors(t *testing.T) {
	_, err := parse.NewLexer("'unterminated")
	require.Error(t, err)
}

func TestLexerEatKeywordMismatchErrors(t *testing.T) {
	l, err := parse.NewLexer("select")
	require.NoError(t, err)
	require.Error(t, l.EatKeyword("from"))
}

func TestLexerRecognizesDelimiters(t *testing.T) {
	l, err := parse.NewLexer("(x)")
	require.NoError(t, err)
	require.True(t, l.MatchDelim('('))
}
