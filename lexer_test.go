package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexerKeywordsAndPunctuation(t *testing.T) {
	toks, err := NewLexer("t.eb", []byte("type node struct { ptr to node next; };")).Lex()
	require.NoError(t, err)

	want := []TokenKind{
		TokType, TokIdent, TokStruct, TokLBrace,
		TokPtr, TokTo, TokIdent, TokIdent, TokSemi,
		TokRBrace, TokSemi, TokEOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		require.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexerIntLiteral(t *testing.T) {
	toks, err := NewLexer("t.eb", []byte("123")).Lex()
	require.NoError(t, err)
	require.Equal(t, TokIntLit, toks[0].Kind)
	require.Equal(t, 123, toks[0].Value)
}

func TestLexerUnknownCharacterFails(t *testing.T) {
	_, err := NewLexer("t.eb", []byte("var int x; $")).Lex()
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, LexError, ce.Kind)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks, err := NewLexer("t.eb", []byte("var int x;\nvar int y;")).Lex()
	require.NoError(t, err)

	var secondVar Token
	count := 0
	for _, tok := range toks {
		if tok.Kind == TokVar {
			count++
			if count == 2 {
				secondVar = tok
			}
		}
	}
	require.Equal(t, 2, secondVar.Span.Start.Line)
	require.Equal(t, 1, secondVar.Span.Start.Column)
}
