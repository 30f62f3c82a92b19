package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeCheckAcceptsWellTypedProgram(t *testing.T) {
	prog := mustParse(t, `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ jim = malloc node;
  if valid jim { [@jim].value = (1 + 4); print [@jim].value; }
  free jim; }
`)
	require.NoError(t, TypeCheck("t.eb", prog))
}

func TestTypeCheckRejectsAssigningIntToPointer(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = 1; }
`)
	err := TypeCheck("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, TypeError, err.(*CompileError).Kind)
}

func TestTypeCheckRejectsNonIntWhileCondition(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ while p { free p; } }
`)
	err := TypeCheck("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, TypeError, err.(*CompileError).Kind)
}

func TestTypeCheckRejectsFreeOfNonPointer(t *testing.T) {
	prog := mustParse(t, `
var int x;
{ free x; }
`)
	err := TypeCheck("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, TypeError, err.(*CompileError).Kind)
}

func TestTypeCheckResolvesFieldThroughDeref(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node; [@p].v = 3; }
`)
	require.NoError(t, TypeCheck("t.eb", prog))
}

func TestTypeCheckRejectsUnknownField(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node; [@p].missing = 3; }
`)
	err := TypeCheck("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, TypeError, err.(*CompileError).Kind)
}
