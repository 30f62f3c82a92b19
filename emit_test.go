package eightebed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, src string) string {
	t.Helper()
	prog := mustParse(t, src)
	require.NoError(t, TypeCheck("t.eb", prog))
	require.NoError(t, CheckSafety("t.eb", prog))
	out, err := Emit(prog)
	require.NoError(t, err)
	return out
}

func TestEmitIncludesRuntimePreamble(t *testing.T) {
	out := compileOK(t, `var int x; { x = 1; print x; }`)
	require.Contains(t, out, "eb_free_ptr")
	require.Contains(t, out, "invalidate_aliases_of")
}

func TestEmitStructAndPointerTypes(t *testing.T) {
	out := compileOK(t, `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ }
`)
	require.Contains(t, out, "struct eb_struct_node {")
	require.Contains(t, out, "int value;")
	require.Contains(t, out, "eb_ptr_node next;")
	require.Contains(t, out, "typedef struct {")
	require.Contains(t, out, "struct eb_struct_node *raw;")
	require.Contains(t, out, "int valid;")
	require.Contains(t, out, "} eb_ptr_node;")
}

func TestEmitDerefAndFieldComposition(t *testing.T) {
	out := compileOK(t, `
type node struct { int value; };
var ptr to node jim;
{ jim = malloc node; if valid jim { [@jim].value = 5; } }
`)
	require.Contains(t, out, "(*jim.raw).value = 5;")
}

func TestEmitFreeCallsRuntimeHelper(t *testing.T) {
	out := compileOK(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node; free p; }
`)
	require.Contains(t, out, "eb_free_ptr((eb_ptr_base *)&p);")
}

func TestEmitEqualityBecomesDoubleEquals(t *testing.T) {
	out := compileOK(t, `
var int a; var int b; var int c;
{ a = 1; b = 1; c = (a = b); print c; }
`)
	require.Contains(t, out, "(a == b)")
}

func TestEmitAndOrUseLiteralBitwiseSymbols(t *testing.T) {
	out := compileOK(t, `
var int a; var int b; var int c;
{ a = 1; b = 1; c = (a & b); print c; c = (a | b); print c; }
`)
	require.Contains(t, out, "(a & b)")
	require.Contains(t, out, "(a | b)")
	require.NotContains(t, out, "(a && b)")
	require.NotContains(t, out, "(a || b)")
}

func TestEmitIsDeterministic(t *testing.T) {
	src := `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ jim = malloc node;
  if valid jim { [@jim].value = (1 + 4); print [@jim].value; }
  free jim; }
`
	a := compileOK(t, src)
	b := compileOK(t, src)
	require.Equal(t, a, b)
}

func TestEmitWalkFunctionFollowsSelfReferentialField(t *testing.T) {
	out := compileOK(t, `
type node struct { int v; ptr to node next; };
var ptr to node a;
{ }
`)
	require.True(t, strings.Contains(out, "eb_walk_node(void *blockv) {"))
	require.Contains(t, out, "eb_touch((eb_ptr_base *)&block->next, eb_walk_node);")
}
