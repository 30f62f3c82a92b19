package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafetyAcceptsGuardedDereference(t *testing.T) {
	prog := mustParse(t, `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ jim = malloc node;
  if valid jim { [@jim].value = (1 + 4); print [@jim].value; }
  free jim; }
`)
	require.NoError(t, CheckSafety("t.eb", prog))
}

func TestSafetyRejectsUnguardedDereference(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node; [@p].v = 1; }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}

func TestSafetyAssignmentEndsSafeStart(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p; var int x;
{ p = malloc node;
  if valid p { x = 1; [@p].v = 2; } }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}

func TestSafetyFreeEndsSafeStart(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node;
  if valid p { free p; [@p].v = 1; } }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}

func TestSafetyWhileLoopResetsGuard(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; ptr to node next; };
var ptr to node p;
{ p = malloc node;
  if valid p { while valid p { [@p].v = 1; } } }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}

func TestSafetyComplexGuardConditionDoesNotCoverItsOwnDereference(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; ptr to node next; };
var ptr to node p;
{ p = malloc node;
  if valid [@p].next { print 1; } }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}

func TestSafetyElseBranchDoesNotInheritGuard(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; };
var ptr to node p;
{ p = malloc node;
  if valid p { print 1; } else { print [@p].v; } }
`)
	err := CheckSafety("t.eb", prog)
	require.Error(t, err)
	require.Equal(t, SafetyError, err.(*CompileError).Kind)
}
