package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRoundTripPrettyPrint checks spec section 8 invariant 1: every
// syntactically valid program, re-pretty-printed, parses back to an
// AST equal to the one it was printed from.
func TestRoundTripPrettyPrint(t *testing.T) {
	sources := []string{
		`
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ jim = malloc node;
  if valid jim { [@jim].value = (1 + 4); print [@jim].value; }
  free jim; }
`,
		`
var int a; var int b; var int c;
{ a = 1; b = 1; c = (a = b); print c; }
`,
		`
type node struct { int v; };
var ptr to node p;
{ while valid p { free p; } }
`,
	}

	for _, src := range sources {
		prog := mustParse(t, src)
		printed := prog.String()

		reparsed, err := ParseProgram("t.eb", []byte(printed))
		require.NoError(t, err, "re-parsing printed output: %s", printed)

		require.Equal(t, len(prog.Body.Stmts), len(reparsed.Body.Stmts))
		for i := range prog.Body.Stmts {
			require.True(t, stmtsEqual(prog.Body.Stmts[i], reparsed.Body.Stmts[i]),
				"statement %d differs after round-trip: %s", i, printed)
		}
	}
}

// stmtsEqual compares two Stmt values structurally. Stmt has no
// Equal method of its own (unlike Ref/Expr/Type) since its five
// concrete shapes don't share enough structure for one generic
// comparison; this type-switch is the printer test's own adapter,
// not part of the AST's public shape.
func stmtsEqual(a, b Stmt) bool {
	switch na := a.(type) {
	case WhileStmt:
		nb, ok := b.(WhileStmt)
		return ok && na.Cond.Equal(nb.Cond) && blocksEqual(na.Body, nb.Body)
	case IfStmt:
		nb, ok := b.(IfStmt)
		if !ok || !na.Cond.Equal(nb.Cond) || !blocksEqual(na.Then, nb.Then) {
			return false
		}
		if (na.Else == nil) != (nb.Else == nil) {
			return false
		}
		return na.Else == nil || blocksEqual(na.Else, nb.Else)
	case FreeStmt:
		nb, ok := b.(FreeStmt)
		return ok && na.Target.Equal(nb.Target)
	case PrintStmt:
		nb, ok := b.(PrintStmt)
		return ok && na.Value.Equal(nb.Value)
	case AssignStmt:
		nb, ok := b.(AssignStmt)
		return ok && na.Target.Equal(nb.Target) && na.Value.Equal(nb.Value)
	}
	return false
}

func blocksEqual(a, b *Block) bool {
	if len(a.Stmts) != len(b.Stmts) {
		return false
	}
	for i := range a.Stmts {
		if !stmtsEqual(a.Stmts[i], b.Stmts[i]) {
			return false
		}
	}
	return true
}
