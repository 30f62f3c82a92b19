package eightebed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseProgram("t.eb", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseTypeAndVarDecls(t *testing.T) {
	prog := mustParse(t, `
type node struct { int v; ptr to node next; };
var ptr to node head;
{ }
`)
	require.Equal(t, []string{"node"}, prog.Types.Names())
	body, ok := prog.Types.Lookup("node")
	require.True(t, ok)
	require.Len(t, body.Fields, 2)
	require.Equal(t, "v", body.Fields[0].Name)
	require.Equal(t, IntType{}, body.Fields[0].Type)
	require.Equal(t, "next", body.Fields[1].Name)
	require.Equal(t, PtrType{To: NamedType{Name: "node"}}, body.Fields[1].Type)

	require.Equal(t, []string{"head"}, prog.Vars.Names())
}

func TestParseRejectsForwardTypeReference(t *testing.T) {
	_, err := ParseProgram("t.eb", []byte(`
type a struct { ptr to b next; };
type b struct { int v; };
{ }
`))
	require.Error(t, err)
	ce := err.(*CompileError)
	require.Equal(t, NameError, ce.Kind)
}

func TestParseRejectsDuplicateTypeName(t *testing.T) {
	_, err := ParseProgram("t.eb", []byte(`
type a struct { int v; };
type a struct { int w; };
{ }
`))
	require.Error(t, err)
	require.Equal(t, NameError, err.(*CompileError).Kind)
}

func TestParseRejectsDuplicateFieldName(t *testing.T) {
	_, err := ParseProgram("t.eb", []byte(`
type a struct { int v; int v; };
{ }
`))
	require.Error(t, err)
	require.Equal(t, NameError, err.(*CompileError).Kind)
}

func TestParseRejectsUndeclaredVariable(t *testing.T) {
	_, err := ParseProgram("t.eb", []byte(`{ x = 1; }`))
	require.Error(t, err)
	require.Equal(t, NameError, err.(*CompileError).Kind)
}

func TestParseEqualityVsAssignment(t *testing.T) {
	prog := mustParse(t, `
var int a; var int b; var int c;
{ a = 1; b = 1; c = (a = b); }
`)
	assign := prog.Body.Stmts[2].(AssignStmt)
	require.Equal(t, "c", assign.Target.(NameRef).Name)
	bin := assign.Value.(BinOpExpr)
	require.Equal(t, OpEq, bin.Op)
}

func TestParseComplexRefShapes(t *testing.T) {
	prog := mustParse(t, `
type node struct { int value; ptr to node next; };
var ptr to node jim;
{ [@jim].value = 5; }
`)
	assign := prog.Body.Stmts[0].(AssignStmt)
	field := assign.Target.(FieldRef)
	require.Equal(t, "value", field.Field)
	deref := field.Inner.(DerefRef)
	require.Equal(t, "jim", deref.Inner.(NameRef).Name)
}

func TestParseExpectError(t *testing.T) {
	_, err := ParseProgram("t.eb", []byte(`{ print 1 }`))
	require.Error(t, err)
	require.Equal(t, ParseError, err.(*CompileError).Kind)
}
