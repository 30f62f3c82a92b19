package eightebed

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
)

// runtimePreamble is the fixed, type-agnostic C support library of
// spec section 4.6, embedded exactly the way the teacher's genc.go
// embeds its own C preamble via `//go:embed c/vm.c`.
//
//go:embed internal/runtime/runtime.c
var runtimePreamble string

// codeWriter is Eightebed's adaptation of the teacher's gen.go
// outputWriter: an indentation-aware strings.Builder wrapper. Renamed
// because the teacher's name collided with nothing here, but "writer"
// alone was too generic among this file's many small helpers.
type codeWriter struct {
	buf    strings.Builder
	indent int
}

func (w *codeWriter) in()  { w.indent++ }
func (w *codeWriter) out() { w.indent-- }

func (w *codeWriter) line(format string, args ...any) {
	w.buf.WriteString(strings.Repeat("    ", w.indent))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteString("\n")
}

func (w *codeWriter) raw(s string) {
	w.buf.WriteString(s)
}

// Emit implements spec section 4.5: it turns an already
// type-checked and safety-checked Program into a complete,
// deterministic target-C translation unit. Determinism follows
// directly from walking TypeEnv/VarEnv in their recorded insertion
// order (never a Go map range) and the AST in its natural left-to-
// right shape.
func Emit(prog *Program) (string, error) {
	e := &emitter{prog: prog, w: &codeWriter{}}
	return e.emitProgram()
}

type emitter struct {
	prog *Program
	w    *codeWriter
}

// cName produces a safe C identifier from an Eightebed identifier.
// Eightebed identifiers are already alphanumeric-plus-underscore
// (see lexer.go's isAlpha/isAlnum), so today this is the identity;
// it exists as a single seam, grounded on the teacher's
// sanitizeCIdent in genc.go, in case a future surface syntax allows
// characters C identifiers don't.
func cName(s string) string {
	return s
}

func structCName(typeName string) string { return "eb_struct_" + cName(typeName) }
func ptrCName(typeName string) string    { return "eb_ptr_" + cName(typeName) }
func mallocFnName(typeName string) string { return "make_ptr_to_" + cName(typeName) }
func walkFnName(typeName string) string  { return "eb_walk_" + cName(typeName) }

func (e *emitter) emitProgram() (string, error) {
	e.w.line("/* generated by eightebed -- do not edit */")
	e.w.raw(runtimePreamble)
	e.w.raw("\n")

	if err := e.emitStructForwardDecls(); err != nil {
		return "", err
	}
	if err := e.emitPtrTypes(); err != nil {
		return "", err
	}
	if err := e.emitStructs(); err != nil {
		return "", err
	}
	if err := e.emitWalkFns(); err != nil {
		return "", err
	}
	if err := e.emitMallocFns(); err != nil {
		return "", err
	}
	e.emitGlobals()
	e.emitRootInit()

	e.w.line("int main(void) {")
	e.w.in()
	e.w.line("eb_init_roots();")
	if err := e.emitBlock(e.prog.Body); err != nil {
		return "", err
	}
	e.w.line("return 0;")
	e.w.out()
	e.w.line("}")

	return e.w.buf.String(), nil
}

// cTypeOf renders the C type of an Eightebed Type as it appears in a
// struct field or variable declaration: Int -> "int", Ptr(Named(n))
// -> the tagged-pointer struct type for n, Named(n) -> the plain
// struct type for n by value (spec section 3 allows a struct field
// to name another struct type directly, embedding it by value rather
// than through a pointer).
func (e *emitter) cTypeOf(t Type) (string, error) {
	switch n := t.(type) {
	case IntType:
		return "int", nil
	case PtrType:
		named, ok := n.To.(NamedType)
		if !ok {
			return "", fmt.Errorf("pointer referent %s is not a named struct type", n.To)
		}
		return ptrCName(named.Name), nil
	case NamedType:
		return "struct " + structCName(n.Name), nil
	default:
		return "", fmt.Errorf("cannot emit C type for %s", t)
	}
}

func (e *emitter) emitStructForwardDecls() error {
	for _, name := range e.prog.Types.Names() {
		e.w.line("struct %s;", structCName(name))
	}
	return nil
}

// emitStructs emits one C struct definition per named type, fields in
// declared order, matching spec 4.5 item 1.
func (e *emitter) emitStructs() error {
	for _, name := range e.prog.Types.Names() {
		body, _ := e.prog.Types.Lookup(name)
		e.w.line("struct %s {", structCName(name))
		e.w.in()
		for _, f := range body.Fields {
			ct, err := e.cTypeOf(f.Type)
			if err != nil {
				return err
			}
			e.w.line("%s %s;", ct, cName(f.Name))
		}
		e.w.out()
		e.w.line("};")
	}
	return nil
}

// emitPtrTypes emits the tagged-pointer struct for every named type
// that is ever used as a pointer referent -- `Ptr(Named(n))` becomes
// `struct { struct n *raw; int valid; }` (spec 4.5 item 2). The raw
// and valid fields are deliberately first and in this order so the
// runtime's eb_ptr_base cast in runtime.c sees a compatible layout.
func (e *emitter) emitPtrTypes() error {
	for _, name := range e.ptrReferents() {
		e.w.line("typedef struct {")
		e.w.in()
		e.w.line("struct %s *raw;", structCName(name))
		e.w.line("int valid;")
		e.w.out()
		e.w.line("} %s;", ptrCName(name))
	}
	return nil
}

// ptrReferents returns, sorted by name, every named type that
// appears as the referent of at least one Ptr -- whether in a struct
// field, a top-level var declaration, or a malloc expression -- since
// each needs exactly one tagged-pointer struct and one walk function.
func (e *emitter) ptrReferents() []string {
	seen := map[string]bool{}
	var order []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			order = append(order, n)
		}
	}
	for _, name := range e.prog.Types.Names() {
		body, _ := e.prog.Types.Lookup(name)
		for _, f := range body.Fields {
			if p, ok := f.Type.(PtrType); ok {
				if named, ok := p.To.(NamedType); ok {
					add(named.Name)
				}
			}
		}
	}
	for _, name := range e.prog.Vars.Names() {
		t, _ := e.prog.Vars.Lookup(name)
		if p, ok := t.(PtrType); ok {
			if named, ok := p.To.(NamedType); ok {
				add(named.Name)
			}
		}
	}
	for _, name := range MallocTypeNames(e.prog.Body) {
		add(name)
	}
	sort.Strings(order) // deterministic even if a future caller feeds an unordered set in
	return order
}

// emitWalkFns generates, for every pointer-referent type, the
// eb_walk_<n> function the runtime's graph traversal calls to follow
// pointer-typed fields of a block of that type (spec 4.6's traversal
// needs per-type knowledge of which fields are pointers; the rest of
// the engine is fully generic, see runtime.c).
func (e *emitter) emitWalkFns() error {
	referents := e.ptrReferents()
	for _, name := range referents {
		e.w.line("static void %s(void *blockv);", walkFnName(name))
	}
	for _, name := range referents {
		body, ok := e.prog.Types.Lookup(name)
		if !ok {
			return fmt.Errorf("pointer referent %s is not a declared struct type", name)
		}
		e.w.line("static void %s(void *blockv) {", walkFnName(name))
		e.w.in()
		e.w.line("struct %s *block = (struct %s *)blockv;", structCName(name), structCName(name))
		for _, f := range body.Fields {
			if p, ok := f.Type.(PtrType); ok {
				if named, ok := p.To.(NamedType); ok {
					e.w.line("eb_touch((eb_ptr_base *)&block->%s, %s);", cName(f.Name), walkFnName(named.Name))
				}
			}
		}
		e.w.out()
		e.w.line("}")
	}
	return nil
}

// emitMallocFns generates make_ptr_to_<n> for every type actually
// malloc'd (spec 4.6 item 1): the one place sizeof is type-specific,
// so it cannot live in the fixed runtime preamble.
func (e *emitter) emitMallocFns() error {
	for _, name := range MallocTypeNames(e.prog.Body) {
		if !e.prog.Types.Has(name) {
			return fmt.Errorf("malloc of undeclared type %s", name)
		}
		e.w.line("static %s %s(void) {", ptrCName(name), mallocFnName(name))
		e.w.in()
		e.w.line("%s p;", ptrCName(name))
		e.w.line("p.raw = (struct %s *)malloc(sizeof(struct %s));", structCName(name), structCName(name))
		e.w.line("p.valid = p.raw != NULL;")
		e.w.line("return p;")
		e.w.out()
		e.w.line("}")
	}
	return nil
}

// emitGlobals emits one C global per top-level var declaration, in
// VarEnv order, per spec 4.5 item 3.
func (e *emitter) emitGlobals() {
	for _, name := range e.prog.Vars.Names() {
		t, _ := e.prog.Vars.Lookup(name)
		ct, err := e.cTypeOf(t)
		if err != nil {
			// typeOfRef/TypeCheck already guarantee every var type is
			// well-formed by the time Emit runs; a failure here would
			// be an internal inconsistency, not a program error.
			ct = "int"
		}
		e.w.line("static %s %s;", ct, cName(name))
	}
}

// emitRootInit emits eb_init_roots, which registers every pointer
// variable with the runtime's root table (spec 4.6 item 2) exactly
// once, before the emitted program's own statements run.
func (e *emitter) emitRootInit() {
	e.w.line("static void eb_init_roots(void) {")
	e.w.in()
	for _, name := range e.prog.Vars.Names() {
		t, _ := e.prog.Vars.Lookup(name)
		p, ok := t.(PtrType)
		if !ok {
			continue
		}
		named, ok := p.To.(NamedType)
		if !ok {
			continue
		}
		e.w.line("eb_register_root((eb_ptr_base *)&%s, %s);", cName(name), walkFnName(named.Name))
	}
	e.w.out()
	e.w.line("}")
}

func (e *emitter) emitBlock(b *Block) error {
	for _, s := range b.Stmts {
		if err := e.emitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitStmt(s Stmt) error {
	switch n := s.(type) {
	case WhileStmt:
		cond, err := e.emitExpr(n.Cond)
		if err != nil {
			return err
		}
		e.w.line("while (%s) {", cond)
		e.w.in()
		if err := e.emitBlock(n.Body); err != nil {
			return err
		}
		e.w.out()
		e.w.line("}")
		return nil

	case IfStmt:
		cond, err := e.emitExpr(n.Cond)
		if err != nil {
			return err
		}
		e.w.line("if (%s) {", cond)
		e.w.in()
		if err := e.emitBlock(n.Then); err != nil {
			return err
		}
		e.w.out()
		if n.Else != nil {
			e.w.line("} else {")
			e.w.in()
			if err := e.emitBlock(n.Else); err != nil {
				return err
			}
			e.w.out()
		}
		e.w.line("}")
		return nil

	case FreeStmt:
		ref, err := e.emitRef(n.Target)
		if err != nil {
			return err
		}
		e.w.line("eb_free_ptr((eb_ptr_base *)&%s);", ref)
		return nil

	case PrintStmt:
		val, err := e.emitExpr(n.Value)
		if err != nil {
			return err
		}
		e.w.line("eb_print_int(%s);", val)
		return nil

	case AssignStmt:
		ref, err := e.emitRef(n.Target)
		if err != nil {
			return err
		}
		val, err := e.emitExpr(n.Value)
		if err != nil {
			return err
		}
		// Struct assignment in C copies every field, so this one
		// line handles both plain-int and tagged-pointer targets --
		// a tagged-pointer assignment copies raw and valid together,
		// exactly spec 4.5's "assignment between pointer variables
		// copies both fields."
		e.w.line("%s = %s;", ref, val)
		return nil
	}
	return fmt.Errorf("cannot emit statement %T", s)
}

// emitRef renders a Ref as a C lvalue expression. NameRef is a bare
// identifier; DerefRef wraps in a parenthesized dereference of the
// tagged pointer's raw field (`@v` -> `(*v.raw)`, spec 4.5 item 4);
// FieldRef appends `.field` to whatever its inner ref rendered as --
// composing the two gives `(*v.raw).value` for `[@v].value`, matching
// ordinary C field-of-dereference syntax.
func (e *emitter) emitRef(r Ref) (string, error) {
	switch n := r.(type) {
	case NameRef:
		return cName(n.Name), nil
	case DerefRef:
		inner, err := e.emitRef(n.Inner)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(*%s.raw)", inner), nil
	case FieldRef:
		inner, err := e.emitRef(n.Inner)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", inner, cName(n.Field)), nil
	}
	return "", fmt.Errorf("cannot emit reference %T", r)
}

// OpAnd/OpOr emit the literal `&`/`|` symbols, not C's `&&`/`||`. Spec
// section 4.2 frames these as "logical connectives", but section 4.5's
// operator table is explicit that code generation "emits the identical
// symbol" for every binary operator without exception, and Eightebed's
// operands are always the 0/1 results of comparisons or other logical
// expressions, so bitwise-and/or over {0,1} computes the same truth
// table as logical-and/or. This is a deliberate reading of the literal
// instruction over the looser prose framing, not an oversight.
var binOpCSymbol = map[BinOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==", // Eightebed's `=` in expression position is equality, not assignment
	OpGt:  ">",
	OpAnd: "&",
	OpOr:  "|",
}

func (e *emitter) emitExpr(expr Expr) (string, error) {
	switch n := expr.(type) {
	case IntLitExpr:
		return fmt.Sprintf("%d", n.Value), nil

	case MallocExpr:
		return mallocFnName(n.TypeName) + "()", nil

	case ValidExpr:
		inner, err := e.emitExpr(n.Inner)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s).valid", inner), nil

	case BinOpExpr:
		left, err := e.emitExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := e.emitExpr(n.Right)
		if err != nil {
			return "", err
		}
		sym, ok := binOpCSymbol[n.Op]
		if !ok {
			return "", fmt.Errorf("unknown binary operator %s", n.Op)
		}
		return fmt.Sprintf("(%s %s %s)", left, sym, right), nil

	case RefExpr:
		return e.emitRef(n.Inner)
	}
	return "", fmt.Errorf("cannot emit expression %T", expr)
}
