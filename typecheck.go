package eightebed

// TypeCheck implements spec section 4.4: bottom-up expression typing
// plus statement-level compatibility checks. By the time a Program
// reaches this phase every Name and Named reference is already known
// to resolve (the parser enforced that while building TypeEnv/VarEnv,
// per spec section 3's Lifecycle note: "Environments are built during
// parsing and consulted read-only in subsequent phases") — so this
// pass only has to worry about type *compatibility*, never about
// missing names.
func TypeCheck(file string, prog *Program) error {
	c := &checker{file: file, types: prog.Types, vars: prog.Vars}
	return c.checkBlock(prog.Body)
}

type checker struct {
	file  string
	types *TypeEnv
	vars  *VarEnv
}

func isInt(t Type) bool {
	_, ok := t.(IntType)
	return ok
}

func asPtr(t Type) (PtrType, bool) {
	p, ok := t.(PtrType)
	return p, ok
}

// asStruct resolves t to its Struct body, following one Named
// indirection if needed — "named-type resolution through pointer
// indirection" (spec section 1).
func (c *checker) asStruct(t Type) (StructType, bool) {
	switch n := t.(type) {
	case StructType:
		return n, true
	case NamedType:
		return c.types.Lookup(n.Name)
	default:
		return StructType{}, false
	}
}

func (c *checker) checkBlock(b *Block) error {
	for _, s := range b.Stmts {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkStmt(s Stmt) error {
	switch n := s.(type) {
	case WhileStmt:
		t, err := c.typeOfExpr(n.Cond)
		if err != nil {
			return err
		}
		if !isInt(t) {
			return newTypeError(c.file, n.Cond.Span(), "while condition must be int, got %s", t)
		}
		return c.checkBlock(n.Body)

	case IfStmt:
		t, err := c.typeOfExpr(n.Cond)
		if err != nil {
			return err
		}
		if !isInt(t) {
			return newTypeError(c.file, n.Cond.Span(), "if condition must be int, got %s", t)
		}
		if err := c.checkBlock(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return c.checkBlock(n.Else)
		}
		return nil

	case FreeStmt:
		t, err := c.typeOfRef(n.Target)
		if err != nil {
			return err
		}
		if _, ok := asPtr(t); !ok {
			return newTypeError(c.file, n.Target.Span(), "free requires a pointer, got %s", t)
		}
		return nil

	case PrintStmt:
		t, err := c.typeOfExpr(n.Value)
		if err != nil {
			return err
		}
		if !isInt(t) {
			return newTypeError(c.file, n.Value.Span(), "print requires int, got %s", t)
		}
		return nil

	case AssignStmt:
		rt, err := c.typeOfRef(n.Target)
		if err != nil {
			return err
		}
		et, err := c.typeOfExpr(n.Value)
		if err != nil {
			return err
		}
		if !rt.Equal(et) {
			return newTypeError(c.file, n.Sp, "cannot assign %s to %s", et, rt)
		}
		return nil
	}
	return newTypeError(c.file, s.Span(), "unrecognized statement")
}

func (c *checker) typeOfRef(r Ref) (Type, error) {
	switch n := r.(type) {
	case NameRef:
		t, _ := c.vars.Lookup(n.Name)
		return t, nil

	case DerefRef:
		t, err := c.typeOfRef(n.Inner)
		if err != nil {
			return nil, err
		}
		p, ok := asPtr(t)
		if !ok {
			return nil, newTypeError(c.file, n.Sp, "cannot dereference non-pointer %s", t)
		}
		// "yields t (after resolving Named)"
		body, ok := c.asStruct(p.To)
		if !ok {
			return nil, newTypeError(c.file, n.Sp, "pointer referent %s does not resolve to a struct", p.To)
		}
		return body, nil

	case FieldRef:
		t, err := c.typeOfRef(n.Inner)
		if err != nil {
			return nil, err
		}
		body, ok := c.asStruct(t)
		if !ok {
			return nil, newTypeError(c.file, n.Sp, "field access on non-struct %s", t)
		}
		ft, ok := body.FieldType(n.Field)
		if !ok {
			return nil, newTypeError(c.file, n.Sp, "unknown field %s", n.Field)
		}
		return ft, nil
	}
	return nil, newTypeError(c.file, r.Span(), "unrecognized reference")
}

func (c *checker) typeOfExpr(e Expr) (Type, error) {
	switch n := e.(type) {
	case IntLitExpr:
		return IntType{}, nil

	case MallocExpr:
		// The parser only ever records a malloc type name that was
		// already declared, and TypeEnv only ever stores Struct
		// bodies, so "types[n] is a Struct" (spec 4.4) holds by
		// construction.
		return PtrType{To: NamedType{Name: n.TypeName}}, nil

	case ValidExpr:
		t, err := c.typeOfExpr(n.Inner)
		if err != nil {
			return nil, err
		}
		if _, ok := asPtr(t); !ok {
			return nil, newTypeError(c.file, n.Sp, "valid requires a pointer, got %s", t)
		}
		return IntType{}, nil

	case BinOpExpr:
		lt, err := c.typeOfExpr(n.Left)
		if err != nil {
			return nil, err
		}
		rt, err := c.typeOfExpr(n.Right)
		if err != nil {
			return nil, err
		}
		if !isInt(lt) || !isInt(rt) {
			return nil, newTypeError(c.file, n.Sp, "operator %s requires int operands, got %s and %s", n.Op, lt, rt)
		}
		return IntType{}, nil

	case RefExpr:
		return c.typeOfRef(n.Inner)
	}
	return nil, newTypeError(c.file, e.Span(), "unrecognized expression")
}
