package eightebed

// InspectBlock walks a block's statements (and, recursively, the
// blocks and expressions nested within them) in depth-first order,
// calling f on every Stmt, Expr and Ref encountered. This mirrors the
// teacher's Inspect helper in grammar_ast_visitor.go — a single
// type-switch walker used instead of a full visitor interface when a
// caller only needs to look for one or two node shapes — adapted here
// to Eightebed's three separate Stmt/Expr/Ref sum types rather than
// one open-ended AstNode.
//
// f is called for every node regardless of return value; the boolean
// return only controls whether InspectStmt/InspectExpr/InspectRef
// descend into that node's children.
func InspectBlock(b *Block, f func(any) bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		InspectStmt(s, f)
	}
}

func InspectStmt(s Stmt, f func(any) bool) {
	if s == nil || !f(s) {
		return
	}
	switch n := s.(type) {
	case WhileStmt:
		InspectExpr(n.Cond, f)
		InspectBlock(n.Body, f)
	case IfStmt:
		InspectExpr(n.Cond, f)
		InspectBlock(n.Then, f)
		InspectBlock(n.Else, f)
	case FreeStmt:
		InspectRef(n.Target, f)
	case PrintStmt:
		InspectExpr(n.Value, f)
	case AssignStmt:
		InspectRef(n.Target, f)
		InspectExpr(n.Value, f)
	}
}

func InspectExpr(e Expr, f func(any) bool) {
	if e == nil || !f(e) {
		return
	}
	switch n := e.(type) {
	case BinOpExpr:
		InspectExpr(n.Left, f)
		InspectExpr(n.Right, f)
	case ValidExpr:
		InspectExpr(n.Inner, f)
	case RefExpr:
		InspectRef(n.Inner, f)
	case MallocExpr, IntLitExpr:
		// leaves
	}
}

func InspectRef(r Ref, f func(any) bool) {
	if r == nil || !f(r) {
		return
	}
	switch n := r.(type) {
	case DerefRef:
		InspectRef(n.Inner, f)
	case FieldRef:
		InspectRef(n.Inner, f)
	case NameRef:
		// leaf
	}
}

// MallocTypeNames returns the set of named types that appear in a
// `malloc n` expression anywhere in the block, in first-use order.
// The emitter uses this to decide which allocation wrappers (section
// 4.6 item 1) are worth emitting — Eightebed has no dead-code
// elimination (non-goal), but there is no reason to emit a
// make_ptr_to_n helper for a type that's only ever used as a bare
// struct field and never allocated.
func MallocTypeNames(b *Block) []string {
	seen := map[string]bool{}
	var order []string
	InspectBlock(b, func(n any) bool {
		if m, ok := n.(MallocExpr); ok && !seen[m.TypeName] {
			seen[m.TypeName] = true
			order = append(order, m.TypeName)
		}
		return true
	})
	return order
}
