package eightebed

// CheckSafety is the pointer-safety static analyzer of spec section
// 4.3 — the linguistically novel part of the design. It walks the AST
// carrying a set G of variable names currently known-valid ("guarded"),
// and rejects any `@v` dereference that isn't covered by a guard
// established immediately before it with no intervening assignment or
// free.
//
// Per spec section 9's resolution of the one open ambiguity in the
// original prose: "any Assign (like any Free) ends the safe start" —
// the conservative reading, not just a Free of the guarded variable
// itself. That reading is about *which variables* an Assign/Free can
// end the safe start of (any, not only the one being assigned —
// scenario D ends `p`'s safe start with an unrelated `x = 1`), not
// about *which statements* count as an Assign/Free in the first
// place: a bare-name assignment or free is the only shape that can
// change a variable's own raw/valid pair, so it is the only shape
// that clears guards (see endsSafeStart below). Writing through an
// already-guarded pointer, like `[@jim].value = 5`, changes a field
// of the block jim points to, not jim's own validity, and scenarios A
// and F both compile and run with exactly that shape following a
// guard with no intervening bare-name assign or free.
func CheckSafety(file string, prog *Program) error {
	return checkBlock(prog.Body, map[string]bool{}, file)
}

func cloneGuardSet(g map[string]bool) map[string]bool {
	out := make(map[string]bool, len(g))
	for k := range g {
		out[k] = true
	}
	return out
}

// isValidNameGuard reports whether cond is exactly `valid v` for a
// bare variable name v — the only condition shape that establishes a
// guarded region (spec section 4.3's "Guarded region for v"
// definition). Anything else, including `valid [@p].next`, does not
// qualify.
func isValidNameGuard(cond Expr) (string, bool) {
	v, ok := cond.(ValidExpr)
	if !ok {
		return "", false
	}
	re, ok := v.Inner.(RefExpr)
	if !ok {
		return "", false
	}
	nr, ok := re.Inner.(NameRef)
	if !ok {
		return "", false
	}
	return nr.Name, true
}

// checkBlock walks a block's statements in order. g is the guard set
// in effect entering the block; it is narrowed to the empty set the
// moment a statement that can end a safe start is processed, for
// every statement that follows in this block.
func checkBlock(b *Block, g map[string]bool, file string) error {
	cur := g
	for _, s := range b.Stmts {
		if err := checkStmt(s, cur, file); err != nil {
			return err
		}
		if endsSafeStart(s) {
			cur = map[string]bool{}
		}
	}
	return nil
}

// endsSafeStart reports whether s can change some variable's own
// raw/valid pair — only a bare-name Assign or Free qualifies.
// `[@p].v = 1` or `free [@p].next` write through or release a pointer
// reached via p, not p itself, so they leave every existing guard
// intact.
func endsSafeStart(s Stmt) bool {
	switch n := s.(type) {
	case AssignStmt:
		_, ok := n.Target.(NameRef)
		return ok
	case FreeStmt:
		_, ok := n.Target.(NameRef)
		return ok
	}
	return false
}

func checkStmt(s Stmt, g map[string]bool, file string) error {
	switch n := s.(type) {
	case WhileStmt:
		if err := checkExpr(n.Cond, g, file); err != nil {
			return err
		}
		// Loop back-edges invalidate all guarantees: the body may
		// re-enter without the condition holding again.
		return checkBlock(n.Body, map[string]bool{}, file)

	case IfStmt:
		if err := checkExpr(n.Cond, g, file); err != nil {
			return err
		}
		thenG := g
		if v, ok := isValidNameGuard(n.Cond); ok {
			thenG = cloneGuardSet(g)
			thenG[v] = true
		}
		if err := checkBlock(n.Then, thenG, file); err != nil {
			return err
		}
		if n.Else != nil {
			return checkBlock(n.Else, g, file)
		}
		return nil

	case FreeStmt:
		return checkRef(n.Target, g, file)

	case PrintStmt:
		return checkExpr(n.Value, g, file)

	case AssignStmt:
		if err := checkRef(n.Target, g, file); err != nil {
			return err
		}
		return checkExpr(n.Value, g, file)
	}
	return nil
}

func checkExpr(e Expr, g map[string]bool, file string) error {
	switch n := e.(type) {
	case BinOpExpr:
		if err := checkExpr(n.Left, g, file); err != nil {
			return err
		}
		return checkExpr(n.Right, g, file)
	case ValidExpr:
		return checkExpr(n.Inner, g, file)
	case RefExpr:
		return checkRef(n.Inner, g, file)
	case MallocExpr, IntLitExpr:
		return nil
	}
	return nil
}

// checkRef enforces the core rule: Deref(Name(v)) requires v in the
// current guard set; Deref of anything else is rejected categorically
// (spec section 4.3: "the source document reserves compound pointer
// expressions for the 'without loss of generality' future").
func checkRef(r Ref, g map[string]bool, file string) error {
	switch n := r.(type) {
	case NameRef:
		return nil
	case DerefRef:
		nr, ok := n.Inner.(NameRef)
		if !ok {
			return newSafetyError(file, n.Sp, "complex pointer dereference not supported")
		}
		if !g[nr.Name] {
			return newSafetyError(file, n.Sp, "dereference of possibly-invalid pointer %s", nr.Name)
		}
		return nil
	case FieldRef:
		return checkRef(n.Inner, g, file)
	}
	return nil
}
