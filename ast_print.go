package eightebed

import "strings"

// This file is Eightebed's answer to the teacher's
// grammar_ast_printer.go: where the teacher renders a tree diagram
// for terminal display, Eightebed needs a printer that re-emits valid
// surface syntax, because spec section 8 invariant 1 requires that
// "for every syntactically valid program, the AST re-pretty-printed
// parses to an identical AST." So String here returns Eightebed
// source text, not a debug tree.

func (s WhileStmt) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}

func (s IfStmt) String() string {
	out := "if " + s.Cond.String() + " " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

func (s FreeStmt) String() string {
	return "free " + s.Target.String() + ";"
}

func (s PrintStmt) String() string {
	return "print " + s.Value.String() + ";"
}

func (s AssignStmt) String() string {
	return s.Target.String() + " = " + s.Value.String() + ";"
}

func stmtString(s Stmt) string {
	switch n := s.(type) {
	case WhileStmt:
		return n.String()
	case IfStmt:
		return n.String()
	case FreeStmt:
		return n.String()
	case PrintStmt:
		return n.String()
	case AssignStmt:
		return n.String()
	default:
		return "?"
	}
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range b.Stmts {
		sb.WriteString(stmtString(s))
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// typeDeclString renders the `type name struct { ... };` declaration
// for one entry of a TypeEnv.
func typeDeclString(name string, body StructType) string {
	var sb strings.Builder
	sb.WriteString("type ")
	sb.WriteString(name)
	sb.WriteString(" struct { ")
	for _, f := range body.Fields {
		sb.WriteString(f.Type.String())
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString("; ")
	}
	sb.WriteString("};")
	return sb.String()
}

// varDeclString renders the `var type name;` declaration of one
// VarEnv entry.
func varDeclString(name string, t Type) string {
	return "var " + t.String() + " " + name + ";"
}

// String re-renders the whole program as Eightebed surface syntax:
// type declarations, then var declarations, then the top-level block,
// in the order spec section 2's grammar requires.
func (p *Program) String() string {
	var sb strings.Builder
	for _, name := range p.Types.Names() {
		body, _ := p.Types.Lookup(name)
		sb.WriteString(typeDeclString(name, body))
		sb.WriteString("\n")
	}
	for _, name := range p.Vars.Names() {
		t, _ := p.Vars.Lookup(name)
		sb.WriteString(varDeclString(name, t))
		sb.WriteString("\n")
	}
	sb.WriteString(p.Body.String())
	sb.WriteString("\n")
	return sb.String()
}
