package eightebed

// Parser is an LL(1) recursive-descent parser over the token stream
// produced by Lexer. It follows the same shape as the teacher's
// BaseParser (base_parser.go): a cursor into a token slice, an
// ExpectX-style helper that either advances or raises a positioned
// error, and one method per grammar production. Eightebed's grammar
// needs no backtracking or choice operator, unlike the teacher's PEG
// engine, because the bracket-heavy surface syntax (spec section 4.2)
// makes one token of lookahead sufficient everywhere; "parser does
// not attempt recovery" (spec section 4.2) so the first error simply
// returns up the call stack.
//
// Grammar (each production consumes exactly the tokens it names):
//
//	Program   := TypeDecl* VarDecl* Block
//	TypeDecl  := "type" IDENT "struct" "{" FieldDecl* "}" ";"
//	FieldDecl := Type IDENT ";"
//	VarDecl   := "var" Type IDENT ";"
//	Type      := "int" | "ptr" "to" IDENT | IDENT
//	Block     := "{" Stmt* "}"
//	Stmt      := While | If | Free | Print | Assign
//	While     := "while" Expr Block
//	If        := "if" Expr Block ( "else" Block )?
//	Free      := "free" Ref ";"
//	Print     := "print" Expr ";"
//	Assign    := Ref "=" Expr ";"
//	Ref       := "@" Ref | "[" Ref "]" "." IDENT | IDENT
//	Expr      := "(" Expr BinOp Expr ")" | "malloc" IDENT | "valid" Expr
//	           | INTLIT | Ref
//	BinOp     := "+" | "-" | "*" | "/" | "=" | ">" | "&" | "|"
type Parser struct {
	file string
	toks []Token
	pos  int
}

func NewParser(file string, toks []Token) *Parser {
	return &Parser{file: file, toks: toks}
}

// ParseProgram parses an entire Eightebed source file.
func ParseProgram(file string, src []byte) (*Program, error) {
	toks, err := NewLexer(file, src).Lex()
	if err != nil {
		return nil, err
	}
	return NewParser(file, toks).Parse()
}

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has kind k, otherwise
// raises "expected X, got Y at L:C" per spec section 4.2.
func (p *Parser) expect(k TokenKind) (Token, error) {
	t := p.cur()
	if t.Kind != k {
		return Token{}, newParseError(p.file, t.Span, "expected %s, got %s", k, t.Kind)
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (Token, error) {
	t := p.cur()
	if t.Kind != TokIdent {
		return Token{}, newParseError(p.file, t.Span, "expected %s, got %s", TokIdent, t.Kind)
	}
	return p.advance(), nil
}

// Parse drives the Program production.
func (p *Parser) Parse() (*Program, error) {
	types := NewTypeEnv()
	for p.cur().Kind == TokType {
		name, body, err := p.parseTypeDecl(types)
		if err != nil {
			return nil, err
		}
		types.Declare(name, body)
	}

	vars := NewVarEnv()
	for p.cur().Kind == TokVar {
		name, t, err := p.parseVarDecl(types)
		if err != nil {
			return nil, err
		}
		vars.Declare(name, t)
	}

	body, err := p.parseBlock(types, vars)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokEOF); err != nil {
		return nil, err
	}

	return &Program{Types: types, Vars: vars, Body: body}, nil
}

func (p *Parser) parseTypeDecl(types *TypeEnv) (string, StructType, error) {
	if _, err := p.expect(TokType); err != nil {
		return "", StructType{}, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return "", StructType{}, err
	}
	if types.Has(nameTok.Text) {
		return "", StructType{}, newNameError(p.file, nameTok.Span, "type %s already declared", nameTok.Text)
	}
	if _, err := p.expect(TokStruct); err != nil {
		return "", StructType{}, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return "", StructType{}, err
	}
	// The name is declared before its body so that a field can point
	// back at the type being declared (`ptr to node next` inside node).
	types.Declare(nameTok.Text, StructType{})

	seen := map[string]bool{}
	var fields []FieldDecl
	for p.cur().Kind != TokRBrace {
		ft, err := p.parseType(types)
		if err != nil {
			return "", StructType{}, err
		}
		if nt, ok := ft.(NamedType); ok && nt.Name == nameTok.Text {
			return "", StructType{}, newNameError(p.file, p.cur().Span, "type %s cannot contain itself by value", nameTok.Text)
		}
		fnameTok, err := p.expectIdent()
		if err != nil {
			return "", StructType{}, err
		}
		if seen[fnameTok.Text] {
			return "", StructType{}, newNameError(p.file, fnameTok.Span, "field %s already declared in %s", fnameTok.Text, nameTok.Text)
		}
		seen[fnameTok.Text] = true
		if _, err := p.expect(TokSemi); err != nil {
			return "", StructType{}, err
		}
		fields = append(fields, FieldDecl{Name: fnameTok.Text, Type: ft})
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return "", StructType{}, err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return "", StructType{}, err
	}
	return nameTok.Text, StructType{Fields: fields}, nil
}

func (p *Parser) parseVarDecl(types *TypeEnv) (string, Type, error) {
	if _, err := p.expect(TokVar); err != nil {
		return "", nil, err
	}
	t, err := p.parseType(types)
	if err != nil {
		return "", nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return "", nil, err
	}
	return nameTok.Text, t, nil
}

// parseType consumes a Type production. Named types are resolved
// against types that have already been declared (forward references
// are disallowed, spec section 3); an unresolved name is reported
// here rather than deferred to the type checker because the parser is
// the only phase with this "declared so far" view.
func (p *Parser) parseType(types *TypeEnv) (Type, error) {
	switch p.cur().Kind {
	case TokInt:
		p.advance()
		return IntType{}, nil
	case TokPtr:
		p.advance()
		if _, err := p.expect(TokTo); err != nil {
			return nil, err
		}
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !types.Has(nameTok.Text) {
			return nil, newNameError(p.file, nameTok.Span, "undeclared type %s", nameTok.Text)
		}
		return PtrType{To: NamedType{Name: nameTok.Text}}, nil
	case TokIdent:
		nameTok := p.advance()
		if !types.Has(nameTok.Text) {
			return nil, newNameError(p.file, nameTok.Span, "undeclared type %s", nameTok.Text)
		}
		return NamedType{Name: nameTok.Text}, nil
	default:
		t := p.cur()
		return nil, newParseError(p.file, t.Span, "expected a type, got %s", t.Kind)
	}
}

func (p *Parser) parseBlock(types *TypeEnv, vars *VarEnv) (*Block, error) {
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.cur().Kind != TokRBrace {
		s, err := p.parseStmt(types, vars)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return &Block{Stmts: stmts}, nil
}

func (p *Parser) parseStmt(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	switch p.cur().Kind {
	case TokWhile:
		return p.parseWhile(types, vars)
	case TokIf:
		return p.parseIf(types, vars)
	case TokFree:
		return p.parseFree(types, vars)
	case TokPrint:
		return p.parsePrint(types, vars)
	case TokAt, TokLBracket, TokIdent:
		return p.parseAssign(types, vars)
	default:
		t := p.cur()
		return nil, newParseError(p.file, t.Span, "expected a statement, got %s", t.Kind)
	}
}

func (p *Parser) parseWhile(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	start := p.cur().Span
	p.advance()
	cond, err := p.parseExpr(types, vars)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(types, vars)
	if err != nil {
		return nil, err
	}
	return WhileStmt{Cond: cond, Body: body, Sp: NewSpan(start.Start, body.lastSpan(start).End)}, nil
}

func (p *Parser) parseIf(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	start := p.cur().Span
	p.advance()
	cond, err := p.parseExpr(types, vars)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock(types, vars)
	if err != nil {
		return nil, err
	}
	var elseBlock *Block
	if p.cur().Kind == TokElse {
		p.advance()
		elseBlock, err = p.parseBlock(types, vars)
		if err != nil {
			return nil, err
		}
	}
	return IfStmt{Cond: cond, Then: then, Else: elseBlock, Sp: NewSpan(start.Start, then.lastSpan(start).End)}, nil
}

func (p *Parser) parseFree(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	start := p.cur().Span
	p.advance()
	r, err := p.parseRef(types, vars)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return FreeStmt{Target: r, Sp: NewSpan(start.Start, end.Span.End)}, nil
}

func (p *Parser) parsePrint(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	start := p.cur().Span
	p.advance()
	e, err := p.parseExpr(types, vars)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return PrintStmt{Value: e, Sp: NewSpan(start.Start, end.Span.End)}, nil
}

func (p *Parser) parseAssign(types *TypeEnv, vars *VarEnv) (Stmt, error) {
	start := p.cur().Span
	target, err := p.parseRef(types, vars)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(types, vars)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(TokSemi)
	if err != nil {
		return nil, err
	}
	return AssignStmt{Target: target, Value: value, Sp: NewSpan(start.Start, end.Span.End)}, nil
}

// parseRef resolves Name(v) against vars eagerly, same rationale as
// parseType resolving Named types against the TypeEnv: the parser has
// the complete declared-so-far name set and spec section 3 requires
// every Name(v) to satisfy v in vars.
func (p *Parser) parseRef(types *TypeEnv, vars *VarEnv) (Ref, error) {
	switch p.cur().Kind {
	case TokAt:
		start := p.advance().Span
		inner, err := p.parseRef(types, vars)
		if err != nil {
			return nil, err
		}
		return DerefRef{Inner: inner, Sp: NewSpan(start.Start, inner.Span().End)}, nil
	case TokLBracket:
		start := p.advance().Span
		inner, err := p.parseRef(types, vars)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokDot); err != nil {
			return nil, err
		}
		fieldTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return FieldRef{Inner: inner, Field: fieldTok.Text, Sp: NewSpan(start.Start, fieldTok.Span.End)}, nil
	case TokIdent:
		nameTok := p.advance()
		if !vars.Has(nameTok.Text) {
			return nil, newNameError(p.file, nameTok.Span, "undeclared variable %s", nameTok.Text)
		}
		return NameRef{Name: nameTok.Text, Sp: nameTok.Span}, nil
	default:
		t := p.cur()
		return nil, newParseError(p.file, t.Span, "expected a reference, got %s", t.Kind)
	}
}

func (p *Parser) parseExpr(types *TypeEnv, vars *VarEnv) (Expr, error) {
	switch p.cur().Kind {
	case TokLParen:
		start := p.advance().Span
		left, err := p.parseExpr(types, vars)
		if err != nil {
			return nil, err
		}
		opTok := p.cur()
		op, ok := binOpTokens[opTok.Kind]
		if !ok {
			return nil, newParseError(p.file, opTok.Span, "expected a binary operator, got %s", opTok.Kind)
		}
		p.advance()
		right, err := p.parseExpr(types, vars)
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokRParen)
		if err != nil {
			return nil, err
		}
		return BinOpExpr{Op: op, Left: left, Right: right, Sp: NewSpan(start.Start, end.Span.End)}, nil

	case TokMalloc:
		start := p.advance().Span
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !types.Has(nameTok.Text) {
			return nil, newNameError(p.file, nameTok.Span, "undeclared type %s", nameTok.Text)
		}
		return MallocExpr{TypeName: nameTok.Text, Sp: NewSpan(start.Start, nameTok.Span.End)}, nil

	case TokValid:
		start := p.advance().Span
		inner, err := p.parseExpr(types, vars)
		if err != nil {
			return nil, err
		}
		return ValidExpr{Inner: inner, Sp: NewSpan(start.Start, inner.Span().End)}, nil

	case TokIntLit:
		t := p.advance()
		return IntLitExpr{Value: t.Value, Sp: t.Span}, nil

	case TokAt, TokLBracket, TokIdent:
		r, err := p.parseRef(types, vars)
		if err != nil {
			return nil, err
		}
		return RefExpr{Inner: r, Sp: r.Span()}, nil

	default:
		t := p.cur()
		return nil, newParseError(p.file, t.Span, "expected an expression, got %s", t.Kind)
	}
}

// lastSpan returns the span of the block's last statement, falling
// back to start when the block is empty (Block does not record its
// own brace positions, so callers pass the opening span as the
// floor).
func (b *Block) lastSpan(start Span) Span {
	if len(b.Stmts) == 0 {
		return start
	}
	return b.Stmts[len(b.Stmts)-1].Span()
}
