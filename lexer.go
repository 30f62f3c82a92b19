package eightebed

// Lexer turns source bytes into a finite token stream terminated by
// TokEOF. It runs once, eagerly, over the whole input — Eightebed
// sources are always read fully into memory first (spec section 5),
// so there's no streaming requirement to honor, unlike the teacher's
// BaseParser which interleaves lexing and parsing over a live cursor.
type Lexer struct {
	file  string
	input []byte
	li    *LineIndex
	pos   int
}

func NewLexer(file string, input []byte) *Lexer {
	return &Lexer{file: file, input: input, li: NewLineIndex(input)}
}

func isSpace(b byte) bool  { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool  { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAlnum(b byte) bool  { return isAlpha(b) || isDigit(b) }

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) locAt(cursor int) Location { return l.li.LocationAt(cursor) }

// Lex tokenizes the whole input, returning LexError on the first
// unrecognized character (spec section 4.1: "unknown character ->
// fatal lex error with position").
func (l *Lexer) Lex() ([]Token, error) {
	var toks []Token
	for {
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.pos++
		}
		if l.pos >= len(l.input) {
			at := l.locAt(l.pos)
			toks = append(toks, Token{Kind: TokEOF, Span: Span{Start: at, End: at}})
			return toks, nil
		}

		start := l.pos
		b := l.input[l.pos]

		switch {
		case isDigit(b):
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
			text := string(l.input[start:l.pos])
			value := 0
			for _, c := range []byte(text) {
				value = value*10 + int(c-'0')
			}
			toks = append(toks, Token{
				Kind:  TokIntLit,
				Value: value,
				Span:  Span{Start: l.locAt(start), End: l.locAt(l.pos)},
			})

		case isAlpha(b):
			for l.pos < len(l.input) && isAlnum(l.input[l.pos]) {
				l.pos++
			}
			text := string(l.input[start:l.pos])
			kind, isKeyword := keywords[text]
			if !isKeyword {
				kind = TokIdent
			}
			toks = append(toks, Token{
				Kind: kind,
				Text: text,
				Span: Span{Start: l.locAt(start), End: l.locAt(l.pos)},
			})

		default:
			kind, ok := punctuation[b]
			if !ok {
				return nil, newLexError(l.file, l.locAt(start), "unexpected character %q", string(b))
			}
			l.pos++
			toks = append(toks, Token{Kind: kind, Span: Span{Start: l.locAt(start), End: l.locAt(l.pos)}})
		}
	}
}
