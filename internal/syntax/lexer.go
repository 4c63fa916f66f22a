package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenIdent                // symbols and function names like "main", "ancestors", "v1.0"
	TokenString               // "quoted" or 'raw' string literal
	TokenLParen               // (
	TokenRParen               // )
	TokenComma                // ,
	TokenColon                // :
	TokenColonColon           // ::
	TokenDotDot               // ..
	TokenAt                   // @
	TokenPipe                 // |
	TokenAmp                  // &
	TokenTilde                // ~
	TokenMinus                // -
	TokenPlus                 // +
	TokenEq                   // =
	TokenError                // error token
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "end of input",
	TokenIdent:      "identifier",
	TokenString:     "string literal",
	TokenLParen:     `"("`,
	TokenRParen:     `")"`,
	TokenComma:      `","`,
	TokenColon:      `":"`,
	TokenColonColon: `"::"`,
	TokenDotDot:     `".."`,
	TokenAt:         `"@"`,
	TokenPipe:       `"|"`,
	TokenAmp:        `"&"`,
	TokenTilde:      `"~"`,
	TokenMinus:      `"-"`,
	TokenPlus:       `"+"`,
	TokenEq:         `"="`,
	TokenError:      "invalid token",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string // unescaped value for strings, raw text otherwise
	Pos   int
	End   int
}

// Lexer tokenizes a revset string.
type Lexer struct {
	input string
	pos   int
	start int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos, End: l.pos}
	}

	l.start = l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		return l.single(TokenLParen)
	case ')':
		return l.single(TokenRParen)
	case ',':
		return l.single(TokenComma)
	case '@':
		return l.single(TokenAt)
	case '|':
		return l.single(TokenPipe)
	case '&':
		return l.single(TokenAmp)
	case '~':
		return l.single(TokenTilde)
	case '-':
		return l.single(TokenMinus)
	case '+':
		return l.single(TokenPlus)
	case '=':
		return l.single(TokenEq)
	case ':':
		if l.peekByte(1) == ':' {
			l.pos += 2
			return l.token(TokenColonColon)
		}
		return l.single(TokenColon)
	case '.':
		if l.peekByte(1) == '.' {
			l.pos += 2
			return l.token(TokenDotDot)
		}
		l.pos++
		return l.errorToken(`unexpected character "."`)
	case '"':
		return l.scanString()
	case '\'':
		return l.scanRawString()
	default:
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if isIdentRune(r) {
			return l.scanIdent()
		}
		l.pos += size
		return l.errorToken("unexpected character " + strconv.Quote(string(r)))
	}
}

func (l *Lexer) single(t TokenType) Token {
	l.pos++
	return l.token(t)
}

func (l *Lexer) token(t TokenType) Token {
	return Token{Type: t, Value: l.input[l.start:l.pos], Pos: l.start, End: l.pos}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// scanIdent reads a symbol made of identifier parts joined by single
// '.', '-' or '+' separators. A separator only belongs to the symbol when
// another identifier part follows it, so "x-" lexes as "x" followed by "-".
func (l *Lexer) scanIdent() Token {
	l.scanIdentPart()
	for l.pos < len(l.input) {
		sep := l.input[l.pos]
		if sep != '.' && sep != '-' && sep != '+' {
			break
		}
		next, _ := utf8.DecodeRuneInString(l.input[l.pos+1:])
		if l.pos+1 >= len(l.input) || !isIdentRune(next) {
			break
		}
		l.pos++
		l.scanIdentPart()
	}
	return l.token(TokenIdent)
}

func (l *Lexer) scanIdentPart() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentRune(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) scanString() Token {
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return Token{Type: TokenString, Value: sb.String(), Pos: l.start, End: l.pos}
		case '\\':
			if l.pos+1 >= len(l.input) {
				l.pos = len(l.input)
				return l.errorToken("unterminated string literal")
			}
			esc := l.input[l.pos+1]
			l.pos += 2
			switch esc {
			case '"', '\\':
				sb.WriteByte(esc)
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'n':
				sb.WriteByte('\n')
			case '0':
				sb.WriteByte(0)
			case 'e':
				sb.WriteByte(0x1b)
			case 'x':
				if l.pos+2 > len(l.input) {
					return l.errorToken("invalid hex escape")
				}
				v, err := strconv.ParseUint(l.input[l.pos:l.pos+2], 16, 8)
				if err != nil {
					return l.errorToken("invalid hex escape")
				}
				sb.WriteByte(byte(v))
				l.pos += 2
			default:
				return l.errorToken("invalid escape sequence \\" + string(esc))
			}
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return l.errorToken("unterminated string literal")
}

func (l *Lexer) scanRawString() Token {
	l.pos++ // opening quote
	end := strings.IndexByte(l.input[l.pos:], '\'')
	if end < 0 {
		l.pos = len(l.input)
		return l.errorToken("unterminated string literal")
	}
	value := l.input[l.pos : l.pos+end]
	l.pos += end + 1
	return Token{Type: TokenString, Value: value, Pos: l.start, End: l.pos}
}

func (l *Lexer) errorToken(msg string) Token {
	return Token{Type: TokenError, Value: msg, Pos: l.start, End: l.pos}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '/' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// IsStrictIdentifier reports whether s may name a function, keyword
// argument or pattern kind: ASCII alphanumeric parts joined by '-'.
func IsStrictIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, "-") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			ch := part[i]
			if !(ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
				return false
			}
		}
	}
	return true
}
