package shadepbr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// tokenType represents a type of a token.
type tokenType int

// token types.
const (
	tokEOF       tokenType = iota // End of file
	tokIdent                      // Identifier
	tokNumber                     // Number
	tokString                     // String
	tokLBrace                     // Left brace
	tokRBrace                     // Right brace
	tokLBracket                   // Left bracket
	tokRBracket                   // Right bracket
	tokEqual                      // Equal
	tokSemicolon                  // Semicolon
	tokColon                      // Colon
	tokComma                      // Comma
	tokClass                      // Class keyword
)

// token represents a token of a graph description.
type token struct {
	Lit  string    // Literal value of the token
	Type tokenType // Type of the token
	Line int       // Line number of the token
	Col  int       // Column number of the token
}

// lexer tokenizes a graph description.
type lexer struct {
	r   *bufio.Reader // Reader for the input
	pos position      // Position of the current character
	ch  rune          // Current character
	opt ParseOptions  // Options for the lexer
	eof bool          // End of file
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
}

// newLexer creates a new lexer.
func newLexer(r io.Reader, opt ParseOptions) *lexer {
	l := &lexer{r: bufio.NewReader(r), opt: opt, pos: position{line: 1, col: 0}}
	l.read()
	if l.ch == 0xFEFF {
		// Skip UTF-8 BOM if present.
		l.read()
	}

	return l
}

// punctuation maps single-character tokens.
var punctuation = map[rune]tokenType{
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	'=': tokEqual,
	';': tokSemicolon,
	':': tokColon,
	',': tokComma,
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	if l.eof {
		return token{Type: tokEOF, Line: l.pos.line, Col: l.pos.col}, nil
	}

	startLine, startCol := l.pos.line, l.pos.col

	if tt, ok := punctuation[l.ch]; ok {
		lit := string(l.ch)
		l.read()
		return token{Type: tt, Lit: lit, Line: startLine, Col: startCol}, nil
	}

	if l.ch == '"' {
		lit, err := l.readString()
		return token{Type: tokString, Lit: lit, Line: startLine, Col: startCol}, err
	}

	if isIdentStart(l.ch) {
		lit := l.readWord(isIdentPart)
		if strings.EqualFold(lit, "class") {
			return token{Type: tokClass, Lit: lit, Line: startLine, Col: startCol}, nil
		}

		return token{Type: tokIdent, Lit: lit, Line: startLine, Col: startCol}, nil
	}

	if isNumberStart(l.ch) {
		// Hex type ids such as 0x115d51 read as words and fall back to identifiers.
		lit := l.readWord(isWordPart)
		if isValidNumber(lit) {
			return token{Type: tokNumber, Lit: lit, Line: startLine, Col: startCol}, nil
		}

		return token{Type: tokIdent, Lit: lit, Line: startLine, Col: startCol}, nil
	}

	return token{}, l.errorf("unexpected character '%c'", l.ch)
}

// read reads the next character.
func (l *lexer) read() {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.ch = 0
		return
	}

	if ch == '\n' {
		l.pos.line++
		l.pos.col = 0
	} else {
		l.pos.col++
	}

	l.ch = ch
}

// peek returns the next character without consuming it.
func (l *lexer) peek() rune {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0
	}

	_ = l.r.UnreadRune()
	return ch
}

// skipWhitespace skips whitespace and comments.
func (l *lexer) skipWhitespace() {
	for {
		for unicode.IsSpace(l.ch) {
			l.read()
			if l.eof {
				return
			}
		}

		if l.opt.DisableComments || l.ch != '/' {
			return
		}

		switch l.peek() {
		case '/':
			for l.ch != '\n' && !l.eof {
				l.read()
			}
		case '*':
			l.read()
			l.read()
			for !l.eof && (l.ch != '*' || l.peek() != '/') {
				l.read()
			}
			if l.eof {
				return
			}
			l.read()
			l.read()
		default:
			return
		}
	}
}

// readWord reads characters while part reports true.
func (l *lexer) readWord(part func(rune) bool) string {
	var b strings.Builder
	for part(l.ch) {
		b.WriteRune(l.ch)
		l.read()
		if l.eof {
			break
		}
	}

	return b.String()
}

// readString reads a quoted string; \\ and \" are escapes.
func (l *lexer) readString() (string, error) {
	l.read() // consume opening quote
	var b strings.Builder
	for {
		if l.eof {
			return "", l.errorf("unterminated string")
		}

		if l.ch == '"' {
			l.read()
			break
		}

		if l.ch == '\\' {
			if next := l.peek(); next == '\\' || next == '"' {
				l.read()
				b.WriteRune(l.ch)
				l.read()
				continue
			}
		}
		b.WriteRune(l.ch)
		l.read()
	}

	return b.String(), nil
}

// errorf formats a lexer error.
func (l *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrLex, l.pos.line, l.pos.col, fmt.Sprintf(format, args...))
}

// isIdentStart checks if a character is a valid start of an identifier.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentPart checks if a character is a valid part of an identifier.
func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isNumberStart checks if a character is a valid start of a number.
func isNumberStart(r rune) bool {
	return unicode.IsDigit(r) || r == '-' || r == '.'
}

// isWordPart checks if a character is a valid part of a number word.
func isWordPart(r rune) bool {
	return isIdentPart(r) || r == '.' || r == '+' || r == '-'
}

// isValidNumber checks if a string is a valid decimal number.
func isValidNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E' {
			continue
		}
		return false
	}

	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
