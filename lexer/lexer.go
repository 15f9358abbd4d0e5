// Package lexer scans source code and produces a stream of tokens.
//
// A lexer is created by calling New() with the source code as input. Tokens
// are then read one at a time using the Next() method, until an EOF token
// is returned.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepnoodle-ai/schooljs/token"
)

// Lexer holds the state used while scanning one input string.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current 0-indexed line number
	column       int  // current 0-indexed column number
	filename     string
	lineStarts   []int // byte offsets where each line begins
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input, column: -1, lineStarts: []int{0}}
	l.readChar()
	return l
}

// SetFilename sets the file name used in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the file name used in token positions.
func (l *Lexer) Filename() string {
	return l.filename
}

// GetLineText returns the text of the line on which the given token appears.
func (l *Lexer) GetLineText(tok token.Token) string {
	line := tok.StartPosition.Line
	if line < 0 || line >= len(l.lineStarts) {
		return ""
	}
	start := l.lineStarts[line]
	end := len(l.input)
	if line+1 < len(l.lineStarts) {
		end = l.lineStarts[line+1] - 1
	}
	if idx := strings.IndexByte(l.input[start:], '\n'); idx >= 0 && start+idx < end {
		end = start + idx
	}
	return l.input[start:end]
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = -1
		l.lineStarts = append(l.lineStarts, l.readPosition)
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:   l.position,
		Line:   l.line,
		Column: l.column,
		File:   l.filename,
	}
}

// Next returns the next token from the input. An error is returned if the
// input contains a malformed construct, such as an unterminated string.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{Type: token.ILLEGAL, StartPosition: l.pos(), EndPosition: l.pos()}, err
	}
	start := l.pos()
	var tok token.Token
	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Literal: ""}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				tok = token.Token{Type: token.EQ_STRICT, Literal: "==="}
			} else {
				tok = token.Token{Type: token.EQ, Literal: "=="}
			}
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = token.Token{Type: token.ARROW, Literal: "=>"}
		} else {
			tok = token.Token{Type: token.ASSIGN, Literal: "="}
		}
	case '+':
		if l.peekChar() == '+' {
			l.readChar()
			tok = token.Token{Type: token.PLUS_PLUS, Literal: "++"}
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.PLUS_EQ, Literal: "+="}
		} else {
			tok = token.Token{Type: token.PLUS, Literal: "+"}
		}
	case '-':
		if l.peekChar() == '-' {
			l.readChar()
			tok = token.Token{Type: token.MINUS_MINUS, Literal: "--"}
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.MINUS_EQ, Literal: "-="}
		} else {
			tok = token.Token{Type: token.MINUS, Literal: "-"}
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.ASTERISK_EQ, Literal: "*="}
		} else {
			tok = token.Token{Type: token.ASTERISK, Literal: "*"}
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.SLASH_EQ, Literal: "/="}
		} else {
			tok = token.Token{Type: token.SLASH, Literal: "/"}
		}
	case '%':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.MOD_EQ, Literal: "%="}
		} else {
			tok = token.Token{Type: token.MOD, Literal: "%"}
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				tok = token.Token{Type: token.NOT_EQ_STRICT, Literal: "!=="}
			} else {
				tok = token.Token{Type: token.NOT_EQ, Literal: "!="}
			}
		} else {
			tok = token.Token{Type: token.BANG, Literal: "!"}
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LT_EQUALS, Literal: "<="}
		} else if l.peekChar() == '<' {
			l.readChar()
			tok = token.Token{Type: token.LT_LT, Literal: "<<"}
		} else {
			tok = token.Token{Type: token.LT, Literal: "<"}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GT_EQUALS, Literal: ">="}
		} else if l.peekChar() == '>' {
			l.readChar()
			if l.peekChar() == '>' {
				l.readChar()
				tok = token.Token{Type: token.GT_GT_GT, Literal: ">>>"}
			} else {
				tok = token.Token{Type: token.GT_GT, Literal: ">>"}
			}
		} else {
			tok = token.Token{Type: token.GT, Literal: ">"}
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = token.Token{Type: token.AND, Literal: "&&"}
		} else {
			tok = token.Token{Type: token.AMPERSAND, Literal: "&"}
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.OR, Literal: "||"}
		} else {
			tok = token.Token{Type: token.PIPE, Literal: "|"}
		}
	case '^':
		tok = token.Token{Type: token.CARET, Literal: "^"}
	case '~':
		tok = token.Token{Type: token.TILDE, Literal: "~"}
	case '.':
		tok = token.Token{Type: token.PERIOD, Literal: "."}
	case ',':
		tok = token.Token{Type: token.COMMA, Literal: ","}
	case ';':
		tok = token.Token{Type: token.SEMICOLON, Literal: ";"}
	case ':':
		tok = token.Token{Type: token.COLON, Literal: ":"}
	case '?':
		tok = token.Token{Type: token.QUESTION, Literal: "?"}
	case '(':
		tok = token.Token{Type: token.LPAREN, Literal: "("}
	case ')':
		tok = token.Token{Type: token.RPAREN, Literal: ")"}
	case '[':
		tok = token.Token{Type: token.LBRACKET, Literal: "["}
	case ']':
		tok = token.Token{Type: token.RBRACKET, Literal: "]"}
	case '{':
		tok = token.Token{Type: token.LBRACE, Literal: "{"}
	case '}':
		tok = token.Token{Type: token.RBRACE, Literal: "}"}
	case '"', '\'':
		literal, err := l.readString(l.ch)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, StartPosition: start, EndPosition: l.pos()}, err
		}
		tok = token.Token{
			Type:          token.STRING,
			Literal:       literal,
			StartPosition: start,
			EndPosition:   l.pos(),
		}
		l.readChar()
		return tok, nil
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return token.Token{
				Type:          token.LookupIdentifier(literal),
				Literal:       literal,
				StartPosition: start,
				EndPosition:   start.Advance(len(literal) - 1),
			}, nil
		}
		if isDigit(l.ch) {
			literal, err := l.readNumber()
			if err != nil {
				return token.Token{Type: token.ILLEGAL, StartPosition: start, EndPosition: l.pos()}, err
			}
			return token.Token{
				Type:          token.NUMBER,
				Literal:       literal,
				StartPosition: start,
				EndPosition:   start.Advance(len(literal) - 1),
			}, nil
		}
		err := fmt.Errorf("unexpected character %q", string(l.ch))
		l.readChar()
		return token.Token{Type: token.ILLEGAL, StartPosition: start, EndPosition: start}, err
	}
	tok.StartPosition = start
	tok.EndPosition = l.pos()
	l.readChar()
	return tok, nil
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return fmt.Errorf("unterminated block comment")
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}
		return nil
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (string, error) {
	position := l.position
	sawDot := false
	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if sawDot {
				return "", fmt.Errorf("invalid number literal")
			}
			if !isDigit(l.peekChar()) {
				break
			}
			sawDot = true
		}
		l.readChar()
	}
	literal := l.input[position:l.position]
	if isLetter(l.ch) {
		return "", fmt.Errorf("invalid number literal %q", literal+string(l.ch))
	}
	return literal, nil
}

// readString reads a string literal delimited by the given quote character,
// resolving escape sequences. The current char is left on the closing quote.
func (l *Lexer) readString(quote rune) (string, error) {
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0, '\n':
			return "", fmt.Errorf("unterminated string literal")
		case quote:
			return out.String(), nil
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			case 'r':
				out.WriteRune('\r')
			case '\\':
				out.WriteRune('\\')
			case '\'':
				out.WriteRune('\'')
			case '"':
				out.WriteRune('"')
			case '0':
				out.WriteRune(0)
			default:
				return "", fmt.Errorf("invalid escape sequence \\%s", string(l.ch))
			}
		default:
			out.WriteRune(l.ch)
		}
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '$'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
