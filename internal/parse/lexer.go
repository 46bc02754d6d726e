// Package parse implements the minimal SQL surface's lexer and
// recursive-descent parser (spec §4.13/§6), grounded on
// original_source/src/parse/lexer.h/.cpp, parser.h/.cpp and the
// *_data.h statement types. Tokenization is a direct character scan
// rather than a port of Java's generic StreamTokenizer, since Go's
// standard idiom for a small fixed grammar is a purpose-built lexer.
package parse

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/coredb-project/coredb/internal/dberrors"
)

var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true,
	"insert": true, "into": true, "values": true, "delete": true,
	"update": true, "set": true, "create": true, "table": true,
	"int": true, "varchar": true, "view": true, "as": true,
	"index": true, "on": true,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokID
	tokKeyword
	tokIntConstant
	tokStringConstant
	tokDelim
)

type token struct {
	kind tokenKind
	text string
	ival int
}

// Lexer turns a single SQL statement into a stream of tokens,
// matching identifiers case-insensitively against the fixed keyword
// set (spec §6).
type Lexer struct {
	src   []rune
	pos   int
	tok   token
}

// NewLexer builds a lexer over statement and reads its first token.
func NewLexer(statement string) (*Lexer, error) {
	l := &Lexer{src: []rune(statement)}
	if err := l.nextToken(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) skipSpace() {
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		l.pos++
	}
}

func (l *Lexer) nextToken() error {
	l.skipSpace()
	r, ok := l.peekRune()
	if !ok {
		l.tok = token{kind: tokEOF}
		return nil
	}

	switch {
	case r == '\'':
		l.pos++
		var sb strings.Builder
		for {
			c, ok := l.peekRune()
			if !ok {
				return dberrors.BadSyntax("unterminated string constant")
			}
			l.pos++
			if c == '\'' {
				break
			}
			sb.WriteRune(c)
		}
		l.tok = token{kind: tokStringConstant, text: sb.String()}
		return nil

	case unicode.IsDigit(r):
		start := l.pos
		for {
			c, ok := l.peekRune()
			if !ok || !unicode.IsDigit(c) {
				break
			}
			l.pos++
		}
		text := string(l.src[start:l.pos])
		ival, err := strconv.Atoi(text)
		if err != nil {
			return dberrors.BadSyntax("malformed integer constant: " + text)
		}
		l.tok = token{kind: tokIntConstant, ival: ival, text: text}
		return nil

	case isIdentStart(r):
		start := l.pos
		for {
			c, ok := l.peekRune()
			if !ok || !isIdentPart(c) {
				break
			}
			l.pos++
		}
		text := strings.ToLower(string(l.src[start:l.pos]))
		if keywords[text] {
			l.tok = token{kind: tokKeyword, text: text}
		} else {
			l.tok = token{kind: tokID, text: text}
		}
		return nil

	default:
		l.pos++
		l.tok = token{kind: tokDelim, text: string(r)}
		return nil
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// MatchDelim reports whether the current token is delimiter d.
func (l *Lexer) MatchDelim(d rune) bool {
	return l.tok.kind == tokDelim && l.tok.text == string(d)
}

// MatchIntConstant reports whether the current token is an integer.
func (l *Lexer) MatchIntConstant() bool {
	return l.tok.kind == tokIntConstant
}

// MatchStringConstant reports whether the current token is a string.
func (l *Lexer) MatchStringConstant() bool {
	return l.tok.kind == tokStringConstant
}

// MatchKeyword reports whether the current token is keyword w.
func (l *Lexer) MatchKeyword(w string) bool {
	return l.tok.kind == tokKeyword && l.tok.text == w
}

// MatchID reports whether the current token is a legal identifier.
func (l *Lexer) MatchID() bool {
	return l.tok.kind == tokID
}

// EatDelim consumes delimiter d or reports a syntax error.
func (l *Lexer) EatDelim(d rune) error {
	if !l.MatchDelim(d) {
		return dberrors.BadSyntax("expected delimiter '" + string(d) + "'")
	}
	return l.nextToken()
}

// EatIntConstant consumes and returns an integer constant.
func (l *Lexer) EatIntConstant() (int, error) {
	if !l.MatchIntConstant() {
		return 0, dberrors.BadSyntax("expected integer constant")
	}
	v := l.tok.ival
	return v, l.nextToken()
}

// EatStringConstant consumes and returns a string constant.
func (l *Lexer) EatStringConstant() (string, error) {
	if !l.MatchStringConstant() {
		return "", dberrors.BadSyntax("expected string constant")
	}
	s := l.tok.text
	return s, l.nextToken()
}

// EatKeyword consumes keyword w or reports a syntax error.
func (l *Lexer) EatKeyword(w string) error {
	if !l.MatchKeyword(w) {
		return dberrors.BadSyntax("expected keyword '" + w + "'")
	}
	return l.nextToken()
}

// EatID consumes and returns an identifier.
func (l *Lexer) EatID() (string, error) {
	if !l.MatchID() {
		return "", dberrors.BadSyntax("expected identifier")
	}
	s := l.tok.text
	return s, l.nextToken()
}
