package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	sv "github.com/fra-scarfato/MiniLang-sub001/core/severity"
)

type LexKind int

const (
	InvalidLexKind LexKind = iota

	Ident
	Int

	Def
	Main
	With
	Input
	Output
	As
	SkipKw
	IfKw
	Then
	Else
	WhileKw
	Do
	True
	False
	NotKw
	AndKw
	OrKw

	Assign // :=
	Semicolon
	Plus
	Minus
	Star
	LessThan
	Equals // ==
	LeftParen
	RightParen

	EOF
)

var kindNames = map[LexKind]string{
	Ident:      "identifier",
	Int:        "integer",
	Def:        "'def'",
	Main:       "'main'",
	With:       "'with'",
	Input:      "'input'",
	Output:     "'output'",
	As:         "'as'",
	SkipKw:     "'skip'",
	IfKw:       "'if'",
	Then:       "'then'",
	Else:       "'else'",
	WhileKw:    "'while'",
	Do:         "'do'",
	True:       "'true'",
	False:      "'false'",
	NotKw:      "'not'",
	AndKw:      "'and'",
	OrKw:       "'or'",
	Assign:     "':='",
	Semicolon:  "';'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	LessThan:   "'<'",
	Equals:     "'=='",
	LeftParen:  "'('",
	RightParen: "')'",
	EOF:        "end of file",
}

func (this LexKind) String() string {
	s, ok := kindNames[this]
	if !ok {
		return "?"
	}
	return s
}

var keywords = map[string]LexKind{
	"def":    Def,
	"main":   Main,
	"with":   With,
	"input":  Input,
	"output": Output,
	"as":     As,
	"skip":   SkipKw,
	"if":     IfKw,
	"then":   Then,
	"else":   Else,
	"while":  WhileKw,
	"do":     Do,
	"true":   True,
	"false":  False,
	"not":    NotKw,
	"and":    AndKw,
	"or":     OrKw,
}

type Token struct {
	Lex   LexKind
	Text  string
	Value int64
	Range *Range
}

func (this *Token) String() string {
	if this == nil {
		return "nil"
	}
	if this.Text == "" {
		return this.Lex.String()
	}
	return this.Text
}

type Lexer struct {
	Word *Token

	File                string
	BeginLine, BeginCol int
	EndLine, EndCol     int

	Start, End   int
	LastRuneSize int
	Input        string

	Peeked *Token
}

func NewLexer(filename string, s string) *Lexer {
	return &Lexer{
		File:  filename,
		Input: s,
	}
}

func NewLexerError(st *Lexer, t et.ErrorKind, message string) *Error {
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Location: st.GetSourceLocation(),
		Message:  message,
	}
}

func (this *Lexer) GetSourceLocation() *Location {
	return &Location{
		File:  this.File,
		Range: this.Range(),
	}
}

func (this *Lexer) Next() *Error {
	if this.Peeked != nil {
		p := this.Peeked
		this.Peeked = nil
		this.Word = p
		return nil
	}
	symbol, err := any(this)
	if err != nil {
		return err
	}
	this.Start = this.End
	this.BeginLine = this.EndLine
	this.BeginCol = this.EndCol
	this.Word = symbol
	return nil
}

func (this *Lexer) Peek() (*Token, *Error) {
	if this.Peeked != nil {
		return this.Peeked, nil
	}
	symbol, err := any(this)
	if err != nil {
		return nil, err
	}
	this.Start = this.End
	this.Peeked = symbol
	return symbol, nil
}

func (this *Lexer) ReadAll() ([]*Token, *Error) {
	e := this.Next()
	if e != nil {
		return nil, e
	}
	output := []*Token{}
	for this.Word.Lex != EOF {
		output = append(output, this.Word)
		e = this.Next()
		if e != nil {
			return nil, e
		}
	}
	return output, nil
}

func (this *Lexer) Selected() string {
	return this.Input[this.Start:this.End]
}

func (this *Lexer) Range() *Range {
	return &Range{
		Begin: Position{Line: this.BeginLine, Column: this.BeginCol},
		End:   Position{Line: this.EndLine, Column: this.EndCol},
	}
}

const eof rune = -1

func nextRune(l *Lexer) rune {
	r, size := utf8.DecodeRuneInString(l.Input[l.End:])
	if r == utf8.RuneError && size == 1 {
		panic("invalid utf8 in source")
	}
	if size == 0 {
		return eof
	}
	l.End += size
	l.LastRuneSize = size
	if r == '\n' {
		l.EndLine++
		l.EndCol = 0
	} else {
		l.EndCol++
	}
	return r
}

func peekRune(l *Lexer) rune {
	r, size := utf8.DecodeRuneInString(l.Input[l.End:])
	if r == utf8.RuneError && size == 1 {
		panic("invalid utf8 in source")
	}
	if size == 0 {
		return eof
	}
	return r
}

func ignore(l *Lexer) {
	l.Start = l.End
	l.BeginLine = l.EndLine
	l.BeginCol = l.EndCol
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		r == '_'
}

func ignoreWhitespace(l *Lexer) {
	for {
		r := peekRune(l)
		switch r {
		case ' ', '\t', '\n', '\r':
			nextRune(l)
		case '#': // comment until end of line
			for r != '\n' && r != eof {
				nextRune(l)
				r = peekRune(l)
			}
		default:
			ignore(l)
			return
		}
	}
}

func any(l *Lexer) (*Token, *Error) {
	ignoreWhitespace(l)
	r := peekRune(l)
	switch {
	case isDigit(r):
		return number(l)
	case isLetter(r):
		return identifier(l), nil
	}
	switch r {
	case eof:
		return newToken(l, EOF), nil
	case ';':
		nextRune(l)
		return newToken(l, Semicolon), nil
	case '+':
		nextRune(l)
		return newToken(l, Plus), nil
	case '-':
		nextRune(l)
		return newToken(l, Minus), nil
	case '*':
		nextRune(l)
		return newToken(l, Star), nil
	case '<':
		nextRune(l)
		return newToken(l, LessThan), nil
	case '(':
		nextRune(l)
		return newToken(l, LeftParen), nil
	case ')':
		nextRune(l)
		return newToken(l, RightParen), nil
	case ':':
		nextRune(l)
		if peekRune(l) != '=' {
			return nil, NewLexerError(l, et.InvalidSymbol, "expected '=' after ':'")
		}
		nextRune(l)
		return newToken(l, Assign), nil
	case '=':
		nextRune(l)
		if peekRune(l) != '=' {
			return nil, NewLexerError(l, et.InvalidSymbol, "expected '==', found single '='")
		}
		nextRune(l)
		return newToken(l, Equals), nil
	}
	message := "invalid symbol: " + strings.TrimSpace(string(r))
	return nil, NewLexerError(l, et.InvalidSymbol, message)
}

func number(l *Lexer) (*Token, *Error) {
	r := peekRune(l)
	for isDigit(r) {
		nextRune(l)
		r = peekRune(l)
	}
	value, err := strconv.ParseInt(l.Selected(), 10, 64)
	if err != nil {
		return nil, NewLexerError(l, et.InvalidSymbol, "integer literal out of range")
	}
	tok := newToken(l, Int)
	tok.Value = value
	return tok, nil
}

func identifier(l *Lexer) *Token {
	r := peekRune(l)
	for isLetter(r) || isDigit(r) {
		nextRune(l)
		r = peekRune(l)
	}
	tok := newToken(l, Ident)
	if kind, ok := keywords[tok.Text]; ok {
		tok.Lex = kind
	}
	return tok
}

func newToken(l *Lexer, kind LexKind) *Token {
	return &Token{
		Lex:   kind,
		Text:  l.Selected(),
		Range: l.Range(),
	}
}
