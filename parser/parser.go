// Package parser builds a MiniImp AST out of a token stream.
//
// Grammar:
//
//	program := 'def' 'main' 'with' 'input' id 'output' id 'as' cmd
//	cmd     := single {';' single}
//	single  := 'skip'
//	         | id ':=' aexp
//	         | 'if' bexp 'then' cmd 'else' cmd
//	         | 'while' bexp 'do' cmd
//	         | '(' cmd ')'
//	bexp    := band {'or' band}
//	band    := bfactor {'and' bfactor}
//	bfactor := 'true' | 'false' | 'not' bfactor
//	         | aexp ('<'|'==') aexp
//	aexp    := term {('+'|'-') term}
//	term    := factor {'*' factor}
//	factor  := int | id | '-' factor | '(' aexp ')'
//
// 'if' and 'while' bodies extend as far as possible; parentheses
// delimit them when a trailing sequence should not belong to the body.
package parser

import (
	"github.com/fra-scarfato/MiniLang-sub001/ast"
	. "github.com/fra-scarfato/MiniLang-sub001/core"
	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	sv "github.com/fra-scarfato/MiniLang-sub001/core/severity"
	lx "github.com/fra-scarfato/MiniLang-sub001/lexer"
)

func Parse(filename string, s string) (*ast.Program, *Error) {
	l := lx.NewLexer(filename, s)
	err := l.Next()
	if err != nil {
		return nil, err
	}
	p, err := program(l)
	if err != nil {
		return nil, err
	}
	if l.Word.Lex != lx.EOF {
		return nil, newParserError(l, et.ExpectedEOF, "unexpected "+l.Word.String()+" after program body")
	}
	return p, nil
}

func program(l *lx.Lexer) (*ast.Program, *Error) {
	keywords := []lx.LexKind{lx.Def, lx.Main, lx.With, lx.Input}
	for _, kw := range keywords {
		if _, err := expect(l, kw); err != nil {
			return nil, err
		}
	}
	in, err := expect(l, lx.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := expect(l, lx.Output); err != nil {
		return nil, err
	}
	out, err := expect(l, lx.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := expect(l, lx.As); err != nil {
		return nil, err
	}
	body, err := command(l)
	if err != nil {
		return nil, err
	}
	return &ast.Program{
		Input:  in.Text,
		Output: out.Text,
		Body:   body,
	}, nil
}

func command(l *lx.Lexer) (ast.Cmd, *Error) {
	first, err := single(l)
	if err != nil {
		return nil, err
	}
	for l.Word.Lex == lx.Semicolon {
		if err := next(l); err != nil {
			return nil, err
		}
		second, err := single(l)
		if err != nil {
			return nil, err
		}
		first = &ast.Seq{First: first, Second: second}
	}
	return first, nil
}

func single(l *lx.Lexer) (ast.Cmd, *Error) {
	switch l.Word.Lex {
	case lx.SkipKw:
		if err := next(l); err != nil {
			return nil, err
		}
		return &ast.Skip{}, nil
	case lx.Ident:
		name := l.Word.Text
		if err := next(l); err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.Assign); err != nil {
			return nil, err
		}
		e, err := aexp(l)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name, Expr: e}, nil
	case lx.IfKw:
		if err := next(l); err != nil {
			return nil, err
		}
		cond, err := bexp(l)
		if err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.Then); err != nil {
			return nil, err
		}
		then, err := command(l)
		if err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.Else); err != nil {
			return nil, err
		}
		els, err := command(l)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil
	case lx.WhileKw:
		if err := next(l); err != nil {
			return nil, err
		}
		cond, err := bexp(l)
		if err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.Do); err != nil {
			return nil, err
		}
		body, err := command(l)
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: body}, nil
	case lx.LeftParen:
		if err := next(l); err != nil {
			return nil, err
		}
		c, err := command(l)
		if err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.RightParen); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, newParserError(l, et.ExpectedProd, "expected command, found "+l.Word.String())
}

func bexp(l *lx.Lexer) (ast.Expr, *Error) {
	left, err := band(l)
	if err != nil {
		return nil, err
	}
	for l.Word.Lex == lx.OrKw {
		if err := next(l); err != nil {
			return nil, err
		}
		right, err := band(l)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func band(l *lx.Lexer) (ast.Expr, *Error) {
	left, err := bfactor(l)
	if err != nil {
		return nil, err
	}
	for l.Word.Lex == lx.AndKw {
		if err := next(l); err != nil {
			return nil, err
		}
		right, err := bfactor(l)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: ast.And, Left: left, Right: right}
	}
	return left, nil
}

func bfactor(l *lx.Lexer) (ast.Expr, *Error) {
	switch l.Word.Lex {
	case lx.True:
		if err := next(l); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Value: true}, nil
	case lx.False:
		if err := next(l); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Value: false}, nil
	case lx.NotKw:
		if err := next(l); err != nil {
			return nil, err
		}
		inner, err := bfactor(l)
		if err != nil {
			return nil, err
		}
		return &ast.Not{Expr: inner}, nil
	}
	left, err := aexp(l)
	if err != nil {
		return nil, err
	}
	var op ast.Operator
	switch l.Word.Lex {
	case lx.LessThan:
		op = ast.Less
	case lx.Equals:
		op = ast.Eq
	default:
		return nil, newParserError(l, et.ExpectedSymbol, "expected '<' or '==', found "+l.Word.String())
	}
	if err := next(l); err != nil {
		return nil, err
	}
	right, err := aexp(l)
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Op: op, Left: left, Right: right}, nil
}

func aexp(l *lx.Lexer) (ast.Expr, *Error) {
	left, err := term(l)
	if err != nil {
		return nil, err
	}
	for l.Word.Lex == lx.Plus || l.Word.Lex == lx.Minus {
		op := ast.Add
		if l.Word.Lex == lx.Minus {
			op = ast.Sub
		}
		if err := next(l); err != nil {
			return nil, err
		}
		right, err := term(l)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func term(l *lx.Lexer) (ast.Expr, *Error) {
	left, err := factor(l)
	if err != nil {
		return nil, err
	}
	for l.Word.Lex == lx.Star {
		if err := next(l); err != nil {
			return nil, err
		}
		right, err := factor(l)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: ast.Mul, Left: left, Right: right}
	}
	return left, nil
}

func factor(l *lx.Lexer) (ast.Expr, *Error) {
	switch l.Word.Lex {
	case lx.Int:
		value := l.Word.Value
		if err := next(l); err != nil {
			return nil, err
		}
		return &ast.IntLit{Value: value}, nil
	case lx.Ident:
		name := l.Word.Text
		if err := next(l); err != nil {
			return nil, err
		}
		return &ast.Var{Name: name}, nil
	case lx.Minus:
		if err := next(l); err != nil {
			return nil, err
		}
		inner, err := factor(l)
		if err != nil {
			return nil, err
		}
		if lit, ok := inner.(*ast.IntLit); ok {
			return &ast.IntLit{Value: -lit.Value}, nil
		}
		return &ast.BinOp{Op: ast.Sub, Left: &ast.IntLit{Value: 0}, Right: inner}, nil
	case lx.LeftParen:
		if err := next(l); err != nil {
			return nil, err
		}
		inner, err := aexp(l)
		if err != nil {
			return nil, err
		}
		if _, err := expect(l, lx.RightParen); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, newParserError(l, et.ExpectedProd, "expected expression, found "+l.Word.String())
}

func expect(l *lx.Lexer, kind lx.LexKind) (*lx.Token, *Error) {
	if l.Word.Lex != kind {
		message := "expected " + kind.String() + ", found " + l.Word.String()
		return nil, newParserError(l, et.ExpectedSymbol, message)
	}
	tok := l.Word
	if err := next(l); err != nil {
		return nil, err
	}
	return tok, nil
}

func next(l *lx.Lexer) *Error {
	return l.Next()
}

func newParserError(l *lx.Lexer, t et.ErrorKind, message string) *Error {
	return &Error{
		Code:     t,
		Severity: sv.Error,
		Location: l.GetSourceLocation(),
		Message:  message,
	}
}
