package parser

import (
	"github.com/yu-lang/yuc/ast"
	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/token"
)

// Binary precedence levels, low to high. Comparison and assignment are
// not expression operators in this language.
func precedence(t token.TokenType) uint32 {
	switch t {
	case token.STAR, token.SLASH, token.PERCENT:
		return 3
	case token.PLUS, token.MINUS:
		return 2
	case token.AND, token.OR, token.XOR:
		return 1
	}
	return 0
}

func (p *Parser) parseExpression() (uint32, bool) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec uint32) (uint32, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoIndex, false
	}

	for !p.atEnd() {
		op := p.tokens.Types[p.current]
		opPrec := precedence(op)
		if opPrec <= minPrec {
			break
		}

		line, col := p.lineCol(p.current)
		p.advance()

		right, ok := p.parseBinary(opPrec)
		if !ok {
			return ast.NoIndex, false
		}
		left = p.ast.Expressions.AddBinary(left, op, right, line, col)
	}

	return left, true
}

func (p *Parser) parseUnary() (uint32, bool) {
	if p.check(token.MINUS) || p.check(token.BANG) {
		op := p.tokens.Types[p.current]
		line, col := p.lineCol(p.current)
		p.advance()

		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoIndex, false
		}
		return p.ast.Expressions.AddUnary(op, operand, line, col), true
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (uint32, bool) {
	line, col := p.lineCol(p.current)

	switch p.tokens.Types[p.current] {
	case token.NUM_LITERAL, token.STR_LITERAL, token.TRUE, token.FALSE, token.NIL:
		value := p.value(p.current)
		p.advance()
		return p.ast.Expressions.AddLiteral(value, line, col), true

	case token.IDENTIFIER:
		name := p.value(p.current)
		symbol := p.symbols.Lookup(name, p.currentScope)
		p.advance()

		id := p.ast.Expressions.AddVariable(name, symbol, line, col)
		if p.check(token.LEFT_PAREN) {
			return p.parseCall(id, line, col)
		}
		return id, true

	case token.LEFT_PAREN:
		p.advance()
		inner, ok := p.parseExpression()
		if !ok {
			return ast.NoIndex, false
		}
		if !p.match(token.RIGHT_PAREN) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected ')' after grouped expression", "Close the parenthesized expression with ')'")
			return ast.NoIndex, false
		}
		return p.ast.Expressions.AddGrouping(inner, line, col), true

	default:
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected expression", "Provide a valid literal or expression")
		return ast.NoIndex, false
	}
}

func (p *Parser) parseCall(callee uint32, line, col uint32) (uint32, bool) {
	p.advance() // (

	var args []uint32
	if !p.check(token.RIGHT_PAREN) {
		for {
			arg, ok := p.parseExpression()
			if !ok {
				return ast.NoIndex, false
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ')' after call arguments", "Close the argument list with ')'")
		return ast.NoIndex, false
	}

	return p.ast.Expressions.AddCall(callee, args, line, col), true
}
