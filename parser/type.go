package parser

import (
	"github.com/yu-lang/yuc/ast"
	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/token"
)

// parseType recognizes a primitive-type keyword, an identifier bound
// to a type or generic parameter, or a pointer type with an optional
// generic argument list. Every appearance adds a TypeList entry; types
// are not deduplicated.
func (p *Parser) parseType() (uint32, bool) {
	t := p.tokens.Types[p.current]

	switch {
	case t.IsTypeKeyword() && t != token.PTR:
		name := p.value(p.current)
		p.advance()
		return p.types.Add(name), true

	case t == token.PTR:
		name := p.value(p.current)
		p.advance()

		if !p.match(token.LESS) {
			return p.types.Add(name), true
		}

		var args []uint32
		for {
			arg, ok := p.parseType()
			if !ok {
				p.errorAt(p.current, diag.INVALID_SYNTAX, diag.ERROR,
					"Invalid generic type parameter", "Provide a valid type for generic parameter")
				return ast.NoIndex, false
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}

		if !p.match(token.GREATER) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected '>' to close generic type parameters", "Close generic type parameters with '>'")
			return ast.NoIndex, false
		}

		return p.types.AddGeneric(name, args), true

	case t == token.IDENTIFIER:
		name := p.value(p.current)
		symbol := p.symbols.Lookup(name, p.currentScope)
		if symbol != ast.NoIndex &&
			p.symbols.Flags[symbol]&(ast.IS_TYPE|ast.IS_GENERIC_PARAM) != 0 {
			p.advance()
			return p.types.Add(name), true
		}

		p.errorAt(p.current, diag.UNRESOLVED_SYMBOL, diag.ERROR,
			"Unrecognized type", "Use a valid type or define the type before use")
		return ast.NoIndex, false

	default:
		p.errorAt(p.current, diag.UNRESOLVED_SYMBOL, diag.ERROR,
			"Unrecognized type", "Use a valid type or define the type before use")
		return ast.NoIndex, false
	}
}

// parseGenericParams parses a '<' ... '>' declaration-site generic
// parameter list. A leading '...' marks the next parameter variadic;
// only one variadic parameter is allowed per list. Each parameter is
// bound as a symbol and given its own TypeList entry; the returned ids
// are the type ids.
func (p *Parser) parseGenericParams() ([]uint32, bool, bool) {
	if !p.match(token.LESS) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '<' to start generic parameters", "Open generic parameters with '<'")
		return nil, false, false
	}

	var typeIds []uint32
	hasVariadic := false

	for !p.check(token.GREATER) {
		if p.atEnd() {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected '>' to close generic parameters", "Close generic parameters with '>'")
			return nil, false, false
		}

		variadic := false
		if p.checkEllipsis() {
			if hasVariadic {
				p.errorAt(p.current, diag.INVALID_SYNTAX, diag.ERROR,
					"Multiple variadic generic parameters", "Only one variadic generic parameter is allowed")
				return nil, false, false
			}
			hasVariadic = true
			variadic = true
			p.advance() // first dot
			p.advance() // second dot
			p.advance() // third dot
		}

		if !p.check(token.IDENTIFIER) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected identifier in generic parameters", "Provide a valid identifier for generic parameter")
			return nil, false, false
		}

		name := p.value(p.current)
		line, col := p.lineCol(p.current)
		p.advance()

		typeId := p.types.Add(name)
		symFlags := ast.IS_GENERIC_PARAM
		if variadic {
			symFlags |= ast.IS_VARIADIC
		}
		symbol := p.symbols.Add(name, typeId, p.currentScope, symFlags)
		typeIds = append(typeIds, typeId)

		nested := ast.NoIndex
		if p.check(token.LESS) {
			nestedTypes, _, ok := p.parseGenericParams()
			if !ok {
				return nil, false, false
			}
			if len(nestedTypes) > 0 {
				nested = nestedTypes[0]
			}
		}

		p.ast.Expressions.AddGenericParam(name, symbol, variadic, nested, line, col)

		if !p.match(token.COMMA) && !p.check(token.GREATER) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected ',' or '>' in generic parameters",
				"Separate generic parameters with ',' or close with '>'")
			return nil, false, false
		}
	}

	p.advance() // >
	return typeIds, hasVariadic, true
}

func (p *Parser) checkEllipsis() bool {
	i := int(p.current)
	return i+2 < p.tokens.Len() &&
		p.tokens.Types[i] == token.DOT &&
		p.tokens.Types[i+1] == token.DOT &&
		p.tokens.Types[i+2] == token.DOT
}
