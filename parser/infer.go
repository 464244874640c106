package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/yu-lang/yuc/ast"
)

// inferType infers the type of a variable declared without an explicit
// annotation from the shape of its initializer. Each inferred primitive
// appends a TypeList entry so the declaration's type index always
// resolves to a named type. Returns NoIndex when nothing can be said.
func (p *Parser) inferType(exprIdx uint32) uint32 {
	e := &p.ast.Expressions
	if exprIdx >= uint32(e.Len()) {
		return ast.NoIndex
	}

	switch e.Types[exprIdx] {
	case ast.LITERAL:
		return p.inferLiteral(e.LiteralValues[exprIdx])

	case ast.VARIABLE:
		symbol := e.SymbolIndices[exprIdx]
		if symbol == ast.NoIndex {
			return ast.NoIndex
		}
		return p.symbols.TypeIndices[symbol]

	default:
		return ast.NoIndex
	}
}

func (p *Parser) inferLiteral(value string) uint32 {
	if len(value) > 0 && value[0] == '"' {
		return p.types.Add("string")
	}
	if value == "true" || value == "false" || value == "null" {
		return p.types.Add("bool")
	}
	if strings.Contains(value, ".") {
		return p.types.Add("f64")
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(value, "-"), "+")
	n, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return ast.NoIndex
	}
	if n <= math.MaxInt32 {
		return p.types.Add("i32")
	}
	return p.types.Add("i64")
}
