package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yu-lang/yuc/ast"
	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/lexer"
)

// parseInput stops the test immediately if the input does not parse
// cleanly.
func parseInput(t *testing.T, input string) *Parser {
	t.Helper()
	p := parserFor(t, input)
	_, err := p.ParseProgram()
	require.NoError(t, err, "parser errors for input: %s", input)
	require.Empty(t, p.Errors())
	return p
}

func parserFor(t *testing.T, input string) *Parser {
	t.Helper()
	l, err := lexer.New(input)
	require.NoError(t, err)
	tokens := l.Tokenize()
	return New(tokens, input, "test.yu", l)
}

func typeName(p *Parser, typeIdx uint32) string {
	if typeIdx == ast.NoIndex {
		return "<unresolved>"
	}
	return p.Types().Names[typeIdx]
}

func TestInference(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"var x = 1.5;", "f64"},
		{"var y = 2;", "i32"},
		{`var s = "hi";`, "string"},
		{"var b = true;", "bool"},
		{"var n = null;", "bool"},
		{"var big = 3000000000;", "i64"},
		{"var h = 0x10;", "i32"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := parseInput(t, tt.input)
			require.Equal(t, 1, p.VarDecls().Len())
			assert.Equal(t, tt.expected, typeName(p, p.VarDecls().TypeIndices[0]))
		})
	}
}

func TestExplicitTypeAnnotation(t *testing.T) {
	p := parseInput(t, "var x: u16 = 1;")
	require.Equal(t, 1, p.VarDecls().Len())
	assert.Equal(t, "u16", typeName(p, p.VarDecls().TypeIndices[0]))

	sym := p.Symbols().Lookup("x", 0)
	require.NotEqual(t, ast.NoIndex, sym)
	assert.Equal(t, "u16", typeName(p, p.Symbols().TypeIndices[sym]))
}

func TestConstDeclaration(t *testing.T) {
	p := parseInput(t, "const limit = 100;")
	require.Equal(t, 1, p.VarDecls().Len())
	assert.Equal(t, ast.IS_CONST, p.VarDecls().Flags[0]&ast.IS_CONST)

	sym := p.Symbols().Lookup("limit", 0)
	require.NotEqual(t, ast.NoIndex, sym)
	assert.NotZero(t, p.Symbols().Flags[sym]&ast.SYM_CONST)
}

func TestPointerTypeWithGenerics(t *testing.T) {
	p := parseInput(t, "var p: ptr<i32, u8> = 0;")

	typeIdx := p.VarDecls().TypeIndices[0]
	require.Equal(t, "ptr", typeName(p, typeIdx))
	args := p.Types().GenericArgs(typeIdx)
	require.Len(t, args, 2)
	assert.Equal(t, "i32", typeName(p, args[0]))
	assert.Equal(t, "u8", typeName(p, args[1]))
}

func TestExpressionPrecedence(t *testing.T) {
	p := parseInput(t, "var r = 1 + 2 * 3;")

	exprs := &p.AST().Expressions
	root := p.VarDecls().InitIndices[0]
	require.Equal(t, ast.BINARY, exprs.Types[root])

	// '+' at the root: '*' binds tighter.
	assert.Equal(t, "+", exprs.Operators[root].String())
	right := exprs.RightExprIndices[root]
	assert.Equal(t, ast.BINARY, exprs.Types[right])
	assert.Equal(t, "*", exprs.Operators[right].String())
}

func TestBitwiseBindsLoosest(t *testing.T) {
	p := parseInput(t, "var r = 1 & 2 + 3;")

	exprs := &p.AST().Expressions
	root := p.VarDecls().InitIndices[0]
	require.Equal(t, ast.BINARY, exprs.Types[root])
	assert.Equal(t, "&", exprs.Operators[root].String())
}

func TestUnaryAndGrouping(t *testing.T) {
	p := parseInput(t, "var r = -(1 + 2);")

	exprs := &p.AST().Expressions
	root := p.VarDecls().InitIndices[0]
	require.Equal(t, ast.UNARY, exprs.Types[root])

	group := exprs.OperandIndices[root]
	require.Equal(t, ast.GROUPING, exprs.Types[group])
	assert.Equal(t, ast.BINARY, exprs.Types[exprs.OperandIndices[group]])
}

func TestFunctionCall(t *testing.T) {
	p := parseInput(t, "compute(1, 2 + 3, x);")

	exprs := &p.AST().Expressions
	stmts := &p.AST().Statements

	root := stmts.BlockStmts(p.AST().RootStmtIndex)
	require.Len(t, root, 1)
	require.Equal(t, ast.EXPRESSION_STMT, stmts.Types[root[0]])

	call := stmts.ExprIndices[root[0]]
	require.Equal(t, ast.FUNCTION_CALL, exprs.Types[call])
	assert.Len(t, exprs.Args(call), 3)

	callee := exprs.CalleeIndices[call]
	assert.Equal(t, "compute", exprs.VarNames[callee])
	assert.Equal(t, ast.NoIndex, exprs.SymbolIndices[callee])
}

func TestFunctionDeclaration(t *testing.T) {
	input := `function addone(a: i32) -> i32 {
	return a + 1;
}`
	p := parseInput(t, input)

	stmts := &p.AST().Statements
	root := stmts.BlockStmts(p.AST().RootStmtIndex)
	require.Len(t, root, 1)
	require.Equal(t, ast.FUNCTION_DECL, stmts.Types[root[0]])
	assert.Equal(t, "addone", stmts.FuncNames[root[0]])

	funcType := stmts.FuncTypeIndices[root[0]]
	require.Equal(t, "function", p.Types().Names[funcType])
	params := p.Types().ParamTypes(funcType)
	require.Len(t, params, 1)
	assert.Equal(t, "i32", typeName(p, params[0]))
	assert.Equal(t, "i32", typeName(p, p.Types().FunctionReturnTypes[funcType]))

	// The function symbol carries the function type and is visible at
	// the top scope.
	sym := p.Symbols().Lookup("addone", 0)
	require.NotEqual(t, ast.NoIndex, sym)
	assert.NotZero(t, p.Symbols().Flags[sym]&ast.IS_FUNCTION)
	assert.Equal(t, funcType, p.Symbols().TypeIndices[sym])

	// The parameter symbol lives in the body scope.
	param := p.Symbols().Lookup("a", 1)
	require.NotEqual(t, ast.NoIndex, param)
	assert.Equal(t, uint32(1), p.Symbols().Scopes[param])
}

func TestGenericFunction(t *testing.T) {
	input := `function<T> identity(x: T) -> i32 {
	return 0;
}`
	p := parseInput(t, input)

	sym := p.Symbols().Lookup("T", 0)
	require.NotEqual(t, ast.NoIndex, sym)
	assert.NotZero(t, p.Symbols().Flags[sym]&ast.IS_GENERIC_PARAM)

	// One GENERIC_PARAM expression was recorded.
	exprs := &p.AST().Expressions
	found := 0
	for i := 0; i < exprs.Len(); i++ {
		if exprs.Types[i] == ast.GENERIC_PARAM {
			found++
			assert.Equal(t, "T", exprs.VarNames[i])
		}
	}
	assert.Equal(t, 1, found)
}

func TestVariadicGeneric(t *testing.T) {
	input := `function<...T> pack() -> void {
	return;
}`
	p := parseInput(t, input)

	sym := p.Symbols().Lookup("T", 0)
	require.NotEqual(t, ast.NoIndex, sym)
	assert.NotZero(t, p.Symbols().Flags[sym]&ast.IS_VARIADIC)

	fn := p.Symbols().Lookup("pack", 0)
	require.NotEqual(t, ast.NoIndex, fn)
	assert.NotZero(t, p.Symbols().Flags[fn]&ast.HAS_VARIADIC_GENERIC)
}

func TestMultipleVariadicGenericsRejected(t *testing.T) {
	input := `function<...T, ...U> pack() -> void {
	return;
}`
	p := parserFor(t, input)
	_, err := p.ParseProgram()
	require.Error(t, err)

	require.NotEmpty(t, p.Errors())
	assert.Equal(t, diag.INVALID_SYNTAX, p.Errors()[0].Flags)
	assert.Equal(t, "E0002", p.Errors()[0].Code())
}

func TestIfElse(t *testing.T) {
	input := `function choose(c: bool) -> i32 {
	if (c) {
		return 1;
	} else {
		return 2;
	}
}`
	p := parseInput(t, input)

	stmts := &p.AST().Statements
	found := false
	for i := 0; i < stmts.Len(); i++ {
		if stmts.Types[i] == ast.IF {
			found = true
			assert.NotEqual(t, ast.NoIndex, stmts.ElseStmtIndices[i])
		}
	}
	assert.True(t, found)
	assert.True(t, p.AST().Validate())
}

func TestRecursionVisible(t *testing.T) {
	input := `function fact(n: i32) -> i32 {
	return fact(n - 1);
}`
	p := parseInput(t, input)

	// The recursive callee resolved to the function's own symbol.
	exprs := &p.AST().Expressions
	fn := p.Symbols().Lookup("fact", 0)
	resolved := false
	for i := 0; i < exprs.Len(); i++ {
		if exprs.Types[i] == ast.VARIABLE && exprs.VarNames[i] == "fact" {
			assert.Equal(t, fn, exprs.SymbolIndices[i])
			resolved = true
		}
	}
	assert.True(t, resolved)
}

func TestSymbolRoundTrip(t *testing.T) {
	input := `var a = 1;
function f(b: i32) -> void {
	var c = b;
	return;
}`
	p := parseInput(t, input)

	exprs := &p.AST().Expressions
	for i := 0; i < exprs.Len(); i++ {
		if sym := exprs.SymbolIndices[i]; sym != ast.NoIndex {
			assert.Less(t, int(sym), p.Symbols().Len())
		}
		if ti := exprs.TypeIndices[i]; ti != ast.NoIndex {
			assert.Less(t, int(ti), p.Types().Len())
		}
	}
	assert.True(t, p.AST().Validate())
}

func TestUnresolvedTypeDiagnostic(t *testing.T) {
	p := parserFor(t, "var x: Widget = 1;")
	_, err := p.ParseProgram()
	require.Error(t, err)

	require.NotEmpty(t, p.Errors())
	d := p.Errors()[0]
	assert.Equal(t, diag.UNRESOLVED_SYMBOL, d.Flags)
	assert.Equal(t, "E0433", d.Code())
	assert.Equal(t, diag.ERROR, d.Severity)
	assert.Equal(t, "test.yu", d.Filename)
	assert.Equal(t, uint32(1), d.Line)
	assert.Equal(t, uint32(8), d.Column)
	assert.Equal(t, "var x: Widget = 1;", d.SourceLine)
	assert.Equal(t, strings.Repeat(" ", 7)+"^"+strings.Repeat("~", 5), d.Caret)
}

func TestUnexpectedTokenDiagnostic(t *testing.T) {
	p := parserFor(t, "var = 5;")
	_, err := p.ParseProgram()
	require.Error(t, err)

	require.NotEmpty(t, p.Errors())
	assert.Equal(t, "E0001", p.Errors()[0].Code())
}

func TestRecoveryContinuesAfterError(t *testing.T) {
	input := "var = 5;\nvar y = 2;"
	p := parserFor(t, input)
	_, err := p.ParseProgram()
	require.Error(t, err)

	// The bad declaration produced one error; the next one parsed.
	assert.Len(t, p.Errors(), 1)
	require.Equal(t, 1, p.VarDecls().Len())
	assert.Equal(t, "y", p.VarDecls().Names[0])
}

func TestRecoveryMakesProgress(t *testing.T) {
	// Inputs crafted to stall a parser that never consumes on error.
	inputs := []string{
		"}",
		"} } }",
		"var",
		"return 1;",
		"function",
		"((((",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			p := parserFor(t, input)
			_, err := p.ParseProgram()
			assert.Error(t, err)
		})
	}
}

func TestWhileUnimplemented(t *testing.T) {
	input := `function f() -> void {
	while (1) { return; }
}`
	p := parserFor(t, input)
	_, err := p.ParseProgram()
	require.Error(t, err)

	require.NotEmpty(t, p.Errors())
	assert.Equal(t, diag.UNIMPLEMENTED_FEATURE, p.Errors()[0].Flags)
	assert.Equal(t, "E0000", p.Errors()[0].Code())
}

func TestDiagnosticFormat(t *testing.T) {
	p := parserFor(t, "var x: Widget = 1;")
	_, err := p.ParseProgram()
	require.Error(t, err)

	out := p.Errors()[0].Format()
	assert.Contains(t, out, "error: Unrecognized type")
	assert.Contains(t, out, "--> test.yu:1:8")
	assert.Contains(t, out, "var x: Widget = 1;")
	assert.Contains(t, out, "= help: ")
	assert.Contains(t, out, "= note: error[E0433]")
}

func TestEmptyProgram(t *testing.T) {
	p := parseInput(t, "")
	assert.True(t, p.AST().Validate())
	assert.Empty(t, p.AST().Statements.BlockStmts(p.AST().RootStmtIndex))
}
