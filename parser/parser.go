package parser

import (
	"github.com/yu-lang/yuc/ast"
	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/lexer"
	"github.com/yu-lang/yuc/token"
)

// Parser consumes a TokenList produced by the lexer and builds the AST
// together with the symbol, type and variable-declaration tables. The
// lexer is retained for line/column and token-text lookup.
type Parser struct {
	lex      *lexer.Lexer
	tokens   *token.TokenList
	source   string
	filename string

	current      uint32
	currentScope uint32

	ast      ast.AST
	symbols  ast.SymbolList
	types    ast.TypeList
	varDecls ast.VarDeclList

	warnings []diag.Diagnostic
	errors   []diag.Diagnostic
	fatal    bool
}

func New(tokens *token.TokenList, source, filename string, lex *lexer.Lexer) *Parser {
	return &Parser{
		lex:      lex,
		tokens:   tokens,
		source:   source,
		filename: filename,
	}
}

// ParseProgram consumes the token stream and returns the AST. The
// returned error is a diag.List when any ERROR or FATAL diagnostic
// accumulated; the AST is still returned for observability.
func (p *Parser) ParseProgram() (*ast.AST, error) {
	p.ast = ast.AST{}
	p.symbols = ast.SymbolList{}
	p.types = ast.TypeList{}
	p.varDecls = ast.VarDeclList{}
	p.current = 0
	p.currentScope = 0
	p.fatal = false

	var topLevel []uint32
	for !p.atEnd() && !p.fatal {
		var id uint32
		var ok bool
		switch p.tokens.Types[p.current] {
		case token.VAR, token.CONST:
			id, ok = p.parseVariableDecl()
		case token.FUNCTION:
			id, ok = p.parseFunctionDecl()
		default:
			id, ok = p.parseExpressionStmt()
		}
		if ok {
			topLevel = append(topLevel, id)
		}
	}

	p.ast.AddRootBlock(topLevel, 0, 0)
	if len(p.errors) > 0 {
		return &p.ast, diag.List(p.errors)
	}
	return &p.ast, nil
}

// AST returns the tree built by ParseProgram.
func (p *Parser) AST() *ast.AST { return &p.ast }

// Symbols returns the populated symbol table.
func (p *Parser) Symbols() *ast.SymbolList { return &p.symbols }

// Types returns the populated type table.
func (p *Parser) Types() *ast.TypeList { return &p.types }

// VarDecls returns the variable declarations in source order.
func (p *Parser) VarDecls() *ast.VarDeclList { return &p.varDecls }

func (p *Parser) Warnings() []diag.Diagnostic { return p.warnings }

func (p *Parser) Errors() []diag.Diagnostic { return p.errors }

func (p *Parser) atEnd() bool {
	return int(p.current) >= p.tokens.Len() ||
		p.tokens.Types[p.current] == token.END_OF_FILE
}

func (p *Parser) advance() {
	if int(p.current) < p.tokens.Len()-1 {
		p.current++
	}
}

func (p *Parser) check(t token.TokenType) bool {
	return !p.atEnd() && p.tokens.Types[p.current] == t
}

func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) value(i uint32) string {
	return p.lex.Value(int(i))
}

func (p *Parser) lineCol(i uint32) (uint32, uint32) {
	return p.lex.LineCol(p.tokens.At(int(i)))
}

func (p *Parser) parseStatement() (uint32, bool) {
	switch p.tokens.Types[p.current] {
	case token.IF:
		return p.parseIfStatement()
	case token.LEFT_BRACE:
		return p.parseBlockStatement()
	case token.VAR, token.CONST:
		return p.parseVariableDecl()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.WHILE, token.FOR:
		p.errorAt(p.current, diag.UNIMPLEMENTED_FEATURE, diag.ERROR,
			"Loop statements are not implemented", "Rewrite the loop without 'while' or 'for'")
		return ast.NoIndex, false
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseIfStatement() (uint32, bool) {
	line, col := p.lineCol(p.current)
	p.advance() // if

	if !p.match(token.LEFT_PAREN) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '(' after 'if'", "Open condition with '('")
		return ast.NoIndex, false
	}

	cond, ok := p.parseExpression()
	if !ok {
		return ast.NoIndex, false
	}

	if !p.match(token.RIGHT_PAREN) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ')' after condition", "Close condition with ')'")
		return ast.NoIndex, false
	}

	thenStmt, ok := p.parseStatement()
	if !ok {
		return ast.NoIndex, false
	}

	elseStmt := ast.NoIndex
	if p.match(token.ELSE) {
		elseStmt, ok = p.parseStatement()
		if !ok {
			return ast.NoIndex, false
		}
	}

	return p.ast.Statements.AddIf(cond, thenStmt, elseStmt, line, col), true
}

func (p *Parser) parseBlockStatement() (uint32, bool) {
	line, col := p.lineCol(p.current)
	p.advance() // {
	p.currentScope++
	depth := p.currentScope

	var stmts []uint32
	for !p.atEnd() && !p.fatal && !p.check(token.RIGHT_BRACE) {
		if id, ok := p.parseStatement(); ok {
			stmts = append(stmts, id)
		}
	}

	if !p.match(token.RIGHT_BRACE) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '}' to close block", "Close the block with '}'")
		p.currentScope--
		return ast.NoIndex, false
	}

	p.currentScope--
	return p.ast.Statements.AddBlock(stmts, depth, line, col), true
}

func (p *Parser) parseReturnStatement() (uint32, bool) {
	line, col := p.lineCol(p.current)
	p.advance() // return

	value := ast.NoIndex
	if !p.check(token.SEMICOLON) {
		var ok bool
		value, ok = p.parseExpression()
		if !ok {
			return ast.NoIndex, false
		}
	}

	if !p.match(token.SEMICOLON) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ';' after return statement", "End return statement with ';'")
		return ast.NoIndex, false
	}

	return p.ast.Statements.AddReturn(value, line, col), true
}

func (p *Parser) parseExpressionStmt() (uint32, bool) {
	line, col := p.lineCol(p.current)

	expr, ok := p.parseExpression()
	if !ok {
		return ast.NoIndex, false
	}

	if !p.match(token.SEMICOLON) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ';' after expression", "End expression statement with ';'")
		return ast.NoIndex, false
	}

	return p.ast.Statements.AddExpressionStmt(expr, line, col), true
}

func (p *Parser) parseVariableDecl() (uint32, bool) {
	line, col := p.lineCol(p.current)

	isConst := p.match(token.CONST)
	if !isConst && !p.match(token.VAR) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected 'var' or 'const' at the start of variable declaration",
			"Use 'var' or 'const' when declaring a variable")
		return ast.NoIndex, false
	}

	if !p.check(token.IDENTIFIER) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected identifier after 'var' or 'const'", "Provide a valid variable name")
		return ast.NoIndex, false
	}
	name := p.value(p.current)
	p.advance()

	typeIdx := ast.NoIndex
	if p.match(token.COLON) {
		var ok bool
		typeIdx, ok = p.parseType()
		if !ok {
			return ast.NoIndex, false
		}
	}

	if !p.match(token.EQUAL) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '=' for variable initialization", "Use '=' to assign a value to the variable")
		return ast.NoIndex, false
	}

	initIdx, ok := p.parseExpression()
	if !ok {
		return ast.NoIndex, false
	}

	if typeIdx == ast.NoIndex {
		typeIdx = p.inferType(initIdx)
	}

	var stmtFlags ast.StmtFlags
	var symFlags ast.SymbolFlags
	if isConst {
		stmtFlags |= ast.IS_CONST
		symFlags |= ast.SYM_CONST
	}

	symbolIdx := p.symbols.Add(name, typeIdx, p.currentScope, symFlags)
	p.varDecls.Add(name, typeIdx, initIdx, stmtFlags, line, col)

	if !p.match(token.SEMICOLON) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ';' at the end of variable declaration",
			"Add ';' to complete the variable declaration")
		return ast.NoIndex, false
	}

	return p.ast.Statements.AddVarDecl(name, typeIdx, initIdx, symbolIdx, stmtFlags, line, col), true
}

func (p *Parser) parseFunctionDecl() (uint32, bool) {
	line, col := p.lineCol(p.current)
	p.advance() // function

	var genericTypes []uint32
	hasVariadicGeneric := false
	if p.check(token.LESS) {
		var ok bool
		genericTypes, hasVariadicGeneric, ok = p.parseGenericParams()
		if !ok {
			return ast.NoIndex, false
		}
	}

	if !p.check(token.IDENTIFIER) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected function name", "Provide a valid function name")
		return ast.NoIndex, false
	}
	funcName := p.value(p.current)
	p.advance()

	// The function symbol exists before the body is parsed so the name
	// is visible for recursion.
	symFlags := ast.IS_FUNCTION
	if hasVariadicGeneric {
		symFlags |= ast.HAS_VARIADIC_GENERIC
	}
	funcSymbol := p.symbols.Add(funcName, ast.NoIndex, p.currentScope, symFlags)

	if !p.match(token.LEFT_PAREN) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '(' to start parameter list", "Open parameter list with '('")
		return ast.NoIndex, false
	}

	var paramNames []string
	var paramTypes []uint32
	for !p.check(token.RIGHT_PAREN) {
		if !p.check(token.IDENTIFIER) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected parameter name", "Provide a valid parameter name")
			return ast.NoIndex, false
		}
		paramNames = append(paramNames, p.value(p.current))
		p.advance()

		if !p.match(token.COLON) {
			p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
				"Expected ':' after parameter name", "Provide type annotation for parameter")
			return ast.NoIndex, false
		}

		paramType, ok := p.parseType()
		if !ok {
			return ast.NoIndex, false
		}
		paramTypes = append(paramTypes, paramType)

		if !p.match(token.COMMA) && !p.check(token.RIGHT_PAREN) {
			break
		}
	}

	if !p.match(token.RIGHT_PAREN) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected ')' to close parameter list", "Close parameter list with ')'")
		return ast.NoIndex, false
	}

	if !p.match(token.MINUS) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '-' before return type", "Specify return type with '->'")
		return ast.NoIndex, false
	}
	if !p.match(token.GREATER) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '>' to complete return type arrow", "Complete return type specification with '->'")
		return ast.NoIndex, false
	}

	returnType, ok := p.parseType()
	if !ok {
		return ast.NoIndex, false
	}

	funcType := p.types.AddFunction(paramTypes, returnType)
	if len(genericTypes) > 0 {
		p.types.GenericStarts[funcType] = uint32(len(p.types.GenericParams))
		p.types.GenericCounts[funcType] = uint32(len(genericTypes))
		p.types.GenericParams = append(p.types.GenericParams, genericTypes...)
	}
	p.symbols.TypeIndices[funcSymbol] = funcType

	if !p.check(token.LEFT_BRACE) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '{' to start function body", "Open function body with '{'")
		return ast.NoIndex, false
	}

	bodyIdx, paramSymbols, ok := p.parseFunctionBody(paramNames, paramTypes)
	if !ok {
		return ast.NoIndex, false
	}

	return p.ast.Statements.AddFunction(funcName, funcType, paramSymbols, bodyIdx, line, col), true
}

// parseFunctionBody parses the body block, binding the parameters as
// symbols in the block's inner scope.
func (p *Parser) parseFunctionBody(paramNames []string, paramTypes []uint32) (uint32, []uint32, bool) {
	line, col := p.lineCol(p.current)
	p.advance() // {
	p.currentScope++
	depth := p.currentScope

	paramSymbols := make([]uint32, 0, len(paramNames))
	for i, name := range paramNames {
		paramSymbols = append(paramSymbols, p.symbols.Add(name, paramTypes[i], depth, ast.SYM_NONE))
	}

	var stmts []uint32
	for !p.atEnd() && !p.fatal && !p.check(token.RIGHT_BRACE) {
		if id, ok := p.parseStatement(); ok {
			stmts = append(stmts, id)
		}
	}

	if !p.match(token.RIGHT_BRACE) {
		p.errorAt(p.current, diag.UNEXPECTED_TOKEN, diag.ERROR,
			"Expected '}' to close function body", "Close function body with '}'")
		p.currentScope--
		return ast.NoIndex, nil, false
	}

	p.currentScope--
	return p.ast.Statements.AddBlock(stmts, depth, line, col), paramSymbols, true
}
