package ast

import "github.com/yu-lang/yuc/token"

// NoIndex is the sentinel id for unresolved cross-references (symbols
// the parser could not bind, types not yet inferred).
const NoIndex = ^uint32(0)

// NodeType tags entries of ExprList and StmtList.
type NodeType uint8

const (
	// Expressions
	LITERAL NodeType = iota
	BINARY
	UNARY
	GROUPING
	VARIABLE
	FUNCTION_CALL

	// Statements
	IF
	WHILE
	FOR
	BLOCK
	VAR_DECL
	FUNCTION_DECL
	RETURN
	EXPRESSION_STMT

	GENERIC_PARAM
)

type ExprFlags uint8

const (
	EXPR_NONE        ExprFlags = 0
	CONSTANT         ExprFlags = 1 << 0
	PURE             ExprFlags = 1 << 1
	EVALUATED        ExprFlags = 1 << 2
	HAS_SIDE_EFFECTS ExprFlags = 1 << 3
	VARIADIC         ExprFlags = 1 << 4
)

type StmtFlags uint8

const (
	STMT_NONE StmtFlags = 0
	IS_CONST  StmtFlags = 1 << 0
	IS_PUBLIC StmtFlags = 1 << 1
	IS_STATIC StmtFlags = 1 << 2
	IS_ASYNC  StmtFlags = 1 << 3
)

// ExprList stores one logical expression record per id across parallel
// arrays. Kind-specific columns are zero for other kinds, except the
// symbol and nested-generic id columns, which hold NoIndex; every add
// method appends to every column so the arrays stay aligned.
type ExprList struct {
	Types       []NodeType
	Lines       []uint32
	Columns     []uint32
	TypeIndices []uint32 // into TypeList, NoIndex when unresolved
	Flags       []ExprFlags

	// BINARY
	LeftExprIndices  []uint32
	RightExprIndices []uint32
	Operators        []token.TokenType

	// UNARY and GROUPING
	OperandIndices []uint32
	UnaryOperators []token.TokenType

	// LITERAL
	LiteralValues []string

	// VARIABLE and GENERIC_PARAM
	VarNames      []string
	SymbolIndices []uint32

	// FUNCTION_CALL
	CalleeIndices  []uint32
	ArgListStarts  []uint32
	ArgListLengths []uint32
	ArgIndices     []uint32 // flat, shared by all calls

	// GENERIC_PARAM
	NestedGenericIndices []uint32
}

func (el *ExprList) Len() int {
	return len(el.Types)
}

func (el *ExprList) grow(kind NodeType, line, col uint32) uint32 {
	id := uint32(len(el.Types))
	el.Types = append(el.Types, kind)
	el.Lines = append(el.Lines, line)
	el.Columns = append(el.Columns, col)
	el.TypeIndices = append(el.TypeIndices, NoIndex)
	el.Flags = append(el.Flags, EXPR_NONE)
	el.LeftExprIndices = append(el.LeftExprIndices, 0)
	el.RightExprIndices = append(el.RightExprIndices, 0)
	el.Operators = append(el.Operators, 0)
	el.OperandIndices = append(el.OperandIndices, 0)
	el.UnaryOperators = append(el.UnaryOperators, 0)
	el.LiteralValues = append(el.LiteralValues, "")
	el.VarNames = append(el.VarNames, "")
	el.SymbolIndices = append(el.SymbolIndices, NoIndex)
	el.CalleeIndices = append(el.CalleeIndices, 0)
	el.ArgListStarts = append(el.ArgListStarts, 0)
	el.ArgListLengths = append(el.ArgListLengths, 0)
	el.NestedGenericIndices = append(el.NestedGenericIndices, NoIndex)
	return id
}

func (el *ExprList) AddLiteral(value string, line, col uint32) uint32 {
	id := el.grow(LITERAL, line, col)
	el.LiteralValues[id] = value
	el.Flags[id] = CONSTANT | PURE
	return id
}

func (el *ExprList) AddBinary(left uint32, op token.TokenType, right uint32, line, col uint32) uint32 {
	id := el.grow(BINARY, line, col)
	el.LeftExprIndices[id] = left
	el.RightExprIndices[id] = right
	el.Operators[id] = op
	return id
}

func (el *ExprList) AddUnary(op token.TokenType, operand uint32, line, col uint32) uint32 {
	id := el.grow(UNARY, line, col)
	el.UnaryOperators[id] = op
	el.OperandIndices[id] = operand
	return id
}

func (el *ExprList) AddGrouping(inner uint32, line, col uint32) uint32 {
	id := el.grow(GROUPING, line, col)
	el.OperandIndices[id] = inner
	return id
}

func (el *ExprList) AddVariable(name string, symbol uint32, line, col uint32) uint32 {
	id := el.grow(VARIABLE, line, col)
	el.VarNames[id] = name
	el.SymbolIndices[id] = symbol
	return id
}

func (el *ExprList) AddCall(callee uint32, args []uint32, line, col uint32) uint32 {
	id := el.grow(FUNCTION_CALL, line, col)
	el.CalleeIndices[id] = callee
	el.ArgListStarts[id] = uint32(len(el.ArgIndices))
	el.ArgListLengths[id] = uint32(len(args))
	el.ArgIndices = append(el.ArgIndices, args...)
	return id
}

func (el *ExprList) AddGenericParam(name string, symbol uint32, variadic bool, nested uint32, line, col uint32) uint32 {
	id := el.grow(GENERIC_PARAM, line, col)
	el.VarNames[id] = name
	el.SymbolIndices[id] = symbol
	el.NestedGenericIndices[id] = nested
	if variadic {
		el.Flags[id] |= VARIADIC
	}
	return id
}

// Args returns the argument ids of a FUNCTION_CALL expression.
func (el *ExprList) Args(id uint32) []uint32 {
	start := el.ArgListStarts[id]
	return el.ArgIndices[start : start+el.ArgListLengths[id]]
}

// StmtList is the statement counterpart of ExprList.
type StmtList struct {
	Types   []NodeType
	Lines   []uint32
	Columns []uint32
	Flags   []StmtFlags

	// IF
	ConditionIndices []uint32
	ThenStmtIndices  []uint32
	ElseStmtIndices  []uint32

	// BLOCK
	BlockStmtStarts  []uint32
	BlockStmtLengths []uint32
	BlockStmtIndices []uint32 // flat, shared by all blocks
	ScopeLevels      []uint32

	// VAR_DECL
	VarNames           []string
	VarTypeIndices     []uint32
	InitializerIndices []uint32
	SymbolIndices      []uint32

	// RETURN
	ReturnValueIndices []uint32

	// EXPRESSION_STMT
	ExprIndices []uint32

	// FUNCTION_DECL
	FuncNames        []string
	FuncTypeIndices  []uint32
	FuncBodyIndices  []uint32
	ParamListStarts  []uint32
	ParamListLengths []uint32
	ParamIndices     []uint32 // flat, shared by all functions
}

func (sl *StmtList) Len() int {
	return len(sl.Types)
}

func (sl *StmtList) grow(kind NodeType, line, col uint32) uint32 {
	id := uint32(len(sl.Types))
	sl.Types = append(sl.Types, kind)
	sl.Lines = append(sl.Lines, line)
	sl.Columns = append(sl.Columns, col)
	sl.Flags = append(sl.Flags, STMT_NONE)
	sl.ConditionIndices = append(sl.ConditionIndices, 0)
	sl.ThenStmtIndices = append(sl.ThenStmtIndices, 0)
	sl.ElseStmtIndices = append(sl.ElseStmtIndices, NoIndex)
	sl.BlockStmtStarts = append(sl.BlockStmtStarts, 0)
	sl.BlockStmtLengths = append(sl.BlockStmtLengths, 0)
	sl.ScopeLevels = append(sl.ScopeLevels, 0)
	sl.VarNames = append(sl.VarNames, "")
	sl.VarTypeIndices = append(sl.VarTypeIndices, NoIndex)
	sl.InitializerIndices = append(sl.InitializerIndices, 0)
	sl.SymbolIndices = append(sl.SymbolIndices, NoIndex)
	sl.ReturnValueIndices = append(sl.ReturnValueIndices, NoIndex)
	sl.ExprIndices = append(sl.ExprIndices, 0)
	sl.FuncNames = append(sl.FuncNames, "")
	sl.FuncTypeIndices = append(sl.FuncTypeIndices, NoIndex)
	sl.FuncBodyIndices = append(sl.FuncBodyIndices, 0)
	sl.ParamListStarts = append(sl.ParamListStarts, 0)
	sl.ParamListLengths = append(sl.ParamListLengths, 0)
	return id
}

func (sl *StmtList) AddIf(cond, thenStmt, elseStmt uint32, line, col uint32) uint32 {
	id := sl.grow(IF, line, col)
	sl.ConditionIndices[id] = cond
	sl.ThenStmtIndices[id] = thenStmt
	sl.ElseStmtIndices[id] = elseStmt
	return id
}

func (sl *StmtList) AddBlock(stmts []uint32, scope uint32, line, col uint32) uint32 {
	id := sl.grow(BLOCK, line, col)
	sl.BlockStmtStarts[id] = uint32(len(sl.BlockStmtIndices))
	sl.BlockStmtLengths[id] = uint32(len(stmts))
	sl.BlockStmtIndices = append(sl.BlockStmtIndices, stmts...)
	sl.ScopeLevels[id] = scope
	return id
}

func (sl *StmtList) AddVarDecl(name string, typeIdx, initIdx, symbolIdx uint32, flags StmtFlags, line, col uint32) uint32 {
	id := sl.grow(VAR_DECL, line, col)
	sl.VarNames[id] = name
	sl.VarTypeIndices[id] = typeIdx
	sl.InitializerIndices[id] = initIdx
	sl.SymbolIndices[id] = symbolIdx
	sl.Flags[id] = flags
	return id
}

func (sl *StmtList) AddReturn(valueIdx uint32, line, col uint32) uint32 {
	id := sl.grow(RETURN, line, col)
	sl.ReturnValueIndices[id] = valueIdx
	return id
}

func (sl *StmtList) AddExpressionStmt(exprIdx uint32, line, col uint32) uint32 {
	id := sl.grow(EXPRESSION_STMT, line, col)
	sl.ExprIndices[id] = exprIdx
	return id
}

func (sl *StmtList) AddFunction(name string, typeIdx uint32, params []uint32, bodyIdx uint32, line, col uint32) uint32 {
	id := sl.grow(FUNCTION_DECL, line, col)
	sl.FuncNames[id] = name
	sl.FuncTypeIndices[id] = typeIdx
	sl.FuncBodyIndices[id] = bodyIdx
	sl.ParamListStarts[id] = uint32(len(sl.ParamIndices))
	sl.ParamListLengths[id] = uint32(len(params))
	sl.ParamIndices = append(sl.ParamIndices, params...)
	return id
}

// BlockStmts returns the statement ids of a BLOCK statement.
func (sl *StmtList) BlockStmts(id uint32) []uint32 {
	start := sl.BlockStmtStarts[id]
	return sl.BlockStmtIndices[start : start+sl.BlockStmtLengths[id]]
}

// AST owns an expression list, a statement list and the index of the
// root block collecting the top-level statements.
type AST struct {
	Expressions   ExprList
	Statements    StmtList
	RootStmtIndex uint32
}

// AddRootBlock records stmts as the program's top-level block.
func (a *AST) AddRootBlock(stmts []uint32, line, col uint32) uint32 {
	a.RootStmtIndex = a.Statements.AddBlock(stmts, 0, line, col)
	return a.RootStmtIndex
}

// Validate checks cross-reference integrity: every expression and
// statement id stored in an entry refers to an existing entry of its
// list. Symbol and type ids are not checked here.
func (a *AST) Validate() bool {
	ne := uint32(a.Expressions.Len())
	ns := uint32(a.Statements.Len())
	e := &a.Expressions
	s := &a.Statements

	for i := 0; i < e.Len(); i++ {
		switch e.Types[i] {
		case BINARY:
			if e.LeftExprIndices[i] >= ne || e.RightExprIndices[i] >= ne {
				return false
			}
		case UNARY, GROUPING:
			if e.OperandIndices[i] >= ne {
				return false
			}
		case FUNCTION_CALL:
			if e.CalleeIndices[i] >= ne {
				return false
			}
			for _, arg := range e.Args(uint32(i)) {
				if arg >= ne {
					return false
				}
			}
		}
	}

	for i := 0; i < s.Len(); i++ {
		switch s.Types[i] {
		case IF:
			if s.ConditionIndices[i] >= ne || s.ThenStmtIndices[i] >= ns {
				return false
			}
			if s.ElseStmtIndices[i] != NoIndex && s.ElseStmtIndices[i] >= ns {
				return false
			}
		case BLOCK:
			for _, st := range s.BlockStmts(uint32(i)) {
				if st >= ns {
					return false
				}
			}
		case VAR_DECL:
			if s.InitializerIndices[i] >= ne {
				return false
			}
		case RETURN:
			if s.ReturnValueIndices[i] != NoIndex && s.ReturnValueIndices[i] >= ne {
				return false
			}
		case EXPRESSION_STMT:
			if s.ExprIndices[i] >= ne {
				return false
			}
		case FUNCTION_DECL:
			if s.FuncBodyIndices[i] >= ns {
				return false
			}
		}
	}

	return ns == 0 || a.RootStmtIndex < ns
}
