package ast

// SymbolFlags describe what a symbol names.
type SymbolFlags uint8

const (
	SYM_NONE             SymbolFlags = 0
	IS_TYPE              SymbolFlags = 1 << 0
	SYM_CONST            SymbolFlags = 1 << 1
	IS_FUNCTION          SymbolFlags = 1 << 2
	IS_GENERIC_PARAM     SymbolFlags = 1 << 3
	IS_VARIADIC          SymbolFlags = 1 << 4
	HAS_VARIADIC_GENERIC SymbolFlags = 1 << 5
	IS_ENUM              SymbolFlags = 1 << 6
	IS_ENUM_MEMBER       SymbolFlags = 1 << 7
)

// SymbolList is an append-only scoped symbol table. Symbols are never
// deleted; shadowing falls out of the back-to-front lookup order.
type SymbolList struct {
	Names       []string
	TypeIndices []uint32 // into TypeList, NoIndex when unresolved
	Scopes      []uint32
	Flags       []SymbolFlags
}

func (sl *SymbolList) Len() int {
	return len(sl.Names)
}

func (sl *SymbolList) Add(name string, typeIndex, scope uint32, flags SymbolFlags) uint32 {
	id := uint32(len(sl.Names))
	sl.Names = append(sl.Names, name)
	sl.TypeIndices = append(sl.TypeIndices, typeIndex)
	sl.Scopes = append(sl.Scopes, scope)
	sl.Flags = append(sl.Flags, flags)
	return id
}

// Lookup scans from the highest id down and returns the first symbol
// whose name matches and whose scope is visible from currentScope, or
// NoIndex. Inner scopes shadow outer ones by construction.
func (sl *SymbolList) Lookup(name string, currentScope uint32) uint32 {
	for i := len(sl.Names) - 1; i >= 0; i-- {
		if sl.Names[i] == name && sl.Scopes[i] <= currentScope {
			return uint32(i)
		}
	}
	return NoIndex
}

// TypeList records every type expression the parser sees. Entries are
// appended, never deduplicated; all columns are parallel to Names.
type TypeList struct {
	Names []string

	// Generic head: child type ids in GenericParams.
	GenericStarts []uint32
	GenericCounts []uint32
	GenericParams []uint32 // flat, shared

	// Function shape: parameter type ids in FunctionParams.
	FunctionParamStarts []uint32
	FunctionParamCounts []uint32
	FunctionParams      []uint32 // flat, shared
	FunctionReturnTypes []uint32 // NoIndex for non-function types
}

func (tl *TypeList) Len() int {
	return len(tl.Names)
}

func (tl *TypeList) grow(name string) uint32 {
	id := uint32(len(tl.Names))
	tl.Names = append(tl.Names, name)
	tl.GenericStarts = append(tl.GenericStarts, 0)
	tl.GenericCounts = append(tl.GenericCounts, 0)
	tl.FunctionParamStarts = append(tl.FunctionParamStarts, 0)
	tl.FunctionParamCounts = append(tl.FunctionParamCounts, 0)
	tl.FunctionReturnTypes = append(tl.FunctionReturnTypes, NoIndex)
	return id
}

// Add appends a plain named type.
func (tl *TypeList) Add(name string) uint32 {
	return tl.grow(name)
}

// AddGeneric appends a named type carrying a generic argument list of
// child type ids.
func (tl *TypeList) AddGeneric(name string, args []uint32) uint32 {
	id := tl.grow(name)
	tl.GenericStarts[id] = uint32(len(tl.GenericParams))
	tl.GenericCounts[id] = uint32(len(args))
	tl.GenericParams = append(tl.GenericParams, args...)
	return id
}

// AddFunction appends a function-shaped type.
func (tl *TypeList) AddFunction(paramTypes []uint32, returnType uint32) uint32 {
	id := tl.grow("function")
	tl.FunctionParamStarts[id] = uint32(len(tl.FunctionParams))
	tl.FunctionParamCounts[id] = uint32(len(paramTypes))
	tl.FunctionParams = append(tl.FunctionParams, paramTypes...)
	tl.FunctionReturnTypes[id] = returnType
	return id
}

// GenericArgs returns the child type ids of a generic-headed type.
func (tl *TypeList) GenericArgs(id uint32) []uint32 {
	start := tl.GenericStarts[id]
	return tl.GenericParams[start : start+tl.GenericCounts[id]]
}

// ParamTypes returns the parameter type ids of a function type.
func (tl *TypeList) ParamTypes(id uint32) []uint32 {
	start := tl.FunctionParamStarts[id]
	return tl.FunctionParams[start : start+tl.FunctionParamCounts[id]]
}

// VarDeclList is the flat record of top-level and local variable
// declarations, observable after parsing.
type VarDeclList struct {
	Names       []string
	TypeIndices []uint32
	InitIndices []uint32
	Flags       []StmtFlags
	Lines       []uint32
	Columns     []uint32
}

func (vl *VarDeclList) Len() int {
	return len(vl.Names)
}

func (vl *VarDeclList) Add(name string, typeIndex, initIndex uint32, flags StmtFlags, line, col uint32) uint32 {
	id := uint32(len(vl.Names))
	vl.Names = append(vl.Names, name)
	vl.TypeIndices = append(vl.TypeIndices, typeIndex)
	vl.InitIndices = append(vl.InitIndices, initIndex)
	vl.Flags = append(vl.Flags, flags)
	vl.Lines = append(vl.Lines, line)
	vl.Columns = append(vl.Columns, col)
	return id
}
