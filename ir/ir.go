package ir

// NoId is the sentinel for "no current function/block".
const NoId = ^uint32(0)

// InstructionList stores instructions as parallel arrays. An
// instruction's destination register id equals its own index, making
// registers single-assignment by construction. Operand slices live in
// the shared Operands array addressed by start+count; the OperandTypes
// tail carries the extra types recorded by conversions and memory
// operations.
type InstructionList struct {
	Ops           []Op
	Destinations  []uint32
	OperandStarts []uint32
	OperandCounts []uint32
	Operands      []uint32

	OperandTypeStarts []uint32
	OperandTypeCounts []uint32
	OperandTypes      []Op

	BBIndices []uint32
}

func (il *InstructionList) Len() int {
	return len(il.Ops)
}

// OperandsOf returns instruction i's operand slice.
func (il *InstructionList) OperandsOf(i uint32) []uint32 {
	start := il.OperandStarts[i]
	return il.Operands[start : start+il.OperandCounts[i]]
}

// OperandTypesOf returns the types recorded for instruction i by
// AddConversion (from, to) or AddMemoryOp (value type); empty for
// plain instructions.
func (il *InstructionList) OperandTypesOf(i uint32) []Op {
	start := il.OperandTypeStarts[i]
	return il.OperandTypes[start : start+il.OperandTypeCounts[i]]
}

// BasicBlockList stores per-block instruction ranges and the flattened
// successor/predecessor edge arrays. Blocks are contiguous: a block's
// instructions are [StartIndices[b], StartIndices[b]+InstructionCounts[b]).
type BasicBlockList struct {
	StartIndices      []uint32
	InstructionCounts []uint32

	SuccessorStarts []uint32
	SuccessorCounts []uint32
	Successors      []uint32

	PredecessorStarts []uint32
	PredecessorCounts []uint32
	Predecessors      []uint32
}

func (bl *BasicBlockList) Len() int {
	return len(bl.StartIndices)
}

func (bl *BasicBlockList) SuccessorsOf(b uint32) []uint32 {
	start := bl.SuccessorStarts[b]
	return bl.Successors[start : start+bl.SuccessorCounts[b]]
}

func (bl *BasicBlockList) PredecessorsOf(b uint32) []uint32 {
	start := bl.PredecessorStarts[b]
	return bl.Predecessors[start : start+bl.PredecessorCounts[b]]
}

// FunctionList stores per-function block ranges, parameter types and
// names. A function's parameter registers are the first ParamCounts[i]
// registers visible at entry.
type FunctionList struct {
	BBStartIndices []uint32
	BBCounts       []uint32
	ParamStarts    []uint32
	ParamCounts    []uint32
	ParamTypes     []Op
	ReturnTypes    []Op
	Names          []string
}

func (fl *FunctionList) Len() int {
	return len(fl.Names)
}

// ParamTypesOf returns function f's parameter types.
func (fl *FunctionList) ParamTypesOf(f uint32) []Op {
	start := fl.ParamStarts[f]
	return fl.ParamTypes[start : start+fl.ParamCounts[f]]
}

// IR is the sealed, immutable snapshot a Builder produces. The
// analyzer borrows it and never mutates it.
type IR struct {
	Instructions InstructionList
	Blocks       BasicBlockList
	Functions    FunctionList

	// ImmediateOps holds, per instruction, the literal operand bits of
	// type-marker instructions; nil for all other opcodes.
	ImmediateOps [][]uint32
}
