package ir

// Builder constructs functions, blocks and instructions append-only.
// It passes through a sealed/unsealed lifecycle: mutations are allowed
// until Seal, which returns the immutable IR; mutating a sealed builder
// is a contract violation and panics. A Builder is single-threaded.
type Builder struct {
	sealed          bool
	currentFunction uint32
	currentBB       uint32

	instructions InstructionList
	blocks       BasicBlockList
	functions    FunctionList
	immediates   [][]uint32

	// Edges recorded as terminators are appended; flattened at Seal.
	edges []edge
}

type edge struct {
	from uint32
	to   uint32
}

// NewBuilder returns a builder pre-sized for roughly capacity
// instructions.
func NewBuilder(capacity int) *Builder {
	b := &Builder{
		currentFunction: NoId,
		currentBB:       NoId,
	}
	b.instructions.Ops = make([]Op, 0, capacity)
	b.instructions.Destinations = make([]uint32, 0, capacity)
	b.instructions.OperandStarts = make([]uint32, 0, capacity)
	b.instructions.OperandCounts = make([]uint32, 0, capacity)
	b.instructions.Operands = make([]uint32, 0, capacity*2)
	b.instructions.OperandTypeStarts = make([]uint32, 0, capacity)
	b.instructions.OperandTypeCounts = make([]uint32, 0, capacity)
	b.instructions.BBIndices = make([]uint32, 0, capacity)
	b.immediates = make([][]uint32, 0, capacity)
	return b
}

func (b *Builder) mustBuild() {
	if b.sealed {
		panic("ir: builder is sealed")
	}
}

func (b *Builder) mustFunction() {
	if b.currentFunction == NoId {
		panic("ir: no current function")
	}
}

func (b *Builder) mustBlock() {
	if b.currentBB == NoId {
		panic("ir: no current basic block")
	}
}

// IsSealed reports whether Seal has been called.
func (b *Builder) IsSealed() bool {
	return b.sealed
}

// CreateFunction starts a new function and makes it current. The next
// CreateBB call opens its entry block.
func (b *Builder) CreateFunction(name string, paramTypes []Op, returnType Op) uint32 {
	b.mustBuild()

	funcIndex := uint32(len(b.functions.Names))
	b.functions.BBStartIndices = append(b.functions.BBStartIndices, uint32(b.blocks.Len()))
	b.functions.BBCounts = append(b.functions.BBCounts, 0)
	b.functions.ParamStarts = append(b.functions.ParamStarts, uint32(len(b.functions.ParamTypes)))
	b.functions.ParamCounts = append(b.functions.ParamCounts, uint32(len(paramTypes)))
	b.functions.ParamTypes = append(b.functions.ParamTypes, paramTypes...)
	b.functions.ReturnTypes = append(b.functions.ReturnTypes, returnType)
	b.functions.Names = append(b.functions.Names, name)

	b.currentFunction = funcIndex
	b.currentBB = NoId
	return funcIndex
}

// CreateBB opens a new basic block in the current function and makes
// it the write cursor.
func (b *Builder) CreateBB() uint32 {
	b.mustBuild()
	b.mustFunction()

	bbIndex := uint32(b.blocks.Len())
	b.blocks.StartIndices = append(b.blocks.StartIndices, uint32(b.instructions.Len()))
	b.blocks.InstructionCounts = append(b.blocks.InstructionCounts, 0)
	b.functions.BBCounts[b.currentFunction]++

	b.currentBB = bbIndex
	return bbIndex
}

// SetCurrentBB moves the write cursor to an existing block, for
// out-of-order emission such as creating successor blocks before the
// entry branch.
func (b *Builder) SetCurrentBB(bbIndex uint32) {
	b.mustBuild()
	if bbIndex >= uint32(b.blocks.Len()) {
		panic("ir: SetCurrentBB out of range")
	}
	b.currentBB = bbIndex
}

// AddInstruction appends an instruction to the current block and
// returns its destination register id (= its index). For type-marker
// opcodes the operands are the literal value's bits and are mirrored
// into the immediate list.
func (b *Builder) AddInstruction(op Op, operands ...uint32) uint32 {
	b.mustBuild()
	b.mustFunction()
	b.mustBlock()

	dest := uint32(b.instructions.Len())
	b.instructions.Ops = append(b.instructions.Ops, op)
	b.instructions.Destinations = append(b.instructions.Destinations, dest)
	b.instructions.OperandStarts = append(b.instructions.OperandStarts, uint32(len(b.instructions.Operands)))
	b.instructions.OperandCounts = append(b.instructions.OperandCounts, uint32(len(operands)))
	b.instructions.Operands = append(b.instructions.Operands, operands...)
	b.instructions.OperandTypeStarts = append(b.instructions.OperandTypeStarts, uint32(len(b.instructions.OperandTypes)))
	b.instructions.OperandTypeCounts = append(b.instructions.OperandTypeCounts, 0)
	b.instructions.BBIndices = append(b.instructions.BBIndices, b.currentBB)

	if op.IsTypeMarker() {
		imm := make([]uint32, len(operands))
		copy(imm, operands)
		b.immediates = append(b.immediates, imm)
	} else {
		b.immediates = append(b.immediates, nil)
	}

	b.blocks.InstructionCounts[b.currentBB]++

	switch op {
	case FLOW_JUMP:
		if len(operands) >= 1 {
			b.edges = append(b.edges, edge{b.currentBB, operands[0]})
		}
	case FLOW_BRANCH:
		if len(operands) >= 3 {
			b.edges = append(b.edges, edge{b.currentBB, operands[1]})
			b.edges = append(b.edges, edge{b.currentBB, operands[2]})
		}
	}

	return dest
}

// AddConversion appends a conversion instruction, recording the source
// and destination types in the operand-type tail.
func (b *Builder) AddConversion(op Op, operands []uint32, fromType, toType Op) uint32 {
	dest := b.AddInstruction(op, operands...)
	b.instructions.OperandTypes = append(b.instructions.OperandTypes, fromType, toType)
	b.instructions.OperandTypeCounts[dest] = 2
	return dest
}

// AddMemoryOp appends a memory instruction, recording the value type
// in the operand-type tail.
func (b *Builder) AddMemoryOp(op Op, operands []uint32, valueType Op) uint32 {
	dest := b.AddInstruction(op, operands...)
	b.instructions.OperandTypes = append(b.instructions.OperandTypes, valueType)
	b.instructions.OperandTypeCounts[dest] = 1
	return dest
}

// Seal freezes the builder and returns the immutable IR. The block
// instruction ranges and flat successor/predecessor arrays are
// computed here; after Seal returns, the IR may be read without
// further synchronization.
func (b *Builder) Seal() *IR {
	b.mustBuild()
	b.sealed = true

	n := b.blocks.Len()

	// Out-of-order emission (SetCurrentBB) invalidates the start
	// indices recorded at CreateBB time; recompute the ranges from the
	// per-instruction block ids. Blocks must be contiguous.
	starts := make([]uint32, n)
	counts := make([]uint32, n)
	seen := make([]bool, n)
	for i := uint32(0); i < uint32(b.instructions.Len()); i++ {
		bb := b.instructions.BBIndices[i]
		if !seen[bb] {
			starts[bb] = i
			seen[bb] = true
		} else if starts[bb]+counts[bb] != i {
			panic("ir: basic block instructions are not contiguous")
		}
		counts[bb]++
	}
	cursor := uint32(0)
	for i := 0; i < n; i++ {
		if seen[i] {
			cursor = starts[i] + counts[i]
		} else {
			starts[i] = cursor
		}
	}
	b.blocks.StartIndices = starts
	b.blocks.InstructionCounts = counts
	succLists := make([][]uint32, n)
	predLists := make([][]uint32, n)
	for _, e := range b.edges {
		if int(e.from) < n {
			succLists[e.from] = append(succLists[e.from], e.to)
		}
		if int(e.to) < n {
			predLists[e.to] = append(predLists[e.to], e.from)
		}
	}

	b.blocks.SuccessorStarts = make([]uint32, n)
	b.blocks.SuccessorCounts = make([]uint32, n)
	b.blocks.PredecessorStarts = make([]uint32, n)
	b.blocks.PredecessorCounts = make([]uint32, n)
	for i := 0; i < n; i++ {
		b.blocks.SuccessorStarts[i] = uint32(len(b.blocks.Successors))
		b.blocks.SuccessorCounts[i] = uint32(len(succLists[i]))
		b.blocks.Successors = append(b.blocks.Successors, succLists[i]...)

		b.blocks.PredecessorStarts[i] = uint32(len(b.blocks.Predecessors))
		b.blocks.PredecessorCounts[i] = uint32(len(predLists[i]))
		b.blocks.Predecessors = append(b.blocks.Predecessors, predLists[i]...)
	}

	return &IR{
		Instructions: b.instructions,
		Blocks:       b.blocks,
		Functions:    b.functions,
		ImmediateOps: b.immediates,
	}
}
