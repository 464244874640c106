package analysis

import "github.com/yu-lang/yuc/ir"

type regInfo struct {
	typ         ir.Op
	defined     bool
	knownValues []uint32
}

// ValidateType checks per-register type consistency across every
// opcode family. Type markers establish their destination's type;
// arithmetic widens to the wider operand (by enumeration order);
// comparisons produce bool; conversions check and produce the recorded
// destination type (the recorded source type is not compared with the
// operand); loads produce the recorded value type, and stores do not
// compare it with the stored value. Block-id
// operands of control flow and phi are not typed registers and are
// checked for arity only.
func (a *Analyzer) ValidateType() bool {
	inst := &a.ir.Instructions
	funcs := &a.ir.Functions
	blocks := &a.ir.Blocks

	regs := make([]regInfo, inst.Len())
	paramOffset := uint32(0)
	for f := uint32(0); f < uint32(funcs.Len()); f++ {
		for i, pt := range funcs.ParamTypesOf(f) {
			if idx := paramOffset + uint32(i); int(idx) < len(regs) {
				regs[idx] = regInfo{typ: pt, defined: true}
			}
		}
		paramOffset += funcs.ParamCounts[f]
	}

	operand := func(id uint32) (ir.Op, bool) {
		if int(id) >= len(regs) || !regs[id].defined {
			return ir.TYPE_VOID, false
		}
		return regs[id].typ, true
	}

	for f := uint32(0); f < uint32(funcs.Len()); f++ {
		bbStart := funcs.BBStartIndices[f]
		bbEnd := bbStart + funcs.BBCounts[f]
		for bb := bbStart; bb < bbEnd; bb++ {
			instStart := blocks.StartIndices[bb]
			instEnd := instStart + blocks.InstructionCounts[bb]
			for i := instStart; i < instEnd; i++ {
				if !a.checkInstruction(regs, operand, f, i) {
					return false
				}
			}
		}
	}

	return true
}

func (a *Analyzer) checkInstruction(regs []regInfo, operand func(uint32) (ir.Op, bool), f, i uint32) bool {
	inst := &a.ir.Instructions
	op := inst.Ops[i]
	dest := inst.Destinations[i]
	operands := inst.OperandsOf(i)

	if op.IsTypeMarker() {
		regs[dest] = regInfo{typ: op, defined: true, knownValues: a.ir.ImmediateOps[i]}
		return true
	}

	switch op {
	case ir.OP_ADD, ir.OP_SUB, ir.OP_MUL, ir.OP_DIV, ir.OP_MOD:
		if len(operands) != 2 {
			return a.fail("Invalid operand count for arithmetic operation")
		}
		lt, lok := operand(operands[0])
		rt, rok := operand(operands[1])
		if !lok || !rok {
			return a.fail("Use of undefined register")
		}
		if !lt.IsIntegerType() || !rt.IsIntegerType() {
			return a.fail("Integer type required for arithmetic operation")
		}
		regs[dest] = regInfo{typ: maxOp(lt, rt), defined: true}

	case ir.OP_FADD, ir.OP_FSUB, ir.OP_FMUL, ir.OP_FDIV:
		if len(operands) != 2 {
			return a.fail("Invalid operand count for floating-point operation")
		}
		lt, lok := operand(operands[0])
		rt, rok := operand(operands[1])
		if !lok || !rok {
			return a.fail("Use of undefined register")
		}
		if !lt.IsFloatType() || !rt.IsFloatType() {
			return a.fail("Float type required for floating-point operation")
		}
		regs[dest] = regInfo{typ: maxOp(lt, rt), defined: true}

	case ir.OP_AND, ir.OP_OR, ir.OP_XOR:
		if len(operands) != 2 {
			return a.fail("Invalid operand count for bitwise operation")
		}
		lt, lok := operand(operands[0])
		rt, rok := operand(operands[1])
		if !lok || !rok {
			return a.fail("Use of undefined register")
		}
		if !lt.IsIntegerType() || !rt.IsIntegerType() {
			return a.fail("Integer type required for bitwise operation")
		}
		regs[dest] = regInfo{typ: maxOp(lt, rt), defined: true}

	case ir.OP_NOT:
		if len(operands) != 1 {
			return a.fail("Invalid operand count for NOT operation")
		}
		t, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if !t.IsIntegerType() {
			return a.fail("Integer type required for NOT operation")
		}
		regs[dest] = regInfo{typ: t, defined: true}

	case ir.OP_EQ, ir.OP_NE, ir.OP_LT, ir.OP_LE, ir.OP_GT, ir.OP_GE:
		if len(operands) != 2 {
			return a.fail("Invalid operand count for comparison")
		}
		lt, lok := operand(operands[0])
		rt, rok := operand(operands[1])
		if !lok || !rok {
			return a.fail("Use of undefined register")
		}
		if !lt.IsIntegerType() || !rt.IsIntegerType() {
			return a.fail("Integer type required for comparison")
		}
		regs[dest] = regInfo{typ: ir.TYPE_BOOL, defined: true}

	case ir.OP_FEQ, ir.OP_FNE, ir.OP_FLT, ir.OP_FLE, ir.OP_FGT, ir.OP_FGE:
		if len(operands) != 2 {
			return a.fail("Invalid operand count for comparison")
		}
		lt, lok := operand(operands[0])
		rt, rok := operand(operands[1])
		if !lok || !rok {
			return a.fail("Use of undefined register")
		}
		if !lt.IsFloatType() || !rt.IsFloatType() {
			return a.fail("Float type required for comparison")
		}
		regs[dest] = regInfo{typ: ir.TYPE_BOOL, defined: true}

	case ir.FLOW_BRANCH:
		if len(operands) != 3 {
			return a.fail("Branch requires condition and two target blocks")
		}
		ct, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if ct != ir.TYPE_BOOL {
			return a.fail("Branch condition must be boolean")
		}

	case ir.FLOW_JUMP:
		if len(operands) != 1 {
			return a.fail("Jump requires exactly one target block")
		}

	case ir.FLOW_RETURN:
		ret := a.ir.Functions.ReturnTypes[f]
		if len(operands) == 0 {
			if ret != ir.TYPE_VOID {
				return a.fail("Missing return value")
			}
			return true
		}
		t, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if t != ret {
			return a.fail("Return type mismatch")
		}

	case ir.SSA_PHI:
		if len(operands) < 2 || len(operands)%2 != 0 {
			return a.fail("Invalid PHI node operand count")
		}
		phiType, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		for k := 2; k < len(operands); k += 2 {
			t, ok := operand(operands[k])
			if !ok {
				return a.fail("Use of undefined register")
			}
			if t != phiType {
				return a.fail("Inconsistent types in PHI node")
			}
		}
		regs[dest] = regInfo{typ: phiType, defined: true}

	case ir.MEM_LOAD:
		if len(operands) != 1 {
			return a.fail("Load requires exactly one pointer operand")
		}
		t, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if !t.IsPointerType() {
			return a.fail("Load requires pointer operand")
		}
		// Placeholder until a richer pointer type model exists: the
		// recorded value type, or void.
		pointee := ir.TYPE_VOID
		if types := inst.OperandTypesOf(i); len(types) == 1 {
			pointee = types[0]
		}
		regs[dest] = regInfo{typ: pointee, defined: true}

	case ir.MEM_STORE:
		if len(operands) != 2 {
			return a.fail("Store requires pointer and value operands")
		}
		pt, pok := operand(operands[0])
		if _, vok := operand(operands[1]); !pok || !vok {
			return a.fail("Use of undefined register")
		}
		if !pt.IsPointerType() {
			return a.fail("Store first operand must be pointer")
		}

	case ir.CONV_ZEXT, ir.CONV_SEXT:
		if len(operands) != 1 {
			return a.fail("Extension requires one operand")
		}
		src, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if !src.IsIntegerType() {
			return a.fail("Extension requires integer operand")
		}
		to := conversionTarget(inst, i)
		if !to.IsIntegerType() || to.TypeSize() <= src.TypeSize() {
			return a.fail("Extension target type must be wider")
		}
		regs[dest] = regInfo{typ: to, defined: true}

	case ir.CONV_TRUNC:
		if len(operands) != 1 {
			return a.fail("Truncation requires one operand")
		}
		src, ok := operand(operands[0])
		if !ok {
			return a.fail("Use of undefined register")
		}
		if !src.IsIntegerType() {
			return a.fail("Truncation requires integer operand")
		}
		to := conversionTarget(inst, i)
		if !to.IsIntegerType() || to.TypeSize() >= src.TypeSize() {
			return a.fail("Truncation target type must be narrower")
		}
		regs[dest] = regInfo{typ: to, defined: true}

	default:
		return a.fail("Unknown operation type: %d", op)
	}

	return true
}

func conversionTarget(inst *ir.InstructionList, i uint32) ir.Op {
	if types := inst.OperandTypesOf(i); len(types) == 2 {
		return types[1]
	}
	return ir.TYPE_VOID
}

func maxOp(a, b ir.Op) ir.Op {
	if a > b {
		return a
	}
	return b
}
