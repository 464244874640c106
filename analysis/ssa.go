package analysis

import "github.com/yu-lang/yuc/ir"

// ValidateSSA checks the single-definition property: every register
// referenced as an operand was defined by an earlier instruction
// (parameter registers pre-defined), no destination is defined twice,
// and phi operand values are either globally defined (a parameter,
// type marker or immediate) or defined in their incoming predecessor
// block.
func (a *Analyzer) ValidateSSA() bool {
	inst := &a.ir.Instructions
	funcs := &a.ir.Functions

	isImmediate := func(i uint32) bool {
		return inst.Ops[i].IsTypeMarker() || len(a.ir.ImmediateOps[i]) > 0
	}

	// Globally defined registers: parameters plus every type-marker or
	// immediate destination, wherever it appears.
	globallyDefined := make([]bool, inst.Len())
	for i := 0; i < len(funcs.ParamTypes) && i < len(globallyDefined); i++ {
		globallyDefined[i] = true
	}
	for i := uint32(0); i < uint32(inst.Len()); i++ {
		if isImmediate(i) {
			dest := inst.Destinations[i]
			if int(dest) < len(globallyDefined) {
				globallyDefined[dest] = true
			}
		}
	}

	defined := make([]bool, inst.Len())
	for i := 0; i < len(funcs.ParamTypes) && i < len(defined); i++ {
		defined[i] = true
	}
	bbDefs := make(map[uint32]map[uint32]struct{})

	for i := uint32(0); i < uint32(inst.Len()); i++ {
		dest := inst.Destinations[i]
		if int(dest) >= len(defined) {
			return a.fail("SSA violation: destination %d out of range", dest)
		}

		if isImmediate(i) {
			if defined[dest] {
				return a.fail("SSA violation: multiple definitions of %d", dest)
			}
			defined[dest] = true
			continue
		}

		operands := inst.OperandsOf(i)
		if inst.Ops[i] == ir.SSA_PHI {
			for k := 0; k+1 < len(operands); k += 2 {
				value := operands[k]
				pred := operands[k+1]
				if int(value) < len(globallyDefined) && globallyDefined[value] {
					continue
				}
				if _, ok := bbDefs[pred][value]; ok {
					continue
				}
				return a.fail("SSA violation: PHI node uses undefined value %d from block %d", value, pred)
			}
		} else {
			for _, operand := range operands {
				if int(operand) >= len(defined) || !defined[operand] {
					return a.fail("SSA violation: use of undefined value %d in instruction %d", operand, i)
				}
			}
		}

		if defined[dest] {
			return a.fail("SSA violation: multiple definitions of %d in instruction %d", dest, i)
		}
		defined[dest] = true

		bb := inst.BBIndices[i]
		if bbDefs[bb] == nil {
			bbDefs[bb] = make(map[uint32]struct{})
		}
		bbDefs[bb][dest] = struct{}{}
	}

	return true
}
