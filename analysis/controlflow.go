package analysis

import "github.com/yu-lang/yuc/ir"

// ValidateControlFlow checks, per function, that the entry block has no
// predecessors, every successor id stays inside the function's block
// range, every block is reachable from entry, and every exit block ends
// in a return or unreachable.
func (a *Analyzer) ValidateControlFlow() bool {
	blocks := &a.ir.Blocks
	funcs := &a.ir.Functions
	inst := &a.ir.Instructions

	for f := uint32(0); f < uint32(funcs.Len()); f++ {
		bbStart := funcs.BBStartIndices[f]
		bbCount := funcs.BBCounts[f]
		if bbCount == 0 {
			continue
		}

		if blocks.PredecessorCounts[bbStart] != 0 {
			return a.fail("Entry block cannot have predecessors")
		}

		for bb := bbStart; bb < bbStart+bbCount; bb++ {
			for _, target := range blocks.SuccessorsOf(bb) {
				if target < bbStart || target >= bbStart+bbCount {
					return a.fail("Invalid branch target block index")
				}
			}
		}

		reachable := make([]bool, bbCount)
		worklist := []uint32{bbStart}
		reachable[0] = true
		for len(worklist) > 0 {
			bb := worklist[0]
			worklist = worklist[1:]
			for _, succ := range blocks.SuccessorsOf(bb) {
				if !reachable[succ-bbStart] {
					reachable[succ-bbStart] = true
					worklist = append(worklist, succ)
				}
			}
		}
		for bb := uint32(0); bb < bbCount; bb++ {
			if !reachable[bb] {
				return a.fail("Unreachable block detected: %d", bbStart+bb)
			}
		}

		for bb := bbStart; bb < bbStart+bbCount; bb++ {
			if blocks.SuccessorCounts[bb] != 0 {
				continue
			}
			count := blocks.InstructionCounts[bb]
			if count == 0 {
				return a.fail("Block must end with return or unreachable")
			}
			last := blocks.StartIndices[bb] + count - 1
			if inst.Ops[last] != ir.FLOW_RETURN && inst.Ops[last] != ir.FLOW_UNREACHABLE {
				return a.fail("Block must end with return or unreachable")
			}
		}
	}

	return true
}
