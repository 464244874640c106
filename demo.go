package main

import "github.com/yu-lang/yuc/ir"

// buildDemoIR assembles the self-test functions the driver can
// validate and dump without any source input: straight-line integer
// arithmetic and a diamond with a phi join.
func buildDemoIR() *ir.IR {
	b := ir.NewBuilder(64)

	b.CreateFunction("arithmetic_test", nil, ir.TYPE_I32)
	b.CreateBB()
	c10 := b.AddInstruction(ir.TYPE_I32, 10)
	c5 := b.AddInstruction(ir.TYPE_I32, 5)
	c2 := b.AddInstruction(ir.TYPE_I32, 2)
	b.AddInstruction(ir.OP_ADD, c10, c5)
	b.AddInstruction(ir.OP_SUB, c10, c5)
	b.AddInstruction(ir.OP_MUL, c10, c2)
	quot := b.AddInstruction(ir.OP_DIV, c10, c2)
	b.AddInstruction(ir.FLOW_RETURN, quot)

	b.CreateFunction("control_flow_test", nil, ir.TYPE_I32)
	entry := b.CreateBB()
	a := b.AddInstruction(ir.TYPE_I32, 5)
	c := b.AddInstruction(ir.TYPE_I32, 10)
	cond := b.AddInstruction(ir.OP_LT, a, c)
	thenBB := b.CreateBB()
	elseBB := b.CreateBB()
	mergeBB := b.CreateBB()

	b.SetCurrentBB(entry)
	b.AddInstruction(ir.FLOW_BRANCH, cond, thenBB, elseBB)

	b.SetCurrentBB(thenBB)
	v1 := b.AddInstruction(ir.TYPE_I32, 42)
	b.AddInstruction(ir.FLOW_JUMP, mergeBB)

	b.SetCurrentBB(elseBB)
	v2 := b.AddInstruction(ir.TYPE_I32, 24)
	b.AddInstruction(ir.FLOW_JUMP, mergeBB)

	b.SetCurrentBB(mergeBB)
	phi := b.AddInstruction(ir.SSA_PHI, v1, thenBB, v2, elseBB)
	b.AddInstruction(ir.FLOW_RETURN, phi)

	return b.Seal()
}
