package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yu-lang/yuc/ir"
)

func buildAddFunction() *ir.IR {
	b := ir.NewBuilder(8)
	b.CreateFunction("sum", nil, ir.TYPE_I32)
	b.CreateBB()
	x := b.AddInstruction(ir.TYPE_I32, 2)
	y := b.AddInstruction(ir.TYPE_I32, 3)
	sum := b.AddInstruction(ir.OP_ADD, x, y)
	b.AddInstruction(ir.FLOW_RETURN, sum)
	return b.Seal()
}

func TestGenerateAddFunction(t *testing.T) {
	g := NewX86Generator(buildAddFunction())
	code, err := g.Generate()
	require.NoError(t, err)

	expected := []byte{
		0x55, 0x48, 0x89, 0xe5, // push rbp; mov rbp, rsp
		0x48, 0xc7, 0xc1, 0x02, 0x00, 0x00, 0x00, // mov rcx, 2
		0x48, 0xc7, 0xc2, 0x03, 0x00, 0x00, 0x00, // mov rdx, 3
		0x48, 0x89, 0xcb, // mov rbx, rcx
		0x48, 0x01, 0xd3, // add rbx, rdx
		0x48, 0x89, 0xd8, // mov rax, rbx
		0xc9, 0xc3, // leave; ret
	}
	assert.Equal(t, expected, code)
}

func TestPrologueAndEpilogue(t *testing.T) {
	g := NewX86Generator(buildAddFunction())
	code, err := g.Generate()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(code), 6)
	assert.Equal(t, []byte{0x55, 0x48, 0x89, 0xe5}, code[:4])
	assert.Equal(t, []byte{0xc9, 0xc3}, code[len(code)-2:])
}

func TestSystemRegistersReserved(t *testing.T) {
	g := NewX86Generator(buildAddFunction())
	_, err := g.Generate()
	require.NoError(t, err)

	for _, reg := range g.registerMapping {
		if reg == noReg {
			continue
		}
		assert.NotEqual(t, uint32(regRAX), reg)
		assert.NotEqual(t, uint32(regRSP), reg)
		assert.NotEqual(t, uint32(regRBP), reg)
	}
}

func TestUnsupportedOpcode(t *testing.T) {
	b := ir.NewBuilder(8)
	b.CreateFunction("f", nil, ir.TYPE_I32)
	b.CreateBB()
	x := b.AddInstruction(ir.TYPE_I32, 2)
	diff := b.AddInstruction(ir.OP_SUB, x, x)
	b.AddInstruction(ir.FLOW_RETURN, diff)

	g := NewX86Generator(b.Seal())
	_, err := g.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported instruction")
}

func TestRegisterExhaustion(t *testing.T) {
	b := ir.NewBuilder(32)
	b.CreateFunction("f", nil, ir.TYPE_I32)
	b.CreateBB()
	for i := 0; i < 20; i++ {
		b.AddInstruction(ir.TYPE_I32, uint32(i))
	}
	b.AddInstruction(ir.FLOW_RETURN, 0)

	g := NewX86Generator(b.Seal())
	_, err := g.Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no registers available")
}
