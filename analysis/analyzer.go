// Package analysis validates a sealed IR: SSA single definition, type
// consistency per opcode family, and control-flow well-formedness. It
// never mutates the IR; each validator reports independently and writes
// a one-line cause to the diagnostic sink on failure.
package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/yu-lang/yuc/ir"
)

// Analyzer borrows a sealed IR for the duration of the analysis calls.
type Analyzer struct {
	ir   *ir.IR
	sink io.Writer
}

// New returns an analyzer reporting causes to standard output.
func New(irv *ir.IR) *Analyzer {
	return &Analyzer{ir: irv, sink: os.Stdout}
}

// NewWithSink returns an analyzer reporting causes to sink.
func NewWithSink(irv *ir.IR, sink io.Writer) *Analyzer {
	return &Analyzer{ir: irv, sink: sink}
}

func (a *Analyzer) fail(format string, args ...any) bool {
	fmt.Fprintf(a.sink, format+"\n", args...)
	return false
}

// DominatorInfo is the result shape of dominator analysis.
type DominatorInfo struct {
	IdomIndices     []uint32 // immediate dominator per block
	DominatorCounts []uint32
	Dominators      []uint32 // flat array of dominators
}

// LivenessInfo is the result shape of liveness analysis.
type LivenessInfo struct {
	DefPoints     []uint32
	UsePoints     []uint32
	LiveInCounts  []uint32
	LiveIn        []uint32
	LiveOutCounts []uint32
	LiveOut       []uint32
}

// LoopInfo is the result shape of natural-loop detection.
type LoopInfo struct {
	HeaderIndices []uint32
	LoopDepths    []uint32
	BlockCounts   []uint32
	Blocks        []uint32
}

// AnalyzeDominator returns the dominator data shape for a function.
// The computation is reserved for a future revision; the containers
// come back well-typed and empty.
func (a *Analyzer) AnalyzeDominator(function uint32) DominatorInfo {
	return DominatorInfo{}
}

// AnalyzeLiveness returns the liveness data shape for a function.
// Computation reserved; see AnalyzeDominator.
func (a *Analyzer) AnalyzeLiveness(function uint32) LivenessInfo {
	return LivenessInfo{}
}

// AnalyzeLoop returns the loop data shape for a function. Computation
// reserved; see AnalyzeDominator.
func (a *Analyzer) AnalyzeLoop(function uint32) LoopInfo {
	return LoopInfo{}
}

// Validate runs all three validators and reports the conjunction.
func (a *Analyzer) Validate() bool {
	ssa := a.ValidateSSA()
	types := a.ValidateType()
	flow := a.ValidateControlFlow()
	return ssa && types && flow
}
