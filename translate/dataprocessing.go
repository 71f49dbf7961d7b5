package translate

import (
	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/decode"
	"github.com/sarchlab/armjit/ir"
)

// flagOnly reports whether a data-processing opcode never writes Rd (TST,
// TEQ, CMP, CMN — the comparison forms that only update flags).
func flagOnly(op decode.DPOp) bool {
	switch op {
	case decode.DPTst, decode.DPTeq, decode.DPCmp, decode.DPCmn:
		return true
	default:
		return false
	}
}

// VisitDataProcessingImm emits IR for a data-processing instruction using
// the _imm addressing mode, shared across the twelve arithmetic/logical
// ops and their four flag-only siblings so the ADD_imm contract does not
// need duplicating twelve times per addressing mode.
func (t *Translator) VisitDataProcessingImm(dp decode.DataProcessing) {
	if !dp.SetFlags && flagOnly(dp.Op) {
		t.FallbackToInterpreter()
		return
	}

	// Read Rn before materialising the immediate so the block's values
	// follow operand order: GetGPR(Rn), ConstU32(imm), then the operation.
	if dp.Rn != cpu.PC {
		t.GetReg(dp.Rn)
	}
	op2 := t.builder.Const(ArmExpandImm(dp.Imm8, dp.Rotate))
	t.emitDataProcessing(dp, op2)
}

// VisitDataProcessingReg emits IR for the plain-shift register addressing
// mode. Only the shift-by-immediate case is folded into SSA; anything
// requiring a runtime-computed shift amount falls back.
func (t *Translator) VisitDataProcessingReg(dp decode.DataProcessing) {
	rm := t.GetReg(dp.Rm)
	shifted := t.applyShiftImm(rm, dp.Shift, dp.ShiftImm)
	t.emitDataProcessing(dp, shifted)
}

// VisitDataProcessingRSR (register-shifted-register addressing mode) is not
// folded into SSA in this build; the shift amount is only known at guest
// runtime, which the translator does not special-case.
func (t *Translator) VisitDataProcessingRSR(dp decode.DataProcessing) {
	t.FallbackToInterpreter()
}

func (t *Translator) applyShiftImm(value ir.ValueID, shift decode.ShiftType, amount uint32) ir.ValueID {
	if amount == 0 && shift == decode.ShiftLSL {
		return value
	}
	amt := t.builder.Const(amount)
	switch shift {
	case decode.ShiftLSL:
		return t.builder.Inst(ir.OpLogicalShiftLeft, []ir.ValueID{value, amt})
	case decode.ShiftLSR:
		return t.builder.Inst(ir.OpLogicalShiftRight, []ir.ValueID{value, amt})
	case decode.ShiftASR:
		return t.builder.Inst(ir.OpArithmeticShiftRight, []ir.ValueID{value, amt})
	default:
		return t.builder.Inst(ir.OpRotateRight, []ir.ValueID{value, amt})
	}
}

// emitDataProcessing emits the operation itself given the already-computed
// second operand (an expanded immediate or a shifted register), and writes
// the result back to Rd unless the opcode is flag-only.
func (t *Translator) emitDataProcessing(dp decode.DataProcessing, op2 ir.ValueID) {
	if !flagOnly(dp.Op) && dp.Rd == cpu.PC {
		// A data-processing write to PC needs ALUWritePC on a runtime SSA
		// value, which this build does not fold; defer to the interpreter.
		// Values the caller already emitted for the operands stay in the
		// block unused.
		t.FallbackToInterpreter()
		return
	}

	rn := t.GetReg(dp.Rn)

	var result ir.ValueID
	var opts []ir.InstOption
	if !dp.SetFlags {
		opts = append(opts, ir.WriteFlags(cpu.FlagsNone))
	}

	switch dp.Op {
	case decode.DPAdd, decode.DPCmn:
		result = t.builder.Inst(ir.OpAdd, []ir.ValueID{rn, op2}, opts...)
	case decode.DPSub, decode.DPCmp:
		result = t.builder.Inst(ir.OpSub, []ir.ValueID{rn, op2}, opts...)
	case decode.DPRsb:
		result = t.builder.Inst(ir.OpSub, []ir.ValueID{op2, rn}, opts...)
	case decode.DPAdc, decode.DPSbc, decode.DPRsc:
		// The carry-in these need is CPSR's live C flag at guest runtime,
		// which nothing in this block reads into SSA; folding with a
		// compile-time guess would silently compute the wrong result, so
		// defer the whole instruction to the interpreter instead.
		t.FallbackToInterpreter()
		return
	case decode.DPAnd, decode.DPTst:
		result = t.builder.Inst(ir.OpAnd, []ir.ValueID{rn, op2}, opts...)
	case decode.DPEor, decode.DPTeq:
		result = t.builder.Inst(ir.OpEor, []ir.ValueID{rn, op2}, opts...)
	case decode.DPOrr:
		result = t.builder.Inst(ir.OpOr, []ir.ValueID{rn, op2}, opts...)
	case decode.DPMov:
		result = op2
	case decode.DPBic:
		notOp2 := t.builder.Inst(ir.OpNot, []ir.ValueID{op2})
		result = t.builder.Inst(ir.OpAnd, []ir.ValueID{rn, notOp2}, opts...)
	case decode.DPMvn:
		result = t.builder.Inst(ir.OpNot, []ir.ValueID{op2}, opts...)
	default:
		t.FallbackToInterpreter()
		return
	}

	t.countInstruction()

	if flagOnly(dp.Op) {
		return
	}

	t.SetReg(dp.Rd, result)
}
