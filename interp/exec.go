package interp

import (
	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/ir"
	"github.com/sarchlab/armjit/tac"
	"tlog.app/go/errors"
)

// execWord dispatches one packed three-address instruction against the run
// state. Reaching an opcode with no execution semantics here is a fatal
// assertion: it means lowering produced something the translator never
// actually emits, which is a program bug, not a guest-program condition.
func (interp *Interpreter) execWord(w tac.Word) {
	switch w.Op() {
	case ir.OpGetGPR:
		interp.regs[w.Dest()] = interp.regs[w.Imm()&0xF]
	case ir.OpConstU32:
		interp.regs[w.Dest()] = w.Imm()
	case ir.OpSetGPR:
		interp.regs[w.SrcA()&0xF] = interp.regs[w.SrcB()]
	case ir.OpAdd:
		interp.execAdd(w, 0)
	case ir.OpAddWithCarry:
		interp.execAdd(w, interp.carryIn(w))
	case ir.OpSub:
		interp.execSub(w, 1)
	case ir.OpSubWithCarry:
		interp.execSub(w, interp.carryIn(w))
	case ir.OpAnd:
		interp.execLogical(w, func(a, b uint32) uint32 { return a & b })
	case ir.OpOr:
		interp.execLogical(w, func(a, b uint32) uint32 { return a | b })
	case ir.OpEor:
		interp.execLogical(w, func(a, b uint32) uint32 { return a ^ b })
	case ir.OpNot:
		a := interp.regs[w.SrcA()]
		result := ^a
		interp.regs[w.Dest()] = result
		if w.WritesFlags() {
			interp.setNZ(result)
		}
	case ir.OpLogicalShiftLeft:
		interp.execShift(w, func(a, n uint32) uint32 {
			if n >= 32 {
				return 0
			}
			return a << n
		})
	case ir.OpLogicalShiftRight:
		interp.execShift(w, func(a, n uint32) uint32 {
			if n >= 32 {
				return 0
			}
			return a >> n
		})
	case ir.OpArithmeticShiftRight:
		interp.execShift(w, func(a, n uint32) uint32 {
			if n >= 32 {
				n = 31
			}
			return uint32(int32(a) >> n)
		})
	case ir.OpRotateRight:
		interp.execShift(w, func(a, n uint32) uint32 {
			n %= 32
			if n == 0 {
				return a
			}
			return (a >> n) | (a << (32 - n))
		})
	case ir.OpBranchWritePC:
		interp.regs[cpu.PC] = interp.regs[w.SrcA()] &^ 1
	case ir.OpBXWritePC:
		target := interp.regs[w.SrcA()]
		interp.regs[cpu.PC] = target &^ 1
		interp.state.CPSR = cpu.SetThumb(interp.state.CPSR, target&1 == 1)
	default:
		panic(errors.New("interp: opcode %v has no execution semantics (lowering emitted something the translator never produces)", w.Op()))
	}
}

// carryIn reads the live CPSR carry flag. ADC/SBC/RSC are not folded by the
// translator (it falls back to the generic interpreter for them instead of
// guessing a carry-in at compile time), so execAdd/execSub's carry-consuming
// path is reachable only through direct tac construction, e.g. tests.
func (interp *Interpreter) carryIn(w tac.Word) uint32 {
	_, _, c, _ := cpu.NZCV(interp.state.CPSR)
	if c {
		return 1
	}
	return 0
}

func (interp *Interpreter) execAdd(w tac.Word, extraCarry uint32) {
	a := interp.regs[w.SrcA()]
	b := interp.regs[w.SrcB()]
	sum64 := uint64(a) + uint64(b) + uint64(extraCarry)
	result := uint32(sum64)
	interp.regs[w.Dest()] = result

	if w.WritesFlags() {
		carry := sum64>>32 != 0
		overflow := (a^result)&(b^result)&0x80000000 != 0
		interp.setNZCV(result, carry, overflow)
	}
}

func (interp *Interpreter) execSub(w tac.Word, carryIn uint32) {
	a := interp.regs[w.SrcA()]
	b := interp.regs[w.SrcB()]
	sum64 := uint64(a) + uint64(^b) + uint64(carryIn)
	result := uint32(sum64)
	interp.regs[w.Dest()] = result

	if w.WritesFlags() {
		carry := sum64>>32 != 0
		overflow := (a^b)&(a^result)&0x80000000 != 0
		interp.setNZCV(result, carry, overflow)
	}
}

func (interp *Interpreter) execLogical(w tac.Word, op func(a, b uint32) uint32) {
	a := interp.regs[w.SrcA()]
	b := interp.regs[w.SrcB()]
	result := op(a, b)
	interp.regs[w.Dest()] = result
	if w.WritesFlags() {
		interp.setNZ(result)
	}
}

func (interp *Interpreter) execShift(w tac.Word, op func(a, n uint32) uint32) {
	a := interp.regs[w.SrcA()]
	n := interp.regs[w.SrcB()]
	result := op(a, n)
	interp.regs[w.Dest()] = result
}

func (interp *Interpreter) setNZ(result uint32) {
	n := result&0x80000000 != 0
	z := result == 0
	_, _, c, v := cpu.NZCV(interp.state.CPSR)
	interp.state.CPSR = cpu.PackNZCV(interp.state.CPSR, n, z, c, v)
}

func (interp *Interpreter) setNZCV(result uint32, c, v bool) {
	n := result&0x80000000 != 0
	z := result == 0
	interp.state.CPSR = cpu.PackNZCV(interp.state.CPSR, n, z, c, v)
}
