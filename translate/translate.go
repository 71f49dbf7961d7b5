// Package translate builds one ir.Block of SSA per basic block of guest
// ARMv6 code, in the same fetch-decode-dispatch shape as a direct
// interpreter loop, but emitting IR instead of mutating a register file.
package translate

import (
	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/decode"
	"github.com/sarchlab/armjit/ir"
)

const pageSize = 4096

// regSlot tracks the SSA value currently representing a register within a
// block, distinguishing "never touched" from "holds value 0" (0 is a valid
// ValueID: a block's first appended value).
type regSlot struct {
	id     ir.ValueID
	cached bool
}

// Translator implements decode.Visitor. One Translator is used per block;
// call Translate to run it.
type Translator struct {
	mem cpu.GuestMemory
	dec *decode.Decoder

	builder *ir.Builder
	loc     cpu.Location
	pc      uint32
	regs    [15]regSlot

	instructionCount int
	stop             bool
}

// New returns a Translator reading instructions through mem.
func New(mem cpu.GuestMemory) *Translator {
	return &Translator{mem: mem, dec: decode.NewDecoder()}
}

// Translate builds the block entered at loc.
func (t *Translator) Translate(loc cpu.Location) *ir.Block {
	t.builder = ir.NewBuilder(loc)
	t.loc = loc
	t.pc = loc.PC
	t.regs = [15]regSlot{}
	t.instructionCount = 0
	t.stop = false

	if loc.Thumb {
		t.builder.SetTerminal(ir.Interpret(loc))
		t.builder.SetCyclesConsumed(0)
		return t.builder.Build()
	}

	for !t.stop {
		word := t.mem.Read32(t.pc &^ 3)
		inst := t.dec.Decode(word)

		if inst == nil {
			t.builder.SetTerminal(ir.Interpret(t.here(cpu.CondAL)))
			break
		}

		if !t.conditionPassed(inst.Cond) {
			t.builder.SetTerminal(ir.LinkBlock(t.here(inst.Cond)))
			break
		}

		inst.Visit(t)
		if t.stop {
			break
		}

		t.pc += 4
		if t.pc%pageSize == 0 {
			t.builder.SetTerminal(ir.LinkBlock(t.here(cpu.CondAL)))
			break
		}
	}

	t.flushRegisters()
	t.builder.SetCyclesConsumed(int64(t.instructionCount))
	return t.builder.Build()
}

func (t *Translator) here(cond cpu.Cond) cpu.Location {
	return cpu.Location{PC: t.pc, Thumb: t.loc.Thumb, BigEndian: t.loc.BigEndian, Cond: cond}
}

// conditionPassed reports whether an instruction guarded by cond may be
// folded into this block. A block has exactly one entry condition
// (Loc.Cond), against which flags are evaluated; the fold is only sound
// when cond matches that entry condition exactly AND no flag-writing
// instruction has appeared in the block yet, since a flag write moves the
// flags out from under the entry-time snapshot the block's condition was
// checked against. Anything else must stop translation and re-enter with
// the instruction's own condition as the new block's entry condition.
func (t *Translator) conditionPassed(cond cpu.Cond) bool {
	return cond == t.loc.Cond && t.builder.FlagsWritten() == 0
}

// GetReg returns the SSA value currently representing register r, reading
// through to a fresh GetGPR the first time this block touches it. Reading
// PC yields the architectural PC+8 per the ARM pipeline convention.
func (t *Translator) GetReg(r uint32) ir.ValueID {
	if r == cpu.PC {
		return t.builder.Const(t.pc + 8)
	}
	if t.regs[r].cached {
		return t.regs[r].id
	}
	id := t.builder.GetGPR(r)
	t.regs[r] = regSlot{id: id, cached: true}
	return id
}

// SetReg records that r now holds value id for the remainder of the block.
// Writing to PC ends the block; callers use BranchWritePC/BXWritePC/
// ALUWritePC/LoadWritePC instead of calling SetReg(PC, ...) directly.
func (t *Translator) SetReg(r uint32, id ir.ValueID) {
	t.regs[r] = regSlot{id: id, cached: true}
}

// flushRegisters emits a trailing SetGPR for every register whose cached
// value is not simply its untouched GetGPR.
func (t *Translator) flushRegisters() {
	for r := uint32(0); r < 15; r++ {
		slot := t.regs[r]
		if !slot.cached {
			continue
		}
		v := t.builder.Value(slot.id)
		if v.Op == ir.OpGetGPR && v.Reg == r {
			continue
		}
		t.builder.SetGPR(r, slot.id)
	}
}

// ArmExpandImm implements the ARM immediate rotate-right expansion used by
// the _imm addressing mode: an 8-bit value rotated right by twice the 4-bit
// rotate field.
func ArmExpandImm(imm8, rotate uint32) uint32 {
	shift := (rotate * 2) & 31
	if shift == 0 {
		return imm8
	}
	return (imm8 >> shift) | (imm8 << (32 - shift))
}

// FallbackToInterpreter ends the block, deferring the current instruction
// onward to the interpreter's undecodable-instruction path. The current
// instruction is not counted towards CyclesConsumed since it was not
// translated.
func (t *Translator) FallbackToInterpreter() {
	t.builder.SetTerminal(ir.Interpret(t.here(cpu.CondAL)))
	t.stop = true
}

// countInstruction records that the current guest instruction was folded
// into SSA, contributing one cycle to the block's CyclesConsumed.
func (t *Translator) countInstruction() {
	t.instructionCount++
}

// BranchWritePC terminates the block with an unconditional jump to target.
func (t *Translator) BranchWritePC(target uint32) {
	dest := cpu.Location{PC: target &^ 1, Thumb: t.loc.Thumb, BigEndian: t.loc.BigEndian, Cond: cpu.CondAL}
	t.builder.SetTerminal(ir.LinkBlock(dest))
	t.stop = true
}

// BXWritePC terminates the block with a jump to target, switching to Thumb
// when its bit 0 is set (interworking branch).
func (t *Translator) BXWritePC(target uint32) {
	thumb := target&1 == 1
	dest := cpu.Location{PC: target &^ 1, Thumb: thumb, BigEndian: t.loc.BigEndian, Cond: cpu.CondAL}
	t.builder.SetTerminal(ir.LinkBlock(dest))
	t.stop = true
}

// ALUWritePC is BranchWritePC on ARMv6 (no interworking from a data
// processing instruction's Rd==PC write).
func (t *Translator) ALUWritePC(target uint32) { t.BranchWritePC(target) }

// LoadWritePC is BXWritePC on ARMv6 (a loaded PC value always interworks).
func (t *Translator) LoadWritePC(target uint32) { t.BXWritePC(target) }

// BranchWritePCValue terminates the block with a jump to a runtime-computed
// target: unlike BranchWritePC, the destination is not known until the
// block executes, so the block emits a BranchWritePC node reading target
// and returns to the dispatcher instead of linking directly to a location.
func (t *Translator) BranchWritePCValue(target ir.ValueID) {
	t.builder.Inst(ir.OpBranchWritePC, []ir.ValueID{target})
	t.builder.SetTerminal(ir.ReturnToDispatch())
	t.stop = true
}

// BXWritePCValue is BranchWritePCValue's interworking counterpart: the
// dispatcher decides Thumb-vs-ARM and address masking from the value the
// BXWritePC node produces once it is known, since it cannot be resolved at
// translation time.
func (t *Translator) BXWritePCValue(target ir.ValueID) {
	t.builder.Inst(ir.OpBXWritePC, []ir.ValueID{target})
	t.builder.SetTerminal(ir.ReturnToDispatch())
	t.stop = true
}
