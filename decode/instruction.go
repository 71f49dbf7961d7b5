// Package decode classifies a 32-bit ARMv6 instruction word and dispatches
// it to exactly one typed method on a Visitor, in the same predicate-then-
// extract style as a table-driven AArch64 classifier, generalised to call a
// visitor instead of populating a single struct in place.
package decode

import "github.com/sarchlab/armjit/cpu"

// ShiftType is the two-bit shift-operation selector shared by every
// register-shifted data-processing addressing mode.
type ShiftType uint8

const (
	ShiftLSL ShiftType = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

// DPOp is the arithmetic/logical operation selected by a data-processing
// instruction's opcode field.
type DPOp uint8

const (
	DPAnd DPOp = iota
	DPEor
	DPSub
	DPRsb
	DPAdd
	DPAdc
	DPSbc
	DPRsc
	DPTst
	DPTeq
	DPCmp
	DPCmn
	DPOrr
	DPMov
	DPBic
	DPMvn
)

// Instruction is a decoded but not-yet-visited instruction. Visit invokes
// exactly one method on v.
type Instruction struct {
	Word uint32
	Cond cpu.Cond

	visit func(v Visitor)
}

// Visit dispatches to the single Visitor method this instruction matched.
func (i *Instruction) Visit(v Visitor) { i.visit(v) }

// DataProcessing carries the fields common to all three addressing modes of
// the data-processing family (immediate, register, register-shifted-
// register). Not every field is meaningful for every addressing mode.
type DataProcessing struct {
	Op       DPOp
	SetFlags bool
	Rn, Rd   uint32

	// _imm
	Imm8, Rotate uint32

	// _reg / _rsr
	Rm         uint32
	Shift      ShiftType
	ShiftImm   uint32
	Rs         uint32
	RegShifted bool
}

// Branch carries the fields of B/BL.
type Branch struct {
	Link   bool
	Offset int32 // sign-extended, already scaled to bytes, relative to PC+8
}

// BranchExchange carries the fields of BX/BLX(register)/BXJ.
type BranchExchange struct {
	Link bool
	Rm   uint32
}
