// Package ir implements the arena-owned SSA representation the translator
// emits and the tac package lowers. Values live in a block-owned slice and
// refer to each other by slice index (ValueID), so there is no reference
// cycle to manage and ReplaceAllUsesWith is a plain index rewrite.
package ir

import "github.com/sarchlab/armjit/cpu"

// Type is the result type of a Value. SetGPR is the only Void producer;
// every other producer is U32.
type Type uint8

const (
	Void Type = iota
	U32
)

// Op is a micro-opcode. The table below is process-wide and built once.
type Op uint16

const (
	OpConstU32 Op = iota
	OpGetGPR
	OpSetGPR
	OpAdd
	OpAddWithCarry
	OpSub
	OpSubWithCarry
	OpAnd
	OpOr
	OpEor
	OpNot
	OpLogicalShiftLeft
	OpLogicalShiftRight
	OpArithmeticShiftRight
	OpRotateRight
	OpBranchWritePC
	OpBXWritePC

	// Declared for exhaustiveness with spec's opcode catalogue; not
	// reachable from the translator in this build. Reaching one of these
	// in the interpreter is a fatal assertion (see interp package).
	OpMultiply
	OpMultiplyAccumulate
	OpLoadWord
	OpStoreWord
	OpHint
	OpParallelAdd8

	opCount
)

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "OpUnknown"
}

var opNames = [...]string{
	OpConstU32:             "ConstU32",
	OpGetGPR:                "GetGPR",
	OpSetGPR:                "SetGPR",
	OpAdd:                   "Add",
	OpAddWithCarry:          "AddWithCarry",
	OpSub:                   "Sub",
	OpSubWithCarry:          "SubWithCarry",
	OpAnd:                   "And",
	OpOr:                    "Or",
	OpEor:                   "Eor",
	OpNot:                   "Not",
	OpLogicalShiftLeft:      "LogicalShiftLeft",
	OpLogicalShiftRight:     "LogicalShiftRight",
	OpArithmeticShiftRight:  "ArithmeticShiftRight",
	OpRotateRight:           "RotateRight",
	OpBranchWritePC:         "BranchWritePC",
	OpBXWritePC:             "BXWritePC",
	OpMultiply:              "Multiply",
	OpMultiplyAccumulate:    "MultiplyAccumulate",
	OpLoadWord:              "LoadWord",
	OpStoreWord:             "StoreWord",
	OpHint:                  "Hint",
	OpParallelAdd8:          "ParallelAdd8",
}

// Info is the opcode table entry for one Op: its signature and its default
// flags contract.
type Info struct {
	Name              string
	RetType           Type
	ArgTypes          []Type
	ReadFlags         cpu.Flags
	DefaultWriteFlags cpu.Flags
}

var opcodeTable [opCount]Info

func init() {
	reg := func(op Op, info Info) { opcodeTable[op] = info }

	reg(OpConstU32, Info{Name: "ConstU32", RetType: U32})
	reg(OpGetGPR, Info{Name: "GetGPR", RetType: U32})
	reg(OpSetGPR, Info{Name: "SetGPR", RetType: Void, ArgTypes: []Type{U32}})

	arith := Info{
		Name:              "",
		RetType:           U32,
		ArgTypes:          []Type{U32, U32},
		DefaultWriteFlags: cpu.FlagsNZCV,
	}
	add := arith
	add.Name = "Add"
	reg(OpAdd, add)

	adc := Info{
		Name:              "AddWithCarry",
		RetType:           U32,
		ArgTypes:          []Type{U32, U32},
		ReadFlags:         cpu.FlagC,
		DefaultWriteFlags: cpu.FlagsNZCV,
	}
	reg(OpAddWithCarry, adc)

	sub := arith
	sub.Name = "Sub"
	reg(OpSub, sub)

	sbc := adc
	sbc.Name = "SubWithCarry"
	reg(OpSubWithCarry, sbc)

	logical := Info{
		RetType:           U32,
		ArgTypes:          []Type{U32, U32},
		DefaultWriteFlags: cpu.FlagN | cpu.FlagZ | cpu.FlagC,
	}
	and := logical
	and.Name = "And"
	reg(OpAnd, and)
	or := logical
	or.Name = "Or"
	reg(OpOr, or)
	eor := logical
	eor.Name = "Eor"
	reg(OpEor, eor)

	reg(OpNot, Info{
		Name:              "Not",
		RetType:           U32,
		ArgTypes:          []Type{U32},
		DefaultWriteFlags: cpu.FlagN | cpu.FlagZ,
	})

	shift := Info{
		RetType:           U32,
		ArgTypes:          []Type{U32, U32},
		DefaultWriteFlags: cpu.FlagC,
	}
	lsl := shift
	lsl.Name = "LogicalShiftLeft"
	reg(OpLogicalShiftLeft, lsl)
	lsr := shift
	lsr.Name = "LogicalShiftRight"
	reg(OpLogicalShiftRight, lsr)
	asr := shift
	asr.Name = "ArithmeticShiftRight"
	reg(OpArithmeticShiftRight, asr)
	ror := shift
	ror.Name = "RotateRight"
	reg(OpRotateRight, ror)

	reg(OpBranchWritePC, Info{Name: "BranchWritePC", RetType: Void, ArgTypes: []Type{U32}})
	reg(OpBXWritePC, Info{Name: "BXWritePC", RetType: Void, ArgTypes: []Type{U32}})

	reg(OpMultiply, Info{Name: "Multiply", RetType: U32, ArgTypes: []Type{U32, U32}})
	reg(OpMultiplyAccumulate, Info{Name: "MultiplyAccumulate", RetType: U32, ArgTypes: []Type{U32, U32, U32}})
	reg(OpLoadWord, Info{Name: "LoadWord", RetType: U32, ArgTypes: []Type{U32}})
	reg(OpStoreWord, Info{Name: "StoreWord", RetType: Void, ArgTypes: []Type{U32, U32}})
	reg(OpHint, Info{Name: "Hint", RetType: Void})
	reg(OpParallelAdd8, Info{Name: "ParallelAdd8", RetType: U32, ArgTypes: []Type{U32, U32}, DefaultWriteFlags: cpu.FlagGE})
}

// Lookup returns the opcode table entry for op.
func Lookup(op Op) Info { return opcodeTable[op] }
