package cpu

// Flags is a bitset over the ARM condition/status flags an IR node may read
// or write. It is closed under the usual bitwise operations.
type Flags uint8

const (
	FlagN Flags = 1 << iota
	FlagZ
	FlagC
	FlagV
	FlagQ
	FlagGE
)

// Convenience unions used throughout the opcode table.
const (
	FlagsNone Flags = 0
	FlagsNZC  Flags = FlagN | FlagZ | FlagC
	FlagsNZCV Flags = FlagN | FlagZ | FlagC | FlagV
	FlagsAny  Flags = FlagN | FlagZ | FlagC | FlagV | FlagQ | FlagGE
)

// Has reports whether every bit set in want is also set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// Subset reports whether f contains no bits outside of superset.
func (f Flags) Subset(superset Flags) bool {
	return f&^superset == 0
}

// CPSR bit positions used by the core.
const (
	cpsrBitN = 31
	cpsrBitZ = 30
	cpsrBitC = 29
	cpsrBitV = 28
	cpsrBitE = 9
	cpsrBitT = 5
)

// NZCV unpacks the four arithmetic flags from a CPSR word.
func NZCV(cpsr uint32) (n, z, c, v bool) {
	return cpsr&(1<<cpsrBitN) != 0,
		cpsr&(1<<cpsrBitZ) != 0,
		cpsr&(1<<cpsrBitC) != 0,
		cpsr&(1<<cpsrBitV) != 0
}

// PackNZCV writes the four arithmetic flags into a CPSR word, leaving every
// other bit unchanged.
func PackNZCV(cpsr uint32, n, z, c, v bool) uint32 {
	cpsr = setBit(cpsr, cpsrBitN, n)
	cpsr = setBit(cpsr, cpsrBitZ, z)
	cpsr = setBit(cpsr, cpsrBitC, c)
	cpsr = setBit(cpsr, cpsrBitV, v)
	return cpsr
}

// IsThumb reports the CPSR T bit.
func IsThumb(cpsr uint32) bool { return cpsr&(1<<cpsrBitT) != 0 }

// SetThumb writes the CPSR T bit.
func SetThumb(cpsr uint32, thumb bool) uint32 { return setBit(cpsr, cpsrBitT, thumb) }

// IsBigEndian reports the CPSR E bit.
func IsBigEndian(cpsr uint32) bool { return cpsr&(1<<cpsrBitE) != 0 }

// SetBigEndian writes the CPSR E bit.
func SetBigEndian(cpsr uint32, be bool) uint32 { return setBit(cpsr, cpsrBitE, be) }

func setBit(word uint32, bit uint, v bool) uint32 {
	if v {
		return word | (1 << bit)
	}
	return word &^ (1 << bit)
}
