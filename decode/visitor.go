package decode

// Visitor receives exactly one call per decoded instruction. The
// translator implements it; every method it does not special-case falls
// through to FallbackToInterpreter. Families beyond data processing and
// branches are declared for exhaustiveness with the wider ARMv6 opcode
// catalogue even though the baseline translator does not special-case them.
type Visitor interface {
	// Data processing, one method per addressing mode; DataProcessing.Op
	// selects which of the twelve arithmetic/logical operations (plus the
	// four flag-only forms TST/TEQ/CMP/CMN) applies.
	VisitDataProcessingImm(dp DataProcessing)
	VisitDataProcessingReg(dp DataProcessing)
	VisitDataProcessingRSR(dp DataProcessing)

	// Branches.
	VisitB(b Branch)
	VisitBX(bx BranchExchange)
	VisitBLXReg(bx BranchExchange)
	VisitBXJ(bx BranchExchange)

	// Exceptions and hints.
	VisitSVC(imm24 uint32)
	VisitBKPT(imm16 uint32)
	VisitHint(op uint32)

	// Load/store, single and multiple.
	VisitLoadStore(ls LoadStore)
	VisitLoadStoreMultiple(lsm LoadStoreMultiple)

	// Multiply family.
	VisitMultiply(m Multiply)
	VisitMultiplyLong(m MultiplyLong)

	// SIMD-in-GPR extensions.
	VisitParallelAddSubtract(op uint32, rn, rd, rm uint32)
	VisitSaturatingAddSubtract(op uint32, rn, rd, rm uint32)
	VisitPackHalfword(rn, rd, rm, shiftImm uint32, tb bool)
	VisitSaturate(sat Saturate)
	VisitReverse(op uint32, rd, rm uint32)
	VisitExtend(ext Extend)

	// Synchronisation primitives.
	VisitSynchronization(sy Synchronization)

	// Status register access.
	VisitMRS(rd uint32, spsr bool)
	VisitMSR(msr MSR)

	// Coprocessor.
	VisitCoprocessor(cp Coprocessor)

	// Thumb interworking stub. The decoder never dispatches to it: Thumb
	// translation is unimplemented, and the translator ends a Thumb-state
	// block with an Interpret terminal before decoding (see SPEC_FULL.md
	// section 10).
	VisitThumb(word uint32)

	// Undefined/unpredictable encoding.
	VisitUndefined(word uint32)
}

// LoadStore carries the fields of a single-register load or store.
type LoadStore struct {
	Load, Byte, Signed, Halfword bool
	PreIndex, Add, WriteBack    bool
	Rn, Rd                      uint32
	ImmOffset                   uint32
	RegOffset                   bool
	Rm                          uint32
	Shift                       ShiftType
	ShiftImm                    uint32
}

// LoadStoreMultiple carries the fields of LDM/STM.
type LoadStoreMultiple struct {
	Load, IncrementBefore bool
	WriteBack             bool
	Rn                    uint32
	RegisterList          uint16
}

// Multiply carries the fields of MUL/MLA.
type Multiply struct {
	Accumulate, SetFlags     bool
	Rd, Rn, Rs, Rm           uint32
}

// MultiplyLong carries the fields of UMULL/UMLAL/SMULL/SMLAL.
type MultiplyLong struct {
	Signed, Accumulate, SetFlags bool
	RdHi, RdLo, Rn, Rm          uint32
}

// Saturate carries the fields of SSAT/USAT.
type Saturate struct {
	Unsigned         bool
	SatImm           uint32
	Rd, Rn           uint32
	ShiftImm         uint32
	ShiftIsASR       bool
}

// Extend carries the fields of SXTB/UXTB/SXTH/UXTH and their _16 variants.
type Extend struct {
	Signed    bool
	HalfWidth bool // false: byte, true: halfword
	Rd, Rm    uint32
	Rotate    uint32
	Add       bool
	Rn        uint32
}

// Synchronization carries the fields of LDREX/STREX/SWP and byte/half/dword
// variants.
type Synchronization struct {
	Kind SyncKind
	Rd, Rn, Rm, Rt uint32
}

// SyncKind selects which synchronisation primitive was decoded.
type SyncKind uint8

const (
	SyncSWP SyncKind = iota
	SyncSWPB
	SyncLDREX
	SyncSTREX
	SyncLDREXB
	SyncSTREXB
	SyncLDREXH
	SyncSTREXH
	SyncLDREXD
	SyncSTREXD
)

// MSR carries the fields of an MSR instruction.
type MSR struct {
	SPSR      bool
	FieldMask uint32
	Immediate bool
	Imm8      uint32
	Rotate    uint32
	Rm        uint32
}

// Coprocessor carries the fields common to CDP/MRC/MCR/LDC/STC.
type Coprocessor struct {
	Kind    CoprocKind
	CoprocN uint32
	Opc1    uint32
	Opc2    uint32
	CRd, CRn, CRm uint32
	Rt      uint32
}

// CoprocKind selects which coprocessor operation was decoded.
type CoprocKind uint8

const (
	CoprocCDP CoprocKind = iota
	CoprocMRC
	CoprocMCR
	CoprocLDC
	CoprocSTC
)
