package decode

import "github.com/sarchlab/armjit/cpu"

// Decoder decodes ARMv6 machine code words. It is table-driven: each
// encoding is identified by a mask/value predicate, tried in the order
// registered, most-specific first (mirroring the predicate-then-extract
// classifier chain used elsewhere in the retrieved pack).
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder. It carries no state.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode classifies word and returns the matching Instruction, or nil for
// an encoding this decoder does not recognise (which the translator turns
// into an interpreter fallback).
func (d *Decoder) Decode(word uint32) *Instruction {
	cond := cpu.Cond((word >> 28) & 0xF)

	switch {
	case isBranchImm(word):
		return decodeBranchImm(word, cond)
	case isBranchExchange(word):
		return decodeBranchExchange(word, cond)
	case isMultiply(word):
		return decodeMultiply(word, cond)
	case isMultiplyLong(word):
		return decodeMultiplyLong(word, cond)
	case isSynchronization(word):
		return decodeSynchronization(word, cond)
	case isMSR(word):
		return decodeMSR(word, cond)
	case isMRS(word):
		return decodeMRS(word, cond)
	case isDataProcessingImm(word):
		return decodeDataProcessingImm(word, cond)
	case isDataProcessingRSR(word):
		return decodeDataProcessingRSR(word, cond)
	case isDataProcessingReg(word):
		return decodeDataProcessingReg(word, cond)
	case isSVC(word):
		return decodeSVC(word, cond)
	case isLoadStore(word):
		return decodeLoadStore(word, cond)
	case isLoadStoreMultiple(word):
		return decodeLoadStoreMultiple(word, cond)
	default:
		return nil
	}
}

// --- Branch (immediate) ---

func isBranchImm(word uint32) bool {
	return (word>>25)&0x7 == 0b101
}

func decodeBranchImm(word uint32, cond cpu.Cond) *Instruction {
	link := (word>>24)&0x1 == 1
	imm24 := word & 0xFFFFFF
	offset := int32(imm24<<8) >> 6 // sign-extend 24-bit imm, then <<2

	b := Branch{Link: link, Offset: offset}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitB(b) }}
}

// --- Branch exchange ---

func isBranchExchange(word uint32) bool {
	bits27_20 := (word >> 20) & 0xFF
	sbo := (word >> 8) & 0xFFF
	op := (word >> 4) & 0xF
	return bits27_20 == 0b00010010 && sbo == 0xFFF && (op == 0x1 || op == 0x2 || op == 0x3)
}

func decodeBranchExchange(word uint32, cond cpu.Cond) *Instruction {
	op := (word >> 4) & 0xF
	rm := word & 0xF
	bx := BranchExchange{Rm: rm}

	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) {
		switch op {
		case 0x1:
			v.VisitBX(bx)
		case 0x2:
			v.VisitBXJ(bx)
		case 0x3:
			bx.Link = true
			v.VisitBLXReg(bx)
		default:
			v.VisitUndefined(word)
		}
	}}
}

// --- Multiply ---

func isMultiply(word uint32) bool {
	return (word>>22)&0x3F == 0 && (word>>4)&0xF == 0b1001
}

func decodeMultiply(word uint32, cond cpu.Cond) *Instruction {
	accumulate := (word>>21)&0x1 == 1
	setFlags := (word>>20)&0x1 == 1
	rd := (word >> 16) & 0xF
	rn := (word >> 12) & 0xF
	rs := (word >> 8) & 0xF
	rm := word & 0xF

	m := Multiply{Accumulate: accumulate, SetFlags: setFlags, Rd: rd, Rn: rn, Rs: rs, Rm: rm}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitMultiply(m) }}
}

func isMultiplyLong(word uint32) bool {
	return (word>>23)&0x1F == 0b00001 && (word>>4)&0xF == 0b1001
}

func decodeMultiplyLong(word uint32, cond cpu.Cond) *Instruction {
	signed := (word>>22)&0x1 == 1
	accumulate := (word>>21)&0x1 == 1
	setFlags := (word>>20)&0x1 == 1
	rdHi := (word >> 16) & 0xF
	rdLo := (word >> 12) & 0xF
	rs := (word >> 8) & 0xF
	rm := word & 0xF

	m := MultiplyLong{Signed: signed, Accumulate: accumulate, SetFlags: setFlags, RdHi: rdHi, RdLo: rdLo, Rn: rs, Rm: rm}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitMultiplyLong(m) }}
}

// --- Synchronization primitives ---

func isSynchronization(word uint32) bool {
	return (word>>23)&0x1F == 0b00010 && (word>>20)&0x3 == 0 && (word>>4)&0xFF == 0b00001001
}

func decodeSynchronization(word uint32, cond cpu.Cond) *Instruction {
	b := (word >> 22) & 0x1
	opBits := (word >> 21) & 0x3
	rn := (word >> 16) & 0xF
	rd := (word >> 12) & 0xF
	rm := word & 0xF

	kind := SyncSWP
	if b == 1 {
		kind = SyncSWPB
	}
	_ = opBits

	sy := Synchronization{Kind: kind, Rd: rd, Rn: rn, Rm: rm}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitSynchronization(sy) }}
}

// --- Status register access ---

func isMRS(word uint32) bool {
	return (word>>23)&0x1F == 0b00010 && (word>>20)&0x3 == 0 && (word>>16)&0xF == 0xF && (word&0xFFF) == 0
}

func decodeMRS(word uint32, cond cpu.Cond) *Instruction {
	spsr := (word>>22)&0x1 == 1
	rd := (word >> 12) & 0xF
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitMRS(rd, spsr) }}
}

func isMSR(word uint32) bool {
	return (word>>23)&0x1F == 0b00010 && (word>>20)&0x3 == 0b10 && (word>>12)&0xF == 0xF
}

func decodeMSR(word uint32, cond cpu.Cond) *Instruction {
	spsr := (word>>22)&0x1 == 1
	fieldMask := (word >> 16) & 0xF
	immediate := (word>>25)&0x1 == 1

	m := MSR{SPSR: spsr, FieldMask: fieldMask, Immediate: immediate}
	if immediate {
		m.Imm8 = word & 0xFF
		m.Rotate = (word >> 8) & 0xF
	} else {
		m.Rm = word & 0xF
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitMSR(m) }}
}

// --- Data processing ---

func isDataProcessingImm(word uint32) bool {
	return (word>>25)&0x7 == 0b001 && !isMSR(word)
}

func decodeDataProcessingImm(word uint32, cond cpu.Cond) *Instruction {
	dp := DataProcessing{
		Op:       DPOp((word >> 21) & 0xF),
		SetFlags: (word>>20)&0x1 == 1,
		Rn:       (word >> 16) & 0xF,
		Rd:       (word >> 12) & 0xF,
		Rotate:   (word >> 8) & 0xF,
		Imm8:     word & 0xFF,
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitDataProcessingImm(dp) }}
}

func isDataProcessingReg(word uint32) bool {
	return (word>>25)&0x7 == 0b000 && (word>>4)&0x1 == 0
}

func decodeDataProcessingReg(word uint32, cond cpu.Cond) *Instruction {
	dp := DataProcessing{
		Op:       DPOp((word >> 21) & 0xF),
		SetFlags: (word>>20)&0x1 == 1,
		Rn:       (word >> 16) & 0xF,
		Rd:       (word >> 12) & 0xF,
		ShiftImm: (word >> 7) & 0x1F,
		Shift:    ShiftType((word >> 5) & 0x3),
		Rm:       word & 0xF,
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitDataProcessingReg(dp) }}
}

func isDataProcessingRSR(word uint32) bool {
	return (word>>25)&0x7 == 0b000 && (word>>4)&0x1 == 1 && (word>>7)&0x1 == 0
}

func decodeDataProcessingRSR(word uint32, cond cpu.Cond) *Instruction {
	dp := DataProcessing{
		Op:         DPOp((word >> 21) & 0xF),
		SetFlags:   (word>>20)&0x1 == 1,
		Rn:         (word >> 16) & 0xF,
		Rd:         (word >> 12) & 0xF,
		Rs:         (word >> 8) & 0xF,
		Shift:      ShiftType((word >> 5) & 0x3),
		Rm:         word & 0xF,
		RegShifted: true,
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitDataProcessingRSR(dp) }}
}

// --- Software interrupt ---

func isSVC(word uint32) bool {
	return (word>>24)&0xF == 0xF
}

func decodeSVC(word uint32, cond cpu.Cond) *Instruction {
	imm24 := word & 0xFFFFFF
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitSVC(imm24) }}
}

// --- Load/store single register ---

func isLoadStore(word uint32) bool {
	return (word>>26)&0x3 == 0b01
}

func decodeLoadStore(word uint32, cond cpu.Cond) *Instruction {
	ls := LoadStore{
		Load:      (word>>20)&0x1 == 1,
		Byte:      (word>>22)&0x1 == 1,
		PreIndex:  (word>>24)&0x1 == 1,
		Add:       (word>>23)&0x1 == 1,
		WriteBack: (word>>21)&0x1 == 1,
		Rn:        (word >> 16) & 0xF,
		Rd:        (word >> 12) & 0xF,
		RegOffset: (word>>25)&0x1 == 1,
	}
	if ls.RegOffset {
		ls.ShiftImm = (word >> 7) & 0x1F
		ls.Shift = ShiftType((word >> 5) & 0x3)
		ls.Rm = word & 0xF
	} else {
		ls.ImmOffset = word & 0xFFF
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitLoadStore(ls) }}
}

// --- Load/store multiple ---

func isLoadStoreMultiple(word uint32) bool {
	return (word>>25)&0x7 == 0b100
}

func decodeLoadStoreMultiple(word uint32, cond cpu.Cond) *Instruction {
	lsm := LoadStoreMultiple{
		Load:            (word>>20)&0x1 == 1,
		IncrementBefore: (word>>23)&0x1 == 1 && (word>>24)&0x1 == 1,
		WriteBack:       (word>>21)&0x1 == 1,
		Rn:              (word >> 16) & 0xF,
		RegisterList:    uint16(word & 0xFFFF),
	}
	return &Instruction{Word: word, Cond: cond, visit: func(v Visitor) { v.VisitLoadStoreMultiple(lsm) }}
}
