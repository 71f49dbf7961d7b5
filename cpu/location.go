package cpu

// Location identifies a basic block's entry state. It is a plain comparable
// struct so it can be used directly as a map key by the interpreter's block
// cache: two descriptors that differ in any field name distinct blocks.
type Location struct {
	PC        uint32
	Thumb     bool
	BigEndian bool
	Cond      Cond
}

// LocationFromCPSR builds the Location for the current PC given a CPSR word
// and the entry condition the interpreter is currently honouring.
func LocationFromCPSR(pc, cpsr uint32, cond Cond) Location {
	return Location{
		PC:        pc,
		Thumb:     IsThumb(cpsr),
		BigEndian: IsBigEndian(cpsr),
		Cond:      cond,
	}
}
