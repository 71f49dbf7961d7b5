package ir

import "github.com/sarchlab/armjit/cpu"

// Builder appends values to a single in-progress Block, wiring argument
// edges and use lists as it goes. It panics on invariant violations
// (argument count/type mismatch, write-flag widening, use of an id past the
// end of the arena) since those indicate a translator bug, never a guest
// program condition.
type Builder struct {
	block *Block

	// flagsWritten accumulates every flag bit written by an Inst appended
	// so far in this block. ConditionPassed gates on it: once any flag has
	// been written, a later instruction's own condition can no longer be
	// trusted against the flags live at block entry.
	flagsWritten cpu.Flags
}

// NewBuilder starts building a fresh block for loc.
func NewBuilder(loc cpu.Location) *Builder {
	return &Builder{block: &Block{Loc: loc}}
}

// Const appends a ConstU32 producer.
func (b *Builder) Const(v uint32) ValueID {
	return b.append(Value{Op: OpConstU32, Type: U32, Imm: v})
}

// GetGPR appends a GetGPR producer for register r.
func (b *Builder) GetGPR(r uint32) ValueID {
	return b.append(Value{Op: OpGetGPR, Type: U32, Reg: r})
}

// SetGPR appends a SetGPR sink writing value into register r.
func (b *Builder) SetGPR(r uint32, value ValueID) ValueID {
	info := Lookup(OpSetGPR)
	b.checkArgs(OpSetGPR, info, []ValueID{value})
	id := b.append(Value{Op: OpSetGPR, Type: Void, Reg: r, Args: []ValueID{value}})
	b.addUse(value, id)
	return id
}

// InstOption narrows the flags a MicroInst writes below the opcode's
// default. Widening beyond the default panics.
type InstOption func(*Value, Info)

// WriteFlags narrows the flags the instruction writes.
func WriteFlags(f cpu.Flags) InstOption {
	return func(v *Value, info Info) {
		if !f.Subset(info.DefaultWriteFlags) {
			panic(errWriteFlagsWiden(v.Op, f, info.DefaultWriteFlags))
		}
		v.WriteFlags = f
	}
}

// Inst appends a general MicroInst node for op over args, defaulting its
// write-flags to the opcode table's default.
func (b *Builder) Inst(op Op, args []ValueID, opts ...InstOption) ValueID {
	info := Lookup(op)
	b.checkArgs(op, info, args)

	v := Value{
		Op:         op,
		Type:       info.RetType,
		Args:       append([]ValueID(nil), args...),
		ReadFlags:  info.ReadFlags,
		WriteFlags: info.DefaultWriteFlags,
	}
	for _, opt := range opts {
		opt(&v, info)
	}
	id := b.append(v)
	for _, a := range args {
		b.addUse(a, id)
	}
	b.flagsWritten |= v.WriteFlags
	return id
}

// FlagsWritten returns the union of every flag written by an Inst appended
// to this block so far.
func (b *Builder) FlagsWritten() cpu.Flags { return b.flagsWritten }

func (b *Builder) checkArgs(op Op, info Info, args []ValueID) {
	if len(args) != len(info.ArgTypes) {
		panic(errArgCount(op, len(info.ArgTypes), len(args)))
	}
	for i, a := range args {
		if int(a) >= len(b.block.Values) {
			panic(errValueOutOfRange(a))
		}
		got := b.block.Values[a].Type
		if got != info.ArgTypes[i] {
			panic(errArgType(op, i, info.ArgTypes[i], got))
		}
	}
}

func (b *Builder) append(v Value) ValueID {
	id := ValueID(len(b.block.Values))
	b.block.Values = append(b.block.Values, v)
	return id
}

func (b *Builder) addUse(target, user ValueID) {
	b.block.addUse(target, user)
}

// SetTerminal fixes the block's terminator.
func (b *Builder) SetTerminal(t Terminal) {
	b.block.Terminal = t
}

// SetCyclesConsumed records the block's cycle cost.
func (b *Builder) SetCyclesConsumed(n int64) {
	b.block.CyclesConsumed = n
}

// Value exposes the in-progress value at id, for callers (the translator's
// register cache) that need to inspect what they have already emitted.
func (b *Builder) Value(id ValueID) *Value { return b.block.Value(id) }

// Len returns the number of values appended so far.
func (b *Builder) Len() int { return len(b.block.Values) }

// Build finalizes and returns the block. The builder must not be reused
// afterwards.
func (b *Builder) Build() *Block {
	return b.block
}
