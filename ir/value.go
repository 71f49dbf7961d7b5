package ir

import "github.com/sarchlab/armjit/cpu"

// ValueID is an index into a Block's Values arena. Ids only grow: a value
// may only reference ids appended before it.
type ValueID int

// Value is one SSA node. Args are forward edges (indices into the same
// block's arena); Uses is the back-edge list of every value that consumes
// this one, scoped to the same block.
type Value struct {
	Op   Op
	Type Type

	// Imm carries the immediate for ConstU32; Reg carries the register
	// index for GetGPR/SetGPR/BranchWritePC targets are plain arguments.
	Imm uint32
	Reg uint32

	Args []ValueID

	ReadFlags  cpu.Flags
	WriteFlags cpu.Flags

	Uses []ValueID
}

// TerminalKind tags the variant carried by a Terminal.
type TerminalKind uint8

const (
	TermReturnToDispatch TerminalKind = iota
	TermPopRSBHint
	TermInterpret
	TermLinkBlock
	TermLinkBlockFast
	TermIf
)

// Terminal is the tagged sum type ending every Block. The If variant boxes
// its nested terminals to keep the struct's size bounded.
type Terminal struct {
	Kind TerminalKind

	// Interpret / LinkBlock / LinkBlockFast payload.
	Target cpu.Location

	// If payload.
	Cond cpu.Cond
	Then *Terminal
	Else *Terminal
}

// ReturnToDispatch builds the ReturnToDispatch terminal.
func ReturnToDispatch() Terminal { return Terminal{Kind: TermReturnToDispatch} }

// PopRSBHint builds the PopRSBHint terminal.
func PopRSBHint() Terminal { return Terminal{Kind: TermPopRSBHint} }

// Interpret builds an Interpret terminal targeting loc.
func Interpret(loc cpu.Location) Terminal { return Terminal{Kind: TermInterpret, Target: loc} }

// LinkBlock builds a LinkBlock terminal targeting loc.
func LinkBlock(loc cpu.Location) Terminal { return Terminal{Kind: TermLinkBlock, Target: loc} }

// LinkBlockFast builds a LinkBlockFast terminal targeting loc.
func LinkBlockFast(loc cpu.Location) Terminal {
	return Terminal{Kind: TermLinkBlockFast, Target: loc}
}

// If builds a conditional terminal that recursively evaluates then or els.
func If(cond cpu.Cond, then, els Terminal) Terminal {
	return Terminal{Kind: TermIf, Cond: cond, Then: &then, Else: &els}
}

// Block is an arena of SSA values in program order, followed by exactly one
// terminal.
type Block struct {
	Loc            cpu.Location
	Values         []Value
	Terminal       Terminal
	CyclesConsumed int64
}

// Value returns the value at id.
func (b *Block) Value(id ValueID) *Value { return &b.Values[id] }

// Remove checks whether the value at id may be removed: it returns an error
// while anything still uses it and nil otherwise. The value stays in the
// arena either way. The baseline builder never calls this.
func (b *Block) Remove(id ValueID) error {
	if len(b.Values[id].Uses) != 0 {
		return errValueStillUsed(id)
	}
	return nil
}

// ReplaceAllUsesWith rewires every consumer of old to reference replacement
// instead, and empties old's use list.
func (b *Block) ReplaceAllUsesWith(old, replacement ValueID) {
	uses := b.Values[old].Uses
	b.Values[old].Uses = nil
	for _, user := range uses {
		v := &b.Values[user]
		for i, arg := range v.Args {
			if arg == old {
				v.Args[i] = replacement
			}
		}
		b.addUse(replacement, user)
	}
}

func (b *Block) addUse(target, user ValueID) {
	b.Values[target].Uses = append(b.Values[target].Uses, user)
}

func (b *Block) removeUse(target, user ValueID) {
	uses := b.Values[target].Uses
	for i, u := range uses {
		if u == user {
			b.Values[target].Uses = append(uses[:i], uses[i+1:]...)
			return
		}
	}
}
