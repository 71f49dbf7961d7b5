package tac

import (
	"github.com/sarchlab/armjit/ir"
	"tlog.app/go/errors"
)

// Block is the lowered, cacheable form of an ir.Block.
type Block struct {
	Instructions   []Word
	Terminal       ir.Terminal
	CyclesConsumed int64
}

// Lower walks b's arena in order and assigns each producing value a dense
// virtual register id starting at 16 (0-15 shadow the architectural GPRs).
// It panics if a MicroInst carries more than two lowerable arguments, or if
// the block would need more virtual registers than MaxVirtualRegs allows —
// both indicate a translator bug, since ordinary blocks never approach the
// limit.
func Lower(b *ir.Block) *Block {
	next := 16
	ids := make([]uint16, len(b.Values))

	out := &Block{
		Instructions:   make([]Word, 0, len(b.Values)),
		Terminal:       b.Terminal,
		CyclesConsumed: b.CyclesConsumed,
	}

	alloc := func() uint16 {
		if next >= MaxVirtualRegs {
			panic(errors.New("tac: block exceeds MaxVirtualRegs"))
		}
		id := uint16(next)
		next++
		return id
	}

	for i := range b.Values {
		v := &b.Values[i]
		switch v.Op {
		case ir.OpGetGPR:
			dest := alloc()
			ids[i] = dest
			out.Instructions = append(out.Instructions, PackImm(v.Op, false, dest, v.Reg))
		case ir.OpSetGPR:
			src := ids[v.Args[0]]
			out.Instructions = append(out.Instructions, PackArgs(v.Op, false, 0, uint16(v.Reg), src))
		case ir.OpConstU32:
			dest := alloc()
			ids[i] = dest
			out.Instructions = append(out.Instructions, PackImm(v.Op, false, dest, v.Imm))
		default:
			if len(v.Args) > 2 {
				panic(errors.New("tac: %v has %d arguments, only two are lowerable", v.Op, len(v.Args)))
			}
			var dest uint16
			if v.Type != ir.Void {
				dest = alloc()
				ids[i] = dest
			}
			var srcA, srcB uint16
			if len(v.Args) > 0 {
				srcA = ids[v.Args[0]]
			}
			if len(v.Args) > 1 {
				srcB = ids[v.Args[1]]
			}
			out.Instructions = append(out.Instructions, PackArgs(v.Op, v.WriteFlags != 0, dest, srcA, srcB))
		}
	}

	return out
}
