package translate

import "github.com/sarchlab/armjit/decode"

// VisitB folds B and BL: the target is always statically known, so it
// terminates the block directly rather than emitting a runtime BranchWritePC.
func (t *Translator) VisitB(b decode.Branch) {
	target := uint32(int32(t.pc) + 8 + b.Offset)
	if b.Link {
		t.SetReg(14, t.builder.Const(t.pc+4))
	}
	t.countInstruction()
	t.BranchWritePC(target)
}

// VisitBX interworking-branches to a runtime register value: the target
// isn't known until the block executes, so it emits a BXWritePC SSA node
// over Rm and returns to the dispatcher rather than linking a location.
func (t *Translator) VisitBX(bx decode.BranchExchange) {
	target := t.GetReg(bx.Rm)
	t.countInstruction()
	t.BXWritePCValue(target)
}

func (t *Translator) VisitBLXReg(bx decode.BranchExchange) {
	t.SetReg(14, t.builder.Const(t.pc+4))
	t.VisitBX(bx)
}

func (t *Translator) VisitBXJ(bx decode.BranchExchange) {
	t.FallbackToInterpreter()
}

func (t *Translator) VisitSVC(imm24 uint32)  { t.FallbackToInterpreter() }
func (t *Translator) VisitBKPT(imm16 uint32) { t.FallbackToInterpreter() }
func (t *Translator) VisitHint(op uint32)    { t.FallbackToInterpreter() }
