package ir_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/ir"
)

var _ = Describe("Builder", func() {
	var b *ir.Builder
	var loc cpu.Location

	BeforeEach(func() {
		loc = cpu.Location{PC: 0, Cond: cpu.CondAL}
		b = ir.NewBuilder(loc)
	})

	It("builds the literal adds r1, r2, #3 shape", func() {
		r2 := b.GetGPR(2)
		three := b.Const(3)
		sum := b.Inst(ir.OpAdd, []ir.ValueID{r2, three})
		b.SetGPR(1, sum)
		b.SetTerminal(ir.LinkBlock(cpu.Location{PC: 4, Cond: cpu.CondAL}))
		b.SetCyclesConsumed(1)

		block := b.Build()

		Expect(block.Values).To(HaveLen(4))
		Expect(block.Values[0].Op).To(Equal(ir.OpGetGPR))
		Expect(block.Values[1].Op).To(Equal(ir.OpConstU32))
		Expect(block.Values[2].Op).To(Equal(ir.OpAdd))
		Expect(block.Values[3].Op).To(Equal(ir.OpSetGPR))
		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
	})

	It("tracks use lists consistently with argument edges", func() {
		r2 := b.GetGPR(2)
		three := b.Const(3)
		sum := b.Inst(ir.OpAdd, []ir.ValueID{r2, three})
		block := b.Build()

		Expect(block.Values[r2].Uses).To(ConsistOf(sum))
		Expect(block.Values[three].Uses).To(ConsistOf(sum))
	})

	It("rewires consumers on ReplaceAllUsesWith", func() {
		r2 := b.GetGPR(2)
		three := b.Const(3)
		sum := b.Inst(ir.OpAdd, []ir.ValueID{r2, three})
		block := b.Build()

		four := ir.ValueID(len(block.Values))
		block.Values = append(block.Values, ir.Value{Op: ir.OpConstU32, Type: ir.U32, Imm: 4})
		block.ReplaceAllUsesWith(three, four)

		Expect(block.Values[sum].Args).To(Equal([]ir.ValueID{r2, four}))
		Expect(block.Values[three].Uses).To(BeEmpty())
	})

	It("panics on argument count mismatch", func() {
		Expect(func() {
			b.Inst(ir.OpAdd, []ir.ValueID{b.Const(1)})
		}).To(Panic())
	})

	It("panics when write flags are widened past the opcode default", func() {
		r0 := b.GetGPR(0)
		Expect(func() {
			b.Inst(ir.OpNot, []ir.ValueID{r0}, ir.WriteFlags(cpu.FlagsNZCV))
		}).To(Panic())
	})

	It("accumulates flags written across Inst calls", func() {
		r0 := b.GetGPR(0)
		r1 := b.GetGPR(1)
		Expect(b.FlagsWritten()).To(Equal(cpu.Flags(0)))

		b.Inst(ir.OpAdd, []ir.ValueID{r0, r1})
		Expect(b.FlagsWritten()).To(Equal(cpu.FlagsNZCV))

		b.Inst(ir.OpLogicalShiftLeft, []ir.ValueID{r0, r1})
		Expect(b.FlagsWritten()).To(Equal(cpu.FlagsNZCV | cpu.FlagC))
	})

	It("does not accumulate flags narrowed away by WriteFlags", func() {
		r0 := b.GetGPR(0)
		r1 := b.GetGPR(1)
		b.Inst(ir.OpAdd, []ir.ValueID{r0, r1}, ir.WriteFlags(cpu.FlagsNone))
		Expect(b.FlagsWritten()).To(Equal(cpu.Flags(0)))
	})

	It("copies the terminal without aliasing nested If branches", func() {
		then := ir.LinkBlock(cpu.Location{PC: 8})
		els := ir.ReturnToDispatch()
		term := ir.If(cpu.CondEQ, then, els)

		Expect(cmp.Diff(*term.Then, then)).To(BeEmpty())
		Expect(term.Then).NotTo(BeIdenticalTo(&then))
	})
})
