package translate_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/ir"
	"github.com/sarchlab/armjit/translate"
)

func word(mem *cpu.FlatMemory, addr uint32, w uint32) {
	binary.LittleEndian.PutUint32(mem.Bytes[addr:], w)
}

var _ = Describe("Translator", func() {
	It("translates adds r1, r2, #3 then b . into the literal four-node block", func() {
		mem := cpu.NewFlatMemory(0x1000)
		word(mem, 0x0000, 0xE2921003) // adds r1, r2, #3
		word(mem, 0x0004, 0xEAFFFFFE) // b .

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0, Cond: cpu.CondAL})

		Expect(block.Values).To(HaveLen(4))
		Expect(block.Values[0].Op).To(Equal(ir.OpGetGPR))
		Expect(block.Values[0].Reg).To(Equal(uint32(2)))
		Expect(block.Values[1].Op).To(Equal(ir.OpConstU32))
		Expect(block.Values[1].Imm).To(Equal(uint32(3)))
		Expect(block.Values[2].Op).To(Equal(ir.OpAdd))
		Expect(block.Values[2].WriteFlags).To(Equal(cpu.FlagsNZCV))
		Expect(block.Values[3].Op).To(Equal(ir.OpSetGPR))
		Expect(block.Values[3].Reg).To(Equal(uint32(1)))

		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
		Expect(block.Terminal.Target).To(Equal(cpu.Location{PC: 4, Cond: cpu.CondAL}))
		Expect(block.CyclesConsumed).To(Equal(int64(1)))
	})

	It("translates an unconditional forward branch with no SSA arithmetic", func() {
		mem := cpu.NewFlatMemory(0x200)
		word(mem, 0x100, 0xEA000002) // b #8

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0x100, Cond: cpu.CondAL})

		Expect(block.Values).To(BeEmpty())
		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
		Expect(block.Terminal.Target.PC).To(Equal(uint32(0x100 + 8 + 8)))
		Expect(block.CyclesConsumed).To(Equal(int64(1)))
	})

	It("stops a block on a conditional instruction that cannot be lowered", func() {
		mem := cpu.NewFlatMemory(0x10)
		word(mem, 0x0000, 0x02921003) // addeq r1, r2, #3

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0, Cond: cpu.CondAL})

		Expect(block.Values).To(BeEmpty())
		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
		Expect(block.Terminal.Target).To(Equal(cpu.Location{PC: 0, Cond: cpu.CondEQ}))
		Expect(block.CyclesConsumed).To(Equal(int64(0)))
	})

	It("refuses to fold a second same-condition instruction once flags have been written", func() {
		mem := cpu.NewFlatMemory(0x10)
		word(mem, 0x0000, 0x00111001) // andseq r1, r1, r1
		word(mem, 0x0004, 0x00311004) // eorseq r1, r1, r4

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0, Cond: cpu.CondEQ})

		Expect(block.Values).To(HaveLen(3))
		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
		Expect(block.Terminal.Target).To(Equal(cpu.Location{PC: 4, Cond: cpu.CondEQ}))
	})

	It("folds an interworking branch through a register into a runtime BXWritePC", func() {
		mem := cpu.NewFlatMemory(0x10)
		word(mem, 0x0000, 0xE12FFF1E) // bx lr

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0, Cond: cpu.CondAL})

		last := block.Values[len(block.Values)-1]
		Expect(last.Op).To(Equal(ir.OpBXWritePC))
		Expect(block.Terminal.Kind).To(Equal(ir.TermReturnToDispatch))
	})

	It("falls back to the interpreter for an undecodable word", func() {
		mem := cpu.NewFlatMemory(0x10)
		word(mem, 0x0000, 0xEC000000) // coprocessor LDC/STC space, undecoded

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0, Cond: cpu.CondAL})

		Expect(block.Values).To(BeEmpty())
		Expect(block.Terminal.Kind).To(Equal(ir.TermInterpret))
	})

	It("terminates translation at a page boundary", func() {
		mem := cpu.NewFlatMemory(0x2000)
		// Fill the last two instruction slots before 0x1000 with no-flags MOVs.
		word(mem, 0x0FF8, 0xE1A00000) // mov r0, r0
		word(mem, 0x0FFC, 0xE1A00000) // mov r0, r0

		tr := translate.New(mem)
		block := tr.Translate(cpu.Location{PC: 0x0FF8, Cond: cpu.CondAL})

		Expect(block.Terminal.Kind).To(Equal(ir.TermLinkBlock))
		Expect(block.Terminal.Target.PC).To(BeNumerically("<=", 0x1000))
	})
})
