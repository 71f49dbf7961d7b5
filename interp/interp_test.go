package interp_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/interp"
)

func word(mem *cpu.FlatMemory, addr uint32, w uint32) {
	binary.LittleEndian.PutUint32(mem.Bytes[addr:], w)
}

var _ = Describe("Interpreter", func() {
	Describe("scenario: adds r1, r2, #3 then b .", func() {
		It("executes both instructions and updates the register file", func() {
			mem := cpu.NewFlatMemory(0x1000)
			word(mem, 0x0000, 0xE2921003) // adds r1, r2, #3
			word(mem, 0x0004, 0xEAFFFFFE) // b .

			state := cpu.NewState()
			for i := uint32(0); i < 16; i++ {
				state.SetReg(i, i)
			}
			state.SetReg(cpu.PC, 0) // the block under test is entered at PC 0
			it := interp.New(state, mem)

			it.Execute(2)

			Expect(it.GetReg(0)).To(Equal(uint32(0)))
			Expect(it.GetReg(1)).To(Equal(uint32(5)))
			Expect(it.GetReg(2)).To(Equal(uint32(2)))
			Expect(it.GetReg(3)).To(Equal(uint32(3)))
			Expect(it.GetPC()).To(Equal(uint32(4)))
		})
	})

	Describe("scenario: unconditional branch to a distinct target", func() {
		It("jumps directly with no register side effects", func() {
			mem := cpu.NewFlatMemory(0x200)
			word(mem, 0x0000, 0xEA00003E) // b 0x100

			state := cpu.NewState()
			it := interp.New(state, mem)

			it.Execute(1)

			Expect(it.GetPC()).To(Equal(uint32(0x100)))
			Expect(it.GetReg(0)).To(Equal(uint32(0)))
		})
	})

	Describe("scenario: conditional instruction that cannot fold into an AL block", func() {
		It("re-enters with the instruction's own condition and then executes it", func() {
			mem := cpu.NewFlatMemory(0x10)
			word(mem, 0x0000, 0x03A00007) // moveq r0, #7
			word(mem, 0x0004, 0xEAFFFFFE) // b .

			state := cpu.NewState()
			state.CPSR = cpu.PackNZCV(state.CPSR, false, true, false, false) // Z=1
			it := interp.New(state, mem)

			it.Execute(2)
			Expect(it.GetPC()).To(Equal(uint32(0)))
			Expect(it.GetReg(0)).To(Equal(uint32(0)))

			it.Execute(20)
			Expect(it.GetReg(0)).To(Equal(uint32(7)))
			Expect(it.GetPC()).To(Equal(uint32(4)))
		})
	})

	Describe("scenario: fallback to the generic interpreter", func() {
		It("panics on an undecodable instruction, per the fatal-assertion design", func() {
			mem := cpu.NewFlatMemory(0x10)
			word(mem, 0x0000, 0xEC000000) // undecoded coprocessor space

			state := cpu.NewState()
			it := interp.New(state, mem)

			Expect(func() { it.Execute(1) }).To(Panic())
		})
	})

	Describe("scenario: block terminates exactly at a page boundary", func() {
		It("stops folding once the guest PC crosses 4096 and links to the next page", func() {
			mem := cpu.NewFlatMemory(0x2000)
			word(mem, 4088, 0xE3A00001) // mov r0, #1
			word(mem, 4092, 0xE3A00001) // mov r0, #1

			state := cpu.NewState()
			it := interp.New(state, mem)

			it.SetPC(4088)
			it.Execute(2)

			Expect(it.GetPC()).To(Equal(uint32(4096)))
			Expect(it.GetReg(0)).To(Equal(uint32(1)))
		})
	})

	Describe("scenario: flag-setting ADDS wraparound", func() {
		It("wraps to zero and sets Z and C", func() {
			mem := cpu.NewFlatMemory(0x10)
			word(mem, 0x0000, 0xE2900001) // adds r0, r0, #1

			state := cpu.NewState()
			state.SetReg(0, 0xFFFFFFFF)
			it := interp.New(state, mem)

			it.Execute(1)

			Expect(it.GetReg(0)).To(Equal(uint32(0)))
			cpsr := it.GetCPSR()
			n, z, c, v := cpu.NZCV(cpsr)
			Expect(z).To(BeTrue())
			Expect(c).To(BeTrue())
			Expect(n).To(BeFalse())
			Expect(v).To(BeFalse())
		})
	})

	Describe("instruction cache invalidation", func() {
		It("re-translates after ClearCache observes changed guest bytes", func() {
			mem := cpu.NewFlatMemory(0x10)
			word(mem, 0x0000, 0xE3A00001) // mov r0, #1

			state := cpu.NewState()
			it := interp.New(state, mem)

			it.Execute(1)
			Expect(it.GetReg(0)).To(Equal(uint32(1)))

			word(mem, 0x0000, 0xE3A00002) // mov r0, #2
			it.SetPC(0)
			it.Execute(1)
			// The first block ended by linking to {PC 4, EQ} (the zero word
			// after it decodes as an EQ-conditioned instruction), so this call
			// enters {PC 0, EQ}; the AL-conditioned MOV there does not fold
			// into it, and R0 keeps its old value.
			Expect(it.GetReg(0)).To(Equal(uint32(1)))

			it.ClearCache()
			it.SetPC(0)
			it.Execute(1)
			Expect(it.GetReg(0)).To(Equal(uint32(2)))
		})
	})
})
