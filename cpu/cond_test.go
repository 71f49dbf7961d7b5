package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armjit/cpu"
)

var _ = Describe("Cond", func() {
	Describe("Passed", func() {
		It("evaluates EQ from the zero flag", func() {
			Expect(cpu.CondEQ.Passed(false, true, false, false)).To(BeTrue())
			Expect(cpu.CondEQ.Passed(false, false, false, false)).To(BeFalse())
		})

		It("evaluates GT from N==V and Z", func() {
			Expect(cpu.CondGT.Passed(true, false, false, true)).To(BeTrue())
			Expect(cpu.CondGT.Passed(true, true, false, true)).To(BeFalse())
		})

		It("always passes for AL and never for the reserved NV encoding", func() {
			Expect(cpu.CondAL.Passed(false, false, false, false)).To(BeTrue())
			Expect(cpu.CondNV.Passed(false, false, false, false)).To(BeFalse())
		})
	})
})

var _ = Describe("NZCV packing", func() {
	It("round-trips through a CPSR word", func() {
		cpsr := cpu.PackNZCV(0, true, false, true, false)
		n, z, c, v := cpu.NZCV(cpsr)
		Expect(n).To(BeTrue())
		Expect(z).To(BeFalse())
		Expect(c).To(BeTrue())
		Expect(v).To(BeFalse())
	})

	It("leaves T and E bits untouched", func() {
		cpsr := cpu.SetThumb(cpu.SetBigEndian(0, true), true)
		cpsr = cpu.PackNZCV(cpsr, true, true, true, true)
		Expect(cpu.IsThumb(cpsr)).To(BeTrue())
		Expect(cpu.IsBigEndian(cpsr)).To(BeTrue())
	})
})
