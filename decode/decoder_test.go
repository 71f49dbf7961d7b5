package decode_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/decode"
)

type recordingVisitor struct {
	decode.Visitor
	dpImm  *decode.DataProcessing
	branch *decode.Branch
}

func newRecordingVisitor() *recordingVisitor { return &recordingVisitor{} }

func (r *recordingVisitor) VisitDataProcessingImm(dp decode.DataProcessing) { r.dpImm = &dp }
func (r *recordingVisitor) VisitB(b decode.Branch)                         { r.branch = &b }

var _ = Describe("Decoder", func() {
	var d *decode.Decoder

	BeforeEach(func() {
		d = decode.NewDecoder()
	})

	It("decodes adds r1, r2, #3", func() {
		inst := d.Decode(0xE2921003)
		Expect(inst).NotTo(BeNil())
		Expect(inst.Cond).To(Equal(cpu.CondAL))

		v := newRecordingVisitor()
		inst.Visit(v)

		Expect(v.dpImm).NotTo(BeNil())
		Expect(v.dpImm.Op).To(Equal(decode.DPAdd))
		Expect(v.dpImm.SetFlags).To(BeTrue())
		Expect(v.dpImm.Rn).To(Equal(uint32(2)))
		Expect(v.dpImm.Rd).To(Equal(uint32(1)))
		Expect(v.dpImm.Imm8).To(Equal(uint32(3)))
		Expect(v.dpImm.Rotate).To(Equal(uint32(0)))
	})

	It("decodes an unconditional branch to self", func() {
		inst := d.Decode(0xEAFFFFFE)
		Expect(inst).NotTo(BeNil())

		v := newRecordingVisitor()
		inst.Visit(v)

		Expect(v.branch).NotTo(BeNil())
		Expect(v.branch.Link).To(BeFalse())
		Expect(v.branch.Offset).To(Equal(int32(-8)))
	})
})
