package translate

import "github.com/sarchlab/armjit/decode"

// The remaining opcode families are declared for exhaustiveness with the
// wider ARMv6 catalogue (SPEC_FULL.md section 4.1) but are not folded into
// SSA by this translator; each ends its block with an Interpret terminal.

func (t *Translator) VisitLoadStore(ls decode.LoadStore)                 { t.FallbackToInterpreter() }
func (t *Translator) VisitLoadStoreMultiple(lsm decode.LoadStoreMultiple) { t.FallbackToInterpreter() }
func (t *Translator) VisitMultiply(m decode.Multiply)                    { t.FallbackToInterpreter() }
func (t *Translator) VisitMultiplyLong(m decode.MultiplyLong)            { t.FallbackToInterpreter() }

func (t *Translator) VisitParallelAddSubtract(op uint32, rn, rd, rm uint32)    { t.FallbackToInterpreter() }
func (t *Translator) VisitSaturatingAddSubtract(op uint32, rn, rd, rm uint32) { t.FallbackToInterpreter() }
func (t *Translator) VisitPackHalfword(rn, rd, rm, shiftImm uint32, tb bool)  { t.FallbackToInterpreter() }
func (t *Translator) VisitSaturate(sat decode.Saturate)                      { t.FallbackToInterpreter() }
func (t *Translator) VisitReverse(op uint32, rd, rm uint32)                  { t.FallbackToInterpreter() }
func (t *Translator) VisitExtend(ext decode.Extend)                         { t.FallbackToInterpreter() }

func (t *Translator) VisitSynchronization(sy decode.Synchronization) { t.FallbackToInterpreter() }

func (t *Translator) VisitMRS(rd uint32, spsr bool) { t.FallbackToInterpreter() }
func (t *Translator) VisitMSR(msr decode.MSR)       { t.FallbackToInterpreter() }

func (t *Translator) VisitCoprocessor(cp decode.Coprocessor) { t.FallbackToInterpreter() }

func (t *Translator) VisitThumb(word uint32) { t.FallbackToInterpreter() }

func (t *Translator) VisitUndefined(word uint32) { t.FallbackToInterpreter() }
