package interp

import (
	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/ir"
	"github.com/sarchlab/armjit/tac"
	"github.com/sarchlab/armjit/translate"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Interpreter is the micro-interpreter: it dispatches Location Descriptors
// to cached TAC blocks, translating and lowering on a cache miss, and runs
// each block's three-address instructions against the architectural state.
type Interpreter struct {
	state *cpu.State

	icache     *ICache
	translator *translate.Translator
	cache      map[cpu.Location]*tac.Block

	cond        cpu.Cond
	reschedule  bool

	regs [tac.MaxVirtualRegs]uint32
}

// New builds an Interpreter operating on state, fetching instructions
// through an ICache backed by mem.
func New(state *cpu.State, mem cpu.GuestMemory) *Interpreter {
	ic := NewICache(DefaultICacheConfig(), mem)
	return &Interpreter{
		state:      state,
		icache:     ic,
		translator: translate.New(ic),
		cache:      make(map[cpu.Location]*tac.Block),
		cond:       cpu.CondAL,
	}
}

// PrepareReschedule requests that Execute return at the next block
// boundary. Idempotent, safe to call from outside the emulation thread.
func (interp *Interpreter) PrepareReschedule() { interp.reschedule = true }

// ClearCache empties both the TAC block cache and the instruction cache.
func (interp *Interpreter) ClearCache() {
	interp.cache = make(map[cpu.Location]*tac.Block)
	interp.icache.Reset()
}

// InvalidateRange drops any cached blocks and instruction-cache lines
// covering guest addresses in [start, start+length). A block never crosses
// a 4 KiB page, so every block that can cover the range starts between the
// page holding start and start+length; blocks of that page that end before
// start are dropped as well.
func (interp *Interpreter) InvalidateRange(start, length uint32) {
	interp.icache.InvalidateRange(start, length)
	pageStart := start &^ 0xFFF
	for loc := range interp.cache {
		if loc.PC >= pageStart && loc.PC < start+length {
			delete(interp.cache, loc)
		}
	}
}

// SetPC sets the program counter.
func (interp *Interpreter) SetPC(pc uint32) { interp.state.SetReg(cpu.PC, pc) }

// GetPC returns the program counter.
func (interp *Interpreter) GetPC() uint32 { return interp.state.GetReg(cpu.PC) }

// GetReg/SetReg access a general-purpose register (0..15, PC included).
func (interp *Interpreter) GetReg(r uint32) uint32    { return interp.state.GetReg(r) }
func (interp *Interpreter) SetReg(r uint32, v uint32) { interp.state.SetReg(r, v) }
func (interp *Interpreter) GetVFPReg(r uint32) uint32 { return interp.state.GetVFPReg(r) }
func (interp *Interpreter) SetVFPReg(r, v uint32)     { interp.state.SetVFPReg(r, v) }
func (interp *Interpreter) GetCPSR() uint32           { return interp.state.CPSR }
func (interp *Interpreter) SetCPSR(v uint32)          { interp.state.CPSR = v }
func (interp *Interpreter) GetCP15(which int) uint32  { return interp.state.GetCP15(which) }
func (interp *Interpreter) SetCP15(which int, v uint32) {
	interp.state.SetCP15(which, v)
}

// GetVFPSystemReg/SetVFPSystemReg access FPSCR or FPEXC (cpu.FPSCR, cpu.FPEXC).
func (interp *Interpreter) GetVFPSystemReg(which int) uint32 {
	return interp.state.GetVFPSystemReg(which)
}
func (interp *Interpreter) SetVFPSystemReg(which int, v uint32) {
	interp.state.SetVFPSystemReg(which, v)
}

func (interp *Interpreter) Ticks() int64 { return interp.state.Ticks }

// NewContext returns a zeroed ThreadContext.
func (interp *Interpreter) NewContext() *cpu.ThreadContext { return &cpu.ThreadContext{} }

// SaveContext/LoadContext checkpoint or restore the architectural state.
func (interp *Interpreter) SaveContext(ctx *cpu.ThreadContext) { interp.state.SaveContext(ctx) }
func (interp *Interpreter) LoadContext(ctx *cpu.ThreadContext) { interp.state.LoadContext(ctx) }

// PurgeState resets the block cache and instruction cache; used when a
// context switch invalidates cached translations for locality reasons.
func (interp *Interpreter) PurgeState() { interp.ClearCache() }

// Step executes a single block-boundary worth of work: at most one cached
// block. It is Execute with a budget of exactly one block iteration.
func (interp *Interpreter) Step() { interp.run(1) }

// Execute runs blocks until the cycle budget is exhausted, a reschedule is
// requested, or a block consumes no cycles (one that folded no instruction,
// such as a block that only re-enters with a different condition). A
// ReturnToDispatch/PopRSBHint terminal does not end the loop: the next block
// is looked up from the updated PC.
func (interp *Interpreter) Execute(budget int64) {
	interp.reschedule = false
	for !interp.reschedule && budget > 0 {
		consumed := interp.run(budget)
		if consumed == 0 {
			break
		}
		budget -= consumed
	}
}

// run executes exactly one block and returns its CyclesConsumed.
func (interp *Interpreter) run(budget int64) int64 {
	loc := cpu.LocationFromCPSR(interp.GetPC(), interp.state.CPSR, interp.cond)

	block, ok := interp.cache[loc]
	if !ok {
		ssa := interp.translator.Translate(loc)
		block = tac.Lower(ssa)
		interp.cache[loc] = block
	}

	interp.loadRunState()
	for _, w := range block.Instructions {
		interp.execWord(w)
	}
	interp.storeRunState()

	interp.evalTerminal(block.Terminal, budget)
	interp.state.AddTicks(block.CyclesConsumed)

	return block.CyclesConsumed
}

func (interp *Interpreter) loadRunState() {
	for r := uint32(0); r < 16; r++ {
		interp.regs[r] = interp.state.GetReg(r)
	}
}

func (interp *Interpreter) storeRunState() {
	for r := uint32(0); r < 16; r++ {
		interp.state.SetReg(r, interp.regs[r])
	}
}

func (interp *Interpreter) evalTerminal(t ir.Terminal, budget int64) {
	switch t.Kind {
	case ir.TermReturnToDispatch, ir.TermPopRSBHint:
		interp.cond = cpu.CondAL
	case ir.TermInterpret:
		panic(errors.New("interp: generic single-step interpreter is not wired in this build (target %v)", t.Target))
	case ir.TermLinkBlock:
		if budget <= 0 {
			interp.cond = cpu.CondAL
			interp.reschedule = true
			return
		}
		interp.enter(t.Target)
	case ir.TermLinkBlockFast:
		interp.enter(t.Target)
	case ir.TermIf:
		n, z, c, v := cpu.NZCV(interp.state.CPSR)
		if t.Cond.Passed(n, z, c, v) {
			interp.evalTerminal(*t.Then, budget)
		} else {
			interp.evalTerminal(*t.Else, budget)
		}
	default:
		tlog.Printw("unknown terminal kind", "kind", t.Kind)
		interp.reschedule = true
	}
}

func (interp *Interpreter) enter(loc cpu.Location) {
	interp.SetPC(loc.PC)
	interp.state.CPSR = cpu.SetThumb(cpu.SetBigEndian(interp.state.CPSR, loc.BigEndian), loc.Thumb)
	interp.cond = loc.Cond
}
