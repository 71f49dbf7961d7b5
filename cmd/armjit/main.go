// Package main provides the entry point for armjit.
// armjit dynamically translates ARMv6 32-bit guest code into a
// platform-neutral SSA IR, lowers it to three-address code, and runs it on
// a cached micro-interpreter.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/armjit/cpu"
	"github.com/sarchlab/armjit/interp"
	"github.com/sarchlab/armjit/loader"
)

var (
	memSize  = flag.Uint64("mem", 16*1024*1024, "Guest flat memory size in bytes")
	budget   = flag.Int64("budget", 1_000_000, "Cycle budget per Execute call")
	maxCalls = flag.Int64("max-calls", 10_000, "Maximum number of Execute calls before giving up")
	verbose  = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: armjit [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	exitCode := run(prog, programPath)
	os.Exit(exitCode)
}

func run(prog *loader.Program, programPath string) int {
	mem := cpu.NewFlatMemory(int(*memSize))
	loader.LoadIntoMemory(prog, mem)

	state := cpu.NewState()
	state.SetReg(cpu.SP, prog.InitialSP)
	state.SetReg(cpu.PC, prog.EntryPoint)
	state.CPSR = 0x1F

	it := interp.New(state, mem)

	var calls int64
	for calls = 0; calls < *maxCalls; calls++ {
		before := it.Ticks()
		it.Execute(*budget)
		if it.Ticks() == before {
			break
		}
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Execute calls: %d\n", calls)
		fmt.Printf("Ticks: %d\n", it.Ticks())
		fmt.Printf("Final PC: 0x%X\n", it.GetPC())
		for r := uint32(0); r < 16; r++ {
			fmt.Printf("R%-2d = 0x%08X\n", r, it.GetReg(r))
		}
	}

	return int(it.GetReg(0))
}
