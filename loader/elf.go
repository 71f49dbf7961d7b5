// Package loader provides ELF binary loading for ARMv6 32-bit executables.
package loader

import (
	"debug/elf"
	"io"

	"github.com/sarchlab/armjit/cpu"
	"tlog.app/go/errors"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// DefaultStackTop is the default stack top address for a 32-bit ARM user
// space image loaded into a flat guest address space.
const DefaultStackTop = 0x80000000

// DefaultStackSize is the default stack size (1MB); ARMv6 targets are
// typically far smaller-memory than desktop/server images.
const DefaultStackSize = 1 * 1024 * 1024

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment should be loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded ELF program ready for execution.
type Program struct {
	// EntryPoint is the virtual address where execution should begin.
	EntryPoint uint32
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
	// InitialSP is the initial stack pointer value.
	InitialSP uint32
	// ARMAttributes holds the raw contents of the .ARM.attributes section
	// (build attributes: EABI version, CPU/FPU profile, ABI_VFP_args, ...)
	// when the binary carries one, nil otherwise. Not interpreted here; the
	// core has no use for it beyond surfacing what the toolchain recorded.
	ARMAttributes []byte
}

// Load parses an ARMv6 32-bit ELF binary and returns a Program struct ready
// for loading into the emulator's memory.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ELF file")
	}
	defer func() { _ = f.Close() }()

	if f.Machine != elf.EM_ARM {
		return nil, errors.New("not an ARM ELF file (machine type: %v)", f.Machine)
	}

	if f.Class != elf.ELFCLASS32 {
		return nil, errors.New("not a 32-bit ELF file")
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
		InitialSP:  DefaultStackTop,
	}

	if sec := f.Section(".ARM.attributes"); sec != nil {
		if data, err := sec.Data(); err == nil {
			prog.ARMAttributes = data
		}
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, errors.Wrap(err, "failed to read segment at 0x%x", phdr.Vaddr)
			}
			if uint64(n) != phdr.Filesz {
				return nil, errors.New("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		seg := Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		}

		prog.Segments = append(prog.Segments, seg)
	}

	return prog, nil
}

// LoadIntoMemory copies every segment's file bytes into mem at its virtual
// address. BSS (MemSize > len(Data)) is left as the zero-initialized bytes
// FlatMemory already starts with.
func LoadIntoMemory(prog *Program, mem *cpu.FlatMemory) {
	for _, seg := range prog.Segments {
		copy(mem.Bytes[seg.VirtAddr:], seg.Data)
	}
}
