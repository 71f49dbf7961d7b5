// Package interp implements the cached three-address interpreter: the
// dispatcher that turns Location Descriptors into executed TAC blocks.
package interp

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/armjit/cpu"
)

// ICacheConfig configures set size, associativity, and line size, narrowed
// to what an instruction fetch front end needs (no write/writeback
// parameters).
type ICacheConfig struct {
	Size          int
	Associativity int
	BlockSize     int
}

// DefaultICacheConfig gives a small but representative embedded-core
// instruction cache: 16KB, 4-way, 32-byte lines.
func DefaultICacheConfig() ICacheConfig {
	return ICacheConfig{Size: 16 * 1024, Associativity: 4, BlockSize: 32}
}

// ICache is a read-only, directory-tracked front end over guest memory used
// during instruction fetch. Unlike a general read/write data cache, there is
// no write path, dirty tracking, writeback, or store-forwarding latency to
// model, since fetched instruction bytes are immutable until an explicit
// invalidate.
type ICache struct {
	config    ICacheConfig
	directory *akitacache.DirectoryImpl
	lines     [][]byte
	mem       cpu.GuestMemory

	Hits, Misses uint64
}

// NewICache builds an instruction cache reading through mem.
func NewICache(config ICacheConfig, mem cpu.GuestMemory) *ICache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	total := numSets * config.Associativity

	lines := make([][]byte, total)
	for i := range lines {
		lines[i] = make([]byte, config.BlockSize)
	}

	return &ICache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		lines: lines,
		mem:   mem,
	}
}

func (c *ICache) lineIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Read32 reads one instruction word at vaddr, filling the cache line on a
// miss. ICache itself satisfies cpu.GuestMemory so the translator can fetch
// through it transparently.
func (c *ICache) Read32(vaddr uint32) uint32 {
	blockAddr := (uint64(vaddr) / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
	offset := uint64(vaddr) % uint64(c.config.BlockSize)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.Hits++
		c.directory.Visit(block)
		return readWord(c.lines[c.lineIndex(block)], offset)
	}

	c.Misses++
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return c.mem.Read32(vaddr)
	}

	line := c.lines[c.lineIndex(victim)]
	for i := 0; i < len(line); i += 4 {
		w := c.mem.Read32(uint32(blockAddr) + uint32(i))
		line[i] = byte(w)
		line[i+1] = byte(w >> 8)
		line[i+2] = byte(w >> 16)
		line[i+3] = byte(w >> 24)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return readWord(line, offset)
}

func readWord(line []byte, offset uint64) uint32 {
	return uint32(line[offset]) | uint32(line[offset+1])<<8 |
		uint32(line[offset+2])<<16 | uint32(line[offset+3])<<24
}

// Invalidate drops one line covering vaddr.
func (c *ICache) Invalidate(vaddr uint32) {
	blockAddr := (uint64(vaddr) / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
	block := c.directory.Lookup(0, blockAddr)
	if block != nil {
		block.IsValid = false
	}
}

// InvalidateRange drops every line overlapping [start, start+length).
func (c *ICache) InvalidateRange(start, length uint32) {
	blockSize := uint32(c.config.BlockSize)
	for addr := start &^ (blockSize - 1); addr < start+length; addr += blockSize {
		c.Invalidate(addr)
	}
}

// Reset invalidates every line.
func (c *ICache) Reset() {
	c.directory.Reset()
	c.Hits, c.Misses = 0, 0
}
