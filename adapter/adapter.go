// Package adapter exposes a read-only (offset, length) projection over a
// disassembled program (spec component C5), guarded by a sync.RWMutex so
// one writer (the pipeline finishing a fresh pass) never races the many
// readers a UI or CLI command might run concurrently.
package adapter

import (
	"sort"
	"sync"

	"github.com/retrosn/psxcfg/micro"
	"github.com/retrosn/psxcfg/reach"
)

// Entry is one line of the adapter's projection: a block's address, its
// rendered text, and its unconditional jump target if it has one.
type Entry struct {
	Address     uint32
	Text        string
	JumpTarget  uint32
	HasJumpTarget bool
}

// View is the read-only projection surface. The zero value is usable; it
// just has nothing loaded yet.
type View struct {
	mu      sync.RWMutex
	addrs   []uint32
	blocks  map[uint32]*micro.Block
}

// NewView creates an empty View.
func NewView() *View {
	return &View{blocks: make(map[uint32]*micro.Block)}
}

// Load replaces the View's contents with the blocks from a fresh
// reachability pass. It takes the write lock for the duration of the
// swap; any Slice call already in flight keeps reading its own prior
// snapshot's data until it returns, then sees the new one.
func (v *View) Load(p *reach.Program) {
	addrs := make([]uint32, 0, len(p.Blocks))
	for addr := range p.Blocks {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	v.mu.Lock()
	defer v.mu.Unlock()
	v.addrs = addrs
	v.blocks = p.Blocks
}

// Slice returns the first length Entry values at addresses >= offset:
// length is an entry count, not a byte range.
func (v *View) Slice(offset, length uint32) []Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	lo := sort.Search(len(v.addrs), func(i int) bool { return v.addrs[i] >= offset })
	hi := lo + int(length)
	if hi > len(v.addrs) || hi < lo {
		hi = len(v.addrs)
	}

	out := make([]Entry, 0, hi-lo)
	for _, addr := range v.addrs[lo:hi] {
		b := v.blocks[addr]
		e := Entry{Address: addr, Text: b.Render()}
		if target, ok := b.JumpTarget(); ok {
			e.JumpTarget, e.HasJumpTarget = target, true
		}
		out = append(out, e)
	}
	return out
}

// Block returns the single block at addr, if the current snapshot has one.
func (v *View) Block(addr uint32) (*micro.Block, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.blocks[addr]
	return b, ok
}

// Len reports how many blocks the current snapshot holds.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.addrs)
}
