// Package reach implements the reachability driver (spec component C3):
// worklist disassembly from a set of entry points, edge reversal, basic
// block fusion, function-ownership tagging, and opaque peephole cleanup.
package reach

import (
	"github.com/retrosn/psxcfg/decoder"
	"github.com/retrosn/psxcfg/micro"
)

// Program is the result of one reachability pass: every block the
// worklist actually reached, keyed by its own local address (spec's
// block-key-identity invariant), plus the entry points it started from.
type Program struct {
	Blocks  map[uint32]*micro.Block
	Entries []uint32
}

// addrQueue is a FIFO worklist of local addresses still to decode, with
// seen-based dedup so an address already queued (or already decoded)
// is never queued twice.
type addrQueue struct {
	items []uint32
	seen  map[uint32]bool
}

func newAddrQueue() *addrQueue {
	return &addrQueue{seen: make(map[uint32]bool)}
}

func (q *addrQueue) push(addr uint32) {
	if q.seen[addr] {
		return
	}
	q.seen[addr] = true
	q.items = append(q.items, addr)
}

func (q *addrQueue) pop() (uint32, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

// Disassemble runs worklist disassembly over sess starting from entries.
// Each popped address is decoded into its own block; the decoder's own
// delay-slot handling determines which addresses actually become its
// successors, so those (not addr+4 blindly) are what gets pushed back
// onto the worklist.
func Disassemble(sess *decoder.Session, entries []uint32) *Program {
	blocks := make(map[uint32]*micro.Block)
	q := newAddrQueue()
	for _, e := range entries {
		q.push(e)
	}

	drain := func() {
		for {
			addr, ok := q.pop()
			if !ok {
				return
			}
			if _, exists := blocks[addr]; exists {
				continue
			}
			if !sess.Exe.InRange(addr) {
				sess.Logger.Warn("reach: address out of text range, skipping", "addr", addr)
				continue
			}
			word, ok := sess.Exe.ReadWord(addr)
			if !ok {
				sess.Logger.Warn("reach: truncated read, skipping", "addr", addr)
				continue
			}

			block := micro.NewBlock(addr)
			sess.DecodeInstruction(block, word, addr+4, decoder.DSNone)
			blocks[addr] = block

			for target := range block.Outs {
				q.push(target)
			}
		}
	}

	// Decoding a block may grow sess.Callees (every jal target) after the
	// worklist has already drained past that region, so requeue newly
	// discovered callees until a full drain adds nothing new.
	for {
		drain()
		grew := false
		for c := range sess.Callees {
			if !q.seen[c] {
				q.push(c)
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	return &Program{Blocks: blocks, Entries: entries}
}
