package micro

import (
	"sort"
	"strings"
)

// JumpType classifies an edge between two micro-blocks.
type JumpType int

const (
	Control JumpType = iota // fall-through: next block may execute sequentially
	Jump
	JumpConditional
	Call
	CallConditional
)

func (j JumpType) String() string {
	switch j {
	case Control:
		return "Control"
	case Jump:
		return "Jump"
	case JumpConditional:
		return "JumpConditional"
	case Call:
		return "Call"
	case CallConditional:
		return "CallConditional"
	default:
		return "?"
	}
}

// Block is a straight-line run of micro-instructions owned by one local
// address, with typed edges to and from other blocks. Block.Address must
// always equal the key it is stored under in a block map (spec's
// block-key-identity invariant).
type Block struct {
	Address         uint32
	Insns           []Instruction
	Outs            map[uint32]JumpType
	Ins             map[uint32]JumpType
	OwningFunctions map[uint32]struct{}
}

// NewBlock creates an empty block at the given local address.
func NewBlock(addr uint32) *Block {
	return &Block{
		Address:         addr,
		Outs:            make(map[uint32]JumpType),
		Ins:             make(map[uint32]JumpType),
		OwningFunctions: make(map[uint32]struct{}),
	}
}

// Append adds a micro-instruction to the end of the block.
func (b *Block) Append(insn Instruction) {
	b.Insns = append(b.Insns, insn)
}

// AddOut records an outgoing edge. A later call with the same target
// overwrites the jump type: a conditional branch whose target is its own
// fall-through address records JumpConditional and then Control for that
// address, so only the Control edge remains.
func (b *Block) AddOut(target uint32, jt JumpType) {
	b.Outs[target] = jt
}

// AddIn records an incoming edge, used by the edge-reversal pass.
func (b *Block) AddIn(from uint32, jt JumpType) {
	b.Ins[from] = jt
}

// Tag marks the block as owned by the function entered at fn.
func (b *Block) Tag(fn uint32) {
	b.OwningFunctions[fn] = struct{}{}
}

// OwnedBy reports whether fn owns this block.
func (b *Block) OwnedBy(fn uint32) bool {
	_, ok := b.OwningFunctions[fn]
	return ok
}

// sortedOutAddrs returns Outs' keys in ascending order, for deterministic
// rendering and traversal.
func (b *Block) sortedOutAddrs() []uint32 {
	addrs := make([]uint32, 0, len(b.Outs))
	for a := range b.Outs {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Render produces the one-line human-readable form the adapter exposes.
func (b *Block) Render() string {
	parts := make([]string, 0, len(b.Insns))
	for _, insn := range b.Insns {
		parts = append(parts, insn.String())
	}
	return strings.Join(parts, "; ")
}

// JumpTarget returns the block's unconditional-jump target, if its
// terminator is an unconditional Jmp/Call to a known address, and whether
// one exists. Used by the adapter (C5) for its jumpTarget field.
func (b *Block) JumpTarget() (uint32, bool) {
	for _, target := range b.sortedOutAddrs() {
		switch b.Outs[target] {
		case Jump, Call:
			return target, true
		}
	}
	return 0, false
}
