package structcfg

import (
	"fmt"

	"github.com/retrosn/psxcfg/micro"
)

// StableID returns a stable identifier string for the node. Leaf nodes
// use a loc_%04X label of their block address; composite nodes key off whichever child anchors their
// position in the original address space.
func (n *Node) StableID() string {
	switch n.Kind {
	case EntryNode:
		return "entry"
	case ExitNode:
		return "exit"
	case InstructionSequence:
		return fmt.Sprintf("loc_%04X", n.BlockAddr)
	case InstructionCollection:
		if len(n.Members) > 0 {
			return fmt.Sprintf("seq_%s", n.g.Node(n.Members[0]).StableID())
		}
	case IfNode:
		return fmt.Sprintf("if_%s", n.g.Node(n.Cond).StableID())
	case WhileTrueNode:
		return fmt.Sprintf("while_%s", n.g.Node(n.Body).StableID())
	}
	return fmt.Sprintf("node_%d", n.ID)
}

// Instructions returns every micro-instruction this node contains, in
// original program order, recursing into child nodes for composite
// kinds.
func (n *Node) Instructions() []micro.Instruction {
	switch n.Kind {
	case InstructionSequence:
		if b, ok := n.g.blocks[n.BlockAddr]; ok {
			return b.Insns
		}
		return nil
	case InstructionCollection:
		var out []micro.Instruction
		for _, m := range n.Members {
			out = append(out, n.g.Node(m).Instructions()...)
		}
		return out
	case IfNode:
		out := append([]micro.Instruction{}, n.g.Node(n.Cond).Instructions()...)
		return append(out, n.g.Node(n.Body).Instructions()...)
	case WhileTrueNode:
		return n.g.Node(n.Body).Instructions()
	default:
		return nil
	}
}

// ContainsAddress reports whether addr belongs to one of this node's
// instructions, recursing into child nodes the same way Instructions
// does. Reductions must never change the answer this gives for any
// address that was represented before the reduction ran.
func (n *Node) ContainsAddress(addr uint32) bool {
	switch n.Kind {
	case InstructionSequence:
		return n.BlockAddr == addr
	case InstructionCollection:
		for _, m := range n.Members {
			if n.g.Node(m).ContainsAddress(addr) {
				return true
			}
		}
		return false
	case IfNode:
		return n.g.Node(n.Cond).ContainsAddress(addr) || n.g.Node(n.Body).ContainsAddress(addr)
	case WhileTrueNode:
		return n.g.Node(n.Body).ContainsAddress(addr)
	default:
		return false
	}
}

// InputRegisters returns the union of registers this node's
// instructions read (including memory-operand base registers), in
// first-seen order.
func (n *Node) InputRegisters() []micro.RegisterID {
	return dedupRegisters(n.Instructions(), micro.Instruction.ReadRegisters)
}

// OutputRegisters returns the union of registers this node's
// instructions write, in first-seen order.
func (n *Node) OutputRegisters() []micro.RegisterID {
	return dedupRegisters(n.Instructions(), func(i micro.Instruction) []micro.RegisterID {
		if r, ok := i.WriteRegister(); ok {
			return []micro.RegisterID{r}
		}
		return nil
	})
}

func dedupRegisters(insns []micro.Instruction, extract func(micro.Instruction) []micro.RegisterID) []micro.RegisterID {
	seen := map[micro.RegisterID]bool{}
	var out []micro.RegisterID
	for _, insn := range insns {
		for _, r := range extract(insn) {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}
