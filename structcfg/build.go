package structcfg

import "github.com/retrosn/psxcfg/micro"

// Build constructs the raw (unreduced) structural graph for one
// function: every block owned by fn becomes an InstructionSequence node,
// Control/Jump edges become AlwaysEdge, and a JumpConditional edge
// becomes a TrueEdge (to the branch target) paired with a FalseEdge (to
// the block's other, Control, successor). Call and CallConditional edges
// never appear in the structural graph -- a call doesn't affect this
// function's own shape.
func Build(blocks map[uint32]*micro.Block, fn uint32) *Graph {
	g := NewGraph(blocks)

	seq := make(map[uint32]NodeID)
	for addr, b := range blocks {
		if !b.OwnedBy(fn) {
			continue
		}
		seq[addr] = g.AddNode(InstructionSequence)
		g.Node(seq[addr]).BlockAddr = addr
	}

	if entry, ok := seq[fn]; ok {
		g.AddEdge(EntryEdge, g.Entry, entry)
	}

	for addr, node := range seq {
		b := blocks[addr]

		var trueTarget, falseTarget uint32
		hasConditional, hasFalse := false, false
		for target, jt := range b.Outs {
			if jt == micro.JumpConditional {
				hasConditional, trueTarget = true, target
			}
		}

		for target, jt := range b.Outs {
			switch {
			case jt == micro.JumpConditional:
				// handled below as the TrueEdge half of the pair
			case hasConditional && jt == micro.Control:
				// this block's Control edge is the conditional's
				// not-taken arm, not an independent AlwaysEdge
				hasFalse, falseTarget = true, target
			case jt == micro.Control, jt == micro.Jump:
				if to, ok := seq[target]; ok {
					g.AddEdge(AlwaysEdge, node, to)
				} else {
					g.AddEdge(ExitEdge, node, g.Exit)
				}
			}
		}

		if hasConditional {
			if to, ok := seq[trueTarget]; ok {
				g.AddEdge(TrueEdge, node, to)
			} else {
				g.AddEdge(ExitEdge, node, g.Exit)
			}
			if hasFalse {
				if to, ok := seq[falseTarget]; ok {
					g.AddEdge(FalseEdge, node, to)
				} else {
					g.AddEdge(ExitEdge, node, g.Exit)
				}
			}
		}

		if len(b.Outs) == 0 {
			g.AddEdge(ExitEdge, node, g.Exit)
		}
	}

	return g
}
