package reach

import "github.com/retrosn/psxcfg/micro"

// tagFunctions runs one ownership BFS per function entry (spec's program
// entry points plus every jal target collected during decode), walking
// Jump, JumpConditional, and Control edges only -- never Call, so a BFS
// rooted at one function never wanders into a callee's body.
func tagFunctions(p *Program, entries []uint32) {
	for _, fn := range entries {
		if _, ok := p.Blocks[fn]; !ok {
			continue
		}
		tagFrom(p, fn)
	}
}

func tagFrom(p *Program, fn uint32) {
	visited := make(map[uint32]bool)
	stack := []uint32{fn}
	for len(stack) > 0 {
		addr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[addr] {
			continue
		}
		visited[addr] = true

		b, ok := p.Blocks[addr]
		if !ok {
			continue
		}
		b.Tag(fn)

		for target, jt := range b.Outs {
			switch jt {
			case micro.Jump, micro.JumpConditional, micro.Control:
				stack = append(stack, target)
			}
		}
	}
}
