package reach

import "github.com/retrosn/psxcfg/micro"

// fuse merges straight-line control chains into single blocks: whenever
// block A has exactly one outgoing Control edge to B, and B has exactly
// one incoming edge (that Control edge from A), B's instructions and
// outgoing edges are absorbed into A and B is removed from the program.
// Repeats to a fixpoint since absorbing B may make A eligible to absorb
// B's own successor next.
func fuse(p *Program) {
	for {
		target, ok := findFusionCandidate(p)
		if !ok {
			return
		}
		absorb(p, target.pred, target.succ)
	}
}

type fusionEdge struct {
	pred uint32
	succ uint32
}

// findFusionCandidate returns the first candidate it finds without
// applying it, so the scan never mutates the map it's iterating.
func findFusionCandidate(p *Program) (fusionEdge, bool) {
	for addr, b := range p.Blocks {
		if len(b.Outs) != 1 {
			continue
		}
		var succAddr uint32
		var jt micro.JumpType
		for a, t := range b.Outs {
			succAddr, jt = a, t
		}
		if jt != micro.Control {
			continue
		}
		succ, ok := p.Blocks[succAddr]
		if !ok || succAddr == addr {
			continue
		}
		if len(succ.Ins) == 1 {
			return fusionEdge{pred: addr, succ: succAddr}, true
		}
	}
	return fusionEdge{}, false
}

func absorb(p *Program, predAddr, succAddr uint32) {
	pred := p.Blocks[predAddr]
	succ := p.Blocks[succAddr]

	pred.Insns = append(pred.Insns, succ.Insns...)
	delete(pred.Outs, succAddr)
	for target, jt := range succ.Outs {
		pred.Outs[target] = jt
		if next, ok := p.Blocks[target]; ok {
			delete(next.Ins, succAddr)
			next.AddIn(predAddr, jt)
		}
	}
	for fn := range succ.OwningFunctions {
		pred.Tag(fn)
	}

	delete(p.Blocks, succAddr)
}
