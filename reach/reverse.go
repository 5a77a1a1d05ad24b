package reach

// reverseEdges populates every block's Ins map by transposing Outs across
// the whole program: for each (src, target, jt), target.Ins[src] = jt.
// Edges to addresses that never became a block (out-of-range jump
// targets, code the worklist never reached) are silently dropped, with no
// log entry; the adapter and function tagging only ever walk blocks that
// exist.
func reverseEdges(p *Program) {
	for _, b := range p.Blocks {
		for k := range b.Ins {
			delete(b.Ins, k)
		}
	}
	for srcAddr, b := range p.Blocks {
		for target, jt := range b.Outs {
			if dst, ok := p.Blocks[target]; ok {
				dst.AddIn(srcAddr, jt)
			}
		}
	}
}
