package reach

import "github.com/retrosn/psxcfg/decoder"

// Run performs the full reachability pipeline: worklist disassembly from
// entries, edge reversal, basic-block fusion, function-ownership tagging
// (rooted at entries plus every jal target discovered along the way),
// and the peephole cleanup pass.
func Run(sess *decoder.Session, entries []uint32) *Program {
	p := Disassemble(sess, entries)
	reverseEdges(p)
	fuse(p)
	// Fusion can change which address a successor lives at; re-derive
	// Ins from the post-fusion Outs rather than trust what absorb()
	// patched up piecemeal.
	reverseEdges(p)

	fnEntries := append([]uint32{}, entries...)
	for c := range sess.Callees {
		fnEntries = append(fnEntries, c)
	}
	tagFunctions(p, fnEntries)

	peephole(p)
	return p
}
