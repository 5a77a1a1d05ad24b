package reach

import "github.com/retrosn/psxcfg/micro"

// peephole runs a small set of behavior-preserving local rewrites over
// every fused block. It is deliberately not exhaustive: it only removes
// the specific redundancy the decoder itself introduces (a temporary
// copied somewhere and never read again before being overwritten), not a
// general optimizer.
func peephole(p *Program) {
	for _, b := range p.Blocks {
		b.Insns = dropDeadTempCopies(b.Insns)
	}
}

// dropDeadTempCopies removes a "Copy tmpN, X" instruction when tmpN is
// never read by any later instruction in the same block (the decoder
// emits this shape for sltiu/slti's sign-extend step; once fused, a dead one means the destination was itself
// unused, e.g. a value computed and immediately clobbered).
func dropDeadTempCopies(insns []micro.Instruction) []micro.Instruction {
	out := make([]micro.Instruction, 0, len(insns))
	for i, insn := range insns {
		if insn.Op == micro.Copy && insn.Dst != nil && insn.Dst.Kind == micro.ArgRegister && insn.Dst.Reg.IsTemp() {
			if !readAfter(insns[i+1:], insn.Dst.Reg) {
				continue
			}
		}
		out = append(out, insn)
	}
	return out
}

func readAfter(insns []micro.Instruction, reg micro.RegisterID) bool {
	for _, insn := range insns {
		for _, a := range insn.Args {
			if argReads(a, reg) {
				return true
			}
		}
		if insn.Dst != nil && insn.Dst.Kind == micro.ArgRegisterMem && insn.Dst.Reg == reg {
			return true
		}
	}
	return false
}

func argReads(a micro.Arg, reg micro.RegisterID) bool {
	switch a.Kind {
	case micro.ArgRegister, micro.ArgRegisterMem:
		return a.Reg == reg
	}
	return false
}
