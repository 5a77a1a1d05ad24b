package decoder

import "github.com/retrosn/psxcfg/micro"

// gpr extracts a 5-bit register field at bit offset b and builds a
// zero-aware GPR operand (spec §4.1).
func gpr(word uint32, b uint, width uint8) micro.Arg {
	idx := int((word >> b) & 0x1F)
	return micro.ZeroAwareGPR(idx, width)
}

// gprIndex extracts a raw 5-bit register number at bit offset b, with no
// zero-folding. Used where the register ID itself is needed (e.g.
// destination registers, memory-operand base registers).
func gprIndex(word uint32, b uint) int {
	return int((word >> b) & 0x1F)
}

// signExtend16 sign-extends the low 16 bits of word.
func signExtend16(word uint32) int32 {
	return int32(int16(uint16(word & 0xFFFF)))
}

// memOperand builds the register+offset memory operand for a load/store,
// applying $gp-relative rewriting (spec §4.1): if the base register is
// $gp and the session has discovered a gpBase via __SN_GP_BASE, the
// operand becomes a resolved AddressValue instead of a RegisterMemArg.
func (s *Session) memOperand(word uint32, width uint8) micro.Arg {
	base := gprIndex(word, 21)
	off := int16(signExtend16(word))

	if base == micro.GPIndex && s.gpBaseOK {
		resolved := uint32(int64(s.gpBase) + int64(off))
		return micro.AddressValue(resolved, s.symbolFor(resolved), width)
	}

	baseReg := micro.GPR(base)
	return micro.RegisterMemArg(baseReg, off, width)
}

// branchTarget computes the local branch target: the delay slot's own
// address (nextLocal) plus the sign-extended 16-bit offset scaled by 4.
func branchTarget(word uint32, nextLocal uint32) uint32 {
	disp := signExtend16(word) * 4
	return uint32(int64(nextLocal) + int64(disp))
}
