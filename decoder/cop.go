package decoder

import "github.com/retrosn/psxcfg/micro"

// decodeCpuControl handles opcode 0x10: COP0 system-control moves, the
// bc0f/bc0t branch, and the TLB/ERET group nested under rs=CO.
func (s *Session) decodeCpuControl(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rs := (word >> 21) & 0x1F
	rt := gprIndex(word, 16)
	rd := gprIndex(word, 11)

	switch rs {
	case rsMFC0:
		block.Append(micro.NewUnsupported("mfc0", micro.RegisterArg(micro.GPR(rt), 32), micro.RegisterArg(micro.COP0Reg(rd), 32)))
		emitFallthrough(block, nextLocal, mode)
	case rsMTC0:
		block.Append(micro.NewUnsupported("mtc0", micro.RegisterArg(micro.COP0Reg(rd), 32), micro.ZeroAwareGPR(rt, 32)))
		emitFallthrough(block, nextLocal, mode)
	case rsBC:
		s.decodeBC0(block, word, nextLocal)
	case rsCO:
		s.decodeTLB(block, word, nextLocal, mode)
	default:
		block.Append(micro.NewUnsupported("cop0", micro.ConstValue(uint64(word), 32)))
		emitFallthrough(block, nextLocal, mode)
	}
}

// decodeBC0 handles bc0f/bc0t. The condition is an opaque COP0 flag the
// decoder cannot evaluate; it is captured into a temporary via an
// UnsupportedInsn, then used to drive a real JmpIf so the block still
// ends with a proper jump micro-op (spec §8's delay-slot-placement
// invariant).
func (s *Session) decodeBC0(block *micro.Block, word uint32, nextLocal uint32) {
	tt := (word >> 16) & 1 // 1 = bc0t, 0 = bc0f
	mnemonic := "bc0f"
	if tt == 1 {
		mnemonic = "bc0t"
	}

	target := branchTarget(word, nextLocal)
	tmp := s.Tmp.New(1)
	block.Append(micro.NewUnsupportedAssign(mnemonic, tmp))

	block.AddOut(target, micro.JumpConditional)
	s.decodeDelaySlot(block, nextLocal, DSContinueControl)
	block.Append(micro.NewInsn(micro.JmpIf, tmp, micro.AddressValue(s.Exe.ToGlobal(target), s.symbolFor(s.Exe.ToGlobal(target)), 32)))
	block.AddOut(nextLocal+4, micro.Control)
}

// decodeTLB handles the CO group (rs=0x10): tlbr/tlbwi/tlbwr/tlbp/rfe,
// selected by the function field. None of these affect control flow.
func (s *Session) decodeTLB(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	funct := word & 0x3F
	var mnemonic string
	switch funct {
	case tlbFnTLBR:
		mnemonic = "tlbr"
	case tlbFnTLBWI:
		mnemonic = "tlbwi"
	case tlbFnTLBWR:
		mnemonic = "tlbwr"
	case tlbFnTLBP:
		mnemonic = "tlbp"
	case tlbFnRFE:
		mnemonic = "rfe"
	default:
		mnemonic = "cop0"
	}
	block.Append(micro.NewUnsupported(mnemonic))
	emitFallthrough(block, nextLocal, mode)
}

// gteCommandNames maps the low 25 bits of a COP2 CO=1 word to the GTE
// mnemonic, for the subset of commands this decoder names explicitly.
// Anything not in the table renders as a bare "gte" opaque op.
var gteCommandNames = map[uint32]string{
	0x0180001: "rtps",
	0x0280030: "rtpt",
	0x0680029: "avsz3",
	0x068002A: "avsz4",
	0x0A700012: "mvmva",
	0x0C8041E: "nclip",
	0x0D80006: "op",
	0x0E80010: "gpf",
	0x0E80011: "gpl",
	0x0F8002D: "dpcs",
	0x0F8002E: "dpct",
	0x0F8002F: "dcpl",
	0x0F80013: "ncs",
	0x0F80016: "nct",
	0x0F80014: "nccs",
	0x0F80017: "ncct",
	0x0F80015: "ncds",
	0x0F80018: "ncdt",
	0x0F80019: "cdp",
	0x0F8001A: "cc",
	0x0F80028: "sqr",
	0x0680001: "rtpt",
}

// decodeCop2 handles opcode 0x12 (COP2/GTE): move ops when the CO bit
// (bit 25) is clear, or a GTE command word when it is set.
func (s *Session) decodeCop2(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	if (word>>25)&1 == 1 {
		cmd := word & 0x1FFFFFF
		mnemonic, ok := gteCommandNames[cmd]
		if !ok {
			mnemonic = "gte"
		}
		block.Append(micro.NewUnsupported(mnemonic, micro.ConstValue(uint64(cmd), 25)))
		emitFallthrough(block, nextLocal, mode)
		return
	}

	rs := (word >> 21) & 0x1F
	rt := gprIndex(word, 16)
	rd := gprIndex(word, 11)

	switch rs {
	case cop2rsMFC2:
		block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.GPR(rt), 32), micro.RegisterArg(micro.COP2Data(rd), 32)))
	case cop2rsCFC2:
		block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.GPR(rt), 32), micro.RegisterArg(micro.COP2Ctrl(rd), 32)))
	case cop2rsMTC2:
		block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.COP2Data(rd), 32), micro.ZeroAwareGPR(rt, 32)))
	case cop2rsCTC2:
		block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.COP2Ctrl(rd), 32), micro.ZeroAwareGPR(rt, 32)))
	default:
		block.Append(micro.NewUnsupported("cop2", micro.ConstValue(uint64(word), 32)))
	}
	emitFallthrough(block, nextLocal, mode)
}
