package decoder

import "github.com/retrosn/psxcfg/micro"

// decodeRegisterFormat handles opcode 0 (SPECIAL): the function field in
// the low 6 bits selects the actual operation.
func (s *Session) decodeRegisterFormat(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	funct := word & 0x3F
	rd := gprIndex(word, 11)
	rt := gprIndex(word, 16)
	rs := gprIndex(word, 21)
	sa := (word >> 6) & 0x1F

	switch funct {
	case fnSll:
		if rd == 0 && rt == 0 && sa == 0 {
			block.Append(micro.NewInsn(micro.Nop))
		} else {
			block.Append(micro.NewAssign(micro.SHL, micro.RegisterArg(micro.GPR(rd), 32),
				micro.ZeroAwareGPR(rt, 32), micro.ConstValue(uint64(sa), 5)))
		}
	case fnSrl:
		block.Append(micro.NewAssign(micro.SRL, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rt, 32), micro.ConstValue(uint64(sa), 5)))
	case fnSra:
		block.Append(micro.NewAssign(micro.SRA, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rt, 32), micro.ConstValue(uint64(sa), 5)))
	case fnSllv:
		block.Append(micro.NewAssign(micro.SHL, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rt, 32), micro.ZeroAwareGPR(rs, 32)))
	case fnSrlv:
		block.Append(micro.NewAssign(micro.SRL, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rt, 32), micro.ZeroAwareGPR(rs, 32)))
	case fnSrav:
		block.Append(micro.NewAssign(micro.SRA, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rt, 32), micro.ZeroAwareGPR(rs, 32)))
	case fnAdd, fnAddu:
		block.Append(micro.NewAssign(micro.Add, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnSub, fnSubu:
		block.Append(micro.NewAssign(micro.Sub, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnAnd:
		block.Append(micro.NewAssign(micro.And, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnOr:
		block.Append(micro.NewAssign(micro.Or, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnXor:
		block.Append(micro.NewAssign(micro.XOr, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnNor:
		tmp := s.Tmp.New(32)
		block.Append(micro.NewAssign(micro.Or, tmp, micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
		block.Append(micro.NewAssign(micro.Not, tmp, tmp))
		block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.GPR(rd), 32), tmp))
	case fnSlt:
		block.Append(micro.NewAssign(micro.SSetL, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnSltu:
		block.Append(micro.NewAssign(micro.USetL, micro.RegisterArg(micro.GPR(rd), 32),
			micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case fnJr:
		s.decodeJr(block, rs, nextLocal)
		return
	case fnJalr:
		s.decodeJalr(block, rd, rs, nextLocal)
		return
	default:
		block.Append(micro.NewInsn(micro.Data, micro.ConstValue(uint64(word), 32)))
		return
	}

	emitFallthrough(block, nextLocal, mode)
}
