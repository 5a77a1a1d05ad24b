package decoder

import "github.com/retrosn/psxcfg/micro"

// DecodeInstruction decodes one 32-bit MIPS word into block, appending
// micro-instructions and/or outgoing edges. nextLocal is the local
// address of the instruction that would execute next in program order
// (i.e. word's own address + 4). mode says whether this call is decoding
// a plain instruction or a branch's delay slot.
//
// Branches recurse into DecodeInstruction to inline their delay slot
// before emitting their own Jmp/JmpIf/Call. If a branch is found while
// already decoding a delay slot, MIPS disallows it: the branch is
// skipped (spec's RecursiveDelaySlot) and the encompassing block
// continues with whatever its caller does next.
func (s *Session) DecodeInstruction(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	if mode != DSNone && isBranchWord(word) {
		s.Logger.Warn("branch in delay slot, skipping", "block", block.Address, "word", word)
		return
	}

	primary := (word >> 26) & 0x3F

	switch primary {
	case opRegisterFormat:
		s.decodeRegisterFormat(block, word, nextLocal, mode)
	case opRegImm:
		s.decodeRegImm(block, word, nextLocal, mode)
	case opJ:
		s.decodeJ(block, word, nextLocal)
	case opJal:
		s.decodeJal(block, word, nextLocal)
	case opBeq, opBne, opBlez, opBgtz, opBeql, opBnel, opBlezl, opBgtzl:
		s.decodeCondBranch(block, primary, word, nextLocal)
	case opAddi, opAddiu:
		s.decodeAddImm(block, word, nextLocal, mode)
	case opSlti, opSltiu:
		s.decodeSltImm(block, word, nextLocal, mode)
	case opAndi:
		s.decodeLogicalImm(block, micro.And, word, nextLocal, mode)
	case opOri:
		s.decodeLogicalImm(block, micro.Or, word, nextLocal, mode)
	case opXori:
		s.decodeLogicalImm(block, micro.XOr, word, nextLocal, mode)
	case opLui:
		s.decodeLui(block, word, nextLocal, mode)
	case opCpuControl:
		s.decodeCpuControl(block, word, nextLocal, mode)
	case opCop2:
		s.decodeCop2(block, word, nextLocal, mode)
	case opLb:
		s.decodeLoad(block, word, nextLocal, mode, 8, true)
	case opLh:
		s.decodeLoad(block, word, nextLocal, mode, 16, true)
	case opLw:
		s.decodeLoad(block, word, nextLocal, mode, 32, false)
	case opLbu:
		s.decodeLoad(block, word, nextLocal, mode, 8, false)
	case opLhu:
		s.decodeLoad(block, word, nextLocal, mode, 16, false)
	case opLwl:
		block.Append(micro.NewUnsupported("lwl", s.memOperand(word, 32)))
		emitFallthrough(block, nextLocal, mode)
	case opLwr:
		block.Append(micro.NewUnsupported("lwr", s.memOperand(word, 32)))
		emitFallthrough(block, nextLocal, mode)
	case opSb:
		s.decodeStore(block, word, nextLocal, mode, 8)
	case opSh:
		s.decodeStore(block, word, nextLocal, mode, 16)
	case opSw:
		s.decodeStore(block, word, nextLocal, mode, 32)
	case opSwl:
		block.Append(micro.NewUnsupported("swl", s.memOperand(word, 32)))
		emitFallthrough(block, nextLocal, mode)
	case opSwr:
		block.Append(micro.NewUnsupported("swr", s.memOperand(word, 32)))
		emitFallthrough(block, nextLocal, mode)
	default:
		// Unrecognized: opaque data word, no outs edge at all.
		block.Append(micro.NewInsn(micro.Data, micro.ConstValue(uint64(word), 32)))
	}
}

// emitFallthrough records the sequential-execution edge for a non-branch
// instruction, unless the caller is decoding a delay slot whose branch
// never falls through (j, jr).
func emitFallthrough(block *micro.Block, nextLocal uint32, mode DelaySlotMode) {
	if mode != DSAbortControl {
		block.AddOut(nextLocal, micro.Control)
	}
}

func (s *Session) decodeAddImm(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rt := gprIndex(word, 16)
	rs := gpr(word, 21, 32)
	imm := micro.ConstValue(uint64(uint16(word)), 16)
	block.Append(micro.NewAssign(micro.Add, micro.RegisterArg(micro.GPR(rt), 32), rs, imm))
	emitFallthrough(block, nextLocal, mode)
}

func (s *Session) decodeLogicalImm(block *micro.Block, op micro.Opcode, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rt := gprIndex(word, 16)
	rs := gpr(word, 21, 32)
	imm := micro.ConstValue(uint64(uint16(word)), 16)
	block.Append(micro.NewAssign(op, micro.RegisterArg(micro.GPR(rt), 32), rs, imm))
	emitFallthrough(block, nextLocal, mode)
}

func (s *Session) decodeSltImm(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rt := gprIndex(word, 16)
	rs := gpr(word, 21, 32)

	tmp := s.Tmp.New(32)
	block.Append(micro.NewAssign(micro.Copy, tmp, micro.ConstValue(uint64(uint32(signExtend16(word))), 32)))
	block.Append(micro.NewAssign(micro.SSetL, micro.RegisterArg(micro.GPR(rt), 32), rs, tmp))
	emitFallthrough(block, nextLocal, mode)
}

func (s *Session) decodeLui(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rt := gprIndex(word, 16)
	imm := uint32(uint16(word)) << 16
	block.Append(micro.NewAssign(micro.Copy, micro.RegisterArg(micro.GPR(rt), 32), micro.ConstValue(uint64(imm), 32)))
	emitFallthrough(block, nextLocal, mode)
}

func (s *Session) decodeLoad(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode, width uint8, signed bool) {
	rt := gprIndex(word, 16)
	mem := s.memOperand(word, width)
	dst := micro.RegisterArg(micro.GPR(rt), 32)

	if width == 32 {
		block.Append(micro.NewAssign(micro.Copy, dst, mem))
	} else if signed {
		block.Append(micro.NewAssign(micro.SignedCastInsn, dst, mem))
	} else {
		block.Append(micro.NewAssign(micro.UnsignedCastInsn, dst, mem))
	}
	emitFallthrough(block, nextLocal, mode)
}

func (s *Session) decodeStore(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode, width uint8) {
	rt := gprIndex(word, 16)
	mem := s.memOperand(word, width)

	if rt == 0 {
		block.Append(micro.NewAssign(micro.Copy, mem, micro.ConstValue(0, width)))
		emitFallthrough(block, nextLocal, mode)
		return
	}

	src := micro.RegisterArg(micro.GPR(rt), 32)
	if width == 32 {
		block.Append(micro.NewAssign(micro.Copy, mem, src))
	} else {
		block.Append(micro.NewAssign(micro.UnsignedCastInsn, mem, src))
	}
	emitFallthrough(block, nextLocal, mode)
}
