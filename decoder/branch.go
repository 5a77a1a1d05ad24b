package decoder

import "github.com/retrosn/psxcfg/micro"

// jTypeTarget computes the absolute target of a j/jal instruction: the
// top 4 bits of the delay slot's own address (nextLocal), concatenated
// with the 26-bit instruction index shifted left by 2.
func (s *Session) jTypeTarget(word uint32, nextLocal uint32) (targetLocal uint32, targetGlobal uint32, ok bool) {
	index := word & 0x3FFFFFF
	afterDelaySlot := s.Exe.ToGlobal(nextLocal)
	targetGlobal = (afterDelaySlot & 0xF0000000) | (index << 2)

	local, err := s.Exe.ToLocal(targetGlobal)
	if err != nil {
		s.Logger.Warn("j/jal target out of range", "target", targetGlobal, "err", err)
		return 0, targetGlobal, false
	}
	return local, targetGlobal, true
}

func (s *Session) decodeJ(block *micro.Block, word uint32, nextLocal uint32) {
	targetLocal, targetGlobal, ok := s.jTypeTarget(word, nextLocal)
	fallThrough := nextLocal + 4

	if ok && targetLocal != fallThrough {
		block.AddOut(targetLocal, micro.Jump)
	}

	s.decodeDelaySlot(block, nextLocal, DSAbortControl)
	block.Append(micro.NewInsn(micro.Jmp, micro.AddressValue(targetGlobal, s.symbolFor(targetGlobal), 32)))
}

func (s *Session) decodeJal(block *micro.Block, word uint32, nextLocal uint32) {
	targetLocal, targetGlobal, ok := s.jTypeTarget(word, nextLocal)
	if ok {
		block.AddOut(targetLocal, micro.Call)
		s.Callees[targetLocal] = struct{}{}
	}

	s.decodeDelaySlot(block, nextLocal, DSContinueControl)
	block.Append(micro.NewAssign(micro.CallOp, micro.RegisterArg(micro.GPR(micro.RAIndex), 32),
		micro.AddressValue(targetGlobal, s.symbolFor(targetGlobal), 32)))
}

func (s *Session) decodeJr(block *micro.Block, rs int, nextLocal uint32) {
	s.decodeDelaySlot(block, nextLocal, DSAbortControl)
	if rs == micro.RAIndex {
		block.Append(micro.NewInsn(micro.Return, micro.RegisterArg(micro.GPR(micro.RAIndex), 32)))
		return
	}
	s.Logger.Info("jr to register operand, possible switch statement", "block", block.Address, "reg", rs)
	block.Append(micro.NewInsn(micro.Jmp, micro.ZeroAwareGPR(rs, 32)))
}

func (s *Session) decodeJalr(block *micro.Block, rd, rs int, nextLocal uint32) {
	s.decodeDelaySlot(block, nextLocal, DSAbortControl)
	block.Append(micro.NewAssign(micro.Jmp, micro.RegisterArg(micro.GPR(rd), 32), micro.ZeroAwareGPR(rs, 32)))
}

// decodeDelaySlot reads the word at nextLocal (if any remains in the
// text buffer) and recursively decodes it with mode, inlining its
// micro-ops into block before the enclosing branch's own jump op.
func (s *Session) decodeDelaySlot(block *micro.Block, nextLocal uint32, mode DelaySlotMode) {
	word, ok := s.Exe.ReadWord(nextLocal)
	if !ok {
		return
	}
	s.DecodeInstruction(block, word, nextLocal+4, mode)
}

// decodeCondBranch handles beq/bne/blez/bgtz and their likely variants.
// The "likely" refinement (delay slot nullified when not taken) is not
// modeled; all eight mnemonics decode identically.
func (s *Session) decodeCondBranch(block *micro.Block, primary uint32, word uint32, nextLocal uint32) {
	rs := gprIndex(word, 21)
	rt := gprIndex(word, 16)
	target := branchTarget(word, nextLocal)

	tmp := s.Tmp.New(1)
	switch primary {
	case opBeq, opBeql:
		block.Append(micro.NewAssign(micro.SetEq, tmp, micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case opBne, opBnel:
		block.Append(micro.NewAssign(micro.SetNEq, tmp, micro.ZeroAwareGPR(rs, 32), micro.ZeroAwareGPR(rt, 32)))
	case opBlez, opBlezl:
		block.Append(micro.NewAssign(micro.SSetLE, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
	case opBgtz, opBgtzl:
		block.Append(micro.NewAssign(micro.SSetLE, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
		block.Append(micro.NewAssign(micro.Not, tmp, tmp))
	}

	block.AddOut(target, micro.JumpConditional)
	s.decodeDelaySlot(block, nextLocal, DSContinueControl)
	block.Append(micro.NewInsn(micro.JmpIf, tmp, micro.AddressValue(s.Exe.ToGlobal(target), s.symbolFor(s.Exe.ToGlobal(target)), 32)))
	block.AddOut(nextLocal+4, micro.Control)
}

// decodeRegImm handles opcode 1 (PCRelative): bltz/bgez/bltzal/bgezal,
// selected by the rt field.
func (s *Session) decodeRegImm(block *micro.Block, word uint32, nextLocal uint32, mode DelaySlotMode) {
	rt := (word >> 16) & 0x1F
	rs := gprIndex(word, 21)
	target := branchTarget(word, nextLocal)

	tmp := s.Tmp.New(1)
	jt := micro.JumpConditional
	switch rt {
	case rtBltz:
		block.Append(micro.NewAssign(micro.SSetL, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
	case rtBgez:
		block.Append(micro.NewAssign(micro.SSetL, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
		block.Append(micro.NewAssign(micro.Not, tmp, tmp))
	case rtBltzal:
		jt = micro.CallConditional
		block.Append(micro.NewAssign(micro.SSetL, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
	case rtBgezal:
		jt = micro.CallConditional
		block.Append(micro.NewAssign(micro.SSetL, tmp, micro.ZeroAwareGPR(rs, 32), micro.ConstValue(0, 32)))
		block.Append(micro.NewAssign(micro.Not, tmp, tmp))
	default:
		block.Append(micro.NewInsn(micro.Data, micro.ConstValue(uint64(word), 32)))
		return
	}

	block.AddOut(target, jt)
	s.decodeDelaySlot(block, nextLocal, DSContinueControl)
	block.Append(micro.NewInsn(micro.JmpIf, tmp, micro.AddressValue(s.Exe.ToGlobal(target), s.symbolFor(s.Exe.ToGlobal(target)), 32)))
	block.AddOut(nextLocal+4, micro.Control)
}
