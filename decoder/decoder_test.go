package decoder

import (
	"testing"

	"github.com/retrosn/psxcfg/exe"
	"github.com/retrosn/psxcfg/micro"
)

func newTestSession(tSize uint32) (*Session, *exe.Executable) {
	ex := &exe.Executable{
		Header: exe.Header{TAddr: 0x80010000, TSize: tSize},
		Text:   make([]byte, tSize),
	}
	return NewSession(ex, nil, nil), ex
}

func putWord(ex *exe.Executable, local uint32, word uint32) {
	ex.Text[local] = byte(word)
	ex.Text[local+1] = byte(word >> 8)
	ex.Text[local+2] = byte(word >> 16)
	ex.Text[local+3] = byte(word >> 24)
}

func TestDecodeNop(t *testing.T) {
	s, _ := newTestSession(0x200)
	block := micro.NewBlock(0x100)

	s.DecodeInstruction(block, 0, 0x104, DSNone)

	if len(block.Insns) != 1 || block.Insns[0].Op != micro.Nop {
		t.Fatalf("want single Nop insn, got %v", block.Insns)
	}
	if jt, ok := block.Outs[0x104]; !ok || jt != micro.Control {
		t.Fatalf("want Control edge to 0x104, got %v", block.Outs)
	}
}

func TestDecodeJWithDelaySlot(t *testing.T) {
	s, ex := newTestSession(0x400)
	block := micro.NewBlock(0x100)

	const addiu = 0x09
	delaySlot := uint32(addiu<<26) | uint32(2<<16) | 1 // addiu $v0, $zero, 1
	putWord(ex, 0x104, delaySlot)

	const opJ = 0x02
	jWord := uint32(opJ<<26) | 0x4080 // encodes target global 0x80010200

	s.DecodeInstruction(block, jWord, 0x104, DSNone)

	if len(block.Insns) != 2 {
		t.Fatalf("want delay slot insn + Jmp, got %v", block.Insns)
	}
	if block.Insns[0].Op != micro.Add {
		t.Fatalf("want delay slot Add first, got %v", block.Insns[0])
	}
	last := block.Insns[len(block.Insns)-1]
	if last.Op != micro.Jmp {
		t.Fatalf("want block to end in Jmp, got %v", last)
	}

	if jt, ok := block.Outs[0x200]; !ok || jt != micro.Jump {
		t.Fatalf("want Jump edge to 0x200, got %v", block.Outs)
	}
	if _, ok := block.Outs[0x108]; ok {
		t.Fatalf("j must not fall through, got edge to 0x108")
	}
}

func TestDecodeCondBranch(t *testing.T) {
	s, ex := newTestSession(0x200)
	block := micro.NewBlock(0x10)
	putWord(ex, 0x14, 0) // delay slot: nop

	const opBeq = 0x04
	beqWord := uint32(opBeq<<26) | uint32(2<<21) | uint32(3<<16) | 2 // beq $v0, $v1, +8

	s.DecodeInstruction(block, beqWord, 0x14, DSNone)

	if len(block.Insns) < 3 {
		t.Fatalf("want SetEq, delay-slot nop, JmpIf, got %v", block.Insns)
	}
	if block.Insns[0].Op != micro.SetEq {
		t.Fatalf("want SetEq first, got %v", block.Insns[0])
	}
	last := block.Insns[len(block.Insns)-1]
	if last.Op != micro.JmpIf {
		t.Fatalf("want block to end in JmpIf, got %v", last)
	}

	if jt, ok := block.Outs[0x1C]; !ok || jt != micro.JumpConditional {
		t.Fatalf("want JumpConditional edge to 0x1C, got %v", block.Outs)
	}
	if jt, ok := block.Outs[0x18]; !ok || jt != micro.Control {
		t.Fatalf("want Control edge to 0x18, got %v", block.Outs)
	}
}

func TestRecursiveDelaySlotGuard(t *testing.T) {
	s, _ := newTestSession(0x200)
	block := micro.NewBlock(0x20)

	const opBeq = 0x04
	beqWord := uint32(opBeq<<26) | uint32(2<<21) | uint32(3<<16) | 2

	s.DecodeInstruction(block, beqWord, 0x28, DSContinueControl)

	if len(block.Insns) != 0 {
		t.Fatalf("want no insns emitted for a branch found in a delay slot, got %v", block.Insns)
	}
	if len(block.Outs) != 0 {
		t.Fatalf("want no edges emitted for a branch found in a delay slot, got %v", block.Outs)
	}
}

func TestJrReturnsOnRA(t *testing.T) {
	s, _ := newTestSession(0x200)
	block := micro.NewBlock(0x30)

	s.decodeJr(block, micro.RAIndex, 0x34)

	last := block.Insns[len(block.Insns)-1]
	if last.Op != micro.Return {
		t.Fatalf("want jr $ra to decode as Return, got %v", last)
	}
}

func TestGPRelativeLoadResolvesAddress(t *testing.T) {
	s, _ := newTestSession(0x200)
	s.gpBase = 0x80011000
	s.gpBaseOK = true

	const opLw = 0x23
	// lw $v0, 4($gp)
	word := uint32(opLw<<26) | uint32(micro.GPIndex<<21) | uint32(2<<16) | 4
	block := micro.NewBlock(0x40)

	s.DecodeInstruction(block, word, 0x44, DSNone)

	insn := block.Insns[0]
	if len(insn.Args) != 1 || insn.Args[0].Kind != micro.ArgAddress {
		t.Fatalf("want resolved AddressValue operand, got %v", insn.Args)
	}
	if insn.Args[0].Addr != 0x80011004 {
		t.Fatalf("want resolved address 0x80011004, got 0x%x", insn.Args[0].Addr)
	}
}
