package micro

import "testing"

func TestZeroAwareGPR(t *testing.T) {
	z := ZeroAwareGPR(0, 32)
	if z.Kind != ArgConst || z.Const != 0 {
		t.Fatalf("expected const 0 for $zero, got %+v", z)
	}
	r := ZeroAwareGPR(8, 32)
	if r.Kind != ArgRegister || r.Reg != GPR(8) {
		t.Fatalf("expected register arg for non-zero GPR, got %+v", r)
	}
}

func TestTmpAllocatorMonotonic(t *testing.T) {
	a := NewTmpAllocator()
	first := a.New(1)
	second := a.New(1)
	if first.Reg == second.Reg {
		t.Fatalf("tmp allocator must not repeat IDs: %v == %v", first.Reg, second.Reg)
	}
	if int(first.Reg) != TmpBase {
		t.Fatalf("first tmp should be TmpBase, got %d", first.Reg)
	}
	if a.Current() != TmpBase+2 {
		t.Fatalf("expected Current()==%d, got %d", TmpBase+2, a.Current())
	}
}

func TestBlockKeyIdentityAndEdges(t *testing.T) {
	b := NewBlock(0x10)
	if b.Address != 0x10 {
		t.Fatalf("block address mismatch")
	}
	b.AddOut(0x14, Control)
	b.AddOut(0x20, JumpConditional)
	if b.Outs[0x14] != Control || b.Outs[0x20] != JumpConditional {
		t.Fatalf("outs not recorded correctly: %+v", b.Outs)
	}
}

func TestJumpTargetUnconditional(t *testing.T) {
	b := NewBlock(0)
	b.Append(NewInsn(Nop))
	b.AddOut(0x2000, Jump)
	target, ok := b.JumpTarget()
	if !ok || target != 0x2000 {
		t.Fatalf("expected jump target 0x2000, got %x ok=%v", target, ok)
	}

	b2 := NewBlock(4)
	b2.AddOut(8, Control)
	if _, ok := b2.JumpTarget(); ok {
		t.Fatalf("fall-through-only block should have no jump target")
	}
}

func TestRenderUnsupported(t *testing.T) {
	b := NewBlock(0)
	b.Append(NewUnsupported("lwl", RegisterArg(GPR(4), 32)))
	got := b.Render()
	want := "Unsupported(lwl, $a0)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
