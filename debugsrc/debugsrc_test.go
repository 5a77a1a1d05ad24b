package debugsrc

import "testing"

func TestStaticGPBase(t *testing.T) {
	s := NewStatic()
	s.AddLabel(0x80011000, GPBaseLabel)
	s.AddFunction(0x80010000)
	s.AddSymbol(0x80010000, "main")

	addr, ok := GPBase(s)
	if !ok || addr != 0x80011000 {
		t.Fatalf("expected gp base 0x80011000, got 0x%x ok=%v", addr, ok)
	}

	name, ok := s.SymbolName(0x80010000)
	if !ok || name != "main" {
		t.Fatalf("expected symbol main, got %q ok=%v", name, ok)
	}

	if len(s.Functions()) != 1 || s.Functions()[0].Address != 0x80010000 {
		t.Fatalf("expected one function seed, got %+v", s.Functions())
	}
}

func TestGPBaseMissing(t *testing.T) {
	s := NewStatic()
	if _, ok := GPBase(s); ok {
		t.Fatalf("expected no gp base when label absent")
	}
}
