package adapter

import (
	"sync"
	"testing"

	"github.com/retrosn/psxcfg/micro"
	"github.com/retrosn/psxcfg/reach"
)

func program() *reach.Program {
	a := micro.NewBlock(0x100)
	a.Append(micro.NewInsn(micro.Nop))
	a.AddOut(0x200, micro.Jump)

	b := micro.NewBlock(0x200)
	b.Append(micro.NewInsn(micro.Return, micro.RegisterArg(micro.GPR(micro.RAIndex), 32)))

	return &reach.Program{
		Blocks:  map[uint32]*micro.Block{0x100: a, 0x200: b},
		Entries: []uint32{0x100},
	}
}

func TestSliceBoundsAndJumpTarget(t *testing.T) {
	v := NewView()
	v.Load(program())

	// length is an entry count, not a byte range: starting at 0x100, a
	// count of 1 yields just the 0x100 block and not the next one (0x200).
	entries := v.Slice(0x100, 1)
	if len(entries) != 1 || entries[0].Address != 0x100 {
		t.Fatalf("want exactly the first entry at/after 0x100, got %v", entries)
	}
	if !entries[0].HasJumpTarget || entries[0].JumpTarget != 0x200 {
		t.Fatalf("want jump target 0x200, got %+v", entries[0])
	}

	all := v.Slice(0x000, 10)
	if len(all) != 2 {
		t.Fatalf("want both blocks when asking for more entries than exist, got %d", len(all))
	}

	none := v.Slice(0x100, 0)
	if len(none) != 0 {
		t.Fatalf("want zero entries for a zero-count request, got %d", len(none))
	}
}

func TestConcurrentReadersDuringLoad(t *testing.T) {
	v := NewView()
	v.Load(program())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = v.Slice(0, 0x1000)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			v.Load(program())
		}
	}()
	wg.Wait()

	if v.Len() != 2 {
		t.Fatalf("want 2 blocks after concurrent load/read, got %d", v.Len())
	}
}
