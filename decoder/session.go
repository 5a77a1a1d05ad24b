// Package decoder implements the MIPS-to-microcode decoder (spec
// component C2): it decodes one 32-bit MIPS word, including recursive
// delay-slot handling, into a sequence of micro.Instruction values
// appended to a micro.Block.
package decoder

import (
	"log/slog"

	"github.com/retrosn/psxcfg/debugsrc"
	"github.com/retrosn/psxcfg/exe"
	"github.com/retrosn/psxcfg/micro"
)

// DelaySlotMode tells DecodeInstruction whether it is decoding a plain
// top-level instruction, or is itself decoding a branch's delay slot.
type DelaySlotMode int

const (
	// DSNone is ordinary top-level decoding.
	DSNone DelaySlotMode = iota
	// DSContinueControl decodes a delay slot whose instruction still
	// falls through to nextLocal afterward (most branches).
	DSContinueControl
	// DSAbortControl decodes a delay slot after which control never
	// falls through (j, jr).
	DSAbortControl
)

// Session holds the state of one disassembly run: the executable being
// decoded, the debug-symbol source, the temporary-register allocator, and
// the set of call targets discovered so far.
type Session struct {
	Exe    *exe.Executable
	Src    debugsrc.Source
	Tmp    *micro.TmpAllocator
	Logger *slog.Logger

	// Callees collects the local addresses targeted by jal, for the
	// reachability driver's function-ownership BFS (spec §4.2).
	Callees map[uint32]struct{}

	gpBase   uint32
	gpBaseOK bool
}

// NewSession creates a decode session. logger may be nil, in which case
// slog.Default() is used.
func NewSession(ex *exe.Executable, src debugsrc.Source, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		Exe:     ex,
		Src:     src,
		Tmp:     micro.NewTmpAllocator(),
		Logger:  logger,
		Callees: make(map[uint32]struct{}),
	}
	if src != nil {
		if addr, ok := debugsrc.GPBase(src); ok {
			s.gpBase, s.gpBaseOK = addr, true
		}
	}
	return s
}

// symbolFor looks up a cosmetic symbol name for a global address, if the
// session has a debug source.
func (s *Session) symbolFor(global uint32) string {
	if s.Src == nil {
		return ""
	}
	name, ok := s.Src.SymbolName(global)
	if !ok {
		return ""
	}
	return name
}
