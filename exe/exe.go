// Package exe parses the PS-X EXE header and manages the global/local
// address spaces a loaded executable's text section lives in.
package exe

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBadMagic is returned when the header does not start with the
// expected "PS-X EXE" tag.
var ErrBadMagic = errors.New("exe: bad magic")

// ErrAddressOutOfRange is returned by ToLocal when an address falls
// outside [TAddr, TAddr+TSize). ToGlobal does no range check.
var ErrAddressOutOfRange = errors.New("exe: address out of range")

const (
	headerSize = 0x800
	magic      = "PS-X EXE"
)

// Header holds the fields of the fixed 0x800-byte PS-X EXE header that the
// core cares about.
type Header struct {
	PC0  uint32
	GP0  uint32
	TAddr uint32
	TSize uint32

	DAddr, DSize uint32
	BAddr, BSize uint32
	SAddr, SSize uint32

	SavedSP, SavedFP, SavedGP, SavedRA, SavedS0 uint32
}

// Executable is a parsed PS-X EXE: its header plus the text+data body that
// follows at offset 0x800.
type Executable struct {
	Header Header
	Text   []byte
}

// Parse reads a PS-X EXE image. It fails with ErrBadMagic if the first 8
// bytes don't match, and is otherwise total over any image at least
// headerSize bytes long (the body may be shorter than TSize claims; reads
// past the end of Text are reported by ReadWord, not here).
func Parse(data []byte) (*Executable, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("exe: image shorter than header (%d bytes): %w", len(data), ErrBadMagic)
	}
	if string(data[0:8]) != magic {
		return nil, fmt.Errorf("exe: got magic %q: %w", data[0:8], ErrBadMagic)
	}

	le := binary.LittleEndian
	h := Header{
		PC0:     le.Uint32(data[0x10:]),
		GP0:     le.Uint32(data[0x14:]),
		TAddr:   le.Uint32(data[0x18:]),
		TSize:   le.Uint32(data[0x1C:]),
		DAddr:   le.Uint32(data[0x20:]),
		DSize:   le.Uint32(data[0x24:]),
		BAddr:   le.Uint32(data[0x28:]),
		BSize:   le.Uint32(data[0x2C:]),
		SAddr:   le.Uint32(data[0x30:]),
		SSize:   le.Uint32(data[0x34:]),
		SavedSP: le.Uint32(data[0x38:]),
		SavedFP: le.Uint32(data[0x3C:]),
		SavedGP: le.Uint32(data[0x40:]),
		SavedRA: le.Uint32(data[0x44:]),
		SavedS0: le.Uint32(data[0x48:]),
	}

	return &Executable{Header: h, Text: data[headerSize:]}, nil
}

// ToLocal converts a global (absolute CPU-visible) address to an offset
// into Text. It fails if global falls outside [TAddr, TAddr+TSize).
func (e *Executable) ToLocal(global uint32) (uint32, error) {
	h := e.Header
	if global < h.TAddr || global >= h.TAddr+h.TSize {
		return 0, fmt.Errorf("exe: global 0x%x not in [0x%x, 0x%x): %w", global, h.TAddr, h.TAddr+h.TSize, ErrAddressOutOfRange)
	}
	return global - h.TAddr, nil
}

// ToGlobal converts a local text offset back to a global address. The
// conversion is total: callers are expected to have obtained local from a
// value already known to be in range (e.g. a block map key).
func (e *Executable) ToGlobal(local uint32) uint32 {
	return e.Header.TAddr + local
}

// ReadWord reads a little-endian 32-bit word at local text offset addr.
// It returns ok=false if the read would run past the text buffer, so
// callers can treat a truncated tail as end of reachable code rather than
// panicking.
func (e *Executable) ReadWord(addr uint32) (uint32, bool) {
	if uint64(addr)+4 > uint64(len(e.Text)) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(e.Text[addr:]), true
}

// InRange reports whether local offset addr is within the loaded text.
func (e *Executable) InRange(addr uint32) bool {
	return addr < e.Header.TSize
}
