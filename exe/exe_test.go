package exe

import (
	"encoding/binary"
	"errors"
	"testing"
)

func buildHeader(magicStr string, pc0, tAddr, tSize uint32) []byte {
	data := make([]byte, headerSize+int(tSize))
	copy(data[0:8], magicStr)
	le := binary.LittleEndian
	le.PutUint32(data[0x10:], pc0)
	le.PutUint32(data[0x18:], tAddr)
	le.PutUint32(data[0x1C:], tSize)
	return data
}

func TestParseBadMagic(t *testing.T) {
	data := buildHeader("NOT-X EX", 0x80010000, 0x80010000, 0x10)
	_, err := Parse(data)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseAndConvert(t *testing.T) {
	data := buildHeader(magic, 0x80010000, 0x80010000, 0x10)
	e, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Header.PC0 != 0x80010000 {
		t.Fatalf("pc0 mismatch: got 0x%x", e.Header.PC0)
	}

	local, err := e.ToLocal(0x80010004)
	if err != nil || local != 4 {
		t.Fatalf("ToLocal failed: local=%d err=%v", local, err)
	}
	if g := e.ToGlobal(4); g != 0x80010004 {
		t.Fatalf("ToGlobal mismatch: got 0x%x", g)
	}

	_, err = e.ToLocal(0x80020000)
	if !errors.Is(err, ErrAddressOutOfRange) {
		t.Fatalf("expected ErrAddressOutOfRange, got %v", err)
	}
}

func TestReadWordTruncated(t *testing.T) {
	data := buildHeader(magic, 0x80010000, 0x80010000, 4)
	e, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.ReadWord(0); !ok {
		t.Fatalf("expected a readable word at offset 0")
	}
	if _, ok := e.ReadWord(4); ok {
		t.Fatalf("expected out-of-range read to fail")
	}
}
