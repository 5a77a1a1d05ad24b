package decoder

// Primary 6-bit opcode values (bits [31:26]).
const (
	opRegisterFormat = 0x00 // SPECIAL: function field in bits [5:0]
	opRegImm         = 0x01 // PCRelative: sub-op in bits [20:16]
	opJ              = 0x02
	opJal            = 0x03
	opBeq            = 0x04
	opBne            = 0x05
	opBlez           = 0x06
	opBgtz           = 0x07
	opAddi           = 0x08
	opAddiu          = 0x09
	opSlti           = 0x0A
	opSltiu          = 0x0B
	opAndi           = 0x0C
	opOri            = 0x0D
	opXori           = 0x0E
	opLui            = 0x0F
	opCpuControl     = 0x10 // COP0
	opCop2           = 0x12 // GTE
	opBeql           = 0x14
	opBnel           = 0x15
	opBlezl          = 0x16
	opBgtzl          = 0x17
	opLb             = 0x20
	opLh             = 0x21
	opLwl            = 0x22
	opLw             = 0x23
	opLbu            = 0x24
	opLhu            = 0x25
	opLwr            = 0x26
	opSb             = 0x28
	opSh             = 0x29
	opSwl            = 0x2A
	opSw             = 0x2B
	opSwr            = 0x2E
)

// RegisterFormat (opcode 0) function codes (bits [5:0]).
const (
	fnSll  = 0x00
	fnSrl  = 0x02
	fnSra  = 0x03
	fnSllv = 0x04
	fnSrlv = 0x06
	fnSrav = 0x07
	fnJr   = 0x08
	fnJalr = 0x09
	fnAdd  = 0x20
	fnAddu = 0x21
	fnSub  = 0x22
	fnSubu = 0x23
	fnAnd  = 0x24
	fnOr   = 0x25
	fnXor  = 0x26
	fnNor  = 0x27
	fnSlt  = 0x2A
	fnSltu = 0x2B
)

// PCRelative (opcode 1) sub-op codes (bits [20:16], the rt field).
const (
	rtBltz   = 0x00
	rtBgez   = 0x01
	rtBltzal = 0x10
	rtBgezal = 0x11
)

// CpuControl (opcode 0x10) sub-op codes (bits [25:21], the rs field).
const (
	rsMFC0 = 0x00
	rsMTC0 = 0x04
	rsBC   = 0x08 // bc0f/bc0t, distinguished by bit 16 of the word
	rsCO   = 0x10 // TLB group: dispatch continues on the low 6 bits (funct)
)

// TLB/ERET function codes under CpuControl+CO.
const (
	tlbFnTLBR  = 0x01
	tlbFnTLBWI = 0x02
	tlbFnTLBWR = 0x06
	tlbFnTLBP  = 0x08
	tlbFnRFE   = 0x10
)

// COP2 (GTE) move sub-ops (bits [25:21], the rs field), shared layout
// with CpuControl's MFC0/MTC0/CFC0-style dispatch.
const (
	cop2rsMFC2 = 0x00
	cop2rsCFC2 = 0x02
	cop2rsMTC2 = 0x04
	cop2rsCTC2 = 0x06
)

// isBranchWord reports whether word is any instruction that would itself
// need a delay slot: unconditional/conditional jumps and branches. Used
// by the recursion guard (spec: a branch may never appear inside the
// decode of another branch's delay slot).
func isBranchWord(word uint32) bool {
	primary := (word >> 26) & 0x3F
	switch primary {
	case opRegImm, opJ, opJal, opBeq, opBne, opBlez, opBgtz,
		opBeql, opBnel, opBlezl, opBgtzl:
		return true
	case opRegisterFormat:
		funct := word & 0x3F
		return funct == fnJr || funct == fnJalr
	case opCpuControl:
		rs := (word >> 21) & 0x1F
		return rs == rsBC
	}
	return false
}
