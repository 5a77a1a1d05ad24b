package micro

import "fmt"

// RegisterID names a register slot in one of the banks below, or a
// temporary introduced during decode. IDs are just small integers; the
// bank a given ID belongs to is determined by which range it falls in.
type RegisterID int

// Register bank bases. GPR occupies 0-31 (MIPS has 32 general purpose
// registers); the co-processor banks and the temporary pool each start
// at a fixed offset so a RegisterID alone is enough to tell banks apart.
const (
	gprBase     = 0
	cop0Base    = 100
	cop2DataBase = 200
	cop2CtrlBase = 300

	// TmpBase is the first ID handed out by a TmpAllocator. Spec requires
	// temporaries be unique within a disassembly run and monotonically
	// increasing from 1000.
	TmpBase = 1000
)

// GPR returns the RegisterID for general purpose register n (0-31).
func GPR(n int) RegisterID { return RegisterID(gprBase + n) }

// COP0Reg returns the RegisterID for system control coprocessor register n.
func COP0Reg(n int) RegisterID { return RegisterID(cop0Base + n) }

// COP2Data returns the RegisterID for a GTE data register n.
func COP2Data(n int) RegisterID { return RegisterID(cop2DataBase + n) }

// COP2Ctrl returns the RegisterID for a GTE control register n.
func COP2Ctrl(n int) RegisterID { return RegisterID(cop2CtrlBase + n) }

// IsTemp reports whether r was handed out by a TmpAllocator.
func (r RegisterID) IsTemp() bool { return int(r) >= TmpBase }

var gprNames = [32]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// GPIndex is the register number MIPS code uses for $gp.
const GPIndex = 28

// RAIndex is the register number MIPS code uses for $ra.
const RAIndex = 31

func (r RegisterID) String() string {
	switch {
	case int(r) >= TmpBase:
		return fmt.Sprintf("tmp%d", int(r)-TmpBase)
	case int(r) >= cop2CtrlBase:
		return fmt.Sprintf("$c2c%d", int(r)-cop2CtrlBase)
	case int(r) >= cop2DataBase:
		return fmt.Sprintf("$c2d%d", int(r)-cop2DataBase)
	case int(r) >= cop0Base:
		return fmt.Sprintf("$c0r%d", int(r)-cop0Base)
	case int(r) >= gprBase && int(r) < gprBase+32:
		return gprNames[int(r)-gprBase]
	default:
		return fmt.Sprintf("$r%d", int(r))
	}
}

// TmpAllocator hands out unique temporary registers for one disassembly
// session. It is seeded at TmpBase and only ever increases, so its
// current value is stable and reproducible across runs on the same input.
type TmpAllocator struct {
	next int
}

// NewTmpAllocator creates an allocator seeded at TmpBase.
func NewTmpAllocator() *TmpAllocator {
	return &TmpAllocator{next: TmpBase}
}

// New allocates a fresh temporary register of the given bit width.
func (t *TmpAllocator) New(width uint8) Arg {
	id := RegisterID(t.next)
	t.next++
	return RegisterArg(id, width)
}

// Current returns the next ID that will be allocated, exported so callers
// can confirm determinism across runs of the same input.
func (t *TmpAllocator) Current() int {
	return t.next
}
