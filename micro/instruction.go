package micro

import (
	"fmt"
	"strings"
)

// Instruction is one micro-op. Dst is present for ops that write a
// register; Args holds the operands in emission order. Mnemonic is only
// meaningful for UnsupportedInsn, where it preserves the original MIPS
// mnemonic that could not be modeled semantically.
type Instruction struct {
	Op       Opcode
	Dst      *Arg
	Args     []Arg
	Mnemonic string
}

// NewInsn builds a micro-instruction with no destination (e.g. Jmp, Nop).
func NewInsn(op Opcode, args ...Arg) Instruction {
	return Instruction{Op: op, Args: args}
}

// NewAssign builds a micro-instruction that writes dst.
func NewAssign(op Opcode, dst Arg, args ...Arg) Instruction {
	d := dst
	return Instruction{Op: op, Dst: &d, Args: args}
}

// NewUnsupported builds an UnsupportedInsn placeholder preserving the
// original mnemonic and its decoded operands.
func NewUnsupported(mnemonic string, args ...Arg) Instruction {
	return Instruction{Op: UnsupportedInsn, Mnemonic: mnemonic, Args: args}
}

// NewUnsupportedAssign builds an UnsupportedInsn that writes dst, for
// opaque operations whose result still needs to flow into later
// micro-ops (e.g. the condition bit tested by bc0f/bc0t).
func NewUnsupportedAssign(mnemonic string, dst Arg, args ...Arg) Instruction {
	d := dst
	return Instruction{Op: UnsupportedInsn, Mnemonic: mnemonic, Dst: &d, Args: args}
}

// WriteRegister returns the register this instruction writes, if any.
func (i Instruction) WriteRegister() (RegisterID, bool) {
	if i.Dst != nil && i.Dst.Kind == ArgRegister {
		return i.Dst.Reg, true
	}
	return 0, false
}

// ReadRegisters returns every register this instruction reads: each
// register or register-memory-base operand in Args, plus Dst itself
// when Dst is a register-memory operand (a store's destination address
// is read, never written).
func (i Instruction) ReadRegisters() []RegisterID {
	var regs []RegisterID
	add := func(a Arg) {
		if a.Kind == ArgRegister || a.Kind == ArgRegisterMem {
			regs = append(regs, a.Reg)
		}
	}
	if i.Dst != nil && i.Dst.Kind == ArgRegisterMem {
		add(*i.Dst)
	}
	for _, a := range i.Args {
		add(a)
	}
	return regs
}

func (i Instruction) String() string {
	var b strings.Builder
	if i.Op == UnsupportedInsn {
		fmt.Fprintf(&b, "Unsupported(%s", i.Mnemonic)
		if i.Dst != nil {
			fmt.Fprintf(&b, " -> %s", i.Dst)
		}
		for _, a := range i.Args {
			fmt.Fprintf(&b, ", %s", a)
		}
		b.WriteByte(')')
		return b.String()
	}

	b.WriteString(i.Op.String())
	first := true
	writeArg := func(a Arg) {
		if first {
			b.WriteByte(' ')
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	if i.Dst != nil {
		writeArg(*i.Dst)
	}
	for _, a := range i.Args {
		writeArg(a)
	}
	return b.String()
}
