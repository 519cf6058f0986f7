// Package disasm formats 65xx instructions for the instruction log and the
// CLI's interactive debugger. It is a pure function of three bytes and an
// address; it performs no bus access itself, so callers are responsible for
// fetching bytes through a side-effect-free read (bus.Bus.ReadDasm).
package disasm

import (
	"fmt"

	"github.com/sixtyfive/sixtyfive/internal/cpu"
)

// Instruction is one disassembled line: the address it starts at, its raw
// bytes, and its formatted text.
type Instruction struct {
	Addr  uint16
	Bytes []uint8
	Text  string
}

// modeLen is the instruction length (opcode byte included) for every
// addressing mode, used to know how many more bytes to read and how far to
// advance to the next instruction.
var modeLen = map[cpu.AddrMode]int{
	cpu.Implied:     1,
	cpu.Accumulator: 1,
	cpu.Immediate:   2,
	cpu.ZeroPage:    2,
	cpu.ZeroPageX:   2,
	cpu.ZeroPageY:   2,
	cpu.Absolute:    3,
	cpu.AbsoluteX:   3,
	cpu.AbsoluteY:   3,
	cpu.IndirectX:   2,
	cpu.IndirectY:   2,
	cpu.Indirect:    3,
	cpu.Relative:    2,
}

// Disassemble decodes the instruction at addr, reading up to two more bytes
// via read as needed by its addressing mode.
func Disassemble(addr uint16, mnemonic string, mode cpu.AddrMode, illegal bool, read func(uint16) uint8) Instruction {
	n := modeLen[mode]
	if n == 0 {
		n = 1
	}
	raw := make([]uint8, n)
	raw[0] = read(addr)
	for i := 1; i < n; i++ {
		raw[i] = read(addr + uint16(i))
	}

	star := " "
	if illegal {
		star = "*"
	}

	var operand string
	switch mode {
	case cpu.Implied:
		operand = ""
	case cpu.Accumulator:
		operand = "A"
	case cpu.Immediate:
		operand = fmt.Sprintf("#$%02X", raw[1])
	case cpu.ZeroPage:
		operand = fmt.Sprintf("$%02X", raw[1])
	case cpu.ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", raw[1])
	case cpu.ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", raw[1])
	case cpu.Absolute:
		operand = fmt.Sprintf("$%04X", uint16(raw[2])<<8|uint16(raw[1]))
	case cpu.AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", uint16(raw[2])<<8|uint16(raw[1]))
	case cpu.AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", uint16(raw[2])<<8|uint16(raw[1]))
	case cpu.IndirectX:
		operand = fmt.Sprintf("($%02X,X)", raw[1])
	case cpu.IndirectY:
		operand = fmt.Sprintf("($%02X),Y", raw[1])
	case cpu.Indirect:
		operand = fmt.Sprintf("($%04X)", uint16(raw[2])<<8|uint16(raw[1]))
	case cpu.Relative:
		target := addr + 2 + uint16(int16(int8(raw[1])))
		operand = fmt.Sprintf("$%04X", target)
	}

	var text string
	if operand != "" {
		text = fmt.Sprintf("%s%s %s", star, mnemonic, operand)
	} else {
		text = fmt.Sprintf("%s%s", star, mnemonic)
	}

	return Instruction{Addr: addr, Bytes: raw, Text: text}
}

// DisassembleAt decodes the instruction whose opcode byte lives at addr,
// looking its mnemonic/mode up in the cpu package's opcode table.
func DisassembleAt(addr uint16, read func(uint16) uint8) Instruction {
	info := cpu.Lookup(read(addr))
	return Disassemble(addr, info.Mnemonic, info.Mode, info.Illegal, read)
}

// Len reports how many bytes an instruction with addressing mode mode occupies, for callers
// walking memory one instruction at a time without fully formatting each.
func Len(mode cpu.AddrMode) int {
	n := modeLen[mode]
	if n == 0 {
		return 1
	}
	return n
}
