package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixtyfive/sixtyfive/internal/cpu"
)

func memReader(bytes map[uint16]uint8) func(uint16) uint8 {
	return func(addr uint16) uint8 { return bytes[addr] }
}

func TestDisassembleImmediate(t *testing.T) {
	read := memReader(map[uint16]uint8{0x0600: 0xA9, 0x0601: 0x42})
	inst := Disassemble(0x0600, "LDA", cpu.Immediate, false, read)
	assert.Equal(t, " LDA #$42", inst.Text)
	assert.Equal(t, []uint8{0xA9, 0x42}, inst.Bytes)
}

func TestDisassembleIndirectY(t *testing.T) {
	read := memReader(map[uint16]uint8{0x0600: 0xB1, 0x0601: 0x20})
	inst := Disassemble(0x0600, "LDA", cpu.IndirectY, false, read)
	assert.Equal(t, " LDA ($20),Y", inst.Text)
}

func TestDisassembleRelativeResolvesAbsoluteTarget(t *testing.T) {
	read := memReader(map[uint16]uint8{0x0600: 0xF0, 0x0601: 0x05})
	inst := Disassemble(0x0600, "BEQ", cpu.Relative, false, read)
	assert.Equal(t, " BEQ $0607", inst.Text, "target = PC after the instruction (0602) + signed offset (5)")
}

func TestDisassembleMarksIllegalOpcodes(t *testing.T) {
	read := memReader(map[uint16]uint8{0x0600: 0x07, 0x0601: 0x10})
	inst := Disassemble(0x0600, "SLO", cpu.ZeroPage, true, read)
	assert.Equal(t, "*SLO $10", inst.Text)
}

func TestDisassembleAtUsesOpcodeTable(t *testing.T) {
	read := memReader(map[uint16]uint8{0x0600: 0xEA})
	inst := DisassembleAt(0x0600, read)
	assert.Equal(t, " NOP", inst.Text)
}
