package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatMem is a minimal 64K RAM used directly by package tests, avoiding a
// dependency on the bus package (which itself depends on nothing from cpu)
// in favor of a tiny in-test memory fake.
type flatMem struct {
	data [0x10000]uint8
}

func (m *flatMem) Read(addr uint16) uint8     { return m.data[addr] }
func (m *flatMem) Write(addr uint16, v uint8) { m.data[addr] = v }
func (m *flatMem) ReadDasm(addr uint16) uint8 { return m.data[addr] }
func (m *flatMem) load(addr uint16, bytes []uint8) {
	copy(m.data[addr:], bytes)
}
func (m *flatMem) setResetVector(addr uint16) {
	m.data[0xFFFC] = uint8(addr)
	m.data[0xFFFD] = uint8(addr >> 8)
}

func newTestCPU() (*CPU, *flatMem) {
	mem := &flatMem{}
	c := NewCPU(Models[MOS6502], mem)
	return c, mem
}

func TestReadDasmHasNoSideEffects(t *testing.T) {
	_, mem := newTestCPU()
	mem.load(0x1000, []uint8{0xAA})
	before := mem.data[0x1000]
	_ = mem.ReadDasm(0x1000)
	assert.Equal(t, before, mem.data[0x1000])
}

func TestResetLoadsVectorAndSetsFlags(t *testing.T) {
	c, mem := newTestCPU()
	mem.setResetVector(0x8000)
	c.SetSP(0xFF)
	c.Reset()

	assert.Equal(t, uint16(0x8000), c.PC())
	assert.Equal(t, uint8(0xFC), c.SP(), "reset decrements SP by 3 via suppressed pushes")
	assert.True(t, c.reg.I)
	assert.False(t, c.reg.D)
	assert.True(t, c.InFetchPhase())
	assert.Equal(t, uint64(7), c.Clock())
}

func TestStepInstructionNEqualsRepeatedStepInstruction(t *testing.T) {
	c1, mem1 := newTestCPU()
	mem1.load(0x0600, []uint8{0xA9, 0x10, 0xA9, 0x20, 0xA9, 0x30})
	mem1.setResetVector(0x0600)
	c1.Reset()
	c1.StepInstructionN(3)

	c2, mem2 := newTestCPU()
	mem2.load(0x0600, []uint8{0xA9, 0x10, 0xA9, 0x20, 0xA9, 0x30})
	mem2.setResetVector(0x0600)
	c2.Reset()
	c2.StepInstruction()
	c2.StepInstruction()
	c2.StepInstruction()

	assert.Equal(t, c1.A(), c2.A())
	assert.Equal(t, c1.PC(), c2.PC())
	assert.Equal(t, c1.Clock(), c2.Clock())
}

func TestImmediateTakesTwoCycles(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0xA9, 0x42})
	mem.setResetVector(0x0600)
	c.Reset()
	start := c.Clock()
	c.StepInstruction()
	assert.Equal(t, uint64(2), c.Clock()-start)
	assert.Equal(t, uint8(0x42), c.A())
}

func TestAbsoluteXPageCrossTakesExtraCycle(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0xBD, 0xFF, 0x20}) // LDA $20FF,X
	mem.setResetVector(0x0600)
	c.Reset()
	c.SetX(0x01) // 0x20FF + 1 = 0x2100, crosses the page

	start := c.Clock()
	c.StepInstruction()
	assert.Equal(t, uint64(5), c.Clock()-start, "crossing a page adds a cycle to the 4-cycle base")

	c2, mem2 := newTestCPU()
	mem2.load(0x0600, []uint8{0xBD, 0x00, 0x20}) // LDA $2000,X
	mem2.setResetVector(0x0600)
	c2.Reset()
	c2.SetX(0x01)
	start2 := c2.Clock()
	c2.StepInstruction()
	assert.Equal(t, uint64(4), c2.Clock()-start2, "no crossing stays at 4 cycles")
}

// Fibonacci sequence program, a standard 6502 smoke test: loops ten times
// writing consecutive Fibonacci terms into $0200-$0209, counting the
// iteration in X, then falls through to a BRK once the count is reached.
func TestFibonacciProgram(t *testing.T) {
	c, mem := newTestCPU()
	program := []uint8{
		0xA2, 0x00, // LDX #$00
		0xA9, 0x01, // LDA #$01
		0x85, 0x00, // STA $00       ; a
		0xA9, 0x01, // LDA #$01
		0x85, 0x01, // STA $01       ; b
		// loop:
		0xA5, 0x00, // LDA $00
		0x9D, 0x00, 0x02, // STA $0200,X
		0x18,       // CLC
		0x65, 0x01, // ADC $01
		0x85, 0x02, // STA $02       ; t = a+b
		0xA5, 0x01, // LDA $01
		0x85, 0x00, // STA $00       ; a = b
		0xA5, 0x02, // LDA $02
		0x85, 0x01, // STA $01       ; b = t
		0xE8,       // INX
		0xE0, 0x0A, // CPX #$0A
		0xD0, 0xE9, // BNE loop
		0x00,       // BRK
	}
	mem.load(0x0600, program)
	mem.setResetVector(0x0600)
	c.Reset()

	for i := 0; i < 500 && mem.data[c.PC()] != 0x00; i++ {
		c.StepInstruction()
	}

	require.Equal(t, uint8(0x00), mem.data[c.PC()], "runs until the opcode at PC is BRK")
	want := []uint8{1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	for i, w := range want {
		assert.Equal(t, w, mem.data[0x0200+uint16(i)], "fib[%d]", i)
	}
}

// JMP (indirect) does not carry into the high byte of the pointer when the
// low byte is $FF: it wraps within the same page instead.
func TestJmpIndirectPageBoundaryBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0x6C, 0xFF, 0x30}) // JMP ($30FF)
	mem.data[0x30FF] = 0x40
	mem.data[0x3000] = 0x80 // wrap reads here, NOT $3100
	mem.data[0x3100] = 0x50
	mem.setResetVector(0x0600)
	c.Reset()

	start := c.Clock()
	c.StepInstruction()
	assert.Equal(t, uint16(0x8040), c.PC())
	assert.Equal(t, uint64(5), c.Clock()-start)
}

func TestAdcBCDScenario(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0x69, 0x27}) // ADC #$27
	mem.setResetVector(0x0600)
	c.Reset()
	c.reg.D = true
	c.SetA(0x15)
	c.reg.C = false

	c.StepInstruction()
	assert.Equal(t, uint8(0x42), c.A())
	assert.False(t, c.reg.C)
}

// A BRK whose push sequence overlaps an asserted NMI line is serviced
// through the NMI vector, but still pushes P with B=1. The NMI must assert
// after BRK's opcode fetch (cycle 1) and before its vector-low read (cycle
// 6), or it is consumed at the fetch boundary instead as a standalone NMI.
func TestNmiHijacksBrk(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0x00, 0x00}) // BRK
	mem.data[0xFFFA] = 0x00
	mem.data[0xFFFB] = 0x40 // NMI vector -> $4000
	mem.data[0xFFFE] = 0x00
	mem.data[0xFFFF] = 0x50 // IRQ/BRK vector -> $5000, must NOT be used
	mem.setResetVector(0x0600)
	c.Reset()
	c.SetSP(0xFD)

	c.Step()              // cycle 1: BRK's own opcode fetch
	c.PullDownNmiLine(1)  // assert during the BRK sequence's cycle 2
	c.FinishInstruction() // run the remaining (hijacked) push/vector cycles

	assert.Equal(t, uint16(0x4000), c.PC(), "NMI line asserted during BRK's push sequence steals the vector")
	pushedP := mem.data[0x0100+int(c.SP())+1]
	assert.True(t, pushedP&flagB != 0, "B is still set on the pushed status byte even though NMI served it")
}

// RDY held low freezes the CPU on its next read cycle; registers and memory
// do not change until it is released.
func TestRdyFreezesOnReadCycles(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0xA9, 0x42}) // LDA #$42
	mem.setResetVector(0x0600)
	c.Reset()

	c.Step() // consume the opcode fetch
	c.SetRDY(false)

	a := c.A()
	pc := c.PC()
	clk := c.Clock()
	for i := 0; i < 5; i++ {
		c.Step()
	}
	assert.Equal(t, a, c.A(), "A must not change while RDY is low")
	assert.Equal(t, pc, c.PC())
	assert.Greater(t, c.Clock(), clk, "the clock still advances while frozen")

	c.SetRDY(true)
	c.StepInstruction()
	assert.Equal(t, uint8(0x42), c.A())
}

func TestJammedCpuNeverResumesWithoutReset(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0x02}) // JAM
	mem.setResetVector(0x0600)
	c.Reset()
	c.StepInstruction()
	require.True(t, c.IsJammed())

	pc := c.PC()
	c.StepInstructionN(10)
	assert.True(t, c.IsJammed())
	assert.Equal(t, pc, c.PC())

	c.Reset()
	assert.False(t, c.IsJammed())
}
