package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdcBinary(t *testing.T) {
	c := &CPU{model: Models[MOS6502]}
	c.reg.A = 0x50
	c.reg.C = false
	c.adc(0x50)
	assert.Equal(t, uint8(0xA0), c.reg.A)
	assert.True(t, c.reg.V, "signed overflow from two positive operands")
	assert.True(t, c.reg.N)
	assert.False(t, c.reg.C)
}

func TestAdcBCD(t *testing.T) {
	c := &CPU{model: Models[MOS6502]}
	c.reg.D = true
	c.reg.A = 0x15
	c.reg.C = false
	c.adc(0x27)
	assert.Equal(t, uint8(0x42), c.reg.A, "15 + 27 in BCD is 42")
	assert.False(t, c.reg.C)
}

func TestAdcBCDCarry(t *testing.T) {
	c := &CPU{model: Models[MOS6502]}
	c.reg.D = true
	c.reg.A = 0x99
	c.reg.C = false
	c.adc(0x01)
	assert.Equal(t, uint8(0x00), c.reg.A)
	assert.True(t, c.reg.C, "99 + 01 in BCD carries out to 100")
}

func TestSbcBCD(t *testing.T) {
	c := &CPU{model: Models[MOS6502]}
	c.reg.D = true
	c.reg.A = 0x42
	c.reg.C = true // no borrow
	c.sbc(0x15)
	assert.Equal(t, uint8(0x27), c.reg.A)
	assert.True(t, c.reg.C)
}

func TestBCDDisabledOnModelWithoutIt(t *testing.T) {
	c := &CPU{model: Model{HasBCD: false}}
	c.reg.D = true
	c.reg.A = 0x15
	c.reg.C = false
	c.adc(0x27)
	assert.Equal(t, uint8(0x3C), c.reg.A, "without BCD support, D is ignored and ADC is binary")
}

func TestCmp(t *testing.T) {
	c := &CPU{}
	c.cmp(0x10, 0x10)
	assert.True(t, c.reg.Z)
	assert.True(t, c.reg.C)
	assert.False(t, c.reg.N)

	c.cmp(0x05, 0x10)
	assert.False(t, c.reg.Z)
	assert.False(t, c.reg.C)
}

func TestAslSetsCarryFromBit7(t *testing.T) {
	c := &CPU{}
	r := c.asl(0x81)
	assert.Equal(t, uint8(0x02), r)
	assert.True(t, c.reg.C)
}

func TestRorRotatesCarryIntoBit7(t *testing.T) {
	c := &CPU{}
	c.reg.C = true
	r := c.ror(0x01)
	assert.Equal(t, uint8(0x80), r)
	assert.True(t, c.reg.C, "bit 0 of the input becomes the new carry")
}
