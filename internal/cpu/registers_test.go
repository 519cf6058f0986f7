package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPForcesBit5(t *testing.T) {
	var r Registers
	assert.Equal(t, uint8(0x20), r.GetP(), "bit 5 always reads 1 even with every flag clear")
}

func TestSetPGetPRoundTrip(t *testing.T) {
	for _, p := range []uint8{0x00, 0xFF, 0x81, 0x24, 0x5A} {
		var r Registers
		r.SetP(p)
		got := r.GetP()
		want := p | flag5
		assert.Equal(t, want, got, "SetP/GetP should round-trip with bit 5 forced to 1")
	}
}

func TestSetPIgnoresBit5OnInput(t *testing.T) {
	var r Registers
	r.SetP(0x00)
	assert.False(t, r.N)
	assert.False(t, r.C)
	assert.Equal(t, uint8(0x20), r.GetP())
}

func TestFlagStringReflectsEachBit(t *testing.T) {
	var r Registers
	r.N, r.V, r.B, r.D, r.I, r.Z, r.C = true, true, true, true, true, true, true
	assert.Equal(t, "NV-BDIZC", r.FlagString())

	var clear Registers
	assert.Equal(t, "nv-bdizc", clear.FlagString())
}
