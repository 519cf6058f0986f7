package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel6507MasksAddressSpace(t *testing.T) {
	m, ok := LookupModel(MOS6507)
	require := assert.New(t)
	require.True(ok)
	require.Equal(uint16(0x1FFF), m.AddressMask)
	require.False(m.HasPort, "the 6507 has no processor port")
}

func TestModel6510HasPortAndReady(t *testing.T) {
	m, ok := LookupModel(MOS6510)
	assert.True(t, ok)
	assert.True(t, m.HasPort)
	assert.True(t, m.HasReady)
}

func TestUnknownModelNotFound(t *testing.T) {
	_, ok := LookupModel(99)
	assert.False(t, ok)
}

func TestAllModelsHaveReadyLine(t *testing.T) {
	for id, m := range Models {
		assert.True(t, m.HasReady, "model %d (%s) should expose RDY", id, m.Name)
	}
}

func TestSetRDYIgnoredWithoutReadyLine(t *testing.T) {
	mem := &flatMem{}
	c := NewCPU(Model{HasReady: false, AddressMask: 0xFFFF}, mem)
	mem.load(0x0600, []uint8{0xA9, 0x42}) // LDA #$42
	mem.setResetVector(0x0600)
	c.Reset()

	c.SetRDY(false)
	c.StepInstruction()
	assert.Equal(t, uint8(0x42), c.A(), "a model without a RDY line ignores SetRDY")
}

func TestSetModelRejectsMidInstruction(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(0x0600, []uint8{0xA9, 0x42}) // LDA #$42
	mem.setResetVector(0x0600)
	c.Reset()
	c.Step() // consume the opcode fetch, leaving an instruction in flight

	err := c.SetModel(Models[MOS6507])
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, Models[MOS6502], c.model, "a rejected SetModel leaves the model untouched")
}

func TestSetModelRejectsDroppingMappedPort(t *testing.T) {
	c, _ := newTestCPU()
	require.NoError(t, c.SetModel(Models[MOS6510]))

	err := c.SetModel(Models[MOS6502])
	assert.ErrorIs(t, err, ErrPrecondition, "dropping port support while a port is mapped is rejected")
}

func TestSetModelAcceptsAtFetchBoundary(t *testing.T) {
	c, _ := newTestCPU()
	require.NoError(t, c.SetModel(Models[MOS6507]))
	assert.Equal(t, Models[MOS6507], c.model)
}
