package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRAMLoadAndRead(t *testing.T) {
	r := NewRAM()
	r.Load(0x0600, []uint8{0xA9, 0x10, 0x8D, 0x00, 0x02})
	assert.Equal(t, uint8(0xA9), r.Read(0x0600))
	assert.Equal(t, uint8(0x02), r.Read(0x0604))
}

func TestRAMReadDasmHasNoSideEffects(t *testing.T) {
	r := NewRAM()
	r.Write(0x1234, 0x42)
	before := r.Read(0x1234)
	_ = r.ReadDasm(0x1234)
	assert.Equal(t, before, r.Read(0x1234))
}

func TestRAMResetVector(t *testing.T) {
	r := NewRAM()
	r.Write(0xFFFC, 0x00)
	r.Write(0xFFFD, 0x80)
	assert.Equal(t, uint16(0x8000), r.ReadResetVector())
}

type fakeHost struct {
	external   uint8
	lastDir    uint8
	lastData   uint8
	notified   int
}

func (h *fakeHost) ExternalPortBits() uint8 { return h.external }
func (h *fakeHost) PortChanged(direction, data uint8) {
	h.lastDir, h.lastData = direction, data
	h.notified++
}

func TestPortDirectionGatesDataBits(t *testing.T) {
	ram := NewRAM()
	host := &fakeHost{external: 0xFF}
	port := NewPort(ram, host)

	port.Write(0x0000, 0x0F) // low nibble output, high nibble input
	port.Write(0x0001, 0xAA) // data register

	// output bits (low nibble) come from data; input bits (high nibble)
	// come from the external pull, which is all-1s here.
	got := port.Read(0x0001)
	assert.Equal(t, uint8(0xFA), got)
	assert.Equal(t, 2, host.notified)
}

func TestPortPassesThroughOtherAddresses(t *testing.T) {
	ram := NewRAM()
	port := NewPort(ram, nil)
	port.Write(0x2000, 0x42)
	assert.Equal(t, uint8(0x42), port.Read(0x2000))
}
