package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixtyfive/sixtyfive/internal/cpu"
)

func TestRecorderRingBufferOverwritesOldest(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < logCapacity+10; i++ {
		r.InstructionLogged(nil, cpu.InstructionLogRecord{Clock: uint64(i)})
	}
	recent := r.RecentInstructions(5)
	assert.Len(t, recent, 5)
	assert.Equal(t, uint64(logCapacity+5), recent[len(recent)-1].Clock)
}

func TestRecorderBreakpointAndWatchpoint(t *testing.T) {
	r := NewRecorder()
	r.BreakpointReached(nil, 0x8000)
	assert.NotNil(t, r.LastBreakpoint)
	assert.Equal(t, uint16(0x8000), *r.LastBreakpoint)

	r.WatchpointReached(nil, 0x0002, cpu.WatchWrite, 0x42)
	assert.Equal(t, cpu.WatchWrite, r.LastWatchpoint.Kind)
	assert.Equal(t, uint8(0x42), r.LastWatchpoint.Val)
}

func TestMemorySnapshotHexDump(t *testing.T) {
	data := map[uint16]uint8{0x0000: 0xAA, 0x0001: 0xBB}
	snap := ReadMemorySnapshot(0, 2, func(addr uint16) uint8 { return data[addr] })
	assert.Contains(t, snap.HexDump(), "AA BB")
}

func TestStepModeString(t *testing.T) {
	assert.Equal(t, "run", ModeRun.String())
	assert.Equal(t, "step", ModeSingleStep.String())
}
