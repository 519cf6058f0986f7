// Package debug provides the instrumentation surface a host wires onto
// cpu.CPU: an instruction-log ring buffer, breakpoint/watchpoint
// notifications, and memory/register snapshots for an interactive REPL.
// Grounded on the debug package shape in the go-jeebie example, adapted
// from Game Boy PPU/audio visualizers to 65xx register and memory state.
package debug

import (
	"fmt"

	"github.com/sixtyfive/sixtyfive/internal/cpu"
)

// StepMode selects how the CLI harness's run loop advances the CPU.
type StepMode int

const (
	// ModeRun advances freely until a breakpoint, watchpoint, or jam.
	ModeRun StepMode = iota
	// ModeSingleStep advances exactly one instruction per REPL command.
	ModeSingleStep
)

func (m StepMode) String() string {
	switch m {
	case ModeRun:
		return "run"
	case ModeSingleStep:
		return "step"
	default:
		return "unknown"
	}
}

// logCapacity is the instruction log's fixed size; the oldest entry is
// overwritten once full.
const logCapacity = 256

// Recorder implements cpu.Delegate, collecting instruction history and
// relaying breakpoint/watchpoint/interrupt/jam events to the host. All
// fields are safe to read after the CPU call that triggered them returns;
// Recorder does no concurrency control of its own, matching the CPU core's
// single-goroutine-driven contract.
type Recorder struct {
	log      [logCapacity]cpu.InstructionLogRecord
	logHead  int
	logCount int

	LastBreakpoint *uint16
	LastWatchpoint *WatchEvent
	Jammed         bool

	NMICount int
	IRQCount int
}

// WatchEvent captures a single watchpoint hit.
type WatchEvent struct {
	Addr uint16
	Kind cpu.WatchKind
	Val  uint8
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) InstructionLogged(c *cpu.CPU, rec cpu.InstructionLogRecord) {
	r.log[r.logHead] = rec
	r.logHead = (r.logHead + 1) % logCapacity
	if r.logCount < logCapacity {
		r.logCount++
	}
}

func (r *Recorder) BreakpointReached(c *cpu.CPU, addr uint16) {
	a := addr
	r.LastBreakpoint = &a
}

func (r *Recorder) WatchpointReached(c *cpu.CPU, addr uint16, kind cpu.WatchKind, val uint8) {
	r.LastWatchpoint = &WatchEvent{Addr: addr, Kind: kind, Val: val}
}

func (r *Recorder) CPUDidJam(c *cpu.CPU) { r.Jammed = true }

func (r *Recorder) NMIWillTrigger(c *cpu.CPU) {}
func (r *Recorder) NMIDidTrigger(c *cpu.CPU)  { r.NMICount++ }
func (r *Recorder) IRQWillTrigger(c *cpu.CPU) {}
func (r *Recorder) IRQDidTrigger(c *cpu.CPU)  { r.IRQCount++ }

// RecentInstructions returns up to n of the most recently logged
// instructions, oldest first.
func (r *Recorder) RecentInstructions(n int) []cpu.InstructionLogRecord {
	if n > r.logCount {
		n = r.logCount
	}
	out := make([]cpu.InstructionLogRecord, n)
	for i := 0; i < n; i++ {
		idx := (r.logHead - n + i + logCapacity) % logCapacity
		out[i] = r.log[idx]
	}
	return out
}

// CPUState is a point-in-time snapshot of the programmer-visible register
// file, formatted for a REPL's register dump.
type CPUState struct {
	A, X, Y, SP uint8
	PC          uint16
	Flags       string
	Clock       uint64
	Jammed      bool
}

func Snapshot(c *cpu.CPU) CPUState {
	return CPUState{
		A: c.A(), X: c.X(), Y: c.Y(), SP: c.SP(),
		PC:     c.PC(),
		Flags:  c.Flags(),
		Clock:  c.Clock(),
		Jammed: c.IsJammed(),
	}
}

func (s CPUState) String() string {
	return fmt.Sprintf("PC=%04X A=%02X X=%02X Y=%02X SP=%02X P=%s CYC=%d", s.PC, s.A, s.X, s.Y, s.SP, s.Flags, s.Clock)
}

// MemorySnapshot is a contiguous window of memory, read via a side-effect
// free bus access, for the REPL's memory dump and the disassembly view.
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// ReadMemorySnapshot reads length bytes starting at addr using read, which
// callers should bind to bus.Bus.ReadDasm so the dump never disturbs
// memory-mapped I/O.
func ReadMemorySnapshot(addr uint16, length int, read func(uint16) uint8) MemorySnapshot {
	bytes := make([]uint8, length)
	for i := 0; i < length; i++ {
		bytes[i] = read(addr + uint16(i))
	}
	return MemorySnapshot{StartAddr: addr, Bytes: bytes}
}

// HexDump renders a snapshot as 16-byte rows, address-prefixed.
func (m MemorySnapshot) HexDump() string {
	var out string
	for i := 0; i < len(m.Bytes); i += 16 {
		end := i + 16
		if end > len(m.Bytes) {
			end = len(m.Bytes)
		}
		out += fmt.Sprintf("%04X: ", m.StartAddr+uint16(i))
		for _, b := range m.Bytes[i:end] {
			out += fmt.Sprintf("%02X ", b)
		}
		out += "\n"
	}
	return out
}
