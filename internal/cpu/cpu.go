package cpu

import (
	"errors"
	"fmt"
)

// ErrPrecondition wraps every API-boundary precondition violation the
// engine rejects outright rather than acting on. Callers test for it with
// errors.Is.
var ErrPrecondition = errors.New("precondition violation")

// Bus is everything the engine needs from its host. Defined here rather
// than imported from the bus package so that internal/bus (and any other
// memory implementation) satisfies it structurally, keeping this package
// free of a dependency on a concrete memory layout.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	ReadDasm(addr uint16) uint8
}

// ResetVectorReader lets a host supply the reset vector by a means other
// than reading $FFFC/$FFFD.
type ResetVectorReader interface {
	ReadResetVector() uint16
}

// WatchKind distinguishes the access that tripped a watchpoint.
type WatchKind uint8

const (
	WatchRead WatchKind = iota
	WatchWrite
)

func (k WatchKind) String() string {
	if k == WatchWrite {
		return "write"
	}
	return "read"
}

// Delegate is the host callback surface. Installing one is optional: CPU
// calls its methods only when a Delegate is set. An implementation must
// provide every method; hooks a host does not care about can have empty
// bodies. Grounded on go-jeebie's debug package shape.
type Delegate interface {
	CPUDidJam(c *CPU)
	IRQWillTrigger(c *CPU)
	IRQDidTrigger(c *CPU)
	NMIWillTrigger(c *CPU)
	NMIDidTrigger(c *CPU)
	BreakpointReached(c *CPU, addr uint16)
	WatchpointReached(c *CPU, addr uint16, kind WatchKind, val uint8)
	InstructionLogged(c *CPU, rec InstructionLogRecord)
}

// InstructionLogRecord is emitted once per completed instruction, on the
// instruction's last cycle.
type InstructionLogRecord struct {
	PC       uint16
	Opcode   uint8
	Mnemonic string
	Clock    uint64
	A, X, Y  uint8
	SP       uint8
	P        uint8
}

// CPU is the cycle-accurate engine. Every exported stepping method advances
// by whole cycles only; there is no way to observe a partially-completed
// bus access from outside the package.
type CPU struct {
	reg   Registers
	model Model
	bus   Bus
	delegate Delegate

	clock uint64
	rdy   bool

	jammed bool

	irqs interruptState

	breakpoints map[uint16]bool
	watchpoints map[uint16]bool

	plan    [8]planStep
	planLen int
	planPos int

	next tag

	// per-instruction scratch, valid only while a plan is in flight.
	op            opcodeEntry
	opcode        uint8
	effAddr       uint16
	wrongAddr     uint16
	operand       uint8
	brkHijack     bool
	interruptKind int8 // 0 = ordinary instruction, 1 = NMI, 2 = IRQ
}

// tag marks what the next Step() call must do once the current plan (if
// any) is drained.
type tag uint8

const (
	tagFetch tag = iota
	tagRunning
)

// NewCPU constructs a CPU for the given model, wired to bus. The CPU starts
// at a fetch boundary with no instruction in flight and PC zero; Reset loads
// PC from the reset vector.
func NewCPU(model Model, bus Bus) *CPU {
	c := &CPU{
		bus:         bus,
		rdy:         true,
		next:        tagFetch,
		breakpoints: make(map[uint16]bool),
		watchpoints: make(map[uint16]bool),
	}
	c.setModelUnchecked(model)
	return c
}

func (c *CPU) setModelUnchecked(model Model) { c.model = model }

// SetModel swaps the behavioral model (address masking, BCD availability,
// optional lines) without touching the register file or memory. Rejected
// with ErrPrecondition, without side effect, if called mid-instruction (a
// model swap while a multi-cycle addressing sequence is in flight would
// leave effAddr computed under the old address mask) or if it would drop
// processor-port support while a port is currently mapped onto the bus.
func (c *CPU) SetModel(model Model) error {
	if !c.InFetchPhase() {
		return fmt.Errorf("cpu: SetModel: not at an instruction boundary: %w", ErrPrecondition)
	}
	if c.model.HasPort && !model.HasPort {
		return fmt.Errorf("cpu: SetModel: target model has no processor port but one is mapped: %w", ErrPrecondition)
	}
	c.setModelUnchecked(model)
	return nil
}

// SetDelegate installs the host callback surface. Pass nil to detach it.
func (c *CPU) SetDelegate(d Delegate) {
	c.delegate = d
}

// SetRDY raises or lowers the RDY line. While low, read cycles do not
// execute (the clock still advances); write cycles are unaffected. Models
// the cartridge-bus-hold behavior used by 6507/6510 DMA carts. A no-op on
// a model that declares HasReady false, since such a chip has no RDY pin
// for a host to assert in the first place.
func (c *CPU) SetRDY(ready bool) {
	if !c.model.HasReady {
		return
	}
	c.rdy = ready
}

func (c *CPU) mask(addr uint16) uint16 {
	if c.model.AddressMask == 0 {
		return addr
	}
	return addr & c.model.AddressMask
}

func (c *CPU) busRead(addr uint16) uint8  { return c.bus.Read(c.mask(addr)) }
func (c *CPU) busWrite(addr uint16, v uint8) { c.bus.Write(c.mask(addr), v) }

func (c *CPU) readResetVector() uint16 {
	if rv, ok := c.bus.(ResetVectorReader); ok {
		return rv.ReadResetVector()
	}
	lo := c.busRead(0xFFFC)
	hi := c.busRead(0xFFFD)
	return uint16(hi)<<8 | uint16(lo)
}

// Reset performs the architectural 7-cycle reset sequence synchronously:
// two internal cycles, three suppressed stack pushes (modeled as reads, SP
// still decremented by 3), then the reset vector loaded into PC. I is set,
// D is cleared, B is set. Unlike instruction
// execution, reset is not steppable cycle-by-cycle; it is a lifecycle
// operation a host calls once at power-on or on a reset line pulse.
func (c *CPU) Reset() {
	for i := 0; i < 3; i++ {
		c.busRead(0x0100 | uint16(c.reg.SP))
		c.reg.SP--
	}
	c.reg.I = true
	c.reg.D = false
	c.reg.B = true
	c.reg.PC = c.readResetVector()
	c.reg.PC0 = c.reg.PC
	c.clock += 7
	c.jammed = false
	c.next = tagFetch
	c.planLen = 0
	c.planPos = 0
	c.irqs = interruptState{}
}

// IsJammed reports whether the CPU executed a locking illegal opcode and is
// permanently halted until Reset.
func (c *CPU) IsJammed() bool { return c.jammed }

// InFetchPhase reports whether the next Step() call will begin a new
// instruction (or interrupt sequence) rather than continue one in flight.
func (c *CPU) InFetchPhase() bool { return !c.jammed && c.next == tagFetch }

// Step advances the engine by exactly one bus cycle.
func (c *CPU) Step() {
	c.clock++
	if c.jammed {
		return
	}
	c.tickInterruptLines()
	c.pollInterrupts()

	if c.next == tagFetch {
		if !c.rdy {
			return
		}
		c.beginNext()
		return
	}

	cur := c.plan[c.planPos]
	if cur.isRead && !c.rdy {
		return
	}
	cur.fn(c)
	c.planPos++
	if c.planPos >= c.planLen {
		c.next = tagFetch
		c.finishInstruction()
	}
}

// finishInstruction runs once a plan drains: it notifies the delegate that
// an interrupt sequence completed, or logs the instruction that just ran.
func (c *CPU) finishInstruction() {
	switch c.interruptKind {
	case 1:
		if c.delegate != nil {
			c.delegate.NMIDidTrigger(c)
		}
	case 2:
		if c.delegate != nil {
			c.delegate.IRQDidTrigger(c)
		}
	default:
		if c.delegate != nil {
			c.delegate.InstructionLogged(c, InstructionLogRecord{
				PC:       c.reg.PC0,
				Opcode:   c.opcode,
				Mnemonic: c.op.mnemonic,
				Clock:    c.clock,
				A:        c.reg.A,
				X:        c.reg.X,
				Y:        c.reg.Y,
				SP:       c.reg.SP,
				P:        c.reg.GetP(),
			})
		}
	}
}

// StepN advances by n bus cycles.
func (c *CPU) StepN(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// StepInstruction advances until the next fetch boundary is reached, i.e.
// until the current instruction (or interrupt sequence) completes, plus the
// initial fetch boundary check: if already at one, it executes exactly one
// whole instruction.
func (c *CPU) StepInstruction() {
	if c.jammed {
		c.Step()
		return
	}
	if c.next == tagFetch {
		c.Step()
	}
	for c.next != tagFetch && !c.jammed {
		c.Step()
	}
}

// StepInstructionN calls StepInstruction n times.
func (c *CPU) StepInstructionN(n int) {
	for i := 0; i < n; i++ {
		c.StepInstruction()
	}
}

// FinishInstruction completes an in-flight instruction without starting a
// new one. A no-op if already at a fetch boundary.
func (c *CPU) FinishInstruction() {
	for c.next != tagFetch && !c.jammed {
		c.Step()
	}
}

// Accessors mirroring the programmer-visible register file.
func (c *CPU) A() uint8      { return c.reg.A }
func (c *CPU) X() uint8      { return c.reg.X }
func (c *CPU) Y() uint8      { return c.reg.Y }
func (c *CPU) SP() uint8     { return c.reg.SP }
func (c *CPU) PC() uint16    { return c.reg.PC }
func (c *CPU) PC0() uint16   { return c.reg.PC0 }
func (c *CPU) P() uint8      { return c.reg.GetP() }
func (c *CPU) SetP(p uint8)  { c.reg.SetP(p) }
func (c *CPU) Clock() uint64 { return c.clock }
func (c *CPU) Flags() string { return c.reg.FlagString() }

// SetA, SetX, SetY, SetSP, SetPC let a host/debugger poke the register file
// directly, e.g. from a REPL.
func (c *CPU) SetA(v uint8)   { c.reg.A = v }
func (c *CPU) SetX(v uint8)   { c.reg.X = v }
func (c *CPU) SetY(v uint8)   { c.reg.Y = v }
func (c *CPU) SetSP(v uint8)  { c.reg.SP = v }
func (c *CPU) SetPC(v uint16) { c.reg.PC = v; c.reg.PC0 = v }

// AddBreakpoint/RemoveBreakpoint manage the set of PC values that trigger
// Delegate.BreakpointReached at the start of the matching instruction's
// fetch cycle.
func (c *CPU) AddBreakpoint(addr uint16)    { c.breakpoints[addr] = true }
func (c *CPU) RemoveBreakpoint(addr uint16) { delete(c.breakpoints, addr) }

// AddWatchpoint/RemoveWatchpoint manage the set of addresses that trigger
// Delegate.WatchpointReached on any read or write.
func (c *CPU) AddWatchpoint(addr uint16)    { c.watchpoints[addr] = true }
func (c *CPU) RemoveWatchpoint(addr uint16) { delete(c.watchpoints, addr) }

// PullDownNmiLine/ReleaseNmiLine and their IRQ equivalents let multiple
// peripherals share an interrupt line without clobbering each other's
// assertion, identified by an arbitrary bitmask tag.
func (c *CPU) PullDownNmiLine(source InterruptSource) { c.pullDownNmiLine(source) }
func (c *CPU) ReleaseNmiLine(source InterruptSource)  { c.releaseNmiLine(source) }
func (c *CPU) PullDownIrqLine(source InterruptSource) { c.pullDownIrqLine(source) }
func (c *CPU) ReleaseIrqLine(source InterruptSource)  { c.releaseIrqLine(source) }
