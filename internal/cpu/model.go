package cpu

// Model describes the per-chip differences the engine must account for:
// BCD support, which interrupt lines exist, whether RDY is wired up, the
// address bus width, and whether a memory-mapped processor port intercepts
// $0000/$0001. Grounded on the per-model table in the mos65xx reference
// package, which enumerates exactly these predicates per chip.
type Model struct {
	Name        string
	HasBCD      bool
	HasIRQ      bool
	HasNMI      bool
	HasReady    bool
	HasPort     bool
	AddressMask uint16
}

// Model identifiers accepted by SetModel.
const (
	MOS6502 = iota
	MOS6507
	MOS6510
	MOS8502
)

// Models maps a model identifier to its descriptor.
var Models = map[int]Model{
	MOS6502: {
		Name: "MOS 6502", HasBCD: true, HasIRQ: true, HasNMI: true,
		HasReady: true, AddressMask: 0xFFFF,
	},
	MOS6507: {
		// the 6507 (used in the Atari 2600) has only 13 address pins
		// bonded out; the upper three bits of every effective address
		// are simply not wired to anything and must be masked away.
		// its RDY pin is the textbook use case: the TIA holds it low
		// during sprite DMA.
		Name: "MOS 6507", HasBCD: true, HasIRQ: true, HasNMI: true,
		HasReady: true, AddressMask: 0x1FFF,
	},
	MOS6510: {
		Name: "MOS 6510", HasBCD: true, HasIRQ: true, HasNMI: true,
		HasReady: true, HasPort: true, AddressMask: 0xFFFF,
	},
	MOS8502: {
		// the 8502 is a 6510 with a selectable 1/2 MHz clock; the
		// cycle model itself is identical at either speed.
		Name: "MOS 8502", HasBCD: true, HasIRQ: true, HasNMI: true,
		HasReady: true, HasPort: true, AddressMask: 0xFFFF,
	},
}

// LookupModel returns the descriptor for a model identifier.
func LookupModel(id int) (Model, bool) {
	m, ok := Models[id]
	return m, ok
}
