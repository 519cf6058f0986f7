// Package cpu implements the cycle-accurate fetch-decode-execute engine for
// the MOS Technology 65xx family (6502, 6507, 6510, 8502).
package cpu

// Registers holds the externally observable register file of a 65xx chip.
//
// adl, adh and idl are internal address latches used by the multi-cycle
// addressing modes; ovl is the page-crossing overflow latch. None of these
// four are part of the programmer-visible register set, but modeling them
// explicitly (rather than as locals inside the step function) keeps every
// addressing-mode sequence resumable one cycle at a time.
type Registers struct {
	A, X, Y, SP uint8
	PC          uint16
	PC0         uint16

	N, V, B, D, I, Z, C bool

	adl, adh, idl uint8
	ovl           bool
}

// flagBit positions within the packed status byte, matching the physical
// chip's NV-BDIZC layout. Bit 5 has no flag of its own and always reads 1.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flag5 uint8 = 1 << 5
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

// GetP packs the status flags into a byte, bit 5 forced to 1.
func (r *Registers) GetP() uint8 {
	var p uint8 = flag5
	if r.N {
		p |= flagN
	}
	if r.V {
		p |= flagV
	}
	if r.B {
		p |= flagB
	}
	if r.D {
		p |= flagD
	}
	if r.I {
		p |= flagI
	}
	if r.Z {
		p |= flagZ
	}
	if r.C {
		p |= flagC
	}
	return p
}

// SetP unpacks a status byte into the individual flags. Bit 5 is ignored on
// the way in (it is not stored, only synthesized on read by GetP).
func (r *Registers) SetP(p uint8) {
	r.N = p&flagN != 0
	r.V = p&flagV != 0
	r.B = p&flagB != 0
	r.D = p&flagD != 0
	r.I = p&flagI != 0
	r.Z = p&flagZ != 0
	r.C = p&flagC != 0
}

// setZN updates the Z and N flags from a computed result byte, the single
// most common flag update shared by almost every instruction.
func (r *Registers) setZN(b uint8) {
	r.Z = b == 0
	r.N = b&0x80 != 0
}

// FlagString renders the 8-character NV-BDIZC flag dump used by the
// disassembler and instruction log (lowercase = cleared).
func (r *Registers) FlagString() string {
	out := [8]byte{'n', 'v', '-', 'b', 'd', 'i', 'z', 'c'}
	if r.N {
		out[0] = 'N'
	}
	if r.V {
		out[1] = 'V'
	}
	if r.B {
		out[3] = 'B'
	}
	if r.D {
		out[4] = 'D'
	}
	if r.I {
		out[5] = 'I'
	}
	if r.Z {
		out[6] = 'Z'
	}
	if r.C {
		out[7] = 'C'
	}
	return string(out[:])
}
