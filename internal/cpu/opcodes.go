package cpu

// AddrMode tags the addressing mode of an opcode table entry.
type AddrMode uint8

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	IndirectX
	IndirectY
	Indirect
	Relative
)

// category groups opcodes by the shape of their microcycle sequence. The
// engine dispatches on (mode, category) to build the per-instruction cycle
// plan, generalized from a one-call-per-instruction addrMode.read/write
// split into a one-call-per-cycle plan.
type category uint8

const (
	catRead        category = iota // operand read, register/flags updated, no write
	catWrite                       // register value stored to the operand address
	catRMW                         // read, dummy write, final write (ASL/INC/... and illegal combos)
	catAccumulator                 // RMW-shaped op applied to A directly, only a dummy read at PC
	catImplied                     // single-byte register-only op
	catBranch                      // conditional relative branch
	catJMP                         // JMP absolute
	catJMPIndirect                 // JMP (indirect), with the page-wrap bug
	catJSR
	catRTS
	catRTI
	catBRK
	catPush
	catPull
	catJam // locking illegal opcode
)

// execFunc is the per-opcode operation. Its meaning depends on category:
// catRead/catImplied ignore the return value; catRMW/catAccumulator return
// the value to write back; catWrite ignores the operand and returns the
// byte to store; catPush returns the byte to push; catPull is called with
// the pulled byte and its return value is ignored.
type execFunc func(c *CPU, operand uint8) uint8

type opcodeEntry struct {
	mnemonic string
	mode     AddrMode
	cat      category
	exec     execFunc
	cond     func(c *CPU) bool // catBranch only
	illegal  bool
	unstable bool
}

func reg(get func(c *CPU) *uint8) execFunc {
	return func(c *CPU, operand uint8) uint8 {
		*get(c) = operand
		c.reg.setZN(operand)
		return 0
	}
}

func store(get func(c *CPU) uint8) execFunc {
	return func(c *CPU, _ uint8) uint8 {
		return get(c)
	}
}

func transfer(from func(c *CPU) uint8, to func(c *CPU) *uint8, setFlags bool) execFunc {
	return func(c *CPU, _ uint8) uint8 {
		v := from(c)
		*to(c) = v
		if setFlags {
			c.reg.setZN(v)
		}
		return 0
	}
}

var (
	getA  = func(c *CPU) *uint8 { return &c.reg.A }
	getX  = func(c *CPU) *uint8 { return &c.reg.X }
	getY  = func(c *CPU) *uint8 { return &c.reg.Y }
	getSP = func(c *CPU) *uint8 { return &c.reg.SP }
)

func incDec(delta int8) execFunc {
	return func(c *CPU, operand uint8) uint8 {
		r := operand + uint8(delta)
		c.reg.setZN(r)
		return r
	}
}

func incDecReg(get func(c *CPU) *uint8, delta int8) execFunc {
	return func(c *CPU, _ uint8) uint8 {
		p := get(c)
		*p = *p + uint8(delta)
		c.reg.setZN(*p)
		return 0
	}
}

func flagSet(get func(r *Registers) *bool, v bool) execFunc {
	return func(c *CPU, _ uint8) uint8 {
		*get(&c.reg) = v
		return 0
	}
}

func logical(op func(a, b uint8) uint8) execFunc {
	return func(c *CPU, operand uint8) uint8 {
		c.reg.A = op(c.reg.A, operand)
		c.reg.setZN(c.reg.A)
		return 0
	}
}

func shiftMem(f func(c *CPU, b uint8) uint8) execFunc {
	return func(c *CPU, operand uint8) uint8 {
		return f(c, operand)
	}
}

// rmwCombine builds the illegal "shift/inc-dec then combine with A"
// opcodes (SLO/RLA/SRE/RRA/DCP/ISC): the memory write-back is just the
// shifted/incremented value, while the accumulator or flags also get
// updated from a second logical step, pairing a shift/increment primitive
// with a combine primitive the way slo()/rla()/sre()/rra()/dcp()/isb() do.
func rmwCombine(shift func(c *CPU, b uint8) uint8, combine func(c *CPU, shifted uint8)) execFunc {
	return func(c *CPU, operand uint8) uint8 {
		shifted := shift(c, operand)
		combine(c, shifted)
		return shifted
	}
}

func nopExec(c *CPU, _ uint8) uint8 { return 0 }

// OpcodeInfo is the subset of an opcode table entry useful to callers
// outside the package (the disassembler, the CLI's instruction log).
type OpcodeInfo struct {
	Mnemonic string
	Mode     AddrMode
	Illegal  bool
	Unstable bool
}

// Lookup returns the decoded shape of an opcode byte without exposing the
// internal exec closures.
func Lookup(opcode uint8) OpcodeInfo {
	e := opcodes[opcode]
	return OpcodeInfo{Mnemonic: e.mnemonic, Mode: e.mode, Illegal: e.illegal, Unstable: e.unstable}
}

// opcodes is the 256-entry dispatch table: opcode byte -> mnemonic,
// addressing mode, cycle-plan category and operation. Mnemonics and illegal
// opcode coverage (SLO, RLA, SRE, RRA, SAX, LAX, DCP, ISC, ANC, ALR, ARR,
// AXS, LAS, XAA, AHX, SHY, SHX, TAS) and the locking-JAM opcode list follow
// the standard NMOS 6502 table, restructured from (ncycles, extracycle,
// exec, addrMode-with-read/write) into (mode, category, exec) since cycle
// counts are now emergent from the
// microcode engine rather than stored per opcode.
var opcodes [256]opcodeEntry

func init() {
	set := func(op uint8, mnemonic string, mode AddrMode, cat category, exec execFunc) {
		opcodes[op] = opcodeEntry{mnemonic: mnemonic, mode: mode, cat: cat, exec: exec}
	}
	setIllegal := func(op uint8, mnemonic string, mode AddrMode, cat category, exec execFunc, unstable bool) {
		opcodes[op] = opcodeEntry{mnemonic: mnemonic, mode: mode, cat: cat, exec: exec, illegal: true, unstable: unstable}
	}
	setBranch := func(op uint8, mnemonic string, cond func(c *CPU) bool) {
		opcodes[op] = opcodeEntry{mnemonic: mnemonic, mode: Relative, cat: catBranch, cond: cond}
	}
	setJam := func(op uint8) {
		opcodes[op] = opcodeEntry{mnemonic: "JAM", mode: Implied, cat: catJam, illegal: true}
	}

	and := logical(func(a, b uint8) uint8 { return a & b })
	ora := logical(func(a, b uint8) uint8 { return a | b })
	eor := logical(func(a, b uint8) uint8 { return a ^ b })

	adc := func(c *CPU, operand uint8) uint8 { c.adc(operand); return 0 }
	sbc := func(c *CPU, operand uint8) uint8 { c.sbc(operand); return 0 }
	bit := func(c *CPU, operand uint8) uint8 {
		c.reg.Z = c.reg.A&operand == 0
		c.reg.N = operand&0x80 != 0
		c.reg.V = operand&0x40 != 0
		return 0
	}
	cmpA := func(c *CPU, operand uint8) uint8 { c.cmp(c.reg.A, operand); return 0 }
	cmpX := func(c *CPU, operand uint8) uint8 { c.cmp(c.reg.X, operand); return 0 }
	cmpY := func(c *CPU, operand uint8) uint8 { c.cmp(c.reg.Y, operand); return 0 }

	aslMem := shiftMem(func(c *CPU, b uint8) uint8 { return c.asl(b) })
	lsrMem := shiftMem(func(c *CPU, b uint8) uint8 { return c.lsr(b) })
	rolMem := shiftMem(func(c *CPU, b uint8) uint8 { return c.rol(b) })
	rorMem := shiftMem(func(c *CPU, b uint8) uint8 { return c.ror(b) })

	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x09, Immediate}, {0x05, ZeroPage}, {0x15, ZeroPageX}, {0x0D, Absolute}, {0x1D, AbsoluteX}, {0x19, AbsoluteY}, {0x01, IndirectX}, {0x11, IndirectY}} {
		set(m.opc, "ORA", m.mode, catRead, ora)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x29, Immediate}, {0x25, ZeroPage}, {0x35, ZeroPageX}, {0x2D, Absolute}, {0x3D, AbsoluteX}, {0x39, AbsoluteY}, {0x21, IndirectX}, {0x31, IndirectY}} {
		set(m.opc, "AND", m.mode, catRead, and)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x49, Immediate}, {0x45, ZeroPage}, {0x55, ZeroPageX}, {0x4D, Absolute}, {0x5D, AbsoluteX}, {0x59, AbsoluteY}, {0x41, IndirectX}, {0x51, IndirectY}} {
		set(m.opc, "EOR", m.mode, catRead, eor)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x69, Immediate}, {0x65, ZeroPage}, {0x75, ZeroPageX}, {0x6D, Absolute}, {0x7D, AbsoluteX}, {0x79, AbsoluteY}, {0x61, IndirectX}, {0x71, IndirectY}} {
		set(m.opc, "ADC", m.mode, catRead, adc)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xE9, Immediate}, {0xE5, ZeroPage}, {0xF5, ZeroPageX}, {0xED, Absolute}, {0xFD, AbsoluteX}, {0xF9, AbsoluteY}, {0xE1, IndirectX}, {0xF1, IndirectY}} {
		set(m.opc, "SBC", m.mode, catRead, sbc)
	}
	setIllegal(0xEB, "SBC", Immediate, catRead, sbc, false)
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xC9, Immediate}, {0xC5, ZeroPage}, {0xD5, ZeroPageX}, {0xCD, Absolute}, {0xDD, AbsoluteX}, {0xD9, AbsoluteY}, {0xC1, IndirectX}, {0xD1, IndirectY}} {
		set(m.opc, "CMP", m.mode, catRead, cmpA)
	}
	set(0xE0, "CPX", Immediate, catRead, cmpX)
	set(0xE4, "CPX", ZeroPage, catRead, cmpX)
	set(0xEC, "CPX", Absolute, catRead, cmpX)
	set(0xC0, "CPY", Immediate, catRead, cmpY)
	set(0xC4, "CPY", ZeroPage, catRead, cmpY)
	set(0xCC, "CPY", Absolute, catRead, cmpY)
	set(0x24, "BIT", ZeroPage, catRead, bit)
	set(0x2C, "BIT", Absolute, catRead, bit)

	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xA9, Immediate}, {0xA5, ZeroPage}, {0xB5, ZeroPageX}, {0xAD, Absolute}, {0xBD, AbsoluteX}, {0xB9, AbsoluteY}, {0xA1, IndirectX}, {0xB1, IndirectY}} {
		set(m.opc, "LDA", m.mode, catRead, reg(getA))
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xA2, Immediate}, {0xA6, ZeroPage}, {0xB6, ZeroPageY}, {0xAE, Absolute}, {0xBE, AbsoluteY}} {
		set(m.opc, "LDX", m.mode, catRead, reg(getX))
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xA0, Immediate}, {0xA4, ZeroPage}, {0xB4, ZeroPageX}, {0xAC, Absolute}, {0xBC, AbsoluteX}} {
		set(m.opc, "LDY", m.mode, catRead, reg(getY))
	}

	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x85, ZeroPage}, {0x95, ZeroPageX}, {0x8D, Absolute}, {0x9D, AbsoluteX}, {0x99, AbsoluteY}, {0x81, IndirectX}, {0x91, IndirectY}} {
		set(m.opc, "STA", m.mode, catWrite, store(func(c *CPU) uint8 { return c.reg.A }))
	}
	set(0x86, "STX", ZeroPage, catWrite, store(func(c *CPU) uint8 { return c.reg.X }))
	set(0x96, "STX", ZeroPageY, catWrite, store(func(c *CPU) uint8 { return c.reg.X }))
	set(0x8E, "STX", Absolute, catWrite, store(func(c *CPU) uint8 { return c.reg.X }))
	set(0x84, "STY", ZeroPage, catWrite, store(func(c *CPU) uint8 { return c.reg.Y }))
	set(0x94, "STY", ZeroPageX, catWrite, store(func(c *CPU) uint8 { return c.reg.Y }))
	set(0x8C, "STY", Absolute, catWrite, store(func(c *CPU) uint8 { return c.reg.Y }))

	set(0xAA, "TAX", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.A }, getX, true))
	set(0xA8, "TAY", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.A }, getY, true))
	set(0xBA, "TSX", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.SP }, getX, true))
	set(0x8A, "TXA", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.X }, getA, true))
	set(0x9A, "TXS", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.X }, getSP, false))
	set(0x98, "TYA", Implied, catImplied, transfer(func(c *CPU) uint8 { return c.reg.Y }, getA, true))

	set(0x48, "PHA", Implied, catPush, func(c *CPU, _ uint8) uint8 { return c.reg.A })
	set(0x08, "PHP", Implied, catPush, func(c *CPU, _ uint8) uint8 { return c.reg.GetP() | flagB })
	set(0x68, "PLA", Implied, catPull, func(c *CPU, v uint8) uint8 { c.reg.A = v; c.reg.setZN(v); return 0 })
	set(0x28, "PLP", Implied, catPull, func(c *CPU, v uint8) uint8 { c.reg.SetP(v); return 0 })

	set(0xE8, "INX", Implied, catImplied, incDecReg(getX, 1))
	set(0xC8, "INY", Implied, catImplied, incDecReg(getY, 1))
	set(0xCA, "DEX", Implied, catImplied, incDecReg(getX, -1))
	set(0x88, "DEY", Implied, catImplied, incDecReg(getY, -1))

	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xE6, ZeroPage}, {0xF6, ZeroPageX}, {0xEE, Absolute}, {0xFE, AbsoluteX}} {
		set(m.opc, "INC", m.mode, catRMW, incDec(1))
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xC6, ZeroPage}, {0xD6, ZeroPageX}, {0xCE, Absolute}, {0xDE, AbsoluteX}} {
		set(m.opc, "DEC", m.mode, catRMW, incDec(-1))
	}

	set(0x0A, "ASL", Accumulator, catAccumulator, aslMem)
	set(0x06, "ASL", ZeroPage, catRMW, aslMem)
	set(0x16, "ASL", ZeroPageX, catRMW, aslMem)
	set(0x0E, "ASL", Absolute, catRMW, aslMem)
	set(0x1E, "ASL", AbsoluteX, catRMW, aslMem)
	set(0x4A, "LSR", Accumulator, catAccumulator, lsrMem)
	set(0x46, "LSR", ZeroPage, catRMW, lsrMem)
	set(0x56, "LSR", ZeroPageX, catRMW, lsrMem)
	set(0x4E, "LSR", Absolute, catRMW, lsrMem)
	set(0x5E, "LSR", AbsoluteX, catRMW, lsrMem)
	set(0x2A, "ROL", Accumulator, catAccumulator, rolMem)
	set(0x26, "ROL", ZeroPage, catRMW, rolMem)
	set(0x36, "ROL", ZeroPageX, catRMW, rolMem)
	set(0x2E, "ROL", Absolute, catRMW, rolMem)
	set(0x3E, "ROL", AbsoluteX, catRMW, rolMem)
	set(0x6A, "ROR", Accumulator, catAccumulator, rorMem)
	set(0x66, "ROR", ZeroPage, catRMW, rorMem)
	set(0x76, "ROR", ZeroPageX, catRMW, rorMem)
	set(0x6E, "ROR", Absolute, catRMW, rorMem)
	set(0x7E, "ROR", AbsoluteX, catRMW, rorMem)

	set(0x18, "CLC", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.C }, false))
	set(0x38, "SEC", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.C }, true))
	set(0x58, "CLI", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.I }, false))
	set(0x78, "SEI", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.I }, true))
	set(0xB8, "CLV", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.V }, false))
	set(0xD8, "CLD", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.D }, false))
	set(0xF8, "SED", Implied, catImplied, flagSet(func(r *Registers) *bool { return &r.D }, true))

	set(0xEA, "NOP", Implied, catImplied, nopExec)
	for _, opc := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		setIllegal(opc, "NOP", Implied, catImplied, nopExec, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x80, Immediate}, {0x82, Immediate}, {0x89, Immediate}, {0xC2, Immediate}, {0xE2, Immediate}} {
		setIllegal(m.opc, "NOP", m.mode, catRead, nopExec, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x04, ZeroPage}, {0x44, ZeroPage}, {0x64, ZeroPage}, {0x14, ZeroPageX}, {0x34, ZeroPageX}, {0x54, ZeroPageX}, {0x74, ZeroPageX}, {0xD4, ZeroPageX}, {0xF4, ZeroPageX}} {
		setIllegal(m.opc, "NOP", m.mode, catRead, nopExec, false)
	}
	setIllegal(0x0C, "NOP", Absolute, catRead, nopExec, false)
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x1C, AbsoluteX}, {0x3C, AbsoluteX}, {0x5C, AbsoluteX}, {0x7C, AbsoluteX}, {0xDC, AbsoluteX}, {0xFC, AbsoluteX}} {
		setIllegal(m.opc, "NOP", m.mode, catRead, nopExec, false)
	}

	setBranch(0x10, "BPL", func(c *CPU) bool { return !c.reg.N })
	setBranch(0x30, "BMI", func(c *CPU) bool { return c.reg.N })
	setBranch(0x50, "BVC", func(c *CPU) bool { return !c.reg.V })
	setBranch(0x70, "BVS", func(c *CPU) bool { return c.reg.V })
	setBranch(0x90, "BCC", func(c *CPU) bool { return !c.reg.C })
	setBranch(0xB0, "BCS", func(c *CPU) bool { return c.reg.C })
	setBranch(0xD0, "BNE", func(c *CPU) bool { return !c.reg.Z })
	setBranch(0xF0, "BEQ", func(c *CPU) bool { return c.reg.Z })

	opcodes[0x4C] = opcodeEntry{mnemonic: "JMP", mode: Absolute, cat: catJMP}
	opcodes[0x6C] = opcodeEntry{mnemonic: "JMP", mode: Indirect, cat: catJMPIndirect}
	opcodes[0x20] = opcodeEntry{mnemonic: "JSR", mode: Absolute, cat: catJSR}
	opcodes[0x60] = opcodeEntry{mnemonic: "RTS", mode: Implied, cat: catRTS}
	opcodes[0x40] = opcodeEntry{mnemonic: "RTI", mode: Implied, cat: catRTI}
	opcodes[0x00] = opcodeEntry{mnemonic: "BRK", mode: Implied, cat: catBRK}

	// illegal combined read-modify-write opcodes.
	slo := rmwCombine(func(c *CPU, b uint8) uint8 { return c.asl(b) }, func(c *CPU, shifted uint8) { c.reg.A |= shifted; c.reg.setZN(c.reg.A) })
	rla := rmwCombine(func(c *CPU, b uint8) uint8 { return c.rol(b) }, func(c *CPU, shifted uint8) { c.reg.A &= shifted; c.reg.setZN(c.reg.A) })
	sre := rmwCombine(func(c *CPU, b uint8) uint8 { return c.lsr(b) }, func(c *CPU, shifted uint8) { c.reg.A ^= shifted; c.reg.setZN(c.reg.A) })
	rra := rmwCombine(func(c *CPU, b uint8) uint8 { return c.ror(b) }, func(c *CPU, shifted uint8) { c.adc(shifted) })
	dcp := rmwCombine(func(c *CPU, b uint8) uint8 { return b - 1 }, func(c *CPU, dec uint8) { c.cmp(c.reg.A, dec) })
	isc := rmwCombine(func(c *CPU, b uint8) uint8 { return b + 1 }, func(c *CPU, inc uint8) { c.sbc(inc) })

	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x07, ZeroPage}, {0x17, ZeroPageX}, {0x0F, Absolute}, {0x1F, AbsoluteX}, {0x1B, AbsoluteY}, {0x03, IndirectX}, {0x13, IndirectY}} {
		setIllegal(m.opc, "SLO", m.mode, catRMW, slo, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x27, ZeroPage}, {0x37, ZeroPageX}, {0x2F, Absolute}, {0x3F, AbsoluteX}, {0x3B, AbsoluteY}, {0x23, IndirectX}, {0x33, IndirectY}} {
		setIllegal(m.opc, "RLA", m.mode, catRMW, rla, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x47, ZeroPage}, {0x57, ZeroPageX}, {0x4F, Absolute}, {0x5F, AbsoluteX}, {0x5B, AbsoluteY}, {0x43, IndirectX}, {0x53, IndirectY}} {
		setIllegal(m.opc, "SRE", m.mode, catRMW, sre, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0x67, ZeroPage}, {0x77, ZeroPageX}, {0x6F, Absolute}, {0x7F, AbsoluteX}, {0x7B, AbsoluteY}, {0x63, IndirectX}, {0x73, IndirectY}} {
		setIllegal(m.opc, "RRA", m.mode, catRMW, rra, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xC7, ZeroPage}, {0xD7, ZeroPageX}, {0xCF, Absolute}, {0xDF, AbsoluteX}, {0xDB, AbsoluteY}, {0xC3, IndirectX}, {0xD3, IndirectY}} {
		setIllegal(m.opc, "DCP", m.mode, catRMW, dcp, false)
	}
	for _, m := range []struct {
		opc  uint8
		mode AddrMode
	}{{0xE7, ZeroPage}, {0xF7, ZeroPageX}, {0xEF, Absolute}, {0xFF, AbsoluteX}, {0xFB, AbsoluteY}, {0xE3, IndirectX}, {0xF3, IndirectY}} {
		setIllegal(m.opc, "ISC", m.mode, catRMW, isc, false)
	}

	// SAX/LAX: combined store/load.
	sax := store(func(c *CPU) uint8 { return c.reg.A & c.reg.X })
	setIllegal(0x87, "SAX", ZeroPage, catWrite, sax, false)
	setIllegal(0x97, "SAX", ZeroPageY, catWrite, sax, false)
	setIllegal(0x8F, "SAX", Absolute, catWrite, sax, false)
	setIllegal(0x83, "SAX", IndirectX, catWrite, sax, false)

	lax := func(c *CPU, operand uint8) uint8 {
		c.reg.A = operand
		c.reg.X = operand
		c.reg.setZN(operand)
		return 0
	}
	setIllegal(0xA7, "LAX", ZeroPage, catRead, lax, false)
	setIllegal(0xB7, "LAX", ZeroPageY, catRead, lax, false)
	setIllegal(0xAF, "LAX", Absolute, catRead, lax, false)
	setIllegal(0xBF, "LAX", AbsoluteY, catRead, lax, false)
	setIllegal(0xA3, "LAX", IndirectX, catRead, lax, false)
	setIllegal(0xB3, "LAX", IndirectY, catRead, lax, false)

	// documented-magic unstable opcodes: a fixed constant models the
	// bus-capacitance coupling real silicon exhibits, rather than
	// inventing a deterministic derivation.
	const unstableMagic = 0xEE

	setIllegal(0x0B, "ANC", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		c.reg.A &= operand
		c.reg.setZN(c.reg.A)
		c.reg.C = c.reg.A&0x80 != 0
		return 0
	}, false)
	setIllegal(0x2B, "ANC", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		c.reg.A &= operand
		c.reg.setZN(c.reg.A)
		c.reg.C = c.reg.A&0x80 != 0
		return 0
	}, false)
	setIllegal(0x4B, "ALR", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		c.reg.A &= operand
		c.reg.A = c.lsr(c.reg.A)
		return 0
	}, false)
	setIllegal(0x6B, "ARR", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		c.reg.A &= operand
		c.reg.A = c.ror(c.reg.A)
		c.reg.C = c.reg.A&0x40 != 0
		c.reg.V = (c.reg.A&0x40 != 0) != (c.reg.A&0x20 != 0)
		return 0
	}, false)
	setIllegal(0xCB, "AXS", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		t := c.reg.A & c.reg.X
		c.reg.C = t >= operand
		c.reg.X = t - operand
		c.reg.setZN(c.reg.X)
		return 0
	}, false)
	setIllegal(0xBB, "LAS", AbsoluteY, catRead, func(c *CPU, operand uint8) uint8 {
		v := operand & c.reg.SP
		c.reg.A, c.reg.X, c.reg.SP = v, v, v
		c.reg.setZN(v)
		return 0
	}, true)
	setIllegal(0x8B, "XAA", Immediate, catRead, func(c *CPU, operand uint8) uint8 {
		c.reg.A = (c.reg.X & unstableMagic) & operand
		c.reg.setZN(c.reg.A)
		return 0
	}, true)
	ahx := store(func(c *CPU) uint8 { return c.reg.A & c.reg.X & unstableMagic })
	setIllegal(0x9F, "AHX", AbsoluteY, catWrite, ahx, true)
	setIllegal(0x93, "AHX", IndirectY, catWrite, ahx, true)
	setIllegal(0x9C, "SHY", AbsoluteX, catWrite, store(func(c *CPU) uint8 { return c.reg.Y & unstableMagic }), true)
	setIllegal(0x9E, "SHX", AbsoluteY, catWrite, store(func(c *CPU) uint8 { return c.reg.X & unstableMagic }), true)
	setIllegal(0x9B, "TAS", AbsoluteY, catWrite, func(c *CPU, _ uint8) uint8 {
		c.reg.SP = c.reg.A & c.reg.X
		return c.reg.SP & unstableMagic
	}, true)

	for _, opc := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		setJam(opc)
	}
}
