package cpu

// microFn executes one cycle's worth of work against CPU state already
// latched by earlier cycles of the same instruction.
type microFn func(c *CPU)

// planStep pairs a microcycle with whether it is a bus read, which is the
// only thing RDY cares about: write cycles always complete, read cycles
// stall (clock still advances, nothing else happens) while RDY is low.
type planStep struct {
	isRead bool
	fn     microFn
}

func read(fn microFn) planStep  { return planStep{isRead: true, fn: fn} }
func write(fn microFn) planStep { return planStep{isRead: false, fn: fn} }
func intern(fn microFn) planStep { return planStep{isRead: false, fn: fn} }

// setPlan installs the given steps as the cycle plan for the instruction
// (or interrupt sequence) that was just dispatched. steps is copied into
// the CPU's fixed-size array so building a plan never allocates.
func (c *CPU) setPlan(steps ...planStep) {
	copy(c.plan[:], steps)
	c.planLen = len(steps)
	c.planPos = 0
}

// beginNext runs at a fetch boundary: it decides between servicing a
// pending interrupt and fetching the next opcode, per the priority rule in
// pollInterrupts (NMI over IRQ).
func (c *CPU) beginNext() {
	if c.irqs.doNmi {
		c.irqs.doNmi = false
		c.irqs.nmiEdge.ack()
		c.beginInterrupt(true)
		return
	}
	if c.irqs.doIrq {
		c.irqs.doIrq = false
		c.beginInterrupt(false)
		return
	}
	c.fetch()
}

func (c *CPU) fetch() {
	if c.breakpoints[c.reg.PC] && c.delegate != nil {
		c.delegate.BreakpointReached(c, c.reg.PC)
	}
	c.reg.PC0 = c.reg.PC
	c.opcode = c.busRead(c.reg.PC)
	c.reg.PC++
	c.op = opcodes[c.opcode]
	c.interruptKind = 0
	c.buildPlan()
	c.next = tagRunning
}

// watched read/write wrappers are used for operand/data accesses (not
// opcode or operand-byte fetches, which are never watchable memory in the
// sense the debugger cares about).
func (c *CPU) watchedRead(addr uint16) uint8 {
	v := c.busRead(addr)
	if c.watchpoints[addr] && c.delegate != nil {
		c.delegate.WatchpointReached(c, addr, WatchRead, v)
	}
	return v
}

func (c *CPU) watchedWrite(addr uint16, v uint8) {
	c.busWrite(addr, v)
	if c.watchpoints[addr] && c.delegate != nil {
		c.delegate.WatchpointReached(c, addr, WatchWrite, v)
	}
}

func (c *CPU) indexReg() uint8 {
	if c.op.mode == ZeroPageY || c.op.mode == AbsoluteY || c.op.mode == IndirectY {
		return c.reg.Y
	}
	return c.reg.X
}

// buildPlan fills c.plan according to the just-fetched opcode's category
// and addressing mode.
func (c *CPU) buildPlan() {
	switch c.op.cat {
	case catImplied:
		c.setPlan(read(stepImpliedExec))
	case catAccumulator:
		c.setPlan(read(stepAccumulatorExec))
	case catBranch:
		c.setPlan(read(stepBranchOffset), read(stepBranchDummy), read(stepBranchFinish))
	case catJMP:
		c.setPlan(read(stepFetchLo), read(stepJMPFinish))
	case catJMPIndirect:
		c.setPlan(read(stepFetchLo), read(stepFetchHiAbs), read(stepIndFetchTargetLo), read(stepIndFetchTargetHiFinish))
	case catJSR:
		c.setPlan(read(stepFetchLo), read(stepJSRInternal), write(stepPushPCH), write(stepPushPCL), read(stepJSRFinish))
	case catRTS:
		c.setPlan(read(stepDummyPC), read(stepDummyStack), read(stepPullPCL), read(stepPullPCH), intern(stepRTSFinish))
	case catRTI:
		c.setPlan(read(stepDummyPC), read(stepDummyStack), read(stepPullPFlags), read(stepPullPCL), read(stepPullPCHFinishRTI))
	case catBRK:
		c.setPlan(read(stepBRKPad), write(stepPushPCH), write(stepPushPCL), write(stepBRKPushP), read(stepBRKVecLo), read(stepBRKVecHiFinish))
	case catPush:
		c.setPlan(read(stepDummyPC), write(stepPushExec))
	case catPull:
		c.setPlan(read(stepDummyPC), read(stepDummyStack), read(stepPullExec))
	case catJam:
		c.setPlan(read(stepJam))
	default:
		c.buildAddrModePlan()
	}
}

func (c *CPU) buildAddrModePlan() {
	switch c.op.mode {
	case Immediate:
		c.setPlan(read(stepImmediateExec))

	case ZeroPage:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchZP), read(stepZPReadExec))
		case catWrite:
			c.setPlan(read(stepFetchZP), write(stepZPWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchZP), read(stepZPReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}

	case ZeroPageX, ZeroPageY:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchZP), read(stepZPIndexDummy), read(stepZPReadExec))
		case catWrite:
			c.setPlan(read(stepFetchZP), read(stepZPIndexDummy), write(stepZPWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchZP), read(stepZPIndexDummy), read(stepZPReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}

	case Absolute:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchLo), read(stepFetchHiAbs), read(stepAbsReadExec))
		case catWrite:
			c.setPlan(read(stepFetchLo), read(stepFetchHiAbs), write(stepAbsWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchLo), read(stepFetchHiAbs), read(stepAbsReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}

	case AbsoluteX, AbsoluteY:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchLo), read(stepFetchHiIndexed), read(stepIdxReadDecide), read(stepAbsReadExec))
		case catWrite:
			c.setPlan(read(stepFetchLo), read(stepFetchHiIndexed), read(stepIdxDummyAlways), write(stepAbsWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchLo), read(stepFetchHiIndexed), read(stepIdxDummyAlways), read(stepAbsReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}

	case IndirectX:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchZP), read(stepIndXDummy), read(stepIndXPtrLo), read(stepIndXPtrHi), read(stepAbsReadExec))
		case catWrite:
			c.setPlan(read(stepFetchZP), read(stepIndXDummy), read(stepIndXPtrLo), read(stepIndXPtrHi), write(stepAbsWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchZP), read(stepIndXDummy), read(stepIndXPtrLo), read(stepIndXPtrHi), read(stepAbsReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}

	case IndirectY:
		switch c.op.cat {
		case catRead:
			c.setPlan(read(stepFetchZP), read(stepIndYPtrLo), read(stepIndYPtrHiIndexed), read(stepIdxReadDecide), read(stepAbsReadExec))
		case catWrite:
			c.setPlan(read(stepFetchZP), read(stepIndYPtrLo), read(stepIndYPtrHiIndexed), read(stepIdxDummyAlways), write(stepAbsWriteStore))
		case catRMW:
			c.setPlan(read(stepFetchZP), read(stepIndYPtrLo), read(stepIndYPtrHiIndexed), read(stepIdxDummyAlways), read(stepAbsReadOnly), write(stepWriteDummyBack), write(stepWriteFinalBack))
		}
	}
}

// --- shared single-purpose microsteps, one per bus cycle, replacing a
// per-addressing-mode read()/write() pair with a per-cycle function.

func stepImpliedExec(c *CPU) {
	c.busRead(c.reg.PC)
	c.op.exec(c, 0)
}

func stepAccumulatorExec(c *CPU) {
	c.busRead(c.reg.PC)
	c.reg.A = c.op.exec(c, c.reg.A)
}

func stepImmediateExec(c *CPU) {
	v := c.busRead(c.reg.PC)
	c.reg.PC++
	c.op.exec(c, v)
}

func stepFetchZP(c *CPU) {
	c.reg.adl = c.busRead(c.reg.PC)
	c.reg.PC++
	c.effAddr = uint16(c.reg.adl)
}

func stepFetchLo(c *CPU) {
	c.reg.adl = c.busRead(c.reg.PC)
	c.reg.PC++
}

func stepFetchHiAbs(c *CPU) {
	c.reg.adh = c.busRead(c.reg.PC)
	c.reg.PC++
	c.effAddr = uint16(c.reg.adh)<<8 | uint16(c.reg.adl)
}

func stepFetchHiIndexed(c *CPU) {
	c.reg.adh = c.busRead(c.reg.PC)
	c.reg.PC++
	base := uint16(c.reg.adh)<<8 | uint16(c.reg.adl)
	c.effAddr = base + uint16(c.indexReg())
	c.wrongAddr = (base & 0xFF00) | (c.effAddr & 0x00FF)
	c.reg.ovl = base&0xFF00 != c.effAddr&0xFF00
}

func stepZPIndexDummy(c *CPU) {
	c.busRead(uint16(c.reg.adl))
	c.effAddr = uint16(uint8(c.reg.adl + c.indexReg()))
}

func stepZPReadExec(c *CPU) {
	v := c.watchedRead(c.effAddr)
	c.op.exec(c, v)
}

func stepZPWriteStore(c *CPU) {
	v := c.op.exec(c, 0)
	c.watchedWrite(c.effAddr, v)
}

func stepZPReadOnly(c *CPU) {
	c.operand = c.watchedRead(c.effAddr)
}

func stepAbsReadExec(c *CPU) {
	v := c.watchedRead(c.effAddr)
	c.op.exec(c, v)
}

func stepAbsWriteStore(c *CPU) {
	v := c.op.exec(c, 0)
	c.watchedWrite(c.effAddr, v)
}

func stepAbsReadOnly(c *CPU) {
	c.operand = c.watchedRead(c.effAddr)
}

func stepWriteDummyBack(c *CPU) {
	c.watchedWrite(c.effAddr, c.operand)
}

func stepWriteFinalBack(c *CPU) {
	v := c.op.exec(c, c.operand)
	c.watchedWrite(c.effAddr, v)
}

// stepIdxReadDecide is the speculative read at the (possibly wrong) page
// for AbsoluteX/Y and (Indirect),Y in read category: if the index did not
// cross a page, this read already holds the operand and the instruction
// finishes a cycle earlier, shrinking the plan in flight.
func stepIdxReadDecide(c *CPU) {
	v := c.watchedRead(c.wrongAddr)
	if !c.reg.ovl {
		c.op.exec(c, v)
		c.planLen = c.planPos + 1
	}
}

// stepIdxDummyAlways is the same speculative read for write/RMW category,
// which always takes the long form regardless of crossing.
func stepIdxDummyAlways(c *CPU) {
	c.busRead(c.wrongAddr)
}

func stepIndXDummy(c *CPU) {
	c.busRead(uint16(c.reg.adl))
}

func stepIndXPtrLo(c *CPU) {
	c.reg.idl = c.busRead(uint16(uint8(c.reg.adl + c.indexReg())))
}

func stepIndXPtrHi(c *CPU) {
	hi := c.busRead(uint16(uint8(c.reg.adl + c.indexReg() + 1)))
	c.effAddr = uint16(hi)<<8 | uint16(c.reg.idl)
}

func stepIndYPtrLo(c *CPU) {
	c.reg.idl = c.busRead(uint16(c.reg.adl))
}

func stepIndYPtrHiIndexed(c *CPU) {
	c.reg.adh = c.busRead(uint16(uint8(c.reg.adl + 1)))
	base := uint16(c.reg.adh)<<8 | uint16(c.reg.idl)
	c.effAddr = base + uint16(c.reg.Y)
	c.wrongAddr = (base & 0xFF00) | (c.effAddr & 0x00FF)
	c.reg.ovl = base&0xFF00 != c.effAddr&0xFF00
}

// branches.

func stepBranchOffset(c *CPU) {
	offset := c.busRead(c.reg.PC)
	c.reg.PC++
	if !c.op.cond(c) {
		c.planLen = c.planPos + 1
		return
	}
	target := c.reg.PC + uint16(int16(int8(offset)))
	c.effAddr = target
	c.wrongAddr = (c.reg.PC & 0xFF00) | (target & 0x00FF)
	c.reg.ovl = c.reg.PC&0xFF00 != target&0xFF00
}

func stepBranchDummy(c *CPU) {
	c.busRead(c.wrongAddr)
	if !c.reg.ovl {
		c.reg.PC = c.effAddr
		c.planLen = c.planPos + 1
	}
}

func stepBranchFinish(c *CPU) {
	c.busRead(c.effAddr)
	c.reg.PC = c.effAddr
}

// jumps, subroutine linkage.

func stepJMPFinish(c *CPU) {
	hi := c.busRead(c.reg.PC)
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.adl)
}

func stepIndFetchTargetLo(c *CPU) {
	c.reg.idl = c.busRead(c.effAddr)
}

func stepIndFetchTargetHiFinish(c *CPU) {
	ptr := c.effAddr
	// the page-wrap bug: the high byte is fetched from ptr+1 with the low
	// byte of ptr wrapping within the same page, never carrying into the
	// high byte.
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr+1))
	hi := c.busRead(hiAddr)
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.idl)
}

func stepJSRInternal(c *CPU) {
	c.busRead(0x0100 | uint16(c.reg.SP))
}

func stepPushPCH(c *CPU) {
	c.busWrite(0x0100|uint16(c.reg.SP), uint8(c.reg.PC>>8))
	c.reg.SP--
}

func stepPushPCL(c *CPU) {
	c.busWrite(0x0100|uint16(c.reg.SP), uint8(c.reg.PC))
	c.reg.SP--
}

func stepJSRFinish(c *CPU) {
	hi := c.busRead(c.reg.PC)
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.adl)
}

func stepDummyPC(c *CPU) {
	c.busRead(c.reg.PC)
}

func stepDummyStack(c *CPU) {
	c.busRead(0x0100 | uint16(c.reg.SP))
}

func stepPullPCL(c *CPU) {
	c.reg.SP++
	c.reg.idl = c.busRead(0x0100 | uint16(c.reg.SP))
}

func stepPullPCH(c *CPU) {
	c.reg.SP++
	c.reg.adh = c.busRead(0x0100 | uint16(c.reg.SP))
}

func stepRTSFinish(c *CPU) {
	c.reg.PC = uint16(c.reg.adh)<<8 | uint16(c.reg.idl)
	c.reg.PC++
}

func stepPullPFlags(c *CPU) {
	c.reg.SP++
	c.reg.SetP(c.busRead(0x0100 | uint16(c.reg.SP)))
}

func stepPullPCHFinishRTI(c *CPU) {
	c.reg.SP++
	hi := c.busRead(0x0100 | uint16(c.reg.SP))
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.idl)
}

// PLA/PLP share a pull-then-operate shape; catPull's exec is called with
// the pulled byte.
func stepPullExec(c *CPU) {
	c.reg.SP++
	v := c.busRead(0x0100 | uint16(c.reg.SP))
	c.op.exec(c, v)
}

func stepPushExec(c *CPU) {
	v := c.op.exec(c, 0)
	c.busWrite(0x0100|uint16(c.reg.SP), v)
	c.reg.SP--
}

// BRK, with NMI-hijack support: an NMI edge that arrives during the push
// sequence steals the vector.

func stepBRKPad(c *CPU) {
	c.busRead(c.reg.PC)
	c.reg.PC++
}

func stepBRKPushP(c *CPU) {
	c.busWrite(0x0100|uint16(c.reg.SP), c.reg.GetP()|flagB)
	c.reg.SP--
}

func stepBRKVecLo(c *CPU) {
	vec := uint16(0xFFFE)
	if c.irqs.nmiEdge.pending {
		vec = 0xFFFA
		c.brkHijack = true
		c.irqs.nmiEdge.ack()
	}
	c.reg.adl = c.busRead(vec)
}

func stepBRKVecHiFinish(c *CPU) {
	vec := uint16(0xFFFF)
	if c.brkHijack {
		vec = 0xFFFB
	}
	hi := c.busRead(vec)
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.adl)
	c.reg.I = true
	c.brkHijack = false
}

func stepJam(c *CPU) {
	c.jammed = true
	if c.delegate != nil {
		c.delegate.CPUDidJam(c)
	}
}

// NMI/IRQ servicing, sharing BRK's push shape but with B cleared and no
// operand byte.

func (c *CPU) beginInterrupt(isNmi bool) {
	c.interruptKind = 2
	if isNmi {
		c.interruptKind = 1
	}
	c.busRead(c.reg.PC)
	c.setPlan(
		read(stepIntDummy),
		write(stepPushPCH),
		write(stepPushPCL),
		write(stepIntPushP),
		read(stepIntVecLo),
		read(stepIntVecHiFinish),
	)
	c.next = tagRunning
	if c.delegate != nil {
		if isNmi {
			c.delegate.NMIWillTrigger(c)
		} else {
			c.delegate.IRQWillTrigger(c)
		}
	}
}

func stepIntDummy(c *CPU) {
	c.busRead(c.reg.PC)
}

func stepIntPushP(c *CPU) {
	c.busWrite(0x0100|uint16(c.reg.SP), c.reg.GetP()&^flagB)
	c.reg.SP--
}

func stepIntVecLo(c *CPU) {
	vec := uint16(0xFFFE)
	if c.interruptKind == 1 {
		vec = 0xFFFA
	}
	c.reg.adl = c.busRead(vec)
}

func stepIntVecHiFinish(c *CPU) {
	vec := uint16(0xFFFF)
	if c.interruptKind == 1 {
		vec = 0xFFFB
	}
	hi := c.busRead(vec)
	c.reg.PC = uint16(hi)<<8 | uint16(c.reg.adl)
	c.reg.I = true
}
