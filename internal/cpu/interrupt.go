package cpu

// InterruptSource is a bitmask tag identifying a single device sharing an
// interrupt line, so multiple peripherals can assert/release independently
// without clobbering each other.
type InterruptSource uint8

// levelDetector reproduces the one-cycle delay between a line's current
// value and the value polling logic observes, modeled as a depth-1 shift
// register keyed to the clock rather than a callback scheduled on a time
// wheel, in the manner of Peddle's TimeDelayed<T> template.
type levelDetector struct {
	delayed uint8
}

// tick records the current line value and returns the value that was
// latched one cycle ago — what this cycle's polling logic is allowed to see.
func (d *levelDetector) tick(line uint8) uint8 {
	old := d.delayed
	d.delayed = line
	return old
}

// edgeDetector latches a one-cycle pulse on a high(released)->low(asserted)
// transition of the delayed line and holds it until explicitly acked. An
// NMI line held low indefinitely is detected exactly once rather than
// re-triggering every cycle.
type edgeDetector struct {
	delayed uint8
	pending bool
}

func (e *edgeDetector) tick(line uint8) {
	old := e.delayed
	e.delayed = line
	if old == 0 && line != 0 {
		e.pending = true
	}
}

func (e *edgeDetector) ack() { e.pending = false }

// interruptState bundles the two interrupt lines, their detectors, and the
// polled results sampled fresh every cycle; only the value latched at the
// next fetch boundary actually matters.
type interruptState struct {
	nmiLine uint8
	irqLine uint8

	nmiEdge  edgeDetector
	irqLevel levelDetector

	doIrqLevel bool // delayed IRQ line, sampled continuously
	doNmi      bool
	doIrq      bool
}

func (c *CPU) pullDownNmiLine(source InterruptSource) {
	c.irqs.nmiLine |= uint8(source)
}

func (c *CPU) releaseNmiLine(source InterruptSource) {
	c.irqs.nmiLine &^= uint8(source)
}

func (c *CPU) pullDownIrqLine(source InterruptSource) {
	c.irqs.irqLine |= uint8(source)
}

func (c *CPU) releaseIrqLine(source InterruptSource) {
	c.irqs.irqLine &^= uint8(source)
}

// tickInterruptLines advances both detectors by one cycle. Called once per
// Step(), independent of whether the cycle performs a bus access, since the
// physical lines are sampled continuously by the chip.
func (c *CPU) tickInterruptLines() {
	if !c.model.HasNMI {
		c.irqs.nmiLine = 0
	}
	if !c.model.HasIRQ {
		c.irqs.irqLine = 0
	}
	c.irqs.nmiEdge.tick(c.irqs.nmiLine)
	delayedIrq := c.irqs.irqLevel.tick(c.irqs.irqLine)
	c.irqs.doIrqLevel = delayedIrq != 0
}

// pollInterrupts samples doNmi/doIrq for the fetch boundary that follows the
// current instruction. NMI priority is enforced here: when both are
// pending, doIrq is not latched (it remains live on the level detector and
// will be seen again on the very next poll), and only doNmi is latched.
func (c *CPU) pollInterrupts() {
	if c.irqs.nmiEdge.pending {
		c.irqs.doNmi = true
		c.irqs.doIrq = false
		return
	}
	c.irqs.doNmi = false
	c.irqs.doIrq = c.irqs.doIrqLevel && !c.reg.I
}
