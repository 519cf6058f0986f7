package cpu

// adc adds m to the accumulator with carry, in binary or BCD depending on
// the D flag (if the model has BCD at all). The binary path follows the
// usual 6502 adc(); the BCD path carries the "flags computed from the
// binary intermediate, not the decimal result" quirk.
func (c *CPU) adc(m uint8) {
	if c.reg.D && c.model.HasBCD {
		c.adcBCD(m)
		return
	}
	c.adcBinary(m)
}

func (c *CPU) adcBinary(m uint8) {
	a := c.reg.A
	carry := uint16(0)
	if c.reg.C {
		carry = 1
	}
	sum := uint16(a) + uint16(m) + carry
	result := uint8(sum)
	c.reg.C = sum > 0xFF
	c.reg.V = (a^result)&(m^result)&0x80 != 0
	c.reg.A = result
	c.reg.setZN(c.reg.A)
}

// adcBCD implements decimal-mode ADC per nibble, with N/V/Z taken from the
// binary intermediate (the documented 6502 quirk) and C from the decimal
// result.
func (c *CPU) adcBCD(m uint8) {
	a := c.reg.A
	carryIn := uint8(0)
	if c.reg.C {
		carryIn = 1
	}

	// binary intermediate drives N, V, Z.
	binSum := uint16(a) + uint16(m) + uint16(carryIn)
	binResult := uint8(binSum)
	c.reg.V = (a^binResult)&(m^binResult)&0x80 != 0
	c.reg.setZN(binResult)

	low := (a & 0xF) + (m & 0xF) + carryIn
	halfCarry := uint8(0)
	if low > 9 {
		low += 6
		halfCarry = 1
	}
	high := (a >> 4) + (m >> 4) + halfCarry
	carryOut := false
	if high > 9 {
		high += 6
		carryOut = true
	}
	c.reg.C = carryOut
	c.reg.A = (high << 4) | (low & 0xF)
}

// sbc subtracts m (with borrow) from the accumulator. The binary path is
// exactly ADC of the one's complement of m; the BCD path performs the
// analogous nibble-decimal decrement, again with N/V/Z from the binary
// intermediate.
func (c *CPU) sbc(m uint8) {
	if c.reg.D && c.model.HasBCD {
		c.sbcBCD(m)
		return
	}
	c.adcBinary(^m)
}

func (c *CPU) sbcBCD(m uint8) {
	a := c.reg.A
	borrowIn := uint8(0)
	if !c.reg.C {
		borrowIn = 1
	}

	// binary intermediate (two's complement subtraction) drives N, V, Z.
	binDiff := int16(a) - int16(m) - int16(borrowIn)
	binResult := uint8(binDiff)
	c.reg.V = (a^m)&(a^binResult)&0x80 != 0
	c.reg.setZN(binResult)

	low := int16(a&0xF) - int16(m&0xF) - int16(borrowIn)
	halfBorrow := int16(0)
	if low < 0 {
		low -= 6
		halfBorrow = 1
	}
	high := int16(a>>4) - int16(m>>4) - halfBorrow
	if high < 0 {
		high -= 6
	}
	c.reg.C = binDiff >= 0
	c.reg.A = uint8(high<<4) | uint8(low&0xF)
}

// cmpWith implements CMP/CPX/CPY: op1 - op2, set N/Z/C, discard the result.
func cmpWith(op1, op2 uint8) (n, z, carry bool) {
	diff := uint16(op1) - uint16(op2)
	result := uint8(diff)
	return result&0x80 != 0, result == 0, op1 >= op2
}

func (c *CPU) cmp(op1, op2 uint8) {
	c.reg.N, c.reg.Z, c.reg.C = cmpWith(op1, op2)
}

func (c *CPU) asl(b uint8) uint8 {
	c.reg.C = b&0x80 != 0
	r := b << 1
	c.reg.setZN(r)
	return r
}

func (c *CPU) lsr(b uint8) uint8 {
	c.reg.C = b&0x01 != 0
	r := b >> 1
	c.reg.setZN(r)
	return r
}

func (c *CPU) rol(b uint8) uint8 {
	carryIn := uint8(0)
	if c.reg.C {
		carryIn = 1
	}
	c.reg.C = b&0x80 != 0
	r := (b << 1) | carryIn
	c.reg.setZN(r)
	return r
}

func (c *CPU) ror(b uint8) uint8 {
	carryIn := uint8(0)
	if c.reg.C {
		carryIn = 0x80
	}
	c.reg.C = b&0x01 != 0
	r := (b >> 1) | carryIn
	c.reg.setZN(r)
	return r
}
