package lib

// Bit8 alias for uint8, provides bit twiddling methods on a byte of a
// free-block bitmap.
type Bit8 uint8

var onesin8 = [16]int8{0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4}

// Findfirstset return the position of the least significant set bit,
// -1 if no bit is set.
func (b Bit8) Findfirstset() int8 {
	if b == 0 {
		return -1
	}
	n := int8(0)
	for (b & 1) == 0 {
		b, n = b>>1, n+1
	}
	return n
}

// Setbit set bit at `n`, 0 being the least significant bit.
func (b Bit8) Setbit(n uint8) uint8 {
	return uint8(b | (1 << n))
}

// Clearbit clear bit at `n`, 0 being the least significant bit.
func (b Bit8) Clearbit(n uint8) uint8 {
	return uint8(b & ^(1 << n))
}

// Isset return whether bit at `n` is set.
func (b Bit8) Isset(n uint8) bool {
	return (b & (1 << n)) != 0
}

// Ones return number of set bits.
func (b Bit8) Ones() int8 {
	return onesin8[b&0xf] + onesin8[b>>4]
}
