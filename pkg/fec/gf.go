package fec

// GF(2^5) arithmetic for the Reed-Solomon codec.
//
// Addition is bitwise XOR. Multiplication and division use log/antilog
// tables built from the primitive polynomial x^5 + x^2 + 1 (0x25) with
// generator element 2, so both are O(1) lookups.

const (
	// FieldOrder is the number of elements in GF(2^5).
	FieldOrder = 32

	// fieldPoly is the primitive polynomial x^5 + x^2 + 1.
	fieldPoly = 0x25

	// fieldMax is the order of the multiplicative group (2^5 - 1).
	fieldMax = FieldOrder - 1
)

// Log and antilog tables. expTable is doubled so that
// expTable[logTable[a]+logTable[b]] needs no modular reduction.
var (
	expTable [2 * fieldMax]byte
	logTable [FieldOrder]byte
)

func init() {
	x := 1
	for i := 0; i < fieldMax; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)

		x <<= 1
		if x&FieldOrder != 0 {
			x ^= fieldPoly
		}
	}
	for i := 0; i < fieldMax; i++ {
		expTable[i+fieldMax] = expTable[i]
	}
}

// gfAdd adds two field elements. Subtraction is identical in GF(2^m).
func gfAdd(a, b byte) byte {
	return a ^ b
}

// gfMul multiplies two field elements.
func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// gfDiv divides a by b. Division by zero is a programming error and
// panics rather than returning a wrong element.
func gfDiv(a, b byte) byte {
	if b == 0 {
		panic("fec: division by zero in GF(32)")
	}
	if a == 0 {
		return 0
	}
	return expTable[int(logTable[a])+fieldMax-int(logTable[b])]
}

// gfInv returns the multiplicative inverse of a.
func gfInv(a byte) byte {
	if a == 0 {
		panic("fec: zero has no inverse in GF(32)")
	}
	return expTable[fieldMax-int(logTable[a])]
}

// gfPow raises the generator element alpha to the given power.
// Negative powers wrap around the multiplicative group order.
func gfPow(power int) byte {
	power %= fieldMax
	if power < 0 {
		power += fieldMax
	}
	return expTable[power]
}

// polyEval evaluates a polynomial at x. Coefficients are stored
// low-order first: poly[i] is the coefficient of x^i.
func polyEval(poly []byte, x byte) byte {
	var result byte
	for i := len(poly) - 1; i >= 0; i-- {
		result = gfAdd(gfMul(result, x), poly[i])
	}
	return result
}

// polyMul multiplies two polynomials over GF(32), low-order first.
func polyMul(a, b []byte) []byte {
	result := make([]byte, len(a)+len(b)-1)
	for i, ca := range a {
		if ca == 0 {
			continue
		}
		for j, cb := range b {
			result[i+j] ^= gfMul(ca, cb)
		}
	}
	return result
}
