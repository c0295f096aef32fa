package fec

import (
	"errors"
	"fmt"
)

// Reed-Solomon RS(31, 23) over GF(32).
//
// Each codeword carries 23 message symbols followed by 8 parity symbols
// and corrects up to 4 symbol errors. Encoding is systematic: parity is
// the remainder of m(x)*x^8 divided by the generator polynomial
// g(x) = (x - a^1)(x - a^2)...(x - a^8), a narrow-sense code with first
// consecutive root alpha^1.

const (
	// MessageSymbols is the number of message symbols per block (K).
	MessageSymbols = 23

	// BlockSymbols is the total number of symbols per codeword (N).
	BlockSymbols = 31

	// ParitySymbols is the number of parity symbols per codeword (N-K).
	ParitySymbols = BlockSymbols - MessageSymbols

	// MaxErrors is the number of correctable symbol errors per block.
	MaxErrors = ParitySymbols / 2

	// firstRoot is the exponent of the first consecutive generator root.
	firstRoot = 1
)

// ErrTooManyErrors reports a codeword corrupted beyond the correction
// capacity of the code. All uncorrectable outcomes wrap this error.
var ErrTooManyErrors = errors.New("too many symbol errors to correct")

// generator holds g(x) low-order first; generator[ParitySymbols] == 1.
var generator []byte

func init() {
	generator = []byte{1}
	for i := 0; i < ParitySymbols; i++ {
		generator = polyMul(generator, []byte{gfPow(firstRoot + i), 1})
	}
}

// EncodeBlock encodes a 23-symbol message into a 31-symbol codeword.
// The first 23 output symbols equal the message; the trailing 8 are
// parity. Every symbol must be a valid field element (< 32).
func EncodeBlock(message []byte) ([]byte, error) {
	if len(message) != MessageSymbols {
		return nil, fmt.Errorf("message must be exactly %d symbols, got %d", MessageSymbols, len(message))
	}
	for i, s := range message {
		if s >= FieldOrder {
			return nil, fmt.Errorf("symbol %d out of field range: %d", i, s)
		}
	}

	codeword := make([]byte, BlockSymbols)
	copy(codeword, message)

	// Polynomial division by g(x) via a feedback shift register.
	// parity[0] is the coefficient of x^(ParitySymbols-1).
	parity := make([]byte, ParitySymbols)
	for _, s := range message {
		feedback := s ^ parity[0]
		copy(parity, parity[1:])
		parity[ParitySymbols-1] = 0

		if feedback != 0 {
			for j := 0; j < ParitySymbols; j++ {
				parity[j] ^= gfMul(generator[ParitySymbols-1-j], feedback)
			}
		}
	}
	copy(codeword[MessageSymbols:], parity)

	return codeword, nil
}

// DecodeBlock corrects a received 31-symbol codeword in place of up to
// 4 symbol errors and returns the 23 message symbols along with the
// number of corrections applied. A block with more errors than the code
// can repair returns an error wrapping ErrTooManyErrors.
func DecodeBlock(received []byte) ([]byte, int, error) {
	if len(received) != BlockSymbols {
		return nil, 0, fmt.Errorf("codeword must be exactly %d symbols, got %d", BlockSymbols, len(received))
	}
	for i, s := range received {
		if s >= FieldOrder {
			return nil, 0, fmt.Errorf("symbol %d out of field range: %d", i, s)
		}
	}

	// Coefficient view: coeffs[p] is the coefficient of x^p, so the
	// first received symbol is the highest-order coefficient.
	coeffs := make([]byte, BlockSymbols)
	for i, s := range received {
		coeffs[BlockSymbols-1-i] = s
	}

	syndromes := computeSyndromes(coeffs)
	if allZero(syndromes) {
		return append([]byte(nil), received[:MessageSymbols]...), 0, nil
	}

	locator := berlekampMassey(syndromes)
	degree := len(locator) - 1
	if degree > MaxErrors {
		return nil, 0, fmt.Errorf("error locator degree %d exceeds capacity %d: %w", degree, MaxErrors, ErrTooManyErrors)
	}

	positions := chienSearch(locator)
	if len(positions) != degree {
		return nil, 0, fmt.Errorf("found %d error positions for locator degree %d: %w", len(positions), degree, ErrTooManyErrors)
	}

	applyForney(coeffs, syndromes, locator, positions)

	// A residual syndrome means the corrections were bogus, which
	// happens when more than MaxErrors symbols were corrupted.
	if !allZero(computeSyndromes(coeffs)) {
		return nil, 0, fmt.Errorf("syndromes nonzero after correction: %w", ErrTooManyErrors)
	}

	corrected := make([]byte, MessageSymbols)
	for i := range corrected {
		corrected[i] = coeffs[BlockSymbols-1-i]
	}
	return corrected, len(positions), nil
}

// computeSyndromes evaluates the received polynomial at the generator
// roots a^firstRoot .. a^(firstRoot+ParitySymbols-1). All-zero
// syndromes mean the codeword is a multiple of g(x), i.e. error-free.
func computeSyndromes(coeffs []byte) []byte {
	syndromes := make([]byte, ParitySymbols)
	for j := range syndromes {
		syndromes[j] = polyEval(coeffs, gfPow(firstRoot+j))
	}
	return syndromes
}

func allZero(symbols []byte) bool {
	for _, s := range symbols {
		if s != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey finds the minimal error-locator polynomial for the
// syndrome sequence. The returned polynomial is low-order first with
// constant term 1; its degree is the candidate error count.
func berlekampMassey(syndromes []byte) []byte {
	current := []byte{1}
	previous := []byte{1}
	length := 0
	shift := 1
	lastDiscrepancy := byte(1)

	for n := 0; n < len(syndromes); n++ {
		// Discrepancy between the syndrome and the LFSR prediction.
		discrepancy := syndromes[n]
		for i := 1; i <= length && i < len(current); i++ {
			discrepancy ^= gfMul(current[i], syndromes[n-i])
		}

		if discrepancy == 0 {
			shift++
			continue
		}

		scale := gfDiv(discrepancy, lastDiscrepancy)
		adjusted := make([]byte, len(previous)+shift)
		for i, c := range previous {
			adjusted[i+shift] = gfMul(c, scale)
		}

		if 2*length <= n {
			saved := append([]byte(nil), current...)
			current = polyAdd(current, adjusted)
			previous = saved
			length = n + 1 - length
			lastDiscrepancy = discrepancy
			shift = 1
		} else {
			current = polyAdd(current, adjusted)
			shift++
		}
	}

	return trimPoly(current)
}

// polyAdd adds two polynomials, low-order first.
func polyAdd(a, b []byte) []byte {
	if len(b) > len(a) {
		a, b = b, a
	}
	result := append([]byte(nil), a...)
	for i, c := range b {
		result[i] ^= c
	}
	return result
}

// trimPoly drops trailing zero coefficients.
func trimPoly(poly []byte) []byte {
	end := len(poly)
	for end > 1 && poly[end-1] == 0 {
		end--
	}
	return poly[:end]
}

// chienSearch returns the coefficient positions whose inverse locations
// are roots of the locator polynomial.
func chienSearch(locator []byte) []int {
	var positions []int
	for p := 0; p < BlockSymbols; p++ {
		if polyEval(locator, gfPow(-p)) == 0 {
			positions = append(positions, p)
		}
	}
	return positions
}

// applyForney computes the error magnitude at each located position via
// Forney's formula and corrects the coefficients in place.
func applyForney(coeffs, syndromes, locator []byte, positions []int) {
	// Error evaluator Omega(x) = S(x) * Lambda(x) mod x^ParitySymbols.
	evaluator := polyMul(syndromes, locator)
	if len(evaluator) > ParitySymbols {
		evaluator = evaluator[:ParitySymbols]
	}

	// Formal derivative of the locator; only odd-degree terms survive
	// in characteristic 2.
	derivative := make([]byte, len(locator)-1)
	for i := 1; i < len(locator); i += 2 {
		derivative[i-1] = locator[i]
	}

	for _, p := range positions {
		xInv := gfPow(-p)
		// Narrow-sense code (firstRoot == 1), so the X^(1-b) factor
		// in Forney's formula is 1.
		magnitude := gfDiv(polyEval(evaluator, xInv), polyEval(derivative, xInv))
		coeffs[p] ^= magnitude
	}
}
