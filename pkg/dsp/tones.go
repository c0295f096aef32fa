package dsp

import (
	"fmt"
	"math"

	"github.com/dnawave/dnawave/pkg/fec"
)

// DNA alphabet mapped to the low field symbols. Symbols 4..31 are
// reachable only as Reed-Solomon parity, so they carry tones but never
// map back to a base.
const dnaAlphabet = "ATGC"

// baseMidiNote anchors the tone table at C4; each field symbol gets the
// next semitone of the chromatic scale, so frequencies are strictly
// increasing and nearest-neighbor matching is unambiguous.
const baseMidiNote = 60

// Symbol lookup table for base letters (initialized once).
var symbolTable [256]byte

// toneFrequencies maps every field symbol to its tone frequency in Hz.
// Built once at startup and never mutated.
var toneFrequencies [fec.FieldOrder]float64

func init() {
	for i := range symbolTable {
		symbolTable[i] = 0xff
	}
	for i, c := range dnaAlphabet {
		symbolTable[byte(c)] = byte(i)
	}

	for s := range toneFrequencies {
		toneFrequencies[s] = midiToHz(baseMidiNote + s)
	}
}

// midiToHz converts a MIDI note number to its equal-temperament
// frequency (A4 = MIDI 69 = 440 Hz).
func midiToHz(note int) float64 {
	return 440.0 * math.Pow(2, float64(note-69)/12.0)
}

// BaseToSymbol converts a DNA base letter to its field symbol.
// Only the four uppercase bases are valid; sanitization upstream strips
// everything else.
func BaseToSymbol(c byte) (byte, error) {
	symbol := symbolTable[c]
	if symbol == 0xff {
		return 0, fmt.Errorf("invalid DNA base '%c'", c)
	}
	return symbol, nil
}

// SymbolToBase converts a field symbol back to its base letter.
// Symbols outside the alphabet return '?'.
func SymbolToBase(symbol byte) byte {
	if int(symbol) >= len(dnaAlphabet) {
		return '?'
	}
	return dnaAlphabet[symbol]
}

// SymbolToFrequency returns the tone frequency for a field symbol.
func SymbolToFrequency(symbol byte) float64 {
	return toneFrequencies[symbol%fec.FieldOrder]
}

// FrequencyToSymbol resolves a detected frequency to the closest tone
// by absolute difference. There is no "no match" outcome; detection
// precision is the caller's problem.
func FrequencyToSymbol(freq float64) byte {
	best := 0
	bestDiff := math.Abs(toneFrequencies[0] - freq)
	for s := 1; s < len(toneFrequencies); s++ {
		diff := math.Abs(toneFrequencies[s] - freq)
		if diff < bestDiff {
			best = s
			bestDiff = diff
		}
	}
	return byte(best)
}

// MinToneSpacing returns the smallest gap between adjacent tone
// frequencies. Detected frequencies within half this spacing of a tone
// always resolve to it.
func MinToneSpacing() float64 {
	min := toneFrequencies[1] - toneFrequencies[0]
	for s := 2; s < len(toneFrequencies); s++ {
		if gap := toneFrequencies[s] - toneFrequencies[s-1]; gap < min {
			min = gap
		}
	}
	return min
}
