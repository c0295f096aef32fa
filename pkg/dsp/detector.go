package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// DetectSymbols segments a waveform on a fixed time grid of one note
// duration per window and resolves each window to the nearest tone
// symbol. Any trailing remainder shorter than a full window is
// discarded; the tone ordering itself is the only synchronization.
func DetectSymbols(samples []int16, sampleRate int, noteDuration float64) []byte {
	windowSamples := int(noteDuration * float64(sampleRate))
	if windowSamples <= 0 || len(samples) < windowSamples {
		return nil
	}

	numWindows := len(samples) / windowSamples
	symbols := make([]byte, 0, numWindows)

	for w := 0; w < numWindows; w++ {
		window := samples[w*windowSamples : (w+1)*windowSamples]
		freq, ok := detectFrequency(window, sampleRate)
		if !ok {
			continue
		}
		symbols = append(symbols, FrequencyToSymbol(freq))
	}

	return symbols
}

// detectFrequency finds the dominant frequency in one tone window.
// Only the middle 50% of the window is analyzed, keeping clear of the
// onset transient and the decayed tail at the tone boundaries.
func detectFrequency(window []int16, sampleRate int) (float64, bool) {
	start := len(window) / 4
	end := len(window) * 3 / 4
	if start >= end {
		return 0, false
	}

	stable := make([]float64, end-start)
	for i := range stable {
		stable[i] = float64(window[start+i]) / 32768.0
	}

	spectrum := fft.FFTReal(stable)

	// Peak magnitude over the positive-frequency half.
	peakBin := 0
	peakMag := 0.0
	for bin := 0; bin < len(spectrum)/2; bin++ {
		if mag := cmplx.Abs(spectrum[bin]); mag > peakMag {
			peakBin = bin
			peakMag = mag
		}
	}

	return float64(peakBin) * float64(sampleRate) / float64(len(stable)), true
}
