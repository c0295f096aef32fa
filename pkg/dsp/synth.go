package dsp

import "math"

// Synthesize renders one tone as 16-bit PCM samples: a fundamental sine
// plus a half-amplitude second harmonic, shaped by an exponential decay
// envelope that falls to e^-5 at the end of the note, then normalized
// so the peak sample equals volume times full scale.
//
// Tones are rendered independently and concatenated back to back; they
// never overlap or cross-fade, which the detector's fixed-grid
// segmentation relies on.
func Synthesize(frequency, duration float64, sampleRate int, volume float64) []int16 {
	numSamples := int(duration * float64(sampleRate))
	if numSamples <= 0 {
		return nil
	}

	data := make([]float64, numSamples)
	peak := 0.0
	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(sampleRate)
		sample := math.Sin(2*math.Pi*frequency*t) + 0.5*math.Sin(2*math.Pi*2*frequency*t)

		decay := 1.0
		if numSamples > 1 {
			decay = math.Exp(-5.0 * float64(i) / float64(numSamples-1))
		}
		sample *= decay

		data[i] = sample
		if abs := math.Abs(sample); abs > peak {
			peak = abs
		}
	}

	samples := make([]int16, numSamples)
	if peak == 0 {
		return samples
	}

	scale := volume * math.MaxInt16 / peak
	for i, sample := range data {
		samples[i] = int16(sample * scale)
	}
	return samples
}
