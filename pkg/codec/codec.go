package codec

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/dnawave/dnawave/pkg/dsp"
	"github.com/dnawave/dnawave/pkg/fec"
	"github.com/dnawave/dnawave/pkg/wav"
)

// Default codec parameters. The audio artifact is mono 16-bit PCM, one
// fixed-duration tone per symbol in strict order.
const (
	DefaultSampleRate   = 44100
	DefaultNoteDuration = 0.2
	DefaultNoteVolume   = 0.5
)

// Codec turns DNA sequences into Reed-Solomon protected audio and back.
type Codec struct {
	SampleRate   int
	NoteDuration float64
	Volume       float64
}

// New creates a codec with the default audio parameters.
func New() *Codec {
	return &Codec{
		SampleRate:   DefaultSampleRate,
		NoteDuration: DefaultNoteDuration,
		Volume:       DefaultNoteVolume,
	}
}

// Result describes a completed decode.
type Result struct {
	Sequence        string `json:"sequence"`
	SymbolsDetected int    `json:"symbols_detected"`
	Blocks          int    `json:"blocks"`
	ErrorsCorrected int    `json:"errors_corrected"`
}

// Status returns the human-readable outcome string shown to users.
func (r *Result) Status() string {
	return fmt.Sprintf("Verified (%d errors corrected)", r.ErrorsCorrected)
}

// Sanitize uppercases the input and strips everything that is not one
// of the four DNA bases.
func Sanitize(sequence string) string {
	var builder strings.Builder
	for _, c := range strings.ToUpper(sequence) {
		switch c {
		case 'A', 'T', 'G', 'C':
			builder.WriteRune(c)
		}
	}
	return builder.String()
}

// Encode converts a DNA sequence into the full tone waveform:
// a 4-symbol length header followed by the Reed-Solomon codewords of
// the padded sequence, one tone per symbol.
func (c *Codec) Encode(sequence string) ([]int16, error) {
	symbols, err := c.EncodeSymbols(sequence)
	if err != nil {
		return nil, err
	}
	return c.synthesizeAll(symbols), nil
}

// EncodeFile encodes a sequence and writes the waveform as a WAV file.
// Nothing is written when encoding fails.
func (c *Codec) EncodeFile(sequence, outputPath string) error {
	samples, err := c.Encode(sequence)
	if err != nil {
		return err
	}
	if err := wav.Write(outputPath, samples, c.SampleRate); err != nil {
		return fmt.Errorf("writing %q: %w", outputPath, err)
	}
	return nil
}

// EncodeSymbols runs the symbol-domain half of the encode pipeline:
// sanitize, map to field symbols, pad to a block multiple, encode each
// block, and prepend the length header.
func (c *Codec) EncodeSymbols(sequence string) ([]byte, error) {
	clean := Sanitize(sequence)
	originalLength := len(clean)
	if originalLength == 0 {
		return nil, ErrNoValidBases
	}
	if originalLength > MaxSequenceLength {
		return nil, fmt.Errorf("sequence of %d bases exceeds header limit %d", originalLength, MaxSequenceLength)
	}

	// Right-pad with the zero symbol to a whole number of blocks. The
	// header length is the only record of where padding starts.
	padded := make([]byte, blockCount(originalLength)*fec.MessageSymbols)
	for i := 0; i < originalLength; i++ {
		symbol, err := dsp.BaseToSymbol(clean[i])
		if err != nil {
			return nil, err
		}
		padded[i] = symbol
	}

	header, err := EncodeHeader(originalLength)
	if err != nil {
		return nil, err
	}

	blocks := len(padded) / fec.MessageSymbols
	out := make([]byte, HeaderSymbols+blocks*fec.BlockSymbols)
	copy(out, header)

	// Blocks are independent, so they encode concurrently and land in
	// their own slice regions in original order.
	var wg sync.WaitGroup
	errs := make([]error, blocks)
	for b := 0; b < blocks; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			codeword, err := fec.EncodeBlock(padded[b*fec.MessageSymbols : (b+1)*fec.MessageSymbols])
			if err != nil {
				errs[b] = err
				return
			}
			copy(out[HeaderSymbols+b*fec.BlockSymbols:], codeword)
		}(b)
	}
	wg.Wait()

	for b, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("encoding block %d: %w", b+1, err)
		}
	}
	return out, nil
}

// Decode recovers a DNA sequence from a waveform. On failure no
// partial sequence is returned.
func (c *Codec) Decode(samples []int16) (*Result, error) {
	detected := dsp.DetectSymbols(samples, c.SampleRate, c.NoteDuration)
	return c.decodeSymbols(detected)
}

// DecodeFile reads a WAV recording and decodes it.
func (c *Codec) DecodeFile(audioPath string) (*Result, error) {
	samples, sampleRate, err := wav.Read(audioPath)
	if err != nil {
		return nil, &AudioLoadError{Path: audioPath, Err: err}
	}
	if sampleRate != c.SampleRate {
		return nil, &AudioLoadError{
			Path: audioPath,
			Err:  fmt.Errorf("sample rate %d does not match expected %d", sampleRate, c.SampleRate),
		}
	}
	return c.Decode(samples)
}

// decodeSymbols runs the symbol-domain half of the decode pipeline:
// header parse, per-block error correction, reassembly, truncation.
func (c *Codec) decodeSymbols(detected []byte) (*Result, error) {
	if len(detected) < HeaderSymbols {
		return nil, ErrHeaderTooShort
	}

	originalLength, err := DecodeHeader(detected[:HeaderSymbols])
	if err != nil {
		return nil, err
	}

	body := detected[HeaderSymbols:]
	blocks := blockGroups(len(body))

	message := make([]byte, 0, blocks*fec.MessageSymbols)
	totalCorrected := 0

	for b := 0; b < blocks; b++ {
		group := make([]byte, fec.BlockSymbols)
		// A short final group means detector dropout; zero-pad it and
		// let the code absorb the damage.
		copy(group, body[b*fec.BlockSymbols:min(len(body), (b+1)*fec.BlockSymbols)])

		corrected, errorCount, err := fec.DecodeBlock(group)
		if err != nil {
			return nil, &BlockDecodeError{Block: b, Err: err}
		}
		message = append(message, corrected...)
		totalCorrected += errorCount
	}

	if originalLength > len(message) {
		originalLength = len(message)
	}

	var builder strings.Builder
	for _, symbol := range message[:originalLength] {
		builder.WriteByte(dsp.SymbolToBase(symbol))
	}

	return &Result{
		Sequence:        builder.String(),
		SymbolsDetected: len(detected),
		Blocks:          blocks,
		ErrorsCorrected: totalCorrected,
	}, nil
}

// synthesizeAll renders one tone per symbol and concatenates them in
// symbol order. Tones are independent, so rendering is spread across
// the CPUs with each worker filling disjoint sample regions.
func (c *Codec) synthesizeAll(symbols []byte) []int16 {
	noteSamples := int(c.NoteDuration * float64(c.SampleRate))
	samples := make([]int16, len(symbols)*noteSamples)

	workers := runtime.NumCPU()
	if workers > len(symbols) {
		workers = len(symbols)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(symbols); i += workers {
				tone := dsp.Synthesize(dsp.SymbolToFrequency(symbols[i]), c.NoteDuration, c.SampleRate, c.Volume)
				copy(samples[i*noteSamples:], tone)
			}
		}(w)
	}
	wg.Wait()

	return samples
}

// blockCount returns how many message blocks a sequence of the given
// length occupies after padding.
func blockCount(length int) int {
	return (length + fec.MessageSymbols - 1) / fec.MessageSymbols
}

// blockGroups returns how many codeword groups a detected body of the
// given length splits into, counting a partial trailing group.
func blockGroups(length int) int {
	return (length + fec.BlockSymbols - 1) / fec.BlockSymbols
}
