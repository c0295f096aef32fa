package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dnawave/dnawave/pkg/codec"
	"github.com/dnawave/dnawave/pkg/fasta"
	"github.com/dnawave/dnawave/pkg/fec"
	"github.com/dnawave/dnawave/pkg/verbose"
)

func main() {
	var (
		sequence     = flag.String("sequence", "", "DNA sequence to encode")
		input        = flag.String("input", "", "Sequence file (.fasta/.fa or plain text)")
		output       = flag.String("output", "encoded.wav", "Output WAV file")
		sampleRate   = flag.Int("rate", codec.DefaultSampleRate, "Audio sample rate")
		noteDuration = flag.Float64("duration", codec.DefaultNoteDuration, "Tone duration in seconds")
		volume       = flag.Float64("volume", codec.DefaultNoteVolume, "Tone volume (0..1)")
		showSymbols  = flag.Bool("symbols", false, "Show encoded symbol stream")
		verboseFlag  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	verbose.SetEnabled(*verboseFlag)

	if *sequence == "" && *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -sequence ATGC... [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -input genome.fasta [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	raw := *sequence
	if *input != "" {
		var err error
		raw, err = fasta.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read sequence: %v\n", err)
			os.Exit(1)
		}
		verbose.Printf("Read %d characters from %s", len(raw), *input)
	}

	dnaCodec := codec.New()
	dnaCodec.SampleRate = *sampleRate
	dnaCodec.NoteDuration = *noteDuration
	dnaCodec.Volume = *volume

	clean := codec.Sanitize(raw)

	fmt.Printf("Encoding DNA Sequence\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Valid bases:  %d\n", len(clean))
	fmt.Printf("Blocks:       %d x RS(%d,%d)\n",
		(len(clean)+fec.MessageSymbols-1)/fec.MessageSymbols, fec.BlockSymbols, fec.MessageSymbols)
	fmt.Printf("Rate:         %d Hz\n", *sampleRate)
	fmt.Printf("\n")

	symbols, err := dnaCodec.EncodeSymbols(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Encoded to %d symbols (%d header + %d codeword)\n",
		len(symbols), codec.HeaderSymbols, len(symbols)-codec.HeaderSymbols)

	if *showSymbols {
		fmt.Printf("\nSymbol Stream:\n")
		fmt.Printf("==============\n")
		for i, symbol := range symbols {
			marker := " (Data)"
			if i < codec.HeaderSymbols {
				marker = " (Header)"
			} else if (i-codec.HeaderSymbols)%fec.BlockSymbols >= fec.MessageSymbols {
				marker = " (Parity)"
			}
			fmt.Printf("%3d: %2d%s\n", i, symbol, marker)
		}
		fmt.Printf("\n")
	}

	if dir := filepath.Dir(*output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}

	if err := dnaCodec.EncodeFile(raw, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
		os.Exit(1)
	}

	noteSamples := int(*noteDuration * float64(*sampleRate))
	totalSamples := len(symbols) * noteSamples
	duration := float64(totalSamples) / float64(*sampleRate)

	fmt.Printf("✓ Generated %d audio samples (%.2f seconds)\n", totalSamples, duration)
	fmt.Printf("✓ Wrote audio to %s\n", *output)
	fmt.Printf("  Play with: aplay %s\n", *output)
}
