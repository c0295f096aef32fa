package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dnawave/dnawave/pkg/codec"
	"github.com/dnawave/dnawave/pkg/verbose"
)

func main() {
	var (
		input        = flag.String("input", "", "WAV recording to decode")
		sampleRate   = flag.Int("rate", codec.DefaultSampleRate, "Expected audio sample rate")
		noteDuration = flag.Float64("duration", codec.DefaultNoteDuration, "Tone duration in seconds")
		full         = flag.Bool("full", false, "Print the full sequence instead of a preview")
		verboseFlag  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	verbose.SetEnabled(*verboseFlag)

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input song.wav [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	dnaCodec := codec.New()
	dnaCodec.SampleRate = *sampleRate
	dnaCodec.NoteDuration = *noteDuration

	result, err := dnaCodec.DecodeFile(*input)
	if err != nil {
		var blockErr *codec.BlockDecodeError
		switch {
		case errors.As(err, &blockErr):
			fmt.Fprintf(os.Stderr, "Error: %v\n", blockErr)
		case errors.Is(err, codec.ErrHeaderTooShort):
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Decoding failed: %v\n", err)
		}
		os.Exit(1)
	}

	verbose.Printf("Detected %d symbols across %d blocks", result.SymbolsDetected, result.Blocks)

	fmt.Printf("Decoded DNA Sequence\n")
	fmt.Printf("====================\n")
	if *full || len(result.Sequence) <= 200 {
		fmt.Println(result.Sequence)
	} else {
		fmt.Printf("%s...\n", result.Sequence[:200])
		fmt.Printf("(%d bases total, use -full to print all)\n", len(result.Sequence))
	}
	fmt.Printf("\n%s\n", result.Status())
}
