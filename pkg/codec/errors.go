package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidBases reports an input sequence with no usable DNA
	// bases after sanitization.
	ErrNoValidBases = errors.New("no valid DNA bases found in input")

	// ErrHeaderTooShort reports a recording with fewer detected
	// symbols than the 4-symbol length header.
	ErrHeaderTooShort = errors.New("audio too short to contain a valid header")
)

// AudioLoadError reports an unreadable or malformed source recording.
type AudioLoadError struct {
	Path string
	Err  error
}

func (e *AudioLoadError) Error() string {
	return fmt.Sprintf("loading audio %q: %v", e.Path, e.Err)
}

func (e *AudioLoadError) Unwrap() error {
	return e.Err
}

// BlockDecodeError reports an uncorrectable codeword block. It aborts
// the whole decode; there is no retry and no partial sequence.
type BlockDecodeError struct {
	Block int
	Err   error
}

func (e *BlockDecodeError) Error() string {
	return fmt.Sprintf("too many errors to correct in block %d: %v", e.Block+1, e.Err)
}

func (e *BlockDecodeError) Unwrap() error {
	return e.Err
}
