package codec

import "fmt"

// HeaderSymbols is the number of symbols carrying the original
// sequence length. The header has no error correction; a corrupted
// header symbol shifts the truncation point with no secondary check.
const HeaderSymbols = 4

// MaxSequenceLength is the largest length the 16-bit header can carry.
const MaxSequenceLength = 0xFFFF

// EncodeHeader packs a sequence length into 4 symbols of 4 bits each,
// most significant nibble first.
func EncodeHeader(length int) ([]byte, error) {
	if length < 0 || length > MaxSequenceLength {
		return nil, fmt.Errorf("sequence length %d outside header range 0..%d", length, MaxSequenceLength)
	}
	return []byte{
		byte(length >> 12 & 0xF),
		byte(length >> 8 & 0xF),
		byte(length >> 4 & 0xF),
		byte(length & 0xF),
	}, nil
}

// DecodeHeader reassembles the declared sequence length from the first
// 4 detected symbols.
func DecodeHeader(symbols []byte) (int, error) {
	if len(symbols) != HeaderSymbols {
		return 0, fmt.Errorf("header must be exactly %d symbols, got %d", HeaderSymbols, len(symbols))
	}
	return int(symbols[0])<<12 | int(symbols[1])<<8 | int(symbols[2])<<4 | int(symbols[3]), nil
}
