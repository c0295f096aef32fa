// Package wav reads and writes the codec's wire format: RIFF/WAVE
// containers holding mono, signed 16-bit PCM.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	formatPCM     = 1
	bitsPerSample = 16
	numChannels   = 1
)

// Write writes samples to path as a mono 16-bit PCM WAV file.
func Write(path string, samples []int16, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, samples, sampleRate); err != nil {
		return err
	}
	return file.Close()
}

// Encode writes a complete WAV stream to w.
func Encode(w io.Writer, samples []int16, sampleRate int) error {
	var buf bytes.Buffer

	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * numChannels * bitsPerSample / 8)
	blockAlign := uint16(numChannels * bitsPerSample / 8)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(formatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// Read loads a mono 16-bit PCM WAV file and returns its samples and
// sample rate. Anything else is rejected.
func Read(path string) ([]int16, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}

// Decode parses a WAV stream. Unknown chunks are skipped; the fmt
// chunk must describe mono 16-bit PCM and must precede the data chunk.
func Decode(data []byte) ([]int16, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var sampleRate int
	var haveFormat bool

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, 0, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("fmt chunk too small: %d bytes", chunkSize)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			channels := binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])

			if format != formatPCM {
				return nil, 0, fmt.Errorf("unsupported audio format %d (want PCM)", format)
			}
			if channels != numChannels {
				return nil, 0, fmt.Errorf("unsupported channel count %d (want mono)", channels)
			}
			if bits != bitsPerSample {
				return nil, 0, fmt.Errorf("unsupported sample width %d bits (want 16)", bits)
			}
			haveFormat = true

		case "data":
			if !haveFormat {
				return nil, 0, fmt.Errorf("data chunk before fmt chunk")
			}
			samples := make([]int16, chunkSize/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(data[body+i*2 : body+i*2+2]))
			}
			return samples, sampleRate, nil
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	return nil, 0, fmt.Errorf("no data chunk found")
}
