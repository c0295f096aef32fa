package wav

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"
)

func testSamples() []int16 {
	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i*31 - 15000)
	}
	return samples
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	samples := testSamples()

	var buf bytes.Buffer
	if err := Encode(&buf, samples, 44100); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, rate, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rate != 44100 {
		t.Errorf("sample rate %d, want 44100", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(decoded), len(samples))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Fatalf("sample %d = %d, want %d", i, decoded[i], samples[i])
		}
	}
}

func TestEncodeHeaderFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, make([]int16, 10), 8000); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != uint32(36+20) {
		t.Errorf("RIFF size %d, want %d", got, 36+20)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 8000 {
		t.Errorf("sample rate field %d, want 8000", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Errorf("channel count %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Errorf("bits per sample %d, want 16", got)
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := testSamples()

	if err := Write(path, samples, 22050); err != nil {
		t.Fatalf("Write: %v", err)
	}

	decoded, rate, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rate != 22050 {
		t.Errorf("sample rate %d, want 22050", rate)
	}
	if len(decoded) != len(samples) {
		t.Errorf("decoded %d samples, want %d", len(decoded), len(samples))
	}
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testSamples(), 44100); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	// Splice a LIST chunk between the fmt and data chunks, the way
	// tagging tools do.
	list := []byte("LIST")
	list = append(list, 6, 0, 0, 0)
	list = append(list, []byte("INFOab")...)

	spliced := append([]byte(nil), data[:36]...)
	spliced = append(spliced, list...)
	spliced = append(spliced, data[36:]...)
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	decoded, rate, err := Decode(spliced)
	if err != nil {
		t.Fatalf("Decode with LIST chunk: %v", err)
	}
	if rate != 44100 || len(decoded) != 1000 {
		t.Errorf("decoded %d samples at %d Hz", len(decoded), rate)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("ID3\x03garbage padding here")},
		{"riff but not wave", append([]byte("RIFF\x10\x00\x00\x00AVI "), make([]byte, 16)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.data); err == nil {
				t.Error("malformed input accepted")
			}
		})
	}
}

func TestDecodeRejectsWrongFormat(t *testing.T) {
	base := func() []byte {
		var buf bytes.Buffer
		if err := Encode(&buf, make([]int16, 4), 44100); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		return buf.Bytes()
	}

	t.Run("stereo", func(t *testing.T) {
		data := base()
		binary.LittleEndian.PutUint16(data[22:24], 2)
		if _, _, err := Decode(data); err == nil {
			t.Error("stereo accepted")
		}
	})

	t.Run("eight bit", func(t *testing.T) {
		data := base()
		binary.LittleEndian.PutUint16(data[34:36], 8)
		if _, _, err := Decode(data); err == nil {
			t.Error("8-bit samples accepted")
		}
	})

	t.Run("compressed", func(t *testing.T) {
		data := base()
		binary.LittleEndian.PutUint16(data[20:22], 7)
		if _, _, err := Decode(data); err == nil {
			t.Error("non-PCM format accepted")
		}
	})

	t.Run("truncated data chunk", func(t *testing.T) {
		data := base()
		if _, _, err := Decode(data[:len(data)-3]); err == nil {
			t.Error("truncated data accepted")
		}
	})
}
