package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// WAVHeader represents the header structure of a WAV file
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// quantScale maps a clipped float sample onto the signed 16-bit range.
const quantScale = 32767.0

// EncodeWAV encodes normalized float samples into a complete mono 16-bit PCM
// WAV buffer. Each sample is scaled by gain, hard-clipped to [-1.0, 1.0]
// after the gain is applied, and quantized with math.Round into a
// little-endian int16. The output is always exactly 44 + 2*len(samples)
// bytes; an empty sample slice yields a valid header with a zero-length
// data chunk so callers can decide whether a silent file is worth writing.
func EncodeWAV(samples []float32, sampleRate int, gain float64) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if gain <= 0 {
		return nil, fmt.Errorf("gain must be positive, got %f", gain)
	}

	// Calculate sizes
	numChannels := uint16(1)             // Mono
	bitsPerSample := uint16(16)          // 16-bit PCM
	dataSize := uint32(len(samples) * 2) // 2 bytes per sample
	fileSize := 36 + dataSize            // WAV header is 44 bytes, data starts at offset 44

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     fileSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))

	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	if len(samples) > 0 {
		pcm := make([]int16, len(samples))
		for i, s := range samples {
			// Clip AFTER gain - applying gain post-clip would defeat the clip.
			v := float64(s) * gain
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}
			pcm[i] = int16(math.Round(v * quantScale))
		}

		if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// DecodeWAV decodes a mono 16-bit PCM WAV buffer back into normalized float
// samples and the declared sample rate. Quantized values are divided by
// 32767, the inverse of the encoder's quantization step.
func DecodeWAV(data []byte) ([]float32, int, error) {
	if len(data) < 44 {
		return nil, 0, fmt.Errorf("WAV data too short: need at least 44 bytes, got %d", len(data))
	}

	buf := bytes.NewReader(data)
	var header WAVHeader

	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return nil, 0, fmt.Errorf("invalid WAV file: missing RIFF header")
	}

	if string(header.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	if string(header.Subchunk1ID[:]) != "fmt " {
		return nil, 0, fmt.Errorf("invalid WAV file: missing fmt chunk")
	}

	if string(header.Subchunk2ID[:]) != "data" {
		return nil, 0, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	if header.AudioFormat != 1 {
		return nil, 0, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	}

	if header.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", header.BitsPerSample)
	}

	if header.NumChannels != 1 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d (only mono is supported)", header.NumChannels)
	}

	numSamples := int(header.Subchunk2Size) / 2 // 2 bytes per sample

	pcm := make([]int16, numSamples)
	if numSamples > 0 {
		if err := binary.Read(buf, binary.LittleEndian, pcm); err != nil {
			return nil, 0, fmt.Errorf("failed to read audio samples: %w", err)
		}
	}

	samples := make([]float32, numSamples)
	for i, v := range pcm {
		samples[i] = float32(float64(v) / quantScale)
	}

	return samples, int(header.SampleRate), nil
}

// ValidateWAV validates a WAV file format without decoding the entire audio data
func ValidateWAV(data []byte) error {
	if len(data) < 44 {
		return fmt.Errorf("WAV data too short: need at least 44 bytes, got %d", len(data))
	}

	if string(data[0:4]) != "RIFF" {
		return fmt.Errorf("invalid WAV file: missing RIFF header")
	}

	if string(data[8:12]) != "WAVE" {
		return fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	if string(data[12:16]) != "fmt " {
		return fmt.Errorf("invalid WAV file: missing fmt chunk")
	}

	if string(data[36:40]) != "data" {
		return fmt.Errorf("invalid WAV file: missing data chunk")
	}

	return nil
}

// GetWAVDuration calculates the duration of a WAV file in seconds
func GetWAVDuration(data []byte) (float64, error) {
	if err := ValidateWAV(data); err != nil {
		return 0, err
	}

	sampleRate := binary.LittleEndian.Uint32(data[24:28])
	if sampleRate == 0 {
		return 0, fmt.Errorf("invalid sample rate: 0")
	}

	dataSize := binary.LittleEndian.Uint32(data[40:44])

	numSamples := dataSize / 2 // 2 bytes per sample
	duration := float64(numSamples) / float64(sampleRate)

	return duration, nil
}
