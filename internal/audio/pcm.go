package audio

import (
	"errors"
	"fmt"
)

// ErrOddLengthChunk is returned when a PCM byte buffer does not contain a
// whole number of 16-bit samples. Chunks are rejected rather than silently
// truncated so a broken capture source is noticed immediately.
var ErrOddLengthChunk = errors.New("pcm chunk length must be even")

// pcmScale normalizes a signed 16-bit sample into [-1.0, 1.0].
const pcmScale = 32768.0

// DecodePCM16 converts interleaved little-endian signed 16-bit mono PCM
// bytes into normalized float32 samples. The result has exactly
// len(buf)/2 samples, one per input sample, each divided by 32768.
func DecodePCM16(buf []byte) ([]float32, error) {
	if len(buf)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrOddLengthChunk, len(buf))
	}

	samples := make([]float32, len(buf)/2)
	for i := range samples {
		v := int16(buf[2*i]) | int16(buf[2*i+1])<<8
		samples[i] = float32(v) / pcmScale
	}

	return samples, nil
}
