// Package audio handles PCM sample conversion and WAV container encoding.
// It converts little-endian 16-bit PCM byte streams into normalized float
// samples for recognition and re-encodes synthesized float samples into
// RIFF/WAVE buffers for playback.
package audio
