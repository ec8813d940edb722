// Package capture provides microphone audio sources emitting raw PCM chunks.
package capture
