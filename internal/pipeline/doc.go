// Package pipeline connects microphone capture to recognition, synthesis and playback.
package pipeline
