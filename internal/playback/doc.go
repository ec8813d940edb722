// Package playback writes synthesized audio to a reusable WAV slot and hands it to a player.
package playback
