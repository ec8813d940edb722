// Package recognizer defines the streaming recognition engine contract and
// the per-recording session that feeds it. A session owns exactly one open
// stream, drains ready decodes after every chunk, finalizes transcripts on
// engine-reported endpoints and reuses the stream across utterances.
package recognizer
