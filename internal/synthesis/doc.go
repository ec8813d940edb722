// Package synthesis defines the text-to-speech engine contract, a built-in
// deterministic tone backend for local runs, and an HTTP client backend for
// remote synthesis services with retry and rate limiting.
package synthesis
