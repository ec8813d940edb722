// Package server exposes the HTTP status and monitoring API.
package server
