// Package server runs the local control API's HTTP server: startup, signal
// handling, and graceful shutdown.
package server
