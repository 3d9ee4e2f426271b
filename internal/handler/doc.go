// Package handler exposes the local control API the UI shell talks to over
// loopback HTTP: CRUD on entity collections, the sync on/off switch, and
// manual sync triggers.
package handler
