// Package api implements the HTTP control surface for relaycore.
//
// This package provides:
//   - The relay command endpoints (toggle, on, off, status, per relay or all)
//   - A state-change history endpoint backed by SQLite
//   - An embedded HTML control panel at the root path
//   - WebSocket hub for real-time state change broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// Handlers are deliberately thin. The relay router owns every command's
// semantics - debounce, persistence, serialisation - so the API layer only
// parses targets, invokes the router, and renders JSON. A debounce-rejected
// toggle is indistinguishable from a successful one on the wire: HTTP 200
// with the relay's current state.
//
// # Command endpoints
//
//	GET /relay/{id}/toggle    flip one relay (debounced)
//	GET /relay/{id}/status    read one relay
//	GET /relay/{id}/on        drive one relay on
//	GET /relay/{id}/off       drive one relay off
//	GET /relay/{id}/history   recent accepted state changes
//	GET /relay/all/status     read the whole bank
//	GET /relay/all/on         drive every relay on
//	GET /relay/all/off        drive every relay off
//
// Commands ride on GET so a relay can be flicked from a browser address
// bar or a curl one-liner, which is how these boards get used in practice.
//
// An unparseable {id} is a 400; a well-formed index outside the table is
// a 404.
package api
