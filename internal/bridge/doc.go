// Package bridge connects the relay router to MQTT.
//
// The bridge is the integration point for home-automation platforms:
//   - Commands: {prefix}/relay/{id}/set accepts "on", "off", "toggle"
//   - State: {prefix}/relay/{id}/state carries the retained current state
//
// State publishes go through a buffered queue so the relay router's
// critical section never blocks on the broker. Commands funnel through
// the same router as HTTP requests, so debounce, persistence, and the
// status indicator behave identically regardless of transport.
package bridge
