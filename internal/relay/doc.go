// Package relay implements the relay control core: a fixed registry of
// relay channels, a debounce ledger for toggle commands, a command router
// that serialises all mutation, and durable state persistence.
//
// # Architecture
//
// The Router is the single entry point for every command, whatever
// transport it arrived on (HTTP, MQTT, boot restore). It owns one mutex;
// registry reads and writes, debounce checks, and snapshot persistence all
// happen inside that critical section, so relay state can never interleave.
//
// The Registry is the in-memory source of truth. Persistence is
// write-through: the registry is updated first, then the snapshot is saved.
// A failed save is logged and swallowed - the relays have already moved,
// and rolling them back to match a broken disk would be worse.
//
// # Identity
//
// A relay is identified by its dense index (0..N-1), assigned by position
// in the configured relay table. The index is the relay's identity in API
// paths, MQTT topics, history rows, and the persisted bitmask.
//
// # Debounce
//
// Only Toggle is debounced. A toggle arriving within the debounce window
// of the last accepted toggle for the same relay is dropped: the relay
// keeps its state, the ledger is not updated, nothing is persisted, and
// the caller gets the current state back as if the command had succeeded.
// Set commands (explicit on/off) always pass.
package relay
