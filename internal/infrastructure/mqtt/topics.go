package mqtt

import "fmt"

// DefaultTopicPrefix is used when the config leaves topic_prefix empty.
const DefaultTopicPrefix = "relaycore"

// Topics builds the relaycore MQTT topic hierarchy under a configurable
// prefix. Using these helpers keeps topic naming consistent between the
// client's presence messages and the command bridge.
//
//	topics := mqtt.NewTopics("relaycore")
//	topics.RelayState(2)   // "relaycore/relay/2/state"
//	topics.RelayCommand(2) // "relaycore/relay/2/set"
type Topics struct {
	prefix string
}

// NewTopics creates a topic builder with the given prefix.
// An empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// SystemStatus returns the controller presence topic. Online/offline
// payloads and the LWT are published here, retained.
//
// Example: relaycore/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix)
}

// RelayState returns the retained state topic for one relay.
//
// Example: relaycore/relay/2/state
func (t Topics) RelayState(id int) string {
	return fmt.Sprintf("%s/relay/%d/state", t.prefix, id)
}

// RelayCommand returns the command topic for one relay.
//
// Example: relaycore/relay/2/set
func (t Topics) RelayCommand(id int) string {
	return fmt.Sprintf("%s/relay/%d/set", t.prefix, id)
}

// AllRelayCommands returns a pattern matching every relay command topic.
//
// Pattern: relaycore/relay/+/set
func (t Topics) AllRelayCommands() string {
	return fmt.Sprintf("%s/relay/+/set", t.prefix)
}
