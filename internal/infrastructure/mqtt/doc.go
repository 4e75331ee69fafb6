// Package mqtt provides MQTT client connectivity for relaycore.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// relaycore uses MQTT to integrate the relay board with home-automation
// platforms: the controller publishes retained per-relay state and a
// retained presence message, and accepts relay commands on a set topic.
// The bridge package wires these topics to the relay router.
//
//	relaycore ↔ MQTT Broker ↔ Home Assistant / Node-RED / dashboards
//
// # Topic layout
//
//	{prefix}/system/status     retained online/offline presence (+ LWT)
//	{prefix}/relay/{id}/state  retained relay state, "on" or "off"
//	{prefix}/relay/{id}/set    commands: "on", "off", "toggle"
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := client.Topics()
//	client.PublishRetained(topics.RelayState(0), []byte("on"))
//
//	err = client.Subscribe(topics.AllRelayCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("command: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
