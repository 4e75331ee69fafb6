package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRelayState writes one accepted relay state change to InfluxDB.
//
// This is the primary telemetry method: the relay router's observer calls
// it for every accepted change. The write is non-blocking; data is
// batched and sent asynchronously.
//
// Parameters:
//   - relayID: The relay's index in the configured table
//   - name: The relay's display name (tag, low cardinality)
//   - value: The new state, 0 or 1
//   - source: What caused the change ("http", "mqtt", "boot")
//
// Example:
//
//	client.WriteRelayState(0, "Light 1", 1, "http")
func (c *Client) WriteRelayState(relayID int, name string, value int, source string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"relay_state",
		map[string]string{
			"relay_id": strconv.Itoa(relayID),
			"name":     name,
			"source":   source,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "relay-01"},
//	    map[string]interface{}{"uptime_s": 86400})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
