package bridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jmcrae/relaycore/internal/infrastructure/mqtt"
	"github.com/jmcrae/relaycore/internal/relay"
)

// Bridge operation constants.
const (
	// minTopicParts is the number of parts in a valid command topic:
	// {prefix}/relay/{id}/set.
	minTopicParts = 4

	// publishBufferSize is the outbound state-event buffer size. State
	// events are produced inside the relay router's critical section, so
	// the buffer absorbs bursts and overflow drops rather than blocks.
	publishBufferSize = 64
)

// Command payloads accepted on the set topic.
const (
	cmdOn     = "on"
	cmdOff    = "off"
	cmdToggle = "toggle"
)

// MQTTClient is the interface for MQTT operations.
// This allows mocking in tests; *mqtt.Client satisfies it.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// Logger is the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// stateEvent is one accepted relay change queued for publication.
type stateEvent struct {
	id    int
	state relay.State
}

// Bridge connects the relay router to MQTT in both directions: commands
// arriving on {prefix}/relay/{id}/set drive the router, and every
// accepted state change is published retained to {prefix}/relay/{id}/state.
//
// Thread Safety: all methods are safe for concurrent use.
type Bridge struct {
	relays *relay.Router
	client MQTTClient
	topics mqtt.Topics
	qos    byte
	logger Logger

	events chan stateEvent

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Relays is the relay command router.
	Relays *relay.Router

	// Client is the connected MQTT client.
	Client MQTTClient

	// Topics builds the topic hierarchy (prefix comes from config).
	Topics mqtt.Topics

	// QoS is the QoS level for publishes and the command subscription.
	QoS byte

	// Logger receives bridge diagnostics.
	Logger Logger
}

// New creates a bridge. It does not subscribe or publish until Start().
func New(opts Options) (*Bridge, error) {
	if opts.Relays == nil {
		return nil, fmt.Errorf("relay router is required")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("mqtt client is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Bridge{
		relays: opts.Relays,
		client: opts.Client,
		topics: opts.Topics,
		qos:    opts.QoS,
		logger: opts.Logger,
		events: make(chan stateEvent, publishBufferSize),
		done:   make(chan struct{}),
	}, nil
}

// Start subscribes to the command topic, registers the state observer,
// launches the publisher goroutine, and publishes the current state of
// every relay retained so new subscribers see the bank immediately.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.client.Subscribe(b.topics.AllRelayCommands(), b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to relay commands: %w", err)
	}

	// Observers run inside the router's critical section; queueing must
	// never block, so overflow drops the event. Retained publishes are
	// self-healing: the next accepted change carries the current state.
	b.relays.AddObserver(func(view relay.View, _ string) {
		select {
		case b.events <- stateEvent{id: view.ID, state: view.State}:
		default:
			b.logger.Warn("state publish buffer full, dropping event", "relay", view.ID)
		}
	})

	b.wg.Add(1)
	go b.publishLoop(ctx)

	b.publishAll()

	b.logger.Info("mqtt bridge started",
		"command_topic", b.topics.AllRelayCommands(),
		"relays", b.relays.Count(),
	)
	return nil
}

// Stop shuts the publisher goroutine down. Safe to call more than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	b.wg.Wait()
}

// publishLoop drains queued state events onto the broker.
func (b *Bridge) publishLoop(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case ev := <-b.events:
			b.publishState(ev.id, ev.state)
		case <-b.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// publishAll publishes the retained state of every relay.
func (b *Bridge) publishAll() {
	for _, view := range b.relays.All() {
		b.publishState(view.ID, view.State)
	}
}

// publishState publishes one relay's state, retained.
func (b *Bridge) publishState(id int, state relay.State) {
	topic := b.topics.RelayState(id)
	if err := b.client.Publish(topic, []byte(state.String()), b.qos, true); err != nil {
		b.logger.Warn("publishing relay state", "relay", id, "error", err)
	}
}

// handleCommand processes one message from a {prefix}/relay/{id}/set topic.
//
// Malformed targets and payloads are logged and dropped rather than
// returned as errors: a stray retained message or a typo from a manual
// publish must not spam the handler-error path on every redelivery.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	id, err := parseCommandTopic(topic)
	if err != nil {
		b.logger.Warn("ignoring malformed command topic", "topic", topic, "error", err)
		return nil
	}

	cmd := strings.ToLower(strings.TrimSpace(string(payload)))
	ctx := context.Background()

	switch cmd {
	case cmdOn:
		_, err = b.relays.Set(ctx, id, relay.StateOn, relay.SourceMQTT)
	case cmdOff:
		_, err = b.relays.Set(ctx, id, relay.StateOff, relay.SourceMQTT)
	case cmdToggle:
		_, _, err = b.relays.Toggle(ctx, id, relay.SourceMQTT)
	default:
		b.logger.Warn("ignoring unknown relay command", "topic", topic, "payload", cmd)
		return nil
	}

	if err != nil {
		b.logger.Warn("relay command failed", "relay", id, "command", cmd, "error", err)
	}
	return nil
}

// parseCommandTopic extracts the relay index from a command topic.
// The index is the second-to-last segment: {prefix}/relay/{id}/set.
func parseCommandTopic(topic string) (int, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < minTopicParts {
		return 0, fmt.Errorf("expected {prefix}/relay/{id}/set, got %q", topic)
	}

	raw := parts[len(parts)-2]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("relay index %q is not a number", raw)
	}
	return id, nil
}
