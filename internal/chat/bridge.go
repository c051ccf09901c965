package chat

import (
	"fmt"
	"time"

	"github.com/nerrad567/homebot/internal/infrastructure/mqtt"
)

// MQTTClient is the interface for MQTT operations. This allows
// mocking in tests and flexibility in implementation.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// MessageSink receives decoded inbound chat messages. Satisfied by
// the dispatcher.
type MessageSink interface {
	HandleMessage(callerID, text string)
}

// Logger defines the logging interface for the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Bridge connects the MQTT chat topics to the dispatcher. Inbound
// messages on homebot/chat/{caller}/in are decoded and handed to the
// sink; replies go out on homebot/chat/{caller}/out.
type Bridge struct {
	client MQTTClient
	sink   MessageSink
	topics mqtt.Topics
	qos    byte
	logger Logger

	// now is injectable for payload timestamp tests.
	now func() time.Time
}

// New creates a bridge over the given client. The dispatcher is
// attached in Start, since it needs the bridge as its reply sink.
func New(client MQTTClient, qos byte) *Bridge {
	return &Bridge{
		client: client,
		qos:    qos,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.logger = logger
}

// Start attaches the sink and subscribes to the inbound chat topics.
func (b *Bridge) Start(sink MessageSink) error {
	b.sink = sink
	if err := b.client.Subscribe(b.topics.AllChatInbound(), b.qos, b.handleInbound); err != nil {
		return fmt.Errorf("subscribing to chat topics: %w", err)
	}
	b.logger.Info("chat bridge started", "topic", b.topics.AllChatInbound())
	return nil
}

// handleInbound decodes one inbound message and dispatches it.
func (b *Bridge) handleInbound(topic string, payload []byte) error {
	callerID, err := callerFromTopic(topic)
	if err != nil {
		b.logger.Warn("ignoring message on malformed topic", "topic", topic, "error", err)
		return err
	}

	text := decodeInbound(payload)
	if text == "" {
		b.logger.Debug("ignoring empty message", "caller_id", callerID)
		return nil
	}

	b.sink.HandleMessage(callerID, text)
	return nil
}

// Reply publishes a message to the caller's outbound topic. It
// implements the dispatcher's reply sink.
func (b *Bridge) Reply(callerID, text string) error {
	payload, err := encodeOutbound(text, b.now())
	if err != nil {
		return fmt.Errorf("encoding reply: %w", err)
	}

	if err := b.client.Publish(b.topics.ChatOutbound(callerID), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing reply: %w", err)
	}
	return nil
}
