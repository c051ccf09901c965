package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// topicParts is the expected segment count of an inbound chat topic,
// homebot/chat/{caller_id}/in.
const topicParts = 4

// inboundMessage is the JSON payload published to a caller's inbound
// topic.
type inboundMessage struct {
	Text string `json:"text"`
}

// outboundMessage is the JSON payload published to a caller's
// outbound topic.
type outboundMessage struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// callerFromTopic extracts the caller identifier from an inbound
// chat topic.
func callerFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != topicParts || parts[0] != "homebot" || parts[1] != "chat" || parts[3] != "in" {
		return "", fmt.Errorf("malformed chat topic: %s", topic)
	}
	if parts[2] == "" || parts[2] == "+" || parts[2] == "#" {
		return "", fmt.Errorf("invalid caller id in topic: %s", topic)
	}
	return parts[2], nil
}

// decodeInbound extracts the command text from an inbound payload.
// JSON object payloads carry the text in a "text" field; anything
// else is treated as plain text.
func decodeInbound(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") {
		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err == nil {
			return strings.TrimSpace(msg.Text)
		}
	}
	return trimmed
}

// encodeOutbound builds the reply payload.
func encodeOutbound(text string, at time.Time) ([]byte, error) {
	return json.Marshal(outboundMessage{
		Text:      text,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
}
