package mqtt

import "fmt"

// Topic prefixes for the homebot chat transport.
//
// Chat topics use the scheme: homebot/chat/{caller_id}/{direction}
// where direction is "in" (caller to bot) or "out" (bot to caller).
const (
	// TopicPrefixChat is the base for all chat topics.
	TopicPrefixChat = "homebot/chat"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "homebot/system"
)

// Topics provides builders for homebot MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	inTopic := topics.ChatInbound("user-42")
//	// Returns: "homebot/chat/user-42/in"
type Topics struct{}

// ChatInbound returns the topic a caller publishes commands to.
//
// Example: homebot/chat/user-42/in
func (Topics) ChatInbound(callerID string) string {
	return fmt.Sprintf("%s/%s/in", TopicPrefixChat, callerID)
}

// ChatOutbound returns the topic the bot publishes replies to.
//
// Example: homebot/chat/user-42/out
func (Topics) ChatOutbound(callerID string) string {
	return fmt.Sprintf("%s/%s/out", TopicPrefixChat, callerID)
}

// AllChatInbound returns a pattern matching every caller's inbound topic.
//
// Pattern: homebot/chat/+/in
func (Topics) AllChatInbound() string {
	return fmt.Sprintf("%s/+/in", TopicPrefixChat)
}

// SystemStatus returns the service status topic (online/offline, LWT).
//
// Example: homebot/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
