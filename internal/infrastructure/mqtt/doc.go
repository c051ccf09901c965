// Package mqtt provides the chat transport for homebot.
//
// It wraps the Eclipse Paho MQTT client with connection management,
// automatic reconnection, tracked subscriptions (restored on reconnect),
// Last Will and Testament for offline detection, and panic-safe message
// handlers.
//
// # Topic scheme
//
//	homebot/chat/{caller_id}/in     commands from a caller
//	homebot/chat/{caller_id}/out    replies to a caller
//	homebot/system/status           retained online/offline status + LWT
//
// Chat front-ends (a Telegram relay, a web panel, mosquitto_pub for testing)
// publish free text to the inbound topic and subscribe to the outbound one.
// The bot itself subscribes to homebot/chat/+/in and derives the caller
// identity from the topic.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.Chat)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Subscribe(mqtt.Topics{}.AllChatInbound(), 1, onMessage)
package mqtt
