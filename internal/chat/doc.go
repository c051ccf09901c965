// Package chat bridges MQTT chat topics to the command dispatcher.
//
// Callers publish commands to homebot/chat/{caller_id}/in, either as
// JSON ({"text": "coffee"}) or as a plain text payload. The bridge
// decodes each message, derives the caller identity from the topic,
// and hands the pair to the dispatcher. Replies are published as
// JSON to homebot/chat/{caller_id}/out.
package chat
