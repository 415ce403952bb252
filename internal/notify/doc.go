// Package notify delivers sleep notifications.
//
// Notifier is the sink contract used by the watcher. Webhook posts a chat
// webhook payload, MQTT publishes an event to a broker and Fanout chains
// several sinks. Delivery is attempted once; there are no retries.
package notify
