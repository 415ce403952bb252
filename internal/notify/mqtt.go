package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	// EventSleepDetected is the event name of MQTT payloads.
	EventSleepDetected = "SLEEP_DETECTED"

	mqttClientID       = "sleep-watcher"
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

var (
	errConnectTimeout = errors.New("mqtt connection timeout")
	errPublishTimeout = errors.New("mqtt publish timeout")
)

// publisher is the part of paho.Client used by MQTT.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
	Disconnect(quiesce uint)
}

// mqttPayload is the JSON body published per notification.
type mqttPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Message   string `json:"message"`
}

// MQTT publishes notifications to a broker topic.
type MQTT struct {
	client publisher
	topic  string
	now    func() time.Time
}

// NewMQTT connects to broker and returns a sink publishing to topic.
func NewMQTT(broker, topic string) (*MQTT, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(mqttClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, errConnectTimeout
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return newMQTT(client, topic, time.Now), nil
}

func newMQTT(client publisher, topic string, now func() time.Time) *MQTT {
	return &MQTT{
		client: client,
		topic:  topic,
		now:    now,
	}
}

// Notify implements Notifier. QoS 1: the broker should see the event once.
func (m *MQTT) Notify(_ context.Context, message string) error {
	payload, err := json.Marshal(mqttPayload{
		Timestamp: m.now().UTC().Format(time.RFC3339),
		Event:     EventSleepDetected,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("encode mqtt payload: %w", err)
	}

	token := m.client.Publish(m.topic, 1, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return errPublishTimeout
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000)

	return nil
}
