// Package events pushes live WHS events to dashboard clients over MQTT.
// Dashboards subscribe to the topics below to refresh without polling.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	TopicCheckIns  = "whs/checkins"
	TopicIncidents = "whs/incidents"
)

var client mqtt.Client

var connectHandler mqtt.OnConnectHandler = func(c mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(c mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Init connects the publisher. An empty brokerURL disables publishing; every
// Publish becomes a no-op so the API works without a broker.
func Init(brokerURL string) error {
	if brokerURL == "" {
		log.Info().Msg("MQTT broker not configured, event publishing disabled")
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("warden-server")
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	opts.SetAutoReconnect(true)

	client = mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// Publish sends a JSON payload to the given topic at QoS 1.
func Publish(topic string, payload any) {
	if client == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to marshal event payload")
		return
	}
	token := client.Publish(topic, 1, false, body)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("failed to publish event")
	}
}

// CheckInEvent is published on TopicCheckIns when a worker submits.
type CheckInEvent struct {
	WorkerID       int       `json:"worker_id"`
	Date           string    `json:"date"`
	ReadinessScore int       `json:"readiness_score"`
	Fatigued       bool      `json:"fatigued"`
	InPain         bool      `json:"in_pain"`
	At             time.Time `json:"at"`
}

// IncidentEvent is published on TopicIncidents when an incident is reported.
type IncidentEvent struct {
	IncidentID int       `json:"incident_id"`
	WorkerID   int       `json:"worker_id"`
	Severity   string    `json:"severity"`
	Location   string    `json:"location"`
	At         time.Time `json:"at"`
}

// Cleanup disconnects the publisher; pending messages get 250ms to flush.
func Cleanup() {
	if client != nil {
		client.Disconnect(250)
		log.Info().Msg("MQTT client disconnected")
	}
}
