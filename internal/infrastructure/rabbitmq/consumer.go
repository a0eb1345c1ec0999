package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
	"github.com/nerrad567/telemetry-core/internal/observability"
	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// consumerTagPrefix identifies this service on the broker. A random suffix
// keeps tags unique when several instances share the queue.
const consumerTagPrefix = "telemetry-core"

func newConsumerTag() string {
	return consumerTagPrefix + "-" + uuid.NewString()[:8]
}

// ReadingStore persists readings delivered from the bus.
type ReadingStore interface {
	Insert(ctx context.Context, r *telemetry.Reading) error
}

// Broadcaster hands a stored reading to the live fan-out. Notify must never
// block; it reports whether the reading was accepted.
type Broadcaster interface {
	Notify(r telemetry.Reading) bool
}

// Mirror receives a best-effort copy of each stored reading, for the
// time-series mirror. Failures there never affect message settlement.
type Mirror interface {
	WriteReading(r telemetry.Reading)
}

// Consumer reads device event messages from the queue, persists telemetry
// readings and fans them out to live subscribers.
type Consumer struct {
	client      *Client
	store       ReadingStore
	broadcaster Broadcaster
	mirror      Mirror
	logger      *logging.Logger
}

// NewConsumer creates a Consumer on an established client. The broadcaster
// and mirror may be nil; persistence then runs alone.
func NewConsumer(client *Client, store ReadingStore, broadcaster Broadcaster, mirror Mirror, logger *logging.Logger) *Consumer {
	return &Consumer{
		client:      client,
		store:       store,
		broadcaster: broadcaster,
		mirror:      mirror,
		logger:      logger.With("component", "consumer"),
	}
}

// Run consumes until the context is cancelled.
//
// A session ends when the deliveries channel closes (broker fault, channel
// error). Run then waits the configured reconnect delay, re-dials and starts
// a new session. Unlike startup, this loop never gives up.
func (c *Consumer) Run(ctx context.Context) {
	delay := time.Duration(c.client.cfg.Connect.ReconnectDelay) * time.Second

	for {
		err := c.session(ctx)
		if err == nil || ctx.Err() != nil {
			c.logger.Info("consumer stopped")
			return
		}

		c.logger.Error("consume session failed", "error", err, "reconnect_delay", delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		if err := c.client.reconnect(); err != nil {
			c.logger.Warn("broker reconnect failed", "error", err)
		}
	}
}

// session runs one consume session until cancellation or channel failure.
func (c *Consumer) session(ctx context.Context) error {
	deliveries, err := c.client.consume(newConsumerTag())
	if err != nil {
		return err
	}

	c.logger.Info("consuming", "queue", c.client.cfg.Queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrChannelClosed
			}
			ack, requeue := c.handleDelivery(ctx, d)
			c.settle(d, ack, requeue)
		}
	}
}

// settle acknowledges or rejects one delivery.
func (c *Consumer) settle(d amqp.Delivery, ack, requeue bool) {
	if ack {
		if err := d.Ack(false); err != nil {
			c.logger.Error("ack failed", "delivery_tag", d.DeliveryTag, "error", err)
		}
		return
	}
	if err := d.Nack(false, requeue); err != nil {
		c.logger.Error("nack failed", "delivery_tag", d.DeliveryTag, "requeue", requeue, "error", err)
	}
}

// handleDelivery processes one message and decides its settlement.
//
// Unparseable bodies and payloads without a device are rejected without
// requeue; redelivery cannot fix them. Non-telemetry events are acknowledged
// untouched. A telemetry reading is acknowledged only once stored, so a
// transient store failure puts the message back on the queue.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) (ack, requeue bool) {
	env, err := decodeEnvelope(d.Body)
	if err != nil {
		observability.MessagesConsumedTotal.WithLabelValues(observability.OutcomeMalformed).Inc()
		c.logger.Error("dropping unparseable message", "error", err)
		return false, false
	}

	if env.EventType != c.client.cfg.TelemetryEvent {
		observability.MessagesConsumedTotal.WithLabelValues(observability.OutcomeIgnored).Inc()
		c.logger.Debug("ignoring event", "event_type", env.EventType)
		return true, false
	}

	if env.Data.DeviceID == "" {
		observability.MessagesConsumedTotal.WithLabelValues(observability.OutcomeMalformed).Inc()
		c.logger.Error("dropping telemetry without device id")
		return false, false
	}

	reading := env.reading()
	if err := c.store.Insert(ctx, &reading); err != nil {
		observability.MessagesConsumedTotal.WithLabelValues(observability.OutcomePersistFailed).Inc()
		c.logger.Error("storing reading failed, requeueing",
			"device_id", reading.DeviceID,
			"error", err,
		)
		return false, true
	}

	observability.MessagesConsumedTotal.WithLabelValues(observability.OutcomeStored).Inc()
	c.logger.Info("stored reading", "device_id", reading.DeviceID, "timestamp", reading.Timestamp)

	if c.broadcaster != nil {
		if c.broadcaster.Notify(reading) {
			observability.BroadcastsTotal.WithLabelValues("sent").Inc()
		} else {
			observability.BroadcastsTotal.WithLabelValues("dropped").Inc()
			c.logger.Warn("broadcast dropped", "device_id", reading.DeviceID)
		}
	}
	if c.mirror != nil {
		c.mirror.WriteReading(reading)
	}

	return true, false
}

// envelope is the device event message shape published on the bus.
type envelope struct {
	EventType string        `json:"event_type"`
	Data      devicePayload `json:"data"`
}

// devicePayload is the telemetry body inside an envelope. Absent metrics
// stay nil and are never stored as zeros.
type devicePayload struct {
	DeviceID      string   `json:"device_id"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	CPU           *float64 `json:"cpu"`
	MemoryPercent *float64 `json:"memory_percent"`
	DiskPercent   *float64 `json:"disk_percent"`
	Status        *string  `json:"status"`
	Timestamp     string   `json:"timestamp"`
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// reading converts the payload into a store document. A missing timestamp is
// stamped with the current time so the reading stays reachable by range
// queries.
func (e envelope) reading() telemetry.Reading {
	ts := e.Data.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	return telemetry.Reading{
		DeviceID:      e.Data.DeviceID,
		Temperature:   e.Data.Temperature,
		Humidity:      e.Data.Humidity,
		CPU:           e.Data.CPU,
		MemoryPercent: e.Data.MemoryPercent,
		DiskPercent:   e.Data.DiskPercent,
		Status:        e.Data.Status,
		Timestamp:     ts,
		EventType:     e.EventType,
	}
}
