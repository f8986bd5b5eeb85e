package events

import (
    "context"
    "encoding/json"
    "time"

    "github.com/rs/zerolog"
    "github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
    WriteMessages(ctx context.Context, msgs ...kafka.Message) error
    Close() error
}

// Producer writes events as JSON to a Kafka topic, keyed by game id so one
// game's events stay ordered within a partition.
type Producer struct {
    writer messageWriter
    log    zerolog.Logger
}

// NewProducer returns nil when brokers or topic are missing; a nil
// *Producer is safe to use and publishes nothing.
func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
    if len(brokers) == 0 || topic == "" {
        return nil
    }
    writer := &kafka.Writer{
        Addr:                   kafka.TCP(brokers...),
        Topic:                  topic,
        Balancer:               &kafka.Hash{},
        AllowAutoTopicCreation: true,
        Async:                  true,
        Completion: func(msgs []kafka.Message, err error) {
            if err != nil {
                log.Warn().Err(err).Int("messages", len(msgs)).Msg("kafka publish failed")
            }
        },
    }
    return &Producer{writer: writer, log: log}
}

func (p *Producer) Publish(ctx context.Context, ev Event) {
    if p == nil || p.writer == nil {
        return
    }
    if ev.Timestamp.IsZero() {
        ev.Timestamp = time.Now().UTC()
    }
    data, err := json.Marshal(ev)
    if err != nil {
        p.log.Error().Err(err).Str("event", ev.Type).Msg("encode event")
        return
    }
    msg := kafka.Message{Key: []byte(ev.GameID), Value: data}
    if err := p.writer.WriteMessages(ctx, msg); err != nil {
        p.log.Warn().Err(err).Str("event", ev.Type).Msg("kafka publish failed")
    }
}

func (p *Producer) Close() error {
    if p == nil || p.writer == nil {
        return nil
    }
    return p.writer.Close()
}
