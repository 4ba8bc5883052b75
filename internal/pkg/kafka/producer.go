package kafka

import (
	"Rex/internal/api/config"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EventProducer 领域事件生产者
type EventProducer interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type EventProducerImpl struct {
	producer sarama.AsyncProducer
	topic    string
}

// NewEventProducer 启动异步生产者，错误走后台日志
func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}

	go func() {
		for err := range producer.Errors() {
			log.Error("event publish failed", "topic", err.Msg.Topic, "err", err.Err)
		}
	}()

	return &EventProducerImpl{
		producer: producer,
		topic:    cfg.Kafka.Topic,
	}, nil
}

// Publish 按 thingID 分区，保证同一 Thing 的事件有序
func (p *EventProducerImpl) Publish(ctx context.Context, event *Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.ThingID, 10)),
		Value: sarama.ByteEncoder(value),
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *EventProducerImpl) Close() error {
	return p.producer.Close()
}
