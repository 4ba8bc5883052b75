package kafka

import (
	"Rex/internal/api/config"
	"Rex/internal/pkg/es"
	"Rex/internal/pkg/mongo"
	"Rex/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler

	indexConsumer sarama.ConsumerGroup
	indexHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	notifyRepo mongo.NotificationRepo,
	userFollowRepo repository.UserFollowRepo,
	thingRepo repository.ThingRepo,
	thingESRepo es.ThingRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notifyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEventConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	notifyHandler := NewNotificationHandler(notifyRepo, userFollowRepo)

	indexConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaIndexConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	indexHandler := NewThingIndexHandler(thingRepo, thingESRepo)

	return &ConsumerManager{
		notifyConsumer: notifyConsumer,
		notifyHandler:  notifyHandler,
		indexConsumer:  indexConsumer,
		indexHandler:   indexHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	topic := cfg.Kafka.Topic

	go func() {
		log.Info("Notification consumer started", "topic", topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{topic}, m.notifyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		log.Info("Thing index consumer started", "topic", topic)
		for {
			if err := m.indexConsumer.Consume(ctx, []string{topic}, m.indexHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notifyConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	if err := m.indexConsumer.Close(); err != nil {
		log.Error("Failed to close index consumer", "err", err)
	}
	return nil
}
