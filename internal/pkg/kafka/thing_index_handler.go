package kafka

import (
	"Rex/internal/pkg/es"
	"Rex/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ThingIndexHandler 消费 Thing 事件，把搜索索引推到最新状态
type ThingIndexHandler struct {
	thingRepo   repository.ThingRepo
	thingESRepo es.ThingRepo
}

func NewThingIndexHandler(thingRepo repository.ThingRepo, thingESRepo es.ThingRepo) *ThingIndexHandler {
	return &ThingIndexHandler{
		thingRepo:   thingRepo,
		thingESRepo: thingESRepo,
	}
}

func (s *ThingIndexHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("thing index consumer setup")
	return nil
}

func (s *ThingIndexHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("thing index consumer cleanup")
	return nil
}

func (s *ThingIndexHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("thing index consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("thing index process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ThingIndexHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToEvent(msg)
	if err != nil {
		return nil
	}

	switch event.Type {
	case EventThingUpserted:
		return s.handleUpsert(ctx, event)
	case EventThingDeleted:
		return s.thingESRepo.DeleteThing(ctx, event.ThingID)
	default:
		return nil
	}
}

// handleUpsert 回源数据库取最新快照，版本号随事件传递防乱序
func (s *ThingIndexHandler) handleUpsert(ctx context.Context, event *Event) error {
	thing, err := s.thingRepo.GetThingByID(ctx, event.ThingID)
	if err != nil {
		return err
	}
	if thing == nil || thing.IsDeleted {
		return s.thingESRepo.DeleteThing(ctx, event.ThingID)
	}

	tags := make([]string, 0, len(thing.Tags))
	for _, tag := range thing.Tags {
		tags = append(tags, tag.Name)
	}

	doc := &es.ThingES{
		ID:          thing.ID,
		Title:       thing.Title,
		Category:    thing.Category,
		Description: thing.Description,
		ImageURL:    thing.ImageURL,
		Tags:        tags,
		CreatorID:   thing.CreatorID,
		CreatedAt:   thing.CreatedAt,
		UpdatedAt:   thing.UpdatedAt,
	}

	version := event.ThingVersion
	if version <= 0 {
		version = thing.UpdatedAt.UnixMilli()
	}

	err = s.thingESRepo.IndexThing(ctx, doc, version)
	if err != nil {
		log.ErrorContext(ctx, "index thing failed", "thingID", thing.ID, "err", err)
		return err
	}
	return nil
}
