package kafka

import (
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/mongo"
	"Rex/internal/pkg/redis"
	"Rex/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// NotificationHandler 消费领域事件：落收件箱、标脏信息流缓存、推送在线通道
type NotificationHandler struct {
	notifyRepo     mongo.NotificationRepo
	userFollowRepo repository.UserFollowRepo
}

func NewNotificationHandler(notifyRepo mongo.NotificationRepo, userFollowRepo repository.UserFollowRepo) *NotificationHandler {
	return &NotificationHandler{
		notifyRepo:     notifyRepo,
		userFollowRepo: userFollowRepo,
	}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notification consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("notification process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToEvent(msg)
	if err != nil {
		// 格式坏的消息没有重试价值
		return nil
	}

	switch event.Type {
	case EventInteractionCreated, EventInteractionUpdated, EventInteractionDeleted:
		return s.markFollowerFeedsDirty(ctx, event.ActorID)
	case EventCommentCreated:
		return s.deliver(ctx, event, mongo.NotifyTypeComment)
	case EventMentionCreated:
		return s.deliver(ctx, event, mongo.NotifyTypeMention)
	case EventLikeCreated:
		return s.deliver(ctx, event, mongo.NotifyTypeLike)
	case EventFollowCreated:
		return s.deliver(ctx, event, mongo.NotifyTypeFollow)
	case EventShareAccepted:
		return s.deliver(ctx, event, mongo.NotifyTypeRecommendation)
	case EventThingUpserted, EventThingDeleted:
		// 搜索索引消费组负责
		return nil
	default:
		return nil
	}
}

// markFollowerFeedsDirty 互动变化让每个粉丝的缓存负载过期
func (s *NotificationHandler) markFollowerFeedsDirty(ctx context.Context, actorID uint64) error {
	followerIDs, err := s.userFollowRepo.GetFollowerIDs(ctx, actorID)
	if err != nil {
		return err
	}

	members := make([]interface{}, 0, len(followerIDs)+1)
	members = append(members, strconv.FormatUint(actorID, 10))
	for _, id := range followerIDs {
		members = append(members, strconv.FormatUint(id, 10))
	}
	return redis.SAdd(ctx, consts.FeedDirtyKey, members...)
}

// deliver 给每个接收者写一条收件箱记录并推送在线通道
func (s *NotificationHandler) deliver(ctx context.Context, event *Event, notifyType int8) error {
	for _, receiverID := range event.ReceiverIDs {
		if receiverID == event.ActorID {
			continue
		}

		notification := &mongo.Notification{
			ReceiverID: receiverID,
			SenderID:   event.ActorID,
			Type:       notifyType,
			ThingID:    event.ThingID,
			Content:    event.Content,
			Payload: map[string]any{
				"sender_name": event.ActorName,
				"thing_title": event.ThingTitle,
			},
			CreatedAt: event.OccurredAt,
		}
		if err := s.notifyRepo.CreateNotification(ctx, notification); err != nil {
			return err
		}

		s.pushOnline(ctx, receiverID, notification)
	}
	return nil
}

// pushOnline 发布到用户的推送通道；没有在线连接时消息自然丢弃
func (s *NotificationHandler) pushOnline(ctx context.Context, receiverID uint64, notification *mongo.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	channel := consts.NotifyChannelKey + strconv.FormatUint(receiverID, 10)
	if err = redis.Publish(ctx, channel, string(payload)); err != nil {
		log.WarnContext(ctx, "push notification failed", "receiverID", receiverID, "err", err)
	}
}
