package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/mongo"
	"context"
)

type NotificationService interface {
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) (*dto.NotificationPageDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
}

type NotificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
	userSvc          UserService
}

func NewNotificationService(notificationRepo mongo.NotificationRepo, userSvc UserService) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userSvc:          userSvc,
	}
}

func (s *NotificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) (*dto.NotificationPageDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	list, err := s.notificationRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, msg := range list {
		senderIDs = append(senderIDs, msg.SenderID)
	}
	avatars := make(map[uint64]string)
	if len(senderIDs) > 0 {
		if users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, senderIDs); err == nil {
			for _, user := range users {
				if user.UserID != nil && user.AvatarURL != nil {
					avatars[*user.UserID] = *user.AvatarURL
				}
			}
		}
	}

	page := &dto.NotificationPageDTO{
		List:        make([]*dto.NotificationDTO, 0, len(list)),
		UnreadCount: unread,
	}
	for _, msg := range list {
		item := &dto.NotificationDTO{
			ID:        msg.ID.Hex(),
			SenderID:  msg.SenderID,
			AvatarURL: avatars[msg.SenderID],
			Type:      msg.Type,
			ThingID:   msg.ThingID,
			Content:   msg.Content,
			Payload:   msg.Payload,
			IsRead:    msg.IsRead,
			CreatedAt: msg.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		// 发送时的展示名随通知存档，改名不影响历史
		if name, ok := msg.Payload["sender_name"].(string); ok {
			item.SenderName = name
		}
		page.List = append(page.List, item)
	}
	return page, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	return s.notificationRepo.MarkAsRead(ctx, userID, msgID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
