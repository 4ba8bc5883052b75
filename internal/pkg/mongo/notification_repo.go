package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, msg *Notification) error
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notifications"),
	}
}

func (s *notificationRepoImpl) CreateNotification(ctx context.Context, msg *Notification) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

func (s *notificationRepoImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, error) {
	filter := bson.M{"receiver_id": userID}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Notification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *notificationRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"receiver_id": userID, "is_read": false})
}

func (s *notificationRepoImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	oid, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return err
	}

	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "receiver_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (s *notificationRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"receiver_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}
