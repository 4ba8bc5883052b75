package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *Comment) (string, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	GetRootCommentsByThingID(ctx context.Context, thingID uint64, limit, offset int64) ([]*Comment, error)
	GetRepliesByRootID(ctx context.Context, rootID string, limit, offset int64) ([]*Comment, error)
	GetCommentCountByThingID(ctx context.Context, thingID uint64) (int64, error)
	GetReplyCountByRootID(ctx context.Context, rootID string) (int64, error)
	SoftDeleteComment(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, id primitive.ObjectID, userID uint64) error
	RemoveLike(ctx context.Context, id primitive.ObjectID, userID uint64) error
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		col: db.Collection("comments"),
	}
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *Comment) (string, error) {
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *commentRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	var comment Comment
	err := s.col.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetRootCommentsByThingID 一级评论，最新在前
func (s *commentRepoImpl) GetRootCommentsByThingID(ctx context.Context, thingID uint64, limit, offset int64) ([]*Comment, error) {
	filter := bson.M{
		"thing_id":   thingID,
		"root_id":    bson.M{"$in": bson.A{"", nil}},
		"is_deleted": false,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	return s.findComments(ctx, filter, findOptions)
}

// GetRepliesByRootID 楼中楼回复，最早在前
func (s *commentRepoImpl) GetRepliesByRootID(ctx context.Context, rootID string, limit, offset int64) ([]*Comment, error) {
	filter := bson.M{
		"root_id":    rootID,
		"is_deleted": false,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	return s.findComments(ctx, filter, findOptions)
}

func (s *commentRepoImpl) GetCommentCountByThingID(ctx context.Context, thingID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"thing_id": thingID, "is_deleted": false})
}

func (s *commentRepoImpl) GetReplyCountByRootID(ctx context.Context, rootID string) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"root_id": rootID, "is_deleted": false})
}

func (s *commentRepoImpl) SoftDeleteComment(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_deleted": true}})
	return err
}

func (s *commentRepoImpl) AddLike(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"liked_by": userID}})
	return err
}

func (s *commentRepoImpl) RemoveLike(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$pull": bson.M{"liked_by": userID}})
	return err
}

func (s *commentRepoImpl) findComments(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Comment, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var comments []*Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}
