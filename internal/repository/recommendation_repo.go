package repository

import (
	"Rex/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepo interface {
	CreateRecommendation(ctx context.Context, rec *model.Recommendation) error
	GetByRecipientAndThing(ctx context.Context, recipientID, thingID uint64) (*model.Recommendation, error)
	GetRecommenderStats(ctx context.Context, recommenderID uint64) (int64, error)
}

type RecommendationRepoImpl struct {
	db *gorm.DB
}

func NewRecommendationRepo(db *gorm.DB) RecommendationRepo {
	return &RecommendationRepoImpl{db: db}
}

// CreateRecommendation 同一 (recipient, thing) 只记第一位推荐人
func (s *RecommendationRepoImpl) CreateRecommendation(ctx context.Context, rec *model.Recommendation) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			DoNothing: true,
		}).
		Create(rec).Error
}

func (s *RecommendationRepoImpl) GetByRecipientAndThing(ctx context.Context, recipientID, thingID uint64) (*model.Recommendation, error) {
	rec := &model.Recommendation{}
	result := s.db.WithContext(ctx).
		Where("recipient_id = ? AND thing_id = ?", recipientID, thingID).
		First(rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return rec, nil
}

// GetRecommenderStats 推荐被收下的总次数
func (s *RecommendationRepoImpl) GetRecommenderStats(ctx context.Context, recommenderID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Recommendation{}).
		Where("recommender_id = ?", recommenderID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
