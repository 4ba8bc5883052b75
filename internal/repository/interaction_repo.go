package repository

import (
	"Rex/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type InteractionRepo interface {
	GetByID(ctx context.Context, id uint64) (*model.UserThingInteraction, error)
	GetByUserAndThing(ctx context.Context, userID, thingID uint64) (*model.UserThingInteraction, error)
	GetByThingID(ctx context.Context, thingID uint64) ([]*model.UserThingInteraction, error)
	GetByUserIDs(ctx context.Context, userIDs []uint64, limit int) ([]*model.UserThingInteraction, error)
	GetUserLibrary(ctx context.Context, userID uint64, state string, limit, offset int) ([]*model.UserThingInteraction, error)
	CreateInteraction(ctx context.Context, interaction *model.UserThingInteraction) error
	UpdateInteraction(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error)
	DeleteInteraction(ctx context.Context, id uint64, userID uint64) (int64, error)
	CreateLike(ctx context.Context, like *model.InteractionLike) error
	DeleteLike(ctx context.Context, userID, interactionID uint64) (int64, error)
	GetLikedIDs(ctx context.Context, userID uint64, interactionIDs []uint64) ([]uint64, error)
	UpdateCounter(ctx context.Context, id uint64, column string, delta int) error
	UpdateCounterByThing(ctx context.Context, thingID uint64, column string, delta int) error
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db: db}
}

func (s *InteractionRepoImpl) GetByID(ctx context.Context, id uint64) (*model.UserThingInteraction, error) {
	interaction := &model.UserThingInteraction{}
	result := s.db.WithContext(ctx).
		Preload("Thing").
		Preload("Thing.Tags").
		First(interaction, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return interaction, nil
}

// GetByUserAndThing 每人每物至多一条；建还是改由调用方据此决定
func (s *InteractionRepoImpl) GetByUserAndThing(ctx context.Context, userID, thingID uint64) (*model.UserThingInteraction, error) {
	interaction := &model.UserThingInteraction{}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND thing_id = ?", userID, thingID).
		Order("id desc").
		First(interaction)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return interaction, nil
}

func (s *InteractionRepoImpl) GetByThingID(ctx context.Context, thingID uint64) ([]*model.UserThingInteraction, error) {
	interactions := make([]*model.UserThingInteraction, 0)
	result := s.db.WithContext(ctx).
		Where("thing_id = ?", thingID).
		Order("date desc").
		Find(&interactions)
	if result.Error != nil {
		return nil, result.Error
	}
	return interactions, nil
}

// GetByUserIDs 信息流源数据：给定作者集合的互动，带 Thing 快照
func (s *InteractionRepoImpl) GetByUserIDs(ctx context.Context, userIDs []uint64, limit int) ([]*model.UserThingInteraction, error) {
	interactions := make([]*model.UserThingInteraction, 0)
	result := s.db.WithContext(ctx).
		Preload("Thing").
		Preload("Thing.Tags").
		Where("user_id IN ?", userIDs).
		Order("date desc").
		Limit(limit).
		Find(&interactions)
	if result.Error != nil {
		return nil, result.Error
	}
	return interactions, nil
}

// GetUserLibrary 个人主页的互动列表，state 为空时不过滤
func (s *InteractionRepoImpl) GetUserLibrary(ctx context.Context, userID uint64, state string, limit, offset int) ([]*model.UserThingInteraction, error) {
	query := s.db.WithContext(ctx).
		Preload("Thing").
		Preload("Thing.Tags").
		Where("user_id = ?", userID)
	if state != "" {
		query = query.Where("state = ?", state)
	}

	interactions := make([]*model.UserThingInteraction, 0)
	result := query.
		Order("date desc").
		Limit(limit).
		Offset(offset).
		Find(&interactions)
	if result.Error != nil {
		return nil, result.Error
	}
	return interactions, nil
}

func (s *InteractionRepoImpl) CreateInteraction(ctx context.Context, interaction *model.UserThingInteraction) error {
	return s.db.WithContext(ctx).Create(interaction).Error
}

// UpdateInteraction 按字段名更新，零值字段也能写入
func (s *InteractionRepoImpl) UpdateInteraction(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.UserThingInteraction{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// DeleteInteraction 硬删除，点赞边一并清掉
func (s *InteractionRepoImpl) DeleteInteraction(ctx context.Context, id uint64, userID uint64) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.UserThingInteraction{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("interaction_id = ?", id).Delete(&model.InteractionLike{}).Error
	})
	return affected, err
}

func (s *InteractionRepoImpl) CreateLike(ctx context.Context, like *model.InteractionLike) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *InteractionRepoImpl) DeleteLike(ctx context.Context, userID, interactionID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND interaction_id = ?", userID, interactionID).
		Delete(&model.InteractionLike{})
	return result.RowsAffected, result.Error
}

// GetLikedIDs 返回给定互动中观察者点过赞的子集
func (s *InteractionRepoImpl) GetLikedIDs(ctx context.Context, userID uint64, interactionIDs []uint64) ([]uint64, error) {
	var ids []uint64
	result := s.db.WithContext(ctx).
		Model(&model.InteractionLike{}).
		Where("user_id = ? AND interaction_id IN ?", userID, interactionIDs).
		Pluck("interaction_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// UpdateCounterByThing 批量增减一个 Thing 下所有互动的计数列，评论计数用
func (s *InteractionRepoImpl) UpdateCounterByThing(ctx context.Context, thingID uint64, column string, delta int) error {
	if delta >= 0 {
		return s.db.WithContext(ctx).
			Model(&model.UserThingInteraction{}).
			Where("thing_id = ?", thingID).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	}
	return s.db.WithContext(ctx).
		Model(&model.UserThingInteraction{}).
		Where("thing_id = ? AND "+column+" >= ?", thingID, -delta).
		UpdateColumn(column, gorm.Expr(column+" - ?", -delta)).Error
}

// UpdateCounter 原子增减计数列，不落到负数
func (s *InteractionRepoImpl) UpdateCounter(ctx context.Context, id uint64, column string, delta int) error {
	if delta >= 0 {
		return s.db.WithContext(ctx).
			Model(&model.UserThingInteraction{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	}
	return s.db.WithContext(ctx).
		Model(&model.UserThingInteraction{}).
		Where("id = ? AND "+column+" >= ?", id, -delta).
		UpdateColumn(column, gorm.Expr(column+" - ?", -delta)).Error
}
