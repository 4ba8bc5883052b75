package repository

import (
	"Rex/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ThingRepo interface {
	GetThingByID(ctx context.Context, id uint64) (*model.Thing, error)
	GetThingsByIDs(ctx context.Context, ids []uint64) ([]*model.Thing, error)
	GetThingBySource(ctx context.Context, source string, sourceID string) (*model.Thing, error)
	CreateThing(ctx context.Context, thing *model.Thing) error
	UpdateThing(ctx context.Context, thing *model.Thing) error
	SoftDeleteThing(ctx context.Context, id uint64) error
	ReplaceThingTags(ctx context.Context, thingID uint64, tags []model.Tag) error
}

type ThingRepoImpl struct {
	db *gorm.DB
}

func NewThingRepo(db *gorm.DB) ThingRepo {
	return &ThingRepoImpl{db: db}
}

func (s *ThingRepoImpl) GetThingByID(ctx context.Context, id uint64) (*model.Thing, error) {
	thing := &model.Thing{}
	result := s.db.WithContext(ctx).
		Preload("Tags").
		First(thing, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return thing, nil
}

func (s *ThingRepoImpl) GetThingsByIDs(ctx context.Context, ids []uint64) ([]*model.Thing, error) {
	things := make([]*model.Thing, 0)
	result := s.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&things)
	if result.Error != nil {
		return nil, result.Error
	}
	return things, nil
}

// GetThingBySource 同一外部条目不重复建 Thing
func (s *ThingRepoImpl) GetThingBySource(ctx context.Context, source string, sourceID string) (*model.Thing, error) {
	thing := &model.Thing{}
	result := s.db.WithContext(ctx).
		Where("source = ? AND source_id = ? AND is_deleted = ?", source, sourceID, false).
		First(thing)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return thing, nil
}

func (s *ThingRepoImpl) CreateThing(ctx context.Context, thing *model.Thing) error {
	return s.db.WithContext(ctx).Create(thing).Error
}

func (s *ThingRepoImpl) UpdateThing(ctx context.Context, thing *model.Thing) error {
	result := s.db.WithContext(ctx).Model(&model.Thing{}).Where("id = ?", thing.ID).Updates(thing)
	return result.Error
}

func (s *ThingRepoImpl) SoftDeleteThing(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).
		Model(&model.Thing{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	return result.Error
}

// ReplaceThingTags 全量替换 Thing 的标签关联
func (s *ThingRepoImpl) ReplaceThingTags(ctx context.Context, thingID uint64, tags []model.Tag) error {
	thing := &model.Thing{ID: thingID}
	return s.db.WithContext(ctx).Model(thing).Association("Tags").Replace(tags)
}
