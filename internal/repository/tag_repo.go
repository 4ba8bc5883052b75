package repository

import (
	"Rex/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo interface {
	GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error)
	GetTagsByThingID(ctx context.Context, thingID uint64) ([]*model.Tag, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

func (s *tagRepoImpl) GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error) {
	// 创建所有标签，使用 OnConflict DoNothing 避免重复创建
	for _, tagName := range tagNames {
		tag := model.Tag{
			Name:      tagName,
			CreatedAt: time.Now(),
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error
		if err != nil {
			return nil, err
		}
	}

	// 查询所有请求的标签
	var tags []*model.Tag
	err := s.db.WithContext(ctx).Where("name IN ?", tagNames).Find(&tags).Error
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (s *tagRepoImpl) GetTagsByThingID(ctx context.Context, thingID uint64) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN thing_tags ON thing_tags.tag_id = tags.id").
		Where("thing_tags.thing_id = ?", thingID).
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
