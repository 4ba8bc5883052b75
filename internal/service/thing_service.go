package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/es"
	"Rex/internal/pkg/kafka"
	"Rex/internal/pkg/llm"
	"Rex/internal/pkg/metadata"
	"Rex/internal/pkg/redis"
	"Rex/internal/pkg/util"
	"Rex/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const (
	SourceOpenLibrary = "openlibrary"
	SourceOmdb        = "omdb"
	SourcePlaces      = "places"
	SourceLink        = "link"
	SourceManual      = "manual"
)

type ThingService interface {
	GetThingDetail(ctx context.Context, id uint64) (*dto.ThingDTO, error)
	GetOrCreateThing(ctx context.Context, creatorID uint64, baseDTO *dto.ThingBaseDTO) (*dto.ThingDTO, error)
	CreateThingFromLink(ctx context.Context, creatorID uint64, rawURL string) (*dto.ThingDTO, error)
	DeleteThing(ctx context.Context, userID uint64, id uint64) error
	SearchThings(ctx context.Context, searchDTO *dto.ThingSearchDTO) ([]*dto.ThingDTO, error)
	GetLatestThings(ctx context.Context, cursor string, size int) (*dto.ThingPageDTO, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	SearchMetadata(ctx context.Context, searchDTO *dto.MetadataSearchDTO) (interface{}, error)
}

type ThingServiceImpl struct {
	thingRepo     repository.ThingRepo
	tagRepo       repository.TagRepo
	thingESRepo   es.ThingRepo
	booksClient   metadata.BooksClient
	moviesClient  metadata.MoviesClient
	placesClient  metadata.PlacesClient
	linkFetcher   metadata.LinkFetcher
	eventProducer kafka.EventProducer
}

func NewThingService(
	thingRepo repository.ThingRepo,
	tagRepo repository.TagRepo,
	thingESRepo es.ThingRepo,
	booksClient metadata.BooksClient,
	moviesClient metadata.MoviesClient,
	placesClient metadata.PlacesClient,
	linkFetcher metadata.LinkFetcher,
	eventProducer kafka.EventProducer,
) ThingService {
	return &ThingServiceImpl{
		thingRepo:     thingRepo,
		tagRepo:       tagRepo,
		thingESRepo:   thingESRepo,
		booksClient:   booksClient,
		moviesClient:  moviesClient,
		placesClient:  placesClient,
		linkFetcher:   linkFetcher,
		eventProducer: eventProducer,
	}
}

func (s *ThingServiceImpl) GetThingDetail(ctx context.Context, id uint64) (*dto.ThingDTO, error) {
	key := consts.ThingDetailKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var thingDTO dto.ThingDTO
		if err = json.Unmarshal([]byte(value), &thingDTO); err == nil {
			return &thingDTO, nil
		}
	}

	thing, err := s.thingRepo.GetThingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if thing == nil || thing.IsDeleted {
		return nil, ErrThingNotFound
	}

	thingDTO := toThingDTO(thing)

	jsonStr, err := json.Marshal(thingDTO)
	if err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
	}
	return thingDTO, nil
}

// GetOrCreateThing (source, source_id) 命中已有 Thing 时直接复用
func (s *ThingServiceImpl) GetOrCreateThing(ctx context.Context, creatorID uint64, baseDTO *dto.ThingBaseDTO) (*dto.ThingDTO, error) {
	if !consts.ValidCategory(baseDTO.Category) {
		return nil, ErrThingCategoryInvalid
	}

	if baseDTO.Source != "" && baseDTO.SourceID != "" {
		existing, err := s.thingRepo.GetThingBySource(ctx, baseDTO.Source, baseDTO.SourceID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return toThingDTO(existing), nil
		}
	}

	thing := &model.Thing{
		Title:       baseDTO.Title,
		Category:    baseDTO.Category,
		Description: baseDTO.Description,
		ImageURL:    baseDTO.ImageURL,
		Source:      baseDTO.Source,
		SourceID:    baseDTO.SourceID,
		Metadata:    baseDTO.Metadata,
		CreatorID:   creatorID,
	}
	if thing.Source == "" {
		thing.Source = SourceManual
		thing.SourceID = strconv.FormatInt(time.Now().UnixNano(), 10)
	}

	if err := s.thingRepo.CreateThing(ctx, thing); err != nil {
		return nil, err
	}

	if len(baseDTO.Tags) > 0 {
		tags, err := s.tagRepo.GetOrCreateTags(ctx, baseDTO.Tags)
		if err != nil {
			return nil, err
		}
		tagValues := make([]model.Tag, 0, len(tags))
		for _, tag := range tags {
			tagValues = append(tagValues, *tag)
		}
		if err = s.thingRepo.ReplaceThingTags(ctx, thing.ID, tagValues); err != nil {
			return nil, err
		}
		thing.Tags = tagValues
	}

	s.publishThingEvent(ctx, kafka.EventThingUpserted, thing.ID)
	return toThingDTO(thing), nil
}

// CreateThingFromLink 抓取链接预览，由分类模型定类别
func (s *ThingServiceImpl) CreateThingFromLink(ctx context.Context, creatorID uint64, rawURL string) (*dto.ThingDTO, error) {
	existing, err := s.thingRepo.GetThingBySource(ctx, SourceLink, rawURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toThingDTO(existing), nil
	}

	preview, err := s.linkFetcher.FetchPreview(ctx, rawURL)
	if err != nil {
		return nil, ErrParamInvalid
	}

	category := llm.ClassifyLink(ctx, preview.Title, preview.Description)

	baseDTO := &dto.ThingBaseDTO{
		Title:       preview.Title,
		Category:    category,
		Description: preview.Description,
		ImageURL:    preview.ImageURL,
		Source:      SourceLink,
		SourceID:    rawURL,
		Metadata: &model.ThingMetadata{
			URL:      rawURL,
			SiteName: preview.SiteName,
		},
	}
	return s.GetOrCreateThing(ctx, creatorID, baseDTO)
}

func (s *ThingServiceImpl) DeleteThing(ctx context.Context, userID uint64, id uint64) error {
	thing, err := s.thingRepo.GetThingByID(ctx, id)
	if err != nil {
		return err
	}
	if thing == nil || thing.IsDeleted {
		return ErrThingNotFound
	}
	if thing.CreatorID != userID {
		return ErrNotOwner
	}

	if err = s.thingRepo.SoftDeleteThing(ctx, id); err != nil {
		return err
	}

	_ = redis.DeleteKey(ctx, consts.ThingDetailKey+strconv.FormatUint(id, 10))
	s.publishThingEvent(ctx, kafka.EventThingDeleted, id)
	return nil
}

func (s *ThingServiceImpl) SearchThings(ctx context.Context, searchDTO *dto.ThingSearchDTO) ([]*dto.ThingDTO, error) {
	if searchDTO.Size <= 0 || searchDTO.Size > 50 {
		searchDTO.Size = 20
	}
	if searchDTO.Category != "" && !consts.ValidCategory(searchDTO.Category) {
		return nil, ErrThingCategoryInvalid
	}

	docs, err := s.thingESRepo.SearchThings(ctx, searchDTO.Keyword, searchDTO.Category, searchDTO.From, searchDTO.Size)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ThingDTO, 0, len(docs))
	for _, doc := range docs {
		list = append(list, &dto.ThingDTO{
			ID:          doc.ID,
			Title:       doc.Title,
			Category:    doc.Category,
			Description: doc.Description,
			ImageURL:    doc.ImageURL,
			Tags:        doc.Tags,
			CreatorID:   doc.CreatorID,
			CreatedAt:   doc.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return list, nil
}

// GetLatestThings 发现页最新 Thing 流，游标为 ES search_after 的编码值
func (s *ThingServiceImpl) GetLatestThings(ctx context.Context, cursor string, size int) (*dto.ThingPageDTO, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	lastSortValues, err := util.DecodeCursor(cursor)
	if err != nil {
		log.WarnContext(ctx, "decode cursor error", "err", err)
		lastSortValues = nil
	}

	docs, nextSortValues, err := s.thingESRepo.GetLatestByCursor(ctx, lastSortValues, size)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ThingDTO, 0, len(docs))
	for _, doc := range docs {
		list = append(list, &dto.ThingDTO{
			ID:          doc.ID,
			Title:       doc.Title,
			Category:    doc.Category,
			Description: doc.Description,
			ImageURL:    doc.ImageURL,
			Tags:        doc.Tags,
			CreatorID:   doc.CreatorID,
			CreatedAt:   doc.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	page := &dto.ThingPageDTO{List: list, HasMore: len(docs) == size}
	if page.HasMore && len(nextSortValues) > 0 {
		page.Cursor = util.EncodeCursor(nextSortValues)
	}
	return page, nil
}

func (s *ThingServiceImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	return s.thingESRepo.GetSuggestions(ctx, keyword)
}

// SearchMetadata 按类别路由到外部目录源
func (s *ThingServiceImpl) SearchMetadata(ctx context.Context, searchDTO *dto.MetadataSearchDTO) (interface{}, error) {
	const limit = 10
	switch searchDTO.Category {
	case consts.CategoryBooks:
		return s.booksClient.SearchBooks(ctx, searchDTO.Query, limit)
	case consts.CategoryMovies:
		return s.moviesClient.SearchMovies(ctx, searchDTO.Query, limit)
	case consts.CategoryPlaces:
		return s.placesClient.SearchPlaces(ctx, searchDTO.Query, limit)
	default:
		return nil, ErrThingCategoryInvalid
	}
}

func (s *ThingServiceImpl) publishThingEvent(ctx context.Context, eventType string, thingID uint64) {
	err := s.eventProducer.Publish(ctx, &kafka.Event{
		Type:         eventType,
		ThingID:      thingID,
		ThingVersion: time.Now().UnixMilli(),
	})
	if err != nil {
		log.WarnContext(ctx, "publish thing event failed", "thingID", thingID, "err", err)
	}
}

func toThingDTO(thing *model.Thing) *dto.ThingDTO {
	tags := make([]string, 0, len(thing.Tags))
	for _, tag := range thing.Tags {
		tags = append(tags, tag.Name)
	}
	return &dto.ThingDTO{
		ID:          thing.ID,
		Title:       thing.Title,
		Category:    thing.Category,
		Description: thing.Description,
		ImageURL:    thing.ImageURL,
		Source:      thing.Source,
		SourceID:    thing.SourceID,
		Metadata:    thing.Metadata,
		Tags:        tags,
		CreatorID:   thing.CreatorID,
		CreatedAt:   thing.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
