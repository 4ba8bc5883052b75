package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/feed"
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
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
	// feedSourceLimit 单次回源最多取的互动行数，覆盖正常活跃度下数周的内容
	feedSourceLimit = 500
	feedCacheTTL    = time.Minute * 10
	feedDefaultSize = 20
	feedMaxSize     = 50
)

type FeedService interface {
	GetFeed(ctx context.Context, viewerID uint64, queryDTO *dto.FeedQueryDTO) (*dto.FeedPageDTO, error)
	RebuildFeedCache(ctx context.Context, userID uint64) error
}

type FeedServiceImpl struct {
	interactionRepo repository.InteractionRepo
	thingRepo       repository.ThingRepo
	userFollowSvc   UserFollowService
	userSvc         UserService
	overlay         *feed.OverlayStore
}

func NewFeedService(
	interactionRepo repository.InteractionRepo,
	thingRepo repository.ThingRepo,
	userFollowSvc UserFollowService,
	userSvc UserService,
	overlay *feed.OverlayStore,
) FeedService {
	return &FeedServiceImpl{
		interactionRepo: interactionRepo,
		thingRepo:       thingRepo,
		userFollowSvc:   userFollowSvc,
		userSvc:         userSvc,
		overlay:         overlay,
	}
}

// GetFeed 拉观察者的信息流：取源、过滤可见性、合覆盖层、按 Thing 聚合、游标分页
func (s *FeedServiceImpl) GetFeed(ctx context.Context, viewerID uint64, queryDTO *dto.FeedQueryDTO) (*dto.FeedPageDTO, error) {
	size := queryDTO.Size
	if size <= 0 {
		size = feedDefaultSize
	}
	if size > feedMaxSize {
		size = feedMaxSize
	}
	lastUpdate, lastThing, err := util.DecodeFeedCursor(queryDTO.Cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}

	followingIDs, err := s.userFollowSvc.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followingSet := feed.NewFollowingSet(followingIDs)

	serverRows, err := s.loadServerRows(ctx, viewerID, followingIDs)
	if err != nil {
		return nil, err
	}

	// 先过滤再聚合，不可见的行不得进均分
	visible := feed.FilterVisible(serverRows, viewerID, followingSet)
	merged := feed.MergeOverlay(visible, s.overlay, viewerID)

	things, err := s.collectThings(ctx, merged)
	if err != nil {
		return nil, err
	}

	feedThings := feed.Aggregate(merged, things, viewerID, followingSet)

	page, hasMore := pageByCursor(feedThings, lastUpdate, lastThing, size)

	list, err := s.toFeedThingDTOs(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}

	result := &dto.FeedPageDTO{List: list, HasMore: hasMore}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.Cursor = util.EncodeFeedCursor(last.MostRecentUpdate.UnixMilli(), last.Thing.ID)
	}
	return result, nil
}

// RebuildFeedCache 定时任务调用，把脏用户的信息流源数据重新落缓存
func (s *FeedServiceImpl) RebuildFeedCache(ctx context.Context, userID uint64) error {
	followingIDs, err := s.userFollowSvc.GetFollowingIDs(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.fetchAndCache(ctx, userID, followingIDs)
	return err
}

// loadServerRows 源数据缓存十分钟，脏标记命中时强制回源
func (s *FeedServiceImpl) loadServerRows(ctx context.Context, viewerID uint64, followingIDs []uint64) ([]*model.UserThingInteraction, error) {
	uid := strconv.FormatUint(viewerID, 10)
	dirty, err := redis.SIsMember(ctx, consts.FeedDirtyKey, uid)
	if err != nil {
		log.WarnContext(ctx, "check feed dirty flag failed", "err", err)
	}

	if !dirty {
		cached, err := redis.GetValue(ctx, consts.FeedPayloadKey+uid)
		if err == nil && cached != "" {
			var rows []*model.UserThingInteraction
			if err = json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
			log.WarnContext(ctx, "decode cached feed payload failed", "userID", viewerID, "err", err)
		}
	}

	return s.fetchAndCache(ctx, viewerID, followingIDs)
}

func (s *FeedServiceImpl) fetchAndCache(ctx context.Context, viewerID uint64, followingIDs []uint64) ([]*model.UserThingInteraction, error) {
	scope := make([]uint64, 0, len(followingIDs)+1)
	scope = append(scope, viewerID)
	scope = append(scope, followingIDs...)

	rows, err := s.interactionRepo.GetByUserIDs(ctx, scope, feedSourceLimit)
	if err != nil {
		return nil, err
	}

	uid := strconv.FormatUint(viewerID, 10)
	if payload, err := json.Marshal(rows); err == nil {
		_ = redis.SetWithExpiration(ctx, consts.FeedPayloadKey+uid, string(payload), feedCacheTTL)
	}
	_ = redis.SRem(ctx, consts.FeedDirtyKey, uid)
	return rows, nil
}

// collectThings 聚合需要的 Thing 快照；覆盖层补进来的行可能没带 Thing，缺的回库取
func (s *FeedServiceImpl) collectThings(ctx context.Context, rows []*model.UserThingInteraction) (map[uint64]*model.Thing, error) {
	things := make(map[uint64]*model.Thing, len(rows))
	missing := make([]uint64, 0)
	for _, row := range rows {
		if _, ok := things[row.ThingID]; ok {
			continue
		}
		if row.Thing.ID == row.ThingID && row.ThingID != 0 {
			// 与回库路径同一口径：已软删的 Thing 不进入信息流
			if row.Thing.IsDeleted {
				continue
			}
			thing := row.Thing
			things[row.ThingID] = &thing
			continue
		}
		missing = append(missing, row.ThingID)
	}
	if len(missing) == 0 {
		return things, nil
	}

	fetched, err := s.thingRepo.GetThingsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, thing := range fetched {
		things[thing.ID] = thing
	}
	return things, nil
}

func (s *FeedServiceImpl) toFeedThingDTOs(ctx context.Context, viewerID uint64, page []*feed.FeedThing) ([]*dto.FeedThingDTO, error) {
	interactionIDs := make([]uint64, 0)
	userIDs := make([]uint64, 0)
	for _, ft := range page {
		for _, row := range ft.Interactions {
			interactionIDs = append(interactionIDs, row.ID)
			userIDs = append(userIDs, row.UserID)
		}
	}

	liked := make(map[uint64]struct{})
	if len(interactionIDs) > 0 {
		likedIDs, err := s.interactionRepo.GetLikedIDs(ctx, viewerID, interactionIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = struct{}{}
		}
	}

	avatars := make(map[uint64]string)
	if users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs); err == nil {
		for _, user := range users {
			if user.UserID != nil && user.AvatarURL != nil {
				avatars[*user.UserID] = *user.AvatarURL
			}
		}
	}

	convert := func(rows []*model.UserThingInteraction) []*dto.InteractionDTO {
		list := make([]*dto.InteractionDTO, 0, len(rows))
		for _, row := range rows {
			item := toInteractionDTO(row, row.UserID == viewerID, avatars[row.UserID])
			_, item.HasLiked = liked[row.ID]
			list = append(list, item)
		}
		return list
	}

	list := make([]*dto.FeedThingDTO, 0, len(page))
	for _, ft := range page {
		item := &dto.FeedThingDTO{
			Thing:            toThingDTO(ft.Thing),
			Interactions:     convert(ft.Interactions),
			Completed:        convert(ft.Completed),
			Saved:            convert(ft.Saved),
			AvgRating:        ft.AvgRating,
			MostRecentUpdate: ft.MostRecentUpdate.Format("2006-01-02 15:04:05"),
		}
		if ft.MyInteraction != nil {
			item.MyInteraction = toInteractionDTO(ft.MyInteraction, true, avatars[ft.MyInteraction.UserID])
			_, item.MyInteraction.HasLiked = liked[ft.MyInteraction.ID]
		}
		list = append(list, item)
	}
	return list, nil
}

// pageByCursor 列表已按 MostRecentUpdate 降序，游标之后取一页
func pageByCursor(feedThings []*feed.FeedThing, lastUpdate int64, lastThing uint64, size int) ([]*feed.FeedThing, bool) {
	start := 0
	if lastUpdate > 0 {
		// 先找游标指向的那一条，找不到（已被删或变更）退化为按时间定位
		start = len(feedThings)
		for i, ft := range feedThings {
			u := ft.MostRecentUpdate.UnixMilli()
			if u == lastUpdate && ft.Thing.ID == lastThing {
				start = i + 1
				break
			}
			if u < lastUpdate {
				start = i
				break
			}
		}
	}

	end := start + size
	if end >= len(feedThings) {
		return feedThings[start:], false
	}
	return feedThings[start:end], true
}
