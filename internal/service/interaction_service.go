package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/feed"
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/kafka"
	"Rex/internal/pkg/minio"
	"Rex/internal/pkg/redis"
	"Rex/internal/pkg/util"
	"Rex/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

type InteractionService interface {
	CreateInteraction(ctx context.Context, userID uint64, createDTO *dto.CreateInteractionDTO) (*dto.MutationResultDTO, error)
	UpdateInteraction(ctx context.Context, userID uint64, id uint64, updateDTO *dto.UpdateInteractionDTO) (*dto.MutationResultDTO, error)
	DeleteInteraction(ctx context.Context, userID uint64, id uint64) (*dto.MutationResultDTO, error)
	GetThingInteractions(ctx context.Context, viewerID uint64, thingID uint64) ([]*dto.InteractionDTO, error)
	GetUserLibrary(ctx context.Context, viewerID uint64, targetID uint64, queryDTO *dto.LibraryQueryDTO) ([]*dto.InteractionDTO, error)
	LikeInteraction(ctx context.Context, userID uint64, interactionID uint64) error
	UnlikeInteraction(ctx context.Context, userID uint64, interactionID uint64) error
}

type InteractionServiceImpl struct {
	interactionRepo repository.InteractionRepo
	thingRepo       repository.ThingRepo
	tagRepo         repository.TagRepo
	userRepo        repository.UserRepo
	userFollowRepo  repository.UserFollowRepo
	thingSvc        ThingService
	userSvc         UserService
	mediaSvc        MediaService
	overlay         *feed.OverlayStore
	eventProducer   kafka.EventProducer
}

func NewInteractionService(
	interactionRepo repository.InteractionRepo,
	thingRepo repository.ThingRepo,
	tagRepo repository.TagRepo,
	userRepo repository.UserRepo,
	userFollowRepo repository.UserFollowRepo,
	thingSvc ThingService,
	userSvc UserService,
	mediaSvc MediaService,
	overlay *feed.OverlayStore,
	eventProducer kafka.EventProducer,
) InteractionService {
	return &InteractionServiceImpl{
		interactionRepo: interactionRepo,
		thingRepo:       thingRepo,
		tagRepo:         tagRepo,
		userRepo:        userRepo,
		userFollowRepo:  userFollowRepo,
		thingSvc:        thingSvc,
		userSvc:         userSvc,
		mediaSvc:        mediaSvc,
		overlay:         overlay,
		eventProducer:   eventProducer,
	}
}

func (s *InteractionServiceImpl) CreateInteraction(ctx context.Context, userID uint64, createDTO *dto.CreateInteractionDTO) (*dto.MutationResultDTO, error) {
	if !consts.ValidState(createDTO.State) {
		return nil, ErrStateInvalid
	}
	if createDTO.Visibility == "" {
		createDTO.Visibility = consts.VisibilityFriends
	}
	if !consts.ValidVisibility(createDTO.Visibility) {
		return nil, ErrVisibilityInvalid
	}
	if err := validateRating(createDTO.State, createDTO.Rating); err != nil {
		return nil, err
	}

	thingID := createDTO.ThingID
	if thingID == 0 {
		if createDTO.Thing == nil {
			return nil, ErrParamInvalid
		}
		thingDTO, err := s.thingSvc.GetOrCreateThing(ctx, userID, createDTO.Thing)
		if err != nil {
			return nil, err
		}
		thingID = thingDTO.ID
	} else {
		thing, err := s.thingRepo.GetThingByID(ctx, thingID)
		if err != nil {
			return nil, err
		}
		if thing == nil || thing.IsDeleted {
			return nil, ErrThingNotFound
		}
	}

	// 每人每物一条：先查再建
	existing, err := s.interactionRepo.GetByUserAndThing(ctx, userID, thingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInteractionExist
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	row := &model.UserThingInteraction{
		UserID:     userID,
		UserName:   user.UserDetail.Nickname,
		ThingID:    thingID,
		State:      createDTO.State,
		Visibility: createDTO.Visibility,
		Rating:     createDTO.Rating,
		Content:    createDTO.Content,
		Notes:      createDTO.Notes,
		Date:       time.Now(),
	}
	if len(createDTO.Photos) > 0 {
		photos := model.InteractionPhotos(createDTO.Photos)
		row.Photos = &photos
	}

	if err = s.interactionRepo.CreateInteraction(ctx, row); err != nil {
		return &dto.MutationResultDTO{Status: string(feed.MutationRolledBack), Error: err.Error()}, nil
	}

	// 覆盖层保证新建互动立刻出现在自己的信息流里
	s.overlay.Add(row)
	s.promotePhotos(ctx, createDTO.Photos)
	s.afterWrite(ctx, userID, row, kafka.EventInteractionCreated)

	return &dto.MutationResultDTO{
		Status:      string(feed.MutationCommitted),
		Interaction: toInteractionDTO(row, true, ""),
	}, nil
}

func (s *InteractionServiceImpl) UpdateInteraction(ctx context.Context, userID uint64, id uint64, updateDTO *dto.UpdateInteractionDTO) (*dto.MutationResultDTO, error) {
	current, err := s.interactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrInteractionNotFound
	}
	if current.UserID != userID {
		return nil, ErrNotOwner
	}

	fields := make(map[string]interface{})
	patch := feed.InteractionPatch{}
	next := *current

	if updateDTO.State != nil {
		if !consts.ValidState(*updateDTO.State) {
			return nil, ErrStateInvalid
		}
		next.State = *updateDTO.State
		now := time.Now()
		fields["state"] = *updateDTO.State
		fields["date"] = now
		patch.State = updateDTO.State
		patch.Date = &now
	}
	if updateDTO.Visibility != nil {
		if !consts.ValidVisibility(*updateDTO.Visibility) {
			return nil, ErrVisibilityInvalid
		}
		next.Visibility = *updateDTO.Visibility
		fields["visibility"] = *updateDTO.Visibility
		patch.Visibility = updateDTO.Visibility
	}
	if updateDTO.Rating != nil {
		next.Rating = *updateDTO.Rating
		fields["rating"] = *updateDTO.Rating
		patch.Rating = updateDTO.Rating
	}
	if updateDTO.Content != nil {
		next.Content = *updateDTO.Content
		fields["content"] = *updateDTO.Content
		patch.Content = updateDTO.Content
	}
	if updateDTO.Notes != nil {
		next.Notes = *updateDTO.Notes
		fields["notes"] = *updateDTO.Notes
		patch.Notes = updateDTO.Notes
	}
	if updateDTO.Photos != nil {
		photos := model.InteractionPhotos(*updateDTO.Photos)
		next.Photos = &photos
		fields["photos"] = &photos
		patch.Photos = &photos
	}

	if len(fields) == 0 {
		// 空补丁是显式的 no-op
		return &dto.MutationResultDTO{
			Status:      string(feed.MutationCommitted),
			Interaction: toInteractionDTO(current, true, ""),
		}, nil
	}

	if err = validateRating(next.State, next.Rating); err != nil {
		return nil, err
	}

	// 先写覆盖层再写库，失败时恢复旧值；快照须深拷贝，避免与在途行共享 Photos
	prev := feed.CloneInteraction(current)
	s.overlay.Add(current)
	s.overlay.Update(id, patch)

	affected, err := s.interactionRepo.UpdateInteraction(ctx, id, fields)
	if err != nil || affected == 0 {
		s.overlay.Restore(userID, current.ThingID, prev)
		message := "interaction no longer exists"
		if err != nil {
			message = err.Error()
		}
		return &dto.MutationResultDTO{Status: string(feed.MutationRolledBack), Error: message}, nil
	}

	if updateDTO.Photos != nil {
		s.promotePhotos(ctx, *updateDTO.Photos)
	}
	s.afterWrite(ctx, userID, &next, kafka.EventInteractionUpdated)

	return &dto.MutationResultDTO{
		Status:      string(feed.MutationCommitted),
		Interaction: toInteractionDTO(&next, true, ""),
	}, nil
}

func (s *InteractionServiceImpl) DeleteInteraction(ctx context.Context, userID uint64, id uint64) (*dto.MutationResultDTO, error) {
	current, err := s.interactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrInteractionNotFound
	}
	if current.UserID != userID {
		return nil, ErrNotOwner
	}

	// 墓碑先行：陈旧缓存里这条立即消失
	prev := feed.CloneInteraction(current)
	s.overlay.Add(current)
	s.overlay.Remove(id)

	affected, err := s.interactionRepo.DeleteInteraction(ctx, id, userID)
	if err != nil || affected == 0 {
		s.overlay.Restore(userID, current.ThingID, prev)
		message := "interaction no longer exists"
		if err != nil {
			message = err.Error()
		}
		return &dto.MutationResultDTO{Status: string(feed.MutationRolledBack), Error: message}, nil
	}

	s.afterWrite(ctx, userID, current, kafka.EventInteractionDeleted)
	return &dto.MutationResultDTO{Status: string(feed.MutationCommitted)}, nil
}

// GetThingInteractions Thing 详情页的互动列表，过滤观察者无权看到的
func (s *InteractionServiceImpl) GetThingInteractions(ctx context.Context, viewerID uint64, thingID uint64) ([]*dto.InteractionDTO, error) {
	rows, err := s.interactionRepo.GetByThingID(ctx, thingID)
	if err != nil {
		return nil, err
	}

	followingIDs, err := s.userFollowRepo.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	visible := feed.FilterVisible(rows, viewerID, feed.NewFollowingSet(followingIDs))

	return s.toInteractionDTOs(ctx, viewerID, visible)
}

func (s *InteractionServiceImpl) GetUserLibrary(ctx context.Context, viewerID uint64, targetID uint64, queryDTO *dto.LibraryQueryDTO) ([]*dto.InteractionDTO, error) {
	if queryDTO.State != "" && !consts.ValidState(queryDTO.State) {
		return nil, ErrStateInvalid
	}
	if queryDTO.Limit <= 0 || queryDTO.Limit > 100 {
		queryDTO.Limit = 20
	}

	rows, err := s.interactionRepo.GetUserLibrary(ctx, targetID, queryDTO.State, queryDTO.Limit, queryDTO.Offset)
	if err != nil {
		return nil, err
	}

	if viewerID != targetID {
		followingIDs, err := s.userFollowRepo.GetFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		rows = feed.FilterVisible(rows, viewerID, feed.NewFollowingSet(followingIDs))
	}

	return s.toInteractionDTOs(ctx, viewerID, rows)
}

func (s *InteractionServiceImpl) LikeInteraction(ctx context.Context, userID uint64, interactionID uint64) error {
	interaction, err := s.interactionRepo.GetByID(ctx, interactionID)
	if err != nil {
		return err
	}
	if interaction == nil {
		return ErrInteractionNotFound
	}

	like := &model.InteractionLike{
		UserID:        userID,
		InteractionID: interactionID,
		CreatedAt:     time.Now(),
	}
	if err = s.interactionRepo.CreateLike(ctx, like); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}

	if err = s.interactionRepo.UpdateCounter(ctx, interactionID, "likes_count", 1); err != nil {
		log.WarnContext(ctx, "bump likes count failed", "interactionID", interactionID, "err", err)
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil || user == nil {
		return nil
	}
	err = s.eventProducer.Publish(ctx, &kafka.Event{
		Type:          kafka.EventLikeCreated,
		ActorID:       userID,
		ActorName:     user.UserDetail.Nickname,
		ThingID:       interaction.ThingID,
		InteractionID: interactionID,
		ReceiverIDs:   []uint64{interaction.UserID},
	})
	if err != nil {
		log.WarnContext(ctx, "publish like event failed", "err", err)
	}
	return nil
}

func (s *InteractionServiceImpl) UnlikeInteraction(ctx context.Context, userID uint64, interactionID uint64) error {
	affected, err := s.interactionRepo.DeleteLike(ctx, userID, interactionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrActionDuplicate
	}
	if err = s.interactionRepo.UpdateCounter(ctx, interactionID, "likes_count", -1); err != nil {
		log.WarnContext(ctx, "drop likes count failed", "interactionID", interactionID, "err", err)
	}
	return nil
}

// afterWrite 写路径共用的收尾：失效缓存、刷标签、发事件、@ 通知
func (s *InteractionServiceImpl) afterWrite(ctx context.Context, userID uint64, row *model.UserThingInteraction, eventType string) {
	_ = redis.DeleteKey(ctx, consts.FeedPayloadKey+strconv.FormatUint(userID, 10))
	_ = redis.SAdd(ctx, consts.FeedDirtyKey, strconv.FormatUint(userID, 10))

	if eventType != kafka.EventInteractionDeleted {
		s.applyContentTags(ctx, row)
	}

	err := s.eventProducer.Publish(ctx, &kafka.Event{
		Type:          eventType,
		ActorID:       userID,
		ActorName:     row.UserName,
		ThingID:       row.ThingID,
		InteractionID: row.ID,
	})
	if err != nil {
		log.WarnContext(ctx, "publish interaction event failed", "err", err)
	}

	if eventType != kafka.EventInteractionDeleted {
		s.notifyMentions(ctx, userID, row)
	}
}

// promotePhotos 互动引用到的照片从暂存桶转正，重复转正是幂等的
func (s *InteractionServiceImpl) promotePhotos(ctx context.Context, photos []string) {
	if len(photos) == 0 {
		return
	}
	if err := s.mediaSvc.PromoteObjects(ctx, photos); err != nil {
		log.WarnContext(ctx, "promote interaction photos failed", "err", err)
	}
}

// applyContentTags 感想里的 #话题 合并进 Thing 标签
func (s *InteractionServiceImpl) applyContentTags(ctx context.Context, row *model.UserThingInteraction) {
	names := util.ExtractTags(row.Content)
	if len(names) == 0 {
		return
	}

	existing, err := s.tagRepo.GetTagsByThingID(ctx, row.ThingID)
	if err != nil {
		return
	}
	seen := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		seen[tag.Name] = struct{}{}
	}
	fresh := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			fresh = append(fresh, name)
		}
	}
	if len(fresh) == 0 {
		return
	}

	tags, err := s.tagRepo.GetOrCreateTags(ctx, append(tagNames(existing), fresh...))
	if err != nil {
		return
	}
	tagValues := make([]model.Tag, 0, len(tags))
	for _, tag := range tags {
		tagValues = append(tagValues, *tag)
	}
	if err = s.thingRepo.ReplaceThingTags(ctx, row.ThingID, tagValues); err != nil {
		log.WarnContext(ctx, "replace thing tags failed", "thingID", row.ThingID, "err", err)
	}
}

// notifyMentions 感想里的 @用户名 发送提及通知
func (s *InteractionServiceImpl) notifyMentions(ctx context.Context, actorID uint64, row *model.UserThingInteraction) {
	names := util.ExtractMentions(row.Content)
	if len(names) == 0 {
		return
	}

	receiverIDs := make([]uint64, 0, len(names))
	for _, name := range names {
		user, err := s.userRepo.GetUserByUsername(ctx, name)
		if err != nil || user == nil || user.ID == actorID {
			continue
		}
		receiverIDs = append(receiverIDs, user.ID)
	}
	if len(receiverIDs) == 0 {
		return
	}

	err := s.eventProducer.Publish(ctx, &kafka.Event{
		Type:          kafka.EventMentionCreated,
		ActorID:       actorID,
		ActorName:     row.UserName,
		ThingID:       row.ThingID,
		InteractionID: row.ID,
		ReceiverIDs:   receiverIDs,
		Content:       row.Content,
	})
	if err != nil {
		log.WarnContext(ctx, "publish mention event failed", "err", err)
	}
}

func (s *InteractionServiceImpl) toInteractionDTOs(ctx context.Context, viewerID uint64, rows []*model.UserThingInteraction) ([]*dto.InteractionDTO, error) {
	ids := make([]uint64, 0, len(rows))
	userIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		userIDs = append(userIDs, row.UserID)
	}

	likedIDs, err := s.interactionRepo.GetLikedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	liked := make(map[uint64]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}

	avatars := s.fetchAvatars(ctx, userIDs)

	list := make([]*dto.InteractionDTO, 0, len(rows))
	for _, row := range rows {
		item := toInteractionDTO(row, row.UserID == viewerID, avatars[row.UserID])
		_, item.HasLiked = liked[row.ID]
		list = append(list, item)
	}
	return list, nil
}

func (s *InteractionServiceImpl) fetchAvatars(ctx context.Context, userIDs []uint64) map[uint64]string {
	avatars := make(map[uint64]string)
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return avatars
	}
	for _, user := range users {
		if user.UserID != nil && user.AvatarURL != nil {
			avatars[*user.UserID] = *user.AvatarURL
		}
	}
	return avatars
}

// toInteractionDTO 私密笔记只回给本人
func toInteractionDTO(row *model.UserThingInteraction, includeNotes bool, avatarURL string) *dto.InteractionDTO {
	item := &dto.InteractionDTO{
		ID:           row.ID,
		UserID:       row.UserID,
		UserName:     row.UserName,
		AvatarURL:    avatarURL,
		ThingID:      row.ThingID,
		State:        row.State,
		Visibility:   row.Visibility,
		Rating:       row.Rating,
		Content:      row.Content,
		Photos:       make([]string, 0),
		LikesCount:   row.LikesCount,
		CommentCount: row.CommentCount,
		Date:         row.Date.Format("2006-01-02 15:04:05"),
	}
	if includeNotes {
		item.Notes = row.Notes
	}
	if row.Photos != nil {
		for _, objectName := range *row.Photos {
			item.Photos = append(item.Photos, minio.GetPublicURL(objectName))
		}
	}
	return item
}

// validateRating 评分只能挂在已完成的互动上，且限定在量表内
func validateRating(state string, rating int) error {
	if rating == 0 {
		return nil
	}
	if rating < consts.RatingMin || rating > consts.RatingMax {
		return ErrRatingOutOfRange
	}
	if state != consts.StateCompleted {
		return ErrRatingWithoutCompletion
	}
	return nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

func tagNames(tags []*model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
