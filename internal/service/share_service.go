package service

import (
	"Rex/internal/api/config"
	"Rex/internal/api/dto"
	"Rex/internal/feed"
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/kafka"
	"Rex/internal/pkg/redis"
	"Rex/internal/pkg/util"
	"Rex/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// shareCodeTTL 深链七天内有效，过期后落地页提示重新索要
const shareCodeTTL = time.Hour * 24 * 7

// sharePayload 落在 Redis 里的分享上下文
type sharePayload struct {
	RecommenderID uint64 `json:"recommender_id"`
	ThingID       uint64 `json:"thing_id"`
}

type ShareService interface {
	CreateShare(ctx context.Context, userID uint64, createDTO *dto.CreateShareDTO) (*dto.ShareLinkDTO, error)
	ResolveShare(ctx context.Context, ref *dto.ShareRefDTO) (*dto.ShareResolveDTO, error)
	AcceptShare(ctx context.Context, userID uint64, ref *dto.ShareRefDTO) (*dto.MutationResultDTO, error)
}

type ShareServiceImpl struct {
	recommendationRepo repository.RecommendationRepo
	interactionRepo    repository.InteractionRepo
	userRepo           repository.UserRepo
	thingSvc           ThingService
	overlay            *feed.OverlayStore
	eventProducer      kafka.EventProducer
}

func NewShareService(
	recommendationRepo repository.RecommendationRepo,
	interactionRepo repository.InteractionRepo,
	userRepo repository.UserRepo,
	thingSvc ThingService,
	overlay *feed.OverlayStore,
	eventProducer kafka.EventProducer,
) ShareService {
	return &ShareServiceImpl{
		recommendationRepo: recommendationRepo,
		interactionRepo:    interactionRepo,
		userRepo:           userRepo,
		thingSvc:           thingSvc,
		overlay:            overlay,
		eventProducer:      eventProducer,
	}
}

// CreateShare 生成深链；带手机号时再发一条短信邀请
func (s *ShareServiceImpl) CreateShare(ctx context.Context, userID uint64, createDTO *dto.CreateShareDTO) (*dto.ShareLinkDTO, error) {
	thing, err := s.thingSvc.GetThingDetail(ctx, createDTO.ThingID)
	if err != nil {
		return nil, err
	}
	if thing == nil {
		return nil, ErrThingNotFound
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	payload, err := json.Marshal(&sharePayload{RecommenderID: userID, ThingID: createDTO.ThingID})
	if err != nil {
		return nil, err
	}
	if err = redis.SetWithExpiration(ctx, consts.ShareCodeKey+code, string(payload), shareCodeTTL); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/s/%s", strings.TrimRight(config.Cfg.Share.BaseURL, "/"), code)

	if createDTO.Phone != "" {
		s.sendInvite(ctx, createDTO.Phone, user.UserDetail.Nickname, thing.Title, link)
	}

	return &dto.ShareLinkDTO{Code: code, URL: link}, nil
}

func (s *ShareServiceImpl) ResolveShare(ctx context.Context, ref *dto.ShareRefDTO) (*dto.ShareResolveDTO, error) {
	payload, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	thing, err := s.thingSvc.GetThingDetail(ctx, payload.ThingID)
	if err != nil {
		return nil, err
	}
	if thing == nil {
		return nil, ErrThingNotFound
	}

	recommender, err := s.userRepo.GetUserById(ctx, payload.RecommenderID)
	if err != nil {
		return nil, err
	}

	result := &dto.ShareResolveDTO{Thing: thing, RecommenderID: payload.RecommenderID}
	if recommender != nil {
		result.RecommenderName = recommender.UserDetail.Nickname
	}
	return result, nil
}

// AcceptShare 收下推荐：归因边 + 一条 bucketList 互动，幂等
func (s *ShareServiceImpl) AcceptShare(ctx context.Context, userID uint64, ref *dto.ShareRefDTO) (*dto.MutationResultDTO, error) {
	payload, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payload.RecommenderID == userID {
		return nil, ErrShareSelfAccept
	}

	// 同一人重复点开落地页时不重复建互动
	lockKey := consts.ShareAcceptLock + fmt.Sprintf("%d:%d", userID, payload.ThingID)
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, lockValue, time.Second*10, 3)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockValue)

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// 第一位推荐人长期归因，后来者静默跳过
	err = s.recommendationRepo.CreateRecommendation(ctx, &model.Recommendation{
		RecommenderID: payload.RecommenderID,
		RecipientID:   userID,
		ThingID:       payload.ThingID,
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.interactionRepo.GetByUserAndThing(ctx, userID, payload.ThingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.MutationResultDTO{
			Status:      string(feed.MutationCommitted),
			Interaction: toInteractionDTO(existing, true, ""),
		}, nil
	}

	row := &model.UserThingInteraction{
		UserID:     userID,
		UserName:   user.UserDetail.Nickname,
		ThingID:    payload.ThingID,
		State:      consts.StateBucketList,
		Visibility: consts.VisibilityFriends,
		Date:       time.Now(),
	}
	if err = s.interactionRepo.CreateInteraction(ctx, row); err != nil {
		return &dto.MutationResultDTO{Status: string(feed.MutationRolledBack), Error: err.Error()}, nil
	}
	s.overlay.Add(row)

	err = s.eventProducer.Publish(ctx, &kafka.Event{
		Type:          kafka.EventShareAccepted,
		ActorID:       userID,
		ActorName:     user.UserDetail.Nickname,
		ThingID:       payload.ThingID,
		InteractionID: row.ID,
		ReceiverIDs:   []uint64{payload.RecommenderID},
	})
	if err != nil {
		log.WarnContext(ctx, "publish share accepted event failed", "err", err)
	}

	return &dto.MutationResultDTO{
		Status:      string(feed.MutationCommitted),
		Interaction: toInteractionDTO(row, true, ""),
	}, nil
}

// resolveRef 短信链走 code 换取上下文，站内链直接带 thing_id + from
func (s *ShareServiceImpl) resolveRef(ctx context.Context, ref *dto.ShareRefDTO) (*sharePayload, error) {
	if ref.Code != "" {
		return s.loadPayload(ctx, ref.Code)
	}
	if ref.ThingID == 0 || ref.From == 0 {
		return nil, ErrParamInvalid
	}
	recommender, err := s.userRepo.GetUserById(ctx, ref.From)
	if err != nil {
		return nil, err
	}
	if recommender == nil {
		return nil, ErrShareNotFound
	}
	return &sharePayload{RecommenderID: ref.From, ThingID: ref.ThingID}, nil
}

func (s *ShareServiceImpl) loadPayload(ctx context.Context, code string) (*sharePayload, error) {
	value, err := redis.GetValue(ctx, consts.ShareCodeKey+code)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, ErrShareNotFound
	}
	payload := &sharePayload{}
	if err = json.Unmarshal([]byte(value), payload); err != nil {
		return nil, ErrShareNotFound
	}
	return payload, nil
}

// sendInvite 同一手机号一分钟内只发一条
func (s *ShareServiceImpl) sendInvite(ctx context.Context, phone, senderName, thingTitle, link string) {
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.SmsInviteLock+phone, lockValue, time.Minute, 1)
	if err != nil || !locked {
		return
	}
	if err = util.SendShareInvite(phone, senderName, thingTitle, link); err != nil {
		log.WarnContext(ctx, "send share invite sms failed", "err", err)
	}
}
