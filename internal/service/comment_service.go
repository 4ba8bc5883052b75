package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/kafka"
	"Rex/internal/pkg/minio"
	"Rex/internal/pkg/mongo"
	"Rex/internal/pkg/util"
	"Rex/internal/repository"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const commentRepliesPreview = 3

type CommentService interface {
	CreateComment(ctx context.Context, userID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetThingComments(ctx context.Context, viewerID uint64, queryDTO *dto.CommentQueryDTO) (*dto.CommentListDTO, error)
	GetReplies(ctx context.Context, viewerID uint64, rootID string, limit, offset int64) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID uint64, commentID string) error
	LikeComment(ctx context.Context, userID uint64, commentID string) error
	UnlikeComment(ctx context.Context, userID uint64, commentID string) error
}

type CommentServiceImpl struct {
	commentRepo     mongo.CommentRepo
	interactionRepo repository.InteractionRepo
	thingRepo       repository.ThingRepo
	userRepo        repository.UserRepo
	userSvc         UserService
	mediaSvc        MediaService
	eventProducer   kafka.EventProducer
}

func NewCommentService(
	commentRepo mongo.CommentRepo,
	interactionRepo repository.InteractionRepo,
	thingRepo repository.ThingRepo,
	userRepo repository.UserRepo,
	userSvc UserService,
	mediaSvc MediaService,
	eventProducer kafka.EventProducer,
) CommentService {
	return &CommentServiceImpl{
		commentRepo:     commentRepo,
		interactionRepo: interactionRepo,
		thingRepo:       thingRepo,
		userRepo:        userRepo,
		userSvc:         userSvc,
		mediaSvc:        mediaSvc,
		eventProducer:   eventProducer,
	}
}

func (s *CommentServiceImpl) CreateComment(ctx context.Context, userID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	if createDTO.Content == "" && createDTO.VoiceURL == "" {
		return nil, ErrParamInvalid
	}

	thing, err := s.thingRepo.GetThingByID(ctx, createDTO.ThingID)
	if err != nil {
		return nil, err
	}
	if thing == nil || thing.IsDeleted {
		return nil, ErrThingNotFound
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if createDTO.VoiceURL != "" {
		if err = s.mediaSvc.PromoteObjects(ctx, []string{createDTO.VoiceURL}); err != nil {
			log.WarnContext(ctx, "promote voice object failed", "objectName", createDTO.VoiceURL, "err", err)
		}
	}

	rootID := createDTO.RootID
	var parentAuthorID uint64
	if createDTO.ParentID != "" {
		parent, err := s.getComment(ctx, createDTO.ParentID)
		if err != nil {
			return nil, err
		}
		parentAuthorID = parent.AuthorID
		if rootID == "" {
			rootID = parent.RootID
			if rootID == "" {
				rootID = parent.ID.Hex()
			}
		}
	}

	comment := &mongo.Comment{
		ThingID:     createDTO.ThingID,
		AuthorID:    userID,
		AuthorName:  user.UserDetail.Nickname,
		Content:     createDTO.Content,
		TaggedUsers: util.ExtractMentions(createDTO.Content),
		RootID:      rootID,
		ParentID:    createDTO.ParentID,
		VoiceURL:    createDTO.VoiceURL,
		VoiceSecs:   float64(createDTO.VoiceSecs),
		CreatedAt:   time.Now(),
	}

	id, err := s.commentRepo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID, _ = primitive.ObjectIDFromHex(id)

	// Thing 下所有互动卡片的评论计数一起涨
	if err = s.interactionRepo.UpdateCounterByThing(ctx, createDTO.ThingID, "comment_count", 1); err != nil {
		log.WarnContext(ctx, "bump comment count failed", "thingID", createDTO.ThingID, "err", err)
	}

	s.publishCommentEvents(ctx, comment, thing.Title, parentAuthorID)

	item := toCommentDTO(comment, userID)
	if avatar := s.fetchAvatar(ctx, userID); avatar != "" {
		item.AvatarURL = avatar
	}
	return item, nil
}

// GetThingComments 一级评论带前几条回复预览
func (s *CommentServiceImpl) GetThingComments(ctx context.Context, viewerID uint64, queryDTO *dto.CommentQueryDTO) (*dto.CommentListDTO, error) {
	if queryDTO.Limit <= 0 || queryDTO.Limit > 50 {
		queryDTO.Limit = 20
	}

	roots, err := s.commentRepo.GetRootCommentsByThingID(ctx, queryDTO.ThingID, queryDTO.Limit, queryDTO.Offset)
	if err != nil {
		return nil, err
	}

	total, err := s.commentRepo.GetCommentCountByThingID(ctx, queryDTO.ThingID)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.CommentDTO, 0, len(roots))
	for _, root := range roots {
		item := toCommentDTO(root, viewerID)
		replies, err := s.commentRepo.GetRepliesByRootID(ctx, root.ID.Hex(), commentRepliesPreview, 0)
		if err != nil {
			return nil, err
		}
		if count, err := s.commentRepo.GetReplyCountByRootID(ctx, root.ID.Hex()); err == nil {
			item.ReplyCount = int(count)
		}
		for _, reply := range replies {
			item.Replies = append(item.Replies, toCommentDTO(reply, viewerID))
		}
		list = append(list, item)
	}

	s.fillAvatars(ctx, list)
	return &dto.CommentListDTO{List: list, Total: total}, nil
}

func (s *CommentServiceImpl) GetReplies(ctx context.Context, viewerID uint64, rootID string, limit, offset int64) ([]*dto.CommentDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	replies, err := s.commentRepo.GetRepliesByRootID(ctx, rootID, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.CommentDTO, 0, len(replies))
	for _, reply := range replies {
		list = append(list, toCommentDTO(reply, viewerID))
	}
	s.fillAvatars(ctx, list)
	return list, nil
}

func (s *CommentServiceImpl) DeleteComment(ctx context.Context, userID uint64, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotOwner
	}
	if err = s.commentRepo.SoftDeleteComment(ctx, comment.ID); err != nil {
		return err
	}
	if err = s.interactionRepo.UpdateCounterByThing(ctx, comment.ThingID, "comment_count", -1); err != nil {
		log.WarnContext(ctx, "drop comment count failed", "thingID", comment.ThingID, "err", err)
	}
	return nil
}

func (s *CommentServiceImpl) LikeComment(ctx context.Context, userID uint64, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	return s.commentRepo.AddLike(ctx, comment.ID, userID)
}

func (s *CommentServiceImpl) UnlikeComment(ctx context.Context, userID uint64, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	return s.commentRepo.RemoveLike(ctx, comment.ID, userID)
}

func (s *CommentServiceImpl) getComment(ctx context.Context, commentID string) (*mongo.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	comment, err := s.commentRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// publishCommentEvents 评论通知给被回复者与该 Thing 的互动作者，@提及单独发
func (s *CommentServiceImpl) publishCommentEvents(ctx context.Context, comment *mongo.Comment, thingTitle string, parentAuthorID uint64) {
	receivers := make(map[uint64]struct{})
	if parentAuthorID != 0 {
		receivers[parentAuthorID] = struct{}{}
	} else {
		rows, err := s.interactionRepo.GetByThingID(ctx, comment.ThingID)
		if err == nil {
			for _, row := range rows {
				receivers[row.UserID] = struct{}{}
			}
		}
	}
	delete(receivers, comment.AuthorID)

	if len(receivers) > 0 {
		receiverIDs := make([]uint64, 0, len(receivers))
		for id := range receivers {
			receiverIDs = append(receiverIDs, id)
		}
		err := s.eventProducer.Publish(ctx, &kafka.Event{
			Type:        kafka.EventCommentCreated,
			ActorID:     comment.AuthorID,
			ActorName:   comment.AuthorName,
			ThingID:     comment.ThingID,
			ThingTitle:  thingTitle,
			CommentID:   comment.ID.Hex(),
			ReceiverIDs: receiverIDs,
			Content:     comment.Content,
		})
		if err != nil {
			log.WarnContext(ctx, "publish comment event failed", "err", err)
		}
	}

	if len(comment.TaggedUsers) == 0 {
		return
	}
	mentionIDs := make([]uint64, 0, len(comment.TaggedUsers))
	for _, name := range comment.TaggedUsers {
		user, err := s.userRepo.GetUserByUsername(ctx, name)
		if err != nil || user == nil || user.ID == comment.AuthorID {
			continue
		}
		mentionIDs = append(mentionIDs, user.ID)
	}
	if len(mentionIDs) == 0 {
		return
	}
	err := s.eventProducer.Publish(ctx, &kafka.Event{
		Type:        kafka.EventMentionCreated,
		ActorID:     comment.AuthorID,
		ActorName:   comment.AuthorName,
		ThingID:     comment.ThingID,
		ThingTitle:  thingTitle,
		CommentID:   comment.ID.Hex(),
		ReceiverIDs: mentionIDs,
		Content:     comment.Content,
	})
	if err != nil {
		log.WarnContext(ctx, "publish mention event failed", "err", err)
	}
}

func (s *CommentServiceImpl) fetchAvatar(ctx context.Context, userID uint64) string {
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, []uint64{userID})
	if err != nil || len(users) == 0 || users[0].AvatarURL == nil {
		return ""
	}
	return *users[0].AvatarURL
}

func (s *CommentServiceImpl) fillAvatars(ctx context.Context, list []*dto.CommentDTO) {
	ids := make([]uint64, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.AuthorID)
		for _, reply := range item.Replies {
			ids = append(ids, reply.AuthorID)
		}
	}
	if len(ids) == 0 {
		return
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, ids)
	if err != nil {
		return
	}
	avatars := make(map[uint64]string, len(users))
	for _, user := range users {
		if user.UserID != nil && user.AvatarURL != nil {
			avatars[*user.UserID] = *user.AvatarURL
		}
	}
	for _, item := range list {
		item.AvatarURL = avatars[item.AuthorID]
		for _, reply := range item.Replies {
			reply.AvatarURL = avatars[reply.AuthorID]
		}
	}
}

func toCommentDTO(comment *mongo.Comment, viewerID uint64) *dto.CommentDTO {
	item := &dto.CommentDTO{
		ID:          comment.ID.Hex(),
		ThingID:     comment.ThingID,
		AuthorID:    comment.AuthorID,
		AuthorName:  comment.AuthorName,
		Content:     comment.Content,
		TaggedUsers: comment.TaggedUsers,
		LikeCount:   len(comment.LikedBy),
		RootID:      comment.RootID,
		ParentID:    comment.ParentID,
		VoiceSecs:   int(comment.VoiceSecs),
		CreatedAt:   comment.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if comment.VoiceURL != "" {
		item.VoiceURL = minio.GetPublicURL(comment.VoiceURL)
	}
	for _, id := range comment.LikedBy {
		if id == viewerID {
			item.HasLiked = true
			break
		}
	}
	return item
}
