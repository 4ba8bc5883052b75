package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/minio"
	"Rex/internal/pkg/redis"
	"Rex/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	maxImageSize = 10 << 20
	maxVoiceSize = 5 << 20
)

type MediaService interface {
	UploadImage(ctx context.Context, userID uint64, fileHeader *multipart.FileHeader) (*dto.MediaUploadResultDTO, error)
	UploadVoice(ctx context.Context, userID uint64, fileHeader *multipart.FileHeader) (*dto.MediaUploadResultDTO, error)
	PromoteObjects(ctx context.Context, objectNames []string) error
}

type MediaServiceImpl struct{}

func NewMediaService() MediaService {
	return &MediaServiceImpl{}
}

// UploadImage 原图进暂存桶并生成缩略图，未被业务引用的对象由清理任务回收
func (s *MediaServiceImpl) UploadImage(ctx context.Context, userID uint64, fileHeader *multipart.FileHeader) (*dto.MediaUploadResultDTO, error) {
	if fileHeader.Size > maxImageSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	contentType, err := util.SniffImageContentType(file)
	if err != nil {
		return nil, ErrFileNotSupported
	}

	ext := extFromContentType(contentType)
	objectName := fmt.Sprintf("images/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err = minio.UploadTemp(ctx, objectName, file, fileHeader.Size, contentType); err != nil {
		return nil, err
	}
	s.recordTempObject(ctx, objectName, contentType, fileHeader.Size)

	result := &dto.MediaUploadResultDTO{
		ObjectName: objectName,
		URL:        minio.GetPublicURL(objectName),
	}

	// 缩略图失败不阻断上传
	if _, err = file.Seek(0, 0); err == nil {
		if thumb, size, err := util.MakeThumbnail(file); err == nil {
			thumbName := strings.TrimSuffix(objectName, ext) + "_thumb.jpg"
			if _, err = minio.UploadTemp(ctx, thumbName, thumb, size, "image/jpeg"); err == nil {
				s.recordTempObject(ctx, thumbName, "image/jpeg", size)
				result.ThumbName = thumbName
			}
		}
	}

	return result, nil
}

// UploadVoice 评论语音条，同样走暂存桶等业务引用后转正
func (s *MediaServiceImpl) UploadVoice(ctx context.Context, userID uint64, fileHeader *multipart.FileHeader) (*dto.MediaUploadResultDTO, error) {
	if fileHeader.Size > maxVoiceSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	contentType, err := util.SniffVoiceContentType(file)
	if err != nil {
		return nil, ErrFileNotSupported
	}

	ext := voiceExtFromContentType(contentType)
	objectName := fmt.Sprintf("voices/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err = minio.UploadTemp(ctx, objectName, file, fileHeader.Size, contentType); err != nil {
		return nil, err
	}
	s.recordTempObject(ctx, objectName, contentType, fileHeader.Size)

	return &dto.MediaUploadResultDTO{
		ObjectName: objectName,
		URL:        minio.GetPublicURL(objectName),
	}, nil
}

// PromoteObjects 业务对象持久引用后把暂存对象转正；已转正过的对象跳过
func (s *MediaServiceImpl) PromoteObjects(ctx context.Context, objectNames []string) error {
	for _, objectName := range objectNames {
		if err := minio.Promote(ctx, objectName); err != nil {
			if minio.IsNotFound(err) {
				continue
			}
			return err
		}
		if err := redis.HDel(ctx, consts.MediaTempKey, objectName); err != nil {
			log.WarnContext(ctx, "drop temp media record failed", "objectName", objectName, "err", err)
		}
	}
	return nil
}

func (s *MediaServiceImpl) recordTempObject(ctx context.Context, objectName, contentType string, size int64) {
	meta, err := json.Marshal(&dto.MediaTempMetadata{
		MimeType:  contentType,
		Size:      size,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return
	}
	if err = redis.HSet(ctx, consts.MediaTempKey, objectName, string(meta)); err != nil {
		log.WarnContext(ctx, "record temp media failed", "objectName", objectName, "err", err)
	}
}

func voiceExtFromContentType(contentType string) string {
	switch contentType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wave":
		return ".wav"
	case "application/ogg":
		return ".ogg"
	case "video/mp4":
		return ".m4a"
	default:
		return ""
	}
}

func extFromContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
