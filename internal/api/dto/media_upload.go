package dto

// MediaTempMetadata 暂存区文件的元信息，挂在 Redis 哈希上
type MediaTempMetadata struct {
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

// MediaUploadResultDTO 上传结果
type MediaUploadResultDTO struct {
	ObjectName string `json:"object_name"`
	ThumbName  string `json:"thumb_name,omitempty"`
	URL        string `json:"url"`
}
