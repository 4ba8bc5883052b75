package minio

import (
	"Rex/internal/api/config"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// UploadTemp 上传文件到临时桶，附着到业务对象前随时可被回收
func UploadTemp(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, TempBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// Promote 将临时对象复制到主桶，业务对象持久引用后调用
func Promote(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	src := minio.CopySrcOptions{Bucket: TempBucket, Object: objectName}
	dst := minio.CopyDestOptions{Bucket: MainBucket, Object: objectName}

	if _, err := Client.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("failed to promote object: %w", err)
	}

	_ = Client.RemoveObject(ctx, TempBucket, objectName, minio.RemoveObjectOptions{})
	return nil
}

// DeleteTemp 删除临时桶中的文件
func DeleteTemp(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}
	return Client.RemoveObject(ctx, TempBucket, objectName, minio.RemoveObjectOptions{})
}

// DeleteFile 删除主桶中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, MainBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// IsNotFound 对象不存在
func IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	return errors.As(err, &resp) && resp.Code == "NoSuchKey"
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	protocol := "http"
	endpoint := cfg.ExternalEndpoint
	if cfg.UsePublicLink {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, MainBucket, objectName)
}
