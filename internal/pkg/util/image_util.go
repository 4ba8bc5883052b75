package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

const thumbMaxEdge = 480

// SniffImageContentType 读取前 512 字节嗅探图片类型；非图片返回错误
func SniffImageContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported image type: %s", contentType)
	}
}

// SniffVoiceContentType 嗅探语音文件类型；m4a 封装被识别为 video/mp4
func SniffVoiceContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])
	switch contentType {
	case "audio/mpeg", "audio/wave", "application/ogg", "video/mp4":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported voice type: %s", contentType)
	}
}

// MakeThumbnail 等比缩放到长边不超过 480，输出 JPEG
func MakeThumbnail(r io.Reader) (io.Reader, int64, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > thumbMaxEdge || bounds.Dy() > thumbMaxEdge {
		img = imaging.Fit(img, thumbMaxEdge, thumbMaxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(82)); err != nil {
		return nil, 0, err
	}
	return &buf, int64(buf.Len()), nil
}
