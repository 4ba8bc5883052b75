package handler

import (
	"Rex/internal/pkg/response"
	"Rex/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

func (s *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	result, err := s.mediaSvc.UploadImage(c.Request.Context(), userID, fileHeader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *MediaHandler) UploadVoice(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	result, err := s.mediaSvc.UploadVoice(c.Request.Context(), userID, fileHeader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
