package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

func (s *FeedHandler) GetFeed(c *gin.Context) {
	var queryDTO dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&queryDTO); err != nil {
		response.Error(c, err)
		return
	}
	viewerID := c.GetUint64("user_id")
	page, err := s.feedSvc.GetFeed(c.Request.Context(), viewerID, &queryDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
