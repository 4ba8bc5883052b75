package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/pkg/util"
	"Rex/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	var createDTO dto.CreateCommentDTO
	err := c.ShouldBind(&createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) GetThingComments(c *gin.Context) {
	thingID, err := strconv.ParseUint(c.Param("thing_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	viewerID := c.GetUint64("user_id")
	list, err := s.commentSvc.GetThingComments(c.Request.Context(), viewerID, &dto.CommentQueryDTO{
		ThingID: thingID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) GetReplies(c *gin.Context) {
	rootID := c.Param("root_id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	viewerID := c.GetUint64("user_id")
	list, err := s.commentSvc.GetReplies(c.Request.Context(), viewerID, rootID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("comment_id")
	userID := c.GetUint64("user_id")
	err := s.commentSvc.DeleteComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) LikeComment(c *gin.Context) {
	commentID := c.Param("comment_id")
	userID := c.GetUint64("user_id")
	err := s.commentSvc.LikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) UnlikeComment(c *gin.Context) {
	commentID := c.Param("comment_id")
	userID := c.GetUint64("user_id")
	err := s.commentSvc.UnlikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
