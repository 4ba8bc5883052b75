package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/pkg/util"
	"Rex/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionSvc service.InteractionService
}

func NewInteractionHandler(interactionSvc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionSvc: interactionSvc}
}

func (s *InteractionHandler) CreateInteraction(c *gin.Context) {
	var createDTO dto.CreateInteractionDTO
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
	result, err := s.interactionSvc.CreateInteraction(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) UpdateInteraction(c *gin.Context) {
	interactionID, err := strconv.ParseUint(c.Param("interaction_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var updateDTO dto.UpdateInteractionDTO
	if err = c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	result, err := s.interactionSvc.UpdateInteraction(c.Request.Context(), userID, interactionID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) DeleteInteraction(c *gin.Context) {
	interactionID, err := strconv.ParseUint(c.Param("interaction_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")
	result, err := s.interactionSvc.DeleteInteraction(c.Request.Context(), userID, interactionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) GetThingInteractions(c *gin.Context) {
	thingID, err := strconv.ParseUint(c.Param("thing_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	list, err := s.interactionSvc.GetThingInteractions(c.Request.Context(), viewerID, thingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetMyLibrary 自己的互动列表，可按状态过滤
func (s *InteractionHandler) GetMyLibrary(c *gin.Context) {
	userID := c.GetUint64("user_id")
	s.library(c, userID, userID)
}

func (s *InteractionHandler) GetUserLibrary(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	s.library(c, viewerID, targetID)
}

func (s *InteractionHandler) library(c *gin.Context, viewerID, targetID uint64) {
	var queryDTO dto.LibraryQueryDTO
	if err := c.ShouldBindQuery(&queryDTO); err != nil {
		response.Error(c, err)
		return
	}
	list, err := s.interactionSvc.GetUserLibrary(c.Request.Context(), viewerID, targetID, &queryDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *InteractionHandler) LikeInteraction(c *gin.Context) {
	interactionID, err := strconv.ParseUint(c.Param("interaction_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")
	err = s.interactionSvc.LikeInteraction(c.Request.Context(), userID, interactionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) UnlikeInteraction(c *gin.Context) {
	interactionID, err := strconv.ParseUint(c.Param("interaction_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")
	err = s.interactionSvc.UnlikeInteraction(c.Request.Context(), userID, interactionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
