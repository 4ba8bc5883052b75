package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/pkg/util"
	"Rex/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ThingHandler struct {
	thingSvc service.ThingService
}

func NewThingHandler(thingSvc service.ThingService) *ThingHandler {
	return &ThingHandler{thingSvc: thingSvc}
}

func (s *ThingHandler) GetThingDetail(c *gin.Context) {
	thingID, err := strconv.ParseUint(c.Param("thing_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	thing, err := s.thingSvc.GetThingDetail(c.Request.Context(), thingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thing)
}

func (s *ThingHandler) CreateThing(c *gin.Context) {
	var baseDTO dto.ThingBaseDTO
	err := c.ShouldBind(&baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	thing, err := s.thingSvc.GetOrCreateThing(c.Request.Context(), userID, &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thing)
}

// CreateThingFromLink 抓取链接预览并由分类器归类
func (s *ThingHandler) CreateThingFromLink(c *gin.Context) {
	var req dto.ThingFromLinkDTO
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	thing, err := s.thingSvc.CreateThingFromLink(c.Request.Context(), userID, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thing)
}

func (s *ThingHandler) DeleteThing(c *gin.Context) {
	thingID, err := strconv.ParseUint(c.Param("thing_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")
	err = s.thingSvc.DeleteThing(c.Request.Context(), userID, thingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ThingHandler) SearchThings(c *gin.Context) {
	var searchDTO dto.ThingSearchDTO
	err := c.ShouldBindQuery(&searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	list, err := s.thingSvc.SearchThings(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ThingHandler) GetLatestThings(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	page, err := s.thingSvc.GetLatestThings(c.Request.Context(), c.Query("cursor"), size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *ThingHandler) GetSuggestions(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.Success(c, []string{})
		return
	}
	list, err := s.thingSvc.GetSuggestions(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// SearchMetadata 按类别路由到外部元数据源
func (s *ThingHandler) SearchMetadata(c *gin.Context) {
	var searchDTO dto.MetadataSearchDTO
	err := c.ShouldBindQuery(&searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.thingSvc.SearchMetadata(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
