package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/pkg/util"
	"Rex/internal/service"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	shareSvc service.ShareService
}

func NewShareHandler(shareSvc service.ShareService) *ShareHandler {
	return &ShareHandler{shareSvc: shareSvc}
}

func (s *ShareHandler) CreateShare(c *gin.Context) {
	var createDTO dto.CreateShareDTO
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
	link, err := s.shareSvc.CreateShare(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, link)
}

// ResolveShare 落地页数据，未登录也可访问；
// 路径段是 code，或 thing_id + from 查询参数的站内深链
func (s *ShareHandler) ResolveShare(c *gin.Context) {
	ref := dto.ShareRefDTO{Code: c.Param("code")}
	if ref.Code == "" {
		if err := c.ShouldBindQuery(&ref); err != nil {
			response.Error(c, err)
			return
		}
	}
	result, err := s.shareSvc.ResolveShare(c.Request.Context(), &ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *ShareHandler) AcceptShare(c *gin.Context) {
	var ref dto.ShareRefDTO
	err := c.ShouldBind(&ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	result, err := s.shareSvc.AcceptShare(c.Request.Context(), userID, &ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
