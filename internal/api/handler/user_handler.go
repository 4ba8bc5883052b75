package handler

import (
	"Rex/internal/api/dto"
	"Rex/internal/pkg/response"
	"Rex/internal/pkg/util"
	"Rex/internal/service"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc       service.UserService
	userFollowSvc service.UserFollowService
	smsSvc        service.SmsService
	mediaSvc      service.MediaService
}

func NewUserHandler(
	userSvc service.UserService,
	userFollowSvc service.UserFollowService,
	smsSvc service.SmsService,
	mediaSvc service.MediaService,
) *UserHandler {
	return &UserHandler{
		userSvc:       userSvc,
		userFollowSvc: userFollowSvc,
		smsSvc:        smsSvc,
		mediaSvc:      mediaSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !util.ValidateRegDTO(&registerDTO) {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) SendSmsCode(c *gin.Context) {
	var req dto.SmsDTO
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	err = s.smsSvc.SendSms(c.Request.Context(), req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !util.ValidateLoginDTO(&loginDTO) {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"token": token,
	})
}

// LoginByPhone 验证码通过但手机号未注册时返回临时注册令牌
func (s *UserHandler) LoginByPhone(c *gin.Context) {
	var req dto.SmsCheckDTO
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	regToken, err := s.smsSvc.CheckCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	loginDTO := dto.CredentialDTO{Phone: &req.Phone}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO, false)
	if err != nil {
		if errors.Is(err, service.ErrUserPhoneNotFound) || errors.Is(err, service.ErrUserNotFound) {
			response.Success(c, map[string]any{
				"is_register": true,
				"phone_token": regToken,
			})
			return
		}
		response.Error(c, err)
		return
	}

	_ = s.smsSvc.DelSmsRegToken(c.Request.Context(), req.Phone)
	response.Success(c, map[string]any{
		"is_register": false,
		"token":       token,
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	err := s.userSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	info, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// GetHomeInfo 他人主页：基础信息加关注数据
func (s *UserHandler) GetHomeInfo(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	ctx := c.Request.Context()

	info, err := s.userSvc.GetUserInfo(ctx, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	followerCount, err := s.userFollowSvc.GetUserFollowerCount(ctx, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	followingCount, err := s.userFollowSvc.GetUserFollowingCount(ctx, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	info.FollowerCount = &followerCount
	info.FollowingCount = &followingCount

	if viewerID != 0 && viewerID != targetID {
		isFollowing, err := s.userFollowSvc.GetSomeoneIsFollowing(ctx, viewerID, targetID)
		if err == nil {
			info.IsFollowing = &isFollowing
		}
	}

	response.Success(c, info)
}

func (s *UserHandler) SearchUsers(c *gin.Context) {
	list, err := s.userSvc.SearchUsers(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserHandler) GetUserSimpleInfoByIds(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ids, err := util.StrSliceToUInt64Slice(strings.Split(idsParam, ","))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	list, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	var userDTO dto.UserDTO
	err := c.ShouldBind(&userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&userDTO); err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	err = s.userSvc.UpdateUserInfo(c.Request.Context(), userID, &userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordDTO
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
	err = s.userSvc.UpdatePasswordFromOld(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateAvatar 头像对象先走媒体上传，这里只做引用转正
func (s *UserHandler) UpdateAvatar(c *gin.Context) {
	var req struct {
		ObjectName string `json:"object_name" binding:"required"`
	}
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	userID := c.GetUint64("user_id")
	ctx := c.Request.Context()

	if err = s.mediaSvc.PromoteObjects(ctx, []string{req.ObjectName}); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.userSvc.UpdateAvatar(ctx, userID, req.ObjectName); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) CancelUser(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.userSvc.CancelUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
