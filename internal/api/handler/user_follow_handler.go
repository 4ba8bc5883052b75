package handler

import (
	"Rex/internal/model"
	"Rex/internal/pkg/response"
	"Rex/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	followingID, err := strconv.ParseUint(c.Param("following_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	err = s.userFollowSvc.CreateUserFollow(c.Request.Context(), &model.UserFollow{
		FollowerID:  userID,
		FollowingID: followingID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	followingID, err := strconv.ParseUint(c.Param("following_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	err = s.userFollowSvc.DeleteUserFollow(c.Request.Context(), &model.UserFollow{
		FollowerID:  userID,
		FollowingID: followingID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) GetSomeoneIsFollowing(c *gin.Context) {
	followingID, err := strconv.ParseUint(c.Param("following_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userID := c.GetUint64("user_id")

	isFollowing, err := s.userFollowSvc.GetSomeoneIsFollowing(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"is_following": isFollowing})
}

func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, offset := parsePage(c)

	list, err := s.userFollowSvc.GetUserFollowers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, offset := parsePage(c)

	list, err := s.userFollowSvc.GetUserFollowing(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *UserFollowHandler) GetUserFollowersCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.userFollowSvc.GetUserFollowerCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *UserFollowHandler) GetUserFollowingCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.userFollowSvc.GetUserFollowingCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func parsePage(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
