package api

import (
	"Rex/internal/api/middleware"
	"Rex/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/login/phone", group.UserHandler.LoginByPhone)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/sms/send", group.UserHandler.SendSmsCode)
			userGroup.GET("/batch/simple", group.UserHandler.GetUserSimpleInfoByIds)
			userGroup.GET("/search", group.UserHandler.SearchUsers)

			authOptGroup := userGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:user_id/home", group.UserHandler.GetHomeInfo)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.PUT("/avatar", group.UserHandler.UpdateAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.Use(middleware.AuthMiddleware())
			{
				userFollowGroup.GET("/followers", group.UserFollowHandler.GetUserFollowers)
				userFollowGroup.GET("/followers/count", group.UserFollowHandler.GetUserFollowersCount)
				userFollowGroup.GET("/followings", group.UserFollowHandler.GetUserFollowings)
				userFollowGroup.GET("/followings/count", group.UserFollowHandler.GetUserFollowingCount)
				userFollowGroup.GET("/isfollow/:following_id", group.UserFollowHandler.GetSomeoneIsFollowing)
				userFollowGroup.POST("/follow/:following_id", group.UserFollowHandler.Follow)
				userFollowGroup.DELETE("/follow/:following_id", group.UserFollowHandler.Unfollow)
			}
		}

		thingGroup := apiGroup.Group("/things")
		{
			authOptGroup := thingGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/detail/:thing_id", group.ThingHandler.GetThingDetail)
				authOptGroup.GET("/search", group.ThingHandler.SearchThings)
				authOptGroup.GET("/suggest", group.ThingHandler.GetSuggestions)
				authOptGroup.GET("/latest", group.ThingHandler.GetLatestThings)
			}

			authGroup := thingGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ThingHandler.CreateThing)
				authGroup.POST("/from-link", group.ThingHandler.CreateThingFromLink)
				authGroup.DELETE("/:thing_id", group.ThingHandler.DeleteThing)
				authGroup.GET("/metadata/search", group.ThingHandler.SearchMetadata)
			}
		}

		interactionGroup := apiGroup.Group("/interactions")
		{
			authOptGroup := interactionGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/thing/:thing_id", group.InteractionHandler.GetThingInteractions)
				authOptGroup.GET("/library/:user_id", group.InteractionHandler.GetUserLibrary)
			}

			authGroup := interactionGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.InteractionHandler.CreateInteraction)
				authGroup.PATCH("/:interaction_id", group.InteractionHandler.UpdateInteraction)
				authGroup.DELETE("/:interaction_id", group.InteractionHandler.DeleteInteraction)
				authGroup.GET("/library", group.InteractionHandler.GetMyLibrary)
				authGroup.POST("/:interaction_id/like", group.InteractionHandler.LikeInteraction)
				authGroup.DELETE("/:interaction_id/like", group.InteractionHandler.UnlikeInteraction)
			}
		}

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(middleware.AuthMiddleware())
		{
			feedGroup.GET("", group.FeedHandler.GetFeed)
		}

		commentGroup := apiGroup.Group("/comments")
		{
			authOptGroup := commentGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/thing/:thing_id", group.CommentHandler.GetThingComments)
				authOptGroup.GET("/replies/:root_id", group.CommentHandler.GetReplies)
			}

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommentHandler.CreateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:comment_id/like", group.CommentHandler.LikeComment)
				authGroup.DELETE("/:comment_id/like", group.CommentHandler.UnlikeComment)
			}
		}

		shareGroup := apiGroup.Group("/share")
		{
			shareGroup.GET("/resolve", group.ShareHandler.ResolveShare)
			shareGroup.GET("/resolve/:code", group.ShareHandler.ResolveShare)

			authGroup := shareGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ShareHandler.CreateShare)
				authGroup.POST("/accept", group.ShareHandler.AcceptShare)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		{
			notifyGroup.GET("/ws", group.WsHandler.Connect)

			authGroup := notifyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/list", group.NotificationHandler.GetNotificationList)
				authGroup.POST("/read", group.NotificationHandler.MarkRead)
				authGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
			}
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
			mediaGroup.POST("/upload/voice", group.MediaHandler.UploadVoice)
		}
	}

	return r
}
