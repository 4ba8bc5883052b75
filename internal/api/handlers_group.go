package api

import "Rex/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	UserFollowHandler   *handler.UserFollowHandler
	ThingHandler        *handler.ThingHandler
	InteractionHandler  *handler.InteractionHandler
	FeedHandler         *handler.FeedHandler
	CommentHandler      *handler.CommentHandler
	ShareHandler        *handler.ShareHandler
	NotificationHandler *handler.NotificationHandler
	MediaHandler        *handler.MediaHandler
	WsHandler           *handler.WsHandler
}
