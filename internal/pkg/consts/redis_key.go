package consts

const (
	SmsKey                = "sms:validate:code:"
	SmsCheckTokenKey      = "sms:check:token:"
	UserSimpleInfoKey     = "user:simple:info:"
	UserFollowerKey       = "user:follower:"
	UserFollowingKey      = "user:following:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	FeedPayloadKey        = "feed:payload:"
	FeedDirtyKey          = "feed:dirty"
	ThingDetailKey        = "thing:detail:"
	MediaTempKey          = "media:temp:meta"
	ShareCodeKey          = "share:code:"
	NotifyChannelKey      = "notify:push:"
)

const (
	ShareAcceptLock = "lock:share:accept:"
	SmsInviteLock   = "lock:sms:invite:"
)
