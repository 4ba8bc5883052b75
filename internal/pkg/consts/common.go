package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
)

// Thing 类别
const (
	CategoryBooks  = "books"
	CategoryMovies = "movies"
	CategoryPlaces = "places"
	CategoryMusic  = "music"
	CategoryOther  = "other"
)

// 互动状态
const (
	StateBucketList = "bucketList"
	StateInProgress = "inProgress"
	StateCompleted  = "completed"
)

// 可见性
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// 评分范围（统一 1-5 分制）
const (
	RatingMin = 1
	RatingMax = 5
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// ValidCategory 校验类别是否合法
func ValidCategory(c string) bool {
	switch c {
	case CategoryBooks, CategoryMovies, CategoryPlaces, CategoryMusic, CategoryOther:
		return true
	}
	return false
}

// ValidVisibility 校验可见性是否合法
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// ValidState 校验互动状态是否合法
func ValidState(s string) bool {
	switch s {
	case StateBucketList, StateInProgress, StateCompleted:
		return true
	}
	return false
}
