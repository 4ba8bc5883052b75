package dto

type RegisterDTO struct {
	// 方式一 使用 用户名&密码
	Username *string `json:"username"`
	Password *string `json:"password"`

	// 方式二 使用 手机号&临时签发令牌
	Phone      *string `json:"phone"`
	PhoneToken *string `json:"phone_token"`

	Nickname  string  `json:"nickname" validate:"required,min=1,max=15"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

type CredentialDTO struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Code     *string `json:"code"`
}

type SmsDTO struct {
	Phone string `json:"phone" binding:"required" validate:"len=11"`
}

type SmsCheckDTO struct {
	Phone string `json:"phone" binding:"required" validate:"len=11"`
	Code  string `json:"code" binding:"required" validate:"len=6"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}
