package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("invalid parameters")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserExist               = errors.New("user already exists")
	ErrUserPhoneNotFound       = errors.New("phone number not registered")
	ErrUserPhoneExist          = errors.New("phone number already registered")
	ErrUserUsernameExist       = errors.New("username already taken")
	ErrPasswordIncorrect       = errors.New("incorrect password")
	ErrCodeIncorrect           = errors.New("incorrect verification code")
	ErrMissingLoginCredentials = errors.New("missing login credentials")
	ErrSmsRegTokenIncorrect    = errors.New("invalid sms registration token")
	ErrFileNotSupported        = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file too large")
	ErrFileNotExist            = errors.New("file not found")
	ErrUserFollowExist         = errors.New("already following")
	ErrUserFollowSelf          = errors.New("cannot follow yourself")
	ErrUserFollowLimit         = errors.New("following limit reached")
	ErrThingNotFound           = errors.New("thing not found")
	ErrThingCategoryInvalid    = errors.New("invalid thing category")
	ErrInteractionNotFound     = errors.New("interaction not found")
	ErrInteractionExist        = errors.New("interaction already exists for this thing")
	ErrStateInvalid            = errors.New("invalid interaction state")
	ErrVisibilityInvalid       = errors.New("invalid visibility")
	ErrRatingOutOfRange        = errors.New("rating must be between 1 and 5")
	ErrRatingWithoutCompletion = errors.New("only completed things can be rated")
	ErrCommentNotFound         = errors.New("comment not found")
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrShareNotFound           = errors.New("share link not found or expired")
	ErrShareSelfAccept         = errors.New("cannot accept your own recommendation")
	ErrActionDuplicate         = errors.New("duplicate action")
	ErrNotOwner                = errors.New("not the owner of this resource")
	UnauthorizedError          = errors.New("unauthorized")
	UnExpectedError            = errors.New("unexpected error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserExist:               BadRequest,
	ErrUserPhoneNotFound:       NotFound,
	ErrUserPhoneExist:          BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrCodeIncorrect:           Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrSmsRegTokenIncorrect:    Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrFileTooLarge:            BadRequest,
	ErrFileNotExist:            NotFound,
	ErrUserFollowExist:         BadRequest,
	ErrUserFollowSelf:          BadRequest,
	ErrUserFollowLimit:         BadRequest,
	ErrThingNotFound:           NotFound,
	ErrThingCategoryInvalid:    BadRequest,
	ErrInteractionNotFound:     NotFound,
	ErrInteractionExist:        BadRequest,
	ErrStateInvalid:            BadRequest,
	ErrVisibilityInvalid:       BadRequest,
	ErrRatingOutOfRange:        BadRequest,
	ErrRatingWithoutCompletion: BadRequest,
	ErrCommentNotFound:         NotFound,
	ErrNotificationNotFound:    NotFound,
	ErrShareNotFound:           NotFound,
	ErrShareSelfAccept:         BadRequest,
	ErrActionDuplicate:         BadRequest,
	ErrNotOwner:                Forbidden,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
