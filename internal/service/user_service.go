package service

import (
	"Rex/internal/api/dto"
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"Rex/internal/pkg/minio"
	"Rex/internal/pkg/redis"
	"Rex/internal/pkg/security"
	"Rex/internal/repository"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO, isByPassword bool) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	SearchUsers(ctx context.Context, keyword string) ([]*dto.UserDTO, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	credentialDTO := &dto.CredentialDTO{
		Username: regDTO.Username,
		Phone:    regDTO.Phone,
	}
	findUser, err := s.findUserByLoginCredentials(ctx, credentialDTO)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserUsernameExist
	}

	user := &model.User{}
	err = copier.Copy(user, &regDTO)
	if err != nil {
		return err
	}

	// username & password 形式注册
	if regDTO.Password != nil {
		passwordHash, err := security.HashPassword(*regDTO.Password)
		if err != nil {
			return err
		}
		user.Password = &passwordHash
	}

	// 手机号形式注册
	if regDTO.Phone != nil {
		key := consts.SmsCheckTokenKey + *regDTO.Phone
		value, err := redis.GetValue(ctx, key)
		if err != nil {
			return err
		}
		if regDTO.PhoneToken == nil || value == "" || value != *regDTO.PhoneToken {
			return ErrSmsRegTokenIncorrect
		}
		_ = redis.DeleteKey(ctx, key)
	}

	detail := &model.UserDetail{}
	err = copier.Copy(detail, &regDTO)
	if err != nil {
		return err
	}

	err = s.userRepo.CreateUser(ctx, user, detail)
	if err != nil {
		return err
	}

	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, dto *dto.CredentialDTO, isByPassword bool) (string, error) {
	user, err := s.findUserByLoginCredentials(ctx, dto)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if isByPassword {
		if dto.Password == nil || user.Password == nil {
			return "", ErrPasswordIncorrect
		}
		err = security.CheckPasswordHash(*dto.Password, *user.Password)
		if err != nil {
			return "", ErrPasswordIncorrect
		}
	}
	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	err = redis.SetWithExpiration(ctx, signature, true, time.Hour*24*7)
	if err != nil {
		return err
	}
	return nil
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}

	userDTO := &dto.UserDTO{}
	err = copier.Copy(userDTO, user)
	if err != nil {
		return nil, err
	}
	err = copier.Copy(userDTO, user.UserDetail)
	if err != nil {
		return nil, err
	}
	userDTO.UserID = &user.ID
	url := minio.GetPublicURL(user.UserDetail.AvatarURL)
	userDTO.AvatarURL = &url
	return userDTO, nil
}

// SearchUsers 按用户名或昵称前缀找人
func (s *UserServiceImpl) SearchUsers(ctx context.Context, keyword string) ([]*dto.UserDTO, error) {
	const limit = 20
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*dto.UserDTO{}, nil
	}

	users, err := s.userRepo.SearchUsersByName(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTO := &dto.UserDTO{}
		if err = copier.Copy(userDTO, user.UserDetail); err != nil {
			return nil, err
		}
		userDTO.UserID = &user.ID
		userDTO.Username = user.Username
		url := minio.GetPublicURL(user.UserDetail.AvatarURL)
		userDTO.AvatarURL = &url
		list = append(list, userDTO)
	}
	return list, nil
}

// GetUserSimpleInfoByIds 展示名与头像走缓存，miss 的批量回源
func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	result := make(map[uint64]*dto.UserDTO, len(ids))
	missed := make([]uint64, 0)

	for _, id := range ids {
		key := consts.UserSimpleInfoKey + strconv.FormatUint(id, 10)
		value, err := redis.GetValue(ctx, key)
		if err != nil || value == "" {
			missed = append(missed, id)
			continue
		}
		var userDTO dto.UserDTO
		if err = json.Unmarshal([]byte(value), &userDTO); err != nil {
			missed = append(missed, id)
			continue
		}
		result[id] = &userDTO
	}

	if len(missed) > 0 {
		details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, missed)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			userDTO := &dto.UserDTO{}
			if err = copier.Copy(userDTO, detail); err != nil {
				return nil, err
			}
			userDTO.UserID = &detail.UserID
			url := minio.GetPublicURL(detail.AvatarURL)
			userDTO.AvatarURL = &url
			result[detail.UserID] = userDTO

			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				continue
			}
			key := consts.UserSimpleInfoKey + strconv.FormatUint(detail.UserID, 10)
			_ = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
		}
	}

	list := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if userDTO, ok := result[id]; ok {
			list = append(list, userDTO)
		}
	}
	return list, nil
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetUserByUsername(ctx, username)
}

func (s *UserServiceImpl) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return s.userRepo.GetUserByPhone(ctx, phone)
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	detail := &model.UserDetail{UserID: id}
	if userDTO.Nickname != nil {
		detail.Nickname = *userDTO.Nickname
	}
	if userDTO.Bio != nil {
		detail.Bio = userDTO.Bio
	}

	if err := s.userRepo.UpdateUserDetail(ctx, detail); err != nil {
		return err
	}
	s.invalidateSimpleInfo(ctx, id)
	return nil
}

func (s *UserServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, changeDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.Password == nil {
		return ErrUserNotFound
	}
	if err = security.CheckPasswordHash(changeDTO.OldPassword, *user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	passwordHash, err := security.HashPassword(changeDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	detail := &model.UserDetail{
		UserID:    id,
		AvatarURL: objectName,
	}
	if err := s.userRepo.UpdateUserDetail(ctx, detail); err != nil {
		return err
	}
	s.invalidateSimpleInfo(ctx, id)
	return nil
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidateSimpleInfo(ctx, id)
	return nil
}

func (s *UserServiceImpl) invalidateSimpleInfo(ctx context.Context, id uint64) {
	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, dto *dto.CredentialDTO) (*model.User, error) {
	if dto.Username != nil {
		return s.userRepo.GetUserByUsername(ctx, *dto.Username)
	}
	if dto.Phone != nil {
		return s.userRepo.GetUserByPhone(ctx, *dto.Phone)
	}
	return nil, ErrMissingLoginCredentials
}
