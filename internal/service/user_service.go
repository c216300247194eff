package service

import (
	"context"
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/repository"
	"edutrack_backend/internal/util"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type ProfileInput struct {
	Name string `json:"name" binding:"required"`
}

func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.Name = input.Name
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("current password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// RegisterPushToken stores the device's push-delivery address. An empty token
// unregisters the device.
func (s *UserService) RegisterPushToken(id uint, token string) error {
	return s.UserRepo.UpdatePushToken(id, token)
}

func (s *UserService) UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (string, error) {
	user, err := s.Get(id)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%d-%s%s", id, model.GenerateUUID(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
