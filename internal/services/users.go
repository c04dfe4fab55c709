package services

import (
	"context"
	"errors"
	"log/slog"

	"todo-app/backend/internal/apperr"
	"todo-app/backend/internal/auth"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/validation"

	"gorm.io/gorm"
)

type UserService interface {
	Signup(ctx context.Context, db *gorm.DB, req validation.SignupRequest) (models.Profile, error)
	Login(ctx context.Context, db *gorm.DB, req validation.LoginRequest) (models.Profile, error)
	FindByID(ctx context.Context, db *gorm.DB, id uint) (models.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (models.User, bool, error)
}

type UserServiceImpl struct {
	hasher *auth.Hasher
}

func NewUserService(hasher *auth.Hasher) *UserServiceImpl {
	return &UserServiceImpl{hasher: hasher}
}

func (s *UserServiceImpl) Signup(ctx context.Context, db *gorm.DB, req validation.SignupRequest) (models.Profile, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Profile{}, err
	}

	if _, found, err := s.FindByEmail(ctx, db, req.Email); err != nil {
		return models.Profile{}, err
	} else if found {
		return models.Profile{}, apperr.DuplicateEmail(req.Email)
	}

	var existing models.User
	err := db.WithContext(ctx).Where("nickname = ?", req.Nickname).First(&existing).Error
	if err == nil {
		return models.Profile{}, apperr.DuplicateNickname(req.Nickname)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, storeError(err, "USER_CREATE_FAILED", "failed to create user")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.Profile{}, apperr.Wrap(err, apperr.KindInternal, "PASSWORD_HASH_FAILED", "failed to create user")
	}

	user := models.User{
		Email:    req.Email,
		Password: hashed,
		Nickname: req.Nickname,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.Profile{}, storeError(err, "USER_CREATE_FAILED", "failed to create user")
	}

	slog.Info("user created", "email", user.Email, "nickname", user.Nickname)
	return user.Profile(), nil
}

// Login returns the same error for an unknown email and a wrong password,
// so failures give no user-enumeration signal.
func (s *UserServiceImpl) Login(ctx context.Context, db *gorm.DB, req validation.LoginRequest) (models.Profile, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Profile{}, err
	}

	user, found, err := s.FindByEmail(ctx, db, req.Email)
	if err != nil {
		return models.Profile{}, err
	}
	if !found {
		return models.Profile{}, apperr.InvalidCredentials()
	}
	if !s.hasher.Verify(user.Password, req.Password) {
		return models.Profile{}, apperr.InvalidCredentials()
	}

	slog.Info("user logged in", "email", user.Email)
	return user.Profile(), nil
}

func (s *UserServiceImpl) FindByID(ctx context.Context, db *gorm.DB, id uint) (models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.UserNotFound(id)
		}
		return models.User{}, storeError(err, "USER_RETRIEVE_FAILED", "failed to retrieve user")
	}
	return user, nil
}

// FindByEmail reports absence via the bool rather than an error.
func (s *UserServiceImpl) FindByEmail(ctx context.Context, db *gorm.DB, email string) (models.User, bool, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, storeError(err, "USER_RETRIEVE_FAILED", "failed to retrieve user")
	}
	return user, true, nil
}
