package service

import (
	"context"
	"errors"
	"time"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/internal/session"
	"github.com/dferraz/mercado-backend/pkg/logger"
	"github.com/dferraz/mercado-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
)

type AuthService interface {
	Register(username, password string) (*model.User, error)
	Login(username, password string) (*model.User, string, error)
	Logout(ctx context.Context, sessionID string, expiresAt time.Time) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	sessions      session.Store
	jwtSecret     string
	sessionExpiry time.Duration
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	sessions session.Store,
	jwtSecret string,
	sessionExpiry time.Duration,
) AuthService {
	return &authService{
		db:            db,
		userRepo:      userRepo,
		sessions:      sessions,
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

func (s *authService) Register(username, password string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	// Uniqueness check and insert share one transaction, committed or
	// rolled back as a unit.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		existing, err := users.FindByUsername(username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing user", err, map[string]interface{}{
				"username": username,
			})
			return err
		}
		if existing != nil {
			logger.Warn("Registration failed: username already exists", map[string]interface{}{
				"username": username,
			})
			return ErrUsernameAlreadyExists
		}

		return users.Create(user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, nil
}

func (s *authService) Login(username, password string) (*model.User, string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			// Same error as a wrong password, no username enumeration.
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"username": username,
			"user_id":  user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken(user.ID, user.Username, s.jwtSecret, s.sessionExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, token, nil
}

// Logout revokes the session for the remainder of its token lifetime
func (s *authService) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke.
		return nil
	}

	if err := s.sessions.Revoke(ctx, sessionID, ttl); err != nil {
		logger.Error("Failed to revoke session", err)
		return err
	}

	logger.Info("Session revoked", map[string]interface{}{
		"ttl": ttl.String(),
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}
