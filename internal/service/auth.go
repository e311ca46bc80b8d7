package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"TripTogether/internal/cache"
	"TripTogether/internal/model"
	pkgerrors "TripTogether/pkg/errors"
	"TripTogether/pkg/logger"
	"TripTogether/pkg/snowflake"
	"TripTogether/pkg/token"
	"TripTogether/storage/database"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(database.DB())
	})
	return authService
}

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register создаёт пользователя и сразу выдаёт пару токенов
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.TokenPairData, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, pkgerrors.EmailAlreadyTaken
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, pkgerrors.UsernameAlreadyTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Email:        email,
		Username:     username,
		PasswordHash: string(passwordHash),
		IsActive:     true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New user registered",
		zap.Int64("public_id", publicID),
		zap.String("username", username),
	)

	return s.issueTokenPair(ctx, user)
}

// Login проверяет учётные данные и выдаёт пару токенов
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenPairData, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, pkgerrors.InvalidCredentials
	}

	if !user.IsActive {
		return nil, pkgerrors.UserDeactivated
	}

	return s.issueTokenPair(ctx, &user)
}

// Refresh обменивает refresh-токен на новую пару
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPairData, error) {
	userID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, userID, refreshToken) {
		return nil, pkgerrors.Unauthorized
	}

	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	if !user.IsActive {
		return nil, pkgerrors.UserDeactivated
	}

	return s.issueTokenPair(ctx, user)
}

// Me возвращает профиль текущего пользователя
func (s *AuthService) Me(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := loadUserByPublicID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	profile := buildUserProfile(user)
	return &profile, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*model.TokenPairData, error) {
	userIDStr := formatID(user.PublicID)

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	// токен уже выпущен, недоступность кэша не должна ломать вход
	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
	}

	return &model.TokenPairData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         buildUserProfile(user),
	}, nil
}

func buildUserProfile(user *model.User) model.UserProfile {
	return model.UserProfile{
		ID:        formatID(user.PublicID),
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
