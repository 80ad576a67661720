package service

import (
	"context"

	"marketplace/internal/config"
	"marketplace/internal/domain"
	"marketplace/internal/repository"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/jwt"
	"marketplace/pkg/logger"
)

// AuthService проверяет bearer-токен при установке соединения.
// Успех требует: валидный токен, существующий активный пользователь,
// подтверждённый email.
type AuthService interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !user.IsEmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	return user, nil
}
