package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/internal/repositories"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/session"
	"parc-info/pkg/utils"
)

const loginAttemptsKeyPrefix = "login_attempts:"

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (string, *session.Identity, error)
	Logout(ctx context.Context, token string) error
}

type AuthService struct {
	userRepo    repositories.UserRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	sessions    *session.Manager
	maxAttempts int
	lockout     time.Duration
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	sessions *session.Manager,
	maxAttempts int,
	lockout time.Duration,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:    userRepo,
		cache:       cache,
		sessions:    sessions,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		logger:      logger,
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:        payload.Name,
		Email:       payload.Email,
		Password:    hash,
		Role:        payload.Role,
		Departement: payload.Departement,
		Fonction:    payload.Fonction,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint64("id", created.ID), zap.String("role", created.Role))
	result := toUserDTO(created)
	return &result, nil
}

// Login checks the throttle, verifies the password and opens a session.
// An unknown email is a plain not-found; wrong passwords are counted per
// email and past the limit the account stays locked until the counter
// expires.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (string, *session.Identity, error) {
	attemptsKey := loginAttemptsKeyPrefix + payload.Email

	attempts, err := s.cache.GetCounter(ctx, attemptsKey)
	if err != nil {
		// Redis being down must not take logins down with it.
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	} else if attempts >= int64(s.maxAttempts) {
		return "", nil, apperrors.ErrAccountLocked
	}

	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return "", nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.recordFailedAttempt(ctx, attemptsKey)
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := s.cache.Delete(ctx, attemptsKey); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	identity := session.Identity{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Departement: user.Departement,
		Fonction:    user.Fonction,
	}

	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Uint64("id", user.ID))
	return token, &identity, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, key string) {
	if _, err := s.cache.IncrementWithTTL(ctx, key, s.lockout); err != nil {
		s.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}

func toUserDTO(user *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Departement: user.Departement,
		Fonction:    user.Fonction,
		CreatedAt:   user.CreatedAt,
	}
}
