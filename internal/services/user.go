package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/repositories"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo     repositories.UserRepositoryInterface
	materielRepo repositories.MaterielRepositoryInterface
	txManager    repositories.TxManagerInterface
	logger       *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	materielRepo repositories.MaterielRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:     userRepo,
		materielRepo: materielRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, toUserDTO(&users[i]))
	}
	return result, nil
}

// DeleteUser releases the user's equipment and removes the account in one
// transaction, so no materiel is ever left pointing at a deleted user. The
// user's demandes go with the account (cascade).
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.materielRepo.ReleaseByUserInTx(ctx, tx, id); err != nil {
			return err
		}
		return s.userRepo.DeleteUserInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Uint64("id", id))
	return nil
}
