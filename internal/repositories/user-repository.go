package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"parc-info/internal/entities"
	apperrors "parc-info/pkg/errors"
)

const userSelectFields = "id, name, email, password, role, departement, fonction, created_at"

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	GetUsers(ctx context.Context) ([]entities.User, error)
	DeleteUserInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.Departement, &u.Fonction, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func mapUserPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "users_email_key") {
			return apperrors.NewDuplicateKeyError("a user with this email already exists", err)
		}
		if strings.Contains(pgErr.ConstraintName, "users_name_key") {
			return apperrors.NewDuplicateKeyError("a user with this name already exists", err)
		}
	}
	return err
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (name, email, password, role, departement, fonction)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, userSelectFields)

	created, err := scanUser(r.storage.QueryRow(ctx, query,
		user.Name, user.Email, user.Password, user.Role, user.Departement, user.Fonction,
	))
	if err != nil {
		return nil, mapUserPgError(err)
	}
	return created, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY id", userSelectFields)

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// DeleteUserInTx runs inside the caller's transaction so the user's
// equipment can be released in the same atomic step.
func (r *UserRepository) DeleteUserInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
