package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/pkg/constants"
	apperrors "parc-info/pkg/errors"
)

const demandeSelectFields = "d.id, d.type_stock, d.designation, d.description, d.commentaire, d.user_id, d.materiel_id, d.status, d.created_at, d.decided_at, u.name"
const demandeJoinClause = "demandes d LEFT JOIN users u ON u.id = d.user_id"

type DemandeRepositoryInterface interface {
	CreateDemande(ctx context.Context, demande *entities.Demande) (*entities.Demande, error)
	GetDemandesByUser(ctx context.Context, userID uint64) ([]entities.Demande, error)
	GetPendingDemandesEnriched(ctx context.Context) ([]dto.EnrichedDemandeDTO, error)
	GetAcceptedDemandes(ctx context.Context) ([]entities.Demande, error)
	FindDemandeForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Demande, error)
	DecideInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) (*entities.Demande, error)
	DeleteDemandeInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type DemandeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDemandeRepository(storage *pgxpool.Pool, logger *zap.Logger) DemandeRepositoryInterface {
	return &DemandeRepository{storage: storage, logger: logger}
}

func scanDemande(row pgx.Row) (*entities.Demande, error) {
	var d entities.Demande
	var userName *string
	err := row.Scan(
		&d.ID, &d.TypeStock, &d.Designation, &d.Description, &d.Commentaire,
		&d.UserID, &d.MaterielID, &d.Status, &d.CreatedAt, &d.DecidedAt, &userName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if userName != nil {
		d.UserName = *userName
	}
	return &d, nil
}

func (r *DemandeRepository) CreateDemande(ctx context.Context, demande *entities.Demande) (*entities.Demande, error) {
	// Select from the CTE itself: the fresh row is not visible to a scan
	// of the base table within the same statement.
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO demandes (type_stock, designation, description, commentaire, user_id, materiel_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		) SELECT %s FROM ins d LEFT JOIN users u ON u.id = d.user_id
	`, demandeSelectFields)

	return scanDemande(r.storage.QueryRow(ctx, query,
		demande.TypeStock, demande.Designation, demande.Description, demande.Commentaire,
		demande.UserID, demande.MaterielID, constants.StatusEnAttente,
	))
}

func getDemandesWhere(ctx context.Context, q querier, condition string, args ...interface{}) ([]entities.Demande, error) {
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY d.id", demandeSelectFields, demandeJoinClause, condition)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list demandes: %w", err)
	}
	defer rows.Close()

	demandes := make([]entities.Demande, 0)
	for rows.Next() {
		d, err := scanDemande(rows)
		if err != nil {
			return nil, err
		}
		demandes = append(demandes, *d)
	}
	return demandes, rows.Err()
}

func (r *DemandeRepository) GetDemandesByUser(ctx context.Context, userID uint64) ([]entities.Demande, error) {
	return getDemandesWhere(ctx, r.storage, "WHERE d.user_id = $1", userID)
}

func (r *DemandeRepository) GetAcceptedDemandes(ctx context.Context) ([]entities.Demande, error) {
	return getDemandesWhere(ctx, r.storage, "WHERE d.status = $1", constants.StatusAcceptee)
}

// GetPendingDemandesEnriched joins the reserved materiel so the admin screen
// can show whether the requested stock is public and still available.
// Demandes whose materiel was deleted fall back to "Non" on both flags.
func (r *DemandeRepository) GetPendingDemandesEnriched(ctx context.Context) ([]dto.EnrichedDemandeDTO, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			COALESCE(CASE WHEN m.public THEN 'Oui' ELSE 'Non' END, 'Non') AS public,
			COALESCE(CASE WHEN m.disponibilite THEN 'Oui' ELSE 'Non' END, 'Non') AS disponible
		FROM %s
		LEFT JOIN materiels m ON m.id = d.materiel_id
		WHERE d.status = $1
		ORDER BY d.id
	`, demandeSelectFields, demandeJoinClause)

	rows, err := r.storage.Query(ctx, query, constants.StatusEnAttente)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending demandes: %w", err)
	}
	defer rows.Close()

	enriched := make([]dto.EnrichedDemandeDTO, 0)
	for rows.Next() {
		var d entities.Demande
		var userName *string
		var public, disponible string
		err := rows.Scan(
			&d.ID, &d.TypeStock, &d.Designation, &d.Description, &d.Commentaire,
			&d.UserID, &d.MaterielID, &d.Status, &d.CreatedAt, &d.DecidedAt, &userName,
			&public, &disponible,
		)
		if err != nil {
			return nil, err
		}
		if userName != nil {
			d.UserName = *userName
		}
		enriched = append(enriched, dto.NewEnrichedDemandeDTO(d, public, disponible))
	}
	return enriched, rows.Err()
}

// FindDemandeForUpdateInTx locks the row so two concurrent decisions
// serialize instead of both reading "En attente".
func (r *DemandeRepository) FindDemandeForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Demande, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE d.id = $1 FOR UPDATE OF d", demandeSelectFields, demandeJoinClause)
	return scanDemande(tx.QueryRow(ctx, query, id))
}

// DecideInTx flips a pending demande to its terminal status and returns the
// decided row from the same statement. The status predicate makes the write
// a compare-and-set: a demande already decided matches zero rows.
func (r *DemandeRepository) DecideInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) (*entities.Demande, error) {
	query := fmt.Sprintf(`
		WITH upd AS (
			UPDATE demandes
			SET status = $2, decided_at = NOW()
			WHERE id = $1 AND status = $3
			RETURNING *
		) SELECT %s FROM upd d LEFT JOIN users u ON u.id = d.user_id
	`, demandeSelectFields)

	decided, err := scanDemande(tx.QueryRow(ctx, query, id, status, constants.StatusEnAttente))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}
	return decided, nil
}

func (r *DemandeRepository) DeleteDemandeInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, "DELETE FROM demandes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
