package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"parc-info/internal/entities"
	apperrors "parc-info/pkg/errors"
)

const materielTable = "materiels"
const materielSelectFields = "m.id, m.sn, m.code, m.date_mise_en_service, m.designation, m.description, m.prix_ht, m.fournisseur, m.facture, m.operationnel, m.en_reparation, m.reforme, m.observations, m.public, m.personne_affectation_id, m.disponibilite, m.created_at, m.updated_at, u.name"
const materielJoinClause = "materiels m LEFT JOIN users u ON u.id = m.personne_affectation_id"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type MaterielRepositoryInterface interface {
	CreateMateriel(ctx context.Context, materiel *entities.Materiel) (*entities.Materiel, error)
	GetMateriels(ctx context.Context) ([]entities.Materiel, error)
	GetMaterielsSansAffectation(ctx context.Context) ([]entities.Materiel, error)
	FindMaterielBySN(ctx context.Context, sn string) (*entities.Materiel, error)
	UpdateMateriel(ctx context.Context, sn string, changes map[string]interface{}) (*entities.Materiel, error)
	DeleteMateriel(ctx context.Context, sn string) error
	UpsertMateriel(ctx context.Context, materiel *entities.Materiel) (inserted bool, err error)
	FindUnassignedByDescription(ctx context.Context, designation, description string) (*entities.Materiel, error)
	AssignInTx(ctx context.Context, tx pgx.Tx, materielID, userID uint64) error
	ReleaseInTx(ctx context.Context, tx pgx.Tx, materielID uint64) error
	ReleaseByUserInTx(ctx context.Context, tx pgx.Tx, userID uint64) error
}

type MaterielRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaterielRepository(storage *pgxpool.Pool, logger *zap.Logger) MaterielRepositoryInterface {
	return &MaterielRepository{storage: storage, logger: logger}
}

func scanMateriel(row pgx.Row) (*entities.Materiel, error) {
	var m entities.Materiel
	err := row.Scan(
		&m.ID, &m.SN, &m.Code, &m.DateMiseEnService, &m.Designation, &m.Description,
		&m.PrixHT, &m.Fournisseur, &m.Facture, &m.Operationnel, &m.EnReparation,
		&m.Reforme, &m.Observations, &m.Public, &m.PersonneAffectationID,
		&m.Disponibilite, &m.CreatedAt, &m.UpdatedAt, &m.PersonneAffectation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// mapMaterielPgError translates unique-constraint violations into the
// duplicate-key 400s the API contract promises.
func mapMaterielPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "materiels_sn_key") {
			return apperrors.NewDuplicateKeyError("a materiel with this SN already exists", err)
		}
		if strings.Contains(pgErr.ConstraintName, "materiels_code_key") {
			return apperrors.NewDuplicateKeyError("a materiel with this inventory code already exists", err)
		}
	}
	return err
}

func (r *MaterielRepository) CreateMateriel(ctx context.Context, materiel *entities.Materiel) (*entities.Materiel, error) {
	// Select from the CTE itself: the fresh row is not visible to a scan
	// of the base table within the same statement.
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %s (sn, code, date_mise_en_service, designation, description, prix_ht,
				fournisseur, facture, operationnel, en_reparation, reforme, observations, public,
				personne_affectation_id, disponibilite)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING *
		) SELECT %s FROM ins m LEFT JOIN users u ON u.id = m.personne_affectation_id
	`, materielTable, materielSelectFields)

	row := r.storage.QueryRow(ctx, query,
		materiel.SN, materiel.Code, materiel.DateMiseEnService, materiel.Designation,
		materiel.Description, materiel.PrixHT, materiel.Fournisseur, materiel.Facture,
		materiel.Operationnel, materiel.EnReparation, materiel.Reforme, materiel.Observations,
		materiel.Public, materiel.PersonneAffectationID,
		materiel.PersonneAffectationID == nil,
	)

	created, err := scanMateriel(row)
	if err != nil {
		return nil, mapMaterielPgError(err)
	}
	return created, nil
}

func getMaterielsWhere(ctx context.Context, q querier, condition string) ([]entities.Materiel, error) {
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY m.id", materielSelectFields, materielJoinClause, condition)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list materiels: %w", err)
	}
	defer rows.Close()

	materiels := make([]entities.Materiel, 0)
	for rows.Next() {
		m, err := scanMateriel(rows)
		if err != nil {
			return nil, err
		}
		materiels = append(materiels, *m)
	}
	return materiels, rows.Err()
}

func (r *MaterielRepository) GetMateriels(ctx context.Context) ([]entities.Materiel, error) {
	return getMaterielsWhere(ctx, r.storage, "")
}

func (r *MaterielRepository) GetMaterielsSansAffectation(ctx context.Context) ([]entities.Materiel, error) {
	return getMaterielsWhere(ctx, r.storage, "WHERE m.personne_affectation_id IS NULL")
}

func (r *MaterielRepository) FindMaterielBySN(ctx context.Context, sn string) (*entities.Materiel, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE m.sn = $1", materielSelectFields, materielJoinClause)
	return scanMateriel(r.storage.QueryRow(ctx, query, sn))
}

// UpdateMateriel merges only the provided columns and returns the updated
// row from the same statement, joined to its assignee. The caller (service)
// has already recomputed disponibilite when the assignee changes.
func (r *MaterielRepository) UpdateMateriel(ctx context.Context, sn string, changes map[string]interface{}) (*entities.Materiel, error) {
	if len(changes) == 0 {
		return r.FindMaterielBySN(ctx, sn)
	}

	builder := psql.Update(materielTable).
		SetMap(changes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"sn": sn}).
		Suffix("RETURNING *")

	updateSQL, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	// Select from the CTE: the written row is not visible to a scan of the
	// base table within the same statement.
	query := fmt.Sprintf(
		"WITH upd AS (%s) SELECT %s FROM upd m LEFT JOIN users u ON u.id = m.personne_affectation_id",
		updateSQL, materielSelectFields,
	)

	updated, err := scanMateriel(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, mapMaterielPgError(err)
	}
	return updated, nil
}

func (r *MaterielRepository) DeleteMateriel(ctx context.Context, sn string) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE sn = $1", materielTable), sn)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertMateriel inserts or, when the SN already exists, refreshes the
// descriptive columns. Assignment state is deliberately left alone: imports
// manage stock, not affectations.
func (r *MaterielRepository) UpsertMateriel(ctx context.Context, materiel *entities.Materiel) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (sn, code, date_mise_en_service, designation, description, prix_ht,
			fournisseur, facture, operationnel, en_reparation, reforme, observations, public, disponibilite)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE)
		ON CONFLICT (sn) DO UPDATE SET
			code = EXCLUDED.code,
			date_mise_en_service = EXCLUDED.date_mise_en_service,
			designation = EXCLUDED.designation,
			description = EXCLUDED.description,
			prix_ht = COALESCE(EXCLUDED.prix_ht, %s.prix_ht),
			fournisseur = EXCLUDED.fournisseur,
			facture = EXCLUDED.facture,
			operationnel = EXCLUDED.operationnel,
			en_reparation = EXCLUDED.en_reparation,
			reforme = EXCLUDED.reforme,
			observations = EXCLUDED.observations,
			public = EXCLUDED.public,
			updated_at = NOW()
		RETURNING (xmax = 0) AS is_insert
	`, materielTable, materielTable)

	var isInsert bool
	err := r.storage.QueryRow(ctx, query,
		materiel.SN, materiel.Code, materiel.DateMiseEnService, materiel.Designation,
		materiel.Description, materiel.PrixHT, materiel.Fournisseur, materiel.Facture,
		materiel.Operationnel, materiel.EnReparation, materiel.Reforme, materiel.Observations,
		materiel.Public,
	).Scan(&isInsert)
	if err != nil {
		return false, mapMaterielPgError(err)
	}
	return isInsert, nil
}

func (r *MaterielRepository) FindUnassignedByDescription(ctx context.Context, designation, description string) (*entities.Materiel, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE m.designation = $1 AND m.description = $2 AND m.personne_affectation_id IS NULL
		ORDER BY m.id LIMIT 1
	`, materielSelectFields, materielJoinClause)
	return scanMateriel(r.storage.QueryRow(ctx, query, designation, description))
}

// AssignInTx is the single atomic step that links a materiel to a user.
// The WHERE clause is the guard: if somebody won the race first, zero rows
// change and the caller's transaction rolls back with a conflict.
func (r *MaterielRepository) AssignInTx(ctx context.Context, tx pgx.Tx, materielID, userID uint64) error {
	result, err := tx.Exec(ctx, `
		UPDATE materiels
		SET personne_affectation_id = $1, disponibilite = FALSE, updated_at = NOW()
		WHERE id = $2 AND personne_affectation_id IS NULL
	`, userID, materielID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrMaterielConflict
	}
	return nil
}

func (r *MaterielRepository) ReleaseInTx(ctx context.Context, tx pgx.Tx, materielID uint64) error {
	result, err := tx.Exec(ctx, `
		UPDATE materiels
		SET personne_affectation_id = NULL, disponibilite = TRUE, updated_at = NOW()
		WHERE id = $1
	`, materielID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaterielRepository) ReleaseByUserInTx(ctx context.Context, tx pgx.Tx, userID uint64) error {
	_, err := tx.Exec(ctx, `
		UPDATE materiels
		SET personne_affectation_id = NULL, disponibilite = TRUE, updated_at = NOW()
		WHERE personne_affectation_id = $1
	`, userID)
	return err
}
