package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/internal/repositories"
	"parc-info/pkg/constants"
	apperrors "parc-info/pkg/errors"
)

type DemandeServiceInterface interface {
	CreateDemande(ctx context.Context, userID uint64, payload dto.CreateDemandeDTO) (*entities.Demande, error)
	GetDemandesForUser(ctx context.Context, userID uint64) ([]entities.Demande, error)
	GetPendingDemandes(ctx context.Context) ([]dto.EnrichedDemandeDTO, error)
	GetAcceptedDemandes(ctx context.Context) ([]entities.Demande, error)
	Decide(ctx context.Context, id uint64, status string) (*entities.Demande, error)
	DeleteDemande(ctx context.Context, id uint64) error
}

type DemandeService struct {
	demandeRepo  repositories.DemandeRepositoryInterface
	materielRepo repositories.MaterielRepositoryInterface
	txManager    repositories.TxManagerInterface
	logger       *zap.Logger
}

func NewDemandeService(
	demandeRepo repositories.DemandeRepositoryInterface,
	materielRepo repositories.MaterielRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) DemandeServiceInterface {
	return &DemandeService{
		demandeRepo:  demandeRepo,
		materielRepo: materielRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateDemande verifies at submit time that an unassigned materiel matches
// the requested designation/description and pins its id on the demande, so
// later renames of the stock don't orphan the request.
func (s *DemandeService) CreateDemande(ctx context.Context, userID uint64, payload dto.CreateDemandeDTO) (*entities.Demande, error) {
	materiel, err := s.materielRepo.FindUnassignedByDescription(ctx, payload.Designation, payload.Description)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound,
				"no available materiel matches this demande", err, nil)
		}
		return nil, err
	}

	demande := &entities.Demande{
		TypeStock:   payload.TypeStock,
		Designation: payload.Designation,
		Description: payload.Description,
		Commentaire: payload.Commentaire,
		UserID:      userID,
		MaterielID:  &materiel.ID,
	}

	created, err := s.demandeRepo.CreateDemande(ctx, demande)
	if err != nil {
		return nil, err
	}

	s.logger.Info("demande created",
		zap.Uint64("id", created.ID),
		zap.Uint64("userId", userID),
		zap.Uint64("materielId", materiel.ID),
	)
	return created, nil
}

func (s *DemandeService) GetDemandesForUser(ctx context.Context, userID uint64) ([]entities.Demande, error) {
	return s.demandeRepo.GetDemandesByUser(ctx, userID)
}

func (s *DemandeService) GetPendingDemandes(ctx context.Context) ([]dto.EnrichedDemandeDTO, error) {
	return s.demandeRepo.GetPendingDemandesEnriched(ctx)
}

func (s *DemandeService) GetAcceptedDemandes(ctx context.Context) ([]entities.Demande, error) {
	return s.demandeRepo.GetAcceptedDemandes(ctx)
}

// Decide moves a pending demande to Acceptée or Refusée. Acceptance and the
// equipment assignment commit in one transaction: if two admins race on the
// same demande, or two demandes race on the last matching materiel, exactly
// one wins and the loser gets a conflict.
func (s *DemandeService) Decide(ctx context.Context, id uint64, status string) (*entities.Demande, error) {
	if !constants.IsDecision(status) {
		return nil, apperrors.NewInvalidInputError("status must be %q or %q", constants.StatusAcceptee, constants.StatusRefusee)
	}

	var decided *entities.Demande
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		demande, err := s.demandeRepo.FindDemandeForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if constants.IsTerminalStatus(demande.Status) {
			return apperrors.ErrInvalidTransition
		}

		if status == constants.StatusAcceptee {
			materielID, err := s.resolveMateriel(ctx, demande)
			if err != nil {
				return err
			}
			if err := s.materielRepo.AssignInTx(ctx, tx, materielID, demande.UserID); err != nil {
				return err
			}
		}

		decided, err = s.demandeRepo.DecideInTx(ctx, tx, id, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("demande decided", zap.Uint64("id", id), zap.String("status", status))
	return decided, nil
}

// resolveMateriel returns the materiel to assign on acceptance. The id
// pinned at submit time wins; if that materiel has since been deleted or
// assigned elsewhere, fall back to re-matching the description.
func (s *DemandeService) resolveMateriel(ctx context.Context, demande *entities.Demande) (uint64, error) {
	if demande.MaterielID != nil {
		return *demande.MaterielID, nil
	}

	materiel, err := s.materielRepo.FindUnassignedByDescription(ctx, demande.Designation, demande.Description)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, apperrors.ErrMaterielConflict
		}
		return 0, err
	}
	return materiel.ID, nil
}

// DeleteDemande removes an affectation: if the demande was accepted, its
// materiel is released in the same transaction that deletes the row.
func (s *DemandeService) DeleteDemande(ctx context.Context, id uint64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		demande, err := s.demandeRepo.FindDemandeForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if demande.Status == constants.StatusAcceptee && demande.MaterielID != nil {
			if err := s.materielRepo.ReleaseInTx(ctx, tx, *demande.MaterielID); err != nil {
				return err
			}
		}

		return s.demandeRepo.DeleteDemandeInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("demande deleted", zap.Uint64("id", id))
	return nil
}
