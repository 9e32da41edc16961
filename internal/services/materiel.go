package services

import (
	"context"

	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/internal/repositories"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/utils"
)

type MaterielServiceInterface interface {
	CreateMateriel(ctx context.Context, payload dto.CreateMaterielDTO) (*entities.Materiel, error)
	GetMateriels(ctx context.Context) ([]entities.Materiel, error)
	GetMaterielsSansAffectation(ctx context.Context) ([]entities.Materiel, error)
	UpdateMateriel(ctx context.Context, sn string, payload dto.UpdateMaterielDTO, sent map[string]bool) (*entities.Materiel, error)
	DeleteMateriel(ctx context.Context, sn string) error
}

type MaterielService struct {
	materielRepo repositories.MaterielRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	logger       *zap.Logger
}

func NewMaterielService(
	materielRepo repositories.MaterielRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) MaterielServiceInterface {
	return &MaterielService{
		materielRepo: materielRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

func (s *MaterielService) CreateMateriel(ctx context.Context, payload dto.CreateMaterielDTO) (*entities.Materiel, error) {
	dateMiseEnService, err := utils.ParseDate(payload.DateMiseEnService)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("invalid dateMiseEnService: %s", err.Error())
	}

	materiel := &entities.Materiel{
		SN:                payload.SN,
		Code:              payload.Code,
		DateMiseEnService: dateMiseEnService,
		Designation:       payload.Designation,
		Description:       payload.Description,
		PrixHT:            payload.PrixHT,
		Fournisseur:       payload.Fournisseur,
		Facture:           payload.Facture,
		Operationnel:      true,
		EnReparation:      payload.EnReparation,
		Reforme:           payload.Reforme,
		Observations:      payload.Observations,
		Public:            true,
	}
	if materiel.Facture == "" {
		materiel.Facture = "-"
	}
	if payload.Operationnel != nil {
		materiel.Operationnel = *payload.Operationnel
	}
	if payload.Public != nil {
		materiel.Public = *payload.Public
	}

	created, err := s.materielRepo.CreateMateriel(ctx, materiel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("materiel created", zap.String("sn", created.SN), zap.Uint64("id", created.ID))
	return created, nil
}

func (s *MaterielService) GetMateriels(ctx context.Context) ([]entities.Materiel, error) {
	return s.materielRepo.GetMateriels(ctx)
}

func (s *MaterielService) GetMaterielsSansAffectation(ctx context.Context) ([]entities.Materiel, error) {
	return s.materielRepo.GetMaterielsSansAffectation(ctx)
}

// UpdateMateriel applies exactly the fields present in the request body.
// Presence comes from the raw body (sent), not from zero values, so sending
// {"public": false} flips the flag while omitting "public" leaves it alone.
func (s *MaterielService) UpdateMateriel(ctx context.Context, sn string, payload dto.UpdateMaterielDTO, sent map[string]bool) (*entities.Materiel, error) {
	changes := make(map[string]interface{})

	if sent["code"] {
		changes["code"] = payload.Code.String
	}
	if sent["dateMiseEnService"] {
		parsed, err := utils.ParseDate(payload.DateMiseEnService.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("invalid dateMiseEnService: %s", err.Error())
		}
		changes["date_mise_en_service"] = parsed
	}
	if sent["designation"] {
		changes["designation"] = payload.Designation.String
	}
	if sent["description"] {
		changes["description"] = payload.Description.String
	}
	if sent["prixHT"] {
		changes["prix_ht"] = payload.PrixHT.Ptr()
	}
	if sent["fournisseur"] {
		changes["fournisseur"] = payload.Fournisseur.String
	}
	if sent["facture"] {
		changes["facture"] = payload.Facture.String
	}
	if sent["operationnel"] {
		changes["operationnel"] = payload.Operationnel.Bool
	}
	if sent["enReparation"] {
		changes["en_reparation"] = payload.EnReparation.String
	}
	if sent["reforme"] {
		changes["reforme"] = payload.Reforme.String
	}
	if sent["observations"] {
		changes["observations"] = payload.Observations.String
	}
	if sent["public"] {
		changes["public"] = payload.Public.Bool
	}

	// Changing the assignee drags disponibilite along: the two columns move
	// together or the database check rejects the row.
	if sent["personneAffectationId"] {
		if payload.PersonneAffectationID.Valid {
			userID := payload.PersonneAffectationID.Uint64
			if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
				return nil, err
			}
			changes["personne_affectation_id"] = userID
			changes["disponibilite"] = false
		} else {
			changes["personne_affectation_id"] = nil
			changes["disponibilite"] = true
		}
	}

	updated, err := s.materielRepo.UpdateMateriel(ctx, sn, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("materiel updated", zap.String("sn", sn))
	return updated, nil
}

func (s *MaterielService) DeleteMateriel(ctx context.Context, sn string) error {
	if err := s.materielRepo.DeleteMateriel(ctx, sn); err != nil {
		return err
	}
	s.logger.Info("materiel deleted", zap.String("sn", sn))
	return nil
}
