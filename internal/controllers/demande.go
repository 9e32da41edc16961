package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/services"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/session"
	"parc-info/pkg/utils"
)

type DemandeController struct {
	demandeService services.DemandeServiceInterface
	logger         *zap.Logger
}

func NewDemandeController(demandeService services.DemandeServiceInterface, logger *zap.Logger) *DemandeController {
	return &DemandeController{demandeService: demandeService, logger: logger}
}

func (c *DemandeController) CreateDemande(ctx echo.Context) error {
	identity, err := session.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateDemandeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.demandeService.CreateDemande(ctx.Request().Context(), identity.UserID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "demande created", http.StatusCreated)
}

// GetDemandes returns the caller's own demandes, whatever their status.
func (c *DemandeController) GetDemandes(ctx echo.Context) error {
	identity, err := session.FromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	demandes, err := c.demandeService.GetDemandesForUser(ctx.Request().Context(), identity.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, demandes, "demandes retrieved", http.StatusOK)
}

// GetAllDemandes is the admin worklist: pending demandes enriched with the
// matched materiel's public/disponibilite flags.
func (c *DemandeController) GetAllDemandes(ctx echo.Context) error {
	demandes, err := c.demandeService.GetPendingDemandes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, demandes, "pending demandes retrieved", http.StatusOK)
}

func (c *DemandeController) UpdateDemande(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid demande id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	var payload dto.DecideDemandeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	decided, err := c.demandeService.Decide(ctx.Request().Context(), id, payload.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, decided, "demande decided", http.StatusOK)
}

// GetAffect lists accepted demandes, i.e. the current affectations.
func (c *DemandeController) GetAffect(ctx echo.Context) error {
	demandes, err := c.demandeService.GetAcceptedDemandes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, demandes, "affectations retrieved", http.StatusOK)
}

// DelAffect removes an affectation, releasing the materiel when the demande
// had been accepted.
func (c *DemandeController) DelAffect(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid demande id", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger,
		)
	}

	if err := c.demandeService.DeleteDemande(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "affectation deleted", http.StatusOK)
}
