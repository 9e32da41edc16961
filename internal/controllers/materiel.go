package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/services"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/utils"
)

type MaterielController struct {
	materielService services.MaterielServiceInterface
	importService   services.MaterielImportServiceInterface
	logger          *zap.Logger
}

func NewMaterielController(
	materielService services.MaterielServiceInterface,
	importService services.MaterielImportServiceInterface,
	logger *zap.Logger,
) *MaterielController {
	return &MaterielController{
		materielService: materielService,
		importService:   importService,
		logger:          logger,
	}
}

func (c *MaterielController) CreateMateriel(ctx echo.Context) error {
	var payload dto.CreateMaterielDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.materielService.CreateMateriel(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "materiel created", http.StatusCreated)
}

func (c *MaterielController) GetMateriels(ctx echo.Context) error {
	materiels, err := c.materielService.GetMateriels(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, materiels, "materiels retrieved", http.StatusOK)
}

func (c *MaterielController) GetMaterielsSansAffectation(ctx echo.Context) error {
	materiels, err := c.materielService.GetMaterielsSansAffectation(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, materiels, "unassigned materiels retrieved", http.StatusOK)
}

// UpdateMateriel reads the raw body once so the merge can tell "field
// omitted" apart from "field sent with a zero value".
func (c *MaterielController) UpdateMateriel(ctx echo.Context) error {
	sn := ctx.Param("sn")

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "unreadable request body", err, nil),
			c.logger,
		)
	}

	sent, err := utils.SentFields(rawBody)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}

	var payload dto.UpdateMaterielDTO
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.materielService.UpdateMateriel(ctx.Request().Context(), sn, payload, sent)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "materiel updated", http.StatusOK)
}

func (c *MaterielController) DeleteMateriel(ctx echo.Context) error {
	sn := ctx.Param("sn")

	if err := c.materielService.DeleteMateriel(ctx.Request().Context(), sn); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "materiel deleted", http.StatusOK)
}

func (c *MaterielController) ImportMateriels(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "missing 'file' form field", err, nil),
			c.logger,
		)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "could not open uploaded file", err, nil),
			c.logger,
		)
	}
	defer file.Close()

	report, err := c.importService.ImportFromExcel(ctx.Request().Context(), file)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "import finished", http.StatusOK)
}

func (c *MaterielController) ExportMateriels(ctx echo.Context) error {
	f, err := c.importService.ExportToExcel(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	filename := fmt.Sprintf("materiels-%s.xlsx", time.Now().Format("2006-01-02"))
	header := ctx.Response().Header()
	header.Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Response().WriteHeader(http.StatusOK)

	return f.Write(ctx.Response().Writer)
}
