package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"parc-info/internal/controllers"
	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/pkg/constants"
	"parc-info/pkg/middleware"
	"parc-info/pkg/session"
)

const testCookieName = "parc_session"

type stubMaterielService struct{}

func (stubMaterielService) CreateMateriel(ctx context.Context, payload dto.CreateMaterielDTO) (*entities.Materiel, error) {
	return &entities.Materiel{}, nil
}

func (stubMaterielService) GetMateriels(ctx context.Context) ([]entities.Materiel, error) {
	return []entities.Materiel{}, nil
}

func (stubMaterielService) GetMaterielsSansAffectation(ctx context.Context) ([]entities.Materiel, error) {
	return []entities.Materiel{}, nil
}

func (stubMaterielService) UpdateMateriel(ctx context.Context, sn string, payload dto.UpdateMaterielDTO, sent map[string]bool) (*entities.Materiel, error) {
	return &entities.Materiel{}, nil
}

func (stubMaterielService) DeleteMateriel(ctx context.Context, sn string) error {
	return nil
}

type stubImportService struct{}

func (stubImportService) ImportFromExcel(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error) {
	return &dto.ImportReportDTO{}, nil
}

func (stubImportService) ExportToExcel(ctx context.Context) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

// newMaterielRouterFixture mounts the materiel routes exactly as InitRouter
// does, over stub services, and returns a session cookie for the given role.
func newMaterielRouterFixture(t *testing.T, role string) (*echo.Echo, string) {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour, zap.NewNop())
	token, err := sessions.Create(context.Background(), session.Identity{
		UserID: 1, Name: "alice", Email: "alice@example.com", Role: role,
	})
	require.NoError(t, err)

	authMW := middleware.NewAuthMiddleware(sessions, testCookieName, zap.NewNop())
	ctrl := controllers.NewMaterielController(stubMaterielService{}, stubImportService{}, zap.NewNop())

	e := echo.New()
	api := e.Group("/api")
	authed := api.Group("", authMW.Auth)
	gestion := api.Group("", authMW.Auth, authMW.RequireRoles(constants.RoleAdmin, constants.RoleGestionnaire))
	runMaterielRouter(authed, gestion, ctrl)

	return e, token
}

func doMaterielRequest(e *echo.Echo, method, path, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetMaterielsOpenToPlainUsers(t *testing.T) {
	e, token := newMaterielRouterFixture(t, constants.RoleUtilisateur)

	rec := doMaterielRequest(e, http.MethodGet, "/api/getMateriels", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMaterielsRequiresSession(t *testing.T) {
	e, _ := newMaterielRouterFixture(t, constants.RoleUtilisateur)

	rec := doMaterielRequest(e, http.MethodGet, "/api/getMateriels", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStockManagementStaysGated(t *testing.T) {
	e, token := newMaterielRouterFixture(t, constants.RoleUtilisateur)

	rec := doMaterielRequest(e, http.MethodPost, "/api/createMateriel", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doMaterielRequest(e, http.MethodGet, "/api/getMatNoAffectation", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doMaterielRequest(e, http.MethodDelete, "/api/deleteMateriel/SN-1", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGestionnaireKeepsStockAccess(t *testing.T) {
	e, token := newMaterielRouterFixture(t, constants.RoleGestionnaire)

	rec := doMaterielRequest(e, http.MethodGet, "/api/getMateriels", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doMaterielRequest(e, http.MethodGet, "/api/getMatNoAffectation", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
