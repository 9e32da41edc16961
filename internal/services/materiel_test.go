package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	apperrors "parc-info/pkg/errors"
)

func newMaterielFixture() (*MaterielService, *fakeMaterielRepo, *fakeUserRepo) {
	materielRepo := newFakeMaterielRepo()
	userRepo := newFakeUserRepo()
	svc := NewMaterielService(materielRepo, userRepo, zap.NewNop()).(*MaterielService)
	return svc, materielRepo, userRepo
}

func TestCreateMaterielDefaults(t *testing.T) {
	svc, _, _ := newMaterielFixture()

	created, err := svc.CreateMateriel(context.Background(), dto.CreateMaterielDTO{
		SN:                "SN-1",
		Code:              "INV-1",
		DateMiseEnService: "2023-05-10",
		Designation:       "Laptop",
	})
	require.NoError(t, err)

	assert.Equal(t, "-", created.Facture)
	assert.True(t, created.Operationnel)
	assert.True(t, created.Public)
	assert.True(t, created.Disponibilite)
	assert.Nil(t, created.PersonneAffectationID)
	assert.Equal(t, 2023, created.DateMiseEnService.Year())
}

func TestCreateMaterielExplicitFlags(t *testing.T) {
	svc, _, _ := newMaterielFixture()

	falseVal := false
	created, err := svc.CreateMateriel(context.Background(), dto.CreateMaterielDTO{
		SN:                "SN-1",
		Code:              "INV-1",
		DateMiseEnService: "10/05/2023",
		Designation:       "Laptop",
		Operationnel:      &falseVal,
		Public:            &falseVal,
	})
	require.NoError(t, err)

	assert.False(t, created.Operationnel)
	assert.False(t, created.Public)
}

func TestCreateMaterielBadDate(t *testing.T) {
	svc, _, _ := newMaterielFixture()

	_, err := svc.CreateMateriel(context.Background(), dto.CreateMaterielDTO{
		SN: "SN-1", Code: "INV-1", DateMiseEnService: "not a date", Designation: "Laptop",
	})

	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestCreateMaterielDuplicateSN(t *testing.T) {
	svc, _, _ := newMaterielFixture()

	payload := dto.CreateMaterielDTO{
		SN: "SN-1", Code: "INV-1", DateMiseEnService: "2023-05-10", Designation: "Laptop",
	}
	_, err := svc.CreateMateriel(context.Background(), payload)
	require.NoError(t, err)

	payload.Code = "INV-2"
	_, err = svc.CreateMateriel(context.Background(), payload)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestUpdateMaterielAppliesOnlySentFields(t *testing.T) {
	svc, repo, _ := newMaterielFixture()
	repo.add(entities.Materiel{
		SN: "SN-1", Code: "INV-1", Designation: "Laptop", Public: true, Operationnel: true,
	})

	// public=false is sent explicitly; designation is bound but NOT sent.
	updated, err := svc.UpdateMateriel(context.Background(), "SN-1",
		dto.UpdateMaterielDTO{
			Public:      null.BoolFrom(false),
			Designation: null.StringFrom("should be ignored"),
		},
		map[string]bool{"public": true},
	)
	require.NoError(t, err)

	assert.False(t, updated.Public)
	assert.Equal(t, "Laptop", updated.Designation)
}

func TestUpdateMaterielAssignRecomputesDisponibilite(t *testing.T) {
	svc, repo, userRepo := newMaterielFixture()
	repo.add(entities.Materiel{SN: "SN-1", Code: "INV-1", Designation: "Laptop"})
	user, err := userRepo.CreateUser(context.Background(), &entities.User{
		Name: "alice", Email: "alice@example.com", Role: "Utilisateur",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMateriel(context.Background(), "SN-1",
		dto.UpdateMaterielDTO{PersonneAffectationID: null.Uint64From(user.ID)},
		map[string]bool{"personneAffectationId": true},
	)
	require.NoError(t, err)
	require.NotNil(t, updated.PersonneAffectationID)
	assert.Equal(t, user.ID, *updated.PersonneAffectationID)
	assert.False(t, updated.Disponibilite)

	// Clearing the assignee makes it available again.
	updated, err = svc.UpdateMateriel(context.Background(), "SN-1",
		dto.UpdateMaterielDTO{},
		map[string]bool{"personneAffectationId": true},
	)
	require.NoError(t, err)
	assert.Nil(t, updated.PersonneAffectationID)
	assert.True(t, updated.Disponibilite)
}

func TestUpdateMaterielAssignUnknownUser(t *testing.T) {
	svc, repo, _ := newMaterielFixture()
	repo.add(entities.Materiel{SN: "SN-1", Code: "INV-1", Designation: "Laptop"})

	_, err := svc.UpdateMateriel(context.Background(), "SN-1",
		dto.UpdateMaterielDTO{PersonneAffectationID: null.Uint64From(99)},
		map[string]bool{"personneAffectationId": true},
	)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateMaterielNotFound(t *testing.T) {
	svc, _, _ := newMaterielFixture()

	_, err := svc.UpdateMateriel(context.Background(), "missing",
		dto.UpdateMaterielDTO{Public: null.BoolFrom(false)},
		map[string]bool{"public": true},
	)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteMateriel(t *testing.T) {
	svc, repo, _ := newMaterielFixture()
	repo.add(entities.Materiel{SN: "SN-1", Code: "INV-1", Designation: "Laptop"})

	require.NoError(t, svc.DeleteMateriel(context.Background(), "SN-1"))
	assert.ErrorIs(t, svc.DeleteMateriel(context.Background(), "SN-1"), apperrors.ErrNotFound)
}

func TestGetMaterielsSansAffectation(t *testing.T) {
	svc, repo, _ := newMaterielFixture()
	userID := uint64(3)
	repo.add(entities.Materiel{SN: "SN-1", Code: "INV-1", Designation: "Laptop"})
	repo.add(entities.Materiel{SN: "SN-2", Code: "INV-2", Designation: "Screen", PersonneAffectationID: &userID})

	free, err := svc.GetMaterielsSansAffectation(context.Background())
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "SN-1", free[0].SN)
}
