package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rulesFixture struct {
	Role      string `validate:"omitempty,role"`
	Date      string `validate:"omitempty,dateformat"`
	Decision  string `validate:"omitempty,decision"`
	TypeStock string `validate:"omitempty,typestock"`
}

func newRulesValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestRoleRule(t *testing.T) {
	v := newRulesValidator(t)

	assert.NoError(t, v.Struct(rulesFixture{Role: "Admin"}))
	assert.NoError(t, v.Struct(rulesFixture{Role: "Gestionnaire"}))
	assert.NoError(t, v.Struct(rulesFixture{Role: "Utilisateur"}))
	assert.Error(t, v.Struct(rulesFixture{Role: "Superuser"}))
	assert.Error(t, v.Struct(rulesFixture{Role: "admin"}))
}

func TestDateFormatRule(t *testing.T) {
	v := newRulesValidator(t)

	assert.NoError(t, v.Struct(rulesFixture{Date: "2023-05-10"}))
	assert.NoError(t, v.Struct(rulesFixture{Date: "10/05/2023"}))
	assert.Error(t, v.Struct(rulesFixture{Date: "pas une date"}))
}

func TestDecisionRule(t *testing.T) {
	v := newRulesValidator(t)

	assert.NoError(t, v.Struct(rulesFixture{Decision: "Acceptée"}))
	assert.NoError(t, v.Struct(rulesFixture{Decision: "Refusée"}))
	// A decision is never "back to pending".
	assert.Error(t, v.Struct(rulesFixture{Decision: "En attente"}))
	assert.Error(t, v.Struct(rulesFixture{Decision: "acceptee"}))
}

func TestTypeStockRule(t *testing.T) {
	v := newRulesValidator(t)

	assert.NoError(t, v.Struct(rulesFixture{TypeStock: "Bureautique"}))
	assert.NoError(t, v.Struct(rulesFixture{TypeStock: "Informatique"}))
	assert.Error(t, v.Struct(rulesFixture{TypeStock: "Mobilier"}))
	assert.Error(t, v.Struct(rulesFixture{TypeStock: "informatique"}))
}
