package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateMaterielDTO struct {
	SN                string   `json:"sn" validate:"required"`
	Code              string   `json:"code" validate:"required"`
	DateMiseEnService string   `json:"dateMiseEnService" validate:"required,dateformat"`
	Designation       string   `json:"designation" validate:"required"`
	Description       string   `json:"description"`
	PrixHT            *float64 `json:"prixHT"`
	Fournisseur       string   `json:"fournisseur"`
	Facture           string   `json:"facture"`
	Operationnel      *bool    `json:"operationnel"`
	EnReparation      string   `json:"enReparation"`
	Reforme           string   `json:"reforme"`
	Observations      string   `json:"observations"`
	Public            *bool    `json:"public"`
}

// UpdateMaterielDTO is a partial update. Whether a field was actually sent
// is decided against the raw request body (utils.SentFields), so explicit
// false/0/"" values are applied instead of being mistaken for "absent".
type UpdateMaterielDTO struct {
	Code                  null.String  `json:"code"`
	DateMiseEnService     null.String  `json:"dateMiseEnService"`
	Designation           null.String  `json:"designation"`
	Description           null.String  `json:"description"`
	PrixHT                null.Float64 `json:"prixHT"`
	Fournisseur           null.String  `json:"fournisseur"`
	Facture               null.String  `json:"facture"`
	Operationnel          null.Bool    `json:"operationnel"`
	EnReparation          null.String  `json:"enReparation"`
	Reforme               null.String  `json:"reforme"`
	Observations          null.String  `json:"observations"`
	Public                null.Bool    `json:"public"`
	PersonneAffectationID null.Uint64  `json:"personneAffectationId"`
}

// ImportReportDTO summarizes a bulk upsert. A malformed row lands in Errors
// and never aborts the rest of the batch. IgnoredColumns lists recognized
// header columns the import deliberately skips, such as the assignment
// columns an export writes.
type ImportReportDTO struct {
	Inserted       int      `json:"inserted"`
	Updated        int      `json:"updated"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors,omitempty"`
	IgnoredColumns []string `json:"ignoredColumns,omitempty"`
}
