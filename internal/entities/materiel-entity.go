package entities

import "time"

// Materiel is a serial-numbered physical IT asset.
// Invariant maintained by every repository mutation:
// Disponibilite == (PersonneAffectationID == nil).
type Materiel struct {
	ID                    uint64    `json:"id" db:"id"`
	SN                    string    `json:"sn" db:"sn"`
	Code                  string    `json:"code" db:"code"`
	DateMiseEnService     time.Time `json:"dateMiseEnService" db:"date_mise_en_service"`
	Designation           string    `json:"designation" db:"designation"`
	Description           string    `json:"description" db:"description"`
	PrixHT                *float64  `json:"prixHT,omitempty" db:"prix_ht"`
	Fournisseur           string    `json:"fournisseur" db:"fournisseur"`
	Facture               string    `json:"facture" db:"facture"`
	Operationnel          bool      `json:"operationnel" db:"operationnel"`
	EnReparation          string    `json:"enReparation" db:"en_reparation"`
	Reforme               string    `json:"reforme" db:"reforme"`
	Observations          string    `json:"observations" db:"observations"`
	Public                bool      `json:"public" db:"public"`
	PersonneAffectationID *uint64   `json:"personneAffectationId" db:"personne_affectation_id"`
	PersonneAffectation   *string   `json:"personneAffectation,omitempty" db:"personne_affectation"`
	Disponibilite         bool      `json:"disponibilite" db:"disponibilite"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
}
