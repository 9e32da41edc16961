package dto

import (
	"time"

	"parc-info/internal/entities"
)

type CreateDemandeDTO struct {
	TypeStock   string `json:"typeStock" validate:"required,typestock"`
	Designation string `json:"designation" validate:"required"`
	Description string `json:"description" validate:"required"`
	Commentaire string `json:"commentaire" validate:"required"`
}

type DecideDemandeDTO struct {
	Status string `json:"status" validate:"required,decision"`
}

// EnrichedDemandeDTO is the admin view of a pending demande, annotated with
// the matched materiel's flags. Orphaned demandes (materiel deleted) render
// the neutral "Non" the frontend expects instead of failing.
type EnrichedDemandeDTO struct {
	ID          uint64     `json:"id"`
	TypeStock   string     `json:"typeStock"`
	Designation string     `json:"designation"`
	Description string     `json:"description"`
	Commentaire string     `json:"commentaire"`
	UserID      uint64     `json:"userId"`
	UserName    string     `json:"userName"`
	MaterielID  *uint64    `json:"materielId"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	Public      string     `json:"public"`
	Disponible  string     `json:"disponible"`
}

func NewEnrichedDemandeDTO(d entities.Demande, public, disponible string) EnrichedDemandeDTO {
	return EnrichedDemandeDTO{
		ID:          d.ID,
		TypeStock:   d.TypeStock,
		Designation: d.Designation,
		Description: d.Description,
		Commentaire: d.Commentaire,
		UserID:      d.UserID,
		UserName:    d.UserName,
		MaterielID:  d.MaterielID,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		DecidedAt:   d.DecidedAt,
		Public:      public,
		Disponible:  disponible,
	}
}
