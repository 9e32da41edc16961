package entities

import "time"

// Demande is a user's request to be assigned an equipment designation.
// MaterielID is captured at submit time, so the link survives renames of
// the descriptive fields; it is nulled if the materiel is deleted.
type Demande struct {
	ID          uint64     `json:"id" db:"id"`
	TypeStock   string     `json:"typeStock" db:"type_stock"`
	Designation string     `json:"designation" db:"designation"`
	Description string     `json:"description" db:"description"`
	Commentaire string     `json:"commentaire" db:"commentaire"`
	UserID      uint64     `json:"userId" db:"user_id"`
	UserName    string     `json:"userName,omitempty" db:"user_name"`
	MaterielID  *uint64    `json:"materielId" db:"materiel_id"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty" db:"decided_at"`
}
