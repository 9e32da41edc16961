package entities

import "time"

type User struct {
	ID    uint64 `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`

	// Bcrypt hash. Never serialized.
	Password string `json:"-" db:"password"`

	Role        string    `json:"role" db:"role"`
	Departement string    `json:"departement" db:"departement"`
	Fonction    string    `json:"fonction" db:"fonction"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
