package dto

import "time"

type RegisterDTO struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required,role"`
	Departement string `json:"departement" validate:"required"`
	Fonction    string `json:"fonction" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the list/session representation; it never carries the hash.
type UserDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Departement string    `json:"departement"`
	Fonction    string    `json:"fonction"`
	CreatedAt   time.Time `json:"createdAt"`
}
