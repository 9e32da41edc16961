package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	apperrors "parc-info/pkg/errors"
)

// In-memory repository fakes. They reproduce the database-level guards the
// services lean on (unique keys, compare-and-set writes) without a server.

type fakeMaterielRepo struct {
	mu        sync.Mutex
	materiels []*entities.Materiel
	nextID    uint64
}

func newFakeMaterielRepo() *fakeMaterielRepo {
	return &fakeMaterielRepo{nextID: 1}
}

func (r *fakeMaterielRepo) add(m entities.Materiel) *entities.Materiel {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	m.Disponibilite = m.PersonneAffectationID == nil
	stored := m
	r.materiels = append(r.materiels, &stored)
	return &stored
}

func (r *fakeMaterielRepo) byID(id uint64) *entities.Materiel {
	for _, m := range r.materiels {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *fakeMaterielRepo) bySN(sn string) *entities.Materiel {
	for _, m := range r.materiels {
		if m.SN == sn {
			return m
		}
	}
	return nil
}

func (r *fakeMaterielRepo) CreateMateriel(_ context.Context, materiel *entities.Materiel) (*entities.Materiel, error) {
	r.mu.Lock()
	for _, m := range r.materiels {
		if m.SN == materiel.SN {
			r.mu.Unlock()
			return nil, apperrors.NewDuplicateKeyError("a materiel with this SN already exists", nil)
		}
		if m.Code == materiel.Code {
			r.mu.Unlock()
			return nil, apperrors.NewDuplicateKeyError("a materiel with this inventory code already exists", nil)
		}
	}
	r.mu.Unlock()
	return r.add(*materiel), nil
}

func (r *fakeMaterielRepo) GetMateriels(_ context.Context) ([]entities.Materiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Materiel, 0, len(r.materiels))
	for _, m := range r.materiels {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMaterielRepo) GetMaterielsSansAffectation(_ context.Context) ([]entities.Materiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Materiel, 0)
	for _, m := range r.materiels {
		if m.PersonneAffectationID == nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaterielRepo) FindMaterielBySN(_ context.Context, sn string) (*entities.Materiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.bySN(sn); m != nil {
		copied := *m
		return &copied, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeMaterielRepo) UpdateMateriel(_ context.Context, sn string, changes map[string]interface{}) (*entities.Materiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.bySN(sn)
	if m == nil {
		return nil, apperrors.ErrNotFound
	}
	for column, value := range changes {
		switch column {
		case "code":
			m.Code = value.(string)
		case "date_mise_en_service":
			m.DateMiseEnService = value.(time.Time)
		case "designation":
			m.Designation = value.(string)
		case "description":
			m.Description = value.(string)
		case "prix_ht":
			m.PrixHT = value.(*float64)
		case "fournisseur":
			m.Fournisseur = value.(string)
		case "facture":
			m.Facture = value.(string)
		case "operationnel":
			m.Operationnel = value.(bool)
		case "en_reparation":
			m.EnReparation = value.(string)
		case "reforme":
			m.Reforme = value.(string)
		case "observations":
			m.Observations = value.(string)
		case "public":
			m.Public = value.(bool)
		case "personne_affectation_id":
			if value == nil {
				m.PersonneAffectationID = nil
			} else {
				id := value.(uint64)
				m.PersonneAffectationID = &id
			}
		case "disponibilite":
			m.Disponibilite = value.(bool)
		}
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMaterielRepo) DeleteMateriel(_ context.Context, sn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.materiels {
		if m.SN == sn {
			r.materiels = append(r.materiels[:i], r.materiels[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeMaterielRepo) UpsertMateriel(_ context.Context, materiel *entities.Materiel) (bool, error) {
	r.mu.Lock()
	existing := r.bySN(materiel.SN)
	if existing == nil {
		r.mu.Unlock()
		r.add(*materiel)
		return true, nil
	}
	existing.Code = materiel.Code
	existing.DateMiseEnService = materiel.DateMiseEnService
	existing.Designation = materiel.Designation
	existing.Description = materiel.Description
	if materiel.PrixHT != nil {
		existing.PrixHT = materiel.PrixHT
	}
	existing.Fournisseur = materiel.Fournisseur
	existing.Facture = materiel.Facture
	existing.Operationnel = materiel.Operationnel
	existing.EnReparation = materiel.EnReparation
	existing.Reforme = materiel.Reforme
	existing.Observations = materiel.Observations
	existing.Public = materiel.Public
	r.mu.Unlock()
	return false, nil
}

func (r *fakeMaterielRepo) FindUnassignedByDescription(_ context.Context, designation, description string) (*entities.Materiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.materiels {
		if m.Designation == designation && m.Description == description && m.PersonneAffectationID == nil {
			copied := *m
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeMaterielRepo) AssignInTx(_ context.Context, _ pgx.Tx, materielID, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byID(materielID)
	if m == nil || m.PersonneAffectationID != nil {
		return apperrors.ErrMaterielConflict
	}
	m.PersonneAffectationID = &userID
	m.Disponibilite = false
	return nil
}

func (r *fakeMaterielRepo) ReleaseInTx(_ context.Context, _ pgx.Tx, materielID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byID(materielID)
	if m == nil {
		return apperrors.ErrNotFound
	}
	m.PersonneAffectationID = nil
	m.Disponibilite = true
	return nil
}

func (r *fakeMaterielRepo) ReleaseByUserInTx(_ context.Context, _ pgx.Tx, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.materiels {
		if m.PersonneAffectationID != nil && *m.PersonneAffectationID == userID {
			m.PersonneAffectationID = nil
			m.Disponibilite = true
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  []*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, apperrors.NewDuplicateKeyError("a user with this email already exists", nil)
		}
		if u.Name == user.Name {
			return nil, apperrors.NewDuplicateKeyError("a user with this name already exists", nil)
		}
	}
	created := *user
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.nextID++
	r.users = append(r.users, &created)
	copied := created
	return &copied, nil
}

func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) DeleteUserInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeDemandeRepo struct {
	mu       sync.Mutex
	demandes []*entities.Demande
	nextID   uint64
}

func newFakeDemandeRepo() *fakeDemandeRepo {
	return &fakeDemandeRepo{nextID: 1}
}

func (r *fakeDemandeRepo) CreateDemande(_ context.Context, demande *entities.Demande) (*entities.Demande, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *demande
	created.ID = r.nextID
	created.Status = "En attente"
	created.CreatedAt = time.Now()
	r.nextID++
	r.demandes = append(r.demandes, &created)
	copied := created
	return &copied, nil
}

func (r *fakeDemandeRepo) GetDemandesByUser(_ context.Context, userID uint64) ([]entities.Demande, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Demande, 0)
	for _, d := range r.demandes {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDemandeRepo) GetPendingDemandesEnriched(_ context.Context) ([]dto.EnrichedDemandeDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.EnrichedDemandeDTO, 0)
	for _, d := range r.demandes {
		if d.Status == "En attente" {
			out = append(out, dto.NewEnrichedDemandeDTO(*d, "Non", "Non"))
		}
	}
	return out, nil
}

func (r *fakeDemandeRepo) GetAcceptedDemandes(_ context.Context) ([]entities.Demande, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Demande, 0)
	for _, d := range r.demandes {
		if d.Status == "Acceptée" {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDemandeRepo) byID(id uint64) *entities.Demande {
	for _, d := range r.demandes {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (r *fakeDemandeRepo) FindDemandeForUpdateInTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.Demande, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d := r.byID(id); d != nil {
		copied := *d
		return &copied, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeDemandeRepo) DecideInTx(_ context.Context, _ pgx.Tx, id uint64, status string) (*entities.Demande, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.byID(id)
	if d == nil || d.Status != "En attente" {
		return nil, apperrors.ErrInvalidTransition
	}
	now := time.Now()
	d.Status = status
	d.DecidedAt = &now
	copied := *d
	return &copied, nil
}

func (r *fakeDemandeRepo) DeleteDemandeInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.demandes {
		if d.ID == id {
			r.demandes = append(r.demandes[:i], r.demandes[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeCache struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{counters: make(map[string]int64)}
}

func (c *fakeCache) GetCounter(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *fakeCache) IncrementWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counters, key)
	return nil
}

// fakeTxManager runs the callback without a real transaction; the fakes
// apply their writes immediately.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
