// Package repository implements persistence for registrations and the
// subscription requests derived from them.
// It uses pgx directly (no ORM); memory.go holds equivalent in-process stores.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyValidated is returned when saving over a registration that is
// already validated.
var ErrAlreadyValidated = errors.New("registration already validated")

// RegistrationFilter narrows a registration listing. Zero fields match all.
type RegistrationFilter struct {
	MotherID      string
	Stage         model.Stage
	Validated     *bool
	Source        string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Matches reports whether reg satisfies every set criterion.
func (f RegistrationFilter) Matches(reg *model.Registration) bool {
	switch {
	case f.MotherID != "" && reg.MotherID != f.MotherID:
		return false
	case f.Stage != "" && reg.Stage != f.Stage:
		return false
	case f.Validated != nil && reg.Validated != *f.Validated:
		return false
	case f.Source != "" && reg.Source.Name != f.Source:
		return false
	case f.CreatedAfter != nil && reg.CreatedAt.Before(*f.CreatedAfter):
		return false
	case f.CreatedBefore != nil && reg.CreatedAt.After(*f.CreatedBefore):
		return false
	}
	return true
}

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, mother_id, stage, source_name, source_authority, data, validated, created_at, updated_at`

// Create inserts a new registration, assigning its id and timestamps.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	prepareRegistration(reg)
	data, err := json.Marshal(reg.Data)
	if err != nil {
		return fmt.Errorf("encode registration data: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO registrations (`+registrationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reg.ID, reg.MotherID, reg.Stage, reg.Source.Name, reg.Source.Authority,
		data, reg.Validated, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// GetByID returns a single registration or ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// Save writes the registration's data and validated flag. A registration
// that is already validated is never written again, so the flag cannot be
// reverted and two concurrent runs cannot both complete it.
func (r *RegistrationRepository) Save(ctx context.Context, reg *model.Registration) error {
	data, err := json.Marshal(reg.Data)
	if err != nil {
		return fmt.Errorf("encode registration data: %w", err)
	}
	reg.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx,
		`UPDATE registrations SET data = $2, validated = $3, updated_at = $4
		 WHERE id = $1 AND validated = FALSE`,
		reg.ID, data, reg.Validated, reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(ctx, `SELECT TRUE FROM registrations WHERE id = $1`, reg.ID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	return ErrAlreadyValidated
}

// List returns registrations matching f, newest first.
func (r *RegistrationRepository) List(ctx context.Context, f RegistrationFilter) ([]model.Registration, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.MotherID != "" {
		add("mother_id = $%d", f.MotherID)
	}
	if f.Stage != "" {
		add("stage = $%d", f.Stage)
	}
	if f.Validated != nil {
		add("validated = $%d", *f.Validated)
	}
	if f.Source != "" {
		add("source_name = $%d", f.Source)
	}
	if f.CreatedAfter != nil {
		add("created_at >= $%d", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		add("created_at <= $%d", *f.CreatedBefore)
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var (
		reg  model.Registration
		data []byte
	)
	err := row.Scan(&reg.ID, &reg.MotherID, &reg.Stage, &reg.Source.Name, &reg.Source.Authority,
		&data, &reg.Validated, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &reg.Data); err != nil {
		return nil, fmt.Errorf("decode registration data: %w", err)
	}
	if reg.Data == nil {
		reg.Data = model.Data{}
	}
	return &reg, nil
}

func prepareRegistration(reg *model.Registration) {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.Data == nil {
		reg.Data = model.Data{}
	}
	now := time.Now().UTC()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = now
	}
	reg.UpdatedAt = now
}
