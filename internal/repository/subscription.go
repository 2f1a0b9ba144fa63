package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// SubscriptionRequestRepository handles persistence for subscription requests.
type SubscriptionRequestRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRequestRepository constructs a SubscriptionRequestRepository.
func NewSubscriptionRequestRepository(db *pgxpool.Pool) *SubscriptionRequestRepository {
	return &SubscriptionRequestRepository{db: db}
}

const subscriptionColumns = `id, registration_id, identity, messageset, next_sequence_number, lang, schedule, metadata, created_at`

// Create appends a subscription request. A request for the same
// registration, identity and message set is written at most once; created
// is false when one already existed.
func (r *SubscriptionRequestRepository) Create(ctx context.Context, req *model.SubscriptionRequest) (bool, error) {
	prepareSubscriptionRequest(req)
	meta, err := json.Marshal(req.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode subscription metadata: %w", err)
	}

	var id string
	err = r.db.QueryRow(ctx,
		`INSERT INTO subscription_requests (`+subscriptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (registration_id, identity, messageset) DO NOTHING
		 RETURNING id`,
		req.ID, req.RegistrationID, req.Identity, req.MessageSet, req.NextSequenceNumber,
		req.Lang, req.Schedule, meta, req.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert subscription request: %w", err)
	}
	return true, nil
}

// ListByRegistration returns the requests derived from one registration in
// creation order.
func (r *SubscriptionRequestRepository) ListByRegistration(ctx context.Context, registrationID string) ([]model.SubscriptionRequest, error) {
	if _, err := uuid.Parse(registrationID); err != nil {
		return nil, nil
	}
	return r.list(ctx, `WHERE registration_id = $1`, registrationID)
}

// ListByIdentity returns every request addressed to identity.
func (r *SubscriptionRequestRepository) ListByIdentity(ctx context.Context, identity string) ([]model.SubscriptionRequest, error) {
	return r.list(ctx, `WHERE identity = $1`, identity)
}

// UpdateNextSequenceNumber corrects the starting position of one request.
func (r *SubscriptionRequestRepository) UpdateNextSequenceNumber(ctx context.Context, id string, next int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE subscription_requests SET next_sequence_number = $2 WHERE id = $1`, id, next)
	if err != nil {
		return fmt.Errorf("update next_sequence_number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubscriptionRequestRepository) list(ctx context.Context, where string, args ...any) ([]model.SubscriptionRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscription_requests `+where+` ORDER BY seq ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscription requests: %w", err)
	}
	defer rows.Close()

	var out []model.SubscriptionRequest
	for rows.Next() {
		var (
			req  model.SubscriptionRequest
			meta []byte
		)
		if err := rows.Scan(&req.ID, &req.RegistrationID, &req.Identity, &req.MessageSet,
			&req.NextSequenceNumber, &req.Lang, &req.Schedule, &meta, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription request: %w", err)
		}
		if err := json.Unmarshal(meta, &req.Metadata); err != nil {
			return nil, fmt.Errorf("decode subscription metadata: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func prepareSubscriptionRequest(req *model.SubscriptionRequest) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Metadata == nil {
		req.Metadata = map[string]any{}
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
}
