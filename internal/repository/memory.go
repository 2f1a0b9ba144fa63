package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// MemoryRegistrations is an in-process RegistrationRepository.
type MemoryRegistrations struct {
	mu   sync.RWMutex
	regs map[string]model.Registration
}

// NewMemoryRegistrations returns an empty in-memory registration store.
func NewMemoryRegistrations() *MemoryRegistrations {
	return &MemoryRegistrations{regs: make(map[string]model.Registration)}
}

// Create stores reg, assigning its ID and timestamps.
func (m *MemoryRegistrations) Create(_ context.Context, reg *model.Registration) error {
	prepareRegistration(reg)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[reg.ID] = copyRegistration(*reg)
	return nil
}

// GetByID returns a copy of the registration with the given id.
func (m *MemoryRegistrations) GetByID(_ context.Context, id string) (*model.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reg, ok := m.regs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyRegistration(reg)
	return &out, nil
}

// Save writes reg.Data and reg.Validated. It returns ErrAlreadyValidated
// when the stored registration is already validated.
func (m *MemoryRegistrations) Save(_ context.Context, reg *model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.regs[reg.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Validated {
		return ErrAlreadyValidated
	}
	reg.UpdatedAt = time.Now().UTC()
	stored.Data = reg.Data.Clone()
	stored.Validated = reg.Validated
	stored.UpdatedAt = reg.UpdatedAt
	m.regs[reg.ID] = stored
	return nil
}

// List returns the registrations matching f, newest first.
func (m *MemoryRegistrations) List(_ context.Context, f RegistrationFilter) ([]model.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Registration
	for _, reg := range m.regs {
		if f.Matches(&reg) {
			out = append(out, copyRegistration(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyRegistration(reg model.Registration) model.Registration {
	reg.Data = reg.Data.Clone()
	return reg
}

// MemorySubscriptionRequests is an in-process SubscriptionRequestRepository.
type MemorySubscriptionRequests struct {
	mu   sync.RWMutex
	reqs []model.SubscriptionRequest
}

// NewMemorySubscriptionRequests returns an empty in-memory request store.
func NewMemorySubscriptionRequests() *MemorySubscriptionRequests {
	return &MemorySubscriptionRequests{}
}

// Create stores req unless a request for the same registration, identity
// and message set exists; it reports whether req was stored.
func (m *MemorySubscriptionRequests) Create(_ context.Context, req *model.SubscriptionRequest) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reqs {
		if existing.RegistrationID == req.RegistrationID &&
			existing.Identity == req.Identity &&
			existing.MessageSet == req.MessageSet {
			return false, nil
		}
	}
	prepareSubscriptionRequest(req)
	m.reqs = append(m.reqs, copyRequest(*req))
	return true, nil
}

// ListByRegistration returns the requests derived from a registration.
func (m *MemorySubscriptionRequests) ListByRegistration(_ context.Context, registrationID string) ([]model.SubscriptionRequest, error) {
	return m.filter(func(r model.SubscriptionRequest) bool { return r.RegistrationID == registrationID }), nil
}

// ListByIdentity returns the requests addressed to identity.
func (m *MemorySubscriptionRequests) ListByIdentity(_ context.Context, identity string) ([]model.SubscriptionRequest, error) {
	return m.filter(func(r model.SubscriptionRequest) bool { return r.Identity == identity }), nil
}

// UpdateNextSequenceNumber rewrites the starting position of request id.
func (m *MemorySubscriptionRequests) UpdateNextSequenceNumber(_ context.Context, id string, next int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reqs {
		if m.reqs[i].ID == id {
			m.reqs[i].NextSequenceNumber = next
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemorySubscriptionRequests) filter(keep func(model.SubscriptionRequest) bool) []model.SubscriptionRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.SubscriptionRequest
	for _, r := range m.reqs {
		if keep(r) {
			out = append(out, copyRequest(r))
		}
	}
	return out
}

func copyRequest(r model.SubscriptionRequest) model.SubscriptionRequest {
	meta := make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		meta[k] = v
	}
	r.Metadata = meta
	return r
}

