package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// RegistrationStore reads and writes registrations.
type RegistrationStore interface {
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	Save(ctx context.Context, reg *model.Registration) error
}

// SubscriptionRequestSink receives derived subscription requests. Create
// reports false when an identical request already exists.
type SubscriptionRequestSink interface {
	Create(ctx context.Context, req *model.SubscriptionRequest) (bool, error)
}

// SubscriptionRequestStore is the sink plus the reads and corrections the
// schedule verifier needs.
type SubscriptionRequestStore interface {
	SubscriptionRequestSink
	ListByRegistration(ctx context.Context, registrationID string) ([]model.SubscriptionRequest, error)
	UpdateNextSequenceNumber(ctx context.Context, id string, next int) error
}

// MessageSetLookup resolves stream descriptors.
type MessageSetLookup interface {
	LookupMessageSet(ctx context.Context, shortName string) (model.MessageSet, error)
	LookupSchedule(ctx context.Context, id int) (model.Schedule, error)
}

// AddressResolver finds the default address of an identity.
type AddressResolver interface {
	LookupDefaultAddress(ctx context.Context, identity string) (string, error)
}

// MessageSender dispatches one-off messages.
type MessageSender interface {
	SendMessage(ctx context.Context, toAddr, content string, metadata map[string]any) error
}

// SubscriptionChecker reports whether an identity already has live
// subscriptions in the messaging service.
type SubscriptionChecker interface {
	HasSubscriptions(ctx context.Context, identity string) (bool, error)
}
