package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

type registrationStore interface {
	Create(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	Save(ctx context.Context, reg *model.Registration) error
	List(ctx context.Context, f RegistrationFilter) ([]model.Registration, error)
}

type subscriptionStore interface {
	Create(ctx context.Context, req *model.SubscriptionRequest) (bool, error)
	ListByRegistration(ctx context.Context, registrationID string) ([]model.SubscriptionRequest, error)
	ListByIdentity(ctx context.Context, identity string) ([]model.SubscriptionRequest, error)
	UpdateNextSequenceNumber(ctx context.Context, id string, next int) error
}

const motherID = "mother00-9d89-4aa6-99ff-13c225365b5d"

func newRegistration(stage model.Stage, source string) *model.Registration {
	return &model.Registration{
		MotherID: motherID,
		Stage:    stage,
		Source:   model.Source{Name: source, Authority: model.AuthorityHWFull},
		Data:     model.Data{"language": "eng_NG", "msg_type": "text"},
	}
}

func runRegistrationContract(t *testing.T, store registrationStore) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		reg := newRegistration(model.StagePrebirth, "clinic")
		require.NoError(t, store.Create(ctx, reg))
		require.NotEmpty(t, reg.ID)

		got, err := store.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, reg.MotherID, got.MotherID)
		assert.Equal(t, model.StagePrebirth, got.Stage)
		assert.Equal(t, "clinic", got.Source.Name)
		assert.Equal(t, "eng_NG", got.Data["language"])
		assert.False(t, got.Validated)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and re-read", func(t *testing.T) {
		reg := newRegistration(model.StagePrebirth, "clinic")
		require.NoError(t, store.Create(ctx, reg))

		reg.Data["invalid_fields"] = "Invalid combination of fields"
		require.NoError(t, store.Save(ctx, reg))

		got, err := store.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, "Invalid combination of fields", got.Data["invalid_fields"])
		assert.False(t, got.Validated)
	})

	t.Run("validated is written once", func(t *testing.T) {
		reg := newRegistration(model.StagePrebirth, "clinic")
		require.NoError(t, store.Create(ctx, reg))

		reg.Validated = true
		require.NoError(t, store.Save(ctx, reg))
		assert.ErrorIs(t, store.Save(ctx, reg), ErrAlreadyValidated)

		reg.Validated = false
		assert.ErrorIs(t, store.Save(ctx, reg), ErrAlreadyValidated)

		got, err := store.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.True(t, got.Validated)
	})

	t.Run("save unknown registration", func(t *testing.T) {
		reg := newRegistration(model.StagePrebirth, "clinic")
		reg.ID = uuid.New().String()
		assert.ErrorIs(t, store.Save(ctx, reg), ErrNotFound)
	})

	t.Run("list filters", func(t *testing.T) {
		loss := newRegistration(model.StageLoss, "ussd-filter")
		loss.MotherID = "filter00-9d89-4aa6-99ff-13c225365b5d"
		require.NoError(t, store.Create(ctx, loss))

		all, err := store.List(ctx, RegistrationFilter{MotherID: loss.MotherID})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, loss.ID, all[0].ID)

		byStage, err := store.List(ctx, RegistrationFilter{Stage: model.StageLoss, Source: "ussd-filter"})
		require.NoError(t, err)
		assert.Len(t, byStage, 1)

		validated := true
		none, err := store.List(ctx, RegistrationFilter{MotherID: loss.MotherID, Validated: &validated})
		require.NoError(t, err)
		assert.Empty(t, none)

		future := time.Now().Add(time.Hour)
		none, err = store.List(ctx, RegistrationFilter{MotherID: loss.MotherID, CreatedAfter: &future})
		require.NoError(t, err)
		assert.Empty(t, none)

		some, err := store.List(ctx, RegistrationFilter{MotherID: loss.MotherID, CreatedBefore: &future})
		require.NoError(t, err)
		assert.Len(t, some, 1)
	})
}

func runSubscriptionContract(t *testing.T, regs registrationStore, store subscriptionStore) {
	ctx := context.Background()

	reg := newRegistration(model.StagePrebirth, "clinic")
	require.NoError(t, regs.Create(ctx, reg))

	req := &model.SubscriptionRequest{
		RegistrationID:     reg.ID,
		Identity:           motherID,
		MessageSet:         1,
		NextSequenceNumber: 15,
		Lang:               "eng_NG",
		Schedule:           1,
	}

	created, err := store.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotEmpty(t, req.ID)

	dup := *req
	dup.ID = ""
	created, err = store.Create(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)

	household := &model.SubscriptionRequest{
		RegistrationID:     reg.ID,
		Identity:           "friend00-73a2-4d89-b045-d52004c025fe",
		MessageSet:         3,
		NextSequenceNumber: 5,
		Lang:               "eng_NG",
		Schedule:           3,
		Metadata:           map[string]any{model.MetadataPrependNextDelivery: "http://example.org/welcome.mp3"},
	}
	created, err = store.Create(ctx, household)
	require.NoError(t, err)
	assert.True(t, created)

	list, err := store.ListByRegistration(ctx, reg.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 15, list[0].NextSequenceNumber)
	assert.Equal(t, "http://example.org/welcome.mp3", list[1].Metadata[model.MetadataPrependNextDelivery])

	byIdentity, err := store.ListByIdentity(ctx, household.Identity)
	require.NoError(t, err)
	require.Len(t, byIdentity, 1)

	require.NoError(t, store.UpdateNextSequenceNumber(ctx, req.ID, 20))
	list, err = store.ListByRegistration(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, list[0].NextSequenceNumber)

	assert.ErrorIs(t, store.UpdateNextSequenceNumber(ctx, uuid.New().String(), 1), ErrNotFound)
}
