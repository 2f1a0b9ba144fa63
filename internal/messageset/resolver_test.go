package messageset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

type fakeLookup struct {
	sets      map[string]model.MessageSet
	schedules map[int]model.Schedule
	setCalls  atomic.Int32
	schCalls  atomic.Int32
	failSets  error
}

var errNoSuchSet = errors.New("no such message set")

func (f *fakeLookup) LookupMessageSet(_ context.Context, shortName string) (model.MessageSet, error) {
	f.setCalls.Add(1)
	if f.failSets != nil {
		return model.MessageSet{}, f.failSets
	}
	ms, ok := f.sets[shortName]
	if !ok {
		return model.MessageSet{}, errNoSuchSet
	}
	return ms, nil
}

func (f *fakeLookup) LookupSchedule(_ context.Context, id int) (model.Schedule, error) {
	f.schCalls.Add(1)
	return f.schedules[id], nil
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		sets: map[string]model.MessageSet{
			"prebirth.mother.text.10_42":              {ID: 1, ShortName: "prebirth.mother.text.10_42", DefaultSchedule: 1},
			"prebirth.mother.audio.10_42.tue_thu.9_11": {ID: 2, ShortName: "prebirth.mother.audio.10_42.tue_thu.9_11", DefaultSchedule: 2},
			"prebirth.household.audio.10_42.fri.9_11":  {ID: 3, ShortName: "prebirth.household.audio.10_42.fri.9_11", DefaultSchedule: 3},
		},
		schedules: map[int]model.Schedule{
			1: {ID: 1, DaysOfWeek: []int{1, 3, 5}},
			2: {ID: 2, DaysOfWeek: []int{2, 4}},
			3: {ID: 3, DaysOfWeek: []int{5}},
		},
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(newFakeLookup())

	mother, err := r.Resolve(ctx, NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "text", Weeks: 15})
	require.NoError(t, err)
	assert.Equal(t, 1, mother.MessageSet.ID)
	assert.Equal(t, 1, mother.Schedule.ID)
	assert.Equal(t, 15, mother.NextSequenceNumber)

	audio, err := r.Resolve(ctx, NameParams{Stage: model.StagePrebirth, Recipient: RecipientMother, MsgType: "audio",
		Weeks: 15, VoiceDays: "tue_thu", VoiceTimes: "9_11"})
	require.NoError(t, err)
	assert.Equal(t, 10, audio.NextSequenceNumber)

	household, err := r.Resolve(ctx, NameParams{Stage: model.StagePrebirth, Recipient: RecipientHousehold, Weeks: 15})
	require.NoError(t, err)
	assert.Equal(t, "prebirth.household.audio.10_42.fri.9_11", household.ShortName)
	assert.Equal(t, 5, household.NextSequenceNumber)
}

func TestResolveUnknownMessageSet(t *testing.T) {
	r := NewResolver(newFakeLookup())
	_, err := r.Resolve(context.Background(), NameParams{Stage: model.StagePostbirth, Recipient: RecipientMother, MsgType: "text", Weeks: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSuchSet)
	assert.Contains(t, err.Error(), "postbirth.mother.text.0_12")
}

func TestMemoize(t *testing.T) {
	ctx := context.Background()
	f := newFakeLookup()
	m := Memoize(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.LookupMessageSet(ctx, "prebirth.mother.text.10_42")
			_, _ = m.LookupSchedule(ctx, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.setCalls.Load())
	assert.Equal(t, int32(1), f.schCalls.Load())
}

func TestMemoizeDoesNotKeepErrors(t *testing.T) {
	ctx := context.Background()
	f := newFakeLookup()
	f.failSets = errors.New("unavailable")
	m := Memoize(f)

	_, err := m.LookupMessageSet(ctx, "prebirth.mother.text.10_42")
	require.Error(t, err)

	f.failSets = nil
	ms, err := m.LookupMessageSet(ctx, "prebirth.mother.text.10_42")
	require.NoError(t, err)
	assert.Equal(t, 1, ms.ID)
	assert.Equal(t, int32(2), f.setCalls.Load())
}
