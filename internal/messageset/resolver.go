package messageset

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/praekeltfoundation/hellomama-registration/internal/model"
)

// Lookup fetches remote message set and schedule descriptors.
type Lookup interface {
	LookupMessageSet(ctx context.Context, shortName string) (model.MessageSet, error)
	LookupSchedule(ctx context.Context, id int) (model.Schedule, error)
}

// Stream is a fully resolved message stream for one recipient.
type Stream struct {
	Recipient          Recipient
	ShortName          string
	MessageSet         model.MessageSet
	Schedule           model.Schedule
	NextSequenceNumber int
}

// Resolver turns name parameters into a resolved Stream.
type Resolver struct {
	lookup Lookup
}

// NewResolver returns a Resolver backed by lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve names the stream, fetches its message set then its default
// schedule, and computes the starting sequence number.
func (r *Resolver) Resolve(ctx context.Context, p NameParams) (Stream, error) {
	name, err := ShortName(p)
	if err != nil {
		return Stream{}, err
	}
	weekRange, err := WeekRange(p.Stage, p.Weeks)
	if err != nil {
		return Stream{}, err
	}

	ms, err := r.lookup.LookupMessageSet(ctx, name)
	if err != nil {
		return Stream{}, fmt.Errorf("lookup message set %s: %w", name, err)
	}
	sched, err := r.lookup.LookupSchedule(ctx, ms.DefaultSchedule)
	if err != nil {
		return Stream{}, fmt.Errorf("lookup schedule %d for %s: %w", ms.DefaultSchedule, name, err)
	}

	return Stream{
		Recipient:          p.Recipient,
		ShortName:          name,
		MessageSet:         ms,
		Schedule:           sched,
		NextSequenceNumber: NextSequenceNumber(p.Stage, weekRange, p.Weeks, sched.Cadence()),
	}, nil
}

// Memoize wraps lookup so each descriptor is fetched at most once. The
// returned Lookup is meant to live for a single validation run. Errors are
// not memoized.
func Memoize(lookup Lookup) Lookup {
	return &memo{next: lookup, entries: make(map[string]*memoEntry)}
}

type memoEntry struct {
	once sync.Once
	ms   model.MessageSet
	sch  model.Schedule
	err  error
}

type memo struct {
	next    Lookup
	mu      sync.Mutex
	entries map[string]*memoEntry
}

func (m *memo) entry(key string) *memoEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &memoEntry{}
		m.entries[key] = e
	}
	return e
}

func (m *memo) forget(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *memo) LookupMessageSet(ctx context.Context, shortName string) (model.MessageSet, error) {
	key := "ms:" + shortName
	e := m.entry(key)
	e.once.Do(func() {
		e.ms, e.err = m.next.LookupMessageSet(ctx, shortName)
	})
	if e.err != nil {
		m.forget(key)
	}
	return e.ms, e.err
}

func (m *memo) LookupSchedule(ctx context.Context, id int) (model.Schedule, error) {
	key := "sch:" + strconv.Itoa(id)
	e := m.entry(key)
	e.once.Do(func() {
		e.sch, e.err = m.next.LookupSchedule(ctx, id)
	})
	if e.err != nil {
		m.forget(key)
	}
	return e.sch, e.err
}
