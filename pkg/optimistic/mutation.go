package optimistic

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrMutationPending is returned by Start while the key already has an
	// unresolved mutation.
	ErrMutationPending = errors.New("optimistic: mutation already pending")
	// ErrNotPending is returned when resolving a mutation twice
	ErrNotPending = errors.New("optimistic: mutation is not pending")
)

// State of a single mutation
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// RollbackFunc is told about every rolled back mutation, typically to show a
// short notice to the user.
type RollbackFunc func(key string, err error)

// Mutator runs optimistic mutations against a Cache. Mutations on distinct
// keys are independent; a key holds at most one pending mutation.
type Mutator[V any] struct {
	cache      *Cache[V]
	onRollback RollbackFunc

	mu      sync.Mutex
	pending map[string]*Mutation[V]
}

// Option configures a Mutator
type Option[V any] func(*Mutator[V])

// OnRollback registers the rollback notifier
func OnRollback[V any](fn RollbackFunc) Option[V] {
	return func(m *Mutator[V]) {
		m.onRollback = fn
	}
}

// NewMutator creates a mutator over cache
func NewMutator[V any](cache *Cache[V], opts ...Option[V]) *Mutator[V] {
	m := &Mutator[V]{
		cache:   cache,
		pending: make(map[string]*Mutation[V]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mutation is one speculative write awaiting the server's verdict
type Mutation[V any] struct {
	m           *Mutator[V]
	key         string
	prior       V
	hadPrior    bool
	speculative V
	state       State
}

// Start suspends background refreshes of key, captures the current value
// and writes the speculative value derived from it.
func (m *Mutator[V]) Start(key string, speculate func(prior V) V) (*Mutation[V], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.pending[key]; busy {
		return nil, ErrMutationPending
	}

	m.cache.Suspend(key)
	prior, ok := m.cache.Get(key)
	mut := &Mutation[V]{
		m:           m,
		key:         key,
		prior:       prior,
		hadPrior:    ok,
		speculative: speculate(prior),
		state:       Pending,
	}
	m.cache.Set(key, mut.speculative)
	m.pending[key] = mut
	return mut, nil
}

// Pending reports whether key has an unresolved mutation. UIs disable the
// control while this is true.
func (m *Mutator[V]) Pending(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[key]
	return ok
}

// Do runs a whole mutation: speculate, call the server, then commit or roll
// back depending on the call's error.
func (m *Mutator[V]) Do(ctx context.Context, key string, speculate func(prior V) V, call func(ctx context.Context, speculative V) error) (V, error) {
	mut, err := m.Start(key, speculate)
	if err != nil {
		var zero V
		return zero, err
	}

	if err := call(ctx, mut.Speculative()); err != nil {
		_ = mut.Rollback(err)
		return mut.Prior(), err
	}
	_ = mut.Commit()
	return mut.Speculative(), nil
}

// Key returns the cache key being mutated
func (mut *Mutation[V]) Key() string { return mut.key }

// Prior returns the value captured before the speculative write
func (mut *Mutation[V]) Prior() V { return mut.prior }

// Speculative returns the optimistically written value
func (mut *Mutation[V]) Speculative() V { return mut.speculative }

// State returns the mutation's current state
func (mut *Mutation[V]) State() State {
	mut.m.mu.Lock()
	defer mut.m.mu.Unlock()
	return mut.state
}

// Commit keeps the speculative value
func (mut *Mutation[V]) Commit() error {
	return mut.resolve(Committed, nil)
}

// CommitWith replaces the speculative value with the server's answer
func (mut *Mutation[V]) CommitWith(confirmed V) error {
	return mut.resolve(Committed, &confirmed)
}

// Rollback restores the prior value and fires the rollback notifier
func (mut *Mutation[V]) Rollback(cause error) error {
	if err := mut.resolve(RolledBack, nil); err != nil {
		return err
	}
	if mut.m.onRollback != nil {
		mut.m.onRollback(mut.key, cause)
	}
	return nil
}

func (mut *Mutation[V]) resolve(to State, confirmed *V) error {
	m := mut.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if mut.state != Pending {
		return ErrNotPending
	}
	mut.state = to

	switch {
	case to == RolledBack && mut.hadPrior:
		m.cache.Set(mut.key, mut.prior)
	case to == RolledBack:
		m.cache.Delete(mut.key)
	case confirmed != nil:
		m.cache.Set(mut.key, *confirmed)
	}

	delete(m.pending, mut.key)
	m.cache.Resume(mut.key)
	return nil
}
