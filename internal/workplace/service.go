package workplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
)

// StateStore persists the whole workplace state as one opaque blob under a
// fixed key. Load returns nil data when nothing has been saved yet.
type StateStore interface {
	LoadState(ctx context.Context) ([]byte, error)
	SaveState(ctx context.Context, data []byte) error
}

// Observer receives an immutable snapshot after every successful persist.
// Used to sync per-company folders and reschedule shift activation; never
// called before the store write succeeds.
type Observer func(types.WorkplaceState)

// Service owns the authoritative in-memory WorkplaceState. Every command the
// agent toolbelt exposes resolves to one method here: validate references,
// mutate the entity graph, sanitize, persist the whole blob, notify the
// observer, and hand back a deep-cloned snapshot.
//
// There is exactly one logical writer. The mutex only guards against
// accidental interleaving from the HTTP surface; there is no transaction
// machinery beyond "restore the previous state if anything fails".
type Service struct {
	mu       sync.Mutex
	store    StateStore
	state    types.WorkplaceState
	observer Observer
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithObserver installs the post-persist snapshot observer.
func WithObserver(fn Observer) Option {
	return func(s *Service) { s.observer = fn }
}

// WithClock overrides the time source (tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.clock = fn }
}

// NewService loads the persisted state (starting fresh when absent),
// sanitizes it, and persists immediately if the repair changed anything.
func NewService(ctx context.Context, store StateStore, opts ...Option) (*Service, error) {
	s := &Service{
		store: store,
		state: types.WorkplaceState{Companies: []types.Company{}},
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workplace state: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("decode workplace state: %w", err)
		}
	}

	if SanitizeState(&s.state, s.clock()) {
		logging.Infof("workplace: repaired persisted state on load")
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// GetState returns a deep clone of the current state. Safe to retain.
func (s *Service) GetState() types.WorkplaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// mutate runs fn against the live state under the lock. On any error the
// previous state is restored wholesale, so a failed call never leaves a
// partial write behind. fn returning errNoChange resolves the call with the
// current snapshot without persisting or notifying.
func (s *Service) mutate(ctx context.Context, fn func(st *types.WorkplaceState, now time.Time) error) (types.WorkplaceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	prev := cloneState(s.state)

	if err := fn(&s.state, now); err != nil {
		s.state = prev
		if errors.Is(err, errNoChange) {
			return cloneState(s.state), nil
		}
		return types.WorkplaceState{}, err
	}

	SanitizeState(&s.state, now)

	if err := s.persist(ctx); err != nil {
		s.state = prev
		return types.WorkplaceState{}, err
	}

	snapshot := cloneState(s.state)
	if s.observer != nil {
		s.observer(cloneState(s.state))
	}
	return snapshot, nil
}

func (s *Service) persist(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode workplace state: %w", err)
	}
	if err := s.store.SaveState(ctx, data); err != nil {
		return fmt.Errorf("save workplace state: %w", err)
	}
	return nil
}

// company resolves a company id or fails with ErrNotFound.
func company(st *types.WorkplaceState, id string) (*types.Company, error) {
	c := findCompany(st, id)
	if c == nil {
		return nil, fmt.Errorf("company %q: %w", id, ErrNotFound)
	}
	return c, nil
}
