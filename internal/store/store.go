// Package store owns the in-memory habit state and reconciles it with the
// remote service and the local cache. All mutations run one at a time on a
// single worker goroutine in the order they were submitted.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	// ErrClosed is returned for operations submitted after Close
	ErrClosed = errors.New("store is closed")
	// ErrNotFound is returned when an edit or delete names an unknown habit
	ErrNotFound = errors.New("habit not found")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// Cache persists the habit list and progress between runs
type Cache interface {
	LoadHabits(ctx context.Context) ([]models.LocalHabit, error)
	LoadProgress(ctx context.Context) ([]models.DailyProgress, error)
	Save(ctx context.Context, habits []models.LocalHabit, progress []models.DailyProgress) error
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the time source used to resolve "today"
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the timezone used to resolve "today"
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator sets the id source for local-only habits
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

type job struct {
	ctx  context.Context
	run  func(ctx context.Context)
	done chan struct{}
}

// Store is the reconciliation layer between presentation, the remote
// gateway and the local cache.
type Store struct {
	gateway gateway.Gateway
	cache   Cache
	now     func() time.Time
	loc     *time.Location
	newID   func() string

	mu    sync.RWMutex
	state models.HabitsState

	subsMu  sync.Mutex
	subs    map[int]func(models.HabitsState)
	nextSub int

	jobs      chan job
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New creates a store and starts its worker. Call Close to stop it.
func New(gw gateway.Gateway, cache Cache, opts ...Option) *Store {
	s := &Store{
		gateway: gw,
		cache:   cache,
		now:     time.Now,
		loc:     time.Local,
		newID:   uuid.NewString,
		state:   models.HabitsState{Habits: []models.LocalHabit{}, Progress: []models.DailyProgress{}},
		subs:    make(map[int]func(models.HabitsState)),
		jobs:    make(chan job),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.worker()
	return s
}

func (s *Store) worker() {
	defer close(s.stopped)
	for {
		select {
		case j := <-s.jobs:
			j.run(j.ctx)
			close(j.done)
		case <-s.quit:
			return
		}
	}
}

// submit queues fn and waits for it to finish. Once the worker accepts the
// job it runs to completion even if ctx is cancelled afterwards.
func (s *Store) submit(ctx context.Context, fn func(ctx context.Context)) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}

	j := job{ctx: context.WithoutCancel(ctx), run: fn, done: make(chan struct{})}
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrClosed
	}
	<-j.done
	return nil
}

// Close stops the worker after any in-flight operation finishes
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.stopped
	return nil
}

// Subscribe registers fn to receive every published state. fn runs on the
// worker goroutine and must not call mutating Store methods.
func (s *Store) Subscribe(fn func(models.HabitsState)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// State returns a deep copy of the current snapshot
func (s *Store) State() models.HabitsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// CompletedCountForDate returns how many habits were completed on date
func (s *Store) CompletedCountForDate(date string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CompletedCount(date)
}

// Today is the current calendar day in the store's timezone
func (s *Store) Today() string {
	return utils.DateString(s.now(), s.loc)
}

// Now is the current time in the store's timezone
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

// current returns the published snapshot. Snapshots are never mutated, so
// the worker may read it without copying.
func (s *Store) current() models.HabitsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) publish(next models.HabitsState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := make([]func(models.HabitsState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}
}

// persist writes both lists to the cache. Failures never roll back memory.
func (s *Store) persist(ctx context.Context, state models.HabitsState) {
	if err := s.cache.Save(ctx, state.Habits, state.Progress); err != nil {
		logger.Warn("Failed to save habits to local storage", "error", err)
	}
}

// commit publishes and persists a settled state
func (s *Store) commit(ctx context.Context, next models.HabitsState) {
	s.publish(next)
	s.persist(ctx, next)
}

// Load reads the cache, fetches the remote list and publishes the merge.
// When the remote service is unavailable the cached habits are used.
func (s *Store) Load(ctx context.Context) error {
	return s.submit(ctx, func(ctx context.Context) {
		cur := s.current()
		cur.Loading = true
		s.publish(cur)

		localHabits, err := s.cache.LoadHabits(ctx)
		if err != nil {
			logger.Warn("Failed to read cached habits, starting empty", "error", err)
			localHabits = nil
		}
		localProgress, err := s.cache.LoadProgress(ctx)
		if err != nil {
			logger.Warn("Failed to read cached progress, starting empty", "error", err)
			localProgress = nil
		}

		next := models.HabitsState{Progress: cur.Progress}
		if remote, ok := s.gateway.FetchAll(ctx); ok {
			next.Habits = Merge(localHabits, NormalizeRemote(remote))
			logger.Info("Loaded habits", "total", len(next.Habits), "remote", len(remote), "cached", len(localHabits))
		} else {
			next.Habits = dedupe(localHabits)
			logger.Warn("Remote unavailable, using cached habits", "cached", len(next.Habits))
		}
		if len(localProgress) > 0 {
			next.Progress = localProgress
		}

		s.commit(ctx, next)
	})
}

// ToggleHabit flips habitID's completion on date. An empty date means
// today. It reports whether the habit is completed afterwards. The habit
// list is not consulted and the remote service is never contacted.
func (s *Store) ToggleHabit(ctx context.Context, habitID, date string) (bool, error) {
	if date == "" {
		date = s.Today()
	} else if !utils.ValidateDate(date) {
		return false, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var completed bool
	err := s.submit(ctx, func(ctx context.Context) {
		next := s.current()
		next.Progress, completed = toggleProgress(next.Progress, habitID, date)
		s.commit(ctx, next)
	})
	return completed, err
}

// AddHabit creates a habit remotely, falling back to a local-only habit
// when the remote service is unavailable. A local-only habit with the same
// name and day is reused instead of duplicated.
func (s *Store) AddHabit(ctx context.Context, input models.NewHabit) (models.LocalHabit, error) {
	input, err := input.Validate()
	if err != nil {
		return models.LocalHabit{}, err
	}

	var result models.LocalHabit
	err = s.submit(ctx, func(ctx context.Context) {
		next := s.current()

		if created, ok := s.gateway.Create(ctx, input); ok {
			result = models.LocalHabit{Habit: created.Normalize()}
			if i := indexOfNameDay(next.Habits, input.Name, input.DayOfWeek, false); i >= 0 {
				next.Habits = replaceAt(next.Habits, i, result)
			} else {
				// Appending through replaceAt drops any stale entry sharing the server id
				next.Habits = replaceAt(append(cloneHabits(next.Habits), result), len(next.Habits), result)
			}
			s.commit(ctx, next)
			return
		}

		if i := indexOfNameDay(next.Habits, input.Name, input.DayOfWeek, true); i >= 0 {
			result = next.Habits[i]
			logger.Debug("Local habit already exists", "id", result.ID)
			return
		}

		result = models.LocalHabit{
			Habit: models.Habit{
				ID:          s.newID(),
				Name:        input.Name,
				Description: input.Description,
				DayOfWeek:   input.DayOfWeek,
				Category:    input.Category,
			},
			IsLocal: true,
		}
		next.Habits = append(cloneHabits(next.Habits), result)
		logger.Info("Created local-only habit", "id", result.ID)
		s.commit(ctx, next)
	})
	return result, err
}

// EditHabit updates a habit. Local-only habits change in place; others go
// to the remote service first and are edited locally if it is unavailable.
func (s *Store) EditHabit(ctx context.Context, id string, edit models.EditHabit) (models.LocalHabit, error) {
	edit, err := edit.Validate()
	if err != nil {
		return models.LocalHabit{}, err
	}

	var result models.LocalHabit
	var opErr error
	err = s.submit(ctx, func(ctx context.Context) {
		next := s.current()
		i := indexOf(next.Habits, id)
		if i < 0 {
			opErr = fmt.Errorf("%w: %s", ErrNotFound, id)
			return
		}
		cur := next.Habits[i]

		switch {
		case cur.IsLocal:
			result = models.LocalHabit{Habit: edit.Apply(cur.Habit), IsLocal: true}
		default:
			if updated, ok := s.gateway.Update(ctx, id, edit.Patch()); ok {
				result = models.LocalHabit{Habit: updated.Normalize()}
			} else {
				result = models.LocalHabit{Habit: edit.Apply(cur.Habit), IsLocal: cur.IsLocal}
			}
		}

		next.Habits = replaceAt(next.Habits, i, result)
		s.commit(ctx, next)
	})
	if err != nil {
		return models.LocalHabit{}, err
	}
	return result, opErr
}

// DeleteHabit removes a habit locally. Synced habits are also deleted
// remotely, but the local removal happens whatever the remote outcome.
// Progress history is kept.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	var opErr error
	err := s.submit(ctx, func(ctx context.Context) {
		next := s.current()
		i := indexOf(next.Habits, id)
		if i < 0 {
			opErr = fmt.Errorf("%w: %s", ErrNotFound, id)
			return
		}

		if !next.Habits[i].IsLocal {
			if !s.gateway.Delete(ctx, id) {
				logger.Warn("Remote delete failed, removing locally only", "id", id)
			}
		}

		next.Habits = removeAt(next.Habits, i)
		s.commit(ctx, next)
	})
	if err != nil {
		return err
	}
	return opErr
}

// RefreshHabits replaces the habit list with the remote one, discarding
// local-only habits. If the remote service is unavailable the habits are
// left as they were. It reports whether the remote fetch succeeded.
func (s *Store) RefreshHabits(ctx context.Context) (bool, error) {
	var refreshed bool
	err := s.submit(ctx, func(ctx context.Context) {
		cur := s.current()
		cur.Loading = true
		s.publish(cur)

		next := cur
		if remote, ok := s.gateway.FetchAll(ctx); ok {
			next.Habits = Merge(nil, NormalizeRemote(remote))
			refreshed = true
			logger.Info("Refreshed habits from server", "count", len(next.Habits))
		} else {
			logger.Warn("Refresh failed, keeping current habits")
		}
		next.Loading = false
		s.commit(ctx, next)
	})
	return refreshed, err
}

// SyncHabits pushes every local-only habit to the remote service. Synced
// habits take the server id, and their completion history moves with them.
// It returns how many habits were synced.
func (s *Store) SyncHabits(ctx context.Context) (int, error) {
	var synced int
	err := s.submit(ctx, func(ctx context.Context) {
		next := s.current()
		pending := make([]models.LocalHabit, 0)
		for _, h := range next.Habits {
			if h.IsLocal {
				pending = append(pending, h)
			}
		}
		if len(pending) == 0 {
			return
		}

		for _, h := range pending {
			created, ok := s.gateway.Create(ctx, models.NewHabit{
				Name:        h.Name,
				Description: h.Description,
				DayOfWeek:   h.DayOfWeek,
				Category:    h.Category,
			})
			if !ok {
				logger.Warn("Failed to sync habit", "id", h.ID)
				continue
			}
			i := indexOf(next.Habits, h.ID)
			if i < 0 {
				continue
			}
			server := models.LocalHabit{Habit: created.Normalize()}
			next.Habits = replaceAt(next.Habits, i, server)
			if server.ID != h.ID {
				next.Progress = renameInProgress(next.Progress, h.ID, server.ID)
			}
			synced++
		}

		if synced > 0 {
			logger.Info("Synced local habits", "count", synced, "pending", len(pending))
			s.commit(ctx, next)
		}
	})
	return synced, err
}

func cloneHabits(habits []models.LocalHabit) []models.LocalHabit {
	out := make([]models.LocalHabit, len(habits), len(habits)+1)
	copy(out, habits)
	return out
}

// indexOfNameDay finds a habit by name and day, optionally only among
// local-only habits.
func indexOfNameDay(habits []models.LocalHabit, name string, day models.DayOfWeek, localOnly bool) int {
	for i, h := range habits {
		if h.Name == name && h.DayOfWeek == day && (!localOnly || h.IsLocal) {
			return i
		}
	}
	return -1
}
