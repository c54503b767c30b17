package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/habitual/internal/models"
)

// fakeGateway answers from an in-memory collection, or fails every call
// while offline is set.
type fakeGateway struct {
	mu      sync.Mutex
	offline bool
	habits  []models.Habit
	nextID  int
	calls   map[string]int
	// deleteResult overrides the outcome of Delete when set
	deleteResult *bool
}

func newFakeGateway(habits ...models.Habit) *fakeGateway {
	return &fakeGateway{habits: habits, nextID: 100, calls: map[string]int{}}
}

func (g *fakeGateway) setOffline(offline bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offline = offline
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) FetchAll(ctx context.Context) ([]models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["FetchAll"]++
	if g.offline {
		return nil, false
	}
	return append([]models.Habit(nil), g.habits...), true
}

func (g *fakeGateway) Create(ctx context.Context, h models.NewHabit) (models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["Create"]++
	if g.offline {
		return models.Habit{}, false
	}
	g.nextID++
	created := models.Habit{
		ID:          fmt.Sprint(g.nextID),
		Name:        h.Name,
		Description: h.Description,
		DayOfWeek:   h.DayOfWeek,
		Category:    h.Category,
	}
	g.habits = append(g.habits, created)
	return created, true
}

func (g *fakeGateway) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["Update"]++
	if g.offline {
		return models.Habit{}, false
	}
	for i, h := range g.habits {
		if h.ID != id {
			continue
		}
		if patch.Name != nil {
			h.Name = *patch.Name
		}
		if patch.Description != nil {
			h.Description = *patch.Description
		}
		if patch.DayOfWeek != nil {
			h.DayOfWeek = *patch.DayOfWeek
		}
		if patch.Category != nil {
			h.Category = *patch.Category
		}
		g.habits[i] = h
		return h, true
	}
	return models.Habit{}, false
}

func (g *fakeGateway) Delete(ctx context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls["Delete"]++
	if g.deleteResult != nil {
		return *g.deleteResult
	}
	return !g.offline
}

// memoryCache is an in-memory Cache that can be told to fail
type memoryCache struct {
	mu        sync.Mutex
	habits    []models.LocalHabit
	progress  []models.DailyProgress
	readErr   error
	saveErr   error
	saveCount int
}

func (c *memoryCache) LoadHabits(ctx context.Context) ([]models.LocalHabit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	return append([]models.LocalHabit(nil), c.habits...), nil
}

func (c *memoryCache) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	return append([]models.DailyProgress(nil), c.progress...), nil
}

func (c *memoryCache) Save(ctx context.Context, habits []models.LocalHabit, progress []models.DailyProgress) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveCount++
	if c.saveErr != nil {
		return c.saveErr
	}
	c.habits = append([]models.LocalHabit(nil), habits...)
	c.progress = make([]models.DailyProgress, len(progress))
	for i, p := range progress {
		c.progress[i] = models.DailyProgress{Date: p.Date, CompletedHabits: append([]string(nil), p.CompletedHabits...)}
	}
	return nil
}

func (c *memoryCache) saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveCount
}

var errDisk = errors.New("disk full")

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("local-%d", n)
	}
}
