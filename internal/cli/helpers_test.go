package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/store"
)

// stubGateway serves an in-memory collection; offline fails every call
type stubGateway struct {
	mu      sync.Mutex
	offline bool
	habits  []models.Habit
	nextID  int
}

func (g *stubGateway) FetchAll(ctx context.Context) ([]models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.offline {
		return nil, false
	}
	return append([]models.Habit(nil), g.habits...), true
}

func (g *stubGateway) Create(ctx context.Context, h models.NewHabit) (models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.offline {
		return models.Habit{}, false
	}
	g.nextID++
	created := models.Habit{ID: fmt.Sprint(g.nextID), Name: h.Name, Description: h.Description, DayOfWeek: h.DayOfWeek, Category: h.Category}
	g.habits = append(g.habits, created)
	return created, true
}

func (g *stubGateway) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
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

func (g *stubGateway) Delete(ctx context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.offline {
		return false
	}
	for i, h := range g.habits {
		if h.ID == id {
			g.habits = append(g.habits[:i], g.habits[i+1:]...)
			return true
		}
	}
	return false
}

// fixedNow is a Monday
var fixedNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// newTestContext wires a loaded store over a JSON file in a temp dir
func newTestContext(t *testing.T, gw *stubGateway) (*Context, *bytes.Buffer) {
	t.Helper()

	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitual.json"))
	if err := provider.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { provider.Close() })

	s := store.New(gw, cache.New(provider),
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithLocation(time.UTC),
	)
	t.Cleanup(func() { s.Close() })
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	var out bytes.Buffer
	return &Context{
		Config:   config.Config{APIURL: "http://habits.test", Storage: provider.GetConfigPath(), Timezone: "UTC"},
		Provider: provider,
		Gateway:  gw,
		Store:    s,
		Out:      &out,
	}, &out
}
