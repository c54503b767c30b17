// Package cache persists the habit list and progress through a storage
// provider, validating every record on the way back in.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Cache reads and writes the habits and progress slots
type Cache struct {
	provider storage.Provider
}

func New(provider storage.Provider) *Cache {
	return &Cache{provider: provider}
}

// LoadHabits returns the cached habits; an empty slot yields nil
func (c *Cache) LoadHabits(ctx context.Context) ([]models.LocalHabit, error) {
	data, err := c.provider.Read(ctx, storage.SlotHabits)
	if errors.Is(err, storage.ErrSlotEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeHabits(data)
}

// LoadProgress returns the cached progress; an empty slot yields nil
func (c *Cache) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	data, err := c.provider.Read(ctx, storage.SlotProgress)
	if errors.Is(err, storage.ErrSlotEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeProgress(data)
}

// Save replaces both slots in one write
func (c *Cache) Save(ctx context.Context, habits []models.LocalHabit, progress []models.DailyProgress) error {
	habitsData, err := EncodeHabits(habits)
	if err != nil {
		return fmt.Errorf("failed to encode habits: %w", err)
	}
	progressData, err := EncodeProgress(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return c.provider.Write(ctx, map[storage.Slot][]byte{
		storage.SlotHabits:   habitsData,
		storage.SlotProgress: progressData,
	})
}
