package storage

import (
	"context"
	"errors"
)

// Slot names one independently persisted document
type Slot string

const (
	SlotHabits   Slot = "habits"
	SlotProgress Slot = "progress"
)

// Slots lists every slot a provider holds
var Slots = []Slot{SlotHabits, SlotProgress}

var (
	// ErrSlotEmpty is returned by Read when nothing was written to the slot
	ErrSlotEmpty = errors.New("slot is empty")
	// ErrNotInitialized is returned by Load before Init has ever run
	ErrNotInitialized = errors.New("storage not initialized, run 'habitual init' first")
	// ErrNotLoaded is returned by Read and Write before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists opaque slot payloads for the habit cache
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	Read(ctx context.Context, slot Slot) ([]byte, error)
	// Write replaces every given slot; either all of them are stored or none
	Write(ctx context.Context, slots map[Slot][]byte) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by providers backed by a migrated SQL schema
type Versioned interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
