package storage

import (
	"context"
	"errors"
	"testing"
)

// exerciseProvider runs the slot contract every backend must satisfy.
// p must be initialized and empty.
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty slot", func(t *testing.T) {
		if _, err := p.Read(ctx, SlotHabits); !errors.Is(err, ErrSlotEmpty) {
			t.Fatalf("expected ErrSlotEmpty, got %v", err)
		}
	})

	t.Run("write then read", func(t *testing.T) {
		err := p.Write(ctx, map[Slot][]byte{
			SlotHabits:   []byte(`[{"id":"1","name":"Read"}]`),
			SlotProgress: []byte(`[]`),
		})
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		got, err := p.Read(ctx, SlotHabits)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != `[{"id":"1","name":"Read"}]` {
			t.Errorf("unexpected habits payload: %s", got)
		}

		got, err = p.Read(ctx, SlotProgress)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != `[]` {
			t.Errorf("unexpected progress payload: %s", got)
		}
	})

	t.Run("overwrite replaces prior content", func(t *testing.T) {
		if err := p.Write(ctx, map[Slot][]byte{SlotHabits: []byte(`[]`)}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		got, err := p.Read(ctx, SlotHabits)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(got) != `[]` {
			t.Errorf("expected overwritten payload, got %s", got)
		}
	})
}
