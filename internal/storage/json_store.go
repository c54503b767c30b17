package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/julianstephens/habitual/internal/constants"
)

const jsonStoreVersion = 1

var errCorruptDocument = errors.New("failed to parse storage")

type jsonDocument struct {
	Version int                      `json:"version"`
	Slots   map[Slot]json.RawMessage `json:"slots"`
}

// JSONStore keeps all slots in a single JSON file guarded by an
// inter-process file lock at <path>.lock.
type JSONStore struct {
	path   string
	lock   *flock.Flock
	mu     sync.Mutex
	loaded bool
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return s.withLock(context.Background(), func() error {
		if _, err := os.Stat(s.path); err == nil {
			// Existing data is kept; only validate it parses
			if _, err := s.readDocument(); err != nil {
				return err
			}
		} else {
			doc := jsonDocument{Version: jsonStoreVersion, Slots: map[Slot]json.RawMessage{}}
			if err := s.writeDocument(doc); err != nil {
				return err
			}
		}
		s.loaded = true
		return nil
	})
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return ErrNotInitialized
	} else if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	return nil
}

func (s *JSONStore) Read(ctx context.Context, slot Slot) ([]byte, error) {
	var out []byte
	err := s.withLock(ctx, func() error {
		if !s.loaded {
			return ErrNotLoaded
		}
		doc, err := s.readDocument()
		if err != nil {
			return err
		}
		raw, ok := doc.Slots[slot]
		if !ok || len(raw) == 0 {
			return ErrSlotEmpty
		}
		out = []byte(raw)
		return nil
	})
	return out, err
}

func (s *JSONStore) Write(ctx context.Context, slots map[Slot][]byte) error {
	return s.withLock(ctx, func() error {
		if !s.loaded {
			return ErrNotLoaded
		}
		doc, err := s.readDocument()
		if errors.Is(err, errCorruptDocument) {
			// Unreadable contents are set aside so new writes can land
			if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
				return fmt.Errorf("failed to move corrupt storage aside: %w", err)
			}
			doc = jsonDocument{Version: jsonStoreVersion, Slots: map[Slot]json.RawMessage{}}
		} else if err != nil {
			return err
		}
		for slot, data := range slots {
			if !json.Valid(data) {
				return fmt.Errorf("slot %s: payload is not valid JSON", slot)
			}
			doc.Slots[slot] = json.RawMessage(data)
		}
		return s.writeDocument(doc)
	})
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// withLock serializes access within the process and across processes
func (s *JSONStore) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, constants.LockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, constants.LockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", s.path, err)
	}
	if !locked {
		return fmt.Errorf("timed out waiting for lock on %s", s.path)
	}
	defer func() { _ = s.lock.Unlock() }()

	return fn()
}

func (s *JSONStore) readDocument() (jsonDocument, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return jsonDocument{}, ErrNotInitialized
	}
	if err != nil {
		return jsonDocument{}, fmt.Errorf("failed to read storage: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return jsonDocument{}, fmt.Errorf("%w: %w", errCorruptDocument, err)
	}
	if doc.Version > jsonStoreVersion {
		return jsonDocument{}, fmt.Errorf("storage file version %d is newer than supported version %d", doc.Version, jsonStoreVersion)
	}
	if doc.Slots == nil {
		doc.Slots = map[Slot]json.RawMessage{}
	}
	return doc, nil
}

// writeDocument replaces the file atomically via a temp file and rename
func (s *JSONStore) writeDocument(doc jsonDocument) error {
	doc.Version = jsonStoreVersion
	// Compact encoding keeps slot payloads byte-identical on read
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}
