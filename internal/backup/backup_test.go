package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
)

// tickingClock returns a clock that advances one second per call
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func seedStore(t *testing.T, p storage.Provider, habits string) {
	t.Helper()
	if err := p.Write(context.Background(), map[storage.Slot][]byte{storage.SlotHabits: []byte(habits)}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func newSQLite(t *testing.T) (string, *storage.SQLiteStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitual.db")
	s := storage.NewSQLiteStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return path, s
}

func newJSON(t *testing.T) (string, *storage.JSONStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitual.json")
	s := storage.NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return path, s
}

func readHabits(t *testing.T, p storage.Provider) string {
	t.Helper()
	if err := p.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	data, err := p.Read(context.Background(), storage.SlotHabits)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return string(data)
}

func TestCreateBackupSQLite(t *testing.T) {
	path, s := newSQLite(t)
	seedStore(t, s, `[{"id":"1","name":"Read"}]`)

	mgr := NewManager(path)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) || filepath.Ext(backupPath) != ".db" {
		t.Errorf("unexpected backup name %s", backupPath)
	}

	restored := storage.NewSQLiteStore(backupPath)
	defer restored.Close()
	if got := readHabits(t, restored); got != `[{"id":"1","name":"Read"}]` {
		t.Errorf("backup content = %s", got)
	}
}

func TestCreateBackupMissingStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for a missing store")
	}
}

func TestBackupRotation(t *testing.T) {
	path, s := newJSON(t)
	seedStore(t, s, `[]`)

	mgr := NewManager(path)
	mgr.now = tickingClock()
	for i := range constants.MaxBackups + 5 {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i].Timestamp.Before(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestBackupNameCollision(t *testing.T) {
	path, s := newJSON(t)
	seedStore(t, s, `[]`)

	mgr := NewManager(path)
	fixed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("expected distinct backup paths")
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 || backups[0].Path != second {
		t.Errorf("expected the counter-suffixed backup first, got %+v", backups)
	}
}

func TestListBackupsIgnoresStrangers(t *testing.T) {
	path, _ := newJSON(t)
	mgr := NewManager(path)

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("expected no backups, got %v, %v", backups, err)
	}

	if err := os.MkdirAll(mgr.BackupDir(), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.json", constants.BackupFilePrefix + "20240101-080000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Errorf("expected foreign files to be ignored, got %v, %v", backups, err)
	}
}

func TestRestoreBackupJSON(t *testing.T) {
	path, s := newJSON(t)
	seedStore(t, s, `[{"id":"1","name":"Read"}]`)

	mgr := NewManager(path)
	mgr.now = tickingClock()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	seedStore(t, s, `[]`)
	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if previous == "" {
		t.Error("expected the current store to be backed up before restore")
	}

	if got := readHabits(t, storage.NewJSONStore(path)); got != `[{"id":"1","name":"Read"}]` {
		t.Errorf("restored content = %s", got)
	}
	if _, err := os.Stat(path + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	path, _ := newJSON(t)
	mgr := NewManager(path)

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected invalid backup to be rejected")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected missing backup to be rejected")
	}
}

func TestRestoreBackupSQLite(t *testing.T) {
	path, s := newSQLite(t)
	seedStore(t, s, `[{"id":"1","name":"Read"}]`)

	mgr := NewManager(path)
	mgr.now = tickingClock()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	seedStore(t, s, `[]`)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}

	reopened := storage.NewSQLiteStore(path)
	defer reopened.Close()
	if got := readHabits(t, reopened); got != `[{"id":"1","name":"Read"}]` {
		t.Errorf("restored content = %s", got)
	}
}
