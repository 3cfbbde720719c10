package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	m "github.com/forgeworks/promptsmith/internal/model"
)

// instanceID distinguishes this process's temp files from those of other
// running instances sharing the same data directory.
var instanceID = uuid.NewString()[:8]

// ProjectStore persists the project registry as one yaml document,
// rewritten wholesale on every save. Concurrent writers (including other
// processes) serialize on a flock beside the store file.
type ProjectStore struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

// NewProjectStore constructs a ProjectStore at path.
func NewProjectStore(path string, log *slog.Logger) *ProjectStore {
	if log == nil {
		log = slog.Default()
	}

	return &ProjectStore{path: path, log: log}
}

// Load reads the registry. A missing file yields an empty registry; a
// corrupted file is backed up, logged, and treated as empty.
func (s *ProjectStore) Load() (map[string]m.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make(map[string]m.Project)
	if err := loadYAML(s.path, &projects, s.log); err != nil {
		return nil, err
	}

	if projects == nil {
		projects = make(map[string]m.Project)
	}

	return projects, nil
}

// Save rewrites the registry wholesale.
func (s *ProjectStore) Save(projects map[string]m.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveYAML(s.path, projects)
}

// SettingsStore persists the settings document (flags, templates, history).
type SettingsStore struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

// NewSettingsStore constructs a SettingsStore at path.
func NewSettingsStore(path string, log *slog.Logger) *SettingsStore {
	if log == nil {
		log = slog.Default()
	}

	return &SettingsStore{path: path, log: log}
}

// Load reads the settings document, applying defaults for a missing or
// corrupted file.
func (s *SettingsStore) Load() (m.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := m.DefaultSettings()
	if err := loadYAML(s.path, &settings, s.log); err != nil {
		return m.Settings{}, err
	}

	settings.FillDefaults()

	return settings, nil
}

// Save rewrites the settings document wholesale.
func (s *SettingsStore) Save(settings m.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveYAML(s.path, settings)
}

// lockTimeout bounds how long a store operation waits on another process.
const lockTimeout = 5 * time.Second

func withFileLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")

	acquired, err := tryLockFor(lock, lockTimeout)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}

	if !acquired {
		return fmt.Errorf("lock %s: held by another instance", path)
	}

	defer func() { _ = lock.Unlock() }()

	return fn()
}

func tryLockFor(lock *flock.Flock, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)

	for {
		acquired, err := lock.TryLock()
		if err != nil || acquired {
			return acquired, err
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		time.Sleep(50 * time.Millisecond)
	}
}

// loadYAML reads a yaml document under the store lock. Corrupted documents
// are backed up and replaced by the zero value so the application can
// continue with a fresh store.
func loadYAML(path string, out any, log *slog.Logger) error {
	return withFileLock(path, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return fmt.Errorf("read %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, out); err != nil {
			backup := fmt.Sprintf("%s.bak.%d", path, time.Now().Unix())
			if werr := os.WriteFile(backup, data, 0o600); werr == nil {
				log.Warn("store corrupted, starting empty", "path", path, "backup", backup, "err", err)
			} else {
				log.Error("store corrupted and backup failed", "path", path, "err", err, "backup_err", werr)
			}
		}

		return nil
	})
}

// saveYAML writes a yaml document atomically: marshal to a temp file in the
// same directory, then rename over the target.
func saveYAML(path string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	return withFileLock(path, func() error {
		tmp := fmt.Sprintf("%s.tmp.%s", path, instanceID)
		if err := os.WriteFile(tmp, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", tmp, err)
		}

		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)

			return fmt.Errorf("replace %s: %w", path, err)
		}

		return nil
	})
}
