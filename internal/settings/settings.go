package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/lumipallolabs/treescan/internal/logging"
)

// Settings holds the last used scan target
type Settings struct {
	RootPath string `yaml:"root_path,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
}

// IsEmpty returns true if neither value is set
func (s Settings) IsEmpty() bool {
	return s.RootPath == "" && s.Pattern == ""
}

// Store loads and saves settings. Failures are logged, never surfaced.
type Store struct {
	path         string
	lock         *flock.Flock
	mu           sync.Mutex
	pending      *Settings
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewStore creates a store backed by path; "" means DefaultPath()
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	path = ExpandHome(path)
	return &Store{
		path:         path,
		lock:         flock.New(path + ".lock"),
		saveDuration: 2 * time.Second, // Debounce saves
	}
}

// DefaultPath returns the default settings file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".treescan-settings.yaml"
	}
	return filepath.Join(home, ".treescan", "settings.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Path returns the settings file path
func (s *Store) Path() string {
	return s.path
}

// Load reads saved settings. The bool is false when nothing usable was saved.
func (s *Store) Load() (Settings, bool) {
	var out Settings

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		logging.Debug.Printf("[Settings] create dir: %v", err)
		return out, false
	}
	if err := s.lock.RLock(); err != nil {
		logging.Debug.Printf("[Settings] lock %s: %v", s.path, err)
		return out, false
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Debug.Printf("[Settings] read %s: %v", s.path, err)
		}
		return out, false
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		logging.Debug.Printf("[Settings] parse %s: %v", s.path, err)
		return Settings{}, false
	}
	return out, !out.IsEmpty()
}

// Save writes settings immediately. It refuses to save when both values are
// empty and returns false on any failure.
func (s *Store) Save(root, pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.pending = nil
	return s.saveLocked(Settings{RootPath: root, Pattern: pattern})
}

// Remember schedules a debounced save of the latest values
func (s *Store) Remember(root, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &Settings{RootPath: root, Pattern: pattern}

	// Cancel any pending save timer
	s.stopTimerLocked()

	s.saveTimer = time.AfterFunc(s.saveDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.pending != nil {
			s.saveLocked(*s.pending)
			s.pending = nil
		}
	})
}

// Close writes any pending save
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	if s.pending == nil {
		return nil
	}
	pending := *s.pending
	s.pending = nil
	if !s.saveLocked(pending) && !pending.IsEmpty() {
		return fmt.Errorf("save settings to %s", s.path)
	}
	return nil
}

func (s *Store) stopTimerLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// saveLocked writes settings (caller must hold mu)
func (s *Store) saveLocked(settings Settings) bool {
	if settings.IsEmpty() {
		return false
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		logging.Debug.Printf("[Settings] encode: %v", err)
		return false
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		logging.Debug.Printf("[Settings] create dir: %v", err)
		return false
	}
	if err := s.lock.Lock(); err != nil {
		logging.Debug.Printf("[Settings] lock %s: %v", s.path, err)
		return false
	}
	defer s.lock.Unlock()

	if err := atomicWrite(s.path, data); err != nil {
		logging.Debug.Printf("[Settings] write: %v", err)
		return false
	}
	return true
}

// atomicWrite writes through a temp file in the same directory and renames
// it over path, so readers never see a partial file
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
