package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/frontier-trail/internal/types"
)

// SessionStorage persists session saves as a JSON file on disk
type SessionStorage struct {
	filePath string
	mu       sync.Mutex
}

// NewSessionStorage creates a storage handler for the given file path
func NewSessionStorage(filePath string) *SessionStorage {
	return &SessionStorage{filePath: filePath}
}

// Save writes all session saves to disk atomically via a temp file rename
func (st *SessionStorage) Save(saves map[string]*types.SessionSave) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	dir := filepath.Dir(st.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(saves, "", "  ")
	if err != nil {
		return err
	}

	tmp := st.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, st.filePath)
}

// Load reads all session saves from disk. A missing file is an empty map.
func (st *SessionStorage) Load() (map[string]*types.SessionSave, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*types.SessionSave), nil
		}
		return nil, err
	}

	saves := make(map[string]*types.SessionSave)
	if err := json.Unmarshal(data, &saves); err != nil {
		return nil, err
	}
	return saves, nil
}

// AutoSaver periodically flushes the manager's sessions to storage
type AutoSaver struct {
	manager  *GameManager
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// NewAutoSaver creates an autosaver for the manager
func NewAutoSaver(manager *GameManager, interval time.Duration, logger *zap.Logger) *AutoSaver {
	return &AutoSaver{
		manager:  manager,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic save loop
func (as *AutoSaver) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.running || as.interval <= 0 {
		return
	}
	as.running = true

	go func() {
		ticker := time.NewTicker(as.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := as.manager.SaveAll(); err != nil {
					as.logger.Error("autosave failed", zap.Error(err))
				}
			case <-as.stopChan:
				return
			}
		}
	}()
	as.logger.Info("autosave started", zap.Duration("interval", as.interval))
}

// Stop halts the save loop and performs one final save
func (as *AutoSaver) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()
	if !as.running {
		return
	}
	as.running = false
	close(as.stopChan)

	if err := as.manager.SaveAll(); err != nil {
		as.logger.Error("final save failed", zap.Error(err))
	}
	as.logger.Info("autosave stopped")
}
