package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// WatchState remembers which events have already been alerted, so a
// restarted watcher does not re-announce old surges.
type WatchState struct {
	Ticker    string            `json:"ticker"`
	Seen      map[string]string `json:"seen"` // "exchange|date" -> kind
	LastRunAt time.Time         `json:"last_run_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StateStore persists WatchState to a JSON file with concurrency safety.
type StateStore struct {
	mu       sync.Mutex
	state    *WatchState
	filePath string
}

// NewStateStore loads existing state or initializes a fresh one.
func NewStateStore(filePath, ticker string) (*StateStore, error) {
	state := &WatchState{Ticker: ticker, Seen: make(map[string]string)}

	data, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, state); err != nil {
			return nil, err
		}
	}
	if state.Seen == nil || state.Ticker != ticker {
		state.Ticker = ticker
		state.Seen = make(map[string]string)
	}

	return &StateStore{state: state, filePath: filePath}, nil
}

// MarkSeen records events and reports which keys were new.
func (s *StateStore) MarkSeen(keys map[string]string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []string
	for key, kind := range keys {
		if _, ok := s.state.Seen[key]; !ok {
			fresh = append(fresh, key)
			s.state.Seen[key] = kind
		}
	}
	s.state.LastRunAt = time.Now().UTC()
	return fresh, s.save()
}

func (s *StateStore) save() error {
	s.state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.filePath, data, 0644)
}
