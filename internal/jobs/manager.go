package jobs

import (
	"errors"
	"fmt"
	"sync"

	"sheet-translator/internal/domain"
)

// ErrRunAlreadyActive is returned when starting a second run while one is active.
var ErrRunAlreadyActive = errors.New("a translation run is already in progress")

// Manager tracks the single allowed active run and its transitions.
type Manager struct {
	mu      sync.RWMutex
	current domain.Run
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Run{
			Status: domain.RunStatusIdle,
		},
	}
}

// Start creates a new run and moves it to running state.
func (m *Manager) Start(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status == domain.RunStatusRunning {
		return ErrRunAlreadyActive
	}

	m.current = domain.Run{
		ID:     runID,
		Status: domain.RunStatusRunning,
	}
	return nil
}

// Reject records a run that failed its preconditions and never started.
func (m *Manager) Reject(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status == domain.RunStatusRunning {
		return ErrRunAlreadyActive
	}

	m.current = domain.Run{
		ID:     runID,
		Status: domain.RunStatusFailed,
	}
	return nil
}

// Finish moves the active run to a terminal state.
func (m *Manager) Finish(runID string, status domain.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.ID != runID {
		return fmt.Errorf("run %s is not the current run", runID)
	}
	if !isValidTransition(m.current.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.Status, status)
	}

	m.current.Status = status
	return nil
}

// Current returns a snapshot of the current run.
func (m *Manager) Current() domain.Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset clears run metadata and returns the manager to idle.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status == domain.RunStatusRunning {
		return ErrRunAlreadyActive
	}
	m.current = domain.Run{Status: domain.RunStatusIdle}
	return nil
}

// IsRunning reports whether a run is in progress.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Status == domain.RunStatusRunning
}

// isValidTransition enforces the terminal edges of a started run.
func isValidTransition(from, to domain.RunStatus) bool {
	if from != domain.RunStatusRunning {
		return false
	}
	return to == domain.RunStatusDone || to == domain.RunStatusFailed
}
