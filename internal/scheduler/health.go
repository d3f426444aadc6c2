package scheduler

import (
	"sync"
	"time"
)

// HealthStatus is the recorded health of one component (feeds,
// publishing, the pipeline itself).
type HealthStatus struct {
	Healthy     bool
	LastCheck   time.Time
	LastSuccess time.Time
	LastError   error
	Message     string
}

func (s *HealthStatus) clone() *HealthStatus {
	c := *s
	return &c
}

// Health tracks per-component health across pipeline cycles. Safe for
// concurrent use.
type Health struct {
	mu         sync.RWMutex
	components map[string]*HealthStatus
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return &Health{components: make(map[string]*HealthStatus)}
}

func (h *Health) statusFor(component string) *HealthStatus {
	if _, ok := h.components[component]; !ok {
		h.components[component] = &HealthStatus{}
	}
	return h.components[component]
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	status := h.statusFor(component)
	status.Healthy = true
	status.LastCheck = now
	status.LastSuccess = now
	status.LastError = nil
	status.Message = message
}

// SetUnhealthy marks a component as unhealthy.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.statusFor(component)
	status.Healthy = false
	status.LastCheck = time.Now()
	status.LastError = err
	status.Message = err.Error()
}

// GetStatus returns a copy of a component's status, or nil if the
// component has never reported.
func (h *Health) GetStatus(component string) *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if status, ok := h.components[component]; ok {
		return status.clone()
	}
	return nil
}

// GetAllStatuses returns copies of all component statuses.
func (h *Health) GetAllStatuses() map[string]*HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]*HealthStatus, len(h.components))
	for name, status := range h.components {
		result[name] = status.clone()
	}
	return result
}

// IsOverallHealthy reports whether every component is healthy.
func (h *Health) IsOverallHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, status := range h.components {
		if !status.Healthy {
			return false
		}
	}
	return true
}
