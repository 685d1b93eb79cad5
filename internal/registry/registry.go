package registry

import (
	"sync"

	"github.com/machiloop14/memecoin-price-tracker-bot/internal/database"
	"github.com/machiloop14/memecoin-price-tracker-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Registry holds the live working set of alerts. It is the fresher copy
// during normal operation; every mutation is paired with a database write.
type Registry struct {
	mutex  sync.RWMutex
	alerts map[string]types.Alert
}

func New() *Registry {
	return &Registry{alerts: make(map[string]types.Alert)}
}

// Load replaces the whole in-memory set with the database contents. The
// caller treats a failure as fatal: the process cannot safely run with an
// unknown set of alerts.
func (r *Registry) Load() error {
	alerts, err := database.GetAllAlerts()
	if err != nil {
		return errors.Wrap(err, "could not load alerts from database")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.alerts = make(map[string]types.Alert, len(alerts))
	for _, alert := range alerts {
		r.alerts[alert.AlertID] = alert
	}

	log.Debugf("loaded %d alerts from database", len(alerts))
	return nil
}

// Create inserts a new alert in memory and durably. The in-memory insert is
// rolled back when the database write fails, so the registry never holds a
// record the database lost. Capacity is checked by the command handler before
// any upstream work, not here.
func (r *Registry) Create(alert types.Alert) error {
	r.mutex.Lock()
	if _, exists := r.alerts[alert.AlertID]; exists {
		r.mutex.Unlock()
		return errors.Errorf("duplicate alert ID: %s", alert.AlertID)
	}
	r.alerts[alert.AlertID] = alert
	r.mutex.Unlock()

	if err := database.InsertAlert(alert); err != nil {
		r.mutex.Lock()
		delete(r.alerts, alert.AlertID)
		r.mutex.Unlock()
		return errors.Wrap(err, "could not persist alert")
	}
	return nil
}

// UpdateMultiple advances last_multiple on one alert. last_multiple never
// decreases; stale updates are ignored. The in-memory state advances even
// when the database write fails: blocking the tick on the slowest write is
// worse than a restart recomputing the same crossing from the stale stored
// value and duplicating a notification.
func (r *Registry) UpdateMultiple(alertID string, newMultiple int) {
	r.mutex.Lock()
	alert, ok := r.alerts[alertID]
	if !ok || newMultiple <= alert.LastMultiple {
		r.mutex.Unlock()
		return
	}
	alert.LastMultiple = newMultiple
	r.alerts[alertID] = alert
	r.mutex.Unlock()

	if err := database.UpdateLastMultiple(alertID, newMultiple); err != nil {
		log.Errorf("failed to persist last_multiple=%d for alert %s: %v", newMultiple, alertID, err)
	}
}

// Delete removes an alert from memory and the database. It reports whether
// the alert existed.
func (r *Registry) Delete(alertID string) bool {
	r.mutex.Lock()
	_, ok := r.alerts[alertID]
	if ok {
		delete(r.alerts, alertID)
	}
	r.mutex.Unlock()

	if !ok {
		return false
	}

	if err := database.DeleteAlert(alertID); err != nil {
		log.Errorf("failed to delete alert %s from database: %v", alertID, err)
	}
	return true
}

// Get returns the alert with the given ID, if any.
func (r *Registry) Get(alertID string) (types.Alert, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	alert, ok := r.alerts[alertID]
	return alert, ok
}

// ListByChat returns all alerts registered by the given chat, in no
// particular order.
func (r *Registry) ListByChat(chatID int64) []types.Alert {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var alerts []types.Alert
	for _, alert := range r.alerts {
		if alert.ChatID == chatID {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// CountByChat returns how many alerts the given chat currently holds.
func (r *Registry) CountByChat(chatID int64) int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	count := 0
	for _, alert := range r.alerts {
		if alert.ChatID == chatID {
			count++
		}
	}
	return count
}

// Snapshot returns a point-in-time copy of every alert. The monitor iterates
// the copy so deletes landing mid-tick cannot corrupt the iteration; a record
// deleted after the snapshot may still be evaluated once more in that tick.
func (r *Registry) Snapshot() []types.Alert {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	alerts := make([]types.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		alerts = append(alerts, alert)
	}
	return alerts
}

// Len returns the number of live alerts.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.alerts)
}
