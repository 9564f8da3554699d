// Package dms implements the dead-man switch: a JSON-backed registry
// of named artifacts with a check-in deadline. Missing a check-in
// triggers a configured release action (an SMS escalation via Twilio
// in this implementation). Named out of core scope by the
// specification's §1 but carried as an ambient feature, the way the
// teacher's own registry-adjacent services (transparency queue,
// contact list) are JSON/DB-backed tables keyed by name.
package dms

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ChronoCoders/hermes/internal/herrors"
)

// Entry is one registered artifact awaiting periodic check-in.
type Entry struct {
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	LastCheckIn  time.Time `json:"last_check_in"`
	IntervalDays int       `json:"interval_days"`
	EscalatePhone string   `json:"escalate_phone,omitempty"`
	ReleasedAt   *time.Time `json:"released_at,omitempty"`
}

// Deadline is the point past which a missed check-in triggers release.
func (e Entry) Deadline() time.Time {
	return e.LastCheckIn.AddDate(0, 0, e.IntervalDays)
}

// Overdue reports whether e has passed its deadline and not yet released.
func (e Entry) Overdue(now time.Time) bool {
	return e.ReleasedAt == nil && now.After(e.Deadline())
}

// Registry is the JSON-backed table at $HERMES_HOME/dms_registry.json.
type Registry struct {
	path    string
	entries map[string]Entry
}

// Open loads (or initializes) the registry file at path.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path, entries: map[string]Entry{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, herrors.New(herrors.IoError, "dms.Open", err)
	}
	if err := json.Unmarshal(data, &r.entries); err != nil {
		return nil, herrors.New(herrors.ConfigError, "dms.Open", err)
	}
	return r, nil
}

func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return herrors.New(herrors.IoError, "dms.save", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return herrors.New(herrors.IoError, "dms.save", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return herrors.New(herrors.IoError, "dms.save", err)
	}
	return nil
}

// Register adds or replaces an entry.
func (r *Registry) Register(name string, intervalDays int, escalatePhone string) error {
	r.entries[name] = Entry{
		Name:          name,
		CreatedAt:     time.Now(),
		LastCheckIn:   time.Now(),
		IntervalDays:  intervalDays,
		EscalatePhone: escalatePhone,
	}
	return r.save()
}

// CheckIn resets an entry's deadline clock.
func (r *Registry) CheckIn(name string) error {
	e, ok := r.entries[name]
	if !ok {
		return herrors.New(herrors.KeyNotFound, "dms.CheckIn", nil)
	}
	e.LastCheckIn = time.Now()
	r.entries[name] = e
	return r.save()
}

// Disable removes an entry from the registry entirely.
func (r *Registry) Disable(name string) error {
	if _, ok := r.entries[name]; !ok {
		return herrors.New(herrors.KeyNotFound, "dms.Disable", nil)
	}
	delete(r.entries, name)
	return r.save()
}

// Status returns the entry by name.
func (r *Registry) Status(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, herrors.New(herrors.KeyNotFound, "dms.Status", nil)
	}
	return e, nil
}

// Overdue returns every entry that has passed its deadline without
// being released, as of now.
func (r *Registry) Overdue(now time.Time) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Overdue(now) {
			out = append(out, e)
		}
	}
	return out
}

// MarkReleased records that name's escalation action has fired, so
// repeated checks don't re-trigger it.
func (r *Registry) MarkReleased(name string) error {
	e, ok := r.entries[name]
	if !ok {
		return herrors.New(herrors.KeyNotFound, "dms.MarkReleased", nil)
	}
	now := time.Now()
	e.ReleasedAt = &now
	r.entries[name] = e
	return r.save()
}
