package kb

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/orbitviz/model"
)

// EventType indicates what kind of change happened in the session.
type EventType int

const (
	EventTrajectoryLoaded EventType = iota
	EventTrajectoryFailed
	EventObjectRemoved
)

// Event is emitted to subscribers when a tracked object's state changes.
type Event struct {
	Type     EventType
	ObjectID string
}

// MetricsRecorder receives session-level counts so gauges can be driven
// directly from the mutators.
type MetricsRecorder interface {
	SetSessionCounts(objects, loaded, failed int)
}

// Session is the single owning store for tracked objects and their
// trajectories. A trajectory is either absent, loading, fully present, or
// failed; it is installed atomically when a fetch completes and destroyed
// when its object is removed. All access is guarded by an internal RWMutex
// so the time-advancement driver and fetch collaborator can share it.
type Session struct {
	mu sync.RWMutex

	tracks map[string]*track
	subs   []func(Event)

	metrics MetricsRecorder
}

type track struct {
	obj     *model.TrackedObject
	traj    *model.Trajectory
	status  model.TrackStatus
	gen     uint64
	lastErr error
}

// Option configures a Session.
type Option func(*Session)

// WithMetricsRecorder wires a metrics sink into the session's mutators.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession constructs an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{tracks: make(map[string]*track)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddObject registers a tracked object. It returns an error if the ID
// already exists.
func (s *Session) AddObject(obj *model.TrackedObject) error {
	if obj == nil || obj.ID == "" {
		return fmt.Errorf("nil or empty tracked object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tracks[obj.ID]; exists {
		return fmt.Errorf("tracked object with ID %q already exists", obj.ID)
	}
	s.tracks[obj.ID] = &track{obj: obj, status: model.TrackAbsent}
	s.recordCountsLocked()
	return nil
}

// GetObject returns the tracked object with the given ID, or nil.
func (s *Session) GetObject(id string) *model.TrackedObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tr, ok := s.tracks[id]; ok {
		return tr.obj
	}
	return nil
}

// ListObjects returns a snapshot slice of all tracked objects.
func (s *Session) ListObjects() []*model.TrackedObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.TrackedObject, 0, len(s.tracks))
	for _, tr := range s.tracks {
		res = append(res, tr.obj)
	}
	return res
}

// RemoveObject deletes a tracked object and destroys its trajectory.
func (s *Session) RemoveObject(id string) error {
	s.mu.Lock()
	if _, ok := s.tracks[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("tracked object with ID %q not found", id)
	}
	delete(s.tracks, id)
	s.recordCountsLocked()
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventObjectRemoved, ObjectID: id})
	return nil
}

// BeginFetch marks the object as loading and returns a generation token.
// A later BeginFetch for the same object supersedes this one: results
// carrying a stale token are abandoned, never merged.
func (s *Session) BeginFetch(id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.tracks[id]
	if !ok {
		return 0, fmt.Errorf("tracked object with ID %q not found", id)
	}
	tr.gen++
	tr.status = model.TrackLoading
	return tr.gen, nil
}

// CompleteFetch installs a fully-present trajectory for the object. Results
// from a superseded fetch (stale generation) are silently dropped.
func (s *Session) CompleteFetch(id string, gen uint64, traj *model.Trajectory) error {
	s.mu.Lock()
	tr, ok := s.tracks[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tracked object with ID %q not found", id)
	}
	if gen != tr.gen {
		s.mu.Unlock()
		return nil
	}
	tr.traj = traj
	tr.status = model.TrackPresent
	tr.lastErr = nil
	s.recordCountsLocked()
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventTrajectoryLoaded, ObjectID: id})
	return nil
}

// FailFetch records a fetch failure. The previous state (absent or a prior
// trajectory) is left unchanged; the error is surfaced for a user-triggered
// retry, never retried automatically.
func (s *Session) FailFetch(id string, gen uint64, cause error) error {
	s.mu.Lock()
	tr, ok := s.tracks[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tracked object with ID %q not found", id)
	}
	if gen != tr.gen {
		s.mu.Unlock()
		return nil
	}
	tr.lastErr = cause
	if tr.traj != nil {
		tr.status = model.TrackPresent
	} else {
		tr.status = model.TrackFailed
	}
	s.recordCountsLocked()
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventTrajectoryFailed, ObjectID: id})
	return nil
}

// Trajectory returns the object's trajectory (nil unless fully present)
// and its current status.
func (s *Session) Trajectory(id string) (*model.Trajectory, model.TrackStatus) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.tracks[id]
	if !ok {
		return nil, model.TrackAbsent
	}
	if tr.status != model.TrackPresent {
		return nil, tr.status
	}
	return tr.traj, tr.status
}

// LastError returns the most recent fetch failure for the object, if any.
func (s *Session) LastError(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tr, ok := s.tracks[id]; ok {
		return tr.lastErr
	}
	return nil
}

// Subscribe registers a callback for session events. It returns an
// unsubscribe function.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}

func (s *Session) recordCountsLocked() {
	if s.metrics == nil {
		return
	}
	loaded, failed := 0, 0
	for _, tr := range s.tracks {
		switch tr.status {
		case model.TrackPresent:
			loaded++
		case model.TrackFailed:
			failed++
		}
	}
	s.metrics.SetSessionCounts(len(s.tracks), loaded, failed)
}

// notify runs outside the lock to avoid deadlocks with re-entrant
// subscribers.
func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
