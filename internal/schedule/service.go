package schedule

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cadence/internal/audit"
	"cadence/internal/coach"
	"cadence/internal/config"
	"cadence/internal/conflict"
	"cadence/internal/notify"
	"cadence/internal/store"
)

// ErrInvalidInterval is returned for intervals that end before they start,
// or, for writes, that have no positive length.
var ErrInvalidInterval = errors.New("invalid interval")

// ErrInvalidInput is returned for missing or malformed fields.
var ErrInvalidInput = errors.New("invalid input")

// ConflictError reports a write rejected by the conflict policy. The
// conflicting events are attached so callers can show them.
type ConflictError struct {
	Policy    string
	Conflicts conflict.Conflicts
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("rejected by %s policy: %d conflicting event(s)", e.Policy, len(e.Conflicts))
}

// CoachError wraps a failure of the deliverables generator.
type CoachError struct {
	Generator string
	Err       error
}

func (e *CoachError) Error() string {
	return fmt.Sprintf("coach %s: %v", e.Generator, e.Err)
}

func (e *CoachError) Unwrap() error {
	return e.Err
}

// Options configures a Service. Zero values fall back to the defaults of
// config.DefaultConfig.
type Options struct {
	Policy       string
	Location     *time.Location
	WeekStartsOn time.Weekday
	Coach        coach.Generator
	Audit        *audit.Logger
	Notifier     *notify.Notifier
	Now          func() time.Time
}

// Service applies scheduling writes through the conflict policy and builds
// calendar views. Detection and the following write run under a per-user
// lock, so two requests for the same user in this process cannot both pass
// detection. Separate processes sharing a database are not coordinated.
type Service struct {
	store        *store.Store
	detector     *conflict.Detector
	audit        *audit.Logger
	notifier     *notify.Notifier
	coach        coach.Generator
	policy       string
	loc          *time.Location
	weekStartsOn time.Weekday
	now          func() time.Time
	locks        *userLocks
}

// New returns a Service over st.
func New(st *store.Store, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = config.PolicyWarn
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:        st,
		detector:     conflict.NewDetector(st),
		audit:        opts.Audit,
		notifier:     opts.Notifier,
		coach:        opts.Coach,
		policy:       opts.Policy,
		loc:          opts.Location,
		weekStartsOn: opts.WeekStartsOn,
		now:          opts.Now,
		locks:        newUserLocks(),
	}
}

// Location returns the zone calendar days are computed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Policy returns the configured conflict policy.
func (s *Service) Policy() string {
	return s.policy
}

// enforce applies the conflict policy to the conflicts of a pending write.
func (s *Service) enforce(userID, action string, cs conflict.Conflicts) error {
	if len(cs) == 0 {
		return nil
	}
	rejected := false
	switch s.policy {
	case config.PolicyBlock:
		rejected = true
	case config.PolicyBlockProtected:
		rejected = cs.HasProtected()
	}
	payload := map[string]any{
		"action":    action,
		"policy":    s.policy,
		"conflicts": cs.IDs(),
		"protected": cs.HasProtected(),
	}
	if rejected {
		s.record(userID, audit.TypeScheduleRejected, payload)
		title, message := notify.FormatRejected(action, s.policy, cs)
		if err := s.notifier.Send(title, message); err != nil {
			log.Printf("notify %s: %v", userID, err)
		}
		return &ConflictError{Policy: s.policy, Conflicts: cs}
	}
	s.record(userID, audit.TypeConflictDetected, payload)
	return nil
}

// record writes an audit event. The write it describes has already been
// committed, so a failure is only logged.
func (s *Service) record(userID, eventType string, payload any) {
	if err := s.audit.LogEvent(userID, eventType, payload); err != nil {
		log.Printf("audit %s: %v", eventType, err)
	}
}

func validWrite(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end are required: %w", ErrInvalidInterval)
	}
	if !start.Before(end) {
		return fmt.Errorf("start %s must be before end %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidInterval)
	}
	return nil
}

type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// lock blocks until userID's lock is held and returns its release func.
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
