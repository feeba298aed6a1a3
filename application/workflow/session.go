// Package workflow hosts the review session state machine that drives the
// pipeline: upload, generate, review edits, commit. All draft state lives in
// the session; nothing is persisted until commit succeeds.
package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabigoranov/Study-Platform-sub000/application/generation"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
)

// State is a review session's position in the pipeline
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateGenerating State = "generating"
	StateReviewing  State = "reviewing"
	StateCommitting State = "committing"
	StateDone       State = "done"
	StateError      State = "error"
)

// Step names the pipeline step that failed, so retry re-enters exactly that
// step and nothing earlier.
type Step string

const (
	StepUpload   Step = "upload"
	StepGenerate Step = "generate"
	StepCommit   Step = "commit"
)

// PlacementState is the node-placement gesture nested inside reviewing:
// first a label, then a canvas position. Explicit states keep cancellation
// unambiguous.
type PlacementState string

const (
	PlacementIdle              PlacementState = "idle"
	PlacementAwaitingLabel     PlacementState = "awaiting_label"
	PlacementAwaitingPlacement PlacementState = "awaiting_placement"
)

// Session is one user's pass through the pipeline. A session is created
// idle, runs exactly one upload+generate, supports any number of review
// edits, and ends at done or via cancel. Fields are guarded by mu; the
// attempt counter invalidates async continuations from a superseded run.
type Session struct {
	mu sync.Mutex

	id           string
	userID       string
	kind         drafts.DraftKind
	groupID      string
	subjectID    string
	customPrompt string

	state        State
	placement    PlacementState
	pendingLabel string

	// retained inputs for step-level retry
	docName  string
	docBytes []byte
	fileURL  string

	stager *drafts.DraftStager
	// gen is immutable after Open; the single-flight guard lives inside it
	gen *generation.Client

	failedStep Step
	lastErr    error

	attempt   uint64
	cancelled bool

	createdAt time.Time
	updatedAt time.Time
}

func newSession(userID string, kind drafts.DraftKind, groupID, subjectID, customPrompt string) *Session {
	now := time.Now()
	return &Session{
		id:           uuid.New().String(),
		userID:       userID,
		kind:         kind,
		groupID:      groupID,
		subjectID:    subjectID,
		customPrompt: customPrompt,
		state:        StateIdle,
		placement:    PlacementIdle,
		createdAt:    now,
		updatedAt:    now,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// touch must be called with mu held
func (s *Session) touch() { s.updatedAt = time.Now() }

// View is the read-only projection of a session handed to transports
type View struct {
	ID           string                 `json:"id"`
	Kind         drafts.DraftKind       `json:"kind"`
	GroupID      string                 `json:"groupId"`
	SubjectID    string                 `json:"subjectId,omitempty"`
	State        State                  `json:"state"`
	Placement    PlacementState         `json:"placement"`
	FailedStep   Step                   `json:"failedStep,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Draft        *drafts.GeneratedDraft `json:"draft,omitempty"`
	ItemCount    int                    `json:"itemCount"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// view must be called with mu held
func (s *Session) view() View {
	v := View{
		ID:         s.id,
		Kind:       s.kind,
		GroupID:    s.groupID,
		SubjectID:  s.subjectID,
		State:      s.state,
		Placement:  s.placement,
		FailedStep: s.failedStep,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	if s.stager != nil {
		draft := s.stager.Snapshot()
		v.Draft = &draft
		v.ItemCount = s.stager.ItemCount()
	}
	return v
}

// Manager owns the live sessions. Sessions idle past the TTL are swept so an
// abandoned review cannot pin its draft forever.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager sweeping sessions idle longer than ttl
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the background sweeper
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for id, s := range m.sessions {
				s.mu.Lock()
				expired := now.Sub(s.updatedAt) > m.ttl
				if expired {
					s.cancelled = true
					s.attempt++
				}
				s.mu.Unlock()
				if expired {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
