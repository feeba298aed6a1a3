package workflow

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gabigoranov/Study-Platform-sub000/application/commit"
	"github.com/gabigoranov/Study-Platform-sub000/application/generation"
	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
	"github.com/gabigoranov/Study-Platform-sub000/domain/drafts"
	"github.com/gabigoranov/Study-Platform-sub000/domain/services"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

// defaultStepTimeout bounds one upload or generation call. Generation is the
// slow step; the platform's model endpoints stream nothing back until done.
const defaultStepTimeout = 5 * time.Minute

// ReviewWorkflow runs review sessions through the pipeline. Upload and
// generation execute asynchronously after the triggering request returns;
// clients observe progress by polling the session view. Commit is
// synchronous.
type ReviewWorkflow struct {
	sessions    *Manager
	storage     ports.StorageClient
	genAPI      ports.GenerationAPI
	persistence ports.PersistenceAPI
	committer   *commit.Pipeline
	layout      *services.LayoutEngine
	metrics     *observability.Collector
	logger      *zap.Logger
	stepTimeout time.Duration
}

// NewReviewWorkflow creates the workflow orchestrator
func NewReviewWorkflow(
	sessions *Manager,
	storage ports.StorageClient,
	genAPI ports.GenerationAPI,
	persistence ports.PersistenceAPI,
	committer *commit.Pipeline,
	layout *services.LayoutEngine,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ReviewWorkflow {
	return &ReviewWorkflow{
		sessions:    sessions,
		storage:     storage,
		genAPI:      genAPI,
		persistence: persistence,
		committer:   committer,
		layout:      layout,
		metrics:     metrics,
		logger:      logger,
		stepTimeout: defaultStepTimeout,
	}
}

// Open starts a fresh idle session. Every session begins empty; a previous
// session's draft never carries over.
func (w *ReviewWorkflow) Open(userID string, kind drafts.DraftKind, groupID, subjectID, customPrompt string) (View, error) {
	switch kind {
	case drafts.KindFlashcards, drafts.KindMindmap, drafts.KindQuiz:
	default:
		return View{}, pkgerrors.NewValidationError("unknown draft kind: " + string(kind))
	}
	if groupID == "" {
		return View{}, pkgerrors.NewValidationError("groupId is required")
	}
	if kind != drafts.KindFlashcards && subjectID == "" {
		return View{}, pkgerrors.NewValidationError("subjectId is required for " + string(kind))
	}

	s := newSession(userID, kind, groupID, subjectID, customPrompt)
	s.gen = generation.NewClient(w.storage, w.genAPI, w.persistence, w.logger.With(zap.String("session_id", s.id)))
	w.sessions.add(s)
	w.metrics.SessionsOpened.WithLabelValues(string(kind)).Inc()

	w.logger.Info("review session opened",
		zap.String("session_id", s.id),
		zap.String("kind", string(kind)),
		zap.String("group_id", groupID),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// View returns the current session projection
func (w *ReviewWorkflow) View(sessionID string) (View, error) {
	s, err := w.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Upload accepts the source document and kicks off the upload+generate run.
// The document bytes are retained so a failed upload can be retried without
// the client resubmitting the file. Only an idle session accepts a document.
func (w *ReviewWorkflow) Upload(sessionID, token string, filename string, content io.Reader) (View, error) {
	s, err := w.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return View{}, pkgerrors.NewUploadFailedError("reading source document", err)
	}
	if len(data) == 0 || filename == "" {
		return View{}, pkgerrors.NewValidationError("source document requires a name and content")
	}

	s.mu.Lock()
	if s.state != StateIdle {
		defer s.mu.Unlock()
		return View{}, pkgerrors.NewConflictError("session already has a document; state is " + string(s.state))
	}
	s.docName = filename
	s.docBytes = data
	s.state = StateUploading
	s.touch()
	attempt := s.attempt
	view := s.view()
	s.mu.Unlock()

	go w.runFromUpload(s, token, attempt)
	return view, nil
}

// runFromUpload executes upload then generate. Every write-back re-checks
// that the session has not been cancelled or superseded since the run began.
func (w *ReviewWorkflow) runFromUpload(s *Session, token string, attempt uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), w.stepTimeout)
	defer cancel()

	s.mu.Lock()
	doc := generation.SourceDocument{
		Name:    s.docName,
		Size:    int64(len(s.docBytes)),
		Content: bytes.NewReader(s.docBytes),
	}
	userID := s.userID
	s.mu.Unlock()

	start := time.Now()
	url, err := s.gen.Upload(ctx, userID, doc)
	w.metrics.UploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		w.fail(s, attempt, StepUpload, err)
		return
	}

	s.mu.Lock()
	if s.stale(attempt) {
		s.mu.Unlock()
		return
	}
	s.fileURL = url
	s.state = StateGenerating
	s.touch()
	s.mu.Unlock()

	w.runGenerate(s, token, attempt)
}

// runGenerate executes the generation step against the already-uploaded file
func (w *ReviewWorkflow) runGenerate(s *Session, token string, attempt uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), w.stepTimeout)
	defer cancel()

	s.mu.Lock()
	kind, url, prompt, groupID := s.kind, s.fileURL, s.customPrompt, s.groupID
	s.mu.Unlock()

	start := time.Now()
	draft, err := s.gen.Generate(ctx, token, kind, url, prompt, groupID)
	if err != nil {
		w.metrics.GenerationDuration.WithLabelValues(string(kind), "error").Observe(time.Since(start).Seconds())
		w.fail(s, attempt, StepGenerate, err)
		return
	}
	w.metrics.GenerationDuration.WithLabelValues(string(kind), "ok").Observe(time.Since(start).Seconds())

	stager, err := drafts.NewDraftStager(draft)
	if err != nil {
		w.fail(s, attempt, StepGenerate, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(attempt) {
		// the session was cancelled while generation was in flight; the
		// resolved draft is dropped on the floor
		w.logger.Info("discarding generation result for superseded session",
			zap.String("session_id", s.id))
		return
	}

	s.stager = stager
	if kind == drafts.KindMindmap {
		w.autoLayoutLocked(s)
	}
	s.state = StateReviewing
	s.failedStep = ""
	s.lastErr = nil
	s.touch()
}

// autoLayoutLocked runs layout when the generated graph carries no usable
// positions. Must be called with s.mu held and a mindmap stager present.
func (w *ReviewWorkflow) autoLayoutLocked(s *Session) {
	graph := s.stager.Graph()
	if graph == nil {
		return
	}
	snapshot := graph.Snapshot()
	if snapshot.HasMeaningfulPositions() {
		return
	}
	positions := w.layout.Layout(snapshot, services.DefaultLayoutOptions())
	graph.ApplyPositions(positions)
	w.metrics.LayoutRuns.Inc()
}

// fail moves the session to the error state, retaining the inputs of the
// failed step for retry. A stale attempt's failure is ignored.
func (w *ReviewWorkflow) fail(s *Session, attempt uint64, step Step, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(attempt) {
		return
	}
	s.state = StateError
	s.failedStep = step
	s.lastErr = err
	s.touch()
	w.metrics.SessionsFailed.WithLabelValues(string(step)).Inc()
	w.logger.Warn("pipeline step failed",
		zap.String("session_id", s.id),
		zap.String("step", string(step)),
		zap.Error(err),
	)
}

// stale must be called with s.mu held
func (s *Session) stale(attempt uint64) bool {
	return s.cancelled || s.attempt != attempt
}

// Retry re-executes exactly the step that failed. Upload retries reuse the
// retained document; generation retries reuse the uploaded file URL; commit
// retries resubmit the full draft.
func (w *ReviewWorkflow) Retry(ctx context.Context, sessionID, token string) (View, error) {
	s, err := w.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	if s.state != StateError {
		defer s.mu.Unlock()
		return View{}, pkgerrors.NewConflictError("nothing to retry; state is " + string(s.state))
	}
	step := s.failedStep
	s.lastErr = nil
	s.touch()
	attempt := s.attempt

	switch step {
	case StepUpload:
		s.state = StateUploading
		view := s.view()
		s.mu.Unlock()
		go w.runFromUpload(s, token, attempt)
		return view, nil
	case StepGenerate:
		s.state = StateGenerating
		view := s.view()
		s.mu.Unlock()
		go w.runGenerate(s, token, attempt)
		return view, nil
	case StepCommit:
		s.mu.Unlock()
		return w.commit(ctx, s, token)
	default:
		defer s.mu.Unlock()
		return View{}, pkgerrors.NewInternalError("session in error state without a failed step", nil)
	}
}

// Commit approves the draft and persists it. An in-progress placement
// gesture is abandoned; the graph it never touched is committed as reviewed.
func (w *ReviewWorkflow) Commit(ctx context.Context, sessionID, token string) (View, error) {
	s, err := w.lookup(sessionID)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	if s.state != StateReviewing {
		defer s.mu.Unlock()
		return View{}, pkgerrors.NewConflictError("cannot commit; state is " + string(s.state))
	}
	s.placement = PlacementIdle
	s.pendingLabel = ""
	s.mu.Unlock()

	return w.commit(ctx, s, token)
}

func (w *ReviewWorkflow) commit(ctx context.Context, s *Session, token string) (View, error) {
	s.mu.Lock()
	// A cancel may have landed between the caller's state check and here.
	if s.cancelled || s.stager == nil {
		defer s.mu.Unlock()
		return View{}, pkgerrors.NewConflictError("session was cancelled")
	}
	s.state = StateCommitting
	s.touch()
	draft := s.stager.Snapshot()
	kind, subjectID := s.kind, s.subjectID
	s.mu.Unlock()

	start := time.Now()
	result, err := w.committer.Commit(ctx, token, draft, subjectID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		w.metrics.CommitDuration.WithLabelValues(string(kind), "error").Observe(time.Since(start).Seconds())
		s.state = StateError
		s.failedStep = StepCommit
		s.lastErr = err
		s.touch()
		w.metrics.SessionsFailed.WithLabelValues(string(StepCommit)).Inc()
		return s.view(), err
	}
	w.metrics.CommitDuration.WithLabelValues(string(kind), "ok").Observe(time.Since(start).Seconds())
	w.metrics.SessionsCommitted.WithLabelValues(string(kind)).Inc()

	s.state = StateDone
	s.failedStep = ""
	s.lastErr = nil
	s.stager = nil
	s.docBytes = nil
	s.touch()
	w.logger.Info("review session committed",
		zap.String("session_id", s.id),
		zap.String("kind", string(kind)),
		zap.Int("artifacts", len(result.Artifacts)),
	)
	return s.view(), nil
}

// Cancel discards the session and everything it staged. An in-flight
// generation keeps running but its result is ignored. Cancelling during
// commit is rejected; the write is already on the wire.
func (w *ReviewWorkflow) Cancel(sessionID string) error {
	s, err := w.lookup(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateCommitting {
		defer s.mu.Unlock()
		return pkgerrors.NewConflictError("cannot cancel while commit is in flight")
	}
	s.cancelled = true
	s.attempt++
	s.stager = nil
	s.docBytes = nil
	s.mu.Unlock()

	w.sessions.remove(sessionID)
	w.metrics.SessionsCancelled.Inc()
	w.logger.Info("review session cancelled", zap.String("session_id", sessionID))
	return nil
}

// ReplaceFlashcard swaps one flashcard during review. The group stamp is
// reasserted so an edited card cannot drift to another group.
func (w *ReviewWorkflow) ReplaceFlashcard(sessionID string, index int, item drafts.FlashcardItem) (View, error) {
	return w.editing(sessionID, func(s *Session) error {
		item.GroupID = s.groupID
		return s.stager.ReplaceFlashcard(index, item)
	})
}

// ReplaceQuestion swaps one quiz question during review
func (w *ReviewWorkflow) ReplaceQuestion(sessionID string, index int, question drafts.QuizQuestion) (View, error) {
	return w.editing(sessionID, func(s *Session) error {
		return s.stager.ReplaceQuestion(index, question)
	})
}

// RemoveItem deletes one draft item during review
func (w *ReviewWorkflow) RemoveItem(sessionID string, index int) (View, error) {
	return w.editing(sessionID, func(s *Session) error {
		return s.stager.RemoveItem(index)
	})
}

// SetMindmapMeta updates the mindmap's title, description and difficulty
func (w *ReviewWorkflow) SetMindmapMeta(sessionID, title, description string, difficulty drafts.Difficulty) (View, error) {
	return w.editing(sessionID, func(s *Session) error {
		return s.stager.SetMindmapMeta(title, description, difficulty)
	})
}

// StartPlacement begins the two-step node creation gesture
func (w *ReviewWorkflow) StartPlacement(sessionID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, _ *aggregates.MindmapGraph) error {
		if s.placement != PlacementIdle {
			return pkgerrors.NewConflictError("a placement gesture is already in progress")
		}
		s.placement = PlacementAwaitingLabel
		return nil
	})
}

// ProvideLabel supplies the label and arms the next canvas click
func (w *ReviewWorkflow) ProvideLabel(sessionID, label string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, _ *aggregates.MindmapGraph) error {
		if s.placement != PlacementAwaitingLabel {
			return pkgerrors.NewConflictError("no placement gesture awaiting a label")
		}
		if label == "" {
			return pkgerrors.NewValidationError("node label cannot be empty")
		}
		s.pendingLabel = label
		s.placement = PlacementAwaitingPlacement
		return nil
	})
}

// PlaceNode resolves the armed click to graph space and creates the node,
// completing the gesture.
func (w *ReviewWorkflow) PlaceNode(sessionID string, screen valueobjects.Position, transform valueobjects.ViewTransform) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		if s.placement != PlacementAwaitingPlacement {
			return pkgerrors.NewConflictError("no placement gesture awaiting a position")
		}
		if _, err := graph.AddNode(s.pendingLabel, transform.ScreenToGraph(screen)); err != nil {
			return err
		}
		s.pendingLabel = ""
		s.placement = PlacementIdle
		w.metrics.NodesPlaced.Inc()
		return nil
	})
}

// CancelPlacement abandons the gesture at either step, leaving the graph
// unmodified.
func (w *ReviewWorkflow) CancelPlacement(sessionID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, _ *aggregates.MindmapGraph) error {
		s.pendingLabel = ""
		s.placement = PlacementIdle
		return nil
	})
}

// ConnectNodes adds an edge between two existing nodes
func (w *ReviewWorkflow) ConnectNodes(sessionID, sourceID, targetID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		source, err := valueobjects.NewNodeIDFromString(sourceID)
		if err != nil {
			return err
		}
		target, err := valueobjects.NewNodeIDFromString(targetID)
		if err != nil {
			return err
		}
		if _, err := graph.AddEdge(source, target, ""); err != nil {
			return err
		}
		w.metrics.EdgesCreated.Inc()
		return nil
	})
}

// RemoveGraphNode deletes a node and every edge touching it
func (w *ReviewWorkflow) RemoveGraphNode(sessionID, nodeID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		id, err := valueobjects.NewNodeIDFromString(nodeID)
		if err != nil {
			return err
		}
		return graph.RemoveNode(id)
	})
}

// RemoveGraphEdge deletes a single edge
func (w *ReviewWorkflow) RemoveGraphEdge(sessionID, edgeID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		id, err := valueobjects.NewEdgeIDFromString(edgeID)
		if err != nil {
			return err
		}
		return graph.RemoveEdge(id)
	})
}

// MoveGraphNode repositions a node in graph space
func (w *ReviewWorkflow) MoveGraphNode(sessionID, nodeID string, position valueobjects.Position) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		id, err := valueobjects.NewNodeIDFromString(nodeID)
		if err != nil {
			return err
		}
		return graph.MoveNode(id, position)
	})
}

// RenameGraphNode relabels a node
func (w *ReviewWorkflow) RenameGraphNode(sessionID, nodeID, label string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		id, err := valueobjects.NewNodeIDFromString(nodeID)
		if err != nil {
			return err
		}
		return graph.RenameNode(id, label)
	})
}

// AutoLayout recomputes every node position with the layered layout
func (w *ReviewWorkflow) AutoLayout(sessionID string) (View, error) {
	return w.graphEditing(sessionID, func(s *Session, graph *aggregates.MindmapGraph) error {
		positions := w.layout.Layout(graph.Snapshot(), services.DefaultLayoutOptions())
		graph.ApplyPositions(positions)
		w.metrics.LayoutRuns.Inc()
		return nil
	})
}

// editing runs one draft mutation under the reviewing-state guard
func (w *ReviewWorkflow) editing(sessionID string, fn func(*Session) error) (View, error) {
	s, err := w.lookup(sessionID)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing {
		return View{}, pkgerrors.NewConflictError("draft is not editable; state is " + string(s.state))
	}
	if err := fn(s); err != nil {
		return View{}, err
	}
	s.touch()
	return s.view(), nil
}

// graphEditing additionally requires a mindmap draft
func (w *ReviewWorkflow) graphEditing(sessionID string, fn func(*Session, *aggregates.MindmapGraph) error) (View, error) {
	return w.editing(sessionID, func(s *Session) error {
		graph := s.stager.Graph()
		if graph == nil {
			return pkgerrors.NewValidationError("graph operations require a mindmap draft")
		}
		return fn(s, graph)
	})
}

func (w *ReviewWorkflow) lookup(sessionID string) (*Session, error) {
	s, ok := w.sessions.get(sessionID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("review session " + sessionID)
	}
	return s, nil
}
