// Package orchestrator serializes binder mutations: it executes planned
// store calls in order, at most one plan at a time, and keeps the current
// tree snapshot fresh.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jotframe/binder-mcp/internal/planner"
	"github.com/jotframe/binder-mcp/internal/store"
	"github.com/jotframe/binder-mcp/internal/tree"
)

// State is the orchestrator's externally visible condition.
type State string

const (
	StateIdle  State = "idle"
	StateBusy  State = "busy"
	StateError State = "error"
)

// ErrBusy rejects a mutation requested while another is in flight. It is
// ignored by design at the surface layer rather than shown as a failure;
// the guard exists independently of any UI disablement.
var ErrBusy = errors.New("another operation is in progress")

// RefreshError reports that a mutation was applied but the follow-up tree
// refetch failed. The mutation is not rolled back.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("mutation applied but refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Orchestrator drives planned mutations against the store for a single
// project and owns the last fetched tree snapshot.
type Orchestrator struct {
	store     store.Store
	projectID string
	log       zerolog.Logger

	mu        sync.Mutex
	state     State
	lastError string
	raw       []*tree.Node
	projected []*tree.Node
}

// New creates an idle orchestrator. Call Refresh before planning against
// the snapshot.
func New(st store.Store, projectID string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:     st,
		projectID: projectID,
		log:       log,
		state:     StateIdle,
	}
}

// State returns the current state and, for StateError, its message.
func (o *Orchestrator) State() (State, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.lastError
}

// Raw returns the last fetched snapshot with sentinels included. The
// planner and retention guard operate on this view.
func (o *Orchestrator) Raw() []*tree.Node {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.raw
}

// Snapshot returns the presentation view of the last fetched tree.
func (o *Orchestrator) Snapshot() []*tree.Node {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.projected
}

// Refresh re-fetches the project tree and rebuilds both snapshots. It is
// safe to call at any time; an extra refresh is a harmless no-op.
func (o *Orchestrator) Refresh(ctx context.Context) ([]*tree.Node, error) {
	rawNodes, err := o.store.FetchTree(ctx, o.projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch tree: %w", err)
	}
	built := tree.Build(rawNodes)
	projected := tree.Project(built)

	o.mu.Lock()
	o.raw = built
	o.projected = projected
	o.mu.Unlock()

	return projected, nil
}

// Apply executes a plan's calls strictly in order. A request arriving
// while another plan is in flight fails with ErrBusy before any store
// contact. Best-effort calls log and swallow their failures; a primary
// call's failure moves the orchestrator to StateError and abandons the
// rest of the plan, leaving earlier calls applied. On success the tree is
// refetched; a refetch failure surfaces as *RefreshError without undoing
// the mutation.
func (o *Orchestrator) Apply(ctx context.Context, plan planner.Plan) error {
	if len(plan) == 0 {
		return nil
	}
	if !o.begin() {
		o.log.Debug().Msg("mutation rejected: busy")
		return ErrBusy
	}

	for _, call := range plan {
		err := o.execute(ctx, call)
		if err == nil {
			continue
		}
		if call.BestEffort {
			o.log.Warn().Str("op", string(call.Op)).Err(err).
				Msg("best-effort call failed, continuing")
			continue
		}
		o.fail(err.Error())
		return fmt.Errorf("%s: %w", call.Op, err)
	}

	if _, err := o.Refresh(ctx); err != nil {
		o.fail(err.Error())
		return &RefreshError{Err: err}
	}

	o.settle()
	return nil
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateBusy {
		return false
	}
	o.state = StateBusy
	o.lastError = ""
	return true
}

func (o *Orchestrator) fail(msg string) {
	o.mu.Lock()
	o.state = StateError
	o.lastError = msg
	o.mu.Unlock()
	o.log.Error().Str("error", msg).Msg("mutation failed")
}

func (o *Orchestrator) settle() {
	o.mu.Lock()
	o.state = StateIdle
	o.lastError = ""
	o.mu.Unlock()
}

func (o *Orchestrator) execute(ctx context.Context, call planner.Call) error {
	switch call.Op {
	case planner.OpCreateNote:
		_, err := o.store.CreateNote(ctx, o.projectID, call.Note)
		return err
	case planner.OpUpdateNotePath:
		folderPath := call.FolderPath
		_, err := o.store.UpdateNote(ctx, o.projectID, call.NoteID, store.NoteUpdate{
			FolderPath: &folderPath,
		})
		return err
	case planner.OpDeleteNote:
		return o.store.DeleteNote(ctx, o.projectID, call.NoteID)
	case planner.OpDeleteFolder:
		return o.store.DeleteFolder(ctx, o.projectID, call.FolderPath, call.Recursive)
	case planner.OpRenameFolder:
		return o.store.RenameFolder(ctx, o.projectID, call.OldPath, call.NewPath)
	default:
		return fmt.Errorf("unknown op %q", call.Op)
	}
}
