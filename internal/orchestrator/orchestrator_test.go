package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotframe/binder-mcp/internal/planner"
	"github.com/jotframe/binder-mcp/internal/store"
	"github.com/jotframe/binder-mcp/internal/tree"
)

// fakeStore records every call and serves canned responses.
type fakeStore struct {
	mu    sync.Mutex
	calls []string

	fetchNodes []store.RawNode
	fetchErr   error

	createErr map[string]error // keyed by title
	updateErr error
	deleteErr error
	renameErr error

	blockCreate chan struct{} // when set, CreateNote waits until closed
}

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeStore) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) FetchTree(ctx context.Context, projectID string) ([]store.RawNode, error) {
	f.record("fetch")
	return f.fetchNodes, f.fetchErr
}

func (f *fakeStore) CreateNote(ctx context.Context, projectID string, n store.Note) (*store.Note, error) {
	if f.blockCreate != nil {
		<-f.blockCreate
	}
	f.record("create:" + n.Title + "@" + n.FolderPath)
	if err := f.createErr[n.Title]; err != nil {
		return nil, err
	}
	return &n, nil
}

func (f *fakeStore) UpdateNote(ctx context.Context, projectID, noteID string, upd store.NoteUpdate) (*store.Note, error) {
	path := ""
	if upd.FolderPath != nil {
		path = *upd.FolderPath
	}
	f.record("update:" + noteID + "->" + path)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &store.Note{NoteID: noteID, FolderPath: path}, nil
}

func (f *fakeStore) DeleteNote(ctx context.Context, projectID, noteID string) error {
	f.record("deleteNote:" + noteID)
	return f.deleteErr
}

func (f *fakeStore) DeleteFolder(ctx context.Context, projectID, path string, recursive bool) error {
	f.record("deleteFolder:" + path)
	return f.deleteErr
}

func (f *fakeStore) RenameFolder(ctx context.Context, projectID, oldPath, newPath string) error {
	f.record("rename:" + oldPath + "->" + newPath)
	return f.renameErr
}

func newTestOrchestrator(f *fakeStore) *Orchestrator {
	return New(f, "p1", zerolog.Nop())
}

func TestApplyExecutesCallsInOrder(t *testing.T) {
	f := &fakeStore{}
	o := newTestOrchestrator(f)

	plan := planner.Plan{
		{Op: planner.OpCreateNote, BestEffort: true, Note: store.Note{Title: tree.SentinelTitle, FolderPath: "/Drafts"}},
		{Op: planner.OpUpdateNotePath, NoteID: "n1", FolderPath: "/Final"},
	}

	err := o.Apply(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create:.folder@/Drafts",
		"update:n1->/Final",
		"fetch",
	}, f.recorded())

	state, msg := o.State()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, msg)
}

func TestApplyEmptyPlanMakesNoCalls(t *testing.T) {
	f := &fakeStore{}
	o := newTestOrchestrator(f)

	err := o.Apply(context.Background(), planner.Plan{})
	require.NoError(t, err)
	assert.Empty(t, f.recorded())
}

func TestApplyBestEffortFailureIsSwallowed(t *testing.T) {
	f := &fakeStore{createErr: map[string]error{tree.SentinelTitle: errors.New("boom")}}
	o := newTestOrchestrator(f)

	plan := planner.Plan{
		{Op: planner.OpCreateNote, BestEffort: true, Note: store.Note{Title: tree.SentinelTitle, FolderPath: "/Drafts"}},
		{Op: planner.OpUpdateNotePath, NoteID: "n1", FolderPath: "/Final"},
	}

	err := o.Apply(context.Background(), plan)
	require.NoError(t, err)

	// The primary call still ran after the swallowed retention failure.
	assert.Contains(t, f.recorded(), "update:n1->/Final")

	state, _ := o.State()
	assert.Equal(t, StateIdle, state)
}

func TestApplyPrimaryFailureStopsPlan(t *testing.T) {
	f := &fakeStore{updateErr: errors.New("remote: kaput")}
	o := newTestOrchestrator(f)

	plan := planner.Plan{
		{Op: planner.OpUpdateNotePath, NoteID: "n1", FolderPath: "/Final"},
		{Op: planner.OpDeleteNote, NoteID: "n2"},
	}

	err := o.Apply(context.Background(), plan)
	require.Error(t, err)

	calls := f.recorded()
	assert.NotContains(t, calls, "deleteNote:n2")
	assert.NotContains(t, calls, "fetch")

	state, msg := o.State()
	assert.Equal(t, StateError, state)
	assert.Contains(t, msg, "kaput")
}

func TestApplyRefreshFailureIsNonFatal(t *testing.T) {
	f := &fakeStore{fetchErr: errors.New("network: down")}
	o := newTestOrchestrator(f)

	plan := planner.Plan{{Op: planner.OpDeleteNote, NoteID: "n1"}}

	err := o.Apply(context.Background(), plan)
	require.Error(t, err)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)

	// The mutation itself went through.
	assert.Contains(t, f.recorded(), "deleteNote:n1")
}

func TestApplyRejectsConcurrentMutations(t *testing.T) {
	f := &fakeStore{blockCreate: make(chan struct{})}
	o := newTestOrchestrator(f)

	first := planner.Plan{{Op: planner.OpCreateNote, Note: store.Note{Title: "A", FolderPath: "/"}}}
	second := planner.Plan{{Op: planner.OpDeleteNote, NoteID: "n1"}}

	done := make(chan error, 1)
	go func() {
		done <- o.Apply(context.Background(), first)
	}()

	// Wait until the first mutation is visibly in flight.
	for {
		if state, _ := o.State(); state == StateBusy {
			break
		}
		time.Sleep(time.Millisecond)
	}

	err := o.Apply(context.Background(), second)
	require.ErrorIs(t, err, ErrBusy)

	close(f.blockCreate)
	require.NoError(t, <-done)

	// The rejected request issued no store calls.
	assert.NotContains(t, f.recorded(), "deleteNote:n1")

	state, _ := o.State()
	assert.Equal(t, StateIdle, state)
}

func TestRefreshBuildsProjectedSnapshot(t *testing.T) {
	f := &fakeStore{fetchNodes: []store.RawNode{
		{ID: "n1", Name: tree.SentinelTitle, Type: store.TypeNote, Path: "/Drafts", NoteID: "n1"},
		{ID: "n2", Name: "Scene", Type: store.TypeNote, Path: "/Drafts", NoteID: "n2"},
	}}
	o := newTestOrchestrator(f)

	projected, err := o.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, projected, 1)
	require.Len(t, projected[0].Children, 1)
	assert.Equal(t, "Scene", projected[0].Children[0].Name)

	// The raw snapshot keeps the sentinel for retention checks.
	raw := o.Raw()
	require.Len(t, raw, 1)
	assert.Len(t, raw[0].Children, 2)
}

func TestRefreshErrorLeavesStateAlone(t *testing.T) {
	f := &fakeStore{fetchErr: errors.New("nope")}
	o := newTestOrchestrator(f)

	_, err := o.Refresh(context.Background())
	require.Error(t, err)

	state, _ := o.State()
	assert.Equal(t, StateIdle, state)
}
