// Package store defines the contract with the JotFrame notes backend and
// provides its HTTP client implementation.
//
// The backend persists notes flat: every note carries a folder_path string
// and there is no folder entity of any kind. Folder structure is entirely
// derived by the callers of this package.
package store

import (
	"context"
	"time"
)

// Node types reported by the backend tree payload.
const (
	TypeFolder = "folder"
	TypeNote   = "note"
)

type (
	// Note is the flat note record as stored by the backend. FolderPath
	// is the only structural field.
	Note struct {
		NoteID       string    `json:"note_id"`
		Title        string    `json:"title"`
		Content      string    `json:"content"`
		FolderPath   string    `json:"folder_path"`
		LastModified time.Time `json:"last_modified"`
	}

	// NoteUpdate describes a partial note update. Nil fields are left
	// untouched by the backend.
	NoteUpdate struct {
		FolderPath *string `json:"folder_path,omitempty"`
	}

	// RawNode is a node of the fetched tree payload before projection.
	// The backend may return notes pre-nested under folder nodes or as a
	// flat list; FetchTree normalizes both shapes to RawNode values.
	RawNode struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Type         string    `json:"type"`
		Path         string    `json:"path"`
		NoteID       string    `json:"note_id,omitempty"`
		LastModified time.Time `json:"last_modified,omitempty"`
		Children     []RawNode `json:"children,omitempty"`
	}
)

// Store is the persistence contract consumed by the mutation engine. Every
// call is a remote request and may fail with an *APIError.
type Store interface {
	// FetchTree returns the project's notes, either nested or flat.
	FetchTree(ctx context.Context, projectID string) ([]RawNode, error)

	// CreateNote stores a new note. The note_id is caller-generated and
	// must be globally unique.
	CreateNote(ctx context.Context, projectID string, note Note) (*Note, error)

	// UpdateNote applies a partial update to an existing note.
	UpdateNote(ctx context.Context, projectID, noteID string, upd NoteUpdate) (*Note, error)

	// DeleteNote removes a single note.
	DeleteNote(ctx context.Context, projectID, noteID string) error

	// DeleteFolder removes every note at path and, when recursive, at
	// every descendant path. The backend only supports recursive folder
	// deletion.
	DeleteFolder(ctx context.Context, projectID, path string, recursive bool) error

	// RenameFolder re-points every note at oldPath or below to the
	// equivalent path under newPath, atomically from the caller's view.
	RenameFolder(ctx context.Context, projectID, oldPath, newPath string) error
}
