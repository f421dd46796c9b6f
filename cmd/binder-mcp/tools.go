package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jotframe/binder-mcp/internal/tree"
)

type (
	// ListInput contains parameters for listing the binder tree.
	ListInput struct{}

	// ListOutput contains the projected binder tree.
	ListOutput struct {
		Tree []*tree.Node `json:"tree"`
	}

	// OutlineInput contains parameters for rendering the binder outline.
	OutlineInput struct{}

	// OutlineOutput contains the YAML outline of the binder.
	OutlineOutput struct {
		Outline string `json:"outline"`
	}

	// FindInput contains parameters for searching note titles.
	FindInput struct {
		Query string `json:"query" jsonschema:"Substring to match against note titles, case-insensitively"`
	}

	// FindResult is one matching note.
	FindResult struct {
		NoteID string `json:"noteId"`
		Title  string `json:"title"`
		Folder string `json:"folder"`
		URI    string `json:"uri"`
	}

	// FindOutput contains title search results.
	FindOutput struct {
		Results []FindResult `json:"results"`
		Total   int          `json:"total"`
	}

	// CreateNoteInput contains parameters for creating a note.
	CreateNoteInput struct {
		Title  string `json:"title" jsonschema:"Title of the new note"`
		Folder string `json:"folder,omitempty" jsonschema:"Folder path to create the note in (default: /)"`
	}

	// CreateNoteOutput contains the result of creating a note.
	CreateNoteOutput struct {
		Success bool   `json:"success"`
		NoteID  string `json:"noteId,omitempty"`
		Folder  string `json:"folder,omitempty"`
	}

	// CreateFolderInput contains parameters for creating a folder.
	CreateFolderInput struct {
		Name   string `json:"name" jsonschema:"Name of the new folder"`
		Parent string `json:"parent,omitempty" jsonschema:"Parent folder path (default: /)"`
	}

	// CreateFolderOutput contains the result of creating a folder.
	CreateFolderOutput struct {
		Success bool   `json:"success"`
		Path    string `json:"path,omitempty"`
	}

	// RenameFolderInput contains parameters for renaming a folder.
	RenameFolderInput struct {
		Path    string `json:"path" jsonschema:"Current folder path"`
		NewName string `json:"newName" jsonschema:"New name for the folder (a single segment, not a path)"`
	}

	// RenameFolderOutput contains the result of renaming a folder.
	RenameFolderOutput struct {
		Success bool   `json:"success"`
		OldPath string `json:"oldPath"`
		NewPath string `json:"newPath,omitempty"`
		Message string `json:"message,omitempty"`
	}

	// MoveInput contains parameters for moving a note or folder. It
	// carries the source location explicitly; there is no implicit drag
	// state between calls.
	MoveInput struct {
		Kind         string `json:"kind" jsonschema:"What is being moved: 'note' or 'folder'"`
		Path         string `json:"path" jsonschema:"For a note, its current folder path; for a folder, the folder's own path"`
		NoteID       string `json:"noteId,omitempty" jsonschema:"Note id (required when kind='note')"`
		TargetParent string `json:"targetParent" jsonschema:"Folder path to move into ('/' for the top level)"`
	}

	// MoveOutput contains the result of a move.
	MoveOutput struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	// DeleteNoteInput contains parameters for deleting a note.
	DeleteNoteInput struct {
		NoteID  string `json:"noteId" jsonschema:"Id of the note to delete"`
		Confirm string `json:"confirm" jsonschema:"Must be set to 'yes' to confirm deletion"`
	}

	// DeleteNoteOutput contains the result of deleting a note.
	DeleteNoteOutput struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	// DeleteFolderInput contains parameters for deleting a folder.
	DeleteFolderInput struct {
		Path    string `json:"path" jsonschema:"Path of the folder to delete"`
		Confirm string `json:"confirm" jsonschema:"Must be set to 'yes' to confirm recursive deletion"`
	}

	// DeleteFolderOutput contains the result of deleting a folder.
	DeleteFolderOutput struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	// RefreshInput contains parameters for refreshing the tree.
	RefreshInput struct{}

	// RefreshOutput contains the result of a refresh.
	RefreshOutput struct {
		Success bool   `json:"success"`
		State   string `json:"state"`
	}
)

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list",
		Description: "List the project's binder tree: folders and notes, freshly fetched. Empty folders are preserved.",
	}, handleList)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "outline",
		Description: "Render the binder as a YAML outline, convenient for reading the overall structure at a glance.",
	}, handleOutline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find",
		Description: "Find notes by title substring, case-insensitively. Returns each match with its folder path and deep link.",
	}, handleFind)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_note",
		Description: "Create an empty note with the given title in a folder ('/' by default).",
	}, handleCreateNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_folder",
		Description: "Create an empty folder under a parent folder ('/' by default). The folder stays visible even while empty.",
	}, handleCreateFolder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename_folder",
		Description: "Rename a folder in place. Every note beneath it keeps its relative location. The root cannot be renamed.",
	}, handleRenameFolder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move",
		Description: "Move a note or a folder into another folder. Moving a folder into itself or one of its descendants is rejected; moving to the current location is a no-op.",
	}, handleMove)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a single note. Requires confirm='yes' for safety.",
	}, handleDeleteNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_folder",
		Description: "Delete a folder and every note beneath it, recursively. Requires confirm='yes' for safety. The root cannot be deleted.",
	}, handleDeleteFolder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh",
		Description: "Re-fetch the binder tree from the backend. An extra refresh is always harmless.",
	}, handleRefresh)
}
