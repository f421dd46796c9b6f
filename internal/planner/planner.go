// Package planner turns tree-level binder operations into ordered lists of
// flat store calls, without executing them. All validation happens here,
// before anything reaches the backend.
package planner

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jotframe/binder-mcp/internal/notepath"
	"github.com/jotframe/binder-mcp/internal/store"
	"github.com/jotframe/binder-mcp/internal/tree"
)

// MoveRequest describes a drag-and-drop move. The source location travels
// inside the request value; there is no shared drag state anywhere else.
// For notes, Path is the stored folder_path and NoteID identifies the
// note. For folders, Path is the folder's own path.
type MoveRequest struct {
	Kind         tree.Kind
	Path         string
	NoteID       string
	TargetParent string
}

// CreateNote plans the creation of an empty note in the given folder.
func CreateNote(title, folderPath string) (Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationf("note title cannot be empty")
	}
	if strings.Contains(title, notepath.Separator) {
		return nil, validationf("note title cannot contain %q", notepath.Separator)
	}
	if tree.IsSentinel(title) {
		return nil, validationf("note title %q is reserved", title)
	}
	return Plan{{
		Op: OpCreateNote,
		Note: store.Note{
			NoteID:     uuid.NewString(),
			Title:      title,
			Content:    "",
			FolderPath: notepath.Clean(folderPath),
		},
	}}, nil
}

// CreateFolder plans the creation of an empty folder under parentPath.
// Folders are never created directly: existence is encoded by writing a
// sentinel note at the new path.
func CreateFolder(name, parentPath string) (Plan, error) {
	path, err := notepath.Join(parentPath, name)
	if err != nil {
		return nil, validationf("folder name %q is invalid", strings.TrimSpace(name))
	}
	return Plan{{
		Op: OpCreateNote,
		Note: store.Note{
			NoteID:     uuid.NewString(),
			Title:      tree.SentinelTitle,
			Content:    "",
			FolderPath: path,
		},
	}}, nil
}

// RenameFolder plans renaming the folder at oldPath to newName, keeping
// its parent. Renaming to the current name is a no-op.
func RenameFolder(snapshot []*tree.Node, oldPath, newName string) (Plan, error) {
	oldPath = notepath.Clean(oldPath)
	if notepath.IsRoot(oldPath) {
		return nil, validationf("the root folder cannot be renamed")
	}
	if tree.FindFolder(snapshot, oldPath) == nil {
		return nil, validationf("unknown folder %q", oldPath)
	}
	if strings.TrimSpace(newName) == notepath.Name(oldPath) {
		return Plan{}, nil
	}
	newPath, err := notepath.Join(notepath.Parent(oldPath), newName)
	if err != nil {
		return nil, validationf("folder name %q is invalid", strings.TrimSpace(newName))
	}
	return Plan{{Op: OpRenameFolder, OldPath: oldPath, NewPath: newPath}}, nil
}

// DeleteNote plans the deletion of a single note.
func DeleteNote(noteID string) (Plan, error) {
	if strings.TrimSpace(noteID) == "" {
		return nil, validationf("note id cannot be empty")
	}
	return Plan{{Op: OpDeleteNote, NoteID: noteID}}, nil
}

// DeleteFolder plans the recursive deletion of a folder and every note
// beneath it.
func DeleteFolder(path string) (Plan, error) {
	path = notepath.Clean(path)
	if notepath.IsRoot(path) {
		return nil, validationf("the root folder cannot be deleted")
	}
	return Plan{{Op: OpDeleteFolder, FolderPath: path, Recursive: true}}, nil
}

// Move plans a drag-and-drop move against the given snapshot. Moving to
// the current parent is a same-location reorder and plans nothing, since
// sibling ordering is not persisted.
func Move(snapshot []*tree.Node, req MoveRequest) (Plan, error) {
	target := notepath.Clean(req.TargetParent)
	if !notepath.IsRoot(target) && tree.FindFolder(snapshot, target) == nil {
		return nil, validationf("drop target %q is not a folder", target)
	}

	switch req.Kind {
	case tree.KindNote:
		return moveNote(snapshot, req, target)
	case tree.KindFolder:
		return moveFolder(snapshot, req, target)
	default:
		return nil, validationf("unknown node kind %q", req.Kind)
	}
}

func moveNote(snapshot []*tree.Node, req MoveRequest, target string) (Plan, error) {
	if strings.TrimSpace(req.NoteID) == "" {
		return nil, validationf("note id cannot be empty")
	}
	source := notepath.Clean(req.Path)
	if target == source {
		return Plan{}, nil
	}

	var plan Plan
	if call, needed := Retain(snapshot, source, req.NoteID); needed {
		plan = append(plan, call)
	}
	plan = append(plan, Call{
		Op:         OpUpdateNotePath,
		NoteID:     req.NoteID,
		FolderPath: target,
	})
	return plan, nil
}

func moveFolder(snapshot []*tree.Node, req MoveRequest, target string) (Plan, error) {
	source := notepath.Clean(req.Path)
	if notepath.IsRoot(source) {
		return nil, validationf("the root folder cannot be moved")
	}
	if notepath.SelfOrDescendant(source, target) {
		return nil, validationf("cannot move a folder into itself or its descendants")
	}
	if tree.FindFolder(snapshot, source) == nil {
		return nil, validationf("unknown folder %q", source)
	}
	if target == notepath.Parent(source) {
		return Plan{}, nil
	}
	newPath, err := notepath.Join(target, notepath.Name(source))
	if err != nil {
		return nil, validationf("folder name %q is invalid", notepath.Name(source))
	}
	// The folder itself survives at the new path, so no retention call is
	// needed for its old parent's sake here.
	return Plan{{Op: OpRenameFolder, OldPath: source, NewPath: newPath}}, nil
}

// Retain is the folder retention guard. It decides whether removing the
// note excludeNoteID from folderPath would leave the folder with no notes
// at all in the flat list, and if so returns a best-effort sentinel
// creation call that keeps the folder visible across the next refresh.
// An existing sentinel counts as an occupant, so at most one sentinel
// ever exists per folder.
func Retain(snapshot []*tree.Node, folderPath, excludeNoteID string) (Call, bool) {
	folderPath = notepath.Clean(folderPath)
	if notepath.IsRoot(folderPath) {
		return Call{}, false
	}
	folder := tree.FindFolder(snapshot, folderPath)
	if folder == nil {
		return Call{}, false
	}
	for _, child := range folder.Children {
		if child.Kind == tree.KindNote && child.NoteID != excludeNoteID {
			return Call{}, false
		}
	}
	return Call{
		Op:         OpCreateNote,
		BestEffort: true,
		Note: store.Note{
			NoteID:     uuid.NewString(),
			Title:      tree.SentinelTitle,
			Content:    "",
			FolderPath: folderPath,
		},
	}, true
}

// IsValidation reports whether err is a planner rejection.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
