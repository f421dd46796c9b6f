package planner

import "github.com/jotframe/binder-mcp/internal/store"

// Op identifies which store call a planned step performs.
type Op string

const (
	OpCreateNote     Op = "create_note"
	OpUpdateNotePath Op = "update_note_path"
	OpDeleteNote     Op = "delete_note"
	OpDeleteFolder   Op = "delete_folder"
	OpRenameFolder   Op = "rename_folder"
)

type (
	// Call is one store call described as data. Only the fields relevant
	// to its Op are set. BestEffort calls keep a folder visible; their
	// failure is logged and swallowed by the executor instead of aborting
	// the plan, because losing an empty folder from view is a lesser
	// failure than losing user content.
	Call struct {
		Op         Op
		BestEffort bool

		// OpCreateNote
		Note store.Note

		// OpUpdateNotePath, OpDeleteNote
		NoteID string

		// OpUpdateNotePath target folder; OpDeleteFolder path
		FolderPath string

		// OpDeleteFolder
		Recursive bool

		// OpRenameFolder
		OldPath string
		NewPath string
	}

	// Plan is the ordered list of store calls an operation requires. An
	// empty plan is a validated no-op.
	Plan []Call
)
