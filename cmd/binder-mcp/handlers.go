package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/jotframe/binder-mcp/internal/link"
	"github.com/jotframe/binder-mcp/internal/notepath"
	"github.com/jotframe/binder-mcp/internal/orchestrator"
	"github.com/jotframe/binder-mcp/internal/planner"
	"github.com/jotframe/binder-mcp/internal/tree"
)

func handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	projected, err := orch.Refresh(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ListOutput{}, err
	}
	return nil, ListOutput{Tree: projected}, nil
}

type outlineNode struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Path     string        `yaml:"path"`
	NoteID   string        `yaml:"note_id,omitempty"`
	Children []outlineNode `yaml:"children,omitempty"`
}

func handleOutline(ctx context.Context, req *mcp.CallToolRequest, input OutlineInput) (*mcp.CallToolResult, OutlineOutput, error) {
	projected, err := orch.Refresh(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, OutlineOutput{}, err
	}

	var convert func(nodes []*tree.Node) []outlineNode
	convert = func(nodes []*tree.Node) []outlineNode {
		out := make([]outlineNode, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, outlineNode{
				Name:     n.Name,
				Kind:     string(n.Kind),
				Path:     n.Path,
				NoteID:   n.NoteID,
				Children: convert(n.Children),
			})
		}
		return out
	}

	rendered, err := yaml.Marshal(convert(projected))
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, OutlineOutput{}, fmt.Errorf("render outline: %w", err)
	}
	return nil, OutlineOutput{Outline: string(rendered)}, nil
}

func handleFind(ctx context.Context, req *mcp.CallToolRequest, input FindInput) (*mcp.CallToolResult, FindOutput, error) {
	projected, err := orch.Refresh(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, FindOutput{}, err
	}

	matches := tree.MatchTitles(projected, input.Query)
	results := make([]FindResult, 0, len(matches))
	for _, n := range matches {
		results = append(results, FindResult{
			NoteID: n.NoteID,
			Title:  n.Name,
			Folder: n.Path,
			URI:    link.NoteURI(projectID, n.NoteID),
		})
	}
	return nil, FindOutput{Results: results, Total: len(results)}, nil
}

func handleCreateNote(ctx context.Context, req *mcp.CallToolRequest, input CreateNoteInput) (*mcp.CallToolResult, CreateNoteOutput, error) {
	folder := input.Folder
	if strings.TrimSpace(folder) == "" {
		folder = notepath.Root
	}

	plan, err := planner.CreateNote(input.Title, folder)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CreateNoteOutput{}, err
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CreateNoteOutput{}, err
	}
	if busy {
		return nil, CreateNoteOutput{Success: false}, nil
	}
	return nil, CreateNoteOutput{
		Success: true,
		NoteID:  plan[0].Note.NoteID,
		Folder:  plan[0].Note.FolderPath,
	}, nil
}

func handleCreateFolder(ctx context.Context, req *mcp.CallToolRequest, input CreateFolderInput) (*mcp.CallToolResult, CreateFolderOutput, error) {
	parent := input.Parent
	if strings.TrimSpace(parent) == "" {
		parent = notepath.Root
	}

	plan, err := planner.CreateFolder(input.Name, parent)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CreateFolderOutput{}, err
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, CreateFolderOutput{}, err
	}
	if busy {
		return nil, CreateFolderOutput{Success: false}, nil
	}
	return nil, CreateFolderOutput{Success: true, Path: plan[0].Note.FolderPath}, nil
}

func handleRenameFolder(ctx context.Context, req *mcp.CallToolRequest, input RenameFolderInput) (*mcp.CallToolResult, RenameFolderOutput, error) {
	snap, err := rawSnapshot(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RenameFolderOutput{}, err
	}

	plan, err := planner.RenameFolder(snap, input.Path, input.NewName)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RenameFolderOutput{OldPath: input.Path}, err
	}
	if len(plan) == 0 {
		return nil, RenameFolderOutput{
			Success: true,
			OldPath: input.Path,
			Message: "folder already has that name",
		}, nil
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, RenameFolderOutput{OldPath: input.Path}, err
	}
	if busy {
		return nil, RenameFolderOutput{Success: false, OldPath: input.Path, Message: busyMessage}, nil
	}
	return nil, RenameFolderOutput{
		Success: true,
		OldPath: plan[0].OldPath,
		NewPath: plan[0].NewPath,
	}, nil
}

func handleMove(ctx context.Context, req *mcp.CallToolRequest, input MoveInput) (*mcp.CallToolResult, MoveOutput, error) {
	snap, err := rawSnapshot(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, MoveOutput{}, err
	}

	plan, err := planner.Move(snap, planner.MoveRequest{
		Kind:         tree.Kind(input.Kind),
		Path:         input.Path,
		NoteID:       input.NoteID,
		TargetParent: input.TargetParent,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, MoveOutput{}, err
	}
	if len(plan) == 0 {
		return nil, MoveOutput{Success: true, Message: "already in that location"}, nil
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, MoveOutput{}, err
	}
	if busy {
		return nil, MoveOutput{Success: false, Message: busyMessage}, nil
	}
	return nil, MoveOutput{Success: true}, nil
}

func handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest, input DeleteNoteInput) (*mcp.CallToolResult, DeleteNoteOutput, error) {
	if input.Confirm != "yes" {
		return &mcp.CallToolResult{IsError: true}, DeleteNoteOutput{},
			fmt.Errorf("deletion not confirmed: set confirm='yes' to proceed")
	}

	plan, err := planner.DeleteNote(input.NoteID)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, DeleteNoteOutput{}, err
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, DeleteNoteOutput{}, err
	}
	if busy {
		return nil, DeleteNoteOutput{Success: false, Message: busyMessage}, nil
	}
	return nil, DeleteNoteOutput{Success: true}, nil
}

func handleDeleteFolder(ctx context.Context, req *mcp.CallToolRequest, input DeleteFolderInput) (*mcp.CallToolResult, DeleteFolderOutput, error) {
	if input.Confirm != "yes" {
		return &mcp.CallToolResult{IsError: true}, DeleteFolderOutput{},
			fmt.Errorf("deletion not confirmed: set confirm='yes' to proceed")
	}

	plan, err := planner.DeleteFolder(input.Path)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, DeleteFolderOutput{}, err
	}

	busy, err := applyPlan(ctx, plan)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, DeleteFolderOutput{}, err
	}
	if busy {
		return nil, DeleteFolderOutput{Success: false, Message: busyMessage}, nil
	}
	return nil, DeleteFolderOutput{Success: true}, nil
}

func handleRefresh(ctx context.Context, req *mcp.CallToolRequest, input RefreshInput) (*mcp.CallToolResult, RefreshOutput, error) {
	if _, err := orch.Refresh(ctx); err != nil {
		return &mcp.CallToolResult{IsError: true}, RefreshOutput{}, err
	}
	state, _ := orch.State()
	return nil, RefreshOutput{Success: true, State: string(state)}, nil
}

const busyMessage = "another operation is in progress; request ignored"

// rawSnapshot returns the unprojected snapshot the planner validates
// against, fetching one if the server has none yet.
func rawSnapshot(ctx context.Context) ([]*tree.Node, error) {
	if snap := orch.Raw(); snap != nil {
		return snap, nil
	}
	if _, err := orch.Refresh(ctx); err != nil {
		return nil, err
	}
	return orch.Raw(), nil
}

// applyPlan executes a plan. A concurrent-mutation rejection is reported
// as busy=true rather than an error; a refresh failure after an applied
// mutation is logged but not an error either, since the mutation stands.
func applyPlan(ctx context.Context, plan planner.Plan) (busy bool, err error) {
	err = orch.Apply(ctx, plan)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, orchestrator.ErrBusy) {
		return true, nil
	}
	var refreshErr *orchestrator.RefreshError
	if errors.As(err, &refreshErr) {
		logger.Warn().Err(refreshErr).Msg("tree refresh failed after mutation")
		return false, nil
	}
	return false, err
}
