// Package tree builds the in-memory binder tree from the backend's flat
// note records and strips the sentinel placeholders before presentation.
//
// Folders are not stored entities: a folder exists exactly when at least
// one note (sentinel or real) carries its path. Everything here is a pure
// transform over fetched data; nodes are rebuilt from scratch on every
// fetch and carry no identity across refreshes beyond path and id equality.
package tree

import (
	"sort"
	"strings"
	"time"

	"github.com/jotframe/binder-mcp/internal/notepath"
	"github.com/jotframe/binder-mcp/internal/store"
)

// SentinelTitle is the reserved title of placeholder notes that keep an
// otherwise-empty folder observable in the flat list. User notes may never
// use it.
const SentinelTitle = ".folder"

// Kind distinguishes the two node variants.
type Kind string

const (
	KindFolder Kind = "folder"
	KindNote   Kind = "note"
)

// Node is a node of the derived binder tree. For folders, Path is the
// folder's own absolute path and ID equals Path. For notes, Path is the
// containing folder's path and ID equals NoteID.
type Node struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	NoteID       string    `json:"note_id,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
	Children     []*Node   `json:"children,omitempty"`
}

// IsSentinel reports whether a note title is the reserved placeholder
// marker.
func IsSentinel(title string) bool {
	return title == SentinelTitle
}

// Build assembles the binder tree from fetched raw nodes. The input may be
// a flat note list or a pre-nested tree; both normalize to the same
// output. A folder node is materialized for every segment prefix of every
// observed path, so no ancestor is ever missing. Sentinel notes are kept;
// Project removes them.
func Build(raw []store.RawNode) []*Node {
	b := &builder{folders: make(map[string]*Node)}
	b.collect(raw)

	roots := make([]*Node, 0, len(b.folders))
	for path, folder := range b.folders {
		parent := notepath.Parent(path)
		if notepath.IsRoot(parent) {
			roots = append(roots, folder)
			continue
		}
		p := b.folders[parent]
		p.Children = append(p.Children, folder)
	}
	for _, note := range b.notes {
		if notepath.IsRoot(note.Path) {
			roots = append(roots, note)
			continue
		}
		p := b.folders[note.Path]
		p.Children = append(p.Children, note)
	}

	sortNodes(roots)
	return roots
}

type builder struct {
	folders map[string]*Node
	notes   []*Node
}

func (b *builder) collect(raw []store.RawNode) {
	for _, r := range raw {
		switch r.Type {
		case store.TypeFolder:
			b.folder(notepath.Clean(r.Path))
			b.collect(r.Children)
		case store.TypeNote:
			path := notepath.Clean(r.Path)
			b.folder(path)
			b.notes = append(b.notes, &Node{
				ID:           r.NoteID,
				Kind:         KindNote,
				Name:         r.Name,
				Path:         path,
				NoteID:       r.NoteID,
				LastModified: r.LastModified,
			})
		}
	}
}

// folder ensures a folder node exists for path and every ancestor of it.
func (b *builder) folder(path string) {
	for !notepath.IsRoot(path) {
		if _, ok := b.folders[path]; ok {
			return
		}
		b.folders[path] = &Node{
			ID:   path,
			Kind: KindFolder,
			Name: notepath.Name(path),
			Path: path,
		}
		path = notepath.Parent(path)
	}
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Kind != b.Kind {
			return a.Kind == KindFolder
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Project returns the presentation view of the tree: sentinel notes are
// removed recursively, folders are kept even when that leaves them with no
// children. Projecting an already-projected tree is a no-op.
func Project(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == KindNote && IsSentinel(n.Name) {
			continue
		}
		copied := *n
		copied.Children = Project(n.Children)
		out = append(out, &copied)
	}
	return out
}

// FindFolder returns the folder node with the given path, or nil.
func FindFolder(nodes []*Node, path string) *Node {
	path = notepath.Clean(path)
	for _, n := range nodes {
		if n.Kind != KindFolder {
			continue
		}
		if n.Path == path {
			return n
		}
		if notepath.SelfOrDescendant(n.Path, path) {
			if found := FindFolder(n.Children, path); found != nil {
				return found
			}
		}
	}
	return nil
}

// NoteByID returns the note node with the given note id, or nil.
func NoteByID(nodes []*Node, noteID string) *Node {
	for _, n := range nodes {
		if n.Kind == KindNote && n.NoteID == noteID {
			return n
		}
		if found := NoteByID(n.Children, noteID); found != nil {
			return found
		}
	}
	return nil
}

// HasVisibleNotes reports whether the folder at folderPath has at least
// one non-sentinel note among its direct children. Notes in subfolders do
// not count. The root always reports true: it exists implicitly and never
// needs retention.
func HasVisibleNotes(nodes []*Node, folderPath string) bool {
	folderPath = notepath.Clean(folderPath)
	if notepath.IsRoot(folderPath) {
		return true
	}
	folder := FindFolder(nodes, folderPath)
	if folder == nil {
		return false
	}
	for _, child := range folder.Children {
		if child.Kind == KindNote && !IsSentinel(child.Name) {
			return true
		}
	}
	return false
}

// MatchTitles returns the paths and ids of notes whose title contains the
// query, case-insensitively. Sentinel notes never match.
func MatchTitles(nodes []*Node, query string) []*Node {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*Node
	var walk func([]*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			if n.Kind == KindNote && !IsSentinel(n.Name) &&
				strings.Contains(strings.ToLower(n.Name), query) {
				out = append(out, n)
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}
