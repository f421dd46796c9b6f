package tree

import (
	"testing"
	"time"

	"github.com/jotframe/binder-mcp/internal/store"
)

func flatNote(noteID, title, folderPath string) store.RawNode {
	return store.RawNode{
		ID:           noteID,
		Name:         title,
		Type:         store.TypeNote,
		Path:         folderPath,
		NoteID:       noteID,
		LastModified: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildFlatList(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", "Opening scene", "/Drafts/Act I"),
		flatNote("n2", "Synopsis", "/"),
		flatNote("n3", "Villain", "/Research"),
	}

	roots := Build(raw)

	// Folders sort before notes: Drafts, Research, then the root note.
	if len(roots) != 3 {
		t.Fatalf("got %d roots, want 3", len(roots))
	}
	if roots[0].Path != "/Drafts" || roots[0].Kind != KindFolder {
		t.Errorf("roots[0] = %v %q, want folder /Drafts", roots[0].Kind, roots[0].Path)
	}
	if roots[1].Path != "/Research" || roots[1].Kind != KindFolder {
		t.Errorf("roots[1] = %v %q, want folder /Research", roots[1].Kind, roots[1].Path)
	}
	if roots[2].Name != "Synopsis" || roots[2].Kind != KindNote {
		t.Errorf("roots[2] = %v %q, want note Synopsis", roots[2].Kind, roots[2].Name)
	}

	// /Drafts/Act I materializes even though only the leaf carries notes.
	drafts := roots[0]
	if len(drafts.Children) != 1 {
		t.Fatalf("Drafts has %d children, want 1", len(drafts.Children))
	}
	actI := drafts.Children[0]
	if actI.Kind != KindFolder || actI.Path != "/Drafts/Act I" {
		t.Fatalf("Drafts child = %v %q, want folder /Drafts/Act I", actI.Kind, actI.Path)
	}
	if len(actI.Children) != 1 || actI.Children[0].NoteID != "n1" {
		t.Errorf("Act I children = %v, want [n1]", actI.Children)
	}
}

func TestBuildNestedInput(t *testing.T) {
	raw := []store.RawNode{
		{
			ID:   "/Drafts",
			Name: "Drafts",
			Type: store.TypeFolder,
			Path: "/Drafts",
			Children: []store.RawNode{
				flatNote("n1", "Opening scene", "/Drafts"),
			},
		},
	}

	roots := Build(raw)
	if len(roots) != 1 || roots[0].Path != "/Drafts" {
		t.Fatalf("roots = %v", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].NoteID != "n1" {
		t.Errorf("Drafts children = %v, want [n1]", roots[0].Children)
	}
}

func TestProjectStripsSentinels(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", SentinelTitle, "/Drafts"),
	}

	projected := Project(Build(raw))

	if len(projected) != 1 {
		t.Fatalf("got %d roots, want 1", len(projected))
	}
	drafts := projected[0]
	if drafts.Kind != KindFolder || drafts.Path != "/Drafts" {
		t.Fatalf("projected root = %v %q, want folder /Drafts", drafts.Kind, drafts.Path)
	}
	if len(drafts.Children) != 0 {
		t.Errorf("Drafts has %d visible children, want 0", len(drafts.Children))
	}
}

func TestProjectNeverReturnsSentinels(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", SentinelTitle, "/A"),
		flatNote("n2", "Real", "/A"),
		flatNote("n3", SentinelTitle, "/A/B"),
		flatNote("n4", SentinelTitle, "/"),
	}

	var check func(nodes []*Node)
	check = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Kind == KindNote && IsSentinel(n.Name) {
				t.Errorf("sentinel leaked into projection at %q", n.Path)
			}
			check(n.Children)
		}
	}
	check(Project(Build(raw)))
}

func TestProjectKeepsSentinelBackedFolders(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", SentinelTitle, "/A/B/C"),
	}

	projected := Project(Build(raw))
	for _, path := range []string{"/A", "/A/B", "/A/B/C"} {
		if FindFolder(projected, path) == nil {
			t.Errorf("folder %q missing from projection", path)
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", SentinelTitle, "/Drafts"),
		flatNote("n2", "Scene", "/Drafts"),
		flatNote("n3", "Loose", "/"),
	}

	once := Project(Build(raw))
	twice := Project(once)

	var flatten func(nodes []*Node, out *[]string)
	flatten = func(nodes []*Node, out *[]string) {
		for _, n := range nodes {
			*out = append(*out, string(n.Kind)+":"+n.Path+":"+n.Name)
			flatten(n.Children, out)
		}
	}
	var a, b []string
	flatten(once, &a)
	flatten(twice, &b)
	if len(a) != len(b) {
		t.Fatalf("projection changed on second pass: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("projection[%d] changed: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestSiblingOrdering(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", "zebra", "/"),
		flatNote("n2", "Apple", "/"),
		flatNote("n3", "x", "/beta"),
		flatNote("n4", "y", "/Alpha"),
	}

	roots := Build(raw)
	got := make([]string, 0, len(roots))
	for _, n := range roots {
		got = append(got, n.Name)
	}
	want := []string{"Alpha", "beta", "Apple", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sibling order = %v, want %v", got, want)
		}
	}
}

func TestHasVisibleNotes(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", SentinelTitle, "/Empty"),
		flatNote("n2", "Scene", "/Full"),
		flatNote("n3", "Deep", "/Shallow/Deeper"),
	}
	snapshot := Build(raw)

	tests := []struct {
		path string
		want bool
	}{
		{"/Empty", false},
		{"/Full", true},
		// Direct children only: notes in subfolders do not count.
		{"/Shallow", false},
		{"/Shallow/Deeper", true},
		{"/", true},
		{"/Missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := HasVisibleNotes(snapshot, tt.path); got != tt.want {
				t.Errorf("HasVisibleNotes(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFindFolderSegmentAligned(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", "a", "/Foo"),
		flatNote("n2", "b", "/FooBar"),
	}
	snapshot := Build(raw)

	if f := FindFolder(snapshot, "/FooBar"); f == nil || f.Path != "/FooBar" {
		t.Errorf("FindFolder(/FooBar) = %v", f)
	}
	if f := FindFolder(snapshot, "/Foo"); f == nil || f.Path != "/Foo" {
		t.Errorf("FindFolder(/Foo) = %v", f)
	}
}

func TestNoteByID(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", "Scene", "/Drafts/Act I"),
	}
	snapshot := Build(raw)

	n := NoteByID(snapshot, "n1")
	if n == nil || n.Path != "/Drafts/Act I" {
		t.Fatalf("NoteByID(n1) = %v", n)
	}
	if NoteByID(snapshot, "nope") != nil {
		t.Error("NoteByID(nope) found a note")
	}
}

func TestMatchTitles(t *testing.T) {
	raw := []store.RawNode{
		flatNote("n1", "Opening Scene", "/Drafts"),
		flatNote("n2", "Closing scene", "/Drafts"),
		flatNote("n3", SentinelTitle, "/Empty"),
		flatNote("n4", "Villain", "/Research"),
	}
	snapshot := Build(raw)

	got := MatchTitles(snapshot, "scene")
	if len(got) != 2 {
		t.Fatalf("MatchTitles(scene) returned %d notes, want 2", len(got))
	}

	if got := MatchTitles(snapshot, ".folder"); len(got) != 0 {
		t.Errorf("sentinel matched title search: %v", got)
	}

	if got := MatchTitles(snapshot, "  "); got != nil {
		t.Errorf("blank query matched: %v", got)
	}
}
