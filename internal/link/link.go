// Package link generates JotFrame app deep links.
package link

import (
	"net/url"
	"strings"

	"github.com/jotframe/binder-mcp/internal/notepath"
)

// NoteURI generates a deep link that opens a note in the JotFrame app.
func NoteURI(projectID, noteID string) string {
	return "jotframe://project/" + url.PathEscape(projectID) + "/note/" + url.PathEscape(noteID)
}

// FolderURI generates a deep link that opens the binder at a folder. Path
// segments are escaped individually so slashes survive as separators.
func FolderURI(projectID, folderPath string) string {
	segments := notepath.Segments(folderPath)
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	base := "jotframe://project/" + url.PathEscape(projectID) + "/folder"
	if len(segments) == 0 {
		return base
	}
	return base + "/" + strings.Join(segments, "/")
}
