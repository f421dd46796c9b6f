package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jotframe/binder-mcp/internal/notepath"
)

// Client talks to the JotFrame notes API over HTTP/JSON.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a store client for the given API base URL. The token
// is sent as a bearer token on every request; it may be empty for
// unauthenticated deployments.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// treePayload covers both shapes the backend may return: a pre-nested tree
// or a flat note list.
type treePayload struct {
	Tree  []RawNode `json:"tree"`
	Notes []Note    `json:"notes"`
}

func (c *Client) FetchTree(ctx context.Context, projectID string) ([]RawNode, error) {
	var payload treePayload
	if err := c.do(ctx, http.MethodGet, c.projectURL(projectID, "tree"), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Tree != nil {
		return payload.Tree, nil
	}
	nodes := make([]RawNode, 0, len(payload.Notes))
	for _, n := range payload.Notes {
		nodes = append(nodes, RawNode{
			ID:           n.NoteID,
			Name:         n.Title,
			Type:         TypeNote,
			Path:         notepath.Clean(n.FolderPath),
			NoteID:       n.NoteID,
			LastModified: n.LastModified,
		})
	}
	return nodes, nil
}

func (c *Client) CreateNote(ctx context.Context, projectID string, note Note) (*Note, error) {
	var created Note
	if err := c.do(ctx, http.MethodPost, c.projectURL(projectID, "notes"), note, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateNote(ctx context.Context, projectID, noteID string, upd NoteUpdate) (*Note, error) {
	var updated Note
	u := c.projectURL(projectID, "notes/"+url.PathEscape(noteID))
	if err := c.do(ctx, http.MethodPatch, u, upd, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteNote(ctx context.Context, projectID, noteID string) error {
	u := c.projectURL(projectID, "notes/"+url.PathEscape(noteID))
	return c.do(ctx, http.MethodDelete, u, nil, nil)
}

func (c *Client) DeleteFolder(ctx context.Context, projectID, path string, recursive bool) error {
	q := url.Values{}
	q.Set("path", notepath.Clean(path))
	q.Set("recursive", strconv.FormatBool(recursive))
	u := c.projectURL(projectID, "folders") + "?" + q.Encode()
	return c.do(ctx, http.MethodDelete, u, nil, nil)
}

func (c *Client) RenameFolder(ctx context.Context, projectID, oldPath, newPath string) error {
	body := struct {
		OldPath string `json:"old_path"`
		NewPath string `json:"new_path"`
	}{notepath.Clean(oldPath), notepath.Clean(newPath)}
	return c.do(ctx, http.MethodPost, c.projectURL(projectID, "folders/rename"), body, nil)
}

func (c *Client) projectURL(projectID, suffix string) string {
	return fmt.Sprintf("%s/api/projects/%s/%s", c.baseURL, url.PathEscape(projectID), suffix)
}

// do executes one API request. A nil body sends no payload; a non-nil out
// decodes the response JSON into out.
func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindNetwork, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: "build request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("%s %s", method, u), Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("url", u).Int("status", resp.StatusCode).Msg("api call")

	if resp.StatusCode == http.StatusNotFound {
		return &APIError{Kind: KindNotFound, Message: remoteMessage(resp.Body), Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Kind: KindRemote, Message: remoteMessage(resp.Body), Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindRemote, Message: "decode response", Status: resp.StatusCode, Err: err}
	}
	return nil
}

// remoteMessage extracts the backend's error message, falling back to the
// raw body when it is not the usual {"error": "..."} envelope.
func remoteMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return string(raw)
}
