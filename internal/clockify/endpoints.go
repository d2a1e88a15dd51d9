package clockify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// ErrNoEntryInProgress is returned when the user has no running timer.
var ErrNoEntryInProgress = errors.New("No entry in progress")

// GetUser returns the owner of the API key.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/user", result: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListWorkspaces lists the workspaces the user belongs to.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/workspaces", result: &workspaces}); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// WorkspaceNames maps workspace names to ids.
func (c *Client) WorkspaceNames(ctx context.Context) (map[string]string, error) {
	workspaces, err := c.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(workspaces))
	for _, w := range workspaces {
		names[w.Name] = w.ID
	}
	return names, nil
}

// ListProjects lists the projects of a workspace.
func (c *Client) ListProjects(ctx context.Context, workspaceID string) ([]Project, error) {
	var projects []Project
	_, err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/workspaces/{wid}/projects",
		pathParams: map[string]string{"wid": workspaceID},
		query:      map[string]string{"page-size": "5000"},
		result:     &projects,
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectNames maps project names to ids within a workspace.
func (c *Client) ProjectNames(ctx context.Context, workspaceID string) (map[string]string, error) {
	projects, err := c.ListProjects(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.Name] = p.ID
	}
	return names, nil
}

// CreateTimeEntry adds an entry. Without End it starts a running timer.
func (c *Client) CreateTimeEntry(ctx context.Context, workspaceID string, req *TimeEntryRequest) (*TimeEntry, error) {
	var entry TimeEntry
	_, err := c.do(ctx, call{
		method:     http.MethodPost,
		path:       "/workspaces/{wid}/time-entries",
		pathParams: map[string]string{"wid": workspaceID},
		body:       req,
		result:     &entry,
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetInProgressEntry returns the user's running entry, or ErrNoEntryInProgress.
func (c *Client) GetInProgressEntry(ctx context.Context, workspaceID, userID string) (*TimeEntry, error) {
	var entries []TimeEntry
	_, err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/workspaces/{wid}/user/{uid}/time-entries",
		pathParams: map[string]string{"wid": workspaceID, "uid": userID},
		query:      map[string]string{"in-progress": "true"},
		result:     &entries,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntryInProgress
	}
	return &entries[0], nil
}

// UpdateTimeEntry replaces an entry with req.
func (c *Client) UpdateTimeEntry(ctx context.Context, workspaceID, entryID string, req *TimeEntryRequest) (*TimeEntry, error) {
	var entry TimeEntry
	_, err := c.do(ctx, call{
		method:     http.MethodPut,
		path:       "/workspaces/{wid}/time-entries/{id}",
		pathParams: map[string]string{"wid": workspaceID, "id": entryID},
		body:       req,
		result:     &entry,
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteTimeEntry removes an entry and returns the response status.
func (c *Client) DeleteTimeEntry(ctx context.Context, workspaceID, entryID string) (int, error) {
	resp, err := c.do(ctx, call{
		method:     http.MethodDelete,
		path:       "/workspaces/{wid}/time-entries/{id}",
		pathParams: map[string]string{"wid": workspaceID, "id": entryID},
	})
	if err != nil {
		return StatusCode(err), err
	}
	return resp.StatusCode(), nil
}

// ListTimeEntries returns the user's most recent entries, newest first.
func (c *Client) ListTimeEntries(ctx context.Context, workspaceID, userID string, limit int) ([]TimeEntry, error) {
	var entries []TimeEntry
	_, err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/workspaces/{wid}/user/{uid}/time-entries",
		pathParams: map[string]string{"wid": workspaceID, "uid": userID},
		query:      map[string]string{"page-size": strconv.Itoa(limit)},
		result:     &entries,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
