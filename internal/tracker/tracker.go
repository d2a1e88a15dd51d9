// Package tracker implements the time-entry commands on top of the Clockify
// API: the running-timer lifecycle, retroactive entries and listings.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/arcuo/clockify-cli/internal/clockify"
	"github.com/arcuo/clockify-cli/internal/config"
	"github.com/arcuo/clockify-cli/internal/duration"
	clierrors "github.com/arcuo/clockify-cli/internal/errors"
	"github.com/arcuo/clockify-cli/internal/resolver"
	"github.com/arcuo/clockify-cli/internal/timefmt"
)

// EntriesLimit is how many entries the listing shows.
const EntriesLimit = 10

// Gateway is the subset of the Clockify API the tracker uses.
type Gateway interface {
	GetUser(ctx context.Context) (*clockify.User, error)
	ListWorkspaces(ctx context.Context) ([]clockify.Workspace, error)
	WorkspaceNames(ctx context.Context) (map[string]string, error)
	ListProjects(ctx context.Context, workspaceID string) ([]clockify.Project, error)
	ProjectNames(ctx context.Context, workspaceID string) (map[string]string, error)
	CreateTimeEntry(ctx context.Context, workspaceID string, req *clockify.TimeEntryRequest) (*clockify.TimeEntry, error)
	GetInProgressEntry(ctx context.Context, workspaceID, userID string) (*clockify.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, workspaceID, entryID string, req *clockify.TimeEntryRequest) (*clockify.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, workspaceID, entryID string) (int, error)
	ListTimeEntries(ctx context.Context, workspaceID, userID string, limit int) ([]clockify.TimeEntry, error)
}

// Logger receives debug traces.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Service runs tracker operations for one CLI invocation.
type Service struct {
	API       Gateway
	Config    *config.Config
	Resolver  *resolver.Resolver
	Formatter *timefmt.Formatter
	Log       Logger
}

// New wires a Service. prompt may be nil, in which case missing defaults are
// an error instead of a question.
func New(api Gateway, cfg *config.Config, f *timefmt.Formatter, prompt resolver.PromptFunc, log Logger) *Service {
	if log == nil {
		log = nopLogger{}
	}
	return &Service{
		API:    api,
		Config: cfg,
		Resolver: &resolver.Resolver{
			Lister: apiLister{api: api},
			Store:  resolver.ConfigStore{Config: cfg},
			Prompt: prompt,
		},
		Formatter: f,
		Log:       log,
	}
}

type apiLister struct {
	api Gateway
}

func (l apiLister) Names(ctx context.Context, kind resolver.Kind, parentID string) (map[string]string, error) {
	switch kind {
	case resolver.Workspace:
		return l.api.WorkspaceNames(ctx)
	case resolver.Project:
		return l.api.ProjectNames(ctx, parentID)
	}
	return nil, fmt.Errorf("unknown reference kind %q", kind)
}

// Workspace resolves a workspace name, falling back to the default.
func (s *Service) Workspace(ctx context.Context, name string) (resolver.Resolution, error) {
	res, err := s.Resolver.Resolve(ctx, resolver.Workspace, "", name)
	if err != nil {
		return res, err
	}
	s.Log.Debugf("workspace %q (%s) resolved from %s", res.Name, res.ID, res.Source)
	return res, nil
}

// project resolves the project of a new entry: explicit name, then the stored
// default, then a prompt. The stored default belongs to the default
// workspace, so in any other workspace the user is asked and nothing is
// stored.
func (s *Service) project(ctx context.Context, ws resolver.Resolution, opts EntryOptions) (string, error) {
	if opts.NoProject {
		if opts.Project != "" {
			return "", clierrors.ValidationError(
				errors.New("--project and --no-project are mutually exclusive"), "")
		}
		return "", nil
	}

	var (
		res resolver.Resolution
		err error
	)
	if ws.ID == s.Config.WorkspaceID {
		res, err = s.Resolver.Resolve(ctx, resolver.Project, ws.ID, opts.Project)
	} else {
		res, err = s.Resolver.Pick(ctx, resolver.Project, ws.ID, opts.Project)
	}
	if err != nil {
		return "", err
	}
	s.Log.Debugf("project %q (%s) resolved from %s", res.Name, res.ID, res.Source)
	return res.ID, nil
}

// UserID returns the stored user id, fetching and storing it if missing.
func (s *Service) UserID(ctx context.Context) (string, error) {
	if s.Config.UserID != "" {
		return s.Config.UserID, nil
	}

	user, err := s.API.GetUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user: %w", err)
	}
	s.setUser(user)
	if err := s.Config.Save(); err != nil {
		return "", clierrors.ConfigError(err)
	}
	return user.ID, nil
}

// Setup records the API key and the user profile on first run.
func (s *Service) Setup(ctx context.Context, apiKey string) (*clockify.User, error) {
	user, err := s.API.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if !s.Config.HasKeyOverride() {
		s.Config.APIKey = apiKey
	}
	s.setUser(user)
	if err := s.Config.Save(); err != nil {
		return nil, clierrors.ConfigError(err)
	}
	return user, nil
}

// setUser stores the profile and moves the formatter to the user's zone, so
// listings later in the same invocation show local times.
func (s *Service) setUser(user *clockify.User) {
	s.Config.SetUser(user.ID, user.Name, user.Settings.TimeZone)

	loc, err := timefmt.LoadLocation(user.Settings.TimeZone)
	if err != nil {
		s.Log.Debugf("keeping %s: %v", s.Formatter.Location, err)
		return
	}
	s.Formatter.Location = loc
}

// EntryOptions are the attributes shared by new entries.
type EntryOptions struct {
	Workspace   string
	Project     string
	Description string
	Billable    bool
	Tags        []string
	// NoProject records the entry without a project and skips the prompt.
	NoProject bool
}

func (s *Service) request(ctx context.Context, opts EntryOptions) (string, *clockify.TimeEntryRequest, error) {
	ws, err := s.Workspace(ctx, opts.Workspace)
	if err != nil {
		return "", nil, err
	}
	projectID, err := s.project(ctx, ws, opts)
	if err != nil {
		return "", nil, err
	}

	return ws.ID, &clockify.TimeEntryRequest{
		Billable:    opts.Billable,
		Description: opts.Description,
		ProjectID:   projectID,
		TagIDs:      opts.Tags,
	}, nil
}

// Start begins a running timer stamped now.
func (s *Service) Start(ctx context.Context, opts EntryOptions) (*clockify.TimeEntry, error) {
	wid, req, err := s.request(ctx, opts)
	if err != nil {
		return nil, err
	}
	req.Start = s.Formatter.Format(nil)

	return s.API.CreateTimeEntry(ctx, wid, req)
}

// Finish stops the running timer. With nothing running it fails before any
// mutating call.
func (s *Service) Finish(ctx context.Context, workspace string) (*clockify.TimeEntry, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}

	current, err := s.inProgress(ctx, ws.ID)
	if err != nil {
		return nil, err
	}

	req := &clockify.TimeEntryRequest{
		Start:       current.TimeInterval.Start,
		End:         s.Formatter.Format(nil),
		Billable:    current.Billable,
		Description: current.Description,
		ProjectID:   current.ProjectID,
		TaskID:      current.TaskID,
		TagIDs:      current.TagIDs,
	}
	return s.API.UpdateTimeEntry(ctx, ws.ID, current.ID, req)
}

// AddEntry records a finished entry of length dur ending now. The duration
// is validated before anything is resolved or sent.
func (s *Service) AddEntry(ctx context.Context, dur string, opts EntryOptions) (*clockify.TimeEntry, error) {
	d, err := duration.Parse(dur)
	if err != nil {
		return nil, err
	}

	wid, req, err := s.request(ctx, opts)
	if err != nil {
		return nil, err
	}
	req.Start, req.End = s.Formatter.Span(d)
	s.Log.Debugf("entry of %s spans %s to %s", d, req.Start, req.End)

	return s.API.CreateTimeEntry(ctx, wid, req)
}

// InProgress returns the running entry.
func (s *Service) InProgress(ctx context.Context, workspace string) (*clockify.TimeEntry, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return s.inProgress(ctx, ws.ID)
}

func (s *Service) inProgress(ctx context.Context, workspaceID string) (*clockify.TimeEntry, error) {
	uid, err := s.UserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.API.GetInProgressEntry(ctx, workspaceID, uid)
	switch {
	case errors.Is(err, clockify.ErrNoEntryInProgress):
		return nil, clierrors.NotFoundError(err, "Start one with 'clockify start'.")
	case err != nil:
		return nil, fmt.Errorf("failed to fetch the entry in progress: %w", err)
	}
	return entry, nil
}

// Entries lists the latest EntriesLimit entries.
func (s *Service) Entries(ctx context.Context, workspace string) ([]clockify.TimeEntry, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	uid, err := s.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.API.ListTimeEntries(ctx, ws.ID, uid, EntriesLimit)
}

// RemoveEntry deletes an entry by id and returns the response status.
func (s *Service) RemoveEntry(ctx context.Context, workspace, entryID string) (int, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return 0, err
	}
	return s.API.DeleteTimeEntry(ctx, ws.ID, entryID)
}

// Projects lists the projects of a workspace.
func (s *Service) Projects(ctx context.Context, workspace string) ([]clockify.Project, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return s.API.ListProjects(ctx, ws.ID)
}

// SetWorkspace stores a new default workspace.
func (s *Service) SetWorkspace(ctx context.Context, name string) (resolver.Resolution, error) {
	return s.Resolver.SetDefault(ctx, resolver.Workspace, "", name)
}

// SetProject stores a new default project within a workspace.
func (s *Service) SetProject(ctx context.Context, workspace, name string) (resolver.Resolution, error) {
	ws, err := s.Workspace(ctx, workspace)
	if err != nil {
		return resolver.Resolution{}, err
	}
	if ws.ID != s.Config.WorkspaceID {
		return resolver.Resolution{}, clierrors.ValidationError(
			fmt.Errorf("project defaults belong to the default workspace %q", s.Config.Workspace),
			fmt.Sprintf("Run 'clockify set_workspace %q' first.", ws.Name))
	}
	return s.Resolver.SetDefault(ctx, resolver.Project, ws.ID, name)
}
