package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcuo/clockify-cli/internal/clockify"
	"github.com/arcuo/clockify-cli/internal/config"
	clierrors "github.com/arcuo/clockify-cli/internal/errors"
	"github.com/arcuo/clockify-cli/internal/timefmt"
)

type fakeGateway struct {
	user       *clockify.User
	workspaces map[string]string
	projects   map[string]map[string]string
	running    *clockify.TimeEntry
	runningErr error
	entries    []clockify.TimeEntry
	deleteCode int

	userCalls int
	created   []*clockify.TimeEntryRequest
	createdIn []string
	updated   []*clockify.TimeEntryRequest
	updatedID []string
	deleted   []string
	listLimit int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		user:       &clockify.User{ID: "u1", Name: "Ada", Settings: clockify.UserSettings{TimeZone: "UTC"}},
		workspaces: map[string]string{"Acme": "w1", "Home": "w2"},
		projects: map[string]map[string]string{
			"w1": {"Website": "p1", "Backend": "p2"},
			"w2": {"Garden": "p9"},
		},
		deleteCode: 204,
	}
}

func (f *fakeGateway) GetUser(context.Context) (*clockify.User, error) {
	f.userCalls++
	return f.user, nil
}

func (f *fakeGateway) ListWorkspaces(context.Context) ([]clockify.Workspace, error) {
	var out []clockify.Workspace
	for name, id := range f.workspaces {
		out = append(out, clockify.Workspace{ID: id, Name: name})
	}
	return out, nil
}

func (f *fakeGateway) WorkspaceNames(context.Context) (map[string]string, error) {
	return f.workspaces, nil
}

func (f *fakeGateway) ListProjects(_ context.Context, wid string) ([]clockify.Project, error) {
	var out []clockify.Project
	for name, id := range f.projects[wid] {
		out = append(out, clockify.Project{ID: id, Name: name})
	}
	return out, nil
}

func (f *fakeGateway) ProjectNames(_ context.Context, wid string) (map[string]string, error) {
	return f.projects[wid], nil
}

func (f *fakeGateway) CreateTimeEntry(_ context.Context, wid string, req *clockify.TimeEntryRequest) (*clockify.TimeEntry, error) {
	f.created = append(f.created, req)
	f.createdIn = append(f.createdIn, wid)
	return &clockify.TimeEntry{ID: "new", Description: req.Description, ProjectID: req.ProjectID}, nil
}

func (f *fakeGateway) GetInProgressEntry(context.Context, string, string) (*clockify.TimeEntry, error) {
	if f.runningErr != nil {
		return nil, f.runningErr
	}
	if f.running == nil {
		return nil, clockify.ErrNoEntryInProgress
	}
	return f.running, nil
}

func (f *fakeGateway) UpdateTimeEntry(_ context.Context, _ string, id string, req *clockify.TimeEntryRequest) (*clockify.TimeEntry, error) {
	f.updated = append(f.updated, req)
	f.updatedID = append(f.updatedID, id)
	end := req.End
	return &clockify.TimeEntry{ID: id, TimeInterval: clockify.TimeInterval{Start: req.Start, End: &end}}, nil
}

func (f *fakeGateway) DeleteTimeEntry(_ context.Context, _ string, id string) (int, error) {
	f.deleted = append(f.deleted, id)
	return f.deleteCode, nil
}

func (f *fakeGateway) ListTimeEntries(_ context.Context, _, _ string, limit int) ([]clockify.TimeEntry, error) {
	f.listLimit = limit
	return f.entries, nil
}

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, api Gateway) (*Service, afero.Fs) {
	t.Helper()
	t.Setenv("CLOCKIFY_API_KEY", "")

	fs := afero.NewMemMapFs()
	cfg, err := config.LoadFrom(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	cfg.APIKey = "key"
	cfg.SetUser("u1", "Ada", "UTC")
	cfg.SetWorkspace("Acme", "w1")

	f := &timefmt.Formatter{Location: time.UTC, Clock: func() time.Time { return fixedNow }}
	return New(api, cfg, f, nil, nil), fs
}

func TestStart(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)
	svc.Config.SetProject("Website", "p1")

	entry, err := svc.Start(context.Background(), EntryOptions{
		Description: "Writing docs",
		Billable:    true,
		Tags:        []string{"t1", "t2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", entry.ID)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, "w1", api.createdIn[0])
	assert.Equal(t, "2024-01-01T10:00:00Z", req.Start)
	assert.Empty(t, req.End)
	assert.Equal(t, "p1", req.ProjectID, "stored project default applies in the default workspace")
	assert.True(t, req.Billable)
	assert.Equal(t, []string{"t1", "t2"}, req.TagIDs)
}

// answer returns a prompt that always picks name and records the labels.
func answer(name string, labels *[]string) func(string, []string) (string, error) {
	return func(label string, _ []string) (string, error) {
		*labels = append(*labels, label)
		return name, nil
	}
}

func TestStartPromptsForMissingProject(t *testing.T) {
	api := newFakeGateway()
	svc, fs := newService(t, api)
	var labels []string
	svc.Resolver.Prompt = answer("Website", &labels)

	_, err := svc.Start(context.Background(), EntryOptions{Description: "x"})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, "p1", api.created[0].ProjectID)
	assert.Equal(t, []string{"Project name"}, labels)

	reloaded, err := config.LoadFrom(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	assert.Equal(t, "p1", reloaded.ProjectID)
	assert.Equal(t, "Website", reloaded.Project)
}

func TestStartOtherWorkspacePromptsWithoutStoring(t *testing.T) {
	api := newFakeGateway()
	svc, fs := newService(t, api)
	svc.Config.SetProject("Website", "p1")
	var labels []string
	svc.Resolver.Prompt = answer("Garden", &labels)

	_, err := svc.Start(context.Background(), EntryOptions{Workspace: "Home"})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	assert.Equal(t, "w2", api.createdIn[0])
	assert.Equal(t, "p9", api.created[0].ProjectID, "the Acme default is not applied in Home")
	assert.Equal(t, []string{"Project name"}, labels)
	assert.Equal(t, "p1", svc.Config.ProjectID)

	exists, err := afero.Exists(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	assert.False(t, exists, "a project picked outside the default workspace is not stored")
}

func TestStartWithoutProject(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)

	_, err := svc.Start(context.Background(), EntryOptions{NoProject: true})
	require.NoError(t, err, "no prompt is needed")
	require.Len(t, api.created, 1)
	assert.Empty(t, api.created[0].ProjectID)

	_, err = svc.Start(context.Background(), EntryOptions{Project: "Website", NoProject: true})
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
	assert.Len(t, api.created, 1)

	_, err = svc.Start(context.Background(), EntryOptions{})
	require.Error(t, err, "without a prompt a missing project is an error")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}

func TestStartUnknownProject(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)

	_, err := svc.Start(context.Background(), EntryOptions{Project: "Websit"})
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "Website")
	assert.Empty(t, api.created)
}

func TestFinish(t *testing.T) {
	api := newFakeGateway()
	api.running = &clockify.TimeEntry{
		ID:          "e1",
		Description: "Writing docs",
		ProjectID:   "p2",
		TagIDs:      []string{"t1"},
		Billable:    true,
		TimeInterval: clockify.TimeInterval{
			Start: "2024-01-01T08:00:00Z",
		},
	}
	svc, _ := newService(t, api)

	entry, err := svc.Finish(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, entry.InProgress())

	require.Len(t, api.updated, 1)
	req := api.updated[0]
	assert.Equal(t, "e1", api.updatedID[0])
	assert.Equal(t, "2024-01-01T08:00:00Z", req.Start)
	assert.Equal(t, "2024-01-01T10:00:00Z", req.End)
	assert.Equal(t, "p2", req.ProjectID)
	assert.Equal(t, "Writing docs", req.Description)
	assert.True(t, req.Billable)
	assert.Equal(t, []string{"t1"}, req.TagIDs)
}

func TestFinishWithNothingRunning(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)

	_, err := svc.Finish(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, clockify.ErrNoEntryInProgress)
	assert.Contains(t, err.Error(), "No entry in progress")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotFound))
	assert.Empty(t, api.updated, "no mutating call without a running entry")
}

func TestFinishLookupFailure(t *testing.T) {
	api := newFakeGateway()
	api.runningErr = clierrors.APIError(&clockify.StatusError{Method: "GET", Path: "/x", StatusCode: 500})
	svc, _ := newService(t, api)

	_, err := svc.Finish(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 500, clockify.StatusCode(err))
	assert.Empty(t, api.updated)
}

func TestAddEntry(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)

	_, err := svc.AddEntry(context.Background(), "2:15", EntryOptions{Project: "Backend", Description: "Review"})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, "2024-01-01T07:45:00Z", req.Start)
	assert.Equal(t, "2024-01-01T10:00:00Z", req.End)
	assert.Equal(t, "p2", req.ProjectID)
	assert.Equal(t, "Review", req.Description)
}

func TestAddEntryInvalidDurationSendsNothing(t *testing.T) {
	api := newFakeGateway()
	svc, _ := newService(t, api)

	for _, d := range []string{"1:75", "abc", ""} {
		_, err := svc.AddEntry(context.Background(), d, EntryOptions{Workspace: "Nope"})
		require.Error(t, err, d)
		assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation), d)
	}
	assert.Empty(t, api.created)
}

func TestInProgressFetchesMissingUser(t *testing.T) {
	api := newFakeGateway()
	api.running = &clockify.TimeEntry{ID: "e1"}
	svc, fs := newService(t, api)
	svc.Config.UserID = ""

	entry, err := svc.InProgress(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, 1, api.userCalls)

	reloaded, err := config.LoadFrom(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	assert.Equal(t, "u1", reloaded.UserID)
}

func TestEntriesAndRemove(t *testing.T) {
	api := newFakeGateway()
	api.entries = []clockify.TimeEntry{{ID: "a"}, {ID: "b"}}
	svc, _ := newService(t, api)

	entries, err := svc.Entries(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, EntriesLimit, api.listLimit)

	status, err := svc.RemoveEntry(context.Background(), "Home", "a")
	require.NoError(t, err)
	assert.Equal(t, 204, status)
	assert.Equal(t, []string{"a"}, api.deleted)
}

func TestSetWorkspaceAndProject(t *testing.T) {
	api := newFakeGateway()
	svc, fs := newService(t, api)

	res, err := svc.SetWorkspace(context.Background(), "Home")
	require.NoError(t, err)
	assert.Equal(t, "w2", res.ID)

	res, err = svc.SetProject(context.Background(), "", "Garden")
	require.NoError(t, err)
	assert.Equal(t, "p9", res.ID)

	reloaded, err := config.LoadFrom(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	assert.Equal(t, "w2", reloaded.WorkspaceID)
	assert.Equal(t, "p9", reloaded.ProjectID)

	_, err = svc.SetProject(context.Background(), "Acme", "Website")
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}

func TestSetup(t *testing.T) {
	api := newFakeGateway()
	api.user = &clockify.User{ID: "u7", Name: "Grace", Settings: clockify.UserSettings{TimeZone: "Europe/Copenhagen"}}
	svc, fs := newService(t, api)

	user, err := svc.Setup(context.Background(), "typed-key")
	require.NoError(t, err)
	assert.Equal(t, "u7", user.ID)

	reloaded, err := config.LoadFrom(fs, "/home/tester/.clockify.cfg")
	require.NoError(t, err)
	assert.Equal(t, "typed-key", reloaded.APIKey)
	assert.Equal(t, "Grace", reloaded.UserName)
	assert.Equal(t, "Europe/Copenhagen", reloaded.Timezone)
}

func TestSetupMovesFormatterToUserZone(t *testing.T) {
	api := newFakeGateway()
	api.user = &clockify.User{ID: "u7", Name: "Grace", Settings: clockify.UserSettings{TimeZone: "+0200"}}
	svc, _ := newService(t, api)

	_, err := svc.Setup(context.Background(), "typed-key")
	require.NoError(t, err)
	assert.Equal(t, "+0200", svc.Formatter.Location.String())

	api.user.Settings.TimeZone = "Mars/Olympus"
	_, err = svc.Setup(context.Background(), "typed-key")
	require.NoError(t, err)
	assert.Equal(t, "+0200", svc.Formatter.Location.String(), "an unknown zone keeps the current one")
}

func TestApiListerUnknownKind(t *testing.T) {
	_, err := apiLister{api: newFakeGateway()}.Names(context.Background(), "task", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, clockify.ErrNoEntryInProgress))
}
