package clockify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-api-key", server.URL)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	client, err := New("", "https://api.clockify.me/api/v1")
	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeAuth))
}

func TestGetUser(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":       "u1",
			"name":     "Ada",
			"settings": map[string]string{"timeZone": "Europe/Copenhagen"},
		})
	})

	user, err := client.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "Europe/Copenhagen", user.Settings.TimeZone)
}

func TestWorkspaceAndProjectNames(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces":
			writeJSON(t, w, http.StatusOK, []Workspace{{ID: "w1", Name: "Acme"}, {ID: "w2", Name: "Home"}})
		case "/workspaces/w1/projects":
			assert.Equal(t, "5000", r.URL.Query().Get("page-size"))
			writeJSON(t, w, http.StatusOK, []Project{{ID: "p1", Name: "Website"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	workspaces, err := client.WorkspaceNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Acme": "w1", "Home": "w2"}, workspaces)

	projects, err := client.ProjectNames(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Website": "p1"}, projects)
}

func TestCreateTimeEntry(t *testing.T) {
	tests := []struct {
		name           string
		mockStatusCode int
		expectError    bool
	}{
		{name: "created", mockStatusCode: http.StatusCreated},
		{name: "bad request", mockStatusCode: http.StatusBadRequest, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/workspaces/w1/time-entries", r.URL.Path)

				var req TimeEntryRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "2024-01-01T07:45:00Z", req.Start)
				assert.Equal(t, "2024-01-01T10:00:00Z", req.End)
				assert.Equal(t, "p1", req.ProjectID)

				if tt.expectError {
					writeJSON(t, w, tt.mockStatusCode, map[string]string{"message": "bad"})
					return
				}
				writeJSON(t, w, tt.mockStatusCode, TimeEntry{ID: "e1", Description: req.Description})
			})

			entry, err := client.CreateTimeEntry(context.Background(), "w1", &TimeEntryRequest{
				Start:     "2024-01-01T07:45:00Z",
				End:       "2024-01-01T10:00:00Z",
				ProjectID: "p1",
			})

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, entry)
				assert.Equal(t, tt.mockStatusCode, StatusCode(err))
				assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeAPI))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "e1", entry.ID)
		})
	}
}

func TestGetInProgressEntry(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		entries    []TimeEntry
		wantID     string
		wantNone   bool
		wantStatus int
	}{
		{
			name:    "running entry",
			status:  http.StatusOK,
			entries: []TimeEntry{{ID: "e1", TimeInterval: TimeInterval{Start: "2024-01-01T08:00:00Z"}}},
			wantID:  "e1",
		},
		{
			name:     "nothing running",
			status:   http.StatusOK,
			entries:  []TimeEntry{},
			wantNone: true,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/workspaces/w1/user/u1/time-entries", r.URL.Path)
				assert.Equal(t, "true", r.URL.Query().Get("in-progress"))
				writeJSON(t, w, tt.status, tt.entries)
			})

			entry, err := client.GetInProgressEntry(context.Background(), "w1", "u1")
			switch {
			case tt.wantNone:
				assert.ErrorIs(t, err, ErrNoEntryInProgress)
			case tt.wantStatus != 0:
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, StatusCode(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, entry.ID)
				assert.True(t, entry.InProgress())
			}
		})
	}
}

func TestUpdateAndDeleteTimeEntry(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/workspaces/w1/time-entries/e1", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var req TimeEntryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			end := req.End
			writeJSON(t, w, http.StatusOK, TimeEntry{ID: "e1", TimeInterval: TimeInterval{Start: req.Start, End: &end}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	entry, err := client.UpdateTimeEntry(context.Background(), "w1", "e1", &TimeEntryRequest{
		Start: "2024-01-01T08:00:00Z",
		End:   "2024-01-01T09:00:00Z",
	})
	require.NoError(t, err)
	assert.False(t, entry.InProgress())

	status, err := client.DeleteTimeEntry(context.Background(), "w1", "e1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestDeleteTimeEntryNotFound(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "entry not found"})
	})

	status, err := client.DeleteTimeEntry(context.Background(), "w1", "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListTimeEntriesCapsLimit(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page-size"))
		writeJSON(t, w, http.StatusOK, []TimeEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	})

	entries, err := client.ListTimeEntries(context.Background(), "w1", "u1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
}

func TestUnauthorizedIsAuthError(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Full authentication is required"})
	})

	_, err := client.ListWorkspaces(context.Background())
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeAuth))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestCancelledContext(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []Workspace{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListWorkspaces(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
