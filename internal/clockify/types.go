package clockify

// User is the authenticated Clockify user.
type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	ActiveWorkspace  string       `json:"activeWorkspace"`
	DefaultWorkspace string       `json:"defaultWorkspace"`
	Settings         UserSettings `json:"settings"`
}

// UserSettings holds the subset of profile settings the CLI reads.
type UserSettings struct {
	TimeZone string `json:"timeZone"`
}

// Workspace is a named container of projects and time entries.
type Workspace struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Project belongs to exactly one workspace.
type Project struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Archived   bool   `json:"archived" yaml:"archived"`
	Billable   bool   `json:"billable" yaml:"billable"`
	ClientName string `json:"clientName,omitempty" yaml:"clientName,omitempty"`
}

// TimeInterval carries API timestamps verbatim. End and Duration are nil
// while the entry is in progress.
type TimeInterval struct {
	Start    string  `json:"start" yaml:"start"`
	End      *string `json:"end" yaml:"end"`
	Duration *string `json:"duration" yaml:"duration"`
}

// TimeEntry is a time entry as returned by the API.
type TimeEntry struct {
	ID           string       `json:"id" yaml:"id"`
	Description  string       `json:"description" yaml:"description"`
	ProjectID    string       `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	TaskID       string       `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	TagIDs       []string     `json:"tagIds" yaml:"tagIds"`
	Billable     bool         `json:"billable" yaml:"billable"`
	UserID       string       `json:"userId" yaml:"userId"`
	WorkspaceID  string       `json:"workspaceId" yaml:"workspaceId"`
	TimeInterval TimeInterval `json:"timeInterval" yaml:"timeInterval"`
}

// InProgress reports whether the entry has a start but no end.
func (e *TimeEntry) InProgress() bool {
	return e.TimeInterval.End == nil || *e.TimeInterval.End == ""
}

// TimeEntryRequest is the body of create and update calls. An empty End
// starts a running timer.
type TimeEntryRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Billable    bool     `json:"billable"`
	Description string   `json:"description"`
	ProjectID   string   `json:"projectId,omitempty"`
	TaskID      string   `json:"taskId,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
}
