package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	isoduration "github.com/sosodev/duration"

	"github.com/arcuo/clockify-cli/internal/clockify"
	"github.com/arcuo/clockify-cli/internal/style"
	"github.com/arcuo/clockify-cli/internal/timefmt"
)

const displayLayout = "2006-01-02 15:04"

// EntryDuration returns how long an entry ran. The API sends closed entries'
// durations as ISO-8601 ("PT1H30M"); running entries are measured up to now.
func EntryDuration(e clockify.TimeEntry, now time.Time) (time.Duration, error) {
	if d := e.TimeInterval.Duration; d != nil && *d != "" {
		parsed, err := isoduration.Parse(*d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q on entry %s: %w", *d, e.ID, err)
		}
		return parsed.ToTimeDuration(), nil
	}

	start, err := timefmt.ParseInstant(e.TimeInterval.Start)
	if err != nil {
		return 0, err
	}
	end := now
	if !e.InProgress() {
		if end, err = timefmt.ParseInstant(*e.TimeInterval.End); err != nil {
			return 0, err
		}
	}
	return end.Sub(start), nil
}

// FormatDuration renders d as H:MM:SS, the same shape the entry command takes.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func (r *Renderer) localTime(stamp string) string {
	t, err := timefmt.ParseInstant(stamp)
	if err != nil {
		return stamp
	}
	return t.In(r.location()).Format(displayLayout)
}

// entryRow is one displayed entry.
type entryRow struct {
	start, end, duration, description, project, id string
}

func (r *Renderer) rows(entries []clockify.TimeEntry, projects map[string]string) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		row := entryRow{
			start:       r.localTime(e.TimeInterval.Start),
			end:         "running",
			description: e.Description,
			project:     projects[e.ProjectID],
			id:          e.ID,
		}
		if !e.InProgress() {
			row.end = r.localTime(*e.TimeInterval.End)
		}
		if d, err := EntryDuration(e, r.now()); err == nil {
			row.duration = FormatDuration(d)
		} else {
			row.duration = "?"
		}
		if row.project == "" {
			row.project = e.ProjectID
		}
		rows = append(rows, row)
	}
	return rows
}

// Entries renders a time entry listing. info adds description, end and id
// columns. projects maps project ids to names and may be nil.
func (r *Renderer) Entries(entries []clockify.TimeEntry, info bool, projects map[string]string) error {
	if ok, err := r.structured(entries); ok {
		return err
	}

	rows := r.rows(entries, projects)
	if r.Format == FormatMarkdown {
		return r.markdown(entriesMarkdown(rows, info))
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.Out, style.DimStyle.Render("No time entries found"))
		return err
	}

	t := r.newTable()
	if info {
		t.AppendHeader(table.Row{"Start", "Duration", "Project", "Description", "End", "ID"})
	} else {
		t.AppendHeader(table.Row{"Start", "Duration", "Project"})
	}
	for _, row := range rows {
		if info {
			t.AppendRow(table.Row{row.start, row.duration, row.project, row.description, row.end, row.id})
		} else {
			t.AppendRow(table.Row{row.start, row.duration, row.project})
		}
	}
	t.Render()
	return nil
}

func entriesMarkdown(rows []entryRow, info bool) string {
	var b strings.Builder
	b.WriteString("# Time entries\n\n")
	if len(rows) == 0 {
		b.WriteString("_No time entries found._\n")
		return b.String()
	}

	if info {
		b.WriteString("| Start | Duration | Project | Description | End | ID |\n|---|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Start | Duration | Project |\n|---|---|---|\n")
	}
	for _, row := range rows {
		if info {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
				row.start, row.duration, escapeCell(row.project), escapeCell(row.description), row.end, row.id)
		} else {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", row.start, row.duration, escapeCell(row.project))
		}
	}
	return b.String()
}

// Entry renders a single entry as a detail block.
func (r *Renderer) Entry(e *clockify.TimeEntry, projects map[string]string) error {
	if ok, err := r.structured(e); ok {
		return err
	}

	row := r.rows([]clockify.TimeEntry{*e}, projects)[0]
	if r.Format == FormatMarkdown {
		return r.markdown(entriesMarkdown([]entryRow{row}, true))
	}

	status := style.SuccessStyle.Render("finished")
	if e.InProgress() {
		status = style.RunningStyle.Render("running")
	}

	pairs := [][2]string{
		{"ID", row.id},
		{"Status", status},
		{"Description", row.description},
		{"Project", row.project},
		{"Start", row.start},
		{"Duration", row.duration},
	}
	if !e.InProgress() {
		pairs = append(pairs, [2]string{"End", row.end})
	}
	if e.Billable {
		pairs = append(pairs, [2]string{"Billable", "yes"})
	}
	_, err := fmt.Fprint(r.Out, style.KeyValue(pairs))
	return err
}
