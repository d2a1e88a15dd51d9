package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

// Format is a listing output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --output values.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat validates an --output value. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", clierrors.ValidationError(
		fmt.Errorf("unknown output format %q", s),
		"Use one of: "+strings.Join(names, ", "))
}

// Renderer writes listings in one format.
type Renderer struct {
	Out      io.Writer
	Format   Format
	Location *time.Location
	Color    bool
	Now      func() time.Time
}

// NewRenderer returns a Renderer writing to stdout.
func NewRenderer(format Format, loc *time.Location, color bool) *Renderer {
	return &Renderer{
		Out:      os.Stdout,
		Format:   format,
		Location: loc,
		Color:    color,
		Now:      time.Now,
	}
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// structured writes v as JSON or YAML and reports whether it did.
func (r *Renderer) structured(v interface{}) (bool, error) {
	switch r.Format {
	case FormatJSON:
		return true, WriteJSON(r.Out, v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return true, enc.Close()
	}
	return false, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// markdown renders a markdown document through glamour.
func (r *Renderer) markdown(doc string) error {
	style := "notty"
	if r.Color {
		style = "dracula"
	}
	out, err := glamour.Render(doc, style)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = fmt.Fprint(r.Out, out)
	return err
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out)
	if r.Color {
		t.SetStyle(table.StyleColoredBright)
		t.Style().Color.Header = text.Colors{text.BgHiBlue, text.FgHiWhite, text.Bold}
	} else {
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
		t.Style().Options.SeparateHeader = true
	}
	return t
}

// NamedItem is an id and name pair, as listed by workspaces and projects.
type NamedItem struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Names renders a name to id listing. Text output is one "id: name" line per
// item, sorted by name.
func (r *Renderer) Names(title string, items []NamedItem) error {
	sorted := append([]NamedItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	if ok, err := r.structured(sorted); ok {
		return err
	}

	if r.Format == FormatMarkdown {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n| Name | ID |\n|---|---|\n", title)
		for _, it := range sorted {
			fmt.Fprintf(&b, "| %s | `%s` |\n", escapeCell(it.Name), it.ID)
		}
		return r.markdown(b.String())
	}

	for _, it := range sorted {
		if _, err := fmt.Fprintf(r.Out, "%s: %s\n", it.ID, it.Name); err != nil {
			return err
		}
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
