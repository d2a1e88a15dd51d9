// Package resolver turns workspace and project names into ids, falling back
// to stored defaults and, as a last resort, asking the user.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

// Kind is the type of reference being resolved.
type Kind string

const (
	Workspace Kind = "workspace"
	Project   Kind = "project"
)

// Source records how a Resolution was reached.
type Source int

const (
	FromName Source = iota
	FromDefault
	FromPrompt
)

func (s Source) String() string {
	switch s {
	case FromDefault:
		return "default"
	case FromPrompt:
		return "prompt"
	default:
		return "name"
	}
}

// Lister fetches the live name to id mapping. parentID is the workspace id
// for projects and ignored for workspaces.
type Lister interface {
	Names(ctx context.Context, kind Kind, parentID string) (map[string]string, error)
}

// Store holds the persisted defaults.
type Store interface {
	Default(kind Kind) (name, id string)
	SetDefault(kind Kind, name, id string) error
}

// PromptFunc asks the user to pick one of choices. It may return a name that
// is not among them.
type PromptFunc func(label string, choices []string) (string, error)

// Resolution is a resolved reference.
type Resolution struct {
	Kind   Kind
	Name   string
	ID     string
	Source Source
}

// Resolver applies the order: explicit name, stored default, prompt.
type Resolver struct {
	Lister Lister
	Store  Store
	Prompt PromptFunc
}

// Resolve returns the id for name. An explicit name is looked up in the live
// listing and never touches the store. Without a name the stored default is
// returned as is, with no network call. With neither, the user is prompted
// and the answer is stored as the new default.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, parentID, name string) (Resolution, error) {
	if name != "" {
		return r.lookup(ctx, kind, parentID, name)
	}

	if defName, defID := r.Store.Default(kind); defID != "" {
		return Resolution{Kind: kind, Name: defName, ID: defID, Source: FromDefault}, nil
	}

	return r.promptAndStore(ctx, kind, parentID)
}

// Pick resolves name, prompting when it is empty. The stored default is
// neither read nor written.
func (r *Resolver) Pick(ctx context.Context, kind Kind, parentID, name string) (Resolution, error) {
	if name != "" {
		return r.lookup(ctx, kind, parentID, name)
	}
	return r.prompt(ctx, kind, parentID)
}

// SetDefault resolves name (prompting when empty) and stores it as the default.
func (r *Resolver) SetDefault(ctx context.Context, kind Kind, parentID, name string) (Resolution, error) {
	if name == "" {
		return r.promptAndStore(ctx, kind, parentID)
	}

	res, err := r.lookup(ctx, kind, parentID, name)
	if err != nil {
		return Resolution{}, err
	}
	if err := r.Store.SetDefault(kind, res.Name, res.ID); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, kind Kind, parentID, name string) (Resolution, error) {
	names, err := r.Lister.Names(ctx, kind, parentID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to list %ss: %w", kind, err)
	}
	return match(kind, names, name, FromName)
}

func (r *Resolver) promptAndStore(ctx context.Context, kind Kind, parentID string) (Resolution, error) {
	res, err := r.prompt(ctx, kind, parentID)
	if err != nil {
		return Resolution{}, err
	}
	if err := r.Store.SetDefault(kind, res.Name, res.ID); err != nil {
		return Resolution{}, err
	}
	return res, nil
}

func (r *Resolver) prompt(ctx context.Context, kind Kind, parentID string) (Resolution, error) {
	if r.Prompt == nil {
		return Resolution{}, clierrors.ValidationError(
			fmt.Errorf("no %s given and no default %s set", kind, kind),
			fmt.Sprintf("Pass --%s or run 'clockify set_%s <name>'.", kind, kind))
	}

	names, err := r.Lister.Names(ctx, kind, parentID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to list %ss: %w", kind, err)
	}

	answer, err := r.Prompt(label(kind), sortedKeys(names))
	if err != nil {
		return Resolution{}, fmt.Errorf("prompt failed: %w", err)
	}

	return match(kind, names, strings.TrimSpace(answer), FromPrompt)
}

func match(kind Kind, names map[string]string, name string, src Source) (Resolution, error) {
	id, ok := names[name]
	if !ok {
		return Resolution{}, notFound(kind, name, names)
	}
	return Resolution{Kind: kind, Name: name, ID: id, Source: src}, nil
}

func notFound(kind Kind, name string, names map[string]string) error {
	err := fmt.Errorf("%s %q not found", kind, name)

	if suggestions := Suggest(name, sortedKeys(names), 3); len(suggestions) > 0 {
		return clierrors.NotFoundError(err, "Did you mean: "+strings.Join(suggestions, ", ")+"?")
	}
	return clierrors.NotFoundError(err, fmt.Sprintf("Run 'clockify %ss' to list the available names.", kind))
}

// Suggest returns up to limit candidates fuzzily matching name, best first.
func Suggest(name string, candidates []string, limit int) []string {
	if name == "" {
		return nil
	}

	var out []string
	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
		if len(out) == limit {
			break
		}
	}
	return out
}

func label(kind Kind) string {
	return strings.ToUpper(string(kind[:1])) + string(kind[1:]) + " name"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
