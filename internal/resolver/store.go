package resolver

import (
	"fmt"

	"github.com/arcuo/clockify-cli/internal/config"
	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

// ConfigStore keeps defaults in the config file. Every change rewrites the
// whole file.
type ConfigStore struct {
	Config *config.Config
}

// Default implements Store.
func (s ConfigStore) Default(kind Kind) (string, string) {
	switch kind {
	case Workspace:
		return s.Config.Workspace, s.Config.WorkspaceID
	case Project:
		return s.Config.Project, s.Config.ProjectID
	}
	return "", ""
}

// SetDefault implements Store.
func (s ConfigStore) SetDefault(kind Kind, name, id string) error {
	switch kind {
	case Workspace:
		s.Config.SetWorkspace(name, id)
	case Project:
		s.Config.SetProject(name, id)
	default:
		return fmt.Errorf("unknown reference kind %q", kind)
	}

	if err := s.Config.Save(); err != nil {
		return clierrors.ConfigError(fmt.Errorf("failed to save default %s: %w", kind, err))
	}
	return nil
}
