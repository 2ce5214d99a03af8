package providers

import (
	"errors"
	"os"

	"gtmd/internal/models"
	"gtmd/internal/structures"
)

// NewProjectsProvider loads the projects registry named by projects.registry,
// falling back to ~/.git-time-metric/project.json. A missing registry yields
// no projects.
func NewProjectsProvider(conf *structures.Config, logger Logger) (*models.Projects, error) {
	path := conf.Projects.Registry
	if path == "" {
		var err error
		path, err = models.DefaultProjectsPath()
		if err != nil {
			return nil, err
		}
	}

	projects, err := models.LoadProjects(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf(TypeApp, "Projects registry %s not found", path)
		return models.NewProjects(nil), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debugf(TypeApp, "Loaded %d projects from %s", projects.Len(), path)
	return projects, nil
}
