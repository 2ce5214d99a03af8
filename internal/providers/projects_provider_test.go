package providers

import (
	"gtmd/internal/structures"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectsProvider_LoadsRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"/src/gtm":"2020-05-01"}`), 0644))
	conf := &structures.Config{Projects: structures.ProjectsConfig{Registry: path}}

	projects, err := NewProjectsProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"gtm"}, projects.Keys())
}

func TestNewProjectsProvider_MissingRegistry(t *testing.T) {
	conf := &structures.Config{Projects: structures.ProjectsConfig{Registry: filepath.Join(t.TempDir(), "none.json")}}

	projects, err := NewProjectsProvider(conf, &cacheTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, 0, projects.Len())
}

func TestNewProjectsProvider_CorruptRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0644))
	conf := &structures.Config{Projects: structures.ProjectsConfig{Registry: path}}

	_, err := NewProjectsProvider(conf, &cacheTestLogger{})
	assert.Error(t, err)
}

func TestNewProjectsProvider_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".git-time-metric")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.json"), []byte(`{"/a/b":"x"}`), 0644))

	projects, err := NewProjectsProvider(&structures.Config{}, &cacheTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, projects.Keys())
}
