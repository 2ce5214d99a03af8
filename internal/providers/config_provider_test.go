package providers

import (
	"gtmd/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYaml = `
webServer:
  host: 127.0.0.1
  port: 8765
persistence:
  filePath: /tmp/gtmd.dat
  saveInterval: 30s
  compressionLevel: 2
logger:
  level: info
  mode: 0644
  dir: /tmp
projects:
  registry: /tmp/project.json
  refreshInterval: 2m
cache:
  enabled: true
  size: 8
metrics:
  enabled: true
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_ReadsFile(t *testing.T) {
	path := writeConfig(t, testConfigYaml)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, 8765, conf.WebServer.Port)
	assert.Equal(t, 30*time.Second, conf.Persistence.SaveInterval)
	assert.Equal(t, 2, conf.Persistence.CompressionLevel)
	assert.Equal(t, "/tmp/project.json", conf.Projects.Registry)
	assert.Equal(t, 2*time.Minute, conf.Projects.RefreshInterval)
	assert.Equal(t, ".gtm", conf.Projects.EventsDir)
	assert.Equal(t, 10*time.Second, conf.Statistic.Interval)
	assert.True(t, conf.Cache.Enabled)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYaml)
	t.Setenv("GTMD_LOG_LEVEL", "debug")
	t.Setenv("GTMD_REFRESH_INTERVAL", "5s")
	t.Setenv("GTMD_PROJECTS_REGISTRY", "/srv/project.json")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, 5*time.Second, conf.Projects.RefreshInterval)
	assert.Equal(t, "/srv/project.json", conf.Projects.Registry)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: 127.0.0.1\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
