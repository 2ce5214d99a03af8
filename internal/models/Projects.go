package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
)

// Projects is the registry of working directories initialized for time tracking.
// Keys are absolute paths, values the init date as written by the tracker.
type Projects struct {
	entries map[string]string
}

func NewProjects(entries map[string]string) *Projects {
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Projects{entries: entries}
}

// DefaultProjectsPath is ~/.git-time-metric/project.json.
func DefaultProjectsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".git-time-metric", "project.json"), nil
}

func LoadProjects(path string) (*Projects, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading projects registry %s: %w", path, err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing projects registry %s: %w", path, err)
	}
	return NewProjects(entries), nil
}

func (p *Projects) Len() int {
	return len(p.entries)
}

func (p *Projects) Contains(path string) bool {
	_, ok := p.entries[path]
	return ok
}

// Paths returns registered paths in sorted order.
func (p *Projects) Paths() []string {
	paths := make([]string, 0, len(p.entries))
	for path := range p.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Keys returns the project keys of Paths, in the same order.
func (p *Projects) Keys() []string {
	paths := p.Paths()
	keys := make([]string, len(paths))
	for i, path := range paths {
		keys[i] = ProjectKey(path)
	}
	return keys
}

// ProjectKey is the last element of a project path.
func ProjectKey(path string) string {
	return filepath.Base(filepath.Clean(path))
}
