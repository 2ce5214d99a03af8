package statistic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gtmd/internal/models"
)

const eventExt = ".event"

// EventStore keeps one marker file per recorded second, named <epoch>.event
// and holding the path of the active file.
type EventStore struct{}

func NewEventStore() models.EventStoreInterface {
	return &EventStore{}
}

// ReadEvents returns the events of dir strictly ordered by timestamp, ready
// for models.Aggregate. Stems that are not canonical epochs and paths that
// cannot be written into a note are skipped. A missing directory has no
// events.
func (es *EventStore) ReadEvents(dir string) ([]models.FileEvent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.FileEvent{}, nil
		}
		return nil, fmt.Errorf("reading events dir %s: %w", dir, err)
	}

	events := make([]models.FileEvent, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != eventExt {
			continue
		}
		ts, err := models.ParseEpoch(strings.TrimSuffix(name, eventExt))
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading event %s: %w", name, err)
		}
		path := strings.TrimRight(string(content), "\r\n")
		if !models.ValidEventPath(path) {
			continue
		}
		events = append(events, models.FileEvent{Timestamp: ts, Path: path})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return uniqueSeconds(events), nil
}

// uniqueSeconds keeps the first event of every second of a sorted slice.
func uniqueSeconds(events []models.FileEvent) []models.FileEvent {
	out := events[:0]
	for i, event := range events {
		if i > 0 && event.Timestamp == out[len(out)-1].Timestamp {
			continue
		}
		out = append(out, event)
	}
	return out
}

// WriteEvent stores event atomically, replacing an event of the same second.
func (es *EventStore) WriteEvent(dir string, event models.FileEvent) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating events dir %s: %w", dir, err)
	}
	name := filepath.Join(dir, strconv.FormatInt(event.Timestamp, 10)+eventExt)
	return writeFileAtomic(name, []byte(event.Path), 0o644)
}
