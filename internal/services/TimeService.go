package services

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"gtmd/internal/models"
	"gtmd/internal/structures"
)

var (
	ErrUnknownProject     = errors.New("unknown project")
	ErrInvalidEvent       = errors.New("invalid event")
	ErrDuplicateEvent     = errors.New("event already recorded for this second")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// RepositoryOpener opens the notes of the repository checked out at path.
type RepositoryOpener func(path string) (models.NotesRepositoryInterface, error)

type TimeServiceInterface interface {
	AddEvent(project string, event models.FileEvent) error
	AggregateEvents() (int, error)
	RefreshStatus() error
	RefreshCommits() (RefreshResult, error)
	SetProjects(projects *models.Projects)
	GetCommits(filter *models.NotesFilter) []models.Commit
	GetNote(project, hash string) (*models.TimeRecord, error)
	GetProjects() []string
	GetStatus() map[string]*models.WorkdirStatus
	GetCommitCount(project string) int
	GetBufferSize() int
	GetSnapshot() *models.Snapshot
	PutSnapshot(snapshot *models.Snapshot) error
}

// RefreshResult summarizes one pass over the notes of every registered project.
type RefreshResult struct {
	Projects int
	Commits  int
	Skipped  int
}

type annotatedCommit struct {
	info models.CommitInfo
	note *models.TimeRecord
}

type projectState struct {
	path    string
	commits []annotatedCommit
	status  *models.TimeRecord
}

// eventBuffer holds events received between two aggregations.
// seen tracks the buffered seconds per project.
type eventBuffer struct {
	events map[string][]models.FileEvent
	seen   map[string]*roaring.Bitmap
	size   int
}

func newEventBuffer() *eventBuffer {
	return &eventBuffer{
		events: make(map[string][]models.FileEvent),
		seen:   make(map[string]*roaring.Bitmap),
	}
}

type TimeService struct {
	config *structures.Config
	store  models.EventStoreInterface
	open   RepositoryOpener

	bufMu     sync.Mutex
	buffers   [2]*eventBuffer
	activeIdx int

	aggMu sync.Mutex

	mu       sync.RWMutex
	projects map[string]string
	state    map[string]*projectState
}

func NewTimeService(config *structures.Config, projects *models.Projects, store models.EventStoreInterface, open RepositoryOpener) TimeServiceInterface {
	ts := &TimeService{
		config: config,
		store:  store,
		open:   open,
		state:  make(map[string]*projectState),
	}
	ts.buffers[0] = newEventBuffer()
	ts.buffers[1] = newEventBuffer()
	ts.SetProjects(projects)
	return ts
}

// SetProjects replaces the registry. When two paths share a key the
// lexicographically last path wins.
func (ts *TimeService) SetProjects(projects *models.Projects) {
	byKey := make(map[string]string, projects.Len())
	for _, path := range projects.Paths() {
		byKey[models.ProjectKey(path)] = path
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.projects = byKey
	for key, path := range byKey {
		if st, ok := ts.state[key]; ok {
			st.path = path
		}
	}
}

func (ts *TimeService) projectPath(key string) (string, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	path, ok := ts.projects[key]
	return path, ok
}

func (ts *TimeService) eventsDir(projectPath string) string {
	return filepath.Join(projectPath, ts.config.Projects.EventsDir)
}

func (ts *TimeService) AddEvent(project string, event models.FileEvent) error {
	if _, ok := ts.projectPath(project); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, project)
	}
	if !models.ValidEventPath(event.Path) {
		return fmt.Errorf("%w: path %q", ErrInvalidEvent, event.Path)
	}
	if event.Timestamp <= 0 || event.Timestamp > math.MaxUint32 {
		return fmt.Errorf("%w: timestamp %d", ErrInvalidEvent, event.Timestamp)
	}

	ts.bufMu.Lock()
	defer ts.bufMu.Unlock()

	buf := ts.buffers[ts.activeIdx]
	seen, ok := buf.seen[project]
	if !ok {
		seen = roaring.New()
		buf.seen[project] = seen
	}
	if !seen.CheckedAdd(uint32(event.Timestamp)) {
		return ErrDuplicateEvent
	}
	buf.events[project] = append(buf.events[project], event)
	buf.size++
	return nil
}

func (ts *TimeService) GetBufferSize() int {
	ts.bufMu.Lock()
	defer ts.bufMu.Unlock()
	return ts.buffers[ts.activeIdx].size
}

// AggregateEvents swaps the buffers, writes the drained events to the
// projects' event directories and recomputes the touched statuses.
// It returns the number of events written.
func (ts *TimeService) AggregateEvents() (int, error) {
	ts.aggMu.Lock()
	defer ts.aggMu.Unlock()

	ts.bufMu.Lock()
	drained := ts.buffers[ts.activeIdx]
	ts.activeIdx = 1 - ts.activeIdx
	ts.bufMu.Unlock()

	var (
		written int
		errs    []error
	)
	for project, events := range drained.events {
		path, ok := ts.projectPath(project)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownProject, project))
			continue
		}
		dir := ts.eventsDir(path)
		for _, event := range events {
			if err := ts.store.WriteEvent(dir, event); err != nil {
				errs = append(errs, fmt.Errorf("project %s: %w", project, err))
				continue
			}
			written++
		}
		if err := ts.refreshProjectStatus(project, path); err != nil {
			errs = append(errs, err)
		}
	}

	ts.bufMu.Lock()
	ts.buffers[1-ts.activeIdx] = newEventBuffer()
	ts.bufMu.Unlock()

	return written, errors.Join(errs...)
}

func (ts *TimeService) refreshProjectStatus(key, path string) error {
	events, err := ts.store.ReadEvents(ts.eventsDir(path))
	if err != nil {
		return fmt.Errorf("project %s: %w", key, err)
	}
	status := models.Aggregate(events)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.stateFor(key, path).status = status
	return nil
}

// stateFor must be called with mu held.
func (ts *TimeService) stateFor(key, path string) *projectState {
	st, ok := ts.state[key]
	if !ok {
		st = &projectState{path: path}
		ts.state[key] = st
	}
	return st
}

func (ts *TimeService) registered() map[string]string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	projects := make(map[string]string, len(ts.projects))
	for k, v := range ts.projects {
		projects[k] = v
	}
	return projects
}

// RefreshStatus recomputes the working directory status of every project.
func (ts *TimeService) RefreshStatus() error {
	var errs []error
	for key, path := range ts.registered() {
		if err := ts.refreshProjectStatus(key, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshCommits reloads annotated commits of every registered project.
// Notes that do not decode are skipped and counted. A project whose
// repository cannot be read keeps its previous commits.
func (ts *TimeService) RefreshCommits() (RefreshResult, error) {
	var (
		result RefreshResult
		errs   []error
	)
	for key, path := range ts.registered() {
		repo, err := ts.open(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", key, err))
			continue
		}
		var commits []annotatedCommit
		err = repo.ForEachNote(func(info models.CommitInfo, text string) error {
			note, err := models.DecodeNote(text)
			if err != nil {
				result.Skipped++
				return nil
			}
			commits = append(commits, annotatedCommit{info: info, note: note})
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", key, err))
			continue
		}
		sortCommits(commits)

		ts.mu.Lock()
		ts.stateFor(key, path).commits = commits
		ts.mu.Unlock()

		result.Projects++
		result.Commits += len(commits)
	}
	return result, errors.Join(errs...)
}

// GetNote reads and decodes the annotation of one commit straight from the
// project repository, bypassing the refreshed commit list.
func (ts *TimeService) GetNote(project, hash string) (*models.TimeRecord, error) {
	path, ok := ts.projectPath(project)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProject, project)
	}
	repo, err := ts.open(path)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", project, err)
	}
	text, err := repo.Note(hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, err)
	}
	note, err := models.DecodeNote(text)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, err)
	}
	return note, nil
}

func sortCommits(commits []annotatedCommit) {
	sort.SliceStable(commits, func(i, j int) bool {
		a, b := commits[i].info, commits[j].info
		if !a.Committed.Equal(b.Committed) {
			return a.Committed.Before(b.Committed)
		}
		return a.Hash < b.Hash
	})
}

func (ts *TimeService) sortedKeys() []string {
	keys := make([]string, 0, len(ts.state))
	for k := range ts.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetCommits returns matching commits grouped by project key, oldest first.
func (ts *TimeService) GetCommits(filter *models.NotesFilter) []models.Commit {
	if filter == nil {
		filter = models.AllNotes()
	}
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	result := make([]models.Commit, 0)
	for _, key := range ts.sortedKeys() {
		for _, c := range ts.state[key].commits {
			if filter.Matches(c.info.Committed, c.info.Message) {
				result = append(result, models.NewCommit(c.info, key, c.note))
			}
		}
	}
	return result
}

func (ts *TimeService) GetCommitCount(project string) int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	if st, ok := ts.state[project]; ok {
		return len(st.commits)
	}
	return 0
}

// GetProjects returns registered project keys in sorted order.
func (ts *TimeService) GetProjects() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	keys := make([]string, 0, len(ts.projects))
	for k := range ts.projects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetStatus returns the working directory status of every registered project.
// Projects never aggregated report an empty record.
func (ts *TimeService) GetStatus() map[string]*models.WorkdirStatus {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	result := make(map[string]*models.WorkdirStatus, len(ts.projects))
	for key := range ts.projects {
		status := models.NewTimeRecord(models.AggregateVersion, 0)
		if st, ok := ts.state[key]; ok && st.status != nil {
			status = st.status
		}
		result[key] = models.NewWorkdirStatus(status)
	}
	return result
}

func (ts *TimeService) GetSnapshot() *models.Snapshot {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	snapshot := models.NewSnapshot()
	for key, st := range ts.state {
		ps := &models.ProjectSnapshot{
			Path:    st.path,
			Commits: make([]models.ArchivedCommit, 0, len(st.commits)),
		}
		for _, c := range st.commits {
			ps.Commits = append(ps.Commits, models.ArchivedCommit{
				Info: c.info,
				Note: models.EncodeNote(c.note),
			})
		}
		if st.status != nil {
			ps.Status = models.EncodeNote(st.status)
		}
		snapshot.Projects[key] = ps
	}
	return snapshot
}

// PutSnapshot replaces the in-memory state. Entries whose note does not
// decode are dropped and reported in the returned error.
func (ts *TimeService) PutSnapshot(snapshot *models.Snapshot) error {
	if snapshot.Version != models.SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, snapshot.Version)
	}

	var errs []error
	state := make(map[string]*projectState, len(snapshot.Projects))
	for key, ps := range snapshot.Projects {
		if ps == nil {
			continue
		}
		st := &projectState{path: ps.Path}
		for _, ac := range ps.Commits {
			note, err := models.DecodeNote(ac.Note)
			if err != nil {
				errs = append(errs, fmt.Errorf("project %s commit %s: %w", key, ac.Info.Hash, err))
				continue
			}
			st.commits = append(st.commits, annotatedCommit{info: ac.Info, note: note})
		}
		sortCommits(st.commits)
		if ps.Status != "" {
			status, err := models.DecodeNote(ps.Status)
			if err != nil {
				errs = append(errs, fmt.Errorf("project %s status: %w", key, err))
			} else {
				st.status = status
			}
		}
		state[key] = st
	}

	ts.mu.Lock()
	ts.state = state
	ts.mu.Unlock()
	return errors.Join(errs...)
}
