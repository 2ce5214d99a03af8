package testutil

import (
	"gtmd/internal/models"
	"gtmd/internal/providers"
	"gtmd/internal/services"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockTimeService implements services.TimeServiceInterface.
type MockTimeService struct {
	mu             sync.Mutex
	AddEventCalls  []AddEventCall
	AddEventErr    error
	AggregateCalls int
	AggregateN     int
	AggregateErr   error
	RefreshCalls   int
	RefreshResult  services.RefreshResult
	RefreshErr     error
	StatusCalls    int
	Commits        []models.Commit
	LastFilter     *models.NotesFilter
	Projects       []string
	Status         map[string]*models.WorkdirStatus
	Snapshot       *models.Snapshot
	PutCalls       []*models.Snapshot
	PutErr         error
	Notes          map[string]*models.TimeRecord
	NoteErr        error
}

type AddEventCall struct {
	Project string
	Event   models.FileEvent
}

func (m *MockTimeService) AddEvent(project string, event models.FileEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddEventCalls = append(m.AddEventCalls, AddEventCall{Project: project, Event: event})
	return m.AddEventErr
}

func (m *MockTimeService) AggregateEvents() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AggregateCalls++
	return m.AggregateN, m.AggregateErr
}

func (m *MockTimeService) RefreshStatus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls++
	return nil
}

func (m *MockTimeService) RefreshCommits() (services.RefreshResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls++
	return m.RefreshResult, m.RefreshErr
}

func (m *MockTimeService) SetProjects(_ *models.Projects) {}

func (m *MockTimeService) GetCommits(filter *models.NotesFilter) []models.Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	return m.Commits
}

// GetNote looks up Notes by "project/hash".
func (m *MockTimeService) GetNote(project, hash string) (*models.TimeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NoteErr != nil {
		return nil, m.NoteErr
	}
	note, ok := m.Notes[project+"/"+hash]
	if !ok {
		return nil, models.ErrNoteNotFound
	}
	return note, nil
}

func (m *MockTimeService) GetProjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Projects
}

func (m *MockTimeService) GetStatus() map[string]*models.WorkdirStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Status
}

func (m *MockTimeService) GetCommitCount(_ string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Commits)
}

func (m *MockTimeService) GetBufferSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AddEventCalls)
}

func (m *MockTimeService) GetSnapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot
	}
	return models.NewSnapshot()
}

func (m *MockTimeService) PutSnapshot(snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, snapshot)
	return m.PutErr
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Clears int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Clears++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockNotesRepository implements models.NotesRepositoryInterface over a map.
type MockNotesRepository struct {
	mu      sync.Mutex
	Commits []models.CommitInfo
	Notes   map[string]string
	Err     error
}

func (m *MockNotesRepository) Note(hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.Notes[hash]
	if !ok {
		return "", models.ErrNoteNotFound
	}
	return note, nil
}

func (m *MockNotesRepository) ForEachNote(fn func(models.CommitInfo, string) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, info := range m.Commits {
		note, ok := m.Notes[info.Hash]
		if !ok {
			continue
		}
		if err := fn(info, note); err != nil {
			return err
		}
	}
	return nil
}

// MockMetrics implements providers.MetricsProviderInterface and keeps totals.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      int
	CacheHits     int
	CacheMisses   int
	Persists      int
	Refreshes     int
	EventsWritten int
	NotesSkipped  int
	Commits       map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) ObserveRefreshDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}
func (m *MockMetrics) AddEventsWritten(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EventsWritten += n
}
func (m *MockMetrics) AddNotesSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotesSkipped += n
}
func (m *MockMetrics) SetCommitsTotal(project string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Commits == nil {
		m.Commits = make(map[string]int)
	}
	m.Commits[project] = count
}
