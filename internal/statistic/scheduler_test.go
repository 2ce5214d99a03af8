package statistic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gtmd/internal/models"
	"gtmd/internal/services"
	"gtmd/internal/structures"
	"gtmd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, filePath string) *structures.Config {
	registry := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(registry, []byte(`{"`+projectPath+`":"2020-05-01"}`), 0644))
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: time.Hour,
		},
		Statistic: structures.StatisticConfig{
			Interval: time.Hour,
		},
		Projects: structures.ProjectsConfig{
			Registry:        registry,
			EventsDir:       ".gtm",
			RefreshInterval: time.Hour,
		},
	}
}

type schedulerFixture struct {
	scheduler *Scheduler
	service   *testutil.MockTimeService
	logger    *testutil.MockLogger
	metrics   *testutil.MockMetrics
	cache     *testutil.MockCache
}

func newSchedulerFixture(t *testing.T, path string, comp *testutil.MockCompressor) *schedulerFixture {
	f := &schedulerFixture{
		service: &testutil.MockTimeService{Projects: []string{"gtm"}},
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		cache:   testutil.NewMockCache(),
	}
	fm := NewFileManager(comp, f.service, f.logger, f.metrics)
	f.scheduler = NewScheduler(testConfig(t, path), f.logger, f.service, fm, f.metrics, f.cache).(*Scheduler)
	return f
}

func TestScheduler_Restore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"projects":{}}`), 0644))

	f := newSchedulerFixture(t, path, &testutil.MockCompressor{})
	f.service.RefreshResult.Skipped = 2
	require.NoError(t, f.scheduler.Restore())

	assert.Len(t, f.service.PutCalls, 1)
	assert.Equal(t, 1, f.service.RefreshCalls)
	assert.Equal(t, 1, f.service.StatusCalls)
	assert.Equal(t, 2, f.metrics.NotesSkipped)
	assert.Equal(t, 1, f.metrics.Refreshes)
	assert.Contains(t, f.metrics.Commits, "gtm")
	assert.Equal(t, 1, f.cache.Clears)
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	f := newSchedulerFixture(t, "/nonexistent/file.dat", &testutil.MockCompressor{})
	assert.NoError(t, f.scheduler.Restore())
	assert.Empty(t, f.service.PutCalls)
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	f := newSchedulerFixture(t, path, &testutil.MockCompressor{})
	assert.Error(t, f.scheduler.Restore())
	assert.Empty(t, f.service.PutCalls)
	assert.Equal(t, 1, f.service.RefreshCalls)
	assert.Equal(t, 1, f.service.StatusCalls)
	assert.Equal(t, 1, f.cache.Clears)
}

func TestScheduler_RefreshErrorsAreLogged(t *testing.T) {
	f := newSchedulerFixture(t, "/nonexistent/file.dat", &testutil.MockCompressor{})
	f.service.RefreshErr = errors.New("project gtm: not a repository")
	f.scheduler.refresh()
	assert.Equal(t, 1, f.logger.Count("warn"))
}

func TestScheduler_Refresh(t *testing.T) {
	f := newSchedulerFixture(t, "", &testutil.MockCompressor{})
	f.service.RefreshResult = services.RefreshResult{Projects: 1, Commits: 3}

	f.scheduler.Refresh()
	f.scheduler.Refresh()

	assert.Equal(t, 2, f.service.RefreshCalls)
	assert.Equal(t, 2, f.service.StatusCalls)
	assert.Equal(t, 2, f.metrics.Refreshes)
	assert.Equal(t, 2, f.cache.Clears)
	assert.Empty(t, f.service.PutCalls)
}

func TestScheduler_Aggregate(t *testing.T) {
	f := newSchedulerFixture(t, "", &testutil.MockCompressor{})

	f.scheduler.aggregate()
	assert.Equal(t, 0, f.service.AggregateCalls, "empty buffer is not aggregated")

	require.NoError(t, f.service.AddEvent("gtm", models.FileEvent{Timestamp: 1, Path: "a.go"}))
	f.service.AggregateN = 1
	f.scheduler.aggregate()
	assert.Equal(t, 1, f.service.AggregateCalls)
	assert.Equal(t, 1, f.metrics.EventsWritten)
	assert.Equal(t, 1, f.cache.Clears)

	f.service.AggregateErr = errors.New("disk full")
	f.scheduler.aggregate()
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestScheduler_Persist_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	comp := &testutil.MockCompressor{}
	f := newSchedulerFixture(t, path, comp)
	require.NoError(t, f.service.AddEvent("gtm", models.FileEvent{Timestamp: 1, Path: "a.go"}))

	require.NoError(t, f.scheduler.Persist())
	assert.Equal(t, 1, f.service.AggregateCalls)
	assert.True(t, comp.Closed)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	f := newSchedulerFixture(t, filepath.Join(t.TempDir(), "test.dat"), comp)
	assert.Error(t, f.scheduler.Persist())
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestScheduler_StopNilCron(t *testing.T) {
	f := newSchedulerFixture(t, "", &testutil.MockCompressor{})
	f.scheduler.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	f := newSchedulerFixture(t, filepath.Join(t.TempDir(), "lifecycle.dat"), &testutil.MockCompressor{})
	f.scheduler.Init()
	time.Sleep(50 * time.Millisecond)
	f.scheduler.Stop()
}
