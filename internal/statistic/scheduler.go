package statistic

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"gtmd/internal/providers"
	"gtmd/internal/services"
	"gtmd/internal/statistic/interfaces"
	"gtmd/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.TimeServiceInterface
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cache       providers.CacheProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.save()
	})

	s.cron.AddFunc(gron.Every(s.config.Statistic.Interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.aggregate()
	})

	s.cron.AddFunc(gron.Every(s.config.Projects.RefreshInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.refresh()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) save() error {
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	return nil
}

func (s *Scheduler) aggregate() {
	if s.service.GetBufferSize() == 0 {
		return
	}
	s.logger.Debugf(providers.TypeApp, "Aggregate events...")
	written, err := s.service.AggregateEvents()
	s.metrics.AddEventsWritten(written)
	s.cache.Clear()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Aggregation finished with errors: %s", err)
	}
	s.logger.Infof(providers.TypeApp, "Events aggregated: %d", written)
}

func (s *Scheduler) refresh() {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRefreshDuration(time.Since(start))
	}()

	projects, err := providers.NewProjectsProvider(s.config, s.logger)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Projects registry reload failed: %s", err)
	} else {
		s.service.SetProjects(projects)
	}

	result, err := s.service.RefreshCommits()
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Refresh commits: %s", err)
	}
	s.metrics.AddNotesSkipped(result.Skipped)
	for _, project := range s.service.GetProjects() {
		s.metrics.SetCommitsTotal(project, s.service.GetCommitCount(project))
	}
	if result.Skipped > 0 {
		s.logger.Warnf(providers.TypeApp, "Skipped %d undecodable notes", result.Skipped)
	}

	if err := s.service.RefreshStatus(); err != nil {
		s.logger.Warnf(providers.TypeApp, "Refresh status: %s", err)
	}
	s.cache.Clear()
	s.logger.Infof(providers.TypeApp, "Refreshed %d projects, %d commits", result.Projects, result.Commits)
}

func (s *Scheduler) Refresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.refresh()
}

// Restore loads the last snapshot and then reads the repositories once so
// the API serves fresh data before the first scheduled refresh. The
// repositories are read even when the snapshot cannot be loaded; the load
// error is returned afterwards.
func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	s.Refresh()
	return err
}

// Persist drains buffered events, writes a final snapshot and releases the
// compressor. It is called once, at shutdown.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	defer s.fileManager.Close()

	s.aggregate()
	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	return s.save()
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.TimeServiceInterface, fileManager *FileManager, metrics providers.MetricsProviderInterface, cache providers.CacheProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
		cache:       cache,
	}
}
