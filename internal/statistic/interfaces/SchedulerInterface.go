package interfaces

// SchedulerInterface drives the periodic aggregate, refresh and save jobs.
type SchedulerInterface interface {
	Init()
	Stop()
	// Refresh reloads the projects registry and re-reads every repository
	// outside the regular schedule.
	Refresh()
	Restore() error
	Persist() error
}
