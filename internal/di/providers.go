package di

import (
	"gtmd/internal/gitnotes"
	"gtmd/internal/providers"
	"gtmd/internal/services"
	"gtmd/internal/structures"
)

func provideRepositoryOpener() services.RepositoryOpener {
	return gitnotes.Open
}

// provideConsoleLogger is used by one-shot commands that should not write
// to the daemon log files.
func provideConsoleLogger(conf *structures.Config) providers.Logger {
	return providers.NewConsoleLogger(conf.Logger.Level)
}
