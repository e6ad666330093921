package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	packageGenerationJob *PackageGenerationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	generatePackagesHandler commands.GeneratePackagesCommandHandler,
	generationSpec string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		packageGenerationJob: NewPackageGenerationJob(generatePackagesHandler, generationSpec, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.packageGenerationJob.Start(); err != nil {
		return fmt.Errorf("failed to start package generation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.packageGenerationJob.Stop()
}
