package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PackageGenerationJob runs batch dispatch on a schedule so orders that
// accumulated since the last run get packaged without operator action.
type PackageGenerationJob struct {
	handler commands.GeneratePackagesCommandHandler
	cron    *cron.Cron
	spec    string
	logger  *slog.Logger
}

// NewPackageGenerationJob creates a job that runs the batch dispatch handler
// on the given cron spec for the current service date.
func NewPackageGenerationJob(
	handler commands.GeneratePackagesCommandHandler,
	spec string,
	logger *slog.Logger,
) *PackageGenerationJob {
	return &PackageGenerationJob{
		handler: handler,
		cron:    cron.New(),
		spec:    spec,
		logger:  logger.With("component", "package_generation_job"),
	}
}

// Start schedules the batch dispatch runs.
func (j *PackageGenerationJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		date := time.Now().UTC()

		cmd, cmdErr := commands.NewGeneratePackagesCommand(nil, date)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Cannot build batch dispatch command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Batch package generation failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Package generation job started", "spec", j.spec)
	return nil
}

// Stop stops the package generation job.
func (j *PackageGenerationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Package generation job stopped")
}
