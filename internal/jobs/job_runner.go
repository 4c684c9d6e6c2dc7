package jobs

import (
	"context"
	"time"

	"identity-console/internal/config"
	"identity-console/internal/logger"
	"identity-console/internal/service"
)

// jobTimeout bounds each scheduled run.
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Workflow service.WorkflowService
	Audit    service.AuditService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

// Config returns the runner's configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// PullWorkflowUsers fetches the workflow endpoint's user list and provisions
// every valid record. A missing workflow URL is not an error; the job simply
// has nothing to do.
func (jr *JobRunner) PullWorkflowUsers() {
	jr.runWithRecovery("PullWorkflowUsers", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		result, err := jr.services.Workflow.Pull(ctx)
		if err != nil {
			logger.Error("Workflow pull failed", "error", err)
			return
		}
		logger.Info("Workflow pull finished",
			"provisioned", result.Provisioned,
			"skipped", result.Skipped,
			"failed", result.Failed)
	})
}

// PruneAuditLog deletes audit entries older than the configured retention
func (jr *JobRunner) PruneAuditLog() {
	jr.runWithRecovery("PruneAuditLog", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		deleted, err := jr.services.Audit.Prune(ctx, jr.config.Audit.RetentionDays)
		if err != nil {
			logger.Error("Audit log prune failed", "error", err)
			return
		}
		logger.Info("Audit log pruned", "deleted", deleted, "retention_days", jr.config.Audit.RetentionDays)
	})
}
