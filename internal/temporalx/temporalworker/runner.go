package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/fitforge/fitforge-backend/internal/platform/envutil"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/temporalx"
	"github.com/fitforge/fitforge-backend/internal/temporalx/planrun"
)

type Runner struct {
	log  *logger.Logger
	tc   temporalsdkclient.Client
	acts *planrun.Activities
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, acts *planrun.Activities) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if acts == nil {
		return nil, fmt.Errorf("temporal worker missing activities")
	}
	return &Runner{log: log, tc: tc, acts: acts}, nil
}

// Start brings the worker up with retry, so a Temporal server that is still
// booting alongside us does not kill the process.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	if envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
		if err := temporalx.EnsureNamespace(ctx, cfg, r.log); err != nil && r.log != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", cfg.Namespace, "error", err)
		}
	}

	maxWait := time.Duration(envutil.Int("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)) * time.Second
	backoff := time.Duration(envutil.Int("TEMPORAL_WORKER_START_BACKOFF_MS", 250)) * time.Millisecond
	backoffMax := time.Duration(envutil.Int("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)) * time.Millisecond
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			if r.log != nil {
				r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			}
			return nil
		}
		w.Stop()

		if maxWait <= 0 || time.Now().After(deadline) {
			var nfe *serviceerror.NamespaceNotFound
			if errors.As(startErr, &nfe) {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}
		if r.log != nil {
			r.log.Warn("Temporal worker failed to start; retrying", "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)
		}
		time.Sleep(backoffFor(backoff, backoffMax, attempt))
	}
}

func (r *Runner) newWorker(cfg temporalx.Config) worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	w.RegisterWorkflowWithOptions(planrun.Workflow, workflow.RegisterOptions{Name: planrun.WorkflowName})
	w.RegisterActivityWithOptions(r.acts.MarkProcessing, activity.RegisterOptions{Name: planrun.ActivityMarkProcessing})
	w.RegisterActivityWithOptions(r.acts.Generate, activity.RegisterOptions{Name: planrun.ActivityGenerate})
	w.RegisterActivityWithOptions(r.acts.LinkCourse, activity.RegisterOptions{Name: planrun.ActivityLinkCourse})
	w.RegisterActivityWithOptions(r.acts.RenderPDF, activity.RegisterOptions{Name: planrun.ActivityRenderPDF})
	w.RegisterActivityWithOptions(r.acts.MarkDone, activity.RegisterOptions{Name: planrun.ActivityMarkDone})
	w.RegisterActivityWithOptions(r.acts.MarkFailed, activity.RegisterOptions{Name: planrun.ActivityMarkFailed})
	w.RegisterActivityWithOptions(r.acts.NotifyUser, activity.RegisterOptions{Name: planrun.ActivityNotify})
	return w
}

func backoffFor(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}
