package planrun

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow carries one coach request from pending to done. Every step is an
// idempotent activity, so a replay after a crash resumes where it left off:
// the delayed release in particular survives restarts and fires once.
func Workflow(ctx workflow.Context, requestID string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return fmt.Errorf("planrun: missing request_id")
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    4,
		},
	})

	runErr := func() error {
		if err := workflow.ExecuteActivity(ctx, ActivityMarkProcessing, requestID).Get(ctx, nil); err != nil {
			return err
		}

		var gen GenerateResult
		if err := workflow.ExecuteActivity(ctx, ActivityGenerate, requestID).Get(ctx, &gen); err != nil {
			return err
		}

		if err := workflow.ExecuteActivity(ctx, ActivityLinkCourse, requestID, gen.CourseID).Get(ctx, nil); err != nil {
			return err
		}

		// Rendering is off the critical path: a failed render leaves the
		// plan text-only, it never fails the run.
		if err := workflow.ExecuteActivity(ctx, ActivityRenderPDF, gen.CourseID).Get(ctx, nil); err != nil {
			workflow.GetLogger(ctx).Warn("pdf render failed, continuing", "request_id", requestID, "error", err)
		}

		if wait := gen.AvailableAt.Sub(workflow.Now(ctx)); wait > 0 {
			if err := workflow.Sleep(ctx, wait); err != nil {
				return err
			}
		}

		if err := workflow.ExecuteActivity(ctx, ActivityMarkDone, requestID).Get(ctx, nil); err != nil {
			return err
		}

		if err := workflow.ExecuteActivity(ctx, ActivityNotify, requestID).Get(ctx, nil); err != nil {
			workflow.GetLogger(ctx).Warn("notify failed, continuing", "request_id", requestID, "error", err)
		}
		return nil
	}()

	if runErr != nil {
		failCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: time.Minute,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval: time.Second,
				MaximumAttempts: 10,
			},
		})
		if err := workflow.ExecuteActivity(failCtx, ActivityMarkFailed, requestID, runErr.Error()).Get(failCtx, nil); err != nil {
			workflow.GetLogger(ctx).Error("mark failed did not stick", "request_id", requestID, "error", err)
		}
		return runErr
	}
	return nil
}
