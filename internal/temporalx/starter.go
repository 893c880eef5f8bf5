package temporalx

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/services"
	"github.com/fitforge/fitforge-backend/internal/temporalx/planrun"
)

type planRunStarter struct {
	log *logger.Logger
	tc  temporalsdkclient.Client
	cfg Config
}

// NewPlanRunStarter dispatches plan runs onto the task queue. The workflow ID
// is derived from the request ID, so a double dispatch of the same request
// collapses into one execution.
func NewPlanRunStarter(log *logger.Logger, tc temporalsdkclient.Client) (services.PlanRunStarter, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	return &planRunStarter{
		log: log.With("service", "PlanRunStarter"),
		tc:  tc,
		cfg: LoadConfig(),
	}, nil
}

func (s *planRunStarter) StartPlanRun(ctx context.Context, requestID uuid.UUID) error {
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:        "plan-run-" + requestID.String(),
		TaskQueue: s.cfg.TaskQueue,
	}
	run, err := s.tc.ExecuteWorkflow(ctx, opts, planrun.WorkflowName, requestID.String())
	if err != nil {
		return fmt.Errorf("start plan run: %w", err)
	}
	s.log.Info("plan run started", "requestId", requestID, "workflowId", run.GetID(), "runId", run.GetRunID())
	return nil
}
