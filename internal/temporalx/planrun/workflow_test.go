package planrun

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *callLog) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

type stubConfig struct {
	availableAt time.Time
	generateErr error
	renderErr   error
	notifyErr   error
	failedMsg   *string
}

func newEnv(t *testing.T, log *callLog, cfg stubConfig) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	env.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID string) error {
		log.add(ActivityMarkProcessing)
		return nil
	}, activity.RegisterOptions{Name: ActivityMarkProcessing})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID string) (GenerateResult, error) {
		log.add(ActivityGenerate)
		if cfg.generateErr != nil {
			return GenerateResult{}, cfg.generateErr
		}
		return GenerateResult{CourseID: "11111111-1111-1111-1111-111111111111", AvailableAt: cfg.availableAt}, nil
	}, activity.RegisterOptions{Name: ActivityGenerate})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID, courseID string) error {
		log.add(ActivityLinkCourse)
		return nil
	}, activity.RegisterOptions{Name: ActivityLinkCourse})

	env.RegisterActivityWithOptions(func(ctx context.Context, courseID string) error {
		log.add(ActivityRenderPDF)
		return cfg.renderErr
	}, activity.RegisterOptions{Name: ActivityRenderPDF})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID string) error {
		log.add(ActivityMarkDone)
		return nil
	}, activity.RegisterOptions{Name: ActivityMarkDone})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID, errMsg string) error {
		log.add(ActivityMarkFailed)
		if cfg.failedMsg != nil {
			*cfg.failedMsg = errMsg
		}
		return nil
	}, activity.RegisterOptions{Name: ActivityMarkFailed})

	env.RegisterActivityWithOptions(func(ctx context.Context, requestID string) error {
		log.add(ActivityNotify)
		return cfg.notifyErr
	}, activity.RegisterOptions{Name: ActivityNotify})

	return env
}

func TestWorkflowDelaysReleaseUntilAvailableAt(t *testing.T) {
	log := &callLog{}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	availableAt := start.Add(24 * time.Hour)

	env := newEnv(t, log, stubConfig{availableAt: availableAt})
	env.SetStartTime(start)

	env.ExecuteWorkflow(WorkflowName, "44444444-4444-4444-4444-444444444444")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}

	want := []string{
		ActivityMarkProcessing,
		ActivityGenerate,
		ActivityLinkCourse,
		ActivityRenderPDF,
		ActivityMarkDone,
		ActivityNotify,
	}
	got := log.names()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}

	if env.Now().Before(availableAt) {
		t.Fatalf("workflow finished at %s, before release time %s", env.Now(), availableAt)
	}
}

func TestWorkflowPastDueReleasesImmediately(t *testing.T) {
	log := &callLog{}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	env := newEnv(t, log, stubConfig{availableAt: start.Add(-time.Hour)})
	env.SetStartTime(start)

	env.ExecuteWorkflow(WorkflowName, "44444444-4444-4444-4444-444444444444")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	for _, name := range log.names() {
		if name == ActivityMarkFailed {
			t.Fatal("past-due release must not fail the run")
		}
	}
}

func TestWorkflowGenerateFailureMarksFailed(t *testing.T) {
	log := &callLog{}
	var failedMsg string
	cfg := stubConfig{
		generateErr: temporal.NewNonRetryableApplicationError("generator exploded", "GenerateError", nil),
		failedMsg:   &failedMsg,
	}
	env := newEnv(t, log, cfg)

	env.ExecuteWorkflow(WorkflowName, "44444444-4444-4444-4444-444444444444")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("workflow should surface the generate failure")
	}

	got := log.names()
	if got[len(got)-1] != ActivityMarkFailed {
		t.Fatalf("last call = %q, want %q (all: %v)", got[len(got)-1], ActivityMarkFailed, got)
	}
	if !strings.Contains(failedMsg, "generator exploded") {
		t.Fatalf("failure message %q does not carry the cause", failedMsg)
	}
	for _, name := range got {
		if name == ActivityMarkDone {
			t.Fatal("failed run must never reach done")
		}
	}
}

func TestWorkflowRenderFailureIsNotFatal(t *testing.T) {
	log := &callLog{}
	env := newEnv(t, log, stubConfig{
		availableAt: time.Now().Add(time.Hour),
		renderErr:   temporal.NewNonRetryableApplicationError("renderer offline", "RenderError", nil),
	})

	env.ExecuteWorkflow(WorkflowName, "44444444-4444-4444-4444-444444444444")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("render failure must not fail the run: %v", err)
	}

	var sawDone bool
	for _, name := range log.names() {
		if name == ActivityMarkDone {
			sawDone = true
		}
	}
	if !sawDone {
		t.Fatal("run never reached done")
	}
}

func TestWorkflowNotifyFailureIsNotFatal(t *testing.T) {
	log := &callLog{}
	env := newEnv(t, log, stubConfig{
		availableAt: time.Now().Add(time.Hour),
		notifyErr:   temporal.NewNonRetryableApplicationError("smtp down", "NotifyError", nil),
	})

	env.ExecuteWorkflow(WorkflowName, "44444444-4444-4444-4444-444444444444")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("notify failure must not fail the run: %v", err)
	}
}

func TestWorkflowRejectsEmptyRequestID(t *testing.T) {
	log := &callLog{}
	env := newEnv(t, log, stubConfig{})

	env.ExecuteWorkflow(WorkflowName, "  ")

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("blank request id must fail fast")
	}
}
