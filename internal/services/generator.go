package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

// GeneratedPlan is what a plan generator hands back: structured content plus
// the optional extras the caller paid for.
type GeneratedPlan struct {
	Title           string                   `json:"title"`
	Weeks           []map[string]interface{} `json:"weeks"`
	NutritionAdvice string                   `json:"nutritionAdvice,omitempty"`
	Images          []string                 `json:"images,omitempty"`
}

// PlanGenerator is the collaborator boundary for plan authoring. The real
// implementation lives outside this service; the stub below keeps the
// pipeline runnable and deterministic.
type PlanGenerator interface {
	GenerateFromRequest(ctx context.Context, req *types.CoachRequest) (*GeneratedPlan, error)
	GenerateFromOptions(ctx context.Context, opts pricing.GeneratorOptions) (*GeneratedPlan, error)
	RegenerateDay(ctx context.Context, course *types.Course, week, day int) (map[string]interface{}, error)
	RegenerateWeek(ctx context.Context, course *types.Course, week int) (map[string]interface{}, error)
}

// PDFRenderer is the collaborator boundary for document rendering.
type PDFRenderer interface {
	Render(ctx context.Context, course *types.Course) ([]byte, error)
}

type stubPlanGenerator struct {
	log *logger.Logger
}

func NewStubPlanGenerator(baseLog *logger.Logger) PlanGenerator {
	return &stubPlanGenerator{log: baseLog.With("service", "StubPlanGenerator")}
}

func (g *stubPlanGenerator) GenerateFromRequest(_ context.Context, req *types.CoachRequest) (*GeneratedPlan, error) {
	if req == nil {
		return nil, fmt.Errorf("nil coach request")
	}
	weeks := make([]map[string]interface{}, 0, 4)
	for w := 1; w <= 4; w++ {
		weeks = append(weeks, planWeek(w, req.DaysPerWeek, req.TrainingType))
	}
	title := fmt.Sprintf("%s %s plan", req.Level, req.TrainingType)
	return &GeneratedPlan{Title: title, Weeks: weeks}, nil
}

func (g *stubPlanGenerator) GenerateFromOptions(_ context.Context, opts pricing.GeneratorOptions) (*GeneratedPlan, error) {
	weeks := make([]map[string]interface{}, 0, opts.Weeks)
	for w := 1; w <= opts.Weeks; w++ {
		weeks = append(weeks, planWeek(w, opts.SessionsPerWeek, "custom"))
	}
	plan := &GeneratedPlan{
		Title: fmt.Sprintf("%d-week custom program", opts.Weeks),
		Weeks: weeks,
	}
	if opts.NutritionTips {
		plan.NutritionAdvice = "Prioritize protein at every meal and hydrate before sessions."
	}
	for i := 0; i < opts.ImageCount; i++ {
		plan.Images = append(plan.Images, fmt.Sprintf("exercise-illustration-%03d", i+1))
	}
	return plan, nil
}

func (g *stubPlanGenerator) RegenerateDay(_ context.Context, course *types.Course, week, day int) (map[string]interface{}, error) {
	if course == nil {
		return nil, fmt.Errorf("nil course")
	}
	return map[string]interface{}{
		"week":     week,
		"day":      day,
		"sessions": []string{"warmup", "main block (revised)", "cooldown"},
	}, nil
}

func (g *stubPlanGenerator) RegenerateWeek(_ context.Context, course *types.Course, week int) (map[string]interface{}, error) {
	if course == nil {
		return nil, fmt.Errorf("nil course")
	}
	return planWeek(week, 3, "revised"), nil
}

func planWeek(week, days int, flavor string) map[string]interface{} {
	sessions := make([]map[string]interface{}, 0, days)
	for d := 1; d <= days; d++ {
		sessions = append(sessions, map[string]interface{}{
			"day":    d,
			"focus":  fmt.Sprintf("%s session %d", flavor, d),
			"blocks": []string{"warmup", "main", "cooldown"},
		})
	}
	return map[string]interface{}{
		"week":     week,
		"sessions": sessions,
	}
}

type stubPDFRenderer struct {
	log *logger.Logger
}

func NewStubPDFRenderer(baseLog *logger.Logger) PDFRenderer {
	return &stubPDFRenderer{log: baseLog.With("service", "StubPDFRenderer")}
}

// Render emits a minimal single-page document naming the course. Real
// rendering is a collaborator concern.
func (r *stubPDFRenderer) Render(_ context.Context, course *types.Course) ([]byte, error) {
	if course == nil {
		return nil, fmt.Errorf("nil course")
	}
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	b.WriteString("% " + course.Title + "\n")
	b.WriteString("1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	b.WriteString("2 0 obj << /Type /Pages /Kids [] /Count 0 >> endobj\n")
	b.WriteString("trailer << /Root 1 0 R >>\n%%EOF\n")
	return []byte(b.String()), nil
}
