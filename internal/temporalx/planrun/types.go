package planrun

import "time"

const (
	WorkflowName = "plan_run"

	ActivityMarkProcessing = "plan_run_mark_processing"
	ActivityGenerate       = "plan_run_generate"
	ActivityLinkCourse     = "plan_run_link_course"
	ActivityRenderPDF      = "plan_run_render_pdf"
	ActivityMarkDone       = "plan_run_mark_done"
	ActivityMarkFailed     = "plan_run_mark_failed"
	ActivityNotify         = "plan_run_notify"
)

// GenerateResult carries what the rest of the run needs from the generation
// step: the created (or previously created) course and the release time
// recorded on the request.
type GenerateResult struct {
	CourseID    string    `json:"course_id"`
	AvailableAt time.Time `json:"available_at"`
}
