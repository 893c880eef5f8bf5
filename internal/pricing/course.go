package pricing

import "fmt"

type PDFMode string

const (
	PDFModeText        PDFMode = "text"
	PDFModeIllustrated PDFMode = "illustrated"
)

func (m PDFMode) Valid() bool {
	return m == PDFModeText || m == PDFModeIllustrated
}

// GeneratorOptions are the knobs of the AI course generator.
type GeneratorOptions struct {
	Weeks            int      `json:"weeks"`
	SessionsPerWeek  int      `json:"sessions_per_week"`
	InjurySafe       bool     `json:"injury_safe"`
	SpecialEquipment bool     `json:"special_equipment"`
	NutritionTips    bool     `json:"nutrition_tips"`
	PDFMode          PDFMode  `json:"pdf_mode"`
	ImageCount       int      `json:"image_count"`
	WorkoutTypes     []string `json:"workout_types"`
	TargetMuscles    []string `json:"target_muscles"`
}

func (o GeneratorOptions) Validate(t Table) error {
	if o.Weeks < t.MinWeeks || o.Weeks > t.MaxWeeks {
		return &ValidationError{Field: "weeks", Msg: fmt.Sprintf("must be between %d and %d", t.MinWeeks, t.MaxWeeks)}
	}
	if o.SessionsPerWeek < t.MinSessionsPerWeek || o.SessionsPerWeek > t.MaxSessionsPerWeek {
		return &ValidationError{Field: "sessions_per_week", Msg: fmt.Sprintf("must be between %d and %d", t.MinSessionsPerWeek, t.MaxSessionsPerWeek)}
	}
	if !o.PDFMode.Valid() {
		return &ValidationError{Field: "pdf_mode", Msg: fmt.Sprintf("unknown pdf mode %q", string(o.PDFMode))}
	}
	if o.PDFMode == PDFModeText && o.ImageCount != 0 {
		return &ValidationError{Field: "image_count", Msg: "text mode does not take images"}
	}
	if o.ImageCount < 0 {
		return &ValidationError{Field: "image_count", Msg: "must not be negative"}
	}
	return nil
}

// CostLine is one named contribution to a full-course quote. Lines carry
// pre-margin amounts; the margin appears as its own line so the displayed
// breakdown sums to the total exactly.
type CostLine struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type FullCourseBreakdown struct {
	Lines    []CostLine `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Margin   int64      `json:"margin"`
	Total    int64      `json:"total"`
}

// CalcFullCourseTokens prices an AI-generated course. The margin multiplier
// is applied once, to the summed subtotal, never per line; Margin is defined
// as Total-Subtotal so Lines+Margin always reproduce Total with no rounding
// drift.
func (e *Engine) CalcFullCourseTokens(o GeneratorOptions) FullCourseBreakdown {
	t := e.table
	var b FullCourseBreakdown

	add := func(label string, amount int64) {
		if amount == 0 {
			return
		}
		b.Lines = append(b.Lines, CostLine{Label: label, Amount: amount})
		b.Subtotal += amount
	}

	add("base", int64(o.Weeks)*int64(o.SessionsPerWeek)*t.CourseBasePerSession)
	if o.InjurySafe {
		add("injury_safe", t.InjurySafeAdd)
	}
	if o.SpecialEquipment {
		add("special_equipment", t.SpecialEquipmentAdd)
	}
	if o.NutritionTips {
		add("nutrition_tips", t.NutritionTipsAdd)
	}
	if o.PDFMode == PDFModeIllustrated {
		add("illustrations", int64(o.ImageCount)*t.IllustratedImageAdd)
	}
	add("workout_types", int64(len(o.WorkoutTypes))*t.WorkoutTypeAdd)
	add("target_muscles", int64(len(o.TargetMuscles))*t.TargetMuscleAdd)

	b.Total = applyMargin(b.Subtotal, t.MarginNumerator, t.MarginDenominator)
	b.Margin = b.Total - b.Subtotal
	return b
}

// applyMargin rounds half up on integer token amounts.
func applyMargin(subtotal, num, den int64) int64 {
	if den <= 0 {
		return subtotal
	}
	return (subtotal*num + den/2) / den
}

func (e *Engine) RegenerateDayCost() int64  { return e.table.RegenerateDayCost }
func (e *Engine) RegenerateWeekCost() int64 { return e.table.RegenerateWeekCost }
