package pricing

import (
	"fmt"
	"time"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type TrainingType string

const (
	TrainingHome  TrainingType = "Home"
	TrainingGym   TrainingType = "Gym"
	TrainingMixed TrainingType = "Mixed"
)

func (t TrainingType) Valid() bool {
	switch t {
	case TrainingHome, TrainingGym, TrainingMixed:
		return true
	}
	return false
}

type Equipment string

const (
	EquipmentNone    Equipment = "None"
	EquipmentBasic   Equipment = "Basic"
	EquipmentFullGym Equipment = "Full gym"
)

func (e Equipment) Valid() bool {
	switch e {
	case EquipmentNone, EquipmentBasic, EquipmentFullGym:
		return true
	}
	return false
}

// CoachRequestSelections are the option picks a coach-plan quote is priced from.
type CoachRequestSelections struct {
	Level        Level        `json:"level"`
	TrainingType TrainingType `json:"training_type"`
	Equipment    Equipment    `json:"equipment"`
	DaysPerWeek  int          `json:"days_per_week"`
}

// CostBreakdown decomposes a coach-request quote into its additive parts.
// The parts always sum to Total, so the client preview and the server charge
// agree on the same authoritative number.
type CostBreakdown struct {
	Base            int64 `json:"base"`
	LevelAdd        int64 `json:"level_add"`
	TrainingTypeAdd int64 `json:"training_type_add"`
	EquipmentAdd    int64 `json:"equipment_add"`
	DaysAdd         int64 `json:"days_add"`
	Total           int64 `json:"total"`
}

// ValidationError marks malformed or out-of-range pricing input. It is
// surfaced to the caller immediately and never retried.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Engine maps option selections to token costs. All surcharges are
// table-driven constants so the same inputs always price the same.
type Engine struct {
	table Table
}

func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

func NewDefaultEngine() *Engine {
	return &Engine{table: DefaultTable()}
}

func (e *Engine) Table() Table { return e.table }

// Validate checks enum membership and day bounds. Calc functions assume a
// validated selection.
func (s CoachRequestSelections) Validate(t Table) error {
	if !s.Level.Valid() {
		return &ValidationError{Field: "level", Msg: fmt.Sprintf("unknown level %q", string(s.Level))}
	}
	if !s.TrainingType.Valid() {
		return &ValidationError{Field: "training_type", Msg: fmt.Sprintf("unknown training type %q", string(s.TrainingType))}
	}
	if !s.Equipment.Valid() {
		return &ValidationError{Field: "equipment", Msg: fmt.Sprintf("unknown equipment %q", string(s.Equipment))}
	}
	if s.DaysPerWeek < t.MinDaysPerWeek || s.DaysPerWeek > t.MaxDaysPerWeek {
		return &ValidationError{Field: "days_per_week", Msg: fmt.Sprintf("must be between %d and %d", t.MinDaysPerWeek, t.MaxDaysPerWeek)}
	}
	return nil
}

// CalcCoachRequestTokens prices a coach-built plan request. Pure: identical
// selections always yield an identical breakdown.
func (e *Engine) CalcCoachRequestTokens(s CoachRequestSelections) CostBreakdown {
	t := e.table
	b := CostBreakdown{
		Base:            t.CoachRequestBase,
		LevelAdd:        t.LevelAdd[s.Level],
		TrainingTypeAdd: t.TrainingTypeAdd[s.TrainingType],
		EquipmentAdd:    t.EquipmentAdd[s.Equipment],
	}
	if extra := s.DaysPerWeek - t.DaysIncluded; extra > 0 {
		b.DaysAdd = int64(extra) * t.ExtraDayAdd
	}
	b.Total = b.Base + b.LevelAdd + b.TrainingTypeAdd + b.EquipmentAdd + b.DaysAdd
	return b
}

// SessionCost prices a coach session of the given whole-hour duration.
// Durations outside the allowed set are rejected, not clamped.
func (e *Engine) SessionCost(durationHours int) (int64, error) {
	if !e.table.DurationAllowed(durationHours) {
		return 0, &ValidationError{
			Field: "duration_hours",
			Msg:   fmt.Sprintf("duration must be one of %v hours", e.table.AllowedSessionHours),
		}
	}
	return e.table.SessionHourlyRate * int64(durationHours), nil
}

// MaxSessionDuration is the longest bookable session. The booking overlap
// window is derived from this same table entry, so the two can never drift.
func (e *Engine) MaxSessionDuration() time.Duration {
	return time.Duration(e.table.MaxSessionHours()) * time.Hour
}
