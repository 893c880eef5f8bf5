package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table holds every pricing constant. There is exactly one table per process;
// everything that needs a cost or a bound (including the booking overlap
// window) reads it from here.
type Table struct {
	CoachRequestBase int64                  `yaml:"coach_request_base"`
	LevelAdd         map[Level]int64        `yaml:"level_add"`
	TrainingTypeAdd  map[TrainingType]int64 `yaml:"training_type_add"`
	EquipmentAdd     map[Equipment]int64    `yaml:"equipment_add"`

	MinDaysPerWeek int   `yaml:"min_days_per_week"`
	MaxDaysPerWeek int   `yaml:"max_days_per_week"`
	DaysIncluded   int   `yaml:"days_included"`
	ExtraDayAdd    int64 `yaml:"extra_day_add"`

	SessionHourlyRate   int64 `yaml:"session_hourly_rate"`
	AllowedSessionHours []int `yaml:"allowed_session_hours"`

	CourseBasePerSession int64 `yaml:"course_base_per_session"`
	MinWeeks             int   `yaml:"min_weeks"`
	MaxWeeks             int   `yaml:"max_weeks"`
	MinSessionsPerWeek   int   `yaml:"min_sessions_per_week"`
	MaxSessionsPerWeek   int   `yaml:"max_sessions_per_week"`
	InjurySafeAdd        int64 `yaml:"injury_safe_add"`
	SpecialEquipmentAdd  int64 `yaml:"special_equipment_add"`
	NutritionTipsAdd     int64 `yaml:"nutrition_tips_add"`
	IllustratedImageAdd  int64 `yaml:"illustrated_image_add"`
	WorkoutTypeAdd       int64 `yaml:"workout_type_add"`
	TargetMuscleAdd      int64 `yaml:"target_muscle_add"`

	// Platform margin applied once to the summed subtotal, expressed as a
	// ratio to keep the math integral (13/10 = x1.3).
	MarginNumerator   int64 `yaml:"margin_numerator"`
	MarginDenominator int64 `yaml:"margin_denominator"`

	RegenerateDayCost  int64 `yaml:"regenerate_day_cost"`
	RegenerateWeekCost int64 `yaml:"regenerate_week_cost"`
}

func DefaultTable() Table {
	return Table{
		CoachRequestBase: 10000,
		LevelAdd: map[Level]int64{
			LevelBeginner:     0,
			LevelIntermediate: 1500,
			LevelAdvanced:     3000,
		},
		TrainingTypeAdd: map[TrainingType]int64{
			TrainingHome:  0,
			TrainingGym:   1000,
			TrainingMixed: 2000,
		},
		EquipmentAdd: map[Equipment]int64{
			EquipmentNone:    0,
			EquipmentBasic:   1000,
			EquipmentFullGym: 2500,
		},

		MinDaysPerWeek: 2,
		MaxDaysPerWeek: 6,
		DaysIncluded:   3,
		ExtraDayAdd:    1200,

		SessionHourlyRate:   5000,
		AllowedSessionHours: []int{1, 2, 3},

		CourseBasePerSession: 400,
		MinWeeks:             1,
		MaxWeeks:             12,
		MinSessionsPerWeek:   2,
		MaxSessionsPerWeek:   6,
		InjurySafeAdd:        1500,
		SpecialEquipmentAdd:  1000,
		NutritionTipsAdd:     2000,
		IllustratedImageAdd:  300,
		WorkoutTypeAdd:       500,
		TargetMuscleAdd:      300,

		MarginNumerator:   13,
		MarginDenominator: 10,

		RegenerateDayCost:  800,
		RegenerateWeekCost: 2500,
	}
}

// LoadTable reads a YAML override file on top of the defaults. An empty path
// returns the defaults unchanged.
func LoadTable(path string) (Table, error) {
	t := DefaultTable()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read pricing table: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse pricing table: %w", err)
	}
	if err := t.check(); err != nil {
		return t, fmt.Errorf("invalid pricing table: %w", err)
	}
	return t, nil
}

func (t Table) check() error {
	if t.CoachRequestBase <= 0 {
		return fmt.Errorf("coach_request_base must be positive")
	}
	if t.MarginDenominator <= 0 || t.MarginNumerator < t.MarginDenominator {
		return fmt.Errorf("margin ratio must be >= 1")
	}
	if len(t.AllowedSessionHours) == 0 {
		return fmt.Errorf("allowed_session_hours must not be empty")
	}
	if t.MinDaysPerWeek < 1 || t.MaxDaysPerWeek < t.MinDaysPerWeek {
		return fmt.Errorf("days_per_week bounds are inconsistent")
	}
	return nil
}

func (t Table) DurationAllowed(hours int) bool {
	for _, h := range t.AllowedSessionHours {
		if h == hours {
			return true
		}
	}
	return false
}

// MaxSessionHours is the single source of truth for the longest session the
// platform sells; the booking scheduler's candidate fetch window depends on it.
func (t Table) MaxSessionHours() int {
	max := 0
	for _, h := range t.AllowedSessionHours {
		if h > max {
			max = h
		}
	}
	return max
}
