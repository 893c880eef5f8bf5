package pricing

import (
	"errors"
	"testing"
)

func TestCalcCoachRequestTokensBreakdownSumsToTotal(t *testing.T) {
	e := NewDefaultEngine()

	cases := []CoachRequestSelections{
		{Level: LevelBeginner, TrainingType: TrainingHome, Equipment: EquipmentNone, DaysPerWeek: 2},
		{Level: LevelIntermediate, TrainingType: TrainingGym, Equipment: EquipmentBasic, DaysPerWeek: 4},
		{Level: LevelAdvanced, TrainingType: TrainingMixed, Equipment: EquipmentFullGym, DaysPerWeek: 6},
	}
	for _, s := range cases {
		if err := s.Validate(e.Table()); err != nil {
			t.Fatalf("Validate(%+v): %v", s, err)
		}
		b := e.CalcCoachRequestTokens(s)
		sum := b.Base + b.LevelAdd + b.TrainingTypeAdd + b.EquipmentAdd + b.DaysAdd
		if sum != b.Total {
			t.Fatalf("breakdown parts sum %d != total %d for %+v", sum, b.Total, s)
		}
	}
}

func TestCalcCoachRequestTokensWorkedExample(t *testing.T) {
	e := NewDefaultEngine()
	b := e.CalcCoachRequestTokens(CoachRequestSelections{
		Level:        LevelAdvanced,
		TrainingType: TrainingMixed,
		Equipment:    EquipmentBasic,
		DaysPerWeek:  5,
	})
	// base 10000 + Advanced 3000 + Mixed 2000 + Basic 1000 + 2 extra days 2400.
	if b.Total != 18400 {
		t.Fatalf("Total = %d, want 18400 (breakdown %+v)", b.Total, b)
	}
	if b.DaysAdd != 2400 {
		t.Fatalf("DaysAdd = %d, want 2400", b.DaysAdd)
	}
}

func TestCalcCoachRequestTokensDeterministic(t *testing.T) {
	e := NewDefaultEngine()
	s := CoachRequestSelections{Level: LevelIntermediate, TrainingType: TrainingMixed, Equipment: EquipmentFullGym, DaysPerWeek: 5}
	a := e.CalcCoachRequestTokens(s)
	b := e.CalcCoachRequestTokens(s)
	if a != b {
		t.Fatalf("same selections priced differently: %+v vs %+v", a, b)
	}
}

func TestCoachRequestSelectionsValidate(t *testing.T) {
	e := NewDefaultEngine()

	bad := []CoachRequestSelections{
		{Level: "Pro", TrainingType: TrainingGym, Equipment: EquipmentNone, DaysPerWeek: 3},
		{Level: LevelBeginner, TrainingType: "Outdoor", Equipment: EquipmentNone, DaysPerWeek: 3},
		{Level: LevelBeginner, TrainingType: TrainingGym, Equipment: "Dumbbells", DaysPerWeek: 3},
		{Level: LevelBeginner, TrainingType: TrainingGym, Equipment: EquipmentNone, DaysPerWeek: 1},
		{Level: LevelBeginner, TrainingType: TrainingGym, Equipment: EquipmentNone, DaysPerWeek: 7},
	}
	for _, s := range bad {
		err := s.Validate(e.Table())
		if err == nil {
			t.Fatalf("Validate(%+v) passed, want ValidationError", s)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Validate(%+v) returned %T, want *ValidationError", s, err)
		}
	}
}

func TestSessionCost(t *testing.T) {
	e := NewDefaultEngine()

	for hours, want := range map[int]int64{1: 5000, 2: 10000, 3: 15000} {
		got, err := e.SessionCost(hours)
		if err != nil {
			t.Fatalf("SessionCost(%d): %v", hours, err)
		}
		if got != want {
			t.Fatalf("SessionCost(%d) = %d, want %d", hours, got, want)
		}
	}

	for _, hours := range []int{0, -1, 4, 24} {
		if _, err := e.SessionCost(hours); err == nil {
			t.Fatalf("SessionCost(%d) passed, want validation error", hours)
		}
	}
}

func TestMaxSessionHoursTracksAllowedSet(t *testing.T) {
	tab := DefaultTable()
	if tab.MaxSessionHours() != 3 {
		t.Fatalf("MaxSessionHours = %d, want 3", tab.MaxSessionHours())
	}
	tab.AllowedSessionHours = []int{1, 2, 3, 4}
	if tab.MaxSessionHours() != 4 {
		t.Fatalf("MaxSessionHours = %d after widening set, want 4", tab.MaxSessionHours())
	}
}
