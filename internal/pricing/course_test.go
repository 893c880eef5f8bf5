package pricing

import "testing"

func TestCalcFullCourseTokensLinesPlusMarginEqualTotal(t *testing.T) {
	e := NewDefaultEngine()

	cases := []GeneratorOptions{
		{Weeks: 1, SessionsPerWeek: 2, PDFMode: PDFModeText},
		{Weeks: 8, SessionsPerWeek: 4, InjurySafe: true, NutritionTips: true, PDFMode: PDFModeText,
			WorkoutTypes: []string{"strength", "cardio"}, TargetMuscles: []string{"back", "legs", "core"}},
		{Weeks: 12, SessionsPerWeek: 6, InjurySafe: true, SpecialEquipment: true, NutritionTips: true,
			PDFMode: PDFModeIllustrated, ImageCount: 10,
			WorkoutTypes: []string{"strength"}, TargetMuscles: []string{"chest"}},
	}
	for _, o := range cases {
		if err := o.Validate(e.Table()); err != nil {
			t.Fatalf("Validate(%+v): %v", o, err)
		}
		b := e.CalcFullCourseTokens(o)
		var sum int64
		for _, l := range b.Lines {
			sum += l.Amount
		}
		if sum != b.Subtotal {
			t.Fatalf("lines sum %d != subtotal %d", sum, b.Subtotal)
		}
		if b.Subtotal+b.Margin != b.Total {
			t.Fatalf("subtotal %d + margin %d != total %d", b.Subtotal, b.Margin, b.Total)
		}
	}
}

func TestCalcFullCourseTokensMarginAppliedOnceToSum(t *testing.T) {
	e := NewDefaultEngine()
	o := GeneratorOptions{
		Weeks: 4, SessionsPerWeek: 3, NutritionTips: true, PDFMode: PDFModeIllustrated, ImageCount: 5,
		WorkoutTypes: []string{"strength", "mobility"}, TargetMuscles: []string{"back"},
	}
	b := e.CalcFullCourseTokens(o)

	// base 4*3*400=4800, nutrition 2000, images 1500, workout types 1000,
	// muscles 300 -> subtotal 9600, x1.3 = 12480.
	if b.Subtotal != 9600 {
		t.Fatalf("Subtotal = %d, want 9600", b.Subtotal)
	}
	if b.Total != 12480 {
		t.Fatalf("Total = %d, want 12480", b.Total)
	}
}

func TestCalcFullCourseTokensDeterministic(t *testing.T) {
	e := NewDefaultEngine()
	o := GeneratorOptions{Weeks: 6, SessionsPerWeek: 3, InjurySafe: true, PDFMode: PDFModeText,
		WorkoutTypes: []string{"hiit"}, TargetMuscles: []string{"core", "glutes"}}
	a := e.CalcFullCourseTokens(o)
	b := e.CalcFullCourseTokens(o)
	if a.Total != b.Total || a.Subtotal != b.Subtotal || len(a.Lines) != len(b.Lines) {
		t.Fatalf("same options priced differently: %+v vs %+v", a, b)
	}
}

func TestGeneratorOptionsValidate(t *testing.T) {
	e := NewDefaultEngine()
	bad := []GeneratorOptions{
		{Weeks: 0, SessionsPerWeek: 3, PDFMode: PDFModeText},
		{Weeks: 13, SessionsPerWeek: 3, PDFMode: PDFModeText},
		{Weeks: 4, SessionsPerWeek: 1, PDFMode: PDFModeText},
		{Weeks: 4, SessionsPerWeek: 7, PDFMode: PDFModeText},
		{Weeks: 4, SessionsPerWeek: 3, PDFMode: "audio"},
		{Weeks: 4, SessionsPerWeek: 3, PDFMode: PDFModeText, ImageCount: 2},
		{Weeks: 4, SessionsPerWeek: 3, PDFMode: PDFModeIllustrated, ImageCount: -1},
	}
	for _, o := range bad {
		if err := o.Validate(e.Table()); err == nil {
			t.Fatalf("Validate(%+v) passed, want error", o)
		}
	}
}
