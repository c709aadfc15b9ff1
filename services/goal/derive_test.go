package goal

import (
	"errors"
	"math"
	"testing"
	"time"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/services"
	"nutrition-go-worker/structs"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func referenceUser() models.User {
	return models.User{
		ID:            "user-1",
		Weight:        floatPtr(80),
		Height:        floatPtr(180),
		Age:           intPtr(30),
		Gender:        strPtr(enums.GenderMale),
		ActivityLevel: strPtr(enums.ActivityModerate),
	}
}

func TestBMR(t *testing.T) {
	male := referenceUser()
	bmr, err := BMR(male)
	if err != nil {
		t.Fatal(err)
	}
	if bmr != 1780 {
		t.Errorf("male BMR = %v, want 1780", bmr)
	}

	female := referenceUser()
	female.Gender = strPtr(enums.GenderFemale)
	if bmr, _ := BMR(female); bmr != 1614 {
		t.Errorf("female BMR = %v, want 1614", bmr)
	}
}

func TestBMRMissingInputs(t *testing.T) {
	user := models.User{ID: "user-1", Weight: floatPtr(70)}
	_, err := BMR(user)
	if !errors.Is(err, services.ErrDomainComputation) {
		t.Fatalf("error = %v, want domain computation error", err)
	}
	var domainErr *services.DomainComputationError
	if !errors.As(err, &domainErr) {
		t.Fatal("expected *DomainComputationError")
	}
	want := []string{"height", "age", "gender"}
	if len(domainErr.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", domainErr.Missing, want)
	}
	for i := range want {
		if domainErr.Missing[i] != want[i] {
			t.Errorf("missing[%d] = %s, want %s", i, domainErr.Missing[i], want[i])
		}
	}

	unknown := referenceUser()
	unknown.Gender = strPtr("other")
	if _, err := BMR(unknown); !errors.Is(err, services.ErrDomainComputation) {
		t.Errorf("unknown gender error = %v", err)
	}
}

func TestTDEE(t *testing.T) {
	tests := []struct {
		level *string
		want  float64
	}{
		{strPtr(enums.ActivityModerate), 2759},
		{strPtr(enums.ActivitySedentary), 2136},
		{nil, 2136},
		{strPtr(enums.ActivityVeryActive), 3382},
	}
	for _, tt := range tests {
		got, err := TDEE(1780, tt.level)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("TDEE(1780, %v) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if _, err := TDEE(1780, strPtr("couch")); !errors.Is(err, services.ErrValidation) {
		t.Errorf("unknown level error = %v", err)
	}
}

func TestTargetCalories(t *testing.T) {
	if got := TargetCalories(2759, -0.5); got != 2209 {
		t.Errorf("weight loss target = %d, want 2209", got)
	}
	if got := TargetCalories(2759, 0); got != 2759 {
		t.Errorf("maintenance target = %d, want 2759", got)
	}
	if got := TargetCalories(2759, 0.3); got != 3089 {
		t.Errorf("weight gain target = %d, want 3089", got)
	}
}

func TestDerive(t *testing.T) {
	goal, err := Derive(referenceUser(), enums.GoalWeightLoss, Overrides{}, DefaultPolicy)
	if err != nil {
		t.Fatal(err)
	}
	if goal.BMR != 1780 || goal.TDEE != 2759 || goal.TargetCalories != 2209 {
		t.Errorf("bmr/tdee/target = %v/%v/%v, want 1780/2759/2209", goal.BMR, goal.TDEE, goal.TargetCalories)
	}
	if goal.WeeklyWeightChange != -0.5 {
		t.Errorf("weekly change = %v", goal.WeeklyWeightChange)
	}
	want := structs.MacroGrams{Carbs: 276, Protein: 110, Fat: 74}
	if goal.TargetMacros == nil || *goal.TargetMacros != want {
		t.Errorf("macros = %+v, want %+v", goal.TargetMacros, want)
	}
	if goal.Status != enums.GoalStateDraft || goal.IsActive {
		t.Errorf("derived goal must be a draft, got %s active=%v", goal.Status, goal.IsActive)
	}
}

func TestDeriveOverrides(t *testing.T) {
	overrides := Overrides{
		TargetCalories: intPtr(1000),
		CarbsPercent:   floatPtr(40),
		ProteinPercent: floatPtr(30),
		FatPercent:     floatPtr(30),
	}
	goal, err := Derive(referenceUser(), enums.GoalWeightLoss, overrides, DefaultPolicy)
	if err != nil {
		t.Fatal(err)
	}
	// 覆寫的目標不套用下限
	if goal.TargetCalories != 1000 {
		t.Errorf("target = %d, want 1000", goal.TargetCalories)
	}
	want := structs.MacroGrams{Carbs: 100, Protein: 75, Fat: 33}
	if *goal.TargetMacros != want {
		t.Errorf("macros = %+v, want %+v", *goal.TargetMacros, want)
	}
}

func TestDeriveCalorieFloors(t *testing.T) {
	small := models.User{
		ID:     "user-2",
		Weight: floatPtr(45),
		Height: floatPtr(150),
		Age:    intPtr(60),
		Gender: strPtr(enums.GenderFemale),
	}
	// BMR = 450 + 937.5 - 300 - 161 = 926.5, TDEE = 1111.8, target = 562
	tests := []struct {
		name   string
		gender string
		policy structs.GoalConfig
		want   int
	}{
		{"generic floor", enums.GenderFemale, DefaultPolicy, 1200},
		{"male floor", enums.GenderMale, DefaultPolicy, 1500},
		{"floors disabled", enums.GenderFemale, structs.GoalConfig{}, 562},
		{"male floor disabled", enums.GenderMale, structs.GoalConfig{GenericCalorieFloor: 1200}, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := small
			user.Gender = strPtr(tt.gender)
			goal, err := Derive(user, enums.GoalWeightLoss, Overrides{}, tt.policy)
			if err != nil {
				t.Fatal(err)
			}
			if tt.gender == enums.GenderFemale && goal.TargetCalories != tt.want {
				t.Errorf("target = %d, want %d", goal.TargetCalories, tt.want)
			}
			if tt.gender == enums.GenderMale && goal.TargetCalories < tt.want {
				t.Errorf("target = %d, want at least %d", goal.TargetCalories, tt.want)
			}
		})
	}
}

func TestDeriveValidation(t *testing.T) {
	tests := []struct {
		name      string
		goalType  string
		overrides Overrides
	}{
		{"bad goal type", "bulk_up", Overrides{}},
		{"split not 100", enums.GoalMaintenance, Overrides{CarbsPercent: floatPtr(60)}},
		{"negative split", enums.GoalMaintenance, Overrides{CarbsPercent: floatPtr(-10), ProteinPercent: floatPtr(80)}},
		{"zero target", enums.GoalMaintenance, Overrides{TargetCalories: intPtr(0)}},
		{"negative water", enums.GoalMaintenance, Overrides{TargetWaterLiters: floatPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Derive(referenceUser(), tt.goalType, tt.overrides, DefaultPolicy); !errors.Is(err, services.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestValidateSplitTolerance(t *testing.T) {
	if err := ValidateSplit(33.33, 33.33, 33.34); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSplit(33.3, 33.3, 33.3); err == nil {
		t.Error("99.9 must be rejected")
	}
}

func TestProgressSafeDivision(t *testing.T) {
	goal := models.NutritionGoal{TargetCalories: 0, CarbsPercent: 50, ProteinPercent: 20, FatPercent: 30}
	progress := Progress(goal, structs.CurrentNutrients{Calories: 500, Proteins: 20, Carbs: 50, Fats: 10, Water: 1})
	if progress.Calories != nil || progress.Proteins != nil || progress.Carbs != nil || progress.Fats != nil || progress.Water != nil {
		t.Errorf("zero targets must give nil progress, got %+v", progress)
	}

	goal.TargetCalories = 2000
	goal.TargetWaterLiters = floatPtr(2)
	progress = Progress(goal, structs.CurrentNutrients{Calories: 500, Proteins: 50, Water: 1})
	if progress.Calories == nil || *progress.Calories != 25 {
		t.Errorf("calories = %v, want 25", progress.Calories)
	}
	if progress.Proteins == nil || *progress.Proteins != 50 {
		t.Errorf("proteins = %v, want 50", progress.Proteins)
	}
	if progress.Water == nil || *progress.Water != 50 {
		t.Errorf("water = %v, want 50", progress.Water)
	}
}

func TestState(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	same := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		goal models.NutritionGoal
		want string
	}{
		{models.NutritionGoal{IsActive: true, Status: enums.GoalStateActive}, enums.GoalStateActive},
		{models.NutritionGoal{IsActive: true, Status: enums.GoalStateActive, TargetDate: &past}, enums.GoalStateExpired},
		{models.NutritionGoal{IsActive: true, Status: enums.GoalStateActive, TargetDate: &same}, enums.GoalStateActive},
		{models.NutritionGoal{Status: enums.GoalStateSuperseded}, enums.GoalStateSuperseded},
		{models.NutritionGoal{}, enums.GoalStateDraft},
	}
	for i, tt := range tests {
		if got := State(tt.goal, today); got != tt.want {
			t.Errorf("case %d: state = %s, want %s", i, got, tt.want)
		}
	}

	expired := Decorate(tests[1].goal, today)
	if !expired.IsExpired || !expired.IsActive {
		t.Error("expired goal keeps is_active")
	}
}
