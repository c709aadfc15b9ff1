package goal

import (
	"math"
	"time"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/services"
	"nutrition-go-worker/services/nutrient"
	"nutrition-go-worker/structs"
)

const (
	// KcalPerKg 約 1kg 脂肪組織
	KcalPerKg = 7700.0

	DefaultCarbsPercent   = 50.0
	DefaultProteinPercent = 20.0
	DefaultFatPercent     = 30.0

	splitTolerance = 0.01
)

var activityMultipliers = map[string]float64{
	enums.ActivitySedentary:  1.2,
	enums.ActivityLight:      1.375,
	enums.ActivityModerate:   1.55,
	enums.ActivityActive:     1.725,
	enums.ActivityVeryActive: 1.9,
}

var defaultWeeklyChange = map[string]float64{
	enums.GoalWeightLoss:  -0.5,
	enums.GoalWeightGain:  0.3,
	enums.GoalMuscleGain:  0.2,
	enums.GoalMaintenance: 0,
}

// DefaultPolicy 未設定時的熱量下限
var DefaultPolicy = structs.GoalConfig{
	GenericCalorieFloor: 1200,
	MaleCalorieFloor:    1500,
}

// Overrides 呼叫端可覆寫的欄位, nil 表示用推導值
type Overrides struct {
	TargetCalories     *int
	WeeklyWeightChange *float64
	CarbsPercent       *float64
	ProteinPercent     *float64
	FatPercent         *float64
	TargetWeight       *float64
	TargetWaterLiters  *float64
	StartDate          *time.Time
	TargetDate         *time.Time
}

// BMR Mifflin–St Jeor
func BMR(user models.User) (float64, error) {
	var missing []string
	if user.Weight == nil {
		missing = append(missing, "weight")
	}
	if user.Height == nil {
		missing = append(missing, "height")
	}
	if user.Age == nil {
		missing = append(missing, "age")
	}
	if user.Gender == nil || *user.Gender == "" {
		missing = append(missing, "gender")
	}
	if len(missing) > 0 {
		return 0, &services.DomainComputationError{Operation: "bmr", Missing: missing}
	}

	w, h, a := *user.Weight, *user.Height, float64(*user.Age)
	base := 10*w + 6.25*h - 5*a
	switch *user.Gender {
	case enums.GenderMale:
		return base + 5, nil
	case enums.GenderFemale:
		return base - 161, nil
	}
	return 0, &services.DomainComputationError{Operation: "bmr", Reason: "unsupported gender " + *user.Gender}
}

// TDEE 沒填活動量時當作久坐
func TDEE(bmr float64, activityLevel *string) (float64, error) {
	level := enums.ActivitySedentary
	if activityLevel != nil && *activityLevel != "" {
		level = *activityLevel
	}
	multiplier, ok := activityMultipliers[level]
	if !ok {
		return 0, services.NewValidationError("activity_level", "unknown activity level "+level)
	}
	return bmr * multiplier, nil
}

func DefaultWeeklyChange(goalType string) (float64, error) {
	change, ok := defaultWeeklyChange[goalType]
	if !ok {
		return 0, services.NewValidationError("goal_type", "unknown goal type "+goalType)
	}
	return change, nil
}

// TargetCalories 每週體重變化換算成每日熱量差
func TargetCalories(tdee, weeklyChange float64) int {
	return services.Round(tdee + weeklyChange*KcalPerKg/7)
}

// ApplyFloor 只套用在推導出的目標, 0 表示不啟用該下限
func ApplyFloor(target int, gender *string, policy structs.GoalConfig) int {
	floor := policy.GenericCalorieFloor
	if gender != nil && *gender == enums.GenderMale && policy.MaleCalorieFloor > floor {
		floor = policy.MaleCalorieFloor
	}
	if floor > 0 && float64(target) < floor {
		return services.Round(floor)
	}
	return target
}

// ValidateSplit 三個比例各在 0~100 之間且加總為 100
func ValidateSplit(carbs, protein, fat float64) error {
	for field, v := range map[string]float64{"carbs_percent": carbs, "protein_percent": protein, "fat_percent": fat} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return services.NewValidationError(field, "must be between 0 and 100")
		}
	}
	if math.Abs(carbs+protein+fat-100) > splitTolerance {
		return services.NewValidationError("macro_split", "carbs, protein and fat percentages must sum to 100")
	}
	return nil
}

func MacroGrams(calories int, carbsPercent, proteinPercent, fatPercent float64) structs.MacroGrams {
	return nutrient.MacroGrams(calories, carbsPercent, proteinPercent, fatPercent)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Derive 由用戶生理資料推導出 draft 狀態的目標, 不寫入資料庫
func Derive(user models.User, goalType string, overrides Overrides, policy structs.GoalConfig) (models.NutritionGoal, error) {
	weeklyChange, err := DefaultWeeklyChange(goalType)
	if err != nil {
		return models.NutritionGoal{}, err
	}
	if overrides.WeeklyWeightChange != nil {
		weeklyChange = *overrides.WeeklyWeightChange
	}

	carbs := orDefault(overrides.CarbsPercent, DefaultCarbsPercent)
	protein := orDefault(overrides.ProteinPercent, DefaultProteinPercent)
	fat := orDefault(overrides.FatPercent, DefaultFatPercent)
	if err := ValidateSplit(carbs, protein, fat); err != nil {
		return models.NutritionGoal{}, err
	}

	bmr, err := BMR(user)
	if err != nil {
		return models.NutritionGoal{}, err
	}
	tdee, err := TDEE(bmr, user.ActivityLevel)
	if err != nil {
		return models.NutritionGoal{}, err
	}

	var target int
	if overrides.TargetCalories != nil {
		if *overrides.TargetCalories <= 0 {
			return models.NutritionGoal{}, services.NewValidationError("target_calories", "must be positive")
		}
		target = *overrides.TargetCalories
	} else {
		target = ApplyFloor(TargetCalories(tdee, weeklyChange), user.Gender, policy)
	}

	if overrides.TargetWaterLiters != nil && *overrides.TargetWaterLiters < 0 {
		return models.NutritionGoal{}, services.NewValidationError("target_water_liters", "must not be negative")
	}

	goal := models.NutritionGoal{
		UserID:             user.ID,
		GoalType:           goalType,
		TargetWeight:       overrides.TargetWeight,
		TargetCalories:     target,
		CarbsPercent:       carbs,
		ProteinPercent:     protein,
		FatPercent:         fat,
		TargetWaterLiters:  overrides.TargetWaterLiters,
		WeeklyWeightChange: weeklyChange,
		BMR:                services.RoundTo(bmr, 1),
		TDEE:               services.RoundTo(tdee, 1),
		TargetDate:         overrides.TargetDate,
		Status:             enums.GoalStateDraft,
	}
	if overrides.StartDate != nil {
		goal.StartDate = services.DateOnly(*overrides.StartDate)
	}
	if goal.TargetDate != nil {
		d := services.DateOnly(*goal.TargetDate)
		if !goal.StartDate.IsZero() && d.Before(goal.StartDate) {
			return models.NutritionGoal{}, services.NewValidationError("target_date", "must not be before start_date")
		}
		goal.TargetDate = &d
	}
	macros := MacroGrams(target, carbs, protein, fat)
	goal.TargetMacros = &macros
	return goal, nil
}

// IsExpired target_date 已過, 不影響 is_active
func IsExpired(goal models.NutritionGoal, today time.Time) bool {
	return goal.TargetDate != nil && services.DateOnly(*goal.TargetDate).Before(services.DateOnly(today))
}

// State 目前的狀態, expired 只在讀取時推導
func State(goal models.NutritionGoal, today time.Time) string {
	if IsExpired(goal, today) {
		return enums.GoalStateExpired
	}
	if goal.Status == "" {
		if goal.IsActive {
			return enums.GoalStateActive
		}
		return enums.GoalStateDraft
	}
	return goal.Status
}

// Decorate 補上不存資料庫的 target_macros 與 is_expired
func Decorate(goal models.NutritionGoal, today time.Time) models.NutritionGoal {
	macros := MacroGrams(goal.TargetCalories, goal.CarbsPercent, goal.ProteinPercent, goal.FatPercent)
	goal.TargetMacros = &macros
	goal.IsExpired = IsExpired(goal, today)
	return goal
}

// Progress 目前攝取佔目標的百分比, 目標為 0 時為 nil
func Progress(goal models.NutritionGoal, current structs.CurrentNutrients) structs.GoalProgress {
	macros := MacroGrams(goal.TargetCalories, goal.CarbsPercent, goal.ProteinPercent, goal.FatPercent)
	progress := structs.GoalProgress{
		Calories: services.Percent(current.Calories, float64(goal.TargetCalories)),
		Proteins: services.Percent(current.Proteins, float64(macros.Protein)),
		Carbs:    services.Percent(current.Carbs, float64(macros.Carbs)),
		Fats:     services.Percent(current.Fats, float64(macros.Fat)),
	}
	if goal.TargetWaterLiters != nil {
		progress.Water = services.Percent(current.Water, *goal.TargetWaterLiters)
	}
	return progress
}
