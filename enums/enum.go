package enums

// rabbitmq 連線池名稱
const ConnectionName = "nutrition"

const (
	ProcessSingle = "SINGLE"
	ProcessAll    = "ALL"

	ActivityQueue = "nutrition-activity"
	ReportQueue   = "nutrition-report"

	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	ActivityKindActivity = "activity"
	ActivityKindWeight   = "weight"
	ActivityKindWater    = "water"
)

// 餐別
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// 目標類型
const (
	GoalWeightLoss  = "weight_loss"
	GoalWeightGain  = "weight_gain"
	GoalMaintenance = "maintenance"
	GoalMuscleGain  = "muscle_gain"
)

// 目標狀態, Expired 只在讀取時推導
const (
	GoalStateDraft       = "draft"
	GoalStateActive      = "active"
	GoalStateSuperseded  = "superseded"
	GoalStateDeactivated = "deactivated"
	GoalStateExpired     = "expired"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

var MealTypes = map[string]bool{
	MealBreakfast: true,
	MealLunch:     true,
	MealDinner:    true,
	MealSnack:     true,
}
