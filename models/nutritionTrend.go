package models

import "time"

// NutritionTrend 每個用戶每天一筆, (user_id, date) 唯一; 數值欄位預設 0, 累加路徑不會碰到 NULL
type NutritionTrend struct {
	ID               string     `gorm:"column:id;primary_key" json:"id"`
	UserID           string     `gorm:"column:user_id;unique_index:uix_nutrition_trends_user_date" json:"user_id"`
	Date             time.Time  `gorm:"column:date;type:date;unique_index:uix_nutrition_trends_user_date" json:"date"`
	ConsumedCalories float64    `gorm:"column:consumed_calories;not null;default:0" json:"consumed_calories"`
	GoalCalories     float64    `gorm:"column:goal_calories;not null;default:0" json:"goal_calories"`
	BurnedCalories   float64    `gorm:"column:burned_calories;not null;default:0" json:"burned_calories"`
	ConsumedProteins float64    `gorm:"column:consumed_proteins;not null;default:0" json:"consumed_proteins"`
	GoalProteins     float64    `gorm:"column:goal_proteins;not null;default:0" json:"goal_proteins"`
	ConsumedCarbs    float64    `gorm:"column:consumed_carbs;not null;default:0" json:"consumed_carbs"`
	GoalCarbs        float64    `gorm:"column:goal_carbs;not null;default:0" json:"goal_carbs"`
	ConsumedFats     float64    `gorm:"column:consumed_fats;not null;default:0" json:"consumed_fats"`
	GoalFats         float64    `gorm:"column:goal_fats;not null;default:0" json:"goal_fats"`
	ConsumedFiber    float64    `gorm:"column:consumed_fiber;not null;default:0" json:"consumed_fiber"`
	ConsumedWater    float64    `gorm:"column:consumed_water;not null;default:0" json:"consumed_water"`
	GoalWater        float64    `gorm:"column:goal_water;not null;default:0" json:"goal_water"`
	MealCount        int        `gorm:"column:meal_count;not null;default:0" json:"meal_count"`
	ActivityCount    int        `gorm:"column:activity_count;not null;default:0" json:"activity_count"`
	Weight           *float64   `gorm:"column:weight" json:"weight"`
	CreatedAt        *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (n *NutritionTrend) TableName() string {
	return "nutrition_trends"
}
