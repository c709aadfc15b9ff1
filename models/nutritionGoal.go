package models

import (
	"time"

	"nutrition-go-worker/structs"
)

type NutritionGoal struct {
	ID                 string              `gorm:"column:id;primary_key" json:"id"`
	UserID             string              `gorm:"column:user_id;index" json:"user_id"`
	GoalType           string              `gorm:"column:goal_type" json:"goal_type"`
	TargetWeight       *float64            `gorm:"column:target_weight" json:"target_weight"`
	TargetCalories     int                 `gorm:"column:target_calories" json:"target_calories"`
	CarbsPercent       float64             `gorm:"column:carbs_percent" json:"carbs_percent"`
	ProteinPercent     float64             `gorm:"column:protein_percent" json:"protein_percent"`
	FatPercent         float64             `gorm:"column:fat_percent" json:"fat_percent"`
	TargetWaterLiters  *float64            `gorm:"column:target_water_liters" json:"target_water_liters"`
	WeeklyWeightChange float64             `gorm:"column:weekly_weight_change" json:"weekly_weight_change"`
	BMR                float64             `gorm:"column:bmr" json:"bmr"`
	TDEE               float64             `gorm:"column:tdee" json:"tdee"`
	StartDate          time.Time           `gorm:"column:start_date;type:date" json:"start_date"`
	TargetDate         *time.Time          `gorm:"column:target_date;type:date" json:"target_date"`
	IsActive           bool                `gorm:"column:is_active" json:"is_active"`
	Status             string              `gorm:"column:status" json:"status"`
	CreatedAt          *time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          *time.Time          `gorm:"column:updated_at" json:"updated_at"`
	TargetMacros       *structs.MacroGrams `gorm:"-" json:"target_macros"`
	IsExpired          bool                `gorm:"-" json:"is_expired"`
}

// TableName sets the insert table name for this struct type
func (n *NutritionGoal) TableName() string {
	return "nutrition_goals"
}
