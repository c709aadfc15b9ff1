package models

import "time"

type NutritionReport struct {
	ID        string     `gorm:"column:id;primary_key" json:"id"`
	UserID    string     `gorm:"column:user_id;unique_index:uix_nutrition_reports_period" json:"user_id"`
	Period    string     `gorm:"column:period;unique_index:uix_nutrition_reports_period" json:"period"`
	Label     string     `gorm:"column:label;unique_index:uix_nutrition_reports_period" json:"label"`
	StartDate time.Time  `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate   time.Time  `gorm:"column:end_date;type:date" json:"end_date"`
	Data      string     `gorm:"column:data;type:text" json:"data"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (n *NutritionReport) TableName() string {
	return "nutrition_reports"
}
