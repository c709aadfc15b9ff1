package models

import "time"

type Meal struct {
	ID            string     `gorm:"column:id;primary_key" json:"id"`
	UserID        string     `gorm:"column:user_id;index" json:"user_id"`
	Type          string     `gorm:"column:type" json:"type"`
	Date          time.Time  `gorm:"column:date;type:date;index" json:"date"`
	Time          *string    `gorm:"column:time" json:"time"`
	Location      string     `gorm:"column:location" json:"location"`
	Notes         string     `gorm:"column:notes" json:"notes"`
	TotalCalories float64    `gorm:"column:total_calories" json:"total_calories"`
	TotalProteins float64    `gorm:"column:total_proteins" json:"total_proteins"`
	TotalCarbs    float64    `gorm:"column:total_carbs" json:"total_carbs"`
	TotalFats     float64    `gorm:"column:total_fats" json:"total_fats"`
	TotalFiber    float64    `gorm:"column:total_fiber" json:"total_fiber"`
	CreatedAt     *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
	Items         []MealItem `gorm:"-" json:"items"`
}

// TableName sets the insert table name for this struct type
func (m *Meal) TableName() string {
	return "meals"
}

// MealTotals 餐點的加總欄位
type MealTotals struct {
	Calories float64 `json:"total_calories"`
	Proteins float64 `json:"total_proteins"`
	Carbs    float64 `json:"total_carbs"`
	Fats     float64 `json:"total_fats"`
	Fiber    float64 `json:"total_fiber"`
}

func (m *Meal) Totals() MealTotals {
	return MealTotals{
		Calories: m.TotalCalories,
		Proteins: m.TotalProteins,
		Carbs:    m.TotalCarbs,
		Fats:     m.TotalFats,
		Fiber:    m.TotalFiber,
	}
}

func (m *Meal) SetTotals(t MealTotals) {
	m.TotalCalories = t.Calories
	m.TotalProteins = t.Proteins
	m.TotalCarbs = t.Carbs
	m.TotalFats = t.Fats
	m.TotalFiber = t.Fiber
}
