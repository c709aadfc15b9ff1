package models

import "time"

// MealItem 加入餐點當下的營養快照, 不會隨 product 變動重算
type MealItem struct {
	ID        string     `gorm:"column:id;primary_key" json:"id"`
	MealID    string     `gorm:"column:meal_id;index" json:"meal_id"`
	ProductID string     `gorm:"column:product_id" json:"product_id"`
	Quantity  float64    `gorm:"column:quantity" json:"quantity"`
	Unit      string     `gorm:"column:unit" json:"unit"`
	Calories  *float64   `gorm:"column:calories" json:"calories"`
	Proteins  *float64   `gorm:"column:proteins" json:"proteins"`
	Carbs     *float64   `gorm:"column:carbs" json:"carbs"`
	Fats      *float64   `gorm:"column:fats" json:"fats"`
	Fiber     *float64   `gorm:"column:fiber" json:"fiber"`
	Sugars    *float64   `gorm:"column:sugars" json:"sugars"`
	Salt      *float64   `gorm:"column:salt" json:"salt"`
	Sodium    *float64   `gorm:"column:sodium" json:"sodium"`
	Nutrients string     `gorm:"column:nutrients;type:text" json:"nutrients"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (m *MealItem) TableName() string {
	return "meal_items"
}
