package models

import "time"

// Product 每 100g (或 100ml) 的營養素, nutrients 為 JSON, 未知的欄位不存在或為 null
type Product struct {
	ID        string     `gorm:"column:id;primary_key" json:"id"`
	Name      string     `gorm:"column:name" json:"name"`
	Brand     string     `gorm:"column:brand" json:"brand"`
	BaseUnit  string     `gorm:"column:base_unit" json:"base_unit"`
	Nutrients string     `gorm:"column:nutrients;type:text" json:"nutrients"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (p *Product) TableName() string {
	return "products"
}
