package models

import "time"

// User 計算 BMR 需要的生理資料, 都可能為空
type User struct {
	ID            string     `gorm:"column:id;primary_key" json:"id"`
	Nickname      string     `gorm:"column:nickname" json:"nickname"`
	Weight        *float64   `gorm:"column:weight" json:"weight"`
	Height        *float64   `gorm:"column:height" json:"height"`
	Age           *int       `gorm:"column:age" json:"age"`
	Gender        *string    `gorm:"column:gender" json:"gender"`
	ActivityLevel *string    `gorm:"column:activity_level" json:"activity_level"`
	CreatedAt     *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (u *User) TableName() string {
	return "users"
}
