package repository

import (
	"time"

	"nutrition-go-worker/models"
)

type Products interface {
	GetProduct(id string) (models.Product, error)
}

type Users interface {
	GetUser(id string) (models.User, error)
	ListUsers() ([]models.User, error)
}

type Meals interface {
	CreateMeal(meal *models.Meal) error
	GetMeal(id string) (models.Meal, error)
	ListMealsByDate(userID string, date time.Time) ([]models.Meal, error)
	UpdateTotals(meal *models.Meal) error
	DeleteMeal(id string) error

	InsertItems(items []models.MealItem) error
	InsertItem(item *models.MealItem) error
	GetItem(mealID, itemID string) (models.MealItem, error)
	UpdateItem(item *models.MealItem) error
	DeleteItem(mealID, itemID string) error
	ListItems(mealID string) ([]models.MealItem, error)
}

type Goals interface {
	CreateGoal(goal *models.NutritionGoal) error
	GetGoal(userID, goalID string) (models.NutritionGoal, error)
	// ActiveGoal 沒有啟用中的目標時回傳 nil
	ActiveGoal(userID string) (*models.NutritionGoal, error)
	ListGoals(userID string) ([]models.NutritionGoal, error)
	// SetGoalStatus 更新 is_active 與 status
	SetGoalStatus(goalID string, active bool, status string) error
	// DeactivateOthers 停用該用戶除了 keepID 以外所有啟用中的目標
	DeactivateOthers(userID, keepID, status string) error
}

// TrendUpsert 一次性的 insert-or-update, Replace 的欄位覆寫, Increment 的欄位累加
type TrendUpsert struct {
	Trend     models.NutritionTrend
	Replace   []string
	Increment []string
}

type Trends interface {
	UpsertTrend(upsert TrendUpsert) error
	ListTrends(userID string, from, to time.Time) ([]models.NutritionTrend, error)
}

type Reports interface {
	SaveReport(report *models.NutritionReport) error
}

type WorkerLogs interface {
	InsertWorkerLog(log *models.WorkerLog) error
}

// Tx 交易中可用的所有 repository
type Tx interface {
	Products
	Users
	Meals
	Goals
	Trends
	Reports
	WorkerLogs
}

// Store fn 回傳 error (或 panic) 時整筆交易 rollback
type Store interface {
	Tx
	RunAtomic(fn func(tx Tx) error) error
}
