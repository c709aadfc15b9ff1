package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
)

// bulk insert 每批筆數
const bulkChunkSize = 3000

// Store gorm 版的 repository.Store, 在交易中 db 是 Begin() 回傳的 tx
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RunAtomic(fn func(tx repository.Tx) error) (err error) {
	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return services.PersistenceError(err)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = services.PersistenceError(fmt.Errorf("panic in transaction: %v", r))
		}
	}()

	if err := fn(&Store{db: tx}); err != nil {
		tx.Rollback()
		return services.PersistenceError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return services.PersistenceError(err)
	}
	return nil
}

func notFound(err error, entity, id string) error {
	if gorm.IsRecordNotFoundError(err) {
		return services.NewNotFoundError(entity, id)
	}
	return err
}

func now() *time.Time {
	t := time.Now()
	return &t
}

func dateString(t time.Time) string {
	return t.Format(services.DateLayout)
}

// ---- products / users ----

func (s *Store) GetProduct(id string) (models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		return models.Product{}, notFound(err, "product", id)
	}
	return product, nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return models.User{}, notFound(err, "user", id)
	}
	return user, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ---- meals ----

func (s *Store) CreateMeal(meal *models.Meal) error {
	meal.CreatedAt, meal.UpdatedAt = now(), now()
	return s.db.Create(meal).Error
}

func (s *Store) GetMeal(id string) (models.Meal, error) {
	var meal models.Meal
	if err := s.db.Where("id = ?", id).First(&meal).Error; err != nil {
		return models.Meal{}, notFound(err, "meal", id)
	}
	return meal, nil
}

func (s *Store) ListMealsByDate(userID string, date time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	if err := s.db.Where("user_id = ? AND date = ?", userID, dateString(date)).Order("created_at asc").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// UpdateTotals / UpdateItem / SetGoalStatus 不看 RowsAffected:
// mysql 預設只回報值有變的筆數, 存在與否由呼叫端在同一交易中先讀取確認
func (s *Store) UpdateTotals(meal *models.Meal) error {
	t := meal.Totals()
	result := s.db.Model(&models.Meal{}).Where("id = ?", meal.ID).Updates(map[string]interface{}{
		"total_calories": t.Calories,
		"total_proteins": t.Proteins,
		"total_carbs":    t.Carbs,
		"total_fats":     t.Fats,
		"total_fiber":    t.Fiber,
		"updated_at":     now(),
	})
	return result.Error
}

func (s *Store) DeleteMeal(id string) error {
	if err := s.db.Where("meal_id = ?", id).Delete(models.MealItem{}).Error; err != nil {
		return err
	}
	result := s.db.Where("id = ?", id).Delete(models.Meal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.NewNotFoundError("meal", id)
	}
	return nil
}

// InsertItems 建立餐點時的初始項目, 一次批次寫入
func (s *Store) InsertItems(items []models.MealItem) error {
	if len(items) == 0 {
		return nil
	}
	insertRecords := make([]interface{}, 0, len(items))
	for _, item := range items {
		item.CreatedAt, item.UpdatedAt = now(), now()
		insertRecords = append(insertRecords, item)
	}
	return gormbulk.BulkInsert(s.db, insertRecords, bulkChunkSize)
}

func (s *Store) InsertItem(item *models.MealItem) error {
	item.CreatedAt, item.UpdatedAt = now(), now()
	return s.db.Create(item).Error
}

func (s *Store) GetItem(mealID, itemID string) (models.MealItem, error) {
	var item models.MealItem
	if err := s.db.Where("id = ? AND meal_id = ?", itemID, mealID).First(&item).Error; err != nil {
		return models.MealItem{}, notFound(err, "meal item", itemID)
	}
	return item, nil
}

func (s *Store) UpdateItem(item *models.MealItem) error {
	item.UpdatedAt = now()
	result := s.db.Model(&models.MealItem{}).Where("id = ? AND meal_id = ?", item.ID, item.MealID).Updates(map[string]interface{}{
		"quantity":   item.Quantity,
		"unit":       item.Unit,
		"calories":   item.Calories,
		"proteins":   item.Proteins,
		"carbs":      item.Carbs,
		"fats":       item.Fats,
		"fiber":      item.Fiber,
		"sugars":     item.Sugars,
		"salt":       item.Salt,
		"sodium":     item.Sodium,
		"nutrients":  item.Nutrients,
		"updated_at": item.UpdatedAt,
	})
	return result.Error
}

func (s *Store) DeleteItem(mealID, itemID string) error {
	result := s.db.Where("id = ? AND meal_id = ?", itemID, mealID).Delete(models.MealItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.NewNotFoundError("meal item", itemID)
	}
	return nil
}

func (s *Store) ListItems(mealID string) ([]models.MealItem, error) {
	var items []models.MealItem
	if err := s.db.Where("meal_id = ?", mealID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ---- goals ----

func (s *Store) CreateGoal(goal *models.NutritionGoal) error {
	goal.CreatedAt, goal.UpdatedAt = now(), now()
	return s.db.Create(goal).Error
}

func (s *Store) GetGoal(userID, goalID string) (models.NutritionGoal, error) {
	var goal models.NutritionGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return models.NutritionGoal{}, notFound(err, "goal", goalID)
	}
	return goal, nil
}

func (s *Store) ActiveGoal(userID string) (*models.NutritionGoal, error) {
	var goal models.NutritionGoal
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&goal).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *Store) ListGoals(userID string) ([]models.NutritionGoal, error) {
	var goals []models.NutritionGoal
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// SetGoalStatus bool 欄位要用 map 更新, struct 的 false 會被 gorm 忽略
func (s *Store) SetGoalStatus(goalID string, active bool, status string) error {
	result := s.db.Model(&models.NutritionGoal{}).Where("id = ?", goalID).Updates(map[string]interface{}{
		"is_active":  active,
		"status":     status,
		"updated_at": now(),
	})
	return result.Error
}

func (s *Store) DeactivateOthers(userID, keepID, status string) error {
	return s.db.Model(&models.NutritionGoal{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, keepID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"status":     status,
			"updated_at": now(),
		}).Error
}

// ---- trends ----

// UpsertTrend 單一 SQL 完成 insert-or-update, 不先讀再寫
func (s *Store) UpsertTrend(upsert repository.TrendUpsert) error {
	if err := upsert.Validate(); err != nil {
		return err
	}
	upsert.Trend.Date = services.DateOnly(upsert.Trend.Date)
	query, values := trendUpsertSQL(s.db.Dialect(), upsert, time.Now())
	return s.db.Exec(query, values...).Error
}

func trendUpsertSQL(dialect gorm.Dialect, upsert repository.TrendUpsert, at time.Time) (string, []interface{}) {
	quote := dialect.Quote
	table := (&models.NutritionTrend{}).TableName()

	columns := []string{"id", "user_id", "date"}
	columns = append(columns, upsert.Replace...)
	columns = append(columns, upsert.Increment...)
	columns = append(columns, "created_at", "updated_at")

	id := upsert.Trend.ID
	if id == "" {
		id = services.NewID()
	}
	values := []interface{}{id, upsert.Trend.UserID, dateString(upsert.Trend.Date)}
	values = append(values, upsert.Values(upsert.Replace)...)
	values = append(values, upsert.Values(upsert.Increment)...)
	values = append(values, at, at)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
		placeholders[i] = "?"
	}

	var assignments []string
	var conflict string
	if dialect.GetName() == "mysql" {
		for _, c := range upsert.Replace {
			assignments = append(assignments, fmt.Sprintf("%s = VALUES(%s)", quote(c), quote(c)))
		}
		for _, c := range upsert.Increment {
			assignments = append(assignments, fmt.Sprintf("%s = COALESCE(%s, 0) + VALUES(%s)", quote(c), quote(c), quote(c)))
		}
		assignments = append(assignments, fmt.Sprintf("%s = VALUES(%s)", quote("updated_at"), quote("updated_at")))
		conflict = "ON DUPLICATE KEY UPDATE "
	} else {
		// postgres / sqlite3
		for _, c := range upsert.Replace {
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", quote(c), quote(c)))
		}
		for _, c := range upsert.Increment {
			assignments = append(assignments, fmt.Sprintf("%s = COALESCE(%s.%s, 0) + EXCLUDED.%s", quote(c), quote(table), quote(c), quote(c)))
		}
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", quote("updated_at"), quote("updated_at")))
		conflict = fmt.Sprintf("ON CONFLICT (%s, %s) DO UPDATE SET ", quote("user_id"), quote("date"))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) %s%s",
		quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
		conflict,
		strings.Join(assignments, ", "),
	)
	return query, values
}

func (s *Store) ListTrends(userID string, from, to time.Time) ([]models.NutritionTrend, error) {
	var trends []models.NutritionTrend
	if err := s.db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, dateString(from), dateString(to)).
		Order("date asc").Find(&trends).Error; err != nil {
		return nil, err
	}
	return trends, nil
}

// ---- reports / logs ----

// SaveReport 同一用戶同一區間重跑時覆寫
func (s *Store) SaveReport(report *models.NutritionReport) error {
	var stored models.NutritionReport
	err := s.db.Where("user_id = ? AND period = ? AND label = ?", report.UserID, report.Period, report.Label).First(&stored).Error
	if gorm.IsRecordNotFoundError(err) {
		report.CreatedAt, report.UpdatedAt = now(), now()
		return s.db.Create(report).Error
	}
	if err != nil {
		return err
	}
	report.ID, report.CreatedAt, report.UpdatedAt = stored.ID, stored.CreatedAt, now()
	return s.db.Save(report).Error
}

func (s *Store) InsertWorkerLog(log *models.WorkerLog) error {
	if log.CreatedAt == nil {
		log.CreatedAt = now()
	}
	log.UpdatedAt = log.CreatedAt
	return s.db.Create(log).Error
}
