package trend

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
	"nutrition-go-worker/services/nutrient"
)

var (
	consumptionColumns = []string{
		repository.ColConsumedCalories,
		repository.ColConsumedProteins,
		repository.ColConsumedCarbs,
		repository.ColConsumedFats,
		repository.ColConsumedFiber,
		repository.ColMealCount,
	}
	goalColumns = []string{
		repository.ColGoalCalories,
		repository.ColGoalProteins,
		repository.ColGoalCarbs,
		repository.ColGoalFats,
	}
)

type TrendService struct {
	store  repository.Store
	logger logrus.FieldLogger
}

func NewTrendService(store repository.Store, logger logrus.FieldLogger) *TrendService {
	return &TrendService{store: store, logger: logger}
}

// UpsertDailyTrend (user_id, date) 不存在就新增, 存在則覆寫 replace 欄位並累加 increment 欄位
func (t *TrendService) UpsertDailyTrend(userID string, date time.Time, values models.NutritionTrend, replace, increment []string) error {
	if userID == "" {
		return services.NewValidationError("user_id", "is required")
	}
	values.UserID = userID
	values.Date = services.DateOnly(date)
	upsert := repository.TrendUpsert{Trend: values, Replace: replace, Increment: increment}
	if err := upsert.Validate(); err != nil {
		return services.NewValidationError("columns", err.Error())
	}
	return t.store.RunAtomic(func(tx repository.Tx) error {
		return tx.UpsertTrend(upsert)
	})
}

// RecordConsumption 依當天所有餐點重新計算攝取量
func (t *TrendService) RecordConsumption(userID string, date time.Time) error {
	return t.store.RunAtomic(func(tx repository.Tx) error {
		return RefreshDay(tx, userID, date)
	})
}

// RecordActivity 運動消耗累加, 活動次數 +1
func (t *TrendService) RecordActivity(userID string, date time.Time, burnedCalories float64) error {
	if math.IsNaN(burnedCalories) || burnedCalories < 0 {
		return services.NewValidationError("burned_calories", "must not be negative")
	}
	values := models.NutritionTrend{BurnedCalories: services.RoundTo(burnedCalories, 1), ActivityCount: 1}
	if err := t.UpsertDailyTrend(userID, date, values, nil, []string{repository.ColBurnedCalories, repository.ColActivityCount}); err != nil {
		return err
	}
	t.logger.WithFields(logrus.Fields{"task": "trend", "user_id": userID, "date": date.Format(services.DateLayout), "burned_calories": burnedCalories}).Info("紀錄運動")
	return nil
}

// RecordWeight 當天體重, 後寫入的覆寫
func (t *TrendService) RecordWeight(userID string, date time.Time, weight float64) error {
	if math.IsNaN(weight) || weight <= 0 {
		return services.NewValidationError("weight", "must be positive")
	}
	w := services.RoundTo(weight, 2)
	values := models.NutritionTrend{Weight: &w}
	if err := t.UpsertDailyTrend(userID, date, values, []string{repository.ColWeight}, nil); err != nil {
		return err
	}
	t.logger.WithFields(logrus.Fields{"task": "trend", "user_id": userID, "date": date.Format(services.DateLayout), "weight": w}).Info("紀錄體重")
	return nil
}

// RecordWater 喝水量累加 (公升)
func (t *TrendService) RecordWater(userID string, date time.Time, liters float64) error {
	if math.IsNaN(liters) || liters <= 0 {
		return services.NewValidationError("water_liters", "must be positive")
	}
	values := models.NutritionTrend{ConsumedWater: services.RoundTo(liters, 2)}
	if err := t.UpsertDailyTrend(userID, date, values, nil, []string{repository.ColConsumedWater}); err != nil {
		return err
	}
	t.logger.WithFields(logrus.Fields{"task": "trend", "user_id": userID, "date": date.Format(services.DateLayout), "water_liters": liters}).Info("紀錄喝水")
	return nil
}

// GetTrends 包含頭尾, 依日期遞增
func (t *TrendService) GetTrends(userID string, from, to time.Time) ([]models.NutritionTrend, error) {
	from, to = services.DateOnly(from), services.DateOnly(to)
	if from.After(to) {
		return nil, services.NewValidationError("date_from", "must not be after date_to")
	}
	rows, err := t.store.ListTrends(userID, from, to)
	if err != nil {
		return nil, services.PersistenceError(err)
	}
	return rows, nil
}

// RefreshDay 在呼叫端的交易中, 以當天所有餐點的總和覆寫攝取欄位, 目標欄位取自啟用中的目標
func RefreshDay(tx repository.Tx, userID string, date time.Time) error {
	meals, err := tx.ListMealsByDate(userID, date)
	if err != nil {
		return err
	}
	active, err := tx.ActiveGoal(userID)
	if err != nil {
		return err
	}

	var calories, proteins, carbs, fats, fiber []*float64
	for i := range meals {
		m := &meals[i]
		calories = append(calories, &m.TotalCalories)
		proteins = append(proteins, &m.TotalProteins)
		carbs = append(carbs, &m.TotalCarbs)
		fats = append(fats, &m.TotalFats)
		fiber = append(fiber, &m.TotalFiber)
	}
	consumed := models.MealTotals{
		Calories: nutrient.Sum(calories, nutrient.TotalPrecision),
		Proteins: nutrient.Sum(proteins, nutrient.TotalPrecision),
		Carbs:    nutrient.Sum(carbs, nutrient.TotalPrecision),
		Fats:     nutrient.Sum(fats, nutrient.TotalPrecision),
		Fiber:    nutrient.Sum(fiber, nutrient.TotalPrecision),
	}
	return RecordConsumption(tx, userID, date, consumed, len(meals), active)
}

// RecordConsumption 餐點路徑的 upsert, 沒有啟用中的目標時不動目標欄位
func RecordConsumption(tx repository.Trends, userID string, date time.Time, consumed models.MealTotals, mealCount int, active *models.NutritionGoal) error {
	row := models.NutritionTrend{
		UserID:           userID,
		Date:             services.DateOnly(date),
		ConsumedCalories: consumed.Calories,
		ConsumedProteins: consumed.Proteins,
		ConsumedCarbs:    consumed.Carbs,
		ConsumedFats:     consumed.Fats,
		ConsumedFiber:    consumed.Fiber,
		MealCount:        mealCount,
	}
	replace := append([]string(nil), consumptionColumns...)

	if active != nil {
		macros := nutrient.MacroGrams(active.TargetCalories, active.CarbsPercent, active.ProteinPercent, active.FatPercent)
		row.GoalCalories = float64(active.TargetCalories)
		row.GoalProteins = float64(macros.Protein)
		row.GoalCarbs = float64(macros.Carbs)
		row.GoalFats = float64(macros.Fat)
		replace = append(replace, goalColumns...)
		if active.TargetWaterLiters != nil {
			row.GoalWater = *active.TargetWaterLiters
			replace = append(replace, repository.ColGoalWater)
		}
	}

	return tx.UpsertTrend(repository.TrendUpsert{Trend: row, Replace: replace})
}
