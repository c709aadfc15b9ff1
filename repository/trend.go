package repository

import (
	"fmt"

	"nutrition-go-worker/models"
)

// nutrition_trends 可被 upsert 的欄位
const (
	ColConsumedCalories = "consumed_calories"
	ColGoalCalories     = "goal_calories"
	ColBurnedCalories   = "burned_calories"
	ColConsumedProteins = "consumed_proteins"
	ColGoalProteins     = "goal_proteins"
	ColConsumedCarbs    = "consumed_carbs"
	ColGoalCarbs        = "goal_carbs"
	ColConsumedFats     = "consumed_fats"
	ColGoalFats         = "goal_fats"
	ColConsumedFiber    = "consumed_fiber"
	ColConsumedWater    = "consumed_water"
	ColGoalWater        = "goal_water"
	ColMealCount        = "meal_count"
	ColActivityCount    = "activity_count"
	ColWeight           = "weight"
)

type trendColumn struct {
	get func(t *models.NutritionTrend) interface{}
	set func(dst, src *models.NutritionTrend)
	add func(dst, src *models.NutritionTrend)
}

func floatColumn(field func(t *models.NutritionTrend) *float64) trendColumn {
	return trendColumn{
		get: func(t *models.NutritionTrend) interface{} { return *field(t) },
		set: func(dst, src *models.NutritionTrend) { *field(dst) = *field(src) },
		add: func(dst, src *models.NutritionTrend) { *field(dst) += *field(src) },
	}
}

func intColumn(field func(t *models.NutritionTrend) *int) trendColumn {
	return trendColumn{
		get: func(t *models.NutritionTrend) interface{} { return *field(t) },
		set: func(dst, src *models.NutritionTrend) { *field(dst) = *field(src) },
		add: func(dst, src *models.NutritionTrend) { *field(dst) += *field(src) },
	}
}

var trendColumns = map[string]trendColumn{
	ColConsumedCalories: floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedCalories }),
	ColGoalCalories:     floatColumn(func(t *models.NutritionTrend) *float64 { return &t.GoalCalories }),
	ColBurnedCalories:   floatColumn(func(t *models.NutritionTrend) *float64 { return &t.BurnedCalories }),
	ColConsumedProteins: floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedProteins }),
	ColGoalProteins:     floatColumn(func(t *models.NutritionTrend) *float64 { return &t.GoalProteins }),
	ColConsumedCarbs:    floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedCarbs }),
	ColGoalCarbs:        floatColumn(func(t *models.NutritionTrend) *float64 { return &t.GoalCarbs }),
	ColConsumedFats:     floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedFats }),
	ColGoalFats:         floatColumn(func(t *models.NutritionTrend) *float64 { return &t.GoalFats }),
	ColConsumedFiber:    floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedFiber }),
	ColConsumedWater:    floatColumn(func(t *models.NutritionTrend) *float64 { return &t.ConsumedWater }),
	ColGoalWater:        floatColumn(func(t *models.NutritionTrend) *float64 { return &t.GoalWater }),
	ColMealCount:        intColumn(func(t *models.NutritionTrend) *int { return &t.MealCount }),
	ColActivityCount:    intColumn(func(t *models.NutritionTrend) *int { return &t.ActivityCount }),
	ColWeight: {
		get: func(t *models.NutritionTrend) interface{} { return t.Weight },
		set: func(dst, src *models.NutritionTrend) { dst.Weight = src.Weight },
		add: nil,
	},
}

// Validate 欄位必須存在, 且同一欄位不能同時覆寫又累加
func (u TrendUpsert) Validate() error {
	if u.Trend.UserID == "" {
		return fmt.Errorf("trend upsert: user_id is required")
	}
	if len(u.Replace)+len(u.Increment) == 0 {
		return fmt.Errorf("trend upsert: no columns")
	}
	seen := make(map[string]bool)
	for _, c := range u.Replace {
		if _, ok := trendColumns[c]; !ok {
			return fmt.Errorf("trend upsert: unknown column %s", c)
		}
		seen[c] = true
	}
	for _, c := range u.Increment {
		col, ok := trendColumns[c]
		if !ok {
			return fmt.Errorf("trend upsert: unknown column %s", c)
		}
		if col.add == nil {
			return fmt.Errorf("trend upsert: column %s cannot be incremented", c)
		}
		if seen[c] {
			return fmt.Errorf("trend upsert: column %s both replaced and incremented", c)
		}
	}
	return nil
}

// Values 依欄位名稱取出要寫入的值
func (u TrendUpsert) Values(columns []string) []interface{} {
	values := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		values = append(values, trendColumns[c].get(&u.Trend))
	}
	return values
}

// Merge 把 upsert 套用在既有的資料列上, 給不支援 SQL upsert 的 store 用
func (u TrendUpsert) Merge(stored *models.NutritionTrend) {
	for _, c := range u.Replace {
		trendColumns[c].set(stored, &u.Trend)
	}
	for _, c := range u.Increment {
		trendColumns[c].add(stored, &u.Trend)
	}
}

// Insert 沒有既有資料列時, 只帶 upsert 指定的欄位
func (u TrendUpsert) Insert() models.NutritionTrend {
	row := models.NutritionTrend{ID: u.Trend.ID, UserID: u.Trend.UserID, Date: u.Trend.Date}
	u.Merge(&row)
	return row
}
