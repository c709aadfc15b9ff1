package analytics

import (
	"math"
	"sort"
	"time"

	"nutrition-go-worker/models"
	"nutrition-go-worker/services"
	"nutrition-go-worker/structs"
)

// SuccessTolerance 與目標熱量差距在 10% 內視為達標
const SuccessTolerance = 0.10

const (
	statPrecision  int32 = 1
	waterPrecision int32 = 2
)

// ComputeStats 區間內的平均與加總, 沒有資料時回傳零值
func ComputeStats(rows []models.NutritionTrend, from, to time.Time) structs.Stats {
	stats := structs.Stats{
		From: from.Format(services.DateLayout),
		To:   to.Format(services.DateLayout),
		Days: len(rows),
	}
	if len(rows) == 0 {
		return stats
	}

	var calories, proteins, carbs, fats, fiber, water, burned float64
	var weightSum float64
	var weights int
	for _, row := range rows {
		calories += row.ConsumedCalories
		proteins += row.ConsumedProteins
		carbs += row.ConsumedCarbs
		fats += row.ConsumedFats
		fiber += row.ConsumedFiber
		water += row.ConsumedWater
		burned += row.BurnedCalories
		stats.TotalMeals += row.MealCount
		stats.TotalActivities += row.ActivityCount

		if row.Weight != nil {
			w := *row.Weight
			if stats.Weight.Min == nil || w < *stats.Weight.Min {
				stats.Weight.Min = floatPtr(w)
			}
			if stats.Weight.Max == nil || w > *stats.Weight.Max {
				stats.Weight.Max = floatPtr(w)
			}
			weightSum += w
			weights++
		}
	}

	n := float64(len(rows))
	stats.TotalCalories = services.RoundTo(calories, statPrecision)
	stats.TotalProteins = services.RoundTo(proteins, statPrecision)
	stats.TotalCarbs = services.RoundTo(carbs, statPrecision)
	stats.TotalFats = services.RoundTo(fats, statPrecision)
	stats.TotalFiber = services.RoundTo(fiber, statPrecision)
	stats.TotalWater = services.RoundTo(water, waterPrecision)
	stats.TotalBurned = services.RoundTo(burned, statPrecision)
	stats.AvgCalories = services.RoundTo(calories/n, statPrecision)
	stats.AvgProteins = services.RoundTo(proteins/n, statPrecision)
	stats.AvgCarbs = services.RoundTo(carbs/n, statPrecision)
	stats.AvgFats = services.RoundTo(fats/n, statPrecision)
	stats.AvgFiber = services.RoundTo(fiber/n, statPrecision)
	stats.AvgWater = services.RoundTo(water/n, waterPrecision)
	stats.AvgBurned = services.RoundTo(burned/n, statPrecision)
	if weights > 0 {
		stats.Weight.Avg = floatPtr(services.RoundTo(weightSum/float64(weights), waterPrecision))
	}
	return stats
}

// IsSuccess 有目標熱量且攝取量在容許範圍內
func IsSuccess(row models.NutritionTrend) bool {
	if row.GoalCalories <= 0 {
		return false
	}
	return math.Abs(row.ConsumedCalories-row.GoalCalories)/row.GoalCalories <= SuccessTolerance
}

// ProgressSeries 每天各營養素的目標達成率, 沒有目標的營養素與整天沒有目標的日子都略過
func ProgressSeries(rows []models.NutritionTrend) []structs.DayProgress {
	series := make([]structs.DayProgress, 0, len(rows))
	for _, row := range rows {
		percentages := make(map[string]float64)
		pairs := []struct {
			key             string
			current, target float64
		}{
			{"calories", row.ConsumedCalories, row.GoalCalories},
			{"proteins", row.ConsumedProteins, row.GoalProteins},
			{"carbs", row.ConsumedCarbs, row.GoalCarbs},
			{"fats", row.ConsumedFats, row.GoalFats},
			{"water", row.ConsumedWater, row.GoalWater},
		}
		for _, p := range pairs {
			if percent := services.Percent(p.current, p.target); percent != nil {
				percentages[p.key] = services.RoundTo(*percent, statPrecision)
			}
		}
		if len(percentages) == 0 {
			continue
		}
		series = append(series, structs.DayProgress{
			Date:        row.Date.Format(services.DateLayout),
			Percentages: percentages,
		})
	}
	return series
}

// ComputeStreaks 由新到舊掃一次; 中間缺一天也會中斷連續紀錄.
// 目前連續天數從 asOf 往回算, asOf 當天沒紀錄或未達標則為 0; asOf 之後的紀錄不計
func ComputeStreaks(rows []models.NutritionTrend, asOf time.Time) structs.Streaks {
	asOf = services.DateOnly(asOf)
	sorted := make([]models.NutritionTrend, 0, len(rows))
	for _, row := range rows {
		if !services.DateOnly(row.Date).After(asOf) {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	var streaks structs.Streaks
	run := 0
	currentOpen := true
	previous := asOf.AddDate(0, 0, 1)
	for _, row := range sorted {
		date := services.DateOnly(row.Date)
		if !previous.AddDate(0, 0, -1).Equal(date) {
			run = 0
			currentOpen = false
		}
		previous = date

		if !IsSuccess(row) {
			run = 0
			currentOpen = false
			continue
		}
		run++
		if run > streaks.Best {
			streaks.Best = run
		}
		if currentOpen {
			streaks.Current = run
		}
	}
	return streaks
}

// SuccessRate 達標天數 / 有紀錄的天數 * 100
func SuccessRate(rows []models.NutritionTrend) (successDays, totalDays int, rate float64) {
	for _, row := range rows {
		if IsSuccess(row) {
			successDays++
		}
	}
	totalDays = len(rows)
	if totalDays == 0 {
		return 0, 0, 0
	}
	return successDays, totalDays, services.RoundTo(float64(successDays)/float64(totalDays)*100, statPrecision)
}

func floatPtr(v float64) *float64 {
	return &v
}
