package analytics

import (
	"fmt"
	"time"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/services"
	"nutrition-go-worker/structs"
)

type Partition struct {
	Label    string
	From, To time.Time
}

// Partitions 把區間切成 ISO 週 (週一開始) 或月份, 頭尾截到區間內
func Partitions(period string, from, to time.Time) ([]Partition, error) {
	from, to = services.DateOnly(from), services.DateOnly(to)
	if from.After(to) {
		return nil, services.NewValidationError("date_from", "must not be after date_to")
	}

	var parts []Partition
	for start := from; !start.After(to); {
		var end time.Time
		var label string
		switch period {
		case enums.PeriodWeekly:
			offset := (int(start.Weekday()) + 6) % 7
			end = start.AddDate(0, 0, 6-offset)
			year, week := start.ISOWeek()
			label = fmt.Sprintf("%d-W%02d", year, week)
		case enums.PeriodMonthly:
			end = time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
			label = start.Format("2006-01")
		default:
			return nil, services.NewValidationError("period", "unknown period "+period)
		}
		if end.After(to) {
			end = to
		}
		parts = append(parts, Partition{Label: label, From: start, To: end})
		start = end.AddDate(0, 0, 1)
	}
	return parts, nil
}

func rowsBetween(rows []models.NutritionTrend, from, to time.Time) []models.NutritionTrend {
	var in []models.NutritionTrend
	for _, row := range rows {
		d := services.DateOnly(row.Date)
		if !d.Before(from) && !d.After(to) {
			in = append(in, row)
		}
	}
	return in
}

// BuildReport 每個區塊各自的統計、連續紀錄與達標率, 再加上整段的總結
func BuildReport(rows []models.NutritionTrend, period string, from, to time.Time) (structs.Report, error) {
	parts, err := Partitions(period, from, to)
	if err != nil {
		return structs.Report{}, err
	}
	from, to = services.DateOnly(from), services.DateOnly(to)
	rows = rowsBetween(rows, from, to)

	report := structs.Report{
		Period:     period,
		From:       from.Format(services.DateLayout),
		To:         to.Format(services.DateLayout),
		Partitions: make([]structs.PeriodReport, 0, len(parts)),
		Overall:    ComputeStats(rows, from, to),
		Streaks:    ComputeStreaks(rows, to),
	}
	report.SuccessDays, report.TotalDays, report.SuccessRate = SuccessRate(rows)

	for _, p := range parts {
		in := rowsBetween(rows, p.From, p.To)
		block := structs.PeriodReport{
			Label:   p.Label,
			From:    p.From.Format(services.DateLayout),
			To:      p.To.Format(services.DateLayout),
			Stats:   ComputeStats(in, p.From, p.To),
			Streaks: ComputeStreaks(in, p.To),
		}
		block.SuccessDays, block.TotalDays, block.SuccessRate = SuccessRate(in)
		report.Partitions = append(report.Partitions, block)
	}
	return report, nil
}

// Compare A 減 B, B 為 0 時百分比為 0
func Compare(a, b structs.Stats) structs.Comparison {
	metrics := map[string][2]float64{
		"avg_calories":        {a.AvgCalories, b.AvgCalories},
		"avg_proteins":        {a.AvgProteins, b.AvgProteins},
		"avg_carbs":           {a.AvgCarbs, b.AvgCarbs},
		"avg_fats":            {a.AvgFats, b.AvgFats},
		"avg_fiber":           {a.AvgFiber, b.AvgFiber},
		"avg_water":           {a.AvgWater, b.AvgWater},
		"avg_burned_calories": {a.AvgBurned, b.AvgBurned},
		"total_meals":         {float64(a.TotalMeals), float64(b.TotalMeals)},
		"total_activities":    {float64(a.TotalActivities), float64(b.TotalActivities)},
	}
	if a.Weight.Avg != nil && b.Weight.Avg != nil {
		metrics["avg_weight"] = [2]float64{*a.Weight.Avg, *b.Weight.Avg}
	}

	comparison := structs.Comparison{A: a, B: b, Metrics: make(map[string]structs.MetricChange, len(metrics))}
	for name, v := range metrics {
		change := v[0] - v[1]
		percent := 0.0
		if v[1] != 0 {
			percent = services.RoundTo(change/v[1]*100, statPrecision)
		}
		comparison.Metrics[name] = structs.MetricChange{
			A:             v[0],
			B:             v[1],
			Change:        services.RoundTo(change, waterPrecision),
			PercentChange: percent,
		}
	}
	return comparison
}
