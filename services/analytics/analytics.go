package analytics

import (
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
	"nutrition-go-worker/structs"
)

// recentProgressDays summary 中 recent_progress 的筆數
const recentProgressDays = 7

type AnalyticsService struct {
	trends repository.Trends
	logger logrus.FieldLogger
}

func NewAnalyticsService(trends repository.Trends, logger logrus.FieldLogger) *AnalyticsService {
	return &AnalyticsService{trends: trends, logger: logger}
}

func (a *AnalyticsService) load(userID string, from, to time.Time) ([]models.NutritionTrend, time.Time, time.Time, error) {
	from, to = services.DateOnly(from), services.DateOnly(to)
	if from.After(to) {
		return nil, from, to, services.NewValidationError("date_from", "must not be after date_to")
	}
	rows, err := a.trends.ListTrends(userID, from, to)
	if err != nil {
		a.logger.WithFields(logrus.Fields{"task": "analytics", "user_id": userID, "error_message": err.Error()}).Error("讀取 trend 失敗")
		return nil, from, to, services.PersistenceError(err)
	}
	return rows, from, to, nil
}

func (a *AnalyticsService) GetStats(userID string, from, to time.Time) (structs.Stats, error) {
	rows, from, to, err := a.load(userID, from, to)
	if err != nil {
		return structs.Stats{}, err
	}
	return ComputeStats(rows, from, to), nil
}

func (a *AnalyticsService) GetGoalProgressSeries(userID string, from, to time.Time) ([]structs.DayProgress, error) {
	rows, _, _, err := a.load(userID, from, to)
	if err != nil {
		return nil, err
	}
	return ProgressSeries(rows), nil
}

func (a *AnalyticsService) GetStreaks(userID string, from, to time.Time) (structs.Streaks, error) {
	rows, _, to, err := a.load(userID, from, to)
	if err != nil {
		return structs.Streaks{}, err
	}
	return ComputeStreaks(rows, to), nil
}

// GetSummary 統計、最近 7 筆達成率與連續紀錄
func (a *AnalyticsService) GetSummary(userID string, from, to time.Time) (structs.Summary, error) {
	rows, from, to, err := a.load(userID, from, to)
	if err != nil {
		return structs.Summary{}, err
	}
	series := ProgressSeries(rows)
	if len(series) > recentProgressDays {
		series = series[len(series)-recentProgressDays:]
	}
	return structs.Summary{
		Summary:        ComputeStats(rows, from, to),
		RecentProgress: series,
		Streaks:        ComputeStreaks(rows, to),
	}, nil
}

// GetReport period 為 weekly 或 monthly
func (a *AnalyticsService) GetReport(userID, period string, from, to time.Time) (structs.Report, error) {
	rows, from, to, err := a.load(userID, from, to)
	if err != nil {
		return structs.Report{}, err
	}
	return BuildReport(rows, period, from, to)
}

// ComparePeriods 兩段區間不可重疊
func (a *AnalyticsService) ComparePeriods(userID string, fromA, toA, fromB, toB time.Time) (structs.Comparison, error) {
	fromA, toA = services.DateOnly(fromA), services.DateOnly(toA)
	fromB, toB = services.DateOnly(fromB), services.DateOnly(toB)
	if fromA.After(toA) || fromB.After(toB) {
		return structs.Comparison{}, services.NewValidationError("date_from", "must not be after date_to")
	}
	if !fromA.After(toB) && !fromB.After(toA) {
		return structs.Comparison{}, services.NewValidationError("periods", "must not overlap")
	}

	statsA, err := a.GetStats(userID, fromA, toA)
	if err != nil {
		return structs.Comparison{}, err
	}
	statsB, err := a.GetStats(userID, fromB, toB)
	if err != nil {
		return structs.Comparison{}, err
	}
	return Compare(statsA, statsB), nil
}
