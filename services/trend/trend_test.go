package trend

import (
	"errors"
	"io/ioutil"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/repository/repositorytest"
	"nutrition-go-worker/services"
)

var day = time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC)

func newTestService() (*TrendService, *repositorytest.Store) {
	store := repositorytest.NewStore()
	logger := logrus.New()
	logger.Out = ioutil.Discard
	return NewTrendService(store, logger), store
}

func TestUpsertDailyTrendIdempotent(t *testing.T) {
	svc, store := newTestService()
	values := models.NutritionTrend{ConsumedCalories: 1850.5, GoalCalories: 2000, MealCount: 3}
	columns := []string{repository.ColConsumedCalories, repository.ColGoalCalories, repository.ColMealCount}

	for i := 0; i < 2; i++ {
		if err := svc.UpsertDailyTrend("user-1", day, values, columns, nil); err != nil {
			t.Fatal(err)
		}
	}
	rows := store.TrendRows("user-1")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].ConsumedCalories != 1850.5 || rows[0].GoalCalories != 2000 || rows[0].MealCount != 3 {
		t.Errorf("row = %+v", rows[0])
	}

	values.ConsumedCalories = 2100
	if err := svc.UpsertDailyTrend("user-1", day.Add(2*time.Hour), values, columns, nil); err != nil {
		t.Fatal(err)
	}
	rows = store.TrendRows("user-1")
	if len(rows) != 1 || rows[0].ConsumedCalories != 2100 {
		t.Errorf("latest values must win, rows = %+v", rows)
	}
}

func TestUpsertDailyTrendRejectsColumns(t *testing.T) {
	svc, _ := newTestService()
	tests := []struct {
		name      string
		replace   []string
		increment []string
	}{
		{"no columns", nil, nil},
		{"unknown column", []string{"drop_table"}, nil},
		{"increment weight", nil, []string{repository.ColWeight}},
		{"both", []string{repository.ColBurnedCalories}, []string{repository.ColBurnedCalories}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpsertDailyTrend("user-1", day, models.NutritionTrend{}, tt.replace, tt.increment)
			if !errors.Is(err, services.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestActivityWeightWater(t *testing.T) {
	svc, store := newTestService()

	if err := svc.RecordActivity("user-1", day, 250); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordActivity("user-1", day, 120.5); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordWeight("user-1", day, 81.2); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordWeight("user-1", day, 80.9); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordWater("user-1", day, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordWater("user-1", day, 0.25); err != nil {
		t.Fatal(err)
	}

	rows := store.TrendRows("user-1")
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.BurnedCalories != 370.5 || row.ActivityCount != 2 {
		t.Errorf("burned = %v activities = %d", row.BurnedCalories, row.ActivityCount)
	}
	if row.Weight == nil || *row.Weight != 80.9 {
		t.Errorf("weight = %v", row.Weight)
	}
	if row.ConsumedWater != 0.75 {
		t.Errorf("water = %v", row.ConsumedWater)
	}

	if err := svc.RecordWeight("user-1", day, 0); !errors.Is(err, services.ErrValidation) {
		t.Errorf("zero weight error = %v", err)
	}
	if err := svc.RecordActivity("user-1", day, -1); !errors.Is(err, services.ErrValidation) {
		t.Errorf("negative burned error = %v", err)
	}
}

func TestMealAndActivityPathsDoNotOverwriteEachOther(t *testing.T) {
	svc, store := newTestService()

	if err := svc.RecordActivity("user-1", day, 300); err != nil {
		t.Fatal(err)
	}
	err := store.RunAtomic(func(tx repository.Tx) error {
		return RecordConsumption(tx, "user-1", day, models.MealTotals{Calories: 640.2, Proteins: 30}, 2, nil)
	})
	if err != nil {
		t.Fatal(err)
	}

	row := store.TrendRows("user-1")[0]
	if row.BurnedCalories != 300 || row.ActivityCount != 1 {
		t.Errorf("activity columns lost: %+v", row)
	}
	if row.ConsumedCalories != 640.2 || row.MealCount != 2 {
		t.Errorf("consumption columns = %+v", row)
	}
}

func TestRefreshDayUsesActiveGoal(t *testing.T) {
	store := repositorytest.NewStore()
	water := 2.5
	store.PutGoal(models.NutritionGoal{
		ID: "goal-1", UserID: "user-1", IsActive: true, TargetCalories: 2000,
		CarbsPercent: 50, ProteinPercent: 20, FatPercent: 30, TargetWaterLiters: &water,
	})

	err := store.RunAtomic(func(tx repository.Tx) error {
		for _, cal := range []float64{400.15, 700.1} {
			meal := models.Meal{ID: services.NewID(), UserID: "user-1", Date: services.DateOnly(day), TotalCalories: cal, TotalProteins: 10}
			if err := tx.CreateMeal(&meal); err != nil {
				return err
			}
			if err := tx.UpdateTotals(&meal); err != nil {
				return err
			}
		}
		return RefreshDay(tx, "user-1", day)
	})
	if err != nil {
		t.Fatal(err)
	}

	row := store.TrendRows("user-1")[0]
	if row.ConsumedCalories != 1100.3 || row.ConsumedProteins != 20 || row.MealCount != 2 {
		t.Errorf("consumed = %+v", row)
	}
	if row.GoalCalories != 2000 || row.GoalCarbs != 250 || row.GoalProteins != 100 || row.GoalFats != 67 || row.GoalWater != 2.5 {
		t.Errorf("goal columns = %+v", row)
	}
}

func TestGetTrends(t *testing.T) {
	svc, store := newTestService()
	for _, d := range []int{5, 1, 3, 9} {
		store.PutTrend(models.NutritionTrend{UserID: "user-1", Date: time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC), ConsumedCalories: float64(d)})
	}
	store.PutTrend(models.NutritionTrend{UserID: "user-2", Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)})

	rows, err := svc.GetTrends("user-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, want := range []float64{1, 3, 5} {
		if rows[i].ConsumedCalories != want {
			t.Errorf("rows[%d] = %v, want %v", i, rows[i].ConsumedCalories, want)
		}
	}

	if _, err := svc.GetTrends("user-1", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, services.ErrValidation) {
		t.Errorf("reversed range error = %v", err)
	}
}
