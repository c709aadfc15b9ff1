package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/repository/repositorytest"
	logLib "nutrition-go-worker/services/log"
	"nutrition-go-worker/services/trackLog"
	"nutrition-go-worker/services/trend"
	"nutrition-go-worker/structs"
)

func newTestWorker(t *testing.T, store *repositorytest.Store, appAPI string) *worker {
	logService := logLib.NewLogService(structs.LogConfig{})
	logService.Dir = t.TempDir()
	config := structs.EnviromentModel{ConcurrentAmount: 2}
	config.Server.AppAPI = appAPI
	return &worker{
		config:     config,
		store:      store,
		logService: logService,
		trends:     trend.NewTrendService(store, trackLog.Logger()),
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestDispatchActivity(t *testing.T) {
	store := repositorytest.NewStore()
	w := newTestWorker(t, store, "")

	messages := []structs.ActivityQueueParam{
		{TaskID: 1, Kind: enums.ActivityKindActivity, UserID: "user-1", Date: "2024-03-10", BurnedCalories: 300, QueueType: enums.ActivityQueue},
		{TaskID: 2, Kind: enums.ActivityKindActivity, UserID: "user-1", Date: "2024-03-10", BurnedCalories: 150, QueueType: enums.ActivityQueue},
		{TaskID: 3, Kind: enums.ActivityKindWeight, UserID: "user-1", Date: "2024-03-10", Weight: 71.5, QueueType: enums.ActivityQueue},
		{TaskID: 4, Kind: enums.ActivityKindWater, UserID: "user-1", Date: "2024-03-10", WaterLiters: 0.5, QueueType: enums.ActivityQueue},
		{TaskID: 5, Kind: enums.ActivityKindWater, UserID: "user-1", Date: "2024-03-10", WaterLiters: 0.75, QueueType: enums.ActivityQueue},
	}
	for _, m := range messages {
		w.dispatch(enums.ActivityQueue, mustJSON(t, m))
	}

	rows := store.TrendRows("user-1")
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	row := rows[0]
	if row.BurnedCalories != 450 || row.ActivityCount != 2 {
		t.Errorf("activity = %v / %d", row.BurnedCalories, row.ActivityCount)
	}
	if row.Weight == nil || *row.Weight != 71.5 {
		t.Errorf("weight = %v", row.Weight)
	}
	if row.ConsumedWater != 1.25 {
		t.Errorf("water = %v", row.ConsumedWater)
	}
	if logs := store.WorkerLogs(); len(logs) != len(messages) {
		t.Errorf("worker logs = %d", len(logs))
	}
}

func TestRecordActivityRejects(t *testing.T) {
	w := newTestWorker(t, repositorytest.NewStore(), "")

	tests := []struct {
		name  string
		param structs.ActivityQueueParam
	}{
		{"bad date", structs.ActivityQueueParam{Kind: enums.ActivityKindWater, UserID: "u", Date: "10/03/2024", WaterLiters: 1}},
		{"unknown kind", structs.ActivityQueueParam{Kind: "sleep", UserID: "u", Date: "2024-03-10"}},
		{"zero weight", structs.ActivityQueueParam{Kind: enums.ActivityKindWeight, UserID: "u", Date: "2024-03-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.recordActivity(tt.param); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestDispatchMismatchQueue(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		got   structs.MismatchQueueResponse
	)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, req.URL.Path)
		_ = json.NewDecoder(req.Body).Decode(&got)
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := repositorytest.NewStore()
	w := newTestWorker(t, store, server.URL)
	w.dispatch(enums.ReportQueue, mustJSON(t, structs.ReportQueueParam{TaskID: 9, Type: enums.ProcessSingle, QueueType: enums.ActivityQueue}))

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "/api/v1/workerCallback/mismatchQueue" {
		t.Fatalf("paths = %v", paths)
	}
	if got.TaskId != 9 || got.Queue != enums.ReportQueue {
		t.Errorf("body = %+v", got)
	}
	if len(store.Reports()) != 0 || len(store.WorkerLogs()) != 0 {
		t.Errorf("mismatched job must not run")
	}
}

func TestDispatchReport(t *testing.T) {
	store := repositorytest.NewStore()
	store.PutUser(models.User{ID: "user-1", Nickname: "user"})
	for d := 1; d <= 7; d++ {
		store.PutTrend(models.NutritionTrend{
			UserID:           "user-1",
			Date:             time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
			ConsumedCalories: 1950,
			GoalCalories:     2000,
		})
	}
	w := newTestWorker(t, store, "")
	w.dispatch(enums.ReportQueue, mustJSON(t, structs.ReportQueueParam{
		Type:      enums.ProcessSingle,
		UserID:    "user-1",
		Period:    enums.PeriodWeekly,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-07",
		TaskID:    3,
		QueueType: enums.ReportQueue,
	}))

	reports := store.Reports()
	if len(reports) != 1 || reports[0].Period != enums.PeriodWeekly {
		t.Fatalf("reports = %+v", reports)
	}
}

func TestDispatchBadBody(t *testing.T) {
	store := repositorytest.NewStore()
	w := newTestWorker(t, store, "")
	w.dispatch(enums.ActivityQueue, []byte("{not json"))
	w.dispatch("unknown", []byte("{}"))
	if len(store.WorkerLogs()) != 0 {
		t.Errorf("worker logs = %+v", store.WorkerLogs())
	}
}
