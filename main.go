package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"nutrition-go-worker/controllers/check"
	"nutrition-go-worker/database"
	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/router"
	"nutrition-go-worker/services"
	logLib "nutrition-go-worker/services/log"
	"nutrition-go-worker/services/rabbitmq"
	"nutrition-go-worker/services/report"
	"nutrition-go-worker/services/trackLog"
	"nutrition-go-worker/services/trend"
	"nutrition-go-worker/structs"
	"nutrition-go-worker/utils"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// worker 持有 queue handler 需要的 service
type worker struct {
	config     structs.EnviromentModel
	store      repository.Store
	logService *logLib.LogService
	trends     *trend.TrendService
}

func main() {

	// 初始化 env
	var envService utils.EnvService
	config := envService.InitEnv()
	fmt.Println("參數初始化成功...")

	logService := logLib.NewLogService(config.Log)
	defer logService.Close()
	trackLog.LogTrackInit(logService)

	db, err := database.InitDatabasePool(config.Database, trackLog.Logger())
	if err != nil {
		panic(err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	check.SetDatabase(db.DB())

	store := database.NewStore(db)
	w := &worker{
		config:     *config,
		store:      store,
		logService: logService,
		trends:     trend.NewTrendService(store, trackLog.Logger()),
	}
	_ = w.insertWorkerLog("schedule.go.job.init", "nutrition-worker 初始化")

	defer func() {

		// 發送 ELK
		userEntity := models.User{ID: "main", Nickname: "主程式"}
		logwr := logService.LoggerInit(userEntity)
		defer logService.Release(logwr)
		logwr.WithFields(logrus.Fields{"task": "main", "name": userEntity.Nickname, "user_id": userEntity.ID}).Error("worker shutdown")

		fmt.Println("worker shutdown")
	}()

	route := router.Router()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := route.Run(fmt.Sprintf(":%d", config.Router.Port)); err != nil {
			trackLog.Error(err.Error(), true)
		}
	}()

	wg.Add(1)
	go w.NutritionQueue()

	wg.Wait()
}

func (w *worker) NutritionQueue() {
	queues := []string{enums.ActivityQueue, enums.ReportQueue}
	conn := rabbitmq.NewConnection(enums.ConnectionName, w.config.RabbitMQ.Domain, queues)

	if err := conn.Connect(); err != nil {
		panic(err)
	}
	if err := conn.BindQueue(); err != nil {
		panic(err)
	}
	deliveries, err := conn.Consume()
	if err != nil {
		panic(err)
	}

	for q, d := range deliveries {
		go conn.HandleConsumedDeliveries(q, d, w.NutritionHandler)
	}
	log.Printf(" [ %s ] %v Waiting for messages. To exit press CTRL+C", enums.ConnectionName, queues)
}

func (w *worker) NutritionHandler(c *rabbitmq.Connection, q string, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		trackLog.Info(fmt.Sprintf("Queue[%s] 接受資料: %s\n", q, string(d.Body)), true)
		w.dispatch(q, d.Body)
	}
}

func (w *worker) dispatch(q string, body []byte) {
	switch q {
	case enums.ActivityQueue:
		var activityQueueParam structs.ActivityQueueParam
		if err := json.Unmarshal(body, &activityQueueParam); err != nil {
			trackLog.Error(err.Error(), true)
			return
		}
		// 檢查queue是否正確
		if q != activityQueueParam.QueueType {
			w.notifyMismatchQueueApi(activityQueueParam.TaskID, q, activityQueueParam.QueueType)
			return
		}
		_ = w.insertWorkerLog("schedule.go.job.received", "("+strconv.Itoa(int(activityQueueParam.TaskID))+"), "+"queue name: "+q+", start...")
		if err := w.recordActivity(activityQueueParam); err != nil {
			trackLog.Error(fmt.Sprintf("[activity] task_id: %d, user_id: %s, %s", activityQueueParam.TaskID, activityQueueParam.UserID, err.Error()), true)
		}

	case enums.ReportQueue:
		var reportQueueParam structs.ReportQueueParam
		if err := json.Unmarshal(body, &reportQueueParam); err != nil {
			trackLog.Error(err.Error(), true)
			return
		}
		fmt.Println("取得參數： ", reportQueueParam)
		// 檢查queue是否正確
		if q != reportQueueParam.QueueType {
			w.notifyMismatchQueueApi(reportQueueParam.TaskID, q, reportQueueParam.QueueType)
			return
		}
		_ = w.insertWorkerLog("schedule.go.job.received", "("+strconv.Itoa(int(reportQueueParam.TaskID))+"), "+"queue name: "+q+", start...")
		reportService := report.NewReportService(w.store, w.logService, w.config)
		reportService.Start(reportQueueParam)

	default:
		trackLog.Error(fmt.Sprintf("unknown queue: %s", q), true)
	}
}

// 活動、體重、飲水三種紀錄
func (w *worker) recordActivity(param structs.ActivityQueueParam) error {
	date, err := services.ParseDate("date", param.Date)
	if err != nil {
		return err
	}
	switch param.Kind {
	case enums.ActivityKindActivity:
		return w.trends.RecordActivity(param.UserID, date, param.BurnedCalories)
	case enums.ActivityKindWeight:
		return w.trends.RecordWeight(param.UserID, date, param.Weight)
	case enums.ActivityKindWater:
		return w.trends.RecordWater(param.UserID, date, param.WaterLiters)
	}
	return services.NewValidationError("kind", fmt.Sprintf("unknown kind %q", param.Kind))
}

// 塞入執行紀錄的 log table
func (w *worker) insertWorkerLog(jobname string, data interface{}) error {
	workerLogJSON, _ := json.Marshal(data)

	workerLogEntity := models.WorkerLog{
		LogName:     jobname,
		Description: "golang-worker log",
		Properties:  string(workerLogJSON),
	}
	err := w.store.RunAtomic(func(tx repository.Tx) error {
		return tx.InsertWorkerLog(&workerLogEntity)
	})
	if err != nil {
		trackLog.Error(err.Error(), true)
	}
	return err
}

func (w *worker) notifyMismatchQueueApi(taskId uint, queue, queueType string) {
	endpoint := w.config.Server.AppAPI + "/api/v1/workerCallback/mismatchQueue"
	body := structs.MismatchQueueResponse{
		TaskId: taskId,
		Queue:  queue,
	}
	trackLog.Info(fmt.Sprintf("[MismatchQueue]queue發生錯誤, task_id: %d, mismatch queue: %s, queue_type: %s, callback url: %s", taskId, queue, queueType, endpoint), true)
	if w.config.Server.AppAPI == "" {
		return
	}
	if _, err := services.HttpRequest(http.MethodPost, endpoint, nil, body); err != nil {
		trackLog.Error(err.Error(), true)
	}
}
