package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
	"nutrition-go-worker/services/analytics"
	"nutrition-go-worker/structs"
)

const callbackPath = "/api/v1/workerCallback/report"

// Loggers 每個用戶各自的 log 檔, 處理完要 Release
type Loggers interface {
	LoggerInit(userEntity models.User) *logrus.Logger
	Release(logger *logrus.Logger)
}

var mainEntity = models.User{ID: "main", Nickname: "主程式"}

type ReportService struct {
	sync.Mutex
	store            repository.Store
	analytics        *analytics.AnalyticsService
	loggers          Loggers
	appAPI           string
	concurrentAmount int

	reportQueueParam structs.ReportQueueParam
	from, to         time.Time
	processResult    map[string][]string
	Errors           []structs.ErrorModel
}

func NewReportService(store repository.Store, loggers Loggers, config structs.EnviromentModel) *ReportService {
	return &ReportService{
		store:            store,
		loggers:          loggers,
		appAPI:           config.Server.AppAPI,
		concurrentAmount: config.ConcurrentAmount,
	}
}

// 起始 func
func (r *ReportService) Start(reportQueueParam structs.ReportQueueParam) {
	// 初始化
	r.reportQueueParam = reportQueueParam
	r.processResult = make(map[string][]string)
	r.Errors = nil

	mainLogger := r.loggers.LoggerInit(mainEntity)
	defer r.loggers.Release(mainLogger)
	r.analytics = analytics.NewAnalyticsService(r.store, mainLogger)

	if err := r.parseRange(); err != nil {
		r.handleError(&models.User{ID: reportQueueParam.UserID}, err)
		r.finish(nil)
		return
	}

	// 針對特定用戶
	if reportQueueParam.Type == enums.ProcessSingle {
		fmt.Println("[report] 處理方式： ", reportQueueParam.Type)

		userEntity, err := r.store.GetUser(reportQueueParam.UserID)
		if err != nil {
			fmt.Println("[report] 查無此用戶：", reportQueueParam.UserID)
			r.handleError(&models.User{ID: reportQueueParam.UserID}, err)
			r.finish(nil)
			return
		}

		fmt.Println("[report] 開始處理用戶： ", userEntity.ID, "task_id", reportQueueParam.TaskID)
		r.process(userEntity, nil, nil)
		r.finish(&userEntity)
		fmt.Println("[report] Done!!")
		return
	}

	// 針對所有用戶
	if reportQueueParam.Type == enums.ProcessAll {
		userEntities, err := r.store.ListUsers()
		if err != nil {
			r.handleError(&models.User{ID: "all"}, services.PersistenceError(err))
			r.finish(nil)
			return
		}

		logwg := mainLogger.WithFields(logrus.Fields{"task": "report", "task_id": reportQueueParam.TaskID, "name": mainEntity.Nickname, "total_user": len(userEntities)})
		logwg.Info("用戶資料準備完成")

		fmt.Println("[report] 處理方式： ", reportQueueParam.Type, len(userEntities), "task_id", reportQueueParam.TaskID)

		var wg sync.WaitGroup
		wg.Add(len(userEntities))

		// 限制啟動 goroutine 的數量
		amount := r.concurrentAmount
		if amount <= 0 {
			amount = 1
		}
		concurrentGoroutines := make(chan struct{}, amount)

		for _, userEntity := range userEntities {
			concurrentGoroutines <- struct{}{}
			go r.process(userEntity, &wg, concurrentGoroutines)
		}
		wg.Wait()
		close(concurrentGoroutines)

		r.finish(nil)
		logwg.Info("全部已完成")
		fmt.Println("[report] Done!!")
		return
	}

	r.handleError(&models.User{ID: reportQueueParam.UserID}, services.NewValidationError("type", "unknown process type "+reportQueueParam.Type))
	r.finish(nil)
}

func (r *ReportService) parseRange() error {
	if r.reportQueueParam.Period != enums.PeriodWeekly && r.reportQueueParam.Period != enums.PeriodMonthly {
		return services.NewValidationError("period", "unknown period "+r.reportQueueParam.Period)
	}
	var err error
	if r.from, err = services.ParseDate("start_date", r.reportQueueParam.StartDate); err != nil {
		return err
	}
	if r.to, err = services.ParseDate("end_date", r.reportQueueParam.EndDate); err != nil {
		return err
	}
	if r.from.After(r.to) {
		return services.NewValidationError("start_date", "must not be after end_date")
	}
	return nil
}

// 處理主邏輯流程
func (r *ReportService) process(userEntity models.User, wg *sync.WaitGroup, concurrentGoroutines chan struct{}) {
	// waitgroup 的完成工作的 defer 處理
	if wg != nil {
		defer func() {
			wg.Done()
			<-concurrentGoroutines
		}()
	}

	logwg := r.loggers.LoggerInit(userEntity)
	defer r.loggers.Release(logwg)
	fields := logrus.Fields{"task": "report", "task_id": r.reportQueueParam.TaskID, "name": userEntity.Nickname, "user_id": userEntity.ID}
	logwg.WithFields(fields).Info("開始準備資料")

	defer func() {
		if err := recover(); err != nil {
			logwg.WithFields(fields).WithField("error_message", err).Error("發生未預期錯誤")
			r.handleError(&userEntity, fmt.Errorf("unexpected error: %v", err))
		}
	}()

	reportModel, err := r.analytics.GetReport(userEntity.ID, r.reportQueueParam.Period, r.from, r.to)
	if err != nil {
		logwg.WithFields(fields).WithField("error_message", err.Error()).Error("計算報表時，錯誤")
		r.handleError(&userEntity, err)
		return
	}

	data, err := json.Marshal(reportModel)
	if err != nil {
		r.handleError(&userEntity, err)
		return
	}

	reportEntity := models.NutritionReport{
		ID:        services.NewID(),
		UserID:    userEntity.ID,
		Period:    r.reportQueueParam.Period,
		Label:     reportModel.From + "~" + reportModel.To,
		StartDate: r.from,
		EndDate:   r.to,
		Data:      string(data),
	}
	if err := r.store.RunAtomic(func(tx repository.Tx) error {
		return tx.SaveReport(&reportEntity)
	}); err != nil {
		logwg.WithFields(fields).WithField("error_message", err.Error()).Error("寫入報表時，錯誤")
		r.handleError(&userEntity, err)
		return
	}

	r.Lock()
	r.processResult["ok"] = append(r.processResult["ok"], userEntity.ID)
	r.Unlock()

	logwg.WithFields(fields).WithFields(logrus.Fields{"success_rate": reportModel.SuccessRate, "partitions": len(reportModel.Partitions)}).Info("報表完成")
}

func (r *ReportService) finish(userEntity *models.User) {
	if err := r.insertWorkerLog(userEntity, len(r.Errors) == 0); err != nil {
		fmt.Println(err)
	}
	r.JobDoneNotify()
}

// 塞入執行紀錄的 log table
func (r *ReportService) insertWorkerLog(userEntity *models.User, result bool) error {
	var workerLogJSONModel structs.WorkerLogJsonModel

	// 有用戶就放用戶資料
	if userEntity != nil {
		workerLogJSONModel.UserID = userEntity.ID
	}

	workerLogJSONModel.Type = r.reportQueueParam.Type
	workerLogJSONModel.Period = r.reportQueueParam.Period
	workerLogJSONModel.Result = result

	if result {
		workerLogJSONModel.Message = "ok"
	} else {
		workerLogJSONModel.Message = r.Errors[0].ErrorMessage
		workerLogJSONModel.Messages = r.Errors
	}

	workerLogJSONModel.Statistic.OKUser = len(r.processResult["ok"])
	workerLogJSONModel.Statistic.FailUser = len(r.processResult["fail"])
	workerLogJSONModel.Statistic.TotalUser = workerLogJSONModel.Statistic.OKUser + workerLogJSONModel.Statistic.FailUser

	workerLogJSON, _ := json.Marshal(workerLogJSONModel)
	r.reportQueueParam.Result = string(workerLogJSON)

	workerLogEntity := models.WorkerLog{
		LogName:     "schedule.go.report",
		Description: "營養報表計算",
		Properties:  string(workerLogJSON),
	}
	return r.store.RunAtomic(func(tx repository.Tx) error {
		return tx.InsertWorkerLog(&workerLogEntity)
	})
}

// JobDoneNotify 回呼 app 告知任務結果
func (r *ReportService) JobDoneNotify() {
	if r.appAPI == "" {
		return
	}
	endpoint := r.appAPI + callbackPath
	fmt.Println("callback url", endpoint, "task_id", r.reportQueueParam.TaskID)
	if _, err := services.HttpRequest(http.MethodPost, endpoint, nil, r.reportQueueParam); err != nil {
		fmt.Println(err.Error())
	}
}

func (r *ReportService) handleError(userEntity *models.User, err error) {
	r.Lock()
	defer r.Unlock()

	errorModel := structs.ErrorModel{
		UserID:       userEntity.ID,
		ErrorMessage: err.Error(),
	}
	r.Errors = append(r.Errors, errorModel)

	// 把錯誤的用戶 id 加到結果參數中
	r.processResult["fail"] = append(r.processResult["fail"], userEntity.ID)

	fmt.Println(errorModel)
}
