package structs

type ReportQueueParam struct {
	Type      string `json:"type" form:"type"`
	UserID    string `json:"user_id" form:"user_id"`
	Period    string `json:"period" form:"period"`
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	TaskID    uint   `json:"task_id" form:"task_id"`
	Result    string `json:"result" form:"result"`
	QueueType string `json:"queue_type" form:"queue_type"`
}

type ActivityQueueParam struct {
	TaskID         uint    `json:"task_id" form:"task_id"`
	Kind           string  `json:"kind" form:"kind"`
	UserID         string  `json:"user_id" form:"user_id"`
	Date           string  `json:"date" form:"date"`
	BurnedCalories float64 `json:"burned_calories" form:"burned_calories"`
	Weight         float64 `json:"weight" form:"weight"`
	WaterLiters    float64 `json:"water_liters" form:"water_liters"`
	QueueType      string  `json:"queue_type" form:"queue_type"`
}

type MismatchQueueResponse struct {
	TaskId uint   `json:"task_id"`
	Queue  string `json:"queue"`
}

type ErrorModel struct {
	UserID       string `json:"user_id"`
	ErrorMessage string `json:"error_message"`
}
