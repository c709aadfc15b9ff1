package structs

type WorkerLogJsonModel struct {
	Type      string         `json:"type"`
	Period    string         `json:"period,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Result    bool           `json:"result"`
	Statistic StatisticModel `json:"statistic"`
	Message   string         `json:"message"`
	Messages  []ErrorModel   `json:"messages"`
}

type StatisticModel struct {
	TotalUser int `json:"total_user"`
	FailUser  int `json:"fail_user"`
	OKUser    int `json:"ok_user"`
}
