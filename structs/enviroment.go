package structs

type EnviromentModel struct {
	Database         DatabaseConfig
	ConcurrentAmount int
	RabbitMQ         RabbitMQConfig
	Log              LogConfig
	Server           ServerConfig
	Router           RouterConfig
	Goal             GoalConfig
}

type ServerConfig struct {
	AppAPI string
}

type DatabaseConfig struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	// PostgresParams pgx 的 key=value 參數, 和 mysql 的 Params 分開
	PostgresParams string
	Port           string
	LogEnable      int
}

type RabbitMQConfig struct {
	Domain string
}

type LogConfig struct {
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
	LogstashIndex  string
}

type RouterConfig struct {
	Port int
}

// GoalConfig 熱量下限, 0 表示不套用
type GoalConfig struct {
	GenericCalorieFloor float64
	MaleCalorieFloor    float64
}
