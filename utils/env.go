package utils

import (
	"fmt"
	"os"
	"strings"

	"nutrition-go-worker/structs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var EnvConfig *structs.EnviromentModel

const (
	defaultGenericCalorieFloor = 1200
	defaultMaleCalorieFloor    = 1500
	defaultConcurrentAmount    = 4
)

type EnvService struct {
	// 測試用, 空值代表目前目錄
	ConfigPath string
}

func (e *EnvService) InitEnv() *structs.EnviromentModel {
	e.loadDotEnv()
	e.loadConfig()
	return e.configToModel()
}

// .env 不存在不算錯誤
func (e *EnvService) loadDotEnv() {
	path := e.path(".env")
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		panic(fmt.Errorf("Fatal error .env file: %s \n", err))
	}
}

func (e *EnvService) path(file string) string {
	if e.ConfigPath == "" {
		return file
	}
	return strings.TrimRight(e.ConfigPath, "/") + "/" + file
}

func (e *EnvService) loadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	if e.ConfigPath != "" {
		viper.AddConfigPath(e.ConfigPath)
	}
	viper.AddConfigPath(".")
	viper.SetDefault("goal.calorie_floor.generic", defaultGenericCalorieFloor)
	viper.SetDefault("goal.calorie_floor.male", defaultMaleCalorieFloor)
	viper.SetDefault("concurrentAmount", defaultConcurrentAmount)
	viper.SetDefault("database.client", "mysql")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {

			// 找不到 config.yml 的話就抓取環境變數
			viper.AutomaticEnv()
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		} else {

			// 有找到 config.yml 但是發生了其他未知的錯誤
			panic(fmt.Errorf("Fatal error config file: %s \n", err))
		}
	}
}

func (e *EnvService) configToModel() *structs.EnviromentModel {
	var config structs.EnviromentModel
	config.Database.Client = viper.GetString("database.client")
	config.Database.Host = viper.GetString("database.host")
	config.Database.User = viper.GetString("database.user")
	config.Database.Password = viper.GetString("database.password")
	config.Database.Db = viper.GetString("database.name")
	config.Database.MaxIdle = uint(viper.GetInt("database.max_idle"))
	config.Database.MaxOpenConn = uint(viper.GetInt("database.max_open_conn"))
	config.Database.MaxLifeTime = viper.GetString("database.max_life_time")
	config.Database.Params = viper.GetString("database.params")
	config.Database.PostgresParams = viper.GetString("database.postgres_params")
	config.Database.Port = viper.GetString("database.port")
	config.Database.LogEnable = viper.GetInt("database.log_enable")
	config.ConcurrentAmount = viper.GetInt("concurrentAmount")
	config.RabbitMQ.Domain = viper.GetString("rabbitmq.domain")
	config.Log.ElkEnable = viper.GetInt("log.elk.enable")
	config.Log.ElkIndex = viper.GetString("log.elk.index")
	config.Log.ElkURL = viper.GetString("log.elk.url")
	config.Log.LogstashEnable = viper.GetInt("log.logstash.enable")
	config.Log.LogstashURL = viper.GetString("log.logstash.url")
	config.Log.LogstashIndex = viper.GetString("log.logstash.index")
	config.Server.AppAPI = viper.GetString("server.app_api")
	config.Router.Port = viper.GetInt("router.port")
	config.Goal.GenericCalorieFloor = viper.GetFloat64("goal.calorie_floor.generic")
	config.Goal.MaleCalorieFloor = viper.GetFloat64("goal.calorie_floor.male")
	EnvConfig = &config
	return EnvConfig
}
