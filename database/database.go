package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/sirupsen/logrus"

	"nutrition-go-worker/models"
	"nutrition-go-worker/structs"
)

const (
	ClientMysql    = "mysql"
	ClientPostgres = "postgres"
)

// InitDatabasePool 依 database.client 建立連線池, postgres 走 pgx 的 database/sql driver
func InitDatabasePool(config structs.DatabaseConfig, logger logrus.FieldLogger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch strings.ToLower(config.Client) {
	case "", ClientMysql:
		db, err = gorm.Open("mysql", mysqlDSN(config))
	case ClientPostgres:
		var sqlDB *sql.DB
		if sqlDB, err = sql.Open("pgx", postgresDSN(config)); err != nil {
			return nil, err
		}
		db, err = gorm.Open("postgres", sqlDB)
	default:
		return nil, fmt.Errorf("unsupported database client: %s", config.Client)
	}
	if err != nil {
		return nil, err
	}

	if config.MaxIdle > 0 {
		db.DB().SetMaxIdleConns(int(config.MaxIdle))
	}
	if config.MaxOpenConn > 0 {
		db.DB().SetMaxOpenConns(int(config.MaxOpenConn))
	}
	if config.MaxLifeTime != "" {
		lifeTime, err := time.ParseDuration(config.MaxLifeTime)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("database.max_life_time: %w", err)
		}
		db.DB().SetConnMaxLifetime(lifeTime)
	}

	db.LogMode(config.LogEnable == 1)
	if logger != nil {
		db.SetLogger(logger)
	}

	if err := db.DB().Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate 建立資料表與 unique index
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Meal{},
		&models.MealItem{},
		&models.NutritionGoal{},
		&models.NutritionTrend{},
		&models.NutritionReport{},
		&models.WorkerLog{},
	).Error
}

// mysqlDSN 沒指定 clientFoundRows 時預設 true, UPDATE 回報符合條件的筆數
func mysqlDSN(config structs.DatabaseConfig) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", config.User, config.Password, config.Host, config.Port, config.Db)
	params := config.Params
	if !strings.Contains(params, "clientFoundRows=") {
		if params != "" {
			params += "&"
		}
		params += "clientFoundRows=true"
	}
	return dsn + "?" + params
}

// postgresDSN 只用 database.postgres_params, mysql 的 params 不會帶進來
func postgresDSN(config structs.DatabaseConfig) string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s", config.Host, config.Port, config.User, config.Password, config.Db)
	if config.PostgresParams != "" {
		// 接受 a=1&b=2 或 a=1 b=2
		dsn += " " + strings.Join(strings.Fields(strings.ReplaceAll(config.PostgresParams, "&", " ")), " ")
	}
	return dsn
}
