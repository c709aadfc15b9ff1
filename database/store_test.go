package database

import (
	"strings"
	"testing"
	"time"

	"github.com/jinzhu/gorm"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/structs"
)

func TestTrendUpsertSQL(t *testing.T) {
	upsert := repository.TrendUpsert{
		Trend: models.NutritionTrend{
			ID:             "trend-1",
			UserID:         "user-1",
			Date:           time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			BurnedCalories: 320,
			ActivityCount:  1,
			Weight:         nil,
		},
		Replace:   []string{repository.ColWeight},
		Increment: []string{repository.ColBurnedCalories, repository.ColActivityCount},
	}
	at := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		dialect string
		want    []string
	}{
		{
			dialect: "mysql",
			want: []string{
				"INSERT INTO `nutrition_trends` (`id`, `user_id`, `date`, `weight`, `burned_calories`, `activity_count`, `created_at`, `updated_at`)",
				"ON DUPLICATE KEY UPDATE `weight` = VALUES(`weight`)",
				"`burned_calories` = COALESCE(`burned_calories`, 0) + VALUES(`burned_calories`)",
				"`activity_count` = COALESCE(`activity_count`, 0) + VALUES(`activity_count`)",
			},
		},
		{
			dialect: "postgres",
			want: []string{
				`INSERT INTO "nutrition_trends" ("id", "user_id", "date", "weight", "burned_calories", "activity_count", "created_at", "updated_at")`,
				`ON CONFLICT ("user_id", "date") DO UPDATE SET "weight" = EXCLUDED."weight"`,
				`"burned_calories" = COALESCE("nutrition_trends"."burned_calories", 0) + EXCLUDED."burned_calories"`,
			},
		},
		{
			dialect: "sqlite3",
			want: []string{
				`ON CONFLICT ("user_id", "date") DO UPDATE SET`,
				`"activity_count" = COALESCE("nutrition_trends"."activity_count", 0) + EXCLUDED."activity_count"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			dialect, ok := gorm.GetDialect(tt.dialect)
			if !ok {
				t.Fatalf("dialect %s not registered", tt.dialect)
			}
			query, values := trendUpsertSQL(dialect, upsert, at)
			for _, fragment := range tt.want {
				if !strings.Contains(query, fragment) {
					t.Errorf("query missing %q\n%s", fragment, query)
				}
			}
			if got := strings.Count(query, "?"); got != len(values) {
				t.Errorf("placeholders = %d, values = %d", got, len(values))
			}
			if values[0] != "trend-1" || values[1] != "user-1" || values[2] != "2024-03-04" {
				t.Errorf("key values = %v", values[:3])
			}
			if values[4] != float64(320) || values[5] != 1 {
				t.Errorf("increment values = %v", values[4:6])
			}
		})
	}
}

func TestTrendUpsertSQLGeneratesID(t *testing.T) {
	dialect, _ := gorm.GetDialect("mysql")
	upsert := repository.TrendUpsert{
		Trend:   models.NutritionTrend{UserID: "user-1", Date: time.Now(), ConsumedWater: 0.5},
		Replace: []string{repository.ColConsumedWater},
	}
	_, values := trendUpsertSQL(dialect, upsert, time.Now())
	if id, _ := values[0].(string); id == "" {
		t.Fatal("expected generated id")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name   string
		dsn    func(structs.DatabaseConfig) string
		config structs.DatabaseConfig
		want   string
	}{
		{"mysql", mysqlDSN, configFixture("mysql"), "root:secret@tcp(db:3306)/nutrition?charset=utf8mb4&parseTime=True&clientFoundRows=true"},
		{"mysql explicit clientFoundRows", mysqlDSN, func() structs.DatabaseConfig {
			c := configFixture("mysql")
			c.Params = "parseTime=True&clientFoundRows=false"
			return c
		}(), "root:secret@tcp(db:3306)/nutrition?parseTime=True&clientFoundRows=false"},
		{"mysql no params", mysqlDSN, func() structs.DatabaseConfig {
			c := configFixture("mysql")
			c.Params = ""
			return c
		}(), "root:secret@tcp(db:3306)/nutrition?clientFoundRows=true"},
		// mysql 的 params 不會帶進 pgx
		{"postgres", postgresDSN, configFixture("postgres"), "host=db port=5432 user=root password=secret dbname=nutrition sslmode=disable TimeZone=UTC"},
		{"postgres no params", postgresDSN, func() structs.DatabaseConfig {
			c := configFixture("postgres")
			c.PostgresParams = ""
			return c
		}(), "host=db port=5432 user=root password=secret dbname=nutrition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dsn(tt.config); got != tt.want {
				t.Errorf("dsn = %s, want %s", got, tt.want)
			}
		})
	}
}

func configFixture(client string) structs.DatabaseConfig {
	config := structs.DatabaseConfig{
		Client:         client,
		User:           "root",
		Password:       "secret",
		Host:           "db",
		Port:           "3306",
		Db:             "nutrition",
		Params:         "charset=utf8mb4&parseTime=True",
		PostgresParams: "sslmode=disable&TimeZone=UTC",
	}
	if client == ClientPostgres {
		config.Port = "5432"
	}
	return config
}
