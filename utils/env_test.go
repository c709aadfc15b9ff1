package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitEnv(t *testing.T) {
	dir := t.TempDir()
	yml := []byte(`database:
  client: postgres
  host: db
  port: "5432"
  name: nutrition
concurrentAmount: 8
server:
  app_api: http://app
goal:
  calorie_floor:
    male: 1600
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NUTRITION_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv("NUTRITION_TEST_DOTENV")

	env := &EnvService{ConfigPath: dir}
	config := env.InitEnv()

	if os.Getenv("NUTRITION_TEST_DOTENV") != "loaded" {
		t.Errorf(".env not loaded")
	}
	if EnvConfig != config {
		t.Errorf("EnvConfig not set")
	}
	if config.Database.Client != "postgres" || config.Database.Host != "db" || config.Database.Db != "nutrition" {
		t.Errorf("database = %+v", config.Database)
	}
	if config.ConcurrentAmount != 8 {
		t.Errorf("concurrentAmount = %d", config.ConcurrentAmount)
	}
	if config.Server.AppAPI != "http://app" {
		t.Errorf("app api = %s", config.Server.AppAPI)
	}
	if config.Goal.GenericCalorieFloor != defaultGenericCalorieFloor {
		t.Errorf("generic floor = %v", config.Goal.GenericCalorieFloor)
	}
	if config.Goal.MaleCalorieFloor != 1600 {
		t.Errorf("male floor = %v", config.Goal.MaleCalorieFloor)
	}
}
