package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrition-go-worker/controllers/check"

	"github.com/gin-gonic/gin"
)

func TestRouterProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	route := Router()

	tests := []struct {
		path    string
		message string
	}{
		{"/read-probe", "probe success"},
		// 測試環境沒有 rabbitmq 連線
		{"/check-live", "Get connection pool fail"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			route.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var res check.AliveResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if !res.Success || res.Messsage != tt.message {
				t.Errorf("response = %+v", res)
			}
		})
	}
}
