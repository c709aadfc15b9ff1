package services

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

func HttpRequest(method, url string, header map[string]string, data interface{}) ([]byte, error) {

	var requestBody []byte
	var err error
	var req *http.Request

	// 序列化參數
	if data != nil {
		if requestBody, err = json.Marshal(data); err != nil {
			return nil, err
		}
		if req, err = http.NewRequest(method, url, bytes.NewBuffer(requestBody)); err != nil {
			return nil, err
		}
	} else {
		if req, err = http.NewRequest(method, url, nil); err != nil {
			return nil, err
		}
	}

	client := &http.Client{Timeout: 30 * time.Second}

	req.Header.Set("Content-Type", "application/json")
	for key, element := range header {
		req.Header.Set(key, element)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return ioutil.ReadAll(resp.Body)
}

// Round 四捨五入到整數
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundTo 取小數後 places 位, 以十進位計算避免浮點誤差 (1.005 -> 1.01)
func RoundTo(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(value).Round(places).Float64()
	return f
}

// Percent 計算達成率, target 為 0 時回傳 nil
func Percent(current, target float64) *float64 {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return nil
	}
	p := current / target * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	return &p
}

// DateOnly 截掉時間只保留日期 (UTC)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewID 產生資料表主鍵
func NewID() string {
	return uuid.New().String()
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
