package nutrient

import (
	"encoding/json"
	"math"
	"strings"

	"nutrition-go-worker/services"
)

// Profile 依 schema 排列的營養素數值, nil 代表未知 (不是 0)
type Profile [numNutrients]*float64

func (p *Profile) Get(n Nutrient) *float64 {
	return p[n]
}

func (p *Profile) Set(n Nutrient, value float64) {
	v := value
	p[n] = &v
}

// Value 未知的欄位回傳 0, 給加總用
func (p *Profile) Value(n Nutrient) float64 {
	if p[n] == nil {
		return 0
	}
	return *p[n]
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, numNutrients)
	for i, v := range p {
		if v != nil {
			out[Schema[i].Key] = v
		}
	}
	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(b []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return services.NewValidationError("nutrients", "must be a JSON object of numbers: "+err.Error())
	}
	var parsed Profile
	for key, value := range raw {
		n, ok := Lookup(key)
		if !ok {
			return services.NewValidationError("nutrients", "unknown nutrient "+key)
		}
		if value == nil {
			continue
		}
		if *value < 0 || math.IsNaN(*value) || math.IsInf(*value, 0) {
			return services.NewValidationError("nutrients", key+" must be a non-negative number")
		}
		parsed.Set(n, *value)
	}
	*p = parsed
	return nil
}

// ParseProfile 解析 product / meal item 上存的 JSON
func ParseProfile(value string) (Profile, error) {
	var p Profile
	value = strings.TrimSpace(value)
	if value == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Encode 轉成存進資料庫的 JSON
func (p Profile) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
