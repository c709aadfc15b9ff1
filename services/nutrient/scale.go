package nutrient

import (
	"math"

	"github.com/shopspring/decimal"

	"nutrition-go-worker/services"
)

var hundred = decimal.NewFromInt(100)

// Scale 把每 100g 的營養素換算成實際份量, 單位換算由呼叫端負責
func Scale(per100 Profile, quantity float64) (Profile, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return Profile{}, services.NewValidationError("quantity", "must be a positive number")
	}

	q := decimal.NewFromFloat(quantity)
	var scaled Profile
	for i, v := range per100 {
		if v == nil {
			continue
		}
		f, _ := decimal.NewFromFloat(*v).Mul(q).Div(hundred).Round(Schema[i].Precision).Float64()
		scaled[i] = &f
	}
	return scaled, nil
}

// Sum 加總後依 precision 取位, nil 視為 0
func Sum(values []*float64, precision int32) float64 {
	total := decimal.Zero
	for _, v := range values {
		if v == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*v))
	}
	f, _ := total.Round(precision).Float64()
	return f
}
