package nutrient

import (
	"errors"
	"math"
	"testing"

	"nutrition-go-worker/services"
)

func ptr(v float64) *float64 {
	return &v
}

func oats() Profile {
	var p Profile
	p.Set(Energy, 389)
	p.Set(Proteins, 16.9)
	p.Set(Carbohydrates, 66.27)
	p.Set(Fat, 6.9)
	p.Set(Fiber, 10.6)
	p.Set(Sodium, 2.005)
	p.Set(Iron, 4.72)
	p.Set(SaturatedFat, 1.217)
	return p
}

func TestScale(t *testing.T) {
	scaled, err := Scale(oats(), 50)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		nutrient Nutrient
		want     *float64
	}{
		{Energy, ptr(194.5)},
		{Proteins, ptr(8.5)},
		{Carbohydrates, ptr(33.1)},
		{Fat, ptr(3.5)},
		{Fiber, ptr(5.3)},
		{Sodium, ptr(1)},
		{Iron, ptr(2.36)},
		{SaturatedFat, ptr(0.6)},
		{Sugars, nil},
		{VitaminC, nil},
	}
	for _, tt := range tests {
		got := scaled.Get(tt.nutrient)
		if tt.want == nil {
			if got != nil {
				t.Errorf("%s = %v, want null", tt.nutrient, *got)
			}
			continue
		}
		if got == nil || *got != *tt.want {
			t.Errorf("%s = %v, want %v", tt.nutrient, got, *tt.want)
		}
	}
}

func TestScaleRoundsHalfAwayFromZero(t *testing.T) {
	var p Profile
	p.Set(Salt, 1.005)
	p.Set(Energy, 0.25)

	scaled, err := Scale(p, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got := *scaled.Get(Salt); got != 1.01 {
		t.Errorf("salt = %v, want 1.01", got)
	}
	if got := *scaled.Get(Energy); got != 0.3 {
		t.Errorf("energy = %v, want 0.3", got)
	}
}

func TestScaleRejectsInvalidQuantity(t *testing.T) {
	for _, q := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Scale(oats(), q); !errors.Is(err, services.ErrValidation) {
			t.Errorf("Scale(%v) error = %v, want validation error", q, err)
		}
	}
}

func TestScaleLinearity(t *testing.T) {
	quantities := [][2]float64{{30, 70}, {12.5, 87.5}, {1, 1}, {250, 333}, {0.4, 0.6}}
	p := oats()

	for _, q := range quantities {
		a, _ := Scale(p, q[0])
		b, _ := Scale(p, q[1])
		sum, _ := Scale(p, q[0]+q[1])

		for _, n := range All() {
			if sum.Get(n) == nil {
				if a.Get(n) != nil || b.Get(n) != nil {
					t.Errorf("%s: null mismatch", n)
				}
				continue
			}
			// 兩邊各自取位, 最多差一個取位單位
			unit := math.Pow(10, -float64(n.Field().Precision))
			diff := math.Abs(*a.Get(n) + *b.Get(n) - *sum.Get(n))
			if diff > unit+1e-9 {
				t.Errorf("%s q=%v: |%v + %v - %v| = %v > %v", n, q, *a.Get(n), *b.Get(n), *sum.Get(n), diff, unit)
			}
		}
	}
}

func TestSum(t *testing.T) {
	got := Sum([]*float64{ptr(0.1), nil, ptr(0.2), ptr(10.04)}, TotalPrecision)
	if got != 10.3 {
		t.Errorf("Sum = %v, want 10.3", got)
	}
	if got := Sum(nil, TotalPrecision); got != 0 {
		t.Errorf("Sum(nil) = %v", got)
	}
}
