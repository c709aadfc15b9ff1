package nutrient

import (
	"errors"
	"testing"

	"nutrition-go-worker/services"
)

func TestSchemaKeysAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i, f := range Schema {
		if f.Key == "" || f.Unit == "" {
			t.Errorf("schema[%d] incomplete: %+v", i, f)
		}
		if seen[f.Key] {
			t.Errorf("duplicate key %s", f.Key)
		}
		seen[f.Key] = true
		if n, ok := Lookup(f.Key); !ok || n != Nutrient(i) {
			t.Errorf("Lookup(%s) = %v, %v", f.Key, n, ok)
		}
	}
	for _, n := range []Nutrient{Energy, Proteins, Carbohydrates, Fat, Fiber, Sugars} {
		if n.Field().Precision != 1 {
			t.Errorf("%s precision = %d, want 1", n, n.Field().Precision)
		}
	}
	for _, n := range []Nutrient{Salt, Sodium, VitaminC, Calcium} {
		if n.Field().Precision != 2 {
			t.Errorf("%s precision = %d, want 2", n, n.Field().Precision)
		}
	}
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile(`{"energy_kcal": 52, "proteins": 0.3, "vitamin_c": null}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Get(Energy); got == nil || *got != 52 {
		t.Errorf("energy = %v", got)
	}
	if p.Get(VitaminC) != nil {
		t.Error("null field must stay unknown")
	}
	if p.Value(Fat) != 0 {
		t.Error("Value of unknown field must be 0")
	}

	encoded, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if encoded != `{"energy_kcal":52,"proteins":0.3}` {
		t.Errorf("Encode = %s", encoded)
	}
}

func TestParseProfileEmpty(t *testing.T) {
	p, err := ParseProfile("  ")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range All() {
		if p.Get(n) != nil {
			t.Fatalf("%s should be unknown", n)
		}
	}
}

func TestParseProfileRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", `{"energy_kcal": 10, "unobtainium": 1}`},
		{"negative", `{"fat": -0.1}`},
		{"not an object", `[1, 2]`},
		{"not a number", `{"fat": "lots"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseProfile(tt.input); !errors.Is(err, services.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}
