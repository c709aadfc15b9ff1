package nutrient

// Nutrient 營養素在 schema 中的位置
type Nutrient int

const (
	Energy Nutrient = iota
	Proteins
	Carbohydrates
	Sugars
	Starch
	Polyols
	Fat
	SaturatedFat
	MonounsaturatedFat
	PolyunsaturatedFat
	TransFat
	Omega3Fat
	Omega6Fat
	Fiber
	Salt
	Sodium
	Cholesterol
	VitaminA
	VitaminD
	VitaminE
	VitaminK
	VitaminC
	VitaminB1
	VitaminB2
	VitaminB3
	VitaminB5
	VitaminB6
	VitaminB9
	VitaminB12
	Biotin
	Potassium
	Calcium
	Phosphorus
	Iron
	Magnesium
	Zinc
	Copper
	Manganese
	Selenium
	Iodine
	Chloride
	Fluoride
	Chromium
	Molybdenum
	Caffeine

	numNutrients
)

const (
	// MacroPrecision 熱量、三大營養素、纖維、糖
	MacroPrecision int32 = 1
	// MicroPrecision 鹽、鈉、維生素、礦物質
	MicroPrecision int32 = 2
)

type Field struct {
	Key       string
	Unit      string
	Precision int32
}

// Schema 所有元件共用的營養素欄位表, 順序即 Nutrient 值
var Schema = [numNutrients]Field{
	Energy:             {"energy_kcal", "kcal", MacroPrecision},
	Proteins:           {"proteins", "g", MacroPrecision},
	Carbohydrates:      {"carbohydrates", "g", MacroPrecision},
	Sugars:             {"sugars", "g", MacroPrecision},
	Starch:             {"starch", "g", MacroPrecision},
	Polyols:            {"polyols", "g", MacroPrecision},
	Fat:                {"fat", "g", MacroPrecision},
	SaturatedFat:       {"saturated_fat", "g", MacroPrecision},
	MonounsaturatedFat: {"monounsaturated_fat", "g", MacroPrecision},
	PolyunsaturatedFat: {"polyunsaturated_fat", "g", MacroPrecision},
	TransFat:           {"trans_fat", "g", MacroPrecision},
	Omega3Fat:          {"omega_3_fat", "g", MacroPrecision},
	Omega6Fat:          {"omega_6_fat", "g", MacroPrecision},
	Fiber:              {"fiber", "g", MacroPrecision},
	Salt:               {"salt", "g", MicroPrecision},
	Sodium:             {"sodium", "mg", MicroPrecision},
	Cholesterol:        {"cholesterol", "mg", MicroPrecision},
	VitaminA:           {"vitamin_a", "µg", MicroPrecision},
	VitaminD:           {"vitamin_d", "µg", MicroPrecision},
	VitaminE:           {"vitamin_e", "mg", MicroPrecision},
	VitaminK:           {"vitamin_k", "µg", MicroPrecision},
	VitaminC:           {"vitamin_c", "mg", MicroPrecision},
	VitaminB1:          {"vitamin_b1", "mg", MicroPrecision},
	VitaminB2:          {"vitamin_b2", "mg", MicroPrecision},
	VitaminB3:          {"vitamin_b3", "mg", MicroPrecision},
	VitaminB5:          {"vitamin_b5", "mg", MicroPrecision},
	VitaminB6:          {"vitamin_b6", "mg", MicroPrecision},
	VitaminB9:          {"vitamin_b9", "µg", MicroPrecision},
	VitaminB12:         {"vitamin_b12", "µg", MicroPrecision},
	Biotin:             {"biotin", "µg", MicroPrecision},
	Potassium:          {"potassium", "mg", MicroPrecision},
	Calcium:            {"calcium", "mg", MicroPrecision},
	Phosphorus:         {"phosphorus", "mg", MicroPrecision},
	Iron:               {"iron", "mg", MicroPrecision},
	Magnesium:          {"magnesium", "mg", MicroPrecision},
	Zinc:               {"zinc", "mg", MicroPrecision},
	Copper:             {"copper", "mg", MicroPrecision},
	Manganese:          {"manganese", "mg", MicroPrecision},
	Selenium:           {"selenium", "µg", MicroPrecision},
	Iodine:             {"iodine", "µg", MicroPrecision},
	Chloride:           {"chloride", "mg", MicroPrecision},
	Fluoride:           {"fluoride", "mg", MicroPrecision},
	Chromium:           {"chromium", "µg", MicroPrecision},
	Molybdenum:         {"molybdenum", "µg", MicroPrecision},
	Caffeine:           {"caffeine", "mg", MicroPrecision},
}

// TotalFields 餐點與每日紀錄會加總的欄位, 加總後一律取小數一位
var TotalFields = []Nutrient{Energy, Proteins, Carbohydrates, Fat, Fiber}

const TotalPrecision int32 = 1

var byKey = func() map[string]Nutrient {
	m := make(map[string]Nutrient, numNutrients)
	for i, f := range Schema {
		m[f.Key] = Nutrient(i)
	}
	return m
}()

func (n Nutrient) Field() Field {
	return Schema[n]
}

func (n Nutrient) String() string {
	if n < 0 || n >= numNutrients {
		return "unknown"
	}
	return Schema[n].Key
}

// Lookup 由 key 找出營養素
func Lookup(key string) (Nutrient, bool) {
	n, ok := byKey[key]
	return n, ok
}

// All 依 schema 順序回傳所有營養素
func All() []Nutrient {
	all := make([]Nutrient, numNutrients)
	for i := range all {
		all[i] = Nutrient(i)
	}
	return all
}
