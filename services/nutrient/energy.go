package nutrient

import (
	"nutrition-go-worker/services"
	"nutrition-go-worker/structs"
)

// 每克熱量 (kcal)
const (
	KcalPerGramCarbs   = 4.0
	KcalPerGramProtein = 4.0
	KcalPerGramFat     = 9.0
)

// MacroGrams 熱量依百分比分配後換算成克數, 四捨五入到整數
func MacroGrams(calories int, carbsPercent, proteinPercent, fatPercent float64) structs.MacroGrams {
	cal := float64(calories)
	return structs.MacroGrams{
		Carbs:   services.Round(cal * carbsPercent / 100 / KcalPerGramCarbs),
		Protein: services.Round(cal * proteinPercent / 100 / KcalPerGramProtein),
		Fat:     services.Round(cal * fatPercent / 100 / KcalPerGramFat),
	}
}
