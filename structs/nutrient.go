package structs

// MacroGrams 目標三大營養素克數
type MacroGrams struct {
	Carbs   int `json:"carbs"`
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
}

// CurrentNutrients 目前攝取量, 用來對照目標
type CurrentNutrients struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Water    float64 `json:"water"`
}

// GoalProgress 目標達成率 (%), 目標為 0 時為 null
type GoalProgress struct {
	Calories *float64 `json:"calories"`
	Proteins *float64 `json:"proteins"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
	Water    *float64 `json:"water"`
}
