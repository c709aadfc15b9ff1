package structs

type WeightStats struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg *float64 `json:"avg"`
}

// Stats 區間內每日紀錄的平均與加總
type Stats struct {
	From            string      `json:"from"`
	To              string      `json:"to"`
	Days            int         `json:"days"`
	AvgCalories     float64     `json:"avg_calories"`
	AvgProteins     float64     `json:"avg_proteins"`
	AvgCarbs        float64     `json:"avg_carbs"`
	AvgFats         float64     `json:"avg_fats"`
	AvgFiber        float64     `json:"avg_fiber"`
	AvgWater        float64     `json:"avg_water"`
	AvgBurned       float64     `json:"avg_burned_calories"`
	TotalCalories   float64     `json:"total_calories"`
	TotalProteins   float64     `json:"total_proteins"`
	TotalCarbs      float64     `json:"total_carbs"`
	TotalFats       float64     `json:"total_fats"`
	TotalFiber      float64     `json:"total_fiber"`
	TotalWater      float64     `json:"total_water"`
	TotalBurned     float64     `json:"total_burned_calories"`
	TotalMeals      int         `json:"total_meals"`
	TotalActivities int         `json:"total_activities"`
	Weight          WeightStats `json:"weight"`
}

type DayProgress struct {
	Date        string             `json:"date"`
	Percentages map[string]float64 `json:"percentages"`
}

type Streaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

type Summary struct {
	Summary        Stats         `json:"summary"`
	RecentProgress []DayProgress `json:"recent_progress"`
	Streaks        Streaks       `json:"streaks"`
}

// PeriodReport 一週或一個月的區塊
type PeriodReport struct {
	Label       string  `json:"label"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Stats       Stats   `json:"stats"`
	Streaks     Streaks `json:"streaks"`
	SuccessDays int     `json:"success_days"`
	TotalDays   int     `json:"total_days"`
	SuccessRate float64 `json:"success_rate"`
}

type Report struct {
	Period      string         `json:"period"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Partitions  []PeriodReport `json:"partitions"`
	Overall     Stats          `json:"overall"`
	Streaks     Streaks        `json:"streaks"`
	SuccessDays int            `json:"success_days"`
	TotalDays   int            `json:"total_days"`
	SuccessRate float64        `json:"success_rate"`
}

type MetricChange struct {
	A             float64 `json:"a"`
	B             float64 `json:"b"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

type Comparison struct {
	A       Stats                   `json:"a"`
	B       Stats                   `json:"b"`
	Metrics map[string]MetricChange `json:"metrics"`
}
