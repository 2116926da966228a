package domain

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

const (
	GoalMuscleGain  = "muscle_gain"
	GoalWeightLoss  = "weight_loss"
	GoalMaintenance = "maintenance"
)

// BodyProfile son los datos corporales que entran al cálculo de métricas.
// Es transitorio: cada cálculo se materializa como un Measurement.
type BodyProfile struct {
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
}

type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
}

// MetricsResult es la respuesta completa del cálculo BMI/TMB/TDEE/macros.
type MetricsResult struct {
	BMI         string `json:"bmi"`
	Status      string `json:"status"`
	TMB         int    `json:"tmb"`
	TDEE        int    `json:"tdee"`
	CalorieGoal int    `json:"calorieGoal"`
	Macros      Macros `json:"macros"`
	Explanation string `json:"explanation"`
}

// Measurement es un registro inmutable del historial corporal.
// Los campos derivados son punteros porque un registro de peso manual
// no los trae.
type Measurement struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Weight     float64   `json:"weight"`
	BMI        *float64  `json:"bmi,omitempty"`
	TMB        *int      `json:"tmb,omitempty"`
	TDEE       *int      `json:"tdee,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
