package domain

const (
	MissionTypeMovement  = "movement"
	MissionTypeNutrition = "nutrition"
	MissionTypeMind      = "mind"
)

// Mission es un micro-objetivo diario. Se reinicia cada día calendario y
// completed solo transiciona false -> true.
type Mission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Type      string `json:"type"`
	XPReward  int    `json:"xpReward"`
	Completed bool   `json:"completed"`
}

// DefaultMissions devuelve copias frescas (completed=false) del set fijo
// de tres misiones diarias.
func DefaultMissions() []Mission {
	return []Mission{
		{ID: "m_move", Title: "Mover el Esqueleto", Icon: "barbell", Type: MissionTypeMovement, XPReward: 50},
		{ID: "m_eat", Title: "Comer Limpio", Icon: "restaurant", Type: MissionTypeNutrition, XPReward: 30},
		{ID: "m_water", Title: "Hidratación", Icon: "water", Type: MissionTypeMind, XPReward: 20},
	}
}
