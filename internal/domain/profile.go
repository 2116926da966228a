package domain

import "time"

// GamificationProfile es el estado persistido de progreso por usuario.
// El umbral del siguiente nivel es 100*level^2.
type GamificationProfile struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name,omitempty"`
	XP            int       `json:"xp"`
	Level         int       `json:"level"`
	CurrentStreak int       `json:"current_streak"`
	LastActiveAt  time.Time `json:"last_active_at"`
}

// ProfileSummary es la vista que consume el cliente para la barra de XP.
type ProfileSummary struct {
	XP              int     `json:"xp"`
	Level           int     `json:"level"`
	CurrentStreak   int     `json:"current_streak"`
	FullName        string  `json:"full_name,omitempty"`
	NextLevelXP     int     `json:"nextLevelXp"`
	ProgressPercent float64 `json:"progressPercent"`
}

// XPResult es el resultado de una acreditación de XP.
type XPResult struct {
	XP            int  `json:"xp"`
	Level         int  `json:"level"`
	CurrentStreak int  `json:"current_streak"`
	LeveledUp     bool `json:"leveledUp"`
	XPAdded       int  `json:"xpAdded"`
}
